package main

// User represents a registered account. The password hash is opaque to
// everything except the PasswordHasher.
type User struct {
	ID       int    `db:"user_id" json:"id"`
	Username string `db:"username" json:"username"`
	PwHash   string `db:"pw_hash" json:"password_hash"`
}

// Message is a direct message between two users, addressed by username.
// Messages are immutable once sent.
type Message struct {
	ID        int    `db:"message_id"`
	Sender    string `db:"sender"`
	Recipient string `db:"recipient"`
	Content   string `db:"content"`
}

// Tweet is a short post owned by a user.
type Tweet struct {
	ID       int    `db:"tweet_id"`
	AuthorID int    `db:"author_id"`
	Title    string `db:"title"`
	Content  string `db:"content"`
	Likes    int    `db:"likes"`
}

// TweetView is a tweet joined with its author's username, as returned by the
// list endpoint.
type TweetView struct {
	ID      int    `db:"tweet_id" json:"id"`
	Author  string `db:"author" json:"author"`
	Title   string `db:"title" json:"title"`
	Content string `db:"content" json:"content"`
	Likes   int    `db:"likes" json:"likes"`
}

// SentMessage and ReceivedMessage are the history list items. The underscore
// keys match the wire format of the original API.
type SentMessage struct {
	To      string `db:"recipient" json:"_to"`
	Message string `db:"content" json:"message"`
}

type ReceivedMessage struct {
	From    string `db:"sender" json:"_from"`
	Message string `db:"content" json:"message"`
}
