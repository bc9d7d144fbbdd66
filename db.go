package main

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// errNotFound is returned by Storage methods when the requested row does not
// exist. Handlers translate it into a 404 envelope.
var errNotFound = errors.New("not found")

// Storage is the persistence layer over the users, messages and tweets tables.
type Storage struct {
	db *sqlx.DB
}

func openDB(path string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite database")
	}
	// SQLite allows a single writer; serializing connections avoids
	// SQLITE_BUSY under concurrent requests.
	db.SetMaxOpenConns(1)
	return db, nil
}

func NewStorage(db *sqlx.DB) *Storage {
	return &Storage{db: db}
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// --- Users ---

func (s *Storage) CreateUser(ctx context.Context, username, pwHash string) (User, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO users (username, pw_hash) VALUES (?, ?)", username, pwHash)
	if err != nil {
		return User{}, errors.Wrapf(err, "insert user %q", username)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return User{}, errors.Wrap(err, "user insert id")
	}
	return User{ID: int(id), Username: username, PwHash: pwHash}, nil
}

func (s *Storage) UserByName(ctx context.Context, username string) (User, error) {
	var u User
	err := s.db.GetContext(ctx, &u,
		"SELECT user_id, username, pw_hash FROM users WHERE username = ?", username)
	if err == sql.ErrNoRows {
		return User{}, errNotFound
	}
	if err != nil {
		return User{}, errors.Wrapf(err, "select user %q", username)
	}
	return u, nil
}

func (s *Storage) UserByID(ctx context.Context, id int) (User, error) {
	var u User
	err := s.db.GetContext(ctx, &u,
		"SELECT user_id, username, pw_hash FROM users WHERE user_id = ?", id)
	if err == sql.ErrNoRows {
		return User{}, errNotFound
	}
	if err != nil {
		return User{}, errors.Wrapf(err, "select user %d", id)
	}
	return u, nil
}

func (s *Storage) AllUsers(ctx context.Context) ([]User, error) {
	users := []User{}
	err := s.db.SelectContext(ctx, &users,
		"SELECT user_id, username, pw_hash FROM users ORDER BY user_id")
	if err != nil {
		return nil, errors.Wrap(err, "select users")
	}
	return users, nil
}

// --- Messages ---

func (s *Storage) CreateMessage(ctx context.Context, sender, recipient, content string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO messages (sender, recipient, content) VALUES (?, ?, ?)",
		sender, recipient, content)
	return errors.Wrapf(err, "insert message %s -> %s", sender, recipient)
}

func (s *Storage) MessagesSentBy(ctx context.Context, username string) ([]SentMessage, error) {
	msgs := []SentMessage{}
	err := s.db.SelectContext(ctx, &msgs,
		"SELECT recipient, content FROM messages WHERE sender = ? ORDER BY message_id", username)
	if err != nil {
		return nil, errors.Wrapf(err, "select messages sent by %q", username)
	}
	return msgs, nil
}

func (s *Storage) MessagesReceivedBy(ctx context.Context, username string) ([]ReceivedMessage, error) {
	msgs := []ReceivedMessage{}
	err := s.db.SelectContext(ctx, &msgs,
		"SELECT sender, content FROM messages WHERE recipient = ? ORDER BY message_id", username)
	if err != nil {
		return nil, errors.Wrapf(err, "select messages received by %q", username)
	}
	return msgs, nil
}

// --- Tweets ---

func (s *Storage) CreateTweet(ctx context.Context, authorID int, title, content string) (Tweet, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO tweets (author_id, title, content) VALUES (?, ?, ?)",
		authorID, title, content)
	if err != nil {
		return Tweet{}, errors.Wrap(err, "insert tweet")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Tweet{}, errors.Wrap(err, "tweet insert id")
	}
	return Tweet{ID: int(id), AuthorID: authorID, Title: title, Content: content}, nil
}

func (s *Storage) ListTweets(ctx context.Context) ([]TweetView, error) {
	tweets := []TweetView{}
	err := s.db.SelectContext(ctx, &tweets, `
		SELECT tweets.tweet_id, users.username AS author, tweets.title, tweets.content, tweets.likes
		FROM tweets JOIN users ON users.user_id = tweets.author_id
		ORDER BY tweets.tweet_id`)
	if err != nil {
		return nil, errors.Wrap(err, "select tweets")
	}
	return tweets, nil
}

func (s *Storage) UpdateTweet(ctx context.Context, id int, title, content string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE tweets SET title = ?, content = ? WHERE tweet_id = ?", title, content, id)
	if err != nil {
		return errors.Wrapf(err, "update tweet %d", id)
	}
	return noneUpdatedIsNotFound(res)
}

func (s *Storage) DeleteTweet(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM tweets WHERE tweet_id = ?", id)
	if err != nil {
		return errors.Wrapf(err, "delete tweet %d", id)
	}
	return noneUpdatedIsNotFound(res)
}

// LikeTweet increments the like count in a single statement, so concurrent
// likes cannot lose updates, and returns the new count.
func (s *Storage) LikeTweet(ctx context.Context, id int) (int, error) {
	var likes int
	err := s.db.GetContext(ctx, &likes,
		"UPDATE tweets SET likes = likes + 1 WHERE tweet_id = ? RETURNING likes", id)
	if err == sql.ErrNoRows {
		return 0, errNotFound
	}
	if err != nil {
		return 0, errors.Wrapf(err, "like tweet %d", id)
	}
	return likes, nil
}

// UnlikeTweet decrements the like count with a floor of zero.
func (s *Storage) UnlikeTweet(ctx context.Context, id int) (int, error) {
	var likes int
	err := s.db.GetContext(ctx, &likes,
		"UPDATE tweets SET likes = MAX(likes - 1, 0) WHERE tweet_id = ? RETURNING likes", id)
	if err == sql.ErrNoRows {
		return 0, errNotFound
	}
	if err != nil {
		return 0, errors.Wrapf(err, "unlike tweet %d", id)
	}
	return likes, nil
}

func noneUpdatedIsNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if n == 0 {
		return errNotFound
	}
	return nil
}
