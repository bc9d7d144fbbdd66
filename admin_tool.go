//go:build ignore

package main

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"

	_ "github.com/mattn/go-sqlite3"
)

const adminToolDoc = `Twitter Clone Admin Tool

Usage:
  admin_tool -u            Dump all users to STDOUT.
  admin_tool -t            Dump all tweets and authors to STDOUT.
  admin_tool <tweet_id>... Reset the like count of the given tweets.
  admin_tool -h            Show this screen.`

func main() {
	if len(os.Args) < 2 {
		fmt.Println(adminToolDoc)
		return
	}

	db, err := sql.Open("sqlite3", "twitter_clone.db")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Can't open database: %s\n", err)
		os.Exit(1)
	}
	defer db.Close()

	switch os.Args[1] {
	case "-h":
		fmt.Println(adminToolDoc)
	case "-u":
		rows, err := db.Query("SELECT user_id, username FROM users ORDER BY user_id")
		if err != nil {
			fmt.Fprintf(os.Stderr, "SQL error: %s\n", err)
			os.Exit(1)
		}
		defer rows.Close()
		for rows.Next() {
			var id int
			var username string
			rows.Scan(&id, &username)
			fmt.Printf("%d,%s\n", id, username)
		}
	case "-t":
		rows, err := db.Query(`
			SELECT tweets.tweet_id, users.username, tweets.title, tweets.likes
			FROM tweets JOIN users ON users.user_id = tweets.author_id
			ORDER BY tweets.tweet_id`)
		if err != nil {
			fmt.Fprintf(os.Stderr, "SQL error: %s\n", err)
			os.Exit(1)
		}
		defer rows.Close()
		for rows.Next() {
			var id, likes int
			var username, title string
			rows.Scan(&id, &username, &title, &likes)
			fmt.Printf("%d,%s,%s,%d\n", id, username, title, likes)
		}
	default:
		for _, arg := range os.Args[1:] {
			id, err := strconv.Atoi(arg)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Invalid tweet ID: %s\n", arg)
				continue
			}
			_, err = db.Exec("UPDATE tweets SET likes = 0 WHERE tweet_id = ?", id)
			if err != nil {
				fmt.Fprintf(os.Stderr, "SQL error: %s\n", err)
			} else {
				fmt.Printf("Reset likes for tweet: %d\n", id)
			}
		}
	}
}
