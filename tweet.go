package main

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// GET /tweet — all tweets with their author's username and like count
func (a *App) listTweetsHandler(w http.ResponseWriter, r *http.Request) {
	if tweets, ok := a.cache.Get(r.Context()); ok {
		respondJSON(w, http.StatusOK, tweets)
		return
	}

	tweets, err := a.store.ListTweets(r.Context())
	if err != nil {
		a.serverError(w, err)
		return
	}
	a.cache.Set(r.Context(), tweets)
	respondJSON(w, http.StatusOK, tweets)
}

// POST /tweet
func (a *App) createTweetHandler(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	title := r.FormValue("title")
	content := r.FormValue("content")

	if title == "" || content == "" {
		respondError(w, http.StatusBadRequest, "Fields are required to be filled.")
		return
	}

	tweet, err := a.store.CreateTweet(r.Context(), user.ID, title, content)
	if err != nil {
		a.serverError(w, err)
		return
	}

	a.cache.Invalidate(r.Context())
	a.log.WithFields(logrus.Fields{"author": user.Username, "tweet_id": tweet.ID}).Info("tweet created")
	respondSuccess(w, "Tweet has been created!")
}

// PUT /tweet
func (a *App) updateTweetHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := tweetIDParam(w, r)
	if !ok {
		return
	}
	title := r.FormValue("title")
	content := r.FormValue("content")
	if title == "" || content == "" {
		respondError(w, http.StatusBadRequest, "Fields are required to be filled.")
		return
	}

	if err := a.store.UpdateTweet(r.Context(), id, title, content); err != nil {
		a.tweetError(w, err)
		return
	}

	a.cache.Invalidate(r.Context())
	respondSuccess(w, "Tweet has been updated!")
}

// DELETE /tweet
func (a *App) deleteTweetHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := tweetIDParam(w, r)
	if !ok {
		return
	}

	if err := a.store.DeleteTweet(r.Context(), id); err != nil {
		a.tweetError(w, err)
		return
	}

	a.cache.Invalidate(r.Context())
	respondSuccess(w, "Tweet has been deleted!")
}

// POST /like
func (a *App) likeTweetHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := tweetIDParam(w, r)
	if !ok {
		return
	}

	likes, err := a.store.LikeTweet(r.Context(), id)
	if err != nil {
		a.tweetError(w, err)
		return
	}

	a.cache.Invalidate(r.Context())
	respondSuccess(w, fmt.Sprintf("Tweet has been liked! Total likes: %d", likes))
}

// POST /unlike
func (a *App) unlikeTweetHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := tweetIDParam(w, r)
	if !ok {
		return
	}

	likes, err := a.store.UnlikeTweet(r.Context(), id)
	if err != nil {
		a.tweetError(w, err)
		return
	}

	a.cache.Invalidate(r.Context())
	respondSuccess(w, fmt.Sprintf("Tweet has been unliked! Total likes: %d", likes))
}

// tweetIDParam reads and validates the tweet_id form value. It writes the
// error envelope itself and reports whether the id is usable.
func tweetIDParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.FormValue("tweet_id")
	if raw == "" {
		respondError(w, http.StatusBadRequest, "Fields are required to be filled.")
		return 0, false
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Fields are required to be filled.")
		return 0, false
	}
	return id, true
}

func (a *App) tweetError(w http.ResponseWriter, err error) {
	if errors.Is(err, errNotFound) {
		respondError(w, http.StatusNotFound, "Tweet not found!")
		return
	}
	a.serverError(w, err)
}
