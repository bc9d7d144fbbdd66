package main

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// GET /chat — chat form
func (a *App) chatPageHandler(w http.ResponseWriter, r *http.Request) {
	renderPage(w, "chat.html")
}

// POST /chat — send a direct message to another user
func (a *App) chatSendHandler(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	recipient := r.FormValue("_to")
	content := r.FormValue("content")

	if recipient == "" || content == "" {
		respondError(w, http.StatusBadRequest, "Fields are required to be filled.")
		return
	}

	if _, err := a.store.UserByName(r.Context(), recipient); err != nil {
		if errors.Is(err, errNotFound) {
			respondError(w, http.StatusNotFound, "User not found!")
			return
		}
		a.serverError(w, err)
		return
	}

	if err := a.store.CreateMessage(r.Context(), user.Username, recipient, content); err != nil {
		a.serverError(w, err)
		return
	}

	a.log.WithFields(logrus.Fields{"from": user.Username, "to": recipient}).Info("message sent")
	respondSuccess(w, "Message has been sent!")
}

// GET /history/sent — messages sent by the current user, oldest first
func (a *App) sentHistoryHandler(w http.ResponseWriter, r *http.Request) {
	msgs, err := a.store.MessagesSentBy(r.Context(), currentUser(r).Username)
	if err != nil {
		a.serverError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, msgs)
}

// GET /history/received — messages received by the current user, oldest first
func (a *App) receivedHistoryHandler(w http.ResponseWriter, r *http.Request) {
	msgs, err := a.store.MessagesReceivedBy(r.Context(), currentUser(r).Username)
	if err != nil {
		a.serverError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, msgs)
}
