package main

import (
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// App holds the request-scoped collaborators of every handler. There is no
// ambient global state: handlers reach the store and the session guard only
// through their receiver.
type App struct {
	store    *Storage
	sessions *sessions.CookieStore
	hasher   PasswordHasher
	cache    *TweetCache
	log      *logrus.Logger
}

func NewApp(store *Storage, sessionStore *sessions.CookieStore, hasher PasswordHasher, cache *TweetCache, log *logrus.Logger) *App {
	return &App{
		store:    store,
		sessions: sessionStore,
		hasher:   hasher,
		cache:    cache,
		log:      log,
	}
}

// serverError logs the underlying fault and answers with a generic envelope.
func (a *App) serverError(w http.ResponseWriter, err error) {
	a.log.WithError(err).Error("internal error")
	respondError(w, http.StatusInternalServerError, "Internal server error.")
}

// GET / — greeting keyed on auth state
func (a *App) indexHandler(w http.ResponseWriter, r *http.Request) {
	if u := a.sessionUser(r); u != nil {
		respondJSON(w, http.StatusOK, fmt.Sprintf("Hello, %s !", u.Username))
		return
	}
	respondJSON(w, http.StatusOK, "Hello, please register or login!")
}

// GET /users — debug dump of all accounts
func (a *App) usersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := a.store.AllUsers(r.Context())
	if err != nil {
		a.serverError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, users)
}

// GET /healthz — liveness probe
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	if err := a.store.Ping(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, "Database unreachable.")
		return
	}
	respondSuccess(w, "OK")
}

// GET /register — registration form (redirect to / when already logged in)
func (a *App) registerPageHandler(w http.ResponseWriter, r *http.Request) {
	if a.sessionUser(r) != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	renderPage(w, "register.html")
}

// POST /register
func (a *App) registerHandler(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")
	password2 := r.FormValue("password2")

	if username == "" || password == "" || password2 == "" {
		respondError(w, http.StatusBadRequest, "Fields are required to be filled.")
		return
	}
	if password != password2 {
		respondError(w, http.StatusUnauthorized, "Password mismatch!")
		return
	}

	_, err := a.store.UserByName(r.Context(), username)
	if err == nil {
		respondError(w, http.StatusConflict, "User exists, try another username!")
		return
	}
	if !errors.Is(err, errNotFound) {
		a.serverError(w, err)
		return
	}

	hash, err := a.hasher.Hash(password)
	if err != nil {
		a.serverError(w, err)
		return
	}
	if _, err := a.store.CreateUser(r.Context(), username, hash); err != nil {
		a.serverError(w, err)
		return
	}

	a.log.WithField("username", username).Info("user registered")
	http.Redirect(w, r, "/login", http.StatusFound)
}

// GET /login — login form (redirect to / when already logged in)
func (a *App) loginPageHandler(w http.ResponseWriter, r *http.Request) {
	if a.sessionUser(r) != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	renderPage(w, "login.html")
}

// POST /login
func (a *App) loginHandler(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	if username == "" || password == "" {
		respondError(w, http.StatusBadRequest, "Fields are required to be filled.")
		return
	}

	u, err := a.store.UserByName(r.Context(), username)
	if errors.Is(err, errNotFound) {
		respondError(w, http.StatusNotFound, "User not found!")
		return
	}
	if err != nil {
		a.serverError(w, err)
		return
	}
	if !a.hasher.Verify(u.PwHash, password) {
		respondError(w, http.StatusUnauthorized, "Incorrect password!")
		return
	}

	a.bindSession(w, r, u)
	a.log.WithField("username", username).Info("user logged in")
	http.Redirect(w, r, "/", http.StatusFound)
}

// GET /logout — clears the session unconditionally
func (a *App) logoutHandler(w http.ResponseWriter, r *http.Request) {
	a.clearSession(w, r)
	http.Redirect(w, r, "/", http.StatusFound)
}
