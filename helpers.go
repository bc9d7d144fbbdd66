package main

import (
	"context"
	"embed"
	"html/template"
	"net/http"

	"github.com/gorilla/sessions"
	"golang.org/x/crypto/bcrypt"
)

// --- Session helpers ---

const sessionName = "session"

func newStore(secret string) *sessions.CookieStore {
	s := sessions.NewCookieStore([]byte(secret))
	s.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
	}
	return s
}

type ctxKey int

const userContextKey ctxKey = 0

// currentUser returns the authenticated user bound to the request context by
// requireAuth, or nil outside guarded handlers.
func currentUser(r *http.Request) *User {
	u, _ := r.Context().Value(userContextKey).(*User)
	return u
}

// sessionUser resolves the session cookie to a User. Returns nil when no
// identity is bound or the user no longer exists.
func (a *App) sessionUser(r *http.Request) *User {
	session, _ := a.sessions.Get(r, sessionName)
	userID, ok := session.Values["user_id"].(int)
	if !ok {
		return nil
	}
	u, err := a.store.UserByID(r.Context(), userID)
	if err != nil {
		return nil
	}
	return &u
}

func (a *App) bindSession(w http.ResponseWriter, r *http.Request, u User) {
	session, _ := a.sessions.Get(r, sessionName)
	session.Values["user_id"] = u.ID
	session.Save(r, w)
}

func (a *App) clearSession(w http.ResponseWriter, r *http.Request) {
	session, _ := a.sessions.Get(r, sessionName)
	delete(session.Values, "user_id")
	session.Save(r, w)
}

// requireAuth guards a handler: the session must resolve to a user, which is
// then carried in the request context.
func (a *App) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := a.sessionUser(r)
		if u == nil {
			respondError(w, http.StatusUnauthorized, "You must be logged in.")
			return
		}
		ctx := context.WithValue(r.Context(), userContextKey, u)
		next(w, r.WithContext(ctx))
	}
}

// --- Password helpers ---

// PasswordHasher is the one-way hash capability used for stored credentials.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

type bcryptHasher struct{}

func (bcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func (bcryptHasher) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// --- Template helpers ---

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

func renderPage(w http.ResponseWriter, name string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	pageTemplates.ExecuteTemplate(w, name, nil)
}
