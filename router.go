package main

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// setupRouter maps (method, path) pairs to handlers. Protected operations are
// wrapped with requireAuth.
func (a *App) setupRouter() *mux.Router {
	r := mux.NewRouter()
	r.Use(a.loggingMiddleware, metricsMiddleware)

	r.HandleFunc("/", a.indexHandler).Methods("GET")
	r.HandleFunc("/users", a.usersHandler).Methods("GET")
	r.HandleFunc("/healthz", a.healthHandler).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	r.HandleFunc("/register", a.registerPageHandler).Methods("GET")
	r.HandleFunc("/register", a.registerHandler).Methods("POST")
	r.HandleFunc("/login", a.loginPageHandler).Methods("GET")
	r.HandleFunc("/login", a.loginHandler).Methods("POST")
	r.HandleFunc("/logout", a.logoutHandler).Methods("GET")

	r.HandleFunc("/chat", a.requireAuth(a.chatPageHandler)).Methods("GET")
	r.HandleFunc("/chat", a.requireAuth(a.chatSendHandler)).Methods("POST")
	r.HandleFunc("/history/sent", a.requireAuth(a.sentHistoryHandler)).Methods("GET")
	r.HandleFunc("/history/received", a.requireAuth(a.receivedHistoryHandler)).Methods("GET")

	r.HandleFunc("/tweet", a.requireAuth(a.listTweetsHandler)).Methods("GET")
	r.HandleFunc("/tweet", a.requireAuth(a.createTweetHandler)).Methods("POST")
	r.HandleFunc("/tweet", a.requireAuth(a.updateTweetHandler)).Methods("PUT")
	r.HandleFunc("/tweet", a.requireAuth(a.deleteTweetHandler)).Methods("DELETE")
	r.HandleFunc("/like", a.requireAuth(a.likeTweetHandler)).Methods("POST")
	r.HandleFunc("/unlike", a.requireAuth(a.unlikeTweetHandler)).Methods("POST")

	return r
}

func (a *App) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		a.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rw.status,
			"duration": time.Since(start),
		}).Debug("request handled")
	})
}
