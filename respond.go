package main

import (
	"encoding/json"
	"net/http"
)

// JSON envelopes shared by all mutation endpoints.

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

func respondSuccess(w http.ResponseWriter, msg string) {
	respondJSON(w, http.StatusOK, map[string]string{"success": msg})
}
