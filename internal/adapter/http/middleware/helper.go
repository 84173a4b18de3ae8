package middleware

import (
	"encoding/json"
	"net/http"
)

// failure is the body written when a request is stopped before reaching a handler.
// It has the same shape as handler error responses.
type failure struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Error   string `json:"error"`
}

func unauthenticated(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="dispatch"`)
	writeFailure(w, http.StatusUnauthorized, failure{Code: "unauthenticated", Error: message})
}

func internalError(w http.ResponseWriter) {
	writeFailure(w, http.StatusInternalServerError, failure{Code: "internal", Error: "the server could not process the request"})
}

func writeFailure(w http.ResponseWriter, status int, f failure) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(f)
}
