package http

import (
	"net/http"
	"strings"
)

// HandleHealth returns a simple health check response.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// MethodNotAllowed answers 405 for a path that only accepts the allowed methods.
// It is registered where ServeMux would otherwise redirect to a neighbouring
// trailing-slash pattern.
func MethodNotAllowed(allowed ...string) http.HandlerFunc {
	allow := strings.Join(allowed, ", ")
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", allow)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
