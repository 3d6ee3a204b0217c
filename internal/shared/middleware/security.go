package middleware

import (
	"net"
	"net/http"
	"strings"
)

// HSTS tells browsers to use HTTPS for a year, subdomains included.
func HSTS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		next.ServeHTTP(w, r)
	})
}

// IsHostAllowed reports whether host matches one of allowedHosts, ignoring
// case and port. An empty allow list accepts every host.
func IsHostAllowed(host string, allowedHosts []string) bool {
	if len(allowedHosts) == 0 {
		return true
	}

	host = strings.ToLower(strings.TrimSpace(host))
	hostname := StripPort(host)

	for _, allowed := range allowedHosts {
		allowed = strings.ToLower(strings.TrimSpace(allowed))
		if host == allowed || hostname == StripPort(allowed) {
			return true
		}
	}

	return false
}

// StripPort returns host without its port or IPv6 brackets.
func StripPort(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return strings.TrimSuffix(strings.TrimPrefix(host, "["), "]")
}
