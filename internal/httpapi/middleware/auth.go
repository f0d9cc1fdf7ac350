package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

const apiKeyHeader = "X-API-Key"

// presentedToken takes the bearer credential first, the API key header second.
func presentedToken(r *http.Request) string {
	if scheme, cred, ok := strings.Cut(r.Header.Get("Authorization"), " "); ok && strings.EqualFold(scheme, "bearer") {
		return strings.TrimSpace(cred)
	}
	return strings.TrimSpace(r.Header.Get(apiKeyHeader))
}

func tokenAllowed(token string, allowed []string) bool {
	if token == "" {
		return false
	}
	match := 0
	for _, a := range allowed {
		match |= subtle.ConstantTimeCompare([]byte(a), []byte(token))
	}
	return match == 1
}

// RequireToken guards the status endpoints. An empty token list turns the
// check off.
func RequireToken(tokens []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if len(tokens) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !tokenAllowed(presentedToken(r), tokens) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
