package api

import (
	"net/http"
	"strings"

	"github.com/veldt/opsdesk/internal/auth"
)

// SessionCookie is the name of the session token cookie set on login.
const SessionCookie = "opsdesk_session"

// sessionToken extracts the session token from the request: the session
// cookie for browser clients, or a Bearer Authorization header for API
// clients.
func sessionToken(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// SessionMiddleware returns middleware that requires a live session.
// If enabled is false, all requests pass through (disabled mode).
func SessionMiddleware(enabled bool, sessions *auth.Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled {
				next.ServeHTTP(w, r)
				return
			}
			if !sessions.Valid(sessionToken(r)) {
				writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
