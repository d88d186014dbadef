package middleware

import (
	"context"
	"net/http"

	"github.com/fusebox-party/fusebox/pkg/sessions"
	"github.com/gorilla/mux"
)

type contextKey string

// SessionContextKey holds the *game.GameSession resolved by the host
// auth middleware.
const SessionContextKey contextKey = "session"

// HostAuthMiddleware wraps a handler with session lookup and host token
// validation.
type HostAuthMiddleware func(http.Handler) http.Handler

// NewHostAuthMiddleware creates a middleware that resolves the
// {sessionID} path variable against the registry, validates the
// X-Host-Token header, and stores the session in the request context.
func NewHostAuthMiddleware(registry *sessions.Registry) HostAuthMiddleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := mux.Vars(r)["sessionID"]
			session, err := registry.Get(sessionID)
			if err != nil {
				http.Error(w, "Session not found", http.StatusNotFound)
				return
			}
			if !session.AuthorizeHost(r.Header.Get("X-Host-Token")) {
				http.Error(w, "Invalid host token", http.StatusForbidden)
				return
			}
			ctx := context.WithValue(r.Context(), SessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
