package server

import (
	"context"
	"net/http"

	"careerly/internal/core"
)

// SessionProvider resolves the current user id from a request. Session
// handling itself lives outside this service; the provider is the opaque
// boundary to it.
type SessionProvider interface {
	UserID(r *http.Request) (string, error)
}

// HeaderSessionProvider trusts the user id asserted by an upstream gateway
// header. The gateway terminates authentication; this service only needs a
// stable id.
type HeaderSessionProvider struct {
	Header string
}

// UserID returns the gateway-asserted user id, or core.ErrUnauthorized when
// the header is absent.
func (p HeaderSessionProvider) UserID(r *http.Request) (string, error) {
	header := p.Header
	if header == "" {
		header = "X-User-ID"
	}
	id := r.Header.Get(header)
	if id == "" {
		return "", core.ErrUnauthorized
	}
	return id, nil
}

type contextKey string

const userIDKey contextKey = "userID"

// requireSession resolves the session user id and stores it on the request
// context, rejecting the request when no identity is present.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := s.sessions.UserID(r)
		if err != nil {
			s.respondError(w, core.ErrUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// currentUserID returns the session user id stored by requireSession.
func currentUserID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}
