package session

import (
	"context"
	"net/http"
	"strings"

	"AspectoStore/pkg/kit"
)

type ctxKey string

const sessionKey ctxKey = "session"

// FromContext returns the session id (the cart slot name) of the request.
func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionKey).(string)
	return id, ok
}

// WithSession returns a context carrying the session id directly, bypassing
// token parsing. Handler tests use it in place of Require.
func WithSession(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey, id)
}

// Require rejects requests without a valid session bearer token and puts the
// session id on the request context.
func Require(tm *TokenMaker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			if !strings.HasPrefix(authz, "Bearer ") {
				kit.WriteError(w, r, http.StatusUnauthorized, "missing session", nil)
				return
			}

			claims, err := tm.Parse(strings.TrimPrefix(authz, "Bearer "))
			if err != nil {
				kit.WriteError(w, r, http.StatusUnauthorized, "invalid session", nil)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), claims.SessionID)))
		})
	}
}
