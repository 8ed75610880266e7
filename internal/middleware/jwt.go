package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/user94a/pratico-server/internal/auth"
)

type key string

const identityKey key = "identity"

// IdentityFrom returns the authenticated identity stored by Auth.
func IdentityFrom(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityKey).(auth.Identity)
	return id, ok
}

// WithIdentity returns a context carrying the given identity. Used by tests
// to call protected handlers directly.
func WithIdentity(ctx context.Context, id auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// Auth verifies the bearer token on every request and stores the caller's
// identity in the request context. Requests without a valid token get 401.
func Auth(a auth.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				jsonUnauthorized(w, "missing authorization header")
				return
			}
			token := strings.TrimPrefix(header, "Bearer ")
			if token == header || token == "" {
				jsonUnauthorized(w, "missing authorization header")
				return
			}

			identity, err := a.Authenticate(r.Context(), token)
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrExpiredToken):
					jsonUnauthorized(w, "token expired")
				default:
					jsonUnauthorized(w, "invalid token")
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

func jsonUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"` + message + `"}`))
}
