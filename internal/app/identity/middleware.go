package identity

import (
	"context"
	"net/http"
	"strings"

	"rtchat/internal/pkg/resp"
)

// contextKey prevents key collisions with other packages storing request values.
type contextKey string

// contextIdentityKey is the key under which the resolved Identity is stored
// in the request context.
const contextIdentityKey contextKey = "identity"

// Middleware resolves the request's bearer token through the given Resolver
// and injects the resulting Identity into the request context.
//
// In strict mode a missing or invalid token terminates the request with 401.
// In permissive mode the request proceeds with an unverified identity.
func Middleware(res *Resolver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)

			id, cerr := res.Resolve(token, Hints{})
			if cerr != nil {
				resp.RespondError(w, r, cerr)
				return
			}

			ctx := context.WithValue(r.Context(), contextIdentityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext extracts the resolved Identity from the request context.
// The second return value is false when no identity was attached.
func FromContext(r *http.Request) (Identity, bool) {
	id, ok := r.Context().Value(contextIdentityKey).(Identity)
	return id, ok
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header. It returns the empty string when the header is absent or malformed.
func BearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}

	return parts[1]
}
