package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/nkhatri/udhaar/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// identityKey is the context key for the authenticated caller's identity.
const identityKey contextKey = "identity"

// GetIdentity extracts the caller's identity from the context.
// Returns the zero Identity if the request was not authenticated.
func GetIdentity(ctx context.Context) auth.Identity {
	identity, _ := ctx.Value(identityKey).(auth.Identity)
	return identity
}

// WithIdentity returns a context carrying the given identity.
func WithIdentity(ctx context.Context, identity auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// RequireAuth returns a middleware that validates bearer tokens and
// requires authentication. It extracts the token from the Authorization
// header, validates it, and adds the caller's identity to the request
// context. Requests without a valid token are rejected with 401.
func RequireAuth(tokens *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeAuthError(w, auth.ErrMissingToken)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				writeAuthError(w, auth.ErrInvalidToken)
				return
			}

			claims, err := tokens.Validate(parts[1])
			if err != nil {
				writeAuthError(w, auth.ErrInvalidToken)
				return
			}

			ctx := WithIdentity(r.Context(), claims.Identity())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// writeAuthError emits the standard {"error": ...} body with 401. The
// server package has its own response helpers, but middleware cannot
// import it without a cycle.
func writeAuthError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
