package chi

import (
	"context"
	"net/http"
	"strings"
)

type principalKey struct{}

// DevPrincipal is the owner attributed to requests when authentication is
// disabled (no principals configured). Local development only.
const DevPrincipal = "dev@localhost"

// exemptPaths are routes that bypass authentication (health, metrics).
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// PrincipalFromContext returns the authenticated owner identity.
func PrincipalFromContext(ctx context.Context) string {
	if p, ok := ctx.Value(principalKey{}).(string); ok {
		return p
	}
	return ""
}

// ContextWithPrincipal attaches an owner identity; exported for tests and
// embedded use.
func ContextWithPrincipal(ctx context.Context, principal string) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// BearerAuthMiddleware validates Bearer tokens and resolves them to owner
// identities. principals maps API key to owner; with no principals
// configured authentication is disabled and everything runs as DevPrincipal.
func BearerAuthMiddleware(principals map[string]string) func(http.Handler) http.Handler {
	byKey := make(map[string]string, len(principals))
	for k, owner := range principals {
		if k != "" && owner != "" {
			byKey[k] = owner
		}
	}

	return func(next http.Handler) http.Handler {
		if len(byKey) == 0 {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), DevPrincipal)))
			})
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" {
				writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing authorization header")
				return
			}

			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(auth, bearerPrefix) {
				writeError(w, http.StatusUnauthorized, codeUnauthorized, "authorization header must use Bearer scheme")
				return
			}

			owner, ok := byKey[auth[len(bearerPrefix):]]
			if !ok {
				writeError(w, http.StatusUnauthorized, codeUnauthorized, "invalid api key")
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), owner)))
		})
	}
}
