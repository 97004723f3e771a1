package chi

import (
	"context"
	"net/http"
	"strings"

	"github.com/kailas-cloud/talentmatch/internal/domain/role"
)

// Identity headers set by the upstream gateway.
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

// exemptPaths are routes that bypass authentication (health, metrics).
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// BearerAuthMiddleware returns a middleware that validates Bearer tokens.
// If apiKeys is empty, authentication is disabled (pass-through).
func BearerAuthMiddleware(apiKeys []string) func(http.Handler) http.Handler {
	validKeys := make(map[string]struct{}, len(apiKeys))
	for _, k := range apiKeys {
		if k != "" {
			validKeys[k] = struct{}{}
		}
	}

	return func(next http.Handler) http.Handler {
		// Auth disabled, pass everything through
		if len(validKeys) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Exempt paths
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" {
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, "missing authorization header")
				return
			}

			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(auth, bearerPrefix) {
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, "authorization header must use Bearer scheme")
				return
			}

			token := auth[len(bearerPrefix):]
			if _, ok := validKeys[token]; !ok {
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, "invalid api key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Identity is the caller as asserted by the gateway.
type Identity struct {
	UserID string
	Role   role.Role
}

type identityKey struct{}

// IdentityMiddleware requires the gateway identity headers and stores the
// caller in the request context.
func IdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(HeaderUserID))
		if userID == "" {
			writeError(w, http.StatusUnauthorized, CodeUnauthorized, "missing "+HeaderUserID+" header")
			return
		}

		rl, err := role.Parse(r.Header.Get(HeaderUserRole))
		if err != nil {
			writeError(w, http.StatusUnauthorized, CodeUnauthorized,
				HeaderUserRole+" must be candidate or recruiter")
			return
		}

		ctx := context.WithValue(r.Context(), identityKey{}, Identity{UserID: userID, Role: rl})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// IdentityFrom returns the caller stored by IdentityMiddleware.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// RequireRole rejects callers whose role differs from r.
func RequireRole(r role.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			id, ok := IdentityFrom(req.Context())
			if !ok || id.Role != r {
				writeError(w, http.StatusForbidden, CodeForbidden, "this endpoint is for "+r.String()+"s only")
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}
