package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/plura/dashboard/internal/api/response"
	"github.com/plura/dashboard/internal/identity"
)

// TokenVerifier turns a session token into the signed-in identity.
type TokenVerifier interface {
	Verify(token string) (*identity.Identity, error)
}

// Auth returns middleware that verifies the session token and stores the
// identity in the request context. The token comes from the Authorization
// header, or from the token query parameter for WebSocket upgrades.
func Auth(v TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				response.WriteError(w, http.StatusUnauthorized, "missing session token")
				return
			}

			id, err := v.Verify(token)
			if err != nil {
				response.WriteError(w, http.StatusUnauthorized, err.Error())
				return
			}

			ctx := identity.WithContext(r.Context(), id)
			zerolog.Ctx(ctx).UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("user", id.Subject)
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth stores the identity when a valid token is present and lets
// the request through otherwise.
func OptionalAuth(v TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := extractToken(r); token != "" {
				if id, err := v.Verify(token); err == nil {
					r = r.WithContext(identity.WithContext(r.Context(), id))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func extractToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		token, ok := strings.CutPrefix(h, "Bearer ")
		if !ok {
			return ""
		}
		return strings.TrimSpace(token)
	}
	if websocketUpgrade(r) {
		return r.URL.Query().Get("token")
	}
	return ""
}

func websocketUpgrade(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Upgrade"), "websocket")
}
