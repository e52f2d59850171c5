package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/pkordes/timetable/backend/internal/auth"
	"github.com/pkordes/timetable/backend/internal/domain"
)

// AuthCookieName is the cookie browser clients carry the token in. API
// clients use the Authorization header instead; the header wins when both
// are present.
const AuthCookieName = "auth-token"

// TokenVerifier validates a token string and returns its claims.
// Satisfied by *auth.TokenIssuer.
type TokenVerifier interface {
	Verify(token string) (auth.Claims, error)
}

type ctxKey int

const claimsKey ctxKey = iota

// NewAuthenticator returns a middleware that requires a valid token on every
// request, taken from the Authorization Bearer header or the auth cookie.
// Verified claims are stored in the request context for handlers and
// RequireRole to read.
func NewAuthenticator(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeUnauthorized(w)
				return
			}
			claims, err := verifier.Verify(token)
			if err != nil {
				writeUnauthorized(w)
				return
			}
			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole returns a middleware that rejects authenticated requests whose
// token carries a different role. Wire it after NewAuthenticator.
func RequireRole(role domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok || claims.Role != role {
				writeForbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClaimsFromContext returns the verified claims stored by NewAuthenticator.
func ClaimsFromContext(ctx context.Context) (auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(auth.Claims)
	return claims, ok
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := r.Cookie(AuthCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":{"code":"unauthorized","message":"authentication required"}}`)) //nolint:errcheck
}

func writeForbidden(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	w.Write([]byte(`{"error":{"code":"forbidden","message":"insufficient role"}}`)) //nolint:errcheck
}
