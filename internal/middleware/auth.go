package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

// Injected key type to avoid context collisions
type contextKey string

const AdminContextKey = contextKey("admin")

// AdminAuthenticator verifies admin tokens and raw credentials
type AdminAuthenticator interface {
	VerifyToken(token string) error
	VerifyCredentials(username, password string) error
}

// AdminAuthMiddleware guards every path under prefix except the listed public ones.
// A request passes with "Authorization: Bearer <token>" or HTTP Basic credentials.
func AdminAuthMiddleware(auth AdminAuthenticator, prefix string, public []string, logger zerolog.Logger) func(http.Handler) http.Handler {
	open := make(map[string]bool, len(public))
	for _, p := range public {
		open[p] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := strings.TrimSuffix(r.URL.Path, "/")
			if !strings.HasPrefix(path+"/", prefix) || open[path] || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			subject, ok := authenticate(auth, r)
			if !ok {
				logger.Warn().Str("path", r.URL.Path).Msg("Admin authentication failed")
				w.Header().Set("WWW-Authenticate", `Basic realm="admin"`)
				writeJSONError(w, http.StatusUnauthorized, "Admin authentication required.", "UNAUTHORIZED", nil)
				return
			}
			ctx := context.WithValue(r.Context(), AdminContextKey, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func authenticate(auth AdminAuthenticator, r *http.Request) (string, bool) {
	if username, password, ok := r.BasicAuth(); ok {
		return username, auth.VerifyCredentials(username, password) == nil
	}
	authHeader := r.Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	if err := auth.VerifyToken(strings.TrimSpace(parts[1])); err != nil {
		return "", false
	}
	return "admin", true
}
