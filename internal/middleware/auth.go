package middleware

import (
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/campus-food-finder/internal/config"
)

// APIKeyHeader carries the catalog administration key
const APIKeyHeader = "api_key"

// APIKeyAuth guards catalog administration routes. A missing key is 401, a
// key the config does not allow is 403. Search and lookups stay public.
func APIKeyAuth(auth config.AuthConfig, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(APIKeyHeader)

			switch {
			case key == "":
				http.Error(w, "Unauthorized: API key required", http.StatusUnauthorized)
			case !auth.Allows(key):
				logger.Warn("rejected catalog admin request",
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
				)
				http.Error(w, "Forbidden: Invalid API key", http.StatusForbidden)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
