package middleware

import (
	"net/http"
	"strings"

	"notas/internal/api"
	"notas/internal/auth"
)

// Auth resolves the session cookie to a user identity and adds it to the
// request context. Requests to protected paths without a valid session are
// rejected before any handler runs.
func Auth(sessions auth.Sessions, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublicEndpoint(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		cookie, err := r.Cookie(api.SessionCookie)
		if err != nil {
			unauthorized(w)
			return
		}

		userID, ok := sessions.Resolve(cookie.Value)
		if !ok {
			unauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), userID)))
	})
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"success":false,"message":"unauthorized"}`))
}

func isPublicEndpoint(path string) bool {
	// Exact match paths
	exactPaths := []string{"/", "/api/register", "/api/login", "/api/logout"}
	for _, p := range exactPaths {
		if path == p {
			return true
		}
	}
	// Prefix match paths
	prefixPaths := []string{"/static/"}
	for _, p := range prefixPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
