package middleware

import (
	"net/http"

	"github.com/frahmantamala/grievance-management/internal"
	"github.com/frahmantamala/grievance-management/pkg/logger"
)

// UserContext tags the request logger with the authenticated caller. It
// must run after the authentication middleware.
func UserContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := internal.IdentityFromContext(r.Context())
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		ctx := logger.With(r.Context(), "user_id", id.ID, "role", string(id.Role))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
