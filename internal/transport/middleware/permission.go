package middleware

import (
	"net/http"

	"github.com/frahmantamala/grievance-management/internal"
	"github.com/frahmantamala/grievance-management/internal/core/role"
	"github.com/frahmantamala/grievance-management/internal/transport"
	"github.com/frahmantamala/grievance-management/pkg/logger"
)

// RequireRole rejects callers whose role ranks below min.
func RequireRole(min role.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			base := transport.NewBaseHandler(logger.From(r.Context()))

			id, ok := internal.IdentityFromContext(r.Context())
			if !ok {
				base.HandleServiceError(w, r, internal.ErrUnauthenticated)
				return
			}

			if !role.AtLeast(id.Role, min) {
				logger.From(r.Context()).Warn("access denied: insufficient role",
					"user_id", id.ID,
					"role", id.Role,
					"required_role", min,
					"path", r.URL.Path)
				base.HandleServiceError(w, r, forbiddenFor(min))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func forbiddenFor(min role.Role) error {
	if min == role.Admin {
		return internal.ErrAdminRequired
	}
	return internal.ErrSupervisorRequired
}
