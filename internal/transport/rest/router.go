package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/grievance-management/internal/account"
	"github.com/frahmantamala/grievance-management/internal/audit"
	"github.com/frahmantamala/grievance-management/internal/auth"
	"github.com/frahmantamala/grievance-management/internal/core/role"
	"github.com/frahmantamala/grievance-management/internal/grievance"
	"github.com/frahmantamala/grievance-management/internal/grievancetype"
	"github.com/frahmantamala/grievance-management/internal/transport/middleware"
	"github.com/frahmantamala/grievance-management/internal/transport/swagger"
	"github.com/go-chi/chi"
)

// Handlers groups the HTTP handlers the router mounts. Auth is required
// for every protected route; the rest may be nil.
type Handlers struct {
	Health    *HealthHandler
	Auth      *auth.Handler
	Account   *account.Handler
	Grievance     *grievance.Handler
	GrievanceType *grievancetype.Handler
	Audit         *audit.Handler
}

type Options struct {
	AllowedOrigins []string
	// OpenAPIDocument is served at /openapi.yml when set.
	OpenAPIDocument []byte
}

func RegisterAllRoutes(router chi.Router, h Handlers, opts Options, logger *slog.Logger) {
	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware)

	if len(opts.OpenAPIDocument) > 0 {
		doc := opts.OpenAPIDocument
		router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/yaml")
			_, _ = w.Write(doc)
		})
		router.Handle("/swagger/*", swagger.Handler())
	}

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		if h.Health != nil {
			r.Get("/health", h.Health.healthCheckHandler)
			r.Get("/ping", h.Health.pingHandler)
		}

		if h.Auth == nil {
			return
		}

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
			sr.With(h.Auth.AuthMiddleware).Post("/logout", h.Auth.Logout)
			if h.Account != nil {
				sr.With(h.Auth.OptionalAuthMiddleware, middleware.UserContext).Post("/register", h.Account.Register)
			}
		})

		// Protected routes that require authentication
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)
			pr.Use(middleware.UserContext)

			if h.Account != nil {
				pr.Route("/users", func(ur chi.Router) {
					ur.Get("/me", h.Account.GetCurrentUser)
					ur.Patch("/me", h.Account.UpdateCurrentUser)
					ur.With(middleware.RequireRole(role.Supervisor)).Get("/all", h.Account.ListUsers)

					ur.Group(func(ar chi.Router) {
						ar.Use(middleware.RequireRole(role.Admin))
						ar.Get("/{id}", h.Account.GetUser)
						ar.Patch("/{id}", h.Account.UpdateUser)
						ar.Delete("/{id}", h.Account.DeleteUser)
					})
				})
			}

			if h.Grievance != nil {
				pr.Route("/grievances", h.Grievance.Routes)
			}

			if h.GrievanceType != nil {
				pr.Get("/grievance-types", h.GrievanceType.ListTypes)
			}

			if h.Audit != nil {
				pr.With(middleware.RequireRole(role.Admin)).Get("/audit", h.Audit.ListEntries)
			}
		})
	})
}
