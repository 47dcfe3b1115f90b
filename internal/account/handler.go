package account

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/grievance-management/internal"
	"github.com/frahmantamala/grievance-management/internal/core/identity"
	"github.com/frahmantamala/grievance-management/internal/transport"
	"github.com/frahmantamala/grievance-management/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Register(ctx context.Context, actor *identity.Identity, dto RegisterDTO) (*Account, error)
	Current(ctx context.Context, actor *identity.Identity) (*Account, error)
	GetAccount(ctx context.Context, actor *identity.Identity, id string) (*Account, error)
	ListAccounts(ctx context.Context, actor *identity.Identity) ([]*Account, error)
	UpdateProfile(ctx context.Context, actor *identity.Identity, dto ProfileUpdateDTO) (*Account, error)
	UpdateAccount(ctx context.Context, actor *identity.Identity, id string, dto AdminUpdateDTO) (*Account, error)
	DeleteAccount(ctx context.Context, actor *identity.Identity, id string) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// Register handles POST /auth/register. The caller may be anonymous.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.IdentityFromContext(r.Context())

	var dto RegisterDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	a, err := h.Service.Register(r.Context(), actor, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, a)
}

// GetCurrentUser handles GET /users/me
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.IdentityFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrUnauthenticated)
		return
	}

	a, err := h.Service.Current(r.Context(), actor)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, a)
}

// UpdateCurrentUser handles PATCH /users/me
func (h *Handler) UpdateCurrentUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.IdentityFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrUnauthenticated)
		return
	}

	var dto ProfileUpdateDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	a, err := h.Service.UpdateProfile(r.Context(), actor, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, a)
}

// ListUsers handles GET /users/all
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.IdentityFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrUnauthenticated)
		return
	}

	items, err := h.Service.ListAccounts(r.Context(), actor)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.IdentityFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrUnauthenticated)
		return
	}

	a, err := h.Service.GetAccount(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, a)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.IdentityFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrUnauthenticated)
		return
	}

	var dto AdminUpdateDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	a, err := h.Service.UpdateAccount(r.Context(), actor, chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, a)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.IdentityFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrUnauthenticated)
		return
	}

	if err := h.Service.DeleteAccount(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
