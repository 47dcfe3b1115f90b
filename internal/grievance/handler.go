package grievance

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
	CreateGrievance(ctx context.Context, actor *identity.Identity, dto CreateGrievanceDTO) (*Grievance, error)
	ListGrievances(ctx context.Context, actor *identity.Identity) ([]*Grievance, error)
	ListOwnerGrievances(ctx context.Context, actor *identity.Identity, ownerID string) ([]*Grievance, error)
	ReadGrievance(ctx context.Context, actor *identity.Identity, id string) (*Grievance, error)
	UpdateGrievance(ctx context.Context, actor *identity.Identity, id string, dto UpdateGrievanceDTO) (*Grievance, error)
	DeleteGrievance(ctx context.Context, actor *identity.Identity, id string) error
	CreateNote(ctx context.Context, actor *identity.Identity, grievanceID string, dto CreateNoteDTO) (*NoteView, error)
	ListNotes(ctx context.Context, actor *identity.Identity, grievanceID string) ([]*NoteView, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

// Routes mounts the grievance endpoints. The caller is expected to have
// applied the authentication middleware.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.CreateGrievance)
	r.Get("/", h.ListGrievances)
	r.Get("/user/{userID}", h.ListOwnerGrievances)
	r.Get("/{id}", h.GetGrievance)
	r.Put("/{id}", h.UpdateGrievance)
	r.Patch("/{id}", h.UpdateGrievance)
	r.Delete("/{id}", h.DeleteGrievance)
	r.Post("/{id}/notes", h.CreateNote)
	r.Get("/{id}/notes", h.ListNotes)
}

func (h *Handler) actor(w http.ResponseWriter, r *http.Request) (*identity.Identity, bool) {
	actor, ok := internal.IdentityFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrUnauthenticated)
		return nil, false
	}
	return actor, true
}

func (h *Handler) CreateGrievance(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var dto CreateGrievanceDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	g, err := h.Service.CreateGrievance(r.Context(), actor, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, g)
}

func (h *Handler) ListGrievances(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	items, err := h.Service.ListGrievances(r.Context(), actor)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) ListOwnerGrievances(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	items, err := h.Service.ListOwnerGrievances(r.Context(), actor, chi.URLParam(r, "userID"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) GetGrievance(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	g, err := h.Service.ReadGrievance(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, g)
}

func (h *Handler) UpdateGrievance(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var dto UpdateGrievanceDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	g, err := h.Service.UpdateGrievance(r.Context(), actor, chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, g)
}

func (h *Handler) DeleteGrievance(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteGrievance(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var dto CreateNoteDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	note, err := h.Service.CreateNote(r.Context(), actor, chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, note)
}

func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	notes, err := h.Service.ListNotes(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, notes)
}
