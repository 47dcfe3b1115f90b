package audit

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/grievance-management/internal"
	"github.com/frahmantamala/grievance-management/internal/core/identity"
	"github.com/frahmantamala/grievance-management/internal/transport"
	"github.com/frahmantamala/grievance-management/pkg/logger"
)

type ServiceAPI interface {
	List(ctx context.Context, actor *identity.Identity, filter ListFilter) ([]*Entry, error)
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

// ListEntries handles GET /audit?subject_type=&subject_id=&limit=
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.IdentityFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrUnauthenticated)
		return
	}

	q := r.URL.Query()
	filter := ListFilter{
		SubjectType: q.Get("subject_type"),
		SubjectID:   q.Get("subject_id"),
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			h.HandleServiceError(w, r, internal.NewValidationFieldError("limit", "limit must be a positive integer", internal.ErrCodeValidationFailed))
			return
		}
		filter.Limit = limit
	}

	items, err := h.Service.List(r.Context(), actor, filter)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, items)
}
