package grievancetype

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/grievance-management/internal/transport"
	"github.com/frahmantamala/grievance-management/pkg/logger"
)

type ServiceAPI interface {
	ListTypes(ctx context.Context) ([]Type, error)
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

func (h *Handler) ListTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.Service.ListTypes(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, TypesResponse{
		GrievanceTypes: types,
	})
}
