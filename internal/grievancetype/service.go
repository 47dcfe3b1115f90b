package grievancetype

import (
	"context"
	"log/slog"

	grievancetypeDatamodel "github.com/frahmantamala/grievance-management/internal/core/datamodel/grievancetype"
)

type RepositoryAPI interface {
	// List returns every catalog row in display order.
	List(ctx context.Context) ([]*grievancetypeDatamodel.GrievanceType, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// ListTypes returns the active catalog.
func (s *Service) ListTypes(ctx context.Context) ([]Type, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to get grievance types from repository", "error", err)
		return nil, err
	}

	types := Group(rows)
	s.logger.Debug("retrieved grievance types", "count", len(types))
	return types, nil
}
