package postgres

import (
	"context"
	"fmt"

	"github.com/frahmantamala/grievance-management/internal/audit"
	auditDatamodel "github.com/frahmantamala/grievance-management/internal/core/datamodel/audit"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create is idempotent on event id, so a redelivered event writes one row.
func (r *AuditRepository) Create(ctx context.Context, e *audit.Entry) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "event_id"}}, DoNothing: true}).
		Create(audit.ToDataModel(e)).Error
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (r *AuditRepository) List(ctx context.Context, filter audit.ListFilter) ([]*audit.Entry, error) {
	q := r.db.WithContext(ctx).Model(&auditDatamodel.Entry{})
	if filter.SubjectType != "" {
		q = q.Where("subject_type = ?", filter.SubjectType)
	}
	if filter.SubjectID != "" {
		q = q.Where("subject_id = ?", filter.SubjectID)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var rows []*auditDatamodel.Entry
	if err := q.Order("occurred_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}

	result := make([]*audit.Entry, len(rows))
	for i, row := range rows {
		result[i] = audit.FromDataModel(row)
	}
	return result, nil
}
