package postgres

import (
	"context"
	"fmt"

	grievancetypeDatamodel "github.com/frahmantamala/grievance-management/internal/core/datamodel/grievancetype"
	"gorm.io/gorm"
)

type GrievanceTypeRepository struct {
	db *gorm.DB
}

func NewGrievanceTypeRepository(db *gorm.DB) *GrievanceTypeRepository {
	return &GrievanceTypeRepository{db: db}
}

func (r *GrievanceTypeRepository) List(ctx context.Context) ([]*grievancetypeDatamodel.GrievanceType, error) {
	var rows []*grievancetypeDatamodel.GrievanceType
	if err := r.db.WithContext(ctx).Order("position ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list grievance types: %w", err)
	}
	return rows, nil
}
