package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/frahmantamala/grievance-management/internal"
	grievanceDatamodel "github.com/frahmantamala/grievance-management/internal/core/datamodel/grievance"
	"github.com/frahmantamala/grievance-management/internal/grievance"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GrievanceRepository implements grievance.Repository using GORM
type GrievanceRepository struct {
	db *gorm.DB
}

func NewGrievanceRepository(db *gorm.DB) *GrievanceRepository {
	return &GrievanceRepository{db: db}
}

func (r *GrievanceRepository) WithinTransaction(ctx context.Context, fn func(repo grievance.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GrievanceRepository{db: tx})
	})
}

func (r *GrievanceRepository) Create(ctx context.Context, g *grievance.Grievance) error {
	if err := r.db.WithContext(ctx).Create(grievance.ToDataModel(g)).Error; err != nil {
		return fmt.Errorf("insert grievance: %w", err)
	}
	return nil
}

func (r *GrievanceRepository) GetByID(ctx context.Context, id string) (*grievance.Grievance, error) {
	return r.get(r.db.WithContext(ctx), id)
}

// GetByIDForUpdate takes a row lock held until the surrounding transaction ends.
func (r *GrievanceRepository) GetByIDForUpdate(ctx context.Context, id string) (*grievance.Grievance, error) {
	return r.get(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GrievanceRepository) get(db *gorm.DB, id string) (*grievance.Grievance, error) {
	var row grievanceDatamodel.Grievance
	err := db.Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrGrievanceNotFound
		}
		return nil, fmt.Errorf("get grievance %s: %w", id, err)
	}
	return grievance.FromDataModel(&row), nil
}

func (r *GrievanceRepository) List(ctx context.Context, filter grievance.ListFilter) ([]*grievance.Grievance, error) {
	q := r.db.WithContext(ctx).Model(&grievanceDatamodel.Grievance{})

	scope := filter.Scope
	if !scope.All {
		switch {
		case scope.OwnerID != "" && scope.Unit != "":
			q = q.Where("(user_id = ? OR unit = ?)", scope.OwnerID, scope.Unit)
		case scope.OwnerID != "":
			q = q.Where("user_id = ?", scope.OwnerID)
		case scope.Unit != "":
			q = q.Where("unit = ?", scope.Unit)
		default:
			return []*grievance.Grievance{}, nil
		}
	}
	if filter.OwnerID != "" {
		q = q.Where("user_id = ?", filter.OwnerID)
	}

	var rows []*grievanceDatamodel.Grievance
	if err := q.Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list grievances: %w", err)
	}
	return grievance.FromDataModelSlice(rows), nil
}

// Update writes every mutable column. user_id, unit and created_at are never written.
func (r *GrievanceRepository) Update(ctx context.Context, g *grievance.Grievance) error {
	res := r.db.WithContext(ctx).
		Model(&grievanceDatamodel.Grievance{}).
		Where("id = ?", g.ID).
		Updates(map[string]interface{}{
			"title":             g.Title,
			"description":       g.Description,
			"redress_sought":    g.RedressSought,
			"submitter_name":    g.SubmitterName,
			"service_number":    g.ServiceNumber,
			"rank":              g.Rank,
			"email":             g.Email,
			"phone":             g.Phone,
			"position":          g.Position,
			"grievance_type":    g.GrievanceType,
			"grievance_subtype": g.GrievanceSubtype,
			"status":            string(g.Status),
			"updated_at":        g.UpdatedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("update grievance %s: %w", g.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return internal.ErrGrievanceNotFound
	}
	return nil
}

// Delete removes the notes and then the grievance in one transaction. The
// schema also cascades, but the explicit delete keeps sqlite (no foreign
// key enforcement by default) consistent.
func (r *GrievanceRepository) Delete(ctx context.Context, id string) (int64, error) {
	var notesRemoved int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("grievance_id = ?", id).Delete(&grievanceDatamodel.Note{})
		if res.Error != nil {
			return fmt.Errorf("delete notes of grievance %s: %w", id, res.Error)
		}
		notesRemoved = res.RowsAffected

		res = tx.Where("id = ?", id).Delete(&grievanceDatamodel.Grievance{})
		if res.Error != nil {
			return fmt.Errorf("delete grievance %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return internal.ErrGrievanceNotFound
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return notesRemoved, nil
}

func (r *GrievanceRepository) CreateNote(ctx context.Context, n *grievance.Note) error {
	if err := r.db.WithContext(ctx).Create(grievance.NoteToDataModel(n)).Error; err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}
