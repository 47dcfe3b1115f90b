package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/frahmantamala/grievance-management/internal"
	"github.com/frahmantamala/grievance-management/internal/auth"
	accountDatamodel "github.com/frahmantamala/grievance-management/internal/core/datamodel/account"
	"github.com/frahmantamala/grievance-management/internal/core/identity"
	"github.com/frahmantamala/grievance-management/internal/core/role"
	"gorm.io/gorm"
)

// Repository reads the slice of the users table authentication needs.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetCredentials(ctx context.Context, email string) (*auth.Credentials, error) {
	var row accountDatamodel.Account
	err := r.db.WithContext(ctx).
		Select("id", "password_hash", "is_active").
		Where("email = ?", email).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrAccountNotFound
		}
		return nil, fmt.Errorf("get credentials: %w", err)
	}
	return &auth.Credentials{
		AccountID:    row.ID,
		PasswordHash: row.PasswordHash,
		IsActive:     row.IsActive,
	}, nil
}

func (r *Repository) GetPrincipal(ctx context.Context, accountID string) (*auth.Principal, error) {
	var row accountDatamodel.Account
	err := r.db.WithContext(ctx).
		Select("id", "email", "name", "role", "unit", "is_active").
		Where("id = ?", accountID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrAccountNotFound
		}
		return nil, fmt.Errorf("get principal %s: %w", accountID, err)
	}
	return &auth.Principal{
		Identity: &identity.Identity{
			ID:    row.ID,
			Email: row.Email,
			Name:  row.Name,
			Role:  role.Role(row.Role),
			Unit:  row.Unit,
		},
		IsActive: row.IsActive,
	}, nil
}
