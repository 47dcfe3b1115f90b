package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/frahmantamala/grievance-management/internal"
	"github.com/frahmantamala/grievance-management/internal/account"
	accountDatamodel "github.com/frahmantamala/grievance-management/internal/core/datamodel/account"
	grievanceDatamodel "github.com/frahmantamala/grievance-management/internal/core/datamodel/grievance"
	"github.com/frahmantamala/grievance-management/internal/core/role"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AccountRepository implements account.Repository using GORM. The gorm.DB
// must be opened with TranslateError so duplicate emails surface as
// gorm.ErrDuplicatedKey.
type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) WithinTransaction(ctx context.Context, fn func(repo account.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AccountRepository{db: tx})
	})
}

func (r *AccountRepository) Create(ctx context.Context, a *account.Account) error {
	if err := r.db.WithContext(ctx).Create(account.ToDataModel(a)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return internal.ErrEmailTaken
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*account.Account, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, id string) (*account.Account, error) {
	return r.first(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id))
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*account.Account, error) {
	return r.first(r.db.WithContext(ctx).Where("email = ?", account.NormalizeEmail(email)))
}

func (r *AccountRepository) first(q *gorm.DB) (*account.Account, error) {
	var row accountDatamodel.Account
	if err := q.First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrAccountNotFound
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return account.FromDataModel(&row), nil
}

func (r *AccountRepository) List(ctx context.Context) ([]*account.Account, error) {
	var rows []*accountDatamodel.Account
	if err := r.db.WithContext(ctx).Order("created_at ASC").Order("email ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return account.FromDataModelSlice(rows), nil
}

func (r *AccountRepository) Update(ctx context.Context, a *account.Account) error {
	res := r.db.WithContext(ctx).
		Model(&accountDatamodel.Account{}).
		Where("id = ?", a.ID).
		Updates(map[string]interface{}{
			"email":          a.Email,
			"password_hash":  a.PasswordHash,
			"name":           a.Name,
			"service_number": a.ServiceNumber,
			"rank":           a.Rank,
			"unit":           a.Unit,
			"position":       a.Position,
			"phone":          a.Phone,
			"role":           string(a.Role),
			"is_active":      a.IsActive,
			"updated_at":     a.UpdatedAt,
		})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return internal.ErrEmailTaken
		}
		return fmt.Errorf("update account %s: %w", a.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return internal.ErrAccountNotFound
	}
	return nil
}

func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&accountDatamodel.Account{})
	if res.Error != nil {
		return fmt.Errorf("delete account %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return internal.ErrAccountNotFound
	}
	return nil
}

func (r *AccountRepository) CountByRole(ctx context.Context, rl role.Role) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&accountDatamodel.Account{}).Where("role = ?", string(rl)).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count accounts by role: %w", err)
	}
	return count, nil
}

func (r *AccountRepository) CountOwnedRecords(ctx context.Context, id string) (int64, error) {
	var grievances, notes int64
	db := r.db.WithContext(ctx)
	if err := db.Model(&grievanceDatamodel.Grievance{}).Where("user_id = ?", id).Count(&grievances).Error; err != nil {
		return 0, fmt.Errorf("count grievances of account %s: %w", id, err)
	}
	if err := db.Model(&grievanceDatamodel.Note{}).Where("user_id = ?", id).Count(&notes).Error; err != nil {
		return 0, fmt.Errorf("count notes of account %s: %w", id, err)
	}
	return grievances + notes, nil
}
