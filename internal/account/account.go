package account

import (
	"strings"
	"time"

	accountDatamodel "github.com/frahmantamala/grievance-management/internal/core/datamodel/account"
	"github.com/frahmantamala/grievance-management/internal/core/identity"
	"github.com/frahmantamala/grievance-management/internal/core/role"
	"github.com/google/uuid"
)

type Account struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	Name          string    `json:"name"`
	ServiceNumber string    `json:"service_number"`
	Rank          string    `json:"rank"`
	Unit          string    `json:"unit"`
	Position      string    `json:"position"`
	Phone         string    `json:"phone"`
	Role          role.Role `json:"role"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Profile holds the self-editable descriptive fields.
type Profile struct {
	Name          string
	ServiceNumber string
	Rank          string
	Unit          string
	Position      string
	Phone         string
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func NewAccount(email, passwordHash string, r role.Role, p Profile, now time.Time) *Account {
	now = now.UTC()
	return &Account{
		ID:            uuid.New().String(),
		Email:         NormalizeEmail(email),
		PasswordHash:  passwordHash,
		Name:          strings.TrimSpace(p.Name),
		ServiceNumber: strings.TrimSpace(p.ServiceNumber),
		Rank:          strings.TrimSpace(p.Rank),
		Unit:          strings.TrimSpace(p.Unit),
		Position:      strings.TrimSpace(p.Position),
		Phone:         strings.TrimSpace(p.Phone),
		Role:          r,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Identity snapshots the account for use as a request's caller.
func (a *Account) Identity() *identity.Identity {
	return &identity.Identity{
		ID:    a.ID,
		Email: a.Email,
		Name:  a.Name,
		Role:  a.Role,
		Unit:  a.Unit,
	}
}

func ToDataModel(a *Account) *accountDatamodel.Account {
	return &accountDatamodel.Account{
		ID:            a.ID,
		Email:         a.Email,
		PasswordHash:  a.PasswordHash,
		Name:          a.Name,
		ServiceNumber: a.ServiceNumber,
		Rank:          a.Rank,
		Unit:          a.Unit,
		Position:      a.Position,
		Phone:         a.Phone,
		Role:          string(a.Role),
		IsActive:      a.IsActive,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func FromDataModel(a *accountDatamodel.Account) *Account {
	return &Account{
		ID:            a.ID,
		Email:         a.Email,
		PasswordHash:  a.PasswordHash,
		Name:          a.Name,
		ServiceNumber: a.ServiceNumber,
		Rank:          a.Rank,
		Unit:          a.Unit,
		Position:      a.Position,
		Phone:         a.Phone,
		Role:          role.Role(a.Role),
		IsActive:      a.IsActive,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func FromDataModelSlice(rows []*accountDatamodel.Account) []*Account {
	result := make([]*Account, len(rows))
	for i, a := range rows {
		result[i] = FromDataModel(a)
	}
	return result
}
