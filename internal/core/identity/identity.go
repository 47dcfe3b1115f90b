package identity

import (
	"strings"

	"github.com/frahmantamala/grievance-management/internal/core/role"
)

// Identity is the authenticated caller as supplied by the session layer.
// It is a snapshot of the account at request time.
type Identity struct {
	ID    string    `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name,omitempty"`
	Role  role.Role `json:"role"`
	Unit  string    `json:"unit,omitempty"`
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == role.Admin
}

func (i *Identity) IsSupervisor() bool {
	return i != nil && i.Role == role.Supervisor
}

func (i *Identity) HasUnit() bool {
	return i != nil && strings.TrimSpace(i.Unit) != ""
}

// DisplayName falls back to the email when no name is set.
func (i *Identity) DisplayName() string {
	if i == nil {
		return ""
	}
	if strings.TrimSpace(i.Name) != "" {
		return i.Name
	}
	return i.Email
}
