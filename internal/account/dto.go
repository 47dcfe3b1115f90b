package account

import (
	"strings"

	"github.com/frahmantamala/grievance-management/internal"
	"github.com/frahmantamala/grievance-management/internal/core/common/validation"
	"github.com/frahmantamala/grievance-management/internal/core/role"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
	MaxEmailLength    = 200
	MaxNameLength     = 200
	MaxShortLength    = 50
	MaxUnitLength     = 100
)

type RegisterDTO struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	Name          string `json:"name"`
	ServiceNumber string `json:"service_number"`
	Rank          string `json:"rank"`
	Unit          string `json:"unit"`
	Position      string `json:"position"`
	Phone         string `json:"phone"`
	// Role defaults to user when empty.
	Role string `json:"role,omitempty"`
}

func (dto RegisterDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("email", NormalizeEmail(dto.Email)).Required().MaxLength(MaxEmailLength).Email()
	v.Field("password", dto.Password).Required().MinLength(MinPasswordLength).MaxLength(MaxPasswordLength)
	v.Field("name", dto.Name).MaxLength(MaxNameLength)
	v.Field("service_number", dto.ServiceNumber).MaxLength(MaxShortLength)
	v.Field("rank", dto.Rank).MaxLength(MaxShortLength)
	v.Field("unit", dto.Unit).MaxLength(MaxUnitLength)
	v.Field("position", dto.Position).MaxLength(MaxNameLength)
	v.Field("phone", dto.Phone).MaxLength(MaxShortLength)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func (dto RegisterDTO) RequestedRole() (role.Role, error) {
	if strings.TrimSpace(dto.Role) == "" {
		return role.User, nil
	}
	r, err := role.Parse(dto.Role)
	if err != nil {
		return "", internal.ErrInvalidRole
	}
	return r, nil
}

func (dto RegisterDTO) Profile() Profile {
	return Profile{
		Name:          dto.Name,
		ServiceNumber: dto.ServiceNumber,
		Rank:          dto.Rank,
		Unit:          dto.Unit,
		Position:      dto.Position,
		Phone:         dto.Phone,
	}
}

// ProfileUpdateDTO is the self-service PATCH /users/me body. Role is decoded
// only so it can be dropped; a caller can never change their own role here.
type ProfileUpdateDTO struct {
	Email         *string `json:"email,omitempty"`
	Password      *string `json:"password,omitempty"`
	Name          *string `json:"name,omitempty"`
	ServiceNumber *string `json:"service_number,omitempty"`
	Rank          *string `json:"rank,omitempty"`
	Unit          *string `json:"unit,omitempty"`
	Position      *string `json:"position,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Role          *string `json:"role,omitempty"`
}

func (dto ProfileUpdateDTO) Validate() error {
	v := validation.NewValidator()
	if dto.Email != nil {
		v.Field("email", NormalizeEmail(*dto.Email)).Required().MaxLength(MaxEmailLength).Email()
	}
	v.OptionalField("password", dto.Password).Required().MinLength(MinPasswordLength).MaxLength(MaxPasswordLength)
	v.OptionalField("name", dto.Name).MaxLength(MaxNameLength)
	v.OptionalField("service_number", dto.ServiceNumber).MaxLength(MaxShortLength)
	v.OptionalField("rank", dto.Rank).MaxLength(MaxShortLength)
	v.OptionalField("unit", dto.Unit).MaxLength(MaxUnitLength)
	v.OptionalField("position", dto.Position).MaxLength(MaxNameLength)
	v.OptionalField("phone", dto.Phone).MaxLength(MaxShortLength)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// AdminUpdateDTO is the PATCH /users/{id} body.
type AdminUpdateDTO struct {
	ProfileUpdateDTO
	IsActive *bool `json:"is_active,omitempty"`
}

type BootstrapAdminDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (dto BootstrapAdminDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("email", NormalizeEmail(dto.Email)).Required().MaxLength(MaxEmailLength).Email()
	v.Field("password", dto.Password).Required().MinLength(MinPasswordLength).MaxLength(MaxPasswordLength)
	v.Field("name", dto.Name).MaxLength(MaxNameLength)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
