package grievance

import (
	"strings"
	"time"

	"github.com/frahmantamala/grievance-management/internal"
	"github.com/frahmantamala/grievance-management/internal/core/common/validation"
)

const (
	MaxTitleLength            = 200
	MaxDescriptionLength      = 2000
	MaxRedressSoughtLength    = 1000
	MaxSubmitterNameLength    = 200
	MaxServiceNumberLength    = 50
	MaxRankLength             = 50
	MaxEmailLength            = 200
	MaxPhoneLength            = 50
	MaxUnitLength             = 100
	MaxPositionLength         = 200
	MaxGrievanceTypeLength    = 100
	MaxGrievanceSubtypeLength = 100
	MaxNoteLength             = 5000
)

type CreateGrievanceDTO struct {
	Title            string `json:"title"`
	Description      string `json:"description"`
	RedressSought    string `json:"redress_sought"`
	SubmitterName    string `json:"submitter_name"`
	ServiceNumber    string `json:"service_number"`
	Rank             string `json:"rank"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Unit             string `json:"unit"`
	Position         string `json:"position"`
	GrievanceType    string `json:"grievance_type"`
	GrievanceSubtype string `json:"grievance_subtype"`
}

func (dto CreateGrievanceDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("title", dto.Title).Required().MaxLength(MaxTitleLength)
	v.Field("description", dto.Description).Required().MaxLength(MaxDescriptionLength)
	v.Field("redress_sought", dto.RedressSought).Required().MaxLength(MaxRedressSoughtLength)
	v.Field("submitter_name", dto.SubmitterName).Required().MaxLength(MaxSubmitterNameLength)
	v.Field("service_number", dto.ServiceNumber).Required().MaxLength(MaxServiceNumberLength)
	v.Field("rank", dto.Rank).Required().MaxLength(MaxRankLength)
	v.Field("email", strings.TrimSpace(dto.Email)).Required().MaxLength(MaxEmailLength).Email()
	v.Field("phone", dto.Phone).Required().MaxLength(MaxPhoneLength)
	v.Field("unit", dto.Unit).Required().MaxLength(MaxUnitLength)
	v.Field("position", dto.Position).Required().MaxLength(MaxPositionLength)
	v.Field("grievance_type", dto.GrievanceType).Required().MaxLength(MaxGrievanceTypeLength)
	v.Field("grievance_subtype", dto.GrievanceSubtype).Required().MaxLength(MaxGrievanceSubtypeLength)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// UpdateGrievanceDTO is the PUT/PATCH body. user_id, unit and created_at are
// decoded so they can be reported as ignored; they never reach the record.
type UpdateGrievanceDTO struct {
	Title            *string `json:"title,omitempty"`
	Description      *string `json:"description,omitempty"`
	RedressSought    *string `json:"redress_sought,omitempty"`
	SubmitterName    *string `json:"submitter_name,omitempty"`
	ServiceNumber    *string `json:"service_number,omitempty"`
	Rank             *string `json:"rank,omitempty"`
	Email            *string `json:"email,omitempty"`
	Phone            *string `json:"phone,omitempty"`
	Position         *string `json:"position,omitempty"`
	GrievanceType    *string `json:"grievance_type,omitempty"`
	GrievanceSubtype *string `json:"grievance_subtype,omitempty"`
	Status           *string `json:"status,omitempty"`

	UserID    *string    `json:"user_id,omitempty"`
	Unit      *string    `json:"unit,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

func (dto UpdateGrievanceDTO) Validate() error {
	v := validation.NewValidator()
	v.OptionalField("title", dto.Title).Required().MaxLength(MaxTitleLength)
	v.OptionalField("description", dto.Description).Required().MaxLength(MaxDescriptionLength)
	v.OptionalField("redress_sought", dto.RedressSought).Required().MaxLength(MaxRedressSoughtLength)
	v.OptionalField("submitter_name", dto.SubmitterName).Required().MaxLength(MaxSubmitterNameLength)
	v.OptionalField("service_number", dto.ServiceNumber).Required().MaxLength(MaxServiceNumberLength)
	v.OptionalField("rank", dto.Rank).Required().MaxLength(MaxRankLength)
	v.OptionalField("email", dto.Email).Required().MaxLength(MaxEmailLength).Email()
	v.OptionalField("phone", dto.Phone).Required().MaxLength(MaxPhoneLength)
	v.OptionalField("position", dto.Position).Required().MaxLength(MaxPositionLength)
	v.OptionalField("grievance_type", dto.GrievanceType).Required().MaxLength(MaxGrievanceTypeLength)
	v.OptionalField("grievance_subtype", dto.GrievanceSubtype).Required().MaxLength(MaxGrievanceSubtypeLength)
	v.OptionalField("status", dto.Status).OneOf(Statuses(), internal.ErrCodeInvalidStatus)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// ToPatch validates the body and converts it to a lifecycle Patch.
func (dto UpdateGrievanceDTO) ToPatch() (Patch, error) {
	if err := dto.Validate(); err != nil {
		return Patch{}, err
	}
	p := Patch{
		Title:            dto.Title,
		Description:      dto.Description,
		RedressSought:    dto.RedressSought,
		SubmitterName:    dto.SubmitterName,
		ServiceNumber:    dto.ServiceNumber,
		Rank:             dto.Rank,
		Email:            dto.Email,
		Phone:            dto.Phone,
		Position:         dto.Position,
		GrievanceType:    dto.GrievanceType,
		GrievanceSubtype: dto.GrievanceSubtype,
		OwnerID:          dto.UserID,
		Unit:             dto.Unit,
		CreatedAt:        dto.CreatedAt,
	}
	if dto.Status != nil {
		st, err := ParseStatus(*dto.Status)
		if err != nil {
			return Patch{}, err
		}
		p.Status = &st
	}
	return p, nil
}

type CreateNoteDTO struct {
	Content string `json:"content"`
}

func (dto CreateNoteDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("content", dto.Content).Required().MaxLength(MaxNoteLength)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
