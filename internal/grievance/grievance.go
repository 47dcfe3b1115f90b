package grievance

import (
	"strings"
	"time"

	"github.com/frahmantamala/grievance-management/internal"
	grievanceDatamodel "github.com/frahmantamala/grievance-management/internal/core/datamodel/grievance"
	"github.com/google/uuid"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
)

func Statuses() []string {
	return []string{string(StatusPending), string(StatusInProgress), string(StatusResolved)}
}

func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusPending, StatusInProgress, StatusResolved:
		return st, nil
	}
	return "", internal.ErrInvalidStatus
}

type Grievance struct {
	ID               string      `json:"id"`
	OwnerID          string      `json:"user_id"`
	Title            string      `json:"title"`
	Description      string      `json:"description"`
	RedressSought    string      `json:"redress_sought"`
	SubmitterName    string      `json:"submitter_name"`
	ServiceNumber    string      `json:"service_number"`
	Rank             string      `json:"rank"`
	Email            string      `json:"email"`
	Phone            string      `json:"phone"`
	Unit             string      `json:"unit"`
	Position         string      `json:"position"`
	GrievanceType    string      `json:"grievance_type"`
	GrievanceSubtype string      `json:"grievance_subtype"`
	Status           Status      `json:"status"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
	Notes            []*NoteView `json:"notes,omitempty"`
}

func (g *Grievance) IsOwnedBy(accountID string) bool {
	return g != nil && accountID != "" && g.OwnerID == accountID
}

type Note struct {
	ID          string
	GrievanceID string
	AuthorID    string
	Content     string
	CreatedAt   time.Time
}

// NoteView is a note as returned to callers. AuthorName is derived on every
// read from the author's current name, falling back to their email.
type NoteView struct {
	ID          string    `json:"id"`
	GrievanceID string    `json:"grievance_id"`
	AuthorID    string    `json:"user_id"`
	AuthorName  string    `json:"user_name"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewGrievance builds a pending grievance owned by ownerID. The unit comes
// from the submitted data, not from the owner's account.
func NewGrievance(ownerID string, dto CreateGrievanceDTO, now time.Time) *Grievance {
	now = now.UTC()
	return &Grievance{
		ID:               uuid.New().String(),
		OwnerID:          ownerID,
		Title:            strings.TrimSpace(dto.Title),
		Description:      dto.Description,
		RedressSought:    dto.RedressSought,
		SubmitterName:    strings.TrimSpace(dto.SubmitterName),
		ServiceNumber:    strings.TrimSpace(dto.ServiceNumber),
		Rank:             strings.TrimSpace(dto.Rank),
		Email:            strings.TrimSpace(dto.Email),
		Phone:            strings.TrimSpace(dto.Phone),
		Unit:             strings.TrimSpace(dto.Unit),
		Position:         strings.TrimSpace(dto.Position),
		GrievanceType:    strings.TrimSpace(dto.GrievanceType),
		GrievanceSubtype: strings.TrimSpace(dto.GrievanceSubtype),
		Status:           StatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func NewNote(grievanceID, authorID, content string, now time.Time) *Note {
	return &Note{
		ID:          uuid.New().String(),
		GrievanceID: grievanceID,
		AuthorID:    authorID,
		Content:     content,
		CreatedAt:   now.UTC(),
	}
}

func ToDataModel(g *Grievance) *grievanceDatamodel.Grievance {
	return &grievanceDatamodel.Grievance{
		ID:               g.ID,
		UserID:           g.OwnerID,
		Title:            g.Title,
		Description:      g.Description,
		RedressSought:    g.RedressSought,
		SubmitterName:    g.SubmitterName,
		ServiceNumber:    g.ServiceNumber,
		Rank:             g.Rank,
		Email:            g.Email,
		Phone:            g.Phone,
		Unit:             g.Unit,
		Position:         g.Position,
		GrievanceType:    g.GrievanceType,
		GrievanceSubtype: g.GrievanceSubtype,
		Status:           string(g.Status),
		CreatedAt:        g.CreatedAt,
		UpdatedAt:        g.UpdatedAt,
	}
}

func FromDataModel(g *grievanceDatamodel.Grievance) *Grievance {
	return &Grievance{
		ID:               g.ID,
		OwnerID:          g.UserID,
		Title:            g.Title,
		Description:      g.Description,
		RedressSought:    g.RedressSought,
		SubmitterName:    g.SubmitterName,
		ServiceNumber:    g.ServiceNumber,
		Rank:             g.Rank,
		Email:            g.Email,
		Phone:            g.Phone,
		Unit:             g.Unit,
		Position:         g.Position,
		GrievanceType:    g.GrievanceType,
		GrievanceSubtype: g.GrievanceSubtype,
		Status:           Status(g.Status),
		CreatedAt:        g.CreatedAt,
		UpdatedAt:        g.UpdatedAt,
	}
}

func FromDataModelSlice(rows []*grievanceDatamodel.Grievance) []*Grievance {
	result := make([]*Grievance, len(rows))
	for i, g := range rows {
		result[i] = FromDataModel(g)
	}
	return result
}

func NoteToDataModel(n *Note) *grievanceDatamodel.Note {
	return &grievanceDatamodel.Note{
		ID:          n.ID,
		GrievanceID: n.GrievanceID,
		UserID:      n.AuthorID,
		Content:     n.Content,
		CreatedAt:   n.CreatedAt,
	}
}
