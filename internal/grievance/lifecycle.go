package grievance

import (
	"time"

	"github.com/frahmantamala/grievance-management/internal/core/identity"
)

// Patch is a partial update. Nil fields are left untouched.
//
// OwnerID, Unit and CreatedAt are accepted so a client can round-trip a full
// record, but they are never applied: a patch naming them is a silent no-op
// for those fields and ApplyPatch reports them as ignored.
type Patch struct {
	Title            *string
	Description      *string
	RedressSought    *string
	SubmitterName    *string
	ServiceNumber    *string
	Rank             *string
	Email            *string
	Phone            *string
	Position         *string
	GrievanceType    *string
	GrievanceSubtype *string
	Status           *Status

	OwnerID   *string
	Unit      *string
	CreatedAt *time.Time
}

// ApplyPatch mutates g in place and returns the names of the fields it
// changed and of the immutable fields it ignored. UpdatedAt is bumped on
// every call, and never falls before CreatedAt.
func ApplyPatch(g *Grievance, p Patch, now time.Time) (changed, ignored []string) {
	set := func(name string, dst *string, v *string) {
		if v == nil || *dst == *v {
			return
		}
		*dst = *v
		changed = append(changed, name)
	}

	set("title", &g.Title, p.Title)
	set("description", &g.Description, p.Description)
	set("redress_sought", &g.RedressSought, p.RedressSought)
	set("submitter_name", &g.SubmitterName, p.SubmitterName)
	set("service_number", &g.ServiceNumber, p.ServiceNumber)
	set("rank", &g.Rank, p.Rank)
	set("email", &g.Email, p.Email)
	set("phone", &g.Phone, p.Phone)
	set("position", &g.Position, p.Position)
	set("grievance_type", &g.GrievanceType, p.GrievanceType)
	set("grievance_subtype", &g.GrievanceSubtype, p.GrievanceSubtype)

	// any status may follow any other
	if p.Status != nil && g.Status != *p.Status {
		g.Status = *p.Status
		changed = append(changed, "status")
	}

	if p.OwnerID != nil {
		ignored = append(ignored, "user_id")
	}
	if p.Unit != nil {
		ignored = append(ignored, "unit")
	}
	if p.CreatedAt != nil {
		ignored = append(ignored, "created_at")
	}

	touch(g, now)
	return changed, ignored
}

func touch(g *Grievance, now time.Time) {
	now = now.UTC()
	if now.Before(g.CreatedAt) {
		now = g.CreatedAt
	}
	g.UpdatedAt = now
}

// CanDelete is stricter than write visibility: only the owner or an admin
// may delete, a same-unit supervisor may not.
func CanDelete(actor *identity.Identity, g *Grievance) bool {
	if actor == nil || g == nil {
		return false
	}
	return actor.IsAdmin() || g.IsOwnedBy(actor.ID)
}
