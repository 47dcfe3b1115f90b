package grievance

import (
	"github.com/frahmantamala/grievance-management/internal/core/identity"
	"github.com/frahmantamala/grievance-management/internal/core/role"
)

// Visibility is the access level a caller holds over one grievance.
type Visibility int

const (
	VisibilityNone Visibility = iota
	// VisibilityRead is part of the contract for note access; no role
	// currently resolves to it.
	VisibilityRead
	VisibilityReadWrite
)

func (v Visibility) CanRead() bool {
	return v >= VisibilityRead
}

func (v Visibility) CanWrite() bool {
	return v == VisibilityReadWrite
}

func (v Visibility) String() string {
	switch v {
	case VisibilityRead:
		return "read"
	case VisibilityReadWrite:
		return "read_write"
	default:
		return "none"
	}
}

// VisibilityOf is the decision table over (role, ownership, unit match).
// First matching row wins. Supervisor scope is bounded by unit and is not
// derived from the role rank.
func VisibilityOf(actor *identity.Identity, g *Grievance) Visibility {
	if actor == nil || g == nil {
		return VisibilityNone
	}
	owner := g.IsOwnedBy(actor.ID)

	switch actor.Role {
	case role.Admin:
		return VisibilityReadWrite
	case role.Supervisor:
		if owner || sameUnit(actor, g) {
			return VisibilityReadWrite
		}
		return VisibilityNone
	case role.User:
		if owner {
			return VisibilityReadWrite
		}
		return VisibilityNone
	}
	return VisibilityNone
}

// A blank unit never matches, so unit-less supervisors see only their own records.
func sameUnit(actor *identity.Identity, g *Grievance) bool {
	return actor.HasUnit() && g.Unit == actor.Unit
}

// ListScope is the list-query form of VisibilityOf. Repositories translate it
// into a WHERE predicate.
type ListScope struct {
	All     bool
	OwnerID string
	// Unit, when set, widens the owner match: owner_id = OwnerID OR unit = Unit.
	Unit string
}

// ScopeFor returns the list predicate for actor. A nil or unknown-role actor
// gets a scope that matches nothing.
func ScopeFor(actor *identity.Identity) ListScope {
	if actor == nil {
		return ListScope{}
	}
	switch actor.Role {
	case role.Admin:
		return ListScope{All: true}
	case role.Supervisor:
		s := ListScope{OwnerID: actor.ID}
		if actor.HasUnit() {
			s.Unit = actor.Unit
		}
		return s
	case role.User:
		return ListScope{OwnerID: actor.ID}
	}
	return ListScope{}
}

// Empty reports whether the scope can match no rows at all.
func (s ListScope) Empty() bool {
	return !s.All && s.OwnerID == "" && s.Unit == ""
}

func (s ListScope) Matches(g *Grievance) bool {
	if g == nil {
		return false
	}
	if s.All {
		return true
	}
	if s.OwnerID != "" && g.OwnerID == s.OwnerID {
		return true
	}
	return s.Unit != "" && g.Unit == s.Unit
}
