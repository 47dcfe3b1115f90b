package account

import (
	"github.com/frahmantamala/grievance-management/internal"
	"github.com/frahmantamala/grievance-management/internal/core/identity"
	"github.com/frahmantamala/grievance-management/internal/core/role"
)

// AuthorizeAccountCreation decides whether actor may create an account with
// the requested role. actor is nil for anonymous self-registration. Rules are
// checked in order:
//
//  1. admin accounts need an admin actor
//  2. supervisor accounts need a supervisor or admin actor
//  3. user accounts are always allowed
//
// The first admin of a deployment is created through Service.BootstrapAdmin,
// never through this path.
func AuthorizeAccountCreation(requested role.Role, actor *identity.Identity) error {
	switch requested {
	case role.Admin:
		if actor.IsAdmin() {
			return nil
		}
		return internal.ErrAdminCreationDenied
	case role.Supervisor:
		if actor.IsAdmin() || actor.IsSupervisor() {
			return nil
		}
		return internal.ErrSupervisorDenied
	case role.User:
		return nil
	}
	return internal.ErrInvalidRole
}

// AuthorizeRoleChange allows only admins to set a role, to any valid value.
// The admin check runs first so non-admins learn nothing about valid roles.
func AuthorizeRoleChange(actor *identity.Identity, newRole role.Role) error {
	if !actor.IsAdmin() {
		return internal.ErrRoleChangeDenied
	}
	if !newRole.Valid() {
		return internal.ErrInvalidRole
	}
	return nil
}
