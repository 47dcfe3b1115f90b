package account_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/grievance-management/internal"
	"github.com/frahmantamala/grievance-management/internal/account"
	"github.com/frahmantamala/grievance-management/internal/core/identity"
	"github.com/frahmantamala/grievance-management/internal/core/role"
)

var (
	adminActor = &identity.Identity{ID: "admin-1", Email: "admin@example.com", Role: role.Admin}
	superActor = &identity.Identity{ID: "sup-1", Email: "sup@example.com", Role: role.Supervisor, Unit: "Alpha"}
	userActor  = &identity.Identity{ID: "user-1", Email: "user@example.com", Role: role.User, Unit: "Alpha"}
)

var _ = Describe("Account Guard", func() {
	DescribeTable("AuthorizeAccountCreation",
		func(requested role.Role, actor *identity.Identity, expected error) {
			err := account.AuthorizeAccountCreation(requested, actor)
			if expected == nil {
				Expect(err).NotTo(HaveOccurred())
				return
			}
			Expect(err).To(MatchError(expected))
		},
		Entry("anonymous creates user", role.User, nil, nil),
		Entry("anonymous cannot create supervisor", role.Supervisor, nil, internal.ErrSupervisorDenied),
		Entry("anonymous cannot create admin", role.Admin, nil, internal.ErrAdminCreationDenied),
		Entry("user creates user", role.User, userActor, nil),
		Entry("user cannot create supervisor", role.Supervisor, userActor, internal.ErrSupervisorDenied),
		Entry("user cannot create admin", role.Admin, userActor, internal.ErrAdminCreationDenied),
		Entry("supervisor creates supervisor", role.Supervisor, superActor, nil),
		Entry("supervisor cannot create admin", role.Admin, superActor, internal.ErrAdminCreationDenied),
		Entry("admin creates admin", role.Admin, adminActor, nil),
		Entry("admin creates supervisor", role.Supervisor, adminActor, nil),
		Entry("unknown role is rejected", role.Role("root"), adminActor, internal.ErrInvalidRole),
	)

	DescribeTable("AuthorizeRoleChange",
		func(actor *identity.Identity, newRole role.Role, expected error) {
			err := account.AuthorizeRoleChange(actor, newRole)
			if expected == nil {
				Expect(err).NotTo(HaveOccurred())
				return
			}
			Expect(err).To(MatchError(expected))
		},
		Entry("admin promotes to supervisor", adminActor, role.Supervisor, nil),
		Entry("admin demotes to user", adminActor, role.User, nil),
		Entry("admin sets an unknown role", adminActor, role.Role("root"), internal.ErrInvalidRole),
		Entry("supervisor cannot change roles", superActor, role.User, internal.ErrRoleChangeDenied),
		Entry("user learns nothing about unknown roles", userActor, role.Role("root"), internal.ErrRoleChangeDenied),
		Entry("nil actor is denied", nil, role.User, internal.ErrRoleChangeDenied),
	)
})
