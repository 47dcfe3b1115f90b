package role_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/grievance-management/internal/core/role"
)

var _ = Describe("Role", func() {
	It("ranks user < supervisor < admin", func() {
		Expect(role.User.Rank()).To(Equal(0))
		Expect(role.Supervisor.Rank()).To(Equal(1))
		Expect(role.Admin.Rank()).To(Equal(2))
		Expect(role.Role("root").Rank()).To(Equal(-1))
	})

	DescribeTable("AtLeast",
		func(r, threshold role.Role, want bool) {
			Expect(role.AtLeast(r, threshold)).To(Equal(want))
		},
		Entry("same role", role.Supervisor, role.Supervisor, true),
		Entry("higher role", role.Admin, role.User, true),
		Entry("lower role", role.User, role.Supervisor, false),
		Entry("unknown role", role.Role("root"), role.User, false),
		Entry("unknown threshold", role.Admin, role.Role(""), false),
	)

	It("parses names case-insensitively", func() {
		r, err := role.Parse("  Supervisor ")
		Expect(err).NotTo(HaveOccurred())
		Expect(r).To(Equal(role.Supervisor))

		_, err = role.Parse("manager")
		Expect(err).To(MatchError(role.ErrUnknownRole))
	})

	It("lists every role in ascending order", func() {
		all := role.All()
		Expect(all).To(Equal([]role.Role{role.User, role.Supervisor, role.Admin}))
		for i := 1; i < len(all); i++ {
			Expect(all[i].Rank()).To(BeNumerically(">", all[i-1].Rank()))
		}
	})
})
