package grievancetype_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	grievancetypeDatamodel "github.com/frahmantamala/grievance-management/internal/core/datamodel/grievancetype"
	"github.com/frahmantamala/grievance-management/internal/grievancetype"
	"github.com/frahmantamala/grievance-management/pkg/logger"
)

type mockRepository struct {
	rows []*grievancetypeDatamodel.GrievanceType
	err  error
}

func (m *mockRepository) List(_ context.Context) ([]*grievancetypeDatamodel.GrievanceType, error) {
	return m.rows, m.err
}

func row(name, subtype string, active bool) *grievancetypeDatamodel.GrievanceType {
	return &grievancetypeDatamodel.GrievanceType{Name: name, Subtype: subtype, IsActive: active}
}

var _ = Describe("Group", func() {
	It("keeps first-seen order and drops inactive rows", func() {
		types := grievancetype.Group([]*grievancetypeDatamodel.GrievanceType{
			row("Harassment", "Verbal", true),
			row("Other", "Leave", true),
			row("Harassment", "Physical", false),
			row("Harassment", "Sexual", true),
		})
		Expect(types).To(Equal([]grievancetype.Type{
			{Name: "Harassment", Subtypes: []string{"Verbal", "Sexual"}},
			{Name: "Other", Subtypes: []string{"Leave"}},
		}))
	})

	It("returns an empty, non-nil list for no rows", func() {
		Expect(grievancetype.Group(nil)).To(BeEmpty())
		Expect(grievancetype.Group(nil)).NotTo(BeNil())
	})

	It("omits a type whose subtypes are all inactive", func() {
		types := grievancetype.Group([]*grievancetypeDatamodel.GrievanceType{row("Other", "Leave", false)})
		Expect(types).To(BeEmpty())
	})
})

var _ = Describe("Type", func() {
	It("matches subtypes exactly", func() {
		t := grievancetype.Defaults[0]
		Expect(t.HasSubtype("Equipment")).To(BeTrue())
		Expect(t.HasSubtype("equipment")).To(BeFalse())
	})
})

var _ = Describe("Service", func() {
	It("lists the grouped catalog", func() {
		svc := grievancetype.NewService(&mockRepository{rows: []*grievancetypeDatamodel.GrievanceType{
			row("Discrimination", "Age", true),
		}}, logger.Silent())

		types, err := svc.ListTypes(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(types).To(ConsistOf(grievancetype.Type{Name: "Discrimination", Subtypes: []string{"Age"}}))
	})

	It("returns repository failures", func() {
		boom := errors.New("connection refused")
		svc := grievancetype.NewService(&mockRepository{err: boom}, logger.Silent())

		_, err := svc.ListTypes(context.Background())
		Expect(err).To(MatchError(boom))
	})
})
