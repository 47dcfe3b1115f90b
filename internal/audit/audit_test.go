package audit_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/grievance-management/internal"
	"github.com/frahmantamala/grievance-management/internal/audit"
	"github.com/frahmantamala/grievance-management/internal/core/events"
	"github.com/frahmantamala/grievance-management/internal/core/identity"
	"github.com/frahmantamala/grievance-management/internal/core/role"
	"github.com/frahmantamala/grievance-management/pkg/logger"
)

type memoryRepository struct {
	mu        sync.Mutex
	entries   []*audit.Entry
	lastLimit int
	err       error
}

func (m *memoryRepository) Create(ctx context.Context, e *audit.Entry) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

func (m *memoryRepository) List(ctx context.Context, filter audit.ListFilter) ([]*audit.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastLimit = filter.Limit
	var out []*audit.Entry
	for i := len(m.entries) - 1; i >= 0; i-- {
		e := m.entries[i]
		if filter.SubjectID != "" && e.SubjectID != filter.SubjectID {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

var _ = Describe("Recorder", func() {
	var (
		ctx      context.Context
		repo     *memoryRepository
		recorder *audit.Recorder
		bus      *events.EventBus
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = &memoryRepository{}
		recorder = audit.NewRecorder(repo, logger.Silent())
		bus = events.NewEventBus(logger.Silent())
		recorder.Register(bus)
	})

	It("records every domain event published on the bus", func() {
		Expect(bus.PublishSync(ctx, events.NewGrievanceCreatedEvent("user-1", "g-1", "user-1", "Alpha"))).To(Succeed())
		Expect(bus.PublishSync(ctx, events.NewAccountRoleChangedEvent("admin-1", "user-1", "user", "supervisor"))).To(Succeed())

		Expect(repo.entries).To(HaveLen(2))
		first := repo.entries[0]
		Expect(first.EventType).To(Equal(events.EventTypeGrievanceCreated))
		Expect(first.ActorID).To(Equal("user-1"))
		Expect(first.SubjectType).To(Equal(events.SubjectGrievance))
		Expect(first.SubjectID).To(Equal("g-1"))

		var payload map[string]interface{}
		Expect(json.Unmarshal(repo.entries[1].Payload, &payload)).To(Succeed())
		Expect(payload).To(HaveKeyWithValue("to", "supervisor"))
	})

	It("reports write failures to the publisher", func() {
		repo.err = errors.New("db down")
		err := bus.PublishSync(ctx, events.NewAccountDeletedEvent("admin-1", "user-1"))
		Expect(err).To(HaveOccurred())
	})

	Describe("List", func() {
		admin := &identity.Identity{ID: "admin-1", Role: role.Admin}

		BeforeEach(func() {
			Expect(recorder.Handle(ctx, events.NewGrievanceDeletedEvent("admin-1", "g-1", "user-1", 2))).To(Succeed())
			Expect(recorder.Handle(ctx, events.NewGrievanceDeletedEvent("admin-1", "g-2", "user-1", 0))).To(Succeed())
		})

		It("is admin only", func() {
			_, err := recorder.List(ctx, &identity.Identity{ID: "sup-1", Role: role.Supervisor}, audit.ListFilter{})
			Expect(err).To(MatchError(internal.ErrAdminRequired))

			_, err = recorder.List(ctx, nil, audit.ListFilter{})
			Expect(err).To(MatchError(internal.ErrUnauthenticated))
		})

		It("applies the default and maximum limits", func() {
			items, err := recorder.List(ctx, admin, audit.ListFilter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(HaveLen(2))
			Expect(repo.lastLimit).To(Equal(audit.DefaultListLimit))

			_, err = recorder.List(ctx, admin, audit.ListFilter{Limit: 10000})
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.lastLimit).To(Equal(audit.MaxListLimit))
		})

		It("filters by subject", func() {
			items, err := recorder.List(ctx, admin, audit.ListFilter{SubjectType: events.SubjectGrievance, SubjectID: "g-2"})
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(HaveLen(1))
		})
	})
})
