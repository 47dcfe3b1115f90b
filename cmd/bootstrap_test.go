package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/grievance-management/internal"
	"github.com/frahmantamala/grievance-management/internal/account"
	"github.com/frahmantamala/grievance-management/internal/audit"
	"github.com/frahmantamala/grievance-management/internal/core/identity"
)

type fakeBootstrapper struct {
	err  error
	got  account.BootstrapAdminDTO
	call int
}

func (f *fakeBootstrapper) BootstrapAdmin(_ context.Context, dto account.BootstrapAdminDTO) (*account.Account, error) {
	f.call++
	f.got = dto
	if f.err != nil {
		return nil, f.err
	}
	return &account.Account{ID: "admin-1", Email: dto.Email}, nil
}

type fakeAuditLister struct {
	actor   *identity.Identity
	filter  audit.ListFilter
	entries []*audit.Entry
}

func (f *fakeAuditLister) List(_ context.Context, actor *identity.Identity, filter audit.ListFilter) ([]*audit.Entry, error) {
	f.actor, f.filter = actor, filter
	return f.entries, nil
}

var _ = Describe("bootstrapAdmin", func() {
	cfg := internal.BootstrapConfig{AdminEmail: "root@example.com", AdminPassword: "rootpassword", AdminName: "Root"}

	It("passes the configured credentials through", func() {
		f := &fakeBootstrapper{}
		Expect(bootstrapAdmin(context.Background(), f, cfg)).To(Succeed())
		Expect(f.got).To(Equal(account.BootstrapAdminDTO{Email: "root@example.com", Password: "rootpassword", Name: "Root"}))
	})

	It("treats an existing admin as success", func() {
		f := &fakeBootstrapper{err: internal.ErrBootstrapCompleted}
		Expect(bootstrapAdmin(context.Background(), f, cfg)).To(Succeed())
	})

	It("returns any other failure", func() {
		boom := errors.New("boom")
		f := &fakeBootstrapper{err: boom}
		Expect(bootstrapAdmin(context.Background(), f, cfg)).To(MatchError(boom))
	})
})

var _ = Describe("printAuditEntries", func() {
	It("reads as an admin and writes one JSON line per entry", func() {
		f := &fakeAuditLister{entries: []*audit.Entry{
			{ID: "1", EventType: "grievance.created"},
			{ID: "2", EventType: "grievance.deleted"},
		}}
		var out bytes.Buffer

		filter := audit.ListFilter{SubjectType: "grievance", Limit: 5}
		Expect(printAuditEntries(context.Background(), f, filter, json.NewEncoder(&out))).To(Succeed())

		Expect(f.actor.IsAdmin()).To(BeTrue())
		Expect(f.filter).To(Equal(filter))
		Expect(bytes.Count(out.Bytes(), []byte("\n"))).To(Equal(2))
		Expect(out.String()).To(ContainSubstring(`"grievance.deleted"`))
	})
})
