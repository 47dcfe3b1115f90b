// Package seed fills a development database with units, supervisors, members
// and grievances. Everything goes through the account and grievance services
// so seeded data obeys the same rules as API traffic.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"

	"github.com/frahmantamala/grievance-management/internal"
	"github.com/frahmantamala/grievance-management/internal/account"
	"github.com/frahmantamala/grievance-management/internal/core/identity"
	"github.com/frahmantamala/grievance-management/internal/core/role"
	"github.com/frahmantamala/grievance-management/internal/grievance"
	"github.com/frahmantamala/grievance-management/internal/grievancetype"
)

const (
	DefaultPassword = "password123"
	EmailDomain     = "forces.gc.ca"
	noteChance      = 0.3
)

var (
	Units     = []string{"427SOA", "CJIRU", "CSOR", "CSOTC", "HQ", "JTF 2", "SOF MPU"}
	Ranks     = []string{"Pte", "Cpl", "MCpl", "Sgt", "WO", "MWO", "CWO", "Lt", "Capt", "Maj", "LCol", "Col"}
	Positions = []string{
		"Operator", "Support Staff", "Medical Staff", "Intelligence Officer",
		"Communications Specialist", "Logistics Coordinator",
	}
	FirstNames = []string{
		"James", "William", "John", "Michael", "David", "Robert", "Thomas", "Daniel", "Paul", "Mark",
		"Elizabeth", "Sarah", "Jennifer", "Emily", "Emma", "Olivia", "Sophia", "Isabella", "Mia", "Charlotte",
		"Christopher", "Joseph", "Andrew", "Ryan", "Alexander", "Nicholas", "Matthew", "Anthony", "Steven", "Kevin",
		"Marie", "Catherine", "Michelle", "Nicole", "Rachel", "Laura", "Amanda", "Jessica", "Melissa", "Rebecca",
	}
	LastNames = []string{
		"Smith", "Johnson", "Brown", "Taylor", "Miller", "Wilson", "Moore", "Anderson", "Thomas", "Jackson",
		"White", "Harris", "Martin", "Thompson", "Robinson", "Clark", "Rodriguez", "Lewis", "Lee", "Walker",
		"Hall", "Allen", "Young", "King", "Wright", "Scott", "Green", "Baker", "Adams", "Nelson",
		"Carter", "Mitchell", "Perez", "Roberts", "Turner", "Phillips", "Campbell", "Parker", "Evans", "Edwards",
	}
)

type AccountService interface {
	Register(ctx context.Context, actor *identity.Identity, dto account.RegisterDTO) (*account.Account, error)
}

type GrievanceService interface {
	CreateGrievance(ctx context.Context, actor *identity.Identity, dto grievance.CreateGrievanceDTO) (*grievance.Grievance, error)
	UpdateGrievance(ctx context.Context, actor *identity.Identity, id string, dto grievance.UpdateGrievanceDTO) (*grievance.Grievance, error)
	CreateNote(ctx context.Context, actor *identity.Identity, grievanceID string, dto grievance.CreateNoteDTO) (*grievance.NoteView, error)
}

type Options struct {
	// Seed drives every random choice, so equal seeds give equal data.
	Seed     int64
	Password string
	// Units defaults to Units.
	Units []string
	// Types defaults to grievancetype.Defaults.
	Types []grievancetype.Type
	// MinGrievances and MaxGrievances bound the per-unit count; defaults 3 and 8.
	MinGrievances int
	MaxGrievances int
}

type Result struct {
	Accounts     int
	Grievances   int
	Notes        int
	SkippedUnits []string
}

type Seeder struct {
	accounts   AccountService
	grievances GrievanceService
	opts       Options
	rnd        *rand.Rand
	logger     *slog.Logger
}

func NewSeeder(accounts AccountService, grievances GrievanceService, opts Options, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Password == "" {
		opts.Password = DefaultPassword
	}
	if len(opts.Units) == 0 {
		opts.Units = Units
	}
	if len(opts.Types) == 0 {
		opts.Types = grievancetype.Defaults
	}
	if opts.MinGrievances <= 0 {
		opts.MinGrievances = 3
	}
	if opts.MaxGrievances < opts.MinGrievances {
		opts.MaxGrievances = max(8, opts.MinGrievances)
	}
	return &Seeder{
		accounts:   accounts,
		grievances: grievances,
		opts:       opts,
		rnd:        rand.New(rand.NewSource(opts.Seed)),
		logger:     logger,
	}
}

// system stands in for an admin when creating supervisor accounts.
var system = &identity.Identity{Role: role.Admin}

// Run seeds every unit. A unit whose supervisor already exists is skipped,
// so running twice does not duplicate data.
func (s *Seeder) Run(ctx context.Context) (Result, error) {
	var res Result
	for _, unit := range s.opts.Units {
		if err := s.seedUnit(ctx, unit, &res); err != nil {
			if errors.Is(err, internal.ErrEmailTaken) {
				s.logger.Info("unit already seeded", "unit", unit)
				res.SkippedUnits = append(res.SkippedUnits, unit)
				continue
			}
			return res, fmt.Errorf("seed unit %s: %w", unit, err)
		}
	}
	return res, nil
}

func (s *Seeder) seedUnit(ctx context.Context, unit string, res *Result) error {
	supervisor, err := s.accounts.Register(ctx, system, s.accountDTO("supervisor", unit, role.Supervisor))
	if err != nil {
		return err
	}
	res.Accounts++

	member, err := s.accounts.Register(ctx, nil, s.accountDTO("member", unit, role.User))
	if err != nil {
		return err
	}
	res.Accounts++

	n := s.opts.MinGrievances + s.rnd.Intn(s.opts.MaxGrievances-s.opts.MinGrievances+1)
	for i := 0; i < n; i++ {
		notes, err := s.seedGrievance(ctx, unit, member.Identity(), supervisor.Identity())
		if err != nil {
			return err
		}
		res.Grievances++
		res.Notes += notes
	}

	s.logger.Info("unit seeded", "unit", unit, "grievances", n)
	return nil
}

func (s *Seeder) seedGrievance(ctx context.Context, unit string, owner, supervisor *identity.Identity) (int, error) {
	gt := s.opts.Types[s.rnd.Intn(len(s.opts.Types))]
	subtype := gt.Subtypes[s.rnd.Intn(len(gt.Subtypes))]
	submitter := s.name()

	g, err := s.grievances.CreateGrievance(ctx, owner, grievance.CreateGrievanceDTO{
		Title:            fmt.Sprintf("%s - %s Issue", gt.Name, subtype),
		Description:      fmt.Sprintf("Grievance regarding %s - %s. Submitted by %s regarding issues with %s.", gt.Name, subtype, submitter, strings.ToLower(subtype)),
		RedressSought:    fmt.Sprintf("Requesting review and appropriate action to address %s concerns in accordance with unit policies.", strings.ToLower(subtype)),
		SubmitterName:    submitter,
		ServiceNumber:    fmt.Sprintf("A%05d", 10000+s.rnd.Intn(90000)),
		Rank:             s.pick(Ranks),
		Email:            emailFor(submitter),
		Phone:            fmt.Sprintf("613-555-%04d", 1000+s.rnd.Intn(9000)),
		Unit:             unit,
		Position:         s.pick(Positions),
		GrievanceType:    gt.Name,
		GrievanceSubtype: subtype,
	})
	if err != nil {
		return 0, err
	}

	status := s.pick(grievance.Statuses())
	if status != string(grievance.StatusPending) {
		if _, err := s.grievances.UpdateGrievance(ctx, supervisor, g.ID, grievance.UpdateGrievanceDTO{Status: &status}); err != nil {
			return 0, err
		}
	}

	if s.rnd.Float64() >= noteChance {
		return 0, nil
	}
	content := s.pick([]string{
		fmt.Sprintf("Initial review completed. Scheduling meeting with %s to discuss details.", submitter),
		fmt.Sprintf("Met with %s to discuss the %s concern. Follow-up actions identified.", submitter, strings.ToLower(subtype)),
		fmt.Sprintf("Progress update: Working with unit leadership to address the %s issue.", strings.ToLower(gt.Name)),
		fmt.Sprintf("Documentation received from %s. Under review by chain of command.", submitter),
		fmt.Sprintf("Consultation with subject matter experts regarding %s concerns.", strings.ToLower(subtype)),
	})
	if _, err := s.grievances.CreateNote(ctx, supervisor, g.ID, grievance.CreateNoteDTO{Content: content}); err != nil {
		return 0, err
	}
	return 1, nil
}

// Password is the password every seeded account logs in with.
func (s *Seeder) Password() string {
	return s.opts.Password
}

func (s *Seeder) accountDTO(kind, unit string, r role.Role) account.RegisterDTO {
	return account.RegisterDTO{
		Email:         AccountEmail(kind, unit),
		Password:      s.opts.Password,
		Name:          s.name(),
		ServiceNumber: fmt.Sprintf("A%05d", 10000+s.rnd.Intn(90000)),
		Rank:          s.pick(Ranks),
		Unit:          unit,
		Position:      s.pick(Positions),
		Phone:         fmt.Sprintf("613-555-%04d", 1000+s.rnd.Intn(9000)),
		Role:          string(r),
	}
}

// AccountEmail is the deterministic login of a seeded account, e.g.
// supervisor.jtf_2@forces.gc.ca.
func AccountEmail(kind, unit string) string {
	slug := strings.NewReplacer(" ", "_", "/", "_").Replace(strings.ToLower(unit))
	return fmt.Sprintf("%s.%s@%s", kind, slug, EmailDomain)
}

func emailFor(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", ".") + "@" + EmailDomain
}

func (s *Seeder) name() string {
	return s.pick(FirstNames) + " " + s.pick(LastNames)
}

func (s *Seeder) pick(options []string) string {
	return options[s.rnd.Intn(len(options))]
}
