package account

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/grievance-management/internal"
	"github.com/frahmantamala/grievance-management/internal/core/events"
	"github.com/frahmantamala/grievance-management/internal/core/identity"
	"github.com/frahmantamala/grievance-management/internal/core/role"
)

// Repository is the account store. Lookups return internal.ErrAccountNotFound
// for a missing row and Create/Update return internal.ErrEmailTaken on a
// duplicate email.
type Repository interface {
	WithinTransaction(ctx context.Context, fn func(repo Repository) error) error
	Create(ctx context.Context, a *Account) error
	GetByID(ctx context.Context, id string) (*Account, error)
	GetByIDForUpdate(ctx context.Context, id string) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	List(ctx context.Context) ([]*Account, error)
	Update(ctx context.Context, a *Account) error
	Delete(ctx context.Context, id string) error
	CountByRole(ctx context.Context, r role.Role) (int64, error)
	// CountOwnedRecords counts grievances and notes that reference the account.
	CountOwnedRecords(ctx context.Context, id string) (int64, error)
}

type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

type EventPublisher interface {
	PublishSync(ctx context.Context, event events.Event) error
}

type Service struct {
	repo      Repository
	hasher    PasswordHasher
	publisher EventPublisher
	logger    *slog.Logger
}

func NewService(repo Repository, hasher PasswordHasher, publisher EventPublisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		hasher:    hasher,
		publisher: publisher,
		logger:    logger,
	}
}

// Register creates an account. actor is nil for anonymous self-registration;
// the Account Guard decides whether the requested role is allowed.
func (s *Service) Register(ctx context.Context, actor *identity.Identity, dto RegisterDTO) (*Account, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	requested, err := dto.RequestedRole()
	if err != nil {
		return nil, err
	}
	if err := AuthorizeAccountCreation(requested, actor); err != nil {
		s.logger.Warn("account creation denied", "requested_role", requested, "actor_id", actorID(actor))
		return nil, err
	}

	a, err := s.create(ctx, dto.Email, dto.Password, requested, dto.Profile())
	if err != nil {
		return nil, err
	}

	s.logger.Info("account registered", "account_id", a.ID, "role", a.Role, "actor_id", actorID(actor))
	s.publish(ctx, events.NewAccountCreatedEvent(actorID(actor), a.ID, string(a.Role), false))
	return a, nil
}

// BootstrapAdmin creates the first admin of a deployment. It succeeds only
// while the store holds no admin account, so it cannot be used twice. It is
// reachable from the CLI and startup config, never from HTTP.
func (s *Service) BootstrapAdmin(ctx context.Context, dto BootstrapAdminDTO) (*Account, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	hash, err := s.hasher.HashPassword(dto.Password)
	if err != nil {
		return nil, internal.NewInternalError("Failed to hash password", err)
	}

	var created *Account
	err = s.repo.WithinTransaction(ctx, func(tx Repository) error {
		admins, err := tx.CountByRole(ctx, role.Admin)
		if err != nil {
			return err
		}
		if admins > 0 {
			return internal.ErrBootstrapCompleted
		}
		if _, err := tx.GetByEmail(ctx, NormalizeEmail(dto.Email)); err == nil {
			return internal.ErrEmailTaken
		} else if !errors.Is(err, internal.ErrAccountNotFound) {
			return err
		}

		created = NewAccount(dto.Email, hash, role.Admin, Profile{Name: dto.Name}, time.Now())
		return tx.Create(ctx, created)
	})
	if err != nil {
		if errors.Is(err, internal.ErrBootstrapCompleted) {
			s.logger.Info("admin bootstrap skipped, an admin already exists")
		}
		return nil, err
	}

	s.logger.Info("bootstrap admin created", "account_id", created.ID)
	s.publish(ctx, events.NewAccountCreatedEvent("", created.ID, string(role.Admin), true))
	return created, nil
}

func (s *Service) create(ctx context.Context, email, password string, r role.Role, p Profile) (*Account, error) {
	email = NormalizeEmail(email)
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, internal.ErrEmailTaken
	} else if !errors.Is(err, internal.ErrAccountNotFound) {
		return nil, err
	}

	hash, err := s.hasher.HashPassword(password)
	if err != nil {
		return nil, internal.NewInternalError("Failed to hash password", err)
	}

	a := NewAccount(email, hash, r, p, time.Now())
	if err := s.repo.Create(ctx, a); err != nil {
		s.logger.Error("failed to create account", "error", err)
		return nil, err
	}
	return a, nil
}

// Current returns the caller's own account.
func (s *Service) Current(ctx context.Context, actor *identity.Identity) (*Account, error) {
	if actor == nil {
		return nil, internal.ErrUnauthenticated
	}
	return s.repo.GetByID(ctx, actor.ID)
}

// GetAccount reads any account. A missing account is NotFound before the
// admin check runs; callers may always read themselves.
func (s *Service) GetAccount(ctx context.Context, actor *identity.Identity, id string) (*Account, error) {
	if actor == nil {
		return nil, internal.ErrUnauthenticated
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.ID != actor.ID && !actor.IsAdmin() {
		return nil, internal.ErrAdminRequired
	}
	return a, nil
}

func (s *Service) ListAccounts(ctx context.Context, actor *identity.Identity) ([]*Account, error) {
	if actor == nil {
		return nil, internal.ErrUnauthenticated
	}
	if !role.AtLeast(actor.Role, role.Supervisor) {
		return nil, internal.ErrSupervisorRequired
	}
	items, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list accounts", "error", err)
		return nil, err
	}
	if items == nil {
		items = []*Account{}
	}
	return items, nil
}

// UpdateProfile is the self-service update. A role in the body is dropped,
// even for admins.
func (s *Service) UpdateProfile(ctx context.Context, actor *identity.Identity, dto ProfileUpdateDTO) (*Account, error) {
	if actor == nil {
		return nil, internal.ErrUnauthenticated
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if dto.Role != nil {
		s.logger.Info("role ignored in self-service update", "account_id", actor.ID)
	}

	var (
		updated *Account
		changed []string
	)
	err := s.repo.WithinTransaction(ctx, func(tx Repository) error {
		a, err := tx.GetByIDForUpdate(ctx, actor.ID)
		if err != nil {
			return err
		}
		changed, err = s.applyProfile(ctx, tx, a, dto)
		if err != nil {
			return err
		}
		a.UpdatedAt = time.Now().UTC()
		if err := tx.Update(ctx, a); err != nil {
			return err
		}
		updated = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewAccountUpdatedEvent(actor.ID, actor.ID, changed))
	return updated, nil
}

// UpdateAccount is the admin update of any account, including its role.
func (s *Service) UpdateAccount(ctx context.Context, actor *identity.Identity, id string, dto AdminUpdateDTO) (*Account, error) {
	if actor == nil {
		return nil, internal.ErrUnauthenticated
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	var (
		updated          *Account
		changed          []string
		fromRole, toRole role.Role
	)
	err := s.repo.WithinTransaction(ctx, func(tx Repository) error {
		a, err := tx.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() {
			s.logger.Warn("account update denied", "account_id", id, "actor_id", actor.ID)
			return internal.ErrAdminRequired
		}

		if dto.Role != nil {
			newRole := role.Role(strings.ToLower(strings.TrimSpace(*dto.Role)))
			if err := AuthorizeRoleChange(actor, newRole); err != nil {
				return err
			}
			if newRole != a.Role {
				fromRole, toRole = a.Role, newRole
				a.Role = newRole
				changed = append(changed, "role")
			}
		}

		profileChanged, err := s.applyProfile(ctx, tx, a, dto.ProfileUpdateDTO)
		if err != nil {
			return err
		}
		changed = append(changed, profileChanged...)

		if dto.IsActive != nil && *dto.IsActive != a.IsActive {
			a.IsActive = *dto.IsActive
			changed = append(changed, "is_active")
		}

		a.UpdatedAt = time.Now().UTC()
		if err := tx.Update(ctx, a); err != nil {
			return err
		}
		updated = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("account updated", "account_id", id, "actor_id", actor.ID, "changed", changed)
	if toRole != "" {
		s.publish(ctx, events.NewAccountRoleChangedEvent(actor.ID, id, string(fromRole), string(toRole)))
	}
	s.publish(ctx, events.NewAccountUpdatedEvent(actor.ID, id, changed))
	return updated, nil
}

// UpdateAccountRole sets only the role of an account.
func (s *Service) UpdateAccountRole(ctx context.Context, actor *identity.Identity, id string, newRole string) (*Account, error) {
	dto := AdminUpdateDTO{}
	dto.Role = &newRole
	return s.UpdateAccount(ctx, actor, id, dto)
}

// DeleteAccount removes an account that no longer owns grievances or notes.
func (s *Service) DeleteAccount(ctx context.Context, actor *identity.Identity, id string) error {
	if actor == nil {
		return internal.ErrUnauthenticated
	}

	err := s.repo.WithinTransaction(ctx, func(tx Repository) error {
		if _, err := tx.GetByIDForUpdate(ctx, id); err != nil {
			return err
		}
		if !actor.IsAdmin() {
			s.logger.Warn("account deletion denied", "account_id", id, "actor_id", actor.ID)
			return internal.ErrAdminRequired
		}
		owned, err := tx.CountOwnedRecords(ctx, id)
		if err != nil {
			return err
		}
		if owned > 0 {
			return internal.ErrAccountHasReferences
		}
		return tx.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("account deleted", "account_id", id, "actor_id", actor.ID)
	s.publish(ctx, events.NewAccountDeletedEvent(actor.ID, id))
	return nil
}

func (s *Service) applyProfile(ctx context.Context, tx Repository, a *Account, dto ProfileUpdateDTO) ([]string, error) {
	var changed []string
	set := func(name string, dst *string, v *string) {
		if v == nil {
			return
		}
		trimmed := strings.TrimSpace(*v)
		if *dst == trimmed {
			return
		}
		*dst = trimmed
		changed = append(changed, name)
	}

	if dto.Email != nil {
		email := NormalizeEmail(*dto.Email)
		if email != a.Email {
			existing, err := tx.GetByEmail(ctx, email)
			switch {
			case err == nil && existing.ID != a.ID:
				return nil, internal.ErrEmailTaken
			case err != nil && !errors.Is(err, internal.ErrAccountNotFound):
				return nil, err
			}
			a.Email = email
			changed = append(changed, "email")
		}
	}
	if dto.Password != nil {
		hash, err := s.hasher.HashPassword(*dto.Password)
		if err != nil {
			return nil, internal.NewInternalError("Failed to hash password", err)
		}
		a.PasswordHash = hash
		changed = append(changed, "password")
	}

	set("name", &a.Name, dto.Name)
	set("service_number", &a.ServiceNumber, dto.ServiceNumber)
	set("rank", &a.Rank, dto.Rank)
	set("unit", &a.Unit, dto.Unit)
	set("position", &a.Position, dto.Position)
	set("phone", &a.Phone, dto.Phone)
	return changed, nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishSync(ctx, event); err != nil {
		s.logger.Error("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}

func actorID(actor *identity.Identity) string {
	if actor == nil {
		return ""
	}
	return actor.ID
}
