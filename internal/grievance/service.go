package grievance

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/grievance-management/internal"
	"github.com/frahmantamala/grievance-management/internal/core/events"
	"github.com/frahmantamala/grievance-management/internal/core/identity"
)

// ListFilter narrows a list query. Scope is always applied; OwnerID, when
// set, further restricts the result to one owner.
type ListFilter struct {
	Scope   ListScope
	OwnerID string
}

// Repository is the grievance store. GetByID and GetByIDForUpdate return
// internal.ErrGrievanceNotFound for a missing record. Update returns the same
// error when the row vanished underneath the caller.
type Repository interface {
	WithinTransaction(ctx context.Context, fn func(repo Repository) error) error
	Create(ctx context.Context, g *Grievance) error
	GetByID(ctx context.Context, id string) (*Grievance, error)
	GetByIDForUpdate(ctx context.Context, id string) (*Grievance, error)
	// List returns matches newest first.
	List(ctx context.Context, filter ListFilter) ([]*Grievance, error)
	Update(ctx context.Context, g *Grievance) error
	// Delete removes the grievance and its notes, returning how many notes went with it.
	Delete(ctx context.Context, id string) (int64, error)
	CreateNote(ctx context.Context, n *Note) error
}

// NoteReader lists a grievance's notes newest first, with author names
// resolved from the accounts table at query time.
type NoteReader interface {
	ListNotes(ctx context.Context, grievanceID string) ([]*NoteView, error)
}

type EventPublisher interface {
	PublishSync(ctx context.Context, event events.Event) error
}

type Service struct {
	repo      Repository
	notes     NoteReader
	publisher EventPublisher
	logger    *slog.Logger
}

// NewService wires the grievance service. publisher may be nil.
func NewService(repo Repository, notes NoteReader, publisher EventPublisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		notes:     notes,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *Service) CreateGrievance(ctx context.Context, actor *identity.Identity, dto CreateGrievanceDTO) (*Grievance, error) {
	if actor == nil {
		return nil, internal.ErrUnauthenticated
	}
	if err := dto.Validate(); err != nil {
		s.logger.Warn("grievance validation failed", "user_id", actor.ID, "error", err)
		return nil, err
	}

	g := NewGrievance(actor.ID, dto, time.Now())
	if err := s.repo.Create(ctx, g); err != nil {
		s.logger.Error("failed to create grievance", "error", err, "user_id", actor.ID)
		return nil, err
	}

	s.logger.Info("grievance created",
		"grievance_id", g.ID,
		"user_id", actor.ID,
		"unit", g.Unit)

	s.publish(ctx, events.NewGrievanceCreatedEvent(actor.ID, g.ID, g.OwnerID, g.Unit))
	return g, nil
}

func (s *Service) ListGrievances(ctx context.Context, actor *identity.Identity) ([]*Grievance, error) {
	return s.list(ctx, actor, "")
}

// ListOwnerGrievances lists one owner's grievances, intersected with what the
// caller may see.
func (s *Service) ListOwnerGrievances(ctx context.Context, actor *identity.Identity, ownerID string) ([]*Grievance, error) {
	if ownerID == "" {
		return []*Grievance{}, nil
	}
	return s.list(ctx, actor, ownerID)
}

func (s *Service) list(ctx context.Context, actor *identity.Identity, ownerID string) ([]*Grievance, error) {
	if actor == nil {
		return nil, internal.ErrUnauthenticated
	}
	scope := ScopeFor(actor)
	if scope.Empty() {
		return []*Grievance{}, nil
	}

	items, err := s.repo.List(ctx, ListFilter{Scope: scope, OwnerID: ownerID})
	if err != nil {
		s.logger.Error("failed to list grievances", "error", err, "user_id", actor.ID)
		return nil, err
	}
	if items == nil {
		items = []*Grievance{}
	}
	return items, nil
}

// ReadGrievance returns the grievance with its notes, newest first. A missing
// record is NotFound for every caller, before visibility is considered.
func (s *Service) ReadGrievance(ctx context.Context, actor *identity.Identity, id string) (*Grievance, error) {
	if actor == nil {
		return nil, internal.ErrUnauthenticated
	}
	g, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !VisibilityOf(actor, g).CanRead() {
		s.denied("read", actor, g)
		return nil, internal.ErrGrievanceAccessDenied
	}

	notes, err := s.notes.ListNotes(ctx, g.ID)
	if err != nil {
		s.logger.Error("failed to load grievance notes", "error", err, "grievance_id", g.ID)
		return nil, err
	}
	g.Notes = notes
	return g, nil
}

// UpdateGrievance applies dto under a row lock. Immutable fields in the body
// are ignored, not rejected.
func (s *Service) UpdateGrievance(ctx context.Context, actor *identity.Identity, id string, dto UpdateGrievanceDTO) (*Grievance, error) {
	if actor == nil {
		return nil, internal.ErrUnauthenticated
	}
	patch, err := dto.ToPatch()
	if err != nil {
		return nil, err
	}

	var (
		updated          *Grievance
		changed, ignored []string
	)
	err = s.repo.WithinTransaction(ctx, func(tx Repository) error {
		g, err := tx.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !VisibilityOf(actor, g).CanWrite() {
			s.denied("update", actor, g)
			return internal.ErrGrievanceAccessDenied
		}

		changed, ignored = ApplyPatch(g, patch, time.Now())
		if err := tx.Update(ctx, g); err != nil {
			return err
		}
		updated = g
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(ignored) > 0 {
		s.logger.Info("immutable grievance fields ignored", "grievance_id", id, "fields", ignored)
	}
	s.logger.Info("grievance updated", "grievance_id", id, "user_id", actor.ID, "changed", changed)

	s.publish(ctx, events.NewGrievanceUpdatedEvent(actor.ID, id, changed, ignored))
	return updated, nil
}

func (s *Service) DeleteGrievance(ctx context.Context, actor *identity.Identity, id string) error {
	if actor == nil {
		return internal.ErrUnauthenticated
	}

	var (
		ownerID      string
		notesRemoved int64
	)
	err := s.repo.WithinTransaction(ctx, func(tx Repository) error {
		g, err := tx.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !CanDelete(actor, g) {
			s.denied("delete", actor, g)
			return internal.ErrGrievanceDeleteDenied
		}
		ownerID = g.OwnerID
		notesRemoved, err = tx.Delete(ctx, id)
		return err
	})
	if err != nil {
		return err
	}

	s.logger.Info("grievance deleted",
		"grievance_id", id,
		"user_id", actor.ID,
		"notes_removed", notesRemoved)

	s.publish(ctx, events.NewGrievanceDeletedEvent(actor.ID, id, ownerID, notesRemoved))
	return nil
}

// CreateNote requires at least read visibility on the parent grievance. The
// parent row is locked so a concurrent delete cannot orphan the note.
func (s *Service) CreateNote(ctx context.Context, actor *identity.Identity, grievanceID string, dto CreateNoteDTO) (*NoteView, error) {
	if actor == nil {
		return nil, internal.ErrUnauthenticated
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	var note *Note
	err := s.repo.WithinTransaction(ctx, func(tx Repository) error {
		g, err := tx.GetByIDForUpdate(ctx, grievanceID)
		if err != nil {
			return err
		}
		if !VisibilityOf(actor, g).CanRead() {
			s.denied("annotate", actor, g)
			return internal.ErrGrievanceAccessDenied
		}
		note = NewNote(g.ID, actor.ID, dto.Content, time.Now())
		return tx.CreateNote(ctx, note)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("note created", "grievance_id", grievanceID, "note_id", note.ID, "user_id", actor.ID)
	s.publish(ctx, events.NewGrievanceNoteCreatedEvent(actor.ID, grievanceID, note.ID))

	return &NoteView{
		ID:          note.ID,
		GrievanceID: note.GrievanceID,
		AuthorID:    note.AuthorID,
		AuthorName:  actor.DisplayName(),
		Content:     note.Content,
		CreatedAt:   note.CreatedAt,
	}, nil
}

func (s *Service) ListNotes(ctx context.Context, actor *identity.Identity, grievanceID string) ([]*NoteView, error) {
	if actor == nil {
		return nil, internal.ErrUnauthenticated
	}
	g, err := s.repo.GetByID(ctx, grievanceID)
	if err != nil {
		return nil, err
	}
	if !VisibilityOf(actor, g).CanRead() {
		s.denied("list notes", actor, g)
		return nil, internal.ErrGrievanceAccessDenied
	}

	notes, err := s.notes.ListNotes(ctx, g.ID)
	if err != nil {
		s.logger.Error("failed to list notes", "error", err, "grievance_id", g.ID)
		return nil, err
	}
	if notes == nil {
		notes = []*NoteView{}
	}
	return notes, nil
}

func (s *Service) denied(action string, actor *identity.Identity, g *Grievance) {
	s.logger.Warn("grievance access denied",
		"action", action,
		"grievance_id", g.ID,
		"user_id", actor.ID,
		"role", actor.Role)
}

// publish runs after commit. A failing subscriber is logged and does not
// undo the committed change.
func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishSync(ctx, event); err != nil {
		s.logger.Error("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}
