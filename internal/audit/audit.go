package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/grievance-management/internal"
	auditDatamodel "github.com/frahmantamala/grievance-management/internal/core/datamodel/audit"
	"github.com/frahmantamala/grievance-management/internal/core/events"
	"github.com/frahmantamala/grievance-management/internal/core/identity"
	"github.com/google/uuid"
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 500
)

type Entry struct {
	ID          string          `json:"id"`
	EventID     string          `json:"event_id"`
	EventType   string          `json:"event_type"`
	ActorID     string          `json:"actor_id,omitempty"`
	SubjectType string          `json:"subject_type"`
	SubjectID   string          `json:"subject_id"`
	Payload     json.RawMessage `json:"payload,omitempty"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

// ListFilter narrows the trail to one subject. Empty fields match everything.
type ListFilter struct {
	SubjectType string
	SubjectID   string
	Limit       int
}

type Repository interface {
	Create(ctx context.Context, e *Entry) error
	// List returns entries newest first.
	List(ctx context.Context, filter ListFilter) ([]*Entry, error)
}

type Subscriber interface {
	SubscribeAll(eventTypes []string, handler events.Handler)
}

// Recorder writes one audit row per published event.
type Recorder struct {
	repo   Repository
	logger *slog.Logger
}

func NewRecorder(repo Repository, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{repo: repo, logger: logger}
}

// Register subscribes the recorder to every domain event type.
func (r *Recorder) Register(bus Subscriber) {
	bus.SubscribeAll(events.AllTypes(), r.Handle)
}

func (r *Recorder) Handle(ctx context.Context, event events.Event) error {
	entry, err := FromEvent(event)
	if err != nil {
		return err
	}
	if err := r.repo.Create(ctx, entry); err != nil {
		r.logger.Error("failed to write audit entry",
			"event_type", entry.EventType,
			"event_id", entry.EventID,
			"error", err)
		return err
	}
	return nil
}

// List is restricted to admins.
func (r *Recorder) List(ctx context.Context, actor *identity.Identity, filter ListFilter) ([]*Entry, error) {
	if actor == nil {
		return nil, internal.ErrUnauthenticated
	}
	if !actor.IsAdmin() {
		return nil, internal.ErrAdminRequired
	}
	if filter.Limit <= 0 {
		filter.Limit = DefaultListLimit
	}
	if filter.Limit > MaxListLimit {
		filter.Limit = MaxListLimit
	}

	items, err := r.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*Entry{}
	}
	return items, nil
}

func FromEvent(event events.Event) (*Entry, error) {
	payload, err := json.Marshal(event.Payload())
	if err != nil {
		return nil, fmt.Errorf("encode payload of %s: %w", event.EventType(), err)
	}
	kind, id := event.Subject()
	return &Entry{
		ID:          uuid.NewString(),
		EventID:     event.EventID(),
		EventType:   event.EventType(),
		ActorID:     event.Actor(),
		SubjectType: kind,
		SubjectID:   id,
		Payload:     payload,
		OccurredAt:  event.OccurredAt().UTC(),
	}, nil
}

func ToDataModel(e *Entry) *auditDatamodel.Entry {
	return &auditDatamodel.Entry{
		ID:          e.ID,
		EventID:     e.EventID,
		EventType:   e.EventType,
		ActorID:     e.ActorID,
		SubjectType: e.SubjectType,
		SubjectID:   e.SubjectID,
		Payload:     string(e.Payload),
		OccurredAt:  e.OccurredAt,
	}
}

func FromDataModel(e *auditDatamodel.Entry) *Entry {
	var payload json.RawMessage
	if e.Payload != "" {
		payload = json.RawMessage(e.Payload)
	}
	return &Entry{
		ID:          e.ID,
		EventID:     e.EventID,
		EventType:   e.EventType,
		ActorID:     e.ActorID,
		SubjectType: e.SubjectType,
		SubjectID:   e.SubjectID,
		Payload:     payload,
		OccurredAt:  e.OccurredAt,
	}
}
