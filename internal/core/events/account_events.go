package events

const (
	EventTypeAccountCreated     = "account.created"
	EventTypeAccountUpdated     = "account.updated"
	EventTypeAccountRoleChanged = "account.role_changed"
	EventTypeAccountDeleted     = "account.deleted"

	SubjectAccount = "account"
)

func NewAccountCreatedEvent(actorID, accountID, role string, bootstrap bool) BaseEvent {
	return NewBaseEvent(EventTypeAccountCreated, actorID, SubjectAccount, accountID, map[string]interface{}{
		"role":      role,
		"bootstrap": bootstrap,
	})
}

func NewAccountUpdatedEvent(actorID, accountID string, changed []string) BaseEvent {
	return NewBaseEvent(EventTypeAccountUpdated, actorID, SubjectAccount, accountID, map[string]interface{}{
		"changed": changed,
	})
}

func NewAccountRoleChangedEvent(actorID, accountID, from, to string) BaseEvent {
	return NewBaseEvent(EventTypeAccountRoleChanged, actorID, SubjectAccount, accountID, map[string]interface{}{
		"from": from,
		"to":   to,
	})
}

func NewAccountDeletedEvent(actorID, accountID string) BaseEvent {
	return NewBaseEvent(EventTypeAccountDeleted, actorID, SubjectAccount, accountID, nil)
}

// AllTypes lists every event type emitted by the services.
func AllTypes() []string {
	return []string{
		EventTypeGrievanceCreated,
		EventTypeGrievanceUpdated,
		EventTypeGrievanceDeleted,
		EventTypeGrievanceNoteCreated,
		EventTypeAccountCreated,
		EventTypeAccountUpdated,
		EventTypeAccountRoleChanged,
		EventTypeAccountDeleted,
	}
}
