package events

const (
	EventTypeGrievanceCreated     = "grievance.created"
	EventTypeGrievanceUpdated     = "grievance.updated"
	EventTypeGrievanceDeleted     = "grievance.deleted"
	EventTypeGrievanceNoteCreated = "grievance.note_created"

	SubjectGrievance = "grievance"
)

func NewGrievanceCreatedEvent(actorID, grievanceID, ownerID, unit string) BaseEvent {
	return NewBaseEvent(EventTypeGrievanceCreated, actorID, SubjectGrievance, grievanceID, map[string]interface{}{
		"user_id": ownerID,
		"unit":    unit,
	})
}

// NewGrievanceUpdatedEvent records which fields changed and which immutable fields were ignored.
func NewGrievanceUpdatedEvent(actorID, grievanceID string, changed, ignored []string) BaseEvent {
	return NewBaseEvent(EventTypeGrievanceUpdated, actorID, SubjectGrievance, grievanceID, map[string]interface{}{
		"changed": changed,
		"ignored": ignored,
	})
}

func NewGrievanceDeletedEvent(actorID, grievanceID, ownerID string, notesRemoved int64) BaseEvent {
	return NewBaseEvent(EventTypeGrievanceDeleted, actorID, SubjectGrievance, grievanceID, map[string]interface{}{
		"user_id":       ownerID,
		"notes_removed": notesRemoved,
	})
}

func NewGrievanceNoteCreatedEvent(actorID, grievanceID, noteID string) BaseEvent {
	return NewBaseEvent(EventTypeGrievanceNoteCreated, actorID, SubjectGrievance, grievanceID, map[string]interface{}{
		"note_id": noteID,
	})
}
