package audit

import "time"

// Entry is one row of the mutation audit trail.
type Entry struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)"`
	EventID     string    `gorm:"column:event_id;type:varchar(36);not null;uniqueIndex"`
	EventType   string    `gorm:"column:event_type;size:64;not null;index"`
	ActorID     string    `gorm:"column:actor_id;type:varchar(36)"`
	SubjectType string    `gorm:"column:subject_type;size:32;not null"`
	SubjectID   string    `gorm:"column:subject_id;type:varchar(36);not null;index"`
	Payload     string    `gorm:"column:payload"`
	OccurredAt  time.Time `gorm:"column:occurred_at;not null;index"`
}

func (Entry) TableName() string {
	return "audit_logs"
}
