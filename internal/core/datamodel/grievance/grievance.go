package grievance

import "time"

type Grievance struct {
	ID               string    `gorm:"primaryKey;type:varchar(36)"`
	UserID           string    `gorm:"column:user_id;type:varchar(36);not null;index"`
	Title            string    `gorm:"column:title;size:200;not null"`
	Description      string    `gorm:"column:description;size:2000;not null"`
	RedressSought    string    `gorm:"column:redress_sought;size:1000;not null"`
	SubmitterName    string    `gorm:"column:submitter_name;size:200;not null"`
	ServiceNumber    string    `gorm:"column:service_number;size:50;not null"`
	Rank             string    `gorm:"column:rank;size:50;not null"`
	Email            string    `gorm:"column:email;size:200;not null"`
	Phone            string    `gorm:"column:phone;size:50;not null"`
	Unit             string    `gorm:"column:unit;size:100;not null;index"`
	Position         string    `gorm:"column:position;size:200;not null"`
	GrievanceType    string    `gorm:"column:grievance_type;size:100;not null"`
	GrievanceSubtype string    `gorm:"column:grievance_subtype;size:100;not null"`
	Status           string    `gorm:"column:status;size:20;not null"`
	CreatedAt        time.Time `gorm:"column:created_at;not null"`
	UpdatedAt        time.Time `gorm:"column:updated_at;not null;autoUpdateTime:false"`
}

func (Grievance) TableName() string {
	return "grievances"
}

type Note struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)"`
	GrievanceID string    `gorm:"column:grievance_id;type:varchar(36);not null;index"`
	UserID      string    `gorm:"column:user_id;type:varchar(36);not null;index"`
	Content     string    `gorm:"column:content;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;not null"`
}

func (Note) TableName() string {
	return "notes"
}
