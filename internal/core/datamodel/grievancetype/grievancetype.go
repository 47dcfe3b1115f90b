package grievancetype

import "time"

// GrievanceType is one (type, subtype) pair of the catalog.
type GrievanceType struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"column:name;size:100;not null;uniqueIndex:idx_grievance_types_name_subtype"`
	Subtype   string    `gorm:"column:subtype;size:100;not null;uniqueIndex:idx_grievance_types_name_subtype"`
	Position  int       `gorm:"column:position;not null;default:0"`
	IsActive  bool      `gorm:"column:is_active;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (GrievanceType) TableName() string {
	return "grievance_types"
}
