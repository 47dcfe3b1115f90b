package account

import "time"

type Account struct {
	ID            string    `gorm:"primaryKey;type:varchar(36)"`
	Email         string    `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash  string    `gorm:"column:password_hash;not null"`
	Name          string    `gorm:"column:name"`
	ServiceNumber string    `gorm:"column:service_number"`
	Rank          string    `gorm:"column:rank"`
	Unit          string    `gorm:"column:unit;index"`
	Position      string    `gorm:"column:position"`
	Phone         string    `gorm:"column:phone"`
	Role          string    `gorm:"column:role;not null;index"`
	IsActive      bool      `gorm:"column:is_active;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;not null"`
	UpdatedAt     time.Time `gorm:"column:updated_at;not null;autoUpdateTime:false"`
}

func (Account) TableName() string {
	return "users"
}
