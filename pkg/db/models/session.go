package models

import (
	"time"

	"github.com/google/uuid"
)

// Session is the single per-user device-session record. It is not a ledger:
// each successful login overwrites the previous row for that user.
type Session struct {
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey"`
	DeviceID  string    `gorm:"column:device_id;not null"`
	Active    bool      `gorm:"column:active;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

func (Session) TableName() string {
	return "sessions"
}
