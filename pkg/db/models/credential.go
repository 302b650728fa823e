package models

import (
	"time"

	"github.com/google/uuid"
)

// Credential is the identity-provider record: it proves who a user is, and
// nothing else. Role and plan live on the Profile document keyed by the same
// id; a credential without a profile is a valid identity with no access.
type Credential struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	DisplayName  string    `gorm:"column:display_name"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Credential) TableName() string {
	return "credentials"
}
