package models

import (
	"time"

	"github.com/agendahub/agenda-backend/pkg/enums"
	"github.com/google/uuid"
)

// Profile is the "usuarios" document: the authorization-bearing record tied
// one-to-one to a credential. Admin profiles double as tenant roots.
type Profile struct {
	UserID    uuid.UUID  `gorm:"column:user_id;type:uuid;primaryKey" json:"id"`
	Nome      string     `gorm:"column:nome;not null" json:"nome"`
	Email     string     `gorm:"column:email;not null" json:"email"`
	Role      enums.Role `gorm:"column:role;type:text;not null" json:"role"`
	Plano     enums.Plan `gorm:"column:plano;type:text;not null;default:'basico'" json:"plano"`
	TenantID  *uuid.UUID `gorm:"column:tenant_id;type:uuid" json:"adminId,omitempty"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Profile) TableName() string {
	return "usuarios"
}

// HomeTenant resolves the tenant a profile operates in: a profile without a
// parent tenant owns its partition, provisioned staff act inside the admin
// partition that created them.
func (p Profile) HomeTenant() uuid.UUID {
	if p.TenantID == nil {
		return p.UserID
	}
	return *p.TenantID
}
