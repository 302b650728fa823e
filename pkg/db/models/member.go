package models

import (
	"time"

	"github.com/agendahub/agenda-backend/pkg/enums"
	"github.com/google/uuid"
)

// Member is the admin's staff roster entry ("membros"). The profile row keyed
// by UserID carries the member's role and inherited plan; this row exists so
// the quota check and the roster listing stay tenant-local.
type Member struct {
	UserID    uuid.UUID  `gorm:"column:user_id;type:uuid;primaryKey" json:"id"`
	TenantID  uuid.UUID  `gorm:"column:tenant_id;type:uuid;not null;index" json:"adminId"`
	Nome      string     `gorm:"column:nome;not null" json:"nome"`
	Email     string     `gorm:"column:email;not null" json:"email"`
	Role      enums.Role `gorm:"column:role;type:text;not null" json:"role"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (Member) TableName() string {
	return "membros"
}
