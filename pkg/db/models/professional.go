package models

import (
	"time"

	"github.com/google/uuid"
)

// Professional is a tenant-owned staff member who attends appointments.
type Professional struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID      uuid.UUID `gorm:"column:tenant_id;type:uuid;not null;index" json:"adminId"`
	Nome          string    `gorm:"column:nome;not null" json:"nome"`
	Especialidade string    `gorm:"column:especialidade" json:"especialidade"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	CreatedBy     uuid.UUID `gorm:"column:created_by;type:uuid" json:"createdBy"`
}

func (Professional) TableName() string {
	return "profissionais"
}
