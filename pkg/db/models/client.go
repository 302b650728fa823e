package models

import (
	"time"

	"github.com/google/uuid"
)

// Client is a tenant-owned customer record.
type Client struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID    uuid.UUID `gorm:"column:tenant_id;type:uuid;not null;index" json:"adminId"`
	Nome        string    `gorm:"column:nome;not null" json:"nome"`
	Telefone    string    `gorm:"column:telefone;not null" json:"telefone"`
	Email       string    `gorm:"column:email;not null" json:"email"`
	Observacoes string    `gorm:"column:observacoes" json:"observacoes"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	CreatedBy   uuid.UUID `gorm:"column:created_by;type:uuid" json:"createdBy"`
}

func (Client) TableName() string {
	return "clientes"
}
