package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ServiceOffering is a tenant-owned bookable service ("servico"). Duracao is
// a free-text label, matching the original data; preco is exact decimal.
type ServiceOffering struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID  uuid.UUID       `gorm:"column:tenant_id;type:uuid;not null;index" json:"adminId"`
	Nome      string          `gorm:"column:nome;not null" json:"nome"`
	Duracao   string          `gorm:"column:duracao" json:"duracao"`
	Preco     decimal.Decimal `gorm:"column:preco;type:numeric(12,2);not null" json:"preco"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	CreatedBy uuid.UUID       `gorm:"column:created_by;type:uuid" json:"createdBy"`
}

func (ServiceOffering) TableName() string {
	return "servicos"
}
