package models

import (
	"time"

	"github.com/agendahub/agenda-backend/pkg/enums"
	"github.com/google/uuid"
)

// AccessRequest is a "solicitacao" submitted through the public form by a
// prospective tenant. It is the only unauthenticated write in the system.
type AccessRequest struct {
	ID        uuid.UUID                 `gorm:"type:uuid;primaryKey" json:"id"`
	Nome      string                    `gorm:"column:nome;not null" json:"nome"`
	Email     string                    `gorm:"column:email;not null" json:"email"`
	Empresa   string                    `gorm:"column:empresa" json:"empresa"`
	Telefone  string                    `gorm:"column:telefone" json:"telefone"`
	Mensagem  string                    `gorm:"column:mensagem" json:"mensagem"`
	Status    enums.AccessRequestStatus `gorm:"column:status;type:text;not null;default:'pendente'" json:"status"`
	CreatedAt time.Time                 `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (AccessRequest) TableName() string {
	return "solicitacoes"
}
