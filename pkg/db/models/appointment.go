package models

import (
	"time"

	"github.com/agendahub/agenda-backend/pkg/enums"
	"github.com/google/uuid"
)

// Appointment is a tenant-owned booking. References to client, professional
// and service are weak: they are resolved in memory against the same tenant's
// collections, and a missing referent renders as an explicit undefined marker.
type Appointment struct {
	ID             uuid.UUID               `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID       uuid.UUID               `gorm:"column:tenant_id;type:uuid;not null;index" json:"adminId"`
	Titulo         string                  `gorm:"column:titulo;not null" json:"titulo"`
	Data           string                  `gorm:"column:data;not null" json:"data"`
	Hora           string                  `gorm:"column:hora;not null" json:"hora"`
	ClienteID      uuid.UUID               `gorm:"column:cliente_id;type:uuid;not null" json:"clienteId"`
	ProfissionalID uuid.UUID               `gorm:"column:profissional_id;type:uuid;not null" json:"profissionalId"`
	ServicoID      uuid.UUID               `gorm:"column:servico_id;type:uuid;not null" json:"servicoId"`
	Status         enums.AppointmentStatus `gorm:"column:status;type:text;not null;default:'pendente'" json:"status"`
	Observacoes    string                  `gorm:"column:observacoes" json:"observacoes,omitempty"`
	CreatedAt      time.Time               `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (Appointment) TableName() string {
	return "agendamentos"
}

// StartsAt combines the stored date and time strings into a point in time.
// Invalid values return the zero time, mirroring the lenient original views.
func (a Appointment) StartsAt() time.Time {
	ts, err := time.Parse("2006-01-02 15:04", a.Data+" "+a.Hora)
	if err != nil {
		return time.Time{}
	}
	return ts
}
