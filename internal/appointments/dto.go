package appointments

import (
	"github.com/google/uuid"

	"github.com/agendahub/agenda-backend/pkg/enums"
)

// CreateAppointmentRequest is the payload for booking.
type CreateAppointmentRequest struct {
	Titulo         string    `json:"titulo" validate:"required"`
	Data           string    `json:"data" validate:"required,datetime=2006-01-02"`
	Hora           string    `json:"hora" validate:"required,datetime=15:04"`
	ClienteID      uuid.UUID `json:"clienteId" validate:"required"`
	ProfissionalID uuid.UUID `json:"profissionalId" validate:"required"`
	ServicoID      uuid.UUID `json:"servicoId" validate:"required"`
	Observacoes    string    `json:"observacoes"`
}

// UpdateAppointmentRequest carries a partial patch; nil fields stay untouched.
type UpdateAppointmentRequest struct {
	Titulo         *string                  `json:"titulo"`
	Data           *string                  `json:"data" validate:"omitempty,datetime=2006-01-02"`
	Hora           *string                  `json:"hora" validate:"omitempty,datetime=15:04"`
	ClienteID      *uuid.UUID               `json:"clienteId"`
	ProfissionalID *uuid.UUID               `json:"profissionalId"`
	ServicoID      *uuid.UUID               `json:"servicoId"`
	Status         *enums.AppointmentStatus `json:"status"`
	Observacoes    *string                  `json:"observacoes"`
}

// ResolvedAppointment is the display view: weak references replaced by names
// from the same tenant's collections. A referent that no longer exists
// renders as the explicit undefined marker instead of failing the view.
type ResolvedAppointment struct {
	ID           uuid.UUID               `json:"id"`
	TenantID     uuid.UUID               `json:"adminId"`
	Titulo       string                  `json:"titulo"`
	Data         string                  `json:"data"`
	Hora         string                  `json:"hora"`
	Cliente      string                  `json:"cliente"`
	Profissional string                  `json:"profissional"`
	Servico      string                  `json:"servico"`
	Status       enums.AppointmentStatus `json:"status"`
	Observacoes  string                  `json:"observacoes,omitempty"`
}
