package appointments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agendahub/agenda-backend/internal/repo"
	"github.com/agendahub/agenda-backend/pkg/db/models"
	"github.com/agendahub/agenda-backend/pkg/enums"
	"github.com/agendahub/agenda-backend/pkg/errors"
)

// UndefinedMarker is rendered in place of a referent that was deleted after
// the appointment was booked.
const UndefinedMarker = "undefined"

// Service manages the tenant's bookings.
type Service struct {
	appointments  *repo.Tenant[models.Appointment]
	clients       *repo.Tenant[models.Client]
	professionals *repo.Tenant[models.Professional]
	offerings     *repo.Tenant[models.ServiceOffering]
}

func NewService(db *gorm.DB) *Service {
	return &Service{
		appointments:  repo.NewTenant[models.Appointment](db),
		clients:       repo.NewTenant[models.Client](db),
		professionals: repo.NewTenant[models.Professional](db),
		offerings:     repo.NewTenant[models.ServiceOffering](db),
	}
}

func (s *Service) List(ctx context.Context, tenantID uuid.UUID) ([]models.Appointment, error) {
	return s.appointments.List(ctx, tenantID)
}

func (s *Service) Get(ctx context.Context, tenantID, id uuid.UUID) (*models.Appointment, error) {
	return s.appointments.Get(ctx, tenantID, id)
}

// Create books an appointment. Referents must exist in the same tenant at
// booking time; they may be deleted later without invalidating the booking.
func (s *Service) Create(ctx context.Context, tenantID uuid.UUID, req CreateAppointmentRequest) (*models.Appointment, error) {
	if _, err := s.clients.Get(ctx, tenantID, req.ClienteID); err != nil {
		return nil, errors.New(errors.CodeValidation, "cliente does not exist in this tenant")
	}
	if _, err := s.professionals.Get(ctx, tenantID, req.ProfissionalID); err != nil {
		return nil, errors.New(errors.CodeValidation, "profissional does not exist in this tenant")
	}
	if _, err := s.offerings.Get(ctx, tenantID, req.ServicoID); err != nil {
		return nil, errors.New(errors.CodeValidation, "servico does not exist in this tenant")
	}

	appointment := &models.Appointment{
		ID:             uuid.New(),
		TenantID:       tenantID,
		Titulo:         req.Titulo,
		Data:           req.Data,
		Hora:           req.Hora,
		ClienteID:      req.ClienteID,
		ProfissionalID: req.ProfissionalID,
		ServicoID:      req.ServicoID,
		Status:         enums.AppointmentPendente,
		Observacoes:    req.Observacoes,
	}
	if err := s.appointments.Create(ctx, appointment); err != nil {
		return nil, err
	}
	return appointment, nil
}

// Update applies a partial patch. Status changes go through the transition
// check: any recognized status may move to any other recognized status, but
// unknown values never enter the system.
func (s *Service) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateAppointmentRequest) (*models.Appointment, error) {
	patch := map[string]any{}
	if req.Titulo != nil {
		patch["titulo"] = *req.Titulo
	}
	if req.Data != nil {
		patch["data"] = *req.Data
	}
	if req.Hora != nil {
		patch["hora"] = *req.Hora
	}
	if req.ClienteID != nil {
		patch["cliente_id"] = *req.ClienteID
	}
	if req.ProfissionalID != nil {
		patch["profissional_id"] = *req.ProfissionalID
	}
	if req.ServicoID != nil {
		patch["servico_id"] = *req.ServicoID
	}
	if req.Observacoes != nil {
		patch["observacoes"] = *req.Observacoes
	}
	if req.Status != nil {
		current, err := s.appointments.Get(ctx, tenantID, id)
		if err != nil {
			return nil, err
		}
		if !current.Status.CanTransitionTo(*req.Status) {
			return nil, errors.New(errors.CodeValidation, "invalid status transition")
		}
		patch["status"] = *req.Status
	}

	if err := s.appointments.Update(ctx, tenantID, id, patch); err != nil {
		return nil, err
	}
	return s.appointments.Get(ctx, tenantID, id)
}

func (s *Service) Remove(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.appointments.Remove(ctx, tenantID, id)
}

// ListResolved returns the tenant's bookings with referent names joined in
// memory. Deleted referents render as the undefined marker.
func (s *Service) ListResolved(ctx context.Context, tenantID uuid.UUID) ([]ResolvedAppointment, error) {
	rows, err := s.appointments.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return s.Resolve(ctx, tenantID, rows)
}

// Resolve joins referent names onto the given appointments of one tenant.
func (s *Service) Resolve(ctx context.Context, tenantID uuid.UUID, rows []models.Appointment) ([]ResolvedAppointment, error) {
	clientNames, err := nameIndex(ctx, s.clients, tenantID, func(c models.Client) (uuid.UUID, string) { return c.ID, c.Nome })
	if err != nil {
		return nil, err
	}
	professionalNames, err := nameIndex(ctx, s.professionals, tenantID, func(p models.Professional) (uuid.UUID, string) { return p.ID, p.Nome })
	if err != nil {
		return nil, err
	}
	offeringNames, err := nameIndex(ctx, s.offerings, tenantID, func(o models.ServiceOffering) (uuid.UUID, string) { return o.ID, o.Nome })
	if err != nil {
		return nil, err
	}

	resolved := make([]ResolvedAppointment, 0, len(rows))
	for _, a := range rows {
		resolved = append(resolved, ResolvedAppointment{
			ID:           a.ID,
			TenantID:     a.TenantID,
			Titulo:       a.Titulo,
			Data:         a.Data,
			Hora:         a.Hora,
			Cliente:      nameOrUndefined(clientNames, a.ClienteID),
			Profissional: nameOrUndefined(professionalNames, a.ProfissionalID),
			Servico:      nameOrUndefined(offeringNames, a.ServicoID),
			Status:       a.Status,
			Observacoes:  a.Observacoes,
		})
	}
	return resolved, nil
}

func nameIndex[T repo.TenantOwned](ctx context.Context, r *repo.Tenant[T], tenantID uuid.UUID, key func(T) (uuid.UUID, string)) (map[uuid.UUID]string, error) {
	rows, err := r.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	index := make(map[uuid.UUID]string, len(rows))
	for _, row := range rows {
		id, name := key(row)
		index[id] = name
	}
	return index, nil
}

func nameOrUndefined(index map[uuid.UUID]string, id uuid.UUID) string {
	if name, ok := index[id]; ok {
		return name
	}
	return UndefinedMarker
}
