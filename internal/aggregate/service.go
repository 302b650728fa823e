package aggregate

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agendahub/agenda-backend/internal/appointments"
	"github.com/agendahub/agenda-backend/internal/repo"
	"github.com/agendahub/agenda-backend/internal/users"
	"github.com/agendahub/agenda-backend/pkg/db/models"
	"github.com/agendahub/agenda-backend/pkg/logger"
)

// Service builds the cross-tenant calendar. It reads every tenant partition
// and merges the results; a partition that fails to load is logged and
// skipped, never fatal, so one broken tenant cannot blank the whole view.
type Service struct {
	profiles     *users.Repository
	bookings     *appointments.Service
	bookingsRepo *repo.Tenant[models.Appointment]
	logg         *logger.Logger
}

func NewService(db *gorm.DB, logg *logger.Logger) *Service {
	return &Service{
		profiles:     users.NewRepository(db),
		bookings:     appointments.NewService(db),
		bookingsRepo: repo.NewTenant[models.Appointment](db),
		logg:         logg,
	}
}

// Calendar returns every tenant's bookings merged chronologically, with
// referent names resolved per tenant.
func (s *Service) Calendar(ctx context.Context) ([]appointments.ResolvedAppointment, error) {
	roots, err := s.profiles.ListTenantRoots(ctx)
	if err != nil {
		return nil, err
	}

	rows, partial := s.bookingsRepo.ListAcrossTenants(ctx, roots, nil)
	if partial != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", partial.Error()), "calendar fan-out returned partial results")
	}

	byTenant := map[uuid.UUID][]models.Appointment{}
	for _, row := range rows {
		byTenant[row.TenantID] = append(byTenant[row.TenantID], row)
	}

	merged := make([]appointments.ResolvedAppointment, 0, len(rows))
	for tenantID, tenantRows := range byTenant {
		resolved, err := s.bookings.Resolve(ctx, tenantID, tenantRows)
		if err != nil {
			s.logg.Warn(s.logg.WithTenantID(ctx, tenantID.String()), "skipping tenant with unresolvable bookings")
			continue
		}
		merged = append(merged, resolved...)
	}

	sortChronologically(merged)
	return merged, nil
}

// CalendarFor returns one tenant's bookings in calendar order, names resolved.
func (s *Service) CalendarFor(ctx context.Context, tenantID uuid.UUID) ([]appointments.ResolvedAppointment, error) {
	resolved, err := s.bookings.ListResolved(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	sortChronologically(resolved)
	return resolved, nil
}

func sortChronologically(rows []appointments.ResolvedAppointment) {
	sort.SliceStable(rows, func(i, j int) bool {
		a := rows[i].Data + " " + rows[i].Hora
		b := rows[j].Data + " " + rows[j].Hora
		return a < b
	})
}
