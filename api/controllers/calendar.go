package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/agendahub/agenda-backend/api/responses"
	"github.com/agendahub/agenda-backend/internal/aggregate"
	"github.com/agendahub/agenda-backend/internal/appointments"
	pkgerrors "github.com/agendahub/agenda-backend/pkg/errors"
	"github.com/agendahub/agenda-backend/pkg/logger"
)

// Calendar returns bookings in calendar order. Without ?adminId= it fans out
// across every tenant; with it, the view is scoped to that single tenant.
// Optional ?profissional=, ?servico= and ?status= filter the resolved rows.
func Calendar(svc *aggregate.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			rows []appointments.ResolvedAppointment
			err  error
		)
		if raw := r.URL.Query().Get("adminId"); raw != "" {
			tenantID, parseErr := uuid.Parse(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid adminId"))
				return
			}
			rows, err = svc.CalendarFor(r.Context(), tenantID)
		} else {
			rows, err = svc.Calendar(r.Context())
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, filterCalendar(rows, r.URL.Query().Get("profissional"), r.URL.Query().Get("servico"), r.URL.Query().Get("status")))
	}
}

func filterCalendar(rows []appointments.ResolvedAppointment, profissional, servico, status string) []appointments.ResolvedAppointment {
	if profissional == "" && servico == "" && status == "" {
		return rows
	}
	filtered := make([]appointments.ResolvedAppointment, 0, len(rows))
	for _, row := range rows {
		if profissional != "" && row.Profissional != profissional {
			continue
		}
		if servico != "" && row.Servico != servico {
			continue
		}
		if status != "" && string(row.Status) != status {
			continue
		}
		filtered = append(filtered, row)
	}
	return filtered
}
