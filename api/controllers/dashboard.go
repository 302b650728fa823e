package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/agendahub/agenda-backend/api/responses"
	dashsvc "github.com/agendahub/agenda-backend/internal/dashboard"
	pkgerrors "github.com/agendahub/agenda-backend/pkg/errors"
	"github.com/agendahub/agenda-backend/pkg/logger"
)

// Dashboard returns the summary for ?month=YYYY-MM, defaulting to the
// current month. Without ?adminId= it aggregates across every admin tenant;
// with it, the figures are scoped to that single tenant.
func Dashboard(svc *dashsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		month := r.URL.Query().Get("month")
		if month == "" {
			month = time.Now().UTC().Format("2006-01")
		}

		var (
			summary *dashsvc.Summary
			err     error
		)
		if raw := r.URL.Query().Get("adminId"); raw != "" {
			tenantID, parseErr := uuid.Parse(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid adminId"))
				return
			}
			summary, err = svc.Monthly(r.Context(), tenantID, month)
		} else {
			summary, err = svc.MonthlyAll(r.Context(), month)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
