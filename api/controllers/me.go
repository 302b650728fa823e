package controllers

import (
	"net/http"

	"github.com/agendahub/agenda-backend/api/middleware"
	"github.com/agendahub/agenda-backend/api/responses"
	"github.com/agendahub/agenda-backend/internal/users"
	"github.com/agendahub/agenda-backend/pkg/logger"
)

// Me returns the signed-in user's profile.
func Me(profiles *users.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := profiles.FindByID(r.Context(), middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}
