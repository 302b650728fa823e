package controllers

import (
	"net/http"

	"github.com/agendahub/agenda-backend/api/responses"
	"github.com/agendahub/agenda-backend/api/validators"
	arsvc "github.com/agendahub/agenda-backend/internal/accessrequests"
	"github.com/agendahub/agenda-backend/pkg/enums"
	pkgerrors "github.com/agendahub/agenda-backend/pkg/errors"
	"github.com/agendahub/agenda-backend/pkg/logger"
)

type reviewAccessRequest struct {
	Status string `json:"status" validate:"required"`
}

// CreateAccessRequest is the public lead form. No auth.
func CreateAccessRequest(svc *arsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload arsvc.CreateAccessRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.Create(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, row)
	}
}

func ListAccessRequests(svc *arsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// ReviewAccessRequest moves a request to aprovado or recusado.
func ReviewAccessRequest(svc *arsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload reviewAccessRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseAccessRequestStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		row, err := svc.SetStatus(r.Context(), id, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}
