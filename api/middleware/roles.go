package middleware

import (
	"net/http"

	"github.com/agendahub/agenda-backend/api/responses"
	"github.com/agendahub/agenda-backend/internal/authz"
	"github.com/agendahub/agenda-backend/pkg/enums"
	pkgerrors "github.com/agendahub/agenda-backend/pkg/errors"
	"github.com/agendahub/agenda-backend/pkg/logger"
)

// RequireAnyRole admits the request when the actor's role is in the allowed
// set. The set is unordered and listed explicitly per route group.
func RequireAnyRole(logg *logger.Logger, allowed ...enums.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromContext(r.Context())
			if claims == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}
			if err := authz.Authorize(claims.Role, allowed...); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
