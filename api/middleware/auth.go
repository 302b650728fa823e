package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/agendahub/agenda-backend/api/responses"
	"github.com/agendahub/agenda-backend/internal/sessions"
	pkgauth "github.com/agendahub/agenda-backend/pkg/auth"
	pkgerrors "github.com/agendahub/agenda-backend/pkg/errors"
	"github.com/agendahub/agenda-backend/pkg/logger"
)

type sessionValidator interface {
	Validate(ctx context.Context, userID uuid.UUID, deviceID string) (sessions.State, error)
}

// Auth validates a bearer token, checks that the token's device still holds
// the session, and seeds the request context with the claims. A token whose
// session was taken over by another device is rejected with SESSION_CONFLICT,
// which tells the client exactly why it got signed out.
func Auth(tokens *pkgauth.TokenManager, registry sessionValidator, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := tokens.Verify(token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			if registry != nil {
				state, err := registry.Validate(r.Context(), claims.UserID, claims.DeviceID)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, err)
					return
				}
				switch state {
				case sessions.StateActiveMatch:
				case sessions.StateActiveOtherDevice:
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeSessionConflict, "session taken over by another device"))
					return
				default:
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "no active session"))
					return
				}
			}

			ctx := WithClaims(r.Context(), claims)
			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":    claims.UserID.String(),
					"tenant_id":  claims.TenantID.String(),
					"actor_role": string(claims.Role),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
