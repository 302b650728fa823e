package middleware

import (
	"context"

	"github.com/google/uuid"

	pkgauth "github.com/agendahub/agenda-backend/pkg/auth"
)

type contextKey string

const (
	ctxClaims contextKey = "claims"
)

// ClaimsFromContext returns the verified claims seeded by the Auth
// middleware, or nil outside an authenticated request.
func ClaimsFromContext(ctx context.Context) *pkgauth.Claims {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxClaims).(*pkgauth.Claims); ok {
		return v
	}
	return nil
}

// WithClaims injects verified claims into the context.
func WithClaims(ctx context.Context, claims *pkgauth.Claims) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxClaims, claims)
}

// TenantFromContext returns the tenant partition of the authenticated actor.
func TenantFromContext(ctx context.Context) uuid.UUID {
	if claims := ClaimsFromContext(ctx); claims != nil {
		return claims.TenantID
	}
	return uuid.Nil
}

// UserIDFromContext returns the authenticated user id.
func UserIDFromContext(ctx context.Context) uuid.UUID {
	if claims := ClaimsFromContext(ctx); claims != nil {
		return claims.UserID
	}
	return uuid.Nil
}
