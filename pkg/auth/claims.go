package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/agendahub/agenda-backend/pkg/enums"
)

// Claims is the access-token payload. TenantID is the partition all data
// operations are scoped to; DeviceID ties the token to the session that
// minted it so a takeover by another device invalidates it.
type Claims struct {
	UserID   uuid.UUID  `json:"uid"`
	TenantID uuid.UUID  `json:"tid"`
	Role     enums.Role `json:"role"`
	DeviceID string     `json:"did"`
	AccessID string     `json:"aid"`
	jwt.RegisteredClaims
}
