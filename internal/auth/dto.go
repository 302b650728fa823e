package auth

import (
	"github.com/google/uuid"

	"github.com/agendahub/agenda-backend/pkg/enums"
)

// LoginRequest carries the credentials plus the device claiming the session.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	DeviceID string `json:"deviceId" validate:"required"`
}

// UserSummary is the profile slice returned to the client after login.
type UserSummary struct {
	ID       uuid.UUID  `json:"id"`
	Nome     string     `json:"nome"`
	Email    string     `json:"email"`
	Role     enums.Role `json:"role"`
	Plano    enums.Plan `json:"plano"`
	TenantID uuid.UUID  `json:"adminId"`
}

// LoginResponse is the token pair handed to a device that won the session.
type LoginResponse struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	User         UserSummary `json:"user"`
}

// RefreshRequest rotates the token pair. The access token may be expired;
// its signature still has to verify.
type RefreshRequest struct {
	AccessToken  string `json:"accessToken" validate:"required"`
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// RefreshResponse carries the rotated pair.
type RefreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
