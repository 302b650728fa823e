package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/agendahub/agenda-backend/pkg/config"
	"github.com/agendahub/agenda-backend/pkg/enums"
	"github.com/agendahub/agenda-backend/pkg/errors"
)

// TokenManager mints and verifies HS256 access tokens.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewTokenManager(cfg config.JWTConfig) *TokenManager {
	return &TokenManager{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttl:    time.Duration(cfg.ExpirationMinutes) * time.Minute,
	}
}

// Mint issues an access token bound to the user's current device session.
// AccessID keys the server-side refresh token entry for this login.
func (m *TokenManager) Mint(userID, tenantID uuid.UUID, role enums.Role, deviceID string) (token string, accessID string, err error) {
	now := time.Now()
	accessID = uuid.NewString()
	claims := Claims{
		UserID:   userID,
		TenantID: tenantID,
		Role:     role,
		DeviceID: deviceID,
		AccessID: accessID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			ID:        accessID,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", "", errors.Wrap(errors.CodeInternal, err, "signing access token")
	}
	return signed, accessID, nil
}

// Verify parses and validates an access token, returning its claims.
func (m *TokenManager) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New(errors.CodeUnauthorized, "unexpected signing method")
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, errors.Wrap(errors.CodeUnauthorized, err, "invalid access token")
	}
	if !token.Valid {
		return nil, errors.New(errors.CodeUnauthorized, "invalid access token")
	}
	return claims, nil
}

// VerifyAllowExpired parses a token accepting an elapsed expiry. The
// signature and issuer still have to check out; only refresh uses this.
func (m *TokenManager) VerifyAllowExpired(raw string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser(jwt.WithIssuer(m.issuer), jwt.WithoutClaimsValidation())
	token, err := parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New(errors.CodeUnauthorized, "unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.CodeUnauthorized, err, "invalid access token")
	}
	if !token.Valid {
		return nil, errors.New(errors.CodeUnauthorized, "invalid access token")
	}
	if iss, _ := claims.GetIssuer(); iss != m.issuer {
		return nil, errors.New(errors.CodeUnauthorized, "invalid access token issuer")
	}
	return claims, nil
}
