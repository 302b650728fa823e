package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/agendahub/agenda-backend/internal/identity"
	"github.com/agendahub/agenda-backend/internal/sessions"
	pkgauth "github.com/agendahub/agenda-backend/pkg/auth"
	"github.com/agendahub/agenda-backend/pkg/db/models"
	"github.com/agendahub/agenda-backend/pkg/errors"
	"github.com/agendahub/agenda-backend/pkg/metrics"
	"github.com/agendahub/agenda-backend/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth controller.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, claims *pkgauth.Claims) error
	Refresh(ctx context.Context, req RefreshRequest) (*RefreshResponse, error)
}

type credentialRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Credential, error)
}

type profileResolver interface {
	Resolve(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
}

type sessionRegistry interface {
	Begin(ctx context.Context, userID uuid.UUID, deviceID string) error
	End(ctx context.Context, userID uuid.UUID, deviceID string) error
	Validate(ctx context.Context, userID uuid.UUID, deviceID string) (sessions.State, error)
}

type refreshManager interface {
	Issue(ctx context.Context, accessID string) (string, error)
	Validate(ctx context.Context, accessID, presented string) error
	Revoke(ctx context.Context, accessID string) error
}

type service struct {
	credentials credentialRepository
	resolver    profileResolver
	registry    sessionRegistry
	refresh     refreshManager
	tokens      *pkgauth.TokenManager
	notifier    *identity.Notifier
	sessionMx   *metrics.SessionMetrics
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	Credentials    credentialRepository
	Resolver       profileResolver
	Registry       sessionRegistry
	RefreshManager refreshManager
	Tokens         *pkgauth.TokenManager
	Notifier       *identity.Notifier
	SessionMetrics *metrics.SessionMetrics
}

// NewService constructs a login service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Credentials == nil {
		return nil, fmt.Errorf("credential repository is required")
	}
	if params.Resolver == nil {
		return nil, fmt.Errorf("profile resolver is required")
	}
	if params.Registry == nil {
		return nil, fmt.Errorf("session registry is required")
	}
	if params.RefreshManager == nil {
		return nil, fmt.Errorf("refresh manager is required")
	}
	if params.Tokens == nil {
		return nil, fmt.Errorf("token manager is required")
	}
	if params.Notifier == nil {
		params.Notifier = identity.NewNotifier()
	}
	return &service{
		credentials: params.Credentials,
		resolver:    params.Resolver,
		registry:    params.Registry,
		refresh:     params.RefreshManager,
		tokens:      params.Tokens,
		notifier:    params.Notifier,
		sessionMx:   params.SessionMetrics,
	}, nil
}

// Login authenticates the credentials, claims the device session, resolves
// the profile and mints the token pair. The session claim happens before
// role resolution so two devices racing the same account serialize on the
// registry, and a failed resolution releases the claim it just made.
func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	cred, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	if err := s.registry.Begin(ctx, cred.ID, req.DeviceID); err != nil {
		if typed := errors.As(err); typed != nil && typed.Code() == errors.CodeSessionConflict {
			s.sessionMx.IncBegin("conflict")
		} else {
			s.sessionMx.IncBegin("error")
		}
		return nil, err
	}
	s.sessionMx.IncBegin("ok")

	profile, err := s.resolver.Resolve(ctx, cred.ID)
	if err != nil {
		// do not hold a session an unusable identity can never use
		_ = s.registry.End(ctx, cred.ID, req.DeviceID)
		return nil, err
	}

	tenantID := profile.HomeTenant()
	accessToken, accessID, err := s.tokens.Mint(cred.ID, tenantID, profile.Role, req.DeviceID)
	if err != nil {
		_ = s.registry.End(ctx, cred.ID, req.DeviceID)
		return nil, err
	}
	refreshToken, err := s.refresh.Issue(ctx, accessID)
	if err != nil {
		_ = s.registry.End(ctx, cred.ID, req.DeviceID)
		return nil, err
	}

	userID := cred.ID
	s.notifier.Publish(identity.AuthState{UserID: &userID, DeviceID: req.DeviceID})

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User: UserSummary{
			ID:       cred.ID,
			Nome:     profile.Nome,
			Email:    cred.Email,
			Role:     profile.Role,
			Plano:    profile.Plano,
			TenantID: tenantID,
		},
	}, nil
}

// Logout releases the device's session and revokes its refresh token. A
// device whose session was already taken over releases nothing.
func (s *service) Logout(ctx context.Context, claims *pkgauth.Claims) error {
	if claims == nil {
		return errors.New(errors.CodeUnauthorized, "missing claims")
	}
	if err := s.registry.End(ctx, claims.UserID, claims.DeviceID); err != nil {
		return err
	}
	if err := s.refresh.Revoke(ctx, claims.AccessID); err != nil {
		return err
	}
	s.notifier.Publish(identity.AuthState{})
	return nil
}

// Refresh rotates the token pair. It demands three things at once: a
// signature-valid access token, the matching server-side refresh token, and
// a session still held by the same device.
func (s *service) Refresh(ctx context.Context, req RefreshRequest) (*RefreshResponse, error) {
	claims, err := s.tokens.VerifyAllowExpired(req.AccessToken)
	if err != nil {
		return nil, err
	}
	if err := s.refresh.Validate(ctx, claims.AccessID, req.RefreshToken); err != nil {
		return nil, err
	}

	state, err := s.registry.Validate(ctx, claims.UserID, claims.DeviceID)
	if err != nil {
		return nil, err
	}
	switch state {
	case sessions.StateActiveMatch:
	case sessions.StateActiveOtherDevice:
		return nil, errors.New(errors.CodeSessionConflict, "session taken over by another device")
	default:
		return nil, errors.New(errors.CodeUnauthorized, "no active session")
	}

	// role may have changed since the last mint
	profile, err := s.resolver.Resolve(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	accessToken, accessID, err := s.tokens.Mint(claims.UserID, profile.HomeTenant(), profile.Role, claims.DeviceID)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.refresh.Issue(ctx, accessID)
	if err != nil {
		return nil, err
	}
	if err := s.refresh.Revoke(ctx, claims.AccessID); err != nil {
		return nil, err
	}

	return &RefreshResponse{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *service) authenticate(ctx context.Context, email, password string) (*models.Credential, error) {
	input := strings.TrimSpace(email)
	if input == "" {
		return nil, errors.New(errors.CodeUnauthorized, invalidCredentialsMessage)
	}
	cred, err := s.credentials.FindByEmail(ctx, input)
	if err != nil {
		if typed := errors.As(err); typed != nil && typed.Code() == errors.CodeNotFound {
			return nil, errors.New(errors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, err
	}

	valid, err := security.VerifyPassword(password, cred.PasswordHash)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, errors.New(errors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return cred, nil
}
