package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/agendahub/agenda-backend/internal/sessions"
	pkgauth "github.com/agendahub/agenda-backend/pkg/auth"
	"github.com/agendahub/agenda-backend/pkg/config"
	"github.com/agendahub/agenda-backend/pkg/db/models"
	"github.com/agendahub/agenda-backend/pkg/enums"
	"github.com/agendahub/agenda-backend/pkg/errors"
	"github.com/agendahub/agenda-backend/pkg/security"
)

type stubCredentials struct {
	byEmail map[string]*models.Credential
}

func (s *stubCredentials) FindByEmail(_ context.Context, email string) (*models.Credential, error) {
	if cred, ok := s.byEmail[email]; ok {
		return cred, nil
	}
	return nil, errors.New(errors.CodeNotFound, "credential not found")
}

type stubResolver struct {
	profiles map[uuid.UUID]*models.Profile
}

func (s *stubResolver) Resolve(_ context.Context, userID uuid.UUID) (*models.Profile, error) {
	if p, ok := s.profiles[userID]; ok {
		return p, nil
	}
	return nil, errors.New(errors.CodeProfileMissing, "no profile configured for user")
}

// stubRegistry mimics the single-row CAS semantics in memory.
type stubRegistry struct {
	holders map[uuid.UUID]string
	ends    int
}

func newStubRegistry() *stubRegistry {
	return &stubRegistry{holders: map[uuid.UUID]string{}}
}

func (s *stubRegistry) Begin(_ context.Context, userID uuid.UUID, deviceID string) error {
	if held, ok := s.holders[userID]; ok && held != deviceID {
		return errors.New(errors.CodeSessionConflict, "another device holds the active session")
	}
	s.holders[userID] = deviceID
	return nil
}

func (s *stubRegistry) End(_ context.Context, userID uuid.UUID, deviceID string) error {
	if s.holders[userID] == deviceID {
		delete(s.holders, userID)
	}
	s.ends++
	return nil
}

func (s *stubRegistry) Validate(_ context.Context, userID uuid.UUID, deviceID string) (sessions.State, error) {
	held, ok := s.holders[userID]
	if !ok {
		return sessions.StateNone, nil
	}
	if held == deviceID {
		return sessions.StateActiveMatch, nil
	}
	return sessions.StateActiveOtherDevice, nil
}

type stubRefresh struct {
	tokens map[string]string
}

func newStubRefresh() *stubRefresh {
	return &stubRefresh{tokens: map[string]string{}}
}

func (s *stubRefresh) Issue(_ context.Context, accessID string) (string, error) {
	raw := "refresh-" + accessID
	s.tokens[accessID] = raw
	return raw, nil
}

func (s *stubRefresh) Validate(_ context.Context, accessID, presented string) error {
	if s.tokens[accessID] != presented || presented == "" {
		return errors.New(errors.CodeUnauthorized, "refresh token mismatch")
	}
	return nil
}

func (s *stubRefresh) Revoke(_ context.Context, accessID string) error {
	delete(s.tokens, accessID)
	return nil
}

type fixture struct {
	svc      Service
	registry *stubRegistry
	refresh  *stubRefresh
	userID   uuid.UUID
	email    string
	password string
}

func newFixture(t *testing.T, withProfile bool) *fixture {
	t.Helper()

	password := "s3nha-forte"
	hash, err := security.HashPassword(password, config.PasswordConfig{
		ArgonMemoryKB: 8, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32,
	})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	userID := uuid.New()
	email := "dona@salao.com.br"
	creds := &stubCredentials{byEmail: map[string]*models.Credential{
		email: {ID: userID, Email: email, PasswordHash: hash},
	}}

	resolver := &stubResolver{profiles: map[uuid.UUID]*models.Profile{}}
	if withProfile {
		resolver.profiles[userID] = &models.Profile{
			UserID: userID,
			Nome:   "Dona",
			Email:  email,
			Role:   enums.RoleAdmin,
			Plano:  enums.PlanBasico,
		}
	}

	registry := newStubRegistry()
	refresh := newStubRefresh()
	tokens := pkgauth.NewTokenManager(config.JWTConfig{
		Secret: "test-secret", Issuer: "agenda-test", ExpirationMinutes: 15,
	})

	svc, err := NewService(ServiceParams{
		Credentials:    creds,
		Resolver:       resolver,
		Registry:       registry,
		RefreshManager: refresh,
		Tokens:         tokens,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	return &fixture{
		svc:      svc,
		registry: registry,
		refresh:  refresh,
		userID:   userID,
		email:    email,
		password: password,
	}
}

func TestLoginMintsSessionBoundTokens(t *testing.T) {
	f := newFixture(t, true)

	resp, err := f.svc.Login(context.Background(), LoginRequest{
		Email: f.email, Password: f.password, DeviceID: "device-a",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("expected a full token pair")
	}
	if resp.User.Role != enums.RoleAdmin {
		t.Fatalf("unexpected role %s", resp.User.Role)
	}
	if resp.User.TenantID != f.userID {
		t.Fatalf("admin should own their partition, got tenant %s", resp.User.TenantID)
	}
	if f.registry.holders[f.userID] != "device-a" {
		t.Fatal("login did not claim the session")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	f := newFixture(t, true)

	_, err := f.svc.Login(context.Background(), LoginRequest{
		Email: f.email, Password: "errada", DeviceID: "device-a",
	})
	if typed := errors.As(err); typed == nil || typed.Code() != errors.CodeUnauthorized {
		t.Fatalf("expected UNAUTHORIZED, got %v", err)
	}
	if len(f.registry.holders) != 0 {
		t.Fatal("failed login must not claim a session")
	}
}

func TestLoginSecondDeviceConflicts(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	if _, err := f.svc.Login(ctx, LoginRequest{Email: f.email, Password: f.password, DeviceID: "device-a"}); err != nil {
		t.Fatalf("first login: %v", err)
	}
	_, err := f.svc.Login(ctx, LoginRequest{Email: f.email, Password: f.password, DeviceID: "device-b"})
	if typed := errors.As(err); typed == nil || typed.Code() != errors.CodeSessionConflict {
		t.Fatalf("expected SESSION_CONFLICT, got %v", err)
	}
}

func TestLoginWithoutProfileReleasesSession(t *testing.T) {
	f := newFixture(t, false)

	_, err := f.svc.Login(context.Background(), LoginRequest{
		Email: f.email, Password: f.password, DeviceID: "device-a",
	})
	if typed := errors.As(err); typed == nil || typed.Code() != errors.CodeProfileMissing {
		t.Fatalf("expected PROFILE_MISSING, got %v", err)
	}
	if len(f.registry.holders) != 0 {
		t.Fatal("session must be released when the profile is missing")
	}
}

func TestLogoutReleasesAndRevokes(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	resp, err := f.svc.Login(ctx, LoginRequest{Email: f.email, Password: f.password, DeviceID: "device-a"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	tokens := pkgauth.NewTokenManager(config.JWTConfig{
		Secret: "test-secret", Issuer: "agenda-test", ExpirationMinutes: 15,
	})
	claims, err := tokens.Verify(resp.AccessToken)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	if err := f.svc.Logout(ctx, claims); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if len(f.registry.holders) != 0 {
		t.Fatal("logout must release the session")
	}
	if len(f.refresh.tokens) != 0 {
		t.Fatal("logout must revoke the refresh token")
	}

	// the session is free, another device can claim it now
	if _, err := f.svc.Login(ctx, LoginRequest{Email: f.email, Password: f.password, DeviceID: "device-b"}); err != nil {
		t.Fatalf("login after logout: %v", err)
	}
}

func TestRefreshRotatesPair(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	resp, err := f.svc.Login(ctx, LoginRequest{Email: f.email, Password: f.password, DeviceID: "device-a"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	rotated, err := f.svc.Refresh(ctx, RefreshRequest{
		AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken,
	})
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if rotated.RefreshToken == resp.RefreshToken {
		t.Fatal("refresh token was not rotated")
	}

	// the old pair is dead
	_, err = f.svc.Refresh(ctx, RefreshRequest{
		AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken,
	})
	if typed := errors.As(err); typed == nil || typed.Code() != errors.CodeUnauthorized {
		t.Fatalf("expected UNAUTHORIZED reusing revoked pair, got %v", err)
	}
}

func TestRefreshAfterTakeover(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	resp, err := f.svc.Login(ctx, LoginRequest{Email: f.email, Password: f.password, DeviceID: "device-a"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	// simulate the registry handing the session to another device
	f.registry.holders[f.userID] = "device-b"

	_, err = f.svc.Refresh(ctx, RefreshRequest{
		AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken,
	})
	if typed := errors.As(err); typed == nil || typed.Code() != errors.CodeSessionConflict {
		t.Fatalf("expected SESSION_CONFLICT after takeover, got %v", err)
	}
}
