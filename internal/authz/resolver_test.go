package authz

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/agendahub/agenda-backend/pkg/db/models"
	"github.com/agendahub/agenda-backend/pkg/enums"
	"github.com/agendahub/agenda-backend/pkg/errors"
)

type stubProfiles struct {
	byID map[uuid.UUID]*models.Profile
	err  error
}

func (s *stubProfiles) FindByID(_ context.Context, userID uuid.UUID) (*models.Profile, error) {
	if s.err != nil {
		return nil, s.err
	}
	if p, ok := s.byID[userID]; ok {
		return p, nil
	}
	return nil, errors.New(errors.CodeNotFound, "profile not found")
}

func TestResolveKnownProfile(t *testing.T) {
	userID := uuid.New()
	resolver := NewResolver(&stubProfiles{byID: map[uuid.UUID]*models.Profile{
		userID: {UserID: userID, Role: enums.RoleAdmin},
	}})

	profile, err := resolver.Resolve(context.Background(), userID)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if profile.Role != enums.RoleAdmin {
		t.Fatalf("expected admin role, got %s", profile.Role)
	}
}

func TestResolveMissingProfile(t *testing.T) {
	resolver := NewResolver(&stubProfiles{byID: map[uuid.UUID]*models.Profile{}})

	_, err := resolver.Resolve(context.Background(), uuid.New())
	typed := errors.As(err)
	if typed == nil || typed.Code() != errors.CodeProfileMissing {
		t.Fatalf("expected PROFILE_MISSING, got %v", err)
	}
}

func TestResolveInvalidRoleIsProfileMissing(t *testing.T) {
	userID := uuid.New()
	resolver := NewResolver(&stubProfiles{byID: map[uuid.UUID]*models.Profile{
		userID: {UserID: userID, Role: enums.Role("gerente")},
	}})

	_, err := resolver.Resolve(context.Background(), userID)
	typed := errors.As(err)
	if typed == nil || typed.Code() != errors.CodeProfileMissing {
		t.Fatalf("expected PROFILE_MISSING for invalid role, got %v", err)
	}
}

func TestResolvePropagatesStoreFailure(t *testing.T) {
	resolver := NewResolver(&stubProfiles{err: errors.New(errors.CodeDependency, "db down")})

	_, err := resolver.Resolve(context.Background(), uuid.New())
	typed := errors.As(err)
	if typed == nil || typed.Code() != errors.CodeDependency {
		t.Fatalf("expected DEPENDENCY_ERROR passthrough, got %v", err)
	}
}
