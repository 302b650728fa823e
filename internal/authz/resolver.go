package authz

import (
	"context"

	"github.com/google/uuid"

	"github.com/agendahub/agenda-backend/pkg/db/models"
	"github.com/agendahub/agenda-backend/pkg/errors"
)

type profileFinder interface {
	FindByID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
}

// Resolver turns an authenticated identity into an authorization profile.
type Resolver struct {
	profiles profileFinder
}

func NewResolver(profiles profileFinder) *Resolver {
	return &Resolver{profiles: profiles}
}

// Resolve loads the profile for an authenticated user. An identity that has
// no profile row is a distinct failure mode from an unknown user: the caller
// gets PROFILE_MISSING, never a silent default role.
func (r *Resolver) Resolve(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	profile, err := r.profiles.FindByID(ctx, userID)
	if err != nil {
		if typed := errors.As(err); typed != nil && typed.Code() == errors.CodeNotFound {
			return nil, errors.New(errors.CodeProfileMissing, "no profile configured for user")
		}
		return nil, err
	}
	if !profile.Role.IsValid() {
		return nil, errors.New(errors.CodeProfileMissing, "profile has no recognized role")
	}
	return profile, nil
}
