package users

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agendahub/agenda-backend/pkg/db/models"
	"github.com/agendahub/agenda-backend/pkg/enums"
	"github.com/agendahub/agenda-backend/pkg/errors"
)

// Repository exposes profile ("usuarios") persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a profiles repo bound to the provided GORM DB.
func NewRepository(conn *gorm.DB) *Repository {
	return &Repository{db: conn}
}

// Create inserts a new profile row keyed by the credential id.
func (r *Repository) Create(ctx context.Context, profile *models.Profile) error {
	if !profile.Role.IsValid() {
		return errors.New(errors.CodeValidation, "invalid role")
	}
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		return errors.Wrap(errors.CodeDependency, err, "creating profile")
	}
	return nil
}

// FindByID loads the profile for a credential. A credential that exists
// without a profile surfaces as NOT_FOUND here; the authorization layer
// turns that into PROFILE_MISSING.
func (r *Repository) FindByID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.WithContext(ctx).First(&profile, "user_id = ?", userID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.CodeNotFound, "profile not found")
	}
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "looking up profile")
	}
	return &profile, nil
}

// Update applies a partial patch to the profile row.
func (r *Repository) Update(ctx context.Context, userID uuid.UUID, patch map[string]any) error {
	if len(patch) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("user_id = ?", userID).
		Updates(patch)
	if res.Error != nil {
		return errors.Wrap(errors.CodeDependency, res.Error, "updating profile")
	}
	if res.RowsAffected == 0 {
		return errors.New(errors.CodeNotFound, "profile not found")
	}
	return nil
}

// ListTenantRoots returns the ids of every tenant partition: profiles that
// hold an owner role and are not provisioned under another tenant. This is
// the universe cross-tenant reads fan out over.
func (r *Repository) ListTenantRoots(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("role IN ? AND tenant_id IS NULL", enums.TenantOwnerRoles()).
		Order("created_at").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "listing tenant roots")
	}
	return ids, nil
}

// Delete removes the profile row. The credential stays; the user reverts to
// an identity with no access.
func (r *Repository) Delete(ctx context.Context, userID uuid.UUID) error {
	err := r.db.WithContext(ctx).Delete(&models.Profile{}, "user_id = ?", userID).Error
	if err != nil {
		return errors.Wrap(errors.CodeDependency, err, "deleting profile")
	}
	return nil
}
