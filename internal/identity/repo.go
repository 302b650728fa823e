package identity

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agendahub/agenda-backend/pkg/db"
	"github.com/agendahub/agenda-backend/pkg/db/models"
	"github.com/agendahub/agenda-backend/pkg/errors"
)

// Repository exposes credential persistence operations. Credentials are the
// identity side of the identity/profile split: they authenticate, profiles
// authorize.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a credentials repo bound to the provided GORM DB.
func NewRepository(conn *gorm.DB) *Repository {
	return &Repository{db: conn}
}

// Create inserts a new credential. Emails are stored lowercased.
func (r *Repository) Create(ctx context.Context, cred *models.Credential) error {
	cred.Email = strings.ToLower(strings.TrimSpace(cred.Email))
	if err := r.db.WithContext(ctx).Create(cred).Error; err != nil {
		if db.IsUniqueViolation(err, "") {
			return errors.New(errors.CodeConflict, "email already registered")
		}
		return errors.Wrap(errors.CodeDependency, err, "creating credential")
	}
	return nil
}

// FindByEmail retrieves the credential matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Credential, error) {
	var cred models.Credential
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&cred).Error
	if err == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.CodeNotFound, "credential not found")
	}
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "looking up credential")
	}
	return &cred, nil
}

// FindByID loads a credential by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Credential, error) {
	var cred models.Credential
	err := r.db.WithContext(ctx).First(&cred, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.CodeNotFound, "credential not found")
	}
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "looking up credential")
	}
	return &cred, nil
}

// UpdateDisplayName overwrites the credential's display name.
func (r *Repository) UpdateDisplayName(ctx context.Context, id uuid.UUID, name string) error {
	err := r.db.WithContext(ctx).
		Model(&models.Credential{}).
		Where("id = ?", id).
		UpdateColumn("display_name", name).Error
	if err != nil {
		return errors.Wrap(errors.CodeDependency, err, "updating display name")
	}
	return nil
}

// Delete removes a credential and, via cascade, its profile and session.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Delete(&models.Credential{}, "id = ?", id).Error
	if err != nil {
		return errors.Wrap(errors.CodeDependency, err, "deleting credential")
	}
	return nil
}
