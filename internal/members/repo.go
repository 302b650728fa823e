package members

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agendahub/agenda-backend/pkg/db/models"
	"github.com/agendahub/agenda-backend/pkg/errors"
)

// Repository exposes roster ("membros") persistence operations.
type Repository struct {
	db *gorm.DB
}

func NewRepository(conn *gorm.DB) *Repository {
	return &Repository{db: conn}
}

// CountByTenant returns the size of the tenant's roster. The quota check
// runs against this count.
func (r *Repository) CountByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Member{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(errors.CodeDependency, err, "counting members")
	}
	return count, nil
}

// List returns the tenant's roster in provisioning order.
func (r *Repository) List(ctx context.Context, tenantID uuid.UUID) ([]models.Member, error) {
	var rows []models.Member
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at").
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "listing members")
	}
	return rows, nil
}

// FindByID loads one roster entry inside the tenant.
func (r *Repository) FindByID(ctx context.Context, tenantID, userID uuid.UUID) (*models.Member, error) {
	var row models.Member
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ?", tenantID, userID).
		First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.CodeNotFound, "member not found")
	}
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "looking up member")
	}
	return &row, nil
}

// Create inserts a roster entry.
func (r *Repository) Create(ctx context.Context, member *models.Member) error {
	if err := r.db.WithContext(ctx).Create(member).Error; err != nil {
		return errors.Wrap(errors.CodeDependency, err, "creating member")
	}
	return nil
}

// Delete removes a roster entry inside the tenant. Idempotent.
func (r *Repository) Delete(ctx context.Context, tenantID, userID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ?", tenantID, userID).
		Delete(&models.Member{}).Error
	if err != nil {
		return errors.Wrap(errors.CodeDependency, err, "deleting member")
	}
	return nil
}
