package members

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agendahub/agenda-backend/internal/identity"
	"github.com/agendahub/agenda-backend/internal/sessions"
	"github.com/agendahub/agenda-backend/internal/users"
	"github.com/agendahub/agenda-backend/pkg/config"
	"github.com/agendahub/agenda-backend/pkg/db/models"
	"github.com/agendahub/agenda-backend/pkg/enums"
	"github.com/agendahub/agenda-backend/pkg/errors"
	"github.com/agendahub/agenda-backend/pkg/security"
)

// CreateMemberRequest provisions a staff account inside the admin's tenant.
type CreateMemberRequest struct {
	Nome     string `json:"nome" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required"`
}

// UpdateMemberRequest renames a roster member.
type UpdateMemberRequest struct {
	Nome string `json:"nome" validate:"required"`
}

// Service provisions and manages tenant staff. A member is three rows
// created together: a credential, a profile under the admin's tenant, and a
// roster entry. The profile inherits the admin's plan.
type Service struct {
	db          *gorm.DB
	passwordCfg config.PasswordConfig
}

func NewService(db *gorm.DB, passwordCfg config.PasswordConfig) *Service {
	return &Service{db: db, passwordCfg: passwordCfg}
}

// List returns the tenant's roster.
func (s *Service) List(ctx context.Context, tenantID uuid.UUID) ([]models.Member, error) {
	return NewRepository(s.db).List(ctx, tenantID)
}

// Create provisions a member, enforcing the admin plan's quota. The quota
// counts roster entries, not profiles: the admin themselves never counts
// against it.
func (s *Service) Create(ctx context.Context, admin *models.Profile, req CreateMemberRequest) (*models.Member, error) {
	role, err := enums.ParseRole(req.Role)
	if err != nil {
		return nil, errors.New(errors.CodeValidation, "invalid role")
	}
	if role.IsTenantOwner() {
		return nil, errors.New(errors.CodeValidation, "members cannot hold a tenant owner role")
	}

	tenantID := admin.HomeTenant()
	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "hashing password")
	}

	var member *models.Member
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		roster := NewRepository(tx)

		count, err := roster.CountByTenant(ctx, tenantID)
		if err != nil {
			return err
		}
		if quota := admin.Plano.MemberQuota(); quota > 0 && count >= int64(quota) {
			return errors.New(errors.CodeValidation, "member quota reached for plan "+admin.Plano.String())
		}

		cred := &models.Credential{
			ID:           uuid.New(),
			Email:        req.Email,
			PasswordHash: hash,
			DisplayName:  req.Nome,
		}
		if err := identity.NewRepository(tx).Create(ctx, cred); err != nil {
			return err
		}

		profile := &models.Profile{
			UserID:   cred.ID,
			Nome:     req.Nome,
			Email:    cred.Email,
			Role:     role,
			Plano:    admin.Plano,
			TenantID: &tenantID,
		}
		if err := users.NewRepository(tx).Create(ctx, profile); err != nil {
			return err
		}

		member = &models.Member{
			UserID:   cred.ID,
			TenantID: tenantID,
			Nome:     req.Nome,
			Email:    cred.Email,
			Role:     role,
		}
		return roster.Create(ctx, member)
	})
	if err != nil {
		return nil, err
	}
	return member, nil
}

// Rename changes a member's name everywhere it is recorded: the roster
// entry, the profile and the credential display name, in one transaction.
func (s *Service) Rename(ctx context.Context, tenantID, userID uuid.UUID, nome string) (*models.Member, error) {
	var member *models.Member
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		roster := NewRepository(tx)
		row, err := roster.FindByID(ctx, tenantID, userID)
		if err != nil {
			return err
		}

		res := tx.Model(&models.Member{}).
			Where("tenant_id = ? AND user_id = ?", tenantID, userID).
			Update("nome", nome)
		if res.Error != nil {
			return errors.Wrap(errors.CodeDependency, res.Error, "renaming member")
		}
		if err := users.NewRepository(tx).Update(ctx, userID, map[string]any{"nome": nome}); err != nil {
			return err
		}
		if err := identity.NewRepository(tx).UpdateDisplayName(ctx, userID, nome); err != nil {
			return err
		}

		row.Nome = nome
		member = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return member, nil
}

// Remove deletes the member's roster entry, profile and credential, and
// releases any session the member's device still holds. Idempotent.
func (s *Service) Remove(ctx context.Context, tenantID, userID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		roster := NewRepository(tx)
		if _, err := roster.FindByID(ctx, tenantID, userID); err != nil {
			if typed := errors.As(err); typed != nil && typed.Code() == errors.CodeNotFound {
				return nil
			}
			return err
		}
		if err := roster.Delete(ctx, tenantID, userID); err != nil {
			return err
		}
		if err := users.NewRepository(tx).Delete(ctx, userID); err != nil {
			return err
		}
		if err := sessions.NewRegistry(tx).ForceEnd(ctx, userID); err != nil {
			return err
		}
		return identity.NewRepository(tx).Delete(ctx, userID)
	})
}
