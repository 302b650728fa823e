package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/agendahub/agenda-backend/internal/repo"
	"github.com/agendahub/agenda-backend/pkg/db/models"
	"github.com/agendahub/agenda-backend/pkg/errors"
)

// CreateServiceRequest is the payload for adding a bookable service.
type CreateServiceRequest struct {
	Nome    string          `json:"nome" validate:"required"`
	Duracao string          `json:"duracao"`
	Preco   decimal.Decimal `json:"preco" validate:"required"`
}

// UpdateServiceRequest carries a partial patch; nil fields stay untouched.
type UpdateServiceRequest struct {
	Nome    *string          `json:"nome"`
	Duracao *string          `json:"duracao"`
	Preco   *decimal.Decimal `json:"preco"`
}

// Service manages the tenant's service catalog. Prices are exact decimals,
// never floats.
type Service struct {
	repo *repo.Tenant[models.ServiceOffering]
}

func NewService(db *gorm.DB) *Service {
	return &Service{repo: repo.NewTenant[models.ServiceOffering](db)}
}

func (s *Service) List(ctx context.Context, tenantID uuid.UUID) ([]models.ServiceOffering, error) {
	return s.repo.List(ctx, tenantID)
}

func (s *Service) Get(ctx context.Context, tenantID, id uuid.UUID) (*models.ServiceOffering, error) {
	return s.repo.Get(ctx, tenantID, id)
}

func (s *Service) Create(ctx context.Context, tenantID, actorID uuid.UUID, req CreateServiceRequest) (*models.ServiceOffering, error) {
	if req.Preco.IsNegative() {
		return nil, errors.New(errors.CodeValidation, "preco cannot be negative")
	}

	offering := &models.ServiceOffering{
		ID:        uuid.New(),
		TenantID:  tenantID,
		Nome:      req.Nome,
		Duracao:   req.Duracao,
		Preco:     req.Preco,
		CreatedBy: actorID,
	}
	if err := s.repo.Create(ctx, offering); err != nil {
		return nil, err
	}
	return offering, nil
}

func (s *Service) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateServiceRequest) (*models.ServiceOffering, error) {
	patch := map[string]any{}
	if req.Nome != nil {
		patch["nome"] = *req.Nome
	}
	if req.Duracao != nil {
		patch["duracao"] = *req.Duracao
	}
	if req.Preco != nil {
		if req.Preco.IsNegative() {
			return nil, errors.New(errors.CodeValidation, "preco cannot be negative")
		}
		patch["preco"] = *req.Preco
	}
	if err := s.repo.Update(ctx, tenantID, id, patch); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, tenantID, id)
}

func (s *Service) Remove(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.repo.Remove(ctx, tenantID, id)
}
