package professionals

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agendahub/agenda-backend/internal/repo"
	"github.com/agendahub/agenda-backend/pkg/db/models"
)

// CreateProfessionalRequest is the payload for registering a professional.
type CreateProfessionalRequest struct {
	Nome          string `json:"nome" validate:"required"`
	Especialidade string `json:"especialidade"`
}

// UpdateProfessionalRequest carries a partial patch; nil fields stay untouched.
type UpdateProfessionalRequest struct {
	Nome          *string `json:"nome"`
	Especialidade *string `json:"especialidade"`
}

// Service manages the tenant's professional roster.
type Service struct {
	repo *repo.Tenant[models.Professional]
}

func NewService(db *gorm.DB) *Service {
	return &Service{repo: repo.NewTenant[models.Professional](db)}
}

func (s *Service) List(ctx context.Context, tenantID uuid.UUID) ([]models.Professional, error) {
	return s.repo.List(ctx, tenantID)
}

func (s *Service) Get(ctx context.Context, tenantID, id uuid.UUID) (*models.Professional, error) {
	return s.repo.Get(ctx, tenantID, id)
}

func (s *Service) Create(ctx context.Context, tenantID, actorID uuid.UUID, req CreateProfessionalRequest) (*models.Professional, error) {
	professional := &models.Professional{
		ID:            uuid.New(),
		TenantID:      tenantID,
		Nome:          req.Nome,
		Especialidade: req.Especialidade,
		CreatedBy:     actorID,
	}
	if err := s.repo.Create(ctx, professional); err != nil {
		return nil, err
	}
	return professional, nil
}

func (s *Service) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateProfessionalRequest) (*models.Professional, error) {
	patch := map[string]any{}
	if req.Nome != nil {
		patch["nome"] = *req.Nome
	}
	if req.Especialidade != nil {
		patch["especialidade"] = *req.Especialidade
	}
	if err := s.repo.Update(ctx, tenantID, id, patch); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, tenantID, id)
}

func (s *Service) Remove(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.repo.Remove(ctx, tenantID, id)
}
