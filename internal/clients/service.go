package clients

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agendahub/agenda-backend/internal/repo"
	"github.com/agendahub/agenda-backend/pkg/db/models"
	"github.com/agendahub/agenda-backend/pkg/errors"
	"github.com/agendahub/agenda-backend/pkg/phone"
)

// Service manages the tenant's customer book. Phone numbers are normalized
// to the display format before they are stored, so every reader sees the
// same "+55 DD DDDDD-DDDD" shape.
type Service struct {
	repo *repo.Tenant[models.Client]
}

func NewService(db *gorm.DB) *Service {
	return &Service{repo: repo.NewTenant[models.Client](db)}
}

// List returns the tenant's clients, newest first.
func (s *Service) List(ctx context.Context, tenantID uuid.UUID) ([]models.Client, error) {
	return s.repo.List(ctx, tenantID)
}

// Get fetches one client inside the tenant partition.
func (s *Service) Get(ctx context.Context, tenantID, id uuid.UUID) (*models.Client, error) {
	return s.repo.Get(ctx, tenantID, id)
}

// Create registers a customer in the tenant partition.
func (s *Service) Create(ctx context.Context, tenantID, actorID uuid.UUID, req CreateClientRequest) (*models.Client, error) {
	formatted, err := phone.Normalize(req.Telefone)
	if err != nil {
		return nil, errors.New(errors.CodeValidation, "invalid phone number").WithDetails(err.Error())
	}

	client := &models.Client{
		ID:          uuid.New(),
		TenantID:    tenantID,
		Nome:        req.Nome,
		Telefone:    formatted,
		Email:       req.Email,
		Observacoes: req.Observacoes,
		CreatedBy:   actorID,
	}
	if err := s.repo.Create(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// Update applies a partial patch to a client.
func (s *Service) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateClientRequest) (*models.Client, error) {
	patch := map[string]any{}
	if req.Nome != nil {
		patch["nome"] = *req.Nome
	}
	if req.Telefone != nil {
		formatted, err := phone.Normalize(*req.Telefone)
		if err != nil {
			return nil, errors.New(errors.CodeValidation, "invalid phone number").WithDetails(err.Error())
		}
		patch["telefone"] = formatted
	}
	if req.Email != nil {
		patch["email"] = *req.Email
	}
	if req.Observacoes != nil {
		patch["observacoes"] = *req.Observacoes
	}

	if err := s.repo.Update(ctx, tenantID, id, patch); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, tenantID, id)
}

// Remove deletes a client. Removing an already absent client succeeds.
func (s *Service) Remove(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.repo.Remove(ctx, tenantID, id)
}
