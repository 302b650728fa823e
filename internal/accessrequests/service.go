package accessrequests

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agendahub/agenda-backend/pkg/db/models"
	"github.com/agendahub/agenda-backend/pkg/enums"
	"github.com/agendahub/agenda-backend/pkg/errors"
	"github.com/agendahub/agenda-backend/pkg/phone"
)

// CreateAccessRequest is the public form payload.
type CreateAccessRequest struct {
	Nome     string `json:"nome" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Empresa  string `json:"empresa"`
	Telefone string `json:"telefone"`
	Mensagem string `json:"mensagem"`
}

// Service handles solicitacoes: the public access-request form and its
// review by platform admins.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Create stores a new request with status pendente. The phone is normalized
// when it parses and kept as typed otherwise; the form never blocks a lead
// on a half-typed number.
func (s *Service) Create(ctx context.Context, req CreateAccessRequest) (*models.AccessRequest, error) {
	telefone := req.Telefone
	if formatted, err := phone.Normalize(req.Telefone); err == nil {
		telefone = formatted
	}

	row := &models.AccessRequest{
		ID:       uuid.New(),
		Nome:     req.Nome,
		Email:    req.Email,
		Empresa:  req.Empresa,
		Telefone: telefone,
		Mensagem: req.Mensagem,
		Status:   enums.AccessRequestPendente,
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "creating access request")
	}
	return row, nil
}

// List returns every request, newest first.
func (s *Service) List(ctx context.Context) ([]models.AccessRequest, error) {
	var rows []models.AccessRequest
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "listing access requests")
	}
	return rows, nil
}

// SetStatus moves a request to aprovado or recusado.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, status enums.AccessRequestStatus) (*models.AccessRequest, error) {
	if !status.IsValid() {
		return nil, errors.New(errors.CodeValidation, "invalid status")
	}

	res := s.db.WithContext(ctx).
		Model(&models.AccessRequest{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return nil, errors.Wrap(errors.CodeDependency, res.Error, "updating access request")
	}
	if res.RowsAffected == 0 {
		return nil, errors.New(errors.CodeNotFound, "access request not found")
	}

	var row models.AccessRequest
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "reloading access request")
	}
	return &row, nil
}
