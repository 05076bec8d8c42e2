package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"rental-service/internal/events"
	"rental-service/internal/models"
	"rental-service/internal/repository"
)

type TenantService interface {
	CreateTenant(ctx context.Context, req *models.CreateTenantRequest) (*models.Tenant, error)
	GetTenant(ctx context.Context, id uint) (*models.Tenant, error)
	ListTenants(ctx context.Context) ([]models.Tenant, error)
}

type tenantService struct {
	tenantRepo repository.TenantRepository
}

// NewTenantService creates a new tenant service
func NewTenantService(tenantRepo repository.TenantRepository) TenantService {
	return &tenantService{
		tenantRepo: tenantRepo,
	}
}

func (s *tenantService) CreateTenant(ctx context.Context, req *models.CreateTenantRequest) (*models.Tenant, error) {
	existing, err := s.tenantRepo.GetByIDCard(ctx, req.IDCard)
	if err != nil {
		return nil, fmt.Errorf("failed to check national ID: %w", err)
	}
	if existing != nil {
		return nil, NewConflictError("tenant", "a tenant with this national ID already exists")
	}

	tenant := &models.Tenant{
		Name:             req.Name,
		Phone:            req.Phone,
		IDCard:           req.IDCard,
		Gender:           req.Gender,
		Email:            req.Email,
		EmergencyContact: req.EmergencyContact,
		EmergencyPhone:   req.EmergencyPhone,
		Status:           models.TenantActive,
	}

	if err := s.tenantRepo.Create(ctx, tenant); err != nil {
		// Backstop for the unique index when two registrations race past
		// the precheck
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, NewConflictError("tenant", "a tenant with this national ID already exists")
		}
		return nil, fmt.Errorf("failed to create tenant: %w", err)
	}

	if pub := events.GetPublisher(); pub != nil {
		if err := pub.PublishTenantCreated(ctx, &events.TenantCreatedEvent{
			TenantID: tenant.ID,
			Name:     tenant.Name,
		}); err != nil {
			logrus.WithError(err).Warn("Failed to publish tenant created event")
		}
	}

	return tenant, nil
}

func (s *tenantService) GetTenant(ctx context.Context, id uint) (*models.Tenant, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("tenant", fmt.Sprintf("tenant %d does not exist", id))
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	return tenant, nil
}

func (s *tenantService) ListTenants(ctx context.Context) ([]models.Tenant, error) {
	return s.tenantRepo.List(ctx)
}
