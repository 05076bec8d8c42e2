package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"rental-service/internal/cache"
	"rental-service/internal/events"
	"rental-service/internal/models"
	"rental-service/internal/repository"
)

// ContractService owns the lease lifecycle: creation, termination and
// querying. Room occupancy is kept consistent with contract status by the
// repository transactions; this layer validates input and translates
// storage-level outcomes into typed errors.
type ContractService interface {
	CreateContract(ctx context.Context, req *models.CreateContractRequest) (*models.Contract, error)
	TerminateContract(ctx context.Context, id uint) (*models.Contract, error)
	GetContract(ctx context.Context, id uint) (*models.Contract, error)
	ListContracts(ctx context.Context, filters repository.ContractFilters) ([]models.Contract, error)
}

type contractService struct {
	contractRepo repository.ContractRepository
	vacancyCache *cache.VacancyCache
}

// NewContractService creates a new contract service. The vacancy cache is
// optional; pass nil to disable invalidation.
func NewContractService(contractRepo repository.ContractRepository, vacancyCache *cache.VacancyCache) ContractService {
	return &contractService{
		contractRepo: contractRepo,
		vacancyCache: vacancyCache,
	}
}

// parseDate accepts YYYY-MM-DD and falls back to RFC 3339
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

func (s *contractService) CreateContract(ctx context.Context, req *models.CreateContractRequest) (*models.Contract, error) {
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, NewValidationError("startDate", "must be a date in YYYY-MM-DD form")
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return nil, NewValidationError("endDate", "must be a date in YYYY-MM-DD form")
	}

	contract := &models.Contract{
		TenantID:   req.TenantID,
		RoomID:     req.RoomID,
		StartDate:  startDate,
		EndDate:    endDate,
		RentAmount: *req.RentAmount,
		Deposit:    *req.Deposit,
	}

	if err := s.contractRepo.CreateActive(ctx, contract); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateActiveLease):
			return nil, NewConflictError("contract", "this tenant already rents this room")
		case errors.Is(err, repository.ErrRoomNotVacant):
			return nil, NewConflictError("room", "the room is not vacant")
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, NewNotFoundError("room", fmt.Sprintf("room %d does not exist", req.RoomID))
		default:
			return nil, fmt.Errorf("failed to create contract: %w", err)
		}
	}

	if s.vacancyCache != nil {
		s.vacancyCache.Invalidate(ctx)
	}

	if pub := events.GetPublisher(); pub != nil {
		if err := pub.PublishLeaseCreated(ctx, &events.LeaseEvent{
			ContractID: contract.ID,
			TenantID:   contract.TenantID,
			RoomID:     contract.RoomID,
			Status:     string(contract.Status),
		}); err != nil {
			logrus.WithError(err).Warn("Failed to publish lease created event")
		}
	}

	return contract, nil
}

func (s *contractService) TerminateContract(ctx context.Context, id uint) (*models.Contract, error) {
	contract, err := s.contractRepo.Terminate(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, NewNotFoundError("contract", fmt.Sprintf("contract %d does not exist", id))
		case errors.Is(err, repository.ErrContractNotActive):
			return nil, NewConflictError("contract", "only active contracts can be terminated")
		default:
			return nil, fmt.Errorf("failed to terminate contract: %w", err)
		}
	}

	if s.vacancyCache != nil {
		s.vacancyCache.Invalidate(ctx)
	}

	if pub := events.GetPublisher(); pub != nil {
		if err := pub.PublishLeaseTerminated(ctx, &events.LeaseEvent{
			ContractID: contract.ID,
			TenantID:   contract.TenantID,
			RoomID:     contract.RoomID,
			Status:     string(contract.Status),
		}); err != nil {
			logrus.WithError(err).Warn("Failed to publish lease terminated event")
		}
	}

	return contract, nil
}

func (s *contractService) GetContract(ctx context.Context, id uint) (*models.Contract, error) {
	contract, err := s.contractRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("contract", fmt.Sprintf("contract %d does not exist", id))
		}
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}
	return contract, nil
}

func (s *contractService) ListContracts(ctx context.Context, filters repository.ContractFilters) ([]models.Contract, error) {
	return s.contractRepo.List(ctx, filters)
}
