package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"rental-service/internal/models"
)

// Sentinel errors returned by the lease lifecycle transactions. Status checks
// run inside the same transaction as the writes, so a request that loses a
// race observes one of these instead of committing a partial state.
var (
	ErrDuplicateActiveLease = errors.New("tenant already holds an active lease for this room")
	ErrRoomNotVacant        = errors.New("room is not vacant")
	ErrContractNotActive    = errors.New("contract is not active")
)

// ContractFilters narrows the contract listing
type ContractFilters struct {
	RoomNumber string
	TenantName string
	Status     *models.ContractStatus
	StartFrom  *time.Time
	EndUntil   *time.Time
}

type ContractRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Contract, error)
	List(ctx context.Context, filters ContractFilters) ([]models.Contract, error)
	CreateActive(ctx context.Context, contract *models.Contract) error
	Terminate(ctx context.Context, id uint) (*models.Contract, error)
}

type contractRepository struct {
	db *gorm.DB
}

// NewContractRepository creates a new contract repository
func NewContractRepository(db *gorm.DB) ContractRepository {
	return &contractRepository{db: db}
}

func (r *contractRepository) GetByID(ctx context.Context, id uint) (*models.Contract, error) {
	var contract models.Contract
	if err := r.db.WithContext(ctx).
		Preload("Tenant").
		Preload("Room").
		First(&contract, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *contractRepository) List(ctx context.Context, filters ContractFilters) ([]models.Contract, error) {
	query := r.db.WithContext(ctx).Model(&models.Contract{}).
		Preload("Tenant").
		Preload("Room").
		Joins("JOIN rooms ON rooms.id = contracts.room_id").
		Joins("JOIN tenants ON tenants.id = contracts.tenant_id")

	if filters.RoomNumber != "" {
		query = query.Where("rooms.number LIKE ?", "%"+filters.RoomNumber+"%")
	}
	if filters.TenantName != "" {
		query = query.Where("tenants.name LIKE ?", "%"+filters.TenantName+"%")
	}
	if filters.Status != nil {
		query = query.Where("contracts.status = ?", *filters.Status)
	}
	if filters.StartFrom != nil {
		query = query.Where("contracts.start_date >= ?", *filters.StartFrom)
	}
	if filters.EndUntil != nil {
		query = query.Where("contracts.end_date <= ?", *filters.EndUntil)
	}

	var contracts []models.Contract
	if err := query.Order("contracts.created_at DESC").Find(&contracts).Error; err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	return contracts, nil
}

// CreateActive inserts a new ACTIVE contract and flips the room to OCCUPIED
// in one transaction. Either both writes commit or neither does. The room
// status update is conditional on the room still being VACANT, so a
// concurrent request for the same room rolls back with ErrRoomNotVacant.
func (r *contractRepository) CreateActive(ctx context.Context, contract *models.Contract) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var active int64
		if err := tx.Model(&models.Contract{}).
			Where("tenant_id = ? AND room_id = ? AND status = ?",
				contract.TenantID, contract.RoomID, models.ContractActive).
			Count(&active).Error; err != nil {
			return fmt.Errorf("failed to check existing lease: %w", err)
		}
		if active > 0 {
			return ErrDuplicateActiveLease
		}

		var room models.Room
		if err := tx.First(&room, "id = ?", contract.RoomID).Error; err != nil {
			return err
		}
		if room.Status != models.RoomVacant {
			return ErrRoomNotVacant
		}

		contract.Status = models.ContractActive
		if err := tx.Create(contract).Error; err != nil {
			return fmt.Errorf("failed to create contract: %w", err)
		}

		res := tx.Model(&models.Room{}).
			Where("id = ? AND status = ?", contract.RoomID, models.RoomVacant).
			Update("status", models.RoomOccupied)
		if res.Error != nil {
			return fmt.Errorf("failed to occupy room: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrRoomNotVacant
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Reload with associations for the response
	reloaded, err := r.GetByID(ctx, contract.ID)
	if err != nil {
		return fmt.Errorf("failed to reload contract: %w", err)
	}
	*contract = *reloaded
	return nil
}

// Terminate sets an ACTIVE contract to TERMINATED and releases its room back
// to VACANT in one transaction. Terminating a contract that is not ACTIVE
// fails with ErrContractNotActive and leaves both records unchanged.
func (r *contractRepository) Terminate(ctx context.Context, id uint) (*models.Contract, error) {
	var roomID uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var contract models.Contract
		if err := tx.First(&contract, "id = ?", id).Error; err != nil {
			return err
		}
		if contract.Status != models.ContractActive {
			return ErrContractNotActive
		}
		roomID = contract.RoomID

		res := tx.Model(&models.Contract{}).
			Where("id = ? AND status = ?", id, models.ContractActive).
			Update("status", models.ContractTerminated)
		if res.Error != nil {
			return fmt.Errorf("failed to terminate contract: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrContractNotActive
		}

		if err := tx.Model(&models.Room{}).
			Where("id = ?", roomID).
			Update("status", models.RoomVacant).Error; err != nil {
			return fmt.Errorf("failed to release room: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}
