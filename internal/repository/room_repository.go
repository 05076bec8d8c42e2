package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"rental-service/internal/models"
)

// RoomFilters narrows the room listing
type RoomFilters struct {
	Status   *models.RoomStatus
	Building string
}

type RoomRepository interface {
	Create(ctx context.Context, room *models.Room) error
	GetByID(ctx context.Context, id uint) (*models.Room, error)
	List(ctx context.Context, filters RoomFilters) ([]models.Room, error)
	ListVacant(ctx context.Context) ([]models.Room, error)
	CountByStatus(ctx context.Context) (map[models.RoomStatus]int64, error)
}

type roomRepository struct {
	db *gorm.DB
}

// NewRoomRepository creates a new room repository
func NewRoomRepository(db *gorm.DB) RoomRepository {
	return &roomRepository{db: db}
}

func (r *roomRepository) Create(ctx context.Context, room *models.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *roomRepository) GetByID(ctx context.Context, id uint) (*models.Room, error) {
	var room models.Room
	if err := r.db.WithContext(ctx).First(&room, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepository) List(ctx context.Context, filters RoomFilters) ([]models.Room, error) {
	query := r.db.WithContext(ctx).Model(&models.Room{})

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Building != "" {
		query = query.Where("building = ?", filters.Building)
	}

	var rooms []models.Room
	if err := query.Order("created_at DESC").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

func (r *roomRepository) ListVacant(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	if err := r.db.WithContext(ctx).
		Where("status = ?", models.RoomVacant).
		Order("created_at DESC").
		Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to list vacant rooms: %w", err)
	}
	return rooms, nil
}

// CountByStatus returns room counts per occupancy status, for metrics
func (r *roomRepository) CountByStatus(ctx context.Context) (map[models.RoomStatus]int64, error) {
	type row struct {
		Status models.RoomStatus
		Total  int64
	}
	var rows []row
	if err := r.db.WithContext(ctx).Model(&models.Room{}).
		Select("status, count(*) as total").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count rooms by status: %w", err)
	}

	counts := make(map[models.RoomStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}
