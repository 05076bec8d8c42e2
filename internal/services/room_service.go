package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"rental-service/internal/cache"
	"rental-service/internal/events"
	"rental-service/internal/models"
	"rental-service/internal/repository"
)

type RoomService interface {
	CreateRoom(ctx context.Context, req *models.CreateRoomRequest) (*models.Room, error)
	GetRoom(ctx context.Context, id uint) (*models.Room, error)
	ListRooms(ctx context.Context, filters repository.RoomFilters) ([]models.Room, error)
	RefreshVacancyCache(ctx context.Context) error
}

type roomService struct {
	roomRepo     repository.RoomRepository
	vacancyCache *cache.VacancyCache
}

// NewRoomService creates a new room service. The vacancy cache is optional;
// pass nil to disable caching.
func NewRoomService(roomRepo repository.RoomRepository, vacancyCache *cache.VacancyCache) RoomService {
	return &roomService{
		roomRepo:     roomRepo,
		vacancyCache: vacancyCache,
	}
}

func (s *roomService) CreateRoom(ctx context.Context, req *models.CreateRoomRequest) (*models.Room, error) {
	facilities := datatypes.JSONMap{}
	for name, present := range req.Facilities {
		facilities[name] = present
	}

	room := &models.Room{
		Number:     req.Number,
		Building:   req.Building,
		Floor:      req.Floor,
		Type:       req.Type,
		Area:       req.Area,
		Direction:  req.Direction,
		Facilities: facilities,
		Price:      *req.Price,
		Deposit:    *req.Deposit,
		Status:     models.RoomVacant,
	}

	if err := s.roomRepo.Create(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	// A new room is vacant, so the cached listing is stale
	if s.vacancyCache != nil {
		s.vacancyCache.Invalidate(ctx)
	}

	if pub := events.GetPublisher(); pub != nil {
		if err := pub.PublishRoomCreated(ctx, &events.RoomCreatedEvent{
			RoomID:   room.ID,
			Number:   room.Number,
			Building: room.Building,
		}); err != nil {
			logrus.WithError(err).Warn("Failed to publish room created event")
		}
	}

	return room, nil
}

func (s *roomService) GetRoom(ctx context.Context, id uint) (*models.Room, error) {
	room, err := s.roomRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("room", fmt.Sprintf("room %d does not exist", id))
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	return room, nil
}

func (s *roomService) ListRooms(ctx context.Context, filters repository.RoomFilters) ([]models.Room, error) {
	// The vacant-only listing is the hot path for prospective leases;
	// serve it from cache when possible.
	if s.vacancyCache != nil && filters.Building == "" &&
		filters.Status != nil && *filters.Status == models.RoomVacant {
		if rooms, ok := s.vacancyCache.GetVacantRooms(ctx); ok {
			return rooms, nil
		}
		rooms, err := s.roomRepo.ListVacant(ctx)
		if err != nil {
			return nil, err
		}
		s.vacancyCache.SetVacantRooms(ctx, rooms)
		return rooms, nil
	}

	return s.roomRepo.List(ctx, filters)
}

// RefreshVacancyCache recomputes the cached vacant-room listing from the
// database. Called by the background refresher.
func (s *roomService) RefreshVacancyCache(ctx context.Context) error {
	if s.vacancyCache == nil {
		return nil
	}
	rooms, err := s.roomRepo.ListVacant(ctx)
	if err != nil {
		return err
	}
	s.vacancyCache.SetVacantRooms(ctx, rooms)
	return nil
}
