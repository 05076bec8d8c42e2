package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"rental-service/internal/models"
)

func TestRoomRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()

	room := &models.Room{
		Number:    "301",
		Building:  "A",
		Floor:     3,
		Type:      models.RoomDouble,
		Area:      52.5,
		Direction: models.DirectionSoutheast,
		Facilities: datatypes.JSONMap{
			"airConditioner": true,
			"washingMachine": false,
		},
		Price:   3200,
		Deposit: 3200,
		Status:  models.RoomVacant,
	}
	require.NoError(t, repo.Create(ctx, room))
	assert.NotZero(t, room.ID)

	found, err := repo.GetByID(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoomDouble, found.Type)
	assert.Equal(t, true, found.Facilities["airConditioner"])
}

func TestRoomRepository_ListFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()

	seedRoom(t, db, "301", models.RoomVacant)
	seedRoom(t, db, "302", models.RoomOccupied)
	other := seedRoom(t, db, "101", models.RoomVacant)
	other.Building = "B"
	require.NoError(t, db.Save(other).Error)

	t.Run("by status", func(t *testing.T) {
		status := models.RoomVacant
		rooms, err := repo.List(ctx, RoomFilters{Status: &status})
		require.NoError(t, err)
		assert.Len(t, rooms, 2)
	})

	t.Run("by building", func(t *testing.T) {
		rooms, err := repo.List(ctx, RoomFilters{Building: "B"})
		require.NoError(t, err)
		require.Len(t, rooms, 1)
		assert.Equal(t, "101", rooms[0].Number)
	})

	t.Run("combined", func(t *testing.T) {
		status := models.RoomOccupied
		rooms, err := repo.List(ctx, RoomFilters{Status: &status, Building: "A"})
		require.NoError(t, err)
		require.Len(t, rooms, 1)
		assert.Equal(t, "302", rooms[0].Number)
	})
}

func TestRoomRepository_ListVacant(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()

	seedRoom(t, db, "301", models.RoomVacant)
	seedRoom(t, db, "302", models.RoomOccupied)
	seedRoom(t, db, "303", models.RoomMaintaining)

	rooms, err := repo.ListVacant(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "301", rooms[0].Number)
}

func TestRoomRepository_CountByStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()

	seedRoom(t, db, "301", models.RoomVacant)
	seedRoom(t, db, "302", models.RoomVacant)
	seedRoom(t, db, "303", models.RoomOccupied)

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[models.RoomVacant])
	assert.Equal(t, int64(1), counts[models.RoomOccupied])
	assert.Zero(t, counts[models.RoomReserved])
}
