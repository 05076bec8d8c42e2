package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"rental-service/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// One connection only: each pooled connection would otherwise get its
	// own empty in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Tenant{},
		&models.Room{},
		&models.Contract{},
	))

	return db
}

func seedTenant(t *testing.T, db *gorm.DB, name, idCard string) *models.Tenant {
	t.Helper()
	tenant := &models.Tenant{
		Name:   name,
		Phone:  "13800138000",
		IDCard: idCard,
		Status: models.TenantActive,
	}
	require.NoError(t, db.Create(tenant).Error)
	return tenant
}

func seedRoom(t *testing.T, db *gorm.DB, number string, status models.RoomStatus) *models.Room {
	t.Helper()
	room := &models.Room{
		Number:    number,
		Building:  "A",
		Floor:     3,
		Type:      models.RoomSingle,
		Area:      35,
		Direction: models.DirectionSouth,
		Price:     2500,
		Deposit:   2500,
		Status:    status,
	}
	require.NoError(t, db.Create(room).Error)
	return room
}

func newContract(tenantID, roomID uint) *models.Contract {
	return &models.Contract{
		TenantID:   tenantID,
		RoomID:     roomID,
		StartDate:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		RentAmount: 2500,
		Deposit:    2500,
	}
}

func TestCreateActive_OccupiesRoom(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContractRepository(db)
	ctx := context.Background()

	tenant := seedTenant(t, db, "Alice", "110101199001010011")
	room := seedRoom(t, db, "301", models.RoomVacant)

	contract := newContract(tenant.ID, room.ID)
	require.NoError(t, repo.CreateActive(ctx, contract))

	assert.NotZero(t, contract.ID)
	assert.Equal(t, models.ContractActive, contract.Status)
	assert.Equal(t, tenant.Name, contract.Tenant.Name)
	assert.Equal(t, room.Number, contract.Room.Number)

	var reloaded models.Room
	require.NoError(t, db.First(&reloaded, room.ID).Error)
	assert.Equal(t, models.RoomOccupied, reloaded.Status)
}

func TestCreateActive_RoomNotVacant(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContractRepository(db)
	ctx := context.Background()

	tenant := seedTenant(t, db, "Alice", "110101199001010011")

	for _, status := range []models.RoomStatus{
		models.RoomOccupied, models.RoomReserved, models.RoomMaintaining,
	} {
		room := seedRoom(t, db, "occupied-"+string(status), status)

		err := repo.CreateActive(ctx, newContract(tenant.ID, room.ID))
		assert.ErrorIs(t, err, ErrRoomNotVacant)
	}

	// The failed attempts must not leave partial contract rows behind
	var count int64
	require.NoError(t, db.Model(&models.Contract{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateActive_DuplicateActiveLease(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContractRepository(db)
	ctx := context.Background()

	tenant := seedTenant(t, db, "Alice", "110101199001010011")
	room := seedRoom(t, db, "301", models.RoomVacant)

	require.NoError(t, repo.CreateActive(ctx, newContract(tenant.ID, room.ID)))

	// The duplicate check fires before the vacancy check, so the same pair
	// is reported as a duplicate rather than as an occupied room
	err := repo.CreateActive(ctx, newContract(tenant.ID, room.ID))
	assert.ErrorIs(t, err, ErrDuplicateActiveLease)
}

func TestCreateActive_RoomMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContractRepository(db)
	ctx := context.Background()

	tenant := seedTenant(t, db, "Alice", "110101199001010011")

	err := repo.CreateActive(ctx, newContract(tenant.ID, 9999))
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestTerminate_ReleasesRoom(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContractRepository(db)
	ctx := context.Background()

	tenant := seedTenant(t, db, "Alice", "110101199001010011")
	room := seedRoom(t, db, "301", models.RoomVacant)

	contract := newContract(tenant.ID, room.ID)
	require.NoError(t, repo.CreateActive(ctx, contract))

	terminated, err := repo.Terminate(ctx, contract.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ContractTerminated, terminated.Status)

	var reloaded models.Room
	require.NoError(t, db.First(&reloaded, room.ID).Error)
	assert.Equal(t, models.RoomVacant, reloaded.Status)
}

func TestTerminate_AlreadyTerminated(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContractRepository(db)
	ctx := context.Background()

	tenant := seedTenant(t, db, "Alice", "110101199001010011")
	room := seedRoom(t, db, "301", models.RoomVacant)

	contract := newContract(tenant.ID, room.ID)
	require.NoError(t, repo.CreateActive(ctx, contract))

	_, err := repo.Terminate(ctx, contract.ID)
	require.NoError(t, err)

	_, err = repo.Terminate(ctx, contract.ID)
	assert.ErrorIs(t, err, ErrContractNotActive)

	// Terminating again must not disturb either record
	var reloadedContract models.Contract
	require.NoError(t, db.First(&reloadedContract, contract.ID).Error)
	assert.Equal(t, models.ContractTerminated, reloadedContract.Status)

	var reloadedRoom models.Room
	require.NoError(t, db.First(&reloadedRoom, room.ID).Error)
	assert.Equal(t, models.RoomVacant, reloadedRoom.Status)
}

func TestTerminate_Missing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContractRepository(db)

	_, err := repo.Terminate(context.Background(), 424242)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCreateActive_RoomVacantAgainAfterTermination(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContractRepository(db)
	ctx := context.Background()

	alice := seedTenant(t, db, "Alice", "110101199001010011")
	bob := seedTenant(t, db, "Bob", "110101199202020022")
	room := seedRoom(t, db, "301", models.RoomVacant)

	first := newContract(alice.ID, room.ID)
	require.NoError(t, repo.CreateActive(ctx, first))
	_, err := repo.Terminate(ctx, first.ID)
	require.NoError(t, err)

	// Once released, the room accepts a new lease from another tenant
	second := newContract(bob.ID, room.ID)
	require.NoError(t, repo.CreateActive(ctx, second))
	assert.Equal(t, models.ContractActive, second.Status)
}

func TestList_Filters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContractRepository(db)
	ctx := context.Background()

	alice := seedTenant(t, db, "Alice Zhang", "110101199001010011")
	bob := seedTenant(t, db, "Bob Li", "110101199202020022")
	roomA := seedRoom(t, db, "301", models.RoomVacant)
	roomB := seedRoom(t, db, "402", models.RoomVacant)

	c1 := newContract(alice.ID, roomA.ID)
	require.NoError(t, repo.CreateActive(ctx, c1))

	c2 := newContract(bob.ID, roomB.ID)
	c2.StartDate = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	c2.EndDate = time.Date(2027, 5, 31, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.CreateActive(ctx, c2))

	_, err := repo.Terminate(ctx, c1.ID)
	require.NoError(t, err)

	t.Run("no filters returns everything", func(t *testing.T) {
		contracts, err := repo.List(ctx, ContractFilters{})
		require.NoError(t, err)
		assert.Len(t, contracts, 2)
	})

	t.Run("room number substring", func(t *testing.T) {
		contracts, err := repo.List(ctx, ContractFilters{RoomNumber: "30"})
		require.NoError(t, err)
		require.Len(t, contracts, 1)
		assert.Equal(t, roomA.ID, contracts[0].RoomID)
	})

	t.Run("tenant name substring", func(t *testing.T) {
		contracts, err := repo.List(ctx, ContractFilters{TenantName: "Bob"})
		require.NoError(t, err)
		require.Len(t, contracts, 1)
		assert.Equal(t, bob.ID, contracts[0].TenantID)
	})

	t.Run("status filter", func(t *testing.T) {
		status := models.ContractActive
		contracts, err := repo.List(ctx, ContractFilters{Status: &status})
		require.NoError(t, err)
		require.Len(t, contracts, 1)
		assert.Equal(t, c2.ID, contracts[0].ID)
	})

	t.Run("date range", func(t *testing.T) {
		from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		contracts, err := repo.List(ctx, ContractFilters{StartFrom: &from})
		require.NoError(t, err)
		require.Len(t, contracts, 1)
		assert.Equal(t, c2.ID, contracts[0].ID)
	})

	t.Run("associations are loaded", func(t *testing.T) {
		contracts, err := repo.List(ctx, ContractFilters{TenantName: "Alice"})
		require.NoError(t, err)
		require.Len(t, contracts, 1)
		assert.Equal(t, "Alice Zhang", contracts[0].Tenant.Name)
		assert.Equal(t, "301", contracts[0].Room.Number)
	})
}

func TestGetByID_PreloadsAssociations(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContractRepository(db)
	ctx := context.Background()

	tenant := seedTenant(t, db, "Alice", "110101199001010011")
	room := seedRoom(t, db, "301", models.RoomVacant)

	contract := newContract(tenant.ID, room.ID)
	require.NoError(t, repo.CreateActive(ctx, contract))

	found, err := repo.GetByID(ctx, contract.ID)
	require.NoError(t, err)
	assert.Equal(t, tenant.IDCard, found.Tenant.IDCard)
	assert.Equal(t, room.Building, found.Room.Building)
}
