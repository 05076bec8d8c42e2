package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"rental-service/internal/models"
	"rental-service/internal/repository"
)

type mockContractRepo struct {
	mock.Mock
}

func (m *mockContractRepo) GetByID(ctx context.Context, id uint) (*models.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Contract), args.Error(1)
}

func (m *mockContractRepo) List(ctx context.Context, filters repository.ContractFilters) ([]models.Contract, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Contract), args.Error(1)
}

func (m *mockContractRepo) CreateActive(ctx context.Context, contract *models.Contract) error {
	args := m.Called(ctx, contract)
	return args.Error(0)
}

func (m *mockContractRepo) Terminate(ctx context.Context, id uint) (*models.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Contract), args.Error(1)
}

func float64Ptr(v float64) *float64 {
	return &v
}

func validContractRequest() *models.CreateContractRequest {
	return &models.CreateContractRequest{
		TenantID:   1,
		RoomID:     2,
		StartDate:  "2026-01-01",
		EndDate:    "2026-12-31",
		RentAmount: float64Ptr(2500),
		Deposit:    float64Ptr(2500),
	}
}

func TestCreateContract_Success(t *testing.T) {
	repo := new(mockContractRepo)
	svc := NewContractService(repo, nil)

	repo.On("CreateActive", mock.Anything, mock.MatchedBy(func(c *models.Contract) bool {
		return c.TenantID == 1 && c.RoomID == 2 && c.RentAmount == 2500
	})).Run(func(args mock.Arguments) {
		c := args.Get(1).(*models.Contract)
		c.ID = 10
		c.Status = models.ContractActive
	}).Return(nil)

	contract, err := svc.CreateContract(context.Background(), validContractRequest())
	require.NoError(t, err)
	assert.Equal(t, uint(10), contract.ID)
	assert.Equal(t, models.ContractActive, contract.Status)
	repo.AssertExpectations(t)
}

func TestCreateContract_BadDates(t *testing.T) {
	repo := new(mockContractRepo)
	svc := NewContractService(repo, nil)

	tests := []struct {
		name  string
		alter func(*models.CreateContractRequest)
		field string
	}{
		{
			name:  "bad start date",
			alter: func(r *models.CreateContractRequest) { r.StartDate = "01/01/2026" },
			field: "startDate",
		},
		{
			name:  "bad end date",
			alter: func(r *models.CreateContractRequest) { r.EndDate = "not-a-date" },
			field: "endDate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validContractRequest()
			tt.alter(req)

			_, err := svc.CreateContract(context.Background(), req)
			validationErr, ok := IsValidationError(err)
			require.True(t, ok)
			assert.Equal(t, tt.field, validationErr.Field)
		})
	}

	// Validation failures never reach the repository
	repo.AssertNotCalled(t, "CreateActive", mock.Anything, mock.Anything)
}

func TestCreateContract_RFC3339DatesAccepted(t *testing.T) {
	repo := new(mockContractRepo)
	svc := NewContractService(repo, nil)

	repo.On("CreateActive", mock.Anything, mock.Anything).Return(nil)

	req := validContractRequest()
	req.StartDate = "2026-01-01T00:00:00Z"

	_, err := svc.CreateContract(context.Background(), req)
	assert.NoError(t, err)
}

func TestCreateContract_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		repoErr  error
		conflict bool
		notFound bool
	}{
		{
			name:     "duplicate active lease",
			repoErr:  repository.ErrDuplicateActiveLease,
			conflict: true,
		},
		{
			name:     "room not vacant",
			repoErr:  repository.ErrRoomNotVacant,
			conflict: true,
		},
		{
			name:     "room missing",
			repoErr:  gorm.ErrRecordNotFound,
			notFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockContractRepo)
			svc := NewContractService(repo, nil)
			repo.On("CreateActive", mock.Anything, mock.Anything).Return(tt.repoErr)

			_, err := svc.CreateContract(context.Background(), validContractRequest())
			require.Error(t, err)

			_, isConflict := IsConflictError(err)
			assert.Equal(t, tt.conflict, isConflict)
			_, isNotFound := IsNotFoundError(err)
			assert.Equal(t, tt.notFound, isNotFound)
		})
	}
}

func TestTerminateContract_Success(t *testing.T) {
	repo := new(mockContractRepo)
	svc := NewContractService(repo, nil)

	repo.On("Terminate", mock.Anything, uint(10)).Return(&models.Contract{
		ID:     10,
		Status: models.ContractTerminated,
	}, nil)

	contract, err := svc.TerminateContract(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, models.ContractTerminated, contract.Status)
}

func TestTerminateContract_ErrorMapping(t *testing.T) {
	t.Run("missing contract", func(t *testing.T) {
		repo := new(mockContractRepo)
		svc := NewContractService(repo, nil)
		repo.On("Terminate", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.TerminateContract(context.Background(), 99)
		_, ok := IsNotFoundError(err)
		assert.True(t, ok)
	})

	t.Run("not active", func(t *testing.T) {
		repo := new(mockContractRepo)
		svc := NewContractService(repo, nil)
		repo.On("Terminate", mock.Anything, uint(10)).Return(nil, repository.ErrContractNotActive)

		_, err := svc.TerminateContract(context.Background(), 10)
		_, ok := IsConflictError(err)
		assert.True(t, ok)
	})
}

func TestGetContract_NotFound(t *testing.T) {
	repo := new(mockContractRepo)
	svc := NewContractService(repo, nil)
	repo.On("GetByID", mock.Anything, uint(5)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.GetContract(context.Background(), 5)
	_, ok := IsNotFoundError(err)
	assert.True(t, ok)
}
