package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"btploc/internal/domain"
	"btploc/internal/repository"
)

type mockMaterielStore struct {
	mock.Mock
}

func (m *mockMaterielStore) Create(ctx context.Context, mat *domain.Materiel) error {
	args := m.Called(ctx, mat)
	if mat != nil && args.Error(0) == nil {
		mat.ID = 10
	}
	return args.Error(0)
}

func (m *mockMaterielStore) GetByID(ctx context.Context, id int64) (*domain.Materiel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Materiel), args.Error(1)
}

func (m *mockMaterielStore) List(ctx context.Context, f repository.MaterielFilter, limit, offset int) ([]domain.Materiel, int64, error) {
	args := m.Called(ctx, f, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Materiel), args.Get(1).(int64), args.Error(2)
}

func (m *mockMaterielStore) Update(ctx context.Context, id int64, fields map[string]any) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *mockMaterielStore) UpdateStatus(ctx context.Context, id int64, status domain.MaterielStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *mockMaterielStore) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockLocationReader struct {
	mock.Mock
}

func (m *mockLocationReader) BusyRanges(ctx context.Context, materielID int64, from, to time.Time, statuses []domain.LocationStatus) ([]repository.DateRange, error) {
	args := m.Called(ctx, materielID, from, to, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.DateRange), args.Error(1)
}

func (m *mockLocationReader) CountBlockingByMateriel(ctx context.Context, materielID int64) (int64, error) {
	args := m.Called(ctx, materielID)
	return args.Get(0).(int64), args.Error(1)
}

func excavator() *domain.Materiel {
	return &domain.Materiel{
		ID:          10,
		Name:        "Pelle 20t",
		Category:    domain.CategoryExcavator,
		PricePerDay: decimal.NewFromInt(450),
		Status:      domain.MaterielAvailable,
	}
}

func TestService_CreateMateriel_Success(t *testing.T) {
	store := new(mockMaterielStore)
	service := NewService(store, new(mockLocationReader))

	store.On("Create", mock.Anything, mock.MatchedBy(func(m *domain.Materiel) bool {
		return m.Status == domain.MaterielAvailable && m.Category == domain.CategoryExcavator
	})).Return(nil)

	m, err := service.CreateMateriel(context.Background(), CreateMaterielRequest{
		Name:        "Pelle 20t",
		Category:    "excavator",
		PricePerDay: decimal.NewFromInt(450),
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(10), m.ID)
}

func TestService_CreateMateriel_BadCategory(t *testing.T) {
	service := NewService(new(mockMaterielStore), new(mockLocationReader))

	_, err := service.CreateMateriel(context.Background(), CreateMaterielRequest{
		Name:        "Pelle 20t",
		Category:    "submarine",
		PricePerDay: decimal.NewFromInt(450),
	})

	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestService_CreateMateriel_NonPositivePrice(t *testing.T) {
	service := NewService(new(mockMaterielStore), new(mockLocationReader))

	_, err := service.CreateMateriel(context.Background(), CreateMaterielRequest{
		Name:        "Pelle 20t",
		Category:    "excavator",
		PricePerDay: decimal.Zero,
	})

	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestService_GetMateriel_NotFound(t *testing.T) {
	store := new(mockMaterielStore)
	service := NewService(store, new(mockLocationReader))

	store.On("GetByID", mock.Anything, int64(99)).Return(nil, gorm.ErrRecordNotFound)

	_, err := service.GetMateriel(context.Background(), 99)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_DeleteMateriel_BlockedByLocations(t *testing.T) {
	store := new(mockMaterielStore)
	locations := new(mockLocationReader)
	service := NewService(store, locations)

	store.On("GetByID", mock.Anything, int64(10)).Return(excavator(), nil)
	locations.On("CountBlockingByMateriel", mock.Anything, int64(10)).Return(int64(2), nil)

	err := service.DeleteMateriel(context.Background(), 10)

	assert.ErrorIs(t, err, ErrHasLocations)
	store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestService_DeleteMateriel_Success(t *testing.T) {
	store := new(mockMaterielStore)
	locations := new(mockLocationReader)
	service := NewService(store, locations)

	store.On("GetByID", mock.Anything, int64(10)).Return(excavator(), nil)
	locations.On("CountBlockingByMateriel", mock.Anything, int64(10)).Return(int64(0), nil)
	store.On("Delete", mock.Anything, int64(10)).Return(nil)

	err := service.DeleteMateriel(context.Background(), 10)

	assert.NoError(t, err)
	store.AssertExpectations(t)
}

func TestService_UpdateMaterielStatus_Invalid(t *testing.T) {
	service := NewService(new(mockMaterielStore), new(mockLocationReader))

	_, err := service.UpdateMaterielStatus(context.Background(), 10, "broken")

	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestService_Availability_UsesBlockingStatuses(t *testing.T) {
	store := new(mockMaterielStore)
	locations := new(mockLocationReader)
	service := NewService(store, locations)

	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	busy := []repository.DateRange{
		{Start: time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), End: time.Date(2025, 1, 9, 0, 0, 0, 0, time.UTC)},
	}

	store.On("GetByID", mock.Anything, int64(10)).Return(excavator(), nil)
	locations.On("BusyRanges", mock.Anything, int64(10), from, to, domain.BlockingStatuses).Return(busy, nil)

	got, err := service.Availability(context.Background(), 10, from, to)

	assert.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, busy[0].Start, got[0].Start)
}
