package booking

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"btploc/internal/domain"
	"btploc/internal/repository"
)

// Mock repositories

type MockLocationRepository struct {
	mock.Mock
}

func (m *MockLocationRepository) FindConflicting(ctx context.Context, materielID int64, start, end time.Time, excludeID int64, statuses []domain.LocationStatus) ([]domain.Location, error) {
	args := m.Called(ctx, materielID, start, end, excludeID, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Location), args.Error(1)
}

func (m *MockLocationRepository) CreateExclusive(ctx context.Context, l *domain.Location, blocking []domain.LocationStatus) error {
	args := m.Called(ctx, l, blocking)
	if l != nil && args.Error(0) == nil {
		l.ID = 999 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockLocationRepository) ExtendExclusive(ctx context.Context, id, materielID int64, windowStart, newEnd time.Time, total decimal.Decimal, blocking []domain.LocationStatus) error {
	args := m.Called(ctx, id, materielID, windowStart, newEnd, total, blocking)
	return args.Error(0)
}

func (m *MockLocationRepository) GetByID(ctx context.Context, id int64) (*domain.Location, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Location), args.Error(1)
}

func (m *MockLocationRepository) GetDetailed(ctx context.Context, id int64) (*domain.Location, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Location), args.Error(1)
}

func (m *MockLocationRepository) Update(ctx context.Context, id int64, fields map[string]any) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockLocationRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Location, int64, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Location), args.Get(1).(int64), args.Error(2)
}

func (m *MockLocationRepository) ListAll(ctx context.Context, limit, offset int) ([]domain.Location, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Location), args.Get(1).(int64), args.Error(2)
}

type MockMaterielReader struct {
	mock.Mock
}

func (m *MockMaterielReader) GetByID(ctx context.Context, id int64) (*domain.Materiel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Materiel), args.Error(1)
}

type MockNotificationSender struct {
	mock.Mock
}

func (m *MockNotificationSender) NotifyLocationCreated(ctx context.Context, userID, locationID, materielID int64, start, end time.Time) error {
	args := m.Called(ctx, userID, locationID, materielID, start, end)
	return args.Error(0)
}

func (m *MockNotificationSender) NotifyLocationConfirmed(ctx context.Context, userID, locationID int64) error {
	args := m.Called(ctx, userID, locationID)
	return args.Error(0)
}

func (m *MockNotificationSender) NotifyLocationExtended(ctx context.Context, userID, locationID int64, newEnd time.Time) error {
	args := m.Called(ctx, userID, locationID, newEnd)
	return args.Error(0)
}

func (m *MockNotificationSender) NotifyLocationCancelled(ctx context.Context, userID, locationID int64, reason string) error {
	args := m.Called(ctx, userID, locationID, reason)
	return args.Error(0)
}

func newServiceWithMocks() (*Service, *MockLocationRepository, *MockMaterielReader, *MockNotificationSender) {
	locations := new(MockLocationRepository)
	materiels := new(MockMaterielReader)
	notifs := new(MockNotificationSender)
	return NewService(locations, materiels, notifs), locations, materiels, notifs
}

func craneFor100PerDay() *domain.Materiel {
	return &domain.Materiel{
		ID:          10,
		Name:        "Grue mobile 60t",
		Category:    domain.CategoryMobileCrane,
		PricePerDay: decimal.NewFromInt(100),
		Status:      domain.MaterielAvailable,
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRentalDays(t *testing.T) {
	cases := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int64
	}{
		{"two full days", day(2025, 1, 1), day(2025, 1, 3), 2},
		{"partial day rounds up", day(2025, 1, 1), day(2025, 1, 2).Add(6 * time.Hour), 2},
		{"single day", day(2025, 1, 1), day(2025, 1, 2), 1},
		{"one hour rounds to a day", day(2025, 1, 1), day(2025, 1, 1).Add(time.Hour), 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, rentalDays(tc.start, tc.end))
		})
	}
}

func TestService_CreateLocation_Success(t *testing.T) {
	service, locations, materiels, notifs := newServiceWithMocks()

	start := day(2025, 1, 1)
	end := day(2025, 1, 3)

	materiels.On("GetByID", mock.Anything, int64(10)).Return(craneFor100PerDay(), nil)
	locations.On("FindConflicting", mock.Anything, int64(10), start, end, int64(0), domain.BlockingStatuses).
		Return([]domain.Location{}, nil)
	locations.On("CreateExclusive", mock.Anything, mock.Anything, domain.BlockingStatuses).Return(nil)
	locations.On("GetDetailed", mock.Anything, int64(999)).Return(&domain.Location{
		ID:         999,
		UserID:     7,
		MaterielID: 10,
		StartDate:  start,
		EndDate:    end,
		TotalPrice: decimal.NewFromInt(200),
		Status:     domain.LocationActive,
	}, nil)
	notifs.On("NotifyLocationCreated", mock.Anything, int64(7), int64(999), int64(10), start, end).Return(nil)

	l, err := service.CreateLocation(context.Background(), CreateLocationRequest{
		MaterielID: 10,
		StartDate:  start,
		EndDate:    end,
		UserID:     7,
	})

	assert.NoError(t, err)
	assert.NotNil(t, l)
	assert.True(t, l.TotalPrice.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, domain.LocationActive, l.Status)

	// The persisted record carries the computed price, not only the response.
	created := locations.Calls[1].Arguments.Get(1).(*domain.Location)
	assert.True(t, created.TotalPrice.Equal(decimal.NewFromInt(200)))
	locations.AssertExpectations(t)
}

func TestService_CreateLocation_EndNotAfterStart(t *testing.T) {
	service, _, _, _ := newServiceWithMocks()

	_, err := service.CreateLocation(context.Background(), CreateLocationRequest{
		MaterielID: 10,
		StartDate:  day(2025, 1, 3),
		EndDate:    day(2025, 1, 3),
		UserID:     7,
	})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_CreateLocation_MaterielNotFound(t *testing.T) {
	service, _, materiels, _ := newServiceWithMocks()

	materiels.On("GetByID", mock.Anything, int64(42)).Return(nil, gorm.ErrRecordNotFound)

	_, err := service.CreateLocation(context.Background(), CreateLocationRequest{
		MaterielID: 42,
		StartDate:  day(2025, 1, 1),
		EndDate:    day(2025, 1, 3),
		UserID:     7,
	})

	assert.ErrorIs(t, err, ErrMaterielNotFound)
}

func TestService_CreateLocation_MaterielInMaintenance(t *testing.T) {
	service, _, materiels, _ := newServiceWithMocks()

	m := craneFor100PerDay()
	m.Status = domain.MaterielMaintenance
	materiels.On("GetByID", mock.Anything, int64(10)).Return(m, nil)

	_, err := service.CreateLocation(context.Background(), CreateLocationRequest{
		MaterielID: 10,
		StartDate:  day(2025, 1, 1),
		EndDate:    day(2025, 1, 3),
		UserID:     7,
	})

	assert.ErrorIs(t, err, ErrMaterielUnavailable)
}

func TestService_CreateLocation_OverlapConflict(t *testing.T) {
	service, locations, materiels, _ := newServiceWithMocks()

	materiels.On("GetByID", mock.Anything, int64(10)).Return(craneFor100PerDay(), nil)
	locations.On("FindConflicting", mock.Anything, int64(10), day(2025, 1, 2), day(2025, 1, 4), int64(0), domain.BlockingStatuses).
		Return([]domain.Location{{ID: 1, MaterielID: 10, Status: domain.LocationActive}}, nil)

	_, err := service.CreateLocation(context.Background(), CreateLocationRequest{
		MaterielID: 10,
		StartDate:  day(2025, 1, 2),
		EndDate:    day(2025, 1, 4),
		UserID:     7,
	})

	assert.ErrorIs(t, err, ErrConflict)
}

func TestService_CreateLocation_RaceLostAtWrite(t *testing.T) {
	service, locations, materiels, _ := newServiceWithMocks()

	materiels.On("GetByID", mock.Anything, int64(10)).Return(craneFor100PerDay(), nil)
	locations.On("FindConflicting", mock.Anything, int64(10), mock.Anything, mock.Anything, int64(0), domain.BlockingStatuses).
		Return([]domain.Location{}, nil)
	// The fast path saw no conflict, but the transactional re-check did.
	locations.On("CreateExclusive", mock.Anything, mock.Anything, domain.BlockingStatuses).
		Return(repository.ErrLocationOverlap)

	_, err := service.CreateLocation(context.Background(), CreateLocationRequest{
		MaterielID: 10,
		StartDate:  day(2025, 1, 1),
		EndDate:    day(2025, 1, 3),
		UserID:     7,
	})

	assert.ErrorIs(t, err, ErrConflict)
}

func activeLocation() *domain.Location {
	return &domain.Location{
		ID:         55,
		UserID:     7,
		MaterielID: 10,
		StartDate:  day(2025, 1, 1),
		EndDate:    day(2025, 1, 3),
		TotalPrice: decimal.NewFromInt(200),
		Status:     domain.LocationActive,
	}
}

func TestService_ExtendLocation_RepricesFromOriginalStart(t *testing.T) {
	service, locations, materiels, notifs := newServiceWithMocks()

	l := activeLocation()
	newEnd := day(2025, 1, 5)

	locations.On("GetByID", mock.Anything, int64(55)).Return(l, nil)
	locations.On("FindConflicting", mock.Anything, int64(10), l.EndDate, newEnd, int64(55), domain.BlockingStatuses).
		Return([]domain.Location{}, nil)
	materiels.On("GetByID", mock.Anything, int64(10)).Return(craneFor100PerDay(), nil)
	locations.On("ExtendExclusive", mock.Anything, int64(55), int64(10), l.EndDate, newEnd,
		mock.MatchedBy(func(total decimal.Decimal) bool { return total.Equal(decimal.NewFromInt(400)) }),
		domain.BlockingStatuses).Return(nil)
	locations.On("GetDetailed", mock.Anything, int64(55)).Return(&domain.Location{
		ID:         55,
		UserID:     7,
		MaterielID: 10,
		StartDate:  l.StartDate,
		EndDate:    newEnd,
		TotalPrice: decimal.NewFromInt(400),
		Status:     domain.LocationActive,
	}, nil)
	notifs.On("NotifyLocationExtended", mock.Anything, int64(7), int64(55), newEnd).Return(nil)

	got, err := service.ExtendLocation(context.Background(), 55, 7, "client", newEnd)

	assert.NoError(t, err)
	assert.True(t, got.TotalPrice.Equal(decimal.NewFromInt(400)))
	assert.Equal(t, newEnd, got.EndDate)
	locations.AssertExpectations(t)
}

func TestService_ExtendLocation_NewEndNotAfterCurrent(t *testing.T) {
	service, locations, _, _ := newServiceWithMocks()

	locations.On("GetByID", mock.Anything, int64(55)).Return(activeLocation(), nil)

	_, err := service.ExtendLocation(context.Background(), 55, 7, "client", day(2025, 1, 3))

	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_ExtendLocation_Forbidden(t *testing.T) {
	service, locations, _, _ := newServiceWithMocks()

	locations.On("GetByID", mock.Anything, int64(55)).Return(activeLocation(), nil)

	_, err := service.ExtendLocation(context.Background(), 55, 8, "client", day(2025, 1, 5))

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestService_ExtendLocation_AdminMayExtendOthers(t *testing.T) {
	service, locations, materiels, notifs := newServiceWithMocks()

	l := activeLocation()
	newEnd := day(2025, 1, 5)

	locations.On("GetByID", mock.Anything, int64(55)).Return(l, nil)
	locations.On("FindConflicting", mock.Anything, int64(10), l.EndDate, newEnd, int64(55), domain.BlockingStatuses).
		Return([]domain.Location{}, nil)
	materiels.On("GetByID", mock.Anything, int64(10)).Return(craneFor100PerDay(), nil)
	locations.On("ExtendExclusive", mock.Anything, int64(55), int64(10), l.EndDate, newEnd, mock.Anything, domain.BlockingStatuses).Return(nil)
	locations.On("GetDetailed", mock.Anything, int64(55)).Return(l, nil)
	notifs.On("NotifyLocationExtended", mock.Anything, int64(7), int64(55), newEnd).Return(nil)

	_, err := service.ExtendLocation(context.Background(), 55, 99, "admin", newEnd)

	assert.NoError(t, err)
}

func TestService_ExtendLocation_CompletedNotExtendable(t *testing.T) {
	service, locations, _, _ := newServiceWithMocks()

	l := activeLocation()
	l.Status = domain.LocationCompleted
	locations.On("GetByID", mock.Anything, int64(55)).Return(l, nil)

	_, err := service.ExtendLocation(context.Background(), 55, 7, "client", day(2025, 1, 5))

	assert.ErrorIs(t, err, ErrNotExtendable)
}

func TestService_ExtendLocation_Conflict(t *testing.T) {
	service, locations, _, _ := newServiceWithMocks()

	l := activeLocation()
	newEnd := day(2025, 1, 7)
	locations.On("GetByID", mock.Anything, int64(55)).Return(l, nil)
	locations.On("FindConflicting", mock.Anything, int64(10), l.EndDate, newEnd, int64(55), domain.BlockingStatuses).
		Return([]domain.Location{{ID: 77, MaterielID: 10, Status: domain.LocationPending}}, nil)

	_, err := service.ExtendLocation(context.Background(), 55, 7, "client", newEnd)

	assert.ErrorIs(t, err, ErrConflict)
}

func TestService_CancelLocation_AppendsReasonToNotes(t *testing.T) {
	service, locations, _, notifs := newServiceWithMocks()

	l := activeLocation()
	l.Notes = "chantier Rue des Lilas"
	reason := "client changed plans"

	locations.On("GetByID", mock.Anything, int64(55)).Return(l, nil)
	locations.On("Update", mock.Anything, int64(55), mock.MatchedBy(func(fields map[string]any) bool {
		notes, _ := fields["notes"].(string)
		return fields["status"] == "cancelled" &&
			strings.HasPrefix(notes, "chantier Rue des Lilas\n") &&
			strings.Contains(notes, reason)
	})).Return(nil)
	locations.On("GetDetailed", mock.Anything, int64(55)).Return(&domain.Location{
		ID:     55,
		UserID: 7,
		Status: domain.LocationCancelled,
	}, nil)
	notifs.On("NotifyLocationCancelled", mock.Anything, int64(7), int64(55), reason).Return(nil)

	got, err := service.CancelLocation(context.Background(), 55, 7, "client", reason)

	assert.NoError(t, err)
	assert.Equal(t, domain.LocationCancelled, got.Status)
	locations.AssertExpectations(t)
}

func TestService_CancelLocation_ReasonTooShort(t *testing.T) {
	service, locations, _, _ := newServiceWithMocks()

	locations.On("GetByID", mock.Anything, int64(55)).Return(activeLocation(), nil)

	_, err := service.CancelLocation(context.Background(), 55, 7, "client", "too short")

	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_CancelLocation_ReasonLengthCountsRunes(t *testing.T) {
	service, locations, _, _ := newServiceWithMocks()

	locations.On("GetByID", mock.Anything, int64(55)).Return(activeLocation(), nil)

	// 9 characters but 11 bytes; must still be rejected.
	_, err := service.CancelLocation(context.Background(), 55, 7, "client", "référencé")

	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_CancelLocation_AlreadyCancelled(t *testing.T) {
	service, locations, _, _ := newServiceWithMocks()

	l := activeLocation()
	l.Status = domain.LocationCancelled
	locations.On("GetByID", mock.Anything, int64(55)).Return(l, nil)

	_, err := service.CancelLocation(context.Background(), 55, 7, "client", "")

	assert.ErrorIs(t, err, ErrAlreadyCancelled)
}

func TestService_CancelLocation_CompletedRejected(t *testing.T) {
	service, locations, _, _ := newServiceWithMocks()

	l := activeLocation()
	l.Status = domain.LocationCompleted
	locations.On("GetByID", mock.Anything, int64(55)).Return(l, nil)

	_, err := service.CancelLocation(context.Background(), 55, 7, "client", "")

	assert.ErrorIs(t, err, ErrNotCancellable)
}

func TestService_CancelLocation_Forbidden(t *testing.T) {
	service, locations, _, _ := newServiceWithMocks()

	locations.On("GetByID", mock.Anything, int64(55)).Return(activeLocation(), nil)

	_, err := service.CancelLocation(context.Background(), 55, 8, "client", "")

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestService_UpdateLocation_ForwardTransition(t *testing.T) {
	service, locations, _, notifs := newServiceWithMocks()

	l := activeLocation()
	l.Status = domain.LocationPending
	status := "confirmed"

	locations.On("GetByID", mock.Anything, int64(55)).Return(l, nil)
	locations.On("Update", mock.Anything, int64(55), mock.MatchedBy(func(fields map[string]any) bool {
		return fields["status"] == "confirmed"
	})).Return(nil)
	locations.On("GetDetailed", mock.Anything, int64(55)).Return(l, nil)
	notifs.On("NotifyLocationConfirmed", mock.Anything, int64(7), int64(55)).Return(nil)

	_, err := service.UpdateLocation(context.Background(), 55, UpdateLocationRequest{Status: &status})

	assert.NoError(t, err)
	locations.AssertExpectations(t)
}

func TestService_UpdateLocation_ConfirmNotifiesOwner(t *testing.T) {
	service, locations, _, notifs := newServiceWithMocks()

	l := activeLocation()
	l.Status = domain.LocationPending
	status := "confirmed"

	locations.On("GetByID", mock.Anything, int64(55)).Return(l, nil)
	locations.On("Update", mock.Anything, int64(55), mock.Anything).Return(nil)
	locations.On("GetDetailed", mock.Anything, int64(55)).Return(l, nil)
	notifs.On("NotifyLocationConfirmed", mock.Anything, int64(7), int64(55)).Return(nil)

	_, err := service.UpdateLocation(context.Background(), 55, UpdateLocationRequest{Status: &status})

	assert.NoError(t, err)
	notifs.AssertCalled(t, "NotifyLocationConfirmed", mock.Anything, int64(7), int64(55))
}

func TestService_UpdateLocation_NonConfirmTransitionStaysQuiet(t *testing.T) {
	service, locations, _, notifs := newServiceWithMocks()

	l := activeLocation()
	l.Status = domain.LocationConfirmed
	status := "active"

	locations.On("GetByID", mock.Anything, int64(55)).Return(l, nil)
	locations.On("Update", mock.Anything, int64(55), mock.Anything).Return(nil)
	locations.On("GetDetailed", mock.Anything, int64(55)).Return(l, nil)

	_, err := service.UpdateLocation(context.Background(), 55, UpdateLocationRequest{Status: &status})

	assert.NoError(t, err)
	notifs.AssertNotCalled(t, "NotifyLocationConfirmed", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_UpdateLocation_BackwardTransitionRejected(t *testing.T) {
	service, locations, _, _ := newServiceWithMocks()

	l := activeLocation() // active
	status := "pending"

	locations.On("GetByID", mock.Anything, int64(55)).Return(l, nil)

	_, err := service.UpdateLocation(context.Background(), 55, UpdateLocationRequest{Status: &status})

	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestService_UpdateLocation_TerminalStateRejected(t *testing.T) {
	service, locations, _, _ := newServiceWithMocks()

	l := activeLocation()
	l.Status = domain.LocationCancelled
	status := "active"

	locations.On("GetByID", mock.Anything, int64(55)).Return(l, nil)

	_, err := service.UpdateLocation(context.Background(), 55, UpdateLocationRequest{Status: &status})

	assert.ErrorIs(t, err, ErrInvalidTransition)
}
