package booking

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"btploc/internal/domain"
	"btploc/internal/repository"
)

const minCancelReasonLen = 10

// Service owns the lifecycle of a location: creation with availability
// validation and pricing, extension with re-validation and re-pricing,
// and cancellation with state-transition guards.
type Service struct {
	locations LocationRepository
	materiels MaterielReader
	notifs    NotificationSender
}

func NewService(locations LocationRepository, materiels MaterielReader, notifs NotificationSender) *Service {
	return &Service{
		locations: locations,
		materiels: materiels,
		notifs:    notifs,
	}
}

// rentalDays counts billable days: the duration rounded up to whole days.
func rentalDays(start, end time.Time) int64 {
	d := end.Sub(start)
	days := int64(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	return days
}

func totalPrice(pricePerDay decimal.Decimal, start, end time.Time) decimal.Decimal {
	return pricePerDay.Mul(decimal.NewFromInt(rentalDays(start, end)))
}

func isAdmin(role string) bool { return role == string(domain.RoleAdmin) }

// mapWriteError translates repository overlap failures, including a Postgres
// exclusion/unique violation from the constraint that is the final authority
// against double-booking, into the module's conflict sentinel.
func mapWriteError(err error) error {
	if errors.Is(err, repository.ErrLocationOverlap) {
		return ErrConflict
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && (pgErr.Code == "23P01" || pgErr.Code == "23505") {
		return ErrConflict
	}
	return err
}

func (s *Service) CreateLocation(ctx context.Context, req CreateLocationRequest) (*domain.Location, error) {
	if !req.EndDate.After(req.StartDate) {
		return nil, ErrValidation
	}

	materiel, err := s.materiels.GetByID(ctx, req.MaterielID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMaterielNotFound
		}
		return nil, err
	}
	if materiel.Status != domain.MaterielAvailable {
		return nil, ErrMaterielUnavailable
	}

	// Fast-path rejection; the transactional re-check in CreateExclusive is
	// what actually guarantees the no-overlap invariant.
	conflicts, err := s.locations.FindConflicting(ctx, req.MaterielID, req.StartDate, req.EndDate, 0, domain.BlockingStatuses)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, ErrConflict
	}

	l := &domain.Location{
		UserID:     req.UserID,
		MaterielID: req.MaterielID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		TotalPrice: totalPrice(materiel.PricePerDay, req.StartDate, req.EndDate),
		Status:     domain.LocationActive,
		Notes:      req.Notes,
	}

	if err := s.locations.CreateExclusive(ctx, l, domain.BlockingStatuses); err != nil {
		return nil, mapWriteError(err)
	}

	if s.notifs != nil {
		_ = s.notifs.NotifyLocationCreated(ctx, l.UserID, l.ID, l.MaterielID, l.StartDate, l.EndDate)
	}

	return s.locations.GetDetailed(ctx, l.ID)
}

func (s *Service) ExtendLocation(ctx context.Context, id int64, actorID int64, actorRole string, newEnd time.Time) (*domain.Location, error) {
	l, err := s.locations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLocationNotFound
		}
		return nil, err
	}

	if l.UserID != actorID && !isAdmin(actorRole) {
		return nil, ErrForbidden
	}
	if !l.Status.Blocking() {
		return nil, ErrNotExtendable
	}
	if !newEnd.After(l.EndDate) {
		return nil, ErrValidation
	}

	conflicts, err := s.locations.FindConflicting(ctx, l.MaterielID, l.EndDate, newEnd, l.ID, domain.BlockingStatuses)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, ErrConflict
	}

	materiel, err := s.materiels.GetByID(ctx, l.MaterielID)
	if err != nil {
		return nil, err
	}

	// Full re-price from the original start date, not incremental.
	total := totalPrice(materiel.PricePerDay, l.StartDate, newEnd)

	if err := s.locations.ExtendExclusive(ctx, l.ID, l.MaterielID, l.EndDate, newEnd, total, domain.BlockingStatuses); err != nil {
		return nil, mapWriteError(err)
	}

	if s.notifs != nil {
		_ = s.notifs.NotifyLocationExtended(ctx, l.UserID, l.ID, newEnd)
	}

	return s.locations.GetDetailed(ctx, l.ID)
}

func (s *Service) CancelLocation(ctx context.Context, id int64, actorID int64, actorRole string, reason string) (*domain.Location, error) {
	l, err := s.locations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLocationNotFound
		}
		return nil, err
	}

	if l.UserID != actorID && !isAdmin(actorRole) {
		return nil, ErrForbidden
	}
	if l.Status == domain.LocationCancelled {
		return nil, ErrAlreadyCancelled
	}
	if l.Status == domain.LocationCompleted {
		return nil, ErrNotCancellable
	}
	if reason != "" && utf8.RuneCountInString(reason) < minCancelReasonLen {
		return nil, ErrValidation
	}

	line := fmt.Sprintf("cancelled %s", time.Now().UTC().Format("2006-01-02 15:04"))
	if reason != "" {
		line += ": " + reason
	}
	notes := line
	if l.Notes != "" {
		notes = l.Notes + "\n" + line
	}

	if err := s.locations.Update(ctx, l.ID, map[string]any{
		"status": string(domain.LocationCancelled),
		"notes":  notes,
	}); err != nil {
		return nil, err
	}

	if s.notifs != nil {
		_ = s.notifs.NotifyLocationCancelled(ctx, l.UserID, l.ID, reason)
	}

	return s.locations.GetDetailed(ctx, l.ID)
}

func (s *Service) GetLocation(ctx context.Context, id int64, actorID int64, actorRole string) (*domain.Location, error) {
	l, err := s.locations.GetDetailed(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLocationNotFound
		}
		return nil, err
	}
	if l.UserID != actorID && !isAdmin(actorRole) {
		return nil, ErrForbidden
	}
	return l, nil
}

func (s *Service) ListLocations(ctx context.Context, actorID int64, actorRole string, all bool, limit, offset int) ([]domain.Location, int64, error) {
	if all && isAdmin(actorRole) {
		return s.locations.ListAll(ctx, limit, offset)
	}
	return s.locations.ListByUser(ctx, actorID, limit, offset)
}

// transitionRank orders the forward path of the state machine. Cancellation
// goes through CancelLocation, never through the generic update.
var transitionRank = map[domain.LocationStatus]int{
	domain.LocationPending:   0,
	domain.LocationConfirmed: 1,
	domain.LocationActive:    2,
	domain.LocationCompleted: 3,
}

// UpdateLocation is the admin-only generic field update (status/notes).
func (s *Service) UpdateLocation(ctx context.Context, id int64, req UpdateLocationRequest) (*domain.Location, error) {
	l, err := s.locations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLocationNotFound
		}
		return nil, err
	}

	fields := map[string]any{}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}
	if req.Status != nil {
		target := domain.LocationStatus(*req.Status)
		if !target.Valid() {
			return nil, ErrValidation
		}
		fromRank, fromOK := transitionRank[l.Status]
		toRank, toOK := transitionRank[target]
		if !fromOK || !toOK || toRank <= fromRank {
			return nil, ErrInvalidTransition
		}
		fields["status"] = string(target)
	}

	if len(fields) == 0 {
		return nil, ErrValidation
	}

	if err := s.locations.Update(ctx, l.ID, fields); err != nil {
		return nil, err
	}

	if s.notifs != nil && fields["status"] == string(domain.LocationConfirmed) {
		_ = s.notifs.NotifyLocationConfirmed(ctx, l.UserID, l.ID)
	}

	return s.locations.GetDetailed(ctx, l.ID)
}
