package catalog

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"btploc/internal/domain"
	"btploc/internal/repository"
)

var (
	ErrNotFound        = errors.New("materiel not found")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidPrice    = errors.New("invalid price")
	ErrHasLocations    = errors.New("materiel has blocking locations")
)

// MaterielStore is the catalog's persistence contract.
type MaterielStore interface {
	Create(ctx context.Context, m *domain.Materiel) error
	GetByID(ctx context.Context, id int64) (*domain.Materiel, error)
	List(ctx context.Context, f repository.MaterielFilter, limit, offset int) ([]domain.Materiel, int64, error)
	Update(ctx context.Context, id int64, fields map[string]any) error
	UpdateStatus(ctx context.Context, id int64, status domain.MaterielStatus) error
	Delete(ctx context.Context, id int64) error
}

// LocationReader exposes the booking data the catalog needs: the busy
// calendar of a unit and the delete guard.
type LocationReader interface {
	BusyRanges(ctx context.Context, materielID int64, from, to time.Time, statuses []domain.LocationStatus) ([]repository.DateRange, error)
	CountBlockingByMateriel(ctx context.Context, materielID int64) (int64, error)
}

type Service struct {
	materiels MaterielStore
	locations LocationReader
}

func NewService(materiels MaterielStore, locations LocationReader) *Service {
	return &Service{materiels: materiels, locations: locations}
}

func (s *Service) CreateMateriel(ctx context.Context, req CreateMaterielRequest) (*domain.Materiel, error) {
	category := domain.MaterielCategory(req.Category)
	if !category.Valid() {
		return nil, ErrInvalidCategory
	}
	if req.PricePerDay.IsNegative() || req.PricePerDay.IsZero() {
		return nil, ErrInvalidPrice
	}

	m := &domain.Materiel{
		Name:        req.Name,
		Category:    category,
		PricePerDay: req.PricePerDay,
		Status:      domain.MaterielAvailable,
		Specs:       req.Specs,
		Images:      req.Images,
	}

	if err := s.materiels.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) GetMateriel(ctx context.Context, id int64) (*domain.Materiel, error) {
	m, err := s.materiels.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (s *Service) ListMateriels(ctx context.Context, f repository.MaterielFilter, limit, offset int) ([]domain.Materiel, int64, error) {
	if f.Category != "" && !f.Category.Valid() {
		return nil, 0, ErrInvalidCategory
	}
	if f.Status != "" && !f.Status.Valid() {
		return nil, 0, ErrInvalidStatus
	}
	return s.materiels.List(ctx, f, limit, offset)
}

func (s *Service) UpdateMateriel(ctx context.Context, id int64, req UpdateMaterielRequest) (*domain.Materiel, error) {
	if _, err := s.GetMateriel(ctx, id); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Category != nil {
		category := domain.MaterielCategory(*req.Category)
		if !category.Valid() {
			return nil, ErrInvalidCategory
		}
		fields["category"] = string(category)
	}
	if req.PricePerDay != nil {
		if req.PricePerDay.IsNegative() || req.PricePerDay.IsZero() {
			return nil, ErrInvalidPrice
		}
		fields["price_per_day"] = *req.PricePerDay
	}
	if req.Specs != nil {
		fields["specs"] = *req.Specs
	}
	if req.Images != nil {
		fields["images"] = *req.Images
	}

	if len(fields) > 0 {
		if err := s.materiels.Update(ctx, id, fields); err != nil {
			return nil, err
		}
	}
	return s.GetMateriel(ctx, id)
}

func (s *Service) UpdateMaterielStatus(ctx context.Context, id int64, status string) (*domain.Materiel, error) {
	st := domain.MaterielStatus(status)
	if !st.Valid() {
		return nil, ErrInvalidStatus
	}
	if _, err := s.GetMateriel(ctx, id); err != nil {
		return nil, err
	}
	if err := s.materiels.UpdateStatus(ctx, id, st); err != nil {
		return nil, err
	}
	return s.GetMateriel(ctx, id)
}

// DeleteMateriel refuses to remove a unit that still has pending, confirmed
// or active locations.
func (s *Service) DeleteMateriel(ctx context.Context, id int64) error {
	if _, err := s.GetMateriel(ctx, id); err != nil {
		return err
	}

	cnt, err := s.locations.CountBlockingByMateriel(ctx, id)
	if err != nil {
		return err
	}
	if cnt > 0 {
		return ErrHasLocations
	}

	if err := s.materiels.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// Availability returns the busy date ranges of a unit inside a window,
// merged from its blocking locations.
func (s *Service) Availability(ctx context.Context, id int64, from, to time.Time) ([]repository.DateRange, error) {
	if _, err := s.GetMateriel(ctx, id); err != nil {
		return nil, err
	}
	return s.locations.BusyRanges(ctx, id, from, to, domain.BlockingStatuses)
}
