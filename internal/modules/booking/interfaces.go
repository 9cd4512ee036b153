package booking

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"btploc/internal/domain"
)

// LocationRepository is the persistence contract of the booking engine.
// The *Exclusive methods run their overlap check and write inside one
// transaction; FindConflicting is the fast-path pre-check only.
type LocationRepository interface {
	FindConflicting(ctx context.Context, materielID int64, start, end time.Time, excludeID int64, statuses []domain.LocationStatus) ([]domain.Location, error)
	CreateExclusive(ctx context.Context, l *domain.Location, blocking []domain.LocationStatus) error
	ExtendExclusive(ctx context.Context, id, materielID int64, windowStart, newEnd time.Time, total decimal.Decimal, blocking []domain.LocationStatus) error
	GetByID(ctx context.Context, id int64) (*domain.Location, error)
	GetDetailed(ctx context.Context, id int64) (*domain.Location, error)
	Update(ctx context.Context, id int64, fields map[string]any) error
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Location, int64, error)
	ListAll(ctx context.Context, limit, offset int) ([]domain.Location, int64, error)
}

// MaterielReader is the read-only equipment directory lookup.
type MaterielReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Materiel, error)
}

// NotificationSender delivers in-app notifications; failures are logged,
// never surfaced to the caller.
type NotificationSender interface {
	NotifyLocationCreated(ctx context.Context, userID, locationID, materielID int64, start, end time.Time) error
	NotifyLocationConfirmed(ctx context.Context, userID, locationID int64) error
	NotifyLocationExtended(ctx context.Context, userID, locationID int64, newEnd time.Time) error
	NotifyLocationCancelled(ctx context.Context, userID, locationID int64, reason string) error
}
