package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"btploc/internal/domain"
)

// ErrLocationOverlap is returned when a write would double-book a materiel.
var ErrLocationOverlap = errors.New("location dates overlap")

type LocationRepository struct {
	db *gorm.DB
}

func NewLocationRepository(db *gorm.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

type locationModel struct {
	ID         int64           `gorm:"column:id;primaryKey"`
	UserID     int64           `gorm:"column:user_id"`
	MaterielID int64           `gorm:"column:materiel_id"`
	StartDate  time.Time       `gorm:"column:start_date"`
	EndDate    time.Time       `gorm:"column:end_date"`
	TotalPrice decimal.Decimal `gorm:"column:total_price;type:decimal(12,2)"`
	Status     string          `gorm:"column:status"`
	Notes      *string         `gorm:"column:notes"`
	CreatedAt  time.Time       `gorm:"column:created_at"`
	UpdatedAt  time.Time       `gorm:"column:updated_at"`
}

func (locationModel) TableName() string { return "locations" }

func toDomainLocation(m locationModel) *domain.Location {
	var notes string
	if m.Notes != nil {
		notes = *m.Notes
	}

	return &domain.Location{
		ID:         m.ID,
		UserID:     m.UserID,
		MaterielID: m.MaterielID,
		StartDate:  m.StartDate,
		EndDate:    m.EndDate,
		TotalPrice: m.TotalPrice,
		Status:     domain.LocationStatus(m.Status),
		Notes:      notes,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func toLocationModel(l *domain.Location) locationModel {
	var notes *string
	if l.Notes != "" {
		v := l.Notes
		notes = &v
	}

	return locationModel{
		ID:         l.ID,
		UserID:     l.UserID,
		MaterielID: l.MaterielID,
		StartDate:  l.StartDate,
		EndDate:    l.EndDate,
		TotalPrice: l.TotalPrice,
		Status:     string(l.Status),
		Notes:      notes,
		CreatedAt:  l.CreatedAt,
		UpdatedAt:  l.UpdatedAt,
	}
}

func statusStrings(statuses []domain.LocationStatus) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, string(s))
	}
	return out
}

// overlapScope selects locations on a materiel in one of the given statuses
// whose inclusive date range intersects [start, end].
func overlapScope(tx *gorm.DB, materielID int64, start, end time.Time, excludeID int64, statuses []domain.LocationStatus) *gorm.DB {
	q := tx.Model(&locationModel{}).
		Where("materiel_id = ?", materielID).
		Where("status IN ?", statusStrings(statuses)).
		Where("start_date <= ? AND end_date >= ?", end, start)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	return q
}

func (r *LocationRepository) FindConflicting(ctx context.Context, materielID int64, start, end time.Time, excludeID int64, statuses []domain.LocationStatus) ([]domain.Location, error) {
	var models []locationModel
	tx := overlapScope(r.db.WithContext(ctx), materielID, start, end, excludeID, statuses).Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Location, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainLocation(m))
	}
	return out, nil
}

// CreateExclusive re-runs the overlap check and inserts inside one
// transaction so two concurrent creations cannot both pass the check.
// On Postgres the ex_locations_no_overlap constraint remains the final
// authority; its violation surfaces as a driver error mapped by the caller.
func (r *LocationRepository) CreateExclusive(ctx context.Context, l *domain.Location, blocking []domain.LocationStatus) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cnt int64
		if err := overlapScope(tx, l.MaterielID, l.StartDate, l.EndDate, 0, blocking).Count(&cnt).Error; err != nil {
			return err
		}
		if cnt > 0 {
			return ErrLocationOverlap
		}

		m := toLocationModel(l)
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		*l = *toDomainLocation(m)
		return nil
	})
}

// ExtendExclusive moves the end date and re-priced total of a location,
// re-checking the extension window against other blocking locations within
// the same transaction.
func (r *LocationRepository) ExtendExclusive(ctx context.Context, id, materielID int64, windowStart, newEnd time.Time, total decimal.Decimal, blocking []domain.LocationStatus) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cnt int64
		if err := overlapScope(tx, materielID, windowStart, newEnd, id, blocking).Count(&cnt).Error; err != nil {
			return err
		}
		if cnt > 0 {
			return ErrLocationOverlap
		}

		return tx.Model(&locationModel{}).Where("id = ?", id).Updates(map[string]any{
			"end_date":    newEnd,
			"total_price": total,
			"updated_at":  time.Now(),
		}).Error
	})
}

func (r *LocationRepository) GetByID(ctx context.Context, id int64) (*domain.Location, error) {
	var m locationModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainLocation(m), nil
}

// GetDetailed returns a location with its user and materiel summaries joined.
func (r *LocationRepository) GetDetailed(ctx context.Context, id int64) (*domain.Location, error) {
	var l domain.Location
	tx := r.db.WithContext(ctx).
		Preload("User").
		Preload("Materiel").
		First(&l, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &l, nil
}

func (r *LocationRepository) Update(ctx context.Context, id int64, fields map[string]any) error {
	fields["updated_at"] = time.Now()
	return r.db.WithContext(ctx).Model(&locationModel{}).Where("id = ?", id).Updates(fields).Error
}

func (r *LocationRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Location, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&locationModel{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []domain.Location
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Materiel").
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *LocationRepository) ListAll(ctx context.Context, limit, offset int) ([]domain.Location, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&locationModel{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []domain.Location
	q := r.db.WithContext(ctx).
		Preload("User").
		Preload("Materiel").
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// BusyRanges returns the blocked date ranges for a materiel inside [from, to].
func (r *LocationRepository) BusyRanges(ctx context.Context, materielID int64, from, to time.Time, statuses []domain.LocationStatus) ([]DateRange, error) {
	var rows []DateRange
	tx := r.db.WithContext(ctx).
		Model(&locationModel{}).
		Select("start_date AS start, end_date AS \"end\"").
		Where("materiel_id = ?", materielID).
		Where("status IN ?", statusStrings(statuses)).
		Where("start_date <= ? AND end_date >= ?", to, from).
		Order("start_date").
		Scan(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return rows, nil
}

// CountBlockingByMateriel backs the catalog delete guard.
func (r *LocationRepository) CountBlockingByMateriel(ctx context.Context, materielID int64) (int64, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).
		Model(&locationModel{}).
		Where("materiel_id = ?", materielID).
		Where("status IN ?", statusStrings(domain.BlockingStatuses)).
		Count(&cnt)
	return cnt, tx.Error
}

// CompleteExpired flips active locations past their end date to completed.
// Run by the nightly job, never by request handlers.
func (r *LocationRepository) CompleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).
		Model(&locationModel{}).
		Where("status = ?", string(domain.LocationActive)).
		Where("end_date < ?", now).
		Updates(map[string]any{
			"status":     string(domain.LocationCompleted),
			"updated_at": now,
		})
	return tx.RowsAffected, tx.Error
}

type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}
