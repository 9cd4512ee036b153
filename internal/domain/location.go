package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type LocationStatus string

const (
	LocationPending   LocationStatus = "pending"
	LocationConfirmed LocationStatus = "confirmed"
	LocationActive    LocationStatus = "active"
	LocationCompleted LocationStatus = "completed"
	LocationCancelled LocationStatus = "cancelled"
)

func (s LocationStatus) Valid() bool {
	switch s {
	case LocationPending, LocationConfirmed, LocationActive, LocationCompleted, LocationCancelled:
		return true
	}
	return false
}

// BlockingStatuses is the canonical set of states that count toward
// double-booking conflict detection. It is the single source of truth:
// every overlap query takes it as a parameter.
var BlockingStatuses = []LocationStatus{LocationPending, LocationConfirmed, LocationActive}

func (s LocationStatus) Blocking() bool {
	for _, b := range BlockingStatuses {
		if s == b {
			return true
		}
	}
	return false
}

// Location is a rental booking record linking a user, a materiel and a date
// range. End dates are inclusive: a location ending on a given day still
// blocks that day, so same-day handover is rejected as a conflict.
type Location struct {
	ID         int64           `json:"id" gorm:"primaryKey"`
	UserID     int64           `json:"user_id" gorm:"not null;index"`
	MaterielID int64           `json:"materiel_id" gorm:"not null;index"`
	StartDate  time.Time       `json:"start_date" gorm:"not null"`
	EndDate    time.Time       `json:"end_date" gorm:"not null"`
	TotalPrice decimal.Decimal `json:"total_price" gorm:"type:decimal(12,2)"`
	Status     LocationStatus  `json:"status" gorm:"index;default:active"`
	Notes      string          `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`

	User     *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Materiel *Materiel `json:"materiel,omitempty" gorm:"foreignKey:MaterielID"`
}

func (Location) TableName() string { return "locations" }
