package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type MaterielCategory string

const (
	CategoryMobileCrane       MaterielCategory = "mobile_crane"
	CategoryTowerCrane        MaterielCategory = "tower_crane"
	CategoryTelescopicHandler MaterielCategory = "telescopic_handler"
	CategoryScissorLift       MaterielCategory = "scissor_lift"
	CategoryArticulatedLift   MaterielCategory = "articulated_lift"
	CategoryTelescopicLift    MaterielCategory = "telescopic_lift"
	CategoryCompactor         MaterielCategory = "compactor"
	CategoryExcavator         MaterielCategory = "excavator"
	CategoryOther             MaterielCategory = "other"
)

func (c MaterielCategory) Valid() bool {
	switch c {
	case CategoryMobileCrane, CategoryTowerCrane, CategoryTelescopicHandler,
		CategoryScissorLift, CategoryArticulatedLift, CategoryTelescopicLift,
		CategoryCompactor, CategoryExcavator, CategoryOther:
		return true
	}
	return false
}

type MaterielStatus string

const (
	MaterielAvailable   MaterielStatus = "available"
	MaterielRented      MaterielStatus = "rented"
	MaterielMaintenance MaterielStatus = "maintenance"
	MaterielOutOfOrder  MaterielStatus = "out_of_order"
)

func (s MaterielStatus) Valid() bool {
	switch s {
	case MaterielAvailable, MaterielRented, MaterielMaintenance, MaterielOutOfOrder:
		return true
	}
	return false
}

// Materiel is a unit of rentable construction equipment. Status is the
// staff-managed baseline only: booking conflicts are computed from location
// records, so one unit can hold several non-overlapping future reservations
// while it still shows "available".
type Materiel struct {
	ID          int64             `json:"id" gorm:"primaryKey"`
	Name        string            `json:"name" validate:"required" gorm:"not null"`
	Category    MaterielCategory  `json:"category" validate:"required" gorm:"index"`
	PricePerDay decimal.Decimal   `json:"price_per_day" gorm:"type:decimal(12,2)"`
	Status      MaterielStatus    `json:"status" gorm:"index;default:available"`
	Specs       map[string]string `json:"specs,omitempty" gorm:"serializer:json"`
	Images      []string          `json:"images,omitempty" gorm:"serializer:json"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func (Materiel) TableName() string { return "materiels" }
