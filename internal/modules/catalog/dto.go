package catalog

import "github.com/shopspring/decimal"

type CreateMaterielRequest struct {
	Name        string            `json:"name" validate:"required,min=3"`
	Category    string            `json:"category" validate:"required"`
	PricePerDay decimal.Decimal   `json:"price_per_day" validate:"required"`
	Specs       map[string]string `json:"specs"`
	Images      []string          `json:"images"`
}

type UpdateMaterielRequest struct {
	Name        *string            `json:"name" validate:"omitempty,min=3"`
	Category    *string            `json:"category"`
	PricePerDay *decimal.Decimal   `json:"price_per_day"`
	Specs       *map[string]string `json:"specs"`
	Images      *[]string          `json:"images"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
