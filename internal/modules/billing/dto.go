package billing

import "github.com/shopspring/decimal"

type IssueInvoiceRequest struct {
	LocationID int64 `json:"location_id" binding:"required"`
}

type PayInvoiceRequest struct {
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Method    string          `json:"method" binding:"required"`
	Reference string          `json:"reference"`
}
