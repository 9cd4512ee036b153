package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoiceIssued InvoiceStatus = "issued"
	InvoicePaid   InvoiceStatus = "paid"
	InvoiceVoid   InvoiceStatus = "void"
)

type PaymentMethod string

const (
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentCheque   PaymentMethod = "cheque"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCard, PaymentTransfer, PaymentCheque:
		return true
	}
	return false
}

type Invoice struct {
	ID         int64           `json:"id" gorm:"primaryKey"`
	LocationID int64           `json:"location_id" gorm:"not null;uniqueIndex"`
	UserID     int64           `json:"user_id" gorm:"not null;index"`
	Number     string          `json:"number" gorm:"uniqueIndex"`
	Amount     decimal.Decimal `json:"amount" gorm:"type:decimal(12,2)"`
	Status     InvoiceStatus   `json:"status" gorm:"default:issued"`
	IssuedAt   time.Time       `json:"issued_at"`
	DueAt      time.Time       `json:"due_at"`
	PaidAt     *time.Time      `json:"paid_at,omitempty"`

	Location *Location `json:"location,omitempty" gorm:"foreignKey:LocationID"`
	Payments []Payment `json:"payments,omitempty" gorm:"foreignKey:InvoiceID"`
}

func (Invoice) TableName() string { return "invoices" }

type Payment struct {
	ID        int64           `json:"id" gorm:"primaryKey"`
	InvoiceID int64           `json:"invoice_id" gorm:"not null;index"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:decimal(12,2)"`
	Method    PaymentMethod   `json:"method"`
	Reference string          `json:"reference,omitempty"`
	PaidAt    time.Time       `json:"paid_at"`
}

func (Payment) TableName() string { return "payments" }
