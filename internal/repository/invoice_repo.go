package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"btploc/internal/domain"
)

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

func (r *InvoiceRepository) Create(ctx context.Context, inv *domain.Invoice) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *InvoiceRepository) GetByID(ctx context.Context, id int64) (*domain.Invoice, error) {
	var inv domain.Invoice
	tx := r.db.WithContext(ctx).
		Preload("Payments").
		Preload("Location").
		First(&inv, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &inv, nil
}

func (r *InvoiceRepository) GetByLocationID(ctx context.Context, locationID int64) (*domain.Invoice, error) {
	var inv domain.Invoice
	tx := r.db.WithContext(ctx).Where("location_id = ?", locationID).First(&inv)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &inv, nil
}

func (r *InvoiceRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Invoice, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Invoice{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []domain.Invoice
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("issued_at DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// AddPayment records a payment and, when the paid sum covers the invoice
// amount, marks the invoice paid. One transaction so a concurrent payment
// cannot double-settle.
func (r *InvoiceRepository) AddPayment(ctx context.Context, p *domain.Payment) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&inv, p.InvoiceID).Error; err != nil {
			return err
		}

		if err := tx.Create(p).Error; err != nil {
			return err
		}

		var payments []domain.Payment
		if err := tx.Where("invoice_id = ?", inv.ID).Find(&payments).Error; err != nil {
			return err
		}

		paid := decimal.Zero
		for _, pay := range payments {
			paid = paid.Add(pay.Amount)
		}

		if paid.GreaterThanOrEqual(inv.Amount) && inv.Status == domain.InvoiceIssued {
			now := time.Now()
			if err := tx.Model(&domain.Invoice{}).Where("id = ?", inv.ID).Updates(map[string]any{
				"status":  string(domain.InvoicePaid),
				"paid_at": now,
			}).Error; err != nil {
				return err
			}
			inv.Status = domain.InvoicePaid
			inv.PaidAt = &now
		}
		inv.Payments = payments
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &inv, nil
}
