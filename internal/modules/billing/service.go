package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"btploc/internal/domain"
)

const dueTerm = 30 * 24 * time.Hour

var (
	ErrLocationNotFound = errors.New("location not found")
	ErrInvoiceNotFound  = errors.New("invoice not found")
	ErrAlreadyInvoiced  = errors.New("location already invoiced")
	ErrForbidden        = errors.New("forbidden")
	ErrNotPayable       = errors.New("invoice is not payable")
	ErrInvalidPayment   = errors.New("invalid payment")
)

// InvoiceRepository is the billing persistence contract.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *domain.Invoice) error
	GetByID(ctx context.Context, id int64) (*domain.Invoice, error)
	GetByLocationID(ctx context.Context, locationID int64) (*domain.Invoice, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Invoice, int64, error)
	AddPayment(ctx context.Context, p *domain.Payment) (*domain.Invoice, error)
}

// LocationReader resolves the location an invoice bills.
type LocationReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Location, error)
}

// InvoiceNotifier is optional; a nil notifier disables notifications.
type InvoiceNotifier interface {
	NotifyInvoiceIssued(ctx context.Context, userID, invoiceID, locationID int64, number string) error
}

type Service struct {
	invoices  InvoiceRepository
	locations LocationReader
	notifs    InvoiceNotifier
}

func NewService(invoices InvoiceRepository, locations LocationReader, notifs InvoiceNotifier) *Service {
	return &Service{invoices: invoices, locations: locations, notifs: notifs}
}

// invoiceNumber builds a unique human-readable number, e.g. FAC-2025-3F2A9C1B.
func invoiceNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("FAC-%d-%s", now.Year(), suffix)
}

// IssueInvoice creates the invoice of a location for the location's total
// price. One invoice per location; the unique index backs the check.
func (s *Service) IssueInvoice(ctx context.Context, locationID int64) (*domain.Invoice, error) {
	l, err := s.locations.GetByID(ctx, locationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLocationNotFound
		}
		return nil, err
	}

	if _, err := s.invoices.GetByLocationID(ctx, locationID); err == nil {
		return nil, ErrAlreadyInvoiced
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now()
	inv := &domain.Invoice{
		LocationID: l.ID,
		UserID:     l.UserID,
		Number:     invoiceNumber(now),
		Amount:     l.TotalPrice,
		Status:     domain.InvoiceIssued,
		IssuedAt:   now,
		DueAt:      now.Add(dueTerm),
	}

	if err := s.invoices.Create(ctx, inv); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrAlreadyInvoiced
		}
		return nil, err
	}

	if s.notifs != nil {
		_ = s.notifs.NotifyInvoiceIssued(ctx, inv.UserID, inv.ID, inv.LocationID, inv.Number)
	}
	return inv, nil
}

func (s *Service) GetInvoice(ctx context.Context, id int64, actorID int64, actorRole string) (*domain.Invoice, error) {
	inv, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	if inv.UserID != actorID && actorRole != string(domain.RoleAdmin) {
		return nil, ErrForbidden
	}
	return inv, nil
}

func (s *Service) ListInvoices(ctx context.Context, userID int64, limit, offset int) ([]domain.Invoice, int64, error) {
	return s.invoices.ListByUser(ctx, userID, limit, offset)
}

// Pay records a payment against an issued invoice. Overpaying is rejected;
// once the paid sum reaches the amount the repository marks the invoice paid.
func (s *Service) Pay(ctx context.Context, invoiceID int64, actorID int64, actorRole string, amount decimal.Decimal, method domain.PaymentMethod, reference string) (*domain.Invoice, error) {
	if amount.IsNegative() || amount.IsZero() || !method.Valid() {
		return nil, ErrInvalidPayment
	}

	inv, err := s.GetInvoice(ctx, invoiceID, actorID, actorRole)
	if err != nil {
		return nil, err
	}
	if inv.Status != domain.InvoiceIssued {
		return nil, ErrNotPayable
	}

	paid := decimal.Zero
	for _, p := range inv.Payments {
		paid = paid.Add(p.Amount)
	}
	if paid.Add(amount).GreaterThan(inv.Amount) {
		return nil, ErrInvalidPayment
	}

	return s.invoices.AddPayment(ctx, &domain.Payment{
		InvoiceID: inv.ID,
		Amount:    amount,
		Method:    method,
		Reference: reference,
		PaidAt:    time.Now(),
	})
}
