package support

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"btploc/internal/domain"
)

var (
	ErrTicketNotFound   = errors.New("ticket not found")
	ErrLocationNotFound = errors.New("location not found")
	ErrForbidden        = errors.New("forbidden")
	ErrAlreadyClosed    = errors.New("ticket already closed")
)

type TicketRepository interface {
	Create(ctx context.Context, t *domain.SupportTicket) error
	GetByID(ctx context.Context, id int64) (*domain.SupportTicket, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.SupportTicket, int64, error)
	ListAll(ctx context.Context, limit, offset int) ([]domain.SupportTicket, int64, error)
	Close(ctx context.Context, id int64) error
}

// LocationReader validates the optional location reference on a ticket.
type LocationReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Location, error)
}

// TicketNotifier is optional; a nil notifier disables notifications.
type TicketNotifier interface {
	NotifyTicketClosed(ctx context.Context, userID, ticketID int64) error
}

type Service struct {
	tickets   TicketRepository
	locations LocationReader
	notifs    TicketNotifier
}

func NewService(tickets TicketRepository, locations LocationReader, notifs TicketNotifier) *Service {
	return &Service{tickets: tickets, locations: locations, notifs: notifs}
}

func (s *Service) CreateTicket(ctx context.Context, userID int64, req CreateTicketRequest) (*domain.SupportTicket, error) {
	if req.LocationID != nil {
		l, err := s.locations.GetByID(ctx, *req.LocationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrLocationNotFound
			}
			return nil, err
		}
		// A client may only reference their own location.
		if l.UserID != userID {
			return nil, ErrForbidden
		}
	}

	t := &domain.SupportTicket{
		UserID:     userID,
		LocationID: req.LocationID,
		Subject:    req.Subject,
		Body:       req.Body,
		Status:     domain.TicketOpen,
	}

	if err := s.tickets.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) GetTicket(ctx context.Context, id int64, actorID int64, actorRole string) (*domain.SupportTicket, error) {
	t, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	if t.UserID != actorID && actorRole != string(domain.RoleAdmin) {
		return nil, ErrForbidden
	}
	return t, nil
}

func (s *Service) ListTickets(ctx context.Context, actorID int64, actorRole string, all bool, limit, offset int) ([]domain.SupportTicket, int64, error) {
	if all && actorRole == string(domain.RoleAdmin) {
		return s.tickets.ListAll(ctx, limit, offset)
	}
	return s.tickets.ListByUser(ctx, actorID, limit, offset)
}

// CloseTicket is admin-only; the route enforces the role.
func (s *Service) CloseTicket(ctx context.Context, id int64) (*domain.SupportTicket, error) {
	t, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	if t.Status == domain.TicketClosed {
		return nil, ErrAlreadyClosed
	}

	if err := s.tickets.Close(ctx, t.ID); err != nil {
		return nil, err
	}

	if s.notifs != nil {
		_ = s.notifs.NotifyTicketClosed(ctx, t.UserID, t.ID)
	}
	return s.tickets.GetByID(ctx, t.ID)
}
