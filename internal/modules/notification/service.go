package notification

import (
	"context"
	"fmt"
	"time"

	"btploc/internal/domain"
	"btploc/internal/repository"
)

type Service struct {
	repo *repository.NotificationRepository
}

func NewService(repo *repository.NotificationRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, userID int64, t domain.NotificationType, title, message string, data map[string]any) error {
	n := &domain.Notification{
		UserID:  userID,
		Type:    t,
		Title:   title,
		Message: message,
		Data:    data,
	}
	return s.repo.Create(ctx, n)
}

func (s *Service) GetUserNotifications(ctx context.Context, userID int64, limit int) ([]domain.Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	list, err := s.repo.GetByUserID(ctx, userID, limit)
	if err != nil {
		return nil, 0, err
	}

	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		unread = 0
	}

	return list, unread, nil
}

func (s *Service) MarkAsRead(ctx context.Context, notificationID, userID int64) error {
	return s.repo.MarkAsRead(ctx, notificationID, userID)
}

func (s *Service) MarkAllAsRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *Service) NotifyLocationCreated(ctx context.Context, userID, locationID, materielID int64, start, end time.Time) error {
	return s.Create(
		ctx,
		userID,
		domain.NotifLocationCreated,
		"Rental confirmed",
		fmt.Sprintf("Your rental runs from %s to %s", start.Format("02/01/2006"), end.Format("02/01/2006")),
		map[string]any{
			"location_id": locationID,
			"materiel_id": materielID,
		},
	)
}

func (s *Service) NotifyLocationConfirmed(ctx context.Context, userID, locationID int64) error {
	return s.Create(
		ctx,
		userID,
		domain.NotifLocationConfirmed,
		"Rental request confirmed",
		"Your rental request has been reviewed and confirmed",
		map[string]any{
			"location_id": locationID,
		},
	)
}

func (s *Service) NotifyLocationExtended(ctx context.Context, userID, locationID int64, newEnd time.Time) error {
	return s.Create(
		ctx,
		userID,
		domain.NotifLocationExtended,
		"Rental extended",
		fmt.Sprintf("Your rental now ends on %s", newEnd.Format("02/01/2006")),
		map[string]any{
			"location_id": locationID,
		},
	)
}

func (s *Service) NotifyLocationCancelled(ctx context.Context, userID, locationID int64, reason string) error {
	msg := "Your rental has been cancelled"
	if reason != "" {
		msg = msg + ". Reason: " + reason
	}
	return s.Create(
		ctx,
		userID,
		domain.NotifLocationCancelled,
		"Rental cancelled",
		msg,
		map[string]any{
			"location_id": locationID,
		},
	)
}

func (s *Service) NotifyInvoiceIssued(ctx context.Context, userID, invoiceID, locationID int64, number string) error {
	return s.Create(
		ctx,
		userID,
		domain.NotifInvoiceIssued,
		"Invoice issued",
		fmt.Sprintf("Invoice %s has been issued for your rental", number),
		map[string]any{
			"invoice_id":  invoiceID,
			"location_id": locationID,
		},
	)
}

func (s *Service) NotifyTicketClosed(ctx context.Context, userID, ticketID int64) error {
	return s.Create(
		ctx,
		userID,
		domain.NotifTicketClosed,
		"Support ticket closed",
		"Your support ticket has been resolved and closed",
		map[string]any{
			"ticket_id": ticketID,
		},
	)
}
