package domain

import "time"

type NotificationType string

const (
	NotifLocationCreated   NotificationType = "location_created"
	NotifLocationConfirmed NotificationType = "location_confirmed"
	NotifLocationExtended  NotificationType = "location_extended"
	NotifLocationCancelled NotificationType = "location_cancelled"
	NotifInvoiceIssued     NotificationType = "invoice_issued"
	NotifTicketClosed      NotificationType = "ticket_closed"
)

type Notification struct {
	ID        int64            `json:"id" gorm:"primaryKey"`
	UserID    int64            `json:"user_id" gorm:"not null;index"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message,omitempty"`
	IsRead    bool             `json:"is_read"`
	Data      map[string]any   `json:"data,omitempty" gorm:"serializer:json"`
	CreatedAt time.Time        `json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
