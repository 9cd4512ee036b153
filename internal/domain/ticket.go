package domain

import "time"

type TicketStatus string

const (
	TicketOpen   TicketStatus = "open"
	TicketClosed TicketStatus = "closed"
)

// SupportTicket is a customer support request, optionally tied to a location.
type SupportTicket struct {
	ID         int64        `json:"id" gorm:"primaryKey"`
	UserID     int64        `json:"user_id" gorm:"not null;index"`
	LocationID *int64       `json:"location_id,omitempty" gorm:"index"`
	Subject    string       `json:"subject" gorm:"not null"`
	Body       string       `json:"body" gorm:"type:text"`
	Status     TicketStatus `json:"status" gorm:"index;default:open"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
	ClosedAt   *time.Time   `json:"closed_at,omitempty"`
}

func (SupportTicket) TableName() string { return "support_tickets" }
