package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"btploc/internal/domain"
)

type TicketRepository struct {
	db *gorm.DB
}

func NewTicketRepository(db *gorm.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

func (r *TicketRepository) Create(ctx context.Context, t *domain.SupportTicket) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TicketRepository) GetByID(ctx context.Context, id int64) (*domain.SupportTicket, error) {
	var t domain.SupportTicket
	tx := r.db.WithContext(ctx).First(&t, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &t, nil
}

func (r *TicketRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.SupportTicket, int64, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("user_id = ?", userID), limit, offset)
}

func (r *TicketRepository) ListAll(ctx context.Context, limit, offset int) ([]domain.SupportTicket, int64, error) {
	return r.list(ctx, r.db.WithContext(ctx), limit, offset)
}

func (r *TicketRepository) list(ctx context.Context, q *gorm.DB, limit, offset int) ([]domain.SupportTicket, int64, error) {
	var total int64
	if err := q.Model(&domain.SupportTicket{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []domain.SupportTicket
	q = q.Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *TicketRepository) Close(ctx context.Context, id int64) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&domain.SupportTicket{}).Where("id = ?", id).Updates(map[string]any{
		"status":     string(domain.TicketClosed),
		"closed_at":  now,
		"updated_at": now,
	}).Error
}
