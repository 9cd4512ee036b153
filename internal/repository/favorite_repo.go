package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"btploc/internal/domain"
)

var (
	ErrFavoriteExists   = errors.New("materiel already in favorites")
	ErrFavoriteNotFound = errors.New("favorite not found")
)

type FavoriteRepository interface {
	Add(ctx context.Context, userID, materielID int64) (*domain.Favorite, error)
	Remove(ctx context.Context, userID, materielID int64) error
	GetByUserID(ctx context.Context, userID int64, limit, offset int) ([]domain.Favorite, int64, error)
	Exists(ctx context.Context, userID, materielID int64) (bool, error)
}

type favoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) Add(ctx context.Context, userID, materielID int64) (*domain.Favorite, error) {
	exists, err := r.Exists(ctx, userID, materielID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrFavoriteExists
	}

	favorite := &domain.Favorite{
		UserID:     userID,
		MaterielID: materielID,
	}

	if err := r.db.WithContext(ctx).Create(favorite).Error; err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Preload("Materiel").First(favorite, favorite.ID).Error; err != nil {
		return nil, err
	}

	return favorite, nil
}

func (r *favoriteRepository) Remove(ctx context.Context, userID, materielID int64) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND materiel_id = ?", userID, materielID).
		Delete(&domain.Favorite{})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrFavoriteNotFound
	}

	return nil
}

func (r *favoriteRepository) GetByUserID(ctx context.Context, userID int64, limit, offset int) ([]domain.Favorite, int64, error) {
	var favorites []domain.Favorite
	var total int64

	if err := r.db.WithContext(ctx).Model(&domain.Favorite{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Materiel").
		Order("created_at DESC")

	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	if err := query.Find(&favorites).Error; err != nil {
		return nil, 0, err
	}

	return favorites, total, nil
}

func (r *favoriteRepository) Exists(ctx context.Context, userID, materielID int64) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.Favorite{}).
		Where("user_id = ? AND materiel_id = ?", userID, materielID).
		Count(&cnt).Error
	return cnt > 0, err
}
