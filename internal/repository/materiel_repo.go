package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"btploc/internal/domain"
)

type MaterielRepository struct {
	db *gorm.DB
}

func NewMaterielRepository(db *gorm.DB) *MaterielRepository {
	return &MaterielRepository{db: db}
}

func (r *MaterielRepository) Create(ctx context.Context, m *domain.Materiel) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *MaterielRepository) GetByID(ctx context.Context, id int64) (*domain.Materiel, error) {
	var m domain.Materiel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &m, nil
}

// MaterielFilter narrows List; zero values mean "no filter".
type MaterielFilter struct {
	Category domain.MaterielCategory
	Status   domain.MaterielStatus
}

func (r *MaterielRepository) List(ctx context.Context, f MaterielFilter, limit, offset int) ([]domain.Materiel, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Materiel{})
	if f.Category != "" {
		q = q.Where("category = ?", string(f.Category))
	}
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []domain.Materiel
	q = q.Order("name")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *MaterielRepository) Update(ctx context.Context, id int64, fields map[string]any) error {
	fields["updated_at"] = time.Now()
	return r.db.WithContext(ctx).Model(&domain.Materiel{}).Where("id = ?", id).Updates(fields).Error
}

func (r *MaterielRepository) UpdateStatus(ctx context.Context, id int64, status domain.MaterielStatus) error {
	return r.Update(ctx, id, map[string]any{"status": string(status)})
}

func (r *MaterielRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&domain.Materiel{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
