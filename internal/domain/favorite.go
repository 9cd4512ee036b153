package domain

import "time"

// Favorite links a user to a bookmarked materiel.
type Favorite struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	UserID     int64     `json:"user_id" gorm:"not null;index;uniqueIndex:idx_user_materiel"`
	MaterielID int64     `json:"materiel_id" gorm:"not null;index;uniqueIndex:idx_user_materiel"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`

	Materiel *Materiel `json:"materiel,omitempty" gorm:"foreignKey:MaterielID"`
}

func (Favorite) TableName() string { return "favorites" }
