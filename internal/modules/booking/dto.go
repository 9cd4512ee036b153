package booking

import "time"

type CreateLocationRequest struct {
	MaterielID int64     `json:"materiel_id" binding:"required"`
	StartDate  time.Time `json:"start_date" binding:"required"`
	EndDate    time.Time `json:"end_date" binding:"required"`
	Notes      string    `json:"notes"`

	// Set from the authenticated context, never from the body.
	UserID int64 `json:"-"`
}

type ExtendLocationRequest struct {
	NewEndDate time.Time `json:"new_end_date" binding:"required"`
}

type CancelLocationRequest struct {
	Reason string `json:"reason"`
}

type UpdateLocationRequest struct {
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}
