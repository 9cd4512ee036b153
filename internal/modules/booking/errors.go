package booking

import "errors"

var (
	ErrValidation          = errors.New("validation error")
	ErrMaterielNotFound    = errors.New("materiel not found")
	ErrLocationNotFound    = errors.New("location not found")
	ErrMaterielUnavailable = errors.New("materiel is not available")
	ErrConflict            = errors.New("dates conflict with an existing location")
	ErrForbidden           = errors.New("forbidden")
	ErrNotExtendable       = errors.New("location cannot be extended")
	ErrAlreadyCancelled    = errors.New("location already cancelled")
	ErrNotCancellable      = errors.New("cannot cancel a completed location")
	ErrInvalidTransition   = errors.New("invalid status transition")
)
