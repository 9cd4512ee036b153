package validator

import (
	"github.com/go-playground/validator/v10"
)

// FieldError is one failed constraint on a bound request struct.
type FieldError struct {
	Field string
	Tag   string
}

var validate = validator.New()

// Validate checks the struct's `validate` tags and returns one FieldError
// per violation in declaration order, or nil when everything passes.
func Validate(s any) []FieldError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fields []FieldError
	for _, fe := range err.(validator.ValidationErrors) {
		fields = append(fields, FieldError{Field: fe.Field(), Tag: fe.Tag()})
	}
	return fields
}
