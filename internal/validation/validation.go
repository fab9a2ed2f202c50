package validation

import (
	"errors"
	"fmt"
)

// ErrInvalid is wrapped by every FieldError.
var ErrInvalid = errors.New("invalid input")

// FieldError reports a rejected user input scoped to one field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error {
	return ErrInvalid
}

func Field(field, reason string) error {
	return &FieldError{Field: field, Reason: reason}
}
