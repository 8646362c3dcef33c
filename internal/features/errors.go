package features

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingField indicates a required declaration field is absent.
	ErrMissingField = errors.New("missing field")
	// ErrInvalidField indicates a declaration field holds a non-string value.
	ErrInvalidField = errors.New("invalid field")
	// ErrInvalidBody indicates the request body is not a JSON object.
	ErrInvalidBody = errors.New("invalid request body")
)

// MissingFieldError reports which field was absent from an Input.
type MissingFieldError struct {
	Field Field
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingField, e.Field)
}

func (e *MissingFieldError) Unwrap() error {
	return ErrMissingField
}
