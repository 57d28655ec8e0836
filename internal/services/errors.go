package services

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers both missing rows and rows owned by someone else.
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUpload             = errors.New("upload to storage service failed")
	ErrExtractionDisabled = errors.New("job extraction is not configured")
)

// ValidationError is a client mistake whose message is safe to return as is.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}
