// Package apperror defines the planner's error taxonomy.
//
// Every domain error is an *AppError wrapping one of the sentinels below, so
// callers can branch with errors.Is(err, apperror.ErrNotFound) no matter how
// many layers of fmt.Errorf("...: %w") sit on top of it.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrCorruptState = errors.New("corrupt state")
	ErrUnauthorized = errors.New("unauthorized")
)

type AppError struct {
	Err     error  // sentinel
	Message string // human-readable message
	Field   string // optional: input field that failed validation
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// CorruptState reports a persisted snapshot that could not be decoded.
// The stores resolve it by falling back to the seed dataset.
func CorruptState(key string, cause error) *AppError {
	return &AppError{
		Err:     ErrCorruptState,
		Message: fmt.Sprintf("snapshot %s is corrupt: %v", key, cause),
	}
}

// Unauthorized is returned when the device passcode is wrong or missing.
// HTTP handlers map this to 401.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}
