package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
)

var (
	ErrPostponementActive  = fmt.Errorf("%w: postponement already active", ErrInvalidState)
	ErrMissingAnchor       = fmt.Errorf("%w: missing anchor", ErrInvalidState)
	ErrNoSchedule          = fmt.Errorf("%w: scooter has no payment schedule", ErrInvalidState)
	ErrConfirmationExpired = fmt.Errorf("%w: confirmation expired", ErrInvalidState)
	ErrNotFriday           = fmt.Errorf("%w: due date must be a Friday", ErrValidation)
	ErrNonPositiveWeeks    = fmt.Errorf("%w: week count must be positive", ErrValidation)
)

func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func ValidationErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func InvalidStatef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidState, fmt.Sprintf(format, args...))
}
