package entity

import (
	"errors"
	"fmt"
	"time"
)

// ErrRatesPending is returned when no fresh rate snapshot is available yet
var ErrRatesPending = errors.New("exchange rates pending")

// ValidationError indicates malformed or out-of-domain input
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}

// NotFoundError indicates a referenced resource does not exist
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// StaleDataError indicates a rate snapshot outlived its freshness window
type StaleDataError struct {
	FetchedAt time.Time
	Age       time.Duration
}

func (e *StaleDataError) Error() string {
	return fmt.Sprintf("rate snapshot from %s is stale (age %s)", e.FetchedAt.Format(time.RFC3339), e.Age.Round(time.Second))
}

// IsValidation reports whether err carries a ValidationError
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsNotFound reports whether err carries a NotFoundError
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}
