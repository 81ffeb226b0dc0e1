package scheduling

import (
	"fmt"
	"time"
)

// ValidationError rejects malformed input before any appointment read:
// inverted intervals, unknown ids, providers not carrying the service.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ConflictError signals that a reservation overlaps an existing padded
// interval for the same provider. It is an expected outcome, not a fault.
type ConflictError struct {
	ProviderID string
	Start      time.Time
	End        time.Time
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("provider %s already booked between %s and %s",
		e.ProviderID, e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339))
}

// NoEligibleProviderError means no provider qualifies for the request at all,
// distinct from every qualified provider being busy.
type NoEligibleProviderError struct {
	ServiceID  string
	LocationID string
}

func (e *NoEligibleProviderError) Error() string {
	return fmt.Sprintf("no provider offers service %s at location %s", e.ServiceID, e.LocationID)
}

// NoAvailableSlotError means providers qualify but none can take the
// requested interval.
type NoAvailableSlotError struct {
	ServiceID string
	Start     time.Time
}

func (e *NoAvailableSlotError) Error() string {
	return fmt.Sprintf("no provider available for service %s at %s", e.ServiceID, e.Start.Format(time.RFC3339))
}

// StorageError wraps an infrastructure failure from a backing store. It is
// fatal to the current request only; no partial writes occur.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
