package application

import "errors"

// Validation failures: caller input errors, safe to retry after correcting
// the input.
var (
	// ErrInvalidDuration is returned when the requested duration is not a
	// member of the deployment's allowed-durations set.
	ErrInvalidDuration = errors.New("application: invalid booking duration")
	// ErrInvalidTitle is returned when the trimmed title is empty or exceeds
	// the maximum length.
	ErrInvalidTitle = errors.New("application: invalid booking title")
	// ErrInvalidIncrement is returned when the requested extension increment
	// is not a member of the deployment's allowed-increments set.
	ErrInvalidIncrement = errors.New("application: invalid extension increment")
	// ErrPastStartTime is returned when a supplied start instant lies before
	// the reference instant beyond the clock-skew tolerance.
	ErrPastStartTime = errors.New("application: start time is in the past")
)

// State failures: the caller's view of the booking is stale and should be
// refreshed before retrying.
var (
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrNotActive is returned when an operation requires an active booking.
	ErrNotActive = errors.New("application: booking is not active")
	// ErrAlreadyEnded is returned when the booking's interval has already
	// elapsed. The booking is transitioned to ended as a side effect where
	// the sweeper has not caught it yet.
	ErrAlreadyEnded = errors.New("application: booking has already ended")
)

// Conflict failures: contention for the room. Retrying with identical
// parameters fails deterministically until the conflicting booking ends.
var (
	// ErrRoomUnavailable is returned when the candidate interval overlaps an
	// existing active booking for the room.
	ErrRoomUnavailable = errors.New("application: room is unavailable for this time")
)

// Auth failures for the administrator surface.
var (
	// ErrUnauthorized is returned when the caller lacks a valid session.
	ErrUnauthorized = errors.New("application: unauthorized")
	// ErrInvalidCredentials is returned when a password check fails.
	ErrInvalidCredentials = errors.New("application: invalid credentials")
	// ErrSessionExpired is returned when a session token has expired.
	ErrSessionExpired = errors.New("application: session expired")
	// ErrSessionRevoked is returned when a session token was revoked.
	ErrSessionRevoked = errors.New("application: session revoked")
	// ErrAlreadySetUp is returned when setup runs against an existing
	// administrator credential.
	ErrAlreadySetUp = errors.New("application: administrator already set up")
)

// ValidationError captures field level validation issues that callers can
// surface to users. It is used by the room and settings services; the booking
// core reports its validation failures through the dedicated sentinels above.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

// IsValidationFailure reports whether the error belongs to the caller-input
// taxonomy.
func IsValidationFailure(err error) bool {
	if errors.Is(err, ErrInvalidDuration) ||
		errors.Is(err, ErrInvalidTitle) ||
		errors.Is(err, ErrInvalidIncrement) ||
		errors.Is(err, ErrPastStartTime) {
		return true
	}
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

// IsStateFailure reports whether the error indicates a stale view of the
// booking.
func IsStateFailure(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrNotActive) ||
		errors.Is(err, ErrAlreadyEnded)
}
