package bookings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// ValidationError blocks a workflow transition until the named field is
// corrected. It never reaches the persistence layer.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// PersistenceError wraps a failed insert or update. Permission denials get a
// generic user-facing message; everything else surfaces the underlying cause.
// Both are retryable and leave the session intact.
type PersistenceError struct {
	PermissionDenied bool
	Err              error
}

func (e *PersistenceError) Error() string {
	if e.PermissionDenied {
		return "unable to create booking"
	}
	return e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// UserMessage is what the booking dialog shows for this failure.
func (e *PersistenceError) UserMessage() string {
	if e.PermissionDenied {
		return "Unable to create booking. Please try again or contact support."
	}
	return e.Err.Error()
}

// NewPersistenceError classifies a storage failure. Postgres signals
// permission problems with the 42501 (insufficient_privilege) code; some
// drivers only expose the message text.
func NewPersistenceError(err error) *PersistenceError {
	return &PersistenceError{PermissionDenied: isPermissionDenied(err), Err: err}
}

func isPermissionDenied(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "42501"
	}
	return strings.Contains(strings.ToLower(err.Error()), "permission denied")
}

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrSessionNotFound = errors.New("booking session not found")
	// ErrSubmissionInFlight guards against double submission of one session.
	ErrSubmissionInFlight = errors.New("booking submission already in progress")
	ErrInvalidTransition  = errors.New("invalid booking status transition")
	ErrTourNotBookable    = errors.New("tour is not open for booking")
)
