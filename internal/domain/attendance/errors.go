package attendance

import (
	"errors"
	"fmt"
)

// Attendance domain errors
var (
	// ErrInvalidTransition is returned when an operation does not apply to
	// the day's current state. Nothing is written when it is returned.
	ErrInvalidTransition = errors.New("invalid attendance transition")

	ErrAlreadyCheckedIn  = fmt.Errorf("%w: you have already checked in today", ErrInvalidTransition)
	ErrAlreadyCheckedOut = fmt.Errorf("%w: you have already checked out today", ErrInvalidTransition)
	ErrNotCheckedIn      = fmt.Errorf("%w: you have not checked in today", ErrInvalidTransition)

	// ErrStoreUnavailable wraps record store failures. The operation can be retried.
	ErrStoreUnavailable = errors.New("attendance store unavailable")

	// ErrInvalidInput marks a clock anomaly such as a check-out earlier than the check-in.
	ErrInvalidInput = errors.New("invalid attendance input")

	ErrInvalidDateRange = errors.New("invalid date range")
	ErrDateRangeTooLong = errors.New("date range must not exceed 366 days")
)
