package attendance

import (
	"context"
	"time"
)

// HistoryFilter selects a user's records, most recent first.
// Zero From/To leave that side of the range open.
type HistoryFilter struct {
	From  time.Time
	To    time.Time
	Limit int
}

// AttendanceRepository is the record store. Writes are conditional on the
// (user_id, date) key so that concurrent callers cannot duplicate or
// overwrite a day.
type AttendanceRepository interface {
	// CreateIfAbsent inserts the record unless one already exists for its
	// (UserID, Date). created is false when another record won.
	CreateIfAbsent(ctx context.Context, attendance Attendance) (result Attendance, created bool, err error)

	// GetByUserAndDate returns nil, nil when the user has no record that day.
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*Attendance, error)

	// CloseDay sets the check-out fields only while check_out is still null.
	// closed is false when the record was already closed or does not exist.
	CloseDay(ctx context.Context, attendance Attendance) (result Attendance, closed bool, err error)

	// ListByUser returns records ordered by date descending.
	ListByUser(ctx context.Context, userID string, filter HistoryFilter) ([]Attendance, error)

	// ListByDate returns every user's record for one date.
	ListByDate(ctx context.Context, date time.Time) ([]Attendance, error)

	// ListOpenBefore returns records still checked in whose date is before the given date.
	ListOpenBefore(ctx context.Context, date time.Time) ([]Attendance, error)
}
