package attendance

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the classification of an attendance day.
type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent" // derived at query time, never stored
	StatusLate    Status = "late"
	StatusHalfDay Status = "half-day"
)

// State is the lifecycle position of a user's day.
type State string

const (
	StateNotStarted State = "not_started"
	StateCheckedIn  State = "checked_in"
	StateCheckedOut State = "checked_out"
)

// TimeOfDay is a wall-clock time measured from local midnight.
type TimeOfDay time.Duration

const timeOfDayLayout = "15:04"

// ParseTimeOfDay parses "HH:MM" or "HH:MM:SS".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	for _, layout := range []string{"15:04:05", timeOfDayLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeOfDay(time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second), nil
		}
	}
	return 0, fmt.Errorf("invalid time of day %q", s)
}

// TimeOfDayOf returns the wall-clock time of t in its own location,
// truncated to the second.
func TimeOfDayOf(t time.Time) TimeOfDay {
	h, m, s := t.Clock()
	return TimeOfDay(time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second)
}

func (t TimeOfDay) Duration() time.Duration {
	return time.Duration(t)
}

func (t TimeOfDay) String() string {
	d := time.Duration(t)
	return fmt.Sprintf("%02d:%02d", int(d.Hours()), int(d.Minutes())%60)
}

// DateOf returns the calendar date of t as midnight UTC, so that dates
// compare and store without a zone.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Attendance is the record of one user's day, keyed by (UserID, Date).
type Attendance struct {
	ID           string
	UserID       string
	Date         time.Time
	CheckIn      *TimeOfDay
	CheckOut     *TimeOfDay
	Status       Status
	Hours        decimal.Decimal
	HoursFlagged bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// State reports where the record sits in the check-in/check-out lifecycle.
func (a *Attendance) State() State {
	switch {
	case a == nil || a.CheckIn == nil:
		return StateNotStarted
	case a.CheckOut == nil:
		return StateCheckedIn
	default:
		return StateCheckedOut
	}
}

// Summary aggregates a user's records over a date range.
type Summary struct {
	StartDate   time.Time
	EndDate     time.Time
	WorkingDays int
	PresentDays int
	LateDays    int
	HalfDays    int
	AbsentDays  int
	LeaveDays   int
	TotalHours  decimal.Decimal
	AbsentDates []time.Time
}
