package attendance

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

var hourUnit = decimal.NewFromInt(int64(time.Hour))

// Policy holds the classification rules applied at check-in and check-out.
type Policy struct {
	// LateCutoff marks a check-in strictly after it as late. Nil disables late.
	LateCutoff *TimeOfDay
	// HalfDayThreshold marks a day with fewer worked hours as half-day. Zero disables it.
	HalfDayThreshold decimal.Decimal
}

// StatusAtCheckIn classifies a fresh check-in.
func (p Policy) StatusAtCheckIn(checkIn TimeOfDay) Status {
	if p.LateCutoff != nil && checkIn > *p.LateCutoff {
		return StatusLate
	}
	return StatusPresent
}

// StatusAtCheckOut returns the status a day closes with. Only half-day may
// replace the check-in status.
func (p Policy) StatusAtCheckOut(current Status, hours decimal.Decimal) Status {
	if p.HalfDayThreshold.IsPositive() && hours.LessThan(p.HalfDayThreshold) {
		return StatusHalfDay
	}
	return current
}

// WorkedHours returns the hours between check-in and check-out rounded to two
// places. A check-out before the check-in yields zero and ErrInvalidInput.
func WorkedHours(checkIn, checkOut TimeOfDay) (decimal.Decimal, error) {
	if checkOut < checkIn {
		return decimal.Zero, ErrInvalidInput
	}
	return decimal.NewFromInt(int64(checkOut - checkIn)).Div(hourUnit).Round(2), nil
}

// Summarize aggregates records against the candidate working days of a range.
// A working day with no record counts as leave when leaveDays covers it and as
// absent otherwise.
func Summarize(records []Attendance, workingDays []time.Time, leaveDays map[time.Time]bool) Summary {
	s := Summary{
		WorkingDays: len(workingDays),
		TotalHours:  decimal.Zero,
		AbsentDates: []time.Time{},
	}

	recorded := make(map[time.Time]bool, len(records))
	for _, r := range records {
		recorded[DateOf(r.Date)] = true
		switch r.Status {
		case StatusPresent:
			s.PresentDays++
		case StatusLate:
			s.PresentDays++
			s.LateDays++
		case StatusHalfDay:
			s.HalfDays++
		}
		s.TotalHours = s.TotalHours.Add(r.Hours)
	}

	for _, day := range workingDays {
		day = DateOf(day)
		if recorded[day] {
			continue
		}
		if leaveDays[day] {
			s.LeaveDays++
			continue
		}
		s.AbsentDays++
		s.AbsentDates = append(s.AbsentDates, day)
	}
	sort.Slice(s.AbsentDates, func(i, j int) bool {
		return s.AbsentDates[i].After(s.AbsentDates[j])
	})

	return s
}
