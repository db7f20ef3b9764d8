package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

const dateLayout = "2006-01-02"

// Calendar yields the candidate working days of a date range: the days
// matched by a weekly recurrence rule, minus holidays. All dates are
// midnight UTC.
type Calendar struct {
	weekdays []rrule.Weekday
	holidays map[string]bool
}

var weekdayCodes = map[string]rrule.Weekday{
	"MO": rrule.MO,
	"TU": rrule.TU,
	"WE": rrule.WE,
	"TH": rrule.TH,
	"FR": rrule.FR,
	"SA": rrule.SA,
	"SU": rrule.SU,
}

// New builds a calendar from two-letter weekday codes ("MO", "TU", ...)
// and holiday dates in YYYY-MM-DD form.
func New(workdays []string, holidays []string) (*Calendar, error) {
	c := &Calendar{holidays: make(map[string]bool, len(holidays))}

	for _, code := range workdays {
		wd, ok := weekdayCodes[strings.ToUpper(strings.TrimSpace(code))]
		if !ok {
			return nil, fmt.Errorf("invalid workday %q", code)
		}
		c.weekdays = append(c.weekdays, wd)
	}
	if len(c.weekdays) == 0 {
		return nil, fmt.Errorf("at least one workday is required")
	}

	for _, h := range holidays {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, h); err != nil {
			return nil, fmt.Errorf("invalid holiday %q: %w", h, err)
		}
		c.holidays[h] = true
	}

	return c, nil
}

// WorkingDays returns the working days in [start, end], oldest first.
func (c *Calendar) WorkingDays(start, end time.Time) ([]time.Time, error) {
	start = truncate(start)
	end = truncate(end)
	if end.Before(start) {
		return []time.Time{}, nil
	}

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.DAILY,
		Dtstart:   start,
		Until:     end,
		Byweekday: c.weekdays,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build workday rule: %w", err)
	}

	set := rrule.Set{}
	set.RRule(rule)

	days := []time.Time{}
	for _, day := range set.Between(start, end, true) {
		if c.holidays[day.Format(dateLayout)] {
			continue
		}
		days = append(days, truncate(day))
	}
	return days, nil
}

// IsHoliday reports whether day is a configured holiday.
func (c *Calendar) IsHoliday(day time.Time) bool {
	return c.holidays[day.Format(dateLayout)]
}

func truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
