package attendance

import (
	"time"

	"github.com/dayflow-hr/dayflow-backend-go/internal/pkg/validator"
)

const (
	DefaultHistoryLimit = 30
	MaxHistoryLimit     = 100
	MaxRangeDays        = 366
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type AttendanceResponse struct {
	ID           string  `json:"id"`
	UserID       string  `json:"user_id"`
	Date         string  `json:"date"`
	CheckIn      *string `json:"check_in"`
	CheckOut     *string `json:"check_out"`
	Status       string  `json:"status"`
	Hours        float64 `json:"hours"`
	HoursFlagged bool    `json:"hours_flagged,omitempty"`
}

func NewAttendanceResponse(a Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:           a.ID,
		UserID:       a.UserID,
		Date:         a.Date.Format("2006-01-02"),
		CheckIn:      timeOfDayPtrToString(a.CheckIn),
		CheckOut:     timeOfDayPtrToString(a.CheckOut),
		Status:       string(a.Status),
		Hours:        a.Hours.InexactFloat64(),
		HoursFlagged: a.HoursFlagged,
	}
}

func timeOfDayPtrToString(t *TimeOfDay) *string {
	if t == nil {
		return nil
	}
	s := t.String()
	return &s
}

type TodayResponse struct {
	Date   string              `json:"date"`
	State  State               `json:"state"`
	Record *AttendanceResponse `json:"record"`
}

type HistoryResponse struct {
	Records []AttendanceResponse `json:"records"`
	Limit   int                  `json:"limit"`
}

// HistoryRequest bounds a most-recent-first history read.
type HistoryRequest struct {
	Limit int `json:"limit" validate:"min=0,max=100"`
}

// EffectiveLimit applies the default when no limit was given.
func (r HistoryRequest) EffectiveLimit() int {
	if r.Limit <= 0 {
		return DefaultHistoryLimit
	}
	return r.Limit
}

func (r *HistoryRequest) Validate() error {
	return validator.Struct(r)
}

// RangeRequest is an inclusive date range in YYYY-MM-DD form.
type RangeRequest struct {
	StartDate string `json:"start_date" validate:"required,date"`
	EndDate   string `json:"end_date" validate:"required,date"`
}

func (r *RangeRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}

	start, end, _ := r.Parse()
	if end.Before(start) {
		return validator.ValidationErrors{{
			Field:   "end_date",
			Message: "end_date must be on or after start_date",
		}}
	}
	if int(end.Sub(start).Hours()/24) >= MaxRangeDays {
		return validator.ValidationErrors{{
			Field:   "end_date",
			Message: ErrDateRangeTooLong.Error(),
		}}
	}
	return nil
}

// Parse returns the range bounds as dates.
func (r RangeRequest) Parse() (time.Time, time.Time, error) {
	start, ok := validator.IsValidDate(r.StartDate)
	if !ok {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	end, ok := validator.IsValidDate(r.EndDate)
	if !ok {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	return start, end, nil
}

type ListByDateRequest struct {
	Date string `json:"date" validate:"omitempty,date"`
}

func (r *ListByDateRequest) Validate() error {
	return validator.Struct(r)
}

type SummaryResponse struct {
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	WorkingDays int      `json:"working_days"`
	PresentDays int      `json:"present_days"`
	LateDays    int      `json:"late_days"`
	HalfDays    int      `json:"half_days"`
	AbsentDays  int      `json:"absent_days"`
	LeaveDays   int      `json:"leave_days"`
	TotalHours  float64  `json:"total_hours"`
	AbsentDates []string `json:"absent_dates"`
}

func NewSummaryResponse(s Summary) SummaryResponse {
	dates := make([]string, 0, len(s.AbsentDates))
	for _, d := range s.AbsentDates {
		dates = append(dates, d.Format("2006-01-02"))
	}
	return SummaryResponse{
		StartDate:   s.StartDate.Format("2006-01-02"),
		EndDate:     s.EndDate.Format("2006-01-02"),
		WorkingDays: s.WorkingDays,
		PresentDays: s.PresentDays,
		LateDays:    s.LateDays,
		HalfDays:    s.HalfDays,
		AbsentDays:  s.AbsentDays,
		LeaveDays:   s.LeaveDays,
		TotalHours:  s.TotalHours.InexactFloat64(),
		AbsentDates: dates,
	}
}

