package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dayflow-hr/dayflow-backend-go/internal/domain/attendance"
	"github.com/dayflow-hr/dayflow-backend-go/internal/pkg/calendar"
	"github.com/dayflow-hr/dayflow-backend-go/internal/pkg/spreadsheet"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// ApprovedLeaveSource reports which days of a range a user is on approved leave.
type ApprovedLeaveSource interface {
	ApprovedDays(ctx context.Context, userID string, start, end time.Time) (map[time.Time]bool, error)
}

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	leaves   ApprovedLeaveSource
	calendar *calendar.Calendar
	policy   attendance.Policy
	location *time.Location
	now      func() time.Time
	logger   *slog.Logger
}

// Option customizes the service. Used by tests to pin the clock.
type Option func(*AttendanceServiceImpl)

func WithClock(now func() time.Time) Option {
	return func(s *AttendanceServiceImpl) { s.now = now }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *AttendanceServiceImpl) { s.logger = logger }
}

func NewAttendanceService(
	repo attendance.AttendanceRepository,
	leaves ApprovedLeaveSource,
	cal *calendar.Calendar,
	policy attendance.Policy,
	location *time.Location,
	opts ...Option,
) attendance.AttendanceService {
	s := &AttendanceServiceImpl{
		AttendanceRepository: repo,
		leaves:               leaves,
		calendar:             cal,
		policy:               policy,
		location:             location,
		now:                  time.Now,
		logger:               slog.Default(),
	}
	if s.location == nil {
		s.location = time.UTC
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// localNow returns the current instant in the business timezone. The date of
// this instant is the record's day.
func (s *AttendanceServiceImpl) localNow() time.Time {
	return s.now().In(s.location)
}

func storeError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", attendance.ErrStoreUnavailable, op, err)
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, userID string) (attendance.AttendanceResponse, error) {
	now := s.localNow()
	checkIn := attendance.TimeOfDayOf(now)

	record := attendance.Attendance{
		UserID:  userID,
		Date:    attendance.DateOf(now),
		CheckIn: &checkIn,
		Status:  s.policy.StatusAtCheckIn(checkIn),
		Hours:   decimal.Zero,
	}

	result, created, err := s.AttendanceRepository.CreateIfAbsent(ctx, record)
	if err != nil {
		return attendance.AttendanceResponse{}, storeError("check in", err)
	}
	if !created {
		if result.State() == attendance.StateCheckedOut {
			return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
		}
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
	}

	s.logger.InfoContext(ctx, "checked in",
		slog.String("user_id", userID),
		slog.String("date", result.Date.Format("2006-01-02")),
		slog.String("status", string(result.Status)),
	)
	return attendance.NewAttendanceResponse(result), nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, userID string) (attendance.AttendanceResponse, error) {
	now := s.localNow()
	date := attendance.DateOf(now)

	current, err := s.AttendanceRepository.GetByUserAndDate(ctx, userID, date)
	if err != nil {
		return attendance.AttendanceResponse{}, storeError("check out", err)
	}
	switch current.State() {
	case attendance.StateNotStarted:
		return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
	case attendance.StateCheckedOut:
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
	}

	checkOut := attendance.TimeOfDayOf(now)
	closing := *current
	closing.CheckOut = &checkOut

	hours, err := attendance.WorkedHours(*current.CheckIn, checkOut)
	if err != nil {
		// The clock moved backwards. Close the day with zero hours and keep
		// the check-in status.
		s.logger.WarnContext(ctx, "check-out earlier than check-in",
			slog.String("user_id", userID),
			slog.String("check_in", current.CheckIn.String()),
			slog.String("check_out", checkOut.String()),
		)
		closing.Hours = decimal.Zero
		closing.HoursFlagged = true
	} else {
		closing.Hours = hours
		closing.Status = s.policy.StatusAtCheckOut(current.Status, hours)
	}

	result, closed, err := s.AttendanceRepository.CloseDay(ctx, closing)
	if err != nil {
		return attendance.AttendanceResponse{}, storeError("check out", err)
	}
	if !closed {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
	}

	s.logger.InfoContext(ctx, "checked out",
		slog.String("user_id", userID),
		slog.String("date", result.Date.Format("2006-01-02")),
		slog.String("status", string(result.Status)),
		slog.String("hours", result.Hours.StringFixed(2)),
	)
	return attendance.NewAttendanceResponse(result), nil
}

// GetToday implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetToday(ctx context.Context, userID string) (attendance.TodayResponse, error) {
	date := attendance.DateOf(s.localNow())

	current, err := s.AttendanceRepository.GetByUserAndDate(ctx, userID, date)
	if err != nil {
		return attendance.TodayResponse{}, storeError("get today", err)
	}

	resp := attendance.TodayResponse{
		Date:  date.Format("2006-01-02"),
		State: current.State(),
	}
	if current != nil {
		record := attendance.NewAttendanceResponse(*current)
		resp.Record = &record
	}
	return resp, nil
}

// GetHistory implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetHistory(ctx context.Context, userID string, req attendance.HistoryRequest) (attendance.HistoryResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.HistoryResponse{}, err
	}
	limit := req.EffectiveLimit()

	records, err := s.AttendanceRepository.ListByUser(ctx, userID, attendance.HistoryFilter{Limit: limit})
	if err != nil {
		return attendance.HistoryResponse{}, storeError("get history", err)
	}

	return attendance.HistoryResponse{
		Records: toResponses(records),
		Limit:   limit,
	}, nil
}

// GetSummary implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetSummary(ctx context.Context, userID string, req attendance.RangeRequest) (attendance.SummaryResponse, error) {
	summary, _, err := s.summarize(ctx, userID, req)
	if err != nil {
		return attendance.SummaryResponse{}, err
	}
	return attendance.NewSummaryResponse(summary), nil
}

// summarize loads the range's records and approved leave in parallel and
// aggregates them. Days after today are never working days.
func (s *AttendanceServiceImpl) summarize(ctx context.Context, userID string, req attendance.RangeRequest) (attendance.Summary, []attendance.Attendance, error) {
	if err := req.Validate(); err != nil {
		return attendance.Summary{}, nil, err
	}
	start, end, err := req.Parse()
	if err != nil {
		return attendance.Summary{}, nil, err
	}

	today := attendance.DateOf(s.localNow())
	countUntil := end
	if countUntil.After(today) {
		countUntil = today
	}

	workingDays := []time.Time{}
	if !start.After(countUntil) {
		workingDays, err = s.calendar.WorkingDays(start, countUntil)
		if err != nil {
			return attendance.Summary{}, nil, fmt.Errorf("failed to compute working days: %w", err)
		}
	}

	var (
		records   []attendance.Attendance
		leaveDays map[time.Time]bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.AttendanceRepository.ListByUser(gctx, userID, attendance.HistoryFilter{From: start, To: end})
		if err != nil {
			return storeError("list range", err)
		}
		return nil
	})
	g.Go(func() error {
		if s.leaves == nil {
			return nil
		}
		var err error
		leaveDays, err = s.leaves.ApprovedDays(gctx, userID, start, end)
		if err != nil {
			return storeError("load approved leave", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return attendance.Summary{}, nil, err
	}

	summary := attendance.Summarize(records, workingDays, leaveDays)
	summary.StartDate = start
	summary.EndDate = end
	return summary, records, nil
}

// ExportHistory implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ExportHistory(ctx context.Context, userID string, req attendance.RangeRequest) ([]byte, error) {
	summary, records, err := s.summarize(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	rows := make([][]interface{}, 0, len(records))
	for _, r := range records {
		var note string
		if s.calendar.IsHoliday(r.Date) {
			note = "holiday"
		}
		rows = append(rows, []interface{}{
			r.Date.Format("2006-01-02"),
			stringOrEmpty(r.CheckIn),
			stringOrEmpty(r.CheckOut),
			string(r.Status),
			r.Hours.InexactFloat64(),
			note,
		})
	}

	file, err := spreadsheet.Workbook(
		spreadsheet.Sheet{
			Name:   "Attendance",
			Header: []string{"Date", "Check In", "Check Out", "Status", "Hours", "Note"},
			Rows:   rows,
		},
		spreadsheet.Sheet{
			Name:   "Summary",
			Header: []string{"Metric", "Value"},
			Rows: [][]interface{}{
				{"Start Date", summary.StartDate.Format("2006-01-02")},
				{"End Date", summary.EndDate.Format("2006-01-02")},
				{"Working Days", summary.WorkingDays},
				{"Present Days", summary.PresentDays},
				{"Late Days", summary.LateDays},
				{"Half Days", summary.HalfDays},
				{"Absent Days", summary.AbsentDays},
				{"Leave Days", summary.LeaveDays},
				{"Total Hours", summary.TotalHours.InexactFloat64()},
			},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render attendance export: %w", err)
	}
	return file, nil
}

// ListByDate implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListByDate(ctx context.Context, req attendance.ListByDateRequest) ([]attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	date := attendance.DateOf(s.localNow())
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return nil, errors.Join(attendance.ErrInvalidDateRange, err)
		}
		date = parsed
	}

	records, err := s.AttendanceRepository.ListByDate(ctx, date)
	if err != nil {
		return nil, storeError("list by date", err)
	}
	return toResponses(records), nil
}

func toResponses(records []attendance.Attendance) []attendance.AttendanceResponse {
	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, attendance.NewAttendanceResponse(r))
	}
	return responses
}

func stringOrEmpty(t *attendance.TimeOfDay) string {
	if t == nil {
		return ""
	}
	return t.String()
}
