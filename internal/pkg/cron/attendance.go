package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dayflow-hr/dayflow-backend-go/internal/domain/attendance"
)

// AttendanceJobs reports days left open past their date. It never closes
// them: a day only closes through the user's own check-out.
type AttendanceJobs struct {
	attendanceRepo attendance.AttendanceRepository
	location       *time.Location
	now            func() time.Time
	logger         *slog.Logger
}

func NewAttendanceJobs(attendanceRepo attendance.AttendanceRepository, location *time.Location, now func() time.Time, logger *slog.Logger) *AttendanceJobs {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AttendanceJobs{
		attendanceRepo: attendanceRepo,
		location:       location,
		now:            now,
		logger:         logger,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("report_open_attendances", interval, j.ReportOpenAttendances)
}

// ReportOpenAttendances logs every record still checked in from an earlier day.
func (j *AttendanceJobs) ReportOpenAttendances(ctx context.Context) error {
	today := attendance.DateOf(j.now().In(j.location))

	open, err := j.attendanceRepo.ListOpenBefore(ctx, today)
	if err != nil {
		return fmt.Errorf("failed to list open attendances: %w", err)
	}

	for _, a := range open {
		j.logger.Warn("Cron: attendance left open",
			"attendance_id", a.ID,
			"user_id", a.UserID,
			"date", a.Date.Format("2006-01-02"),
		)
	}
	j.logger.Info("Cron: open attendance report finished", "open_count", len(open), "before", today.Format("2006-01-02"))

	return nil
}
