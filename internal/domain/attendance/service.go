package attendance

import (
	"context"
)

// AttendanceService is the check-in/check-out lifecycle of a user's day.
// Every operation acts on the user passed in, never on an ambient identity.
type AttendanceService interface {
	// CheckIn opens today's record for userID.
	CheckIn(ctx context.Context, userID string) (AttendanceResponse, error)

	// CheckOut closes today's record for userID and fixes its hours.
	CheckOut(ctx context.Context, userID string) (AttendanceResponse, error)

	// GetToday returns today's state, with the record when one exists.
	GetToday(ctx context.Context, userID string) (TodayResponse, error)

	// GetHistory returns up to req.Limit records, most recent first.
	GetHistory(ctx context.Context, userID string, req HistoryRequest) (HistoryResponse, error)

	// GetSummary aggregates a date range against the working-day calendar.
	GetSummary(ctx context.Context, userID string, req RangeRequest) (SummaryResponse, error)

	// ExportHistory renders a date range as an XLSX workbook.
	ExportHistory(ctx context.Context, userID string, req RangeRequest) ([]byte, error)

	// ListByDate returns all records of one date (admin view). Empty means today.
	ListByDate(ctx context.Context, req ListByDateRequest) ([]AttendanceResponse, error)
}
