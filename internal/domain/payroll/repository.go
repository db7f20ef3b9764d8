package payroll

import "context"

// PayrollFilter narrows a listing. Zero fields match everything.
type PayrollFilter struct {
	UserID      string
	PeriodYear  int
	PeriodMonth int
}

type PayrollRepository interface {
	// List returns records ordered by period descending.
	List(ctx context.Context, filter PayrollFilter) ([]PayrollRecord, error)

	// Upsert stores a payslip, replacing the amounts of an existing one for
	// the same user and period.
	Upsert(ctx context.Context, rec PayrollRecord) (PayrollRecord, error)
}
