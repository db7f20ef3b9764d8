package payroll

import (
	"context"
	"io"
)

type PayrollService interface {
	// ListMine returns the caller's payslips.
	ListMine(ctx context.Context, userID string, req ListPayrollRequest) ([]PayrollRecordResponse, error)

	// List returns payslips of every user (admin).
	List(ctx context.Context, req ListPayrollRequest) ([]PayrollRecordResponse, error)

	// Import stores the payslips of an XLSX sheet. Either every row is
	// stored or none is.
	Import(ctx context.Context, workbook io.Reader) (ImportResponse, error)
}
