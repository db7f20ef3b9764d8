package payroll

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/dayflow-hr/dayflow-backend-go/internal/domain/payroll"
	"github.com/dayflow-hr/dayflow-backend-go/internal/pkg/database"
	"github.com/dayflow-hr/dayflow-backend-go/internal/pkg/spreadsheet"
	"github.com/dayflow-hr/dayflow-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type PayrollServiceImpl struct {
	payroll.PayrollRepository
	tx     database.Transactor
	logger *slog.Logger
}

func NewPayrollService(repo payroll.PayrollRepository, tx database.Transactor, logger *slog.Logger) payroll.PayrollService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PayrollServiceImpl{
		PayrollRepository: repo,
		tx:                tx,
		logger:            logger,
	}
}

// ListMine implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListMine(ctx context.Context, userID string, req payroll.ListPayrollRequest) ([]payroll.PayrollRecordResponse, error) {
	return s.list(ctx, userID, req)
}

// List implements payroll.PayrollService.
func (s *PayrollServiceImpl) List(ctx context.Context, req payroll.ListPayrollRequest) ([]payroll.PayrollRecordResponse, error) {
	return s.list(ctx, "", req)
}

func (s *PayrollServiceImpl) list(ctx context.Context, userID string, req payroll.ListPayrollRequest) ([]payroll.PayrollRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	records, err := s.PayrollRepository.List(ctx, payroll.PayrollFilter{
		UserID:      userID,
		PeriodYear:  req.Year,
		PeriodMonth: req.Month,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: list payroll: %w", payroll.ErrStoreUnavailable, err)
	}

	responses := make([]payroll.PayrollRecordResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, payroll.NewPayrollRecordResponse(r))
	}
	return responses, nil
}

// importRow is one data row of an import sheet before conversion.
type importRow struct {
	UserID      string `json:"user_id" validate:"required,max=255"`
	Year        int    `json:"year" validate:"min=2000,max=2100"`
	Month       int    `json:"month" validate:"min=1,max=12"`
	BasicSalary string `json:"basic_salary" validate:"required"`
	Allowances  string `json:"allowances"`
	Deductions  string `json:"deductions"`
	NetSalary   string `json:"net_salary" validate:"required"`
	Status      string `json:"status" validate:"oneof=pending paid"`
}

// Import implements payroll.PayrollService.
func (s *PayrollServiceImpl) Import(ctx context.Context, workbook io.Reader) (payroll.ImportResponse, error) {
	rows, err := spreadsheet.ReadRows(workbook, "")
	if err != nil {
		return payroll.ImportResponse{}, fmt.Errorf("%w: %w", payroll.ErrInvalidImportSheet, err)
	}
	if len(rows) == 0 || !isImportHeader(rows[0]) {
		return payroll.ImportResponse{}, fmt.Errorf("%w: header must be %s",
			payroll.ErrInvalidImportSheet, strings.Join(payroll.ImportColumns, ", "))
	}

	records, err := parseImportRows(rows[1:])
	if err != nil {
		return payroll.ImportResponse{}, err
	}
	if len(records) == 0 {
		return payroll.ImportResponse{}, fmt.Errorf("%w: no data rows", payroll.ErrInvalidImportSheet)
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, rec := range records {
			if _, err := s.PayrollRepository.Upsert(ctx, rec); err != nil {
				return fmt.Errorf("%w: upsert payroll for %s %d-%02d: %w",
					payroll.ErrStoreUnavailable, rec.UserID, rec.PeriodYear, rec.PeriodMonth, err)
			}
		}
		return nil
	})
	if err != nil {
		return payroll.ImportResponse{}, err
	}

	s.logger.InfoContext(ctx, "payroll imported", slog.Int("records", len(records)))
	return payroll.ImportResponse{Imported: len(records)}, nil
}

func isImportHeader(row []string) bool {
	if len(row) < len(payroll.ImportColumns) {
		return false
	}
	for i, col := range payroll.ImportColumns {
		if strings.ToLower(strings.TrimSpace(row[i])) != col {
			return false
		}
	}
	return true
}

// parseImportRows converts every data row and collects all problems, so a
// sheet is either fully valid or rejected as a whole. Blank rows are skipped.
func parseImportRows(rows [][]string) ([]payroll.PayrollRecord, error) {
	var (
		records []payroll.PayrollRecord
		errs    validator.ValidationErrors
		seen    = make(map[string]int)
	)

	for i, cells := range rows {
		line := i + 2
		if isBlankRow(cells) {
			continue
		}

		rec, rowErrs := parseImportRow(cells)
		for _, e := range rowErrs {
			errs = append(errs, validator.ValidationError{
				Field:   fmt.Sprintf("row %d: %s", line, e.Field),
				Message: e.Message,
			})
		}
		if len(rowErrs) > 0 {
			continue
		}

		key := fmt.Sprintf("%s/%d/%d", rec.UserID, rec.PeriodYear, rec.PeriodMonth)
		if first, ok := seen[key]; ok {
			errs = append(errs, validator.ValidationError{
				Field:   fmt.Sprintf("row %d", line),
				Message: fmt.Sprintf("duplicates row %d for the same user and period", first),
			})
			continue
		}
		seen[key] = line
		records = append(records, rec)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return records, nil
}

func parseImportRow(cells []string) (payroll.PayrollRecord, validator.ValidationErrors) {
	cell := func(i int) string {
		if i < len(cells) {
			return strings.TrimSpace(cells[i])
		}
		return ""
	}

	var errs validator.ValidationErrors
	row := importRow{
		UserID:      cell(0),
		BasicSalary: cell(3),
		Allowances:  cell(4),
		Deductions:  cell(5),
		NetSalary:   cell(6),
		Status:      strings.ToLower(cell(7)),
	}
	if row.Status == "" {
		row.Status = string(payroll.PayrollStatusPending)
	}

	var err error
	if row.Year, err = strconv.Atoi(cell(1)); err != nil {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "year must be a number"})
	}
	if row.Month, err = strconv.Atoi(cell(2)); err != nil {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "month must be a number"})
	}
	if len(errs) > 0 {
		return payroll.PayrollRecord{}, errs
	}

	if err := validator.Struct(&row); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return payroll.PayrollRecord{}, verrs
		}
		return payroll.PayrollRecord{}, validator.ValidationErrors{{Field: "row", Message: err.Error()}}
	}

	rec := payroll.PayrollRecord{
		UserID:      row.UserID,
		PeriodYear:  row.Year,
		PeriodMonth: row.Month,
		Status:      payroll.PayrollStatus(row.Status),
	}
	for _, amount := range []struct {
		field string
		raw   string
		dst   *decimal.Decimal
	}{
		{"basic_salary", row.BasicSalary, &rec.BasicSalary},
		{"allowances", row.Allowances, &rec.Allowances},
		{"deductions", row.Deductions, &rec.Deductions},
		{"net_salary", row.NetSalary, &rec.NetSalary},
	} {
		if amount.raw == "" {
			*amount.dst = decimal.Zero
			continue
		}
		d, err := decimal.NewFromString(amount.raw)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: amount.field, Message: amount.field + " must be a number"})
			continue
		}
		if d.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: amount.field, Message: amount.field + " must not be negative"})
			continue
		}
		*amount.dst = d.Round(2)
	}
	if len(errs) > 0 {
		return payroll.PayrollRecord{}, errs
	}
	return rec, nil
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
