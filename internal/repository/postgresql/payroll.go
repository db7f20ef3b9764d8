package postgresql

import (
	"context"
	"fmt"

	"github.com/dayflow-hr/dayflow-backend-go/internal/domain/payroll"
	"github.com/dayflow-hr/dayflow-backend-go/internal/pkg/database"
	"github.com/google/uuid"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

// List implements payroll.PayrollRepository.
func (r *payrollRepository) List(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT pr.id, pr.user_id, pr.period_month, pr.period_year, pr.basic_salary,
			   pr.allowances, pr.deductions, pr.net_salary, pr.status, pr.created_at,
			   p.name
		FROM payroll_records pr
		LEFT JOIN profiles p ON p.id = pr.user_id
		WHERE 1=1
	`
	args := []interface{}{}
	argIdx := 1

	if filter.UserID != "" {
		query += fmt.Sprintf(" AND pr.user_id = $%d", argIdx)
		args = append(args, filter.UserID)
		argIdx++
	}
	if filter.PeriodYear != 0 {
		query += fmt.Sprintf(" AND pr.period_year = $%d", argIdx)
		args = append(args, filter.PeriodYear)
		argIdx++
	}
	if filter.PeriodMonth != 0 {
		query += fmt.Sprintf(" AND pr.period_month = $%d", argIdx)
		args = append(args, filter.PeriodMonth)
		argIdx++
	}
	query += " ORDER BY pr.period_year DESC, pr.period_month DESC, p.name ASC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	records := []payroll.PayrollRecord{}
	for rows.Next() {
		var rec payroll.PayrollRecord
		if err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.PeriodMonth, &rec.PeriodYear, &rec.BasicSalary,
			&rec.Allowances, &rec.Deductions, &rec.NetSalary, &rec.Status, &rec.CreatedAt,
			&rec.UserName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payroll records: %w", err)
	}
	return records, nil
}

// Upsert implements payroll.PayrollRepository.
func (r *payrollRepository) Upsert(ctx context.Context, rec payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	if rec.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return payroll.PayrollRecord{}, fmt.Errorf("failed to generate payroll id: %w", err)
		}
		rec.ID = id.String()
	}

	query := `
		INSERT INTO payroll_records (
			id, user_id, period_month, period_year, basic_salary, allowances, deductions, net_salary, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
		ON CONFLICT (user_id, period_year, period_month) DO UPDATE
		SET basic_salary = EXCLUDED.basic_salary,
			allowances = EXCLUDED.allowances,
			deductions = EXCLUDED.deductions,
			net_salary = EXCLUDED.net_salary,
			status = EXCLUDED.status
		RETURNING id, created_at
	`
	err := q.QueryRow(ctx, query,
		rec.ID, rec.UserID, rec.PeriodMonth, rec.PeriodYear, rec.BasicSalary,
		rec.Allowances, rec.Deductions, rec.NetSalary, string(rec.Status),
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("failed to upsert payroll record: %w", err)
	}
	return rec, nil
}
