package payroll

import (
	"time"

	"github.com/dayflow-hr/dayflow-backend-go/internal/pkg/validator"
)

type ListPayrollRequest struct {
	Year  int `json:"year" validate:"omitempty,min=2000,max=2100"`
	Month int `json:"month" validate:"omitempty,min=1,max=12"`
}

func (r *ListPayrollRequest) Validate() error {
	return validator.Struct(r)
}

type PayrollRecordResponse struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	UserName    *string `json:"user_name,omitempty"`
	Month       int     `json:"month"`
	Year        int     `json:"year"`
	BasicSalary string  `json:"basic_salary"`
	Allowances  string  `json:"allowances"`
	Deductions  string  `json:"deductions"`
	NetSalary   string  `json:"net_salary"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
}

func NewPayrollRecordResponse(r PayrollRecord) PayrollRecordResponse {
	return PayrollRecordResponse{
		ID:          r.ID,
		UserID:      r.UserID,
		UserName:    r.UserName,
		Month:       r.PeriodMonth,
		Year:        r.PeriodYear,
		BasicSalary: r.BasicSalary.StringFixed(2),
		Allowances:  r.Allowances.StringFixed(2),
		Deductions:  r.Deductions.StringFixed(2),
		NetSalary:   r.NetSalary.StringFixed(2),
		Status:      string(r.Status),
		CreatedAt:   r.CreatedAt.Format(time.RFC3339),
	}
}

// ImportColumns is the header an import sheet must start with.
var ImportColumns = []string{"user_id", "year", "month", "basic_salary", "allowances", "deductions", "net_salary", "status"}

type ImportResponse struct {
	Imported int `json:"imported"`
}
