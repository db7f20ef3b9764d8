package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollStatus enum
type PayrollStatus string

const (
	PayrollStatusPending PayrollStatus = "pending"
	PayrollStatusPaid    PayrollStatus = "paid"
)

// PayrollRecord is a stored monthly payslip. Amounts are inputs from the
// payroll team and are never recomputed here.
type PayrollRecord struct {
	ID          string
	UserID      string
	PeriodMonth int
	PeriodYear  int
	BasicSalary decimal.Decimal
	Allowances  decimal.Decimal
	Deductions  decimal.Decimal
	NetSalary   decimal.Decimal
	Status      PayrollStatus
	CreatedAt   time.Time

	// Joined fields
	UserName *string
}
