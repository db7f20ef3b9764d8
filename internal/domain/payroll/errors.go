package payroll

import "errors"

var (
	ErrInvalidPeriod      = errors.New("invalid payroll period")
	ErrInvalidImportSheet = errors.New("invalid payroll import sheet")
	ErrStoreUnavailable   = errors.New("payroll store unavailable")
)
