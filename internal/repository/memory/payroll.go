package memory

import (
	"context"
	"sort"

	"github.com/dayflow-hr/dayflow-backend-go/internal/domain/payroll"
)

type payrollRepository struct {
	store *Store
}

func (r *payrollRepository) List(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.PayrollRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []payroll.PayrollRecord{}
	for key, rec := range s.payrolls {
		if filter.UserID != "" && key.userID != filter.UserID {
			continue
		}
		if filter.PeriodYear != 0 && key.year != filter.PeriodYear {
			continue
		}
		if filter.PeriodMonth != 0 && key.month != filter.PeriodMonth {
			continue
		}
		rec.UserName = s.profileName(rec.UserID)
		result = append(result, rec)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].PeriodYear != result[j].PeriodYear {
			return result[i].PeriodYear > result[j].PeriodYear
		}
		if result[i].PeriodMonth != result[j].PeriodMonth {
			return result[i].PeriodMonth > result[j].PeriodMonth
		}
		return result[i].UserID < result[j].UserID
	})
	return result, nil
}

func (r *payrollRepository) Upsert(ctx context.Context, rec payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	if err := ctx.Err(); err != nil {
		return payroll.PayrollRecord{}, err
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	key := payrollKey{userID: rec.UserID, year: rec.PeriodYear, month: rec.PeriodMonth}
	if existing, ok := s.payrolls[key]; ok {
		rec.ID = existing.ID
		rec.CreatedAt = existing.CreatedAt
	} else {
		if rec.ID == "" {
			rec.ID = newID()
		}
		rec.CreatedAt = s.now()
	}
	s.payrolls[key] = rec
	return rec, nil
}
