package memory

import (
	"context"
	"sort"
	"time"

	"github.com/dayflow-hr/dayflow-backend-go/internal/domain/attendance"
)

type attendanceRepository struct {
	store *Store
}

func (r *attendanceRepository) CreateIfAbsent(ctx context.Context, a attendance.Attendance) (attendance.Attendance, bool, error) {
	if err := ctx.Err(); err != nil {
		return attendance.Attendance{}, false, err
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	key := attendanceKey{userID: a.UserID, date: attendance.DateOf(a.Date)}
	if existing, ok := s.attendances[key]; ok {
		return existing, false, nil
	}

	if a.ID == "" {
		a.ID = newID()
	}
	a.Date = key.date
	a.CreatedAt = s.now()
	a.UpdatedAt = a.CreatedAt
	s.attendances[key] = a
	return a, true, nil
}

func (r *attendanceRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*attendance.Attendance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.attendances[attendanceKey{userID: userID, date: attendance.DateOf(date)}]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *attendanceRepository) CloseDay(ctx context.Context, closing attendance.Attendance) (attendance.Attendance, bool, error) {
	if err := ctx.Err(); err != nil {
		return attendance.Attendance{}, false, err
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	key := attendanceKey{userID: closing.UserID, date: attendance.DateOf(closing.Date)}
	a, ok := s.attendances[key]
	if !ok || a.CheckOut != nil {
		return attendance.Attendance{}, false, nil
	}

	checkOut := *closing.CheckOut
	a.CheckOut = &checkOut
	a.Hours = closing.Hours
	a.Status = closing.Status
	a.HoursFlagged = closing.HoursFlagged
	a.UpdatedAt = s.now()
	s.attendances[key] = a
	return a, true, nil
}

func (r *attendanceRepository) ListByUser(ctx context.Context, userID string, filter attendance.HistoryFilter) ([]attendance.Attendance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []attendance.Attendance{}
	for key, a := range s.attendances {
		if key.userID != userID {
			continue
		}
		if !filter.From.IsZero() && key.date.Before(attendance.DateOf(filter.From)) {
			continue
		}
		if !filter.To.IsZero() && key.date.After(attendance.DateOf(filter.To)) {
			continue
		}
		result = append(result, a)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.After(result[j].Date)
	})
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (r *attendanceRepository) ListByDate(ctx context.Context, date time.Time) ([]attendance.Attendance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	day := attendance.DateOf(date)
	result := []attendance.Attendance{}
	for key, a := range s.attendances {
		if key.date.Equal(day) {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if *result[i].CheckIn != *result[j].CheckIn {
			return *result[i].CheckIn < *result[j].CheckIn
		}
		return result[i].UserID < result[j].UserID
	})
	return result, nil
}

func (r *attendanceRepository) ListOpenBefore(ctx context.Context, date time.Time) ([]attendance.Attendance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	day := attendance.DateOf(date)
	result := []attendance.Attendance{}
	for key, a := range s.attendances {
		if a.CheckOut == nil && key.date.Before(day) {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].UserID < result[j].UserID
	})
	return result, nil
}
