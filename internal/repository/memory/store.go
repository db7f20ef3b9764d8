// Package memory is a process-local record store. It serializes every
// operation behind one mutex, which makes its conditional writes atomic in
// the same way the postgres unique constraint does.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/dayflow-hr/dayflow-backend-go/internal/domain/attendance"
	"github.com/dayflow-hr/dayflow-backend-go/internal/domain/leave"
	"github.com/dayflow-hr/dayflow-backend-go/internal/domain/payroll"
	"github.com/dayflow-hr/dayflow-backend-go/internal/domain/profile"
	"github.com/google/uuid"
)

type attendanceKey struct {
	userID string
	date   time.Time
}

type payrollKey struct {
	userID string
	year   int
	month  int
}

type Store struct {
	mu          sync.RWMutex
	now         func() time.Time
	attendances map[attendanceKey]attendance.Attendance
	profiles    map[string]profile.Profile
	leaves      map[string]leave.LeaveRequest
	payrolls    map[payrollKey]payroll.PayrollRecord
}

func NewStore() *Store {
	return &Store{
		now:         time.Now,
		attendances: make(map[attendanceKey]attendance.Attendance),
		profiles:    make(map[string]profile.Profile),
		leaves:      make(map[string]leave.LeaveRequest),
		payrolls:    make(map[payrollKey]payroll.PayrollRecord),
	}
}

func (s *Store) Attendances() attendance.AttendanceRepository {
	return &attendanceRepository{store: s}
}

func (s *Store) Profiles() profile.ProfileRepository {
	return &profileRepository{store: s}
}

func (s *Store) LeaveRequests() leave.LeaveRequestRepository {
	return &leaveRequestRepository{store: s}
}

func (s *Store) Payrolls() payroll.PayrollRepository {
	return &payrollRepository{store: s}
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (s *Store) profileName(userID string) *string {
	if p, ok := s.profiles[userID]; ok {
		name := p.Name
		return &name
	}
	return nil
}

// WithinTransaction runs fn directly. Writes made before an error are kept:
// the memory store has no rollback.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
