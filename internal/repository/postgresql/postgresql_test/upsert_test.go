package postgresql_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dayflow-hr/dayflow-backend-go/internal/domain/attendance"
	"github.com/dayflow-hr/dayflow-backend-go/internal/domain/leave"
	"github.com/dayflow-hr/dayflow-backend-go/internal/domain/payroll"
	"github.com/dayflow-hr/dayflow-backend-go/internal/domain/profile"
	"github.com/dayflow-hr/dayflow-backend-go/internal/domain/user"
	"github.com/dayflow-hr/dayflow-backend-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func tod(t *testing.T, s string) *attendance.TimeOfDay {
	t.Helper()
	v, err := attendance.ParseTimeOfDay(s)
	require.NoError(t, err)
	return &v
}

func TestAttendanceRepository_Lifecycle(t *testing.T) {
	db := newTestDatabase(t)
	repo := postgresql.NewAttendanceRepository(db)
	ctx := context.Background()

	record := attendance.Attendance{
		UserID:  "u-1",
		Date:    day("2026-03-02"),
		CheckIn: tod(t, "08:45"),
		Status:  attendance.StatusPresent,
		Hours:   decimal.Zero,
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok, err := repo.CreateIfAbsent(ctx, record)
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, created)

	current, err := repo.GetByUserAndDate(ctx, "u-1", day("2026-03-02"))
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, "08:45", current.CheckIn.String())
	assert.Equal(t, attendance.StateCheckedIn, current.State())

	open, err := repo.ListOpenBefore(ctx, day("2026-03-03"))
	require.NoError(t, err)
	assert.Len(t, open, 1)

	closing := *current
	closing.CheckOut = tod(t, "17:15")
	closing.Hours = decimal.RequireFromString("8.5")
	closed, ok, err := repo.CloseDay(ctx, closing)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "17:15", closed.CheckOut.String())
	assert.True(t, closed.Hours.Equal(decimal.RequireFromString("8.5")))

	closing.CheckOut = tod(t, "18:00")
	_, ok, err = repo.CloseDay(ctx, closing)
	require.NoError(t, err)
	assert.False(t, ok)

	missing, err := repo.GetByUserAndDate(ctx, "u-1", day("2026-03-03"))
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestAttendanceRepository_Listings(t *testing.T) {
	db := newTestDatabase(t)
	repo := postgresql.NewAttendanceRepository(db)
	ctx := context.Background()

	for _, d := range []string{"2026-03-02", "2026-03-03", "2026-03-04"} {
		_, _, err := repo.CreateIfAbsent(ctx, attendance.Attendance{
			UserID: "u-1", Date: day(d), CheckIn: tod(t, "09:00"), Status: attendance.StatusPresent, Hours: decimal.Zero,
		})
		require.NoError(t, err)
	}
	_, _, err := repo.CreateIfAbsent(ctx, attendance.Attendance{
		UserID: "u-2", Date: day("2026-03-03"), CheckIn: tod(t, "10:00"), Status: attendance.StatusLate, Hours: decimal.Zero,
	})
	require.NoError(t, err)

	latest, err := repo.ListByUser(ctx, "u-1", attendance.HistoryFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, day("2026-03-04"), latest[0].Date)
	assert.Equal(t, day("2026-03-03"), latest[1].Date)

	ranged, err := repo.ListByUser(ctx, "u-1", attendance.HistoryFilter{From: day("2026-03-03"), To: day("2026-03-03")})
	require.NoError(t, err)
	assert.Len(t, ranged, 1)

	byDate, err := repo.ListByDate(ctx, day("2026-03-03"))
	require.NoError(t, err)
	assert.Len(t, byDate, 2)
}

func TestProfileRepository(t *testing.T) {
	db := newTestDatabase(t)
	repo := postgresql.NewProfileRepository(db)
	ctx := context.Background()

	got, err := repo.GetByID(ctx, "g-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	fallback := profile.Synthesize(user.Identity{UserID: "g-1", Email: "ana@example.com", Role: user.RoleEmployee}, day("2026-03-02"))
	created, ok, err := repo.CreateIfAbsent(ctx, fallback)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "ana", created.Name)

	fallback.Name = "Someone Else"
	existing, ok, err := repo.CreateIfAbsent(ctx, fallback)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "ana", existing.Name)

	phone := "+62 811"
	existing.Phone = &phone
	updated, err := repo.Update(ctx, existing)
	require.NoError(t, err)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, phone, *updated.Phone)

	_, err = repo.Update(ctx, profile.Profile{ID: "nobody", Name: "x", Email: "x@example.com", Role: user.RoleEmployee})
	assert.True(t, errors.Is(err, profile.ErrProfileNotFound))
}

func TestLeaveRequestRepository(t *testing.T) {
	db := newTestDatabase(t)
	repo := postgresql.NewLeaveRequestRepository(db)
	ctx := context.Background()

	req, err := repo.Create(ctx, leave.LeaveRequest{
		UserID:    "u-1",
		Type:      leave.LeaveTypeSick,
		StartDate: day("2026-03-05"),
		EndDate:   day("2026-03-06"),
		Reason:    "flu",
		Status:    leave.LeaveRequestStatusPending,
	})
	require.NoError(t, err)
	require.NotEmpty(t, req.ID)

	overlapping, err := repo.List(ctx, leave.LeaveRequestFilter{UserID: "u-1", From: day("2026-03-06"), To: day("2026-03-10")})
	require.NoError(t, err)
	assert.Len(t, overlapping, 1)

	reviewer := "admin-1"
	now := time.Now().UTC()
	req.Status = leave.LeaveRequestStatusApproved
	req.ReviewedBy = &reviewer
	req.ReviewedAt = &now
	approved, err := repo.Review(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, leave.LeaveRequestStatusApproved, approved.Status)

	req.Status = leave.LeaveRequestStatusRejected
	_, err = repo.Review(ctx, req)
	assert.True(t, errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed))

	_, err = repo.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
	assert.True(t, errors.Is(err, leave.ErrLeaveRequestNotFound))
}

func TestPayrollRepository_UpsertAndTransaction(t *testing.T) {
	db := newTestDatabase(t)
	repo := postgresql.NewPayrollRepository(db)
	tx := postgresql.NewTransactor(db)
	ctx := context.Background()

	rec := payroll.PayrollRecord{
		UserID:      "u-1",
		PeriodYear:  2026,
		PeriodMonth: 2,
		BasicSalary: decimal.RequireFromString("5000000"),
		Allowances:  decimal.Zero,
		Deductions:  decimal.Zero,
		NetSalary:   decimal.RequireFromString("5000000"),
		Status:      payroll.PayrollStatusPending,
	}
	_, err := repo.Upsert(ctx, rec)
	require.NoError(t, err)

	rec.NetSalary = decimal.RequireFromString("5250000")
	rec.Status = payroll.PayrollStatusPaid
	_, err = repo.Upsert(ctx, rec)
	require.NoError(t, err)

	records, err := repo.List(ctx, payroll.PayrollFilter{UserID: "u-1"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].NetSalary.Equal(decimal.RequireFromString("5250000")))
	assert.Equal(t, payroll.PayrollStatusPaid, records[0].Status)

	boom := errors.New("boom")
	err = tx.WithinTransaction(ctx, func(ctx context.Context) error {
		next := rec
		next.PeriodMonth = 3
		if _, err := repo.Upsert(ctx, next); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	records, err = repo.List(ctx, payroll.PayrollFilter{UserID: "u-1"})
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
