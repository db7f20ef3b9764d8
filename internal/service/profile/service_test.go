package profile

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/dayflow-hr/dayflow-backend-go/internal/domain/profile"
	"github.com/dayflow-hr/dayflow-backend-go/internal/domain/user"
	"github.com/dayflow-hr/dayflow-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTimeout = errors.New("i/o timeout")

// flakyRepository fails the first failures GetByID calls.
type flakyRepository struct {
	profile.ProfileRepository
	mu       sync.Mutex
	failures int
	calls    int
}

func (r *flakyRepository) GetByID(ctx context.Context, id string) (*profile.Profile, error) {
	r.mu.Lock()
	r.calls++
	fail := r.calls <= r.failures
	r.mu.Unlock()
	if fail {
		return nil, errTimeout
	}
	return r.ProfileRepository.GetByID(ctx, id)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fastRetry() RetryPolicy {
	return RetryPolicy{Attempts: 3, Backoff: time.Millisecond, AttemptTimeout: time.Second}
}

var alice = user.Identity{UserID: "google-123", Email: "alice@example.com", Name: "Alice", Role: user.RoleEmployee}

func TestEnsure(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name         string
		failures     int
		seed         *profile.Profile
		wantOutcome  profile.Outcome
		wantAttempts int
		wantName     string
	}{
		{
			name:         "existing profile is found",
			seed:         &profile.Profile{ID: alice.UserID, Name: "Alice Stored", Email: alice.Email, Role: user.RoleAdmin},
			wantOutcome:  profile.OutcomeFound,
			wantAttempts: 1,
			wantName:     "Alice Stored",
		},
		{
			name:         "missing profile is synthesized",
			wantOutcome:  profile.OutcomeCreatedFallback,
			wantAttempts: 1,
			wantName:     "Alice",
		},
		{
			name:         "transient failures are retried",
			failures:     2,
			seed:         &profile.Profile{ID: alice.UserID, Name: "Alice Stored"},
			wantOutcome:  profile.OutcomeFound,
			wantAttempts: 3,
			wantName:     "Alice Stored",
		},
		{
			name:         "persistent failure is reported",
			failures:     3,
			wantOutcome:  profile.OutcomeFailed,
			wantAttempts: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewStore()
			if tt.seed != nil {
				_, _, err := store.Profiles().CreateIfAbsent(ctx, *tt.seed)
				require.NoError(t, err)
			}
			repo := &flakyRepository{ProfileRepository: store.Profiles(), failures: tt.failures}
			svc := NewProfileService(repo, fastRetry(), quietLogger())

			result := svc.Ensure(ctx, alice)
			assert.Equal(t, tt.wantOutcome, result.Outcome)
			assert.Equal(t, tt.wantAttempts, result.Attempts)

			if tt.wantOutcome == profile.OutcomeFailed {
				assert.Nil(t, result.Profile)
				assert.ErrorIs(t, result.Err, profile.ErrStoreUnavailable)
				assert.ErrorIs(t, result.Err, errTimeout)
				return
			}
			require.NoError(t, result.Err)
			require.NotNil(t, result.Profile)
			assert.Equal(t, tt.wantName, result.Profile.Name)
		})
	}
}

func TestEnsure_FallbackIsPersisted(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewProfileService(store.Profiles(), fastRetry(), quietLogger())

	first := svc.Ensure(ctx, user.Identity{UserID: "u1", Email: "bob@example.com"})
	require.Equal(t, profile.OutcomeCreatedFallback, first.Outcome)
	assert.Equal(t, "bob", first.Profile.Name)
	assert.NotNil(t, first.Profile.JoinDate)

	second := svc.Ensure(ctx, user.Identity{UserID: "u1", Email: "bob@example.com"})
	assert.Equal(t, profile.OutcomeFound, second.Outcome)
}

func TestEnsure_StopsWhenContextEnds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	repo := &flakyRepository{ProfileRepository: memory.NewStore().Profiles(), failures: 10}
	svc := NewProfileService(repo, RetryPolicy{Attempts: 5, Backoff: time.Hour}, quietLogger())

	cancel()
	result := svc.Ensure(ctx, alice)
	assert.Equal(t, profile.OutcomeFailed, result.Outcome)
	assert.Equal(t, 1, result.Attempts)
}

func TestGetMine(t *testing.T) {
	ctx := context.Background()
	svc := NewProfileService(memory.NewStore().Profiles(), fastRetry(), quietLogger())

	resp, err := svc.GetMine(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, alice.UserID, resp.ID)
	assert.Equal(t, "created_fallback", resp.Outcome)

	resp, err = svc.GetMine(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "found", resp.Outcome)
}

func TestUpdateMine(t *testing.T) {
	ctx := context.Background()
	svc := NewProfileService(memory.NewStore().Profiles(), fastRetry(), quietLogger())

	_, err := svc.UpdateMine(ctx, alice.UserID, profile.UpdateProfileRequest{Phone: strPtr("0812")})
	assert.ErrorIs(t, err, profile.ErrProfileNotFound)

	_, err = svc.GetMine(ctx, alice)
	require.NoError(t, err)

	resp, err := svc.UpdateMine(ctx, alice.UserID, profile.UpdateProfileRequest{
		Name:       strPtr("  Alice Doe "),
		Department: strPtr("Engineering"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice Doe", resp.Name)
	assert.Equal(t, strPtr("Engineering"), resp.Department)
	assert.Equal(t, alice.Email, resp.Email)

	_, err = svc.UpdateMine(ctx, alice.UserID, profile.UpdateProfileRequest{Name: strPtr("   ")})
	assert.Error(t, err)
}

func TestList(t *testing.T) {
	ctx := context.Background()
	svc := NewProfileService(memory.NewStore().Profiles(), fastRetry(), quietLogger())

	for _, id := range []user.Identity{
		{UserID: "u2", Name: "Zed", Email: "zed@example.com"},
		{UserID: "u1", Name: "Amy", Email: "amy@example.com"},
	} {
		require.Equal(t, profile.OutcomeCreatedFallback, svc.Ensure(ctx, id).Outcome)
	}

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Amy", list[0].Name)
	assert.Equal(t, "Zed", list[1].Name)
}

func strPtr(s string) *string { return &s }
