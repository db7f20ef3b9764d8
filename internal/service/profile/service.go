package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dayflow-hr/dayflow-backend-go/internal/domain/profile"
	"github.com/dayflow-hr/dayflow-backend-go/internal/domain/user"
)

// RetryPolicy bounds the profile fetch in Ensure.
type RetryPolicy struct {
	Attempts       int
	Backoff        time.Duration
	AttemptTimeout time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts:       3,
		Backoff:        200 * time.Millisecond,
		AttemptTimeout: 2 * time.Second,
	}
}

type ProfileServiceImpl struct {
	profile.ProfileRepository
	retry  RetryPolicy
	now    func() time.Time
	logger *slog.Logger
}

func NewProfileService(repo profile.ProfileRepository, retry RetryPolicy, logger *slog.Logger) profile.ProfileService {
	if retry.Attempts < 1 {
		retry.Attempts = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileServiceImpl{
		ProfileRepository: repo,
		retry:             retry,
		now:               time.Now,
		logger:            logger,
	}
}

// Ensure implements profile.ProfileService.
func (s *ProfileServiceImpl) Ensure(ctx context.Context, identity user.Identity) profile.EnsureResult {
	var lastErr error

	for attempt := 1; attempt <= s.retry.Attempts; attempt++ {
		p, outcome, err := s.resolve(ctx, identity)
		if err == nil {
			if outcome == profile.OutcomeCreatedFallback {
				s.logger.InfoContext(ctx, "created fallback profile",
					slog.String("user_id", identity.UserID),
					slog.Int("attempt", attempt),
				)
			}
			return profile.EnsureResult{Profile: &p, Outcome: outcome, Attempts: attempt}
		}

		lastErr = err
		s.logger.WarnContext(ctx, "profile fetch failed",
			slog.String("user_id", identity.UserID),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", s.retry.Attempts),
			slog.Any("error", err),
		)

		if attempt == s.retry.Attempts || !s.wait(ctx) {
			return s.failed(identity, attempt, lastErr)
		}
	}
	return s.failed(identity, s.retry.Attempts, lastErr)
}

// resolve makes one fetch-or-create attempt under the per-attempt timeout.
func (s *ProfileServiceImpl) resolve(ctx context.Context, identity user.Identity) (profile.Profile, profile.Outcome, error) {
	if s.retry.AttemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.retry.AttemptTimeout)
		defer cancel()
	}

	existing, err := s.ProfileRepository.GetByID(ctx, identity.UserID)
	if err != nil {
		return profile.Profile{}, "", err
	}
	if existing != nil {
		return *existing, profile.OutcomeFound, nil
	}

	created, ok, err := s.ProfileRepository.CreateIfAbsent(ctx, profile.Synthesize(identity, s.now()))
	if err != nil {
		return profile.Profile{}, "", err
	}
	if !ok {
		// A concurrent caller created it first.
		return created, profile.OutcomeFound, nil
	}
	return created, profile.OutcomeCreatedFallback, nil
}

// wait sleeps for the backoff and reports false when ctx ended first.
func (s *ProfileServiceImpl) wait(ctx context.Context) bool {
	if s.retry.Backoff <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(s.retry.Backoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (s *ProfileServiceImpl) failed(identity user.Identity, attempts int, err error) profile.EnsureResult {
	s.logger.Error("profile unavailable",
		slog.String("user_id", identity.UserID),
		slog.Int("attempts", attempts),
		slog.Any("error", err),
	)
	return profile.EnsureResult{
		Outcome:  profile.OutcomeFailed,
		Attempts: attempts,
		Err:      fmt.Errorf("%w: after %d attempts: %w", profile.ErrStoreUnavailable, attempts, err),
	}
}

// GetMine implements profile.ProfileService.
func (s *ProfileServiceImpl) GetMine(ctx context.Context, identity user.Identity) (profile.ProfileResponse, error) {
	result := s.Ensure(ctx, identity)
	if result.Outcome == profile.OutcomeFailed {
		return profile.ProfileResponse{}, result.Err
	}

	resp := profile.NewProfileResponse(*result.Profile)
	resp.Outcome = string(result.Outcome)
	return resp, nil
}

// UpdateMine implements profile.ProfileService.
func (s *ProfileServiceImpl) UpdateMine(ctx context.Context, userID string, req profile.UpdateProfileRequest) (profile.ProfileResponse, error) {
	if err := req.Validate(); err != nil {
		return profile.ProfileResponse{}, err
	}

	current, err := s.ProfileRepository.GetByID(ctx, userID)
	if err != nil {
		return profile.ProfileResponse{}, fmt.Errorf("%w: get profile: %w", profile.ErrStoreUnavailable, err)
	}
	if current == nil {
		return profile.ProfileResponse{}, profile.ErrProfileNotFound
	}

	req.Apply(current)
	updated, err := s.ProfileRepository.Update(ctx, *current)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return profile.ProfileResponse{}, err
		}
		return profile.ProfileResponse{}, fmt.Errorf("%w: update profile: %w", profile.ErrStoreUnavailable, err)
	}
	return profile.NewProfileResponse(updated), nil
}

// List implements profile.ProfileService.
func (s *ProfileServiceImpl) List(ctx context.Context) ([]profile.ProfileResponse, error) {
	profiles, err := s.ProfileRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list profiles: %w", profile.ErrStoreUnavailable, err)
	}

	responses := make([]profile.ProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		responses = append(responses, profile.NewProfileResponse(p))
	}
	return responses, nil
}
