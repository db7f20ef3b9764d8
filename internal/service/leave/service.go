package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dayflow-hr/dayflow-backend-go/internal/domain/leave"
)

type LeaveServiceImpl struct {
	leave.LeaveRequestRepository
	now    func() time.Time
	logger *slog.Logger
}

func storeError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", leave.ErrStoreUnavailable, op, err)
}

func NewLeaveService(repo leave.LeaveRequestRepository, logger *slog.Logger) leave.LeaveService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LeaveServiceImpl{
		LeaveRequestRepository: repo,
		now:                    time.Now,
		logger:                 logger,
	}
}

// Create implements leave.LeaveService.
func (s *LeaveServiceImpl) Create(ctx context.Context, userID string, req leave.CreateLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)

	existing, err := s.LeaveRequestRepository.List(ctx, leave.LeaveRequestFilter{UserID: userID, From: start, To: end})
	if err != nil {
		return leave.LeaveRequestResponse{}, storeError("check overlapping leave requests", err)
	}
	for _, r := range existing {
		if r.Status != leave.LeaveRequestStatusRejected {
			return leave.LeaveRequestResponse{}, leave.ErrOverlappingLeaveRequest
		}
	}

	created, err := s.LeaveRequestRepository.Create(ctx, leave.LeaveRequest{
		UserID:    userID,
		Type:      leave.LeaveType(req.Type),
		StartDate: start,
		EndDate:   end,
		Reason:    strings.TrimSpace(req.Reason),
		Status:    leave.LeaveRequestStatusPending,
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, storeError("create leave request", err)
	}

	s.logger.InfoContext(ctx, "leave request submitted",
		slog.String("id", created.ID),
		slog.String("user_id", userID),
		slog.Int("days", created.TotalDays()),
	)
	return leave.NewLeaveRequestResponse(created), nil
}

// ListMine implements leave.LeaveService.
func (s *LeaveServiceImpl) ListMine(ctx context.Context, userID string, req leave.ListLeaveRequest) ([]leave.LeaveRequestResponse, error) {
	return s.list(ctx, userID, req)
}

// List implements leave.LeaveService.
func (s *LeaveServiceImpl) List(ctx context.Context, req leave.ListLeaveRequest) ([]leave.LeaveRequestResponse, error) {
	return s.list(ctx, "", req)
}

func (s *LeaveServiceImpl) list(ctx context.Context, userID string, req leave.ListLeaveRequest) ([]leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	requests, err := s.LeaveRequestRepository.List(ctx, leave.LeaveRequestFilter{
		UserID: userID,
		Status: leave.LeaveRequestStatus(req.Status),
	})
	if err != nil {
		return nil, storeError("list leave requests", err)
	}

	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, leave.NewLeaveRequestResponse(r))
	}
	return responses, nil
}

// Approve implements leave.LeaveService.
func (s *LeaveServiceImpl) Approve(ctx context.Context, reviewerID string, id string) (leave.LeaveRequestResponse, error) {
	return s.review(ctx, reviewerID, id, leave.LeaveRequestStatusApproved, nil)
}

// Reject implements leave.LeaveService.
func (s *LeaveServiceImpl) Reject(ctx context.Context, reviewerID string, id string, req leave.RejectLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	reason := strings.TrimSpace(req.Reason)
	return s.review(ctx, reviewerID, id, leave.LeaveRequestStatusRejected, &reason)
}

func (s *LeaveServiceImpl) review(ctx context.Context, reviewerID, id string, status leave.LeaveRequestStatus, reason *string) (leave.LeaveRequestResponse, error) {
	request, err := s.LeaveRequestRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveRequestNotFound) {
			return leave.LeaveRequestResponse{}, err
		}
		return leave.LeaveRequestResponse{}, storeError("get leave request", err)
	}
	if request.UserID == reviewerID {
		return leave.LeaveRequestResponse{}, leave.ErrCannotReviewOwnRequest
	}
	if request.Status != leave.LeaveRequestStatusPending {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveRequestAlreadyProcessed
	}

	reviewedAt := s.now().UTC()
	request.Status = status
	request.ReviewedBy = &reviewerID
	request.ReviewedAt = &reviewedAt
	request.RejectionReason = reason

	reviewed, err := s.LeaveRequestRepository.Review(ctx, request)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveRequestNotFound) || errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed) {
			return leave.LeaveRequestResponse{}, err
		}
		return leave.LeaveRequestResponse{}, storeError("review leave request", err)
	}

	s.logger.InfoContext(ctx, "leave request reviewed",
		slog.String("id", id),
		slog.String("reviewer_id", reviewerID),
		slog.String("status", string(status)),
	)
	return leave.NewLeaveRequestResponse(reviewed), nil
}

// ApprovedDays implements leave.LeaveService.
func (s *LeaveServiceImpl) ApprovedDays(ctx context.Context, userID string, start, end time.Time) (map[time.Time]bool, error) {
	requests, err := s.LeaveRequestRepository.List(ctx, leave.LeaveRequestFilter{
		UserID: userID,
		Status: leave.LeaveRequestStatusApproved,
		From:   start,
		To:     end,
	})
	if err != nil {
		return nil, storeError("list approved leave", err)
	}

	days := make(map[time.Time]bool)
	for _, r := range requests {
		from, to := r.StartDate, r.EndDate
		if from.Before(start) {
			from = start
		}
		if to.After(end) {
			to = end
		}
		for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
			days[time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)] = true
		}
	}
	return days, nil
}
