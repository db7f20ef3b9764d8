package leave

import (
	"context"
	"time"
)

type LeaveService interface {
	// Create submits a pending request for userID.
	Create(ctx context.Context, userID string, req CreateLeaveRequest) (LeaveRequestResponse, error)

	// ListMine returns the caller's own requests.
	ListMine(ctx context.Context, userID string, filter ListLeaveRequest) ([]LeaveRequestResponse, error)

	// List returns every user's requests (admin).
	List(ctx context.Context, filter ListLeaveRequest) ([]LeaveRequestResponse, error)

	// Approve and Reject process a pending request once.
	Approve(ctx context.Context, reviewerID string, id string) (LeaveRequestResponse, error)
	Reject(ctx context.Context, reviewerID string, id string, req RejectLeaveRequest) (LeaveRequestResponse, error)

	// ApprovedDays returns the dates in [start, end] covered by approved leave.
	ApprovedDays(ctx context.Context, userID string, start, end time.Time) (map[time.Time]bool, error)
}
