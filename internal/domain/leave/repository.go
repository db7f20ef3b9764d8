package leave

import (
	"context"
	"time"
)

// LeaveRequestFilter narrows a listing. Empty fields match everything.
type LeaveRequestFilter struct {
	UserID string
	Status LeaveRequestStatus
	From   time.Time
	To     time.Time
}

// LeaveRequestRepository - interface for leave_requests table
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)

	// List returns requests ordered by start date descending. From/To select
	// requests overlapping that range.
	List(ctx context.Context, filter LeaveRequestFilter) ([]LeaveRequest, error)

	// Review moves a pending request to status. It returns
	// ErrLeaveRequestAlreadyProcessed when the request is no longer pending.
	Review(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
}
