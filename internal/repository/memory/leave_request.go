package memory

import (
	"context"
	"sort"

	"github.com/dayflow-hr/dayflow-backend-go/internal/domain/leave"
)

type leaveRequestRepository struct {
	store *Store
}

func (r *leaveRequestRepository) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	if err := ctx.Err(); err != nil {
		return leave.LeaveRequest{}, err
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	request.ID = newID()
	request.CreatedAt = s.now()
	request.UpdatedAt = request.CreatedAt
	s.leaves[request.ID] = request
	request.UserName = s.profileName(request.UserID)
	return request, nil
}

func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	if err := ctx.Err(); err != nil {
		return leave.LeaveRequest{}, err
	}
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	lr, ok := s.leaves[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	lr.UserName = s.profileName(lr.UserID)
	return lr, nil
}

func (r *leaveRequestRepository) List(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []leave.LeaveRequest{}
	for _, lr := range s.leaves {
		if filter.UserID != "" && lr.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && lr.Status != filter.Status {
			continue
		}
		if !filter.From.IsZero() && lr.EndDate.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && lr.StartDate.After(filter.To) {
			continue
		}
		lr.UserName = s.profileName(lr.UserID)
		result = append(result, lr)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].StartDate.Equal(result[j].StartDate) {
			return result[i].StartDate.After(result[j].StartDate)
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *leaveRequestRepository) Review(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	if err := ctx.Err(); err != nil {
		return leave.LeaveRequest{}, err
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	lr, ok := s.leaves[request.ID]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	if lr.Status != leave.LeaveRequestStatusPending {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestAlreadyProcessed
	}

	lr.Status = request.Status
	lr.ReviewedBy = request.ReviewedBy
	lr.ReviewedAt = request.ReviewedAt
	lr.RejectionReason = request.RejectionReason
	lr.UpdatedAt = s.now()
	s.leaves[lr.ID] = lr
	lr.UserName = s.profileName(lr.UserID)
	return lr, nil
}
