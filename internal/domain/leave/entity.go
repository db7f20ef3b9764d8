package leave

import "time"

type LeaveType string

const (
	LeaveTypePaid     LeaveType = "paid"
	LeaveTypeSick     LeaveType = "sick"
	LeaveTypeUnpaid   LeaveType = "unpaid"
	LeaveTypeAnnual   LeaveType = "annual"
	LeaveTypePersonal LeaveType = "personal"
)

type LeaveRequestStatus string

const (
	LeaveRequestStatusPending  LeaveRequestStatus = "pending"
	LeaveRequestStatusApproved LeaveRequestStatus = "approved"
	LeaveRequestStatusRejected LeaveRequestStatus = "rejected"
)

// LeaveRequest entity. StartDate and EndDate are inclusive calendar dates.
type LeaveRequest struct {
	ID        string
	UserID    string
	Type      LeaveType
	StartDate time.Time
	EndDate   time.Time
	Reason    string

	Status          LeaveRequestStatus
	ReviewedBy      *string
	ReviewedAt      *time.Time
	RejectionReason *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relationships (for responses)
	UserName *string
}

// TotalDays counts calendar days in the request, both ends included.
func (r LeaveRequest) TotalDays() int {
	return int(r.EndDate.Sub(r.StartDate).Hours()/24) + 1
}

// Covers reports whether day falls inside the request.
func (r LeaveRequest) Covers(day time.Time) bool {
	return !day.Before(r.StartDate) && !day.After(r.EndDate)
}
