package leave

import "errors"

var (
	ErrLeaveRequestNotFound         = errors.New("leave request not found")
	ErrLeaveRequestAlreadyProcessed = errors.New("leave request already processed")
	ErrOverlappingLeaveRequest      = errors.New("leave request overlaps an existing request")
	ErrCannotReviewOwnRequest       = errors.New("cannot review your own leave request")
	ErrStoreUnavailable             = errors.New("leave store unavailable")
)
