package response

import (
	"errors"
	"net/http"

	"github.com/dayflow-hr/dayflow-backend-go/internal/domain/attendance"
	"github.com/dayflow-hr/dayflow-backend-go/internal/domain/auth"
	"github.com/dayflow-hr/dayflow-backend-go/internal/domain/leave"
	"github.com/dayflow-hr/dayflow-backend-go/internal/domain/payroll"
	"github.com/dayflow-hr/dayflow-backend-go/internal/domain/profile"
	"github.com/dayflow-hr/dayflow-backend-go/internal/domain/user"
	"github.com/dayflow-hr/dayflow-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth and identity
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, user.ErrIdentityMissing):
		Unauthorized(w, "Authentication required")
	case errors.Is(err, auth.ErrEmailNotVerified):
		Forbidden(w, "Email not verified")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")
	case errors.Is(err, auth.ErrGoogleAccessDeniedByUser):
		Forbidden(w, "Google access denied")
	case errors.Is(err, auth.ErrStateCookieEmpty),
		errors.Is(err, auth.ErrStateParamEmpty),
		errors.Is(err, auth.ErrStateMismatch),
		errors.Is(err, auth.ErrCodeValueEmpty):
		BadRequest(w, err.Error(), nil)

	// Attendance lifecycle
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "You have already checked in today")
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Conflict(w, "You have already checked out today")
	case errors.Is(err, attendance.ErrNotCheckedIn):
		Conflict(w, "You have not checked in today")
	case errors.Is(err, attendance.ErrInvalidTransition):
		Conflict(w, "Invalid attendance transition")
	case errors.Is(err, attendance.ErrInvalidDateRange),
		errors.Is(err, attendance.ErrDateRangeTooLong),
		errors.Is(err, attendance.ErrInvalidInput):
		BadRequest(w, err.Error(), nil)

	// Profile
	case errors.Is(err, profile.ErrProfileNotFound):
		NotFound(w, "Profile not found")

	// Leave
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed):
		Conflict(w, "Leave request already processed")
	case errors.Is(err, leave.ErrOverlappingLeaveRequest):
		Conflict(w, "Leave request overlaps an existing request")
	case errors.Is(err, leave.ErrCannotReviewOwnRequest):
		Forbidden(w, "You cannot review your own leave request")

	// Payroll
	case errors.Is(err, payroll.ErrInvalidImportSheet),
		errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, err.Error(), nil)

	// Stores
	case errors.Is(err, attendance.ErrStoreUnavailable),
		errors.Is(err, profile.ErrStoreUnavailable),
		errors.Is(err, leave.ErrStoreUnavailable),
		errors.Is(err, payroll.ErrStoreUnavailable):
		ServiceUnavailable(w, "Service temporarily unavailable, please retry")

	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
