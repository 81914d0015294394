package response

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/leave-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/leave-engine-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-engine-go/internal/domain/user"
	"github.com/cmlabs-hris/leave-engine-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Structured leave errors carry detail payloads
	var overlapErr *leave.OverlapError
	if errors.As(err, &overlapErr) {
		Conflict(w, "Date range overlaps an active leave request", map[string]string{
			"conflicting_request_ids": strings.Join(overlapErr.ConflictingIDs, ","),
		})
		return
	}

	var staleErr *leave.StaleRevisionError
	if errors.As(err, &staleErr) {
		Conflict(w, "Request was modified by another action", map[string]string{
			"expected_revision": strconv.FormatInt(staleErr.Expected, 10),
			"current_revision":  strconv.FormatInt(staleErr.Current, 10),
		})
		return
	}

	switch {
	// Leave domain errors
	case errors.Is(err, leave.ErrInvalidRange):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, leave.ErrInsufficientBalance):
		BadRequest(w, "Insufficient leave balance", nil)
	case errors.Is(err, leave.ErrIllegalTransition):
		Conflict(w, "Action is not allowed in the current request state", nil)
	case errors.Is(err, leave.ErrForbidden):
		Forbidden(w, "You are not allowed to perform this action")
	case errors.Is(err, leave.ErrRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeaveTypeNotFound):
		NotFound(w, "Leave type not found")
	case errors.Is(err, leave.ErrLeaveTypeInactive):
		BadRequest(w, "Leave type is inactive", nil)
	case errors.Is(err, leave.ErrLeaveTypeCodeExists):
		Conflict(w, "Leave type code already exists", nil)
	case errors.Is(err, leave.ErrReservationNotFound):
		NotFound(w, "Reservation not found")
	case errors.Is(err, leave.ErrAlreadyReleased):
		Conflict(w, "Reservation already released", nil)
	case errors.Is(err, leave.ErrInvalidReservationState):
		Conflict(w, "Reservation is not in the expected state", nil)
	case errors.Is(err, leave.ErrHolidayNotFound):
		NotFound(w, "Holiday not found")
	case errors.Is(err, leave.ErrBusy):
		TooManyRequests(w, "Another command for this employee is in progress, retry shortly")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Role errors
	case errors.Is(err, user.ErrManagerAccessRequired):
		Forbidden(w, "Manager access required")
	case errors.Is(err, user.ErrOwnerAccessRequired):
		Forbidden(w, "Owner access required")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
