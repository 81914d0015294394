package leave

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidRange            = errors.New("invalid date range")
	ErrInsufficientBalance     = errors.New("insufficient leave balance")
	ErrIllegalTransition       = errors.New("action is not allowed in the current request state")
	ErrForbidden               = errors.New("actor is not allowed to perform this action")
	ErrRequestNotFound         = errors.New("leave request not found")
	ErrLeaveTypeNotFound       = errors.New("leave type not found")
	ErrLeaveTypeInactive       = errors.New("leave type is inactive")
	ErrLeaveTypeCodeExists     = errors.New("leave type code already exists")
	ErrReservationNotFound     = errors.New("reservation not found")
	ErrAlreadyReleased         = errors.New("reservation already released")
	ErrInvalidReservationState = errors.New("reservation is not in the expected state")
	ErrHolidayNotFound         = errors.New("holiday not found")
	ErrBusy                    = errors.New("employee is busy processing another command")
)

// OverlapError reports the active requests that conflict with a proposed
// date range.
type OverlapError struct {
	ConflictingIDs []string
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("date range overlaps active requests: %s", strings.Join(e.ConflictingIDs, ", "))
}

// StaleRevisionError is returned when an action carries an expected revision
// that no longer matches the stored request.
type StaleRevisionError struct {
	Expected int64
	Current  int64
}

func (e *StaleRevisionError) Error() string {
	return fmt.Sprintf("stale revision: expected %d, current %d", e.Expected, e.Current)
}
