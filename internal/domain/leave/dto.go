package leave

import (
	"time"

	"github.com/cmlabs-hris/leave-engine-go/internal/pkg/validator"
)

var durationTypes = []string{
	string(LeaveDurationFullDay),
	string(LeaveDurationHalfDayMorning),
	string(LeaveDurationHalfDayAfternoon),
}

type SubmitLeaveRequestRequest struct {
	LeaveTypeID  string `json:"leave_type_id"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	DurationType string `json:"duration_type,omitempty"`
	Reason       string `json:"reason"`
}

func (r *SubmitLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.LeaveTypeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type_id",
			Message: "leave_type_id is required",
		})
	}

	if _, ok := validator.IsValidDate(r.StartDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be a valid date (YYYY-MM-DD)",
		})
	}

	if _, ok := validator.IsValidDate(r.EndDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be a valid date (YYYY-MM-DD)",
		})
	}

	if r.DurationType != "" && !validator.IsInSlice(r.DurationType, durationTypes) {
		errs = append(errs, validator.ValidationError{
			Field:   "duration_type",
			Message: "duration_type must be one of full_day, half_day_morning, half_day_afternoon",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ActionRequestRequest struct {
	ExpectedRevision int64   `json:"expected_revision"`
	Comment          *string `json:"comment,omitempty"`
}

func (r *ActionRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ExpectedRevision < 1 {
		errs = append(errs, validator.ValidationError{
			Field:   "expected_revision",
			Message: "expected_revision must be a positive revision number",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CreateLeaveTypeRequest struct {
	Name            string  `json:"leave_type_name"`
	Code            string  `json:"leave_type_code"`
	Description     *string `json:"leave_type_description,omitempty"`
	AccrualMethod   string  `json:"accrual_method,omitempty"`
	AccrualUnits    float64 `json:"accrual_units,omitempty"`
	AllowNegative   bool    `json:"allow_negative,omitempty"`
	ConsumesBalance *bool   `json:"consumes_balance,omitempty"`
	Exclusive       *bool   `json:"exclusive,omitempty"`
	AllowHalfDay    bool    `json:"allow_half_day,omitempty"`
	MinRequestDays  *int    `json:"min_request_days,omitempty"`
	MaxRequestDays  *int    `json:"max_request_days,omitempty"`
}

var accrualMethods = []string{
	string(AccrualNone),
	string(AccrualMonthly),
	string(AccrualYearly),
}

func (r *CreateLeaveTypeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type_name",
			Message: "leave_type_name is required",
		})
	}
	if len(r.Name) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type_name",
			Message: "leave_type_name must not exceed 255 characters",
		})
	}

	if validator.IsEmpty(r.Code) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type_code",
			Message: "leave_type_code is required",
		})
	}

	if r.AccrualMethod != "" && !validator.IsInSlice(r.AccrualMethod, accrualMethods) {
		errs = append(errs, validator.ValidationError{
			Field:   "accrual_method",
			Message: "accrual_method must be one of none, monthly, yearly",
		})
	}

	if r.AccrualUnits < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "accrual_units",
			Message: "accrual_units must not be negative",
		})
	}

	if r.MinRequestDays != nil && *r.MinRequestDays < 1 {
		errs = append(errs, validator.ValidationError{
			Field:   "min_request_days",
			Message: "min_request_days must be at least 1",
		})
	}
	if r.MaxRequestDays != nil && *r.MaxRequestDays < 1 {
		errs = append(errs, validator.ValidationError{
			Field:   "max_request_days",
			Message: "max_request_days must be at least 1",
		})
	}
	if r.MinRequestDays != nil && r.MaxRequestDays != nil && *r.MinRequestDays > *r.MaxRequestDays {
		errs = append(errs, validator.ValidationError{
			Field:   "min_request_days",
			Message: "min_request_days must not exceed max_request_days",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateLeaveTypeRequest struct {
	ID              string   `json:"leave_type_id"`
	Name            *string  `json:"leave_type_name,omitempty"`
	Description     *string  `json:"leave_type_description,omitempty"`
	IsActive        *bool    `json:"is_active,omitempty"`
	AccrualMethod   *string  `json:"accrual_method,omitempty"`
	AccrualUnits    *float64 `json:"accrual_units,omitempty"`
	AllowNegative   *bool    `json:"allow_negative,omitempty"`
	ConsumesBalance *bool    `json:"consumes_balance,omitempty"`
	Exclusive       *bool    `json:"exclusive,omitempty"`
	AllowHalfDay    *bool    `json:"allow_half_day,omitempty"`
	MinRequestDays  *int     `json:"min_request_days,omitempty"`
	MaxRequestDays  *int     `json:"max_request_days,omitempty"`
}

func (r *UpdateLeaveTypeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type_id",
			Message: "leave_type_id is required",
		})
	}

	if r.Name != nil {
		if validator.IsEmpty(*r.Name) {
			errs = append(errs, validator.ValidationError{
				Field:   "leave_type_name",
				Message: "leave_type_name must not be empty",
			})
		}
		if len(*r.Name) > 255 {
			errs = append(errs, validator.ValidationError{
				Field:   "leave_type_name",
				Message: "leave_type_name must not exceed 255 characters",
			})
		}
	}

	if r.AccrualMethod != nil && !validator.IsInSlice(*r.AccrualMethod, accrualMethods) {
		errs = append(errs, validator.ValidationError{
			Field:   "accrual_method",
			Message: "accrual_method must be one of none, monthly, yearly",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CreateHolidayRequest struct {
	Name        string  `json:"holiday_name"`
	Date        string  `json:"holiday_date"`
	Description *string `json:"holiday_description,omitempty"`
}

func (r *CreateHolidayRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "holiday_name",
			Message: "holiday_name is required",
		})
	}

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "holiday_date",
			Message: "holiday_date must be a valid date (YYYY-MM-DD)",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AccrueRequest struct {
	EmployeeID  string  `json:"employee_id"`
	LeaveTypeID string  `json:"leave_type_id"`
	Units       float64 `json:"units"`
	Reason      string  `json:"reason,omitempty"`
}

func (r *AccrueRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}
	if validator.IsEmpty(r.LeaveTypeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type_id",
			Message: "leave_type_id is required",
		})
	}
	if r.Units <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "units",
			Message: "units must be positive",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// TransitionResponse is one history entry in API responses.
type TransitionResponse struct {
	From    LeaveRequestStatus `json:"from,omitempty"`
	To      LeaveRequestStatus `json:"to"`
	Action  Action             `json:"action"`
	ActorID string             `json:"actor_id"`
	Comment *string            `json:"comment,omitempty"`
	At      time.Time          `json:"at"`
}

// LeaveRequestResponse is the request snapshot returned to callers.
type LeaveRequestResponse struct {
	ID           string               `json:"leave_request_id"`
	EmployeeID   string               `json:"employee_id"`
	LeaveTypeID  string               `json:"leave_type_id"`
	StartDate    string               `json:"start_date"`
	EndDate      string               `json:"end_date"`
	DurationType LeaveDurationEnum    `json:"duration_type"`
	WorkingDays  float64              `json:"working_days"`
	Reason       string               `json:"reason,omitempty"`
	Status       LeaveRequestStatus   `json:"status"`
	Revision     int64                `json:"revision"`
	History      []TransitionResponse `json:"history"`
	SubmittedAt  time.Time            `json:"submitted_at"`
}

func ToLeaveRequestResponse(r LeaveRequest) LeaveRequestResponse {
	history := make([]TransitionResponse, 0, len(r.History))
	for _, tr := range r.History {
		history = append(history, TransitionResponse{
			From:    tr.From,
			To:      tr.To,
			Action:  tr.Action,
			ActorID: tr.ActorID,
			Comment: tr.Comment,
			At:      tr.At,
		})
	}

	return LeaveRequestResponse{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		LeaveTypeID:  r.LeaveTypeID,
		StartDate:    r.StartDate.Format("2006-01-02"),
		EndDate:      r.EndDate.Format("2006-01-02"),
		DurationType: r.DurationType,
		WorkingDays:  r.WorkingDays,
		Reason:       r.Reason,
		Status:       r.Status,
		Revision:     r.Revision,
		History:      history,
		SubmittedAt:  r.SubmittedAt,
	}
}

// BalanceResponse exposes the accounting triple plus the derived available.
type BalanceResponse struct {
	EmployeeID  string  `json:"employee_id"`
	LeaveTypeID string  `json:"leave_type_id"`
	Accrued     float64 `json:"accrued"`
	Held        float64 `json:"held"`
	Committed   float64 `json:"committed"`
	Available   float64 `json:"available"`
}

func ToBalanceResponse(b Balance) BalanceResponse {
	return BalanceResponse{
		EmployeeID:  b.EmployeeID,
		LeaveTypeID: b.LeaveTypeID,
		Accrued:     b.Accrued,
		Held:        b.Held,
		Committed:   b.Committed,
		Available:   b.Available(),
	}
}

type CalendarEventResponse struct {
	Kind        CalendarEventKind `json:"kind"`
	Title       string            `json:"title"`
	EmployeeID  string            `json:"employee_id,omitempty"`
	LeaveTypeID string            `json:"leave_type_id,omitempty"`
	StartDate   string            `json:"start_date"`
	EndDate     string            `json:"end_date"`
}

func ToCalendarEventResponse(e CalendarEvent) CalendarEventResponse {
	return CalendarEventResponse{
		Kind:        e.Kind,
		Title:       e.Title,
		EmployeeID:  e.EmployeeID,
		LeaveTypeID: e.LeaveTypeID,
		StartDate:   e.StartDate.Format("2006-01-02"),
		EndDate:     e.EndDate.Format("2006-01-02"),
	}
}
