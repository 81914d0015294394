package leave

import (
	"time"
)

// AccrualMethod maps to accrual_method_enum in DB
type AccrualMethod string

const (
	AccrualNone    AccrualMethod = "none"
	AccrualMonthly AccrualMethod = "monthly"
	AccrualYearly  AccrualMethod = "yearly"
)

// LeaveType entity
type LeaveType struct {
	ID          string
	Name        string
	Code        string
	Description *string

	// Policy Rules
	IsActive bool

	// Accrual Rules
	AccrualMethod AccrualMethod
	AccrualUnits  float64 // units granted per accrual period

	// Balance Rules
	AllowNegative   bool // e.g. unpaid leave may drive the balance below zero
	ConsumesBalance bool // non-consuming types skip the ledger entirely

	// Scheduling Rules
	Exclusive    bool // exclusive types may not overlap other active requests
	AllowHalfDay bool

	// Request Rules
	MinRequestDays *int
	MaxRequestDays *int

	CreatedAt time.Time
	UpdatedAt time.Time
}

type LeaveRequestStatus string

const (
	LeaveRequestStatusPending   LeaveRequestStatus = "pending"
	LeaveRequestStatusApproved  LeaveRequestStatus = "approved"
	LeaveRequestStatusRejected  LeaveRequestStatus = "rejected"
	LeaveRequestStatusCancelled LeaveRequestStatus = "cancelled"
	LeaveRequestStatusWithdrawn LeaveRequestStatus = "withdrawn"
)

// IsActive reports whether the request still occupies its date range.
// Only active requests participate in overlap detection.
func (s LeaveRequestStatus) IsActive() bool {
	return s == LeaveRequestStatusPending || s == LeaveRequestStatusApproved
}

// IsTerminal reports whether the request reached a final state. Terminal
// requests never mutate balance again; approved is terminal for accounting
// but may still be cancelled before its start date.
func (s LeaveRequestStatus) IsTerminal() bool {
	return s == LeaveRequestStatusRejected || s == LeaveRequestStatusCancelled || s == LeaveRequestStatusWithdrawn
}

// Action is a lifecycle command applied to a leave request.
type Action string

const (
	ActionSubmit   Action = "submit"
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
	ActionWithdraw Action = "withdraw"
	ActionCancel   Action = "cancel"
)

// LeaveDurationEnum maps to leave_duration_enum in DB
type LeaveDurationEnum string

const (
	LeaveDurationFullDay          LeaveDurationEnum = "full_day"
	LeaveDurationHalfDayMorning   LeaveDurationEnum = "half_day_morning"
	LeaveDurationHalfDayAfternoon LeaveDurationEnum = "half_day_afternoon"
)

func (d LeaveDurationEnum) IsHalfDay() bool {
	return d == LeaveDurationHalfDayMorning || d == LeaveDurationHalfDayAfternoon
}

// Transition is one entry in a request's append-only state history.
type Transition struct {
	From    LeaveRequestStatus
	To      LeaveRequestStatus
	Action  Action
	ActorID string
	Comment *string
	At      time.Time
}

// LeaveRequest entity
type LeaveRequest struct {
	ID          string
	EmployeeID  string
	LeaveTypeID string

	// Inclusive date range, date-only granularity (UTC midnight).
	StartDate time.Time
	EndDate   time.Time

	DurationType LeaveDurationEnum
	WorkingDays  float64 // derived from range and the working-day calendar

	Reason string

	Status        LeaveRequestStatus
	Revision      int64
	ReservationID *string

	// History is append-only; the current status always equals the last
	// entry's To field.
	History []Transition

	SubmittedAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CurrentTransition returns the most recent history entry.
func (r LeaveRequest) CurrentTransition() (Transition, bool) {
	if len(r.History) == 0 {
		return Transition{}, false
	}
	return r.History[len(r.History)-1], true
}

// Overlaps reports whether the request's range intersects [start, end].
// Boundaries are inclusive: a request ending the day another begins overlaps.
func (r LeaveRequest) Overlaps(start, end time.Time) bool {
	return !r.StartDate.After(end) && !start.After(r.EndDate)
}

type ReservationState string

const (
	ReservationHeld      ReservationState = "held"
	ReservationCommitted ReservationState = "committed"
	ReservationReleased  ReservationState = "released"
)

// Reservation links a leave request to units held against an employee's
// balance. At most one non-released reservation exists per request, and each
// reservation is committed or released exactly once, never both.
type Reservation struct {
	ID          string
	RequestID   string
	EmployeeID  string
	LeaveTypeID string
	Units       float64
	State       ReservationState

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Balance is the authoritative per-employee, per-leave-type accounting row.
// Mutated only through ledger operations.
type Balance struct {
	EmployeeID  string
	LeaveTypeID string

	Accrued   float64
	Held      float64
	Committed float64

	UpdatedAt time.Time
}

// Available returns units an employee may still reserve.
func (b Balance) Available() float64 {
	return b.Accrued - b.Held - b.Committed
}

// Holiday entity. Holidays are excluded from working-day totals.
type Holiday struct {
	ID          string
	Name        string
	Date        time.Time
	Description *string

	CreatedAt time.Time
}
