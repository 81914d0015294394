package leave

import (
	"context"
	"time"

	"github.com/cmlabs-hris/leave-engine-go/internal/domain/user"
)

// SubmitCommand creates a new leave request on behalf of Actor.
type SubmitCommand struct {
	EmployeeID   string
	LeaveTypeID  string
	StartDate    time.Time
	EndDate      time.Time
	DurationType LeaveDurationEnum
	Reason       string
	Actor        user.Actor
}

// ActionCommand drives an existing request through the state machine.
// ExpectedRevision guards against lost updates: the command fails if the
// stored request has moved past it.
type ActionCommand struct {
	RequestID        string
	Action           Action
	Actor            user.Actor
	ExpectedRevision int64
	Comment          *string
}

// LeaveStatistics aggregates request counts for dashboards.
type LeaveStatistics struct {
	Total        int `json:"total"`
	Pending      int `json:"pending"`
	Approved     int `json:"approved"`
	Rejected     int `json:"rejected"`
	Cancelled    int `json:"cancelled"`
	Withdrawn    int `json:"withdrawn"`
	ThisMonth    int `json:"this_month"`
	ThisYear     int `json:"this_year"`
	OnLeaveToday int `json:"on_leave_today"`
}

// CalendarEvent is one entry in the month view: an approved leave or a
// public holiday.
type CalendarEvent struct {
	Kind        CalendarEventKind
	Title       string
	EmployeeID  string
	LeaveTypeID string
	StartDate   time.Time
	EndDate     time.Time
}

type CalendarEventKind string

const (
	CalendarEventLeave   CalendarEventKind = "leave"
	CalendarEventHoliday CalendarEventKind = "holiday"
)

type LeaveService interface {
	// Request lifecycle
	Submit(ctx context.Context, cmd SubmitCommand) (LeaveRequest, error)
	ApplyAction(ctx context.Context, cmd ActionCommand) (LeaveRequest, error)

	// Queries
	GetRequest(ctx context.Context, requestID string) (LeaveRequest, error)
	ListActiveRequests(ctx context.Context, employeeID string) ([]LeaveRequest, error)
	ListRequests(ctx context.Context, employeeID string, status *LeaveRequestStatus) ([]LeaveRequest, error)
	GetBalance(ctx context.Context, employeeID, leaveTypeID string) (Balance, error)
	ListBalances(ctx context.Context, employeeID string) ([]Balance, error)
	Statistics(ctx context.Context, employeeID *string) (LeaveStatistics, error)
	CalendarEvents(ctx context.Context, year int, month time.Month) ([]CalendarEvent, error)

	// Balance administration
	Accrue(ctx context.Context, employeeID, leaveTypeID string, units float64, reason string) (Balance, error)
	RunAccrual(ctx context.Context, now time.Time) error

	// Leave type administration
	CreateLeaveType(ctx context.Context, req CreateLeaveTypeRequest) (LeaveType, error)
	UpdateLeaveType(ctx context.Context, req UpdateLeaveTypeRequest) error
	ListLeaveTypes(ctx context.Context) ([]LeaveType, error)

	// Holiday administration
	CreateHoliday(ctx context.Context, req CreateHolidayRequest) (Holiday, error)
	ListHolidays(ctx context.Context) ([]Holiday, error)
	DeleteHoliday(ctx context.Context, id string) error
}
