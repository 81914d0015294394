package leave

import (
	"context"
	"time"
)

// LeaveTypeRepository - interface for leave_types table
type LeaveTypeRepository interface {
	Create(ctx context.Context, leaveType LeaveType) (LeaveType, error)
	GetByID(ctx context.Context, id string) (LeaveType, error)
	List(ctx context.Context) ([]LeaveType, error)
	Update(ctx context.Context, leaveType LeaveType) error
}

// LeaveRequestRepository - interface for leave_requests table.
// Update persists the request's current fields and appends the last history
// entry; history rows are never rewritten.
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	ListActiveByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error)
	ListByEmployee(ctx context.Context, employeeID string, status *LeaveRequestStatus) ([]LeaveRequest, error)
	ListAll(ctx context.Context) ([]LeaveRequest, error)
	Update(ctx context.Context, request LeaveRequest) error
}

// ReservationRepository - interface for balance_reservations table
type ReservationRepository interface {
	Create(ctx context.Context, reservation Reservation) (Reservation, error)
	GetByID(ctx context.Context, id string) (Reservation, error)
	Update(ctx context.Context, reservation Reservation) error
}

// BalanceRepository - interface for leave_balances table.
// Get returns a zero-valued balance (no error) when no row exists yet.
type BalanceRepository interface {
	Get(ctx context.Context, employeeID, leaveTypeID string) (Balance, error)
	Upsert(ctx context.Context, balance Balance) error
	ListByEmployee(ctx context.Context, employeeID string) ([]Balance, error)
}

// HolidayRepository - interface for holidays table
type HolidayRepository interface {
	Create(ctx context.Context, holiday Holiday) (Holiday, error)
	ListRange(ctx context.Context, from, to time.Time) ([]Holiday, error)
	List(ctx context.Context) ([]Holiday, error)
	Delete(ctx context.Context, id string) error
}
