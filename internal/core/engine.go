// Package core implements the leave request state machine and
// balance-accounting engine: balance ledger, conflict detector, approval
// state machine and the orchestrator that composes them into atomic
// per-employee commands.
package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/leave-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/leave-engine-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-engine-go/internal/pkg/events"
	"github.com/cmlabs-hris/leave-engine-go/internal/pkg/lock"
	"github.com/google/uuid"
)

// Engine orchestrates leave commands. Each command acquires the employee's
// lock for its full duration, so validation, overlap detection, ledger
// mutation and persistence never interleave with another command for the
// same employee. Commands for different employees run fully concurrently.
type Engine struct {
	locks     *lock.Keyed
	employees employee.EmployeeRepository
	types     leave.LeaveTypeRepository
	requests  leave.LeaveRequestRepository
	holidays  leave.HolidayRepository
	balances  leave.BalanceRepository

	ledger   *Ledger
	detector *ConflictDetector
	calendar *Calendar

	hub    *events.Hub
	logger *slog.Logger
	now    func() time.Time

	accrual accrualState
}

// Repositories bundles the stores the engine runs on.
type Repositories struct {
	Employees    employee.EmployeeRepository
	Types        leave.LeaveTypeRepository
	Requests     leave.LeaveRequestRepository
	Reservations leave.ReservationRepository
	Balances     leave.BalanceRepository
	Holidays     leave.HolidayRepository
}

func NewEngine(repos Repositories, hub *events.Hub, logger *slog.Logger, lockWait time.Duration) *Engine {
	return &Engine{
		locks:     lock.NewKeyed(lockWait),
		employees: repos.Employees,
		types:     repos.Types,
		requests:  repos.Requests,
		holidays:  repos.Holidays,
		balances:  repos.Balances,
		ledger:    NewLedger(repos.Types, repos.Balances, repos.Reservations, hub, logger),
		detector:  NewConflictDetector(repos.Requests, repos.Types),
		calendar:  NewCalendar(repos.Holidays),
		hub:       hub,
		logger:    logger,
		now:       time.Now,
		accrual:   newAccrualState(),
	}
}

// Ledger exposes the balance ledger for collaborators that accrue directly
// (cron jobs, admin endpoints go through Accrue instead).
func (e *Engine) Ledger() *Ledger {
	return e.ledger
}

var _ leave.LeaveService = (*Engine)(nil)

// Submit implements leave.LeaveService.
func (e *Engine) Submit(ctx context.Context, cmd leave.SubmitCommand) (leave.LeaveRequest, error) {
	// Employees submit their own requests; approvers may submit on behalf
	// of a report.
	if !cmd.Actor.IsRequester(cmd.EmployeeID) && !cmd.Actor.CanApprove() {
		return leave.LeaveRequest{}, leave.ErrForbidden
	}

	release, err := e.locks.Acquire(ctx, cmd.EmployeeID)
	if err != nil {
		return leave.LeaveRequest{}, leave.ErrBusy
	}
	defer release()

	if _, err := e.employees.GetByID(ctx, cmd.EmployeeID); err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to get employee: %w", err)
	}

	leaveType, err := e.types.GetByID(ctx, cmd.LeaveTypeID)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave type: %w", err)
	}
	if !leaveType.IsActive {
		return leave.LeaveRequest{}, leave.ErrLeaveTypeInactive
	}

	startDate := DateOnly(cmd.StartDate)
	endDate := DateOnly(cmd.EndDate)
	if err := e.validateDates(leaveType, startDate, endDate, cmd.DurationType); err != nil {
		return leave.LeaveRequest{}, err
	}

	workingDays, err := e.calendar.WorkingDays(ctx, startDate, endDate, cmd.DurationType)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to calculate working days: %w", err)
	}
	if workingDays == 0 {
		return leave.LeaveRequest{}, fmt.Errorf("%w: no working days in range", leave.ErrInvalidRange)
	}

	if leaveType.Exclusive {
		overlaps, err := e.detector.FindOverlaps(ctx, cmd.EmployeeID, startDate, endDate, "")
		if err != nil {
			return leave.LeaveRequest{}, fmt.Errorf("failed to check overlapping requests: %w", err)
		}
		if len(overlaps) > 0 {
			ids := make([]string, 0, len(overlaps))
			for _, o := range overlaps {
				ids = append(ids, o.ID)
			}
			return leave.LeaveRequest{}, &leave.OverlapError{ConflictingIDs: ids}
		}
	}

	requestID := uuid.Must(uuid.NewV7()).String()

	var reservationID *string
	if leaveType.ConsumesBalance {
		reservation, err := e.ledger.Reserve(ctx, cmd.EmployeeID, leaveType.ID, workingDays, requestID)
		if err != nil {
			return leave.LeaveRequest{}, err
		}
		reservationID = &reservation.ID
	}

	now := e.now()
	durationType := cmd.DurationType
	if durationType == "" {
		durationType = leave.LeaveDurationFullDay
	}
	request := leave.LeaveRequest{
		ID:            requestID,
		EmployeeID:    cmd.EmployeeID,
		LeaveTypeID:   leaveType.ID,
		StartDate:     startDate,
		EndDate:       endDate,
		DurationType:  durationType,
		WorkingDays:   workingDays,
		Reason:        cmd.Reason,
		Status:        leave.LeaveRequestStatusPending,
		Revision:      1,
		ReservationID: reservationID,
		History: []leave.Transition{{
			To:      leave.LeaveRequestStatusPending,
			Action:  leave.ActionSubmit,
			ActorID: cmd.Actor.ID,
			At:      now,
		}},
		SubmittedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := e.requests.Create(ctx, request)
	if err != nil {
		// Roll back the hold so the failure leaves no partial state.
		if reservationID != nil {
			if rbErr := e.ledger.Release(ctx, *reservationID); rbErr != nil {
				e.logger.Error("failed to roll back reservation",
					"reservation_id", *reservationID, "error", rbErr)
			}
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	e.hub.Publish(events.Event{
		EmployeeID: created.EmployeeID,
		Name:       leave.EventRequestSubmitted,
		Data: leave.RequestSubmittedEvent{
			RequestID:   created.ID,
			EmployeeID:  created.EmployeeID,
			LeaveTypeID: created.LeaveTypeID,
			StartDate:   created.StartDate,
			EndDate:     created.EndDate,
			WorkingDays: created.WorkingDays,
		},
	})

	e.logger.Info("leave request submitted",
		"request_id", created.ID,
		"employee_id", created.EmployeeID,
		"leave_type_id", created.LeaveTypeID,
		"working_days", created.WorkingDays,
	)

	return created, nil
}

// ApplyAction implements leave.LeaveService.
func (e *Engine) ApplyAction(ctx context.Context, cmd leave.ActionCommand) (leave.LeaveRequest, error) {
	if cmd.Action == leave.ActionSubmit {
		return leave.LeaveRequest{}, leave.ErrIllegalTransition
	}

	// First load only tells us which employee to lock.
	found, err := e.requests.GetByID(ctx, cmd.RequestID)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}

	release, err := e.locks.Acquire(ctx, found.EmployeeID)
	if err != nil {
		return leave.LeaveRequest{}, leave.ErrBusy
	}
	defer release()

	// Re-load under the lock; the request may have moved.
	request, err := e.requests.GetByID(ctx, cmd.RequestID)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}

	if request.Revision != cmd.ExpectedRevision {
		return leave.LeaveRequest{}, &leave.StaleRevisionError{
			Expected: cmd.ExpectedRevision,
			Current:  request.Revision,
		}
	}

	rule, err := resolveTransition(request.Status, cmd.Action)
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	today := DateOnly(e.now())
	if err := rule.guard(cmd.Actor, request, today); err != nil {
		return leave.LeaveRequest{}, err
	}

	// The ledger effect runs first; if it fails, no transition is recorded.
	if request.ReservationID != nil {
		switch rule.effect {
		case effectCommit:
			err = e.ledger.Commit(ctx, *request.ReservationID)
		case effectRelease:
			err = e.ledger.Release(ctx, *request.ReservationID)
		}
		if err != nil {
			return leave.LeaveRequest{}, err
		}
	}

	now := e.now()
	from := request.Status
	request.History = append(request.History, leave.Transition{
		From:    from,
		To:      rule.next,
		Action:  cmd.Action,
		ActorID: cmd.Actor.ID,
		Comment: cmd.Comment,
		At:      now,
	})
	request.Status = rule.next
	request.Revision++
	request.UpdatedAt = now

	if err := e.requests.Update(ctx, request); err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to update leave request: %w", err)
	}

	e.hub.Publish(events.Event{
		EmployeeID: request.EmployeeID,
		Name:       leave.EventRequestTransitioned,
		Data: leave.RequestTransitionedEvent{
			RequestID:  request.ID,
			EmployeeID: request.EmployeeID,
			From:       from,
			To:         request.Status,
			Action:     cmd.Action,
			ActorID:    cmd.Actor.ID,
		},
	})

	e.logger.Info("leave request transitioned",
		"request_id", request.ID,
		"from", from,
		"to", request.Status,
		"action", cmd.Action,
		"actor_id", cmd.Actor.ID,
	)

	return request, nil
}

func (e *Engine) validateDates(
	leaveType leave.LeaveType,
	startDate, endDate time.Time,
	durationType leave.LeaveDurationEnum,
) error {
	if startDate.After(endDate) {
		return fmt.Errorf("%w: start date is after end date", leave.ErrInvalidRange)
	}

	today := DateOnly(e.now())
	if endDate.Before(today) {
		return fmt.Errorf("%w: range is entirely in the past", leave.ErrInvalidRange)
	}

	if durationType.IsHalfDay() {
		if !leaveType.AllowHalfDay {
			return fmt.Errorf("%w: leave type does not allow half days", leave.ErrInvalidRange)
		}
		if !startDate.Equal(endDate) {
			return fmt.Errorf("%w: half-day requests must cover a single date", leave.ErrInvalidRange)
		}
	}

	totalDays := int(endDate.Sub(startDate).Hours()/24) + 1
	if leaveType.MinRequestDays != nil && totalDays < *leaveType.MinRequestDays {
		return fmt.Errorf("%w: below minimum of %d days", leave.ErrInvalidRange, *leaveType.MinRequestDays)
	}
	if leaveType.MaxRequestDays != nil && totalDays > *leaveType.MaxRequestDays {
		return fmt.Errorf("%w: exceeds maximum of %d days", leave.ErrInvalidRange, *leaveType.MaxRequestDays)
	}

	return nil
}
