package core

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/leave-engine-go/internal/domain/leave"
	"github.com/google/uuid"
)

// GetRequest implements leave.LeaveService.
func (e *Engine) GetRequest(ctx context.Context, requestID string) (leave.LeaveRequest, error) {
	request, err := e.requests.GetByID(ctx, requestID)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return request, nil
}

// ListActiveRequests implements leave.LeaveService.
func (e *Engine) ListActiveRequests(ctx context.Context, employeeID string) ([]leave.LeaveRequest, error) {
	requests, err := e.requests.ListActiveByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active requests: %w", err)
	}
	return requests, nil
}

// ListRequests implements leave.LeaveService.
func (e *Engine) ListRequests(ctx context.Context, employeeID string, status *leave.LeaveRequestStatus) ([]leave.LeaveRequest, error) {
	requests, err := e.requests.ListByEmployee(ctx, employeeID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return requests, nil
}

// GetBalance implements leave.LeaveService.
func (e *Engine) GetBalance(ctx context.Context, employeeID, leaveTypeID string) (leave.Balance, error) {
	if _, err := e.types.GetByID(ctx, leaveTypeID); err != nil {
		return leave.Balance{}, fmt.Errorf("failed to get leave type: %w", err)
	}

	balance, err := e.balances.Get(ctx, employeeID, leaveTypeID)
	if err != nil {
		return leave.Balance{}, fmt.Errorf("failed to get balance: %w", err)
	}
	balance.EmployeeID = employeeID
	balance.LeaveTypeID = leaveTypeID
	return balance, nil
}

// ListBalances implements leave.LeaveService.
func (e *Engine) ListBalances(ctx context.Context, employeeID string) ([]leave.Balance, error) {
	balances, err := e.balances.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list balances: %w", err)
	}
	return balances, nil
}

// Statistics implements leave.LeaveService. A nil employeeID aggregates over
// the whole roster.
func (e *Engine) Statistics(ctx context.Context, employeeID *string) (leave.LeaveStatistics, error) {
	var (
		requests []leave.LeaveRequest
		err      error
	)
	if employeeID != nil {
		requests, err = e.requests.ListByEmployee(ctx, *employeeID, nil)
	} else {
		requests, err = e.requests.ListAll(ctx)
	}
	if err != nil {
		return leave.LeaveStatistics{}, fmt.Errorf("failed to list requests: %w", err)
	}

	now := e.now()
	today := DateOnly(now)

	var stats leave.LeaveStatistics
	stats.Total = len(requests)
	for _, r := range requests {
		switch r.Status {
		case leave.LeaveRequestStatusPending:
			stats.Pending++
		case leave.LeaveRequestStatusApproved:
			stats.Approved++
		case leave.LeaveRequestStatusRejected:
			stats.Rejected++
		case leave.LeaveRequestStatusCancelled:
			stats.Cancelled++
		case leave.LeaveRequestStatusWithdrawn:
			stats.Withdrawn++
		}

		if r.SubmittedAt.Year() == now.Year() {
			stats.ThisYear++
			if r.SubmittedAt.Month() == now.Month() {
				stats.ThisMonth++
			}
		}

		if r.Status == leave.LeaveRequestStatusApproved && r.Overlaps(today, today) {
			stats.OnLeaveToday++
		}
	}

	return stats, nil
}

// CalendarEvents implements leave.LeaveService. The month view merges
// approved leaves with public holidays, sorted by start date.
func (e *Engine) CalendarEvents(ctx context.Context, year int, month time.Month) ([]leave.CalendarEvent, error) {
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	events := make([]leave.CalendarEvent, 0)

	holidays, err := e.holidays.ListRange(ctx, monthStart, monthEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	for _, h := range holidays {
		events = append(events, leave.CalendarEvent{
			Kind:      leave.CalendarEventHoliday,
			Title:     h.Name,
			StartDate: h.Date,
			EndDate:   h.Date,
		})
	}

	types, err := e.types.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}
	typeNames := make(map[string]string, len(types))
	for _, t := range types {
		typeNames[t.ID] = t.Name
	}

	requests, err := e.requests.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	for _, r := range requests {
		if r.Status != leave.LeaveRequestStatusApproved || !r.Overlaps(monthStart, monthEnd) {
			continue
		}
		events = append(events, leave.CalendarEvent{
			Kind:        leave.CalendarEventLeave,
			Title:       typeNames[r.LeaveTypeID],
			EmployeeID:  r.EmployeeID,
			LeaveTypeID: r.LeaveTypeID,
			StartDate:   r.StartDate,
			EndDate:     r.EndDate,
		})
	}

	sort.Slice(events, func(i, j int) bool {
		if events[i].StartDate.Equal(events[j].StartDate) {
			return events[i].Kind < events[j].Kind
		}
		return events[i].StartDate.Before(events[j].StartDate)
	})
	return events, nil
}

// Accrue implements leave.LeaveService. Manual grants (opening balances,
// adjustments) run under the employee lock like any other ledger mutation.
func (e *Engine) Accrue(ctx context.Context, employeeID, leaveTypeID string, units float64, reason string) (leave.Balance, error) {
	release, err := e.locks.Acquire(ctx, employeeID)
	if err != nil {
		return leave.Balance{}, leave.ErrBusy
	}
	defer release()

	if _, err := e.employees.GetByID(ctx, employeeID); err != nil {
		return leave.Balance{}, fmt.Errorf("failed to get employee: %w", err)
	}
	if _, err := e.types.GetByID(ctx, leaveTypeID); err != nil {
		return leave.Balance{}, fmt.Errorf("failed to get leave type: %w", err)
	}

	if reason == "" {
		reason = "manual adjustment"
	}
	return e.ledger.Accrue(ctx, employeeID, leaveTypeID, units, reason)
}

// CreateLeaveType implements leave.LeaveService. New types are exclusive and
// balance-consuming unless the caller says otherwise.
func (e *Engine) CreateLeaveType(ctx context.Context, req leave.CreateLeaveTypeRequest) (leave.LeaveType, error) {
	existing, err := e.types.List(ctx)
	if err != nil {
		return leave.LeaveType{}, fmt.Errorf("failed to list leave types: %w", err)
	}
	for _, t := range existing {
		if t.Code == req.Code {
			return leave.LeaveType{}, leave.ErrLeaveTypeCodeExists
		}
	}

	accrualMethod := leave.AccrualNone
	if req.AccrualMethod != "" {
		accrualMethod = leave.AccrualMethod(req.AccrualMethod)
	}
	consumesBalance := true
	if req.ConsumesBalance != nil {
		consumesBalance = *req.ConsumesBalance
	}
	exclusive := true
	if req.Exclusive != nil {
		exclusive = *req.Exclusive
	}

	now := e.now()
	leaveType := leave.LeaveType{
		ID:              uuid.Must(uuid.NewV7()).String(),
		Name:            req.Name,
		Code:            req.Code,
		Description:     req.Description,
		IsActive:        true,
		AccrualMethod:   accrualMethod,
		AccrualUnits:    req.AccrualUnits,
		AllowNegative:   req.AllowNegative,
		ConsumesBalance: consumesBalance,
		Exclusive:       exclusive,
		AllowHalfDay:    req.AllowHalfDay,
		MinRequestDays:  req.MinRequestDays,
		MaxRequestDays:  req.MaxRequestDays,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	created, err := e.types.Create(ctx, leaveType)
	if err != nil {
		return leave.LeaveType{}, fmt.Errorf("failed to create leave type: %w", err)
	}
	return created, nil
}

// UpdateLeaveType implements leave.LeaveService.
func (e *Engine) UpdateLeaveType(ctx context.Context, req leave.UpdateLeaveTypeRequest) error {
	leaveType, err := e.types.GetByID(ctx, req.ID)
	if err != nil {
		return fmt.Errorf("failed to get leave type: %w", err)
	}

	if req.Name != nil {
		leaveType.Name = *req.Name
	}
	if req.Description != nil {
		leaveType.Description = req.Description
	}
	if req.IsActive != nil {
		leaveType.IsActive = *req.IsActive
	}
	if req.AccrualMethod != nil {
		leaveType.AccrualMethod = leave.AccrualMethod(*req.AccrualMethod)
	}
	if req.AccrualUnits != nil {
		leaveType.AccrualUnits = *req.AccrualUnits
	}
	if req.AllowNegative != nil {
		leaveType.AllowNegative = *req.AllowNegative
	}
	if req.ConsumesBalance != nil {
		leaveType.ConsumesBalance = *req.ConsumesBalance
	}
	if req.Exclusive != nil {
		leaveType.Exclusive = *req.Exclusive
	}
	if req.AllowHalfDay != nil {
		leaveType.AllowHalfDay = *req.AllowHalfDay
	}
	if req.MinRequestDays != nil {
		leaveType.MinRequestDays = req.MinRequestDays
	}
	if req.MaxRequestDays != nil {
		leaveType.MaxRequestDays = req.MaxRequestDays
	}
	leaveType.UpdatedAt = e.now()

	if err := e.types.Update(ctx, leaveType); err != nil {
		return fmt.Errorf("failed to update leave type: %w", err)
	}
	return nil
}

// ListLeaveTypes implements leave.LeaveService.
func (e *Engine) ListLeaveTypes(ctx context.Context) ([]leave.LeaveType, error) {
	types, err := e.types.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}
	return types, nil
}

// CreateHoliday implements leave.LeaveService.
func (e *Engine) CreateHoliday(ctx context.Context, req leave.CreateHolidayRequest) (leave.Holiday, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return leave.Holiday{}, fmt.Errorf("%w: invalid holiday date", leave.ErrInvalidRange)
	}

	holiday := leave.Holiday{
		ID:          uuid.Must(uuid.NewV7()).String(),
		Name:        req.Name,
		Date:        DateOnly(date),
		Description: req.Description,
		CreatedAt:   e.now(),
	}

	created, err := e.holidays.Create(ctx, holiday)
	if err != nil {
		return leave.Holiday{}, fmt.Errorf("failed to create holiday: %w", err)
	}
	return created, nil
}

// ListHolidays implements leave.LeaveService.
func (e *Engine) ListHolidays(ctx context.Context) ([]leave.Holiday, error) {
	holidays, err := e.holidays.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	return holidays, nil
}

// DeleteHoliday implements leave.LeaveService.
func (e *Engine) DeleteHoliday(ctx context.Context, id string) error {
	if err := e.holidays.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete holiday: %w", err)
	}
	return nil
}
