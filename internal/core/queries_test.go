package core

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/leave-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/leave-engine-go/internal/domain/leave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateLeaveTypeDefaultsAndDuplicates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.engine.CreateLeaveType(ctx, leave.CreateLeaveTypeRequest{
		Name: "Compassionate Leave",
		Code: "COMPASSIONATE",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.True(t, created.IsActive)
	assert.Equal(t, leave.AccrualNone, created.AccrualMethod)
	assert.True(t, created.ConsumesBalance)
	assert.True(t, created.Exclusive)

	_, err = env.engine.CreateLeaveType(ctx, leave.CreateLeaveTypeRequest{
		Name: "Compassionate Leave Again",
		Code: "COMPASSIONATE",
	})
	assert.ErrorIs(t, err, leave.ErrLeaveTypeCodeExists)
}

func TestUpdateLeaveTypeAppliesOnlyProvidedFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	name := "Annual Leave (revised)"
	inactive := false
	err := env.engine.UpdateLeaveType(ctx, leave.UpdateLeaveTypeRequest{
		ID:       env.annualTypeID,
		Name:     &name,
		IsActive: &inactive,
	})
	require.NoError(t, err)

	updated, err := env.repos.Types.GetByID(ctx, env.annualTypeID)
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.False(t, updated.IsActive)
	// Untouched fields keep their values.
	assert.Equal(t, "ANNUAL", updated.Code)
	assert.Equal(t, leave.AccrualMonthly, updated.AccrualMethod)

	err = env.engine.UpdateLeaveType(ctx, leave.UpdateLeaveTypeRequest{ID: "missing"})
	assert.ErrorIs(t, err, leave.ErrLeaveTypeNotFound)
}

func TestSubmitAgainstInactiveType(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	inactive := false
	require.NoError(t, env.engine.UpdateLeaveType(ctx, leave.UpdateLeaveTypeRequest{
		ID:       env.annualTypeID,
		IsActive: &inactive,
	}))

	_, err := env.engine.Submit(ctx, leave.SubmitCommand{
		EmployeeID:  "emp-1",
		LeaveTypeID: env.annualTypeID,
		StartDate:   date(7),
		EndDate:     date(11),
		Actor:       employeeActor,
	})
	assert.ErrorIs(t, err, leave.ErrLeaveTypeInactive)
}

func TestCreateHoliday(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.engine.CreateHoliday(ctx, leave.CreateHolidayRequest{
		Name: "Founders Day",
		Date: "2026-03-11",
	})
	require.NoError(t, err)
	assert.Equal(t, 11, created.Date.Day())

	_, err = env.engine.CreateHoliday(ctx, leave.CreateHolidayRequest{
		Name: "Broken",
		Date: "11/03/2026",
	})
	assert.ErrorIs(t, err, leave.ErrInvalidRange)

	require.NoError(t, env.engine.DeleteHoliday(ctx, created.ID))
	assert.ErrorIs(t, env.engine.DeleteHoliday(ctx, created.ID), leave.ErrHolidayNotFound)
}

func TestManualAccrue(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	balance, err := env.engine.Accrue(ctx, "emp-1", env.annualTypeID, 2.5, "carry-over correction")
	require.NoError(t, err)
	assert.Equal(t, 12.5, balance.Accrued)

	_, err = env.engine.Accrue(ctx, "ghost", env.annualTypeID, 1, "")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	_, err = env.engine.Accrue(ctx, "emp-1", "missing-type", 1, "")
	assert.ErrorIs(t, err, leave.ErrLeaveTypeNotFound)
}

func TestCalendarEvents(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.engine.CreateHoliday(ctx, leave.CreateHolidayRequest{
		Name: "Founders Day",
		Date: "2026-03-25",
	})
	require.NoError(t, err)

	// Approved Mon 2026-03-09 .. Fri 2026-03-13.
	approved := env.submit(t, employeeActor, date(7), date(11))
	_, err = env.engine.ApplyAction(ctx, leave.ActionCommand{
		RequestID:        approved.ID,
		Action:           leave.ActionApprove,
		Actor:            managerActor,
		ExpectedRevision: 1,
	})
	require.NoError(t, err)

	// Still pending; must not show on the calendar.
	env.submit(t, employeeActor, date(14), date(18))

	events, err := env.engine.CalendarEvents(ctx, 2026, time.March)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, leave.CalendarEventLeave, events[0].Kind)
	assert.Equal(t, "emp-1", events[0].EmployeeID)
	assert.Equal(t, "Annual Leave", events[0].Title)
	assert.Equal(t, leave.CalendarEventHoliday, events[1].Kind)
	assert.Equal(t, "Founders Day", events[1].Title)

	// A month with no activity is empty.
	events, err = env.engine.CalendarEvents(ctx, 2026, time.June)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestGetBalanceForUnknownTypeFails(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.engine.GetBalance(context.Background(), "emp-1", "missing-type")
	assert.ErrorIs(t, err, leave.ErrLeaveTypeNotFound)
}

func TestListBalancesReturnsPerTypeRows(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	sick, err := env.engine.CreateLeaveType(ctx, leave.CreateLeaveTypeRequest{
		Name: "Sick Leave",
		Code: "SICK",
	})
	require.NoError(t, err)

	_, err = env.engine.Accrue(ctx, "emp-1", sick.ID, 12, "yearly grant")
	require.NoError(t, err)

	balances, err := env.engine.ListBalances(ctx, "emp-1")
	require.NoError(t, err)
	require.Len(t, balances, 2)
}
