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

func TestPeriodKey(t *testing.T) {
	monthly := leave.LeaveType{ID: "type-m", AccrualMethod: leave.AccrualMonthly}
	yearly := leave.LeaveType{ID: "type-y", AccrualMethod: leave.AccrualYearly}
	none := leave.LeaveType{ID: "type-n", AccrualMethod: leave.AccrualNone}

	firstOfMonth := time.Date(2026, 4, 1, 3, 0, 0, 0, time.UTC)
	midMonth := time.Date(2026, 4, 15, 3, 0, 0, 0, time.UTC)
	newYear := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	key, due := periodKey(monthly, firstOfMonth)
	require.True(t, due)
	assert.Equal(t, "type-m:2026-04", key)

	_, due = periodKey(monthly, midMonth)
	assert.False(t, due)

	key, due = periodKey(yearly, newYear)
	require.True(t, due)
	assert.Equal(t, "type-y:2026", key)

	_, due = periodKey(yearly, firstOfMonth)
	assert.False(t, due)

	_, due = periodKey(none, firstOfMonth)
	assert.False(t, due)
}

func TestRunAccrualGrantsOncePerPeriod(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.repos.Employees.Create(ctx, employee.Employee{ID: "emp-2", Name: "Ben"})
	require.NoError(t, err)

	firstOfApril := time.Date(2026, 4, 1, 2, 0, 0, 0, time.UTC)

	require.NoError(t, env.engine.RunAccrual(ctx, firstOfApril))

	for _, employeeID := range []string{"emp-1", "emp-2", "emp-mgr"} {
		balance, err := env.repos.Balances.Get(ctx, employeeID, env.annualTypeID)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, balance.Accrued-openingAccrued(employeeID), 0.001, employeeID)
	}

	// A second run in the same period is a no-op.
	require.NoError(t, env.engine.RunAccrual(ctx, firstOfApril))

	balance, err := env.repos.Balances.Get(ctx, "emp-2", env.annualTypeID)
	require.NoError(t, err)
	assert.Equal(t, 1.0, balance.Accrued)

	// The next month grants again.
	require.NoError(t, env.engine.RunAccrual(ctx, time.Date(2026, 5, 1, 2, 0, 0, 0, time.UTC)))
	balance, err = env.repos.Balances.Get(ctx, "emp-2", env.annualTypeID)
	require.NoError(t, err)
	assert.Equal(t, 2.0, balance.Accrued)
}

// openingAccrued mirrors the seed data in newTestEnv.
func openingAccrued(employeeID string) float64 {
	if employeeID == "emp-1" {
		return 10
	}
	return 0
}

func TestRunAccrualSkipsOffBoundaryDays(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.engine.RunAccrual(ctx, time.Date(2026, 4, 17, 2, 0, 0, 0, time.UTC)))

	balance, err := env.repos.Balances.Get(ctx, "emp-1", env.annualTypeID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, balance.Accrued)
}

func TestRunAccrualSkipsInactiveTypes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	inactive, err := env.repos.Types.Create(ctx, leave.LeaveType{
		ID:            "type-old",
		Name:          "Legacy Leave",
		Code:          "LEGACY",
		IsActive:      false,
		AccrualMethod: leave.AccrualMonthly,
		AccrualUnits:  2,
	})
	require.NoError(t, err)

	require.NoError(t, env.engine.RunAccrual(ctx, time.Date(2026, 4, 1, 2, 0, 0, 0, time.UTC)))

	balance, err := env.repos.Balances.Get(ctx, "emp-1", inactive.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, balance.Accrued)
}
