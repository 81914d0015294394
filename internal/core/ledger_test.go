package core

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/cmlabs-hris/leave-engine-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-engine-go/internal/pkg/events"
	"github.com/cmlabs-hris/leave-engine-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ledgerEnv struct {
	ledger   *Ledger
	balances leave.BalanceRepository
	hub      *events.Hub
}

func newLedgerEnv(t *testing.T, leaveType leave.LeaveType) *ledgerEnv {
	t.Helper()
	ctx := context.Background()

	types := memory.NewLeaveTypeRepository()
	balances := memory.NewBalanceRepository()
	reservations := memory.NewReservationRepository()
	hub := events.NewHub()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := types.Create(ctx, leaveType)
	require.NoError(t, err)

	ledger := NewLedger(types, balances, reservations, hub, logger)
	ledger.now = func() time.Time { return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) }

	return &ledgerEnv{ledger: ledger, balances: balances, hub: hub}
}

func annualType() leave.LeaveType {
	return leave.LeaveType{
		ID:              "type-annual",
		Name:            "Annual Leave",
		Code:            "ANNUAL",
		IsActive:        true,
		ConsumesBalance: true,
		Exclusive:       true,
	}
}

func (e *ledgerEnv) balance(t *testing.T) leave.Balance {
	t.Helper()
	balance, err := e.balances.Get(context.Background(), "emp-1", "type-annual")
	require.NoError(t, err)
	return balance
}

func TestLedgerReserveCommitRelease(t *testing.T) {
	env := newLedgerEnv(t, annualType())
	ctx := context.Background()

	_, err := env.ledger.Accrue(ctx, "emp-1", "type-annual", 10, "opening balance")
	require.NoError(t, err)
	assert.Equal(t, 10.0, env.balance(t).Available())

	reservation, err := env.ledger.Reserve(ctx, "emp-1", "type-annual", 4, "req-1")
	require.NoError(t, err)
	assert.Equal(t, leave.ReservationHeld, reservation.State)
	assert.Equal(t, 4.0, env.balance(t).Held)
	assert.Equal(t, 6.0, env.balance(t).Available())

	require.NoError(t, env.ledger.Commit(ctx, reservation.ID))
	balance := env.balance(t)
	assert.Equal(t, 0.0, balance.Held)
	assert.Equal(t, 4.0, balance.Committed)
	assert.Equal(t, 6.0, balance.Available())

	require.NoError(t, env.ledger.Release(ctx, reservation.ID))
	balance = env.balance(t)
	assert.Equal(t, 0.0, balance.Committed)
	assert.Equal(t, 10.0, balance.Available())
}

func TestLedgerReleaseHeldReservation(t *testing.T) {
	env := newLedgerEnv(t, annualType())
	ctx := context.Background()

	_, err := env.ledger.Accrue(ctx, "emp-1", "type-annual", 10, "opening balance")
	require.NoError(t, err)

	reservation, err := env.ledger.Reserve(ctx, "emp-1", "type-annual", 4, "req-1")
	require.NoError(t, err)

	require.NoError(t, env.ledger.Release(ctx, reservation.ID))
	assert.Equal(t, 0.0, env.balance(t).Held)
	assert.Equal(t, 10.0, env.balance(t).Available())
}

func TestLedgerReleaseIsIdempotentOnlyOnce(t *testing.T) {
	env := newLedgerEnv(t, annualType())
	ctx := context.Background()

	_, err := env.ledger.Accrue(ctx, "emp-1", "type-annual", 10, "opening balance")
	require.NoError(t, err)

	reservation, err := env.ledger.Reserve(ctx, "emp-1", "type-annual", 4, "req-1")
	require.NoError(t, err)
	require.NoError(t, env.ledger.Release(ctx, reservation.ID))

	err = env.ledger.Release(ctx, reservation.ID)
	assert.ErrorIs(t, err, leave.ErrAlreadyReleased)

	// The second release must not move the balance again.
	assert.Equal(t, 10.0, env.balance(t).Available())
}

func TestLedgerCommitRequiresHeldState(t *testing.T) {
	env := newLedgerEnv(t, annualType())
	ctx := context.Background()

	_, err := env.ledger.Accrue(ctx, "emp-1", "type-annual", 10, "opening balance")
	require.NoError(t, err)

	reservation, err := env.ledger.Reserve(ctx, "emp-1", "type-annual", 4, "req-1")
	require.NoError(t, err)
	require.NoError(t, env.ledger.Commit(ctx, reservation.ID))

	err = env.ledger.Commit(ctx, reservation.ID)
	assert.ErrorIs(t, err, leave.ErrInvalidReservationState)
}

func TestLedgerInsufficientBalance(t *testing.T) {
	env := newLedgerEnv(t, annualType())
	ctx := context.Background()

	_, err := env.ledger.Accrue(ctx, "emp-1", "type-annual", 3, "opening balance")
	require.NoError(t, err)

	_, err = env.ledger.Reserve(ctx, "emp-1", "type-annual", 5, "req-1")
	assert.ErrorIs(t, err, leave.ErrInsufficientBalance)

	balance := env.balance(t)
	assert.Equal(t, 0.0, balance.Held)
	assert.Equal(t, 3.0, balance.Available())
}

func TestLedgerAllowNegativeOverdraws(t *testing.T) {
	unpaid := annualType()
	unpaid.ID = "type-annual" // keep the env balance key
	unpaid.AllowNegative = true

	env := newLedgerEnv(t, unpaid)
	ctx := context.Background()

	_, err := env.ledger.Reserve(ctx, "emp-1", "type-annual", 5, "req-1")
	require.NoError(t, err)

	assert.Equal(t, -5.0, env.balance(t).Available())
}

func TestLedgerPublishesBalanceDeltas(t *testing.T) {
	env := newLedgerEnv(t, annualType())
	ctx := context.Background()

	stream, cleanup := env.hub.Subscribe("emp-1")
	defer cleanup()

	_, err := env.ledger.Accrue(ctx, "emp-1", "type-annual", 10, "monthly accrual 2026-03-01")
	require.NoError(t, err)
	reservation, err := env.ledger.Reserve(ctx, "emp-1", "type-annual", 4, "req-1")
	require.NoError(t, err)
	require.NoError(t, env.ledger.Commit(ctx, reservation.ID))
	require.NoError(t, env.ledger.Release(ctx, reservation.ID))

	wantDeltas := []float64{10, -4, 0, 4}
	wantReasons := []string{"monthly accrual 2026-03-01", "reserve", "commit", "release"}

	for i := range wantDeltas {
		select {
		case event := <-stream:
			assert.Equal(t, leave.EventBalanceChanged, event.Name)
			payload, ok := event.Data.(leave.BalanceChangedEvent)
			require.True(t, ok)
			assert.Equal(t, wantDeltas[i], payload.Delta, "event %d", i)
			assert.Equal(t, wantReasons[i], payload.Reason, "event %d", i)
		default:
			t.Fatalf("missing balance event %d", i)
		}
	}
}
