package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/leave-engine-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-engine-go/internal/pkg/events"
	"github.com/google/uuid"
)

// Ledger is the authoritative balance accountant. Every mutation keeps the
// invariant available = accrued - held - committed and emits a
// BalanceChanged event with the available-units delta.
//
// Callers hold the employee's lock for the duration of a command; the ledger
// itself never interleaves two mutations for the same employee.
type Ledger struct {
	types        leave.LeaveTypeRepository
	balances     leave.BalanceRepository
	reservations leave.ReservationRepository
	hub          *events.Hub
	logger       *slog.Logger
	now          func() time.Time
}

func NewLedger(
	types leave.LeaveTypeRepository,
	balances leave.BalanceRepository,
	reservations leave.ReservationRepository,
	hub *events.Hub,
	logger *slog.Logger,
) *Ledger {
	return &Ledger{
		types:        types,
		balances:     balances,
		reservations: reservations,
		hub:          hub,
		logger:       logger,
		now:          time.Now,
	}
}

// Reserve places a held reservation of units against the employee's balance.
// Fails with ErrInsufficientBalance, leaving the balance untouched, when
// available < units and the leave type does not allow a negative balance.
func (l *Ledger) Reserve(ctx context.Context, employeeID, leaveTypeID string, units float64, requestID string) (leave.Reservation, error) {
	leaveType, err := l.types.GetByID(ctx, leaveTypeID)
	if err != nil {
		return leave.Reservation{}, fmt.Errorf("failed to get leave type: %w", err)
	}

	balance, err := l.balances.Get(ctx, employeeID, leaveTypeID)
	if err != nil {
		return leave.Reservation{}, fmt.Errorf("failed to get balance: %w", err)
	}

	if balance.Available() < units && !leaveType.AllowNegative {
		return leave.Reservation{}, leave.ErrInsufficientBalance
	}

	now := l.now()
	reservation := leave.Reservation{
		ID:          uuid.Must(uuid.NewV7()).String(),
		RequestID:   requestID,
		EmployeeID:  employeeID,
		LeaveTypeID: leaveTypeID,
		Units:       units,
		State:       leave.ReservationHeld,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	reservation, err = l.reservations.Create(ctx, reservation)
	if err != nil {
		return leave.Reservation{}, fmt.Errorf("failed to create reservation: %w", err)
	}

	balance.EmployeeID = employeeID
	balance.LeaveTypeID = leaveTypeID
	balance.Held += units
	balance.UpdatedAt = now
	if err := l.balances.Upsert(ctx, balance); err != nil {
		// The hold never became visible; void the reservation.
		reservation.State = leave.ReservationReleased
		if voidErr := l.reservations.Update(ctx, reservation); voidErr != nil {
			l.logger.Error("failed to void reservation after balance failure",
				"reservation_id", reservation.ID, "error", voidErr)
		}
		return leave.Reservation{}, fmt.Errorf("failed to update balance: %w", err)
	}

	l.publishBalanceChanged(balance, -units, "reserve")
	return reservation, nil
}

// Commit converts a held reservation to committed. Available is unchanged;
// units move from held to committed only.
func (l *Ledger) Commit(ctx context.Context, reservationID string) error {
	reservation, err := l.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.State != leave.ReservationHeld {
		return leave.ErrInvalidReservationState
	}

	balance, err := l.balances.Get(ctx, reservation.EmployeeID, reservation.LeaveTypeID)
	if err != nil {
		return fmt.Errorf("failed to get balance: %w", err)
	}

	reservation.State = leave.ReservationCommitted
	reservation.UpdatedAt = l.now()
	if err := l.reservations.Update(ctx, reservation); err != nil {
		return fmt.Errorf("failed to update reservation: %w", err)
	}

	balance.Held -= reservation.Units
	balance.Committed += reservation.Units
	balance.UpdatedAt = l.now()
	if err := l.balances.Upsert(ctx, balance); err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}

	l.publishBalanceChanged(balance, 0, "commit")
	return nil
}

// Release finalizes a held or committed reservation, restoring its units to
// available. Releasing twice fails with ErrAlreadyReleased.
func (l *Ledger) Release(ctx context.Context, reservationID string) error {
	reservation, err := l.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return fmt.Errorf("failed to get reservation: %w", err)
	}

	balance, err := l.balances.Get(ctx, reservation.EmployeeID, reservation.LeaveTypeID)
	if err != nil {
		return fmt.Errorf("failed to get balance: %w", err)
	}

	switch reservation.State {
	case leave.ReservationHeld:
		balance.Held -= reservation.Units
	case leave.ReservationCommitted:
		balance.Committed -= reservation.Units
	case leave.ReservationReleased:
		return leave.ErrAlreadyReleased
	default:
		return leave.ErrInvalidReservationState
	}

	reservation.State = leave.ReservationReleased
	reservation.UpdatedAt = l.now()
	if err := l.reservations.Update(ctx, reservation); err != nil {
		return fmt.Errorf("failed to update reservation: %w", err)
	}

	balance.UpdatedAt = l.now()
	if err := l.balances.Upsert(ctx, balance); err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}

	l.publishBalanceChanged(balance, reservation.Units, "release")
	return nil
}

// Accrue increases the employee's accrued total. Independent of reservations.
func (l *Ledger) Accrue(ctx context.Context, employeeID, leaveTypeID string, units float64, reason string) (leave.Balance, error) {
	balance, err := l.balances.Get(ctx, employeeID, leaveTypeID)
	if err != nil {
		return leave.Balance{}, fmt.Errorf("failed to get balance: %w", err)
	}

	balance.EmployeeID = employeeID
	balance.LeaveTypeID = leaveTypeID
	balance.Accrued += units
	balance.UpdatedAt = l.now()
	if err := l.balances.Upsert(ctx, balance); err != nil {
		return leave.Balance{}, fmt.Errorf("failed to update balance: %w", err)
	}

	l.publishBalanceChanged(balance, units, reason)
	return balance, nil
}

func (l *Ledger) publishBalanceChanged(balance leave.Balance, delta float64, reason string) {
	l.hub.Publish(events.Event{
		EmployeeID: balance.EmployeeID,
		Name:       leave.EventBalanceChanged,
		Data: leave.BalanceChangedEvent{
			EmployeeID:   balance.EmployeeID,
			LeaveTypeID:  balance.LeaveTypeID,
			Delta:        delta,
			NewAvailable: balance.Available(),
			Reason:       reason,
		},
	})
}
