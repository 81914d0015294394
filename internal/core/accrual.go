package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cmlabs-hris/leave-engine-go/internal/domain/leave"
)

// accrualState remembers which accrual periods have already been granted so
// a scheduler ticking more often than the period never double-grants.
type accrualState struct {
	mu      sync.Mutex
	granted map[string]struct{}
}

func newAccrualState() accrualState {
	return accrualState{granted: make(map[string]struct{})}
}

// markGranted records the period key and reports whether it was new.
func (s *accrualState) markGranted(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.granted[key]; ok {
		return false
	}
	s.granted[key] = struct{}{}
	return true
}

func (s *accrualState) unmark(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.granted, key)
}

// periodKey returns the dedupe key for a leave type at the given instant, or
// false when the instant is not an accrual boundary for the type. Monthly
// accrual grants on the first day of each month, yearly on January 1st.
func periodKey(leaveType leave.LeaveType, now time.Time) (string, bool) {
	switch leaveType.AccrualMethod {
	case leave.AccrualMonthly:
		if now.Day() != 1 {
			return "", false
		}
		return fmt.Sprintf("%s:%s", leaveType.ID, now.Format("2006-01")), true
	case leave.AccrualYearly:
		if now.Month() != time.January || now.Day() != 1 {
			return "", false
		}
		return fmt.Sprintf("%s:%s", leaveType.ID, now.Format("2006")), true
	default:
		return "", false
	}
}

// RunAccrual implements leave.LeaveService. It grants periodic accruals for
// every active leave type that is due at now, across the whole roster. A
// failed grant for one employee is logged and does not stop the run.
func (e *Engine) RunAccrual(ctx context.Context, now time.Time) error {
	now = now.UTC()

	types, err := e.types.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list leave types: %w", err)
	}

	var due []leave.LeaveType
	var keys []string
	for _, t := range types {
		if !t.IsActive || t.AccrualUnits <= 0 {
			continue
		}
		key, ok := periodKey(t, now)
		if !ok {
			continue
		}
		if !e.accrual.markGranted(key) {
			continue
		}
		due = append(due, t)
		keys = append(keys, key)
	}
	if len(due) == 0 {
		return nil
	}

	employees, err := e.employees.List(ctx)
	if err != nil {
		// Nothing was granted yet; let the next tick retry the periods.
		for _, key := range keys {
			e.accrual.unmark(key)
		}
		return fmt.Errorf("failed to list employees: %w", err)
	}

	for i, t := range due {
		reason := fmt.Sprintf("%s accrual %s", t.AccrualMethod, now.Format("2006-01-02"))
		granted := 0
		for _, emp := range employees {
			if err := e.accrueOne(ctx, emp.ID, t.ID, t.AccrualUnits, reason); err != nil {
				e.logger.Error("accrual grant failed",
					"employee_id", emp.ID,
					"leave_type_id", t.ID,
					"error", err,
				)
				continue
			}
			granted++
		}
		e.logger.Info("accrual period granted",
			"leave_type_id", t.ID,
			"period", keys[i],
			"units", t.AccrualUnits,
			"employees", granted,
		)
	}

	return nil
}

func (e *Engine) accrueOne(ctx context.Context, employeeID, leaveTypeID string, units float64, reason string) error {
	release, err := e.locks.Acquire(ctx, employeeID)
	if err != nil {
		return leave.ErrBusy
	}
	defer release()

	_, err = e.ledger.Accrue(ctx, employeeID, leaveTypeID, units, reason)
	return err
}
