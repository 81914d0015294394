package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/cmlabs-hris/leave-engine-go/internal/domain/leave"
)

type balanceKey struct {
	employeeID  string
	leaveTypeID string
}

type BalanceRepository struct {
	mu       sync.RWMutex
	balances map[balanceKey]leave.Balance
}

func NewBalanceRepository() *BalanceRepository {
	return &BalanceRepository{balances: make(map[balanceKey]leave.Balance)}
}

// Get returns a zero-valued balance when no row exists yet; missing rows are
// not an error for the ledger.
func (r *BalanceRepository) Get(_ context.Context, employeeID, leaveTypeID string) (leave.Balance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	balance, ok := r.balances[balanceKey{employeeID, leaveTypeID}]
	if !ok {
		return leave.Balance{EmployeeID: employeeID, LeaveTypeID: leaveTypeID}, nil
	}
	return balance, nil
}

func (r *BalanceRepository) Upsert(_ context.Context, balance leave.Balance) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.balances[balanceKey{balance.EmployeeID, balance.LeaveTypeID}] = balance
	return nil
}

func (r *BalanceRepository) ListByEmployee(_ context.Context, employeeID string) ([]leave.Balance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var balances []leave.Balance
	for key, balance := range r.balances {
		if key.employeeID == employeeID {
			balances = append(balances, balance)
		}
	}
	sort.Slice(balances, func(i, j int) bool {
		return balances[i].LeaveTypeID < balances[j].LeaveTypeID
	})
	return balances, nil
}
