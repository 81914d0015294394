package postgresql

import (
	"context"
	"errors"

	"github.com/cmlabs-hris/leave-engine-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type balanceRepositoryImpl struct {
	db *database.DB
}

func NewBalanceRepository(db *database.DB) leave.BalanceRepository {
	return &balanceRepositoryImpl{db: db}
}

// Get implements leave.BalanceRepository. A missing row is not an error; the
// ledger treats it as an all-zero balance.
func (b *balanceRepositoryImpl) Get(ctx context.Context, employeeID, leaveTypeID string) (leave.Balance, error) {
	q := GetQuerier(ctx, b.db)
	query := `
		SELECT employee_id, leave_type_id, accrued, held, committed, updated_at
		FROM leave_balances
		WHERE employee_id = $1 AND leave_type_id = $2
	`

	var balance leave.Balance
	err := q.QueryRow(ctx, query, employeeID, leaveTypeID).Scan(
		&balance.EmployeeID, &balance.LeaveTypeID,
		&balance.Accrued, &balance.Held, &balance.Committed,
		&balance.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Balance{EmployeeID: employeeID, LeaveTypeID: leaveTypeID}, nil
		}
		return leave.Balance{}, err
	}
	return balance, nil
}

// Upsert implements leave.BalanceRepository.
func (b *balanceRepositoryImpl) Upsert(ctx context.Context, balance leave.Balance) error {
	q := GetQuerier(ctx, b.db)
	query := `
		INSERT INTO leave_balances (
			employee_id, leave_type_id, accrued, held, committed, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, NOW()
		)
		ON CONFLICT (employee_id, leave_type_id) DO UPDATE SET
			accrued = EXCLUDED.accrued,
			held = EXCLUDED.held,
			committed = EXCLUDED.committed,
			updated_at = NOW()
	`

	_, err := q.Exec(ctx, query,
		balance.EmployeeID, balance.LeaveTypeID,
		balance.Accrued, balance.Held, balance.Committed,
	)
	return err
}

// ListByEmployee implements leave.BalanceRepository.
func (b *balanceRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string) ([]leave.Balance, error) {
	q := GetQuerier(ctx, b.db)
	query := `
		SELECT employee_id, leave_type_id, accrued, held, committed, updated_at
		FROM leave_balances
		WHERE employee_id = $1
		ORDER BY leave_type_id
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var balances []leave.Balance
	for rows.Next() {
		var balance leave.Balance
		if err := rows.Scan(
			&balance.EmployeeID, &balance.LeaveTypeID,
			&balance.Accrued, &balance.Held, &balance.Committed,
			&balance.UpdatedAt,
		); err != nil {
			return nil, err
		}
		balances = append(balances, balance)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return balances, nil
}
