package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/leave-engine-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type leaveTypeRepositoryImpl struct {
	db *database.DB
}

func NewLeaveTypeRepository(db *database.DB) leave.LeaveTypeRepository {
	return &leaveTypeRepositoryImpl{db: db}
}

const leaveTypeColumns = `
	id, name, code, description,
	is_active, accrual_method, accrual_units,
	allow_negative, consumes_balance,
	exclusive, allow_half_day,
	min_request_days, max_request_days,
	created_at, updated_at
`

func scanLeaveType(row pgx.Row) (leave.LeaveType, error) {
	var lt leave.LeaveType
	err := row.Scan(
		&lt.ID, &lt.Name, &lt.Code, &lt.Description,
		&lt.IsActive, &lt.AccrualMethod, &lt.AccrualUnits,
		&lt.AllowNegative, &lt.ConsumesBalance,
		&lt.Exclusive, &lt.AllowHalfDay,
		&lt.MinRequestDays, &lt.MaxRequestDays,
		&lt.CreatedAt, &lt.UpdatedAt,
	)
	return lt, err
}

// Create implements leave.LeaveTypeRepository.
func (l *leaveTypeRepositoryImpl) Create(ctx context.Context, leaveType leave.LeaveType) (leave.LeaveType, error) {
	q := GetQuerier(ctx, l.db)
	query := `
		INSERT INTO leave_types (
			id, name, code, description,
			is_active, accrual_method, accrual_units,
			allow_negative, consumes_balance,
			exclusive, allow_half_day,
			min_request_days, max_request_days,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			NOW(), NOW()
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		leaveType.ID, leaveType.Name, leaveType.Code, leaveType.Description,
		leaveType.IsActive, leaveType.AccrualMethod, leaveType.AccrualUnits,
		leaveType.AllowNegative, leaveType.ConsumesBalance,
		leaveType.Exclusive, leaveType.AllowHalfDay,
		leaveType.MinRequestDays, leaveType.MaxRequestDays,
	).Scan(&leaveType.CreatedAt, &leaveType.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return leave.LeaveType{}, leave.ErrLeaveTypeCodeExists
		}
		return leave.LeaveType{}, err
	}

	return leaveType, nil
}

// GetByID implements leave.LeaveTypeRepository.
func (l *leaveTypeRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveType, error) {
	q := GetQuerier(ctx, l.db)
	query := `SELECT ` + leaveTypeColumns + ` FROM leave_types WHERE id = $1`

	lt, err := scanLeaveType(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
		}
		return leave.LeaveType{}, err
	}
	return lt, nil
}

// List implements leave.LeaveTypeRepository.
func (l *leaveTypeRepositoryImpl) List(ctx context.Context) ([]leave.LeaveType, error) {
	q := GetQuerier(ctx, l.db)
	query := `SELECT ` + leaveTypeColumns + ` FROM leave_types ORDER BY code`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leaveTypes []leave.LeaveType
	for rows.Next() {
		lt, err := scanLeaveType(rows)
		if err != nil {
			return nil, err
		}
		leaveTypes = append(leaveTypes, lt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return leaveTypes, nil
}

// Update implements leave.LeaveTypeRepository.
func (l *leaveTypeRepositoryImpl) Update(ctx context.Context, leaveType leave.LeaveType) error {
	q := GetQuerier(ctx, l.db)
	query := `
		UPDATE leave_types SET
			name = $2, description = $3,
			is_active = $4, accrual_method = $5, accrual_units = $6,
			allow_negative = $7, consumes_balance = $8,
			exclusive = $9, allow_half_day = $10,
			min_request_days = $11, max_request_days = $12,
			updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := q.Exec(ctx, query,
		leaveType.ID, leaveType.Name, leaveType.Description,
		leaveType.IsActive, leaveType.AccrualMethod, leaveType.AccrualUnits,
		leaveType.AllowNegative, leaveType.ConsumesBalance,
		leaveType.Exclusive, leaveType.AllowHalfDay,
		leaveType.MinRequestDays, leaveType.MaxRequestDays,
	)
	if err != nil {
		return fmt.Errorf("failed to update leave type with id %s: %w", leaveType.ID, err)
	}
	if commandTag.RowsAffected() != 1 {
		return leave.ErrLeaveTypeNotFound
	}
	return nil
}
