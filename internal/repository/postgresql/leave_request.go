package postgresql

import (
	"context"
	"errors"

	"github.com/cmlabs-hris/leave-engine-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

const leaveRequestColumns = `
	id, employee_id, leave_type_id,
	start_date, end_date, duration_type, working_days,
	reason, status, revision, reservation_id,
	submitted_at, created_at, updated_at
`

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var lr leave.LeaveRequest
	err := row.Scan(
		&lr.ID, &lr.EmployeeID, &lr.LeaveTypeID,
		&lr.StartDate, &lr.EndDate, &lr.DurationType, &lr.WorkingDays,
		&lr.Reason, &lr.Status, &lr.Revision, &lr.ReservationID,
		&lr.SubmittedAt, &lr.CreatedAt, &lr.UpdatedAt,
	)
	return lr, err
}

// Create implements leave.LeaveRequestRepository. The request row and its
// initial history entries are written atomically.
func (l *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	err := WithTransaction(ctx, l.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO leave_requests (
				id, employee_id, leave_type_id,
				start_date, end_date, duration_type, working_days,
				reason, status, revision, reservation_id,
				submitted_at, created_at, updated_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
			)
		`
		if _, err := tx.Exec(ctx, query,
			request.ID, request.EmployeeID, request.LeaveTypeID,
			request.StartDate, request.EndDate, request.DurationType, request.WorkingDays,
			request.Reason, request.Status, request.Revision, request.ReservationID,
			request.SubmittedAt, request.CreatedAt, request.UpdatedAt,
		); err != nil {
			return err
		}

		for seq, tr := range request.History {
			if err := insertTransition(ctx, tx, request.ID, seq, tr); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	return request, nil
}

// Update implements leave.LeaveRequestRepository. History rows are append-only:
// only the newest transition is inserted alongside the request update.
func (l *leaveRequestRepositoryImpl) Update(ctx context.Context, request leave.LeaveRequest) error {
	return WithTransaction(ctx, l.db, func(tx pgx.Tx) error {
		query := `
			UPDATE leave_requests SET
				status = $2, revision = $3, reservation_id = $4, updated_at = $5
			WHERE id = $1
		`
		commandTag, err := tx.Exec(ctx, query,
			request.ID, request.Status, request.Revision, request.ReservationID, request.UpdatedAt,
		)
		if err != nil {
			return err
		}
		if commandTag.RowsAffected() != 1 {
			return leave.ErrRequestNotFound
		}

		if len(request.History) == 0 {
			return nil
		}
		seq := len(request.History) - 1
		return insertTransition(ctx, tx, request.ID, seq, request.History[seq])
	})
}

func insertTransition(ctx context.Context, q database.Querier, requestID string, seq int, tr leave.Transition) error {
	query := `
		INSERT INTO leave_request_transitions (
			request_id, seq, from_status, to_status, action, actor_id, comment, at
		) VALUES (
			$1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8
		)
	`
	_, err := q.Exec(ctx, query,
		requestID, seq, string(tr.From), tr.To, tr.Action, tr.ActorID, tr.Comment, tr.At,
	)
	return err
}

// GetByID implements leave.LeaveRequestRepository.
func (l *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, l.db)
	query := `SELECT ` + leaveRequestColumns + ` FROM leave_requests WHERE id = $1`

	lr, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrRequestNotFound
		}
		return leave.LeaveRequest{}, err
	}

	requests := []leave.LeaveRequest{lr}
	if err := l.loadHistories(ctx, q, requests); err != nil {
		return leave.LeaveRequest{}, err
	}
	return requests[0], nil
}

// ListActiveByEmployee implements leave.LeaveRequestRepository.
func (l *leaveRequestRepositoryImpl) ListActiveByEmployee(ctx context.Context, employeeID string) ([]leave.LeaveRequest, error) {
	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests
		WHERE employee_id = $1 AND status IN ('pending', 'approved')
		ORDER BY submitted_at
	`
	return l.list(ctx, query, employeeID)
}

// ListByEmployee implements leave.LeaveRequestRepository.
func (l *leaveRequestRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string, status *leave.LeaveRequestStatus) ([]leave.LeaveRequest, error) {
	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests
		WHERE employee_id = $1 AND ($2::text IS NULL OR status = $2)
		ORDER BY submitted_at
	`
	return l.list(ctx, query, employeeID, status)
}

// ListAll implements leave.LeaveRequestRepository.
func (l *leaveRequestRepositoryImpl) ListAll(ctx context.Context) ([]leave.LeaveRequest, error) {
	query := `SELECT ` + leaveRequestColumns + ` FROM leave_requests ORDER BY submitted_at`
	return l.list(ctx, query)
}

func (l *leaveRequestRepositoryImpl) list(ctx context.Context, query string, args ...interface{}) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, l.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		lr, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, lr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := l.loadHistories(ctx, q, requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// loadHistories attaches transition history to each request in one query.
func (l *leaveRequestRepositoryImpl) loadHistories(ctx context.Context, q database.Querier, requests []leave.LeaveRequest) error {
	if len(requests) == 0 {
		return nil
	}

	ids := make([]string, 0, len(requests))
	byID := make(map[string]*leave.LeaveRequest, len(requests))
	for i := range requests {
		ids = append(ids, requests[i].ID)
		byID[requests[i].ID] = &requests[i]
	}

	query := `
		SELECT request_id, COALESCE(from_status, ''), to_status, action, actor_id, comment, at
		FROM leave_request_transitions
		WHERE request_id = ANY($1)
		ORDER BY request_id, seq
	`
	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var requestID string
		var tr leave.Transition
		if err := rows.Scan(&requestID, &tr.From, &tr.To, &tr.Action, &tr.ActorID, &tr.Comment, &tr.At); err != nil {
			return err
		}
		if lr, ok := byID[requestID]; ok {
			lr.History = append(lr.History, tr)
		}
	}
	return rows.Err()
}
