package postgresql

import (
	"context"
	"errors"

	"github.com/cmlabs-hris/leave-engine-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type reservationRepositoryImpl struct {
	db *database.DB
}

func NewReservationRepository(db *database.DB) leave.ReservationRepository {
	return &reservationRepositoryImpl{db: db}
}

// Create implements leave.ReservationRepository.
func (r *reservationRepositoryImpl) Create(ctx context.Context, reservation leave.Reservation) (leave.Reservation, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO balance_reservations (
			id, request_id, employee_id, leave_type_id, units, state,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, NOW(), NOW()
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		reservation.ID, reservation.RequestID, reservation.EmployeeID,
		reservation.LeaveTypeID, reservation.Units, reservation.State,
	).Scan(&reservation.CreatedAt, &reservation.UpdatedAt)
	if err != nil {
		return leave.Reservation{}, err
	}
	return reservation, nil
}

// GetByID implements leave.ReservationRepository.
func (r *reservationRepositoryImpl) GetByID(ctx context.Context, id string) (leave.Reservation, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT id, request_id, employee_id, leave_type_id, units, state,
			   created_at, updated_at
		FROM balance_reservations
		WHERE id = $1
	`

	var reservation leave.Reservation
	err := q.QueryRow(ctx, query, id).Scan(
		&reservation.ID, &reservation.RequestID, &reservation.EmployeeID,
		&reservation.LeaveTypeID, &reservation.Units, &reservation.State,
		&reservation.CreatedAt, &reservation.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Reservation{}, leave.ErrReservationNotFound
		}
		return leave.Reservation{}, err
	}
	return reservation, nil
}

// Update implements leave.ReservationRepository.
func (r *reservationRepositoryImpl) Update(ctx context.Context, reservation leave.Reservation) error {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE balance_reservations SET
			state = $2, updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := q.Exec(ctx, query, reservation.ID, reservation.State)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return leave.ErrReservationNotFound
	}
	return nil
}
