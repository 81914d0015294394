package postgresql

import (
	"context"
	"time"

	"github.com/cmlabs-hris/leave-engine-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-engine-go/internal/pkg/database"
)

type holidayRepositoryImpl struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) leave.HolidayRepository {
	return &holidayRepositoryImpl{db: db}
}

// Create implements leave.HolidayRepository.
func (h *holidayRepositoryImpl) Create(ctx context.Context, holiday leave.Holiday) (leave.Holiday, error) {
	q := GetQuerier(ctx, h.db)
	query := `
		INSERT INTO holidays (id, name, date, description, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING created_at
	`

	err := q.QueryRow(ctx, query,
		holiday.ID, holiday.Name, holiday.Date, holiday.Description,
	).Scan(&holiday.CreatedAt)
	if err != nil {
		return leave.Holiday{}, err
	}
	return holiday, nil
}

// ListRange implements leave.HolidayRepository.
func (h *holidayRepositoryImpl) ListRange(ctx context.Context, from, to time.Time) ([]leave.Holiday, error) {
	query := `
		SELECT id, name, date, description, created_at
		FROM holidays
		WHERE date >= $1 AND date <= $2
		ORDER BY date
	`
	return h.query(ctx, query, from, to)
}

// List implements leave.HolidayRepository.
func (h *holidayRepositoryImpl) List(ctx context.Context) ([]leave.Holiday, error) {
	query := `
		SELECT id, name, date, description, created_at
		FROM holidays
		ORDER BY date
	`
	return h.query(ctx, query)
}

// Delete implements leave.HolidayRepository.
func (h *holidayRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, h.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM holidays WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return leave.ErrHolidayNotFound
	}
	return nil
}

func (h *holidayRepositoryImpl) query(ctx context.Context, query string, args ...interface{}) ([]leave.Holiday, error) {
	q := GetQuerier(ctx, h.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []leave.Holiday
	for rows.Next() {
		var holiday leave.Holiday
		if err := rows.Scan(
			&holiday.ID, &holiday.Name, &holiday.Date, &holiday.Description, &holiday.CreatedAt,
		); err != nil {
			return nil, err
		}
		holidays = append(holidays, holiday)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return holidays, nil
}
