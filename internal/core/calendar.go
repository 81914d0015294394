package core

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/leave-engine-go/internal/domain/leave"
)

// Calendar computes working-day totals for a date range. Weekends and
// configured holidays never count toward requested units.
type Calendar struct {
	holidays leave.HolidayRepository
}

func NewCalendar(holidays leave.HolidayRepository) *Calendar {
	return &Calendar{holidays: holidays}
}

// WorkingDays calculates working days in [start, end] excluding weekends and
// holidays. A half-day duration counts 0.5; half-day requests always span a
// single date (enforced at submission).
func (c *Calendar) WorkingDays(
	ctx context.Context,
	start, end time.Time,
	durationType leave.LeaveDurationEnum,
) (float64, error) {
	holidays, err := c.holidays.ListRange(ctx, start, end)
	if err != nil {
		return 0, fmt.Errorf("failed to load holidays: %w", err)
	}

	holidayMap := make(map[string]bool, len(holidays))
	for _, h := range holidays {
		holidayMap[h.Date.Format("2006-01-02")] = true
	}

	var workingDays float64
	for currentDate := start; !currentDate.After(end); currentDate = currentDate.AddDate(0, 0, 1) {
		if currentDate.Weekday() == time.Saturday || currentDate.Weekday() == time.Sunday {
			continue
		}
		if holidayMap[currentDate.Format("2006-01-02")] {
			continue
		}

		if durationType.IsHalfDay() {
			workingDays += 0.5
		} else {
			workingDays += 1.0
		}
	}

	return workingDays, nil
}

// DateOnly truncates t to date granularity in UTC.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
