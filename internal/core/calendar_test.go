package core

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/leave-engine-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-engine-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkingDays(t *testing.T) {
	ctx := context.Background()
	holidays := memory.NewHolidayRepository()
	calendar := NewCalendar(holidays)

	// Wed 2026-03-11 is a public holiday.
	_, err := holidays.Create(ctx, leave.Holiday{
		ID:   "hol-1",
		Name: "Founders Day",
		Date: time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	t.Run("full week is five days", func(t *testing.T) {
		days, err := calendar.WorkingDays(ctx, monday, monday.AddDate(0, 0, 4), leave.LeaveDurationFullDay)
		require.NoError(t, err)
		assert.Equal(t, 5.0, days)
	})

	t.Run("weekends are skipped", func(t *testing.T) {
		days, err := calendar.WorkingDays(ctx, monday, monday.AddDate(0, 0, 6), leave.LeaveDurationFullDay)
		require.NoError(t, err)
		assert.Equal(t, 5.0, days)
	})

	t.Run("weekend only counts zero", func(t *testing.T) {
		saturday := monday.AddDate(0, 0, 5)
		days, err := calendar.WorkingDays(ctx, saturday, saturday.AddDate(0, 0, 1), leave.LeaveDurationFullDay)
		require.NoError(t, err)
		assert.Equal(t, 0.0, days)
	})

	t.Run("holidays are excluded", func(t *testing.T) {
		secondMonday := monday.AddDate(0, 0, 7)
		days, err := calendar.WorkingDays(ctx, secondMonday, secondMonday.AddDate(0, 0, 4), leave.LeaveDurationFullDay)
		require.NoError(t, err)
		assert.Equal(t, 4.0, days)
	})

	t.Run("half day counts half", func(t *testing.T) {
		days, err := calendar.WorkingDays(ctx, monday, monday, leave.LeaveDurationHalfDayAfternoon)
		require.NoError(t, err)
		assert.Equal(t, 0.5, days)
	})
}

func TestDateOnly(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	in := time.Date(2026, 3, 2, 23, 45, 12, 999, loc)

	got := DateOnly(in)

	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), got)
}
