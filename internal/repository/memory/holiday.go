package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/leave-engine-go/internal/domain/leave"
)

type HolidayRepository struct {
	mu       sync.RWMutex
	holidays map[string]leave.Holiday
}

func NewHolidayRepository() *HolidayRepository {
	return &HolidayRepository{holidays: make(map[string]leave.Holiday)}
}

func (r *HolidayRepository) Create(_ context.Context, holiday leave.Holiday) (leave.Holiday, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.holidays[holiday.ID] = holiday
	return holiday, nil
}

func (r *HolidayRepository) ListRange(_ context.Context, from, to time.Time) ([]leave.Holiday, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var holidays []leave.Holiday
	for _, h := range r.holidays {
		if !h.Date.Before(from) && !h.Date.After(to) {
			holidays = append(holidays, h)
		}
	}
	sortByDate(holidays)
	return holidays, nil
}

func (r *HolidayRepository) List(_ context.Context) ([]leave.Holiday, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	holidays := make([]leave.Holiday, 0, len(r.holidays))
	for _, h := range r.holidays {
		holidays = append(holidays, h)
	}
	sortByDate(holidays)
	return holidays, nil
}

func (r *HolidayRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.holidays[id]; !ok {
		return leave.ErrHolidayNotFound
	}
	delete(r.holidays, id)
	return nil
}

func sortByDate(holidays []leave.Holiday) {
	sort.Slice(holidays, func(i, j int) bool {
		return holidays[i].Date.Before(holidays[j].Date)
	})
}
