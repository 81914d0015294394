package memory

import (
	"context"
	"sync"

	"github.com/cmlabs-hris/leave-engine-go/internal/domain/leave"
)

type ReservationRepository struct {
	mu           sync.RWMutex
	reservations map[string]leave.Reservation
}

func NewReservationRepository() *ReservationRepository {
	return &ReservationRepository{reservations: make(map[string]leave.Reservation)}
}

func (r *ReservationRepository) Create(_ context.Context, reservation leave.Reservation) (leave.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.reservations[reservation.ID] = reservation
	return reservation, nil
}

func (r *ReservationRepository) GetByID(_ context.Context, id string) (leave.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reservation, ok := r.reservations[id]
	if !ok {
		return leave.Reservation{}, leave.ErrReservationNotFound
	}
	return reservation, nil
}

func (r *ReservationRepository) Update(_ context.Context, reservation leave.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.reservations[reservation.ID]; !ok {
		return leave.ErrReservationNotFound
	}
	r.reservations[reservation.ID] = reservation
	return nil
}
