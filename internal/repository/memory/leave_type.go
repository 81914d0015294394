// Package memory provides mutex-guarded map implementations of the domain
// repositories. They back the test suites and the standalone (storage-free)
// server mode.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/cmlabs-hris/leave-engine-go/internal/domain/leave"
)

type LeaveTypeRepository struct {
	mu    sync.RWMutex
	types map[string]leave.LeaveType
}

func NewLeaveTypeRepository() *LeaveTypeRepository {
	return &LeaveTypeRepository{types: make(map[string]leave.LeaveType)}
}

func (r *LeaveTypeRepository) Create(_ context.Context, leaveType leave.LeaveType) (leave.LeaveType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.types {
		if t.Code == leaveType.Code {
			return leave.LeaveType{}, leave.ErrLeaveTypeCodeExists
		}
	}

	r.types[leaveType.ID] = leaveType
	return leaveType, nil
}

func (r *LeaveTypeRepository) GetByID(_ context.Context, id string) (leave.LeaveType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	leaveType, ok := r.types[id]
	if !ok {
		return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
	}
	return leaveType, nil
}

func (r *LeaveTypeRepository) List(_ context.Context) ([]leave.LeaveType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]leave.LeaveType, 0, len(r.types))
	for _, t := range r.types {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i].Code < types[j].Code })
	return types, nil
}

func (r *LeaveTypeRepository) Update(_ context.Context, leaveType leave.LeaveType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.types[leaveType.ID]; !ok {
		return leave.ErrLeaveTypeNotFound
	}
	r.types[leaveType.ID] = leaveType
	return nil
}
