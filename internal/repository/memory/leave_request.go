package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/cmlabs-hris/leave-engine-go/internal/domain/leave"
)

type LeaveRequestRepository struct {
	mu       sync.RWMutex
	requests map[string]leave.LeaveRequest
}

func NewLeaveRequestRepository() *LeaveRequestRepository {
	return &LeaveRequestRepository{requests: make(map[string]leave.LeaveRequest)}
}

// cloneRequest copies the history slice so callers never alias stored state.
func cloneRequest(r leave.LeaveRequest) leave.LeaveRequest {
	history := make([]leave.Transition, len(r.History))
	copy(history, r.History)
	r.History = history
	return r
}

func (r *LeaveRequestRepository) Create(_ context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.requests[request.ID] = cloneRequest(request)
	return request, nil
}

func (r *LeaveRequestRepository) GetByID(_ context.Context, id string) (leave.LeaveRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	request, ok := r.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrRequestNotFound
	}
	return cloneRequest(request), nil
}

func (r *LeaveRequestRepository) ListActiveByEmployee(_ context.Context, employeeID string) ([]leave.LeaveRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var requests []leave.LeaveRequest
	for _, req := range r.requests {
		if req.EmployeeID == employeeID && req.Status.IsActive() {
			requests = append(requests, cloneRequest(req))
		}
	}
	sortBySubmitted(requests)
	return requests, nil
}

func (r *LeaveRequestRepository) ListByEmployee(_ context.Context, employeeID string, status *leave.LeaveRequestStatus) ([]leave.LeaveRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var requests []leave.LeaveRequest
	for _, req := range r.requests {
		if req.EmployeeID != employeeID {
			continue
		}
		if status != nil && req.Status != *status {
			continue
		}
		requests = append(requests, cloneRequest(req))
	}
	sortBySubmitted(requests)
	return requests, nil
}

func (r *LeaveRequestRepository) ListAll(_ context.Context) ([]leave.LeaveRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	requests := make([]leave.LeaveRequest, 0, len(r.requests))
	for _, req := range r.requests {
		requests = append(requests, cloneRequest(req))
	}
	sortBySubmitted(requests)
	return requests, nil
}

func (r *LeaveRequestRepository) Update(_ context.Context, request leave.LeaveRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.requests[request.ID]; !ok {
		return leave.ErrRequestNotFound
	}
	r.requests[request.ID] = cloneRequest(request)
	return nil
}

func sortBySubmitted(requests []leave.LeaveRequest) {
	sort.Slice(requests, func(i, j int) bool {
		return requests[i].SubmittedAt.Before(requests[j].SubmittedAt)
	})
}
