package core

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/leave-engine-go/internal/domain/leave"
)

// ConflictDetector finds active requests intersecting a proposed date range.
// It must run inside the employee's critical section so no concurrent
// submission can slip past the check.
type ConflictDetector struct {
	requests leave.LeaveRequestRepository
	types    leave.LeaveTypeRepository
}

func NewConflictDetector(requests leave.LeaveRequestRepository, types leave.LeaveTypeRepository) *ConflictDetector {
	return &ConflictDetector{requests: requests, types: types}
}

// FindOverlaps returns the employee's active requests whose inclusive range
// intersects [start, end], excluding excludeRequestID and any request whose
// leave type is non-exclusive.
func (d *ConflictDetector) FindOverlaps(
	ctx context.Context,
	employeeID string,
	start, end time.Time,
	excludeRequestID string,
) ([]leave.LeaveRequest, error) {
	active, err := d.requests.ListActiveByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active requests: %w", err)
	}

	typeCache := make(map[string]leave.LeaveType)

	var overlapping []leave.LeaveRequest
	for _, req := range active {
		if req.ID == excludeRequestID {
			continue
		}
		if !req.Overlaps(start, end) {
			continue
		}

		lt, ok := typeCache[req.LeaveTypeID]
		if !ok {
			lt, err = d.types.GetByID(ctx, req.LeaveTypeID)
			if err != nil {
				return nil, fmt.Errorf("failed to get leave type %s: %w", req.LeaveTypeID, err)
			}
			typeCache[req.LeaveTypeID] = lt
		}

		// Non-exclusive types never block other requests.
		if !lt.Exclusive {
			continue
		}

		overlapping = append(overlapping, req)
	}

	return overlapping, nil
}
