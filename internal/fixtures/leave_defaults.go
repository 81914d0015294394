// Package fixtures seeds reference data for the in-memory store mode and for
// tests that need a realistic leave policy.
package fixtures

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/leave-engine-go/internal/domain/leave"
	"github.com/google/uuid"
)

func intPtr(v int) *int { return &v }

// DefaultLeaveTypes returns a starter leave policy: accruing annual leave,
// non-accruing sick leave, unpaid leave that may go negative, and a
// non-exclusive work-from-home type that never touches the ledger.
func DefaultLeaveTypes() []leave.LeaveType {
	now := time.Now().UTC()
	return []leave.LeaveType{
		{
			ID:              uuid.Must(uuid.NewV7()).String(),
			Name:            "Annual Leave",
			Code:            "ANNUAL",
			IsActive:        true,
			AccrualMethod:   leave.AccrualMonthly,
			AccrualUnits:    1,
			ConsumesBalance: true,
			Exclusive:       true,
			AllowHalfDay:    true,
			MaxRequestDays:  intPtr(14),
			CreatedAt:       now,
			UpdatedAt:       now,
		},
		{
			ID:              uuid.Must(uuid.NewV7()).String(),
			Name:            "Sick Leave",
			Code:            "SICK",
			IsActive:        true,
			AccrualMethod:   leave.AccrualYearly,
			AccrualUnits:    12,
			ConsumesBalance: true,
			Exclusive:       true,
			AllowHalfDay:    true,
			CreatedAt:       now,
			UpdatedAt:       now,
		},
		{
			ID:              uuid.Must(uuid.NewV7()).String(),
			Name:            "Unpaid Leave",
			Code:            "UNPAID",
			IsActive:        true,
			AccrualMethod:   leave.AccrualNone,
			AllowNegative:   true,
			ConsumesBalance: true,
			Exclusive:       true,
			CreatedAt:       now,
			UpdatedAt:       now,
		},
		{
			ID:              uuid.Must(uuid.NewV7()).String(),
			Name:            "Work From Home",
			Code:            "WFH",
			IsActive:        true,
			AccrualMethod:   leave.AccrualNone,
			ConsumesBalance: false,
			Exclusive:       false,
			CreatedAt:       now,
			UpdatedAt:       now,
		},
	}
}

// SeedLeaveTypes inserts the default policy into the given repository.
func SeedLeaveTypes(ctx context.Context, repo leave.LeaveTypeRepository) ([]leave.LeaveType, error) {
	types := DefaultLeaveTypes()
	for i, t := range types {
		created, err := repo.Create(ctx, t)
		if err != nil {
			return nil, fmt.Errorf("failed to seed leave type %s: %w", t.Code, err)
		}
		types[i] = created
	}
	return types, nil
}
