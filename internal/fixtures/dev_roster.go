package fixtures

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/leave-engine-go/internal/domain/employee"
	"github.com/google/uuid"
)

// DefaultEmployees returns a two-person roster for the in-memory store: a
// manager and one report. A nil ManagerID marks the manager.
func DefaultEmployees() []employee.Employee {
	now := time.Now().UTC()
	manager := employee.Employee{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Name:      "Dev Manager",
		HireDate:  now.AddDate(-2, 0, 0),
		CreatedAt: now,
		UpdatedAt: now,
	}
	report := employee.Employee{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Name:      "Dev Employee",
		ManagerID: &manager.ID,
		HireDate:  now.AddDate(-1, 0, 0),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return []employee.Employee{manager, report}
}

// SeedEmployees inserts the default roster into the given repository.
func SeedEmployees(ctx context.Context, repo employee.EmployeeRepository) ([]employee.Employee, error) {
	employees := DefaultEmployees()
	for i, e := range employees {
		created, err := repo.Create(ctx, e)
		if err != nil {
			return nil, fmt.Errorf("failed to seed employee %s: %w", e.Name, err)
		}
		employees[i] = created
	}
	return employees, nil
}
