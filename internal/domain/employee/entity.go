package employee

import "time"

// Employee reference data consumed by the leave engine. Balances are not
// stored here; they live in the ledger keyed by (employee, leave type).
type Employee struct {
	ID        string
	Name      string
	ManagerID *string
	HireDate  time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
