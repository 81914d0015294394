package leave

import "time"

// Event names published on the engine hub. Audit and notification
// collaborators subscribe to these; the engine never waits on consumers.
const (
	EventRequestSubmitted    = "leave.request_submitted"
	EventRequestTransitioned = "leave.request_transitioned"
	EventBalanceChanged      = "leave.balance_changed"
)

type RequestSubmittedEvent struct {
	RequestID   string    `json:"request_id"`
	EmployeeID  string    `json:"employee_id"`
	LeaveTypeID string    `json:"leave_type_id"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	WorkingDays float64   `json:"working_days"`
}

type RequestTransitionedEvent struct {
	RequestID  string             `json:"request_id"`
	EmployeeID string             `json:"employee_id"`
	From       LeaveRequestStatus `json:"from"`
	To         LeaveRequestStatus `json:"to"`
	Action     Action             `json:"action"`
	ActorID    string             `json:"actor_id"`
}

type BalanceChangedEvent struct {
	EmployeeID   string  `json:"employee_id"`
	LeaveTypeID  string  `json:"leave_type_id"`
	Delta        float64 `json:"delta"` // change in available units
	NewAvailable float64 `json:"new_available"`
	Reason       string  `json:"reason"`
}
