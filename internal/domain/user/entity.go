package user

type Role string

const (
	RoleOwner    Role = "owner"    // Company owner - full access
	RoleManager  Role = "manager"  // Can approve leave requests
	RoleEmployee Role = "employee" // Regular employee
)

// Actor is the pre-authenticated identity a command runs as. The auth
// collaborator supplies it; the engine still re-validates role
// appropriateness against its own transition table.
type Actor struct {
	ID         string // user id from the token subject
	EmployeeID string
	Role       Role
}

// CanApprove checks if the actor may approve or reject requests
func (a Actor) CanApprove() bool {
	return a.Role == RoleManager || a.Role == RoleOwner
}

// IsRequester checks if the actor owns the given request's employee record
func (a Actor) IsRequester(employeeID string) bool {
	return a.EmployeeID == employeeID
}
