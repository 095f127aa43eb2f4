package user

type Role string

const (
	RoleEmployee Role = "employee" // Regular worker, submits requests
	RoleManager  Role = "manager"  // First approver in every chain
	RoleHR       Role = "hr"       // Second approver
	RoleFinance  Role = "finance"  // Final approver for reimbursements
	RoleAdmin    Role = "admin"    // May override timesheets
)

// Roles lists every role the gateway accepts, in precedence order
var Roles = []Role{RoleEmployee, RoleManager, RoleHR, RoleFinance, RoleAdmin}

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	for _, role := range Roles {
		if role == r {
			return true
		}
	}
	return false
}

// Identity is what the core needs to know about a caller
type Identity struct {
	UserID   string
	WorkerID *string
	Role     Role
}

// HasWorker checks if the user is linked to a worker record
func (i Identity) HasWorker() bool {
	return i.WorkerID != nil && *i.WorkerID != ""
}

// IsApprover checks if the user takes part in any approval stage
func (i Identity) IsApprover() bool {
	return i.Role == RoleManager || i.Role == RoleHR || i.Role == RoleFinance || i.Role == RoleAdmin
}
