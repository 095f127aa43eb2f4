package fixtures

import (
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/user"
)

// ==========================================
// HELPER FUNCTIONS
// ==========================================

func strPtr(s string) *string { return &s }

// ==========================================
// DEMO WORKFORCE
// ==========================================

// Member is one seeded user; Employee is nil for users without a worker record
type Member struct {
	Identity user.Identity
	Employee *employee.Employee
}

// Seeder is implemented by stores that accept directly registered identities
type Seeder interface {
	AddIdentity(identity user.Identity, e *employee.Employee)
}

// Fixed ids so demo tokens stay valid across restarts
const (
	EmployeeUserID = "0190f5a0-0000-7000-8000-000000000001"
	ManagerUserID  = "0190f5a0-0000-7000-8000-000000000002"
	HRUserID       = "0190f5a0-0000-7000-8000-000000000003"
	FinanceUserID  = "0190f5a0-0000-7000-8000-000000000004"
	AdminUserID    = "0190f5a0-0000-7000-8000-000000000005"

	EmployeeWorkerID = "0190f5a0-0000-7000-8000-000000000101"
	ManagerWorkerID  = "0190f5a0-0000-7000-8000-000000000102"
	HRWorkerID       = "0190f5a0-0000-7000-8000-000000000103"
	FinanceWorkerID  = "0190f5a0-0000-7000-8000-000000000104"
)

// DemoWorkforce returns one user per role. The admin has no worker record.
func DemoWorkforce() []Member {
	member := func(userID, workerID, code, name string, position *string, role user.Role) Member {
		return Member{
			Identity: user.Identity{UserID: userID, WorkerID: strPtr(workerID), Role: role},
			Employee: &employee.Employee{
				ID:               workerID,
				UserID:           strPtr(userID),
				EmployeeCode:     code,
				FullName:         name,
				PositionName:     position,
				BranchName:       strPtr("Headquarters"),
				EmploymentStatus: employee.EmploymentStatusActive,
			},
		}
	}

	return []Member{
		member(EmployeeUserID, EmployeeWorkerID, "EMP-001", "Ayu Lestari", strPtr("Staff"), user.RoleEmployee),
		member(ManagerUserID, ManagerWorkerID, "EMP-002", "Budi Santoso", strPtr("Manager"), user.RoleManager),
		member(HRUserID, HRWorkerID, "EMP-003", "Citra Dewi", strPtr("HR Officer"), user.RoleHR),
		// no position on record; reports must still list this worker
		member(FinanceUserID, FinanceWorkerID, "EMP-004", "Dimas Pratama", nil, user.RoleFinance),
		{Identity: user.Identity{UserID: AdminUserID, Role: user.RoleAdmin}},
	}
}

// Seed registers the demo workforce with s
func Seed(s Seeder) []Member {
	members := DemoWorkforce()
	for _, m := range members {
		s.AddIdentity(m.Identity, m.Employee)
	}
	return members
}
