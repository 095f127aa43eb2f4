package user

type Permission string

const (
	// Time Ledger
	PermissionPunch       Permission = "time.punch"
	PermissionTimeViewOwn Permission = "time.view_own"
	PermissionTimeViewAll Permission = "time.view_all"

	// Requests
	PermissionRequestSubmit  Permission = "request.submit"
	PermissionRequestViewOwn Permission = "request.view_own"
	PermissionRequestViewAll Permission = "request.view_all"

	// Approvals
	PermissionApprovalDecide Permission = "approval.decide"

	// Reports
	PermissionReportsView Permission = "reports.view"
)

var selfService = []Permission{
	PermissionPunch,
	PermissionTimeViewOwn,
	PermissionRequestSubmit,
	PermissionRequestViewOwn,
}

var approver = append(append([]Permission{}, selfService...),
	PermissionTimeViewAll,
	PermissionRequestViewAll,
	PermissionApprovalDecide,
	PermissionReportsView,
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleEmployee: selfService,
	RoleManager:  approver,
	RoleHR:       approver,
	RoleFinance:  approver,
	RoleAdmin:    approver,
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
