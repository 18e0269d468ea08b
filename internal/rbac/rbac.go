package rbac

// Role constants
const (
	RoleMember     = "member"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)

// Permission constants
const (
	PermWithdraw          = "withdraw"
	PermManageLinks       = "manage_links"
	PermManageMethods     = "manage_methods"
	PermReviewWithdrawals = "review_withdrawals"
	PermManageSettings    = "manage_settings"
	PermManageAdRates     = "manage_ad_rates"
	PermManageUsers       = "manage_users"
)

// RolePermissions defines what each role can do. Admin inherits the member
// surface; only superadmin touches user roles.
var RolePermissions = map[string][]string{
	RoleMember: {
		PermWithdraw, PermManageLinks, PermManageMethods,
	},
	RoleAdmin: {
		PermWithdraw, PermManageLinks, PermManageMethods,
		PermReviewWithdrawals, PermManageSettings, PermManageAdRates,
	},
	RoleSuperAdmin: {
		PermWithdraw, PermManageLinks, PermManageMethods,
		PermReviewWithdrawals, PermManageSettings, PermManageAdRates,
		PermManageUsers,
	},
}

// HasPermission checks if a role has a specific permission.
func HasPermission(role, permission string) bool {
	perms, ok := RolePermissions[role]
	if !ok {
		return false
	}
	for _, p := range perms {
		if p == permission {
			return true
		}
	}
	return false
}

// IsValidRole reports whether role is one of the known roles.
func IsValidRole(role string) bool {
	_, ok := RolePermissions[role]
	return ok
}

// AtLeastAdmin reports whether the role carries the admin review surface.
func AtLeastAdmin(role string) bool {
	return role == RoleAdmin || role == RoleSuperAdmin
}
