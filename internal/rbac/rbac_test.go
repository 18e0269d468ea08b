package rbac

import "testing"

func TestHasPermission(t *testing.T) {
	tests := []struct {
		role       string
		permission string
		expected   bool
	}{
		{RoleMember, PermWithdraw, true},
		{RoleMember, PermManageLinks, true},
		{RoleMember, PermReviewWithdrawals, false},
		{RoleMember, PermManageUsers, false},

		{RoleAdmin, PermReviewWithdrawals, true},
		{RoleAdmin, PermManageSettings, true},
		{RoleAdmin, PermManageAdRates, true},
		{RoleAdmin, PermManageUsers, false},

		{RoleSuperAdmin, PermManageUsers, true},
		{RoleSuperAdmin, PermWithdraw, true},

		{"nonexistent", PermWithdraw, false},
		{RoleMember, "nonexistent", false},
	}

	for _, tt := range tests {
		t.Run(tt.role+"/"+tt.permission, func(t *testing.T) {
			if got := HasPermission(tt.role, tt.permission); got != tt.expected {
				t.Errorf("HasPermission(%q, %q) = %v, want %v", tt.role, tt.permission, got, tt.expected)
			}
		})
	}
}

func TestAdminInheritsMemberSurface(t *testing.T) {
	for _, p := range RolePermissions[RoleMember] {
		if !HasPermission(RoleAdmin, p) {
			t.Errorf("admin missing member permission %q", p)
		}
		if !HasPermission(RoleSuperAdmin, p) {
			t.Errorf("superadmin missing member permission %q", p)
		}
	}
}

func TestAtLeastAdmin(t *testing.T) {
	if AtLeastAdmin(RoleMember) {
		t.Error("member must not pass AtLeastAdmin")
	}
	if !AtLeastAdmin(RoleAdmin) || !AtLeastAdmin(RoleSuperAdmin) {
		t.Error("admin and superadmin must pass AtLeastAdmin")
	}
}
