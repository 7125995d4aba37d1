package adminkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRegistrySeedsSystemRoles validates that NewRegistry seeds exactly the
// four system roles.
func TestRegistrySeedsSystemRoles(t *testing.T) {
	r := NewRegistry()

	roles := r.SystemRoles()
	require.Len(t, roles, 4)

	ids := make([]string, 0, len(roles))
	for _, role := range roles {
		ids = append(ids, role.ID)
		assert.Equal(t, RoleTypeSystem, role.Type)
		assert.True(t, role.IsSystem())
	}
	assert.Equal(t, []string{RoleFinance, RoleModerator, RoleSuperAdmin, RoleSupport}, ids)

	assert.True(t, r.IsSystem(RoleSuperAdmin))
	assert.True(t, r.IsSystem(RoleModerator))
	assert.True(t, r.IsSystem(RoleFinance))
	assert.True(t, r.IsSystem(RoleSupport))
	assert.False(t, r.IsSystem("content-team"))
	assert.False(t, r.IsSystem(""))
}

// TestRegistrySuperAdminHasEveryGrant validates the super_admin role covers
// the full resource and action matrix.
func TestRegistrySuperAdminHasEveryGrant(t *testing.T) {
	r := NewRegistry()
	role := r.SystemRole(RoleSuperAdmin)
	require.NotNil(t, role)

	for _, res := range AllResources() {
		for _, act := range AllActions() {
			assert.True(t, Allowed(role, res, act), "super_admin should hold %s:%s", res, act)
		}
	}
}

// TestRegistryModeratorGrants validates the moderator role's exact grants,
// notably that it can approve events but never delete them.
func TestRegistryModeratorGrants(t *testing.T) {
	r := NewRegistry()
	role := r.SystemRole(RoleModerator)
	require.NotNil(t, role)

	assert.True(t, Allowed(role, ResourceEvents, ActionView))
	assert.True(t, Allowed(role, ResourceEvents, ActionApprove))
	assert.False(t, Allowed(role, ResourceEvents, ActionDelete))
	assert.False(t, Allowed(role, ResourceEvents, ActionEdit))
	assert.False(t, Allowed(role, ResourceEvents, ActionCreate))

	assert.True(t, Allowed(role, ResourceUsers, ActionView))
	assert.True(t, Allowed(role, ResourceUsers, ActionEdit))
	assert.True(t, Allowed(role, ResourceUsers, ActionApprove))
	assert.False(t, Allowed(role, ResourceUsers, ActionDelete))

	assert.True(t, Allowed(role, ResourceReports, ActionView))
	assert.True(t, Allowed(role, ResourceAuditLogs, ActionView))
	assert.False(t, Allowed(role, ResourceFinance, ActionView))
	assert.False(t, Allowed(role, ResourceRoles, ActionView))
	assert.False(t, Allowed(role, ResourceSettings, ActionView))
}

// TestRegistryFinanceGrants validates the finance role's exact grants.
func TestRegistryFinanceGrants(t *testing.T) {
	r := NewRegistry()
	role := r.SystemRole(RoleFinance)
	require.NotNil(t, role)

	assert.True(t, Allowed(role, ResourceFinance, ActionView))
	assert.True(t, Allowed(role, ResourceFinance, ActionEdit))
	assert.True(t, Allowed(role, ResourceFinance, ActionApprove))
	assert.True(t, Allowed(role, ResourceFinance, ActionExport))
	assert.False(t, Allowed(role, ResourceFinance, ActionDelete))

	assert.True(t, Allowed(role, ResourceReports, ActionView))
	assert.True(t, Allowed(role, ResourceReports, ActionExport))
	assert.True(t, Allowed(role, ResourceUsers, ActionView))
	assert.False(t, Allowed(role, ResourceUsers, ActionEdit))
	assert.False(t, Allowed(role, ResourceEvents, ActionView))
}

// TestRegistrySupportGrants validates the support role is view-only.
func TestRegistrySupportGrants(t *testing.T) {
	r := NewRegistry()
	role := r.SystemRole(RoleSupport)
	require.NotNil(t, role)

	assert.True(t, Allowed(role, ResourceUsers, ActionView))
	assert.True(t, Allowed(role, ResourceEvents, ActionView))
	assert.True(t, Allowed(role, ResourceReports, ActionView))

	for _, res := range AllResources() {
		for _, act := range AllActions() {
			if act == ActionView {
				continue
			}
			assert.False(t, Allowed(role, res, act), "support must not hold %s:%s", res, act)
		}
	}
}

// TestRegistrySystemRoleReturnsCopy validates that mutating a looked-up role
// never leaks back into the registry.
func TestRegistrySystemRoleReturnsCopy(t *testing.T) {
	r := NewRegistry()

	role := r.SystemRole(RoleSupport)
	require.NotNil(t, role)
	role.Permissions = role.Permissions.Grant(ResourceFinance, ActionExport)
	role.Name = "Hacked"

	fresh := r.SystemRole(RoleSupport)
	assert.Equal(t, "Support", fresh.Name)
	assert.False(t, Allowed(fresh, ResourceFinance, ActionExport))
}

// TestRegistrySystemRoleUnknown validates lookups of non-system ids.
func TestRegistrySystemRoleUnknown(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.SystemRole("content-team"))
	assert.Nil(t, r.SystemRole(""))
}

// TestAllowedNilRole validates that a nil role is never allowed anything.
func TestAllowedNilRole(t *testing.T) {
	assert.False(t, Allowed(nil, ResourceUsers, ActionView))
}
