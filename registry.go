package adminkit

import (
	"sort"
	"sync"
	"time"
)

// Registry holds the seeded system roles. System roles are fixed at seed time
// and cannot be edited or deleted; custom roles live in a RoleStore and are
// managed through the Service.
//
// The read path takes no locks after seeding: lookups return deep copies, so
// Allowed checks are safe to run concurrently.
type Registry struct {
	mu     sync.RWMutex
	system map[string]*Role
}

// NewRegistry creates a registry seeded with the four system roles:
// super_admin, moderator, finance and support.
func NewRegistry() *Registry {
	r := &Registry{system: make(map[string]*Role)}
	for _, role := range seedSystemRoles() {
		r.system[role.ID] = role
	}
	return r
}

// seedSystemRoles builds the immutable system role definitions. Grants are
// explicit per (resource, action); there is no wildcard expansion.
func seedSystemRoles() []*Role {
	now := time.Unix(0, 0).UTC()

	superAdmin := PermissionSet{}
	for _, res := range AllResources() {
		superAdmin = superAdmin.Grant(res, AllActions()...)
	}

	moderator := PermissionSet{}.
		Grant(ResourceUsers, ActionView, ActionEdit, ActionApprove).
		Grant(ResourceEvents, ActionView, ActionApprove).
		Grant(ResourceReports, ActionView).
		Grant(ResourceAuditLogs, ActionView)

	finance := PermissionSet{}.
		Grant(ResourceFinance, ActionView, ActionEdit, ActionApprove, ActionExport).
		Grant(ResourceReports, ActionView, ActionExport).
		Grant(ResourceUsers, ActionView)

	support := PermissionSet{}.
		Grant(ResourceUsers, ActionView).
		Grant(ResourceEvents, ActionView).
		Grant(ResourceReports, ActionView)

	mk := func(id, name string, perms PermissionSet) *Role {
		return &Role{
			ID:          id,
			Type:        RoleTypeSystem,
			Name:        name,
			Permissions: perms,
			Version:     1,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
	}

	return []*Role{
		mk(RoleSuperAdmin, "Super Admin", superAdmin),
		mk(RoleModerator, "Moderator", moderator),
		mk(RoleFinance, "Finance", finance),
		mk(RoleSupport, "Support", support),
	}
}

// SystemRole returns a copy of the system role with the given id, or nil if
// the id does not name a system role.
func (r *Registry) SystemRole(id string) *Role {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.system[id].Clone()
}

// IsSystem reports whether the id names a seeded system role.
func (r *Registry) IsSystem(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.system[id]
	return ok
}

// SystemRoles returns copies of all seeded roles in stable order.
func (r *Registry) SystemRoles() []*Role {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Role, 0, len(r.system))
	for _, role := range r.system {
		out = append(out, role.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Allowed reports whether the role's permission set contains
// (resource, action). A nil role is never allowed anything.
func Allowed(role *Role, resource Resource, action Action) bool {
	if role == nil {
		return false
	}
	return role.Permissions.Allows(resource, action)
}
