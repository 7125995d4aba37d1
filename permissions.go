package adminkit

import "sort"

// PermissionSet maps a resource to the actions a role may perform on it.
// Absence of a resource is equivalent to an empty action set.
//
// Matching is exact. There are no wildcards and no implication between
// actions: a grant of "approve" never implies "edit".
type PermissionSet map[Resource][]Action

// Allows reports whether the set contains (resource, action).
func (ps PermissionSet) Allows(resource Resource, action Action) bool {
	for _, a := range ps[resource] {
		if a == action {
			return true
		}
	}
	return false
}

// Grant returns a copy of the set with the actions added to the resource,
// deduplicated. The receiver is not modified.
func (ps PermissionSet) Grant(resource Resource, actions ...Action) PermissionSet {
	cp := ps.Clone()
	if cp == nil {
		cp = PermissionSet{}
	}
	for _, a := range actions {
		if !cp.Allows(resource, a) {
			cp[resource] = append(cp[resource], a)
		}
	}
	return cp
}

// Revoke returns a copy of the set with the action removed from the resource.
func (ps PermissionSet) Revoke(resource Resource, action Action) PermissionSet {
	cp := ps.Clone()
	actions := cp[resource]
	kept := actions[:0]
	for _, a := range actions {
		if a != action {
			kept = append(kept, a)
		}
	}
	if len(kept) == 0 {
		delete(cp, resource)
	} else {
		cp[resource] = kept
	}
	return cp
}

// Clone returns a deep copy of the set.
func (ps PermissionSet) Clone() PermissionSet {
	if ps == nil {
		return nil
	}
	cp := make(PermissionSet, len(ps))
	for res, actions := range ps {
		cp[res] = append([]Action(nil), actions...)
	}
	return cp
}

// Resources returns the granted resources in stable order.
func (ps PermissionSet) Resources() []Resource {
	out := make([]Resource, 0, len(ps))
	for res := range ps {
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// knownResources and knownActions bound what Validate accepts.
var knownResources = map[Resource]bool{
	ResourceUsers:     true,
	ResourceEvents:    true,
	ResourceFinance:   true,
	ResourceReports:   true,
	ResourceRoles:     true,
	ResourceSettings:  true,
	ResourceAuditLogs: true,
}

var knownActions = map[Action]bool{
	ActionView:    true,
	ActionCreate:  true,
	ActionEdit:    true,
	ActionDelete:  true,
	ActionApprove: true,
	ActionExport:  true,
}

// ValidResource reports whether the resource name is known.
func ValidResource(r Resource) bool {
	return knownResources[r]
}

// ValidAction reports whether the action name is known.
func ValidAction(a Action) bool {
	return knownActions[a]
}

// Validate checks that every resource and action in the set is known.
func (ps PermissionSet) Validate() error {
	for res, actions := range ps {
		if !ValidResource(res) {
			return NewError(ErrInvalidInput, "unknown resource "+string(res))
		}
		for _, a := range actions {
			if !ValidAction(a) {
				return NewError(ErrInvalidInput, "unknown action "+string(a)).
					WithPermission(res, a)
			}
		}
	}
	return nil
}

// AllActions returns every known action. Used to seed the super_admin role
// explicitly, grant by grant.
func AllActions() []Action {
	return []Action{ActionView, ActionCreate, ActionEdit, ActionDelete, ActionApprove, ActionExport}
}

// AllResources returns every known resource.
func AllResources() []Resource {
	return []Resource{
		ResourceUsers, ResourceEvents, ResourceFinance, ResourceReports,
		ResourceRoles, ResourceSettings, ResourceAuditLogs,
	}
}
