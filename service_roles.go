package adminkit

import (
	"context"
	"strings"
)

// RoleResult is the outcome of a successful role administration call.
type RoleResult struct {
	// Role is the authoritative post-call role. Nil after a deletion.
	Role *Role

	// Entry is the audit record for the mutation.
	Entry *AuditLogEntry

	// AuditErr is non-nil when the audit append failed after the mutation
	// committed. Wraps ErrAuditWriteFailed.
	AuditErr error
}

// RoleUpdate describes a partial update to a custom role. Nil fields are
// left unchanged.
type RoleUpdate struct {
	Name        *string
	Permissions PermissionSet
}

// CreateRole creates a custom role. Requires roles:create.
func (s *Service) CreateRole(ctx context.Context, actorID, name string, perms PermissionSet) (*RoleResult, error) {
	actor, role, err := s.resolveActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !Allowed(role, ResourceRoles, ActionCreate) {
		return nil, NewError(ErrPermissionDenied, "creating roles requires roles:create").
			WithPermission(ResourceRoles, ActionCreate).WithActor(actorID)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewError(ErrInvalidInput, "role name is required")
	}
	if perms == nil {
		perms = PermissionSet{}
	}
	if err := perms.Validate(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	created := &Role{
		ID:          newRoleID(),
		Type:        RoleTypeCustom,
		Name:        name,
		Permissions: perms.Clone(),
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.roles.CreateRole(ctx, created); err != nil {
		return nil, err
	}

	res := &RoleResult{Role: created.Clone()}
	res.Entry = s.newEntry(actor, auditRoleCreate, TargetTypeRole, created.ID, nil, roleSnapshot(created), "role created: "+name)
	res.AuditErr = s.appendAudit(ctx, res.Entry)
	return res, nil
}

// UpdateRole updates a custom role's name and/or permission set. Requires
// roles:edit. System roles are rejected with ErrImmutableRole before any
// permission evaluation, so the failure mode does not depend on the caller.
func (s *Service) UpdateRole(ctx context.Context, actorID, roleID string, upd RoleUpdate) (*RoleResult, error) {
	if s.registry.IsSystem(roleID) {
		return nil, NewError(ErrImmutableRole, "system roles cannot be edited").
			WithRole(roleID).WithActor(actorID)
	}

	actor, role, err := s.resolveActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !Allowed(role, ResourceRoles, ActionEdit) {
		return nil, NewError(ErrPermissionDenied, "editing roles requires roles:edit").
			WithPermission(ResourceRoles, ActionEdit).WithActor(actorID)
	}

	unlock := s.locks.Lock(string(ResourceRoles) + ":" + roleID)
	defer unlock()

	target, err := s.roles.GetRole(ctx, roleID)
	if err != nil {
		return nil, err
	}
	prev := roleSnapshot(target)

	updated := target.Clone()
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, NewError(ErrInvalidInput, "role name is required").WithRole(roleID)
		}
		updated.Name = name
	}
	if upd.Permissions != nil {
		if err := upd.Permissions.Validate(); err != nil {
			return nil, err
		}
		updated.Permissions = upd.Permissions.Clone()
	}
	updated.UpdatedAt = s.now().UTC()

	if err := s.roles.UpdateRole(ctx, updated); err != nil {
		return nil, err
	}

	res := &RoleResult{Role: updated.Clone()}
	res.Entry = s.newEntry(actor, auditRoleUpdate, TargetTypeRole, roleID, prev, roleSnapshot(updated), "role updated: "+updated.Name)
	res.AuditErr = s.appendAudit(ctx, res.Entry)
	return res, nil
}

// DeleteRole deletes a custom role. Requires roles:delete. System roles are
// rejected with ErrImmutableRole unconditionally.
func (s *Service) DeleteRole(ctx context.Context, actorID, roleID string) (*RoleResult, error) {
	if s.registry.IsSystem(roleID) {
		return nil, NewError(ErrImmutableRole, "system roles cannot be deleted").
			WithRole(roleID).WithActor(actorID)
	}

	actor, role, err := s.resolveActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !Allowed(role, ResourceRoles, ActionDelete) {
		return nil, NewError(ErrPermissionDenied, "deleting roles requires roles:delete").
			WithPermission(ResourceRoles, ActionDelete).WithActor(actorID)
	}

	unlock := s.locks.Lock(string(ResourceRoles) + ":" + roleID)
	defer unlock()

	target, err := s.roles.GetRole(ctx, roleID)
	if err != nil {
		return nil, err
	}
	prev := roleSnapshot(target)

	if err := s.roles.DeleteRole(ctx, roleID); err != nil {
		return nil, err
	}

	res := &RoleResult{}
	res.Entry = s.newEntry(actor, auditRoleDelete, TargetTypeRole, roleID, prev, nil, "role deleted: "+target.Name)
	res.AuditErr = s.appendAudit(ctx, res.Entry)
	return res, nil
}

// DuplicateRole copies an existing role (system or custom) into a new custom
// role with the given name. Requires roles:create. The copy owns a deep copy
// of the source's permission set at duplication time; later edits to the
// source never affect it.
func (s *Service) DuplicateRole(ctx context.Context, actorID, sourceRoleID, name string) (*RoleResult, error) {
	actor, role, err := s.resolveActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !Allowed(role, ResourceRoles, ActionCreate) {
		return nil, NewError(ErrPermissionDenied, "duplicating roles requires roles:create").
			WithPermission(ResourceRoles, ActionCreate).WithActor(actorID)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewError(ErrInvalidInput, "role name is required")
	}

	source, err := s.ResolveRole(ctx, sourceRoleID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	copyRole := &Role{
		ID:          newRoleID(),
		Type:        RoleTypeCustom,
		Name:        name,
		Permissions: source.Permissions.Clone(),
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.roles.CreateRole(ctx, copyRole); err != nil {
		return nil, err
	}

	res := &RoleResult{Role: copyRole.Clone()}
	res.Entry = s.newEntry(actor, auditRoleDuplicate, TargetTypeRole, copyRole.ID,
		roleSnapshot(source), roleSnapshot(copyRole), "role duplicated from "+source.Name)
	res.AuditErr = s.appendAudit(ctx, res.Entry)
	return res, nil
}

// ListRoles returns the system roles followed by all custom roles. Requires
// roles:view.
func (s *Service) ListRoles(ctx context.Context, actorID string) ([]Role, error) {
	_, role, err := s.resolveActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !Allowed(role, ResourceRoles, ActionView) {
		return nil, NewError(ErrPermissionDenied, "listing roles requires roles:view").
			WithPermission(ResourceRoles, ActionView).WithActor(actorID)
	}

	out := make([]Role, 0, 8)
	for _, r := range s.registry.SystemRoles() {
		out = append(out, *r)
	}
	custom, err := s.roles.ListRoles(ctx)
	if err != nil {
		return nil, err
	}
	return append(out, custom...), nil
}

// roleSnapshot renders a role's identity and grants for audit values.
func roleSnapshot(r *Role) map[string]any {
	if r == nil {
		return nil
	}
	perms := make(map[string][]string, len(r.Permissions))
	for _, res := range r.Permissions.Resources() {
		actions := make([]string, 0, len(r.Permissions[res]))
		for _, a := range r.Permissions[res] {
			actions = append(actions, string(a))
		}
		perms[string(res)] = actions
	}
	return map[string]any{
		"id":          r.ID,
		"name":        r.Name,
		"type":        string(r.Type),
		"isSystem":    r.IsSystem(),
		"permissions": perms,
	}
}
