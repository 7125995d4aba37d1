package adminkit

import (
	"context"
	"strings"
)

// Result is the outcome of a successful Execute call.
type Result struct {
	Op       Op
	Resource Resource
	TargetID string

	// Snapshot is the authoritative post-transition state. Nil for delete
	// operations. Read-side projections must be recomputed from this, never
	// patched speculatively.
	Snapshot map[string]any

	// Entry is the audit record for the mutation. Present even when the
	// append failed, so the caller can retry reporting out of band.
	Entry *AuditLogEntry

	// AuditErr is non-nil when the audit append failed after the mutation
	// committed. It wraps ErrAuditWriteFailed and is a warning, not a
	// failure: the returned state is authoritative.
	AuditErr error
}

// Execute performs one moderation operation against one target entity.
//
// Gates run in order, each hard-failing before any state is touched:
// resolve actor and role, evaluate permission, load the entity, apply the
// pure transition, persist, append the audit entry. Only the audit step is
// non-fatal; its failure is surfaced on Result.AuditErr and logged.
//
// Calls against the same target are serialized; calls against different
// targets run in parallel. Once persistence has committed the operation is
// not cancellable.
func (s *Service) Execute(ctx context.Context, actorID string, op Op, targetID string, in Input) (*Result, error) {
	spec, ok := opTable[op]
	if !ok {
		return nil, NewError(ErrUnknownOperation, "operation "+string(op)+" is not defined").
			WithOp(op)
	}
	if strings.TrimSpace(targetID) == "" {
		return nil, NewError(ErrInvalidInput, "target id is required").WithOp(op)
	}

	actor, role, err := s.resolveActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := authorize(role, op, spec); err != nil {
		return nil, err.WithActor(actorID).WithTarget(targetID)
	}

	// Assigning a role that does not exist must fail before any mutation.
	if op == OpUserSetAdminRole && in.RoleID != "" {
		if _, err := s.ResolveRole(ctx, in.RoleID); err != nil {
			return nil, err
		}
	}

	unlock := s.locks.Lock(string(spec.resource) + ":" + targetID)
	defer unlock()

	switch spec.resource {
	case ResourceUsers:
		return s.executeUser(ctx, actor, op, spec, targetID, in)
	case ResourceEvents:
		return s.executeEvent(ctx, actor, op, spec, targetID, in)
	case ResourceFinance:
		return s.executePayout(ctx, actor, op, targetID, in)
	default:
		return nil, NewError(ErrUnknownOperation, "no state machine for resource "+string(spec.resource)).
			WithOp(op)
	}
}

// authorize checks the operation's permission requirements against a role.
func authorize(role *Role, op Op, spec opSpec) *Error {
	if spec.superAdminOnly {
		if role.ID == RoleSuperAdmin {
			return nil
		}
		return NewError(ErrPermissionDenied, "operation "+string(op)+" requires the super_admin role").
			WithOp(op).WithRole(role.ID)
	}
	for _, g := range spec.anyOf {
		if Allowed(role, g.resource, g.action) {
			return nil
		}
	}
	return NewError(ErrPermissionDenied, "operation "+string(op)+" requires "+describeGrants(spec.anyOf)).
		WithOp(op).WithRole(role.ID).
		WithPermission(spec.anyOf[0].resource, spec.anyOf[0].action)
}

// describeGrants renders "finance:approve or finance:edit" for error detail.
func describeGrants(grants []grant) string {
	parts := make([]string, len(grants))
	for i, g := range grants {
		parts[i] = string(g.resource) + ":" + string(g.action)
	}
	return strings.Join(parts, " or ")
}

func (s *Service) executeUser(ctx context.Context, actor *User, op Op, spec opSpec, targetID string, in Input) (*Result, error) {
	target, err := s.repo.GetUser(ctx, targetID)
	if err != nil {
		return nil, err
	}
	prev := target.Snapshot()

	updated, desc, err := TransitionUser(*target, op, in, actor.ID, s.now().UTC())
	if err != nil {
		return nil, err
	}

	res := &Result{Op: op, Resource: spec.resource, TargetID: targetID}
	if spec.removes {
		if err := s.repo.DeleteUser(ctx, targetID); err != nil {
			return nil, err
		}
	} else {
		updated.UpdatedAt = s.now().UTC()
		if err := s.repo.SaveUser(ctx, &updated); err != nil {
			return nil, err
		}
		res.Snapshot = updated.Snapshot()
	}

	res.Entry = s.newEntry(actor, string(op), TargetTypeUser, targetID, prev, res.Snapshot, desc)
	res.AuditErr = s.appendAudit(ctx, res.Entry)
	return res, nil
}

func (s *Service) executeEvent(ctx context.Context, actor *User, op Op, spec opSpec, targetID string, in Input) (*Result, error) {
	target, err := s.repo.GetEvent(ctx, targetID)
	if err != nil {
		return nil, err
	}
	prev := target.Snapshot()

	updated, desc, err := TransitionEvent(*target, op, in, actor.ID, s.now().UTC())
	if err != nil {
		return nil, err
	}

	res := &Result{Op: op, Resource: spec.resource, TargetID: targetID}
	if spec.removes {
		if err := s.repo.DeleteEvent(ctx, targetID); err != nil {
			return nil, err
		}
	} else {
		updated.UpdatedAt = s.now().UTC()
		if err := s.repo.SaveEvent(ctx, &updated); err != nil {
			return nil, err
		}
		res.Snapshot = updated.Snapshot()
	}

	res.Entry = s.newEntry(actor, string(op), TargetTypeEvent, targetID, prev, res.Snapshot, desc)
	res.AuditErr = s.appendAudit(ctx, res.Entry)
	return res, nil
}

func (s *Service) executePayout(ctx context.Context, actor *User, op Op, targetID string, in Input) (*Result, error) {
	target, err := s.repo.GetPayout(ctx, targetID)
	if err != nil {
		return nil, err
	}
	prev := target.Snapshot()

	updated, desc, err := TransitionPayout(*target, op, in, actor.ID, s.now().UTC())
	if err != nil {
		return nil, err
	}

	updated.UpdatedAt = s.now().UTC()
	if err := s.repo.SavePayout(ctx, &updated); err != nil {
		return nil, err
	}

	res := &Result{
		Op:       op,
		Resource: ResourceFinance,
		TargetID: targetID,
		Snapshot: updated.Snapshot(),
	}
	res.Entry = s.newEntry(actor, string(op), TargetTypePayout, targetID, prev, res.Snapshot, desc)
	res.AuditErr = s.appendAudit(ctx, res.Entry)
	return res, nil
}
