package adminkit

// Op identifies one moderation operation: a (resource, transition) pair. The
// string value doubles as the audit action label.
type Op string

// User operations.
const (
	OpUserVerify             Op = "user.verify"
	OpUserRejectVerification Op = "user.reject_verification"
	OpUserSuspend            Op = "user.suspend"
	OpUserUnsuspend          Op = "user.unsuspend"
	OpUserDelete             Op = "user.delete"
	OpUserSetAdminRole       Op = "user.set_admin_role"
)

// Event operations.
const (
	OpEventApprove Op = "event.approve"
	OpEventReject  Op = "event.reject"
	OpEventFlag    Op = "event.flag"
	OpEventUnflag  Op = "event.unflag"
	OpEventDelete  Op = "event.delete"
)

// Payout operations.
const (
	OpPayoutProcess  Op = "payout.process"
	OpPayoutComplete Op = "payout.complete"
	OpPayoutFail     Op = "payout.fail"
	OpPayoutCancel   Op = "payout.cancel"
)

// Role administration audit labels. These are not Execute operations; role
// CRUD goes through the dedicated Service methods.
const (
	auditRoleCreate    = "role.create"
	auditRoleUpdate    = "role.update"
	auditRoleDelete    = "role.delete"
	auditRoleDuplicate = "role.duplicate"
)

// "user.ban" is a reserved audit label: UserStatusBanned exists but no
// operation produces it.

// Input carries the operation-specific payload for Execute.
type Input struct {
	// Reason is the free-text justification. Mandatory for suspensions,
	// verification rejections, event rejections, event flags and payout
	// failures; optional for payout cancellations.
	Reason string

	// RoleID is the role to assign for OpUserSetAdminRole. Empty clears the
	// admin role assignment.
	RoleID string
}

// grant is one (resource, action) pair an operation may be authorized by.
type grant struct {
	resource Resource
	action   Action
}

// opSpec describes how an operation is gated and dispatched.
type opSpec struct {
	resource Resource

	// anyOf authorizes the operation when the actor's role holds any one of
	// the listed grants. Empty for elevated operations.
	anyOf []grant

	// superAdminOnly bypasses resource-permission gating entirely: only the
	// super_admin system role qualifies.
	superAdminOnly bool

	// removes marks operations that delete the target instead of saving it.
	removes bool
}

var opTable = map[Op]opSpec{
	OpUserVerify:             {resource: ResourceUsers, anyOf: []grant{{ResourceUsers, ActionApprove}}},
	OpUserRejectVerification: {resource: ResourceUsers, anyOf: []grant{{ResourceUsers, ActionApprove}}},
	OpUserSuspend:            {resource: ResourceUsers, anyOf: []grant{{ResourceUsers, ActionEdit}}},
	OpUserUnsuspend:          {resource: ResourceUsers, anyOf: []grant{{ResourceUsers, ActionEdit}}},
	OpUserDelete:             {resource: ResourceUsers, anyOf: []grant{{ResourceUsers, ActionDelete}}, removes: true},
	OpUserSetAdminRole:       {resource: ResourceUsers, superAdminOnly: true},

	OpEventApprove: {resource: ResourceEvents, anyOf: []grant{{ResourceEvents, ActionApprove}}},
	OpEventReject:  {resource: ResourceEvents, anyOf: []grant{{ResourceEvents, ActionApprove}}},
	OpEventFlag:    {resource: ResourceEvents, anyOf: []grant{{ResourceEvents, ActionApprove}}},
	OpEventUnflag:  {resource: ResourceEvents, anyOf: []grant{{ResourceEvents, ActionApprove}}},
	OpEventDelete:  {resource: ResourceEvents, anyOf: []grant{{ResourceEvents, ActionDelete}}, removes: true},

	OpPayoutProcess:  {resource: ResourceFinance, anyOf: []grant{{ResourceFinance, ActionApprove}, {ResourceFinance, ActionEdit}}},
	OpPayoutComplete: {resource: ResourceFinance, anyOf: []grant{{ResourceFinance, ActionApprove}, {ResourceFinance, ActionEdit}}},
	OpPayoutFail:     {resource: ResourceFinance, anyOf: []grant{{ResourceFinance, ActionApprove}, {ResourceFinance, ActionEdit}}},
	OpPayoutCancel:   {resource: ResourceFinance, anyOf: []grant{{ResourceFinance, ActionApprove}, {ResourceFinance, ActionEdit}}},
}

// Resource returns the resource an operation targets, or "" for unknown ops.
func (op Op) Resource() Resource {
	return opTable[op].resource
}

// Known reports whether the operation is defined.
func (op Op) Known() bool {
	_, ok := opTable[op]
	return ok
}

// Ops returns every defined operation. Useful for exhaustive tests and for
// hosts rendering capability matrices.
func Ops() []Op {
	out := make([]Op, 0, len(opTable))
	for op := range opTable {
		out = append(out, op)
	}
	return out
}
