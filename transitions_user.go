package adminkit

import (
	"strings"
	"time"
)

// TransitionUser applies a user lifecycle operation to a copy of the user
// and returns it with an audit description. It is pure: no I/O, no clock
// reads, no mutation of the input.
//
// Verification: verify and reject both require verificationStatus=pending.
// Verifying a pending user also activates it (composite transition).
//
// Suspension: suspending requires a non-empty reason and a user that is not
// already suspended; re-suspending is a hard ErrInvalidTransition so an
// existing suspension reason is never silently overwritten. Unsuspending
// requires status=suspended.
//
// There is no transition to UserStatusBanned.
func TransitionUser(u User, op Op, in Input, actorID string, now time.Time) (User, string, error) {
	switch op {
	case OpUserVerify:
		if u.VerificationStatus != VerificationPending {
			return u, "", NewError(ErrInvalidTransition, "verification is not pending").
				WithOp(op).WithTarget(u.ID)
		}
		u.VerificationStatus = VerificationVerified
		u.VerifiedAt = &now
		u.VerifiedBy = actorID
		u.VerificationReason = ""
		desc := "identity verified"
		if u.Status == UserStatusPending {
			u.Status = UserStatusActive
			desc = "identity verified, account activated"
		}
		return u, desc, nil

	case OpUserRejectVerification:
		reason, err := requireReason(op, u.ID, in)
		if err != nil {
			return u, "", err
		}
		if u.VerificationStatus != VerificationPending {
			return u, "", NewError(ErrInvalidTransition, "verification is not pending").
				WithOp(op).WithTarget(u.ID)
		}
		u.VerificationStatus = VerificationRejected
		u.VerificationReason = reason
		u.VerifiedAt = nil
		u.VerifiedBy = ""
		return u, "identity verification rejected: " + reason, nil

	case OpUserSuspend:
		reason, err := requireReason(op, u.ID, in)
		if err != nil {
			return u, "", err
		}
		if u.Status == UserStatusSuspended {
			return u, "", NewError(ErrInvalidTransition, "user is already suspended").
				WithOp(op).WithTarget(u.ID)
		}
		u.Status = UserStatusSuspended
		u.SuspendedAt = &now
		u.SuspendedBy = actorID
		u.SuspendReason = reason
		return u, "suspended: " + reason, nil

	case OpUserUnsuspend:
		if u.Status != UserStatusSuspended {
			return u, "", NewError(ErrInvalidTransition, "user is not suspended").
				WithOp(op).WithTarget(u.ID)
		}
		u.Status = UserStatusActive
		u.SuspendedAt = nil
		u.SuspendedBy = ""
		u.SuspendReason = ""
		return u, "suspension lifted", nil

	case OpUserDelete:
		// No precondition; deletion is irreversible and handled by the
		// repository.
		return u, "account deleted", nil

	case OpUserSetAdminRole:
		if in.RoleID == "" {
			u.IsAdmin = false
			u.AdminRoleID = ""
			u.RoleAssignedAt = &now
			u.RoleAssignedBy = actorID
			return u, "admin role cleared", nil
		}
		u.IsAdmin = true
		u.AdminRoleID = in.RoleID
		u.RoleAssignedAt = &now
		u.RoleAssignedBy = actorID
		return u, "admin role set to " + in.RoleID, nil

	default:
		return u, "", NewError(ErrUnknownOperation, string(op)+" is not a user operation").
			WithOp(op).WithTarget(u.ID)
	}
}

// trimmedReason normalizes an optional reason.
func trimmedReason(in Input) string {
	return strings.TrimSpace(in.Reason)
}

// requireReason trims and validates a mandatory reason.
func requireReason(op Op, targetID string, in Input) (string, error) {
	reason := trimmedReason(in)
	if reason == "" {
		return "", NewError(ErrReasonRequired, "a reason is required for "+string(op)).
			WithOp(op).WithTarget(targetID)
	}
	return reason, nil
}
