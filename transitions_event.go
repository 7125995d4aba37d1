package adminkit

import "time"

// TransitionEvent applies an event moderation operation to a copy of the
// event and returns it with an audit description.
//
// ApprovalStatus and IsFlagged are independent dimensions. Approval always
// clears an active flag; an approved event can still be flagged afterwards
// and stays flagged until explicitly unflagged. Queue membership is derived
// from these fields, never stored.
func TransitionEvent(e Event, op Op, in Input, actorID string, now time.Time) (Event, string, error) {
	switch op {
	case OpEventApprove:
		if e.ApprovalStatus != ApprovalPending {
			return e, "", NewError(ErrInvalidTransition, "event is not pending approval").
				WithOp(op).WithTarget(e.ID)
		}
		e.ApprovalStatus = ApprovalApproved
		e.ApprovedAt = &now
		e.ApprovedBy = actorID
		// Approval clears flags unconditionally.
		e.IsFlagged = false
		e.FlagReason = ""
		e.FlaggedAt = nil
		e.FlaggedBy = ""
		return e, "listing approved", nil

	case OpEventReject:
		reason, err := requireReason(op, e.ID, in)
		if err != nil {
			return e, "", err
		}
		if e.ApprovalStatus != ApprovalPending {
			return e, "", NewError(ErrInvalidTransition, "event is not pending approval").
				WithOp(op).WithTarget(e.ID)
		}
		e.ApprovalStatus = ApprovalRejected
		e.RejectedAt = &now
		e.RejectedBy = actorID
		e.RejectionReason = reason
		return e, "listing rejected: " + reason, nil

	case OpEventFlag:
		reason, err := requireReason(op, e.ID, in)
		if err != nil {
			return e, "", err
		}
		if e.IsFlagged {
			return e, "", NewError(ErrInvalidTransition, "event is already flagged").
				WithOp(op).WithTarget(e.ID)
		}
		e.IsFlagged = true
		e.FlagReason = reason
		e.FlaggedAt = &now
		e.FlaggedBy = actorID
		return e, "flagged: " + reason, nil

	case OpEventUnflag:
		if !e.IsFlagged {
			return e, "", NewError(ErrInvalidTransition, "event is not flagged").
				WithOp(op).WithTarget(e.ID)
		}
		e.IsFlagged = false
		e.FlagReason = ""
		e.FlaggedAt = nil
		e.FlaggedBy = ""
		return e, "flag removed", nil

	case OpEventDelete:
		// No precondition. Queue membership disappears with the entity.
		return e, "listing deleted", nil

	default:
		return e, "", NewError(ErrUnknownOperation, string(op)+" is not an event operation").
			WithOp(op).WithTarget(e.ID)
	}
}
