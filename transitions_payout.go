package adminkit

import "time"

// TransitionPayout applies a payout lifecycle operation to a copy of the
// payout and returns it with an audit description.
//
// The lifecycle is linear with branches: pending -> processing -> completed,
// and pending|processing -> failed (reason required) or cancelled. Completed,
// failed and cancelled are terminal; no operation moves a payout out of them.
func TransitionPayout(p Payout, op Op, in Input, actorID string, now time.Time) (Payout, string, error) {
	switch op {
	case OpPayoutProcess:
		if p.Status != PayoutPending {
			return p, "", NewError(ErrInvalidTransition, "payout is not pending").
				WithOp(op).WithTarget(p.ID)
		}
		p.Status = PayoutProcessing
		p.ProcessedAt = &now
		p.ProcessedBy = actorID
		return p, "processing started", nil

	case OpPayoutComplete:
		if p.Status != PayoutProcessing {
			return p, "", NewError(ErrInvalidTransition, "payout is not processing").
				WithOp(op).WithTarget(p.ID)
		}
		p.Status = PayoutCompleted
		p.CompletedAt = &now
		p.CompletedBy = actorID
		return p, "payout completed", nil

	case OpPayoutFail:
		reason, err := requireReason(op, p.ID, in)
		if err != nil {
			return p, "", err
		}
		if p.Status != PayoutPending && p.Status != PayoutProcessing {
			return p, "", NewError(ErrInvalidTransition, "payout is not pending or processing").
				WithOp(op).WithTarget(p.ID)
		}
		p.Status = PayoutFailed
		p.FailedAt = &now
		p.FailureReason = reason
		return p, "payout failed: " + reason, nil

	case OpPayoutCancel:
		if p.Status != PayoutPending && p.Status != PayoutProcessing {
			return p, "", NewError(ErrInvalidTransition, "payout is not pending or processing").
				WithOp(op).WithTarget(p.ID)
		}
		p.Status = PayoutCancelled
		p.CancelledAt = &now
		p.CancelledBy = actorID
		desc := "payout cancelled"
		if reason := trimmedReason(in); reason != "" {
			p.CancelReason = reason
			desc = "payout cancelled: " + reason
		}
		return p, desc, nil

	default:
		return p, "", NewError(ErrUnknownOperation, string(op)+" is not a payout operation").
			WithOp(op).WithTarget(p.ID)
	}
}
