package adminkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTransitionPayoutProcess validates the pending -> processing step.
func TestTransitionPayoutProcess(t *testing.T) {
	p := Payout{ID: "p1", Status: PayoutPending}

	out, desc, err := TransitionPayout(p, OpPayoutProcess, Input{}, "admin-1", transitionNow)
	require.NoError(t, err)
	assert.Equal(t, PayoutProcessing, out.Status)
	assert.Equal(t, "admin-1", out.ProcessedBy)
	require.NotNil(t, out.ProcessedAt)
	assert.Equal(t, "processing started", desc)

	_, _, err = TransitionPayout(out, OpPayoutProcess, Input{}, "admin-1", transitionNow)
	assert.True(t, IsInvalidTransition(err))
}

// TestTransitionPayoutComplete validates the processing -> completed step.
func TestTransitionPayoutComplete(t *testing.T) {
	p := Payout{ID: "p1", Status: PayoutProcessing}

	out, desc, err := TransitionPayout(p, OpPayoutComplete, Input{}, "admin-1", transitionNow)
	require.NoError(t, err)
	assert.Equal(t, PayoutCompleted, out.Status)
	assert.Equal(t, "admin-1", out.CompletedBy)
	assert.Equal(t, "payout completed", desc)

	// Completing straight from pending is not allowed.
	_, _, err = TransitionPayout(Payout{ID: "p1", Status: PayoutPending}, OpPayoutComplete, Input{}, "admin-1", transitionNow)
	assert.True(t, IsInvalidTransition(err))
}

// TestTransitionPayoutFail validates failure from both non-terminal states
// with a mandatory reason.
func TestTransitionPayoutFail(t *testing.T) {
	for _, status := range []PayoutStatus{PayoutPending, PayoutProcessing} {
		p := Payout{ID: "p1", Status: status}

		out, desc, err := TransitionPayout(p, OpPayoutFail, Input{Reason: "bank rejected transfer"}, "admin-1", transitionNow)
		require.NoError(t, err, "fail from %s", status)
		assert.Equal(t, PayoutFailed, out.Status)
		assert.Equal(t, "bank rejected transfer", out.FailureReason)
		assert.Contains(t, desc, "bank rejected transfer")

		_, _, err = TransitionPayout(p, OpPayoutFail, Input{}, "admin-1", transitionNow)
		assert.True(t, IsReasonRequired(err))
	}
}

// TestTransitionPayoutCancel validates cancellation with an optional reason.
func TestTransitionPayoutCancel(t *testing.T) {
	p := Payout{ID: "p1", Status: PayoutPending}

	out, desc, err := TransitionPayout(p, OpPayoutCancel, Input{}, "admin-1", transitionNow)
	require.NoError(t, err)
	assert.Equal(t, PayoutCancelled, out.Status)
	assert.Equal(t, "admin-1", out.CancelledBy)
	assert.Empty(t, out.CancelReason)
	assert.Equal(t, "payout cancelled", desc)

	out, desc, err = TransitionPayout(Payout{ID: "p2", Status: PayoutProcessing}, OpPayoutCancel,
		Input{Reason: "organizer requested"}, "admin-1", transitionNow)
	require.NoError(t, err)
	assert.Equal(t, PayoutCancelled, out.Status)
	assert.Equal(t, "organizer requested", out.CancelReason)
	assert.Contains(t, desc, "organizer requested")
}

// TestTransitionPayoutTerminalStates validates that no operation moves a
// payout out of a terminal state.
func TestTransitionPayoutTerminalStates(t *testing.T) {
	ops := []Op{OpPayoutProcess, OpPayoutComplete, OpPayoutFail, OpPayoutCancel}

	for _, status := range []PayoutStatus{PayoutCompleted, PayoutFailed, PayoutCancelled} {
		assert.True(t, status.IsTerminal())
		for _, op := range ops {
			p := Payout{ID: "p1", Status: status}
			out, _, err := TransitionPayout(p, op, Input{Reason: "r"}, "admin-1", transitionNow)
			assert.True(t, IsInvalidTransition(err), "%s from %s", op, status)
			assert.Equal(t, status, out.Status)
		}
	}

	assert.False(t, PayoutPending.IsTerminal())
	assert.False(t, PayoutProcessing.IsTerminal())
}

// TestTransitionPayoutUnknownOp validates dispatch of non-payout operations.
func TestTransitionPayoutUnknownOp(t *testing.T) {
	p := Payout{ID: "p1", Status: PayoutPending}
	_, _, err := TransitionPayout(p, OpEventApprove, Input{}, "admin-1", transitionNow)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownOperation)
}
