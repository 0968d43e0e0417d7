package roster_test

import (
	"testing"

	"github.com/kulturwerk/shift-engine/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registered() roster.Registration {
	return roster.Registration{
		ID:      "reg-1",
		UserID:  "user-1",
		EventID: "event-1",
		Status:  roster.StatusRegistered,
	}
}

// =============================================================================
// REGISTRATION MACHINE
// =============================================================================

func TestRegistration_CancelThenApprove(t *testing.T) {
	// GIVEN: A registered user asking to cancel
	reg, err := roster.RequestCancellation(registered(), "sick that day")
	require.NoError(t, err)
	assert.Equal(t, roster.StatusCancelRequested, reg.Status)
	require.NotNil(t, reg.CancelReason)
	assert.Equal(t, "sick that day", *reg.CancelReason)

	// WHEN: An admin approves
	reg, err = roster.ApproveCancellation(reg, "Maria")
	require.NoError(t, err)

	// THEN: Terminal state with the approver recorded
	assert.Equal(t, roster.StatusCancelled, reg.Status)
	require.NotNil(t, reg.CancelApprovedBy)
	assert.Equal(t, "Maria", *reg.CancelApprovedBy)
}

func TestRegistration_CancelThenReject_KeepsReason(t *testing.T) {
	reg, err := roster.RequestCancellation(registered(), "double booked")
	require.NoError(t, err)

	reg, err = roster.RejectCancellation(reg)
	require.NoError(t, err)

	// Back to REGISTERED, reason still retrievable for audit.
	assert.Equal(t, roster.StatusRegistered, reg.Status)
	require.NotNil(t, reg.CancelReason)
	assert.Equal(t, "double booked", *reg.CancelReason)
}

func TestRegistration_RequestCancellation_ReasonRequired(t *testing.T) {
	_, err := roster.RequestCancellation(registered(), "")
	assert.ErrorIs(t, err, roster.ErrValidation)

	_, err = roster.RequestCancellation(registered(), "x")
	assert.ErrorIs(t, err, roster.ErrValidation)

	_, err = roster.RequestCancellation(registered(), "  \t ")
	assert.ErrorIs(t, err, roster.ErrValidation)

	// The minimum counts runes, not bytes: one umlaut is still too
	// short even though it encodes as two bytes.
	_, err = roster.RequestCancellation(registered(), "ä")
	assert.ErrorIs(t, err, roster.ErrValidation)

	reg, err := roster.RequestCancellation(registered(), "äh")
	require.NoError(t, err)
	assert.Equal(t, roster.StatusCancelRequested, reg.Status)
}

func TestRegistration_ApproveWithoutRequest_StateError(t *testing.T) {
	// Approving a registration that never asked to cancel is illegal.
	_, err := roster.ApproveCancellation(registered(), "Maria")
	assert.ErrorIs(t, err, roster.ErrState)

	var stateErr *roster.StateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, "REGISTERED", stateErr.Status)
}

func TestRegistration_CancelledIsTerminal(t *testing.T) {
	reg, _ := roster.RequestCancellation(registered(), "moving away")
	reg, _ = roster.ApproveCancellation(reg, "Maria")

	_, err := roster.RequestCancellation(reg, "again")
	assert.ErrorIs(t, err, roster.ErrState)

	_, err = roster.ApproveCancellation(reg, "Maria")
	assert.ErrorIs(t, err, roster.ErrState, "re-approval must fail")

	_, err = roster.RejectCancellation(reg)
	assert.ErrorIs(t, err, roster.ErrState)
}

// =============================================================================
// SHIFT MACHINE
// =============================================================================

func TestShift_PhaseTagging(t *testing.T) {
	var none *roster.Shift
	assert.Equal(t, roster.ShiftNotStarted, none.Phase())

	s := roster.NewShift("reg-1", *at(9, 0), &roster.Geo{Lat: 52.52, Lon: 13.40})
	assert.Equal(t, roster.ShiftClockedIn, s.Phase())

	s = roster.ClockOut(s, *at(17, 0), nil, nil)
	assert.Equal(t, roster.ShiftClockedOut, s.Phase())
}

func TestShift_ClockOutIsIdempotent(t *testing.T) {
	// GIVEN: A clocked-out shift
	s := roster.NewShift("reg-1", *at(9, 0), nil)
	s = roster.ClockOut(s, *at(17, 0), &roster.Geo{Lat: 1, Lon: 2}, nil)

	// WHEN: A duplicate check-out arrives with a different time
	replay := roster.ClockOut(s, *at(18, 30), &roster.Geo{Lat: 9, Lon: 9}, nil)

	// THEN: The first write wins, bit for bit
	assert.Equal(t, s, replay)
	assert.Equal(t, *at(17, 0), *replay.ClockOut)
	assert.Equal(t, roster.Geo{Lat: 1, Lon: 2}, *replay.ClockOutGeo)
}

func TestShift_ClockOutFillsMissingSignatureOnly(t *testing.T) {
	// The retry carries a signature the first call lacked: the signature
	// is taken, the time is not.
	s := roster.NewShift("reg-1", *at(9, 0), nil)
	s = roster.ClockOut(s, *at(17, 0), nil, nil)

	sig := "sig-ref-1"
	replay := roster.ClockOut(s, *at(18, 0), nil, &sig)

	assert.Equal(t, *at(17, 0), *replay.ClockOut)
	require.NotNil(t, replay.CheckoutSignature)
	assert.Equal(t, "sig-ref-1", *replay.CheckoutSignature)
}

func TestShift_TipEligibilityTogglesFreely(t *testing.T) {
	s := roster.NewShift("reg-1", *at(9, 0), nil)
	assert.True(t, s.ReceivesTip, "new shifts are eligible by default")

	s = roster.SetTipEligibility(s, false)
	assert.False(t, s.ReceivesTip)

	s = roster.SetTipEligibility(s, true)
	assert.True(t, s.ReceivesTip)
}

func TestShift_EditTimes_PartialUpdate(t *testing.T) {
	s := roster.NewManualShift("reg-1", *at(9, 0), *at(17, 0))

	s = roster.EditTimes(s, at(10, 0), nil)
	assert.Equal(t, *at(10, 0), *s.ClockIn)
	assert.Equal(t, *at(17, 0), *s.ClockOut)
}

// =============================================================================
// CHANGE REQUEST MACHINE
// =============================================================================

func TestChangeRequest_ApproveCopiesTimesOntoShift(t *testing.T) {
	// GIVEN: A shift and a pending correction
	shift := roster.NewManualShift("reg-1", *at(9, 0), *at(17, 0))
	req, err := roster.NewChangeRequest(shift.ID, at(8, 30), at(16, 45))
	require.NoError(t, err)
	assert.Equal(t, roster.ChangePending, req.Status)

	// WHEN: An admin approves
	req, shift, err = roster.ApproveChange(req, shift, "Maria")
	require.NoError(t, err)

	// THEN: Both times land on the shift and the request is terminal
	assert.Equal(t, roster.ChangeApproved, req.Status)
	assert.Equal(t, *at(8, 30), *shift.ClockIn)
	assert.Equal(t, *at(16, 45), *shift.ClockOut)
	require.NotNil(t, req.ApprovedBy)
	assert.Equal(t, "Maria", *req.ApprovedBy)
}

func TestChangeRequest_RejectLeavesShiftUntouched(t *testing.T) {
	shift := roster.NewManualShift("reg-1", *at(9, 0), *at(17, 0))
	before := shift

	req, err := roster.NewChangeRequest(shift.ID, at(8, 0), at(18, 0))
	require.NoError(t, err)

	req, err = roster.RejectChange(req, "Maria")
	require.NoError(t, err)

	assert.Equal(t, roster.ChangeRejected, req.Status)
	assert.Equal(t, before, shift)
}

func TestChangeRequest_ResolvedIsTerminal(t *testing.T) {
	shift := roster.NewManualShift("reg-1", *at(9, 0), *at(17, 0))
	req, _ := roster.NewChangeRequest(shift.ID, at(8, 0), at(18, 0))
	req, _ = roster.RejectChange(req, "Maria")

	_, _, err := roster.ApproveChange(req, shift, "Maria")
	assert.ErrorIs(t, err, roster.ErrState)

	_, err = roster.RejectChange(req, "Maria")
	assert.ErrorIs(t, err, roster.ErrState)
}

func TestChangeRequest_BothTimesRequired(t *testing.T) {
	_, err := roster.NewChangeRequest("shift-1", at(8, 0), nil)
	assert.ErrorIs(t, err, roster.ErrValidation)

	_, err = roster.NewChangeRequest("shift-1", nil, nil)
	assert.ErrorIs(t, err, roster.ErrValidation)
}

// Guard against accidental changes to the wire contract.
func TestStatusStringsAreWireExact(t *testing.T) {
	assert.Equal(t, "REGISTERED", string(roster.StatusRegistered))
	assert.Equal(t, "CANCEL_REQUESTED", string(roster.StatusCancelRequested))
	assert.Equal(t, "CANCELLED", string(roster.StatusCancelled))
	assert.Equal(t, "PENDING", string(roster.ChangePending))
	assert.Equal(t, "APPROVED", string(roster.ChangeApproved))
	assert.Equal(t, "REJECTED", string(roster.ChangeRejected))
}
