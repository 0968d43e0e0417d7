/*
lifecycle.go - The three linked state machines

PURPOSE:
  Pure transition functions for Registration, Shift and ChangeRequest.
  Each takes the current snapshot and returns the updated snapshot or a
  typed error; nothing here touches storage.

STATE MACHINES:

  Registration:
    REGISTERED ──requestCancellation──▶ CANCEL_REQUESTED
    CANCEL_REQUESTED ──approveCancellation──▶ CANCELLED   (terminal)
    CANCEL_REQUESTED ──rejectCancellation───▶ REGISTERED  (reason retained)

  Shift (phase derived from nullable fields):
    NOT_STARTED ──clockIn──▶ CLOCKED_IN ──clockOut──▶ CLOCKED_OUT
    clockOut on CLOCKED_OUT is a no-op returning the unchanged record:
    a deliberate idempotency guarantee against duplicate network
    retries, not a silent failure.

  ChangeRequest:
    PENDING ──approve──▶ APPROVED (copies times onto the shift)
    PENDING ──reject───▶ REJECTED (shift untouched)

INVARIANTS:
  - CANCELLED registrations accept no further transitions.
  - At most one shift per registration, at most one PENDING change
    request per shift: the store backs both with unique indexes; the
    Service re-checks before insert for friendlier errors.

SEE ALSO:
  - service.go: Store-backed orchestration of these transitions
*/
package roster

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MinCancelReasonLen is the caller-facing contract for cancellation
// reasons, counted in runes so "äh" passes and "ä" does not.
const MinCancelReasonLen = 2

// =============================================================================
// REGISTRATION TRANSITIONS
// =============================================================================

// RequestCancellation moves REGISTERED -> CANCEL_REQUESTED, recording
// the reason. The reason must have at least MinCancelReasonLen
// characters after trimming.
func RequestCancellation(reg Registration, reason string) (Registration, error) {
	reason = strings.TrimSpace(reason)
	if utf8.RuneCountInString(reason) < MinCancelReasonLen {
		return reg, &ValidationError{Field: "reason", Message: "a cancellation reason is required"}
	}
	if reg.Status != StatusRegistered {
		return reg, &StateError{Entity: "registration", Action: "request cancellation", Status: string(reg.Status)}
	}
	reg.Status = StatusCancelRequested
	reg.CancelReason = &reason
	return reg, nil
}

// ApproveCancellation moves CANCEL_REQUESTED -> CANCELLED and records
// the approver. Re-approval fails: CANCELLED is terminal.
func ApproveCancellation(reg Registration, approverName string) (Registration, error) {
	if reg.Status != StatusCancelRequested {
		return reg, &StateError{Entity: "registration", Action: "approve cancellation", Status: string(reg.Status)}
	}
	reg.Status = StatusCancelled
	reg.CancelApprovedBy = &approverName
	return reg, nil
}

// RejectCancellation moves CANCEL_REQUESTED back to REGISTERED. The
// reason stays on the record for audit.
func RejectCancellation(reg Registration) (Registration, error) {
	if reg.Status != StatusCancelRequested {
		return reg, &StateError{Entity: "registration", Action: "reject cancellation", Status: string(reg.Status)}
	}
	reg.Status = StatusRegistered
	return reg, nil
}

// =============================================================================
// SHIFT TRANSITIONS
// =============================================================================

// NewShift builds the shift created by a check-in. Tip eligibility
// defaults to true; admins toggle it off per shift.
func NewShift(registrationID string, clockIn time.Time, geo *Geo) Shift {
	return Shift{
		ID:             uuid.NewString(),
		RegistrationID: registrationID,
		ClockIn:        &clockIn,
		ClockInGeo:     geo,
		ReceivesTip:    true,
		CreatedAt:      time.Now().UTC(),
	}
}

// NewManualShift builds an admin-backfilled shift carrying both times
// at once.
func NewManualShift(registrationID string, clockIn, clockOut time.Time) Shift {
	s := NewShift(registrationID, clockIn, nil)
	s.ClockOut = &clockOut
	return s
}

// ClockOut records the check-out with first-write-wins semantics on
// every field: an already clocked-out shift is returned unchanged.
func ClockOut(s Shift, at time.Time, geo *Geo, signature *string) Shift {
	if s.ClockOut == nil {
		s.ClockOut = &at
	}
	if s.ClockOutGeo == nil {
		s.ClockOutGeo = geo
	}
	if s.CheckoutSignature == nil {
		s.CheckoutSignature = signature
	}
	return s
}

// SetTipEligibility is an unconditional flag flip with no state
// restriction.
func SetTipEligibility(s Shift, receivesTip bool) Shift {
	s.ReceivesTip = receivesTip
	return s
}

// EditTimes is the admin correction that bypasses the change-request
// workflow. A nil value leaves the respective field untouched.
func EditTimes(s Shift, clockIn, clockOut *time.Time) Shift {
	if clockIn != nil {
		s.ClockIn = clockIn
	}
	if clockOut != nil {
		s.ClockOut = clockOut
	}
	return s
}

// =============================================================================
// CHANGE REQUEST TRANSITIONS
// =============================================================================

// NewChangeRequest proposes corrected times for a shift. Both times are
// required; the at-most-one-pending invariant is checked by the caller
// against the store.
func NewChangeRequest(shiftID string, clockIn, clockOut *time.Time) (ChangeRequest, error) {
	if clockIn == nil || clockOut == nil {
		return ChangeRequest{}, &ValidationError{Field: "clockIn/clockOut", Message: "both proposed times are required"}
	}
	return ChangeRequest{
		ID:        uuid.NewString(),
		ShiftID:   shiftID,
		ClockIn:   *clockIn,
		ClockOut:  *clockOut,
		Status:    ChangePending,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// ApproveChange resolves a PENDING request: the proposed times are
// copied onto the shift and the request becomes terminal. Returns both
// updated snapshots.
func ApproveChange(req ChangeRequest, s Shift, approverName string) (ChangeRequest, Shift, error) {
	if req.Status != ChangePending {
		return req, s, &StateError{Entity: "change request", Action: "approve change", Status: string(req.Status)}
	}
	req.Status = ChangeApproved
	req.ApprovedBy = &approverName
	in, out := req.ClockIn, req.ClockOut
	s.ClockIn = &in
	s.ClockOut = &out
	return req, s, nil
}

// RejectChange resolves a PENDING request without touching the shift.
func RejectChange(req ChangeRequest, approverName string) (ChangeRequest, error) {
	if req.Status != ChangePending {
		return req, &StateError{Entity: "change request", Action: "reject change", Status: string(req.Status)}
	}
	req.Status = ChangeRejected
	req.ApprovedBy = &approverName
	return req, nil
}
