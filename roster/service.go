/*
service.go - Store-backed orchestration of the lifecycle machines

PURPOSE:
  Wires the pure transitions from lifecycle.go to the persistence
  collaborator: load snapshot, transition, save. All invariant checks
  that need the store (duplicate shift, duplicate pending request) live
  here, with the store's unique indexes as the transactional backstop
  against concurrent writers.

EVERY OPERATION IS SHORT-LIVED:
  One request, one snapshot, no in-process state. Replayable operations
  (clock-out, tip flag) are idempotent by construction; everything else
  fails outright - there are no automatic retries in this core.

SEE ALSO:
  - lifecycle.go: The pure transitions
  - api/handlers.go: HTTP entry points calling into this service
*/
package roster

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Service exposes the staffing operations over a Store.
type Service struct {
	Store Store
}

func NewService(store Store) *Service {
	return &Service{Store: store}
}

// =============================================================================
// REGISTRATION
// =============================================================================

// CreateRegistration enrolls a user in an event. When an admin backfills
// attendance, clockIn/clockOut pre-seed a shift in the same call.
func (svc *Service) CreateRegistration(
	ctx context.Context,
	userID, eventID string,
	helpsSetup, helpsTeardown bool,
	clockIn, clockOut *time.Time,
) (*Registration, *Shift, error) {
	user, err := svc.Store.GetUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, &NotFoundError{Entity: "user", ID: userID}
	}
	event, err := svc.Store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}
	if event == nil {
		return nil, nil, &NotFoundError{Entity: "event", ID: eventID}
	}

	reg := Registration{
		ID:            uuid.NewString(),
		UserID:        userID,
		EventID:       eventID,
		Status:        StatusRegistered,
		HelpsSetup:    helpsSetup,
		HelpsTeardown: helpsTeardown,
		CreatedAt:     time.Now().UTC(),
	}
	if err := svc.Store.InsertRegistration(ctx, reg); err != nil {
		return nil, nil, err
	}

	var shift *Shift
	if clockIn != nil || clockOut != nil {
		s := Shift{
			ID:             uuid.NewString(),
			RegistrationID: reg.ID,
			ClockIn:        clockIn,
			ClockOut:       clockOut,
			ReceivesTip:    true,
			CreatedAt:      reg.CreatedAt,
		}
		if err := svc.Store.InsertShift(ctx, s); err != nil {
			return nil, nil, err
		}
		shift = &s
	}
	return &reg, shift, nil
}

// RequestCancellation records the user's cancellation request.
func (svc *Service) RequestCancellation(ctx context.Context, registrationID, reason string) (*Registration, error) {
	reg, err := svc.getRegistration(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	updated, err := RequestCancellation(*reg, reason)
	if err != nil {
		return nil, err
	}
	if err := svc.Store.UpdateRegistration(ctx, updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// ApproveCancellation finalizes a cancellation (admin).
func (svc *Service) ApproveCancellation(ctx context.Context, registrationID, approverName string) (*Registration, error) {
	reg, err := svc.getRegistration(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	updated, err := ApproveCancellation(*reg, approverName)
	if err != nil {
		return nil, err
	}
	if err := svc.Store.UpdateRegistration(ctx, updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// RejectCancellation returns the registration to REGISTERED (admin).
func (svc *Service) RejectCancellation(ctx context.Context, registrationID string) (*Registration, error) {
	reg, err := svc.getRegistration(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	updated, err := RejectCancellation(*reg)
	if err != nil {
		return nil, err
	}
	if err := svc.Store.UpdateRegistration(ctx, updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// =============================================================================
// SHIFT
// =============================================================================

// ClockIn creates the shift for a registration. A second clock-in for
// the same registration is a conflict.
func (svc *Service) ClockIn(ctx context.Context, registrationID string, at time.Time, geo *Geo) (*Shift, error) {
	if _, err := svc.getRegistration(ctx, registrationID); err != nil {
		return nil, err
	}
	existing, err := svc.Store.ShiftByRegistration(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &ConflictError{Entity: "shift", Key: "registration " + registrationID}
	}

	s := NewShift(registrationID, at, geo)
	if err := svc.Store.InsertShift(ctx, s); err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateManualShift is the admin backfill with both times at once.
func (svc *Service) CreateManualShift(ctx context.Context, registrationID string, clockIn, clockOut time.Time) (*Shift, error) {
	if _, err := svc.getRegistration(ctx, registrationID); err != nil {
		return nil, err
	}
	existing, err := svc.Store.ShiftByRegistration(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &ConflictError{Entity: "shift", Key: "registration " + registrationID}
	}

	s := NewManualShift(registrationID, clockIn, clockOut)
	if err := svc.Store.InsertShift(ctx, s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ClockOut records the check-out. The store writes each field
// conditionally, so replays and concurrent check-outs keep the first
// value; the response is re-read so it reflects what actually stuck.
func (svc *Service) ClockOut(ctx context.Context, shiftID string, at time.Time, geo *Geo, signature *string) (*Shift, error) {
	if err := svc.Store.CloseShift(ctx, shiftID, at, geo, signature); err != nil {
		return nil, err
	}
	return svc.getShift(ctx, shiftID)
}

// EditShift is the admin correction bypassing the change-request
// workflow; nil fields stay untouched.
func (svc *Service) EditShift(ctx context.Context, shiftID string, clockIn, clockOut *time.Time) (*Shift, error) {
	s, err := svc.getShift(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	updated := EditTimes(*s, clockIn, clockOut)
	if err := svc.Store.UpdateShift(ctx, updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// SetTipEligibility flips the admin-controlled eligibility flag.
func (svc *Service) SetTipEligibility(ctx context.Context, shiftID string, receivesTip bool) (*Shift, error) {
	s, err := svc.getShift(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	updated := SetTipEligibility(*s, receivesTip)
	if err := svc.Store.UpdateShift(ctx, updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// MarkTipsReceived acknowledges payout across all of a user's shifts.
func (svc *Service) MarkTipsReceived(ctx context.Context, userID string) (int64, error) {
	user, err := svc.Store.GetUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	if user == nil {
		return 0, &NotFoundError{Entity: "user", ID: userID}
	}
	return svc.Store.MarkTipsReceived(ctx, userID)
}

// =============================================================================
// CHANGE REQUESTS
// =============================================================================

// ProposeChange files a correction for a shift's recorded times. Only
// one request may be pending per shift at a time.
func (svc *Service) ProposeChange(ctx context.Context, shiftID string, clockIn, clockOut *time.Time) (*ChangeRequest, error) {
	if _, err := svc.getShift(ctx, shiftID); err != nil {
		return nil, err
	}
	pending, err := svc.Store.PendingChangeRequest(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return nil, &ConflictError{Entity: "pending change request", Key: "shift " + shiftID}
	}

	req, err := NewChangeRequest(shiftID, clockIn, clockOut)
	if err != nil {
		return nil, err
	}
	if err := svc.Store.InsertChangeRequest(ctx, req); err != nil {
		return nil, err
	}
	return &req, nil
}

// ApproveChange copies the proposed times onto the shift and resolves
// the request. The returned shift presents no pending request anymore.
func (svc *Service) ApproveChange(ctx context.Context, requestID, approverName string) (*Shift, error) {
	req, err := svc.getChangeRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	shift, err := svc.getShift(ctx, req.ShiftID)
	if err != nil {
		return nil, err
	}

	updatedReq, updatedShift, err := ApproveChange(*req, *shift, approverName)
	if err != nil {
		return nil, err
	}
	if err := svc.Store.UpdateChangeRequest(ctx, updatedReq); err != nil {
		return nil, err
	}
	if err := svc.Store.UpdateShift(ctx, updatedShift); err != nil {
		return nil, err
	}
	return &updatedShift, nil
}

// RejectChange resolves the request and leaves the shift untouched.
func (svc *Service) RejectChange(ctx context.Context, requestID, approverName string) (*ChangeRequest, error) {
	req, err := svc.getChangeRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	updated, err := RejectChange(*req, approverName)
	if err != nil {
		return nil, err
	}
	if err := svc.Store.UpdateChangeRequest(ctx, updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// =============================================================================
// LOOKUP HELPERS
// =============================================================================

func (svc *Service) getRegistration(ctx context.Context, id string) (*Registration, error) {
	reg, err := svc.Store.GetRegistration(ctx, id)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, &NotFoundError{Entity: "registration", ID: id}
	}
	return reg, nil
}

func (svc *Service) getShift(ctx context.Context, id string) (*Shift, error) {
	s, err := svc.Store.GetShift(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, &NotFoundError{Entity: "shift", ID: id}
	}
	return s, nil
}

func (svc *Service) getChangeRequest(ctx context.Context, id string) (*ChangeRequest, error) {
	req, err := svc.Store.GetChangeRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, &NotFoundError{Entity: "change request", ID: id}
	}
	return req, nil
}
