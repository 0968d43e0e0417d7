/*
Package roster contains the staffing core for event-based shift work.

PURPOSE:
  This package holds the domain entities and the pure state-machine logic
  governing how a person's participation in an event and their recorded
  work time may change: registration cancellation, clock-in/clock-out,
  shift change requests, and the proportional tip allocation.

KEY CONCEPTS IN THIS FILE (types.go):
  - Registration: a user's enrollment in a specific event
  - Shift: the recorded clock-in/clock-out window for a registration
  - ChangeRequest: a proposed correction to a shift's recorded times
  - ShiftPhase: explicit tagged state derived from the nullable fields

DESIGN PRINCIPLES:
  1. Snapshots in, snapshots out: the core does not own storage. All
     transitions take an entity value and return the updated value or
     an error; persistence happens in the store layer.
  2. Wire-exact enums: status strings (REGISTERED, PENDING, ...) are the
     contract other collaborators honor. Never rename them.
  3. Precision: tip money uses decimal.Decimal, never float64.

SEE ALSO:
  - lifecycle.go: Legal transitions on these entities
  - tip.go: Proportional tip allocation
  - errors.go: Error taxonomy (validation/state/conflict/not-found)
*/
package roster

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ROLES
// =============================================================================

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User is an employee account. Authentication lives outside the core; the
// core only needs identity, display name and role.
type User struct {
	ID        string
	Name      string
	Email     string
	Role      Role
	CreatedAt time.Time
}

func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

// =============================================================================
// EVENT - The thing people work at
// =============================================================================

// Event carries the tip pool and the date used for monthly reporting.
// Scheduling details beyond that are presentation concerns.
type Event struct {
	ID        string
	Name      string
	Date      time.Time
	StartTime time.Time
	EndTime   time.Time

	// TotalTip is the pooled gratuity for the whole event, nil if none
	// was recorded (yet).
	TotalTip *decimal.Decimal

	CreatedAt time.Time
}

// =============================================================================
// REGISTRATION - Enrollment of a user in an event
// =============================================================================

type RegistrationStatus string

const (
	StatusRegistered      RegistrationStatus = "REGISTERED"
	StatusCancelRequested RegistrationStatus = "CANCEL_REQUESTED"
	StatusCancelled       RegistrationStatus = "CANCELLED"
)

// Registration links one user to one event. Registrations are never
// deleted; cancelled ones are retained for reporting.
type Registration struct {
	ID      string
	UserID  string
	EventID string
	Status  RegistrationStatus

	// Cancellation workflow. Reason is kept for audit even after a
	// rejected cancellation.
	CancelReason     *string
	CancelApprovedBy *string

	HelpsSetup    bool
	HelpsTeardown bool

	CreatedAt time.Time
}

// =============================================================================
// SHIFT - Recorded work window, at most one per registration
// =============================================================================

// Geo is an optional coordinate captured on clock-in/clock-out.
type Geo struct {
	Lat float64
	Lon float64
}

// Shift records the clock-in/clock-out window for a registration.
// ClockOut, geo and signature follow first-write-wins semantics: once
// set they are never overwritten by a later check-out call.
type Shift struct {
	ID             string
	RegistrationID string

	ClockIn    *time.Time
	ClockInGeo *Geo

	ClockOut    *time.Time
	ClockOutGeo *Geo

	// CheckoutSignature is an opaque reference to a stored signature
	// image; the core never interprets it.
	CheckoutSignature *string

	// ReceivesTip is the admin-toggled eligibility flag; TipReceived is
	// the payout acknowledgement, set in batch per user.
	ReceivesTip bool
	TipReceived bool

	CreatedAt time.Time
}

// ShiftPhase is the explicit state of a shift. The wire format keeps
// nullable timestamps for compatibility; internally the phase is what
// the lifecycle rules reason about.
type ShiftPhase int

const (
	ShiftNotStarted ShiftPhase = iota // no shift record exists
	ShiftClockedIn                    // clock-in recorded, still working
	ShiftClockedOut                   // both timestamps recorded
)

func (p ShiftPhase) String() string {
	switch p {
	case ShiftClockedIn:
		return "CLOCKED_IN"
	case ShiftClockedOut:
		return "CLOCKED_OUT"
	default:
		return "NOT_STARTED"
	}
}

// Phase derives the tagged state from the nullable fields. A nil shift
// is NOT_STARTED.
func (s *Shift) Phase() ShiftPhase {
	switch {
	case s == nil || s.ClockIn == nil:
		return ShiftNotStarted
	case s.ClockOut == nil:
		return ShiftClockedIn
	default:
		return ShiftClockedOut
	}
}

// =============================================================================
// CHANGE REQUEST - Proposed correction to a shift's times
// =============================================================================

type ChangeRequestStatus string

const (
	ChangePending  ChangeRequestStatus = "PENDING"
	ChangeApproved ChangeRequestStatus = "APPROVED"
	ChangeRejected ChangeRequestStatus = "REJECTED"
)

// ChangeRequest proposes new clock times for a shift. At most one
// PENDING request may exist per shift (enforced transactionally by the
// store); APPROVED and REJECTED are terminal.
type ChangeRequest struct {
	ID      string
	ShiftID string

	ClockIn  time.Time
	ClockOut time.Time

	Status     ChangeRequestStatus
	ApprovedBy *string

	CreatedAt time.Time
}
