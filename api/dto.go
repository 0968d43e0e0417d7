/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  The JSON wire contract. Field names and status strings here are what
  external collaborators persist and render; they must not drift from
  the roster enums (REGISTERED, CANCEL_REQUESTED, CANCELLED, PENDING,
  APPROVED, REJECTED).

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

NULLABILITY:
  The wire keeps nullable fields (clockOut, changeRequest, ...) for
  compatibility; internally the core models the same facts as tagged
  states. Timestamps travel as RFC3339 strings.

SEE ALSO:
  - handlers.go: Uses these types
  - roster/types.go: The internal counterparts
*/
package api

import (
	"time"

	"github.com/kulturwerk/shift-engine/roster"
)

// =============================================================================
// RESPONSE TYPES
// =============================================================================

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type UserDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type ChangeRequestDTO struct {
	ID               string  `json:"id"`
	ShiftID          string  `json:"shiftId"`
	ClockIn          string  `json:"clockIn"`
	ClockOut         string  `json:"clockOut"`
	Status           string  `json:"status"`
	ChangeApprovedBy *string `json:"changeApprovedBy"`
}

type ShiftDTO struct {
	ID                string            `json:"id"`
	RegistrationID    string            `json:"registrationId"`
	ClockIn           *string           `json:"clockIn"`
	ClockInLat        *float64          `json:"clockInLat"`
	ClockInLon        *float64          `json:"clockInLon"`
	ClockOut          *string           `json:"clockOut"`
	ClockOutLat       *float64          `json:"clockOutLat"`
	ClockOutLon       *float64          `json:"clockOutLon"`
	CheckoutSignature *string           `json:"checkoutSignature"`
	ReceivesTip       bool              `json:"receivesTip"`
	TipReceived       bool              `json:"tipReceived"`
	ChangeRequest     *ChangeRequestDTO `json:"changeRequest"`
}

type RegistrationDTO struct {
	ID               string    `json:"id"`
	UserID           string    `json:"userId"`
	EventID          string    `json:"eventId"`
	Status           string    `json:"status"`
	CancelReason     *string   `json:"cancelReason"`
	CancelApprovedBy *string   `json:"cancelApprovedBy"`
	HelpsSetup       bool      `json:"helpsSetup"`
	HelpsTeardown    bool      `json:"helpsTeardown"`
	CreatedAt        string    `json:"createdAt"`
	Shift            *ShiftDTO `json:"shift"`
}

// ShiftProjectionDTO is the minimal shift view embedded in the event
// context of a registration listing: just enough for a client to
// recompute the tip split.
type ShiftProjectionDTO struct {
	ClockIn     *string `json:"clockIn"`
	ClockOut    *string `json:"clockOut"`
	ReceivesTip bool    `json:"receivesTip"`
}

// EventContextDTO accompanies each listed registration.
type EventContextDTO struct {
	Name          string               `json:"name"`
	Date          string               `json:"date"`
	TotalTip      *string              `json:"totalTip"`
	Registrations []ShiftProjectionDTO `json:"registrations"`
}

// RegistrationViewDTO is the listing entry: the registration, its
// shift, the event context and the precomputed personal tip share.
type RegistrationViewDTO struct {
	RegistrationDTO
	Event       EventContextDTO `json:"event"`
	PersonalTip *string         `json:"personalTip"`
}

type EventDTO struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Date      string  `json:"date"`
	StartTime string  `json:"startTime"`
	EndTime   string  `json:"endTime"`
	TotalTip  *string `json:"totalTip"`
}

type MarkTipsReceivedResponse struct {
	Count int64 `json:"count"`
}

// =============================================================================
// REQUEST TYPES
// =============================================================================

type CreateUserRequest struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type CreateEventRequest struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Date      string  `json:"date"`
	StartTime string  `json:"startTime"`
	EndTime   string  `json:"endTime"`
	TotalTip  *string `json:"totalTip"`
}

type CreateRegistrationRequest struct {
	EventID       string `json:"eventId"`
	HelpsSetup    bool   `json:"helpsSetup"`
	HelpsTeardown bool   `json:"helpsTeardown"`

	// Admin backfill only: pre-seed the shift alongside the
	// registration.
	ClockIn  *string `json:"clockIn,omitempty"`
	ClockOut *string `json:"clockOut,omitempty"`
}

type CancelRequestBody struct {
	Reason string `json:"reason"`
}

type ClockInRequest struct {
	RegistrationID string   `json:"registrationId"`
	ClockIn        string   `json:"clockIn"`
	ClockInLat     *float64 `json:"clockInLat"`
	ClockInLon     *float64 `json:"clockInLon"`
}

type ClockOutRequest struct {
	ClockOut          string   `json:"clockOut"`
	ClockOutLat       *float64 `json:"clockOutLat"`
	ClockOutLon       *float64 `json:"clockOutLon"`
	CheckoutSignature *string  `json:"checkoutSignature"`
}

type CreateShiftRequest struct {
	ClockIn  string `json:"clockIn"`
	ClockOut string `json:"clockOut"`
}

type EditShiftRequest struct {
	ClockIn  *string `json:"clockIn"`
	ClockOut *string `json:"clockOut"`
}

// TipToggleRequest is a full replace of the eligibility flag; the
// pointer distinguishes "false" from "missing".
type TipToggleRequest struct {
	ReceivesTip *bool `json:"receivesTip"`
}

type ProposeChangeRequest struct {
	ClockIn  string `json:"clockIn"`
	ClockOut string `json:"clockOut"`
}

// =============================================================================
// CONVERTERS
// =============================================================================

func timeString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

func toUserDTO(u roster.User) UserDTO {
	return UserDTO{ID: u.ID, Name: u.Name, Email: u.Email, Role: string(u.Role)}
}

func toChangeRequestDTO(req *roster.ChangeRequest) *ChangeRequestDTO {
	if req == nil {
		return nil
	}
	return &ChangeRequestDTO{
		ID:               req.ID,
		ShiftID:          req.ShiftID,
		ClockIn:          req.ClockIn.UTC().Format(time.RFC3339),
		ClockOut:         req.ClockOut.UTC().Format(time.RFC3339),
		Status:           string(req.Status),
		ChangeApprovedBy: req.ApprovedBy,
	}
}

// toShiftDTO renders a shift with its pending change request, if any.
// A shift with no pending request presents changeRequest = null.
func toShiftDTO(s *roster.Shift, pending *roster.ChangeRequest) *ShiftDTO {
	if s == nil {
		return nil
	}
	dto := &ShiftDTO{
		ID:                s.ID,
		RegistrationID:    s.RegistrationID,
		ClockIn:           timeString(s.ClockIn),
		ClockOut:          timeString(s.ClockOut),
		CheckoutSignature: s.CheckoutSignature,
		ReceivesTip:       s.ReceivesTip,
		TipReceived:       s.TipReceived,
		ChangeRequest:     toChangeRequestDTO(pending),
	}
	if g := s.ClockInGeo; g != nil {
		dto.ClockInLat, dto.ClockInLon = &g.Lat, &g.Lon
	}
	if g := s.ClockOutGeo; g != nil {
		dto.ClockOutLat, dto.ClockOutLon = &g.Lat, &g.Lon
	}
	return dto
}

func toRegistrationDTO(reg roster.Registration, shift *ShiftDTO) RegistrationDTO {
	return RegistrationDTO{
		ID:               reg.ID,
		UserID:           reg.UserID,
		EventID:          reg.EventID,
		Status:           string(reg.Status),
		CancelReason:     reg.CancelReason,
		CancelApprovedBy: reg.CancelApprovedBy,
		HelpsSetup:       reg.HelpsSetup,
		HelpsTeardown:    reg.HelpsTeardown,
		CreatedAt:        reg.CreatedAt.UTC().Format(time.RFC3339),
		Shift:            shift,
	}
}

func toEventDTO(e roster.Event) EventDTO {
	dto := EventDTO{
		ID:        e.ID,
		Name:      e.Name,
		Date:      e.Date.UTC().Format(time.RFC3339),
		StartTime: e.StartTime.UTC().Format(time.RFC3339),
		EndTime:   e.EndTime.UTC().Format(time.RFC3339),
	}
	if e.TotalTip != nil {
		s := e.TotalTip.String()
		dto.TotalTip = &s
	}
	return dto
}
