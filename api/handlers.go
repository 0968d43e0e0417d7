/*
handlers.go - HTTP handlers for the shift staffing API

PURPOSE:
  Exposes the staffing core over REST. Handles HTTP request/response,
  JSON serialization and role checks, and delegates every transition to
  the roster service.

ENDPOINTS:
  Registrations:
    GET    /api/registrations                                  List own (admin: any user's)
    POST   /api/registrations                                  Sign up for an event
    POST   /api/registrations/{id}/cancel-request              Ask to cancel (owner)
    POST   /api/registrations/{id}/approve-cancel              Admin
    POST   /api/registrations/{id}/reject-cancel               Admin
    POST   /api/registrations/{id}/shift                       Admin backfill (both times)

  Shifts:
    POST   /api/shifts                                         Clock in
    PUT    /api/shifts/{id}                                    Clock out (idempotent)
    PUT    /api/shifts/{id}/edit                               Admin time correction
    PUT    /api/shifts/{id}/tip                                Admin eligibility toggle
    POST   /api/shifts/{id}/change-request                     Propose correction

  Change requests:
    POST   /api/change-requests/{id}/approve                   Admin
    POST   /api/change-requests/{id}/reject                    Admin

  Users / admin:
    POST   /api/users                                          Admin
    GET    /api/users                                          Admin
    POST   /api/users/{id}/registrations                       Admin enrollment
    PUT    /api/users/{id}/tips-received                       Admin payout ack
    POST   /api/events                                         Admin

  Reports:
    GET    /api/reports/timesheets?year=&month=                Admin, zip stream
                                                               (month is ZERO-based)

AUTHENTICATION STAND-IN:
  The real deployment fronts this API with an authenticating proxy that
  injects X-User-ID. Handlers resolve it against the users table and
  enforce the role rules; everything beyond that is out of scope here.

ERROR HANDLING:
  roster error kinds map onto HTTP statuses:
    ValidationError -> 400, NotFoundError -> 404,
    ConflictError   -> 409, StateError    -> 422

SEE ALSO:
  - dto.go: Wire types
  - server.go: Router setup and middleware
  - roster/service.go: The transitions called from here
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kulturwerk/shift-engine/roster"
	"github.com/kulturwerk/shift-engine/store/sqlite"
	"github.com/kulturwerk/shift-engine/timesheet"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   *sqlite.Store
	Service *roster.Service

	// Logo is the decorative timesheet header image; may be nil.
	Logo []byte
}

// NewHandler creates a new handler over the given store.
func NewHandler(store *sqlite.Store, logo []byte) *Handler {
	return &Handler{
		Store:   store,
		Service: roster.NewService(store),
		Logo:    logo,
	}
}

// =============================================================================
// AUTH STAND-IN
// =============================================================================

// actor resolves the calling user from the X-User-ID header.
func (h *Handler) actor(r *http.Request) (*roster.User, error) {
	id := r.Header.Get("X-User-ID")
	if id == "" {
		return nil, errors.New("not authenticated")
	}
	user, err := h.Store.GetUser(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("not authenticated")
	}
	return user, nil
}

// requireUser writes 401 and returns nil if the request carries no
// resolvable identity.
func (h *Handler) requireUser(w http.ResponseWriter, r *http.Request) *roster.User {
	user, err := h.actor(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated", nil)
		return nil
	}
	return user
}

// requireAdmin additionally writes 403 for non-admins.
func (h *Handler) requireAdmin(w http.ResponseWriter, r *http.Request) *roster.User {
	user := h.requireUser(w, r)
	if user == nil {
		return nil
	}
	if !user.IsAdmin() {
		writeError(w, http.StatusForbidden, "Forbidden", nil)
		return nil
	}
	return user
}

// =============================================================================
// USERS & EVENTS (administration surface)
// =============================================================================

// CreateUser creates a user account. POST /api/users
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	if h.requireAdmin(w, r) == nil {
		return
	}

	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required", nil)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	role := roster.Role(req.Role)
	if role != roster.RoleAdmin {
		role = roster.RoleUser
	}

	user := roster.User{ID: req.ID, Name: req.Name, Email: req.Email, Role: role}
	if err := h.Store.SaveUser(r.Context(), user); err != nil {
		h.writeStoreError(w, "Failed to create user", err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserDTO(user))
}

// ListUsers returns all users. GET /api/users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	if h.requireAdmin(w, r) == nil {
		return
	}

	users, err := h.Store.ListUsers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list users", err)
		return
	}
	dtos := make([]UserDTO, len(users))
	for i, u := range users {
		dtos[i] = toUserDTO(u)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateEvent creates an event with its tip pool. POST /api/events
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	if h.requireAdmin(w, r) == nil {
		return
	}

	var req CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	date, err := parseTime(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use RFC3339)", err)
		return
	}
	start, err := parseTime(req.StartTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid startTime (use RFC3339)", err)
		return
	}
	end, err := parseTime(req.EndTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid endTime (use RFC3339)", err)
		return
	}

	event := roster.Event{ID: req.ID, Name: req.Name, Date: date, StartTime: start, EndTime: end}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if req.TotalTip != nil {
		tip, err := decimal.NewFromString(*req.TotalTip)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid totalTip", err)
			return
		}
		event.TotalTip = &tip
	}

	if err := h.Store.SaveEvent(r.Context(), event); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create event", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEventDTO(event))
}

// =============================================================================
// REGISTRATIONS
// =============================================================================

// ListRegistrations returns the caller's registrations with shift,
// pending change request, event context and the computed personal tip.
// GET /api/registrations?userId= (userId honored for admins only)
func (h *Handler) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	user := h.requireUser(w, r)
	if user == nil {
		return
	}
	ctx := r.Context()

	targetID := user.ID
	if q := r.URL.Query().Get("userId"); q != "" && user.IsAdmin() {
		targetID = q
	}

	regs, err := h.Store.RegistrationsByUser(ctx, targetID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list registrations", err)
		return
	}

	views := make([]RegistrationViewDTO, 0, len(regs))
	for _, reg := range regs {
		view, err := h.registrationView(r, reg)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to build registration view", err)
			return
		}
		views = append(views, view)
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) registrationView(r *http.Request, reg roster.Registration) (RegistrationViewDTO, error) {
	ctx := r.Context()

	shift, err := h.Store.ShiftByRegistration(ctx, reg.ID)
	if err != nil {
		return RegistrationViewDTO{}, err
	}
	var pending *roster.ChangeRequest
	if shift != nil {
		if pending, err = h.Store.PendingChangeRequest(ctx, shift.ID); err != nil {
			return RegistrationViewDTO{}, err
		}
	}

	event, err := h.Store.GetEvent(ctx, reg.EventID)
	if err != nil {
		return RegistrationViewDTO{}, err
	}
	if event == nil {
		return RegistrationViewDTO{}, &roster.NotFoundError{Entity: "event", ID: reg.EventID}
	}

	eventShifts, err := h.Store.EventShifts(ctx, reg.EventID)
	if err != nil {
		return RegistrationViewDTO{}, err
	}

	eventCtx := EventContextDTO{
		Name:          event.Name,
		Date:          event.Date.UTC().Format(time.RFC3339),
		Registrations: make([]ShiftProjectionDTO, len(eventShifts)),
	}
	if event.TotalTip != nil {
		s := event.TotalTip.String()
		eventCtx.TotalTip = &s
	}
	for i, es := range eventShifts {
		eventCtx.Registrations[i] = ShiftProjectionDTO{
			ClockIn:     timeString(es.ClockIn),
			ClockOut:    timeString(es.ClockOut),
			ReceivesTip: es.ReceivesTip,
		}
	}

	view := RegistrationViewDTO{
		RegistrationDTO: toRegistrationDTO(reg, toShiftDTO(shift, pending)),
		Event:           eventCtx,
	}
	if tip := roster.PersonalTip(event.TotalTip, shift, eventShifts); tip != nil {
		s := tip.String()
		view.PersonalTip = &s
	}
	return view, nil
}

// CreateRegistration signs the caller up for an event.
// POST /api/registrations
func (h *Handler) CreateRegistration(w http.ResponseWriter, r *http.Request) {
	user := h.requireUser(w, r)
	if user == nil {
		return
	}
	h.createRegistration(w, r, user.ID, false)
}

// AdminCreateRegistration enrolls another user, optionally backfilling
// the shift. POST /api/users/{userId}/registrations
func (h *Handler) AdminCreateRegistration(w http.ResponseWriter, r *http.Request) {
	if h.requireAdmin(w, r) == nil {
		return
	}
	h.createRegistration(w, r, chi.URLParam(r, "userId"), true)
}

func (h *Handler) createRegistration(w http.ResponseWriter, r *http.Request, userID string, allowBackfill bool) {
	var req CreateRegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.EventID == "" {
		writeError(w, http.StatusBadRequest, "eventId is required", nil)
		return
	}

	var clockIn, clockOut *time.Time
	if allowBackfill {
		var err error
		if clockIn, err = parseTimePtr(req.ClockIn); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid clockIn (use RFC3339)", err)
			return
		}
		if clockOut, err = parseTimePtr(req.ClockOut); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid clockOut (use RFC3339)", err)
			return
		}
	}

	reg, shift, err := h.Service.CreateRegistration(r.Context(), userID, req.EventID,
		req.HelpsSetup, req.HelpsTeardown, clockIn, clockOut)
	if err != nil {
		h.writeStoreError(w, "Failed to create registration", err)
		return
	}
	writeJSON(w, http.StatusCreated, toRegistrationDTO(*reg, toShiftDTO(shift, nil)))
}

// RequestCancel records a cancellation request for the caller's own
// registration. POST /api/registrations/{registrationId}/cancel-request
func (h *Handler) RequestCancel(w http.ResponseWriter, r *http.Request) {
	user := h.requireUser(w, r)
	if user == nil {
		return
	}
	registrationID := chi.URLParam(r, "registrationId")

	var body CancelRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	// Users may only cancel their own registration.
	reg, err := h.Store.GetRegistration(r.Context(), registrationID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load registration", err)
		return
	}
	if reg == nil {
		writeError(w, http.StatusNotFound, "Registration not found", nil)
		return
	}
	if reg.UserID != user.ID && !user.IsAdmin() {
		writeError(w, http.StatusForbidden, "Forbidden", nil)
		return
	}

	updated, err := h.Service.RequestCancellation(r.Context(), registrationID, body.Reason)
	if err != nil {
		h.writeStoreError(w, "Failed to request cancellation", err)
		return
	}
	writeJSON(w, http.StatusCreated, toRegistrationDTO(*updated, nil))
}

// ApproveCancel finalizes a cancellation.
// POST /api/registrations/{registrationId}/approve-cancel
func (h *Handler) ApproveCancel(w http.ResponseWriter, r *http.Request) {
	admin := h.requireAdmin(w, r)
	if admin == nil {
		return
	}

	updated, err := h.Service.ApproveCancellation(r.Context(), chi.URLParam(r, "registrationId"), admin.Name)
	if err != nil {
		h.writeStoreError(w, "Failed to approve cancellation", err)
		return
	}
	writeJSON(w, http.StatusCreated, toRegistrationDTO(*updated, nil))
}

// RejectCancel returns the registration to REGISTERED.
// POST /api/registrations/{registrationId}/reject-cancel
func (h *Handler) RejectCancel(w http.ResponseWriter, r *http.Request) {
	if h.requireAdmin(w, r) == nil {
		return
	}

	updated, err := h.Service.RejectCancellation(r.Context(), chi.URLParam(r, "registrationId"))
	if err != nil {
		h.writeStoreError(w, "Failed to reject cancellation", err)
		return
	}
	writeJSON(w, http.StatusCreated, toRegistrationDTO(*updated, nil))
}

// CreateManualShift backfills a complete shift for a registration.
// POST /api/registrations/{registrationId}/shift
func (h *Handler) CreateManualShift(w http.ResponseWriter, r *http.Request) {
	if h.requireAdmin(w, r) == nil {
		return
	}

	var req CreateShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	clockIn, err := parseTime(req.ClockIn)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid clockIn (use RFC3339)", err)
		return
	}
	clockOut, err := parseTime(req.ClockOut)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid clockOut (use RFC3339)", err)
		return
	}

	shift, err := h.Service.CreateManualShift(r.Context(), chi.URLParam(r, "registrationId"), clockIn, clockOut)
	if err != nil {
		h.writeStoreError(w, "Failed to create shift", err)
		return
	}
	writeJSON(w, http.StatusCreated, toShiftDTO(shift, nil))
}

// =============================================================================
// SHIFTS
// =============================================================================

// ClockIn starts a shift for a registration. POST /api/shifts
func (h *Handler) ClockIn(w http.ResponseWriter, r *http.Request) {
	user := h.requireUser(w, r)
	if user == nil {
		return
	}

	var req ClockInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.RegistrationID == "" {
		writeError(w, http.StatusBadRequest, "registrationId is required", nil)
		return
	}
	at, err := parseTime(req.ClockIn)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid clockIn (use RFC3339)", err)
		return
	}

	if !h.ownsRegistration(w, r, user, req.RegistrationID) {
		return
	}

	shift, err := h.Service.ClockIn(r.Context(), req.RegistrationID, at, geoFrom(req.ClockInLat, req.ClockInLon))
	if err != nil {
		h.writeStoreError(w, "Failed to clock in", err)
		return
	}
	writeJSON(w, http.StatusCreated, toShiftDTO(shift, nil))
}

// ClockOut records the check-out; replays keep the first write.
// PUT /api/shifts/{shiftId}
func (h *Handler) ClockOut(w http.ResponseWriter, r *http.Request) {
	user := h.requireUser(w, r)
	if user == nil {
		return
	}
	shiftID := chi.URLParam(r, "shiftId")

	var req ClockOutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	at, err := parseTime(req.ClockOut)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid clockOut (use RFC3339)", err)
		return
	}

	if !h.ownsShift(w, r, user, shiftID) {
		return
	}

	shift, err := h.Service.ClockOut(r.Context(), shiftID, at,
		geoFrom(req.ClockOutLat, req.ClockOutLon), req.CheckoutSignature)
	if err != nil {
		h.writeStoreError(w, "Failed to clock out", err)
		return
	}
	writeJSON(w, http.StatusCreated, toShiftDTO(shift, nil))
}

// EditShift is the admin correction outside the change-request flow.
// PUT /api/shifts/{shiftId}/edit
func (h *Handler) EditShift(w http.ResponseWriter, r *http.Request) {
	if h.requireAdmin(w, r) == nil {
		return
	}

	var req EditShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	clockIn, err := parseTimePtr(req.ClockIn)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid clockIn (use RFC3339)", err)
		return
	}
	clockOut, err := parseTimePtr(req.ClockOut)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid clockOut (use RFC3339)", err)
		return
	}

	shift, err := h.Service.EditShift(r.Context(), chi.URLParam(r, "shiftId"), clockIn, clockOut)
	if err != nil {
		h.writeStoreError(w, "Failed to edit shift", err)
		return
	}
	writeJSON(w, http.StatusCreated, toShiftDTO(shift, nil))
}

// ToggleTip replaces the eligibility flag. PUT /api/shifts/{shiftId}/tip
func (h *Handler) ToggleTip(w http.ResponseWriter, r *http.Request) {
	if h.requireAdmin(w, r) == nil {
		return
	}

	var req TipToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ReceivesTip == nil {
		writeError(w, http.StatusBadRequest, "receivesTip is required", nil)
		return
	}

	shift, err := h.Service.SetTipEligibility(r.Context(), chi.URLParam(r, "shiftId"), *req.ReceivesTip)
	if err != nil {
		h.writeStoreError(w, "Failed to update tip eligibility", err)
		return
	}
	writeJSON(w, http.StatusCreated, toShiftDTO(shift, nil))
}

// ProposeChange files a correction request for a shift.
// POST /api/shifts/{shiftId}/change-request
func (h *Handler) ProposeChange(w http.ResponseWriter, r *http.Request) {
	user := h.requireUser(w, r)
	if user == nil {
		return
	}
	shiftID := chi.URLParam(r, "shiftId")

	var req ProposeChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	clockIn, err := parseTime(req.ClockIn)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid clockIn (use RFC3339)", err)
		return
	}
	clockOut, err := parseTime(req.ClockOut)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid clockOut (use RFC3339)", err)
		return
	}

	if !h.ownsShift(w, r, user, shiftID) {
		return
	}

	created, err := h.Service.ProposeChange(r.Context(), shiftID, &clockIn, &clockOut)
	if err != nil {
		h.writeStoreError(w, "Failed to create change request", err)
		return
	}
	writeJSON(w, http.StatusCreated, toChangeRequestDTO(created))
}

// =============================================================================
// CHANGE REQUESTS
// =============================================================================

// ApproveChange copies the proposed times onto the shift.
// POST /api/change-requests/{id}/approve
func (h *Handler) ApproveChange(w http.ResponseWriter, r *http.Request) {
	admin := h.requireAdmin(w, r)
	if admin == nil {
		return
	}

	shift, err := h.Service.ApproveChange(r.Context(), chi.URLParam(r, "id"), admin.Name)
	if err != nil {
		h.writeStoreError(w, "Failed to approve change request", err)
		return
	}
	// The resolved request no longer counts as pending.
	writeJSON(w, http.StatusCreated, toShiftDTO(shift, nil))
}

// RejectChange resolves the request, leaving the shift untouched.
// POST /api/change-requests/{id}/reject
func (h *Handler) RejectChange(w http.ResponseWriter, r *http.Request) {
	admin := h.requireAdmin(w, r)
	if admin == nil {
		return
	}

	updated, err := h.Service.RejectChange(r.Context(), chi.URLParam(r, "id"), admin.Name)
	if err != nil {
		h.writeStoreError(w, "Failed to reject change request", err)
		return
	}
	writeJSON(w, http.StatusCreated, toChangeRequestDTO(updated))
}

// =============================================================================
// TIPS
// =============================================================================

// MarkTipsReceived acknowledges payout for all of a user's shifts.
// PUT /api/users/{userId}/tips-received
func (h *Handler) MarkTipsReceived(w http.ResponseWriter, r *http.Request) {
	if h.requireAdmin(w, r) == nil {
		return
	}

	count, err := h.Service.MarkTipsReceived(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		h.writeStoreError(w, "Failed to mark tips received", err)
		return
	}
	writeJSON(w, http.StatusCreated, MarkTipsReceivedResponse{Count: count})
}

// =============================================================================
// REPORTS
// =============================================================================

// ExportTimesheets streams the month's timesheet archive.
// GET /api/reports/timesheets?year=&month=   (month zero-based)
func (h *Handler) ExportTimesheets(w http.ResponseWriter, r *http.Request) {
	if h.requireAdmin(w, r) == nil {
		return
	}

	now := time.Now()
	year := now.Year()
	month0 := int(now.Month()) - 1

	if q := r.URL.Query().Get("year"); q != "" {
		v, err := strconv.Atoi(q)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid year", err)
			return
		}
		year = v
	}
	if q := r.URL.Query().Get("month"); q != "" {
		v, err := strconv.Atoi(q)
		if err != nil || v < 0 || v > 11 {
			writeError(w, http.StatusBadRequest, "Invalid month (zero-based, 0-11)", err)
			return
		}
		month0 = v
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", timesheet.ArchiveName(year, month0)))

	if err := timesheet.ExportMonth(r.Context(), w, h.Store, year, month0, h.Logo); err != nil {
		// Headers may already be on the wire; best effort.
		log.Printf("timesheet export %d-%02d failed: %v", year, month0+1, err)
		writeError(w, http.StatusInternalServerError, "Export failed", err)
	}
}

// =============================================================================
// OWNERSHIP CHECKS
// =============================================================================

func (h *Handler) ownsRegistration(w http.ResponseWriter, r *http.Request, user *roster.User, registrationID string) bool {
	if user.IsAdmin() {
		return true
	}
	reg, err := h.Store.GetRegistration(r.Context(), registrationID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load registration", err)
		return false
	}
	if reg == nil {
		writeError(w, http.StatusNotFound, "Registration not found", nil)
		return false
	}
	if reg.UserID != user.ID {
		writeError(w, http.StatusForbidden, "Forbidden", nil)
		return false
	}
	return true
}

func (h *Handler) ownsShift(w http.ResponseWriter, r *http.Request, user *roster.User, shiftID string) bool {
	if user.IsAdmin() {
		return true
	}
	shift, err := h.Store.GetShift(r.Context(), shiftID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load shift", err)
		return false
	}
	if shift == nil {
		writeError(w, http.StatusNotFound, "Shift not found", nil)
		return false
	}
	return h.ownsRegistration(w, r, user, shift.RegistrationID)
}

// =============================================================================
// HELPERS
// =============================================================================

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

func parseTimePtr(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func geoFrom(lat, lon *float64) *roster.Geo {
	if lat == nil || lon == nil {
		return nil
	}
	return &roster.Geo{Lat: *lat, Lon: *lon}
}

// writeStoreError maps roster error kinds onto HTTP statuses.
func (h *Handler) writeStoreError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, roster.ErrValidation):
		writeError(w, http.StatusBadRequest, message, err)
	case errors.Is(err, roster.ErrNotFound):
		writeError(w, http.StatusNotFound, message, err)
	case errors.Is(err, roster.ErrConflict):
		writeError(w, http.StatusConflict, message, err)
	case errors.Is(err, roster.ErrState):
		writeError(w, http.StatusUnprocessableEntity, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
