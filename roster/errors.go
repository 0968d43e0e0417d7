/*
errors.go - Centralized error taxonomy for the staffing core

PURPOSE:
  Four error kinds cover every failure the core can produce. The API
  layer maps kinds to HTTP statuses; the core never knows about HTTP.

ERROR CATEGORIES:
  1. Validation - malformed/missing input (empty cancellation reason)
  2. State      - illegal transition (approving a resolved request)
  3. Conflict   - duplicate creation (second pending change request)
  4. NotFound   - referenced entity absent

USAGE:
  Check kinds with errors.Is against the sentinels:

    if errors.Is(err, roster.ErrState) {
        // tell the user it was already handled
    }

SEE ALSO:
  - lifecycle.go: Produces these errors
  - api/handlers.go: Maps them to HTTP statuses
*/
package roster

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is returned for malformed or missing input. Never
	// retried automatically.
	ErrValidation = errors.New("validation failed")

	// ErrState is returned for a transition that is illegal in the
	// entity's current state, e.g. approving an already-resolved
	// cancellation. Surfaced distinctly so UIs can explain "already
	// handled" instead of a generic failure.
	ErrState = errors.New("illegal state transition")

	// ErrConflict is returned for duplicate creation, e.g. a second
	// shift for the same registration. Callers should refresh state
	// instead of retrying blindly.
	ErrConflict = errors.New("conflicting record exists")

	// ErrNotFound is returned when a referenced entity is absent.
	ErrNotFound = errors.New("not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError names the offending field and a user-facing message.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// StateError records which transition was attempted from which state.
type StateError struct {
	Entity string // "registration", "change request", ...
	Action string // "approve cancellation", ...
	Status string // current status that made the action illegal
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s: %s is %s", e.Action, e.Entity, e.Status)
}

func (e *StateError) Unwrap() error { return ErrState }

// ConflictError names the record that already exists.
type ConflictError struct {
	Entity string
	Key    string // what it collided on, e.g. the registration ID
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already exists for %s", e.Entity, e.Key)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// NotFoundError identifies the missing entity.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client
// input or a stale view of the data, i.e. a 4xx-equivalent.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrState) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrNotFound)
}
