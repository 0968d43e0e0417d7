/*
store.go - Persistence interface required by the staffing service

PURPOSE:
  The core operates on snapshots; this interface is the contract the
  persistence collaborator must honor. Lookup methods return (nil, nil)
  when the record does not exist - the service turns that into a
  NotFoundError with context.

TRANSACTIONAL GUARANTEES EXPECTED FROM IMPLEMENTATIONS:
  - at most one shift per registration (unique index on registration_id)
  - at most one PENDING change request per shift (partial unique index)
  - CloseShift writes each check-out field only if still unset, so two
    racing check-outs cannot overwrite each other
  Insert methods must surface violations as *ConflictError so retries
  and double-submits fail loudly instead of duplicating records.

SEE ALSO:
  - store/sqlite: The SQLite implementation
  - service.go: The only consumer
*/
package roster

import (
	"context"
	"time"
)

type Store interface {
	GetUser(ctx context.Context, id string) (*User, error)
	GetEvent(ctx context.Context, id string) (*Event, error)

	GetRegistration(ctx context.Context, id string) (*Registration, error)
	InsertRegistration(ctx context.Context, reg Registration) error
	UpdateRegistration(ctx context.Context, reg Registration) error

	GetShift(ctx context.Context, id string) (*Shift, error)
	ShiftByRegistration(ctx context.Context, registrationID string) (*Shift, error)
	InsertShift(ctx context.Context, s Shift) error
	UpdateShift(ctx context.Context, s Shift) error

	// CloseShift records the check-out conditionally: clockOut, geo and
	// signature land only where the column is still NULL (first write
	// wins, enforced in the store rather than on the loaded snapshot).
	CloseShift(ctx context.Context, shiftID string, at time.Time, geo *Geo, signature *string) error

	GetChangeRequest(ctx context.Context, id string) (*ChangeRequest, error)
	PendingChangeRequest(ctx context.Context, shiftID string) (*ChangeRequest, error)
	InsertChangeRequest(ctx context.Context, req ChangeRequest) error
	UpdateChangeRequest(ctx context.Context, req ChangeRequest) error

	// MarkTipsReceived flips TipReceived on every shift of the user
	// where it is still false and reports how many rows changed.
	MarkTipsReceived(ctx context.Context, userID string) (int64, error)
}
