/*
Package sqlite provides the SQLite-backed persistence collaborator.

PURPOSE:
  Implements roster.Store plus the queries the API layer and the
  timesheet exporter need. The same patterns apply to PostgreSQL -
  only minor SQL dialect differences.

INVARIANTS ENFORCED HERE (not in the core):
  - one shift per registration:        UNIQUE(registration_id)
  - one PENDING change request/shift:  partial unique index on
    shift_change_requests(shift_id) WHERE status='PENDING'
  Violations surface as *roster.ConflictError, so a concurrent
  double-submit fails loudly instead of duplicating records.

STORAGE CONVENTIONS:
  - timestamps: RFC3339 in UTC (lexicographically ordered, so date
    range filters work on the TEXT column)
  - tip pool: decimal serialized as TEXT, never floats
  - status columns carry the wire-exact enum strings

WAL MODE:
  SQLite is opened with WAL for better concurrency: multiple readers
  don't block and crash recovery is cleaner.

USAGE:
  store, err := sqlite.New("./data/shifts.db")   // ":memory:" for tests
  svc := roster.NewService(store)

SEE ALSO:
  - roster/store.go: The interface this implements
  - timesheet/export.go: MonthSource consumer of EmployeeMonth
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/kulturwerk/shift-engine/roster"
	"github.com/kulturwerk/shift-engine/timesheet"
)

// Store implements roster.Store and timesheet.MonthSource on SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ roster.Store = (*Store)(nil)
var _ timesheet.MonthSource = (*Store)(nil)

// New opens (or creates) the database and migrates the schema.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT UNIQUE,
		role TEXT NOT NULL DEFAULT 'USER',
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		date TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		total_tip TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_date ON events(date);

	-- Registrations are never deleted; cancelled ones stay for reporting.
	CREATE TABLE IF NOT EXISTS registrations (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id),
		event_id TEXT NOT NULL REFERENCES events(id),
		status TEXT NOT NULL DEFAULT 'REGISTERED',
		cancel_reason TEXT,
		cancel_approved_by TEXT,
		helps_setup BOOLEAN NOT NULL DEFAULT FALSE,
		helps_teardown BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_registrations_user ON registrations(user_id);
	CREATE INDEX IF NOT EXISTS idx_registrations_event ON registrations(event_id);

	-- CRITICAL: at most one shift per registration.
	CREATE TABLE IF NOT EXISTS shifts (
		id TEXT PRIMARY KEY,
		registration_id TEXT NOT NULL UNIQUE REFERENCES registrations(id),
		clock_in TEXT,
		clock_in_lat REAL,
		clock_in_lon REAL,
		clock_out TEXT,
		clock_out_lat REAL,
		clock_out_lon REAL,
		checkout_signature TEXT,
		receives_tip BOOLEAN NOT NULL DEFAULT TRUE,
		tip_received BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS shift_change_requests (
		id TEXT PRIMARY KEY,
		shift_id TEXT NOT NULL REFERENCES shifts(id),
		clock_in TEXT NOT NULL,
		clock_out TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'PENDING',
		change_approved_by TEXT,
		created_at TEXT NOT NULL
	);

	-- CRITICAL: at most one PENDING request per shift. Resolved
	-- requests stay around as history.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_one_pending_change
		ON shift_change_requests(shift_id) WHERE status = 'PENDING';

	CREATE INDEX IF NOT EXISTS idx_change_requests_shift
		ON shift_change_requests(shift_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// HELPERS
// =============================================================================

func fmtTime(t time.Time) string { return t.UTC().Format(time.RFC3339) }

func fmtTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return fmtTime(*t)
}

func scanTimePtr(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, ns.String)
	if err != nil {
		return nil
	}
	return &t
}

func mustTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

func geoLat(g *roster.Geo) any {
	if g == nil {
		return nil
	}
	return g.Lat
}

func geoLon(g *roster.Geo) any {
	if g == nil {
		return nil
	}
	return g.Lon
}

func scanGeo(lat, lon sql.NullFloat64) *roster.Geo {
	if !lat.Valid || !lon.Valid {
		return nil
	}
	return &roster.Geo{Lat: lat.Float64, Lon: lon.Float64}
}

func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// conflictErr translates a unique-index violation into the core's
// conflict kind; anything else passes through.
func conflictErr(err error, entity, key string) error {
	var serr sqlite3.Error
	if errors.As(err, &serr) && serr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return &roster.ConflictError{Entity: entity, Key: key}
	}
	return err
}

// =============================================================================
// USERS
// =============================================================================

func (s *Store) SaveUser(ctx context.Context, u roster.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, role, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name=excluded.name, email=excluded.email, role=excluded.role`,
		u.ID, u.Name, u.Email, string(u.Role), fmtTime(u.CreatedAt))
	return conflictErr(err, "user", u.Email)
}

func (s *Store) GetUser(ctx context.Context, id string) (*roster.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, role, created_at FROM users WHERE id = ?`, id)

	var u roster.User
	var role, createdAt string
	err := row.Scan(&u.ID, &u.Name, &u.Email, &role, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.Role = roster.Role(role)
	u.CreatedAt = mustTime(createdAt)
	return &u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]roster.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, email, role, created_at FROM users ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []roster.User
	for rows.Next() {
		var u roster.User
		var role, createdAt string
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &role, &createdAt); err != nil {
			return nil, err
		}
		u.Role = roster.Role(role)
		u.CreatedAt = mustTime(createdAt)
		users = append(users, u)
	}
	return users, rows.Err()
}

// =============================================================================
// EVENTS
// =============================================================================

func (s *Store) SaveEvent(ctx context.Context, e roster.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	var tip any
	if e.TotalTip != nil {
		tip = e.TotalTip.String()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (id, name, date, start_time, end_time, total_tip, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name, date=excluded.date, start_time=excluded.start_time,
			end_time=excluded.end_time, total_tip=excluded.total_tip`,
		e.ID, e.Name, fmtTime(e.Date), fmtTime(e.StartTime), fmtTime(e.EndTime), tip, fmtTime(e.CreatedAt))
	return err
}

func (s *Store) GetEvent(ctx context.Context, id string) (*roster.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, date, start_time, end_time, total_tip, created_at
		FROM events WHERE id = ?`, id)
	return scanEvent(row)
}

func scanEvent(row *sql.Row) (*roster.Event, error) {
	var e roster.Event
	var date, start, end, createdAt string
	var tip sql.NullString
	err := row.Scan(&e.ID, &e.Name, &date, &start, &end, &tip, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	e.Date = mustTime(date)
	e.StartTime = mustTime(start)
	e.EndTime = mustTime(end)
	e.CreatedAt = mustTime(createdAt)
	if tip.Valid {
		d, err := decimal.NewFromString(tip.String)
		if err != nil {
			return nil, fmt.Errorf("event %s: bad total_tip %q", e.ID, tip.String)
		}
		e.TotalTip = &d
	}
	return &e, nil
}

// =============================================================================
// REGISTRATIONS
// =============================================================================

const registrationCols = `id, user_id, event_id, status, cancel_reason, cancel_approved_by,
	helps_setup, helps_teardown, created_at`

func (s *Store) InsertRegistration(ctx context.Context, reg roster.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO registrations (`+registrationCols+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		reg.ID, reg.UserID, reg.EventID, string(reg.Status), reg.CancelReason,
		reg.CancelApprovedBy, reg.HelpsSetup, reg.HelpsTeardown, fmtTime(reg.CreatedAt))
	return conflictErr(err, "registration", reg.ID)
}

func (s *Store) UpdateRegistration(ctx context.Context, reg roster.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE registrations
		SET status = ?, cancel_reason = ?, cancel_approved_by = ?,
		    helps_setup = ?, helps_teardown = ?
		WHERE id = ?`,
		string(reg.Status), reg.CancelReason, reg.CancelApprovedBy,
		reg.HelpsSetup, reg.HelpsTeardown, reg.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &roster.NotFoundError{Entity: "registration", ID: reg.ID}
	}
	return nil
}

func (s *Store) GetRegistration(ctx context.Context, id string) (*roster.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+registrationCols+` FROM registrations WHERE id = ?`, id)

	reg, err := scanRegistration(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return reg, nil
}

func (s *Store) RegistrationsByUser(ctx context.Context, userID string) ([]roster.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+registrationCols+` FROM registrations WHERE user_id = ? ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regs []roster.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows.Scan)
		if err != nil {
			return nil, err
		}
		regs = append(regs, *reg)
	}
	return regs, rows.Err()
}

func scanRegistration(scan func(dest ...any) error) (*roster.Registration, error) {
	var reg roster.Registration
	var status, createdAt string
	var reason, approvedBy sql.NullString
	err := scan(&reg.ID, &reg.UserID, &reg.EventID, &status, &reason, &approvedBy,
		&reg.HelpsSetup, &reg.HelpsTeardown, &createdAt)
	if err != nil {
		return nil, err
	}
	reg.Status = roster.RegistrationStatus(status)
	reg.CancelReason = strPtr(reason)
	reg.CancelApprovedBy = strPtr(approvedBy)
	reg.CreatedAt = mustTime(createdAt)
	return &reg, nil
}

// =============================================================================
// SHIFTS
// =============================================================================

const shiftCols = `id, registration_id, clock_in, clock_in_lat, clock_in_lon,
	clock_out, clock_out_lat, clock_out_lon, checkout_signature,
	receives_tip, tip_received, created_at`

func (s *Store) InsertShift(ctx context.Context, sh roster.Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO shifts (`+shiftCols+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sh.ID, sh.RegistrationID,
		fmtTimePtr(sh.ClockIn), geoLat(sh.ClockInGeo), geoLon(sh.ClockInGeo),
		fmtTimePtr(sh.ClockOut), geoLat(sh.ClockOutGeo), geoLon(sh.ClockOutGeo),
		sh.CheckoutSignature, sh.ReceivesTip, sh.TipReceived, fmtTime(sh.CreatedAt))
	return conflictErr(err, "shift", "registration "+sh.RegistrationID)
}

func (s *Store) UpdateShift(ctx context.Context, sh roster.Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE shifts
		SET clock_in = ?, clock_in_lat = ?, clock_in_lon = ?,
		    clock_out = ?, clock_out_lat = ?, clock_out_lon = ?,
		    checkout_signature = ?, receives_tip = ?, tip_received = ?
		WHERE id = ?`,
		fmtTimePtr(sh.ClockIn), geoLat(sh.ClockInGeo), geoLon(sh.ClockInGeo),
		fmtTimePtr(sh.ClockOut), geoLat(sh.ClockOutGeo), geoLon(sh.ClockOutGeo),
		sh.CheckoutSignature, sh.ReceivesTip, sh.TipReceived, sh.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &roster.NotFoundError{Entity: "shift", ID: sh.ID}
	}
	return nil
}

// CloseShift records the check-out. COALESCE keeps whatever is already
// stored, so a replayed or racing check-out never overwrites the first
// write; a later call can still fill a signature the first one lacked.
func (s *Store) CloseShift(ctx context.Context, shiftID string, at time.Time, geo *roster.Geo, signature *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE shifts
		SET clock_out = COALESCE(clock_out, ?),
		    clock_out_lat = COALESCE(clock_out_lat, ?),
		    clock_out_lon = COALESCE(clock_out_lon, ?),
		    checkout_signature = COALESCE(checkout_signature, ?)
		WHERE id = ?`,
		fmtTime(at), geoLat(geo), geoLon(geo), signature, shiftID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &roster.NotFoundError{Entity: "shift", ID: shiftID}
	}
	return nil
}

func (s *Store) GetShift(ctx context.Context, id string) (*roster.Shift, error) {
	return s.shiftWhere(ctx, "id = ?", id)
}

func (s *Store) ShiftByRegistration(ctx context.Context, registrationID string) (*roster.Shift, error) {
	return s.shiftWhere(ctx, "registration_id = ?", registrationID)
}

func (s *Store) shiftWhere(ctx context.Context, where string, arg any) (*roster.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+shiftCols+` FROM shifts WHERE `+where, arg)

	sh, err := scanShift(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sh, nil
}

// EventShifts returns the shifts of every non-cancelled registration of
// an event - the tip allocation denominator.
func (s *Store) EventShifts(ctx context.Context, eventID string) ([]*roster.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.registration_id, s.clock_in, s.clock_in_lat, s.clock_in_lon,
		       s.clock_out, s.clock_out_lat, s.clock_out_lon, s.checkout_signature,
		       s.receives_tip, s.tip_received, s.created_at
		FROM shifts s
		JOIN registrations r ON r.id = s.registration_id
		WHERE r.event_id = ? AND r.status != 'CANCELLED'`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shifts []*roster.Shift
	for rows.Next() {
		sh, err := scanShift(rows.Scan)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, sh)
	}
	return shifts, rows.Err()
}

func (s *Store) MarkTipsReceived(ctx context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE shifts SET tip_received = TRUE
		WHERE tip_received = FALSE
		  AND registration_id IN (SELECT id FROM registrations WHERE user_id = ?)`,
		userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanShift(scan func(dest ...any) error) (*roster.Shift, error) {
	var sh roster.Shift
	var clockIn, clockOut, signature sql.NullString
	var inLat, inLon, outLat, outLon sql.NullFloat64
	var createdAt string
	err := scan(&sh.ID, &sh.RegistrationID, &clockIn, &inLat, &inLon,
		&clockOut, &outLat, &outLon, &signature,
		&sh.ReceivesTip, &sh.TipReceived, &createdAt)
	if err != nil {
		return nil, err
	}
	sh.ClockIn = scanTimePtr(clockIn)
	sh.ClockInGeo = scanGeo(inLat, inLon)
	sh.ClockOut = scanTimePtr(clockOut)
	sh.ClockOutGeo = scanGeo(outLat, outLon)
	sh.CheckoutSignature = strPtr(signature)
	sh.CreatedAt = mustTime(createdAt)
	return &sh, nil
}

// =============================================================================
// CHANGE REQUESTS
// =============================================================================

const changeRequestCols = `id, shift_id, clock_in, clock_out, status, change_approved_by, created_at`

func (s *Store) InsertChangeRequest(ctx context.Context, req roster.ChangeRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO shift_change_requests (`+changeRequestCols+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		req.ID, req.ShiftID, fmtTime(req.ClockIn), fmtTime(req.ClockOut),
		string(req.Status), req.ApprovedBy, fmtTime(req.CreatedAt))
	return conflictErr(err, "pending change request", "shift "+req.ShiftID)
}

func (s *Store) UpdateChangeRequest(ctx context.Context, req roster.ChangeRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE shift_change_requests
		SET clock_in = ?, clock_out = ?, status = ?, change_approved_by = ?
		WHERE id = ?`,
		fmtTime(req.ClockIn), fmtTime(req.ClockOut), string(req.Status), req.ApprovedBy, req.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &roster.NotFoundError{Entity: "change request", ID: req.ID}
	}
	return nil
}

func (s *Store) GetChangeRequest(ctx context.Context, id string) (*roster.ChangeRequest, error) {
	return s.changeRequestWhere(ctx, "id = ?", id)
}

func (s *Store) PendingChangeRequest(ctx context.Context, shiftID string) (*roster.ChangeRequest, error) {
	return s.changeRequestWhere(ctx, "shift_id = ? AND status = 'PENDING'", shiftID)
}

func (s *Store) changeRequestWhere(ctx context.Context, where string, arg any) (*roster.ChangeRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+changeRequestCols+` FROM shift_change_requests WHERE `+where, arg)

	var req roster.ChangeRequest
	var clockIn, clockOut, status, createdAt string
	var approvedBy sql.NullString
	err := row.Scan(&req.ID, &req.ShiftID, &clockIn, &clockOut, &status, &approvedBy, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	req.ClockIn = mustTime(clockIn)
	req.ClockOut = mustTime(clockOut)
	req.Status = roster.ChangeRequestStatus(status)
	req.ApprovedBy = strPtr(approvedBy)
	req.CreatedAt = mustTime(createdAt)
	return &req, nil
}

// =============================================================================
// MONTH EXPORT (timesheet.MonthSource)
// =============================================================================

// EmployeeMonth returns every user together with their non-cancelled
// registrations whose event falls inside the month. Users without
// entries are included; the exporter decides who gets a document.
func (s *Store) EmployeeMonth(ctx context.Context, year int, month time.Month) ([]timesheet.EmployeeMonth, error) {
	users, err := s.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT r.user_id, e.date, s.clock_in, s.clock_out
		FROM registrations r
		JOIN events e ON e.id = r.event_id
		LEFT JOIN shifts s ON s.registration_id = r.id
		WHERE r.status != 'CANCELLED' AND e.date >= ? AND e.date < ?`,
		fmtTime(monthStart), fmtTime(monthEnd))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entriesByUser := map[string][]timesheet.MonthEntry{}
	for rows.Next() {
		var userID, eventDate string
		var clockIn, clockOut sql.NullString
		if err := rows.Scan(&userID, &eventDate, &clockIn, &clockOut); err != nil {
			return nil, err
		}
		entriesByUser[userID] = append(entriesByUser[userID], timesheet.MonthEntry{
			EventDate: mustTime(eventDate),
			ClockIn:   scanTimePtr(clockIn),
			ClockOut:  scanTimePtr(clockOut),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	employees := make([]timesheet.EmployeeMonth, 0, len(users))
	for _, u := range users {
		employees = append(employees, timesheet.EmployeeMonth{
			Name:    u.Name,
			Entries: entriesByUser[u.ID],
		})
	}
	return employees, nil
}
