package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kulturwerk/shift-engine/roster"
	"github.com/kulturwerk/shift-engine/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// seedRegistration creates user + event + registration and returns the
// registration ID.
func seedRegistration(t *testing.T, store *sqlite.Store, userID, eventID, regID string) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, store.SaveUser(ctx, roster.User{
		ID: userID, Name: "Maria " + userID, Email: userID + "@example.com", Role: roster.RoleUser,
	}))

	tip := decimal.NewFromInt(100)
	date := time.Date(2025, time.March, 8, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveEvent(ctx, roster.Event{
		ID: eventID, Name: "Spring Market", Date: date,
		StartTime: date.Add(17 * time.Hour), EndTime: date.Add(23 * time.Hour),
		TotalTip: &tip,
	}))

	require.NoError(t, store.InsertRegistration(ctx, roster.Registration{
		ID: regID, UserID: userID, EventID: eventID,
		Status: roster.StatusRegistered, CreatedAt: time.Now().UTC(),
	}))
}

func TestStore_OneShiftPerRegistration(t *testing.T) {
	// GIVEN: A registration that already clocked in
	store := newTestStore(t)
	ctx := context.Background()
	seedRegistration(t, store, "user-1", "event-1", "reg-1")

	first := roster.NewShift("reg-1", time.Now().UTC(), nil)
	require.NoError(t, store.InsertShift(ctx, first))

	// WHEN: A second shift is inserted for the same registration
	second := roster.NewShift("reg-1", time.Now().UTC(), nil)
	err := store.InsertShift(ctx, second)

	// THEN: The unique index reports a conflict
	assert.ErrorIs(t, err, roster.ErrConflict)
}

func TestStore_OnePendingChangeRequestPerShift(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedRegistration(t, store, "user-1", "event-1", "reg-1")

	in := time.Date(2025, time.March, 8, 18, 0, 0, 0, time.UTC)
	out := in.Add(5 * time.Hour)
	shift := roster.NewManualShift("reg-1", in, out)
	require.NoError(t, store.InsertShift(ctx, shift))

	req1, err := roster.NewChangeRequest(shift.ID, &in, &out)
	require.NoError(t, err)
	require.NoError(t, store.InsertChangeRequest(ctx, req1))

	// A second PENDING request collides even without the service check.
	req2, err := roster.NewChangeRequest(shift.ID, &in, &out)
	require.NoError(t, err)
	err = store.InsertChangeRequest(ctx, req2)
	assert.ErrorIs(t, err, roster.ErrConflict)

	// Resolving the first frees the slot.
	resolved, err := roster.RejectChange(req1, "Maria")
	require.NoError(t, err)
	require.NoError(t, store.UpdateChangeRequest(ctx, resolved))

	req3, err := roster.NewChangeRequest(shift.ID, &in, &out)
	require.NoError(t, err)
	assert.NoError(t, store.InsertChangeRequest(ctx, req3))

	// PendingChangeRequest sees only the live one.
	pending, err := store.PendingChangeRequest(ctx, shift.ID)
	require.NoError(t, err)
	require.NotNil(t, pending)
	assert.Equal(t, req3.ID, pending.ID)
}

func TestStore_ShiftRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedRegistration(t, store, "user-1", "event-1", "reg-1")

	in := time.Date(2025, time.March, 8, 18, 0, 0, 0, time.UTC)
	sig := "sig-ref"
	shift := roster.NewShift("reg-1", in, &roster.Geo{Lat: 52.52, Lon: 13.405})
	shift = roster.ClockOut(shift, in.Add(5*time.Hour), &roster.Geo{Lat: 52.53, Lon: 13.41}, &sig)
	require.NoError(t, store.InsertShift(ctx, shift))

	got, err := store.GetShift(ctx, shift.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, shift.ClockIn.UTC(), got.ClockIn.UTC())
	assert.Equal(t, shift.ClockOut.UTC(), got.ClockOut.UTC())
	assert.Equal(t, shift.ClockInGeo, got.ClockInGeo)
	assert.Equal(t, shift.ClockOutGeo, got.ClockOutGeo)
	require.NotNil(t, got.CheckoutSignature)
	assert.Equal(t, "sig-ref", *got.CheckoutSignature)
	assert.True(t, got.ReceivesTip)
	assert.False(t, got.TipReceived)

	byReg, err := store.ShiftByRegistration(ctx, "reg-1")
	require.NoError(t, err)
	require.NotNil(t, byReg)
	assert.Equal(t, shift.ID, byReg.ID)
}

func TestStore_CloseShift_FirstWriteWinsAcrossSnapshots(t *testing.T) {
	// GIVEN: An open shift that two check-out calls race to close
	store := newTestStore(t)
	ctx := context.Background()
	seedRegistration(t, store, "user-1", "event-1", "reg-1")

	in := time.Date(2025, time.March, 8, 18, 0, 0, 0, time.UTC)
	shift := roster.NewShift("reg-1", in, nil)
	require.NoError(t, store.InsertShift(ctx, shift))

	first := time.Date(2025, time.March, 8, 23, 0, 0, 0, time.UTC)
	second := time.Date(2025, time.March, 9, 1, 0, 0, 0, time.UTC)

	// WHEN: Both writers saved, the later one carrying a signature
	require.NoError(t, store.CloseShift(ctx, shift.ID, first, nil, nil))
	sig := "late-sig"
	require.NoError(t, store.CloseShift(ctx, shift.ID, second, &roster.Geo{Lat: 52.52, Lon: 13.405}, &sig))

	// THEN: The stored clock-out is the first write; the geo and
	// signature the first call lacked still fill in
	got, err := store.GetShift(ctx, shift.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ClockOut)
	assert.Equal(t, first, got.ClockOut.UTC())
	assert.Equal(t, &roster.Geo{Lat: 52.52, Lon: 13.405}, got.ClockOutGeo)
	require.NotNil(t, got.CheckoutSignature)
	assert.Equal(t, "late-sig", *got.CheckoutSignature)

	// Unknown shifts are reported, not silently ignored.
	err = store.CloseShift(ctx, "nope", first, nil, nil)
	assert.ErrorIs(t, err, roster.ErrNotFound)
}

func TestStore_MarkTipsReceived_CountsOnlyFlips(t *testing.T) {
	// GIVEN: Two shifts for the user, one already acknowledged
	store := newTestStore(t)
	ctx := context.Background()
	seedRegistration(t, store, "user-1", "event-1", "reg-1")
	seedRegistration(t, store, "user-1", "event-2", "reg-2")
	seedRegistration(t, store, "user-2", "event-3", "reg-other")

	now := time.Now().UTC()
	s1 := roster.NewShift("reg-1", now, nil)
	s2 := roster.NewShift("reg-2", now, nil)
	s2.TipReceived = true
	other := roster.NewShift("reg-other", now, nil)
	require.NoError(t, store.InsertShift(ctx, s1))
	require.NoError(t, store.InsertShift(ctx, s2))
	require.NoError(t, store.InsertShift(ctx, other))

	// WHEN: Acknowledging payout for user-1
	count, err := store.MarkTipsReceived(ctx, "user-1")
	require.NoError(t, err)

	// THEN: Only the one unacknowledged shift flips; replay affects zero
	assert.Equal(t, int64(1), count)

	count, err = store.MarkTipsReceived(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	untouched, err := store.GetShift(ctx, other.ID)
	require.NoError(t, err)
	assert.False(t, untouched.TipReceived, "other users' shifts stay untouched")
}

func TestStore_EmployeeMonth_FiltersCancelledAndOtherMonths(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seedRegistration(t, store, "user-1", "event-1", "reg-1")

	// Same user, April event: outside the requested month.
	april := time.Date(2025, time.April, 5, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveEvent(ctx, roster.Event{
		ID: "event-april", Name: "April Fair", Date: april,
		StartTime: april, EndTime: april.Add(6 * time.Hour),
	}))
	require.NoError(t, store.InsertRegistration(ctx, roster.Registration{
		ID: "reg-april", UserID: "user-1", EventID: "event-april",
		Status: roster.StatusRegistered, CreatedAt: time.Now().UTC(),
	}))

	// Cancelled registration in March: must not appear.
	require.NoError(t, store.InsertRegistration(ctx, roster.Registration{
		ID: "reg-cancelled", UserID: "user-1", EventID: "event-1",
		Status: roster.StatusCancelled, CreatedAt: time.Now().UTC(),
	}))

	in := time.Date(2025, time.March, 8, 18, 0, 0, 0, time.UTC)
	shift := roster.NewManualShift("reg-1", in, in.Add(5*time.Hour))
	require.NoError(t, store.InsertShift(ctx, shift))

	employees, err := store.EmployeeMonth(ctx, 2025, time.March)
	require.NoError(t, err)
	require.Len(t, employees, 1)
	require.Len(t, employees[0].Entries, 1)
	assert.Equal(t, in, employees[0].Entries[0].ClockIn.UTC())
}

func TestStore_GetMissingReturnsNilNil(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user, err := store.GetUser(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, user)

	shift, err := store.GetShift(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, shift)

	req, err := store.GetChangeRequest(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, req)
}
