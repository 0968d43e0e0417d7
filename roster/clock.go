/*
clock.go - Time arithmetic for shifts

PURPOSE:
  Pure functions converting a (clock-in, clock-out) pair into worked
  minutes and formatted strings. Everything downstream - tip shares,
  timesheet rows, totals - is built on WorkedMinutes.

DESIGN NOTES:
  WorkedMinutes performs NO clamping: a clock-out before clock-in yields
  negative minutes, passed through unchanged. The source system never
  validated the ordering and reporting must not silently rewrite the
  record; the timesheet exporter clamps to zero at the reporting edge
  instead (see timesheet/export.go).
*/
package roster

import (
	"fmt"
	"time"
)

// WorkedMinutes returns the whole-minute difference clockOut-clockIn,
// computed on instants (timezone-agnostic). ok is false if either
// timestamp is missing. Negative and zero durations pass through.
func WorkedMinutes(clockIn, clockOut *time.Time) (minutes int, ok bool) {
	if clockIn == nil || clockOut == nil {
		return 0, false
	}
	return int(clockOut.Sub(*clockIn) / time.Minute), true
}

// ShiftMinutes is WorkedMinutes applied to a shift snapshot, tolerating
// a nil shift.
func ShiftMinutes(s *Shift) (int, bool) {
	if s == nil {
		return 0, false
	}
	return WorkedMinutes(s.ClockIn, s.ClockOut)
}

// FormatClock renders a timestamp as "HH:MM", or "--:--" for nil.
func FormatClock(t *time.Time) string {
	if t == nil {
		return "--:--"
	}
	return t.Format("15:04")
}

// SameMinute reports whether both timestamps are present and agree at
// minute granularity. Used to suppress display of a change request that
// proposes no actual change.
func SameMinute(a, b *time.Time) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Sub(*b)/time.Minute == 0
}

// MinutesToHHMM renders a minute total as zero-padded "HH:MM", e.g.
// 480 -> "08:00". Totals above 99 hours keep growing digits.
func MinutesToHHMM(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
