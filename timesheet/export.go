/*
export.go - Monthly batch export of timesheets into one zip

PURPOSE:
  Iterates every employee with shifts in the requested month, renders a
  one-page timesheet for each, and streams the PDFs into a single zip
  archive entry by entry - the whole archive is never buffered.

SELECTION RULES:
  - only entries with BOTH clock-in and clock-out become rows
  - minutes are rounded to the nearest whole minute and clamped at zero
    (an inverted pair must not produce negative time on a signed report)
  - employees with zero rows or a zero minute total get no document
  - a month with zero documents gets a single placeholder note so the
    archive is never empty

ERROR CHANNEL:
  A render failure aborts the whole export with the employee named in
  the error. Silently skipping an employee would make the archive lie
  about who has hours recorded.

SEE ALSO:
  - render.go: The per-employee page
  - store/sqlite: MonthSource implementation
*/
package timesheet

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"time"
)

// MonthEntry is one registration's recorded window inside the month,
// as supplied by the persistence collaborator. Times may be nil.
type MonthEntry struct {
	EventDate time.Time
	ClockIn   *time.Time
	ClockOut  *time.Time
}

// EmployeeMonth is one employee's entries for the month.
type EmployeeMonth struct {
	Name    string
	Entries []MonthEntry
}

// MonthSource supplies, per employee, the shifts whose parent event
// falls within the requested month.
type MonthSource interface {
	EmployeeMonth(ctx context.Context, year int, month time.Month) ([]EmployeeMonth, error)
}

// ArchiveName is the deterministic download name. month0 is zero-based
// (wire contract); the name carries the 1-based two-digit month.
func ArchiveName(year, month0 int) string {
	return fmt.Sprintf("Stundenzettel_%d_%02d.zip", year, month0+1)
}

// ExportMonth writes the month's archive to w. month0 is zero-based.
func ExportMonth(ctx context.Context, w io.Writer, src MonthSource, year, month0 int, logo []byte) error {
	month := time.Month(month0 + 1)
	employees, err := src.EmployeeMonth(ctx, year, month)
	if err != nil {
		return fmt.Errorf("load month %d-%02d: %w", year, month, err)
	}

	zw := zip.NewWriter(w)
	monthLabel := fmt.Sprintf("%02d-%d", month, year)

	appended := 0
	for _, emp := range employees {
		rows := buildRows(emp.Entries)

		totalMinutes := 0
		for _, r := range rows {
			totalMinutes += r.Minutes
		}
		if len(rows) == 0 || totalMinutes == 0 {
			continue // no hours, no document
		}

		pdf, err := Render(Sheet{
			EmployeeName: emp.Name,
			MonthLabel:   monthLabel,
			Rows:         rows,
			Logo:         logo,
		})
		if err != nil {
			return err
		}

		name := fmt.Sprintf("Stundenzettel_%s_%d_%02d.pdf", SafeFilename(emp.Name), year, month)
		entry, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("archive entry %s: %w", name, err)
		}
		if _, err := entry.Write(pdf); err != nil {
			return fmt.Errorf("archive entry %s: %w", name, err)
		}
		appended++
	}

	if appended == 0 {
		name := fmt.Sprintf("README_%d_%02d.txt", year, month)
		entry, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("archive entry %s: %w", name, err)
		}
		note := fmt.Sprintf("Keine Stundenzettel für %s vorhanden.\n", monthLabel)
		if _, err := io.WriteString(entry, note); err != nil {
			return fmt.Errorf("archive entry %s: %w", name, err)
		}
	}

	return zw.Close()
}

// buildRows keeps entries with both timestamps, clamps minutes at zero
// and sorts ascending by begin time.
func buildRows(entries []MonthEntry) []Row {
	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		if e.ClockIn == nil || e.ClockOut == nil {
			continue
		}
		minutes := int(math.Round(e.ClockOut.Sub(*e.ClockIn).Minutes()))
		if minutes < 0 {
			minutes = 0
		}
		rows = append(rows, Row{
			Date:    e.EventDate,
			Begin:   *e.ClockIn,
			End:     *e.ClockOut,
			Minutes: minutes,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Begin.Before(rows[j].Begin) })
	return rows
}
