package timesheet

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource serves canned month data.
type fakeSource struct {
	employees []EmployeeMonth
}

func (f *fakeSource) EmployeeMonth(ctx context.Context, year int, month time.Month) ([]EmployeeMonth, error) {
	return f.employees, nil
}

func ts(day, hour, min int) *time.Time {
	t := time.Date(2025, time.March, day, hour, min, 0, 0, time.UTC)
	return &t
}

func readArchive(t *testing.T, buf *bytes.Buffer) map[string][]byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	entries := map[string][]byte{}
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		entries[f.Name] = data
	}
	return entries
}

func TestExportMonth_OneDocumentPerEmployeeWithHours(t *testing.T) {
	// GIVEN: One employee with hours, one without a clock-out, month0=2 (March)
	src := &fakeSource{employees: []EmployeeMonth{
		{
			Name: "Maria Müller",
			Entries: []MonthEntry{
				{EventDate: *ts(8, 0, 0), ClockIn: ts(8, 18, 0), ClockOut: ts(8, 23, 30)},
				{EventDate: *ts(1, 0, 0), ClockIn: ts(1, 17, 0), ClockOut: ts(1, 22, 0)},
			},
		},
		{
			Name:    "Still Working",
			Entries: []MonthEntry{{EventDate: *ts(8, 0, 0), ClockIn: ts(8, 18, 0)}},
		},
	}}

	var buf bytes.Buffer
	require.NoError(t, ExportMonth(context.Background(), &buf, src, 2025, 2, nil))

	// THEN: Exactly one PDF, diacritics folded, no placeholder
	entries := readArchive(t, &buf)
	require.Len(t, entries, 1)
	pdf, ok := entries["Stundenzettel_Maria_Muller_2025_03.pdf"]
	require.True(t, ok, "entries: %v", entries)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}

func TestExportMonth_EmptyMonthGetsPlaceholder(t *testing.T) {
	// GIVEN: Nobody has qualifying hours
	src := &fakeSource{employees: []EmployeeMonth{
		{Name: "No Show", Entries: nil},
		{Name: "Open Shift", Entries: []MonthEntry{{EventDate: *ts(8, 0, 0), ClockIn: ts(8, 18, 0)}}},
	}}

	var buf bytes.Buffer
	require.NoError(t, ExportMonth(context.Background(), &buf, src, 2025, 2, nil))

	// THEN: One placeholder note, zero PDFs
	entries := readArchive(t, &buf)
	require.Len(t, entries, 1)
	note, ok := entries["README_2025_03.txt"]
	require.True(t, ok, "entries: %v", entries)
	assert.Contains(t, string(note), "03-2025")
}

func TestExportMonth_ZeroTotalMinutesSkipsEmployee(t *testing.T) {
	// An inverted pair clamps to zero minutes; zero total means no sheet.
	src := &fakeSource{employees: []EmployeeMonth{
		{
			Name:    "Inverted",
			Entries: []MonthEntry{{EventDate: *ts(8, 0, 0), ClockIn: ts(8, 23, 0), ClockOut: ts(8, 18, 0)}},
		},
	}}

	var buf bytes.Buffer
	require.NoError(t, ExportMonth(context.Background(), &buf, src, 2025, 2, nil))

	entries := readArchive(t, &buf)
	require.Len(t, entries, 1)
	_, ok := entries["README_2025_03.txt"]
	assert.True(t, ok)
}

func TestBuildRows_FiltersClampsAndSorts(t *testing.T) {
	rows := buildRows([]MonthEntry{
		{EventDate: *ts(10, 0, 0), ClockIn: ts(10, 18, 0), ClockOut: ts(10, 20, 0)},
		{EventDate: *ts(2, 0, 0), ClockIn: ts(2, 17, 0), ClockOut: ts(2, 21, 15)},
		{EventDate: *ts(5, 0, 0), ClockIn: ts(5, 18, 0)},                            // no clock-out
		{EventDate: *ts(7, 0, 0), ClockIn: ts(7, 20, 0), ClockOut: ts(7, 19, 0)},   // inverted
	})

	require.Len(t, rows, 3)
	assert.True(t, rows[0].Begin.Before(rows[1].Begin))
	assert.True(t, rows[1].Begin.Before(rows[2].Begin))
	assert.Equal(t, 255, rows[0].Minutes)
	assert.Equal(t, 0, rows[1].Minutes, "inverted pair clamps to zero on the report")
	assert.Equal(t, 120, rows[2].Minutes)
}
