package timesheet

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A4 body space below header and table head, in points. Matches the
// geometry constants in render.go.
var a4Available = 841.89 - pageMargin - (pageMargin + tableOffset + headerRowH)

func sampleRows(n int) []Row {
	rows := make([]Row, n)
	for i := range rows {
		begin := time.Date(2025, time.March, 1+i%28, 18, 0, 0, 0, time.UTC)
		rows[i] = Row{Date: begin, Begin: begin, End: begin.Add(4 * time.Hour), Minutes: 240}
	}
	return rows
}

func TestPlanRows_AmpleSpace(t *testing.T) {
	// GIVEN: 3 rows on an otherwise empty page
	l := planRows(3, a4Available)

	// THEN: comfortable density, all rows visible, nothing hidden
	assert.Equal(t, 20.0, l.rowHeight)
	assert.Equal(t, 10.0, l.fontSize)
	assert.Equal(t, 3, l.visible)
	assert.Equal(t, 0, l.hidden)
	assert.Greater(t, l.maxRows, 3, "empty slots pad out the grid")
}

func TestPlanRows_CompactsWhenOverfull(t *testing.T) {
	comfortable := int(a4Available / 20)

	l := planRows(comfortable+1, a4Available)

	assert.Equal(t, 16.0, l.rowHeight)
	assert.Equal(t, 9.0, l.fontSize)
}

func TestPlanRows_TruncationCount(t *testing.T) {
	// GIVEN: Far more rows than one page can hold
	l := planRows(100, a4Available)

	// THEN: exactly maxRows slots carry data, the rest is reported
	assert.Equal(t, l.maxRows, l.visible)
	assert.Equal(t, 100-l.maxRows, l.hidden)
	assert.Equal(t, int(a4Available/16)-2, l.maxRows, "two slots reserved for hint and totals")
}

func TestPlanRows_CapacityIsLayoutBoundNotDataBound(t *testing.T) {
	// Zero data still draws the full empty grid.
	l := planRows(0, a4Available)
	assert.Equal(t, 0, l.visible)
	assert.Equal(t, 0, l.hidden)
	assert.Equal(t, int(a4Available/20)-2, l.maxRows)
}

func TestRender_ProducesSinglePagePDF(t *testing.T) {
	out, err := Render(Sheet{
		EmployeeName: "Maria Müller",
		MonthLabel:   "03-2025",
		Rows:         sampleRows(5),
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "not a PDF")
	assert.Equal(t, 1, bytes.Count(out, []byte("/Type /Page\n")), "must never paginate")
}

func TestRender_ManyRowsStillOnePage(t *testing.T) {
	out, err := Render(Sheet{
		EmployeeName: "Overworked",
		MonthLabel:   "03-2025",
		Rows:         sampleRows(120),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, bytes.Count(out, []byte("/Type /Page\n")))
}

func TestRender_CorruptLogoIsSkipped(t *testing.T) {
	// GIVEN: Logo bytes that are not an image at all
	out, err := Render(Sheet{
		EmployeeName: "Maria",
		MonthLabel:   "03-2025",
		Rows:         sampleRows(2),
		Logo:         []byte("definitely not a png"),
	})

	// THEN: The document still renders
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestSafeFilename(t *testing.T) {
	assert.Equal(t, "Maria_Krebs", SafeFilename("Maria Krebs"))
	assert.Equal(t, "Maria_Muller_Ludenscheid", SafeFilename("Maria Müller-Lüdenscheid"))
	assert.Equal(t, "Jose_Nunez", SafeFilename("  José Núñez!  "))
	assert.Equal(t, "a_b", SafeFilename("_a___b_"))
	assert.Equal(t, "", SafeFilename("***"))
}

func TestArchiveName_MonthIsOneBasedInName(t *testing.T) {
	// Query parameter is zero-based, the filename is not.
	assert.Equal(t, "Stundenzettel_2025_01.zip", ArchiveName(2025, 0))
	assert.Equal(t, "Stundenzettel_2025_12.zip", ArchiveName(2025, 11))
}
