/*
Package timesheet renders monthly per-employee timesheets and packages
them into a downloadable archive.

PURPOSE:
  One employee, one A4 page, always. The renderer computes how many rows
  fit below the header, compacts the row height once if needed, and
  truncates with an explicit hint instead of paginating. The exporter
  (export.go) streams one PDF per employee into a zip.

KEY CONCEPTS IN THIS FILE (render.go):
  - Sheet: the render input (name, month label, rows, optional logo)
  - rowLayout: the fixed-capacity plan (row height, font, max rows)

LAYOUT ALGORITHM (must stay deterministic):
  1. available = page bottom margin - table top - header row
  2. try 20pt rows @ 10pt font; if the rows don't fit, 16pt @ 9pt
  3. maxRows = max(1, floor(available/rowHeight)) - 2
     (the -2 reserves space for the truncation hint and the totals line)
  4. draw exactly maxRows bordered slots; slots beyond the data stay
     empty so the grid is visually complete; data beyond maxRows is
     dropped and counted in the hint line
  5. totals line sums the FULL input, not just the rendered rows

DEGRADATION:
  A missing or unreadable logo never aborts the document; it is simply
  skipped. Only a genuinely unrenderable sheet returns an error.
*/
package timesheet

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/kulturwerk/shift-engine/roster"
)

// Row is one worked entry. Only rows with both timestamps present reach
// the renderer; they arrive pre-sorted ascending by Begin.
type Row struct {
	Date    time.Time
	Begin   time.Time
	End     time.Time
	Minutes int
}

// Sheet is the render input for one employee's month.
type Sheet struct {
	EmployeeName string
	MonthLabel   string // "MM-YYYY"
	Rows         []Row
	Logo         []byte // optional, PNG or JPEG
}

// Page geometry in points, A4 portrait.
const (
	pageMargin  = 48.0
	logoWidth   = 75.0
	headerRowH  = 22.0
	tableOffset = 78.0 // table top relative to the top margin
)

// column fractions of the usable width
var columns = []struct {
	label string
	frac  float64
}{
	{"Datum", 0.18},
	{"Beginn", 0.14},
	{"Ende", 0.14},
	{"Arbeitszeit", 0.18},
	{"Unterschrift", 0.36},
}

// rowLayout is the fixed-capacity plan for the table body.
type rowLayout struct {
	rowHeight float64
	fontSize  float64
	maxRows   int // slots drawn, filled or not
	visible   int // slots carrying data
	hidden    int // dropped entries, reported in the hint line
}

// planRows decides density and capacity for the given data size.
func planRows(rowCount int, availableHeight float64) rowLayout {
	l := rowLayout{rowHeight: 20, fontSize: 10}
	if rowCount > int(availableHeight/l.rowHeight) {
		l.rowHeight = 16
		l.fontSize = 9
	}

	l.maxRows = int(availableHeight / l.rowHeight)
	if l.maxRows < 1 {
		l.maxRows = 1
	}
	l.maxRows -= 2 // truncation hint + totals line

	l.visible = rowCount
	if l.visible > l.maxRows {
		l.visible = l.maxRows
	}
	if l.visible < 0 {
		l.visible = 0
	}
	l.hidden = rowCount - l.visible
	return l
}

// Render produces the one-page PDF for a sheet.
func Render(sheet Sheet) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, pageMargin)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, pageH := pdf.GetPageSize()
	left, top := pageMargin, pageMargin
	usable := pageW - 2*pageMargin
	bottomY := pageH - pageMargin

	drawLogo(pdf, sheet.Logo, pageW-pageMargin-logoWidth, top-10)

	// Header
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(left, top)
	pdf.CellFormat(usable-logoWidth, 18, "Stundenzettel", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetXY(left, top+28)
	pdf.CellFormat(usable-logoWidth, 13, tr("Name: "+sheet.EmployeeName), "", 0, "L", false, 0, "")
	pdf.SetXY(left, top+44)
	pdf.CellFormat(usable-logoWidth, 13, "Monat: "+sheet.MonthLabel, "", 0, "L", false, 0, "")

	// Table head
	tableTop := top + tableOffset
	pdf.SetLineWidth(1)
	pdf.Rect(left, tableTop, usable, headerRowH, "D")

	pdf.SetFont("Helvetica", "B", 10)
	cx := left
	for _, c := range columns {
		cw := usable * c.frac
		pdf.SetXY(cx+6, tableTop+5)
		pdf.CellFormat(cw-12, 12, c.label, "", 0, "L", false, 0, "")
		pdf.Line(cx+cw, tableTop, cx+cw, tableTop+headerRowH)
		cx += cw
	}

	// Body
	available := bottomY - (tableTop + headerRowH)
	layout := planRows(len(sheet.Rows), available)

	pdf.SetFont("Helvetica", "", layout.fontSize)
	y := tableTop + headerRowH
	for i := 0; i < layout.maxRows; i++ {
		pdf.Rect(left, y, usable, layout.rowHeight, "D")
		vx := left
		for _, c := range columns {
			vx += usable * c.frac
			pdf.Line(vx, y, vx, y+layout.rowHeight)
		}

		if i < layout.visible {
			r := sheet.Rows[i]
			cells := []string{
				r.Date.Format("02.01.2006"),
				r.Begin.Format("15:04"),
				r.End.Format("15:04"),
				roster.MinutesToHHMM(r.Minutes),
				"", // signature stays blank
			}
			ty := y + (layout.rowHeight-layout.fontSize)/2 - 1
			tx := left
			for j, c := range columns {
				cw := usable * c.frac
				pdf.SetXY(tx+6, ty)
				pdf.CellFormat(cw-12, layout.fontSize+2, cells[j], "", 0, "L", false, 0, "")
				tx += cw
			}
		}
		y += layout.rowHeight
	}

	if layout.hidden > 0 {
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetXY(left, y+10)
		hint := fmt.Sprintf("Hinweis: %d weitere Einträge passen nicht auf eine Seite und wurden nicht angezeigt.", layout.hidden)
		pdf.CellFormat(usable, 11, tr(hint), "", 0, "L", false, 0, "")
	}

	// Totals over the FULL input set, dropped rows included.
	total := 0
	for _, r := range sheet.Rows {
		total += r.Minutes
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetXY(left, bottomY-18)
	pdf.CellFormat(usable, 12, "Summe Arbeitszeit: "+roster.MinutesToHHMM(total), "", 0, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render timesheet for %s: %w", sheet.EmployeeName, err)
	}
	return buf.Bytes(), nil
}

// drawLogo places the decorative logo top right. Anything wrong with
// the image data skips the logo rather than failing the document.
func drawLogo(pdf *fpdf.Fpdf, logo []byte, x, y float64) {
	if len(logo) == 0 {
		return
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(logo))
	if err != nil {
		return
	}
	imgType := "PNG"
	if format == "jpeg" {
		imgType = "JPG"
	}

	opts := fpdf.ImageOptions{ImageType: imgType}
	pdf.RegisterImageOptionsReader("logo", opts, bytes.NewReader(logo))
	if pdf.Err() {
		pdf.ClearError()
		return
	}
	pdf.ImageOptions("logo", x, y, logoWidth, 0, false, opts, 0, "")
	if pdf.Err() {
		pdf.ClearError()
	}
}
