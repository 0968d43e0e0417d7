/*
filename.go - Archive-safe names for per-employee documents

"Maria Müller-Lüdenscheid" -> "Maria_Muller_Ludenscheid": NFKD
decomposition, combining marks stripped, every non-alphanumeric run
collapsed to a single underscore, no leading or trailing separator.
*/
package timesheet

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// stripMarks decomposes and drops combining marks, so diacritics fold
// to their ASCII base letter.
var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// SafeFilename sanitizes an employee name for use inside the archive.
func SafeFilename(name string) string {
	folded, _, err := transform.String(stripMarks, name)
	if err != nil {
		folded = name
	}
	folded = nonAlnum.ReplaceAllString(folded, "_")
	return strings.Trim(folded, "_")
}
