package boilerplate

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var quoteReplacer = strings.NewReplacer(
	"“", `"`, "”", `"`, "„", `"`,
	"‘", "'", "’", "'",
)

// Normalize returns the whole-document copy the boilerplate and
// obsoletes/updates passes run over: NFC composed, typographic quotes
// folded to ASCII, and every run of whitespace (including page breaks and
// non-breaking spaces) collapsed to one space.
func Normalize(text string) string {
	t := transform.Chain(norm.NFC, runes.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		return r
	}))
	s, _, err := transform.String(t, text)
	if err != nil {
		s = text
	}
	s = quoteReplacer.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
