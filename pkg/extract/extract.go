// Package extract provides the per-line lexical extractors used by the
// draft parser: domain names, IP address literals, RFC 2119 keywords,
// citation tokens and inline code comment lookalikes.
//
// Extractors are syntactic only. Malformed candidates (256.0.0.1,
// 192.0.2.1/33, unknown TLDs) are returned as found; deciding whether they
// are valid is left to the validators.
package extract

import (
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

// DefaultMatchTimeout bounds a single look-around match. A timeout is
// reported as an error rather than stalling a parse.
const DefaultMatchTimeout = time.Second

// Match is one extracted token and its 1-based byte column in the line.
// The column is where the token's own text starts: for bracketed citations
// that is the first character after "[".
type Match struct {
	Value  string
	Column int
}

// Extractor holds the compiled patterns of all extractors. Patterns carry
// no per-match state, so one Extractor is safe for concurrent use.
type Extractor struct {
	// Look-around patterns (regexp2)
	fqdnPattern *regexp2.Regexp
	ipv4Pattern *regexp2.Regexp
	ipv6Pattern *regexp2.Regexp

	// RFC 2119 keyword patterns
	keywordPattern        *regexp.Regexp
	invalidKeywordPattern *regexp.Regexp

	// Citation patterns
	rfcCitationPattern     *regexp.Regexp
	bracketCitationPattern *regexp.Regexp
	rfcTokenPattern        *regexp.Regexp

	// Inline code patterns
	codeBeginsPattern  *regexp.Regexp
	codeEndsPattern    *regexp.Regexp
	commentMarkPattern *regexp.Regexp
}

// NewExtractor creates an Extractor with the default patterns.
func NewExtractor() *Extractor {
	return NewExtractorWithTimeout(DefaultMatchTimeout)
}

// NewExtractorWithTimeout creates an Extractor whose look-around matches
// fail after timeout.
func NewExtractorWithTimeout(timeout time.Duration) *Extractor {
	lookaround := func(expr string) *regexp2.Regexp {
		re := regexp2.MustCompile(expr, regexp2.None)
		re.MatchTimeout = timeout
		return re
	}

	return &Extractor{
		// (label.)+label, not glued to a longer token on either side and
		// not a bracketed citation tag. The final label starts with a
		// letter and has two or more characters.
		fqdnPattern: lookaround(`(?<![\w.\[-])(?:[A-Za-z0-9](?:[A-Za-z0-9-]{0,61}[A-Za-z0-9])?\.)+[A-Za-z][A-Za-z0-9-]{0,61}[A-Za-z0-9](?![\w-]|\.[\w-])`),
		// Dotted quad with optional prefix length, octet range not checked.
		ipv4Pattern: lookaround(`(?<![\w.])\d{1,3}(?:\.\d{1,3}){3}(?:/\d{1,3})?(?![\w]|\.\d)`),
		// Colon-separated hex groups, optionally ending in a dotted quad.
		ipv6Pattern: lookaround(`(?<![\w:.])(?:[0-9A-Fa-f]{0,4}:){2,7}(?:\d{1,3}(?:\.\d{1,3}){3}|[0-9A-Fa-f]{1,4})?(?:/\d{1,3})?(?![\w:]|\.\d)`),

		// "MUST", "MUST NOT", "NOT RECOMMENDED", ...
		keywordPattern: regexp.MustCompile(`\b(?:MUST(?:\s+NOT)?|SHALL(?:\s+NOT)?|SHOULD(?:\s+NOT)?|NOT\s+RECOMMENDED|RECOMMENDED|REQUIRED|MAY|OPTIONAL)\b`),
		// Case-sensitive malformed negations
		invalidKeywordPattern: regexp.MustCompile(`\b(?:MUST not|SHALL not|SHOULD not|not RECOMMENDED|MAY NOT|NOT REQUIRED|NOT OPTIONAL)\b`),

		// "RFC 1234", "RFC1234", "[RFC1234]"
		rfcCitationPattern: regexp.MustCompile(`\bRFC\s?(\d{1,5})\b`),
		// "[I-D.ietf-foo-bar]", "[TLS13]"
		bracketCitationPattern: regexp.MustCompile(`\[([^\[\]\s]+)\]`),
		rfcTokenPattern:        regexp.MustCompile(`^RFC\d`),

		codeBeginsPattern:  regexp.MustCompile(`(?i)<CODE BEGINS>`),
		codeEndsPattern:    regexp.MustCompile(`(?i)<CODE ENDS>`),
		commentMarkPattern: regexp.MustCompile(`/\*|\*/`),
	}
}

// findAll2 returns every match of a regexp2 pattern with byte columns.
func findAll2(re *regexp2.Regexp, line string) ([]Match, error) {
	var matches []Match
	m, err := re.FindStringMatch(line)
	for m != nil && err == nil {
		matches = append(matches, Match{
			Value:  m.String(),
			Column: runeToByteOffset(line, m.Index) + 1,
		})
		m, err = re.FindNextMatch(m)
	}
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// runeToByteOffset converts a rune index within s to a byte offset.
func runeToByteOffset(s string, runeIdx int) int {
	offset := 0
	for i := 0; i < runeIdx && offset < len(s); i++ {
		_, size := utf8.DecodeRuneInString(s[offset:])
		offset += size
	}
	return offset
}
