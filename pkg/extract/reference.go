package extract

import "strings"

// RFCCitations returns the RFC numbers cited in line ("RFC 1234", "RFC1234",
// "[RFC1234]"), without leading zeros.
func (e *Extractor) RFCCitations(line string) []Match {
	var matches []Match
	for _, m := range e.rfcCitationPattern.FindAllStringSubmatchIndex(line, -1) {
		matches = append(matches, Match{
			Value:  NormalizeRFCNumber(line[m[2]:m[3]]),
			Column: m[0] + 1,
		})
	}
	return matches
}

// DraftCitations returns bracketed citation tokens that are not RFC
// citations: "[I-D.ietf-foo-bar]" yields "I-D.ietf-foo-bar".
func (e *Extractor) DraftCitations(line string) []Match {
	var matches []Match
	for _, m := range e.bracketCitationPattern.FindAllStringSubmatchIndex(line, -1) {
		token := line[m[2]:m[3]]
		if e.rfcTokenPattern.MatchString(token) {
			continue
		}
		matches = append(matches, Match{Value: token, Column: m[2] + 1})
	}
	return matches
}

// NormalizeRFCNumber strips an "RFC" prefix, surrounding space and leading
// zeros from an RFC number. "0" stays "0".
func NormalizeRFCNumber(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 3 && strings.EqualFold(s[:3], "rfc") {
		s = strings.TrimSpace(s[3:])
	}
	trimmed := strings.TrimLeft(s, "0")
	if trimmed == "" && s != "" {
		return "0"
	}
	return trimmed
}
