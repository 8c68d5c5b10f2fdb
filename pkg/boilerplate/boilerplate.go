// Package boilerplate runs the whole-document passes over the normalized
// text of a draft: the RFC 2119/8174 boilerplate matcher, the
// obsoletes/updates sentences of the abstract, citation flags and the
// license notice.
package boilerplate

import (
	"regexp"
	"strings"

	"github.com/coolbeans/draftcheck/pkg/document"
	"github.com/coolbeans/draftcheck/pkg/extract"
	"github.com/coolbeans/draftcheck/pkg/pattern"
)

var (
	quotedKeywordPattern = regexp.MustCompile(`"([A-Z]+(?: [A-Z]+)?)"`)
	obsoletesPattern     = regexp.MustCompile(`(?i)\bthis\s+document\s+obsoletes\s+(RFCs?\s?\d+(?:\s*(?:,\s*and|,|and)\s*(?:RFC\s?)?\d+)*)`)
	updatesPattern       = regexp.MustCompile(`(?i)\bthis\s+document\s+updates\s+(RFCs?\s?\d+(?:\s*(?:,\s*and|,|and)\s*(?:RFC\s?)?\d+)*)`)
	numberPattern        = regexp.MustCompile(`\d+`)
	bsdLicensePattern    = regexp.MustCompile(`(?i)\b(?:revised|simplified)\s+BSD\s+License\b`)
)

// Match is the outcome of the boilerplate matcher.
type Match struct {
	RFC2119 bool
	RFC8174 bool
	// Similar is set when some boilerplate was attempted (a long enough
	// fragment prefix matched) but no canonical form matched in full.
	Similar bool
	// Keywords are the keywords the matched boilerplate texts define,
	// in first-seen order.
	Keywords []string
}

// MatchBoilerplate tests normalized text against every boilerplate rule of
// table.
func MatchBoilerplate(table *pattern.Table, normalized string) Match {
	var m Match
	attempted := false
	seen := make(map[string]bool)
	m.Keywords = []string{}

	for i := range table.Boilerplates {
		rule := &table.Boilerplates[i]
		text, n := rule.MatchedPrefix(normalized)
		if n == 0 {
			continue
		}

		if n == len(rule.Fragments) {
			switch rule.Flag {
			case "rfc2119":
				m.RFC2119 = true
			case "rfc8174":
				m.RFC8174 = true
			}
		}
		if n < rule.MinSimilar() {
			continue
		}
		attempted = true

		for _, kw := range quotedKeywordPattern.FindAllStringSubmatch(text, -1) {
			if isKeyword(kw[1]) && !seen[kw[1]] {
				seen[kw[1]] = true
				m.Keywords = append(m.Keywords, kw[1])
			}
		}
	}

	m.Similar = attempted && !m.RFC2119 && !m.RFC8174
	return m
}

func isKeyword(s string) bool {
	for _, kw := range extract.Keywords {
		if kw == s {
			return true
		}
	}
	return false
}

// Obsoletes returns the RFC numbers named in "This document obsoletes ..."
// sentences, deduplicated in order.
func Obsoletes(normalized string) []string {
	return sentenceRFCs(obsoletesPattern, normalized)
}

// Updates returns the RFC numbers named in "This document updates ..."
// sentences, deduplicated in order.
func Updates(normalized string) []string {
	return sentenceRFCs(updatesPattern, normalized)
}

func sentenceRFCs(re *regexp.Regexp, text string) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		for _, num := range numberPattern.FindAllString(m[1], -1) {
			num = extract.NormalizeRFCNumber(num)
			if !seen[num] {
				seen[num] = true
				out = append(out, num)
			}
		}
	}
	return out
}

// Apply runs every whole-document pass over normalized and records the
// results on doc.
func Apply(table *pattern.Table, normalized string, doc *document.ParsedDocument) {
	m := MatchBoilerplate(table, normalized)
	doc.Boilerplate = document.Boilerplate{
		RFC2119:                m.RFC2119,
		RFC8174:                m.RFC8174,
		Similar2119Boilerplate: m.Similar,
	}
	doc.ExtractedElements.Boilerplate2119Keywords = m.Keywords

	doc.References.RFC2119 = strings.Contains(normalized, "[RFC2119]")
	doc.References.RFC8174 = strings.Contains(normalized, "[RFC8174]")

	doc.ExtractedElements.ObsoletesRFC = Obsoletes(normalized)
	doc.ExtractedElements.UpdatesRFC = Updates(normalized)

	doc.Contains.RevisedBSDLicense = bsdLicensePattern.MatchString(normalized)
}
