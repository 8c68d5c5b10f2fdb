package extract

import "strings"

// Keywords lists the RFC 2119 keywords in their canonical spelling.
var Keywords = []string{
	"MUST", "MUST NOT", "REQUIRED", "SHALL", "SHALL NOT",
	"SHOULD", "SHOULD NOT", "RECOMMENDED", "NOT RECOMMENDED",
	"MAY", "OPTIONAL",
}

// Keywords2119 returns the RFC 2119 keywords used in line. A keyword
// written inside double quotes ("MUST") is a mention, not a use, and is
// skipped. Inner whitespace of two-word keywords is collapsed.
func (e *Extractor) Keywords2119(line string) []Match {
	var matches []Match
	for _, loc := range e.keywordPattern.FindAllStringIndex(line, -1) {
		if quoted(line, loc[0], loc[1]) {
			continue
		}
		matches = append(matches, Match{
			Value:  strings.Join(strings.Fields(line[loc[0]:loc[1]]), " "),
			Column: loc[0] + 1,
		})
	}
	return matches
}

// InvalidKeywords returns malformed keyword combinations such as
// "MUST not" or "MAY NOT". Matching is case-sensitive.
func (e *Extractor) InvalidKeywords(line string) []Match {
	var matches []Match
	for _, loc := range e.invalidKeywordPattern.FindAllStringIndex(line, -1) {
		matches = append(matches, Match{Value: line[loc[0]:loc[1]], Column: loc[0] + 1})
	}
	return matches
}

func quoted(line string, start, end int) bool {
	return start > 0 && end < len(line) && line[start-1] == '"' && line[end] == '"'
}
