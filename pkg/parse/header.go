package parse

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/coolbeans/draftcheck/pkg/document"
	"github.com/coolbeans/draftcheck/pkg/extract"
)

var (
	// "Network Working Group        J. Doe"
	columnPattern = regexp.MustCompile(`^(.*?)\s{2,}(\S.*)$`)

	// "J. Doe", "A. B. Surname, Ed.", "J-P. Martin"
	authorPattern = regexp.MustCompile(`^\p{Lu}\p{Ll}?\.(?:\s?-?\p{Lu}\p{Ll}?\.)*\s+\p{L}`)

	// "8 March 2024", "March 2024", "March 8, 2024", "Mar. 2024"
	datePattern = regexp.MustCompile(`^(?:(\d{1,2})\s+)?([A-Za-z]+)\.?\s+(?:(\d{1,2}),?\s+)?(\d{4})$`)

	ifApprovedPattern = regexp.MustCompile(`(?i)\(\s*if\s+approved\s*\)`)
)

// headerKey is a left-column header field recognized by prefix.
type headerKey struct {
	prefix string
	apply  func(h *headerState, value string)
}

var headerKeys = []headerKey{
	{"Internet-Draft", func(h *headerState, _ string) {
		h.doc.Kind = document.KindDraft
	}},
	{"Request for Comments:", func(h *headerState, v string) {
		h.doc.Kind = document.KindRFC
		h.doc.Header.RFCNumber = extract.NormalizeRFCNumber(v)
	}},
	{"Intended status:", func(h *headerState, v string) {
		h.doc.Header.IntendedStatus = h.status(v)
	}},
	{"Obsoletes:", func(h *headerState, v string) {
		h.doc.Header.Obsoletes = append(h.doc.Header.Obsoletes, splitRFCList(v)...)
	}},
	{"Updates:", func(h *headerState, v string) {
		h.doc.Header.Updates = append(h.doc.Header.Updates, splitRFCList(v)...)
	}},
	{"Category:", func(h *headerState, v string) {
		h.doc.Header.Category = h.status(v)
	}},
	{"ISSN:", func(h *headerState, v string) {
		h.doc.Header.ISSN = v
	}},
	{"Expires:", func(h *headerState, v string) {
		if d, ok := parseDate(v); ok {
			h.doc.Header.Expires = d
		}
	}},
}

// headerPhase is the progress through the header block, the title and
// the slug line.
type headerPhase int

const (
	phaseStart headerPhase = iota
	phaseHeader
	phaseSlug
	phaseDone
)

// headerState parses the first-page header block, the title and the slug.
type headerState struct {
	doc        *document.ParsedDocument
	normalize  func(string) string
	phase      headerPhase
	lastLine   int
	titleLine  int
	isAbstract func(string) bool
}

// step consumes one non-blank line. It returns false once the header,
// title and slug are complete and the line belongs to the body.
func (h *headerState) step(lineIdx int, line string) bool {
	switch h.phase {
	case phaseStart:
		h.doc.Markers.Header.Start = document.Found(lineIdx)
		left, right := splitColumns(line)
		h.doc.Header.Source = left
		h.applyKey(left)
		if right != "" {
			h.addAuthor(right)
		}
		h.lastLine = lineIdx
		h.phase = phaseHeader
		return true

	case phaseHeader:
		gap := lineIdx - h.lastLine - 1
		left, right := splitColumns(line)
		continues := gap == 0 ||
			(gap == 1 && (authorPattern.MatchString(right) || isHeaderKey(left)))
		if !continues {
			h.closeHeader(lineIdx, line)
			return true
		}
		if gap == 1 && authorPattern.MatchString(right) {
			h.closePreviousOrganization()
		}
		h.applyKey(left)
		h.applyRight(right)
		h.lastLine = lineIdx
		return true

	case phaseSlug:
		trimmed := strings.TrimSpace(line)
		if lineIdx != h.titleLine+1 || h.isAbstract(trimmed) {
			h.phase = phaseDone
			return false
		}
		// Drafts name themselves on the slug line; anything before it
		// is a wrapped title.
		if h.doc.Kind == document.KindDraft && !strings.Contains(trimmed, "draft-") {
			h.doc.Title += " " + trimmed
			h.doc.Markers.Title.End = document.Found(lineIdx)
			h.titleLine = lineIdx
			return true
		}
		h.phase = phaseDone
		h.doc.Slug = trimmed
		h.doc.Markers.Slug = document.LineMarker(lineIdx)
		return true
	}
	return false
}

// finish closes a header that ran to the end of input.
func (h *headerState) finish() {
	if h.phase == phaseHeader {
		h.doc.Markers.Header.End = document.Found(h.lastLine)
		h.doc.Markers.Header.Closed = true
		h.phase = phaseDone
	}
}

func (h *headerState) closeHeader(lineIdx int, line string) {
	h.doc.Markers.Header.End = document.Found(h.lastLine)
	h.doc.Markers.Header.Closed = true
	h.doc.Title = strings.TrimSpace(line)
	h.doc.Markers.Title = document.LineMarker(lineIdx)
	h.titleLine = lineIdx
	h.phase = phaseSlug
}

func (h *headerState) applyKey(left string) {
	for _, key := range headerKeys {
		if strings.HasPrefix(left, key.prefix) {
			key.apply(h, strings.TrimSpace(strings.TrimPrefix(left, key.prefix)))
			return
		}
	}
}

func (h *headerState) applyRight(right string) {
	switch {
	case right == "":
	case authorPattern.MatchString(right):
		h.addAuthor(right)
	default:
		if d, ok := parseDate(right); ok {
			if h.doc.Header.Date == nil {
				h.doc.Header.Date = d
			}
			return
		}
		authors := h.doc.Header.Authors
		if n := len(authors); n > 0 && authors[n-1].Organization == nil {
			org := right
			authors[n-1].Organization = &org
		}
	}
}

func (h *headerState) addAuthor(name string) {
	h.doc.Header.Authors = append(h.doc.Header.Authors, document.Author{Name: name})
}

// closePreviousOrganization records that the author before a blank-line
// separated author had no organization line.
func (h *headerState) closePreviousOrganization() {
	authors := h.doc.Header.Authors
	if n := len(authors); n > 0 && authors[n-1].Organization == nil {
		empty := ""
		authors[n-1].Organization = &empty
	}
}

func (h *headerState) status(raw string) *document.Status {
	return &document.Status{Raw: raw, Name: h.normalize(raw)}
}

func isHeaderKey(left string) bool {
	for _, key := range headerKeys {
		if strings.HasPrefix(left, key.prefix) {
			return true
		}
	}
	return false
}

// splitColumns splits a header line on its first run of two or more spaces.
// A line without such a run is a left column only, unless it is indented,
// in which case it is a right column only.
func splitColumns(line string) (left, right string) {
	line = strings.TrimRight(line, " \t")
	if m := columnPattern.FindStringSubmatch(line); m != nil {
		return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	}
	return strings.TrimSpace(line), ""
}

// splitRFCList splits "5678, 1234 (if approved)" into RFC numbers.
func splitRFCList(v string) []string {
	v = ifApprovedPattern.ReplaceAllString(v, "")
	var out []string
	for _, part := range strings.Split(v, ",") {
		if n := extract.NormalizeRFCNumber(part); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// parseDate parses "DAY? MONTH YEAR" and "MONTH DAY, YEAR" dates.
func parseDate(s string) (*document.Date, bool) {
	s = strings.TrimSpace(s)
	m := datePattern.FindStringSubmatch(s)
	if m == nil {
		return nil, false
	}
	month, ok := parseMonth(m[2])
	if !ok {
		return nil, false
	}

	day := 0
	for _, d := range []string{m[1], m[3]} {
		if d != "" {
			day, _ = strconv.Atoi(d)
		}
	}
	year, _ := strconv.Atoi(m[4])
	if day > 31 {
		return nil, false
	}
	return &document.Date{Day: day, Month: month, Year: year, Raw: s}, true
}

// parseMonth accepts full English month names and their three-letter
// abbreviations, plus "Sept".
func parseMonth(s string) (time.Month, bool) {
	s = strings.ToLower(s)
	if s == "sept" {
		return time.September, true
	}
	for m := time.January; m <= time.December; m++ {
		name := strings.ToLower(m.String())
		if s == name || s == name[:3] {
			return m, true
		}
	}
	return 0, false
}
