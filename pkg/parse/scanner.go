package parse

import (
	"strings"

	"github.com/coolbeans/draftcheck/pkg/document"
	"github.com/coolbeans/draftcheck/pkg/extract"
	"github.com/coolbeans/draftcheck/pkg/pattern"
)

// ScanState is the state of the single forward pass over a document.
// Step is called once per physical line, in order; Finish closes whatever
// is still open. A ScanState is used for one document only.
type ScanState struct {
	table     *pattern.Table
	extractor *extract.Extractor
	doc       *document.ParsedDocument

	line   int
	header headerState
	refs   *referenceClassifier
	fence  extract.CodeFence

	current    document.Section
	hasCurrent bool
	subsection document.Subsection
	finished   bool
}

// NewScanState returns the state before the first line.
func NewScanState(table *pattern.Table, extractor *extract.Extractor) *ScanState {
	doc := document.New()
	return &ScanState{
		table:     table,
		extractor: extractor,
		doc:       doc,
		header: headerState{
			doc:        doc,
			normalize:  table.NormalizeStatus,
			isAbstract: table.IsAbstract,
		},
		refs: newReferenceClassifier(doc),
	}
}

// Line returns the 1-based index of the last line stepped.
func (s *ScanState) Line() int {
	return s.line
}

// Document returns the document under construction.
func (s *ScanState) Document() *document.ParsedDocument {
	return s.doc
}

// CurrentSection returns the open tracked section, if any.
func (s *ScanState) CurrentSection() (document.Section, bool) {
	return s.current, s.hasCurrent
}

// CurrentSubsection returns the open references sub-section.
func (s *ScanState) CurrentSubsection() document.Subsection {
	return s.subsection
}

// Step consumes one physical line. The only errors come from the
// look-around matchers.
func (s *ScanState) Step(raw string) error {
	s.line++

	line := strings.TrimSuffix(raw, "\r")
	if n := strings.Count(line, "\f"); n > 0 {
		s.doc.PageCount += n
		line = strings.ReplaceAll(line, "\f", "")
	}

	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}

	// Header, title and slug lines belong to no section but are still
	// scanned for lexical elements.
	if s.header.phase != phaseDone && s.header.step(s.line, line) {
		return s.extract(line)
	}

	if s.stepAbstract(line, trimmed) {
		return nil
	}
	s.stepSections(line, trimmed)

	return s.extract(line)
}

// Finish force-closes the open section at the last line and returns the
// document. Further calls return the same document.
func (s *ScanState) Finish() *document.ParsedDocument {
	if !s.finished {
		s.header.finish()
		s.closeCurrent(s.line)
		s.finished = true
	}
	return s.doc
}

func (s *ScanState) stepAbstract(line, trimmed string) bool {
	if s.table.IsAbstract(trimmed) {
		if _, seen := s.doc.Markers.Sections[document.SectionAbstract]; !seen {
			s.closeCurrent(s.line - 1)
			s.open(document.SectionAbstract, trimmed)
			return true
		}
	}

	if s.hasCurrent && s.current == document.SectionAbstract {
		if s.table.IsAbstractEnd(trimmed) || !isIndented(line) {
			s.closeCurrent(s.line - 1)
		}
	}
	return false
}

func (s *ScanState) stepSections(line, trimmed string) {
	if title, ok := s.table.HeaderCandidate(line); ok {
		if s.table.IsTOC(line) {
			return
		}
		s.enterSection(title, trimmed)
		return
	}

	if title, ok := s.table.SubsectionHeader(line); ok && !s.table.IsTOC(line) {
		s.subsection, _ = s.table.MatchSubsection(title)
	}

	s.appendLine(trimmed)
}

// enterSection handles a candidate section header. A tracked section is
// entered at most once; a second header mapping to the open section (a
// separate "Informative References" heading) keeps it open.
func (s *ScanState) enterSection(title, trimmed string) {
	sec, tracked := s.table.MatchSection(title)
	sub, _ := s.table.MatchSubsection(title)

	if tracked && s.hasCurrent && s.current == sec {
		s.subsection = sub
		s.appendLine(trimmed)
		return
	}

	s.closeCurrent(s.line - 1)
	if !tracked {
		return
	}
	if _, seen := s.doc.Markers.Sections[sec]; seen {
		return
	}
	s.open(sec, trimmed)
	s.subsection = sub
}

func (s *ScanState) open(sec document.Section, first string) {
	s.doc.Markers.Sections[sec] = &document.Marker{Start: document.Found(s.line)}
	s.doc.Sections[sec] = []string{first}
	s.current = sec
	s.hasCurrent = true
	s.subsection = document.SubsectionNone
}

// closeCurrent closes the open section with its last line at end.
func (s *ScanState) closeCurrent(end int) {
	if !s.hasCurrent {
		return
	}
	mk := s.doc.Markers.Sections[s.current]
	start, _ := mk.Start.Line()
	if end < start {
		end = start
	}
	mk.End = document.Found(end)
	mk.Closed = true

	s.hasCurrent = false
	s.current = ""
	s.subsection = document.SubsectionNone
}

func (s *ScanState) appendLine(trimmed string) {
	if s.hasCurrent {
		s.doc.Sections[s.current] = append(s.doc.Sections[s.current], trimmed)
	}
}

// extract runs the lexical extractors over a body line.
func (s *ScanState) extract(line string) error {
	e := s.extractor
	el := &s.doc.ExtractedElements
	issues := &s.doc.PossibleIssues

	if m, ok := e.InlineCode(s.fence, line); ok {
		issues.InlineCode = append(issues.InlineCode, document.InlineCode{Line: s.line, Pos: m.Column})
	}
	s.fence = e.Advance(s.fence, line)
	if s.fence.Seen() {
		s.doc.Contains.CodeBlocks = true
	}

	for _, m := range e.Keywords2119(line) {
		el.Keywords2119 = append(el.Keywords2119, document.Keyword{Keyword: m.Value, Line: s.line})
	}
	for _, m := range e.InvalidKeywords(line) {
		issues.Misspelled2119Keywords = append(issues.Misspelled2119Keywords, document.MisspelledKeyword{
			InvalidKeyword: m.Value,
			Line:           s.line,
			Pos:            m.Column,
		})
	}

	fqdns, err := e.FQDNs(line)
	if err != nil {
		return err
	}
	ipv4, err := e.IPv4(line)
	if err != nil {
		return err
	}
	ipv6, err := e.IPv6(line)
	if err != nil {
		return err
	}
	for _, m := range fqdns {
		el.FQDNDomains = append(el.FQDNDomains, m.Value)
	}
	for _, m := range ipv4 {
		el.IPv4 = append(el.IPv4, m.Value)
	}
	for _, m := range ipv6 {
		el.IPv6 = append(el.IPv6, m.Value)
	}

	inReferences := s.hasCurrent && s.current == document.SectionReferences
	s.refs.add(e.RFCCitations(line), e.DraftCitations(line), inReferences, s.subsection)
	return nil
}

func isIndented(line string) bool {
	return strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")
}
