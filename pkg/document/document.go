// Package document defines the structural model produced by parsing an
// Internet-Draft or RFC. Validators consume it read-only.
package document

import (
	"encoding/json"
	"fmt"
	"time"
)

// Kind is the document kind inferred from the header tokens.
type Kind string

const (
	KindDraft   Kind = "draft"
	KindRFC     Kind = "rfc"
	KindUnknown Kind = "unknown"
)

// TypeTXT is the document-type discriminator of results built from plain text.
const TypeTXT = "txt"

// Section identifies a tracked top-level section.
type Section string

const (
	SectionAbstract               Section = "abstract"
	SectionIntroduction           Section = "introduction"
	SectionSecurityConsiderations Section = "securityConsiderations"
	SectionAuthorAddress          Section = "authorAddress"
	SectionReferences             Section = "references"
	SectionIANAConsiderations     Section = "ianaConsiderations"
)

// Sections lists the tracked sections in document order.
var Sections = []Section{
	SectionAbstract,
	SectionIntroduction,
	SectionSecurityConsiderations,
	SectionAuthorAddress,
	SectionReferences,
	SectionIANAConsiderations,
}

// ParseSection returns the Section named s.
func ParseSection(s string) (Section, error) {
	for _, sec := range Sections {
		if string(sec) == s {
			return sec, nil
		}
	}
	return "", fmt.Errorf("unknown section %q", s)
}

// Subsection identifies a references sub-section.
type Subsection string

const (
	SubsectionNone        Subsection = ""
	SubsectionNormative   Subsection = "normative_references"
	SubsectionInformative Subsection = "informative_references"
)

// Position is a 1-based line number that may be absent.
// The zero value is NotFound.
type Position struct {
	line  int
	found bool
}

// NotFound is the absent position.
var NotFound = Position{}

// Found returns the position of line.
func Found(line int) Position {
	return Position{line: line, found: true}
}

// Line returns the line number and whether the position was found.
func (p Position) Line() (int, bool) {
	return p.line, p.found
}

// IsFound reports whether the position holds a line.
func (p Position) IsFound() bool {
	return p.found
}

// Int returns the line number, or 0 when not found.
func (p Position) Int() int {
	if !p.found {
		return 0
	}
	return p.line
}

// MarshalJSON encodes the position as its line number, 0 meaning not found.
func (p Position) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Int())
}

// UnmarshalJSON decodes a line number, treating 0 as not found.
func (p *Position) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if n <= 0 {
		*p = NotFound
		return nil
	}
	*p = Found(n)
	return nil
}

// Marker records the extent of a section.
type Marker struct {
	Start  Position `json:"start"`
	End    Position `json:"end"`
	Closed bool     `json:"closed"`
}

// LineMarker returns the closed marker of a block made of one line.
func LineMarker(line int) Marker {
	return Marker{Start: Found(line), End: Found(line), Closed: true}
}

// Markers holds the markers of the header, title, slug and tracked sections.
// The title marker spans every line of a wrapped title.
type Markers struct {
	Header   Marker              `json:"header"`
	Title    Marker              `json:"title"`
	Slug     Marker              `json:"slug"`
	Sections map[Section]*Marker `json:"sections"`
}

// Section returns the marker of sec. A section that was never entered has a
// marker with a NotFound start.
func (m *Markers) Section(sec Section) Marker {
	if mk, ok := m.Sections[sec]; ok && mk != nil {
		return *mk
	}
	return Marker{}
}

// Author is one entry of the header author block.
// Organization is nil when no organization line was seen, and points to an
// empty string when the author block was explicitly closed without one.
type Author struct {
	Name         string  `json:"name"`
	Organization *string `json:"organization,omitempty"`
}

// Date is a header date. Day is 0 when the date carries no day.
type Date struct {
	Day   int        `json:"day,omitempty"`
	Month time.Month `json:"month"`
	Year  int        `json:"year"`
	Raw   string     `json:"raw"`
}

// Time returns the date at midnight UTC, using the first of the month when
// no day was given.
func (d Date) Time() time.Time {
	day := d.Day
	if day == 0 {
		day = 1
	}
	return time.Date(d.Year, d.Month, day, 0, 0, 0, 0, time.UTC)
}

// Status is a document status as written and as normalized by the status table.
type Status struct {
	Raw  string `json:"raw"`
	Name string `json:"name,omitempty"`
}

// Header holds the first-page metadata block.
type Header struct {
	Source         string   `json:"source"`
	Authors        []Author `json:"authors"`
	Date           *Date    `json:"date,omitempty"`
	Expires        *Date    `json:"expires,omitempty"`
	IntendedStatus *Status  `json:"intendedStatus,omitempty"`
	Category       *Status  `json:"category,omitempty"`
	ISSN           string   `json:"issn,omitempty"`
	Obsoletes      []string `json:"obsoletes,omitempty"`
	Updates        []string `json:"updates,omitempty"`
	RFCNumber      string   `json:"rfcNumber,omitempty"`
}

// Keyword is an RFC 2119 keyword occurrence.
type Keyword struct {
	Keyword string `json:"keyword"`
	Line    int    `json:"line"`
}

// TaggedReference is a citation found inside the References section.
type TaggedReference struct {
	Value      string     `json:"value"`
	Subsection Subsection `json:"subsection,omitempty"`
}

// ExtractedElements holds lexical elements found anywhere in the body.
type ExtractedElements struct {
	FQDNDomains                        []string          `json:"fqdnDomains"`
	IPv4                               []string          `json:"ipv4"`
	IPv6                               []string          `json:"ipv6"`
	Keywords2119                       []Keyword         `json:"keywords2119"`
	Boilerplate2119Keywords            []string          `json:"boilerplate2119Keywords"`
	ObsoletesRFC                       []string          `json:"obsoletesRfc"`
	UpdatesRFC                         []string          `json:"updatesRfc"`
	NonReferenceSectionRFC             []string          `json:"nonReferenceSectionRfc"`
	ReferenceSectionRFC                []TaggedReference `json:"referenceSectionRfc"`
	NonReferenceSectionDraftReferences []string          `json:"nonReferenceSectionDraftReferences"`
	ReferenceSectionDraftReferences    []TaggedReference `json:"referenceSectionDraftReferences"`
}

// InlineCode is a possible stray code comment outside a code fence.
type InlineCode struct {
	Line int `json:"line"`
	Pos  int `json:"pos"`
}

// MisspelledKeyword is a malformed RFC 2119 keyword combination.
type MisspelledKeyword struct {
	InvalidKeyword string `json:"invalidKeyword"`
	Line           int    `json:"line"`
	Pos            int    `json:"pos"`
}

// PossibleIssues holds findings the scanner records as data.
type PossibleIssues struct {
	InlineCode             []InlineCode        `json:"inlineCode"`
	Misspelled2119Keywords []MisspelledKeyword `json:"misspeled2119Keywords"`
}

// Boilerplate records which RFC 2119 interpretation paragraphs were found.
type Boilerplate struct {
	RFC2119                bool `json:"rfc2119"`
	RFC8174                bool `json:"rfc8174"`
	Similar2119Boilerplate bool `json:"similar2119boilerplate"`
}

// References records whether [RFC2119]/[RFC8174] citation tokens appear.
type References struct {
	RFC2119 bool `json:"rfc2119"`
	RFC8174 bool `json:"rfc8174"`
}

// Contains records content flags derived from whole-document passes.
type Contains struct {
	CodeBlocks        bool `json:"codeBlocks"`
	RevisedBSDLicense bool `json:"revisedBsdLicense"`
}

// ParsedDocument is the structural model of one parsed document.
type ParsedDocument struct {
	Kind              Kind                 `json:"kind"`
	PageCount         int                  `json:"pageCount"`
	Header            Header               `json:"header"`
	Title             string               `json:"title"`
	Slug              string               `json:"slug"`
	Sections          map[Section][]string `json:"sections"`
	Markers           Markers              `json:"markers"`
	ExtractedElements ExtractedElements    `json:"extractedElements"`
	PossibleIssues    PossibleIssues       `json:"possibleIssues"`
	Boilerplate       Boilerplate          `json:"boilerplate"`
	References        References           `json:"references"`
	Contains          Contains             `json:"contains"`
}

// New returns an empty document with non-nil collections.
func New() *ParsedDocument {
	return &ParsedDocument{
		Kind:      KindUnknown,
		PageCount: 1,
		Header:    Header{Authors: []Author{}},
		Sections:  make(map[Section][]string),
		Markers:   Markers{Sections: make(map[Section]*Marker)},
		ExtractedElements: ExtractedElements{
			FQDNDomains:                        []string{},
			IPv4:                               []string{},
			IPv6:                               []string{},
			Keywords2119:                       []Keyword{},
			Boilerplate2119Keywords:            []string{},
			ObsoletesRFC:                       []string{},
			UpdatesRFC:                         []string{},
			NonReferenceSectionRFC:             []string{},
			ReferenceSectionRFC:                []TaggedReference{},
			NonReferenceSectionDraftReferences: []string{},
			ReferenceSectionDraftReferences:    []TaggedReference{},
		},
		PossibleIssues: PossibleIssues{
			InlineCode:             []InlineCode{},
			Misspelled2119Keywords: []MisspelledKeyword{},
		},
	}
}

// Section returns the content lines of sec and whether the section was seen.
func (d *ParsedDocument) Section(sec Section) ([]string, bool) {
	lines, ok := d.Sections[sec]
	return lines, ok
}

// Result is the parse output for one input, tagged with its document type.
type Result struct {
	Type     string          `json:"type"`
	Filename string          `json:"filename"`
	Body     string          `json:"-"`
	Data     *ParsedDocument `json:"data"`
}
