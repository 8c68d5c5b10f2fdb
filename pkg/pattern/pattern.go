// Package pattern provides the ordered recognizer tables used to parse
// plain-text Internet-Drafts: section-header candidates, section and
// sub-section recognizers, the table-of-contents detector, the status-name
// table, and the boilerplate fragment tables.
//
// Tables are data. The built-in table is embedded YAML; further tables can
// be loaded from a directory through a Registry. Every list is evaluated
// top to bottom and the first match wins.
package pattern

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/coolbeans/draftcheck/pkg/document"
)

// ErrNotFound is returned when a table ID is not registered.
var ErrNotFound = errors.New("pattern table not found")

// titleGroup is the capture group holding a header's title text.
const titleGroup = "title"

// DefaultMinSimilarFragments is the shortest fragment prefix that counts as
// an attempted boilerplate.
const DefaultMinSimilarFragments = 2

// Table is a complete set of recognizers for one document format.
type Table struct {
	// Metadata
	Name    string `yaml:"name" json:"name"`
	TableID string `yaml:"table_id" json:"table_id"`
	Version string `yaml:"version" json:"version"`

	Structure    StructureConfig   `yaml:"structure" json:"structure"`
	Statuses     []StatusRule      `yaml:"statuses" json:"statuses"`
	Boilerplates []BoilerplateRule `yaml:"boilerplates" json:"boilerplates"`

	compiled *compiledTable
}

// StructureConfig holds the section scanner recognizers.
type StructureConfig struct {
	// HeaderCandidates are matched against the raw line. A match is a
	// candidate section header; the "title" group, when present, is the
	// text tested against Sections.
	HeaderCandidates []Rule `yaml:"header_candidates" json:"header_candidates"`

	// Sections map a header title to a tracked section.
	Sections []SectionRule `yaml:"sections" json:"sections"`

	// SubsectionHeader matches a numbered sub-section header line.
	SubsectionHeader string `yaml:"subsection_header" json:"subsection_header"`

	// Subsections map a sub-section title to a references sub-section.
	Subsections []SubsectionRule `yaml:"subsections" json:"subsections"`

	// TOC matches table-of-contents entries, which never open sections.
	TOC string `yaml:"toc" json:"toc"`

	// Abstract matches the trimmed line opening the abstract.
	Abstract string `yaml:"abstract" json:"abstract"`

	// AbstractEnd matches a trimmed line that closes the abstract.
	AbstractEnd string `yaml:"abstract_end" json:"abstract_end"`
}

// Rule is a named regular expression.
type Rule struct {
	Name    string `yaml:"name" json:"name"`
	Pattern string `yaml:"pattern" json:"pattern"`

	compiled *regexp.Regexp
}

// SectionRule recognizes a tracked section from its title.
type SectionRule struct {
	Section string `yaml:"section" json:"section"`
	Pattern string `yaml:"pattern" json:"pattern"`

	section  document.Section
	compiled *regexp.Regexp
}

// SubsectionRule recognizes a references sub-section from its title.
type SubsectionRule struct {
	Subsection string `yaml:"subsection" json:"subsection"`
	Pattern    string `yaml:"pattern" json:"pattern"`

	compiled *regexp.Regexp
}

// StatusRule normalizes free-text status strings to a canonical name.
type StatusRule struct {
	Name    string `yaml:"name" json:"name"`
	Pattern string `yaml:"pattern" json:"pattern"`

	compiled *regexp.Regexp
}

// BoilerplateRule is one canonical boilerplate text decomposed into
// ordered fragments. Flag names the boilerplate field set when the whole
// text matches ("rfc2119" or "rfc8174").
type BoilerplateRule struct {
	ID                  string   `yaml:"id" json:"id"`
	Flag                string   `yaml:"flag" json:"flag"`
	Fragments           []string `yaml:"fragments" json:"fragments"`
	MinSimilarFragments int      `yaml:"min_similar_fragments,omitempty" json:"min_similar_fragments,omitempty"`

	// prefixes[k] matches the first k+1 fragments in sequence.
	prefixes []*regexp.Regexp
}

type compiledTable struct {
	subsectionHeader *regexp.Regexp
	toc              *regexp.Regexp
	abstract         *regexp.Regexp
	abstractEnd      *regexp.Regexp
}

// Compile compiles all regular expressions of the table.
// Returns an error if any pattern fails to compile.
func (t *Table) Compile() error {
	ct := &compiledTable{}
	var err error

	for i := range t.Structure.HeaderCandidates {
		rule := &t.Structure.HeaderCandidates[i]
		if rule.compiled, err = regexp.Compile(rule.Pattern); err != nil {
			return fmt.Errorf("compiling header candidate %q: %w", rule.Name, err)
		}
	}

	for i := range t.Structure.Sections {
		rule := &t.Structure.Sections[i]
		if rule.section, err = document.ParseSection(rule.Section); err != nil {
			return fmt.Errorf("section rule %d: %w", i, err)
		}
		if rule.compiled, err = regexp.Compile(rule.Pattern); err != nil {
			return fmt.Errorf("compiling section %s pattern: %w", rule.Section, err)
		}
	}

	for i := range t.Structure.Subsections {
		rule := &t.Structure.Subsections[i]
		switch document.Subsection(rule.Subsection) {
		case document.SubsectionNormative, document.SubsectionInformative:
		default:
			return fmt.Errorf("subsection rule %d: unknown subsection %q", i, rule.Subsection)
		}
		if rule.compiled, err = regexp.Compile(rule.Pattern); err != nil {
			return fmt.Errorf("compiling subsection %s pattern: %w", rule.Subsection, err)
		}
	}

	if ct.subsectionHeader, err = compileOptional(t.Structure.SubsectionHeader); err != nil {
		return fmt.Errorf("compiling subsection header pattern: %w", err)
	}
	if ct.toc, err = compileOptional(t.Structure.TOC); err != nil {
		return fmt.Errorf("compiling toc pattern: %w", err)
	}
	if ct.abstract, err = compileOptional(t.Structure.Abstract); err != nil {
		return fmt.Errorf("compiling abstract pattern: %w", err)
	}
	if ct.abstractEnd, err = compileOptional(t.Structure.AbstractEnd); err != nil {
		return fmt.Errorf("compiling abstract end pattern: %w", err)
	}

	for i := range t.Statuses {
		rule := &t.Statuses[i]
		if rule.compiled, err = regexp.Compile(rule.Pattern); err != nil {
			return fmt.Errorf("compiling status %q pattern: %w", rule.Name, err)
		}
	}

	for i := range t.Boilerplates {
		rule := &t.Boilerplates[i]
		rule.prefixes = make([]*regexp.Regexp, 0, len(rule.Fragments))
		for k := range rule.Fragments {
			joined := strings.Join(rule.Fragments[:k+1], `\s*`)
			compiled, err := regexp.Compile(joined)
			if err != nil {
				return fmt.Errorf("compiling boilerplate %s fragment %d: %w", rule.ID, k, err)
			}
			rule.prefixes = append(rule.prefixes, compiled)
		}
	}

	t.compiled = ct
	return nil
}

func compileOptional(expr string) (*regexp.Regexp, error) {
	if expr == "" {
		return nil, nil
	}
	return regexp.Compile(expr)
}

// IsCompiled returns true if the table has been compiled.
func (t *Table) IsCompiled() bool {
	return t.compiled != nil
}

// Validate checks that the table has all required fields.
func (t *Table) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("table name is required")
	}
	if t.TableID == "" {
		return fmt.Errorf("table table_id is required")
	}
	if t.Version == "" {
		return fmt.Errorf("table version is required")
	}
	if len(t.Structure.HeaderCandidates) == 0 {
		return fmt.Errorf("at least one header candidate is needed for section detection")
	}
	for _, rule := range t.Boilerplates {
		switch rule.Flag {
		case "rfc2119", "rfc8174":
		default:
			return fmt.Errorf("boilerplate %s: unknown flag %q", rule.ID, rule.Flag)
		}
		if len(rule.Fragments) == 0 {
			return fmt.Errorf("boilerplate %s: no fragments", rule.ID)
		}
	}
	return nil
}

// HeaderCandidate reports whether line is a candidate section header and
// returns its title text.
func (t *Table) HeaderCandidate(line string) (string, bool) {
	for _, rule := range t.Structure.HeaderCandidates {
		m := rule.compiled.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if idx := rule.compiled.SubexpIndex(titleGroup); idx > 0 && m[idx] != "" {
			return strings.TrimSpace(m[idx]), true
		}
		return strings.TrimSpace(line), true
	}
	return "", false
}

// MatchSection returns the tracked section a header title opens.
func (t *Table) MatchSection(title string) (document.Section, bool) {
	for _, rule := range t.Structure.Sections {
		if rule.compiled.MatchString(title) {
			return rule.section, true
		}
	}
	return "", false
}

// SubsectionHeader reports whether line is a numbered sub-section header
// and returns its title text.
func (t *Table) SubsectionHeader(line string) (string, bool) {
	re := t.compiled.subsectionHeader
	if re == nil {
		return "", false
	}
	m := re.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	if idx := re.SubexpIndex(titleGroup); idx > 0 {
		return strings.TrimSpace(m[idx]), true
	}
	return strings.TrimSpace(line), true
}

// MatchSubsection returns the references sub-section a title opens.
func (t *Table) MatchSubsection(title string) (document.Subsection, bool) {
	for _, rule := range t.Structure.Subsections {
		if rule.compiled.MatchString(title) {
			return document.Subsection(rule.Subsection), true
		}
	}
	return document.SubsectionNone, false
}

// IsTOC reports whether line is a table-of-contents entry.
func (t *Table) IsTOC(line string) bool {
	return t.compiled.toc != nil && t.compiled.toc.MatchString(line)
}

// IsAbstract reports whether a trimmed line opens the abstract.
func (t *Table) IsAbstract(trimmed string) bool {
	return t.compiled.abstract != nil && t.compiled.abstract.MatchString(trimmed)
}

// IsAbstractEnd reports whether a trimmed line closes the abstract.
func (t *Table) IsAbstractEnd(trimmed string) bool {
	return t.compiled.abstractEnd != nil && t.compiled.abstractEnd.MatchString(trimmed)
}

// NormalizeStatus returns the canonical status name for raw, or "" when no
// status rule matches.
func (t *Table) NormalizeStatus(raw string) string {
	for _, rule := range t.Statuses {
		if rule.compiled.MatchString(raw) {
			return rule.Name
		}
	}
	return ""
}

// MatchedPrefix returns the matched text of the longest fragment prefix of
// the boilerplate found in text, and the number of fragments it covers.
func (b *BoilerplateRule) MatchedPrefix(text string) (string, int) {
	for k := len(b.prefixes) - 1; k >= 0; k-- {
		if loc := b.prefixes[k].FindStringIndex(text); loc != nil {
			return text[loc[0]:loc[1]], k + 1
		}
	}
	return "", 0
}

// MinSimilar returns the shortest prefix length counting as a similar match.
func (b *BoilerplateRule) MinSimilar() int {
	if b.MinSimilarFragments > 0 {
		return b.MinSimilarFragments
	}
	return DefaultMinSimilarFragments
}
