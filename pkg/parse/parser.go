// Package parse builds the structural model of a plain-text Internet-Draft
// or RFC in a single forward pass over its lines.
//
// The pass is driven by a ScanState: the header block, title and slug come
// first, then the abstract and the tracked sections, with every body line
// swept by the lexical extractors. Whole-document passes (boilerplate,
// obsoletes/updates sentences) run over a whitespace-normalized copy.
package parse

import (
	"fmt"
	"strings"
	"sync"

	"github.com/coolbeans/draftcheck/pkg/boilerplate"
	"github.com/coolbeans/draftcheck/pkg/document"
	"github.com/coolbeans/draftcheck/pkg/extract"
	"github.com/coolbeans/draftcheck/pkg/pattern"
)

// ParseError is a failure while scanning a document. Line is the 1-based
// line the scan had reached.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parser parses plain-text documents with one recognizer table. It holds
// no per-document state and may be shared between goroutines.
type Parser struct {
	table     *pattern.Table
	extractor *extract.Extractor
}

// NewParser creates a parser using table, or the built-in table when nil.
func NewParser(table *pattern.Table) *Parser {
	if table == nil {
		table = pattern.Default()
	}
	return &Parser{
		table:     table,
		extractor: extract.NewExtractor(),
	}
}

// Table returns the recognizer table of the parser.
func (p *Parser) Table() *pattern.Table {
	return p.table
}

// Parse parses text into a Result tagged "txt". Either a complete result or
// a *ParseError is returned, never both.
func (p *Parser) Parse(text, filename string) (res *document.Result, err error) {
	state := NewScanState(p.table, p.extractor)

	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = &ParseError{Line: state.Line(), Err: fmt.Errorf("%v", r)}
		}
	}()

	doc := state.Document()
	boilerplate.Apply(p.table, boilerplate.Normalize(text), doc)

	for _, line := range SplitLines(text) {
		if err := state.Step(line); err != nil {
			return nil, &ParseError{Line: state.Line(), Err: err}
		}
	}

	return &document.Result{
		Type:     document.TypeTXT,
		Filename: filename,
		Body:     text,
		Data:     state.Finish(),
	}, nil
}

// Parse parses text with the built-in table.
func Parse(text, filename string) (*document.Result, error) {
	return defaultParser().Parse(text, filename)
}

var defaultParser = sync.OnceValue(func() *Parser {
	return NewParser(nil)
})

// SplitLines splits text into physical lines. A final newline does not
// start another line.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
