package parse

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coolbeans/draftcheck/pkg/document"
	"github.com/coolbeans/draftcheck/pkg/extract"
	"github.com/coolbeans/draftcheck/pkg/pattern"
)

func loadSample(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "draft-doe-example-protocol-00.txt"))
	require.NoError(t, err)
	return string(data)
}

func parseSample(t *testing.T) *document.ParsedDocument {
	t.Helper()
	res, err := Parse(loadSample(t), "draft-doe-example-protocol-00.txt")
	require.NoError(t, err)
	require.NotNil(t, res)
	return res.Data
}

func TestParseResultEnvelope(t *testing.T) {
	text := loadSample(t)
	res, err := Parse(text, "sample.txt")
	require.NoError(t, err)

	assert.Equal(t, document.TypeTXT, res.Type)
	assert.Equal(t, "sample.txt", res.Filename)
	assert.Equal(t, text, res.Body)
}

func TestParseHeader(t *testing.T) {
	doc := parseSample(t)

	assert.Equal(t, document.KindDraft, doc.Kind)
	assert.Equal(t, "Network Working Group", doc.Header.Source)
	require.Len(t, doc.Header.Authors, 2)
	assert.Equal(t, "J. Doe", doc.Header.Authors[0].Name)
	require.NotNil(t, doc.Header.Authors[0].Organization)
	assert.Equal(t, "Example Corp", *doc.Header.Authors[0].Organization)
	assert.Equal(t, "A. Smith", doc.Header.Authors[1].Name)
	assert.Nil(t, doc.Header.Authors[1].Organization)

	require.NotNil(t, doc.Header.IntendedStatus)
	assert.Equal(t, "Standards Track", doc.Header.IntendedStatus.Raw)
	assert.Equal(t, "Proposed Standard", doc.Header.IntendedStatus.Name)

	require.NotNil(t, doc.Header.Expires)
	assert.Equal(t, document.Date{Day: 5, Month: time.September, Year: 2024, Raw: "September 5, 2024"}, *doc.Header.Expires)
	require.NotNil(t, doc.Header.Date)
	assert.Equal(t, time.March, doc.Header.Date.Month)

	assert.Equal(t, document.Marker{Start: document.Found(1), End: document.Found(4), Closed: true}, doc.Markers.Header)
	assert.Equal(t, "The Example Protocol", doc.Title)
	assert.Equal(t, document.LineMarker(7), doc.Markers.Title)
	assert.Equal(t, "draft-doe-example-protocol-00", doc.Slug)
	assert.Equal(t, document.LineMarker(8), doc.Markers.Slug)
}

func TestParseSections(t *testing.T) {
	doc := parseSample(t)

	tests := []struct {
		section document.Section
		start   int
		end     int
	}{
		{document.SectionAbstract, 10, 14},
		{document.SectionIntroduction, 24, 36},
		{document.SectionSecurityConsiderations, 37, 40},
		{document.SectionIANAConsiderations, 41, 44},
		{document.SectionReferences, 45, 59},
		{document.SectionAuthorAddress, 60, 64},
	}

	for _, tt := range tests {
		t.Run(string(tt.section), func(t *testing.T) {
			mk := doc.Markers.Section(tt.section)
			assert.Equal(t, document.Found(tt.start), mk.Start)
			assert.Equal(t, document.Found(tt.end), mk.End)
			assert.True(t, mk.Closed)
			_, ok := doc.Section(tt.section)
			assert.True(t, ok)
		})
	}

	abstract, _ := doc.Section(document.SectionAbstract)
	assert.Equal(t, []string{
		"Abstract",
		"This document describes the Example Protocol.  This document",
		"updates RFC 8446.",
	}, abstract)

	security, _ := doc.Section(document.SectionSecurityConsiderations)
	assert.Equal(t, []string{
		"2.  Security Considerations",
		"Servers SHOULD NOT log secrets.  See [I-D.ietf-tls-esni].",
	}, security)
}

func TestParseExtractedElements(t *testing.T) {
	doc := parseSample(t)
	el := doc.ExtractedElements

	assert.Equal(t, []string{"8446", "2119", "8174"}, el.NonReferenceSectionRFC)
	assert.Equal(t, []document.TaggedReference{
		{Value: "2119", Subsection: document.SubsectionNormative},
		{Value: "8174", Subsection: document.SubsectionNormative},
		{Value: "8446", Subsection: document.SubsectionNormative},
	}, el.ReferenceSectionRFC)
	assert.Equal(t, []string{"I-D.ietf-tls-esni"}, el.NonReferenceSectionDraftReferences)
	assert.Equal(t, []document.TaggedReference{
		{Value: "I-D.ietf-tls-esni", Subsection: document.SubsectionInformative},
	}, el.ReferenceSectionDraftReferences)

	assert.Equal(t, []document.Keyword{
		{Keyword: "MUST", Line: 27},
		{Keyword: "SHOULD NOT", Line: 39},
	}, el.Keywords2119)
	assert.Contains(t, el.FQDNDomains, "www.example.com")
	assert.Contains(t, el.FQDNDomains, "example.com")
	assert.Equal(t, []string{"192.0.2.1"}, el.IPv4)
	assert.Empty(t, el.IPv6)
	assert.Equal(t, []string{"8446"}, el.UpdatesRFC)
	assert.Empty(t, el.ObsoletesRFC)

	assert.True(t, doc.Boilerplate.RFC8174)
	assert.False(t, doc.Boilerplate.Similar2119Boilerplate)
	assert.True(t, doc.References.RFC2119)
	assert.True(t, doc.References.RFC8174)
	assert.Equal(t, 1, doc.PageCount)
}

func TestParseIsIdempotent(t *testing.T) {
	text := loadSample(t)
	first, err := Parse(text, "a.txt")
	require.NoError(t, err)
	second, err := Parse(text, "a.txt")
	require.NoError(t, err)

	assert.Equal(t, first.Data, second.Data)
}

func TestParsePageCount(t *testing.T) {
	res, err := Parse("Abstract\n\f\n   text\f\n", "pages.txt")
	require.NoError(t, err)
	assert.Equal(t, 3, res.Data.PageCount)
}

func TestParseEmpty(t *testing.T) {
	res, err := Parse("", "empty.txt")
	require.NoError(t, err)

	doc := res.Data
	assert.Equal(t, document.KindUnknown, doc.Kind)
	assert.False(t, doc.Markers.Header.Start.IsFound())
	for _, sec := range document.Sections {
		_, ok := doc.Section(sec)
		assert.False(t, ok, "section %s", sec)
	}
}

func TestParseErrorCarriesLine(t *testing.T) {
	table := pattern.Default()
	p := &Parser{table: table, extractor: extract.NewExtractorWithTimeout(time.Nanosecond)}

	lines := []string{"", "", "", "", ""}
	lines = append(lines, strings.Repeat("a-b.", 5000)+"!")
	_, err := p.Parse(strings.Join(lines, "\n"), "slow.txt")
	if err == nil {
		t.Skip("match finished before the timeout fired")
	}

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 6, perr.Line)
	assert.Contains(t, perr.Error(), "line 6: ")
}

func TestParseErrorFromPanic(t *testing.T) {
	p := &Parser{table: pattern.Default()}

	res, err := p.Parse("\n\nNetwork Working Group     J. Doe\n\n\nTitle\n", "nil.txt")
	assert.Nil(t, res)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 3, perr.Line)
}

func TestSplitLines(t *testing.T) {
	assert.Nil(t, SplitLines(""))
	assert.Equal(t, []string{"a", "b"}, SplitLines("a\nb\n"))
	assert.Equal(t, []string{"a", "", "b"}, SplitLines("a\n\nb"))
	assert.Equal(t, []string{""}, SplitLines("\n"))
}
