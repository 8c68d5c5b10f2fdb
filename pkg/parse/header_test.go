package parse

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coolbeans/draftcheck/pkg/document"
)

func parseText(t *testing.T, lines ...string) *document.ParsedDocument {
	t.Helper()
	res, err := Parse(strings.Join(lines, "\n"), "test.txt")
	require.NoError(t, err)
	return res.Data
}

func TestHeaderTwoColumnSplit(t *testing.T) {
	doc := parseText(t,
		"idr                    Z. Zhang",
		"Internet-Draft                                         Juniper",
		"Obsoletes: 5678, 1234                                       ",
		"",
		"",
		"Title Line",
	)

	assert.Equal(t, "idr", doc.Header.Source)
	require.NotEmpty(t, doc.Header.Authors)
	assert.Equal(t, "Z. Zhang", doc.Header.Authors[0].Name)
	assert.Equal(t, []string{"5678", "1234"}, doc.Header.Obsoletes)
	assert.Equal(t, "Title Line", doc.Title)
}

func TestHeaderAuthorBlocks(t *testing.T) {
	doc := parseText(t,
		"Network Working Group                                   A. Alpha",
		"Internet-Draft                                             Org A",
		"Intended status: Informational                            B. Beta",
		"",
		"Expires: 8 June 2025                                    C. Gamma",
		"                                                           Org C",
		"                                                   5 December 2024",
		"",
		"",
		"                           A Title",
	)

	require.Len(t, doc.Header.Authors, 3)
	assert.Equal(t, "Org A", *doc.Header.Authors[0].Organization)
	require.NotNil(t, doc.Header.Authors[1].Organization)
	assert.Equal(t, "", *doc.Header.Authors[1].Organization)
	assert.Equal(t, "Org C", *doc.Header.Authors[2].Organization)

	assert.Equal(t, "Informational", doc.Header.IntendedStatus.Name)
	assert.Equal(t, &document.Date{Day: 8, Month: time.June, Year: 2025, Raw: "8 June 2025"}, doc.Header.Expires)
	assert.Equal(t, &document.Date{Day: 5, Month: time.December, Year: 2024, Raw: "5 December 2024"}, doc.Header.Date)
	assert.Equal(t, "A Title", doc.Title)
	assert.Equal(t, document.Found(7), doc.Markers.Header.End)
	assert.Equal(t, document.LineMarker(10), doc.Markers.Title)
}

func TestHeaderAdjacentAuthors(t *testing.T) {
	doc := parseText(t,
		"Network Working Group                                    J. Doe",
		"Internet-Draft                                         A. Smith",
		"Intended status: Informational                     Example Corp",
		"",
		"",
		"                           A Title",
	)

	require.Len(t, doc.Header.Authors, 2)
	assert.Nil(t, doc.Header.Authors[0].Organization)
	require.NotNil(t, doc.Header.Authors[1].Organization)
	assert.Equal(t, "Example Corp", *doc.Header.Authors[1].Organization)
}

func TestHeaderSingleBlankLineBeforeTitle(t *testing.T) {
	doc := parseText(t,
		"Network Working Group                                   A. Alpha",
		"Internet-Draft                                             Org A",
		"",
		"                     Short Title",
		"                     draft-alpha-short-00",
	)

	assert.Equal(t, "Short Title", doc.Title)
	assert.Equal(t, document.LineMarker(4), doc.Markers.Title)
	assert.Equal(t, "draft-alpha-short-00", doc.Slug)
}

func TestHeaderWrappedDraftTitle(t *testing.T) {
	doc := parseText(t,
		"Network Working Group                                   A. Alpha",
		"Internet-Draft                                             Org A",
		"",
		"",
		"              A Rather Long Title That Needs",
		"                  Two Lines To Fit",
		"                  draft-alpha-long-title-03",
	)

	assert.Equal(t, "A Rather Long Title That Needs Two Lines To Fit", doc.Title)
	assert.Equal(t, document.Marker{Start: document.Found(5), End: document.Found(6), Closed: true}, doc.Markers.Title)
	assert.Equal(t, "draft-alpha-long-title-03", doc.Slug)
	assert.Equal(t, document.LineMarker(7), doc.Markers.Slug)
}

func TestHeaderRFC(t *testing.T) {
	doc := parseText(t,
		"Internet Engineering Task Force (IETF)                  A. Alpha",
		"Request for Comments: 9999                                 Org A",
		"Updates: 1234, 5678 (if approved)                      March 2025",
		"Category: Standards Track",
		"ISSN: 2070-1721",
		"",
		"",
		"                          An RFC Title",
		"",
		"Abstract",
		"",
		"   Text.",
	)

	assert.Equal(t, document.KindRFC, doc.Kind)
	assert.Equal(t, "9999", doc.Header.RFCNumber)
	assert.Equal(t, []string{"1234", "5678"}, doc.Header.Updates)
	assert.Equal(t, "Proposed Standard", doc.Header.Category.Name)
	assert.Equal(t, "2070-1721", doc.Header.ISSN)
	assert.Equal(t, "", doc.Slug)
	assert.False(t, doc.Markers.Slug.Start.IsFound())
	assert.False(t, doc.Markers.Slug.Closed)
	assert.Equal(t, document.Found(10), doc.Markers.Section(document.SectionAbstract).Start)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want *document.Date
	}{
		{"March 2024", &document.Date{Month: time.March, Year: 2024, Raw: "March 2024"}},
		{"4 March 2024", &document.Date{Day: 4, Month: time.March, Year: 2024, Raw: "4 March 2024"}},
		{"March 4, 2024", &document.Date{Day: 4, Month: time.March, Year: 2024, Raw: "March 4, 2024"}},
		{"Sept. 2023", &document.Date{Month: time.September, Year: 2023, Raw: "Sept. 2023"}},
		{"May 2025", &document.Date{Month: time.May, Year: 2025, Raw: "May 2025"}},
		{"Dec. 1, 2024", &document.Date{Day: 1, Month: time.December, Year: 2024, Raw: "Dec. 1, 2024"}},
		{"Ma 2024", nil},
		{"Smarch 2024", nil},
		{"Example Corp", nil},
		{"40 March 2024", nil},
	}

	for _, tt := range tests {
		got, ok := parseDate(tt.in)
		if tt.want == nil {
			assert.False(t, ok, "parseDate(%q)", tt.in)
			continue
		}
		require.True(t, ok, "parseDate(%q)", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestSplitColumns(t *testing.T) {
	tests := []struct {
		line        string
		left, right string
	}{
		{"idr                    Z. Zhang", "idr", "Z. Zhang"},
		{"Intended status: Standards Track   Org", "Intended status: Standards Track", "Org"},
		{"                               Huawei", "", "Huawei"},
		{"Category: Informational", "Category: Informational", ""},
	}
	for _, tt := range tests {
		left, right := splitColumns(tt.line)
		assert.Equal(t, tt.left, left, "left of %q", tt.line)
		assert.Equal(t, tt.right, right, "right of %q", tt.line)
	}
}
