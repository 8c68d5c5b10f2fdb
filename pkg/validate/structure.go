package validate

import (
	"regexp"

	"github.com/coolbeans/draftcheck/pkg/document"
)

// draft-<name parts>-NN
var slugPattern = regexp.MustCompile(`^draft-[a-z0-9]+(?:-[a-z0-9]+)+-\d{2}$`)

// sectionNames are the names used in messages.
var sectionNames = map[document.Section]string{
	document.SectionAbstract:               "Abstract",
	document.SectionIntroduction:           "Introduction",
	document.SectionSecurityConsiderations: "Security Considerations",
	document.SectionAuthorAddress:          "Author's Address",
	document.SectionReferences:             "References",
	document.SectionIANAConsiderations:     "IANA Considerations",
}

func checkHeader(c *Context) {
	doc := c.Doc()

	if doc.Title == "" {
		c.errorf(CheckHeaderTitleMissing, 0, "document title not found after the header block")
	}

	if doc.Header.Date == nil {
		c.warnf(CheckHeaderDateMissing, doc.Markers.Header.Start.Int(), "header carries no publication date")
	}

	if doc.Kind == document.KindDraft {
		switch {
		case doc.Slug == "":
			c.errorf(CheckHeaderSlugInvalid, doc.Markers.Title.Start.Int(), "draft name not found under the title")
		case !slugPattern.MatchString(doc.Slug):
			c.errorf(CheckHeaderSlugInvalid, doc.Markers.Slug.Start.Int(), "draft name %q is not of the form draft-<name>-NN", doc.Slug)
		}
		if doc.Header.Expires == nil {
			c.warnf(CheckHeaderExpiresMissing, doc.Markers.Header.Start.Int(), "Internet-Draft header has no Expires: line")
		}
	}

	for _, st := range []*document.Status{doc.Header.IntendedStatus, doc.Header.Category} {
		if st != nil && st.Name == "" {
			c.warnf(CheckHeaderStatusUnknown, doc.Markers.Header.Start.Int(), "unknown document status %q", st.Raw)
		}
	}
}

// requiredSections returns the sections a document of doc's kind must have.
func requiredSections(doc *document.ParsedDocument) []document.Section {
	required := []document.Section{
		document.SectionAbstract,
		document.SectionIntroduction,
		document.SectionSecurityConsiderations,
		document.SectionAuthorAddress,
	}
	el := doc.ExtractedElements
	if len(el.NonReferenceSectionRFC) > 0 || len(el.NonReferenceSectionDraftReferences) > 0 {
		required = append(required, document.SectionReferences)
	}
	if doc.Kind == document.KindDraft {
		required = append(required, document.SectionIANAConsiderations)
	}
	return required
}

func checkSections(c *Context) {
	doc := c.Doc()

	for _, sec := range requiredSections(doc) {
		if _, ok := doc.Section(sec); !ok {
			c.warnf(CheckSectionMissing, 0, "missing %s section", sectionNames[sec])
		}
	}

	for _, sec := range document.Sections {
		lines, ok := doc.Section(sec)
		if ok && len(lines) <= 1 {
			c.warnf(CheckSectionEmpty, doc.Markers.Section(sec).Start.Int(), "%s section has no content", sectionNames[sec])
		}
	}
}
