package validate

import (
	"strings"

	"github.com/coolbeans/draftcheck/pkg/document"
)

func checkReferences(c *Context) {
	doc := c.Doc()
	if _, ok := doc.Section(document.SectionReferences); !ok {
		return
	}
	el := doc.ExtractedElements
	line := doc.Markers.Section(document.SectionReferences).Start.Int()

	listedRFC := make(map[string]bool)
	for _, ref := range el.ReferenceSectionRFC {
		listedRFC[ref.Value] = true
	}
	listedTags := make(map[string]bool)
	for _, ref := range el.ReferenceSectionDraftReferences {
		listedTags[ref.Value] = true
	}
	citedRFC := make(map[string]bool)
	for _, n := range el.NonReferenceSectionRFC {
		citedRFC[n] = true
	}
	citedTags := make(map[string]bool)
	for _, tag := range el.NonReferenceSectionDraftReferences {
		citedTags[tag] = true
	}

	for _, n := range el.NonReferenceSectionRFC {
		if !listedRFC[n] {
			c.warnf(CheckReferenceUndefined, line, "RFC %s is cited but not listed in the References section", n)
		}
	}
	for _, tag := range el.NonReferenceSectionDraftReferences {
		if !listedTags[tag] {
			c.warnf(CheckReferenceUndefined, line, "[%s] is cited but not listed in the References section", tag)
		}
	}

	for _, ref := range el.ReferenceSectionDraftReferences {
		if !citedTags[ref.Value] {
			c.warnf(CheckReferenceUnused, line, "[%s] is listed in the References section but never cited", ref.Value)
		}
	}
	// An RFC listed under a symbolic tag ("[TLS13] ... RFC 8446") is cited
	// by its tag, which cannot be mapped back to the number.
	if len(el.ReferenceSectionDraftReferences) > 0 && !allDrafts(el.ReferenceSectionDraftReferences) {
		return
	}
	for _, ref := range el.ReferenceSectionRFC {
		if !citedRFC[ref.Value] {
			c.warnf(CheckReferenceUnused, line, "RFC %s is listed in the References section but never cited", ref.Value)
		}
	}
}

// allDrafts reports whether every tag names an Internet-Draft.
func allDrafts(refs []document.TaggedReference) bool {
	for _, ref := range refs {
		if !isDraftTag(ref.Value) {
			return false
		}
	}
	return true
}

func isDraftTag(tag string) bool {
	return strings.HasPrefix(tag, "I-D.") || strings.HasPrefix(tag, "draft-")
}

func checkObsoletesUpdates(c *Context) {
	doc := c.Doc()
	abstract, _ := doc.Section(document.SectionAbstract)

	inAbstract := make(map[string]bool)
	for _, line := range abstract {
		for _, n := range c.extractor.RFCCitations(line) {
			inAbstract[n.Value] = true
		}
	}

	headerLine := doc.Markers.Header.Start.Int()
	for _, n := range doc.Header.Obsoletes {
		if !inAbstract[n] {
			c.warnf(CheckObsoletesNotInAbstract, headerLine, "header obsoletes RFC %s but the Abstract does not mention it", n)
		}
	}
	for _, n := range doc.Header.Updates {
		if !inAbstract[n] {
			c.warnf(CheckUpdatesNotInAbstract, headerLine, "header updates RFC %s but the Abstract does not mention it", n)
		}
	}
}
