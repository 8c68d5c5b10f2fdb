package parse

import (
	"github.com/coolbeans/draftcheck/pkg/document"
	"github.com/coolbeans/draftcheck/pkg/extract"
)

// referenceClassifier sorts citation tokens into the reference-section and
// body sets of the document, keeping each value once per set.
type referenceClassifier struct {
	doc *document.ParsedDocument

	bodyRFC   map[string]bool
	bodyDraft map[string]bool
	refRFC    map[string]bool
	refDraft  map[string]bool
}

func newReferenceClassifier(doc *document.ParsedDocument) *referenceClassifier {
	return &referenceClassifier{
		doc:       doc,
		bodyRFC:   make(map[string]bool),
		bodyDraft: make(map[string]bool),
		refRFC:    make(map[string]bool),
		refDraft:  make(map[string]bool),
	}
}

// add records the citations of one line. Inside the References section
// they are tagged with the open sub-section.
func (c *referenceClassifier) add(rfcs, drafts []extract.Match, inReferences bool, sub document.Subsection) {
	el := &c.doc.ExtractedElements

	if !inReferences {
		for _, m := range rfcs {
			if !c.bodyRFC[m.Value] {
				c.bodyRFC[m.Value] = true
				el.NonReferenceSectionRFC = append(el.NonReferenceSectionRFC, m.Value)
			}
		}
		for _, m := range drafts {
			if !c.bodyDraft[m.Value] {
				c.bodyDraft[m.Value] = true
				el.NonReferenceSectionDraftReferences = append(el.NonReferenceSectionDraftReferences, m.Value)
			}
		}
		return
	}

	for _, m := range rfcs {
		if !c.refRFC[m.Value] {
			c.refRFC[m.Value] = true
			el.ReferenceSectionRFC = append(el.ReferenceSectionRFC, document.TaggedReference{Value: m.Value, Subsection: sub})
		}
	}
	for _, m := range drafts {
		if !c.refDraft[m.Value] {
			c.refDraft[m.Value] = true
			el.ReferenceSectionDraftReferences = append(el.ReferenceSectionDraftReferences, document.TaggedReference{Value: m.Value, Subsection: sub})
		}
	}
}
