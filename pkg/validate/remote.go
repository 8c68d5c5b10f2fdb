package validate

import (
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/coolbeans/draftcheck/pkg/document"
	"github.com/coolbeans/draftcheck/pkg/lookup"
)

// maturity ranks document statuses for downref detection. Unknown
// statuses rank lowest.
var maturity = map[string]int{
	"internet standard":     4,
	"draft standard":        3,
	"proposed standard":     2,
	"best current practice": 2,
}

func maturityOf(status string) int {
	if m, ok := maturity[strings.ToLower(strings.TrimSpace(status))]; ok {
		return m
	}
	return 1
}

// documentStatus returns the normalized status of the document.
func documentStatus(doc *document.ParsedDocument) string {
	for _, st := range []*document.Status{doc.Header.IntendedStatus, doc.Header.Category} {
		if st != nil && st.Name != "" {
			return st.Name
		}
	}
	return ""
}

func checkReferenceStatus(c *Context) {
	doc := c.Doc()
	line := doc.Markers.Section(document.SectionReferences).Start.Int()

	for _, ref := range doc.ExtractedElements.ReferenceSectionRFC {
		info, err := c.Lookup.RFC(c.Ctx, ref.Value)
		switch {
		case errors.Is(err, lookup.ErrNotFound):
			c.warnf(CheckReferenceNotFound, line, "RFC %s does not exist", ref.Value)
			continue
		case err != nil:
			log.Warn().Err(err).Str("rfc", ref.Value).Msg("RFC lookup failed")
			continue
		}
		if len(info.ObsoletedBy) > 0 {
			c.warnf(CheckReferenceObsoleted, line, "RFC %s is obsoleted by RFC %s", ref.Value, strings.Join(info.ObsoletedBy, ", RFC "))
		}
	}

	for _, ref := range doc.ExtractedElements.ReferenceSectionDraftReferences {
		if !isDraftTag(ref.Value) {
			continue
		}
		if _, err := c.Lookup.Draft(c.Ctx, ref.Value); err != nil {
			if errors.Is(err, lookup.ErrNotFound) {
				c.warnf(CheckReferenceNotFound, line, "Internet-Draft [%s] does not exist", ref.Value)
				continue
			}
			log.Warn().Err(err).Str("draft", ref.Value).Msg("draft lookup failed")
		}
	}
}

func checkDownrefs(c *Context) {
	doc := c.Doc()
	level := maturityOf(documentStatus(doc))
	if level < maturity["proposed standard"] {
		return
	}
	line := doc.Markers.Section(document.SectionReferences).Start.Int()

	var candidates []string
	statuses := make(map[string]string)
	for _, ref := range doc.ExtractedElements.ReferenceSectionRFC {
		if ref.Subsection != document.SubsectionNormative {
			continue
		}
		info, err := c.Lookup.RFC(c.Ctx, ref.Value)
		if err != nil {
			continue
		}
		if maturityOf(info.Status) < level {
			candidates = append(candidates, ref.Value)
			statuses[ref.Value] = info.Status
		}
	}
	if len(candidates) == 0 {
		return
	}

	registered, err := c.Lookup.Downrefs(c.Ctx, candidates)
	if err != nil {
		log.Warn().Err(err).Msg("downref registry lookup failed")
		return
	}
	allowed := make(map[string]bool, len(registered))
	for _, n := range registered {
		allowed[n] = true
	}
	for _, n := range candidates {
		if !allowed[n] {
			c.warnf(CheckDownref, line, "normative reference to RFC %s (%s) is a downref not listed in the downref registry", n, statuses[n])
		}
	}
}
