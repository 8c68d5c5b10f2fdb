package validate

import (
	"strings"
)

func checkKeywords(c *Context) {
	doc := c.Doc()
	bp := doc.Boilerplate
	used := doc.ExtractedElements.Keywords2119
	hasBoilerplate := bp.RFC2119 || bp.RFC8174

	switch {
	case bp.Similar2119Boilerplate:
		c.warnf(CheckBoilerplateSimilar, 0, "RFC 2119 boilerplate text differs from the expected wording")
	case len(used) > 0 && !hasBoilerplate:
		c.warnf(CheckKeywordsNoBoilerplate, used[0].Line, "RFC 2119 keyword %q used without the RFC 2119 or RFC 8174 boilerplate", used[0].Keyword)
	case len(used) == 0 && hasBoilerplate:
		c.warnf(CheckBoilerplateNoKeywords, 0, "RFC 2119 boilerplate present but no keywords are used")
	}

	if hasBoilerplate && !doc.References.RFC2119 {
		c.warnf(CheckBoilerplate2119NoReference, 0, "RFC 2119 boilerplate present but [RFC2119] is never cited")
	}
	if bp.RFC8174 && !doc.References.RFC8174 {
		c.warnf(CheckBoilerplate8174NoReference, 0, "RFC 8174 boilerplate present but [RFC8174] is never cited")
	}

	if hasBoilerplate && len(doc.ExtractedElements.Boilerplate2119Keywords) > 0 {
		asserted := make(map[string]bool, len(doc.ExtractedElements.Boilerplate2119Keywords))
		for _, kw := range doc.ExtractedElements.Boilerplate2119Keywords {
			asserted[strings.Join(strings.Fields(kw), " ")] = true
		}
		reported := make(map[string]bool)
		for _, kw := range used {
			if asserted[kw.Keyword] || reported[kw.Keyword] {
				continue
			}
			reported[kw.Keyword] = true
			c.warnf(CheckKeywordUndefined, kw.Line, "keyword %q is not listed in the boilerplate", kw.Keyword)
		}
	}

	for _, m := range doc.PossibleIssues.Misspelled2119Keywords {
		c.warnf(CheckKeywordMisspelled, m.Line, "%q at column %d is not an RFC 2119 keyword", m.InvalidKeyword, m.Pos)
	}
}

func checkInlineCode(c *Context) {
	for _, ic := range c.Doc().PossibleIssues.InlineCode {
		c.warnf(CheckInlineCodeComment, ic.Line, "code comment marker at column %d outside <CODE BEGINS>/<CODE ENDS>", ic.Pos)
	}
}
