package validate

// Check IDs reported by the built-in rules.
const (
	CheckSectionMissing = "SECTION_MISSING"
	CheckSectionEmpty   = "SECTION_EMPTY"

	CheckHeaderTitleMissing   = "HEADER_TITLE_MISSING"
	CheckHeaderSlugInvalid    = "HEADER_SLUG_INVALID"
	CheckHeaderExpiresMissing = "HEADER_EXPIRES_MISSING"
	CheckHeaderDateMissing    = "HEADER_DATE_MISSING"
	CheckHeaderStatusUnknown  = "HEADER_STATUS_UNKNOWN"

	CheckKeywordsNoBoilerplate      = "KEYWORDS_NO_BOILERPLATE"
	CheckBoilerplateNoKeywords      = "BOILERPLATE_NO_KEYWORDS"
	CheckBoilerplateSimilar         = "BOILERPLATE_SIMILAR"
	CheckBoilerplate2119NoReference = "BOILERPLATE_2119_NO_REFERENCE"
	CheckBoilerplate8174NoReference = "BOILERPLATE_8174_NO_REFERENCE"
	CheckKeywordUndefined           = "KEYWORD_UNDEFINED"
	CheckKeywordMisspelled          = "KEYWORD_MISSPELLED"
	CheckInlineCodeComment          = "INLINE_CODE_COMMENT"
	CheckFQDNNonExample             = "FQDN_NON_EXAMPLE"
	CheckFQDNInvalid                = "FQDN_INVALID"
	CheckFQDNInvalidTLD             = "FQDN_INVALID_TLD"
	CheckIPv4Invalid                = "IPV4_INVALID"
	CheckIPv4NonDocumentation       = "IPV4_NON_DOCUMENTATION"
	CheckIPv6Invalid                = "IPV6_INVALID"
	CheckIPv6NonDocumentation       = "IPV6_NON_DOCUMENTATION"
	CheckReferenceUndefined         = "REFERENCE_UNDEFINED"
	CheckReferenceUnused            = "REFERENCE_UNUSED"
	CheckObsoletesNotInAbstract     = "OBSOLETES_NOT_IN_ABSTRACT"
	CheckUpdatesNotInAbstract       = "UPDATES_NOT_IN_ABSTRACT"
	CheckReferenceObsoleted         = "REFERENCE_OBSOLETED"
	CheckReferenceNotFound          = "REFERENCE_NOT_FOUND"
	CheckDownref                    = "DOWNREF"
)
