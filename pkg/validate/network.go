package validate

import (
	"net/netip"
	"strings"

	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"
)

// Reserved top-level names (RFC 2606, RFC 6761).
var documentationTLDs = map[string]bool{
	"example":   true,
	"test":      true,
	"invalid":   true,
	"localhost": true,
}

// Reserved second-level names (RFC 2606).
var documentationDomains = []string{
	"example.com",
	"example.net",
	"example.org",
}

// Infrastructure domains cited by every draft (reference URLs, registries).
var infrastructureDomains = []string{
	"ietf.org",
	"rfc-editor.org",
	"iana.org",
	"iab.org",
	"irtf.org",
	"iesg.org",
	"w3.org",
	"doi.org",
	"github.com",
}

// File extensions that look like a final label in "draft-x-00.txt".
var fileExtensions = map[string]bool{
	"txt": true, "xml": true, "html": true, "htm": true, "pdf": true,
	"json": true, "yaml": true, "yml": true, "svg": true, "png": true,
	"cbor": true, "abnf": true,
}

var (
	ipv4Documentation = []netip.Prefix{
		netip.MustParsePrefix("192.0.2.0/24"),    // TEST-NET-1, RFC 5737
		netip.MustParsePrefix("198.51.100.0/24"), // TEST-NET-2
		netip.MustParsePrefix("203.0.113.0/24"),  // TEST-NET-3
		netip.MustParsePrefix("233.252.0.0/24"),  // MCAST-TEST-NET, RFC 6676
	}
	ipv6Documentation = []netip.Prefix{
		netip.MustParsePrefix("2001:db8::/32"), // RFC 3849
		netip.MustParsePrefix("3fff::/20"),     // RFC 9637
	}
)

var domainProfile = idna.New(
	idna.MapForLookup(),
	idna.Transitional(false),
)

func isUnder(name string, domains []string) bool {
	for _, d := range domains {
		if name == d || strings.HasSuffix(name, "."+d) {
			return true
		}
	}
	return false
}

// isDocumentationDomain reports whether name is reserved for documentation.
func isDocumentationDomain(name string) bool {
	labels := strings.Split(name, ".")
	return documentationTLDs[labels[len(labels)-1]] || isUnder(name, documentationDomains)
}

func checkDomains(c *Context) {
	seen := make(map[string]bool)
	for _, raw := range c.Doc().ExtractedElements.FQDNDomains {
		name := strings.ToLower(strings.TrimSuffix(raw, "."))
		if seen[name] {
			continue
		}
		seen[name] = true

		ascii, err := domainProfile.ToASCII(name)
		if err != nil {
			c.warnf(CheckFQDNInvalid, 0, "%q is not a valid domain name: %v", raw, err)
			continue
		}
		if isDocumentationDomain(ascii) || isUnder(ascii, infrastructureDomains) {
			continue
		}

		labels := strings.Split(ascii, ".")
		tld := labels[len(labels)-1]
		if suffix, icann := publicsuffix.PublicSuffix(ascii); !icann && !strings.Contains(suffix, ".") {
			if !fileExtensions[tld] {
				c.warnf(CheckFQDNInvalidTLD, 0, "%q has unknown top-level domain %q", raw, tld)
			}
			continue
		}
		c.warnf(CheckFQDNNonExample, 0, "%q is not a documentation domain (use example.com, example.net, example.org or .example)", raw)
	}
}

// parseAddress parses "addr" or "addr/len".
func parseAddress(s string) (netip.Prefix, error) {
	if strings.Contains(s, "/") {
		p, err := netip.ParsePrefix(s)
		if err != nil {
			return netip.Prefix{}, err
		}
		return p, nil
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Prefix{}, err
	}
	return netip.PrefixFrom(addr, addr.BitLen()), nil
}

// isDocumentationPrefix reports whether p lies inside one of ranges.
// Unspecified and loopback addresses are accepted as well.
func isDocumentationPrefix(p netip.Prefix, ranges []netip.Prefix) bool {
	addr := p.Addr().Unmap()
	if addr.IsUnspecified() || addr.IsLoopback() {
		return true
	}
	if addr.Is4() && p.Addr().Is4In6() {
		bits := p.Bits() - 96
		if bits < 0 {
			return false
		}
		p = netip.PrefixFrom(addr, bits)
		ranges = ipv4Documentation
	}
	for _, r := range ranges {
		if r.Bits() <= p.Bits() && r.Contains(p.Addr()) {
			return true
		}
	}
	return false
}

func checkAddresses(c *Context) {
	el := c.Doc().ExtractedElements

	seen := make(map[string]bool)
	for _, raw := range el.IPv4 {
		if seen[raw] {
			continue
		}
		seen[raw] = true
		p, err := parseAddress(raw)
		if err != nil || !p.Addr().Is4() {
			c.warnf(CheckIPv4Invalid, 0, "%q is not a valid IPv4 address", raw)
			continue
		}
		if !isDocumentationPrefix(p, ipv4Documentation) {
			c.warnf(CheckIPv4NonDocumentation, 0, "%q is outside the IPv4 documentation ranges (RFC 5737)", raw)
		}
	}

	for _, raw := range el.IPv6 {
		if seen[raw] {
			continue
		}
		seen[raw] = true
		p, err := parseAddress(raw)
		if err != nil || !p.Addr().Is6() {
			c.warnf(CheckIPv6Invalid, 0, "%q is not a valid IPv6 address", raw)
			continue
		}
		if !isDocumentationPrefix(p, ipv6Documentation) {
			c.warnf(CheckIPv6NonDocumentation, 0, "%q is outside the IPv6 documentation ranges (RFC 3849, RFC 9637)", raw)
		}
	}
}
