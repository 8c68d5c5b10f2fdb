package extract

import "strings"

// IPv4 returns dotted-quad tokens in line, with an optional prefix length.
// Octet and prefix ranges are not checked.
func (e *Extractor) IPv4(line string) ([]Match, error) {
	return findAll2(e.ipv4Pattern, line)
}

// IPv6 returns colon-separated address tokens in line. Candidates without
// a "::" that are only made of decimal groups, such as clock times
// ("10:30:00"), are dropped. Anything else address-shaped is kept for the
// validator even when it does not parse, including the bare "::".
func (e *Extractor) IPv6(line string) ([]Match, error) {
	candidates, err := findAll2(e.ipv6Pattern, line)
	if err != nil {
		return nil, err
	}

	matches := candidates[:0]
	for _, m := range candidates {
		if looksLikeIPv6(m.Value) {
			matches = append(matches, m)
		}
	}
	return matches, nil
}

func looksLikeIPv6(s string) bool {
	addr, _, _ := strings.Cut(s, "/")
	if strings.Contains(addr, "::") {
		return true
	}
	if !strings.ContainsAny(addr, "0123456789abcdefABCDEF") {
		return false
	}
	if strings.Count(addr, ":") == 7 {
		return true
	}
	return strings.ContainsAny(addr, "abcdefABCDEF")
}
