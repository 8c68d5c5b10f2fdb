package extract

// FQDNs returns the domain-name-shaped tokens in line. Version numbers and
// file names are not filtered here; a token like "draft.txt" is returned
// and left to the domain validator.
func (e *Extractor) FQDNs(line string) ([]Match, error) {
	return findAll2(e.fqdnPattern, line)
}
