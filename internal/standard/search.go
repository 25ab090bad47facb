package standard

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// removeDiacritics removes diacritical marks from a string (e.g., "Türkiye" -> "Turkiye").
func removeDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

func normalizeTerm(s string) string {
	return strings.ToLower(removeDiacritics(strings.TrimSpace(s)))
}

// Search returns standards whose id, name or country contains the query,
// ignoring case and diacritics. An empty query matches everything.
func Search(query string) []PhotoStandard {
	q := normalizeTerm(query)
	if q == "" {
		return All()
	}
	var out []PhotoStandard
	for _, s := range ordered {
		if strings.Contains(normalizeTerm(s.ID), q) ||
			strings.Contains(normalizeTerm(s.Name), q) ||
			strings.Contains(normalizeTerm(s.Country), q) {
			out = append(out, s)
		}
	}
	return out
}
