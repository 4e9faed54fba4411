package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lowercases, trims, and strips diacritics from s, producing the
// key used for deduplication and used-item tracking. "Café" and "cafe" map
// to the same key.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	// The transformer chain is stateful, so build one per call; Normalize is
	// invoked from concurrent request handlers.
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// TitleLabel derives a display label from a raw category name, replacing
// underscores and title-casing each word. Used when a catalog file carries
// no explicit label.
func TitleLabel(name string) string {
	words := strings.Fields(strings.ReplaceAll(name, "_", " "))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
