package draw

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Fingerprint identifies a used-item pool scope: one game plus one category
// selection. Two fingerprints are equal exactly when their Keys are equal;
// the category order of the input does not matter.
type Fingerprint struct {
	Game       string
	Categories []string
}

// NewFingerprint builds a fingerprint over a copy of the category names,
// sorted so that selection order is irrelevant.
func NewFingerprint(game string, categories []string) Fingerprint {
	sorted := make([]string, len(categories))
	copy(sorted, categories)
	sort.Strings(sorted)
	return Fingerprint{Game: game, Categories: sorted}
}

// Key returns the stable map key for this fingerprint: the first 16 hex
// characters of sha256 over "game:cat1,cat2,...".
func (f Fingerprint) Key() string {
	sum := sha256.Sum256([]byte(f.Game + ":" + strings.Join(f.Categories, ",")))
	return hex.EncodeToString(sum[:])[:16]
}
