package engine

import (
	"math/rand"

	"github.com/tvdberg/partyhub/catalog"
	"github.com/tvdberg/partyhub/game/draw"
)

// NextWord draws one unused word from the pool, keyed by normalized text.
// ok is false when the pool is exhausted; the caller decides whether that
// means "reset explicitly" (word-reveal games never auto-reset).
func NextWord(rng *rand.Rand, pool []string, used *draw.UsedSet) (string, bool) {
	return draw.One(rng, pool, used, catalog.Normalize)
}
