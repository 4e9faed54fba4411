package engine

import (
	"math/rand"

	"github.com/tvdberg/partyhub/catalog"
	"github.com/tvdberg/partyhub/game/draw"
)

// ThisOrThat walks a shuffled dilemma deck. Reset reshuffles from scratch.
type ThisOrThat struct {
	Order []int
	Idx   int
}

// NewThisOrThat shuffles a play order over the dilemma deck.
func NewThisOrThat(rng *rand.Rand, deckLen int) (*ThisOrThat, error) {
	if deckLen == 0 {
		return nil, ErrNoCurrentItem
	}
	return &ThisOrThat{Order: draw.Perm(rng, deckLen)}, nil
}

// Next returns the next dilemma. ok is false once the deck is exhausted.
func (tt *ThisOrThat) Next(deck []catalog.Dilemma) (catalog.Dilemma, bool) {
	if tt.Idx >= len(tt.Order) {
		return catalog.Dilemma{}, false
	}
	d := deck[tt.Order[tt.Idx]]
	tt.Idx++
	return d, true
}

// Reset reshuffles the deck and rewinds the walk.
func (tt *ThisOrThat) Reset(rng *rand.Rand) {
	tt.Order = draw.Perm(rng, len(tt.Order))
	tt.Idx = 0
}
