package engine

import (
	"math/rand"

	"github.com/tvdberg/partyhub/game/draw"
)

// WhoAmI deals a shuffled walk over the selected person lists. Every person
// appears exactly once; past the end the walk is exhausted until restarted.
type WhoAmI struct {
	Persons    []string
	Categories []string
	Idx        int
}

// NewWhoAmI shuffles the union of the selected categories' persons into a
// fixed play order.
func NewWhoAmI(rng *rand.Rand, persons map[string][]string, categories []string) (*WhoAmI, error) {
	var pool []string
	for _, cat := range categories {
		pool = append(pool, persons[cat]...)
	}
	if len(pool) == 0 {
		return nil, ErrNoCurrentItem
	}

	shuffled := make([]string, len(pool))
	for i, j := range draw.Perm(rng, len(pool)) {
		shuffled[i] = pool[j]
	}
	return &WhoAmI{Persons: shuffled, Categories: categories}, nil
}

// Next returns the next person in the walk. ok is false once every person
// has been dealt.
func (w *WhoAmI) Next() (string, bool) {
	if w.Idx >= len(w.Persons) {
		return "", false
	}
	person := w.Persons[w.Idx]
	w.Idx++
	return person, true
}

// Remaining reports how many persons are still undealt.
func (w *WhoAmI) Remaining() int {
	return len(w.Persons) - w.Idx
}
