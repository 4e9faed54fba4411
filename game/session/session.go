package session

import (
	"math/rand"
	"sync"
	"time"

	"github.com/tvdberg/partyhub/game/draw"
	"github.com/tvdberg/partyhub/game/engine"
)

// Session is one player's server-side state. All fields are guarded by Mu;
// handlers lock for the duration of a request. Game machines are created
// lazily and stay dormant when the player switches games, so coming back
// resumes where they left off.
type Session struct {
	Mu sync.Mutex

	ID         string
	Game       string
	Categories []string
	LastTouch  time.Time

	// Used sets are scoped by pool fingerprint so changing the category
	// selection never leaks draws across selections.
	Used map[string]*draw.UsedSet

	RNG    *rand.Rand
	Bucket *RateBucket

	GuessYear     *engine.GuessYear
	ThirtySeconds *engine.ThirtySeconds
	Taboo         *engine.Taboo
	Bingo         *engine.Bingo
	Bluff         *engine.Bluff
	Estimate      *engine.Estimate
	WhoAmI        *engine.WhoAmI
	ThisOrThat    *engine.ThisOrThat
}

// UsedFor returns the used set for the given pool fingerprint, creating it
// on first use.
func (s *Session) UsedFor(fp draw.Fingerprint) *draw.UsedSet {
	key := fp.Key()
	used, ok := s.Used[key]
	if !ok {
		used = draw.NewUsedSet()
		s.Used[key] = used
	}
	return used
}

// Touch refreshes the expiry clock.
func (s *Session) Touch(now time.Time) {
	s.LastTouch = now
}
