package session

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/tvdberg/partyhub/game/draw"
)

// StoreConfig wires a Store's dependencies. Clock and Seed exist so tests
// can control time and randomness.
type StoreConfig struct {
	Secret        []byte
	TTL           time.Duration
	SweepInterval time.Duration
	RateCapacity  int
	Clock         clockwork.Clock
	Seed          func() int64
	Logger        zerolog.Logger
}

// Store keeps every live session keyed by id and expires the idle ones.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session

	secret        []byte
	ttl           time.Duration
	sweepInterval time.Duration
	rateCapacity  int
	clock         clockwork.Clock
	seed          func() int64
	log           zerolog.Logger
}

// NewStore builds a store from the config, filling in a real clock and a
// time-based seed when none are given.
func NewStore(cfg StoreConfig) *Store {
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	seed := cfg.Seed
	if seed == nil {
		seed = func() int64 { return clock.Now().UnixNano() }
	}
	return &Store{
		sessions:      make(map[string]*Session),
		secret:        cfg.Secret,
		ttl:           cfg.TTL,
		sweepInterval: cfg.SweepInterval,
		rateCapacity:  cfg.RateCapacity,
		clock:         clock,
		seed:          seed,
		log:           cfg.Logger,
	}
}

// TTL returns the session lifetime, which doubles as the cookie max-age.
func (st *Store) TTL() time.Duration {
	return st.ttl
}

// Now exposes the store's clock so callers share one notion of time.
func (st *Store) Now() time.Time {
	return st.clock.Now()
}

// Ensure resolves a request token to a live session. A valid token for a
// known session refreshes its expiry; anything else (absent, forged,
// expired, or swept) mints a brand-new session and token. minted tells the
// caller to set the cookie.
func (st *Store) Ensure(token string) (sess *Session, outToken string, minted bool, err error) {
	now := st.clock.Now()

	st.mu.Lock()
	defer st.mu.Unlock()

	if sid, ok := verifyToken(st.secret, token); ok {
		if sess, ok := st.sessions[sid]; ok {
			sess.Touch(now)
			return sess, token, false, nil
		}
	}

	sid := uuid.NewString()
	outToken, err = mintToken(st.secret, sid, now, st.ttl)
	if err != nil {
		return nil, "", false, err
	}

	sess = &Session{
		ID:        sid,
		LastTouch: now,
		Used:      make(map[string]*draw.UsedSet),
		RNG:       rand.New(rand.NewSource(st.seed())),
		Bucket:    NewRateBucket(st.rateCapacity, now),
	}
	st.sessions[sid] = sess
	return sess, outToken, true, nil
}

// Lookup resolves a token to its live session without minting. Used where
// a session must already exist, like the websocket join.
func (st *Store) Lookup(token string) (*Session, bool) {
	sid, ok := verifyToken(st.secret, token)
	if !ok {
		return nil, false
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	sess, ok := st.sessions[sid]
	return sess, ok
}

// Len reports the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Sweep deletes sessions idle past the TTL on every tick until the context
// is cancelled. The lock is held only for the duration of one pass.
func (st *Store) Sweep(ctx context.Context) {
	ticker := st.clock.NewTicker(st.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			if n := st.sweepOnce(); n > 0 {
				st.log.Debug().Int("expired", n).Msg("swept idle sessions")
			}
		}
	}
}

func (st *Store) sweepOnce() int {
	cutoff := st.clock.Now().Add(-st.ttl)

	st.mu.Lock()
	defer st.mu.Unlock()

	n := 0
	for sid, sess := range st.sessions {
		if sess.LastTouch.Before(cutoff) {
			delete(st.sessions, sid)
			n++
		}
	}
	return n
}
