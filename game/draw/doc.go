// Package draw implements random selection without replacement over item
// pools, the primitive every game machine builds on.
//
// A pool is any slice; a UsedSet tracks the keys already drawn within one
// pool scope; a Fingerprint identifies a (game, category selection) scope so
// that changing the selection starts a fresh pool without discarding other
// pools. All selection functions take an explicit *rand.Rand so tests can
// inject a deterministic source.
//
// Two reset policies exist: One never resets (callers decide what pool
// exhaustion means), while Several silently clears the used set when fewer
// unused items remain than a turn requires.
package draw
