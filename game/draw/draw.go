package draw

import "math/rand"

// UsedSet tracks the keys already drawn within one pool scope. The zero
// value is not usable; call NewUsedSet.
type UsedSet struct {
	keys map[string]struct{}
}

// NewUsedSet returns an empty used set.
func NewUsedSet() *UsedSet {
	return &UsedSet{keys: make(map[string]struct{})}
}

// Add marks a key as used.
func (u *UsedSet) Add(key string) {
	u.keys[key] = struct{}{}
}

// Has reports whether a key was already drawn.
func (u *UsedSet) Has(key string) bool {
	_, ok := u.keys[key]
	return ok
}

// Len returns the number of used keys.
func (u *UsedSet) Len() int {
	return len(u.keys)
}

// Reset forgets every used key.
func (u *UsedSet) Reset() {
	u.keys = make(map[string]struct{})
}

// One picks a uniformly random item from pool whose key is not yet in used,
// marks it used, and returns it. The second result is false when every item
// is used (the exhaustion signal); the used set is never reset here.
func One[T any](rng *rand.Rand, pool []T, used *UsedSet, keyOf func(T) string) (T, bool) {
	available := make([]T, 0, len(pool))
	for _, item := range pool {
		if !used.Has(keyOf(item)) {
			available = append(available, item)
		}
	}
	if len(available) == 0 {
		var zero T
		return zero, false
	}
	item := available[rng.Intn(len(available))]
	used.Add(keyOf(item))
	return item, true
}

// Several picks n distinct items without replacement. When fewer than n
// unused items remain, the used set is silently reset first so a turn is
// never starved; if the whole pool is smaller than n, all of it is
// returned.
func Several[T any](rng *rand.Rand, pool []T, used *UsedSet, keyOf func(T) string, n int) []T {
	available := make([]T, 0, len(pool))
	for _, item := range pool {
		if !used.Has(keyOf(item)) {
			available = append(available, item)
		}
	}
	if len(available) < n {
		used.Reset()
		available = append(available[:0], pool...)
	}
	if n > len(available) {
		n = len(available)
	}

	picked := SampleN(rng, available, n)
	for _, item := range picked {
		used.Add(keyOf(item))
	}
	return picked
}

// SampleN returns n distinct items drawn uniformly from pool, without
// touching any used set. Used for one-shot constructions like bingo cards.
func SampleN[T any](rng *rand.Rand, pool []T, n int) []T {
	if n > len(pool) {
		n = len(pool)
	}
	picked := make([]T, 0, n)
	for _, i := range rng.Perm(len(pool))[:n] {
		picked = append(picked, pool[i])
	}
	return picked
}

// Perm returns a random permutation of [0, n), used for shuffled play
// orders.
func Perm(rng *rand.Rand, n int) []int {
	return rng.Perm(n)
}
