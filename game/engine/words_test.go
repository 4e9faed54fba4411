package engine

import (
	"testing"

	"github.com/tvdberg/partyhub/game/draw"
)

func TestNextWord_DrainsThenExhausts(t *testing.T) {
	rng := testRand()
	pool := []string{"olifant", "giraffe", "zebra"}
	used := draw.NewUsedSet()

	seen := make(map[string]bool)
	for i := 0; i < len(pool); i++ {
		word, ok := NextWord(rng, pool, used)
		if !ok {
			t.Fatalf("draw %d: unexpected exhaustion", i)
		}
		if seen[word] {
			t.Fatalf("word %q repeated", word)
		}
		seen[word] = true
	}

	if _, ok := NextWord(rng, pool, used); ok {
		t.Error("expected exhaustion after draining the pool")
	}
	if used.Len() != len(pool) {
		t.Errorf("exhaustion must not reset the used set, got %d keys", used.Len())
	}
}

func TestNextWord_AccentInsensitiveDedup(t *testing.T) {
	rng := testRand()
	pool := []string{"Café", "cafe"}
	used := draw.NewUsedSet()

	if _, ok := NextWord(rng, pool, used); !ok {
		t.Fatal("first draw should succeed")
	}
	// Both spellings share a normalized key, so one draw uses up both.
	if _, ok := NextWord(rng, pool, used); ok {
		t.Error("accent variants should count as one word")
	}
}

func TestClamp(t *testing.T) {
	cases := []struct{ v, lo, hi, want int }{
		{5, 2, 6, 5},
		{1, 2, 6, 2},
		{9, 2, 6, 6},
	}
	for _, c := range cases {
		if got := Clamp(c.v, c.lo, c.hi); got != c.want {
			t.Errorf("Clamp(%d, %d, %d) = %d, want %d", c.v, c.lo, c.hi, got, c.want)
		}
	}
}

func TestTeamNames_Defaults(t *testing.T) {
	names := TeamNames(3, []string{"Reds", ""})
	if names[0] != "Reds" {
		t.Errorf("expected given name kept, got %q", names[0])
	}
	if names[1] != "Team 2" || names[2] != "Team 3" {
		t.Errorf("expected defaults filled in, got %v", names)
	}
}
