package engine

import (
	"errors"
	"fmt"
)

// Roster bounds shared by every team game.
const (
	MinTeams = 2
	MaxTeams = 6
)

// Validation errors returned by the game machines. The HTTP layer surfaces
// these as 4xx with the error text as message.
var (
	ErrGameFinished    = errors.New("the game is already finished")
	ErrNotRevealed     = errors.New("reveal the answer first")
	ErrAlreadyRevealed = errors.New("the answer is already revealed")
	ErrInvalidTeam     = errors.New("invalid team")
	ErrInvalidPlayer   = errors.New("invalid player")
	ErrInvalidCell     = errors.New("invalid cell")
	ErrInvalidAction   = errors.New("invalid action")
	ErrNothingToUndo   = errors.New("nothing to undo")
	ErrNoCurrentItem   = errors.New("no current item")
	ErrNoHandicap      = errors.New("roll the die first")
	ErrNoJetons        = errors.New("no jetons left")
)

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// TeamNames returns n display names, taking provided names where non-empty
// and defaulting the rest to "Team {i+1}".
func TeamNames(n int, names []string) []string {
	out := make([]string, n)
	for i := 0; i < n; i++ {
		if i < len(names) && names[i] != "" {
			out[i] = names[i]
		} else {
			out[i] = fmt.Sprintf("Team %d", i+1)
		}
	}
	return out
}

// PlayerNames is TeamNames with the bingo wording.
func PlayerNames(n int, names []string) []string {
	out := make([]string, n)
	for i := 0; i < n; i++ {
		if i < len(names) && names[i] != "" {
			out[i] = names[i]
		} else {
			out[i] = fmt.Sprintf("Player %d", i+1)
		}
	}
	return out
}

func zeros(n int) []int {
	return make([]int, n)
}
