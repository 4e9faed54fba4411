package engine

import (
	"math/rand"

	"github.com/tvdberg/partyhub/catalog"
	"github.com/tvdberg/partyhub/game/draw"
)

// WordsPerTurn is how many words a team has to describe within the timer.
const WordsPerTurn = 5

// dieFaces simulates the game's six-sided handicap die: two faces per
// value, so 0, 1 and 2 come up with equal probability.
var dieFaces = []int{0, 0, 1, 1, 2, 2}

// TurnEntry records one scored turn of the race games.
type TurnEntry struct {
	Round    int `json:"round"`
	Team     int `json:"team"`
	Correct  int `json:"correct"`
	Handicap int `json:"handicap"`
	Steps    int `json:"steps"`
}

// ThirtySecondsConfig carries the setup form.
type ThirtySecondsConfig struct {
	NumTeams    int
	FinishScore int
	TeamNames   []string
}

// ThirtySeconds is the turn-timer race: teams advance along a track by the
// number of words guessed minus the rolled handicap.
type ThirtySeconds struct {
	NumTeams     int
	FinishScore  int
	TeamNames    []string
	Positions    []int
	CurrentTeam  int
	CurrentWords []string
	Handicap     *int
	RoundNumber  int
	Winner       string
	Used         *draw.UsedSet
	History      []TurnEntry
}

// NewThirtySeconds builds a fresh race, clamping teams to [2,6] and the
// finish score to [10,60].
func NewThirtySeconds(cfg ThirtySecondsConfig) *ThirtySeconds {
	n := Clamp(cfg.NumTeams, MinTeams, MaxTeams)
	return &ThirtySeconds{
		NumTeams:    n,
		FinishScore: Clamp(cfg.FinishScore, 10, 60),
		TeamNames:   TeamNames(n, cfg.TeamNames),
		Positions:   zeros(n),
		Used:        draw.NewUsedSet(),
	}
}

// Roll throws the handicap die and stores the pending result for the next
// turn. Fails once the game has a winner.
func (t *ThirtySeconds) Roll(rng *rand.Rand) (int, error) {
	if t.Winner != "" {
		return 0, ErrGameFinished
	}
	handicap := dieFaces[rng.Intn(len(dieFaces))]
	t.Handicap = &handicap
	return handicap, nil
}

// DrawWords selects the turn's words without replacement, silently
// recycling the pool when fewer than a turn's worth remain. Requires a
// rolled handicap.
func (t *ThirtySeconds) DrawWords(rng *rand.Rand, pool []string) ([]string, error) {
	if t.Winner != "" {
		return nil, ErrGameFinished
	}
	if t.Handicap == nil {
		return nil, ErrNoHandicap
	}

	words := draw.Several(rng, pool, t.Used, catalog.Normalize, WordsPerTurn)
	t.CurrentWords = words
	t.RoundNumber++
	return words, nil
}

// Score closes the turn: steps = max(0, correct - handicap) advance the
// current team, the turn pointer moves on regardless, and the handicap and
// words are cleared. Sets the winner at the finish score.
func (t *ThirtySeconds) Score(correct int) (TurnEntry, error) {
	if t.Winner != "" {
		return TurnEntry{}, ErrGameFinished
	}

	correct = Clamp(correct, 0, WordsPerTurn)
	handicap := 0
	if t.Handicap != nil {
		handicap = *t.Handicap
	}
	steps := correct - handicap
	if steps < 0 {
		steps = 0
	}

	team := t.CurrentTeam
	t.Positions[team] += steps
	entry := TurnEntry{
		Round:    t.RoundNumber,
		Team:     team,
		Correct:  correct,
		Handicap: handicap,
		Steps:    steps,
	}
	t.History = append(t.History, entry)

	if t.Positions[team] >= t.FinishScore {
		t.Winner = t.TeamNames[team]
	}

	t.CurrentTeam = (team + 1) % t.NumTeams
	t.Handicap = nil
	t.CurrentWords = nil
	return entry, nil
}

// Undo reverses the last scored turn: position (floored at zero), turn
// pointer, and winner.
func (t *ThirtySeconds) Undo() error {
	if len(t.History) == 0 {
		return ErrNothingToUndo
	}
	last := t.History[len(t.History)-1]
	t.History = t.History[:len(t.History)-1]

	t.Positions[last.Team] -= last.Steps
	if t.Positions[last.Team] < 0 {
		t.Positions[last.Team] = 0
	}
	t.CurrentTeam = last.Team
	t.Winner = ""
	return nil
}
