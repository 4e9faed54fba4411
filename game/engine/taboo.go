package engine

import (
	"math/rand"

	"github.com/tvdberg/partyhub/catalog"
	"github.com/tvdberg/partyhub/game/draw"
)

// TabooEntry records one closed taboo turn.
type TabooEntry struct {
	Round   int `json:"round"`
	Team    int `json:"team"`
	Correct int `json:"correct"`
	Wrong   int `json:"wrong"`
	Steps   int `json:"steps"`
}

// TabooConfig carries the setup form.
type TabooConfig struct {
	NumTeams    int
	FinishScore int
	TeamNames   []string
}

// Taboo is the card-describing race. A turn opens on its first draw, may
// reveal any number of cards, and closes with EndTurn which converts the
// tallies into steps on the track.
type Taboo struct {
	NumTeams    int
	FinishScore int
	TeamNames   []string
	Positions   []int
	CurrentTeam int
	CurrentCard *catalog.TabooCard
	RoundNumber int
	TurnCorrect int
	TurnWrong   int
	TurnActive  bool
	Winner      string
	Used        *draw.UsedSet
	History     []TabooEntry
}

// NewTaboo builds a fresh game, clamping teams to [2,6] and the finish
// score to [10,60].
func NewTaboo(cfg TabooConfig) *Taboo {
	n := Clamp(cfg.NumTeams, MinTeams, MaxTeams)
	return &Taboo{
		NumTeams:    n,
		FinishScore: Clamp(cfg.FinishScore, 10, 60),
		TeamNames:   TeamNames(n, cfg.TeamNames),
		Positions:   zeros(n),
		Used:        draw.NewUsedSet(),
	}
}

// Draw reveals the next card, drawing deck indices without replacement and
// silently recycling the deck when it runs dry. The first draw of a turn
// opens it: tallies reset and the round counter advances.
func (tb *Taboo) Draw(rng *rand.Rand, deck []catalog.TabooCard) (catalog.TabooCard, error) {
	if tb.Winner != "" {
		return catalog.TabooCard{}, ErrGameFinished
	}
	if len(deck) == 0 {
		return catalog.TabooCard{}, ErrNoCurrentItem
	}

	card := deck[drawDeckIndex(rng, len(deck), tb.Used)]
	tb.CurrentCard = &card

	if !tb.TurnActive {
		tb.TurnActive = true
		tb.TurnCorrect = 0
		tb.TurnWrong = 0
		tb.RoundNumber++
	}
	return card, nil
}

// Correct bumps the turn's guessed tally.
func (tb *Taboo) Correct() (int, int) {
	tb.TurnCorrect++
	return tb.TurnCorrect, tb.TurnWrong
}

// Wrong bumps the turn's taboo-violation tally.
func (tb *Taboo) Wrong() (int, int) {
	tb.TurnWrong++
	return tb.TurnCorrect, tb.TurnWrong
}

// EndTurn converts the tallies into steps = max(0, correct - wrong),
// advances the current team, records history, and passes the turn on. Sets
// the winner at the finish score.
func (tb *Taboo) EndTurn() (TabooEntry, error) {
	steps := tb.TurnCorrect - tb.TurnWrong
	if steps < 0 {
		steps = 0
	}

	team := tb.CurrentTeam
	tb.Positions[team] += steps
	entry := TabooEntry{
		Round:   tb.RoundNumber,
		Team:    team,
		Correct: tb.TurnCorrect,
		Wrong:   tb.TurnWrong,
		Steps:   steps,
	}
	tb.History = append(tb.History, entry)
	tb.TurnActive = false
	tb.CurrentCard = nil

	if tb.Positions[team] >= tb.FinishScore {
		tb.Winner = tb.TeamNames[team]
	}

	tb.CurrentTeam = (team + 1) % tb.NumTeams
	tb.TurnCorrect = 0
	tb.TurnWrong = 0
	return entry, nil
}

// Undo reverses the last closed turn: position (floored at zero), turn
// pointer, and winner.
func (tb *Taboo) Undo() error {
	if len(tb.History) == 0 {
		return ErrNothingToUndo
	}
	last := tb.History[len(tb.History)-1]
	tb.History = tb.History[:len(tb.History)-1]

	tb.Positions[last.Team] -= last.Steps
	if tb.Positions[last.Team] < 0 {
		tb.Positions[last.Team] = 0
	}
	tb.CurrentTeam = last.Team
	tb.Winner = ""
	return nil
}
