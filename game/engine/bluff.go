package engine

import (
	"math/rand"
	"sort"
	"strconv"

	"github.com/tvdberg/partyhub/catalog"
	"github.com/tvdberg/partyhub/game/draw"
)

// BluffConfig carries the setup form.
type BluffConfig struct {
	NumTeams  int
	Threshold int
	TeamNames []string
}

// BluffEntry records one reveal and exactly which teams it awarded, so
// undo can take those points back.
type BluffEntry struct {
	Round   int          `json:"round"`
	Answer  bool         `json:"answer"`
	Votes   map[int]bool `json:"votes"`
	Awarded []int        `json:"awarded"`
}

// BluffReveal is the outcome of revealing a statement.
type BluffReveal struct {
	Answer      bool   `json:"answer"`
	Explanation string `json:"explanation,omitempty"`
	Awarded     []int  `json:"awarded"`
	Scores      []int  `json:"scores"`
	Winner      string `json:"winner,omitempty"`
}

// Bluff is the statement-voting machine: every team votes true or false on
// a statement, and revealing awards the teams that voted with the answer.
type Bluff struct {
	NumTeams    int
	Threshold   int
	TeamNames   []string
	Scores      []int
	Current     *catalog.Statement
	RoundNumber int
	Revealed    bool
	Votes       map[int]bool
	Winner      string
	Used        *draw.UsedSet
	History     []BluffEntry
}

// NewBluff builds a fresh game, clamping teams to [2,6] and the winning
// threshold to [3,30].
func NewBluff(cfg BluffConfig) *Bluff {
	n := Clamp(cfg.NumTeams, MinTeams, MaxTeams)
	return &Bluff{
		NumTeams:  n,
		Threshold: Clamp(cfg.Threshold, 3, 30),
		TeamNames: TeamNames(n, cfg.TeamNames),
		Scores:    zeros(n),
		Votes:     make(map[int]bool),
		Used:      draw.NewUsedSet(),
	}
}

// Next draws the next statement by deck index, silently recycling the deck
// when every statement has been played. Clears the votes and the revealed
// flag. Fails once a winner is set.
func (bl *Bluff) Next(rng *rand.Rand, deck []catalog.Statement) (catalog.Statement, error) {
	if bl.Winner != "" {
		return catalog.Statement{}, ErrGameFinished
	}
	if len(deck) == 0 {
		return catalog.Statement{}, ErrNoCurrentItem
	}

	idx := drawDeckIndex(rng, len(deck), bl.Used)
	stmt := deck[idx]
	bl.Current = &stmt
	bl.Revealed = false
	bl.Votes = make(map[int]bool)
	bl.RoundNumber++
	return stmt, nil
}

// Vote records a team's true/false vote, overwriting an earlier one.
// Rejected once the answer is revealed.
func (bl *Bluff) Vote(team int, vote bool) error {
	if bl.Revealed {
		return ErrAlreadyRevealed
	}
	if team < 0 || team >= bl.NumTeams {
		return ErrInvalidTeam
	}
	bl.Votes[team] = vote
	return nil
}

// Reveal shows the answer and awards one point to every team whose vote
// matches it, then checks thresholds in ascending team order for a winner.
func (bl *Bluff) Reveal() (BluffReveal, error) {
	if bl.Current == nil {
		return BluffReveal{}, ErrNoCurrentItem
	}

	bl.Revealed = true
	answer := bl.Current.Answer

	awarded := make([]int, 0, len(bl.Votes))
	for team, vote := range bl.Votes {
		if vote == answer {
			bl.Scores[team]++
			awarded = append(awarded, team)
		}
	}
	sort.Ints(awarded)

	for i, score := range bl.Scores {
		if score >= bl.Threshold {
			bl.Winner = bl.TeamNames[i]
			break
		}
	}

	votes := make(map[int]bool, len(bl.Votes))
	for k, v := range bl.Votes {
		votes[k] = v
	}
	bl.History = append(bl.History, BluffEntry{
		Round:   bl.RoundNumber,
		Answer:  answer,
		Votes:   votes,
		Awarded: awarded,
	})

	return BluffReveal{
		Answer:      answer,
		Explanation: bl.Current.Explanation,
		Awarded:     awarded,
		Scores:      bl.Scores,
		Winner:      bl.Winner,
	}, nil
}

// Undo reverses the most recent reveal's awards and clears the winner.
func (bl *Bluff) Undo() error {
	if len(bl.History) == 0 {
		return ErrNothingToUndo
	}
	last := bl.History[len(bl.History)-1]
	bl.History = bl.History[:len(bl.History)-1]

	for _, team := range last.Awarded {
		if bl.Scores[team] > 0 {
			bl.Scores[team]--
		}
	}
	bl.Winner = ""
	return nil
}

// drawDeckIndex draws an unused deck index, resetting the used set when the
// deck is exhausted (the silent auto-reset policy).
func drawDeckIndex(rng *rand.Rand, deckLen int, used *draw.UsedSet) int {
	indices := make([]int, deckLen)
	for i := range indices {
		indices[i] = i
	}
	idx, ok := draw.One(rng, indices, used, strconv.Itoa)
	if !ok {
		used.Reset()
		idx, _ = draw.One(rng, indices, used, strconv.Itoa)
	}
	return idx
}
