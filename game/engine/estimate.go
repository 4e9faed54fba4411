package engine

import (
	"math"
	"math/rand"
	"sort"

	"github.com/tvdberg/partyhub/catalog"
	"github.com/tvdberg/partyhub/game/draw"
)

// EstimateConfig carries the setup form.
type EstimateConfig struct {
	NumTeams  int
	Threshold int
	TeamNames []string
}

// EstimateEntry records one reveal and the teams it awarded.
type EstimateEntry struct {
	Round   int             `json:"round"`
	Answer  float64         `json:"answer"`
	Guesses map[int]float64 `json:"guesses"`
	Awarded []int           `json:"awarded"`
}

// EstimateReveal is the outcome of revealing a question's answer.
type EstimateReveal struct {
	Answer  float64 `json:"answer"`
	Awarded []int   `json:"awarded"`
	Scores  []int   `json:"scores"`
	Winner  string  `json:"winner,omitempty"`
}

// Estimate is the numeric-estimation machine: every team submits a number
// and revealing awards the team(s) closest to the answer, ties included.
type Estimate struct {
	NumTeams    int
	Threshold   int
	TeamNames   []string
	Scores      []int
	Current     *catalog.Question
	RoundNumber int
	Revealed    bool
	Guesses     map[int]float64
	Winner      string
	Used        *draw.UsedSet
	History     []EstimateEntry
}

// NewEstimate builds a fresh game, clamping teams to [2,6] and the winning
// threshold to [3,30].
func NewEstimate(cfg EstimateConfig) *Estimate {
	n := Clamp(cfg.NumTeams, MinTeams, MaxTeams)
	return &Estimate{
		NumTeams:  n,
		Threshold: Clamp(cfg.Threshold, 3, 30),
		TeamNames: TeamNames(n, cfg.TeamNames),
		Scores:    zeros(n),
		Guesses:   make(map[int]float64),
		Used:      draw.NewUsedSet(),
	}
}

// Next draws the next question by deck index, silently recycling the deck
// when every question has been played. Clears the guesses and the revealed
// flag. Fails once a winner is set.
func (e *Estimate) Next(rng *rand.Rand, deck []catalog.Question) (catalog.Question, error) {
	if e.Winner != "" {
		return catalog.Question{}, ErrGameFinished
	}
	if len(deck) == 0 {
		return catalog.Question{}, ErrNoCurrentItem
	}

	q := deck[drawDeckIndex(rng, len(deck), e.Used)]
	e.Current = &q
	e.Revealed = false
	e.Guesses = make(map[int]float64)
	e.RoundNumber++
	return q, nil
}

// Guess records a team's estimate, overwriting an earlier one. Rejected once
// the answer is revealed.
func (e *Estimate) Guess(team int, value float64) error {
	if e.Revealed {
		return ErrAlreadyRevealed
	}
	if team < 0 || team >= e.NumTeams {
		return ErrInvalidTeam
	}
	e.Guesses[team] = value
	return nil
}

// Reveal shows the answer and awards a point to every team at the minimum
// distance from it, ties included, then checks thresholds in ascending team
// order for a winner.
func (e *Estimate) Reveal() (EstimateReveal, error) {
	if e.Current == nil {
		return EstimateReveal{}, ErrNoCurrentItem
	}

	e.Revealed = true
	answer := e.Current.Answer

	best := math.Inf(1)
	for _, guess := range e.Guesses {
		if d := math.Abs(guess - answer); d < best {
			best = d
		}
	}

	awarded := make([]int, 0, len(e.Guesses))
	for team, guess := range e.Guesses {
		if math.Abs(guess-answer) == best {
			e.Scores[team]++
			awarded = append(awarded, team)
		}
	}
	sort.Ints(awarded)

	for i, score := range e.Scores {
		if score >= e.Threshold {
			e.Winner = e.TeamNames[i]
			break
		}
	}

	guesses := make(map[int]float64, len(e.Guesses))
	for k, v := range e.Guesses {
		guesses[k] = v
	}
	e.History = append(e.History, EstimateEntry{
		Round:   e.RoundNumber,
		Answer:  answer,
		Guesses: guesses,
		Awarded: awarded,
	})

	return EstimateReveal{
		Answer:  answer,
		Awarded: awarded,
		Scores:  e.Scores,
		Winner:  e.Winner,
	}, nil
}

// Undo reverses the most recent reveal's awards and clears the winner.
func (e *Estimate) Undo() error {
	if len(e.History) == 0 {
		return ErrNothingToUndo
	}
	last := e.History[len(e.History)-1]
	e.History = e.History[:len(e.History)-1]

	for _, team := range last.Awarded {
		if e.Scores[team] > 0 {
			e.Scores[team]--
		}
	}
	e.Winner = ""
	return nil
}
