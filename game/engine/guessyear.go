package engine

import (
	"math/rand"
	"sort"

	"github.com/tvdberg/partyhub/catalog"
	"github.com/tvdberg/partyhub/game/draw"
)

// Difficulty levels for the year-guessing game. Non-normal levels filter
// the pool by chart-position ratio.
const (
	DifficultyEasy   = "easy"
	DifficultyNormal = "normal"
	DifficultyHard   = "hard"

	easyRatioMax = 0.33
	hardRatioMin = 0.67
)

// GuessYearConfig carries the setup form for a new round of games.
type GuessYearConfig struct {
	NumTeams   int
	Threshold  int
	TeamNames  []string
	Difficulty string
}

// GuessYearEntry records one award so undo can reverse it exactly.
type GuessYearEntry struct {
	Team  int `json:"team"`
	Round int `json:"round"`
	Year  int `json:"year"`
}

// GuessYear is the year-guessing state machine. A round draws a hidden
// song, reveals its answer, and awards the closest team; each team builds a
// sorted timeline of the years it has won.
type GuessYear struct {
	NumTeams    int
	Threshold   int
	TeamNames   []string
	Scores      []int
	TeamYears   [][]int
	Jetons      []int
	CurrentSong *catalog.Song
	RoundNumber int
	Revealed    bool
	Winner      string
	Difficulty  string
	History     []GuessYearEntry
}

// NewGuessYear builds a fresh machine from the setup form, clamping the
// team count to [2,6] and the winning threshold to [1,99].
func NewGuessYear(cfg GuessYearConfig) *GuessYear {
	n := Clamp(cfg.NumTeams, MinTeams, MaxTeams)
	threshold := Clamp(cfg.Threshold, 1, 99)
	difficulty := cfg.Difficulty
	switch difficulty {
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
	default:
		difficulty = DifficultyNormal
	}

	g := &GuessYear{
		NumTeams:   n,
		Threshold:  threshold,
		TeamNames:  TeamNames(n, cfg.TeamNames),
		Scores:     zeros(n),
		Jetons:     zeros(n),
		Difficulty: difficulty,
	}
	g.TeamYears = make([][]int, n)
	for i := range g.TeamYears {
		g.TeamYears[i] = []int{}
	}
	return g
}

// filterByDifficulty narrows the pool to the easy or hard band by chart
// ratio. When the filter would empty the pool it returns the pool
// unchanged: availability wins over strictness.
func (g *GuessYear) filterByDifficulty(pool []catalog.Song, maxPos map[string]int) []catalog.Song {
	if g.Difficulty == DifficultyNormal {
		return pool
	}
	filtered := make([]catalog.Song, 0, len(pool))
	for _, song := range pool {
		mp := maxPos[song.Origin]
		var ratio float64
		if mp > 0 {
			ratio = float64(song.Position) / float64(mp)
		}
		if g.Difficulty == DifficultyEasy && ratio <= easyRatioMax {
			filtered = append(filtered, song)
		} else if g.Difficulty == DifficultyHard && ratio > hardRatioMin {
			filtered = append(filtered, song)
		}
	}
	if len(filtered) == 0 {
		return pool
	}
	return filtered
}

// Next draws the next hidden song from the pool. ok is false when every
// song in the (unfiltered) pool has been played. Fails while a winner is
// set.
func (g *GuessYear) Next(rng *rand.Rand, pool []catalog.Song, maxPos map[string]int, used *draw.UsedSet) (catalog.Song, bool, error) {
	if g.Winner != "" {
		return catalog.Song{}, false, ErrGameFinished
	}

	song, ok := draw.One(rng, g.filterByDifficulty(pool, maxPos), used, catalog.Song.Key)
	if !ok {
		return catalog.Song{}, false, nil
	}

	g.CurrentSong = &song
	g.Revealed = false
	g.RoundNumber++
	return song, true, nil
}

// Reveal marks the current song's answer visible and returns it. Calling it
// again simply re-returns the same answer.
func (g *GuessYear) Reveal() (catalog.Song, error) {
	if g.CurrentSong == nil {
		return catalog.Song{}, ErrNoCurrentItem
	}
	g.Revealed = true
	return *g.CurrentSong, nil
}

// Award gives the team one point and files the song's year into its sorted
// timeline. Requires a revealed answer and no standing winner; sets the
// winner when the team reaches the threshold.
func (g *GuessYear) Award(team int) (string, error) {
	if g.Winner != "" {
		return "", ErrGameFinished
	}
	if !g.Revealed {
		return "", ErrNotRevealed
	}
	if team < 0 || team >= g.NumTeams {
		return "", ErrInvalidTeam
	}

	year := 0
	if g.CurrentSong != nil {
		year = g.CurrentSong.Year
	}

	g.Scores[team]++
	if year != 0 {
		g.TeamYears[team] = append(g.TeamYears[team], year)
		sort.Ints(g.TeamYears[team])
	}
	g.History = append(g.History, GuessYearEntry{Team: team, Round: g.RoundNumber, Year: year})

	if g.Scores[team] >= g.Threshold {
		g.Winner = g.TeamNames[team]
	}
	return g.Winner, nil
}

// Undo reverses the most recent award: score, timeline year, and winner.
func (g *GuessYear) Undo() error {
	if len(g.History) == 0 {
		return ErrNothingToUndo
	}
	last := g.History[len(g.History)-1]
	g.History = g.History[:len(g.History)-1]

	g.Scores[last.Team]--
	if last.Year != 0 {
		years := g.TeamYears[last.Team]
		for i, y := range years {
			if y == last.Year {
				g.TeamYears[last.Team] = append(years[:i], years[i+1:]...)
				break
			}
		}
	}
	g.Winner = ""
	return nil
}

// Jeton adjusts a team's token counter. "add" always succeeds; "use" fails
// at zero. No other state is touched.
func (g *GuessYear) Jeton(team int, action string) error {
	if team < 0 || team >= g.NumTeams {
		return ErrInvalidTeam
	}
	switch action {
	case "add":
		g.Jetons[team]++
	case "use":
		if g.Jetons[team] <= 0 {
			return ErrNoJetons
		}
		g.Jetons[team]--
	default:
		return ErrInvalidAction
	}
	return nil
}
