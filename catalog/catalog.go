package catalog

import (
	"fmt"
	"path/filepath"
)

// Game identifiers used throughout the server.
const (
	GameHints         = "hints"
	GamePictionary    = "pictionary"
	GameGuessYear     = "guess-the-year"
	GameThirtySeconds = "thirty-seconds"
	GameTaboo         = "taboo"
	GameWhoAmI        = "who-am-i"
	GameBingo         = "music-bingo"
	GameThisOrThat    = "this-or-that"
	GameBluff         = "bluff"
	GameEstimate      = "estimates"
)

// ValidGames is the set of game identifiers a session may activate.
var ValidGames = map[string]bool{
	GameHints:         true,
	GamePictionary:    true,
	GameGuessYear:     true,
	GameThirtySeconds: true,
	GameTaboo:         true,
	GameWhoAmI:        true,
	GameBingo:         true,
	GameThisOrThat:    true,
	GameBluff:         true,
	GameEstimate:      true,
}

// Catalog aggregates every item collection the games draw from. It is
// loaded once at startup and read-only afterwards.
type Catalog struct {
	// Words holds the categorized lists for the word-reveal games, keyed by
	// game identifier then category name.
	Words map[string]map[string][]string

	// Meta holds category display metadata for games that have it.
	Meta map[string]map[string]Meta

	// WordCategory maps a normalized word back to its category, per game.
	WordCategory map[string]map[string]string

	Songs      map[string][]Song
	MaxPos     map[string]int
	TimerWords []string
	TabooCards []TabooCard
	Persons    map[string][]string
	PersonMeta map[string]string
	Dilemmas   []Dilemma
	Statements []Statement
	Questions  []Question

	// QRDir is where per-song QR images live, served under /qr.
	QRDir string
}

// Load reads every data file under dataDir and assembles the catalog. Any
// missing or malformed file aborts the load.
func Load(dataDir, qrDir string) (*Catalog, error) {
	c := &Catalog{
		Words:        make(map[string]map[string][]string),
		Meta:         make(map[string]map[string]Meta),
		WordCategory: make(map[string]map[string]string),
		QRDir:        qrDir,
	}

	for _, game := range []string{GameHints, GamePictionary} {
		lists, err := LoadWordLists(filepath.Join(dataDir, game+".json"))
		if err != nil {
			return nil, err
		}
		c.Words[game] = lists
	}
	meta, err := LoadMeta(filepath.Join(dataDir, GamePictionary+".json"))
	if err != nil {
		return nil, err
	}
	c.Meta[GamePictionary] = meta
	c.WordCategory[GamePictionary] = wordToCategory(c.Words[GamePictionary])

	if c.Songs, c.MaxPos, err = LoadSongs(filepath.Join(dataDir, "songs.csv"), qrDir); err != nil {
		return nil, err
	}
	if c.TimerWords, err = LoadTimerWords(filepath.Join(dataDir, "thirty_seconds.json")); err != nil {
		return nil, err
	}
	if c.TabooCards, err = LoadTabooCards(filepath.Join(dataDir, "taboo.json")); err != nil {
		return nil, err
	}
	if c.Persons, c.PersonMeta, err = LoadPersons(filepath.Join(dataDir, "who_am_i.json")); err != nil {
		return nil, err
	}
	if c.Dilemmas, err = LoadDilemmas(filepath.Join(dataDir, "this_or_that.json")); err != nil {
		return nil, err
	}
	if c.Statements, err = LoadStatements(filepath.Join(dataDir, "bluff.json")); err != nil {
		return nil, err
	}
	if c.Questions, err = LoadQuestions(filepath.Join(dataDir, "estimates.json")); err != nil {
		return nil, err
	}
	return c, nil
}

// SongPool returns the concatenated songs of the given origins, in catalog
// order.
func (c *Catalog) SongPool(origins []string) []Song {
	var pool []Song
	for _, origin := range origins {
		pool = append(pool, c.Songs[origin]...)
	}
	return pool
}

// WordPool returns the concatenated items of the given categories for a
// word-reveal game, in catalog order.
func (c *Catalog) WordPool(game string, categories []string) []string {
	var pool []string
	for _, cat := range categories {
		pool = append(pool, c.Words[game][cat]...)
	}
	return pool
}

// CategoryMeta returns the display metadata for the category owning the
// given word, or zero values when the game carries no metadata.
func (c *Catalog) CategoryMeta(game, word string) (Meta, bool) {
	index, ok := c.WordCategory[game]
	if !ok {
		return Meta{}, false
	}
	cat, ok := index[Normalize(word)]
	if !ok {
		return Meta{}, false
	}
	m, ok := c.Meta[game][cat]
	return m, ok
}

// ResolveSelection expands the special "all" marker and filters unknown
// names against the given set of valid category names. An empty result
// means nothing valid was selected.
func ResolveSelection[T any](selected []string, available map[string]T) []string {
	for _, s := range selected {
		if s == "all" {
			all := make([]string, 0, len(available))
			for name := range available {
				all = append(all, name)
			}
			return all
		}
	}
	var out []string
	for _, s := range selected {
		if _, ok := available[s]; ok {
			out = append(out, s)
		}
	}
	return out
}

// Validate checks cross-file invariants after loading, currently that every
// referenced game has data.
func (c *Catalog) Validate() error {
	for _, game := range []string{GameHints, GamePictionary} {
		if len(c.Words[game]) == 0 {
			return fmt.Errorf("game %s has no categories", game)
		}
	}
	return nil
}
