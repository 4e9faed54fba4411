package engine

import (
	"math/rand"

	"github.com/tvdberg/partyhub/catalog"
	"github.com/tvdberg/partyhub/game/draw"
)

// BingoCell is one card cell: a song plus the player who claimed it, if
// any.
type BingoCell struct {
	Song      catalog.Song
	ClaimedBy *int
}

// BingoConfig carries the setup form.
type BingoConfig struct {
	NumPlayers  int
	PlayerNames []string
	CardSize    int
}

// ClaimResult is the outcome of a claim attempt. Wrong guesses and
// already-claimed cells are non-fatal: Correct is false, state is
// unchanged, and the item stays claimable.
type ClaimResult struct {
	Correct bool   `json:"correct"`
	Message string `json:"message,omitempty"`
	CellIdx int    `json:"cell_idx,omitempty"`
	Player  int    `json:"player_idx,omitempty"`
	Scores  []int  `json:"scores,omitempty"`
}

// Bingo is the shared-card music bingo machine. One card of distinct songs
// is dealt at setup; an independent shuffled play order walks those same
// cells one song at a time.
type Bingo struct {
	NumPlayers  int
	PlayerNames []string
	CardSize    int
	Card        []BingoCell
	PlayOrder   []int
	PlayIdx     int
	CurrentCell int
	Revealed    bool
}

// NewBingo deals a card of size*size distinct songs sampled from the pool
// (or the whole pool when it is smaller) and shuffles the play order.
// Players are clamped to [2,6] and the card size to {3,4,5}.
func NewBingo(rng *rand.Rand, cfg BingoConfig, pool []catalog.Song) (*Bingo, error) {
	if len(pool) == 0 {
		return nil, ErrNoCurrentItem
	}
	n := Clamp(cfg.NumPlayers, MinTeams, MaxTeams)
	size := cfg.CardSize
	if size != 3 && size != 4 && size != 5 {
		size = 4
	}

	songs := draw.SampleN(rng, pool, size*size)
	card := make([]BingoCell, len(songs))
	for i, song := range songs {
		card[i] = BingoCell{Song: song}
	}

	return &Bingo{
		NumPlayers:  n,
		PlayerNames: PlayerNames(n, cfg.PlayerNames),
		CardSize:    size,
		Card:        card,
		PlayOrder:   draw.Perm(rng, len(card)),
		PlayIdx:     -1,
		CurrentCell: -1,
	}, nil
}

// NextItem advances the play cursor and returns the now-active song. ok is
// false once the whole play order has been consumed; the previous song then
// stays active so late claims on it remain possible.
func (b *Bingo) NextItem() (catalog.Song, bool) {
	b.PlayIdx++
	if b.PlayIdx >= len(b.PlayOrder) {
		b.PlayIdx = len(b.PlayOrder)
		return catalog.Song{}, false
	}
	b.CurrentCell = b.PlayOrder[b.PlayIdx]
	b.Revealed = false
	return b.Card[b.CurrentCell].Song, true
}

// Claim lets a player claim the cell they think matches the active song.
// A wrong cell or an already-claimed cell is a non-fatal miss; a correct
// claim marks the cell, reveals the item, and recomputes every score.
func (b *Bingo) Claim(player, cell int) (ClaimResult, error) {
	if b.CurrentCell < 0 {
		return ClaimResult{}, ErrNoCurrentItem
	}
	if b.Revealed {
		return ClaimResult{}, ErrAlreadyRevealed
	}
	if cell < 0 || cell >= len(b.Card) {
		return ClaimResult{}, ErrInvalidCell
	}
	if player < 0 || player >= b.NumPlayers {
		return ClaimResult{}, ErrInvalidPlayer
	}

	if cell != b.CurrentCell {
		return ClaimResult{Correct: false, Message: "that is not the current song"}, nil
	}
	if b.Card[cell].ClaimedBy != nil {
		return ClaimResult{Correct: false, Message: "that cell is already claimed"}, nil
	}

	p := player
	b.Card[cell].ClaimedBy = &p
	b.Revealed = true
	return ClaimResult{
		Correct: true,
		CellIdx: cell,
		Player:  player,
		Scores:  b.Scores(),
	}, nil
}

// Reveal marks the active song revealed without anyone claiming it (skip).
func (b *Bingo) Reveal() (int, catalog.Song, error) {
	if b.CurrentCell < 0 {
		return 0, catalog.Song{}, ErrNoCurrentItem
	}
	b.Revealed = true
	return b.CurrentCell, b.Card[b.CurrentCell].Song, nil
}

// Scores counts each player's claimed cells.
func (b *Bingo) Scores() []int {
	scores := zeros(b.NumPlayers)
	for _, cell := range b.Card {
		if cell.ClaimedBy != nil {
			scores[*cell.ClaimedBy]++
		}
	}
	return scores
}

// CurrentSong returns the active song, or nil when none is active.
func (b *Bingo) CurrentSong() *catalog.Song {
	if b.CurrentCell < 0 {
		return nil
	}
	song := b.Card[b.CurrentCell].Song
	return &song
}
