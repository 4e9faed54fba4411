package api

import (
	"net/http"

	"github.com/tvdberg/partyhub/catalog"
	"github.com/tvdberg/partyhub/game/engine"
	"github.com/tvdberg/partyhub/game/session"
)

type bingoStartRequest struct {
	NumPlayers  int      `json:"num_players"`
	PlayerNames []string `json:"player_names"`
	CardSize    int      `json:"card_size"`
	Origins     []string `json:"origins"`
}

func (s *Server) handleBingoStart(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req bingoStartRequest
	if !decodeBody(w, r, &req) {
		return
	}

	origins := catalog.ResolveSelection(req.Origins, s.catalog.Songs)
	if len(origins) == 0 {
		respondError(w, http.StatusBadRequest, "no valid origins selected")
		return
	}

	b, err := engine.NewBingo(sess.RNG, engine.BingoConfig{
		NumPlayers:  req.NumPlayers,
		PlayerNames: req.PlayerNames,
		CardSize:    req.CardSize,
	}, s.catalog.SongPool(origins))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess.Game = catalog.GameBingo
	sess.Bingo = b
	s.respondBingoState(w, sess)
}

func (s *Server) handleBingoState(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if sess.Bingo == nil {
		respondError(w, http.StatusBadRequest, "start a game first")
		return
	}
	s.respondBingoState(w, sess)
}

func (s *Server) respondBingoState(w http.ResponseWriter, sess *session.Session) {
	respondJSON(w, http.StatusOK, bingoState(sess.Bingo))
}

func bingoState(b *engine.Bingo) map[string]interface{} {
	type cell struct {
		Song      catalog.Song `json:"song"`
		ClaimedBy *int         `json:"claimed_by"`
	}
	cells := make([]cell, len(b.Card))
	for i, c := range b.Card {
		cells[i] = cell{Song: c.Song, ClaimedBy: c.ClaimedBy}
	}

	return map[string]interface{}{
		"player_names": b.PlayerNames,
		"card_size":    b.CardSize,
		"card":         cells,
		"scores":       b.Scores(),
		"current_song": b.CurrentSong(),
		"revealed":     b.Revealed,
		"played":       b.PlayIdx + 1,
		"total":        len(b.PlayOrder),
	}
}

func (s *Server) handleBingoNextSong(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if sess.Bingo == nil {
		respondError(w, http.StatusBadRequest, "start a game first")
		return
	}

	song, ok := sess.Bingo.NextItem()
	if !ok {
		respondEmptyPool(w)
		return
	}
	s.hub.Broadcast(sess.ID, catalog.GameBingo, bingoState(sess.Bingo))
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"song":   song,
		"played": sess.Bingo.PlayIdx + 1,
		"total":  len(sess.Bingo.PlayOrder),
	})
}

func (s *Server) handleBingoClaim(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if sess.Bingo == nil {
		respondError(w, http.StatusBadRequest, "start a game first")
		return
	}

	var req struct {
		Player int `json:"player"`
		Cell   int `json:"cell"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := sess.Bingo.Claim(req.Player, req.Cell)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if result.Correct {
		s.hub.Broadcast(sess.ID, catalog.GameBingo, bingoState(sess.Bingo))
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleBingoReveal(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if sess.Bingo == nil {
		respondError(w, http.StatusBadRequest, "start a game first")
		return
	}

	cellIdx, song, err := sess.Bingo.Reveal()
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.hub.Broadcast(sess.ID, catalog.GameBingo, bingoState(sess.Bingo))
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"cell_idx": cellIdx,
		"song":     song,
	})
}
