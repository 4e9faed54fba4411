package api

import (
	"net/http"

	"github.com/tvdberg/partyhub/catalog"
	"github.com/tvdberg/partyhub/game/draw"
	"github.com/tvdberg/partyhub/game/engine"
	"github.com/tvdberg/partyhub/game/session"
)

// Year-guessing handlers. The hidden song is only ever sent as its QR and
// streaming links; artist, title, and year stay server-side until reveal.

type gtyStartRequest struct {
	NumTeams   int      `json:"num_teams"`
	Threshold  int      `json:"threshold"`
	TeamNames  []string `json:"team_names"`
	Difficulty string   `json:"difficulty"`
	Origins    []string `json:"origins"`
}

func (s *Server) handleGTYStart(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req gtyStartRequest
	if !decodeBody(w, r, &req) {
		return
	}

	origins := catalog.ResolveSelection(req.Origins, s.catalog.Songs)
	if len(origins) == 0 {
		respondError(w, http.StatusBadRequest, "no valid origins selected")
		return
	}

	sess.Game = catalog.GameGuessYear
	sess.Categories = origins
	sess.GuessYear = engine.NewGuessYear(engine.GuessYearConfig{
		NumTeams:   req.NumTeams,
		Threshold:  req.Threshold,
		TeamNames:  req.TeamNames,
		Difficulty: req.Difficulty,
	})
	s.respondGTYState(w, sess)
}

func (s *Server) handleGTYState(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if sess.GuessYear == nil {
		respondError(w, http.StatusBadRequest, "start a game first")
		return
	}
	s.respondGTYState(w, sess)
}

func (s *Server) respondGTYState(w http.ResponseWriter, sess *session.Session) {
	respondJSON(w, http.StatusOK, s.gtyState(sess))
}

func (s *Server) gtyState(sess *session.Session) map[string]interface{} {
	g := sess.GuessYear
	state := map[string]interface{}{
		"team_names": g.TeamNames,
		"scores":     g.Scores,
		"team_years": g.TeamYears,
		"jetons":     g.Jetons,
		"threshold":  g.Threshold,
		"difficulty": g.Difficulty,
		"round":      g.RoundNumber,
		"revealed":   g.Revealed,
		"winner":     g.Winner,
	}
	if g.CurrentSong != nil {
		if g.Revealed {
			state["current_song"] = g.CurrentSong
		} else {
			state["current_song"] = hiddenSong(*g.CurrentSong)
		}
	}
	return state
}

// hiddenSong is the pre-reveal view: enough to play the song, nothing that
// gives the answer away.
func hiddenSong(song catalog.Song) map[string]interface{} {
	return map[string]interface{}{
		"qr_file":      song.QRFile,
		"youtube_link": song.YoutubeLink,
		"spotify_link": song.SpotifyLink,
	}
}

func (s *Server) handleGTYNext(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if sess.GuessYear == nil {
		respondError(w, http.StatusBadRequest, "start a game first")
		return
	}

	pool := s.catalog.SongPool(sess.Categories)
	used := sess.UsedFor(draw.NewFingerprint(catalog.GameGuessYear, sess.Categories))

	song, ok, err := sess.GuessYear.Next(sess.RNG, pool, s.catalog.MaxPos, used)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !ok {
		respondEmptyPool(w)
		return
	}

	resp := map[string]interface{}{
		"round": sess.GuessYear.RoundNumber,
		"song":  hiddenSong(song),
	}
	s.hub.Broadcast(sess.ID, catalog.GameGuessYear, s.gtyState(sess))
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGTYReveal(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if sess.GuessYear == nil {
		respondError(w, http.StatusBadRequest, "start a game first")
		return
	}

	song, err := sess.GuessYear.Reveal()
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.hub.Broadcast(sess.ID, catalog.GameGuessYear, s.gtyState(sess))
	respondJSON(w, http.StatusOK, map[string]interface{}{"song": song})
}

func (s *Server) handleGTYAward(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if sess.GuessYear == nil {
		respondError(w, http.StatusBadRequest, "start a game first")
		return
	}

	var req struct {
		Team int `json:"team"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	winner, err := sess.GuessYear.Award(req.Team)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	g := sess.GuessYear
	s.hub.Broadcast(sess.ID, catalog.GameGuessYear, s.gtyState(sess))
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"scores":     g.Scores,
		"team_years": g.TeamYears,
		"winner":     winner,
	})
}

func (s *Server) handleGTYUndo(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if sess.GuessYear == nil {
		respondError(w, http.StatusBadRequest, "start a game first")
		return
	}

	if err := sess.GuessYear.Undo(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.hub.Broadcast(sess.ID, catalog.GameGuessYear, s.gtyState(sess))
	s.respondGTYState(w, sess)
}

func (s *Server) handleGTYJeton(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if sess.GuessYear == nil {
		respondError(w, http.StatusBadRequest, "start a game first")
		return
	}

	var req struct {
		Team   int    `json:"team"`
		Action string `json:"action"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := sess.GuessYear.Jeton(req.Team, req.Action); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.hub.Broadcast(sess.ID, catalog.GameGuessYear, s.gtyState(sess))
	respondJSON(w, http.StatusOK, map[string]interface{}{"jetons": sess.GuessYear.Jetons})
}
