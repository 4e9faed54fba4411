package api

import (
	"net/http"

	"github.com/tvdberg/partyhub/catalog"
	"github.com/tvdberg/partyhub/game/engine"
	"github.com/tvdberg/partyhub/game/session"
)

type raceStartRequest struct {
	NumTeams    int      `json:"num_teams"`
	FinishScore int      `json:"finish_score"`
	TeamNames   []string `json:"team_names"`
}

func (s *Server) handleTSStart(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req raceStartRequest
	if !decodeBody(w, r, &req) {
		return
	}

	sess.Game = catalog.GameThirtySeconds
	sess.ThirtySeconds = engine.NewThirtySeconds(engine.ThirtySecondsConfig{
		NumTeams:    req.NumTeams,
		FinishScore: req.FinishScore,
		TeamNames:   req.TeamNames,
	})
	s.respondTSState(w, sess)
}

func (s *Server) handleTSState(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if sess.ThirtySeconds == nil {
		respondError(w, http.StatusBadRequest, "start a game first")
		return
	}
	s.respondTSState(w, sess)
}

func (s *Server) respondTSState(w http.ResponseWriter, sess *session.Session) {
	respondJSON(w, http.StatusOK, tsState(sess.ThirtySeconds))
}

func tsState(t *engine.ThirtySeconds) map[string]interface{} {
	state := map[string]interface{}{
		"team_names":    t.TeamNames,
		"positions":     t.Positions,
		"finish_score":  t.FinishScore,
		"current_team":  t.CurrentTeam,
		"current_words": t.CurrentWords,
		"round":         t.RoundNumber,
		"winner":        t.Winner,
	}
	if t.Handicap != nil {
		state["handicap"] = *t.Handicap
	}
	return state
}

func (s *Server) handleTSRoll(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if sess.ThirtySeconds == nil {
		respondError(w, http.StatusBadRequest, "start a game first")
		return
	}

	handicap, err := sess.ThirtySeconds.Roll(sess.RNG)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.hub.Broadcast(sess.ID, catalog.GameThirtySeconds, tsState(sess.ThirtySeconds))
	respondJSON(w, http.StatusOK, map[string]int{"handicap": handicap})
}

func (s *Server) handleTSDraw(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if sess.ThirtySeconds == nil {
		respondError(w, http.StatusBadRequest, "start a game first")
		return
	}

	words, err := sess.ThirtySeconds.DrawWords(sess.RNG, s.catalog.TimerWords)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.hub.Broadcast(sess.ID, catalog.GameThirtySeconds, tsState(sess.ThirtySeconds))
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"words": words,
		"round": sess.ThirtySeconds.RoundNumber,
	})
}

func (s *Server) handleTSScore(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if sess.ThirtySeconds == nil {
		respondError(w, http.StatusBadRequest, "start a game first")
		return
	}

	var req struct {
		Correct int `json:"correct"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	entry, err := sess.ThirtySeconds.Score(req.Correct)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	t := sess.ThirtySeconds
	s.hub.Broadcast(sess.ID, catalog.GameThirtySeconds, tsState(t))
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"turn":      entry,
		"positions": t.Positions,
		"winner":    t.Winner,
	})
}

func (s *Server) handleTSUndo(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if sess.ThirtySeconds == nil {
		respondError(w, http.StatusBadRequest, "start a game first")
		return
	}

	if err := sess.ThirtySeconds.Undo(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.hub.Broadcast(sess.ID, catalog.GameThirtySeconds, tsState(sess.ThirtySeconds))
	s.respondTSState(w, sess)
}
