package api

import (
	"net/http"

	"github.com/tvdberg/partyhub/catalog"
	"github.com/tvdberg/partyhub/game/engine"
	"github.com/tvdberg/partyhub/game/session"
)

func (s *Server) handleTabooStart(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req raceStartRequest
	if !decodeBody(w, r, &req) {
		return
	}

	sess.Game = catalog.GameTaboo
	sess.Taboo = engine.NewTaboo(engine.TabooConfig{
		NumTeams:    req.NumTeams,
		FinishScore: req.FinishScore,
		TeamNames:   req.TeamNames,
	})
	s.respondTabooState(w, sess)
}

func (s *Server) handleTabooState(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if sess.Taboo == nil {
		respondError(w, http.StatusBadRequest, "start a game first")
		return
	}
	s.respondTabooState(w, sess)
}

func (s *Server) respondTabooState(w http.ResponseWriter, sess *session.Session) {
	respondJSON(w, http.StatusOK, tabooState(sess.Taboo))
}

func tabooState(tb *engine.Taboo) map[string]interface{} {
	return map[string]interface{}{
		"team_names":   tb.TeamNames,
		"positions":    tb.Positions,
		"finish_score": tb.FinishScore,
		"current_team": tb.CurrentTeam,
		"current_card": tb.CurrentCard,
		"turn_active":  tb.TurnActive,
		"turn_correct": tb.TurnCorrect,
		"turn_wrong":   tb.TurnWrong,
		"round":        tb.RoundNumber,
		"winner":       tb.Winner,
	}
}

func (s *Server) handleTabooDraw(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if sess.Taboo == nil {
		respondError(w, http.StatusBadRequest, "start a game first")
		return
	}

	card, err := sess.Taboo.Draw(sess.RNG, s.catalog.TabooCards)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.hub.Broadcast(sess.ID, catalog.GameTaboo, tabooState(sess.Taboo))
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"card":  card,
		"round": sess.Taboo.RoundNumber,
	})
}

func (s *Server) handleTabooCorrect(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if sess.Taboo == nil {
		respondError(w, http.StatusBadRequest, "start a game first")
		return
	}
	correct, wrong := sess.Taboo.Correct()
	respondJSON(w, http.StatusOK, map[string]int{"correct": correct, "wrong": wrong})
}

func (s *Server) handleTabooWrong(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if sess.Taboo == nil {
		respondError(w, http.StatusBadRequest, "start a game first")
		return
	}
	correct, wrong := sess.Taboo.Wrong()
	respondJSON(w, http.StatusOK, map[string]int{"correct": correct, "wrong": wrong})
}

func (s *Server) handleTabooEndTurn(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if sess.Taboo == nil {
		respondError(w, http.StatusBadRequest, "start a game first")
		return
	}

	entry, err := sess.Taboo.EndTurn()
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	tb := sess.Taboo
	s.hub.Broadcast(sess.ID, catalog.GameTaboo, tabooState(tb))
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"turn":      entry,
		"positions": tb.Positions,
		"winner":    tb.Winner,
	})
}

func (s *Server) handleTabooUndo(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if sess.Taboo == nil {
		respondError(w, http.StatusBadRequest, "start a game first")
		return
	}

	if err := sess.Taboo.Undo(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.hub.Broadcast(sess.ID, catalog.GameTaboo, tabooState(sess.Taboo))
	s.respondTabooState(w, sess)
}
