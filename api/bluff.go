package api

import (
	"net/http"

	"github.com/tvdberg/partyhub/catalog"
	"github.com/tvdberg/partyhub/game/engine"
	"github.com/tvdberg/partyhub/game/session"
)

type thresholdStartRequest struct {
	NumTeams  int      `json:"num_teams"`
	Threshold int      `json:"threshold"`
	TeamNames []string `json:"team_names"`
}

func (s *Server) handleBluffStart(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req thresholdStartRequest
	if !decodeBody(w, r, &req) {
		return
	}

	sess.Game = catalog.GameBluff
	sess.Bluff = engine.NewBluff(engine.BluffConfig{
		NumTeams:  req.NumTeams,
		Threshold: req.Threshold,
		TeamNames: req.TeamNames,
	})
	s.respondBluffState(w, sess)
}

func (s *Server) handleBluffState(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if sess.Bluff == nil {
		respondError(w, http.StatusBadRequest, "start a game first")
		return
	}
	s.respondBluffState(w, sess)
}

func (s *Server) respondBluffState(w http.ResponseWriter, sess *session.Session) {
	respondJSON(w, http.StatusOK, bluffState(sess.Bluff))
}

// bluffState hides the answer and explanation while the round is open.
func bluffState(bl *engine.Bluff) map[string]interface{} {
	state := map[string]interface{}{
		"team_names": bl.TeamNames,
		"scores":     bl.Scores,
		"threshold":  bl.Threshold,
		"round":      bl.RoundNumber,
		"revealed":   bl.Revealed,
		"votes":      bl.Votes,
		"winner":     bl.Winner,
	}
	if bl.Current != nil {
		if bl.Revealed {
			state["statement"] = bl.Current
		} else {
			state["statement"] = map[string]string{"statement": bl.Current.Statement}
		}
	}
	return state
}

func (s *Server) handleBluffNext(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if sess.Bluff == nil {
		respondError(w, http.StatusBadRequest, "start a game first")
		return
	}

	stmt, err := sess.Bluff.Next(sess.RNG, s.catalog.Statements)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.hub.Broadcast(sess.ID, catalog.GameBluff, bluffState(sess.Bluff))
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"statement": stmt.Statement,
		"round":     sess.Bluff.RoundNumber,
	})
}

func (s *Server) handleBluffVote(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if sess.Bluff == nil {
		respondError(w, http.StatusBadRequest, "start a game first")
		return
	}

	var req struct {
		Team int  `json:"team"`
		Vote bool `json:"vote"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := sess.Bluff.Vote(req.Team, req.Vote); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"votes": sess.Bluff.Votes})
}

func (s *Server) handleBluffReveal(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if sess.Bluff == nil {
		respondError(w, http.StatusBadRequest, "start a game first")
		return
	}

	result, err := sess.Bluff.Reveal()
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.hub.Broadcast(sess.ID, catalog.GameBluff, bluffState(sess.Bluff))
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleBluffUndo(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if sess.Bluff == nil {
		respondError(w, http.StatusBadRequest, "start a game first")
		return
	}

	if err := sess.Bluff.Undo(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.hub.Broadcast(sess.ID, catalog.GameBluff, bluffState(sess.Bluff))
	s.respondBluffState(w, sess)
}
