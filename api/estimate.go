package api

import (
	"net/http"

	"github.com/tvdberg/partyhub/catalog"
	"github.com/tvdberg/partyhub/game/engine"
	"github.com/tvdberg/partyhub/game/session"
)

func (s *Server) handleEstimateStart(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req thresholdStartRequest
	if !decodeBody(w, r, &req) {
		return
	}

	sess.Game = catalog.GameEstimate
	sess.Estimate = engine.NewEstimate(engine.EstimateConfig{
		NumTeams:  req.NumTeams,
		Threshold: req.Threshold,
		TeamNames: req.TeamNames,
	})
	s.respondEstimateState(w, sess)
}

func (s *Server) handleEstimateState(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if sess.Estimate == nil {
		respondError(w, http.StatusBadRequest, "start a game first")
		return
	}
	s.respondEstimateState(w, sess)
}

func (s *Server) respondEstimateState(w http.ResponseWriter, sess *session.Session) {
	respondJSON(w, http.StatusOK, estimateState(sess.Estimate))
}

// estimateState hides the answer while the round is open.
func estimateState(e *engine.Estimate) map[string]interface{} {
	state := map[string]interface{}{
		"team_names": e.TeamNames,
		"scores":     e.Scores,
		"threshold":  e.Threshold,
		"round":      e.RoundNumber,
		"revealed":   e.Revealed,
		"guesses":    e.Guesses,
		"winner":     e.Winner,
	}
	if e.Current != nil {
		if e.Revealed {
			state["question"] = e.Current
		} else {
			state["question"] = map[string]string{"question": e.Current.Question}
		}
	}
	return state
}

func (s *Server) handleEstimateNext(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if sess.Estimate == nil {
		respondError(w, http.StatusBadRequest, "start a game first")
		return
	}

	q, err := sess.Estimate.Next(sess.RNG, s.catalog.Questions)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.hub.Broadcast(sess.ID, catalog.GameEstimate, estimateState(sess.Estimate))
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"question": q.Question,
		"round":    sess.Estimate.RoundNumber,
	})
}

func (s *Server) handleEstimateGuess(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if sess.Estimate == nil {
		respondError(w, http.StatusBadRequest, "start a game first")
		return
	}

	var req struct {
		Team  int     `json:"team"`
		Value float64 `json:"value"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := sess.Estimate.Guess(req.Team, req.Value); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"guesses": sess.Estimate.Guesses})
}

func (s *Server) handleEstimateReveal(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if sess.Estimate == nil {
		respondError(w, http.StatusBadRequest, "start a game first")
		return
	}

	result, err := sess.Estimate.Reveal()
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.hub.Broadcast(sess.ID, catalog.GameEstimate, estimateState(sess.Estimate))
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleEstimateUndo(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if sess.Estimate == nil {
		respondError(w, http.StatusBadRequest, "start a game first")
		return
	}

	if err := sess.Estimate.Undo(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.hub.Broadcast(sess.ID, catalog.GameEstimate, estimateState(sess.Estimate))
	s.respondEstimateState(w, sess)
}
