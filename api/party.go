package api

import (
	"net/http"

	"github.com/tvdberg/partyhub/catalog"
	"github.com/tvdberg/partyhub/game/engine"
	"github.com/tvdberg/partyhub/game/session"
)

// Handlers for the card-walk party games: who-am-I and this-or-that.

func (s *Server) handleWhoAmIStart(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req struct {
		Categories []string `json:"categories"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	categories := catalog.ResolveSelection(req.Categories, s.catalog.Persons)
	if len(categories) == 0 {
		respondError(w, http.StatusBadRequest, "no valid categories selected")
		return
	}

	game, err := engine.NewWhoAmI(sess.RNG, s.catalog.Persons, categories)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess.Game = catalog.GameWhoAmI
	sess.WhoAmI = game
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"categories": categories,
		"remaining":  game.Remaining(),
	})
}

func (s *Server) handleWhoAmINext(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if sess.WhoAmI == nil {
		respondError(w, http.StatusBadRequest, "start a game first")
		return
	}

	person, ok := sess.WhoAmI.Next()
	if !ok {
		respondEmptyPool(w)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"person":    person,
		"remaining": sess.WhoAmI.Remaining(),
	})
}

func (s *Server) handleThisOrThatNext(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if sess.ThisOrThat == nil {
		game, err := engine.NewThisOrThat(sess.RNG, len(s.catalog.Dilemmas))
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		sess.ThisOrThat = game
	}

	dilemma, ok := sess.ThisOrThat.Next(s.catalog.Dilemmas)
	if !ok {
		respondEmptyPool(w)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"dilemma": dilemma})
}

func (s *Server) handleThisOrThatReset(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if sess.ThisOrThat == nil {
		respondError(w, http.StatusBadRequest, "nothing to reset")
		return
	}
	sess.ThisOrThat.Reset(sess.RNG)
	respondJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}
