package api

import (
	"net/http"
	"sort"

	"github.com/tvdberg/partyhub/catalog"
	"github.com/tvdberg/partyhub/game/draw"
	"github.com/tvdberg/partyhub/game/engine"
	"github.com/tvdberg/partyhub/game/session"
)

// Word-reveal handlers shared by hints and pictionary. The session carries
// the active game and category selection; draws are tracked per pool
// fingerprint so changing the selection starts a fresh used set.

type wordsStartRequest struct {
	Game       string   `json:"game"`
	Categories []string `json:"categories"`
}

func (s *Server) handleWordsStart(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req wordsStartRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !catalog.ValidGames[req.Game] {
		respondError(w, http.StatusBadRequest, "unknown game")
		return
	}

	lists, ok := s.catalog.Words[req.Game]
	if !ok {
		respondError(w, http.StatusBadRequest, "game has no word lists")
		return
	}
	categories := catalog.ResolveSelection(req.Categories, lists)
	if len(categories) == 0 {
		respondError(w, http.StatusBadRequest, "no valid categories selected")
		return
	}

	sess.Game = req.Game
	sess.Categories = categories
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"game":       sess.Game,
		"categories": sess.Categories,
	})
}

func (s *Server) handleWordsNext(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if sess.Game == "" || len(sess.Categories) == 0 {
		respondError(w, http.StatusBadRequest, "start a game first")
		return
	}

	pool := s.catalog.WordPool(sess.Game, sess.Categories)
	used := sess.UsedFor(draw.NewFingerprint(sess.Game, sess.Categories))

	word, ok := engine.NextWord(sess.RNG, pool, used)
	if !ok {
		respondEmptyPool(w)
		return
	}

	resp := map[string]interface{}{
		"word":      word,
		"remaining": len(pool) - used.Len(),
	}
	if meta, ok := s.catalog.CategoryMeta(sess.Game, word); ok {
		resp["category"] = meta.Label
		resp["color"] = meta.Color
	}
	s.hub.Broadcast(sess.ID, sess.Game, resp)
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWordsResetUsed(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if sess.Game == "" || len(sess.Categories) == 0 {
		respondError(w, http.StatusBadRequest, "start a game first")
		return
	}

	sess.UsedFor(draw.NewFingerprint(sess.Game, sess.Categories)).Reset()
	respondJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	game := r.URL.Query().Get("game")
	lists, ok := s.catalog.Words[game]
	if !ok {
		respondError(w, http.StatusBadRequest, "unknown game")
		return
	}

	type category struct {
		Name  string `json:"name"`
		Label string `json:"label"`
		Color string `json:"color,omitempty"`
		Count int    `json:"count"`
	}
	categories := make([]category, 0, len(lists))
	for name, items := range lists {
		c := category{Name: name, Label: catalog.TitleLabel(name), Count: len(items)}
		if m, ok := s.catalog.Meta[game][name]; ok {
			c.Label = m.Label
			c.Color = m.Color
		}
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	respondJSON(w, http.StatusOK, map[string]interface{}{"game": game, "categories": categories})
}
