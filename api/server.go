package api

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/tvdberg/partyhub/catalog"
	"github.com/tvdberg/partyhub/game/session"
	"github.com/tvdberg/partyhub/transport/websocket"
)

// SessionCookie is the cookie carrying the signed session token.
const SessionCookie = "partyhub_sid"

// Server is the REST API server.
type Server struct {
	catalog *catalog.Catalog
	store   *session.Store
	hub     *websocket.Hub
	router  *mux.Router
	handler http.Handler
	log     zerolog.Logger
}

// NewServer wires the router, middleware, and all game routes.
func NewServer(cat *catalog.Catalog, store *session.Store, hub *websocket.Hub, log zerolog.Logger) *Server {
	s := &Server{
		catalog: cat,
		store:   store,
		hub:     hub,
		router:  mux.NewRouter(),
		log:     log,
	}

	s.setupRoutes()
	s.handler = cors.New(cors.Options{
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
		AllowOriginFunc:  func(origin string) bool { return true },
	}).Handler(securityHeaders(s.router))
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Word-reveal games (hints, pictionary).
	api.HandleFunc("/start", s.withSession(s.handleWordsStart)).Methods("POST")
	api.HandleFunc("/next", s.withSession(s.rateLimited(s.handleWordsNext))).Methods("POST")
	api.HandleFunc("/reset_used", s.withSession(s.handleWordsResetUsed)).Methods("POST")
	api.HandleFunc("/categories", s.handleCategories).Methods("GET")

	// Year guessing.
	api.HandleFunc("/gty/start", s.withSession(s.handleGTYStart)).Methods("POST")
	api.HandleFunc("/gty/state", s.withSession(s.handleGTYState)).Methods("GET")
	api.HandleFunc("/gty/next", s.withSession(s.rateLimited(s.handleGTYNext))).Methods("POST")
	api.HandleFunc("/gty/reveal", s.withSession(s.handleGTYReveal)).Methods("POST")
	api.HandleFunc("/gty/award", s.withSession(s.handleGTYAward)).Methods("POST")
	api.HandleFunc("/gty/undo", s.withSession(s.handleGTYUndo)).Methods("POST")
	api.HandleFunc("/gty/jeton", s.withSession(s.handleGTYJeton)).Methods("POST")

	// Thirty seconds.
	api.HandleFunc("/ts/start", s.withSession(s.handleTSStart)).Methods("POST")
	api.HandleFunc("/ts/state", s.withSession(s.handleTSState)).Methods("GET")
	api.HandleFunc("/ts/roll", s.withSession(s.handleTSRoll)).Methods("POST")
	api.HandleFunc("/ts/draw", s.withSession(s.handleTSDraw)).Methods("POST")
	api.HandleFunc("/ts/score", s.withSession(s.handleTSScore)).Methods("POST")
	api.HandleFunc("/ts/undo", s.withSession(s.handleTSUndo)).Methods("POST")

	// Taboo.
	api.HandleFunc("/taboo/start", s.withSession(s.handleTabooStart)).Methods("POST")
	api.HandleFunc("/taboo/state", s.withSession(s.handleTabooState)).Methods("GET")
	api.HandleFunc("/taboo/draw", s.withSession(s.handleTabooDraw)).Methods("POST")
	api.HandleFunc("/taboo/correct", s.withSession(s.handleTabooCorrect)).Methods("POST")
	api.HandleFunc("/taboo/wrong", s.withSession(s.handleTabooWrong)).Methods("POST")
	api.HandleFunc("/taboo/end_turn", s.withSession(s.handleTabooEndTurn)).Methods("POST")
	api.HandleFunc("/taboo/undo", s.withSession(s.handleTabooUndo)).Methods("POST")

	// Music bingo.
	api.HandleFunc("/bingo/start", s.withSession(s.handleBingoStart)).Methods("POST")
	api.HandleFunc("/bingo/state", s.withSession(s.handleBingoState)).Methods("GET")
	api.HandleFunc("/bingo/next_song", s.withSession(s.handleBingoNextSong)).Methods("POST")
	api.HandleFunc("/bingo/claim", s.withSession(s.handleBingoClaim)).Methods("POST")
	api.HandleFunc("/bingo/reveal", s.withSession(s.handleBingoReveal)).Methods("POST")

	// Bluff.
	api.HandleFunc("/bluff/start", s.withSession(s.handleBluffStart)).Methods("POST")
	api.HandleFunc("/bluff/state", s.withSession(s.handleBluffState)).Methods("GET")
	api.HandleFunc("/bluff/next", s.withSession(s.handleBluffNext)).Methods("POST")
	api.HandleFunc("/bluff/vote", s.withSession(s.handleBluffVote)).Methods("POST")
	api.HandleFunc("/bluff/reveal", s.withSession(s.handleBluffReveal)).Methods("POST")
	api.HandleFunc("/bluff/undo", s.withSession(s.handleBluffUndo)).Methods("POST")

	// Estimates.
	api.HandleFunc("/estimate/start", s.withSession(s.handleEstimateStart)).Methods("POST")
	api.HandleFunc("/estimate/state", s.withSession(s.handleEstimateState)).Methods("GET")
	api.HandleFunc("/estimate/next", s.withSession(s.handleEstimateNext)).Methods("POST")
	api.HandleFunc("/estimate/guess", s.withSession(s.handleEstimateGuess)).Methods("POST")
	api.HandleFunc("/estimate/reveal", s.withSession(s.handleEstimateReveal)).Methods("POST")
	api.HandleFunc("/estimate/undo", s.withSession(s.handleEstimateUndo)).Methods("POST")

	// Who am I.
	api.HandleFunc("/whoami/start", s.withSession(s.handleWhoAmIStart)).Methods("POST")
	api.HandleFunc("/whoami/next", s.withSession(s.handleWhoAmINext)).Methods("POST")

	// This or that.
	api.HandleFunc("/tot/next", s.withSession(s.handleThisOrThatNext)).Methods("POST")
	api.HandleFunc("/tot/reset", s.withSession(s.handleThisOrThatReset)).Methods("POST")

	s.router.HandleFunc("/qr/{filename}", s.handleQR).Methods("GET")
	s.router.HandleFunc("/ws", s.handleWebSocket)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods("GET")
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "same-origin")
		next.ServeHTTP(w, r)
	})
}

// sessionHandler is an http handler that additionally receives the locked
// session of the calling player.
type sessionHandler func(w http.ResponseWriter, r *http.Request, sess *session.Session)

// withSession resolves the cookie to a session, setting a fresh cookie when
// one is minted, and holds the session lock for the duration of the handler.
func (s *Server) withSession(h sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := ""
		if c, err := r.Cookie(SessionCookie); err == nil {
			token = c.Value
		}

		sess, outToken, minted, err := s.store.Ensure(token)
		if err != nil {
			s.log.Error().Err(err).Msg("session ensure")
			respondError(w, http.StatusInternalServerError, "session failure")
			return
		}
		if minted {
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    outToken,
				Path:     "/",
				MaxAge:   int(s.store.TTL().Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		sess.Mu.Lock()
		defer sess.Mu.Unlock()
		h(w, r, sess)
	}
}

// rateLimited rejects with 429 when the session's bucket is empty. Applied
// to the draw actions, the highest-frequency mutators.
func (s *Server) rateLimited(h sessionHandler) sessionHandler {
	return func(w http.ResponseWriter, r *http.Request, sess *session.Session) {
		if !sess.Bucket.Allow(s.store.Now()) {
			respondError(w, http.StatusTooManyRequests, "too many draws, slow down")
			return
		}
		h(w, r, sess)
	}
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondEmptyPool is the exhaustion signal: no body, just the marker
// header, so clients can tell "nothing left" apart from an error.
func respondEmptyPool(w http.ResponseWriter) {
	w.Header().Set("X-Empty-Pool", "true")
	w.WriteHeader(http.StatusNoContent)
}

func decodeBody(w http.ResponseWriter, r *http.Request, into interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// qrFilenamePattern allow-lists the QR filenames the catalog generates: a
// single png path element, no separators.
var qrFilenamePattern = regexp.MustCompile(`^[^/\\]+\.png$`)

// handleQR serves a song's QR image. The filename is matched against an
// allow-list and the resolved path is checked to stay under the QR dir, so
// traversal sequences can never escape it.
func (s *Server) handleQR(w http.ResponseWriter, r *http.Request) {
	filename := mux.Vars(r)["filename"]
	if !qrFilenamePattern.MatchString(filename) || strings.Contains(filename, "..") {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	base, err := filepath.Abs(s.catalog.QRDir)
	if err != nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	path, err := filepath.Abs(filepath.Join(base, filename))
	if err != nil || !strings.HasPrefix(path, base+string(filepath.Separator)) {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	if _, err := os.Stat(path); err != nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	http.ServeFile(w, r, path)
}

// handleWebSocket joins a spectator screen to its session's room. The
// session cookie identifies the room; no cookie means nothing to watch.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		respondError(w, http.StatusBadRequest, "session cookie required")
		return
	}
	sess, ok := s.store.Lookup(c.Value)
	if !ok {
		respondError(w, http.StatusBadRequest, "unknown session")
		return
	}
	s.hub.ServeWS(w, r, sess.ID)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
