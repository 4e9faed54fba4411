package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tvdberg/partyhub/catalog"
	"github.com/tvdberg/partyhub/game/session"
	"github.com/tvdberg/partyhub/transport/websocket"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	return &catalog.Catalog{
		Words: map[string]map[string][]string{
			catalog.GameHints: {
				"animals": {"olifant", "giraffe", "zebra"},
				"movies":  {"inception", "casablanca"},
			},
			catalog.GamePictionary: {
				"objects": {"chair", "lamp"},
			},
		},
		Meta: map[string]map[string]catalog.Meta{
			catalog.GamePictionary: {
				"objects": {Label: "Objects", Color: "#FF8800"},
			},
		},
		WordCategory: map[string]map[string]string{
			catalog.GamePictionary: {
				"chair": "objects",
				"lamp":  "objects",
			},
		},
		Songs: map[string][]catalog.Song{
			"top2000": {
				{Artist: "Queen", Title: "Bohemian Rhapsody", Year: 1975, Position: 1, Origin: "top2000", SpotifyLink: "https://open.spotify.com/track/x"},
				{Artist: "Eagles", Title: "Hotel California", Year: 1977, Position: 2, Origin: "top2000"},
			},
		},
		MaxPos:     map[string]int{"top2000": 100},
		TimerWords: []string{"a", "b", "c", "d", "e", "f"},
		TabooCards: []catalog.TabooCard{
			{Word: "beach", Taboo: []string{"sand", "sea", "sun", "swim", "wave"}},
		},
		Persons:    map[string][]string{"musicians": {"Elvis Presley", "Freddie Mercury"}},
		PersonMeta: map[string]string{"musicians": "Musicians"},
		Dilemmas:   []catalog.Dilemma{{OptionA: "Coffee", OptionB: "Tea"}},
		Statements: []catalog.Statement{{Statement: "Honey never spoils", Answer: true}},
		Questions:  []catalog.Question{{Question: "Keys on a piano?", Answer: 88}},
		QRDir:      t.TempDir(),
	}
}

type testServer struct {
	*Server
	cookie *http.Cookie
	clock  *clockwork.FakeClock
}

func newTestServer(t *testing.T, rateCapacity int) *testServer {
	t.Helper()
	clock := clockwork.NewFakeClock()
	store := session.NewStore(session.StoreConfig{
		Secret:        []byte("test-secret"),
		TTL:           8 * time.Hour,
		SweepInterval: 5 * time.Minute,
		RateCapacity:  rateCapacity,
		Clock:         clock,
		Seed:          func() int64 { return 1 },
	})
	hub := websocket.NewHub(zerolog.Nop())
	return &testServer{
		Server: NewServer(testCatalog(t), store, hub, zerolog.Nop()),
		clock:  clock,
	}
}

// do issues a request, carrying the session cookie across calls the way a
// browser would.
func (ts *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if ts.cookie != nil {
		req.AddCookie(ts.cookie)
	}

	w := httptest.NewRecorder()
	ts.ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookie {
			ts.cookie = c
		}
	}
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, 10)
	w := ts.do(t, "GET", "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode(t, w)["status"])
}

func TestWords_StartAndNext(t *testing.T) {
	ts := newTestServer(t, 10)

	w := ts.do(t, "POST", "/api/start", map[string]interface{}{
		"game":       catalog.GameHints,
		"categories": []string{"animals"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, ts.cookie, "first contact should set the session cookie")
	assert.True(t, ts.cookie.HttpOnly)

	seen := make(map[string]bool)
	for i := 0; i < 3; i++ {
		w = ts.do(t, "POST", "/api/next", nil)
		require.Equal(t, http.StatusOK, w.Code)
		word := decode(t, w)["word"].(string)
		assert.False(t, seen[word], "word %q repeated", word)
		seen[word] = true
	}

	// Pool of 3 is drained: exhaustion marker, no error body.
	w = ts.do(t, "POST", "/api/next", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "true", w.Header().Get("X-Empty-Pool"))
	assert.Empty(t, w.Body.Bytes())

	// Reset makes the same pool drawable again.
	w = ts.do(t, "POST", "/api/reset_used", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = ts.do(t, "POST", "/api/next", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWords_NextWithoutStart(t *testing.T) {
	ts := newTestServer(t, 10)
	w := ts.do(t, "POST", "/api/next", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, decode(t, w)["error"])
}

func TestWords_PictionaryAttachesMeta(t *testing.T) {
	ts := newTestServer(t, 10)

	w := ts.do(t, "POST", "/api/start", map[string]interface{}{
		"game":       catalog.GamePictionary,
		"categories": []string{"all"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, "POST", "/api/next", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "Objects", resp["category"])
	assert.Equal(t, "#FF8800", resp["color"])
}

func TestWords_RateLimit(t *testing.T) {
	ts := newTestServer(t, 3)

	w := ts.do(t, "POST", "/api/start", map[string]interface{}{
		"game":       catalog.GameHints,
		"categories": []string{"all"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	for i := 0; i < 3; i++ {
		w = ts.do(t, "POST", "/api/next", nil)
		require.Equal(t, http.StatusOK, w.Code, "draw %d", i)
	}
	w = ts.do(t, "POST", "/api/next", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// A fresh window restores capacity.
	ts.clock.Advance(61 * time.Second)
	w = ts.do(t, "POST", "/api/next", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCategories(t *testing.T) {
	ts := newTestServer(t, 10)

	w := ts.do(t, "GET", "/api/categories?game=hints", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	categories := resp["categories"].([]interface{})
	require.Len(t, categories, 2)
	first := categories[0].(map[string]interface{})
	assert.Equal(t, "animals", first["name"])
	assert.Equal(t, float64(3), first["count"])

	w = ts.do(t, "GET", "/api/categories?game=nope", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGuessYear_FullRound(t *testing.T) {
	ts := newTestServer(t, 10)

	w := ts.do(t, "POST", "/api/gty/start", map[string]interface{}{
		"num_teams": 2,
		"threshold": 5,
		"origins":   []string{"all"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, "POST", "/api/gty/next", nil)
	require.Equal(t, http.StatusOK, w.Code)
	song := decode(t, w)["song"].(map[string]interface{})
	assert.NotContains(t, song, "artist", "hidden song must not leak the answer")
	assert.NotContains(t, song, "year")

	// Award before reveal is a validation failure.
	w = ts.do(t, "POST", "/api/gty/award", map[string]interface{}{"team": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, "POST", "/api/gty/reveal", nil)
	require.Equal(t, http.StatusOK, w.Code)
	revealed := decode(t, w)["song"].(map[string]interface{})
	assert.NotEmpty(t, revealed["artist"])
	assert.NotZero(t, revealed["year"])

	w = ts.do(t, "POST", "/api/gty/award", map[string]interface{}{"team": 0})
	require.Equal(t, http.StatusOK, w.Code)
	scores := decode(t, w)["scores"].([]interface{})
	assert.Equal(t, float64(1), scores[0])

	w = ts.do(t, "POST", "/api/gty/undo", nil)
	require.Equal(t, http.StatusOK, w.Code)
	state := decode(t, w)
	assert.Equal(t, float64(0), state["scores"].([]interface{})[0])

	// Two songs in the pool; drain and check the exhaustion marker.
	w = ts.do(t, "POST", "/api/gty/next", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = ts.do(t, "POST", "/api/gty/next", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "true", w.Header().Get("X-Empty-Pool"))
}

func TestGuessYear_StateRequiresStart(t *testing.T) {
	ts := newTestServer(t, 10)
	w := ts.do(t, "GET", "/api/gty/state", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestThirtySeconds_Flow(t *testing.T) {
	ts := newTestServer(t, 10)

	w := ts.do(t, "POST", "/api/ts/start", map[string]interface{}{
		"num_teams":    2,
		"finish_score": 30,
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Draw before roll is rejected.
	w = ts.do(t, "POST", "/api/ts/draw", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, "POST", "/api/ts/roll", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, "POST", "/api/ts/draw", nil)
	require.Equal(t, http.StatusOK, w.Code)
	words := decode(t, w)["words"].([]interface{})
	assert.Len(t, words, 5)

	w = ts.do(t, "POST", "/api/ts/score", map[string]interface{}{"correct": 4})
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, "POST", "/api/ts/undo", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTaboo_Flow(t *testing.T) {
	ts := newTestServer(t, 10)

	w := ts.do(t, "POST", "/api/taboo/start", map[string]interface{}{
		"num_teams":    2,
		"finish_score": 20,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, "POST", "/api/taboo/draw", nil)
	require.Equal(t, http.StatusOK, w.Code)
	card := decode(t, w)["card"].(map[string]interface{})
	assert.Equal(t, "beach", card["word"])

	ts.do(t, "POST", "/api/taboo/correct", nil)
	ts.do(t, "POST", "/api/taboo/correct", nil)
	w = ts.do(t, "POST", "/api/taboo/wrong", nil)
	resp := decode(t, w)
	assert.Equal(t, float64(2), resp["correct"])
	assert.Equal(t, float64(1), resp["wrong"])

	w = ts.do(t, "POST", "/api/taboo/end_turn", nil)
	require.Equal(t, http.StatusOK, w.Code)
	positions := decode(t, w)["positions"].([]interface{})
	assert.Equal(t, float64(1), positions[0])
}

func TestBingo_Flow(t *testing.T) {
	ts := newTestServer(t, 10)

	w := ts.do(t, "POST", "/api/bingo/start", map[string]interface{}{
		"num_players": 2,
		"card_size":   3,
		"origins":     []string{"top2000"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	state := decode(t, w)
	card := state["card"].([]interface{})
	assert.Len(t, card, 2, "pool smaller than the card shrinks it")

	// Claim before any song is active.
	w = ts.do(t, "POST", "/api/bingo/claim", map[string]interface{}{"player": 0, "cell": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, "POST", "/api/bingo/next_song", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, "GET", "/api/bingo/state", nil)
	require.Equal(t, http.StatusOK, w.Code)
	state = decode(t, w)
	current := state["current_song"].(map[string]interface{})

	// Find the current song's cell and claim it.
	cellIdx := -1
	for i, c := range state["card"].([]interface{}) {
		song := c.(map[string]interface{})["song"].(map[string]interface{})
		if song["title"] == current["title"] {
			cellIdx = i
		}
	}
	require.NotEqual(t, -1, cellIdx)

	w = ts.do(t, "POST", "/api/bingo/claim", map[string]interface{}{"player": 1, "cell": cellIdx})
	require.Equal(t, http.StatusOK, w.Code)
	claim := decode(t, w)
	assert.Equal(t, true, claim["correct"])

	// Drain the two-cell play order.
	ts.do(t, "POST", "/api/bingo/next_song", nil)
	w = ts.do(t, "POST", "/api/bingo/next_song", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "true", w.Header().Get("X-Empty-Pool"))
}

func TestBluff_Flow(t *testing.T) {
	ts := newTestServer(t, 10)

	w := ts.do(t, "POST", "/api/bluff/start", map[string]interface{}{
		"num_teams": 2,
		"threshold": 5,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, "POST", "/api/bluff/next", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Honey never spoils", decode(t, w)["statement"])

	// State hides the answer while the round is open.
	w = ts.do(t, "GET", "/api/bluff/state", nil)
	stmt := decode(t, w)["statement"].(map[string]interface{})
	assert.NotContains(t, stmt, "answer")

	w = ts.do(t, "POST", "/api/bluff/vote", map[string]interface{}{"team": 0, "vote": true})
	require.Equal(t, http.StatusOK, w.Code)
	w = ts.do(t, "POST", "/api/bluff/vote", map[string]interface{}{"team": 1, "vote": false})
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, "POST", "/api/bluff/reveal", nil)
	require.Equal(t, http.StatusOK, w.Code)
	result := decode(t, w)
	assert.Equal(t, true, result["answer"])
	awarded := result["awarded"].([]interface{})
	require.Len(t, awarded, 1)
	assert.Equal(t, float64(0), awarded[0])

	w = ts.do(t, "POST", "/api/bluff/undo", nil)
	require.Equal(t, http.StatusOK, w.Code)
	scores := decode(t, w)["scores"].([]interface{})
	assert.Equal(t, float64(0), scores[0])
}

func TestEstimate_Flow(t *testing.T) {
	ts := newTestServer(t, 10)

	w := ts.do(t, "POST", "/api/estimate/start", map[string]interface{}{
		"num_teams": 2,
		"threshold": 5,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, "POST", "/api/estimate/next", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, "POST", "/api/estimate/guess", map[string]interface{}{"team": 0, "value": 90})
	require.Equal(t, http.StatusOK, w.Code)
	w = ts.do(t, "POST", "/api/estimate/guess", map[string]interface{}{"team": 1, "value": 10})
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, "POST", "/api/estimate/reveal", nil)
	require.Equal(t, http.StatusOK, w.Code)
	result := decode(t, w)
	assert.Equal(t, float64(88), result["answer"])
	awarded := result["awarded"].([]interface{})
	require.Len(t, awarded, 1)
	assert.Equal(t, float64(0), awarded[0])
}

func TestWhoAmI_Flow(t *testing.T) {
	ts := newTestServer(t, 10)

	w := ts.do(t, "POST", "/api/whoami/start", map[string]interface{}{
		"categories": []string{"musicians"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	seen := make(map[string]bool)
	for i := 0; i < 2; i++ {
		w = ts.do(t, "POST", "/api/whoami/next", nil)
		require.Equal(t, http.StatusOK, w.Code)
		person := decode(t, w)["person"].(string)
		assert.False(t, seen[person])
		seen[person] = true
	}

	w = ts.do(t, "POST", "/api/whoami/next", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "true", w.Header().Get("X-Empty-Pool"))
}

func TestThisOrThat_Flow(t *testing.T) {
	ts := newTestServer(t, 10)

	w := ts.do(t, "POST", "/api/tot/next", nil)
	require.Equal(t, http.StatusOK, w.Code)
	dilemma := decode(t, w)["dilemma"].(map[string]interface{})
	assert.Equal(t, "Coffee", dilemma["option_a"])

	w = ts.do(t, "POST", "/api/tot/next", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = ts.do(t, "POST", "/api/tot/reset", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = ts.do(t, "POST", "/api/tot/next", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestQR_ServesAndRejectsTraversal(t *testing.T) {
	ts := newTestServer(t, 10)

	png := []byte("\x89PNG\r\n\x1a\nfake")
	require.NoError(t, os.WriteFile(filepath.Join(ts.catalog.QRDir, "Queen_BohemianRhapsody.png"), png, 0o644))

	w := ts.do(t, "GET", "/qr/Queen_BohemianRhapsody.png", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	w = ts.do(t, "GET", "/qr/missing.png", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, "GET", "/qr/..%2F..%2Fetc%2Fpasswd.png", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, "GET", "/qr/secret.txt", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSecurityHeaders(t *testing.T) {
	ts := newTestServer(t, 10)
	w := ts.do(t, "GET", "/healthz", nil)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}

func TestSessionCookie_Persists(t *testing.T) {
	ts := newTestServer(t, 10)

	ts.do(t, "POST", "/api/start", map[string]interface{}{
		"game":       catalog.GameHints,
		"categories": []string{"animals"},
	})
	first := ts.cookie
	require.NotNil(t, first)

	// Subsequent calls keep the same session; no new cookie is set.
	ts.do(t, "POST", "/api/next", nil)
	assert.Equal(t, first.Value, ts.cookie.Value)
}
