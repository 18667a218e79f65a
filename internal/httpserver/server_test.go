package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordgrid/internal/game"
	"github.com/robalobadob/wordgrid/internal/results"
	"github.com/robalobadob/wordgrid/internal/store"
	"github.com/robalobadob/wordgrid/internal/words"
)

func newTestServer(t *testing.T, withResults bool, mutate ...func(*Options)) *Server {
	t.Helper()
	lex, err := words.New([]string{"ab", "cd", "ac", "bd"}, 2, words.WithSelector(words.First()))
	require.NoError(t, err)

	var res *results.Store
	if withResults {
		res, err = results.Open(context.Background(), filepath.Join(t.TempDir(), "results.db"))
		require.NoError(t, err)
		t.Cleanup(func() { _ = res.Close() })
	}
	opts := Options{
		SessionSecret: "test_secret",
		DailySalt:     "salt",
		NewRand:       func() *rand.Rand { return rand.New(rand.NewPCG(1, 2)) },
	}
	for _, m := range mutate {
		m(&opts)
	}
	return New(store.NewMemoryStore(), lex, res, opts)
}

func do(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func newGame(t *testing.T, s *Server, body any) gameRes {
	t.Helper()
	rec := do(t, s, http.MethodPost, "/game/new", "", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out gameRes
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.NotEmpty(t, out.Token)
	return out
}

func move(t *testing.T, s *Server, token string, row, col int, letter string) *httptest.ResponseRecorder {
	t.Helper()
	return do(t, s, http.MethodPost, "/game/move", token, moveReq{Row: row, Col: col, Letter: letter})
}

func decodeMove(t *testing.T, rec *httptest.ResponseRecorder) moveRes {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out moveRes
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealthAndRoot(t *testing.T) {
	s := newTestServer(t, false)
	rec := do(t, s, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	rec = do(t, s, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "wordgrid")

	rec = do(t, s, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_found")
}

func TestDebugWords(t *testing.T) {
	s := newTestServer(t, false)
	rec := do(t, s, http.MethodGet, "/debug/words", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.EqualValues(t, 2, out["size"])
	assert.EqualValues(t, 4, out["words"])
	assert.Equal(t, "first", out["selection"])
	assert.Equal(t, "row-first", out["policy"])
}

func TestNewGame_SetsCookieAndEmptyBoards(t *testing.T) {
	s := newTestServer(t, false)
	rec := do(t, s, http.MethodPost, "/game/new", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var out gameRes
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.NotEmpty(t, out.GameID)
	assert.Equal(t, 2, out.View.Size)
	assert.Equal(t, game.Player1, out.View.Current)
	assert.Equal(t, game.InProgress, out.View.Outcome)
	for _, pv := range out.View.Players {
		assert.Equal(t, []string{"..", ".."}, pv.Rows)
		assert.Equal(t, 0, pv.Words)
	}

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)
	assert.Equal(t, out.Token, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	// the cookie alone is enough to fetch the game
	req := httptest.NewRequest(http.MethodGet, "/game", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), out.GameID)
}

func TestNewGame_Seeded(t *testing.T) {
	s := newTestServer(t, false)
	seed := true
	out := newGame(t, s, newGameReq{Seed: &seed})
	for _, pv := range out.View.Players {
		assert.Equal(t, 1, pv.Words)
	}
}

func TestNewGame_DailyIsSharedForTheDay(t *testing.T) {
	day := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	s := newTestServer(t, false, func(o *Options) {
		o.Now = func() time.Time { return day }
		o.NewRand = nil
	})
	a := newGame(t, s, newGameReq{Daily: true})
	b := newGame(t, s, newGameReq{Daily: true})

	assert.Equal(t, "2025-03-14", a.Daily)
	assert.NotEqual(t, a.GameID, b.GameID)
	assert.Equal(t, a.View, b.View)
	for _, pv := range a.View.Players {
		assert.Equal(t, 1, pv.Words)
	}

	rec := do(t, s, http.MethodGet, "/game", a.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"daily":"2025-03-14"`)
}

func TestNewGame_BadJSON(t *testing.T) {
	s := newTestServer(t, false)
	req := httptest.NewRequest(http.MethodPost, "/game/new", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGame_RequiresSession(t *testing.T) {
	s := newTestServer(t, false)

	rec := do(t, s, http.MethodGet, "/game", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, s, http.MethodGet, "/game", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// a token signed with another secret is rejected
	other := newTestServer(t, false, func(o *Options) { o.SessionSecret = "other" })
	foreign := newGame(t, other, nil)
	rec = do(t, s, http.MethodGet, "/game", foreign.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// valid token for a session this server does not hold
	tok, _, err := s.signSession("missing")
	require.NoError(t, err)
	rec = do(t, s, http.MethodGet, "/game", tok, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMove_FullGameIsRecorded(t *testing.T) {
	s := newTestServer(t, true)
	g := newGame(t, s, nil)

	out := decodeMove(t, move(t, s, g.Token, 0, 0, "a"))
	assert.Equal(t, game.Filled, out.Result.Kind)
	assert.Equal(t, "ab", out.Result.Word)
	assert.Equal(t, game.Player2, out.View.Current)

	out = decodeMove(t, move(t, s, g.Token, 1, 0, "C"))
	assert.Equal(t, "cd", out.Result.Word)
	assert.Equal(t, game.Player2, out.Result.Player)

	out = decodeMove(t, move(t, s, g.Token, 1, 0, "c"))
	assert.Equal(t, game.Finished, out.Result.Kind)
	assert.Equal(t, game.Player1Wins, out.Result.Outcome)
	assert.Equal(t, game.Player1Wins, out.View.Outcome)
	assert.Equal(t, 3, out.View.Moves)

	rec := move(t, s, g.Token, 0, 1, "a")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "game_over")

	rec = do(t, s, http.MethodGet, "/results", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var rr resultsRes
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rr))
	require.Len(t, rr.Recent, 1)
	assert.Equal(t, g.GameID, rr.Recent[0].GameID)
	assert.Equal(t, 2, rr.Recent[0].Player1Words)
	assert.Equal(t, 1, rr.Recent[0].Player2Words)
	assert.Equal(t, 3, rr.Recent[0].Moves)
	assert.Equal(t, map[string]int{"player1_wins": 1}, rr.Tally)
}

func TestMove_RevertKeepsTurn(t *testing.T) {
	s := newTestServer(t, false)
	g := newGame(t, s, nil)

	out := decodeMove(t, move(t, s, g.Token, 0, 0, "z"))
	assert.Equal(t, game.Reverted, out.Result.Kind)
	assert.Equal(t, game.Player1, out.View.Current)
	assert.Equal(t, []string{"..", ".."}, out.View.Players[0].Rows)
}

func TestMove_Rejections(t *testing.T) {
	s := newTestServer(t, false)
	g := newGame(t, s, nil)
	decodeMove(t, move(t, s, g.Token, 0, 0, "a"))
	decodeMove(t, move(t, s, g.Token, 0, 0, "a")) // player 2 fills their row 0

	tests := []struct {
		name   string
		row    int
		col    int
		letter string
	}{
		{"empty letter", 1, 0, ""},
		{"two letters", 1, 0, "ab"},
		{"digit", 1, 0, "7"},
		{"off board", 2, 0, "a"},
		{"filled cell", 0, 1, "c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := move(t, s, g.Token, tt.row, tt.col, tt.letter)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "invalid_cell_state")
		})
	}

	rec := do(t, s, http.MethodGet, "/game", g.Token, nil)
	var st gameRes
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Equal(t, game.Player1, st.View.Current)
	assert.Equal(t, 2, st.View.Moves)

	req := httptest.NewRequest(http.MethodPost, "/game/move", bytes.NewBufferString("nope"))
	req.Header.Set("Authorization", "Bearer "+g.Token)
	rec = httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReset(t *testing.T) {
	s := newTestServer(t, true)
	g := newGame(t, s, nil)
	decodeMove(t, move(t, s, g.Token, 0, 0, "a"))

	rec := do(t, s, http.MethodPost, "/game/reset", g.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var out gameRes
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, g.GameID, out.GameID)
	assert.Equal(t, game.Player1, out.View.Current)
	assert.Equal(t, 0, out.View.Moves)
	assert.Equal(t, []string{"..", ".."}, out.View.Players[0].Rows)
}

func TestResults_Disabled(t *testing.T) {
	s := newTestServer(t, false)
	rec := do(t, s, http.MethodGet, "/results", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "results_disabled")
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, false, func(o *Options) { o.ClientOrigin = "http://example.test" })
	rec := do(t, s, http.MethodOptions, "/game/move", "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://example.test", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func finishTinyGame(t *testing.T, s *Server, token string) {
	t.Helper()
	decodeMove(t, move(t, s, token, 0, 0, "a"))
	decodeMove(t, move(t, s, token, 1, 0, "c"))
	out := decodeMove(t, move(t, s, token, 1, 0, "c"))
	require.Equal(t, game.Finished, out.Result.Kind)
}

func TestReset_EachFinishedRoundIsRecorded(t *testing.T) {
	s := newTestServer(t, true)
	g := newGame(t, s, nil)
	finishTinyGame(t, s, g.Token)

	rec := do(t, s, http.MethodPost, "/game/reset", g.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var reset gameRes
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reset))
	assert.Equal(t, 1, reset.Round)

	finishTinyGame(t, s, g.Token)

	rows, err := s.results.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	rounds := []int{rows[0].Round, rows[1].Round}
	assert.ElementsMatch(t, []int{0, 1}, rounds)
	for _, r := range rows {
		assert.Equal(t, g.GameID, r.GameID)
		assert.Equal(t, "player1_wins", r.Outcome)
	}
}

func TestReset_DropsDailyTag(t *testing.T) {
	s := newTestServer(t, false)
	g := newGame(t, s, newGameReq{Daily: true})
	require.NotEmpty(t, g.Daily)

	rec := do(t, s, http.MethodPost, "/game/reset", g.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodGet, "/game", g.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var st gameRes
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Empty(t, st.Daily)
	assert.Equal(t, 1, st.Round)
	for _, pv := range st.View.Players {
		assert.Equal(t, 0, pv.Words)
	}
}

func TestNewGame_FutureClockKeepsLiveSessions(t *testing.T) {
	future := time.Date(2099, 6, 1, 0, 0, 0, 0, time.UTC)
	s := newTestServer(t, false, func(o *Options) {
		o.Now = func() time.Time { return future }
	})
	first := newGame(t, s, nil)
	newGame(t, s, nil)

	rec := do(t, s, http.MethodGet, "/game", first.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
