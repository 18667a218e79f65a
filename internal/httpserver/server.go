// internal/httpserver/server.go
//
// HTTP adapter for the word-grid engine (a browser-side presentation layer).
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs,
//     access log).
//   - Public endpoints: "/", "/health", "/debug/words", "/results".
//   - Game endpoints: POST /game/new, GET /game, POST /game/move, POST /game/reset.
//   - Finished games are appended to the results log when one is configured.
//
// Notes:
//   - Both players share one client; the session cookie binds that client to
//     exactly one game (see session.go).
//   - Engine errors map to JSON bodies {"error":"<code>","detail":"..."}.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordgrid/internal/board"
	"github.com/robalobadob/wordgrid/internal/daily"
	"github.com/robalobadob/wordgrid/internal/game"
	"github.com/robalobadob/wordgrid/internal/results"
	"github.com/robalobadob/wordgrid/internal/store"
	"github.com/robalobadob/wordgrid/internal/words"
)

// Options carries the server's tunables.
type Options struct {
	SessionSecret string
	SessionTTL    time.Duration
	ClientOrigin  string
	DailySalt     string
	SeedBoards    bool
	Policy        game.AxisPolicy
	// NewRand supplies each new engine's random source. Nil means random.
	NewRand func() *rand.Rand
	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

// Server bundles router, session store, lexicon and optional results log.
type Server struct {
	r       *chi.Mux
	store   store.Store
	lex     *words.Lexicon
	results *results.Store
	opts    Options
}

// New constructs a Server, installs middleware, and registers routes.
// res may be nil, in which case /results reports that logging is disabled.
func New(st store.Store, lex *words.Lexicon, res *results.Store, opts Options) *Server {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 24 * time.Hour
	}
	if opts.SessionSecret == "" {
		opts.SessionSecret = "dev_secret_change_me"
	}
	if opts.Policy == "" {
		opts.Policy = game.RowThenColumn
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &Server{r: chi.NewRouter(), store: st, lex: lex, results: res, opts: opts}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(accessLog)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(corsFor(opts.ClientOrigin))

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"wordgrid","endpoints":["/health","POST /game/new","GET /game","POST /game/move","POST /game/reset","/results"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"size":      s.lex.Size(),
			"words":     s.lex.Len(),
			"selection": s.lex.Selector().Name(),
			"policy":    s.opts.Policy,
			"sessions":  s.store.Len(),
		})
	})
	s.r.Get("/results", s.handleResults)

	// --- game ---
	s.r.Post("/game/new", s.handleNewGame)
	s.r.Group(func(r chi.Router) {
		r.Use(s.requireSession)
		r.Get("/game", s.handleState)
		r.Post("/game/move", s.handleMove)
		r.Post("/game/reset", s.handleReset)
	})

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", r.URL.Path)
	})
	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFor enables credentialed CORS for a single origin.
func corsFor(origin string) func(http.Handler) http.Handler {
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// accessLog writes one zerolog line per request.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Str("requestId", chimw.GetReqID(r.Context())).
			Msg("request")
	})
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	w.WriteHeader(status)
	body := map[string]string{"error": code}
	if detail != "" {
		body["detail"] = detail
	}
	_ = json.NewEncoder(w).Encode(body)
}

// ------------------------------ GAME ---------------------------------------

// newGameReq is the POST /game/new payload. All fields are optional.
type newGameReq struct {
	Seed  *bool `json:"seed"`  // opening word per player; defaults to server config
	Daily bool  `json:"daily"` // opening words shared by every game today
}

type gameRes struct {
	GameID string    `json:"gameId"`
	Round  int       `json:"round"`
	Token  string    `json:"token,omitempty"`
	Daily  string    `json:"daily,omitempty"`
	View   game.View `json:"view"`
}

// handleNewGame creates a session, optionally places opening words and
// hands back a session cookie (also echoed as a bearer token).
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_json", "")
		return
	}
	if n := s.store.Prune(r.Context(), s.opts.Now().Add(-s.opts.SessionTTL)); n > 0 {
		log.Info().Int("pruned", n).Msg("expired sessions removed")
	}

	opts := []game.Option{game.WithAxisPolicy(s.opts.Policy)}
	if s.opts.NewRand != nil {
		opts = append(opts, game.WithRand(s.opts.NewRand()))
	}
	e := game.NewEngine(s.lex, opts...)
	sess := store.NewSession(e, s.opts.Now)

	var err error
	seed := s.opts.SeedBoards
	if req.Seed != nil {
		seed = *req.Seed
	}
	switch {
	case req.Daily:
		now := s.opts.Now()
		err = e.SeedWith(daily.Rand(now, s.opts.DailySalt))
		sess.Daily = daily.DateKey(now)
	case seed:
		err = e.Seed()
	}
	if err != nil {
		log.Error().Err(err).Msg("seed boards")
		writeError(w, http.StatusInternalServerError, "seed_failed", "")
		return
	}

	if err = s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed", "")
		return
	}
	tok, exp, err := s.signSession(sess.ID)
	if err != nil {
		log.Error().Err(err).Msg("sign session")
		writeError(w, http.StatusInternalServerError, "sign_failed", "")
		return
	}
	s.setSessionCookie(w, tok, exp)
	log.Info().Str("gameId", sess.ID).Bool("daily", req.Daily).Bool("seeded", seed || req.Daily).Msg("game created")

	_ = json.NewEncoder(w).Encode(gameRes{GameID: sess.ID, Token: tok, Daily: sess.Daily, View: e.View()})
}

// handleState returns the current view.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	out := gameRes{GameID: sess.ID}
	_ = sess.With(func(e *game.Engine) error {
		out.View = e.View()
		out.Round = sess.Round
		out.Daily = sess.Daily
		return nil
	})
	_ = json.NewEncoder(w).Encode(out)
}

// moveReq is the POST /game/move payload. Letter must be a single character.
type moveReq struct {
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	Letter string `json:"letter"`
}

type moveRes struct {
	Result game.Result `json:"result"`
	View   game.View   `json:"view"`
}

// handleMove submits one letter for the active player.
func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "")
		return
	}
	if utf8.RuneCountInString(req.Letter) != 1 {
		writeError(w, http.StatusBadRequest, "invalid_cell_state", "enter exactly one letter")
		return
	}
	letter, _ := utf8.DecodeRuneInString(req.Letter)
	pos := board.Position{Row: req.Row, Col: req.Col}

	sess := sessionFrom(r.Context())
	var (
		res    game.Result
		view   game.View
		record *results.Record
	)
	err := sess.With(func(e *game.Engine) error {
		var err error
		res, err = e.SubmitMove(pos, letter)
		if err != nil {
			return err
		}
		view = e.View()
		if res.Kind == game.Finished && sess.MarkRecorded() {
			record = &results.Record{
				GameID:       sess.ID,
				Round:        sess.Round,
				BoardSize:    view.Size,
				Outcome:      string(res.Outcome),
				Player1Words: e.State().WordCount(game.Player1),
				Player2Words: e.State().WordCount(game.Player2),
				Moves:        e.Moves(),
				DailyDate:    sess.Daily,
				FinishedAt:   s.opts.Now(),
			}
		}
		return nil
	})
	switch {
	case errors.Is(err, game.ErrInvalidCellState):
		writeError(w, http.StatusBadRequest, "invalid_cell_state", err.Error())
		return
	case errors.Is(err, game.ErrGameOver):
		writeError(w, http.StatusConflict, "game_over", "")
		return
	case err != nil:
		log.Error().Err(err).Str("gameId", sess.ID).Msg("submit move")
		writeError(w, http.StatusInternalServerError, "move_failed", "")
		return
	}

	if record != nil {
		s.recordResult(r.Context(), *record)
	}
	_ = json.NewEncoder(w).Encode(moveRes{Result: res, View: view})
}

// handleReset clears both boards and starts a new round of the session.
// The daily tag is dropped since the boards no longer carry its openers.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	var (
		v     game.View
		round int
	)
	_ = sess.With(func(e *game.Engine) error {
		e.Reset()
		sess.NextRound()
		v = e.View()
		round = sess.Round
		return nil
	})
	log.Info().Str("gameId", sess.ID).Int("round", round).Msg("game reset")
	_ = json.NewEncoder(w).Encode(gameRes{GameID: sess.ID, Round: round, View: v})
}

// recordResult appends to the results log; failures are logged, not fatal.
func (s *Server) recordResult(ctx context.Context, rec results.Record) {
	log.Info().Str("gameId", rec.GameID).Int("round", rec.Round).Str("outcome", rec.Outcome).
		Int("p1", rec.Player1Words).Int("p2", rec.Player2Words).Msg("game finished")
	if s.results == nil {
		return
	}
	if err := s.results.Insert(ctx, rec); err != nil {
		log.Warn().Err(err).Str("gameId", rec.GameID).Msg("record result")
	}
}

type resultsRes struct {
	Tally  map[string]int   `json:"tally"`
	Recent []results.Record `json:"recent"`
}

// handleResults lists the latest finished games (?limit=, default 20).
func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	if s.results == nil {
		writeError(w, http.StatusNotFound, "results_disabled", "")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	recent, err := s.results.Recent(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("list results")
		writeError(w, http.StatusInternalServerError, "db_error", "")
		return
	}
	tally, err := s.results.Tally(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("tally results")
		writeError(w, http.StatusInternalServerError, "db_error", "")
		return
	}
	_ = json.NewEncoder(w).Encode(resultsRes{Tally: tally, Recent: recent})
}
