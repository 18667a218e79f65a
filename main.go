package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordgrid/internal/config"
	"github.com/robalobadob/wordgrid/internal/game"
	"github.com/robalobadob/wordgrid/internal/httpserver"
	"github.com/robalobadob/wordgrid/internal/results"
	"github.com/robalobadob/wordgrid/internal/store"
	"github.com/robalobadob/wordgrid/internal/words"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// run wires the server and serves until it fails; deferred cleanup runs
// before main logs the error.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	sel, err := words.SelectorByName(cfg.Selection, cfg.Rand(1))
	if err != nil {
		return fmt.Errorf("SELECTION: %w", err)
	}
	lex, err := words.Open(cfg.WordsFile, cfg.BoardSize, words.WithSelector(sel))
	if err != nil {
		return fmt.Errorf("load word list %q: %w", cfg.WordsFile, err)
	}
	policy, err := game.AxisPolicyByName(cfg.Orientation)
	if err != nil {
		return fmt.Errorf("ORIENTATION: %w", err)
	}
	log.Info().Int("size", lex.Size()).Int("words", lex.Len()).Str("selection", sel.Name()).
		Str("orientation", string(policy)).Msg("lexicon ready")

	var res *results.Store
	if cfg.DBPath != "" {
		res, err = results.Open(context.Background(), cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open results db %s: %w", cfg.DBPath, err)
		}
		defer func() {
			if err := res.Close(); err != nil {
				log.Warn().Err(err).Msg("close results db")
			}
		}()
	}

	// one stream per game, all derived from RNG_SEED when it is set
	var games atomic.Uint64
	games.Store(1)
	srv := httpserver.New(store.NewMemoryStore(), lex, res, httpserver.Options{
		SessionSecret: cfg.SessionSecret,
		SessionTTL:    cfg.SessionTTL,
		ClientOrigin:  cfg.ClientOrigin,
		DailySalt:     cfg.DailySalt,
		SeedBoards:    cfg.SeedBoards,
		Policy:        policy,
		NewRand: func() *rand.Rand {
			return cfg.Rand(games.Add(1))
		},
	})
	log.Info().Str("port", cfg.Port).Msg("starting wordgrid server")
	return srv.Start(":" + cfg.Port)
}
