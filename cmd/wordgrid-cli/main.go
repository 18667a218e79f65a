// cmd/wordgrid-cli
//
// Two players sharing one terminal. Reads the same environment as the
// server (BOARD_SIZE, WORDS_FILE, SELECTION, ORIENTATION, SEED_BOARDS,
// RNG_SEED, DAILY_SALT); flags override the interesting ones.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordgrid/internal/config"
	"github.com/robalobadob/wordgrid/internal/daily"
	"github.com/robalobadob/wordgrid/internal/game"
	"github.com/robalobadob/wordgrid/internal/play"
	"github.com/robalobadob/wordgrid/internal/words"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read config")
	}

	size := flag.Int("size", cfg.BoardSize, "Board size and word length")
	file := flag.String("words", cfg.WordsFile, "Word list file (embedded list when empty)")
	selection := flag.String("selection", cfg.Selection, "Match selection: random or first")
	orientation := flag.String("orientation", cfg.Orientation, "Axis policy: row-first or random")
	seed := flag.Bool("seed", cfg.SeedBoards, "Place one opening word per player")
	dailyWords := flag.Bool("daily", false, "Use today's shared opening words")
	level := flag.String("log", "warn", "Log level")
	flag.Parse()

	if lvl, err := zerolog.ParseLevel(*level); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	sel, err := words.SelectorByName(*selection, cfg.Rand(1))
	if err != nil {
		log.Fatal().Err(err).Msg("bad -selection")
	}
	lex, err := words.Open(*file, *size, words.WithSelector(sel))
	if errors.Is(err, words.ErrLexiconUnavailable) {
		log.Fatal().Err(err).Int("size", *size).Msg("no words of that length")
	}
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("failed to load word list")
	}
	policy, err := game.AxisPolicyByName(*orientation)
	if err != nil {
		log.Fatal().Err(err).Msg("bad -orientation")
	}

	e := game.NewEngine(lex, game.WithAxisPolicy(policy), game.WithRand(cfg.Rand(2)))
	switch {
	case *dailyWords:
		err = e.SeedWith(daily.Rand(time.Now(), cfg.DailySalt))
	case *seed:
		err = e.Seed()
	}
	if err != nil {
		log.Fatal().Err(err).Msg("failed to place opening words")
	}

	fmt.Printf("wordgrid %dx%d: enter \"row col letter\", \"reset\" or \"quit\"\n", *size, *size)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	outcome, err := play.Run(ctx, e, play.NewText(os.Stdin, os.Stdout))
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("game aborted")
		os.Exit(1)
	}
	log.Info().Str("outcome", string(outcome)).Int("moves", e.Moves()).Msg("bye")
}
