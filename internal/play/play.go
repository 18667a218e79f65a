// internal/play/play.go
//
// The presentation boundary. A Presenter reads one letter + position per
// turn and renders state; Run drives the engine between them until the
// game ends, the input runs out or ctx is cancelled.

package play

import (
	"context"
	"errors"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordgrid/internal/board"
	"github.com/robalobadob/wordgrid/internal/game"
)

// ErrInvalidInput marks unparseable input. Run reports it and asks again.
var ErrInvalidInput = errors.New("play: invalid input")

// Input is one player action: a letter at a cell, or a reset request.
type Input struct {
	Pos    board.Position
	Letter rune
	Reset  bool
}

// Presenter is implemented by a UI. The engine never does I/O itself.
type Presenter interface {
	// ReadPlayerInput blocks for p's next action. io.EOF ends the session.
	ReadPlayerInput(ctx context.Context, p game.Player) (Input, error)
	// RenderBoard is called after every committed move or revert.
	RenderBoard(p game.Player, b *board.Board)
	ShowResult(res game.Result)
	ShowOutcome(o game.Outcome, v game.View)
	ShowError(err error)
}

// Run plays e to completion through pr. It returns the final outcome,
// which is InProgress when input ended early. Rejected moves are shown and
// re-prompted; any other engine error ends the game.
func Run(ctx context.Context, e *game.Engine, pr Presenter) (game.Outcome, error) {
	renderAll(e, pr)
	if e.Over() {
		pr.ShowOutcome(e.Outcome(), e.View())
		return e.Outcome(), nil
	}
	for {
		if err := ctx.Err(); err != nil {
			return e.Outcome(), err
		}
		player := e.State().Current()
		in, err := pr.ReadPlayerInput(ctx, player)
		switch {
		case errors.Is(err, io.EOF):
			return e.Outcome(), nil
		case errors.Is(err, ErrInvalidInput):
			pr.ShowError(err)
			continue
		case err != nil:
			return e.Outcome(), err
		}

		if in.Reset {
			e.Reset()
			log.Info().Msg("game reset")
			renderAll(e, pr)
			continue
		}

		res, err := e.SubmitMove(in.Pos, in.Letter)
		switch {
		case errors.Is(err, game.ErrInvalidCellState):
			log.Debug().Err(err).Int("player", int(player)).Stringer("pos", in.Pos).Msg("move rejected")
			pr.ShowError(err)
			continue
		case err != nil:
			log.Error().Err(err).Int("player", int(player)).Stringer("pos", in.Pos).Msg("move failed")
			pr.ShowError(err)
			return e.Outcome(), err
		}
		log.Debug().
			Int("player", int(player)).
			Str("kind", string(res.Kind)).
			Str("word", res.Word).
			Str("orientation", string(res.Orientation)).
			Msg("move resolved")

		pr.ShowResult(res)
		pr.RenderBoard(player, e.State().Board(player))
		if res.Kind == game.Finished {
			pr.ShowOutcome(res.Outcome, e.View())
			return res.Outcome, nil
		}
	}
}

func renderAll(e *game.Engine, pr Presenter) {
	for _, p := range game.Players {
		pr.RenderBoard(p, e.State().Board(p))
	}
}
