// internal/game/engine.go
//
// Move engine for a single word-grid session.
// Responsibilities:
//   - Validate a move (one letter, empty in-range cell, game not over)
//     before touching any state.
//   - Snapshot the active board, place the letter, build the row/column
//     pattern through it and ask the lexicon for a word.
//   - Commit the word (row or column), count it, and advance the turn; or
//     revert to the snapshot when nothing matches.
//   - Detect the end of the game once a board fills.
//
// Notes:
//   - The engine never performs I/O; adapters in play/ and httpserver/
//     render state and report errors.
//   - A revert leaves the board exactly as it was before the move and
//     keeps the same player to move.

package game

import (
	"fmt"
	"math/rand/v2"

	"github.com/robalobadob/wordgrid/internal/board"
	"github.com/robalobadob/wordgrid/internal/words"
)

// Engine orchestrates moves over a State. Not safe for concurrent use.
type Engine struct {
	lex     *words.Lexicon
	state   *State
	policy  AxisPolicy
	rng     *rand.Rand
	phase   Phase
	outcome Outcome
	moves   int
}

// Option configures an Engine.
type Option func(*Engine)

// WithAxisPolicy selects RowThenColumn (default) or RandomAxis.
func WithAxisPolicy(p AxisPolicy) Option {
	return func(e *Engine) { e.policy = p }
}

// WithRand sets the source used for RandomAxis and Seed.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		if rng != nil {
			e.rng = rng
		}
	}
}

// NewEngine creates an engine whose board size is the lexicon's word size.
func NewEngine(lex *words.Lexicon, opts ...Option) *Engine {
	e := &Engine{
		lex:     lex,
		state:   NewState(lex.Size()),
		policy:  RowThenColumn,
		phase:   PhaseAwaitingInput,
		outcome: InProgress,
	}
	for _, o := range opts {
		o(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return e
}

// State exposes the underlying state for reading.
func (e *Engine) State() *State { return e.state }

// Lexicon returns the shared word list.
func (e *Engine) Lexicon() *words.Lexicon { return e.lex }

// Policy returns the configured axis policy.
func (e *Engine) Policy() AxisPolicy { return e.policy }

// Phase is the state-machine position after the last call.
func (e *Engine) Phase() Phase { return e.phase }

// Outcome is InProgress until a board fills.
func (e *Engine) Outcome() Outcome { return e.outcome }

// Over reports whether the game has ended.
func (e *Engine) Over() bool { return e.outcome != InProgress }

// Moves counts committed fills since the last reset (opening words excluded).
func (e *Engine) Moves() int { return e.moves }

// View returns a detached copy for presentation.
func (e *Engine) View() View {
	v := e.state.View()
	v.Moves = e.moves
	return v
}

// Reset starts over with two empty boards.
func (e *Engine) Reset() {
	e.state.Reset()
	e.phase = PhaseAwaitingInput
	e.outcome = InProgress
	e.moves = 0
}

// Seed places one opening word per player using the engine's source.
func (e *Engine) Seed() error { return e.SeedWith(e.rng) }

// SeedWith places one opening word per player using rng.
func (e *Engine) SeedWith(rng *rand.Rand) error {
	if err := e.state.Seed(e.lex, rng); err != nil {
		return err
	}
	e.outcome = e.state.DetermineOutcome()
	return nil
}

// SubmitMove plays letter at pos for the active player.
//
// Validation failures return ErrInvalidCellState or ErrGameOver and leave
// the state untouched. A move with no matching word returns a Reverted
// result and a nil error.
func (e *Engine) SubmitMove(pos board.Position, letter rune) (Result, error) {
	if e.Over() {
		return Result{}, ErrGameOver
	}
	l, ok := board.LetterOf(letter)
	if !ok {
		return Result{}, fmt.Errorf("%w: %q is not a letter", ErrInvalidCellState, letter)
	}
	player := e.state.Current()
	b := e.state.Board(player)
	if !b.InBounds(pos) {
		return Result{}, fmt.Errorf("%w: %s is off the board", ErrInvalidCellState, pos)
	}
	if !b.IsEmptyAt(pos) {
		return Result{}, fmt.Errorf("%w: %s already filled", ErrInvalidCellState, cellOf(pos, b.Get(pos.Row, pos.Col)))
	}

	e.phase = PhaseAwaitingInput
	e.state.SaveSnapshot()
	if err := b.Set(pos, l); err != nil {
		_ = e.state.RevertToSnapshot()
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidCellState, err)
	}
	e.phase = PhasePatternBuilt

	word, orient, index, found := e.match(b, pos)
	if !found {
		if err := e.state.RevertToSnapshot(); err != nil {
			return Result{}, fmt.Errorf("revert move: %w", err)
		}
		e.phase = PhaseReverted
		return Result{Kind: Reverted, Player: player, Index: -1, Outcome: InProgress}, nil
	}

	var err error
	if orient == Row {
		err = b.SetRow(index, word)
	} else {
		err = b.SetColumn(index, word)
	}
	if err != nil {
		// lexicon words always fit the board, so this is an invariant break
		if rerr := e.state.RevertToSnapshot(); rerr != nil {
			return Result{}, fmt.Errorf("place %q: %v; revert: %w", word, err, rerr)
		}
		return Result{}, fmt.Errorf("place %q: %w", word, err)
	}
	e.state.RecordWordPlaced(player)
	e.state.Commit()
	e.moves++
	e.phase = PhaseMatched

	res := Result{Kind: Filled, Player: player, Word: word, Orientation: orient, Index: index}
	e.outcome = e.state.DetermineOutcome()
	res.Outcome = e.outcome
	if e.outcome == InProgress {
		e.state.SwitchTurn()
		e.phase = PhaseTurnAdvanced
		return res, nil
	}
	res.Kind = Finished
	e.phase = PhaseGameOver
	return res, nil
}

// match searches the axes allowed by the policy for a word through pos.
func (e *Engine) match(b *board.Board, pos board.Position) (string, Orientation, int, bool) {
	axes := []Orientation{Row, Column}
	if e.policy == RandomAxis {
		axes = axes[e.rng.IntN(2):][:1]
	}
	for _, o := range axes {
		var p board.Pattern
		index := pos.Row
		if o == Row {
			p = b.Row(pos.Row)
		} else {
			p = b.Column(pos.Col)
			index = pos.Col
		}
		if w, ok := e.lex.PickMatch(p); ok {
			return w, o, index, true
		}
	}
	return "", "", 0, false
}
