// internal/game/types.go
//
// Core type definitions for the word-grid engine.
// Defines:
//   - Player: which of the two boards is active.
//   - Outcome: in progress / win / draw.
//   - Orientation and AxisPolicy: where a matched word is written.
//   - Phase: the move state machine.
//   - Result: what one SubmitMove did.
//   - View: a copy of the state for presentation.

package game

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/robalobadob/wordgrid/internal/board"
)

var (
	// ErrInvalidCellState rejects a move on a filled/out-of-range cell or
	// without a usable letter. Nothing is mutated.
	ErrInvalidCellState = errors.New("game: invalid cell state")
	// ErrNoSnapshot means a revert was attempted with nothing saved.
	ErrNoSnapshot = errors.New("game: no snapshot available")
	// ErrGameOver rejects moves after a board has filled.
	ErrGameOver = errors.New("game: game is over")
	// ErrSizeMismatch means the lexicon's word length differs from the board.
	ErrSizeMismatch = errors.New("game: lexicon does not fit the board")
)

// Player identifies one of the two boards. Valid values are 1 and 2.
type Player int

const (
	Player1 Player = 1
	Player2 Player = 2
)

// Players lists both players in turn order.
var Players = [2]Player{Player1, Player2}

// Other returns the opponent.
func (p Player) Other() Player {
	if p == Player1 {
		return Player2
	}
	return Player1
}

// Valid reports whether p is Player1 or Player2.
func (p Player) Valid() bool { return p == Player1 || p == Player2 }

func (p Player) String() string { return fmt.Sprintf("player %d", int(p)) }

func (p Player) index() int { return int(p) - 1 }

// Outcome is the coarse game result.
type Outcome string

const (
	InProgress  Outcome = "in_progress"
	Player1Wins Outcome = "player1_wins"
	Player2Wins Outcome = "player2_wins"
	Draw        Outcome = "draw"
)

// Winner returns the winning player, or 0 for a draw or unfinished game.
func (o Outcome) Winner() Player {
	switch o {
	case Player1Wins:
		return Player1
	case Player2Wins:
		return Player2
	}
	return 0
}

// Orientation is the axis a word was written along.
type Orientation string

const (
	Row    Orientation = "row"
	Column Orientation = "column"
)

// AxisPolicy decides which axes SubmitMove searches.
type AxisPolicy string

const (
	// RowThenColumn tries the row through the entered cell, then the column.
	RowThenColumn AxisPolicy = "row-first"
	// RandomAxis picks one axis at random and does not fall back.
	RandomAxis AxisPolicy = "random"
)

// AxisPolicyByName parses a config value.
func AxisPolicyByName(name string) (AxisPolicy, error) {
	switch AxisPolicy(name) {
	case "", RowThenColumn:
		return RowThenColumn, nil
	case RandomAxis:
		return RandomAxis, nil
	}
	return "", fmt.Errorf("game: unknown orientation policy %q", name)
}

// Phase is the engine's position in the move state machine:
// AwaitingInput → PatternBuilt → Matched | Reverted → TurnAdvanced | Over.
type Phase string

const (
	PhaseAwaitingInput Phase = "awaiting_input"
	PhasePatternBuilt  Phase = "pattern_built"
	PhaseMatched       Phase = "matched"
	PhaseReverted      Phase = "reverted"
	PhaseTurnAdvanced  Phase = "turn_advanced"
	PhaseGameOver      Phase = "game_over"
)

// ResultKind classifies a SubmitMove result.
type ResultKind string

const (
	Filled   ResultKind = "filled"
	Reverted ResultKind = "reverted"
	Finished ResultKind = "game_over"
)

// Result describes one resolved move. Word, Orientation and Index are set
// for Filled and Finished.
type Result struct {
	Kind        ResultKind  `json:"kind"`
	Player      Player      `json:"player"`
	Word        string      `json:"word,omitempty"`
	Orientation Orientation `json:"orientation,omitempty"`
	Index       int         `json:"index"`
	Outcome     Outcome     `json:"outcome"`
}

// PlayerView is one player's board as rows of text ("." = empty).
type PlayerView struct {
	Player Player   `json:"player"`
	Rows   []string `json:"rows"`
	Words  int      `json:"words"`
	Full   bool     `json:"full"`
}

// View is a detached copy of the game for rendering.
type View struct {
	Size    int          `json:"size"`
	Current Player       `json:"current"`
	Players []PlayerView `json:"players"`
	Outcome Outcome      `json:"outcome"`
	Moves   int          `json:"moves"`
}

// NewID returns a fresh game identifier.
func NewID() string { return uuid.NewString() }

// cellOf is a small helper for error messages.
func cellOf(pos board.Position, l board.Letter) string {
	return fmt.Sprintf("%s=%s", pos, l)
}
