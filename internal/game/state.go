// internal/game/state.go
//
// GameState: both boards, the active player, per-player word counters and
// the single pending-move snapshot.
//
// Invariants:
//   - current alternates only through SwitchTurn.
//   - counts only grow, by one per RecordWordPlaced.
//   - snapshot is non-nil only between SaveSnapshot and Commit/Revert.

package game

import (
	"fmt"
	"math/rand/v2"

	"github.com/robalobadob/wordgrid/internal/board"
	"github.com/robalobadob/wordgrid/internal/words"
)

// State is not safe for concurrent use; one mutator at a time.
type State struct {
	size     int
	boards   [2]*board.Board
	current  Player
	counts   [2]int
	snapshot *board.Board
}

// NewState returns two empty boards with player 1 to move.
func NewState(size int) *State {
	s := &State{size: size}
	s.Reset()
	return s
}

// Reset returns to two empty boards, zero counters, player 1, no snapshot.
func (s *State) Reset() {
	s.boards = [2]*board.Board{board.New(s.size), board.New(s.size)}
	s.current = Player1
	s.counts = [2]int{}
	s.snapshot = nil
}

// Size is N.
func (s *State) Size() int { return s.size }

// Current is the player to move.
func (s *State) Current() Player { return s.current }

// Board returns p's live board. Callers outside the engine must treat it
// as read-only; use View for a detached copy.
func (s *State) Board(p Player) *board.Board {
	if !p.Valid() {
		return nil
	}
	return s.boards[p.index()]
}

// WordCount returns how many words p has placed.
func (s *State) WordCount(p Player) int {
	if !p.Valid() {
		return 0
	}
	return s.counts[p.index()]
}

// HasSnapshot reports whether a move is pending.
func (s *State) HasSnapshot() bool { return s.snapshot != nil }

// SaveSnapshot deep-copies the active player's board.
func (s *State) SaveSnapshot() {
	s.snapshot = s.boards[s.current.index()].Clone()
}

// RevertToSnapshot restores the active player's board from the snapshot
// and clears it.
func (s *State) RevertToSnapshot() error {
	if s.snapshot == nil {
		return ErrNoSnapshot
	}
	s.boards[s.current.index()] = s.snapshot
	s.snapshot = nil
	return nil
}

// Commit discards the snapshot after a successful fill.
func (s *State) Commit() { s.snapshot = nil }

// SwitchTurn toggles the active player.
func (s *State) SwitchTurn() { s.current = s.current.Other() }

// RecordWordPlaced increments p's counter.
func (s *State) RecordWordPlaced(p Player) {
	if p.Valid() {
		s.counts[p.index()]++
	}
}

// IsBoardFull delegates to p's board.
func (s *State) IsBoardFull(p Player) bool {
	b := s.Board(p)
	return b != nil && b.IsFull()
}

// DetermineOutcome is InProgress while neither board is full. Once one is,
// the player with strictly more words wins; equal counts draw.
func (s *State) DetermineOutcome() Outcome {
	if !s.IsBoardFull(Player1) && !s.IsBoardFull(Player2) {
		return InProgress
	}
	c1, c2 := s.counts[0], s.counts[1]
	switch {
	case c1 > c2:
		return Player1Wins
	case c2 > c1:
		return Player2Wins
	}
	return Draw
}

// Seed places one random lexicon word on a random row or column of each
// board and counts it as placed. A lexicon sized for another board is
// rejected before anything is written.
func (s *State) Seed(lex *words.Lexicon, rng *rand.Rand) error {
	if lex.Size() != s.size {
		return fmt.Errorf("%w: %d-letter words on a %dx%d board", ErrSizeMismatch, lex.Size(), s.size, s.size)
	}
	for _, p := range Players {
		w := lex.Random(rng)
		idx := rng.IntN(s.size)
		b := s.boards[p.index()]
		var err error
		if rng.IntN(2) == 0 {
			err = b.SetRow(idx, w)
		} else {
			err = b.SetColumn(idx, w)
		}
		if err != nil {
			return fmt.Errorf("seed %s: %w", p, err)
		}
		s.counts[p.index()]++
	}
	return nil
}

// View copies the state for presentation.
func (s *State) View() View {
	v := View{
		Size:    s.size,
		Current: s.current,
		Outcome: s.DetermineOutcome(),
		Players: make([]PlayerView, 0, len(Players)),
	}
	for _, p := range Players {
		b := s.boards[p.index()]
		v.Players = append(v.Players, PlayerView{
			Player: p,
			Rows:   b.Rows(),
			Words:  s.counts[p.index()],
			Full:   b.IsFull(),
		})
	}
	return v
}
