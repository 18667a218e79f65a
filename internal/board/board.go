// internal/board/board.go
//
// One player's N×N letter grid.
// Responsibilities:
//   - Store cells row-major; the zero Letter marks an empty cell.
//   - Whole-row / whole-column replacement with a placed word.
//   - Row/column extraction as search Patterns.
//   - Deep copies for snapshots, equality for revert checks.
//
// Notes:
//   - No dictionary validation happens here; callers pass lexicon words.
//   - Cells hold lowercase a–z only; Set rejects anything else.

package board

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrOutOfRange = errors.New("board: position out of range")
	ErrWordLength = errors.New("board: word length does not match board size")
	ErrBadLetter  = errors.New("board: letter must be a-z")
)

// Letter is a single cell value. Empty (0) means unfilled.
type Letter byte

// Empty is the unfilled cell value.
const Empty Letter = 0

// IsEmpty reports whether the cell is unfilled.
func (l Letter) IsEmpty() bool { return l == Empty }

// String renders the letter, or "." when empty.
func (l Letter) String() string {
	if l == Empty {
		return "."
	}
	return string(rune(l))
}

// LetterOf converts a rune to a Letter, lowercasing A–Z.
// ok is false for anything that is not an ASCII letter.
func LetterOf(r rune) (Letter, bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return Letter(r), true
	case r >= 'A' && r <= 'Z':
		return Letter(r - 'A' + 'a'), true
	}
	return Empty, false
}

// Position identifies a cell on the board.
type Position struct {
	Row int `json:"row"` // 0-indexed from top
	Col int `json:"col"` // 0-indexed from left
}

func (p Position) String() string { return fmt.Sprintf("(%d,%d)", p.Row, p.Col) }

// Board is a square grid of letters.
type Board struct {
	size  int
	cells []Letter // row-major, len == size*size
}

// New creates an empty board of the given size.
func New(size int) *Board {
	if size < 1 {
		size = 1
	}
	return &Board{size: size, cells: make([]Letter, size*size)}
}

// Size returns N.
func (b *Board) Size() int { return b.size }

// InBounds reports whether pos lies on the board.
func (b *Board) InBounds(pos Position) bool {
	return pos.Row >= 0 && pos.Row < b.size && pos.Col >= 0 && pos.Col < b.size
}

// Get returns the letter at (row, col), or Empty when out of range.
func (b *Board) Get(row, col int) Letter {
	if !b.InBounds(Position{row, col}) {
		return Empty
	}
	return b.cells[row*b.size+col]
}

// IsEmptyAt reports whether pos is on the board and unfilled.
func (b *Board) IsEmptyAt(pos Position) bool {
	return b.InBounds(pos) && b.cells[pos.Row*b.size+pos.Col] == Empty
}

// Set writes a single letter. The move engine only does this inside a
// snapshot, so the write is either overwritten by a word or reverted.
func (b *Board) Set(pos Position, l Letter) error {
	if !b.InBounds(pos) {
		return fmt.Errorf("%w: %s", ErrOutOfRange, pos)
	}
	if l != Empty && (l < 'a' || l > 'z') {
		return ErrBadLetter
	}
	b.cells[pos.Row*b.size+pos.Col] = l
	return nil
}

// SetRow overwrites every cell of row with word, left to right.
func (b *Board) SetRow(row int, word string) error {
	if err := b.checkWrite(row, word); err != nil {
		return err
	}
	for c := 0; c < b.size; c++ {
		b.cells[row*b.size+c] = Letter(word[c])
	}
	return nil
}

// SetColumn overwrites every cell of col with word, top to bottom.
func (b *Board) SetColumn(col int, word string) error {
	if err := b.checkWrite(col, word); err != nil {
		return err
	}
	for r := 0; r < b.size; r++ {
		b.cells[r*b.size+col] = Letter(word[r])
	}
	return nil
}

func (b *Board) checkWrite(index int, word string) error {
	if index < 0 || index >= b.size {
		return fmt.Errorf("%w: index %d", ErrOutOfRange, index)
	}
	if len(word) != b.size {
		return fmt.Errorf("%w: %q", ErrWordLength, word)
	}
	for i := 0; i < len(word); i++ {
		if word[i] < 'a' || word[i] > 'z' {
			return fmt.Errorf("%w: %q", ErrBadLetter, word)
		}
	}
	return nil
}

// IsFull returns true if all cells are filled.
func (b *Board) IsFull() bool {
	for _, l := range b.cells {
		if l == Empty {
			return false
		}
	}
	return true
}

// EmptyCount returns the number of empty cells.
func (b *Board) EmptyCount() int {
	n := 0
	for _, l := range b.cells {
		if l == Empty {
			n++
		}
	}
	return n
}

// Row returns a copy of row i as a Pattern.
func (b *Board) Row(i int) Pattern {
	p := make(Pattern, b.size)
	copy(p, b.cells[i*b.size:(i+1)*b.size])
	return p
}

// Column returns a copy of column j as a Pattern.
func (b *Board) Column(j int) Pattern {
	p := make(Pattern, b.size)
	for r := 0; r < b.size; r++ {
		p[r] = b.cells[r*b.size+j]
	}
	return p
}

// Clone returns a deep copy.
func (b *Board) Clone() *Board {
	c := &Board{size: b.size, cells: make([]Letter, len(b.cells))}
	copy(c.cells, b.cells)
	return c
}

// Equal reports whether both boards have the same size and cells.
func (b *Board) Equal(o *Board) bool {
	if b == nil || o == nil {
		return b == o
	}
	if b.size != o.size {
		return false
	}
	for i := range b.cells {
		if b.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// Rows renders each row as a string, with "." for empty cells.
func (b *Board) Rows() []string {
	out := make([]string, b.size)
	for r := 0; r < b.size; r++ {
		out[r] = b.Row(r).String()
	}
	return out
}

func (b *Board) String() string {
	return strings.Join(b.Rows(), "\n")
}
