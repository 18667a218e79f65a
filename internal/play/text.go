// internal/play/text.go
//
// Line-oriented Presenter for terminals and scripted input.
//
// Notes:
//   - Lines are read on a background goroutine so a cancelled ctx (Ctrl-C)
//     unblocks ReadPlayerInput without waiting for Enter.
//   - Boards render as a grid with row/column indices; "." marks an empty cell.

package play

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/robalobadob/wordgrid/internal/board"
	"github.com/robalobadob/wordgrid/internal/game"
)

// Text is a line-oriented Presenter. Each turn reads "row col letter",
// "reset" or "quit".
type Text struct {
	in    io.Reader
	out   io.Writer
	once  sync.Once
	lines chan scanned
}

type scanned struct {
	text string
	err  error
}

// NewText reads from r and writes to w.
func NewText(r io.Reader, w io.Writer) *Text {
	return &Text{in: r, out: w, lines: make(chan scanned)}
}

// scan feeds t.lines until the input ends, then reports a scanner error
// (if any) and closes the channel.
func (t *Text) scan() {
	sc := bufio.NewScanner(t.in)
	for sc.Scan() {
		t.lines <- scanned{text: sc.Text()}
	}
	if err := sc.Err(); err != nil {
		t.lines <- scanned{err: err}
	}
	close(t.lines)
}

func (t *Text) ReadPlayerInput(ctx context.Context, p game.Player) (Input, error) {
	fmt.Fprintf(t.out, "%s> ", p)
	if err := ctx.Err(); err != nil {
		return Input{}, err
	}
	t.once.Do(func() { go t.scan() })
	select {
	case <-ctx.Done():
		return Input{}, ctx.Err()
	case l, ok := <-t.lines:
		if !ok {
			return Input{}, io.EOF
		}
		if l.err != nil {
			return Input{}, l.err
		}
		return ParseInput(l.text)
	}
}

// ParseInput parses one command line.
func ParseInput(line string) (Input, error) {
	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) == 1 {
		switch strings.ToLower(fields[0]) {
		case "reset":
			return Input{Reset: true}, nil
		case "quit", "exit":
			return Input{}, io.EOF
		}
	}
	if len(fields) != 3 {
		return Input{}, fmt.Errorf("%w: want \"row col letter\"", ErrInvalidInput)
	}
	row, err := strconv.Atoi(fields[0])
	if err != nil {
		return Input{}, fmt.Errorf("%w: row %q", ErrInvalidInput, fields[0])
	}
	col, err := strconv.Atoi(fields[1])
	if err != nil {
		return Input{}, fmt.Errorf("%w: col %q", ErrInvalidInput, fields[1])
	}
	if utf8.RuneCountInString(fields[2]) != 1 {
		return Input{}, fmt.Errorf("%w: enter exactly one letter", ErrInvalidInput)
	}
	r, _ := utf8.DecodeRuneInString(fields[2])
	return Input{Pos: board.Position{Row: row, Col: col}, Letter: r}, nil
}

func (t *Text) RenderBoard(p game.Player, b *board.Board) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n   ", p)
	for c := 0; c < b.Size(); c++ {
		fmt.Fprintf(&sb, " %d", c)
	}
	sb.WriteByte('\n')
	for r := 0; r < b.Size(); r++ {
		fmt.Fprintf(&sb, "%2d ", r)
		for c := 0; c < b.Size(); c++ {
			fmt.Fprintf(&sb, " %s", b.Get(r, c))
		}
		sb.WriteByte('\n')
	}
	fmt.Fprint(t.out, sb.String())
}

func (t *Text) ShowResult(res game.Result) {
	switch res.Kind {
	case game.Reverted:
		fmt.Fprintf(t.out, "no word fits there, %s tries again\n", res.Player)
	default:
		fmt.Fprintf(t.out, "%s placed %q in %s %d\n", res.Player, res.Word, res.Orientation, res.Index)
	}
}

func (t *Text) ShowOutcome(o game.Outcome, v game.View) {
	score := "?"
	if len(v.Players) == 2 {
		score = fmt.Sprintf("%d-%d", v.Players[0].Words, v.Players[1].Words)
	}
	if w := o.Winner(); w != 0 {
		fmt.Fprintf(t.out, "game over: %s wins with more words (%s)\n", w, score)
		return
	}
	fmt.Fprintf(t.out, "game over: it's a draw (%s)\n", score)
}

func (t *Text) ShowError(err error) {
	switch {
	case errors.Is(err, game.ErrInvalidCellState):
		fmt.Fprintf(t.out, "invalid move: %v\n", err)
	case errors.Is(err, ErrInvalidInput):
		fmt.Fprintf(t.out, "invalid input: %v\n", err)
	default:
		fmt.Fprintf(t.out, "error: %v\n", err)
	}
}
