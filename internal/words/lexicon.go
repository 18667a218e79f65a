// internal/words/lexicon.go
//
// Lexicon: the immutable list of candidate words for one board size.
//
// Responsibilities:
//   - Load words from a newline-delimited source, keeping only alphabetic
//     words whose length equals the board size (lowercased, source order).
//   - Answer pattern queries lazily (FindMatches) or eagerly (Matches).
//   - Pick one match through a configurable Selector (uniform or first).
//
// Sources (see Open):
//   1. An explicit file path (WORDS_FILE).
//   2. Otherwise the word list embedded in the assets package.
//
// A Lexicon is built once per process and shared read-only between
// sessions; it never changes after construction.

package words

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/robalobadob/wordgrid/assets"
	"github.com/robalobadob/wordgrid/internal/board"
)

// ErrLexiconUnavailable is returned when no usable words could be loaded.
var ErrLexiconUnavailable = errors.New("words: lexicon unavailable")

// Lexicon holds fixed-length lowercase words in source order.
type Lexicon struct {
	size  int
	words []string
	set   map[string]struct{}
	sel   Selector
}

// Option configures a Lexicon at construction time.
type Option func(*Lexicon)

// WithSelector sets the match selection policy. The default is Uniform
// with a randomly seeded source.
func WithSelector(s Selector) Option {
	return func(l *Lexicon) {
		if s != nil {
			l.sel = s
		}
	}
}

// New builds a Lexicon from an in-memory list, applying the same
// normalization as Load.
func New(list []string, size int, opts ...Option) (*Lexicon, error) {
	l := &Lexicon{size: size, set: make(map[string]struct{})}
	for _, w := range list {
		l.add(w)
	}
	return l.finish(opts)
}

// Load reads one word per line from r.
func Load(r io.Reader, size int, opts ...Option) (*Lexicon, error) {
	l := &Lexicon{size: size, set: make(map[string]struct{})}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		l.add(sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: read: %v", ErrLexiconUnavailable, err)
	}
	return l.finish(opts)
}

// LoadFile opens path and loads it.
func LoadFile(path string, size int, opts ...Option) (*Lexicon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLexiconUnavailable, err)
	}
	defer f.Close()
	lex, err := Load(f, size, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lex, nil
}

// Default loads the embedded word list.
func Default(size int, opts ...Option) (*Lexicon, error) {
	f, err := assets.WordList()
	if err != nil {
		return nil, fmt.Errorf("%w: embedded list: %v", ErrLexiconUnavailable, err)
	}
	defer f.Close()
	return Load(f, size, opts...)
}

// Open loads path when set, otherwise the embedded list.
func Open(path string, size int, opts ...Option) (*Lexicon, error) {
	if path != "" {
		return LoadFile(path, size, opts...)
	}
	return Default(size, opts...)
}

// add normalizes one raw line and keeps it if it fits the board.
// Duplicates keep their first position.
func (l *Lexicon) add(raw string) {
	w := strings.ToLower(strings.TrimSpace(raw))
	if len(w) != l.size || !isAlpha(w) {
		return
	}
	if _, dup := l.set[w]; dup {
		return
	}
	l.set[w] = struct{}{}
	l.words = append(l.words, w)
}

func (l *Lexicon) finish(opts []Option) (*Lexicon, error) {
	if l.size < 1 {
		return nil, fmt.Errorf("%w: invalid word size %d", ErrLexiconUnavailable, l.size)
	}
	if len(l.words) == 0 {
		return nil, fmt.Errorf("%w: no %d-letter words", ErrLexiconUnavailable, l.size)
	}
	for _, o := range opts {
		o(l)
	}
	if l.sel == nil {
		l.sel = Uniform(nil)
	}
	return l, nil
}

// isAlpha reports whether s is all lowercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// Size is the word length, equal to the board size.
func (l *Lexicon) Size() int { return l.size }

// Len is the number of distinct words.
func (l *Lexicon) Len() int { return len(l.words) }

// Selector returns the configured selection policy.
func (l *Lexicon) Selector() Selector { return l.sel }

// Contains reports whether w is in the lexicon.
func (l *Lexicon) Contains(w string) bool {
	_, ok := l.set[strings.ToLower(w)]
	return ok
}

// All yields every word in source order.
func (l *Lexicon) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, w := range l.words {
			if !yield(w) {
				return
			}
		}
	}
}

// FindMatches yields, in source order, every word w such that each
// non-empty p[i] equals w[i]. A pattern of the wrong length matches nothing.
func (l *Lexicon) FindMatches(p board.Pattern) iter.Seq[string] {
	return func(yield func(string) bool) {
		if len(p) != l.size {
			return
		}
		for _, w := range l.words {
			if p.Matches(w) && !yield(w) {
				return
			}
		}
	}
}

// Matches collects FindMatches.
func (l *Lexicon) Matches(p board.Pattern) []string {
	var out []string
	for w := range l.FindMatches(p) {
		out = append(out, w)
	}
	return out
}

// PickMatch selects one word matching p using the configured Selector.
func (l *Lexicon) PickMatch(p board.Pattern) (string, bool) {
	return l.sel.Pick(l.FindMatches(p))
}

// Random returns a uniformly chosen word using rng.
func (l *Lexicon) Random(rng *rand.Rand) string {
	return l.words[rng.IntN(len(l.words))]
}
