// internal/board/pattern.go
//
// Pattern: a row or column read off a board, used as a lexicon query.
// Empty cells are wildcards; filled cells must match exactly.

package board

import "strings"

// Pattern is partial knowledge of a row or column. Empty entries are
// wildcards; filled entries must match exactly.
type Pattern []Letter

// ParsePattern builds a Pattern from a string where '.', '_' or ' '
// marks a wildcard. Other non-letters are treated as wildcards too.
func ParsePattern(s string) Pattern {
	p := make(Pattern, 0, len(s))
	for _, r := range s {
		l, _ := LetterOf(r)
		p = append(p, l)
	}
	return p
}

// Matches reports whether word satisfies every fixed position of p.
func (p Pattern) Matches(word string) bool {
	if len(word) != len(p) {
		return false
	}
	for i, l := range p {
		if l != Empty && byte(l) != word[i] {
			return false
		}
	}
	return true
}

// Fixed returns how many positions are constrained.
func (p Pattern) Fixed() int {
	n := 0
	for _, l := range p {
		if l != Empty {
			n++
		}
	}
	return n
}

func (p Pattern) String() string {
	var sb strings.Builder
	sb.Grow(len(p))
	for _, l := range p {
		sb.WriteString(l.String())
	}
	return sb.String()
}
