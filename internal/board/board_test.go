package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoard_SetRowAndColumn(t *testing.T) {
	b := New(5)
	require.NoError(t, b.SetRow(2, "grape"))
	assert.Equal(t, "grape", b.Row(2).String())
	assert.Equal(t, Letter('g'), b.Get(2, 0))

	require.NoError(t, b.SetColumn(0, "mango"))
	assert.Equal(t, "mango", b.Column(0).String())
	// column write overwrote the row's first letter
	assert.Equal(t, "nrape", b.Row(2).String())
}

func TestBoard_WriteErrors(t *testing.T) {
	b := New(5)
	tests := []struct {
		name    string
		write   func() error
		wantErr error
	}{
		{"row too short", func() error { return b.SetRow(0, "abc") }, ErrWordLength},
		{"column too long", func() error { return b.SetColumn(0, "abcdef") }, ErrWordLength},
		{"row index high", func() error { return b.SetRow(5, "apple") }, ErrOutOfRange},
		{"column index negative", func() error { return b.SetColumn(-1, "apple") }, ErrOutOfRange},
		{"uppercase word", func() error { return b.SetRow(0, "APPLE") }, ErrBadLetter},
		{"set out of range", func() error { return b.Set(Position{Row: 9, Col: 0}, 'a') }, ErrOutOfRange},
		{"set non-letter", func() error { return b.Set(Position{Row: 0, Col: 0}, '7') }, ErrBadLetter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.write(), tt.wantErr)
		})
	}
	assert.Equal(t, 25, b.EmptyCount(), "failed writes must not touch the board")
}

func TestBoard_IsFull(t *testing.T) {
	b := New(3)
	assert.False(t, b.IsFull())
	require.NoError(t, b.SetRow(0, "cat"))
	require.NoError(t, b.SetRow(1, "ate"))
	assert.False(t, b.IsFull())
	require.NoError(t, b.SetRow(2, "tea"))
	assert.True(t, b.IsFull())
	assert.Equal(t, 0, b.EmptyCount())

	// fullness iff no empty cell
	require.NoError(t, b.Set(Position{Row: 1, Col: 1}, Empty))
	assert.False(t, b.IsFull())
	assert.True(t, b.IsEmptyAt(Position{Row: 1, Col: 1}))
}

func TestBoard_CloneIsDeep(t *testing.T) {
	b := New(5)
	require.NoError(t, b.SetRow(0, "apple"))
	c := b.Clone()
	assert.True(t, b.Equal(c))

	require.NoError(t, b.SetRow(0, "mango"))
	assert.False(t, b.Equal(c))
	assert.Equal(t, "apple", c.Row(0).String())
}

func TestBoard_GetOutOfRange(t *testing.T) {
	b := New(2)
	assert.Equal(t, Empty, b.Get(-1, 0))
	assert.Equal(t, Empty, b.Get(0, 2))
	assert.False(t, b.IsEmptyAt(Position{Row: 2, Col: 0}))
}

func TestBoard_String(t *testing.T) {
	b := New(3)
	require.NoError(t, b.SetRow(1, "dog"))
	assert.Equal(t, "...\ndog\n...", b.String())
	assert.Equal(t, []string{"...", "dog", "..."}, b.Rows())
}

func TestLetterOf(t *testing.T) {
	l, ok := LetterOf('G')
	assert.True(t, ok)
	assert.Equal(t, Letter('g'), l)

	_, ok = LetterOf('é')
	assert.False(t, ok)
	_, ok = LetterOf('1')
	assert.False(t, ok)
}

func TestPattern_Matches(t *testing.T) {
	tests := []struct {
		pattern string
		word    string
		want    bool
	}{
		{"g....", "grape", true},
		{".....", "extra", true},
		{"..a..", "grape", true},
		{"..a..", "apple", false},
		{"g....", "grapes", false},
		{"apple", "apple", true},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.word, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePattern(tt.pattern).Matches(tt.word))
		})
	}
	assert.Equal(t, 2, ParsePattern("a_.b ").Fixed())
}
