package textpos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLines_Basics(t *testing.T) {
	t.Parallel()
	l := NewLines("ab\ncd\n")
	require.Equal(t, 3, l.Count())
	assert.Equal(t, "ab", l.Line(0))
	assert.Equal(t, "cd", l.Line(1))
	assert.Equal(t, "", l.Line(2))
	assert.Equal(t, 3, l.Start(1))
	assert.Equal(t, 6, l.Start(99))

	assert.Equal(t, 1, NewLines("").Count())
}

func TestOffset_Bytes(t *testing.T) {
	t.Parallel()
	l := NewLines("func f() {\n\treturn (1)\n}")

	assert.Equal(t, 0, l.Offset(Position{0, 0}, Bytes))
	assert.Equal(t, 7, l.Offset(Position{0, 7}, Bytes))
	assert.Equal(t, 19, l.Offset(Position{1, 8}, Bytes))
	assert.Equal(t, 10, l.Offset(Position{0, 50}, Bytes), "column clamps to end of line")
	assert.Equal(t, 24, l.Offset(Position{9, 0}, Bytes), "line clamps to end of text")
}

func TestOffset_Units(t *testing.T) {
	t.Parallel()

	// "\u00e9" is two bytes, "\u4e16" three bytes and two cells, and
	// "e\u0301" one grapheme of two runes.
	line := "\u00e9\u4e16e\u0301("
	paren := len(line) - 1
	l := NewLines(line)

	tests := []struct {
		unit Unit
		col  int
	}{
		{Bytes, paren},
		{Runes, 4},
		{Graphemes, 3},
		{Cells, 4},
	}
	for _, tt := range tests {
		t.Run(tt.unit.String(), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, paren, l.Offset(Position{0, tt.col}, tt.unit))
			assert.Equal(t, Position{0, tt.col}, l.Position(paren, tt.unit))
		})
	}
}

func TestPosition_InsideMultibyte(t *testing.T) {
	t.Parallel()
	l := NewLines("x世y")
	// Offset 2 is the middle byte of "世"; it maps to that character's column.
	assert.Equal(t, Position{0, 1}, l.Position(2, Runes))
	assert.Equal(t, Position{0, 3}, l.Position(4, Cells))
}

func TestPosition_Lines(t *testing.T) {
	t.Parallel()
	l := NewLines("ab\ncd")
	assert.Equal(t, Position{0, 2}, l.Position(2, Bytes))
	assert.Equal(t, Position{1, 0}, l.Position(3, Bytes))
	assert.Equal(t, Position{1, 2}, l.Position(100, Bytes))
	assert.Equal(t, Position{0, 0}, l.Position(-5, Bytes))
}

func TestParseUnit(t *testing.T) {
	t.Parallel()
	for in, want := range map[string]Unit{
		"":         Bytes,
		"byte":     Bytes,
		"Rune":     Runes,
		"grapheme": Graphemes,
		"display":  Cells,
		"cells":    Cells,
	} {
		got, err := ParseUnit(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseUnit("furlong")
	require.Error(t, err)
}
