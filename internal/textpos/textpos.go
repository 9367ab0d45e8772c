// Package textpos converts between host line/column positions and the byte
// offsets that scanning and indexing work in.
package textpos

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Unit is what a column counts.
type Unit uint8

const (
	// Bytes counts UTF-8 bytes.
	Bytes Unit = iota
	// Runes counts Unicode code points.
	Runes
	// Graphemes counts user-perceived characters.
	Graphemes
	// Cells counts terminal display cells; wide characters take two.
	Cells
)

func (u Unit) String() string {
	switch u {
	case Bytes:
		return "byte"
	case Runes:
		return "rune"
	case Graphemes:
		return "grapheme"
	case Cells:
		return "display"
	}
	return fmt.Sprintf("unit(%d)", uint8(u))
}

// ParseUnit parses a unit name as written in configuration.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "byte", "bytes":
		return Bytes, nil
	case "rune", "runes", "codepoint":
		return Runes, nil
	case "grapheme", "graphemes":
		return Graphemes, nil
	case "display", "cell", "cells":
		return Cells, nil
	}
	return Bytes, fmt.Errorf("unknown column unit %q (want byte, rune, grapheme or display)", s)
}

// Position is a 0-based line and column.
type Position struct {
	Line int
	Col  int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Lines is a line table over one text.
type Lines struct {
	text   string
	starts []int
}

// NewLines records the start offset of every line in text. Lines are split
// on '\n'; a trailing "\r" stays part of its line.
func NewLines(text string) *Lines {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Lines{text: text, starts: starts}
}

// Count returns the number of lines. An empty text has one empty line.
func (l *Lines) Count() int { return len(l.starts) }

// Start returns the byte offset of the first byte of line i.
func (l *Lines) Start(i int) int {
	return l.starts[l.clampLine(i)]
}

// Line returns line i without its newline.
func (l *Lines) Line(i int) string {
	i = l.clampLine(i)
	end := len(l.text)
	if i+1 < len(l.starts) {
		end = l.starts[i+1] - 1
	}
	return l.text[l.starts[i]:end]
}

func (l *Lines) clampLine(i int) int {
	if i < 0 {
		return 0
	}
	if i >= len(l.starts) {
		return len(l.starts) - 1
	}
	return i
}

// Offset converts pos to a byte offset. Lines and columns out of range are
// clamped to the text and to the end of the line.
func (l *Lines) Offset(pos Position, unit Unit) int {
	line := l.clampLine(pos.Line)
	start := l.starts[line]
	if pos.Line > line {
		return start + len(l.Line(line))
	}
	if pos.Col <= 0 {
		return start
	}
	return start + ColumnToByte(l.Line(line), pos.Col, unit)
}

// Position converts a byte offset to a line and column. Offsets inside a
// multi-byte character or cluster map to the column of that character.
func (l *Lines) Position(offset int, unit Unit) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(l.text) {
		offset = len(l.text)
	}
	line := sort.Search(len(l.starts), func(i int) bool { return l.starts[i] > offset }) - 1
	text := l.Line(line)
	within := offset - l.starts[line]
	if within > len(text) {
		within = len(text)
	}
	return Position{Line: line, Col: ByteToColumn(text, within, unit)}
}

// ColumnToByte returns the byte offset within line of column col.
func ColumnToByte(line string, col int, unit Unit) int {
	if col <= 0 {
		return 0
	}
	if unit == Bytes {
		return min(col, len(line))
	}
	n := 0
	for seg := range segments(line, unit) {
		if n >= col {
			return seg.from
		}
		n += seg.width
	}
	return len(line)
}

// ByteToColumn returns the column of the byte at offset within line.
func ByteToColumn(line string, offset int, unit Unit) int {
	if unit == Bytes {
		return min(max(offset, 0), len(line))
	}
	col := 0
	for seg := range segments(line, unit) {
		if seg.to > offset {
			break
		}
		col += seg.width
	}
	return col
}

type segment struct {
	from, to int
	width    int
}

// segments yields the column units of line in order.
func segments(line string, unit Unit) func(yield func(segment) bool) {
	return func(yield func(segment) bool) {
		if unit == Runes {
			for i := 0; i < len(line); {
				_, size := utf8.DecodeRuneInString(line[i:])
				if !yield(segment{from: i, to: i + size, width: 1}) {
					return
				}
				i += size
			}
			return
		}
		g := uniseg.NewGraphemes(line)
		for g.Next() {
			from, to := g.Positions()
			width := 1
			if unit == Cells {
				width = runewidth.StringWidth(g.Str())
			}
			if !yield(segment{from: from, to: to, width: width}) {
				return
			}
		}
	}
}
