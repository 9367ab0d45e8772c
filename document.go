package brackets

import "github.com/jward/brackets/internal/textpos"

// Document is a host text buffer: its full text and a conversion from the
// host's cursor positions to byte offsets.
type Document interface {
	Text() string
	OffsetAt(pos Position) int
}

// TextDocument is a Document over a fixed string whose columns are counted
// in unit.
type TextDocument struct {
	text  string
	lines *textpos.Lines
	unit  ColumnUnit
}

// NewTextDocument creates a TextDocument.
func NewTextDocument(text string, unit ColumnUnit) *TextDocument {
	return &TextDocument{text: text, lines: textpos.NewLines(text), unit: unit}
}

func (d *TextDocument) Text() string { return d.text }

// OffsetAt converts pos to a byte offset, clamping out-of-range lines and
// columns.
func (d *TextDocument) OffsetAt(pos Position) int {
	return d.lines.Offset(pos, d.unit)
}

// PositionAt converts a byte offset back to a position.
func (d *TextDocument) PositionAt(offset int) Position {
	return d.lines.Position(offset, d.unit)
}
