// Package markdown limits scanning of Markdown documents to their fenced
// code blocks, so that prose apostrophes and angle brackets do not produce
// intervals.
package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/jward/brackets/internal/scan"
)

// Block is the code content of one fenced block. Start and End are byte
// offsets into the document covering the block's lines, fences excluded.
type Block struct {
	Info  string
	Start int
	End   int
}

// Lang returns the first word of the info string.
func (b Block) Lang() string {
	if f := strings.Fields(b.Info); len(f) > 0 {
		return f[0]
	}
	return ""
}

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Blocks returns the fenced code blocks of content in document order.
// Empty blocks are omitted.
func Blocks(content []byte) []Block {
	doc := md.Parser().Parse(text.NewReader(content), parser.WithContext(parser.NewContext()))

	var out []Block
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		cb, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		lines := cb.Lines()
		if lines.Len() == 0 {
			return ast.WalkSkipChildren, nil
		}
		b := Block{
			Start: lines.At(0).Start,
			End:   lines.At(lines.Len() - 1).Stop,
		}
		if cb.Info != nil {
			b.Info = string(cb.Info.Value(content))
		}
		out = append(out, b)
		return ast.WalkSkipChildren, nil
	})
	return out
}

// Scan scans each fenced block independently and returns the intervals
// with offsets relative to the whole document.
func Scan(content []byte) []scan.Interval {
	var out []scan.Interval
	for _, b := range Blocks(content) {
		for _, iv := range scan.Scan(string(content[b.Start:b.End])) {
			out = append(out, iv.Shift(b.Start))
		}
	}
	return out
}
