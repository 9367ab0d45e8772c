package audit

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/jward/brackets/internal/scan"
)

var grammarOpeners = map[string]scan.Kind{
	"(": scan.Paren,
	"[": scan.Bracket,
	"{": scan.Brace,
}

var grammarClosers = map[string]scan.Kind{
	")": scan.Paren,
	"]": scan.Bracket,
	"}": scan.Brace,
}

type span struct {
	kind       scan.Kind
	start, end int
}

// Grammar parses src with g and compares bracket pairs and comments with
// the scanned intervals. Bracket spans must agree exactly. Comments are
// matched by kind and start offset only, because a scanned line comment
// includes its newline and the grammar's does not.
func Grammar(ctx context.Context, g *sitter.Language, src []byte, intervals []scan.Interval) ([]Finding, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(g)

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("audit: tree-sitter parse failed: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	pairs, comments := grammarSpans(root, src)

	scanned := make(map[span]bool)
	scannedComments := make(map[span]bool)
	for _, iv := range intervals {
		switch iv.Kind {
		case scan.Paren, scan.Bracket, scan.Brace:
			scanned[span{iv.Kind, iv.Start, iv.End}] = true
		case scan.LineComment, scan.BlockComment:
			scannedComments[span{kind: iv.Kind, start: iv.Start}] = true
		}
	}

	var out []Finding
	if root.HasError() {
		out = append(out, Finding{
			Source:  SourceGrammar,
			Kind:    KindGrammarError,
			Start:   int(root.StartByte()),
			End:     int(root.EndByte()),
			Message: "grammar reported syntax errors",
		})
	}

	grammarSet := make(map[span]bool, len(pairs))
	for _, p := range pairs {
		grammarSet[p] = true
		if !scanned[p] {
			out = append(out, missing(p))
		}
	}
	for _, c := range comments {
		if !scannedComments[span{kind: c.kind, start: c.start}] {
			out = append(out, missing(c))
		}
	}
	for _, iv := range intervals {
		s := span{iv.Kind, iv.Start, iv.End}
		if _, bracket := grammarOpeners[iv.Kind.Open()]; bracket && !grammarSet[s] {
			out = append(out, Finding{
				Source:  SourceGrammar,
				Kind:    KindGrammarExtra,
				Start:   iv.Start,
				End:     iv.End,
				Message: fmt.Sprintf("scanned %s has no counterpart in the grammar", iv.Kind),
			})
		}
	}
	return out, nil
}

func missing(s span) Finding {
	return Finding{
		Source:  SourceGrammar,
		Kind:    KindGrammarMissing,
		Start:   s.start,
		End:     s.end,
		Message: fmt.Sprintf("grammar %s not found by scanner", s.kind),
	}
}

// grammarSpans walks the tree and pairs anonymous bracket tokens among the
// children of each node. Tokens inserted by error recovery are skipped.
func grammarSpans(root *sitter.Node, src []byte) (pairs, comments []span) {
	stack := []*sitter.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if n.IsNamed() && strings.Contains(n.Type(), "comment") {
			if c, ok := commentSpan(n, src); ok {
				comments = append(comments, c)
			}
			continue
		}

		var open []*sitter.Node
		count := int(n.ChildCount())
		for i := 0; i < count; i++ {
			child := n.Child(i)
			if child == nil {
				continue
			}
			if child.ChildCount() > 0 || child.IsNamed() {
				stack = append(stack, child)
				continue
			}
			if child.IsMissing() {
				continue
			}
			if _, ok := grammarOpeners[child.Type()]; ok {
				open = append(open, child)
				continue
			}
			k, ok := grammarClosers[child.Type()]
			if !ok || len(open) == 0 {
				continue
			}
			top := open[len(open)-1]
			if grammarOpeners[top.Type()] != k {
				continue
			}
			open = open[:len(open)-1]
			pairs = append(pairs, span{k, int(top.StartByte()), int(child.EndByte())})
		}
	}
	return pairs, comments
}

func commentSpan(n *sitter.Node, src []byte) (span, bool) {
	start, end := int(n.StartByte()), int(n.EndByte())
	if end-start < 2 {
		return span{}, false
	}
	switch string(src[start : start+2]) {
	case "//":
		return span{scan.LineComment, start, end}, true
	case "/*":
		return span{scan.BlockComment, start, end}, true
	}
	return span{}, false
}
