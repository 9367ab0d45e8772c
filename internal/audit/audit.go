// Package audit measures how far the heuristic scanner strays from a real
// parse. It never changes scanner output; it only reports findings.
package audit

import (
	"context"
	"fmt"
	"sort"

	"github.com/jward/brackets/internal/lang"
	"github.com/jward/brackets/internal/scan"
)

// Finding sources.
const (
	SourceGrammar = "grammar"
	SourceRegex   = "regex"
)

// Finding kinds.
const (
	// KindGrammarMissing is a span the grammar delimits that the scanner
	// did not produce.
	KindGrammarMissing = "grammar_missing"
	// KindGrammarExtra is a scanned bracket span the grammar does not have.
	KindGrammarExtra = "grammar_extra"
	// KindGrammarError means the grammar itself could not parse the file
	// cleanly; other grammar findings for it are less reliable.
	KindGrammarError = "grammar_error"
	// KindRegexInvalid is a regex literal whose body does not compile.
	KindRegexInvalid = "regex_invalid"
)

type Finding struct {
	Source  string
	Kind    string
	Start   int
	End     int
	Message string
}

func (f Finding) String() string {
	return fmt.Sprintf("%s[%d,%d) %s", f.Kind, f.Start, f.End, f.Message)
}

// grammarChecked lists the languages whose grammars expose delimiters as
// anonymous sibling tokens the way the scanner sees them.
var grammarChecked = map[string]bool{
	"go":         true,
	"javascript": true,
	"typescript": true,
	"tsx":        true,
	"java":       true,
	"c":          true,
	"cpp":        true,
	"rust":       true,
	"css":        true,
}

// GrammarChecked reports whether Run compares language against its
// tree-sitter grammar.
func GrammarChecked(language string) bool {
	return grammarChecked[language]
}

// Run audits text of the given language against its scanned intervals.
// Regex literals are always checked; the grammar comparison runs only for
// languages where GrammarChecked is true.
func Run(ctx context.Context, language, text string, intervals []scan.Interval) ([]Finding, error) {
	findings := Regexes(text, intervals)
	if grammarChecked[language] {
		g, ok := lang.Grammar(language)
		if ok {
			gf, err := Grammar(ctx, g, []byte(text), intervals)
			if err != nil {
				return nil, err
			}
			findings = append(findings, gf...)
		}
	}
	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].Start != findings[j].Start {
			return findings[i].Start < findings[j].Start
		}
		return findings[i].Kind < findings[j].Kind
	})
	return findings, nil
}
