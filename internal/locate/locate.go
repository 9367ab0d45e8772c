// Package locate parses and resolves locator expressions such as "12r2b".
//
// An expression names a line, either absolute and 1-based ("12") or
// relative to the cursor line ("+2", "-1"), followed by one or more
// locators. Each locator is a class letter and an optional 1-based
// occurrence on that line:
//
//	r  ( or )
//	t  [ or ]
//	g  < or >
//	b  { or }
//	s  ' " or `
//
// "12r2b" selects the span enclosing the second paren character on line 12
// and the span enclosing its first brace character.
package locate

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jward/brackets/internal/index"
	"github.com/jward/brackets/internal/scan"
	"github.com/jward/brackets/internal/textpos"
)

// ErrNoExpression is returned when input does not end in a locator
// expression.
var ErrNoExpression = errors.New("no locator expression")

var (
	exprRe    = regexp.MustCompile(`([-+]?)(\d+)((?:[rtgbs]\d*)+)$`)
	locatorRe = regexp.MustCompile(`([rtgbs])(\d*)`)
)

// classes maps a locator letter to the characters it counts.
var classes = map[byte]string{
	'r': "()",
	't': "[]",
	'g': "<>",
	'b': "{}",
	's': "'\"`",
}

// charKinds maps a located character to the kind whose interval it
// delimits, and whether it is an opening character.
var charKinds = map[byte]struct {
	kind    scan.Kind
	opening bool
}{
	'(':  {scan.Paren, true},
	')':  {scan.Paren, false},
	'[':  {scan.Bracket, true},
	']':  {scan.Bracket, false},
	'<':  {scan.AngleTag, true},
	'>':  {scan.AngleTag, false},
	'{':  {scan.Brace, true},
	'}':  {scan.Brace, false},
	'\'': {scan.SingleQuote, true},
	'"':  {scan.DoubleQuote, true},
	'`':  {scan.TemplateString, true},
}

// Locator picks the Occurrence-th (0-based) character of Class on a line.
type Locator struct {
	Class      byte
	Occurrence int
}

func (l Locator) String() string {
	return string(l.Class) + strconv.Itoa(l.Occurrence+1)
}

// Expr is a parsed locator expression.
type Expr struct {
	Relative bool
	// Line is the signed delta when Relative, otherwise the 1-based line.
	Line     int
	Locators []Locator
	// Source is the matched text.
	Source string
}

// Parse parses an expression at the end of s. Text before the expression is
// ignored, so the text left of a cursor can be passed as is.
func Parse(s string) (Expr, error) {
	m := exprRe.FindStringSubmatch(s)
	if m == nil {
		return Expr{}, fmt.Errorf("%w in %q", ErrNoExpression, s)
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return Expr{}, fmt.Errorf("parse line %q: %w", m[2], err)
	}
	e := Expr{Relative: m[1] != "", Line: n, Source: m[0]}
	if m[1] == "-" {
		e.Line = -n
	}
	for _, lm := range locatorRe.FindAllStringSubmatch(m[3], -1) {
		occ := 0
		if lm[2] != "" {
			v, err := strconv.Atoi(lm[2])
			if err != nil {
				return Expr{}, fmt.Errorf("parse occurrence %q: %w", lm[2], err)
			}
			occ = max(v-1, 0)
		}
		e.Locators = append(e.Locators, Locator{Class: lm[1][0], Occurrence: occ})
	}
	return e, nil
}

// TargetLine returns the 0-based line the expression points at.
func (e Expr) TargetLine(cursorLine int) int {
	if e.Relative {
		return cursorLine + e.Line
	}
	return e.Line - 1
}

func (e Expr) String() string {
	var b strings.Builder
	if e.Relative && e.Line >= 0 {
		b.WriteByte('+')
	}
	b.WriteString(strconv.Itoa(e.Line))
	for _, l := range e.Locators {
		b.WriteString(l.String())
	}
	return b.String()
}

// Match is one resolved locator.
type Match struct {
	Locator  Locator
	Char     int // byte offset of the located character
	Interval scan.Interval
}

// Resolve finds, for each locator, the interval that immediately encloses
// the located character on the target line. A closing character is looked
// up at its own offset, an opening or quote character one byte past it, and
// only the deepest interval of the character's kind counts. Locators whose
// character does not exist or is not enclosed are skipped.
func Resolve(x *index.Index, e Expr, cursorLine int) []Match {
	lines := textpos.NewLines(x.Text())
	target := e.TargetLine(cursorLine)
	if target < 0 || target >= lines.Count() {
		return nil
	}
	text := lines.Line(target)
	base := lines.Start(target)

	var out []Match
	for _, loc := range e.Locators {
		at, ok := nthOf(text, classes[loc.Class], loc.Occurrence)
		if !ok {
			continue
		}
		ck := charKinds[text[at]]
		cursor := base + at
		if ck.opening {
			cursor++
		}
		iv, ok := x.EnclosingAt(cursor, scan.KindsOf(ck.kind), true, true)
		if !ok {
			continue
		}
		out = append(out, Match{Locator: loc, Char: base + at, Interval: iv})
	}
	return out
}

// nthOf returns the byte offset of the n-th (0-based) byte of s that is one
// of chars.
func nthOf(s, chars string, n int) (int, bool) {
	seen := 0
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(chars, s[i]) < 0 {
			continue
		}
		if seen == n {
			return i, true
		}
		seen++
	}
	return 0, false
}
