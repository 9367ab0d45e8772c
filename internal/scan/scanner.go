// Package scan implements the single-pass delimiter scanner. It classifies
// raw source text into matched spans (brackets, quotes, template strings,
// comments, regex literals, template holes and markup tags) without parsing
// any grammar. The scanner never fails: unmatched closers are ignored and
// unmatched openers are dropped at end of input.
//
// Two decisions are heuristic and are kept exactly as documented here:
//
//   - A bare '/' in code opens a regex literal when the next character is not
//     whitespace; otherwise it is division. "a/b" is therefore a regex start.
//   - A '<' opens a tag only when followed by a letter or one of $ _ { [ " >,
//     and a '>' closes one only when the byte before it is a letter or one of
//     $ _ } ] " < /, or when it is the first non-blank character of its line.
package scan

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Version identifies the scanning rules. Stored scan results produced under
// a different version must be discarded.
const Version = "brackets-scan/1"

// entry is a not yet closed interval on the scan stack.
type entry struct {
	kind  Kind
	start int
	tag   *Tag
}

type scanner struct {
	text  string
	mode  Mode
	stack []entry
	out   []Interval
}

// Scan runs the state machine over text once and returns every interval it
// closed, in the order they were closed.
func Scan(text string) []Interval {
	s := &scanner{text: text, mode: ModeCode}
	s.run()
	return s.out
}

func (s *scanner) run() {
	pos := 0
	for {
		lex, start, end := nextLexeme(s.text, pos)
		if lex == lexNone {
			break
		}
		pos = end

		switch s.mode {
		case ModeRegexLiteral:
			if lex == lexSlash {
				s.closeTop(end)
			}
		case ModeLineComment:
			if lex == lexNewline {
				s.closeTop(end)
			}
		case ModeBlockComment:
			if lex == lexBlockCommentEnd {
				s.closeTop(end)
			}
		case ModeSingleQuoted:
			if lex == lexSingleQuote {
				s.closeTop(end)
			}
		case ModeDoubleQuoted:
			if lex == lexDoubleQuote {
				s.closeTop(end)
			}
		case ModeTemplateString:
			switch lex {
			case lexBacktick:
				s.closeTop(end)
			case lexHoleStart:
				s.push(TemplateHole, start)
				s.mode = ModeCode
			}
		default:
			s.code(lex, start, end)
		}
	}
	s.finish()
}

// code handles one lexeme in ModeCode.
func (s *scanner) code(lex lexeme, start, end int) {
	switch lex {
	case lexBraceOpen:
		s.push(Brace, start)
	case lexBraceClose:
		e, ok := s.pop()
		if !ok {
			return
		}
		if e.kind != Brace && e.kind != TemplateHole {
			s.stack = append(s.stack, e)
			return
		}
		s.emit(e, end)
		if top, ok := s.top(); ok && top.kind == TemplateString {
			s.mode = ModeTemplateString
		}
	case lexBracketOpen:
		s.push(Bracket, start)
	case lexBracketClose:
		s.closeIf(Bracket, end)
	case lexParenOpen:
		s.push(Paren, start)
	case lexParenClose:
		s.closeIf(Paren, end)
	case lexLineCommentStart:
		s.open(LineComment, start, ModeLineComment)
	case lexBlockCommentStart:
		s.open(BlockComment, start, ModeBlockComment)
	case lexSingleQuote:
		s.open(SingleQuote, start, ModeSingleQuoted)
	case lexDoubleQuote:
		s.open(DoubleQuote, start, ModeDoubleQuoted)
	case lexBacktick:
		s.open(TemplateString, start, ModeTemplateString)
	case lexSlash:
		if s.regexFollows(end) {
			s.open(RegexLiteral, start, ModeRegexLiteral)
		}
	case lexCloseTagStart:
		s.stack = append(s.stack, entry{
			kind:  AngleTag,
			start: start,
			tag:   &Tag{Role: TagClose, Name: s.closeTagName(end)},
		})
	case lexSelfClose:
		e, ok := s.pop()
		if !ok {
			return
		}
		if e.kind != AngleTag {
			s.stack = append(s.stack, e)
			return
		}
		if e.tag == nil {
			e.tag = &Tag{Role: TagSelfClosing, Name: openTagName(s.text[e.start:end])}
		}
		s.emit(e, end)
	case lexLess:
		if end < len(s.text) && opensTag(s.text[end]) {
			s.push(AngleTag, start)
		}
	case lexGreater:
		if !s.closesTag(start) {
			return
		}
		e, ok := s.pop()
		if !ok {
			return
		}
		if e.kind != AngleTag {
			s.stack = append(s.stack, e)
			return
		}
		if e.tag == nil {
			e.tag = &Tag{Role: TagOpen, Name: openTagName(s.text[e.start:end])}
		}
		s.emit(e, end)
	}
}

// finish ends a pending line comment at end of input; every other open
// entry is dropped.
func (s *scanner) finish() {
	if s.mode == ModeLineComment {
		if top, ok := s.top(); ok && top.kind == LineComment {
			s.closeTop(len(s.text))
		}
	}
	s.stack = nil
}

func (s *scanner) push(k Kind, start int) {
	s.stack = append(s.stack, entry{kind: k, start: start})
}

// open pushes k and switches to mode.
func (s *scanner) open(k Kind, start int, mode Mode) {
	s.push(k, start)
	s.mode = mode
}

func (s *scanner) top() (entry, bool) {
	if len(s.stack) == 0 {
		return entry{}, false
	}
	return s.stack[len(s.stack)-1], true
}

func (s *scanner) pop() (entry, bool) {
	e, ok := s.top()
	if ok {
		s.stack = s.stack[:len(s.stack)-1]
	}
	return e, ok
}

func (s *scanner) emit(e entry, end int) {
	s.out = append(s.out, Interval{Kind: e.kind, Start: e.start, End: end, Tag: e.tag})
}

// closeTop closes the literal or comment that owns the current mode and
// returns to code.
func (s *scanner) closeTop(end int) {
	if e, ok := s.pop(); ok {
		s.emit(e, end)
	}
	s.mode = ModeCode
}

// closeIf closes the top entry only when it has kind k.
func (s *scanner) closeIf(k Kind, end int) {
	e, ok := s.pop()
	if !ok {
		return
	}
	if e.kind != k {
		s.stack = append(s.stack, e)
		return
	}
	s.emit(e, end)
}

// regexFollows reports whether a '/' ending at end starts a regex literal:
// the next character must not be whitespace.
func (s *scanner) regexFollows(end int) bool {
	if end >= len(s.text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s.text[end:])
	return !unicode.IsSpace(r)
}

// closeTagName captures the text between "</" and the next '>'.
func (s *scanner) closeTagName(from int) string {
	rest := s.text[from:]
	if i := strings.IndexByte(rest, '>'); i >= 0 {
		rest = rest[:i]
	}
	return strings.TrimSpace(rest)
}

// closesTag decides whether the '>' at pos closes a tag.
func (s *scanner) closesTag(pos int) bool {
	if pos > 0 && endsTagContext(s.text[pos-1]) {
		return true
	}
	return firstOnLine(s.text, pos)
}

// opensTag reports whether c may follow a '<' that opens a tag.
func opensTag(c byte) bool {
	return isLetter(c) || strings.IndexByte(`$_{[">`, c) >= 0
}

// endsTagContext reports whether c may precede a '>' that closes a tag.
func endsTagContext(c byte) bool {
	return isLetter(c) || strings.IndexByte(`$_}]"</`, c) >= 0
}

func isLetter(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

// firstOnLine reports whether only blanks precede pos on its line.
func firstOnLine(text string, pos int) bool {
	for i := pos - 1; i >= 0; i-- {
		switch text[i] {
		case '\n':
			return true
		case ' ', '\t', '\r', '\f', '\v':
		default:
			return false
		}
	}
	return true
}

var openTagNameRe = regexp.MustCompile(`^<([a-zA-Z$_0-9]+)`)

// openTagName extracts the identifier directly after '<'.
func openTagName(tagText string) string {
	if m := openTagNameRe.FindStringSubmatch(tagText); m != nil {
		return m[1]
	}
	return ""
}
