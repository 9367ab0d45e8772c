package scan

// lexeme is one significant token of the input. Everything that is not a
// lexeme is skipped without inspection.
type lexeme uint8

const (
	lexNone lexeme = iota

	// Escapes: \/ \` \" \' \\. They are consumed so the escaped character
	// can never terminate a literal.
	lexEscape

	// Compound operators that must not be read as brackets or slashes.
	lexSlashAssign   // /=
	lexGreaterEqual  // >=
	lexLessEqual     // <=
	lexArrow         // =>
	lexCloseTagStart // </
	lexSelfClose     // />

	lexLineCommentStart  // //
	lexBlockCommentStart // /*
	lexBlockCommentEnd   // */
	lexHoleStart         // ${
	lexNewline

	lexParenOpen
	lexParenClose
	lexBraceOpen
	lexBraceClose
	lexBracketOpen
	lexBracketClose
	lexLess
	lexGreater
	lexSingleQuote
	lexDoubleQuote
	lexBacktick
	lexSlash
)

// nextLexeme finds the first lexeme at or after pos and returns it with its
// byte bounds. Two-byte lexemes take precedence over their one-byte prefixes,
// and escapes over everything else, so "\\\"" is an escape followed by a
// quote and "</" never produces a bare '<'.
func nextLexeme(text string, pos int) (lexeme, int, int) {
	n := len(text)
	for i := pos; i < n; i++ {
		var next byte
		if i+1 < n {
			next = text[i+1]
		}
		switch text[i] {
		case '\\':
			switch next {
			case '/', '`', '"', '\'', '\\':
				return lexEscape, i, i + 2
			}
		case '/':
			switch next {
			case '=':
				return lexSlashAssign, i, i + 2
			case '>':
				return lexSelfClose, i, i + 2
			case '/':
				return lexLineCommentStart, i, i + 2
			case '*':
				return lexBlockCommentStart, i, i + 2
			}
			return lexSlash, i, i + 1
		case '>':
			if next == '=' {
				return lexGreaterEqual, i, i + 2
			}
			return lexGreater, i, i + 1
		case '<':
			switch next {
			case '=':
				return lexLessEqual, i, i + 2
			case '/':
				return lexCloseTagStart, i, i + 2
			}
			return lexLess, i, i + 1
		case '=':
			if next == '>' {
				return lexArrow, i, i + 2
			}
		case '*':
			if next == '/' {
				return lexBlockCommentEnd, i, i + 2
			}
		case '$':
			if next == '{' {
				return lexHoleStart, i, i + 2
			}
		case '\n':
			return lexNewline, i, i + 1
		case '(':
			return lexParenOpen, i, i + 1
		case ')':
			return lexParenClose, i, i + 1
		case '{':
			return lexBraceOpen, i, i + 1
		case '}':
			return lexBraceClose, i, i + 1
		case '[':
			return lexBracketOpen, i, i + 1
		case ']':
			return lexBracketClose, i, i + 1
		case '\'':
			return lexSingleQuote, i, i + 1
		case '"':
			return lexDoubleQuote, i, i + 1
		case '`':
			return lexBacktick, i, i + 1
		}
	}
	return lexNone, n, n
}
