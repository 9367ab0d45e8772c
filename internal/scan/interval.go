package scan

import "fmt"

// Mode is the scanner's lexical context; it decides which lexemes are
// significant at the current position.
type Mode uint8

const (
	ModeCode Mode = iota
	ModeLineComment
	ModeBlockComment
	ModeSingleQuoted
	ModeDoubleQuoted
	ModeTemplateString
	ModeRegexLiteral
)

func (m Mode) String() string {
	switch m {
	case ModeCode:
		return "code"
	case ModeLineComment:
		return "line_comment"
	case ModeBlockComment:
		return "block_comment"
	case ModeSingleQuoted:
		return "single_quoted"
	case ModeDoubleQuoted:
		return "double_quoted"
	case ModeTemplateString:
		return "template_string"
	case ModeRegexLiteral:
		return "regex"
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

// TagRole says how an AngleTag interval was opened and closed.
type TagRole uint8

const (
	// TagOpen is "<name ...>", closed by a bare '>'.
	TagOpen TagRole = iota + 1
	// TagClose is a "</name>" marker.
	TagClose
	// TagSelfClosing is "<name ... />".
	TagSelfClosing
)

func (r TagRole) String() string {
	switch r {
	case TagOpen:
		return "open"
	case TagClose:
		return "close"
	case TagSelfClosing:
		return "self_closing"
	}
	return ""
}

// ParseTagRole is the inverse of TagRole.String.
func ParseTagRole(s string) (TagRole, bool) {
	switch s {
	case "open":
		return TagOpen, true
	case "close":
		return TagClose, true
	case "self_closing":
		return TagSelfClosing, true
	}
	return 0, false
}

// Tag carries the markup details of an AngleTag interval.
type Tag struct {
	Role TagRole
	// Name is the identifier after '<' for opening tags, or the text captured
	// between "</" and the next '>' for closing markers. Empty for "<>" and
	// other nameless tags.
	Name string
}

// Interval is one matched delimiter span: Start is the offset of the first
// byte of the opening delimiter, End the offset just past the closing one.
type Interval struct {
	Kind  Kind
	Start int
	End   int
	// Tag is non-nil only for AngleTag intervals.
	Tag *Tag
}

func (iv Interval) Len() int {
	return iv.End - iv.Start
}

// Contains reports whether offset lies strictly between the interval's
// bounds, i.e. past the first byte of the opening delimiter and before End.
func (iv Interval) Contains(offset int) bool {
	return iv.Start < offset && offset < iv.End
}

// OpenName returns the tag name of an opening tag.
func (iv Interval) OpenName() (string, bool) {
	if iv.Tag == nil || iv.Tag.Role != TagOpen || iv.Tag.Name == "" {
		return "", false
	}
	return iv.Tag.Name, true
}

// CloseName returns the name captured from a "</name>" marker.
func (iv Interval) CloseName() (string, bool) {
	if iv.Tag == nil || iv.Tag.Role != TagClose {
		return "", false
	}
	return iv.Tag.Name, true
}

// Shift returns a copy of iv moved by delta bytes.
func (iv Interval) Shift(delta int) Interval {
	iv.Start += delta
	iv.End += delta
	if iv.Tag != nil {
		t := *iv.Tag
		iv.Tag = &t
	}
	return iv
}

func (iv Interval) String() string {
	if iv.Tag != nil {
		return fmt.Sprintf("%s[%d,%d) %s %q", iv.Kind, iv.Start, iv.End, iv.Tag.Role, iv.Tag.Name)
	}
	return fmt.Sprintf("%s[%d,%d)", iv.Kind, iv.Start, iv.End)
}
