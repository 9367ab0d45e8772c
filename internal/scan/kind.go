package scan

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies what delimiter pair or literal an Interval spans.
type Kind uint8

const (
	KindUnknown Kind = iota
	Paren
	Bracket
	Brace
	AngleTag
	SingleQuote
	DoubleQuote
	TemplateString
	LineComment
	BlockComment
	RegexLiteral
	TemplateHole

	kindCount
)

// ErrUnknownKind is returned when a kind name cannot be parsed.
var ErrUnknownKind = errors.New("unknown interval kind")

var kindNames = [kindCount]string{
	KindUnknown:    "unknown",
	Paren:          "paren",
	Bracket:        "bracket",
	Brace:          "brace",
	AngleTag:       "angle_tag",
	SingleQuote:    "single_quote",
	DoubleQuote:    "double_quote",
	TemplateString: "template_string",
	LineComment:    "line_comment",
	BlockComment:   "block_comment",
	RegexLiteral:   "regex",
	TemplateHole:   "template_hole",
}

// delimiters holds the opening and closing text of each kind. LineComment has
// no closing delimiter: it ends at a newline or at end of input.
var delimiters = [kindCount][2]string{
	Paren:          {"(", ")"},
	Bracket:        {"[", "]"},
	Brace:          {"{", "}"},
	AngleTag:       {"<", ">"},
	SingleQuote:    {"'", "'"},
	DoubleQuote:    {`"`, `"`},
	TemplateString: {"`", "`"},
	LineComment:    {"//", ""},
	BlockComment:   {"/*", "*/"},
	RegexLiteral:   {"/", "/"},
	TemplateHole:   {"${", "}"},
}

// kindAliases lets callers name kinds by their opening delimiter.
var kindAliases = map[string]Kind{
	"(":        Paren,
	"[":        Bracket,
	"{":        Brace,
	"<":        AngleTag,
	"'":        SingleQuote,
	`"`:        DoubleQuote,
	"`":        TemplateString,
	"//":       LineComment,
	"/*":       BlockComment,
	"/":        RegexLiteral,
	"${":       TemplateHole,
	"tag":      AngleTag,
	"angle":    AngleTag,
	"template": TemplateString,
	"hole":     TemplateHole,
	"regexp":   RegexLiteral,
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Valid reports whether k is one of the eleven interval kinds.
func (k Kind) Valid() bool {
	return k > KindUnknown && k < kindCount
}

// Open returns the opening delimiter text of k.
func (k Kind) Open() string {
	if !k.Valid() {
		return ""
	}
	return delimiters[k][0]
}

// Close returns the closing delimiter text of k, or "" if k has none.
func (k Kind) Close() string {
	if !k.Valid() {
		return ""
	}
	return delimiters[k][1]
}

// ParseKind parses a kind name ("paren", "angle_tag") or an opening
// delimiter ("(", "${").
func ParseKind(s string) (Kind, error) {
	name := strings.TrimSpace(s)
	for k := Paren; k < kindCount; k++ {
		if strings.EqualFold(name, kindNames[k]) {
			return k, nil
		}
	}
	if k, ok := kindAliases[strings.ToLower(name)]; ok {
		return k, nil
	}
	return KindUnknown, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Kinds returns every valid kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount-1)
	for k := Paren; k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// KindSet is a set of kinds used as the candidate filter of index queries.
type KindSet uint16

// AllKinds contains every valid kind.
const AllKinds KindSet = (1<<kindCount - 1) &^ 1

// Brackets is the set of structural bracket kinds.
const Brackets = KindSet(1<<Paren | 1<<Bracket | 1<<Brace)

// KindsOf builds a set from kinds; invalid kinds are ignored.
func KindsOf(kinds ...Kind) KindSet {
	var s KindSet
	for _, k := range kinds {
		if k.Valid() {
			s |= 1 << k
		}
	}
	return s
}

// ParseKinds parses a list of kind names. Each element may itself be a
// comma-separated list.
func ParseKinds(names ...string) (KindSet, error) {
	var s KindSet
	for _, n := range names {
		for _, part := range strings.Split(n, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			if strings.EqualFold(strings.TrimSpace(part), "all") {
				s |= AllKinds
				continue
			}
			k, err := ParseKind(part)
			if err != nil {
				return 0, err
			}
			s |= 1 << k
		}
	}
	return s, nil
}

func (s KindSet) Has(k Kind) bool {
	return k.Valid() && s&(1<<k) != 0
}

func (s KindSet) Empty() bool {
	return s&AllKinds == 0
}

// With returns s plus k.
func (s KindSet) With(k Kind) KindSet {
	return s | KindsOf(k)
}

// Kinds lists the members of s in declaration order.
func (s KindSet) Kinds() []Kind {
	var out []Kind
	for k := Paren; k < kindCount; k++ {
		if s.Has(k) {
			out = append(out, k)
		}
	}
	return out
}

func (s KindSet) String() string {
	kinds := s.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return "{" + strings.Join(names, ",") + "}"
}
