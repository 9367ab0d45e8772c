package brackets

import (
	"github.com/jward/brackets/internal/index"
	"github.com/jward/brackets/internal/scan"
	"github.com/jward/brackets/internal/store"
	"github.com/jward/brackets/internal/textpos"
)

// Public aliases for the internal types that appear in the API. They are
// identical to the internal types, so no conversion is needed.

type Interval = scan.Interval
type Kind = scan.Kind
type KindSet = scan.KindSet
type Tag = scan.Tag
type TagRole = scan.TagRole
type Mode = scan.Mode
type Index = index.Index
type TagPair = index.TagPair
type Position = textpos.Position
type ColumnUnit = textpos.Unit

type Store = store.Store
type File = store.File
type IntervalRow = store.Interval
type Finding = store.Finding
type KindCount = store.KindCount

const (
	Paren          = scan.Paren
	Bracket        = scan.Bracket
	Brace          = scan.Brace
	AngleTag       = scan.AngleTag
	SingleQuote    = scan.SingleQuote
	DoubleQuote    = scan.DoubleQuote
	TemplateString = scan.TemplateString
	LineComment    = scan.LineComment
	BlockComment   = scan.BlockComment
	RegexLiteral   = scan.RegexLiteral
	TemplateHole   = scan.TemplateHole
)

const (
	TagOpen        = scan.TagOpen
	TagClose       = scan.TagClose
	TagSelfClosing = scan.TagSelfClosing
)

const (
	Bytes     = textpos.Bytes
	Runes     = textpos.Runes
	Graphemes = textpos.Graphemes
	Cells     = textpos.Cells
)

// AllKinds and Brackets are convenience candidate sets.
const (
	AllKinds = scan.AllKinds
	Brackets = scan.Brackets
)
