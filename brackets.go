package brackets

import (
	"errors"

	"github.com/jward/brackets/internal/index"
	"github.com/jward/brackets/internal/scan"
)

var (
	// ErrNoKinds is returned when a query is given an empty candidate set.
	ErrNoKinds = errors.New("brackets: empty kind set")
	// ErrUnknownKind is returned for a kind name that does not parse.
	ErrUnknownKind = scan.ErrUnknownKind
	// ErrFileNotIndexed is returned by file queries for paths the Engine has
	// never indexed.
	ErrFileNotIndexed = errors.New("brackets: file not indexed")
)

// ScannerVersion identifies the scanning heuristics. Databases built by a
// different version are rebuilt.
const ScannerVersion = scan.Version

// Scan scans text and returns its completed intervals in completion order.
// Malformed input never fails: unmatched delimiters are dropped.
func Scan(text string) []Interval {
	return scan.Scan(text)
}

// NewIndex builds an index over intervals previously scanned from text.
func NewIndex(text string, intervals []Interval) *Index {
	return index.New(text, intervals)
}

// Build scans text and indexes the result.
func Build(text string) *Index {
	return index.Build(text)
}

// KindsOf builds a candidate set.
func KindsOf(kinds ...Kind) KindSet {
	return scan.KindsOf(kinds...)
}

// ParseKinds parses kind names such as "paren,brace" or "angle_tag".
func ParseKinds(names ...string) (KindSet, error) {
	return scan.ParseKinds(names...)
}
