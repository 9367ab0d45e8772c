package brackets

import (
	"github.com/jward/brackets/internal/locate"
)

// Matcher answers position-based queries over one document snapshot. It is
// immutable; a Cache replaces it wholesale when the document changes.
type Matcher struct {
	doc   Document
	index *Index
}

// NewMatcher scans doc and builds a Matcher over it.
func NewMatcher(doc Document) *Matcher {
	return &Matcher{doc: doc, index: Build(doc.Text())}
}

// Index returns the underlying interval index.
func (m *Matcher) Index() *Index { return m.index }

// Document returns the document the Matcher was built from.
func (m *Matcher) Document() Document { return m.doc }

// EnclosingAt returns the innermost interval of kinds around pos. See
// Index.EnclosingAt for the strict and immediate flags. It panics if kinds
// is empty.
func (m *Matcher) EnclosingAt(pos Position, kinds KindSet, strict, immediate bool) (Interval, bool) {
	return m.index.EnclosingAt(m.doc.OffsetAt(pos), kinds, strict, immediate)
}

func (m *Matcher) NextPeer(pos Position, kinds KindSet) (Interval, bool) {
	return m.index.NextPeer(m.doc.OffsetAt(pos), kinds)
}

func (m *Matcher) PrevPeer(pos Position, kinds KindSet) (Interval, bool) {
	return m.index.PrevPeer(m.doc.OffsetAt(pos), kinds)
}

// EnclosingTagPair returns the element around pos, optionally restricted
// to tags called name.
func (m *Matcher) EnclosingTagPair(pos Position, name string) (TagPair, bool) {
	return m.index.EnclosingTagPair(m.doc.OffsetAt(pos), name)
}

// LocateMatch is one resolved locator of a locate expression.
type LocateMatch = locate.Match

// Locate parses a locator expression such as "12r2b" and resolves each
// locator on its target line. cursorLine is 0-based and anchors relative
// expressions.
func (m *Matcher) Locate(expr string, cursorLine int) ([]LocateMatch, error) {
	e, err := locate.Parse(expr)
	if err != nil {
		return nil, err
	}
	return locate.Resolve(m.index, e, cursorLine), nil
}

// Text returns the document text covered by iv.
func (m *Matcher) Text(iv Interval) string {
	return m.index.Text()[iv.Start:iv.End]
}
