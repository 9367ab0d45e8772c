package brackets

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/brackets/internal/logging"
)

// buffer is a mutable host document.
type buffer struct {
	text string
}

func (b *buffer) Text() string { return b.text }

func (b *buffer) OffsetAt(pos Position) int {
	return NewTextDocument(b.text, Bytes).OffsetAt(pos)
}

func TestCache_BuildsOnce(t *testing.T) {
	t.Parallel()
	c := NewCache(WithCacheLogger(logging.Discard()))
	doc := &buffer{text: "(a)"}

	m1 := c.Get(doc)
	m2 := c.Get(doc)
	assert.Same(t, m1, m2)
	assert.Equal(t, 1, c.Builds())
}

func TestCache_InvalidateOnEdit(t *testing.T) {
	t.Parallel()
	c := NewCache(WithCacheLogger(logging.Discard()))
	doc := &buffer{text: "(abc)"}

	_, ok := c.Get(doc).EnclosingAt(Position{Line: 0, Col: 2}, Brackets, true, false)
	require.True(t, ok)

	doc.text = "abc"
	c.OnEdit()
	_, ok = c.Get(doc).EnclosingAt(Position{Line: 0, Col: 2}, Brackets, true, false)
	assert.False(t, ok, "no stale interval from the previous text")
	assert.Equal(t, 2, c.Builds())
}

func TestCache_FocusChange(t *testing.T) {
	t.Parallel()
	c := NewCache(WithCacheLogger(logging.Discard()))

	first := c.Get(&buffer{text: "[x]"})
	c.OnFocusChange()
	second := c.Get(&buffer{text: "{y}"})

	assert.NotSame(t, first, second)
	assert.Equal(t, Bracket, first.Index().At(0).Kind, "handed-out matcher keeps its snapshot")
	assert.Equal(t, Brace, second.Index().At(0).Kind)
}

func TestCache_InvalidateIdempotent(t *testing.T) {
	t.Parallel()
	c := NewCache(WithCacheLogger(logging.Discard()))
	c.Invalidate()
	c.Invalidate()
	c.Get(&buffer{text: "()"})
	c.Invalidate()
	c.Invalidate()
	c.Get(&buffer{text: "()"})
	assert.Equal(t, 2, c.Builds())
}

func TestCache_LogsRebuilds(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	c := NewCache(WithCacheLogger(logging.NewWithWriter(&buf, "debug")))
	c.Get(&buffer{text: "(a)"})
	assert.Contains(t, buf.String(), "rebuilt interval index")
}

// =============================================================================
// Matcher
// =============================================================================

const matcherText = "func f(a, b) {\n\treturn g([a, b])\n}\n"

func TestMatcher_EnclosingAt(t *testing.T) {
	t.Parallel()
	m := NewMatcher(NewTextDocument(matcherText, Bytes))

	iv, ok := m.EnclosingAt(Position{Line: 1, Col: 11}, KindsOf(Bracket), true, false)
	require.True(t, ok)
	assert.Equal(t, "[a, b]", m.Text(iv))

	iv, ok = m.EnclosingAt(Position{Line: 1, Col: 11}, KindsOf(Brace), true, false)
	require.True(t, ok)
	assert.Equal(t, "{\n\treturn g([a, b])\n}", m.Text(iv))

	_, ok = m.EnclosingAt(Position{Line: 1, Col: 11}, KindsOf(Paren), true, true)
	assert.False(t, ok, "immediate interval is the bracket")
}

func TestMatcher_Peers(t *testing.T) {
	t.Parallel()
	m := NewMatcher(NewTextDocument("(a) (b) (c)", Bytes))

	iv, ok := m.NextPeer(Position{Col: 1}, KindsOf(Paren))
	require.True(t, ok)
	assert.Equal(t, "(b)", m.Text(iv))

	iv, ok = m.PrevPeer(Position{Col: 9}, KindsOf(Paren))
	require.True(t, ok)
	assert.Equal(t, "(b)", m.Text(iv))
}

func TestMatcher_TagPair(t *testing.T) {
	t.Parallel()
	m := NewMatcher(NewTextDocument("<ul>\n  <li>one</li>\n</ul>", Bytes))

	pair, ok := m.EnclosingTagPair(Position{Line: 1, Col: 7}, "")
	require.True(t, ok)
	assert.Equal(t, "li", pair.Name())

	pair, ok = m.EnclosingTagPair(Position{Line: 1, Col: 7}, "ul")
	require.True(t, ok)
	assert.Equal(t, "ul", pair.Name())
}

func TestMatcher_Locate(t *testing.T) {
	t.Parallel()
	m := NewMatcher(NewTextDocument(matcherText, Bytes))

	got, err := m.Locate("2t", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "[a, b]", m.Text(got[0].Interval))

	got, err = m.Locate("+1r", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "([a, b])", m.Text(got[0].Interval))

	_, err = m.Locate("nothing", 0)
	require.Error(t, err)
}

func TestTextDocument_Units(t *testing.T) {
	t.Parallel()
	text := "é(x)"

	bytesDoc := NewTextDocument(text, Bytes)
	runesDoc := NewTextDocument(text, Runes)
	assert.Equal(t, 3, bytesDoc.OffsetAt(Position{Col: 3}))
	assert.Equal(t, 3, runesDoc.OffsetAt(Position{Col: 2}))
	assert.Equal(t, Position{Col: 2}, runesDoc.PositionAt(3))

	iv, ok := NewMatcher(runesDoc).EnclosingAt(Position{Col: 2}, KindsOf(Paren), true, false)
	require.True(t, ok)
	assert.Equal(t, [2]int{2, 5}, spanOf(iv))
}
