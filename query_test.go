package brackets

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const querySrc = "function f(a, b) {\n  return g([a, `${b}`]);\n}\n"

func indexedFile(t *testing.T, e *Engine, name, content string) string {
	t.Helper()
	path := writeFile(t, t.TempDir(), name, content)
	_, err := e.IndexFiles(context.Background(), []string{path})
	require.NoError(t, err)
	return path
}

func TestQuery_EnclosingAt(t *testing.T) {
	e := newTestEngine(t)
	path := indexedFile(t, e, "a.js", querySrc)
	ctx := context.Background()

	span, err := e.Query().EnclosingAt(ctx, path, 1, 12, KindsOf(Bracket), true, false)
	require.NoError(t, err)
	require.NotNil(t, span)
	assert.Equal(t, Bracket, span.Kind)
	assert.Equal(t, "[a, `${b}`]", span.Text)
	assert.Equal(t, 1, span.StartLine)
	assert.Equal(t, 11, span.StartCol)
	assert.Equal(t, path, span.File)

	span, err = e.Query().EnclosingAt(ctx, path, 1, 12, KindsOf(Paren), true, true)
	require.NoError(t, err)
	assert.Nil(t, span, "immediate interval is the bracket")

	span, err = e.Query().EnclosingAt(ctx, path, 1, 12, KindsOf(Paren), true, false)
	require.NoError(t, err)
	require.NotNil(t, span)
	assert.Equal(t, "([a, `${b}`])", span.Text)
}

func TestQuery_EmptyKinds(t *testing.T) {
	e := newTestEngine(t)
	path := indexedFile(t, e, "a.js", querySrc)
	ctx := context.Background()

	_, err := e.Query().EnclosingAt(ctx, path, 0, 0, 0, false, false)
	require.ErrorIs(t, err, ErrNoKinds)
	_, err = e.Query().NextPeer(ctx, path, 0, 0, 0)
	require.ErrorIs(t, err, ErrNoKinds)
	_, err = e.Query().PrevPeer(ctx, path, 0, 0, 0)
	require.ErrorIs(t, err, ErrNoKinds)
}

func TestQuery_NotIndexed(t *testing.T) {
	e := newTestEngine(t)
	path := writeFile(t, t.TempDir(), "a.js", querySrc)

	_, err := e.Query().EnclosingAt(context.Background(), path, 0, 0, Brackets, false, false)
	require.ErrorIs(t, err, ErrFileNotIndexed)
	_, err = e.Query().Intervals(path)
	require.ErrorIs(t, err, ErrFileNotIndexed)
}

func TestQuery_Peers(t *testing.T) {
	e := newTestEngine(t)
	path := indexedFile(t, e, "p.go", "x := []int{f(1), f(2), f(3)}\n")
	ctx := context.Background()
	parens := KindsOf(Paren)

	next, err := e.Query().NextPeer(ctx, path, 0, 14, parens)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, "(2)", next.Text)

	prev, err := e.Query().PrevPeer(ctx, path, 0, 19, parens)
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.Equal(t, "(1)", prev.Text)

	none, err := e.Query().NextPeer(ctx, path, 0, 26, parens)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestQuery_TagPair(t *testing.T) {
	e := newTestEngine(t)
	path := indexedFile(t, e, "a.html", "<ul>\n  <li>one</li>\n</ul>\n")
	ctx := context.Background()

	pair, err := e.Query().TagPair(ctx, path, 1, 7, "")
	require.NoError(t, err)
	require.NotNil(t, pair)
	assert.Equal(t, "li", pair.Name)
	assert.Equal(t, "<li>", pair.Open.Text)
	assert.Equal(t, "</li>", pair.Close.Text)
	assert.Equal(t, "li", pair.Open.TagName)

	pair, err = e.Query().TagPair(ctx, path, 1, 7, "ul")
	require.NoError(t, err)
	require.NotNil(t, pair)
	assert.Equal(t, 0, pair.Open.StartLine)
	assert.Equal(t, 2, pair.Close.StartLine)

	pair, err = e.Query().TagPair(ctx, path, 1, 7, "table")
	require.NoError(t, err)
	assert.Nil(t, pair)
}

func TestQuery_Locate(t *testing.T) {
	e := newTestEngine(t)
	path := indexedFile(t, e, "a.js", querySrc)

	spans, err := e.Query().Locate(context.Background(), path, "2rt", 0)
	require.NoError(t, err)
	require.Len(t, spans, 2)
	assert.Equal(t, "([a, `${b}`])", spans[0].Text)
	assert.Equal(t, "[a, `${b}`]", spans[1].Text)

	_, err = e.Query().Locate(context.Background(), path, "r", 0)
	require.Error(t, err)
}

func TestQuery_RescansChangedFile(t *testing.T) {
	e := newTestEngine(t)
	path := indexedFile(t, e, "a.js", "f(x)\n")
	ctx := context.Background()

	require.NoError(t, os.WriteFile(path, []byte("[[x]]\n"), 0o644))

	span, err := e.Query().EnclosingAt(ctx, path, 0, 2, Brackets, true, false)
	require.NoError(t, err)
	require.NotNil(t, span)
	assert.Equal(t, "[x]", span.Text)

	rows, err := e.Query().Intervals(path)
	require.NoError(t, err)
	require.Len(t, rows, 2, "store was refreshed")
	assert.Equal(t, "bracket", rows[0].Kind)
}

func TestQuery_RelativePath(t *testing.T) {
	e := newTestEngine(t)
	path := indexedFile(t, e, "a.js", "f(x)\n")

	wd, err := os.Getwd()
	require.NoError(t, err)
	rel, err := filepath.Rel(wd, path)
	require.NoError(t, err)

	rows, err := e.Query().Intervals(rel)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestQuery_FilesFindingsAndCounts(t *testing.T) {
	e := newTestEngine(t, WithAudit(true))
	a := indexedFile(t, e, "a.rb", "x = /(/\n")
	b := indexedFile(t, e, "b.js", "f([1])\n")

	files, err := e.Query().Files()
	require.NoError(t, err)
	assert.Len(t, files, 2)

	findings, err := e.Query().Findings(a)
	require.NoError(t, err)
	assert.Len(t, findings, 1)

	counts, err := e.Query().KindCounts(b)
	require.NoError(t, err)
	assert.Equal(t, []KindCount{{Kind: "bracket", Count: 1}, {Kind: "paren", Count: 1}}, counts)

	all, err := e.Query().KindCounts("")
	require.NoError(t, err)
	assert.Equal(t, []KindCount{{Kind: "bracket", Count: 1}, {Kind: "paren", Count: 1}, {Kind: "regex", Count: 1}}, all)
}
