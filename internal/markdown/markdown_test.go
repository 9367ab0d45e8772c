package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/brackets/internal/scan"
)

const doc = "# Title\n\nIt's a <b>test</b> (really).\n\n```js\nf(a)\n```\n\nMore prose.\n\n~~~\n[x]\n~~~\n"

func TestBlocks(t *testing.T) {
	t.Parallel()
	blocks := Blocks([]byte(doc))
	require.Len(t, blocks, 2)

	assert.Equal(t, "js", blocks[0].Lang())
	assert.Equal(t, "f(a)\n", doc[blocks[0].Start:blocks[0].End])

	assert.Empty(t, blocks[1].Lang())
	assert.Equal(t, "[x]\n", doc[blocks[1].Start:blocks[1].End])
}

func TestScan_OnlyInsideFences(t *testing.T) {
	t.Parallel()
	got := Scan([]byte(doc))
	require.Len(t, got, 2)

	paren := got[0]
	assert.Equal(t, scan.Paren, paren.Kind)
	assert.Equal(t, "(a)", doc[paren.Start:paren.End])

	bracket := got[1]
	assert.Equal(t, scan.Bracket, bracket.Kind)
	assert.Equal(t, "[x]", doc[bracket.Start:bracket.End])
}

func TestScan_NoFences(t *testing.T) {
	t.Parallel()
	assert.Empty(t, Scan([]byte("Just (prose) with 'quotes'.\n")))
	assert.Empty(t, Blocks([]byte(strings.Repeat("text\n", 3))))
}
