package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForFile(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		"src/app.ts":     "typescript",
		"src/App.TSX":    "tsx",
		"index.mjs":      "javascript",
		"page.html":      "html",
		"README.md":      Markdown,
		"main.go":        "go",
		"styles/app.css": "css",
	}
	for path, want := range tests {
		got, ok := ForFile(path)
		require.True(t, ok, path)
		assert.Equal(t, want, got, path)
	}

	_, ok := ForFile("Makefile")
	assert.False(t, ok)
}

func TestDetect_Shebang(t *testing.T) {
	t.Parallel()
	got, ok := Detect("bin/tool", []byte("#!/usr/bin/env node\nconsole.log(1)\n"))
	require.True(t, ok)
	assert.Equal(t, "javascript", got)
}

func TestDetect_ExtensionWins(t *testing.T) {
	t.Parallel()
	got, ok := Detect("x.py", []byte("#!/usr/bin/env node\n"))
	require.True(t, ok)
	assert.Equal(t, "python", got)
}

func TestSkipReason(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "vendor", SkipReason("node_modules/left-pad/index.js", []byte("x")))
	assert.Equal(t, "binary", SkipReason("blob.js", []byte{0x00, 0x01, 0x02, 0x00}))
	assert.Empty(t, SkipReason("src/app.js", []byte("const a = (1)\n")))
}

func TestGrammar(t *testing.T) {
	t.Parallel()
	for _, name := range []string{"javascript", "typescript", "tsx", "html", "go"} {
		g, ok := Grammar(name)
		require.True(t, ok, name)
		assert.NotNil(t, g, name)
	}
	_, ok := Grammar(Markdown)
	assert.False(t, ok)
}

func TestSupported(t *testing.T) {
	t.Parallel()
	langs := Supported()
	assert.Contains(t, langs, "javascript")
	assert.Contains(t, langs, Markdown)
	assert.IsIncreasing(t, langs)
	assert.True(t, IsSupported("html"))
	assert.False(t, IsSupported("cobol"))
}
