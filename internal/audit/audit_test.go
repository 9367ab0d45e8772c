package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/brackets/internal/lang"
	"github.com/jward/brackets/internal/scan"
)

func kinds(fs []Finding) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.Kind
	}
	return out
}

func TestRun_CleanSource(t *testing.T) {
	t.Parallel()
	src := "f(a, [b]) // x (\n{ g() }\n"
	got, err := Run(context.Background(), "javascript", src, scan.Scan(src))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRun_TightDivisionMissesParen(t *testing.T) {
	t.Parallel()
	src := "y = a/b; f(x); z = c/d;"
	got, err := Run(context.Background(), "javascript", src, scan.Scan(src))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, KindGrammarMissing, got[0].Kind)
	assert.Equal(t, SourceGrammar, got[0].Source)
	assert.Equal(t, "(x)", src[got[0].Start:got[0].End])
}

func TestRun_UncheckedLanguageSkipsGrammar(t *testing.T) {
	t.Parallel()
	src := "y = a/b; f(x); z = c/d;"
	got, err := Run(context.Background(), "html", src, scan.Scan(src))
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.False(t, GrammarChecked("html"))
	assert.True(t, GrammarChecked("typescript"))
}

func TestGrammar_ExtraInterval(t *testing.T) {
	t.Parallel()
	g, ok := lang.Grammar("javascript")
	require.True(t, ok)

	src := "f(a);"
	ivs := append(scan.Scan(src), scan.Interval{Kind: scan.Brace, Start: 0, End: 4})
	got, err := Grammar(context.Background(), g, []byte(src), ivs)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, KindGrammarExtra, got[0].Kind)
	assert.Equal(t, 0, got[0].Start)
	assert.Equal(t, 4, got[0].End)
}

func TestGrammar_CommentsMatchByStart(t *testing.T) {
	t.Parallel()
	g, ok := lang.Grammar("javascript")
	require.True(t, ok)

	src := "a(); // one\n/* two */ b();\n"
	got, err := Grammar(context.Background(), g, []byte(src), scan.Scan(src))
	require.NoError(t, err)
	assert.Empty(t, got)

	// Without the scanned comments both grammar comments are missing.
	var brackets []scan.Interval
	for _, iv := range scan.Scan(src) {
		if iv.Kind == scan.Paren {
			brackets = append(brackets, iv)
		}
	}
	got, err = Grammar(context.Background(), g, []byte(src), brackets)
	require.NoError(t, err)
	assert.Equal(t, []string{KindGrammarMissing, KindGrammarMissing}, kinds(got))
}

func TestGrammar_SyntaxError(t *testing.T) {
	t.Parallel()
	g, ok := lang.Grammar("javascript")
	require.True(t, ok)

	got, err := Grammar(context.Background(), g, []byte("f(("), nil)
	require.NoError(t, err)
	assert.Contains(t, kinds(got), KindGrammarError)
}

func TestRegexes(t *testing.T) {
	t.Parallel()

	src := "f(a/b)/c"
	got := Regexes(src, scan.Scan(src))
	require.Len(t, got, 1)
	assert.Equal(t, KindRegexInvalid, got[0].Kind)
	assert.Equal(t, SourceRegex, got[0].Source)
	assert.Equal(t, [2]int{3, 7}, [2]int{got[0].Start, got[0].End})

	src = "x = /a+(b|c)?/gi.test(s)"
	assert.Empty(t, Regexes(src, scan.Scan(src)))
}

func TestFlagOptions(t *testing.T) {
	t.Parallel()
	assert.Zero(t, flagOptions(""))
	assert.Zero(t, flagOptions("g.test"))
	assert.NotZero(t, flagOptions("im"))
}
