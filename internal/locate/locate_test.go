package locate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/brackets/internal/index"
	"github.com/jward/brackets/internal/scan"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in       string
		relative bool
		line     int
		locs     []Locator
	}{
		{"12r", false, 12, []Locator{{'r', 0}}},
		{"12r2b", false, 12, []Locator{{'r', 1}, {'b', 0}}},
		{"+3s", true, 3, []Locator{{'s', 0}}},
		{"-1t10g", true, -1, []Locator{{'t', 9}, {'g', 0}}},
		{"foo(bar) 4r0", false, 4, []Locator{{'r', 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			e, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.relative, e.Relative)
			assert.Equal(t, tt.line, e.Line)
			assert.Equal(t, tt.locs, e.Locators)
		})
	}
}

func TestParse_NoExpression(t *testing.T) {
	t.Parallel()
	for _, in := range []string{"", "12", "r2", "12x", "12r "} {
		_, err := Parse(in)
		require.ErrorIs(t, err, ErrNoExpression, in)
	}
}

func TestExpr_TargetLineAndString(t *testing.T) {
	t.Parallel()

	e, err := Parse("12r2b")
	require.NoError(t, err)
	assert.Equal(t, 11, e.TargetLine(40))
	assert.Equal(t, "12r2b1", e.String())

	e, err = Parse("+2t")
	require.NoError(t, err)
	assert.Equal(t, 42, e.TargetLine(40))
	assert.Equal(t, "+2t1", e.String())

	e, err = Parse("-2t")
	require.NoError(t, err)
	assert.Equal(t, 38, e.TargetLine(40))
}

const sample = "f(a, [b]) {\n  g(x)\n}"

func resolve(t *testing.T, expr string, cursorLine int) []Match {
	t.Helper()
	e, err := Parse(expr)
	require.NoError(t, err)
	return Resolve(index.Build(sample), e, cursorLine)
}

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		expr string
		kind scan.Kind
		span [2]int
	}{
		{"1r", scan.Paren, [2]int{1, 9}},
		{"1r2", scan.Paren, [2]int{1, 9}},
		{"1t", scan.Bracket, [2]int{5, 8}},
		{"1b", scan.Brace, [2]int{10, 20}},
		{"+1r", scan.Paren, [2]int{15, 18}},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			t.Parallel()
			got := resolve(t, tt.expr, 0)
			require.Len(t, got, 1)
			assert.Equal(t, tt.kind, got[0].Interval.Kind)
			assert.Equal(t, tt.span, [2]int{got[0].Interval.Start, got[0].Interval.End})
		})
	}
}

func TestResolve_Multiple(t *testing.T) {
	t.Parallel()
	got := resolve(t, "1rtb", 0)
	require.Len(t, got, 3)
	assert.Equal(t, scan.Paren, got[0].Interval.Kind)
	assert.Equal(t, scan.Bracket, got[1].Interval.Kind)
	assert.Equal(t, scan.Brace, got[2].Interval.Kind)
	assert.Equal(t, 1, got[0].Char)
}

func TestResolve_Misses(t *testing.T) {
	t.Parallel()
	assert.Empty(t, resolve(t, "1r3", 0), "no third paren on the line")
	assert.Empty(t, resolve(t, "9r", 0), "line out of range")
	assert.Empty(t, resolve(t, "-1r", 0), "line before the text")
	assert.Empty(t, resolve(t, "1g", 0), "no angle brackets")
}
