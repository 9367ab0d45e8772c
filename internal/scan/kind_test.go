package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Kind
	}{
		{"paren", Paren},
		{"ANGLE_TAG", AngleTag},
		{"tag", AngleTag},
		{"(", Paren},
		{"${", TemplateHole},
		{" regex ", RegexLiteral},
		{"//", LineComment},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseKind("chevron")
	require.ErrorIs(t, err, ErrUnknownKind)
}

func TestKindRoundTripNames(t *testing.T) {
	t.Parallel()
	for _, k := range Kinds() {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	assert.Len(t, Kinds(), 11)
}

func TestKindSet(t *testing.T) {
	t.Parallel()

	s := KindsOf(Paren, Brace, KindUnknown)
	assert.True(t, s.Has(Paren))
	assert.True(t, s.Has(Brace))
	assert.False(t, s.Has(Bracket))
	assert.False(t, s.Has(KindUnknown))
	assert.Equal(t, "{paren,brace}", s.String())
	assert.True(t, KindSet(0).Empty())
	assert.Equal(t, Brackets, s.With(Bracket))
	assert.Len(t, AllKinds.Kinds(), 11)
}

func TestParseKinds(t *testing.T) {
	t.Parallel()

	s, err := ParseKinds("paren,bracket", "tag")
	require.NoError(t, err)
	assert.Equal(t, KindsOf(Paren, Bracket, AngleTag), s)

	s, err = ParseKinds("all")
	require.NoError(t, err)
	assert.Equal(t, AllKinds, s)

	s, err = ParseKinds("", " , ")
	require.NoError(t, err)
	assert.True(t, s.Empty())

	_, err = ParseKinds("paren,nope")
	require.ErrorIs(t, err, ErrUnknownKind)
}

func TestInterval_Helpers(t *testing.T) {
	t.Parallel()

	x := tagIv(3, 8, TagOpen, "div")
	assert.Equal(t, 5, x.Len())
	assert.False(t, x.Contains(3))
	assert.True(t, x.Contains(4))
	assert.False(t, x.Contains(8))

	name, ok := x.OpenName()
	require.True(t, ok)
	assert.Equal(t, "div", name)
	_, ok = x.CloseName()
	assert.False(t, ok)

	moved := x.Shift(10)
	assert.Equal(t, 13, moved.Start)
	assert.Equal(t, 18, moved.End)
	moved.Tag.Name = "span"
	assert.Equal(t, "div", x.Tag.Name)

	role, ok := ParseTagRole(TagSelfClosing.String())
	require.True(t, ok)
	assert.Equal(t, TagSelfClosing, role)
}
