package brackets

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/brackets/internal/logging"
)

// Golden test format. Lines and columns are 0-based byte columns.
type goldenFile struct {
	Counts    map[string]map[string]int `json:"counts,omitempty"`
	Intervals []goldenInterval          `json:"intervals,omitempty"`
	Enclosing []goldenQuery             `json:"enclosing,omitempty"`
	NextPeer  []goldenQuery             `json:"next_peer,omitempty"`
	PrevPeer  []goldenQuery             `json:"prev_peer,omitempty"`
	TagPairs  []goldenTagQuery          `json:"tag_pairs,omitempty"`
}

type goldenInterval struct {
	File    string `json:"file"`
	Kind    string `json:"kind"`
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	EndLine int    `json:"end_line"`
	EndCol  int    `json:"end_col"`
	Depth   int    `json:"depth"`
}

type goldenQuery struct {
	File      string      `json:"file"`
	Line      int         `json:"line"`
	Col       int         `json:"col"`
	Kinds     []string    `json:"kinds"`
	Strict    bool        `json:"strict"`
	Immediate bool        `json:"immediate"`
	Want      *goldenSpan `json:"want"`
}

type goldenSpan struct {
	Kind string `json:"kind"`
	Line int    `json:"line"`
	Col  int    `json:"col"`
}

type goldenTagQuery struct {
	File string     `json:"file"`
	Line int        `json:"line"`
	Col  int        `json:"col"`
	Name string     `json:"name"`
	Want *goldenTag `json:"want"`
}

type goldenTag struct {
	Name      string `json:"name"`
	OpenLine  int    `json:"open_line"`
	CloseLine int    `json:"close_line"`
}

// TestGolden walks testdata/golden/{language}/{case}/ directories, indexes
// each case's src/ and checks the stored rows and query answers against
// golden.json.
func TestGolden(t *testing.T) {
	root := filepath.Join("testdata", "golden")
	langDirs, err := os.ReadDir(root)
	if err != nil {
		t.Skip("no golden testdata found")
	}

	for _, langDir := range langDirs {
		if !langDir.IsDir() {
			continue
		}
		cases, err := os.ReadDir(filepath.Join(root, langDir.Name()))
		require.NoError(t, err)
		for _, c := range cases {
			if !c.IsDir() {
				continue
			}
			testDir := filepath.Join(root, langDir.Name(), c.Name())
			t.Run(langDir.Name()+"/"+c.Name(), func(t *testing.T) {
				runGoldenTest(t, testDir)
			})
		}
	}
}

func runGoldenTest(t *testing.T, testDir string) {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(testDir, "golden.json"))
	require.NoError(t, err)
	var golden goldenFile
	require.NoError(t, json.Unmarshal(data, &golden))

	srcDir, err := filepath.Abs(filepath.Join(testDir, "src"))
	require.NoError(t, err)

	engine, err := New(filepath.Join(t.TempDir(), "golden.db"), WithLogger(logging.Discard()))
	require.NoError(t, err)
	defer engine.Close()

	entries, err := os.ReadDir(srcDir)
	require.NoError(t, err)
	var paths []string
	for _, e := range entries {
		if !e.IsDir() {
			paths = append(paths, filepath.Join(srcDir, e.Name()))
		}
	}
	_, err = engine.IndexFiles(context.Background(), paths)
	require.NoError(t, err)

	q := engine.Query()
	ctx := context.Background()
	src := func(name string) string { return filepath.Join(srcDir, name) }

	for file, want := range golden.Counts {
		counts, err := q.KindCounts(src(file))
		require.NoError(t, err)
		got := map[string]int{}
		for _, kc := range counts {
			got[kc.Kind] = kc.Count
		}
		assert.Equal(t, want, got, "counts for %s", file)
	}

	for _, exp := range golden.Intervals {
		rows, err := q.Intervals(src(exp.File))
		require.NoError(t, err)
		found := false
		for _, r := range rows {
			got := goldenInterval{exp.File, r.Kind, r.StartLine, r.StartCol, r.EndLine, r.EndCol, r.Depth}
			if got == exp {
				found = true
				break
			}
		}
		assert.True(t, found, "missing interval: %+v", exp)
	}

	check := func(name string, exp goldenQuery, span *Span) {
		if exp.Want == nil {
			assert.Nil(t, span, "%s %+v", name, exp)
			return
		}
		if assert.NotNil(t, span, "%s %+v", name, exp) {
			assert.Equal(t, *exp.Want, goldenSpan{span.Kind.String(), span.StartLine, span.StartCol}, "%s %+v", name, exp)
		}
	}
	kindsOf := func(names []string) KindSet {
		ks, err := ParseKinds(names...)
		require.NoError(t, err)
		return ks
	}

	for _, exp := range golden.Enclosing {
		span, err := q.EnclosingAt(ctx, src(exp.File), exp.Line, exp.Col, kindsOf(exp.Kinds), exp.Strict, exp.Immediate)
		require.NoError(t, err)
		check("enclosing", exp, span)
	}
	for _, exp := range golden.NextPeer {
		span, err := q.NextPeer(ctx, src(exp.File), exp.Line, exp.Col, kindsOf(exp.Kinds))
		require.NoError(t, err)
		check("next peer", exp, span)
	}
	for _, exp := range golden.PrevPeer {
		span, err := q.PrevPeer(ctx, src(exp.File), exp.Line, exp.Col, kindsOf(exp.Kinds))
		require.NoError(t, err)
		check("prev peer", exp, span)
	}

	for _, exp := range golden.TagPairs {
		pair, err := q.TagPair(ctx, src(exp.File), exp.Line, exp.Col, exp.Name)
		require.NoError(t, err)
		if exp.Want == nil {
			assert.Nil(t, pair, "tag pair %+v", exp)
			continue
		}
		if assert.NotNil(t, pair, "tag pair %+v", exp) {
			assert.Equal(t, *exp.Want, goldenTag{pair.Name, pair.Open.StartLine, pair.Close.StartLine}, "tag pair %+v", exp)
		}
	}
}
