package brackets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jward/brackets/internal/index"
	"github.com/jward/brackets/internal/lang"
	"github.com/jward/brackets/internal/locate"
	"github.com/jward/brackets/internal/markdown"
	"github.com/jward/brackets/internal/scan"
	"github.com/jward/brackets/internal/store"
	"github.com/jward/brackets/internal/textpos"
)

// QueryBuilder answers file and position queries over an Engine's store.
// Lines and columns are 0-based, with columns in the Engine's unit.
type QueryBuilder struct {
	engine *Engine
	store  *store.Store
}

// Span is an interval located in an indexed file.
type Span struct {
	File      string
	Kind      Kind
	Start     int
	End       int
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
	TagName   string
	Text      string
}

// TagSpan is an element located by TagPair.
type TagSpan struct {
	Name  string
	Open  Span
	Close Span
}

// Files returns every indexed file ordered by path.
func (q *QueryBuilder) Files() ([]*File, error) {
	return q.store.Files()
}

// Intervals returns the stored intervals of file, outer first.
func (q *QueryBuilder) Intervals(file string) ([]*IntervalRow, error) {
	f, err := q.file(file)
	if err != nil {
		return nil, err
	}
	return q.store.IntervalsByFile(f.ID)
}

// Findings returns the audit findings recorded for file.
func (q *QueryBuilder) Findings(file string) ([]*Finding, error) {
	f, err := q.file(file)
	if err != nil {
		return nil, err
	}
	return q.store.FindingsByFile(f.ID)
}

// KindCounts returns interval counts per kind for file, or for the whole
// store when file is empty.
func (q *QueryBuilder) KindCounts(file string) ([]KindCount, error) {
	if file == "" {
		return q.store.KindCounts(0)
	}
	f, err := q.file(file)
	if err != nil {
		return nil, err
	}
	return q.store.KindCounts(f.ID)
}

// EnclosingAt returns the interval of kinds around (line, col) in file.
func (q *QueryBuilder) EnclosingAt(ctx context.Context, file string, line, col int, kinds KindSet, strict, immediate bool) (*Span, error) {
	if kinds.Empty() {
		return nil, ErrNoKinds
	}
	fx, err := q.load(ctx, file)
	if err != nil {
		return nil, err
	}
	iv, ok := fx.index.EnclosingAt(fx.offset(line, col), kinds, strict, immediate)
	return fx.span(iv, ok), nil
}

// NextPeer returns the first interval of kinds after (line, col) that shares
// its enclosing interval.
func (q *QueryBuilder) NextPeer(ctx context.Context, file string, line, col int, kinds KindSet) (*Span, error) {
	if kinds.Empty() {
		return nil, ErrNoKinds
	}
	fx, err := q.load(ctx, file)
	if err != nil {
		return nil, err
	}
	iv, ok := fx.index.NextPeer(fx.offset(line, col), kinds)
	return fx.span(iv, ok), nil
}

// PrevPeer returns the last interval of kinds before (line, col) that shares
// its enclosing interval.
func (q *QueryBuilder) PrevPeer(ctx context.Context, file string, line, col int, kinds KindSet) (*Span, error) {
	if kinds.Empty() {
		return nil, ErrNoKinds
	}
	fx, err := q.load(ctx, file)
	if err != nil {
		return nil, err
	}
	iv, ok := fx.index.PrevPeer(fx.offset(line, col), kinds)
	return fx.span(iv, ok), nil
}

// TagPair returns the element enclosing (line, col), restricted to name
// when it is non-empty.
func (q *QueryBuilder) TagPair(ctx context.Context, file string, line, col int, name string) (*TagSpan, error) {
	fx, err := q.load(ctx, file)
	if err != nil {
		return nil, err
	}
	p, ok := fx.index.EnclosingTagPair(fx.offset(line, col), name)
	if !ok {
		return nil, nil
	}
	return &TagSpan{Name: p.Name(), Open: *fx.span(p.Open, true), Close: *fx.span(p.Close, true)}, nil
}

// Locate resolves a locator expression in file. cursorLine anchors
// relative expressions.
func (q *QueryBuilder) Locate(ctx context.Context, file, expr string, cursorLine int) ([]Span, error) {
	e, err := locate.Parse(expr)
	if err != nil {
		return nil, err
	}
	fx, err := q.load(ctx, file)
	if err != nil {
		return nil, err
	}
	var out []Span
	for _, m := range locate.Resolve(fx.index, e, cursorLine) {
		out = append(out, *fx.span(m.Interval, true))
	}
	return out, nil
}

func (q *QueryBuilder) file(path string) (*File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	f, err := q.store.FileByPath(abs)
	if err != nil {
		return nil, fmt.Errorf("lookup file: %w", err)
	}
	if f == nil {
		return nil, fmt.Errorf("%w: %s", ErrFileNotIndexed, abs)
	}
	return f, nil
}

// fileIndex is an index over a file's current content.
type fileIndex struct {
	path  string
	index *index.Index
	lines *textpos.Lines
	unit  textpos.Unit
}

// load indexes file's content as it is on disk. Stored rows are used when
// the content hash matches; a changed file is reindexed first.
func (q *QueryBuilder) load(ctx context.Context, path string) (*fileIndex, error) {
	f, err := q.file(path)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	text := string(content)
	hash := store.ContentHash(content)

	if f.Hash != hash && q.engine != nil {
		if _, err := q.engine.IndexFiles(ctx, []string{f.Path}); err != nil {
			return nil, fmt.Errorf("reindex %s: %w", f.Path, err)
		}
		if f, err = q.file(f.Path); err != nil {
			return nil, err
		}
	}

	var ivs []scan.Interval
	if f.Hash == hash {
		rows, err := q.store.IntervalsByFile(f.ID)
		if err != nil {
			return nil, err
		}
		ivs = make([]scan.Interval, 0, len(rows))
		for _, r := range rows {
			iv, err := r.Scan()
			if err != nil {
				return nil, err
			}
			ivs = append(ivs, iv)
		}
	} else if f.Language == lang.Markdown {
		ivs = markdown.Scan(content)
	} else {
		ivs = scan.Scan(text)
	}

	unit := textpos.Bytes
	if q.engine != nil {
		unit = q.engine.unit
	}
	return &fileIndex{
		path:  f.Path,
		index: index.New(text, ivs),
		lines: textpos.NewLines(text),
		unit:  unit,
	}, nil
}

func (fx *fileIndex) offset(line, col int) int {
	return fx.lines.Offset(textpos.Position{Line: line, Col: col}, fx.unit)
}

func (fx *fileIndex) span(iv scan.Interval, ok bool) *Span {
	if !ok {
		return nil
	}
	start := fx.lines.Position(iv.Start, fx.unit)
	end := fx.lines.Position(iv.End, fx.unit)
	s := &Span{
		File:      fx.path,
		Kind:      iv.Kind,
		Start:     iv.Start,
		End:       iv.End,
		StartLine: start.Line,
		StartCol:  start.Col,
		EndLine:   end.Line,
		EndCol:    end.Col,
		Text:      fx.index.Text()[iv.Start:iv.End],
	}
	if iv.Tag != nil {
		s.TagName = iv.Tag.Name
	}
	return s
}
