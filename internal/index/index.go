// Package index answers cursor queries over the intervals produced by one
// scan. An Index is immutable once built; callers replace it wholesale when
// the text changes.
package index

import (
	"sort"

	"github.com/jward/brackets/internal/scan"
)

// Index holds the completed intervals of one text in two sorted views: by
// start offset and by end offset.
type Index struct {
	text    string
	byStart []scan.Interval
	byEnd   []scan.Interval
}

// New builds an index over intervals previously produced by scanning text.
// The slice is copied.
func New(text string, intervals []scan.Interval) *Index {
	byStart := make([]scan.Interval, len(intervals))
	copy(byStart, intervals)
	sort.SliceStable(byStart, func(i, j int) bool {
		if byStart[i].Start != byStart[j].Start {
			return byStart[i].Start < byStart[j].Start
		}
		return byStart[i].End > byStart[j].End
	})

	byEnd := make([]scan.Interval, len(byStart))
	copy(byEnd, byStart)
	sort.SliceStable(byEnd, func(i, j int) bool {
		if byEnd[i].End != byEnd[j].End {
			return byEnd[i].End < byEnd[j].End
		}
		return byEnd[i].Start > byEnd[j].Start
	})

	return &Index{text: text, byStart: byStart, byEnd: byEnd}
}

// Build scans text and indexes the result.
func Build(text string) *Index {
	return New(text, scan.Scan(text))
}

// Text returns the text the index was built from.
func (x *Index) Text() string { return x.text }

// Len returns the number of intervals.
func (x *Index) Len() int { return len(x.byStart) }

// At returns the i-th interval in start order.
func (x *Index) At(i int) scan.Interval { return x.byStart[i] }

// Intervals returns a copy of all intervals sorted by start offset, outer
// intervals first on ties.
func (x *Index) Intervals() []scan.Interval {
	out := make([]scan.Interval, len(x.byStart))
	copy(out, x.byStart)
	return out
}

func mustHaveKinds(kinds scan.KindSet) {
	if kinds.Empty() {
		panic("index: empty kind set")
	}
}

// EnclosingAt returns the innermost interval of one of kinds that contains
// cursor, meaning Start < cursor < End.
//
// Unless strict is set, a cursor sitting on a single-character delimiter is
// moved first: one byte forward when the character under it opens a candidate
// kind, one byte back when the character before it closes one. With immediate set only the
// deepest interval containing the cursor is considered, whatever its kind;
// if that kind is not in kinds there is no result.
//
// EnclosingAt panics if kinds is empty.
func (x *Index) EnclosingAt(cursor int, kinds scan.KindSet, strict, immediate bool) (scan.Interval, bool) {
	mustHaveKinds(kinds)
	offset := cursor
	if !strict {
		offset += x.nudge(cursor, kinds)
	}

	// Intervals starting at or after offset cannot contain it.
	n := sort.Search(len(x.byStart), func(i int) bool { return x.byStart[i].Start >= offset })
	for i := n - 1; i >= 0; i-- {
		iv := x.byStart[i]
		if !iv.Contains(offset) {
			continue
		}
		if kinds.Has(iv.Kind) {
			return iv, true
		}
		if immediate {
			return scan.Interval{}, false
		}
	}
	return scan.Interval{}, false
}

func (x *Index) nudge(cursor int, kinds scan.KindSet) int {
	var under, before byte
	if cursor >= 0 && cursor < len(x.text) {
		under = x.text[cursor]
	}
	if cursor > 0 && cursor <= len(x.text) {
		before = x.text[cursor-1]
	}
	opens, closes := delimiterBytes(kinds)
	switch {
	case under != 0 && opens[under]:
		return 1
	case under != 0 && closes[under]:
		return 0
	case before != 0 && closes[before]:
		return -1
	}
	return 0
}

// delimiterBytes returns the candidate opening and closing delimiters that
// are a single character. Multi-character delimiters such as "/*" or "${"
// never move the cursor.
func delimiterBytes(kinds scan.KindSet) (opens, closes [256]bool) {
	for _, k := range kinds.Kinds() {
		if o := k.Open(); len(o) == 1 {
			opens[o[0]] = true
		}
		if c := k.Close(); len(c) == 1 {
			closes[c[0]] = true
		}
	}
	return opens, closes
}

// NextPeer returns the next interval at the same or an outer depth. When
// cursor is inside an interval of one of kinds, the result is the first
// interval of that same kind starting at or after its end; otherwise it is
// the first interval of any of kinds starting after cursor.
//
// NextPeer panics if kinds is empty.
func (x *Index) NextPeer(cursor int, kinds scan.KindSet) (scan.Interval, bool) {
	mustHaveKinds(kinds)
	from, want := cursor+1, kinds
	if enc, ok := x.EnclosingAt(cursor, kinds, true, false); ok {
		from, want = enc.End, scan.KindsOf(enc.Kind)
	}
	n := sort.Search(len(x.byStart), func(i int) bool { return x.byStart[i].Start >= from })
	for _, iv := range x.byStart[n:] {
		if want.Has(iv.Kind) {
			return iv, true
		}
	}
	return scan.Interval{}, false
}

// PrevPeer mirrors NextPeer, scanning backward by end offset: the result is
// the last interval ending at or before the enclosing interval's start, or at
// or before cursor when nothing of kinds encloses it.
//
// PrevPeer panics if kinds is empty.
func (x *Index) PrevPeer(cursor int, kinds scan.KindSet) (scan.Interval, bool) {
	mustHaveKinds(kinds)
	until, want := cursor, kinds
	if enc, ok := x.EnclosingAt(cursor, kinds, true, false); ok {
		until, want = enc.Start, scan.KindsOf(enc.Kind)
	}
	n := sort.Search(len(x.byEnd), func(i int) bool { return x.byEnd[i].End > until })
	for i := n - 1; i >= 0; i-- {
		if iv := x.byEnd[i]; want.Has(iv.Kind) {
			return iv, true
		}
	}
	return scan.Interval{}, false
}
