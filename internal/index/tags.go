package index

import "github.com/jward/brackets/internal/scan"

// TagPair is an opening tag and the closing marker that balances it.
type TagPair struct {
	Open  scan.Interval
	Close scan.Interval
}

// Name returns the element name shared by both tags.
func (p TagPair) Name() string {
	name, _ := p.Open.OpenName()
	return name
}

// Span returns the bounds of the whole element, from '<' of the opening tag
// to just past '>' of the closing marker.
func (p TagPair) Span() (start, end int) {
	return p.Open.Start, p.Close.End
}

// Inner returns the bounds of the element content between the two tags.
func (p TagPair) Inner() (start, end int) {
	return p.Open.End, p.Close.Start
}

// EnclosingTagPair returns the innermost element around cursor: the first
// closing marker, in start order, that ends after cursor and balances an
// opening tag starting before it. Each closing marker balances the nearest
// unclosed opening tag of the same name. When name is non-empty only elements
// of that name are considered. Nameless tags never pair.
func (x *Index) EnclosingTagPair(cursor int, name string) (TagPair, bool) {
	open := map[string][]scan.Interval{}
	for _, iv := range x.byStart {
		if iv.Kind != scan.AngleTag {
			continue
		}
		if n, ok := iv.OpenName(); ok {
			open[n] = append(open[n], iv)
			continue
		}
		n, ok := iv.CloseName()
		if !ok || n == "" || len(open[n]) == 0 {
			continue
		}
		stack := open[n]
		o := stack[len(stack)-1]
		open[n] = stack[:len(stack)-1]
		if iv.End <= cursor || o.Start >= cursor || (name != "" && n != name) {
			continue
		}
		return TagPair{Open: o, Close: iv}, true
	}
	return TagPair{}, false
}
