package runtime

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/risor-io/risor/object"

	"github.com/jward/brackets/internal/index"
	"github.com/jward/brackets/internal/lang"
	"github.com/jward/brackets/internal/locate"
	"github.com/jward/brackets/internal/markdown"
	"github.com/jward/brackets/internal/scan"
	"github.com/jward/brackets/internal/textpos"
)

// makeScanFn creates the "scan" host function.
//
// scan(text) → [{kind, start, end, text, open_name?, close_name?}]
func makeScanFn() *object.Builtin {
	return object.NewBuiltin("scan", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("scan", 1, len(args))
		}
		text, err := toString(args[0])
		if err != nil {
			return object.Errorf("scan: %v", err)
		}
		return intervalsToList(text, scan.Scan(text))
	})
}

// makeScanFileFn creates "scan_file". Markdown files are scanned inside
// fenced code blocks only.
//
// scan_file(path) → [{kind, start, end, text, ...}]
func makeScanFileFn() *object.Builtin {
	return object.NewBuiltin("scan_file", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("scan_file", 1, len(args))
		}
		path, err := toString(args[0])
		if err != nil {
			return object.Errorf("scan_file: %v", err)
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return object.Errorf("scan_file: reading %s: %v", path, err)
		}
		var ivs []scan.Interval
		if l, _ := lang.Detect(path, content); l == lang.Markdown {
			ivs = markdown.Scan(content)
		} else {
			ivs = scan.Scan(string(content))
		}
		return intervalsToList(string(content), ivs)
	})
}

// makeEnclosingFn creates "enclosing".
//
// enclosing(text, offset, kinds, strict=false, immediate=false) → interval or nil
func makeEnclosingFn(memo *indexMemo) *object.Builtin {
	return object.NewBuiltin("enclosing", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) < 3 || len(args) > 5 {
			return object.Errorf("enclosing: expected 3 to 5 arguments, got %d", len(args))
		}
		text, offset, kinds, errObj := textOffsetKinds("enclosing", args)
		if errObj != nil {
			return errObj
		}
		strict, immediate := false, false
		if len(args) > 3 {
			strict = truthy(args[3])
		}
		if len(args) > 4 {
			immediate = truthy(args[4])
		}
		iv, ok := memo.get(text).EnclosingAt(offset, kinds, strict, immediate)
		if !ok {
			return object.Nil
		}
		return intervalToMap(text, iv)
	})
}

// makePeerFn creates "next_peer" or "prev_peer".
//
// next_peer(text, offset, kinds) → interval or nil
func makePeerFn(name string, memo *indexMemo, forward bool) *object.Builtin {
	return object.NewBuiltin(name, func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 3 {
			return object.NewArgsError(name, 3, len(args))
		}
		text, offset, kinds, errObj := textOffsetKinds(name, args)
		if errObj != nil {
			return errObj
		}
		x := memo.get(text)
		var (
			iv scan.Interval
			ok bool
		)
		if forward {
			iv, ok = x.NextPeer(offset, kinds)
		} else {
			iv, ok = x.PrevPeer(offset, kinds)
		}
		if !ok {
			return object.Nil
		}
		return intervalToMap(text, iv)
	})
}

// makeTagPairFn creates "tag_pair".
//
// tag_pair(text, offset, name="") → {name, open, close} or nil
func makeTagPairFn(memo *indexMemo) *object.Builtin {
	return object.NewBuiltin("tag_pair", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) < 2 || len(args) > 3 {
			return object.Errorf("tag_pair: expected 2 or 3 arguments, got %d", len(args))
		}
		text, err := toString(args[0])
		if err != nil {
			return object.Errorf("tag_pair: %v", err)
		}
		offset, err := toInt64(args[1])
		if err != nil {
			return object.Errorf("tag_pair: offset: %v", err)
		}
		name := ""
		if len(args) == 3 {
			if name, err = toString(args[2]); err != nil {
				return object.Errorf("tag_pair: name: %v", err)
			}
		}
		pair, ok := memo.get(text).EnclosingTagPair(int(offset), name)
		if !ok {
			return object.Nil
		}
		return tagPairToMap(text, pair)
	})
}

// makeLocateFn creates "locate".
//
// locate(text, expr, cursor_line=0) → [{locator, char, interval}]
func makeLocateFn(memo *indexMemo) *object.Builtin {
	return object.NewBuiltin("locate", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) < 2 || len(args) > 3 {
			return object.Errorf("locate: expected 2 or 3 arguments, got %d", len(args))
		}
		text, err := toString(args[0])
		if err != nil {
			return object.Errorf("locate: %v", err)
		}
		src, err := toString(args[1])
		if err != nil {
			return object.Errorf("locate: expr: %v", err)
		}
		var cursorLine int64
		if len(args) == 3 {
			if cursorLine, err = toInt64(args[2]); err != nil {
				return object.Errorf("locate: cursor_line: %v", err)
			}
		}
		expr, err := locate.Parse(src)
		if err != nil {
			return object.Errorf("locate: %v", err)
		}
		results := []object.Object{}
		for _, m := range locate.Resolve(memo.get(text), expr, int(cursorLine)) {
			results = append(results, object.NewMap(map[string]object.Object{
				"locator":  object.NewString(m.Locator.String()),
				"char":     object.NewInt(int64(m.Char)),
				"interval": intervalToMap(text, m.Interval),
			}))
		}
		return object.NewList(results)
	})
}

// makeOffsetAtFn creates "offset_at", converting a 0-based line and column
// to a byte offset.
//
// offset_at(text, line, col, unit="byte") → int
func makeOffsetAtFn() *object.Builtin {
	return object.NewBuiltin("offset_at", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) < 3 || len(args) > 4 {
			return object.Errorf("offset_at: expected 3 or 4 arguments, got %d", len(args))
		}
		text, err := toString(args[0])
		if err != nil {
			return object.Errorf("offset_at: %v", err)
		}
		line, err := toInt64(args[1])
		if err != nil {
			return object.Errorf("offset_at: line: %v", err)
		}
		col, err := toInt64(args[2])
		if err != nil {
			return object.Errorf("offset_at: col: %v", err)
		}
		unit := textpos.Bytes
		if len(args) == 4 {
			name, err := toString(args[3])
			if err != nil {
				return object.Errorf("offset_at: unit: %v", err)
			}
			if unit, err = textpos.ParseUnit(name); err != nil {
				return object.Errorf("offset_at: %v", err)
			}
		}
		pos := textpos.Position{Line: int(line), Col: int(col)}
		return object.NewInt(int64(textpos.NewLines(text).Offset(pos, unit)))
	})
}

// makeKindsFn creates "kinds", listing every interval kind name.
func makeKindsFn() *object.Builtin {
	return object.NewBuiltin("kinds", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 0 {
			return object.NewArgsError("kinds", 0, len(args))
		}
		var names []object.Object
		for _, k := range scan.Kinds() {
			names = append(names, object.NewString(k.String()))
		}
		return object.NewList(names)
	})
}

// textOffsetKinds decodes the (text, offset, kinds) prefix shared by the
// index query functions. An empty kind set is an error here rather than the
// index's panic.
func textOffsetKinds(name string, args []object.Object) (string, int, scan.KindSet, object.Object) {
	text, err := toString(args[0])
	if err != nil {
		return "", 0, 0, object.Errorf("%s: %v", name, err)
	}
	offset, err := toInt64(args[1])
	if err != nil {
		return "", 0, 0, object.Errorf("%s: offset: %v", name, err)
	}
	kinds, err := toKindSet(args[2])
	if err != nil {
		return "", 0, 0, object.Errorf("%s: %v", name, err)
	}
	if kinds.Empty() {
		return "", 0, 0, object.Errorf("%s: empty kind set", name)
	}
	return text, int(offset), kinds, nil
}

// toKindSet accepts "paren,brace" or ["paren", "brace"].
func toKindSet(obj object.Object) (scan.KindSet, error) {
	switch v := obj.(type) {
	case *object.String:
		return scan.ParseKinds(v.Value())
	case *object.List:
		var names []string
		for _, item := range v.Value() {
			s, err := toString(item)
			if err != nil {
				return 0, err
			}
			names = append(names, s)
		}
		return scan.ParseKinds(names...)
	}
	return 0, errKinds(obj)
}

func truthy(obj object.Object) bool {
	if b, ok := obj.(*object.Bool); ok {
		return b.Value()
	}
	return false
}

func intervalToMap(text string, iv scan.Interval) object.Object {
	m := map[string]object.Object{
		"kind":  object.NewString(iv.Kind.String()),
		"start": object.NewInt(int64(iv.Start)),
		"end":   object.NewInt(int64(iv.End)),
		"text":  object.NewString(text[iv.Start:iv.End]),
	}
	if name, ok := iv.OpenName(); ok {
		m["open_name"] = object.NewString(name)
	}
	if name, ok := iv.CloseName(); ok {
		m["close_name"] = object.NewString(name)
	}
	return object.NewMap(m)
}

func intervalsToList(text string, ivs []scan.Interval) object.Object {
	results := make([]object.Object, 0, len(ivs))
	for _, iv := range ivs {
		results = append(results, intervalToMap(text, iv))
	}
	return object.NewList(results)
}

func tagPairToMap(text string, p index.TagPair) object.Object {
	return object.NewMap(map[string]object.Object{
		"name":  object.NewString(p.Name()),
		"open":  intervalToMap(text, p.Open),
		"close": intervalToMap(text, p.Close),
	})
}

// logObject provides log.debug/info/warn/error methods for scripts.
type logObject struct {
	logger *log.Logger
}

func (l *logObject) Debug(msg string) { l.logger.Debug(msg) }

func (l *logObject) Info(msg string) { l.logger.Info(msg) }

func (l *logObject) Warn(msg string) { l.logger.Warn(msg) }

func (l *logObject) Error(msg string) { l.logger.Error(msg) }
