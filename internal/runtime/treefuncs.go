package runtime

import (
	"context"
	"sync"
	"unsafe"

	"github.com/risor-io/risor/object"
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/jward/brackets/internal/lang"
)

// treeStore remembers the source and grammar of each tree parsed by a
// script. smacker/go-tree-sitter does not expose Node.Tree(), so entries
// are keyed by root node pointer and found again by walking Parent().
type treeStore struct {
	mu      sync.RWMutex
	sources map[uintptr][]byte
	langs   map[uintptr]*sitter.Language
}

func newTreeStore() *treeStore {
	return &treeStore{
		sources: make(map[uintptr][]byte),
		langs:   make(map[uintptr]*sitter.Language),
	}
}

func (s *treeStore) put(tree *sitter.Tree, src []byte, g *sitter.Language) {
	key := uintptr(unsafe.Pointer(tree.RootNode()))
	s.mu.Lock()
	s.sources[key] = src
	s.langs[key] = g
	s.mu.Unlock()
}

func rootOf(node *sitter.Node) *sitter.Node {
	for node.Parent() != nil {
		node = node.Parent()
	}
	return node
}

func (s *treeStore) lookup(node *sitter.Node) ([]byte, *sitter.Language, bool) {
	key := uintptr(unsafe.Pointer(rootOf(node)))
	s.mu.RLock()
	defer s.mu.RUnlock()
	src, ok := s.sources[key]
	return src, s.langs[key], ok
}

// makeParseSrcFn creates "parse_src", which lets scripts compare scanner
// intervals with the grammar's view of the same text.
//
// parse_src(source, language) → *sitter.Tree
func makeParseSrcFn(ts *treeStore) *object.Builtin {
	return object.NewBuiltin("parse_src", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 2 {
			return object.NewArgsError("parse_src", 2, len(args))
		}
		src, err := toString(args[0])
		if err != nil {
			return object.Errorf("parse_src: source: %v", err)
		}
		name, err := toString(args[1])
		if err != nil {
			return object.Errorf("parse_src: language: %v", err)
		}
		g, ok := lang.Grammar(name)
		if !ok {
			return object.Errorf("parse_src: unsupported language %q", name)
		}

		parser := sitter.NewParser()
		defer parser.Close()
		parser.SetLanguage(g)

		tree, err := parser.ParseCtx(ctx, nil, []byte(src))
		if err != nil {
			return object.Errorf("parse_src: tree-sitter parse failed: %v", err)
		}
		ts.put(tree, []byte(src), g)

		proxy, err := object.NewProxy(tree)
		if err != nil {
			return object.Errorf("parse_src: proxy error: %v", err)
		}
		return proxy
	})
}

func nodeArg(name string, obj object.Object) (*sitter.Node, object.Object) {
	proxy, ok := obj.(*object.Proxy)
	if !ok {
		return nil, object.Errorf("%s: expected proxy (Node), got %s", name, obj.Type())
	}
	node, ok := proxy.Interface().(*sitter.Node)
	if !ok {
		return nil, object.Errorf("%s: expected *sitter.Node, got %T", name, proxy.Interface())
	}
	return node, nil
}

// makeNodeTextFn creates "node_text"; Risor proxies cannot pass the []byte
// that Node.Content needs.
//
// node_text(node) → string
func makeNodeTextFn(ts *treeStore) *object.Builtin {
	return object.NewBuiltin("node_text", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("node_text", 1, len(args))
		}
		node, errObj := nodeArg("node_text", args[0])
		if errObj != nil {
			return errObj
		}
		src, _, ok := ts.lookup(node)
		if !ok {
			return object.Errorf("node_text: no source found for node's tree")
		}
		return object.NewString(node.Content(src))
	})
}

// makeTreeQueryFn creates "ts_query".
//
// ts_query(pattern, node) → [{capture: {type, start, end, text}}]
func makeTreeQueryFn(ts *treeStore) *object.Builtin {
	return object.NewBuiltin("ts_query", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 2 {
			return object.NewArgsError("ts_query", 2, len(args))
		}
		pattern, err := toString(args[0])
		if err != nil {
			return object.Errorf("ts_query: pattern: %v", err)
		}
		node, errObj := nodeArg("ts_query", args[1])
		if errObj != nil {
			return errObj
		}
		src, g, ok := ts.lookup(node)
		if !ok {
			return object.Errorf("ts_query: no tree found for node")
		}

		q, err := sitter.NewQuery([]byte(pattern), g)
		if err != nil {
			return object.Errorf("ts_query: invalid pattern: %v", err)
		}
		defer q.Close()

		cursor := sitter.NewQueryCursor()
		defer cursor.Close()
		cursor.Exec(q, node)

		results := []object.Object{}
		for {
			match, ok := cursor.NextMatch()
			if !ok {
				break
			}
			match = cursor.FilterPredicates(match, src)
			captures := make(map[string]object.Object, len(match.Captures))
			for _, c := range match.Captures {
				captures[q.CaptureNameForId(c.Index)] = object.NewMap(map[string]object.Object{
					"type":  object.NewString(c.Node.Type()),
					"start": object.NewInt(int64(c.Node.StartByte())),
					"end":   object.NewInt(int64(c.Node.EndByte())),
					"text":  object.NewString(c.Node.Content(src)),
				})
			}
			results = append(results, object.NewMap(captures))
		}
		return object.NewList(results)
	})
}
