package runtime

import (
	"container/list"
	"sync"

	"github.com/jward/brackets/internal/index"
	"github.com/jward/brackets/internal/store"
)

const defaultMemoSize = 16

// indexMemo keeps built indexes keyed by the content hash of their text so
// repeated queries over one text in a script scan it once. The least
// recently used index is evicted when the memo is full.
type indexMemo struct {
	mu      sync.Mutex
	limit   int
	ll      *list.List
	entries map[string]*list.Element
	builds  int
}

type memoEntry struct {
	key   string
	index *index.Index
}

func newIndexMemo(limit int) *indexMemo {
	return &indexMemo{limit: max(limit, 1), ll: list.New(), entries: make(map[string]*list.Element, limit)}
}

func (m *indexMemo) get(text string) *index.Index {
	key := store.ContentHash([]byte(text))
	m.mu.Lock()
	defer m.mu.Unlock()
	if elem, ok := m.entries[key]; ok {
		m.ll.MoveToFront(elem)
		return elem.Value.(memoEntry).index
	}
	x := index.Build(text)
	m.entries[key] = m.ll.PushFront(memoEntry{key: key, index: x})
	m.builds++
	for m.ll.Len() > m.limit {
		back := m.ll.Back()
		m.ll.Remove(back)
		delete(m.entries, back.Value.(memoEntry).key)
	}
	return x
}
