package brackets

import (
	"sync"

	"github.com/charmbracelet/log"

	"github.com/jward/brackets/internal/logging"
)

// Cache holds at most one Matcher for the active document. Any edit or
// focus change invalidates it and the next Get rebuilds from the current
// text. Invalidation only drops the reference, so a Matcher already handed
// out stays valid for the snapshot it was built from.
type Cache struct {
	mu      sync.Mutex
	current *Matcher
	builds  int
	logger  *log.Logger
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithCacheLogger logs rebuilds at debug level to logger.
func WithCacheLogger(logger *log.Logger) CacheOption {
	return func(c *Cache) {
		c.logger = logger
	}
}

// NewCache creates an empty Cache.
func NewCache(opts ...CacheOption) *Cache {
	c := &Cache{}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logging.Default()
	}
	return c
}

// Get returns the cached Matcher, building one from doc if the cache is
// empty.
func (c *Cache) Get(doc Document) *Matcher {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil {
		return c.current
	}
	m := NewMatcher(doc)
	c.current = m
	c.builds++
	c.logger.Debug("rebuilt interval index", logging.FieldIntervals, m.index.Len(), logging.FieldBuilds, c.builds)
	return m
}

// Invalidate drops the cached Matcher. It is idempotent.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.current = nil
	c.mu.Unlock()
}

// OnEdit is called by the host after any text mutation.
func (c *Cache) OnEdit() { c.Invalidate() }

// OnFocusChange is called by the host when another document becomes
// active.
func (c *Cache) OnFocusChange() { c.Invalidate() }

// Builds returns how many times Get has rebuilt the index.
func (c *Cache) Builds() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.builds
}
