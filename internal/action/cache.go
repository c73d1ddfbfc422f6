package action

import (
	"container/list"
	"slices"
	"sync"
)

// DefaultCacheSize bounds the number of operation names whose split
// forms are cached.
const DefaultCacheSize = 512

// partCache is an LRU of operation name to its normalized comparison
// forms: the whole name first, then each camelCase/underscore part.
// It is safe for concurrent use.
type partCache struct {
	mu      sync.Mutex
	maxSize int
	items   map[string]*list.Element
	lru     *list.List
}

type partEntry struct {
	name  string
	forms []string
}

func newPartCache(maxSize int) *partCache {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}
	return &partCache{
		maxSize: maxSize,
		items:   make(map[string]*list.Element),
		lru:     list.New(),
	}
}

// forms returns the cached forms of name, computing them on a miss.
func (c *partCache) forms(name string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[name]; ok {
		c.lru.MoveToFront(elem)
		return elem.Value.(*partEntry).forms //nolint:errcheck // list only holds *partEntry
	}

	forms := comparisonForms(name)
	if c.lru.Len() >= c.maxSize {
		if oldest := c.lru.Back(); oldest != nil {
			c.lru.Remove(oldest)
			delete(c.items, oldest.Value.(*partEntry).name) //nolint:errcheck // list only holds *partEntry
		}
	}
	c.items[name] = c.lru.PushFront(&partEntry{name: name, forms: forms})
	return forms
}

// len returns the number of cached names.
func (c *partCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

func comparisonForms(name string) []string {
	parts := SplitName(name)
	forms := make([]string, 0, len(parts)+1)
	forms = append(forms, Normalize(name))
	for _, p := range parts {
		if n := Normalize(p); n != "" && !slices.Contains(forms, n) {
			forms = append(forms, n)
		}
	}
	return forms
}
