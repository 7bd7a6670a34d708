package sentence

import (
	"sync"

	"github.com/google/uuid"

	"github.com/valpere/prosemark/internal/tokenize"
)

type cacheKey struct {
	locale string
	text   string
}

type entry struct {
	tokens []tokenize.Token
	spans  [][2]int
}

// Cache memoizes segmentation by (locale, text) for one analysis session.
// Entries hold text-relative tokens, so a hit is re-anchored for each
// caller and identical text at different positions keeps exact offsets.
type Cache struct {
	mu      sync.Mutex
	id      uuid.UUID
	entries map[cacheKey]entry
	hits    int
	misses  int
}

// NewCache returns an empty cache with a fresh isolation token.
func NewCache() *Cache {
	return &Cache{id: uuid.New(), entries: make(map[cacheKey]entry)}
}

// ID identifies the cache generation. It changes on every Reset.
func (c *Cache) ID() uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.id
}

// Reset drops every entry. Call it when a new document or version is
// analyzed.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey]entry)
	c.id = uuid.New()
	c.hits, c.misses = 0, 0
}

// Len returns the number of memoized inputs.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns hit and miss counts since the last reset.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

func (c *Cache) get(locale, text string) (entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[cacheKey{locale, text}]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return e, ok
}

func (c *Cache) put(locale, text string, e entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey{locale, text}] = e
}
