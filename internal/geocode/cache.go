// Package geocode wraps an address Geocoder with an in-process cache.
package geocode

import (
	"container/list"
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cwarden/eventscope/internal/event"
	"github.com/cwarden/eventscope/internal/logger"
)

// Cache is a TTL LRU in front of another Geocoder. Misses that come back
// ErrNotFound are remembered too; any other error is returned uncached.
type Cache struct {
	next event.Geocoder
	now  func() time.Time

	mu   sync.Mutex
	cap  int
	ttl  time.Duration
	lst  *list.List
	dict map[string]*list.Element
}

type entry struct {
	key      string
	coord    event.Coordinate
	notFound bool
	exp      time.Time
}

func NewCache(next event.Geocoder, capacity int, ttl time.Duration) *Cache {
	if capacity <= 0 {
		capacity = 256
	}
	return &Cache{
		next: next,
		now:  time.Now,
		cap:  capacity,
		ttl:  ttl,
		lst:  list.New(),
		dict: make(map[string]*list.Element),
	}
}

// Resolve implements event.Geocoder.
func (c *Cache) Resolve(ctx context.Context, query string) (event.Coordinate, error) {
	key := normalize(query)
	if key == "" {
		return event.Coordinate{}, event.ErrNotFound
	}

	if e, ok := c.get(key); ok {
		if e.notFound {
			return event.Coordinate{}, event.ErrNotFound
		}
		return e.coord, nil
	}

	coord, err := c.next.Resolve(ctx, query)
	switch {
	case err == nil:
		c.set(entry{key: key, coord: coord})
	case errors.Is(err, event.ErrNotFound):
		logger.L().Debug("geocode miss", "query", query)
		c.set(entry{key: key, notFound: true})
	default:
		return event.Coordinate{}, err
	}
	return coord, err
}

// Len returns the number of cached entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lst.Len()
}

func (c *Cache) get(k string) (entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.dict[k]; ok {
		it := e.Value.(entry)
		if c.ttl <= 0 || c.now().Before(it.exp) {
			c.lst.MoveToFront(e)
			return it, true
		}
		c.lst.Remove(e)
		delete(c.dict, k)
	}
	return entry{}, false
}

func (c *Cache) set(it entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	it.exp = c.now().Add(c.ttl)
	if e, ok := c.dict[it.key]; ok {
		e.Value = it
		c.lst.MoveToFront(e)
		return
	}
	c.dict[it.key] = c.lst.PushFront(it)
	for c.lst.Len() > c.cap {
		back := c.lst.Back()
		delete(c.dict, back.Value.(entry).key)
		c.lst.Remove(back)
	}
}

func normalize(q string) string {
	return strings.ToLower(strings.Join(strings.Fields(q), " "))
}

// NotFound is the Geocoder used when no address service is configured.
var NotFound = event.GeocoderFunc(func(context.Context, string) (event.Coordinate, error) {
	return event.Coordinate{}, event.ErrNotFound
})

// Static resolves queries from a fixed table. Keys are normalized the way
// the cache normalizes them, once, when the table is built.
type Static struct {
	table map[string]event.Coordinate
}

// NewStatic builds a table from raw queries. When several queries
// normalize to the same key the first in sorted order wins.
func NewStatic(entries map[string]event.Coordinate) Static {
	queries := make([]string, 0, len(entries))
	for q := range entries {
		queries = append(queries, q)
	}
	sort.Strings(queries)

	table := make(map[string]event.Coordinate, len(entries))
	for _, q := range queries {
		key := normalize(q)
		if _, dup := table[key]; dup {
			logger.L().Warn("duplicate place query", "query", q, "key", key)
			continue
		}
		table[key] = entries[q]
	}
	return Static{table: table}
}

// Len returns the number of distinct queries in the table.
func (s Static) Len() int {
	return len(s.table)
}

func (s Static) Resolve(_ context.Context, query string) (event.Coordinate, error) {
	if c, ok := s.table[normalize(query)]; ok {
		return c, nil
	}
	return event.Coordinate{}, event.ErrNotFound
}
