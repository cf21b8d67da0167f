package surface

import (
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"newsdesk/internal/ui"
)

const (
	DefaultSize = 256
	DefaultTTL  = 10 * time.Minute
)

// Cache holds built surfaces keyed by news id and bundle revision. A new
// revision is a new key, so entries never need invalidating. Cached
// surfaces are shared and must be treated as read-only.
type Cache struct {
	lru    *expirable.LRU[string, ui.Surface]
	hits   atomic.Uint64
	misses atomic.Uint64
}

func New(size int, ttl time.Duration) *Cache {
	if size <= 0 {
		size = DefaultSize
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{lru: expirable.NewLRU[string, ui.Surface](size, nil, ttl)}
}

func key(newsID string, revision int64) string {
	return strings.TrimSpace(newsID) + "@" + strconv.FormatInt(revision, 10)
}

func (c *Cache) Get(newsID string, revision int64) (ui.Surface, bool) {
	if c == nil {
		return ui.Surface{}, false
	}
	s, ok := c.lru.Get(key(newsID, revision))
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return s, ok
}

func (c *Cache) Add(newsID string, revision int64, s ui.Surface) {
	if c == nil {
		return
	}
	c.lru.Add(key(newsID, revision), s)
}

// GetOrBuild returns the cached surface or builds, caches and returns it.
func (c *Cache) GetOrBuild(newsID string, revision int64, build func() ui.Surface) ui.Surface {
	if s, ok := c.Get(newsID, revision); ok {
		return s
	}
	s := build()
	c.Add(newsID, revision, s)
	return s
}

func (c *Cache) Stats() (hits, misses uint64) {
	if c == nil {
		return 0, 0
	}
	return c.hits.Load(), c.misses.Load()
}
