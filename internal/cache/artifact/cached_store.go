// Package artifact caches approved exports in front of the artifact store.
// Export downloads and listings are read far more often than a package is
// approved, so reads are served from memory until they expire.
package artifact

import (
	"bytes"
	"context"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	artifactrepo "newsdesk/internal/gateway/repository/artifact"
)

type Config struct {
	// TTL applies to export files and download links.
	TTL     time.Duration
	ListTTL time.Duration
	// MaxEntries bounds each of the three caches.
	MaxEntries int
	// MaxFileBytes keeps larger exports out of memory. Zero caches every file.
	MaxFileBytes int
}

func DefaultConfig() Config {
	return Config{
		TTL:          5 * time.Minute,
		ListTTL:      30 * time.Second,
		MaxEntries:   256,
		MaxFileBytes: 4 << 20,
	}
}

// Stats counts lookups of one cache and the origin failures behind its misses.
type Stats struct {
	Hits         uint64
	Misses       uint64
	OriginErrors uint64
}

type Snapshot struct {
	Files       Stats
	Listings    Stats
	Links       Stats
	Writes      uint64
	WriteErrors uint64
}

type counter struct {
	hits, misses, errs atomic.Uint64
}

func (c *counter) stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load(), OriginErrors: c.errs.Load()}
}

type CachedStore struct {
	origin       artifactrepo.Store
	maxFileBytes int

	files    *expirable.LRU[string, []byte]
	listings *expirable.LRU[string, []string]
	links    *expirable.LRU[string, string]

	fileStats, listStats, linkStats counter
	writes, writeErrs               atomic.Uint64
}

var _ artifactrepo.Store = (*CachedStore)(nil)

// NewCachedStore wraps origin. Zero fields of cfg take DefaultConfig values.
func NewCachedStore(origin artifactrepo.Store, cfg Config) *CachedStore {
	def := DefaultConfig()
	if cfg.TTL <= 0 {
		cfg.TTL = def.TTL
	}
	if cfg.ListTTL <= 0 {
		cfg.ListTTL = def.ListTTL
	}
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = def.MaxEntries
	}
	if cfg.MaxFileBytes < 0 {
		cfg.MaxFileBytes = def.MaxFileBytes
	}
	return &CachedStore{
		origin:       origin,
		maxFileBytes: cfg.MaxFileBytes,
		files:        expirable.NewLRU[string, []byte](cfg.MaxEntries, nil, cfg.TTL),
		listings:     expirable.NewLRU[string, []string](cfg.MaxEntries, nil, cfg.ListTTL),
		links:        expirable.NewLRU[string, string](cfg.MaxEntries, nil, cfg.TTL),
	}
}

// Put writes through to the origin, then refreshes the file and drops the
// stale listing and link of that news id.
func (s *CachedStore) Put(ctx context.Context, newsID, name string, content []byte) error {
	s.writes.Add(1)
	if err := s.origin.Put(ctx, newsID, name, content); err != nil {
		s.writeErrs.Add(1)
		return err
	}
	key := fileKey(newsID, name)
	if s.fits(content) {
		s.files.Add(key, bytes.Clone(content))
	} else {
		s.files.Remove(key)
	}
	s.listings.Remove(strings.TrimSpace(newsID))
	s.links.Remove(key)
	return nil
}

func (s *CachedStore) Get(ctx context.Context, newsID, name string) ([]byte, error) {
	return readThrough(s.files, &s.fileStats, fileKey(newsID, name), bytes.Clone, s.fits,
		func() ([]byte, error) { return s.origin.Get(ctx, newsID, name) })
}

func (s *CachedStore) List(ctx context.Context, newsID string) ([]string, error) {
	newsID = strings.TrimSpace(newsID)
	return readThrough(s.listings, &s.listStats, newsID, cloneNames, always[[]string],
		func() ([]string, error) { return s.origin.List(ctx, newsID) })
}

// GetURL caches non-empty links only; the memory origin has none.
func (s *CachedStore) GetURL(ctx context.Context, newsID, name string) (string, error) {
	return readThrough(s.links, &s.linkStats, fileKey(newsID, name), identity[string],
		func(u string) bool { return strings.TrimSpace(u) != "" },
		func() (string, error) { return s.origin.GetURL(ctx, newsID, name) })
}

func (s *CachedStore) Stats() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	return Snapshot{
		Files:       s.fileStats.stats(),
		Listings:    s.listStats.stats(),
		Links:       s.linkStats.stats(),
		Writes:      s.writes.Load(),
		WriteErrors: s.writeErrs.Load(),
	}
}

func (s *CachedStore) fits(raw []byte) bool {
	return s.maxFileBytes == 0 || len(raw) <= s.maxFileBytes
}

// readThrough serves key from cache or loads it. Values are cloned on the
// way in and out so callers never share the cached copy.
func readThrough[V any](
	cache *expirable.LRU[string, V],
	c *counter,
	key string,
	clone func(V) V,
	keep func(V) bool,
	load func() (V, error),
) (V, error) {
	if v, ok := cache.Get(key); ok {
		c.hits.Add(1)
		return clone(v), nil
	}
	c.misses.Add(1)
	v, err := load()
	if err != nil {
		c.errs.Add(1)
		var zero V
		return zero, err
	}
	if keep(v) {
		cache.Add(key, clone(v))
	}
	return v, nil
}

func identity[V any](v V) V { return v }

func cloneNames(names []string) []string { return slices.Clone(names) }

func always[V any](V) bool { return true }

func fileKey(newsID, name string) string {
	return strings.TrimSpace(newsID) + "/" + strings.TrimLeft(strings.TrimSpace(name), "/")
}
