package artifact

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	artifactrepo "newsdesk/internal/gateway/repository/artifact"
)

type countingStore struct {
	*artifactrepo.MemoryStore

	mu      sync.Mutex
	gets    int
	lists   int
	urls    int
	failPut bool
}

func newCountingStore() *countingStore {
	return &countingStore{MemoryStore: artifactrepo.NewMemoryStore()}
}

func (s *countingStore) Put(ctx context.Context, newsID, name string, content []byte) error {
	if s.failPut {
		return errors.New("put failed")
	}
	return s.MemoryStore.Put(ctx, newsID, name, content)
}

func (s *countingStore) Get(ctx context.Context, newsID, name string) ([]byte, error) {
	s.mu.Lock()
	s.gets++
	s.mu.Unlock()
	return s.MemoryStore.Get(ctx, newsID, name)
}

func (s *countingStore) List(ctx context.Context, newsID string) ([]string, error) {
	s.mu.Lock()
	s.lists++
	s.mu.Unlock()
	return s.MemoryStore.List(ctx, newsID)
}

func (s *countingStore) GetURL(ctx context.Context, newsID, name string) (string, error) {
	s.mu.Lock()
	s.urls++
	s.mu.Unlock()
	return s.MemoryStore.GetURL(ctx, newsID, name)
}

type linkStore struct {
	*countingStore
}

func (s linkStore) GetURL(ctx context.Context, newsID, name string) (string, error) {
	_, _ = s.countingStore.GetURL(ctx, newsID, name)
	return "https://exports.example/" + newsID + "/" + name, nil
}

func TestCachedStoreReadThrough(t *testing.T) {
	ctx := context.Background()
	origin := newCountingStore()
	require.NoError(t, origin.MemoryStore.Put(ctx, "n1", "a.json", []byte("{}")))
	store := NewCachedStore(origin, Config{TTL: time.Minute})

	for i := 0; i < 3; i++ {
		raw, err := store.Get(ctx, "n1", "a.json")
		require.NoError(t, err)
		assert.Equal(t, "{}", string(raw))
		raw[0] = 'x'
	}
	assert.Equal(t, 1, origin.gets)
	files := store.Stats().Files
	assert.Equal(t, uint64(2), files.Hits)
	assert.Equal(t, uint64(1), files.Misses)

	_, err := store.Get(ctx, "n1", "missing.json")
	assert.ErrorIs(t, err, artifactrepo.ErrNotFound)
	assert.Equal(t, uint64(1), store.Stats().Files.OriginErrors)
}

func TestCachedStoreWriteThroughInvalidatesList(t *testing.T) {
	ctx := context.Background()
	origin := newCountingStore()
	store := NewCachedStore(origin, Config{})

	list, err := store.List(ctx, "n1")
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, store.Put(ctx, "n1", "telugu-news-n1.json", []byte("{}")))
	list, err = store.List(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, []string{"telugu-news-n1.json"}, list)
	list[0] = "changed"
	list, err = store.List(ctx, " n1 ")
	require.NoError(t, err)
	assert.Equal(t, []string{"telugu-news-n1.json"}, list)
	assert.Equal(t, 2, origin.lists)

	_, err = store.Get(ctx, "n1", "telugu-news-n1.json")
	require.NoError(t, err)
	assert.Equal(t, 0, origin.gets)

	origin.failPut = true
	assert.Error(t, store.Put(ctx, "n1", "b.json", []byte("{}")))
	snap := store.Stats()
	assert.Equal(t, uint64(2), snap.Writes)
	assert.Equal(t, uint64(1), snap.WriteErrors)
}

func TestCachedStoreSkipsLargeFiles(t *testing.T) {
	ctx := context.Background()
	origin := newCountingStore()
	store := NewCachedStore(origin, Config{MaxFileBytes: 2})

	require.NoError(t, store.Put(ctx, "n1", "big.txt", []byte("large")))
	for i := 0; i < 2; i++ {
		_, err := store.Get(ctx, "n1", "big.txt")
		require.NoError(t, err)
	}
	assert.Equal(t, 2, origin.gets)
}

func TestCachedStoreLinks(t *testing.T) {
	ctx := context.Background()

	empty := newCountingStore()
	store := NewCachedStore(empty, Config{})
	for i := 0; i < 2; i++ {
		u, err := store.GetURL(ctx, "n1", "a.json")
		require.NoError(t, err)
		assert.Empty(t, u)
	}
	assert.Equal(t, 2, empty.urls, "empty links are not cached")

	origin := linkStore{newCountingStore()}
	store = NewCachedStore(origin, Config{})
	for i := 0; i < 2; i++ {
		u, err := store.GetURL(ctx, "n1", "a.json")
		require.NoError(t, err)
		assert.Equal(t, "https://exports.example/n1/a.json", u)
	}
	assert.Equal(t, 1, origin.urls)
	assert.Equal(t, uint64(1), store.Stats().Links.Hits)

	require.NoError(t, store.Put(ctx, "n1", "a.json", []byte("{}")))
	_, err := store.GetURL(ctx, "n1", "a.json")
	require.NoError(t, err)
	assert.Equal(t, 2, origin.urls, "put drops the cached link")
}
