package draft

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	model "newsdesk/internal/content"
)

// Draft is one saved snapshot of a bundle.
type Draft struct {
	NewsID   string
	Revision int64
	Bundle   model.Bundle
	SavedAt  time.Time
}

// Store is the append-only draft archive written by save.
type Store interface {
	Append(ctx context.Context, d Draft) error
	List(ctx context.Context, newsID string) ([]Draft, error)
}

type MemoryStore struct {
	mu     sync.RWMutex
	drafts map[string][]Draft
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{drafts: make(map[string][]Draft)}
}

func normalizeID(id string) string { return strings.TrimSpace(id) }

func (s *MemoryStore) Append(_ context.Context, d Draft) error {
	d.NewsID = normalizeID(d.NewsID)
	if d.NewsID == "" {
		return fmt.Errorf("news id is required")
	}
	d.Bundle = d.Bundle.Clone()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[d.NewsID] = append(s.drafts[d.NewsID], d)
	return nil
}

// List returns drafts oldest first.
func (s *MemoryStore) List(_ context.Context, newsID string) ([]Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.drafts[normalizeID(newsID)]
	out := make([]Draft, 0, len(list))
	for _, d := range list {
		d.Bundle = d.Bundle.Clone()
		out = append(out, d)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SavedAt.Before(out[j].SavedAt) })
	return out, nil
}
