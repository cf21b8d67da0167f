package content

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	model "newsdesk/internal/content"
)

var ErrNotFound = errors.New("news not found")

// Record is one stored bundle. Revision increases on every write.
type Record struct {
	ID        string
	Revision  int64
	Bundle    model.Bundle
	UpdatedAt time.Time
}

// Store keeps the authoritative bundle per news id.
type Store interface {
	Get(ctx context.Context, id string) (Record, error)
	Put(ctx context.Context, id string, b model.Bundle) (Record, error)
	Update(ctx context.Context, id string, fn func(*model.Bundle) error) (Record, error)
	Subscribe(ctx context.Context, id string) (<-chan Record, error)
}

// MemoryStore is a process-lifetime Store. The mutex only guards the map;
// there is no version check across requests, so a caller that reads,
// works, then writes back (regenerate) races with other writers and the
// last write wins.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
	subs    map[string]map[chan Record]struct{}
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*Record),
		subs:    make(map[string]map[chan Record]struct{}),
		now:     time.Now,
	}
}

func normalizeID(id string) string { return strings.TrimSpace(id) }

func (s *MemoryStore) Get(_ context.Context, id string) (Record, error) {
	key := normalizeID(id)
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[key]
	if !ok {
		return Record{}, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	return clone(rec), nil
}

func (s *MemoryStore) Put(_ context.Context, id string, b model.Bundle) (Record, error) {
	key := normalizeID(id)
	if key == "" {
		return Record{}, fmt.Errorf("news id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[key]
	if !ok {
		rec = &Record{ID: key}
		s.records[key] = rec
	}
	rec.Bundle = b.Clone()
	rec.Revision++
	rec.UpdatedAt = s.now()
	out := clone(rec)
	s.publishLocked(out)
	return out, nil
}

// Update applies fn to a copy of the stored bundle and saves it when fn
// succeeds. Unknown ids return ErrNotFound without calling fn.
func (s *MemoryStore) Update(_ context.Context, id string, fn func(*model.Bundle) error) (Record, error) {
	key := normalizeID(id)
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[key]
	if !ok {
		return Record{}, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	b := rec.Bundle.Clone()
	if err := fn(&b); err != nil {
		return Record{}, err
	}
	rec.Bundle = b
	rec.Revision++
	rec.UpdatedAt = s.now()
	out := clone(rec)
	s.publishLocked(out)
	return out, nil
}

// Subscribe streams every new record for id until ctx ends. Slow readers
// only ever see the latest record.
func (s *MemoryStore) Subscribe(ctx context.Context, id string) (<-chan Record, error) {
	key := normalizeID(id)
	s.mu.Lock()
	if _, ok := s.records[key]; !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	ch := make(chan Record, 1)
	if s.subs[key] == nil {
		s.subs[key] = make(map[chan Record]struct{})
	}
	s.subs[key][ch] = struct{}{}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs[key], ch)
		if len(s.subs[key]) == 0 {
			delete(s.subs, key)
		}
		s.mu.Unlock()
		close(ch)
	}()
	return ch, nil
}

func (s *MemoryStore) publishLocked(rec Record) {
	for ch := range s.subs[rec.ID] {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- clone(&rec):
		default:
		}
	}
}

func clone(r *Record) Record {
	out := *r
	out.Bundle = r.Bundle.Clone()
	return out
}
