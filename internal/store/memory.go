package store

import (
	"context"
	"sync"

	"github.com/patrickmn/go-cache"
	"github.com/tckz/go-visit-counter/internal/visit"
)

var _ visit.RemoteCounterStore = (*MemoryCounterStore)(nil)

// MemoryCounterStore keeps the record in process. Useful for development and tests.
type MemoryCounterStore struct {
	mu  sync.Mutex
	rec *visit.Record
}

func (s *MemoryCounterStore) Get(ctx context.Context) (*visit.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rec == nil {
		return nil, nil
	}
	rec := *s.rec
	return &rec, nil
}

func (s *MemoryCounterStore) Update(ctx context.Context, rec visit.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rec = &rec
	return nil
}

var _ visit.MarkerStores = (*MemoryMarkers)(nil)

// MemoryMarkers holds the markers of every browser in process, without expiry.
type MemoryMarkers struct {
	cache *cache.Cache
}

func NewMemoryMarkers() *MemoryMarkers {
	return &MemoryMarkers{cache: cache.New(cache.NoExpiration, 0)}
}

func (m *MemoryMarkers) For(browserID string) visit.LocalMarkerStore {
	return &memoryMarker{cache: m.cache, browserID: browserID}
}

var _ visit.LocalMarkerStore = (*memoryMarker)(nil)

type memoryMarker struct {
	cache     *cache.Cache
	browserID string
}

func (m *memoryMarker) Get(ctx context.Context) (visit.Marker, error) {
	v, ok := m.cache.Get(m.browserID)
	if !ok {
		return visit.Marker{}, nil
	}
	return v.(visit.Marker), nil
}

func (m *memoryMarker) Set(ctx context.Context, mk visit.Marker) error {
	m.cache.Set(m.browserID, mk, cache.NoExpiration)
	return nil
}
