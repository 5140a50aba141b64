package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/tckz/go-visit-counter/internal/visit"
)

const (
	DefaultMarkerPrefix = "visit-marker:"

	MarkerDateField  = "visit-last-count-date"
	MarkerMonthField = "visit-last-count-month"
)

var _ visit.RemoteCounterStore = (*RedisCounterStore)(nil)

// RedisCounterStore keeps the record as one hash. HSET only touches the
// fields it names, so other fields of the hash survive an update.
type RedisCounterStore struct {
	key    string
	client redis.UniversalClient
}

func NewRedisCounterStore(client redis.UniversalClient, key string) *RedisCounterStore {
	return &RedisCounterStore{key: key, client: client}
}

func (s *RedisCounterStore) Get(ctx context.Context) (*visit.Record, error) {
	cmd := s.client.HGetAll(ctx, s.key)
	if err := cmd.Err(); err != nil {
		return nil, fmt.Errorf("HGetAll: key=%s, %w", s.key, err)
	}
	if len(cmd.Val()) == 0 {
		return nil, nil
	}

	var rec visit.Record
	if err := cmd.Scan(&rec); err != nil {
		return nil, fmt.Errorf("Scan: key=%s, %w", s.key, err)
	}
	return &rec, nil
}

func (s *RedisCounterStore) Update(ctx context.Context, rec visit.Record) error {
	err := s.client.HSet(ctx, s.key,
		"today", rec.Today,
		"month", rec.Month,
		"lastUpdateDate", rec.LastUpdateDate,
		"lastUpdateMonth", rec.LastUpdateMonth,
	).Err()
	if err != nil {
		return fmt.Errorf("HSet: key=%s, %w", s.key, err)
	}
	return nil
}

var _ visit.MarkerStores = (*RedisMarkers)(nil)

// RedisMarkers keeps one hash per browser, without TTL.
type RedisMarkers struct {
	prefix string
	client redis.UniversalClient
}

func NewRedisMarkers(client redis.UniversalClient, prefix string) *RedisMarkers {
	if prefix == "" {
		prefix = DefaultMarkerPrefix
	}
	return &RedisMarkers{prefix: prefix, client: client}
}

func (m *RedisMarkers) For(browserID string) visit.LocalMarkerStore {
	return &redisMarker{key: m.prefix + browserID, client: m.client}
}

var _ visit.LocalMarkerStore = (*redisMarker)(nil)

type redisMarker struct {
	key    string
	client redis.UniversalClient
}

func (m *redisMarker) Get(ctx context.Context) (visit.Marker, error) {
	vals, err := m.client.HGetAll(ctx, m.key).Result()
	if err != nil {
		return visit.Marker{}, fmt.Errorf("HGetAll: key=%s, %w", m.key, err)
	}
	return visit.Marker{
		Date:  vals[MarkerDateField],
		Month: vals[MarkerMonthField],
	}, nil
}

func (m *redisMarker) Set(ctx context.Context, mk visit.Marker) error {
	if err := m.client.HSet(ctx, m.key, MarkerDateField, mk.Date, MarkerMonthField, mk.Month).Err(); err != nil {
		return fmt.Errorf("HSet: key=%s, %w", m.key, err)
	}
	return nil
}
