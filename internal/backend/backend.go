package backend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/datastore"
	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"
	"github.com/tckz/go-visit-counter/internal/store"
	"github.com/tckz/go-visit-counter/internal/visit"
	"google.golang.org/api/option"
)

const (
	CounterDatastore = "datastore"
	CounterRedis     = "redis"
	CounterMemory    = "memory"

	MarkerCookie = "cookie"
	MarkerRedis  = "redis"
	MarkerMemory = "memory"
)

var (
	CounterKinds = []string{CounterDatastore, CounterRedis, CounterMemory}
	MarkerKinds  = []string{MarkerCookie, MarkerRedis, MarkerMemory}
)

type Options struct {
	Counter string
	Marker  string

	ProjectID       string
	CredentialsFile string
	Namespace       string
	Kind            string
	// Key is the datastore entity name or the redis hash key of the record.
	Key string

	RedisAddr    string
	MarkerPrefix string
}

// Backend holds the stores selected by Options.
type Backend struct {
	Counter visit.RemoteCounterStore
	// Markers is nil when markers live in browser cookies.
	Markers visit.MarkerStores

	closers []func() error
}

func (o Options) ClientOptions() []option.ClientOption {
	if o.CredentialsFile == "" {
		return nil
	}
	return []option.ClientOption{option.WithCredentialsFile(o.CredentialsFile)}
}

func (o Options) Validate() error {
	if !lo.Contains(CounterKinds, o.Counter) {
		return fmt.Errorf("unknown counter backend: %s", o.Counter)
	}
	if !lo.Contains(MarkerKinds, o.Marker) {
		return fmt.Errorf("unknown marker backend: %s", o.Marker)
	}
	if (o.Counter == CounterRedis || o.Marker == MarkerRedis) && o.RedisAddr == "" {
		return errors.New("redis address must be specified")
	}
	return nil
}

func Open(ctx context.Context, opts Options) (*Backend, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Kind == "" {
		opts.Kind = store.DefaultKind
	}
	if opts.Key == "" {
		opts.Key = store.DefaultName
	}

	b := &Backend{}

	var rcl redis.UniversalClient
	if opts.Counter == CounterRedis || opts.Marker == MarkerRedis {
		rcl = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs:        []string{opts.RedisAddr},
			DialTimeout:  time.Second * 2,
			ReadTimeout:  time.Second * 2,
			WriteTimeout: time.Second * 2,
			PoolSize:     200,
			PoolTimeout:  time.Second * 5,
		})
		b.closers = append(b.closers, rcl.Close)
	}

	switch opts.Counter {
	case CounterDatastore:
		cl, err := datastore.NewClient(ctx, opts.ProjectID, opts.ClientOptions()...)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("datastore.NewClient: %w", err)
		}
		b.closers = append(b.closers, cl.Close)
		b.Counter = store.NewDatastoreCounterStore(cl, opts.Kind, opts.Key, opts.Namespace)
	case CounterRedis:
		b.Counter = store.NewRedisCounterStore(rcl, opts.Key)
	case CounterMemory:
		b.Counter = &store.MemoryCounterStore{}
	}

	switch opts.Marker {
	case MarkerRedis:
		b.Markers = store.NewRedisMarkers(rcl, opts.MarkerPrefix)
	case MarkerMemory:
		b.Markers = store.NewMemoryMarkers()
	}

	return b, nil
}

func (b *Backend) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
