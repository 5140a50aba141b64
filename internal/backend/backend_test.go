package backend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tckz/go-visit-counter/internal/store"
)

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{name: "memory", opts: Options{Counter: CounterMemory, Marker: MarkerCookie}},
		{name: "datastore", opts: Options{Counter: CounterDatastore, Marker: MarkerMemory}},
		{name: "redis with addr", opts: Options{Counter: CounterRedis, Marker: MarkerRedis, RedisAddr: "localhost:6379"}},
		{name: "redis without addr", opts: Options{Counter: CounterMemory, Marker: MarkerRedis}, wantErr: true},
		{name: "unknown counter", opts: Options{Counter: "firebase", Marker: MarkerCookie}, wantErr: true},
		{name: "unknown marker", opts: Options{Counter: CounterMemory, Marker: "localStorage"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOpen_Memory(t *testing.T) {
	b, err := Open(context.Background(), Options{Counter: CounterMemory, Marker: MarkerMemory})
	require.NoError(t, err)
	defer b.Close()

	assert.IsType(t, &store.MemoryCounterStore{}, b.Counter)
	assert.IsType(t, &store.MemoryMarkers{}, b.Markers)
}

func TestOpen_CookieMarkersHaveNoFactory(t *testing.T) {
	b, err := Open(context.Background(), Options{Counter: CounterMemory, Marker: MarkerCookie})
	require.NoError(t, err)
	defer b.Close()

	assert.Nil(t, b.Markers)
}

func TestOpen_RedisIsLazy(t *testing.T) {
	// go-redis does not dial until the first command.
	b, err := Open(context.Background(), Options{Counter: CounterRedis, Marker: MarkerRedis, RedisAddr: "127.0.0.1:1"})
	require.NoError(t, err)

	assert.IsType(t, &store.RedisCounterStore{}, b.Counter)
	assert.IsType(t, &store.RedisMarkers{}, b.Markers)
	assert.NoError(t, b.Close())
}

func TestOptionsClientOptions(t *testing.T) {
	assert.Empty(t, Options{}.ClientOptions())
	assert.Len(t, Options{CredentialsFile: "/path/to/sa.json"}.ClientOptions(), 1)
}
