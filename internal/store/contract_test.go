package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tckz/go-visit-counter/internal/visit"
)

func testCounterStore(t *testing.T, s visit.RemoteCounterStore) {
	t.Helper()
	ctx := context.Background()

	rec, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, rec, "absent record")

	want := visit.Record{Today: 7, Month: 42, LastUpdateDate: "2024-05-07", LastUpdateMonth: "2024-05"}
	require.NoError(t, s.Update(ctx, want))

	rec, err = s.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, want, *rec)

	want = visit.Record{Today: 1, Month: 43, LastUpdateDate: "2024-05-08", LastUpdateMonth: "2024-05"}
	require.NoError(t, s.Update(ctx, want))

	rec, err = s.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, want, *rec)
}

func testMarkers(t *testing.T, f visit.MarkerStores, a, b string) {
	t.Helper()
	ctx := context.Background()

	m, err := f.For(a).Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, visit.Marker{}, m)

	require.NoError(t, f.For(a).Set(ctx, visit.Marker{Date: "2024-05-07", Month: "2024-05"}))

	m, err = f.For(a).Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, visit.Marker{Date: "2024-05-07", Month: "2024-05"}, m)

	m, err = f.For(b).Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, visit.Marker{}, m, "browsers do not share markers")
}
