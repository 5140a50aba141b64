package visit

import "context"

// RemoteCounterStore is the shared record every browser reads and writes.
type RemoteCounterStore interface {
	// Get returns nil and no error when the record does not exist yet.
	Get(ctx context.Context) (*Record, error)
	// Update writes all four fields of the record in a single call.
	Update(ctx context.Context, rec Record) error
}

// LocalMarkerStore is scoped to one browser.
type LocalMarkerStore interface {
	// Get returns the zero Marker when nothing has been stored.
	Get(ctx context.Context) (Marker, error)
	Set(ctx context.Context, m Marker) error
}

// Renderer displays counts. Targets that are missing are skipped silently.
type Renderer interface {
	Render(c Counts)
}

// VisitObserver is told about every visit that incremented the counters.
type VisitObserver interface {
	Counted(ctx context.Context, d Decision)
}

type RendererFunc func(c Counts)

func (f RendererFunc) Render(c Counts) {
	f(c)
}

// MarkerStores hands out the marker store of one browser.
type MarkerStores interface {
	For(browserID string) LocalMarkerStore
}
