package visit

import (
	"context"
	"errors"
	"sync"
)

var errBoom = errors.New("boom")

type fakeRemote struct {
	mu     sync.Mutex
	rec    *Record
	getErr error
	putErr error
	puts   int
}

func (f *fakeRemote) Get(ctx context.Context) (*Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.rec == nil {
		return nil, nil
	}
	r := *f.rec
	return &r, nil
}

func (f *fakeRemote) Update(ctx context.Context, rec Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return f.putErr
	}
	f.puts++
	f.rec = &rec
	return nil
}

type fakeLocal struct {
	m    Marker
	sets int
}

func (f *fakeLocal) Get(ctx context.Context) (Marker, error) {
	return f.m, nil
}

func (f *fakeLocal) Set(ctx context.Context, m Marker) error {
	f.sets++
	f.m = m
	return nil
}

type recordingView struct {
	got []Counts
}

func (v *recordingView) Render(c Counts) {
	v.got = append(v.got, c)
}

type recordingObserver struct {
	got []Decision
}

func (o *recordingObserver) Counted(ctx context.Context, d Decision) {
	o.got = append(o.got, d)
}
