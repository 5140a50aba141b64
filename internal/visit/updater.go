package visit

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type options struct {
	now      func() time.Time
	observer VisitObserver
	logger   *zap.SugaredLogger
}

type Option func(o *options)

func WithClock(now func() time.Time) Option {
	return Option(func(o *options) {
		o.now = now
	})
}

func WithObserver(ob VisitObserver) Option {
	return Option(func(o *options) {
		o.observer = ob
	})
}

func WithLogger(l *zap.SugaredLogger) Option {
	return Option(func(o *options) {
		o.logger = l
	})
}

// Updater runs the visit counting routine against one shared record.
//
// Concurrent browsers are not coordinated: the read and the conditional
// write are separate calls, so two browsers that read the same base count
// before either writes will both write base+1 and one increment is lost.
type Updater struct {
	remote RemoteCounterStore
	opts   options
}

func NewUpdater(remote RemoteCounterStore, opts ...Option) *Updater {
	o := options{
		now:    time.Now,
		logger: zap.NewNop().Sugar(),
	}
	for _, e := range opts {
		e(&o)
	}

	return &Updater{
		remote: remote,
		opts:   o,
	}
}

// Update counts the browser behind local if it has not been counted today,
// writes the remote record when it changed, and renders the resulting counts.
// view may be nil.
//
// Failures reading or writing the remote record are returned as is; nothing
// is retried and nothing already written is rolled back.
func (u *Updater) Update(ctx context.Context, local LocalMarkerStore, view Renderer) (Decision, error) {
	keys := KeysAt(u.opts.now())

	rec, err := u.remote.Get(ctx)
	if err != nil {
		return Decision{}, fmt.Errorf("remote.Get: %w", err)
	}

	marker, err := local.Get(ctx)
	if err != nil {
		return Decision{}, fmt.Errorf("local.Get: %w", err)
	}

	d := Plan(keys, rec, marker)
	if d.ShouldWrite {
		if err := u.remote.Update(ctx, d.Next); err != nil {
			return d, fmt.Errorf("remote.Update: %w", err)
		}
	}

	if d.ShouldCount {
		if err := local.Set(ctx, keys.Marker()); err != nil {
			return d, fmt.Errorf("local.Set: %w", err)
		}
		u.opts.logger.Debugf("counted: date=%s, today=%d, month=%d", keys.Date, d.Next.Today, d.Next.Month)
		if u.opts.observer != nil {
			u.opts.observer.Counted(ctx, d)
		}
	}

	if view != nil {
		view.Render(d.Counts())
	}

	return d, nil
}

// Peek returns the counts a visit would currently display without counting
// anything and without writing.
func (u *Updater) Peek(ctx context.Context) (Counts, error) {
	keys := KeysAt(u.opts.now())

	rec, err := u.remote.Get(ctx)
	if err != nil {
		return Counts{}, fmt.Errorf("remote.Get: %w", err)
	}

	return Plan(keys, rec, keys.Marker()).Counts(), nil
}

// Refresh brings stale key fields of the remote record up to the current
// period without counting a visit.
func (u *Updater) Refresh(ctx context.Context) (Decision, error) {
	keys := KeysAt(u.opts.now())

	rec, err := u.remote.Get(ctx)
	if err != nil {
		return Decision{}, fmt.Errorf("remote.Get: %w", err)
	}

	d := Plan(keys, rec, keys.Marker())
	if d.ShouldWrite {
		if err := u.remote.Update(ctx, d.Next); err != nil {
			return d, fmt.Errorf("remote.Update: %w", err)
		}
		u.opts.logger.Infof("rolled over: date=%s, month=%s", keys.Date, keys.Month)
	}

	return d, nil
}
