package visit

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

// MinRefreshDelay keeps clock skew from arming a zero or negative timer.
const MinRefreshDelay = time.Second

// UntilMidnight returns the time left until the next midnight in KST.
func UntilMidnight(now time.Time) time.Duration {
	t := now.In(KST)
	midnight := time.Date(t.Year(), t.Month(), t.Day()+1, 0, 0, 0, 0, KST)
	d := midnight.Sub(t)
	if d < MinRefreshDelay {
		return MinRefreshDelay
	}
	return d
}

type refreshOptions struct {
	next   func(time.Time) time.Duration
	now    func() time.Time
	after  func(time.Duration) <-chan time.Time
	logger *zap.SugaredLogger
}

type RefreshOption func(o *refreshOptions)

func WithNextDelay(next func(time.Time) time.Duration) RefreshOption {
	return RefreshOption(func(o *refreshOptions) {
		o.next = next
	})
}

func WithRefreshClock(now func() time.Time) RefreshOption {
	return RefreshOption(func(o *refreshOptions) {
		o.now = now
	})
}

func WithTimer(after func(time.Duration) <-chan time.Time) RefreshOption {
	return RefreshOption(func(o *refreshOptions) {
		o.after = after
	})
}

func WithRefreshLogger(l *zap.SugaredLogger) RefreshOption {
	return RefreshOption(func(o *refreshOptions) {
		o.logger = l
	})
}

// Refresher runs a task once per period, by default at every KST midnight.
// Only one timer is armed at a time and a new one is armed after the task returns.
type Refresher struct {
	task func(ctx context.Context) error
	opts refreshOptions
}

func NewRefresher(task func(ctx context.Context) error, opts ...RefreshOption) *Refresher {
	o := refreshOptions{
		next:   UntilMidnight,
		now:    time.Now,
		after:  time.After,
		logger: zap.NewNop().Sugar(),
	}
	for _, e := range opts {
		e(&o)
	}

	return &Refresher{
		task: task,
		opts: o,
	}
}

// Run blocks until ctx is done. A failing task is logged and does not stop the loop.
func (r *Refresher) Run(ctx context.Context) error {
	for {
		now := r.opts.now()
		d := r.opts.next(now)
		r.opts.logger.Infof("next refresh in %s (%s)", d, humanize.Time(now.Add(d)))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.opts.after(d):
		}

		if err := r.task(ctx); err != nil {
			r.opts.logger.Errorf("refresh: %v", err)
		}
	}
}
