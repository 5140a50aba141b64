package notify

import (
	"context"
	"encoding/json"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/tckz/go-visit-counter/internal/visit"
	"go.uber.org/zap"
)

// Event is published once per counted visit.
type Event struct {
	Date       string    `json:"date"`
	Month      string    `json:"month"`
	Today      int64     `json:"today"`
	MonthCount int64     `json:"monthCount"`
	At         time.Time `json:"at"`
}

var _ visit.VisitObserver = (*PubsubObserver)(nil)

// PubsubObserver publishes counted visits to a topic. Publishing never fails
// the visit: results are collected by Run and failures are only logged.
type PubsubObserver struct {
	topic  *pubsub.Topic
	chRes  chan *pubsub.PublishResult
	now    func() time.Time
	logger *zap.SugaredLogger
}

func NewPubsubObserver(topic *pubsub.Topic, logger *zap.SugaredLogger) *PubsubObserver {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &PubsubObserver{
		topic:  topic,
		chRes:  make(chan *pubsub.PublishResult, 100),
		now:    time.Now,
		logger: logger,
	}
}

func (o *PubsubObserver) Counted(ctx context.Context, d visit.Decision) {
	b, err := json.Marshal(Event{
		Date:       d.Keys.Date,
		Month:      d.Keys.Month,
		Today:      d.Next.Today,
		MonthCount: d.Next.Month,
		At:         o.now().UTC(),
	})
	if err != nil {
		o.logger.Errorf("json.Marshal: %v", err)
		return
	}

	// The request context ends with the visit; the publish should not.
	res := o.topic.Publish(context.WithoutCancel(ctx), &pubsub.Message{
		Data:       b,
		Attributes: map[string]string{"date": d.Keys.Date},
	})

	select {
	case o.chRes <- res:
	default:
		o.logger.Warnf("publish result dropped, date=%s", d.Keys.Date)
	}
}

// Run waits for publish results until ctx is done.
func (o *PubsubObserver) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case res := <-o.chRes:
			if id, err := res.Get(ctx); err != nil {
				o.logger.Errorf("*** Publish: %v", err)
			} else {
				o.logger.Debugf("published: id=%s", id)
			}
		}
	}
}

// Stop flushes pending messages.
func (o *PubsubObserver) Stop() {
	o.topic.Stop()
}
