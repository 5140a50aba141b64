package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/tckz/go-visit-counter/internal/backend"
	"github.com/tckz/go-visit-counter/internal/log"
	"github.com/tckz/go-visit-counter/internal/visit"
	vh "github.com/tckz/vegetahelper"
	vegeta "github.com/tsenart/vegeta/v12/lib"
	"go.uber.org/zap"
)

// Every hit is a browser that has never visited, so every hit should count.
// The difference between counted hits and the observed increment is the
// number of increments lost to concurrent read-then-write.

var (
	myName  = filepath.Base(os.Args[0])
	logger  *zap.SugaredLogger
	version string
)

var (
	optRate = &vh.RateFlag{
		Rate: &vegeta.Rate{
			Freq: 30,
			Per:  1 * time.Second,
		}}
	optDuration    = flag.Duration("duration", 10*time.Second, "Duration of the test [0 = forever]")
	optOutput      = flag.String("output", "", "/path/to/results.bin or 'stdout'")
	optWorkers     = flag.Uint64("workers", vegeta.DefaultWorkers, "Number of workers")
	optLogLevel    = flag.String("log-level", "info", "info|warn|error")
	optCounter     = flag.String("counter", backend.CounterDatastore, "datastore|redis|memory")
	optNameSpace   = flag.String("ns", "", "datastore namespace")
	optKind        = flag.String("kind", "", "datastore kind of the counter record")
	optKey         = flag.String("key", "", "name of the counter record")
	optRedis       = flag.String("redis", "", "addr:port of redis")
	optCredentials = flag.String("credentials", "", "path/to/service-account.json")
)

func init() {
	godotenv.Load()

	flag.Var(optRate, "rate", "Number of requests per time unit")
	flag.Parse()

	logger = log.Must(log.NewLogger(log.WithLogLevel(*optLogLevel), log.WithApp(myName))).Sugar()
}

type nopWriteCloser struct {
	io.Writer
}

func (c nopWriteCloser) Close() error {
	return nil
}

func openResultFile(out string) (io.WriteCloser, error) {
	switch out {
	case "stdout":
		return &nopWriteCloser{os.Stdout}, nil
	default:
		return os.Create(out)
	}
}

func today(ctx context.Context, s visit.RemoteCounterStore) (int64, error) {
	counts, err := visit.NewUpdater(s).Peek(ctx)
	if err != nil {
		return 0, err
	}
	return counts.Today, nil
}

func main() {
	logger.Infof("ver=%s, args=%s", version, os.Args)
	defer logger.Infof("done")

	if *optOutput == "" {
		logger.Fatalf("*** --output must be specified.")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	redisAddr := *optRedis
	if redisAddr == "" {
		redisAddr = os.Getenv("REDIS_ADDR")
	}

	be, err := backend.Open(ctx, backend.Options{
		Counter:         *optCounter,
		Marker:          backend.MarkerMemory,
		ProjectID:       os.Getenv("PROJECT_ID"),
		CredentialsFile: *optCredentials,
		Namespace:       *optNameSpace,
		Kind:            *optKind,
		Key:             *optKey,
		RedisAddr:       redisAddr,
	})
	if err != nil {
		logger.Fatalf("*** backend.Open: %v", err)
	}
	defer be.Close()

	before, err := today(ctx, be.Counter)
	if err != nil {
		logger.Fatalf("*** today: %v", err)
	}

	updater := visit.NewUpdater(be.Counter)

	var counted int64
	atk := vh.NewAttacker(func(ctx context.Context) (result *vh.HitResult, retErr error) {
		d, err := updater.Update(ctx, be.Markers.For(uuid.New().String()), nil)
		if err != nil {
			return nil, err
		}
		if d.ShouldCount {
			atomic.AddInt64(&counted, 1)
		}
		return result, nil
	}, vh.WithWorkers(*optWorkers))
	res := atk.Attack(ctx, *optRate.Rate, *optDuration, "visit")

	out, err := openResultFile(*optOutput)
	if err != nil {
		logger.Fatal(err)
	}
	defer out.Close()
	enc := vegeta.NewEncoder(out)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT)

loop:
	for {
		select {
		case s := <-sig:
			logger.Infof("Received signal: %s", s)
			cancel()
			// keep loop until 'res' is closed.
		case r, ok := <-res:
			if !ok {
				break loop
			}
			if err := enc.Encode(r); err != nil {
				logger.Errorf("*** Encode: %v", err)
				break loop
			}
		}
	}

	// The attack context may be cancelled by now.
	rctx, rcancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer rcancel()
	after, err := today(rctx, be.Counter)
	if err != nil {
		logger.Errorf("today: %v", err)
		return
	}

	// A KST midnight during the run resets today and makes this meaningless.
	n := atomic.LoadInt64(&counted)
	logger.Infof("counted=%s, observed=%s, lost=%s",
		humanize.Comma(n), humanize.Comma(after-before), humanize.Comma(n-(after-before)))
}
