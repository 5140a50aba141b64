package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/joho/godotenv"
	"github.com/tckz/go-visit-counter/internal/backend"
	"github.com/tckz/go-visit-counter/internal/log"
	"github.com/tckz/go-visit-counter/internal/notify"
	"github.com/tckz/go-visit-counter/internal/render"
	"github.com/tckz/go-visit-counter/internal/visit"
	"github.com/tckz/go-visit-counter/internal/web"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	myName  = filepath.Base(os.Args[0])
	logger  *zap.SugaredLogger
	version string
)

var (
	optLogLevel     = flag.String("log-level", "info", "debug|info|warn|error")
	optListen       = flag.String("listen", ":8080", "addr:port to listen")
	optCounter      = flag.String("counter", backend.CounterDatastore, "datastore|redis|memory")
	optMarker       = flag.String("marker", backend.MarkerCookie, "cookie|redis|memory")
	optNameSpace    = flag.String("ns", "", "datastore namespace")
	optKind         = flag.String("kind", "", "datastore kind of the counter record")
	optKey          = flag.String("key", "", "name of the counter record")
	optRedis        = flag.String("redis", "", "addr:port of redis")
	optMarkerPrefix = flag.String("marker-prefix", "", "redis key prefix of browser markers")
	optCredentials  = flag.String("credentials", "", "path/to/service-account.json")
	optTopic        = flag.String("topic", "", "pubsub topic to publish counted visits")
	optPage         = flag.String("page", "", "path/to/page.html")
	optLabel        = flag.String("label", render.DefaultLabelFormat, "format of the month label")
	optNoRefresh    = flag.Bool("no-refresh", false, "disable the midnight refresh")
)

func init() {
	godotenv.Load()

	flag.Parse()

	logger = log.Must(log.NewLogger(log.WithLogLevel(*optLogLevel), log.WithApp(myName))).Sugar()
}

func main() {
	logger.Infof("ver=%s, args=%s", version, os.Args)
	defer logger.Infof("done")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		logger.Fatalf("*** run: %v", err)
	}
}

func run(ctx context.Context) error {
	redisAddr := *optRedis
	if redisAddr == "" {
		redisAddr = os.Getenv("REDIS_ADDR")
	}

	opts := backend.Options{
		Counter:         *optCounter,
		Marker:          *optMarker,
		ProjectID:       os.Getenv("PROJECT_ID"),
		CredentialsFile: *optCredentials,
		Namespace:       *optNameSpace,
		Kind:            *optKind,
		Key:             *optKey,
		RedisAddr:       redisAddr,
		MarkerPrefix:    *optMarkerPrefix,
	}
	be, err := backend.Open(ctx, opts)
	if err != nil {
		return err
	}
	defer be.Close()

	tmpl, err := render.DefaultTemplate().WithLabelFormat(*optLabel)
	if *optPage != "" {
		tmpl, err = render.LoadTemplate(*optPage, *optLabel)
	}
	if err != nil {
		return err
	}

	eg, ctx := errgroup.WithContext(ctx)

	updaterOpts := []visit.Option{visit.WithLogger(logger)}
	if *optTopic != "" {
		cl, err := pubsub.NewClient(ctx, opts.ProjectID, opts.ClientOptions()...)
		if err != nil {
			return err
		}
		defer cl.Close()

		ob := notify.NewPubsubObserver(cl.Topic(*optTopic), logger)
		defer ob.Stop()
		updaterOpts = append(updaterOpts, visit.WithObserver(ob))
		eg.Go(func() error {
			return ob.Run(ctx)
		})
	}

	updater := visit.NewUpdater(be.Counter, updaterOpts...)

	if !*optNoRefresh {
		refresher := visit.NewRefresher(func(ctx context.Context) error {
			_, err := updater.Refresh(ctx)
			return err
		}, visit.WithRefreshLogger(logger))
		eg.Go(func() error {
			return refresher.Run(ctx)
		})
	}

	app := web.NewServer(updater, be.Markers, tmpl, logger).App()
	eg.Go(func() error {
		logger.Infof("listen=%s, counter=%s, marker=%s", *optListen, opts.Counter, opts.Marker)
		return app.Listen(*optListen)
	})
	eg.Go(func() error {
		<-ctx.Done()
		logger.Infof("Shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return app.ShutdownWithContext(sctx)
	})

	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
