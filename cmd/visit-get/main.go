package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/tckz/go-visit-counter/internal/backend"
	"github.com/tckz/go-visit-counter/internal/log"
	"github.com/tckz/go-visit-counter/internal/visit"
	"go.uber.org/zap"
)

var (
	myName  = filepath.Base(os.Args[0])
	logger  *zap.SugaredLogger
	version string
)

var (
	optLogLevel    = flag.String("log-level", "info", "info|warn|error")
	optCounter     = flag.String("counter", backend.CounterDatastore, "datastore|redis")
	optNameSpace   = flag.String("ns", "", "datastore namespace")
	optKind        = flag.String("kind", "", "datastore kind of the counter record")
	optKey         = flag.String("key", "", "name of the counter record")
	optRedis       = flag.String("redis", "", "addr:port of redis")
	optCredentials = flag.String("credentials", "", "path/to/service-account.json")
)

func init() {
	godotenv.Load()

	flag.Parse()

	logger = log.Must(log.NewLogger(log.WithLogLevel(*optLogLevel), log.WithApp(myName))).Sugar()
}

type output struct {
	Record *visit.Record `json:"record"`
	Counts visit.Counts  `json:"counts"`
}

func main() {
	logger.Infof("ver=%s, args=%s", version, os.Args)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	redisAddr := *optRedis
	if redisAddr == "" {
		redisAddr = os.Getenv("REDIS_ADDR")
	}

	be, err := backend.Open(ctx, backend.Options{
		Counter:         *optCounter,
		Marker:          backend.MarkerCookie,
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

	rec, err := be.Counter.Get(ctx)
	if err != nil {
		logger.Errorf("Get: %v", err)
		return
	}
	if rec == nil {
		logger.Infof("record does not exist yet")
	}

	counts, err := visit.NewUpdater(be.Counter).Peek(ctx)
	if err != nil {
		logger.Errorf("Peek: %v", err)
		return
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(output{Record: rec, Counts: counts}); err != nil {
		logger.Errorf("Encode: %v", err)
	}
}
