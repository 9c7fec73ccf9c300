// Command ingestor loads the Play Store CSV exports into the store.
//
//	ingestor apps    [--path googleplaystore.csv]
//	ingestor reviews [--path googleplaystore_user_reviews.csv]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"playstore/internal/adapters/csvfile"
	"playstore/internal/adapters/observability"
	redisad "playstore/internal/adapters/redis"
	"playstore/internal/app"
	"playstore/internal/domain"
	"playstore/internal/shared"
	"playstore/internal/storage/sqlstore"
)

var startBanner = map[string]string{
	app.DatasetApps:    "Loading data from %s\n",
	app.DatasetReviews: "Loading reviews from %s\n",
}

var defaultPaths = map[string]string{
	app.DatasetApps:    "googleplaystore.csv",
	app.DatasetReviews: "googleplaystore_user_reviews.csv",
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: ingestor apps|reviews [--path FILE]")
}

// run executes one ingestion command and returns the process exit code. Row
// failures do not change the exit code; a file that cannot be read does.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}
	dataset := args[0]
	def, ok := defaultPaths[dataset]
	if !ok {
		usage(stderr)
		return 2
	}
	fs := flag.NewFlagSet(dataset, flag.ContinueOnError)
	fs.SetOutput(stderr)
	path := fs.String("path", def, "CSV file to load")
	if err := fs.Parse(args[1:]); err != nil {
		return 2
	}

	cfg, err := shared.Load()
	if err != nil {
		fmt.Fprintln(stderr, "config:", err)
		return 1
	}

	// row errors go to stderr; the summary line goes to stdout
	log.Logger = observability.NewLogger(cfg.AppEnv, stderr)
	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	repo, db, err := sqlstore.Connect(ctx, sqlstore.Dialect(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Error().Err(err).Str("driver", cfg.DBDriver).Msg("store init failed")
		return 1
	}
	defer db.Close()

	var cache domain.Cache
	if cfg.CacheEnabled() {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		cache = rc
	}
	ing := app.NewIngestionService(repo, app.NewStatsCache(cache, cfg.CacheTTL))
	src := csvfile.New(*path, cfg.IngestRowsPerSec)

	fmt.Fprintf(stdout, startBanner[dataset], src.Path())
	log.Info().Str("dataset", dataset).Str("path", src.Path()).Msg("ingestor starting")
	start := time.Now()

	var rep app.IngestReport
	switch dataset {
	case app.DatasetApps:
		rep, err = ing.IngestApps(ctx, src)
	case app.DatasetReviews:
		rep, err = ing.IngestReviews(ctx, src)
	}
	observability.ObserveIngest(dataset, observability.IngestCounts{
		Inserted: rep.Inserted, Existing: rep.Existing, Skipped: rep.Skipped, Failed: rep.Failed,
	}, time.Since(start))

	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Error().Err(err).Str("path", *path).Msg("file not found")
		} else {
			log.Error().Err(err).Str("path", *path).Msg("ingestion aborted")
		}
		return 1
	}
	fmt.Fprintf(stdout, "Loaded %d %s\n", rep.Inserted, dataset)
	return 0
}
