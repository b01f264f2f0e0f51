package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/albapepper/playerdata/internal/collect"
	"github.com/albapepper/playerdata/internal/config"
	"github.com/albapepper/playerdata/internal/db"
	"github.com/albapepper/playerdata/internal/export"
	"github.com/albapepper/playerdata/internal/logging"
	"github.com/albapepper/playerdata/internal/metrics"
	"github.com/albapepper/playerdata/internal/provider"
	"github.com/albapepper/playerdata/internal/provider/transfermarkt"
)

func newClient(cfg *config.Config, logger *logging.Logger) *transfermarkt.Client {
	timeout := cfg.ProviderTimeout
	if timeout == 0 {
		// Zero from the environment means no per-request timeout.
		timeout = -1
	}
	return transfermarkt.NewClient(transfermarkt.ClientConfig{
		BaseURL:           cfg.ProviderBaseURL,
		Timeout:           timeout,
		RequestsPerMinute: cfg.ProviderRequestsPerMinute,
		Logger:            logger,
	})
}

// runCollection runs the pipeline over pairs and writes the tables to the
// configured sink.
func runCollection(ctx context.Context, cfg *config.Config, pairs []provider.CompetitionSeason, logger *logging.Logger) error {
	if len(pairs) == 0 {
		return errors.New("crawl plan is empty")
	}

	fetches, err := collect.ParseFetches(cfg.Fetches)
	if err != nil {
		return err
	}

	sink, closeSink, err := buildSink(ctx, cfg, time.Now(), logger)
	if err != nil {
		return err
	}
	defer closeSink()

	rec := metrics.NewRecorder()
	if cfg.MetricsAddr != "" {
		srv := metrics.NewServer(cfg.MetricsAddr, rec, cfg.MetricsCORSOrigins, logger)
		srv.Start()
		defer srv.Shutdown()
	}

	pipeline := collect.New(newClient(cfg, logger), collect.Options{
		Concurrency:          cfg.Concurrency,
		BatchSize:            cfg.BatchSize,
		DiscoveryConcurrency: cfg.DiscoveryConcurrency,
		Fetches:              fetches,
		ResolveYouthTeams:    cfg.ResolveYouthTeams,
		Observer:             collect.Observers(rec, collect.LogObserver{Logger: logger, Every: 500}),
	}, logger)

	result, err := pipeline.Run(ctx, pairs)
	if err != nil {
		return err
	}

	tables := result.Dataset.Tables()
	if err := sink.Write(ctx, tables); err != nil {
		return errors.Wrap(err, "export tables")
	}
	logger.Info("Export finished", "sink", cfg.Sink, "tables", len(tables), "run_id", result.Summary.RunID)
	return nil
}

// buildSink opens the configured sink. The returned func releases it.
func buildSink(ctx context.Context, cfg *config.Config, now time.Time, logger *logging.Logger) (export.Sink, func(), error) {
	switch cfg.Sink {
	case config.SinkCSV, "":
		dir := export.RunDir(cfg.ExportDir, now)
		logger.Info("Writing CSV tables", "dir", dir)
		return export.NewCSVSink(dir, logger), func() {}, nil

	case config.SinkSQLite:
		sink, err := export.OpenSQLite(cfg.SQLitePath, logger)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Writing SQLite tables", "path", cfg.SQLitePath)
		return sink, func() { _ = sink.Close() }, nil

	case config.SinkPostgres:
		logger.Info("Connecting to database...")
		pool, err := db.New(ctx, cfg)
		if err != nil {
			return nil, nil, errors.Wrap(err, "connect to database")
		}
		if err := pool.HealthCheck(ctx); err != nil {
			pool.Close()
			return nil, nil, errors.Wrap(err, "database health check")
		}
		logger.Info("Database connected", "min_conns", cfg.DBPoolMinConns, "max_conns", cfg.DBPoolMaxConns)
		return export.NewPostgresSink(pool, cfg.DBSchema, logger), pool.Close, nil

	default:
		return nil, nil, errors.Newf("unknown sink %q", cfg.Sink)
	}
}

type clubSearcher interface {
	SearchClubs(ctx context.Context, name string) ([]provider.ClubSearchResult, error)
}

// searchClub prints every search result and marks the one the youth team
// heuristic would pick.
func searchClub(ctx context.Context, w io.Writer, client clubSearcher, name string) error {
	results, err := client.SearchClubs(ctx, name)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintln(w, "no results")
		return nil
	}

	youth := collect.YouthTeamIndex(results)
	for i, r := range results {
		mark := ""
		switch i {
		case 0:
			mark = "\t<- senior"
		case youth:
			mark = "\t<- youth"
		}
		fmt.Fprintf(w, "%s\t%s\t%s%s\n", r.ID, r.Name, r.Country, mark)
	}
	return nil
}
