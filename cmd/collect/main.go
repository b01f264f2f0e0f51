// Command collect crawls the player data provider and exports the
// collected tables.
//
// Usage:
//
//	collect run
//	collect run --competitions GB1,ES1 --seasons 2024,2023 --sink sqlite
//	collect run --plan plan.yaml --fetches profile,market_values --no-youth-teams
//	collect plan --plan plan.yaml
//	collect search "Bayern Munich"
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/albapepper/playerdata/internal/config"
	"github.com/albapepper/playerdata/internal/logging"
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:           "collect",
		Short:         "Player data collection CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(runCmd())
	root.AddCommand(planCmd())
	root.AddCommand(searchCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// run command
// --------------------------------------------------------------------------

type runFlags struct {
	plan         string
	competitions []string
	seasons      []string
	concurrency  int
	batchSize    int
	fetches      []string
	noYouthTeams bool
	sink         string
	out          string
	metricsAddr  string
}

func runCmd() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Discover players, collect their details and export the tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			applyRunFlags(cmd, cfg, f)
			if err := cfg.Validate(); err != nil {
				return err
			}

			plan, err := loadPlan(f)
			if err != nil {
				return err
			}

			logger := newLogger(cfg)
			defer func() { _ = logger.Sync() }()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			return runCollection(ctx, cfg, plan.Resolve(), logger)
		},
	}

	cmd.Flags().StringVar(&f.plan, "plan", "", "YAML crawl plan (default: top five leagues, 2024 to 2015)")
	cmd.Flags().StringSliceVar(&f.competitions, "competitions", nil, "Competition ids, overriding the plan")
	cmd.Flags().StringSliceVar(&f.seasons, "seasons", nil, "Season ids, overriding the plan")
	cmd.Flags().IntVar(&f.concurrency, "concurrency", 0, "Players in flight (default COLLECT_CONCURRENCY or 100)")
	cmd.Flags().IntVar(&f.batchSize, "batch-size", 0, "Players per batch (default COLLECT_BATCH_SIZE or 1600)")
	cmd.Flags().StringSliceVar(&f.fetches, "fetches", nil, "Detail fetches: profile, jerseys, market_values, stats")
	cmd.Flags().BoolVar(&f.noYouthTeams, "no-youth-teams", false, "Skip youth team resolution")
	cmd.Flags().StringVar(&f.sink, "sink", "", "Export sink: csv, postgres or sqlite")
	cmd.Flags().StringVar(&f.out, "out", "", "CSV base directory or SQLite file")
	cmd.Flags().StringVar(&f.metricsAddr, "metrics-addr", "", "Serve /metrics and /healthz on this address during the run")
	return cmd
}

// applyRunFlags overlays explicitly set flags onto the env configuration.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config, f runFlags) {
	flags := cmd.Flags()
	if flags.Changed("concurrency") {
		cfg.Concurrency = f.concurrency
	}
	if flags.Changed("batch-size") {
		cfg.BatchSize = f.batchSize
	}
	if flags.Changed("fetches") {
		cfg.Fetches = f.fetches
	}
	if f.noYouthTeams {
		cfg.ResolveYouthTeams = false
	}
	if f.sink != "" {
		cfg.Sink = strings.ToLower(f.sink)
	}
	if f.out != "" {
		if cfg.Sink == config.SinkSQLite {
			cfg.SQLitePath = f.out
		} else {
			cfg.ExportDir = f.out
		}
	}
	if f.metricsAddr != "" {
		cfg.MetricsAddr = f.metricsAddr
	}
}

func loadPlan(f runFlags) (config.Plan, error) {
	plan, err := config.LoadPlan(f.plan)
	if err != nil {
		return config.Plan{}, err
	}
	return plan.Override(f.competitions, f.seasons), nil
}

// --------------------------------------------------------------------------
// plan command
// --------------------------------------------------------------------------

func planCmd() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the (competition, season) pairs a run would crawl",
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := loadPlan(f)
			if err != nil {
				return err
			}
			pairs := plan.Resolve()
			out := cmd.OutOrStdout()
			for _, p := range pairs {
				fmt.Fprintf(out, "%s\t%s\n", p.CompetitionID, p.SeasonID)
			}
			fmt.Fprintf(out, "%d pairs\n", len(pairs))
			return nil
		},
	}
	cmd.Flags().StringVar(&f.plan, "plan", "", "YAML crawl plan")
	cmd.Flags().StringSliceVar(&f.competitions, "competitions", nil, "Competition ids, overriding the plan")
	cmd.Flags().StringSliceVar(&f.seasons, "seasons", nil, "Season ids, overriding the plan")
	return cmd
}

// --------------------------------------------------------------------------
// search command
// --------------------------------------------------------------------------

func searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <club name>",
		Short: "Run a club search and show which result would be taken as the youth team",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger := newLogger(cfg)
			defer func() { _ = logger.Sync() }()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			return searchClub(ctx, cmd.OutOrStdout(), newClient(cfg, logger), args[0])
		},
	}
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

func newLogger(cfg *config.Config) *logging.Logger {
	logger := logging.New(logging.Format(cfg.LogFormat), logging.ParseLevel(cfg.LogLevel))
	logging.SetDefault(logger)
	return logger
}
