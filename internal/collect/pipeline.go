package collect

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/albapepper/playerdata/internal/logging"
	"github.com/albapepper/playerdata/internal/provider"
)

// Pipeline runs discovery, detail collection, youth team enrichment and
// aggregation against one Provider. A Pipeline holds no run state and may
// be reused.
type Pipeline struct {
	provider Provider
	opts     Options
	fetches  fetchSet
	logger   *logging.Logger
}

// New creates a pipeline. A zero Concurrency becomes DefaultConcurrency and
// empty Fetches enable every fetch. A zero BatchSize means one batch and
// ResolveYouthTeams is taken as given; start from DefaultOptions to get the
// standard batching with enrichment on.
func New(p Provider, opts Options, logger *logging.Logger) *Pipeline {
	if logger == nil {
		logger = logging.Default()
	}
	opts = opts.normalized()
	return &Pipeline{
		provider: p,
		opts:     opts,
		fetches:  newFetchSet(opts.Fetches),
		logger:   logger,
	}
}

// Summary tracks counts and timings of one run.
type Summary struct {
	RunID          string
	Pairs          int
	Clubs          int
	Players        int
	YouthTeams     int
	Degraded       map[FetchKind]int
	DiscoveryTime  time.Duration
	DetailTime     time.Duration
	EnrichmentTime time.Duration
	Duration       time.Duration
}

// String returns a human-readable summary of the run.
func (s Summary) String() string {
	return fmt.Sprintf(
		"run=%s pairs=%d clubs=%d players=%d youth_teams=%d degraded_profile=%d degraded_jerseys=%d degraded_market_values=%d degraded_stats=%d duration=%s",
		s.RunID, s.Pairs, s.Clubs, s.Players, s.YouthTeams,
		s.Degraded[FetchProfile], s.Degraded[FetchJerseys],
		s.Degraded[FetchMarketValues], s.Degraded[FetchStats],
		s.Duration.Round(time.Millisecond),
	)
}

// Result is the output of a successful run.
type Result struct {
	Dataset Dataset
	Summary Summary
}

// degradeCounter is an Observer that counts degraded fetches per kind.
type degradeCounter struct {
	nopObserver
	profile, jerseys, marketValues, stats atomic.Int64
}

func (c *degradeCounter) Degraded(kind FetchKind, _ string, _ error) {
	switch kind {
	case FetchProfile:
		c.profile.Add(1)
	case FetchJerseys:
		c.jerseys.Add(1)
	case FetchMarketValues:
		c.marketValues.Add(1)
	case FetchStats:
		c.stats.Add(1)
	}
}

func (c *degradeCounter) counts() map[FetchKind]int {
	return map[FetchKind]int{
		FetchProfile:      int(c.profile.Load()),
		FetchJerseys:      int(c.jerseys.Load()),
		FetchMarketValues: int(c.marketValues.Load()),
		FetchStats:        int(c.stats.Load()),
	}
}

// Run executes every stage over the crawl plan. Only discovery failures and
// cancellation are returned as errors; detail and enrichment failures are
// absorbed into the dataset.
func (p *Pipeline) Run(ctx context.Context, pairs []provider.CompetitionSeason) (Result, error) {
	start := time.Now()
	summary := Summary{RunID: uuid.NewString(), Pairs: len(pairs)}
	logger := p.logger.With("run_id", summary.RunID)

	// Counting is scoped to this run; the configured observer still sees
	// every event.
	counter := &degradeCounter{}
	run := *p
	run.opts.Observer = Observers(p.opts.Observer, counter)
	run.logger = logger

	logger.Info("Phase 1/4: Discovering players...", "pairs", len(pairs))
	stageStart := time.Now()
	discovery, err := run.Discover(ctx, pairs)
	if err != nil {
		return Result{}, err
	}
	summary.DiscoveryTime = time.Since(stageStart)
	summary.Clubs = len(discovery.Clubs())
	summary.Players = len(discovery.PlayerIDs())
	logger.Info("Discovery done", "clubs", summary.Clubs, "players", summary.Players,
		"duration", summary.DiscoveryTime.Round(time.Millisecond))

	logger.Info("Phase 2/4: Collecting player details...",
		"players", summary.Players, "concurrency", p.opts.Concurrency, "batch_size", p.opts.BatchSize)
	stageStart = time.Now()
	details, err := run.CollectDetails(ctx, discovery.PlayerIDs())
	if err != nil {
		return Result{}, err
	}
	summary.DetailTime = time.Since(stageStart)
	summary.Degraded = counter.counts()

	clubs := discovery.Clubs()
	if p.opts.ResolveYouthTeams {
		logger.Info("Phase 3/4: Resolving youth teams...", "clubs", len(clubs))
		stageStart = time.Now()
		clubs = run.ResolveYouthTeams(ctx, clubs)
		summary.EnrichmentTime = time.Since(stageStart)
		for _, c := range clubs {
			if c.YouthTeamID != "" {
				summary.YouthTeams++
			}
		}
	} else {
		logger.Info("Phase 3/4: Youth team resolution disabled")
	}

	logger.Info("Phase 4/4: Aggregating tables...")
	dataset := Aggregate(details, clubs, p.opts.Fetches)

	summary.Duration = time.Since(start)
	logger.Info("Collection finished", "summary", summary.String())

	return Result{Dataset: dataset, Summary: summary}, nil
}
