package collect

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// FetchKind names one per-player detail fetch.
type FetchKind string

const (
	FetchProfile      FetchKind = "profile"
	FetchJerseys      FetchKind = "jerseys"
	FetchMarketValues FetchKind = "market_values"
	FetchStats        FetchKind = "stats"
)

// AllFetches is the default fetch set, in table order.
var AllFetches = []FetchKind{FetchProfile, FetchJerseys, FetchMarketValues, FetchStats}

const (
	DefaultConcurrency = 100
	DefaultBatchSize   = 1600
)

// ErrUnknownFetch is returned by ParseFetches for an unrecognized kind.
var ErrUnknownFetch = errors.New("unknown fetch kind")

// Options tunes a Pipeline.
type Options struct {
	// Concurrency caps player groups in flight across the whole run.
	Concurrency int
	// BatchSize is the number of players submitted per batch.
	// Zero or less submits everything as one batch.
	BatchSize int
	// DiscoveryConcurrency caps roster requests in flight per
	// (competition, season) pair. Zero means unbounded.
	DiscoveryConcurrency int
	// Fetches selects the per-player detail fetches. Empty means all.
	Fetches []FetchKind
	// ResolveYouthTeams enables the youth team enrichment stage.
	ResolveYouthTeams bool
	// Observer receives progress callbacks. Nil is allowed.
	Observer Observer
}

// DefaultOptions returns the options used by the collect CLI without flags.
func DefaultOptions() Options {
	return Options{
		Concurrency:       DefaultConcurrency,
		BatchSize:         DefaultBatchSize,
		Fetches:           append([]FetchKind(nil), AllFetches...),
		ResolveYouthTeams: true,
	}
}

// ParseFetches parses fetch kind names. An empty list yields AllFetches.
// Order follows AllFetches regardless of input order; duplicates collapse.
func ParseFetches(names []string) ([]FetchKind, error) {
	if len(names) == 0 {
		return append([]FetchKind(nil), AllFetches...), nil
	}

	seen := make(map[FetchKind]bool, len(names))
	for _, name := range names {
		kind := FetchKind(strings.ToLower(strings.TrimSpace(name)))
		if kind == "" {
			continue
		}
		if !kind.valid() {
			return nil, errors.Wrapf(ErrUnknownFetch, "%q", name)
		}
		seen[kind] = true
	}

	kinds := make([]FetchKind, 0, len(seen))
	for _, kind := range AllFetches {
		if seen[kind] {
			kinds = append(kinds, kind)
		}
	}
	if len(kinds) == 0 {
		return append([]FetchKind(nil), AllFetches...), nil
	}
	return kinds, nil
}

func (k FetchKind) valid() bool {
	for _, known := range AllFetches {
		if k == known {
			return true
		}
	}
	return false
}

// fetchSet is the resolved lookup form of Options.Fetches.
type fetchSet map[FetchKind]bool

func newFetchSet(kinds []FetchKind) fetchSet {
	if len(kinds) == 0 {
		kinds = AllFetches
	}
	set := make(fetchSet, len(kinds))
	for _, k := range kinds {
		set[k] = true
	}
	return set
}

func (o Options) normalized() Options {
	if o.Concurrency < 1 {
		o.Concurrency = DefaultConcurrency
	}
	if o.DiscoveryConcurrency < 0 {
		o.DiscoveryConcurrency = 0
	}
	if len(o.Fetches) == 0 {
		o.Fetches = append([]FetchKind(nil), AllFetches...)
	}
	if o.Observer == nil {
		o.Observer = nopObserver{}
	}
	return o
}
