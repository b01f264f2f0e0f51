// Package metrics exposes collection progress as Prometheus metrics and
// serves them, with a health endpoint, over HTTP.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/albapepper/playerdata/internal/collect"
)

const namespace = "playerdata"

// Recorder records pipeline progress. It implements collect.Observer and
// owns its own registry, so several recorders can coexist in one process.
type Recorder struct {
	registry *prometheus.Registry

	pairsDiscovered  prometheus.Counter
	playersCollected prometheus.Counter
	degradedFetches  *prometheus.CounterVec
	batchProgress    prometheus.Gauge
	pairsTotal       prometheus.Gauge

	mu       sync.Mutex
	snapshot Snapshot
}

var _ collect.Observer = (*Recorder)(nil)

// Snapshot is the latest progress seen by a Recorder.
type Snapshot struct {
	PairsDone   int `json:"pairs_done"`
	PairsTotal  int `json:"pairs_total"`
	Batch       int `json:"batch"`
	BatchDone   int `json:"batch_done"`
	BatchSize   int `json:"batch_size"`
	PlayersDone int `json:"players_done"`
	Degraded    int `json:"degraded"`
}

// NewRecorder creates a recorder with a fresh registry that also carries the
// Go runtime and process collectors.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		pairsDiscovered: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pairs_discovered_total",
			Help:      "Competition seasons whose rosters have been collected.",
		}),
		pairsTotal: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pairs_planned",
			Help:      "Competition seasons in the crawl plan.",
		}),
		playersCollected: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "players_collected_total",
			Help:      "Players whose detail fetches have completed.",
		}),
		degradedFetches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "degraded_fetches_total",
			Help:      "Detail fetches that failed and were recorded as absent.",
		}, []string{"kind"}),
		batchProgress: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "batch_progress_ratio",
			Help:      "Fraction of the active batch completed.",
		}),
	}
}

// Registry returns the registry holding the recorder's metrics.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

func (r *Recorder) PairDone(done, total int) {
	r.pairsDiscovered.Inc()
	r.pairsTotal.Set(float64(total))

	r.mu.Lock()
	r.snapshot.PairsDone = done
	r.snapshot.PairsTotal = total
	r.mu.Unlock()
}

func (r *Recorder) PlayerDone(batch, done, size int) {
	r.playersCollected.Inc()

	r.mu.Lock()
	defer r.mu.Unlock()
	// Completions from one batch can be reported out of order.
	if batch > r.snapshot.Batch || (batch == r.snapshot.Batch && done > r.snapshot.BatchDone) {
		r.snapshot.Batch = batch
		r.snapshot.BatchDone = done
		r.snapshot.BatchSize = size
		if size > 0 {
			r.batchProgress.Set(float64(done) / float64(size))
		}
	}
	r.snapshot.PlayersDone++
}

func (r *Recorder) Degraded(kind collect.FetchKind, _ string, _ error) {
	r.degradedFetches.WithLabelValues(string(kind)).Inc()

	r.mu.Lock()
	r.snapshot.Degraded++
	r.mu.Unlock()
}

// Snapshot returns a copy of the current progress.
func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot
}
