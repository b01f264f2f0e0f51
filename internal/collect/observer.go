package collect

import (
	"github.com/albapepper/playerdata/internal/logging"
)

// Observer receives progress notifications from a running Pipeline.
// PlayerDone and Degraded are called from worker goroutines and must be
// safe for concurrent use.
type Observer interface {
	// PairDone is called once per (competition, season) pair whose
	// rosters have all been collected.
	PairDone(done, total int)
	// PlayerDone is called once per player completed in the active batch.
	PlayerDone(batch, done, size int)
	// Degraded is called for every detail fetch that fell back to its
	// degraded value.
	Degraded(kind FetchKind, playerID string, err error)
}

type nopObserver struct{}

func (nopObserver) PairDone(int, int)                 {}
func (nopObserver) PlayerDone(int, int, int)          {}
func (nopObserver) Degraded(FetchKind, string, error) {}

// Observers fans notifications out to several observers. Nil entries are
// skipped.
func Observers(observers ...Observer) Observer {
	out := make(multiObserver, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

type multiObserver []Observer

func (m multiObserver) PairDone(done, total int) {
	for _, o := range m {
		o.PairDone(done, total)
	}
}

func (m multiObserver) PlayerDone(batch, done, size int) {
	for _, o := range m {
		o.PlayerDone(batch, done, size)
	}
}

func (m multiObserver) Degraded(kind FetchKind, playerID string, err error) {
	for _, o := range m {
		o.Degraded(kind, playerID, err)
	}
}

// LogObserver reports progress through a logger. Player progress is logged
// every Every players (default 100) and at the end of each batch.
type LogObserver struct {
	Logger *logging.Logger
	Every  int
}

func (o LogObserver) PairDone(done, total int) {
	o.Logger.Info("Discovery progress", "pairs_done", done, "pairs_total", total)
}

func (o LogObserver) PlayerDone(batch, done, size int) {
	every := o.Every
	if every <= 0 {
		every = 100
	}
	if done%every == 0 || done == size {
		o.Logger.Info("Detail progress", "batch", batch, "done", done, "size", size)
	}
}

func (o LogObserver) Degraded(kind FetchKind, playerID string, err error) {
	o.Logger.Debug("Degraded fetch observed", "kind", string(kind), "player_id", playerID, "error", err)
}
