package collect

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc"

	"github.com/albapepper/playerdata/internal/provider"
)

// PlayerDetails is the joined result of every detail fetch for one player.
// Disabled or degraded list fetches leave their slice empty.
type PlayerDetails struct {
	PlayerID     string
	Profile      provider.PlayerProfile
	Jerseys      []provider.JerseyRecord
	MarketValues []provider.MarketValueRecord
	Stats        []provider.StatRecord
}

// CollectDetails fetches the enabled details for every distinct player id.
//
// Players are submitted in batches to a single worker pool of
// Options.Concurrency workers, so no more than that many players are in
// flight at any time. Batch k+1 is submitted only after batch k drains.
// Output is ordered by player id regardless of completion order.
func (p *Pipeline) CollectDetails(ctx context.Context, playerIDs []string) ([]PlayerDetails, error) {
	ids := distinctSorted(playerIDs)
	results := make([]PlayerDetails, len(ids))
	if len(ids) == 0 {
		return results, nil
	}

	workers, err := ants.NewPool(p.opts.Concurrency, ants.WithPanicHandler(func(r any) {
		p.logger.Error("Detail worker panicked", "panic", fmt.Sprint(r))
	}))
	if err != nil {
		return nil, errors.Wrap(err, "create worker pool")
	}
	defer workers.Release()

	batchSize := p.opts.BatchSize
	if batchSize <= 0 || batchSize > len(ids) {
		batchSize = len(ids)
	}
	batches := (len(ids) + batchSize - 1) / batchSize

	for batch := 0; batch < batches; batch++ {
		start := batch * batchSize
		end := min(start+batchSize, len(ids))
		size := end - start

		p.logger.Info("Collecting batch", "batch", batch+1, "batches", batches, "players", size)

		var wg sync.WaitGroup
		var done atomic.Int64
		for i := start; i < end; i++ {
			wg.Add(1)
			if err := workers.Submit(func() {
				defer wg.Done()
				results[i] = p.collectPlayerSafe(ctx, ids[i])
				p.opts.Observer.PlayerDone(batch+1, int(done.Add(1)), size)
			}); err != nil {
				wg.Done()
				wg.Wait()
				return nil, errors.Wrap(err, "submit player to worker pool")
			}
		}
		wg.Wait()

		if err := ctx.Err(); err != nil {
			return nil, errors.Wrapf(err, "detail collection interrupted after batch %d/%d", batch+1, batches)
		}
		p.logger.Info("Batch done", "batch", batch+1, "batches", batches, "collected", end)
	}

	return results, nil
}

// panicMarker is the profile error stored when a player's fetches panic.
const panicMarker = "panic"

// collectPlayerSafe turns a panic in one player's fetches into an
// error-marked profile so the player still gets its row.
func (p *Pipeline) collectPlayerSafe(ctx context.Context, playerID string) (details PlayerDetails) {
	defer func() {
		if r := recover(); r != nil {
			p.degrade(FetchProfile, playerID, errors.Newf("collect player panicked: %v", r))
			details = PlayerDetails{
				PlayerID: playerID,
				Profile:  provider.PlayerProfile{PlayerID: playerID, Error: panicMarker},
			}
		}
	}()
	return p.collectPlayer(ctx, playerID)
}

// collectPlayer runs the enabled fetches for one player concurrently. Each
// fetch degrades on its own; the join never fails.
func (p *Pipeline) collectPlayer(ctx context.Context, playerID string) PlayerDetails {
	details := PlayerDetails{PlayerID: playerID, Profile: provider.PlayerProfile{PlayerID: playerID}}

	var wg conc.WaitGroup
	if p.fetches[FetchProfile] {
		wg.Go(func() {
			profile, err := p.provider.PlayerProfile(ctx, playerID)
			if err != nil {
				p.degrade(FetchProfile, playerID, err)
				details.Profile = provider.PlayerProfile{PlayerID: playerID, Error: profileError(err)}
				return
			}
			profile.PlayerID = playerID
			details.Profile = profile
		})
	}
	if p.fetches[FetchJerseys] {
		wg.Go(func() {
			records, err := p.provider.PlayerJerseyNumbers(ctx, playerID)
			if err != nil {
				p.degrade(FetchJerseys, playerID, err)
				return
			}
			details.Jerseys = records
		})
	}
	if p.fetches[FetchMarketValues] {
		wg.Go(func() {
			records, err := p.provider.PlayerMarketValues(ctx, playerID)
			if err != nil {
				p.degrade(FetchMarketValues, playerID, err)
				return
			}
			details.MarketValues = records
		})
	}
	if p.fetches[FetchStats] {
		wg.Go(func() {
			records, err := p.provider.PlayerStats(ctx, playerID)
			if err != nil {
				p.degrade(FetchStats, playerID, err)
				return
			}
			details.Stats = records
		})
	}
	wg.Wait()

	return details
}

func (p *Pipeline) degrade(kind FetchKind, playerID string, err error) {
	p.logger.Warn("Detail fetch degraded", "kind", string(kind), "player_id", playerID, "error", err)
	p.opts.Observer.Degraded(kind, playerID, err)
}

// profileError renders the error marker stored on a failed profile.
func profileError(err error) string {
	if code, ok := provider.StatusCode(err); ok {
		return fmt.Sprintf("Error %d", code)
	}
	return err.Error()
}

func distinctSorted(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
