package collect

import (
	"context"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/sourcegraph/conc/pool"

	"github.com/albapepper/playerdata/internal/provider"
)

// Discovery is the outcome of the discovery stage: every distinct player id
// seen on any roster and the registry of clubs per competition.
type Discovery struct {
	playerIDs []string
	clubs     []provider.CompetitionClub
}

// PlayerIDs returns the distinct player ids, sorted.
func (d Discovery) PlayerIDs() []string { return d.playerIDs }

// Clubs returns the club registry sorted by (competition_id, club_id).
// SeasonIDs keep crawl plan order.
func (d Discovery) Clubs() []provider.CompetitionClub { return d.clubs }

// discoveryEvent is sent from discovery workers to the accumulator.
// Exactly one of clubs, roster or pairDone is meaningful.
type discoveryEvent struct {
	pairIndex int
	pair      provider.CompetitionSeason
	clubs     []provider.Club
	roster    []string
	pairDone  bool
}

type clubKey struct {
	competitionID string
	clubID        string
}

type clubEntry struct {
	club provider.CompetitionClub
	// firstPair is the plan index of the sighting that named the club.
	firstPair int
	// seasonPair maps a season to the plan index it was first seen at.
	seasonPair map[string]int
}

// discoveryState is owned by the accumulator goroutine alone.
type discoveryState struct {
	players map[string]struct{}
	clubs   map[clubKey]*clubEntry
}

func (s *discoveryState) apply(ev discoveryEvent) {
	for _, id := range ev.roster {
		s.players[id] = struct{}{}
	}
	for _, c := range ev.clubs {
		key := clubKey{ev.pair.CompetitionID, c.ID}
		entry, ok := s.clubs[key]
		if !ok {
			s.clubs[key] = &clubEntry{
				club: provider.CompetitionClub{
					CompetitionID: ev.pair.CompetitionID,
					ClubID:        c.ID,
					ClubName:      c.Name,
					SeasonIDs:     []string{ev.pair.SeasonID},
				},
				firstPair:  ev.pairIndex,
				seasonPair: map[string]int{ev.pair.SeasonID: ev.pairIndex},
			}
			continue
		}
		if ev.pairIndex < entry.firstPair {
			entry.firstPair = ev.pairIndex
			entry.club.ClubName = c.Name
		}
		if idx, seen := entry.seasonPair[ev.pair.SeasonID]; !seen {
			entry.seasonPair[ev.pair.SeasonID] = ev.pairIndex
			entry.club.SeasonIDs = append(entry.club.SeasonIDs, ev.pair.SeasonID)
		} else if ev.pairIndex < idx {
			entry.seasonPair[ev.pair.SeasonID] = ev.pairIndex
		}
	}
}

func (s *discoveryState) result() Discovery {
	ids := make([]string, 0, len(s.players))
	for id := range s.players {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	clubs := make([]provider.CompetitionClub, 0, len(s.clubs))
	for _, entry := range s.clubs {
		c := entry.club
		sort.SliceStable(c.SeasonIDs, func(i, j int) bool {
			return entry.seasonPair[c.SeasonIDs[i]] < entry.seasonPair[c.SeasonIDs[j]]
		})
		clubs = append(clubs, c)
	}
	sort.Slice(clubs, func(i, j int) bool {
		if clubs[i].CompetitionID != clubs[j].CompetitionID {
			return clubs[i].CompetitionID < clubs[j].CompetitionID
		}
		return clubs[i].ClubID < clubs[j].ClubID
	})

	return Discovery{playerIDs: ids, clubs: clubs}
}

// Discover resolves the clubs of every (competition, season) pair and the
// roster of every club, all concurrently. The first club or roster failure
// cancels outstanding requests and is returned.
func (p *Pipeline) Discover(ctx context.Context, pairs []provider.CompetitionSeason) (Discovery, error) {
	events := make(chan discoveryEvent)
	state := &discoveryState{
		players: make(map[string]struct{}),
		clubs:   make(map[clubKey]*clubEntry),
	}

	accumulated := make(chan struct{})
	go func() {
		defer close(accumulated)
		done := 0
		for ev := range events {
			if ev.pairDone {
				done++
				p.opts.Observer.PairDone(done, len(pairs))
				continue
			}
			state.apply(ev)
		}
	}()

	pairPool := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	for i, pair := range pairs {
		pairPool.Go(func(ctx context.Context) error {
			return p.discoverPair(ctx, i, pair, events)
		})
	}
	err := pairPool.Wait()
	close(events)
	<-accumulated

	if err != nil {
		return Discovery{}, errors.Wrap(err, "discovery aborted")
	}
	return state.result(), nil
}

func (p *Pipeline) discoverPair(ctx context.Context, index int, pair provider.CompetitionSeason, events chan<- discoveryEvent) error {
	clubs, err := p.provider.CompetitionClubs(ctx, pair.CompetitionID, pair.SeasonID)
	if err != nil {
		return err
	}
	events <- discoveryEvent{pairIndex: index, pair: pair, clubs: clubs}

	rosters := pool.New()
	if p.opts.DiscoveryConcurrency > 0 {
		rosters = rosters.WithMaxGoroutines(p.opts.DiscoveryConcurrency)
	}
	clubPool := rosters.WithContext(ctx).WithCancelOnError().WithFirstError()
	for _, club := range clubs {
		clubPool.Go(func(ctx context.Context) error {
			ids, err := p.provider.ClubPlayers(ctx, club.ID, pair.SeasonID)
			if err != nil {
				return err
			}
			events <- discoveryEvent{pairIndex: index, pair: pair, roster: ids}
			return nil
		})
	}
	if err := clubPool.Wait(); err != nil {
		return err
	}

	p.logger.Debug("Pair discovered", "competition_id", pair.CompetitionID, "season_id", pair.SeasonID, "clubs", len(clubs))
	events <- discoveryEvent{pairIndex: index, pair: pair, pairDone: true}
	return nil
}
