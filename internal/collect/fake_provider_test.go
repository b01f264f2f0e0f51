package collect

import (
	"context"
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/albapepper/playerdata/internal/provider"
)

// fakeProvider is an in-memory Provider. Maps are read-only once a test
// starts; counters are safe for concurrent use.
type fakeProvider struct {
	clubs   map[string][]provider.Club // competition|season
	rosters map[string][]string        // club|season
	search  map[string][]provider.ClubSearchResult

	clubErr    map[string]error // competition|season
	rosterErr  map[string]error // club|season
	profileErr map[string]error
	jerseyErr  map[string]error
	valueErr   map[string]error
	statsErr   map[string]error
	searchErr  map[string]error

	// jitter adds a per-player delay derived from the player id so that
	// completion order differs from submission order.
	jitter time.Duration

	// holdAt, when set, holds every profile call until that many are in
	// flight at once. A call gives up after holdTimeout.
	holdAt      int64
	holdTimeout time.Duration
	holdOnce    sync.Once
	held        chan struct{}

	// panicOn makes PlayerProfile panic for the listed players.
	panicOn map[string]bool

	active    atomic.Int64
	maxActive atomic.Int64

	mu           sync.Mutex
	profileCalls map[string]int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		clubs:        map[string][]provider.Club{},
		rosters:      map[string][]string{},
		search:       map[string][]provider.ClubSearchResult{},
		clubErr:      map[string]error{},
		rosterErr:    map[string]error{},
		profileErr:   map[string]error{},
		jerseyErr:    map[string]error{},
		valueErr:     map[string]error{},
		statsErr:     map[string]error{},
		searchErr:    map[string]error{},
		profileCalls: map[string]int{},
		panicOn:      map[string]bool{},
		held:         make(chan struct{}),
	}
}

func key(a, b string) string { return a + "|" + b }

func (f *fakeProvider) CompetitionClubs(ctx context.Context, competitionID, seasonID string) ([]provider.Club, error) {
	if err := f.clubErr[key(competitionID, seasonID)]; err != nil {
		return nil, err
	}
	return f.clubs[key(competitionID, seasonID)], nil
}

func (f *fakeProvider) ClubPlayers(ctx context.Context, clubID, seasonID string) ([]string, error) {
	if err := f.rosterErr[key(clubID, seasonID)]; err != nil {
		return nil, err
	}
	return f.rosters[key(clubID, seasonID)], nil
}

func (f *fakeProvider) PlayerProfile(ctx context.Context, playerID string) (provider.PlayerProfile, error) {
	n := f.active.Add(1)
	defer f.active.Add(-1)
	for {
		prev := f.maxActive.Load()
		if n <= prev || f.maxActive.CompareAndSwap(prev, n) {
			break
		}
	}

	f.mu.Lock()
	f.profileCalls[playerID]++
	f.mu.Unlock()

	f.hold(ctx, n)
	f.sleep(playerID)
	if f.panicOn[playerID] {
		panic("profile decoder blew up for " + playerID)
	}
	if err := f.profileErr[playerID]; err != nil {
		return provider.PlayerProfile{}, err
	}
	height := 180
	return provider.PlayerProfile{
		PlayerID:           playerID,
		Name:               "Player " + playerID,
		Height:             &height,
		PrimaryCitizenship: "Spain",
	}, nil
}

func (f *fakeProvider) PlayerMarketValues(ctx context.Context, playerID string) ([]provider.MarketValueRecord, error) {
	f.sleep(playerID)
	if err := f.valueErr[playerID]; err != nil {
		return nil, err
	}
	value := int64(1000000)
	return []provider.MarketValueRecord{
		{PlayerID: playerID, Date: "2023-05-10", ClubID: "1", Value: &value, Season: "22/23"},
	}, nil
}

func (f *fakeProvider) PlayerJerseyNumbers(ctx context.Context, playerID string) ([]provider.JerseyRecord, error) {
	f.sleep(playerID)
	if err := f.jerseyErr[playerID]; err != nil {
		return nil, err
	}
	number := 7
	return []provider.JerseyRecord{{PlayerID: playerID, Season: "23/24", ClubID: "1", JerseyNumber: &number}}, nil
}

func (f *fakeProvider) PlayerStats(ctx context.Context, playerID string) ([]provider.StatRecord, error) {
	f.sleep(playerID)
	if err := f.statsErr[playerID]; err != nil {
		return nil, err
	}
	return []provider.StatRecord{{PlayerID: playerID, CompetitionID: "GB1", Season: "23/24", ClubID: "1", Appearances: 10, Goals: 2}}, nil
}

func (f *fakeProvider) SearchClubs(ctx context.Context, name string) ([]provider.ClubSearchResult, error) {
	if err := f.searchErr[name]; err != nil {
		return nil, err
	}
	return f.search[name], nil
}

func (f *fakeProvider) calls(playerID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.profileCalls[playerID]
}

func (f *fakeProvider) hold(ctx context.Context, inFlight int64) {
	if f.holdAt <= 0 {
		return
	}
	if inFlight >= f.holdAt {
		f.holdOnce.Do(func() { close(f.held) })
	}
	select {
	case <-f.held:
	case <-ctx.Done():
	case <-time.After(f.holdTimeout):
	}
}

func (f *fakeProvider) sleep(playerID string) {
	if f.jitter <= 0 {
		return
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(playerID))
	time.Sleep(time.Duration(h.Sum32()%5) * f.jitter)
}

// recordingObserver captures callbacks for assertions.
type recordingObserver struct {
	mu        sync.Mutex
	pairs     []int
	batches   map[int]int
	degraded  map[FetchKind][]string
	lastTotal int
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{batches: map[int]int{}, degraded: map[FetchKind][]string{}}
}

func (o *recordingObserver) PairDone(done, total int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pairs = append(o.pairs, done)
	o.lastTotal = total
}

func (o *recordingObserver) PlayerDone(batch, done, size int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.batches[batch]++
}

func (o *recordingObserver) Degraded(kind FetchKind, playerID string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.degraded[kind] = append(o.degraded[kind], playerID)
}
