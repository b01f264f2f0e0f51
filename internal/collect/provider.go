// Package collect implements the player data collection pipeline:
// discovery of players and clubs over a crawl plan, bounded-concurrency
// detail collection, youth team enrichment and aggregation into tables.
package collect

import (
	"context"

	"github.com/albapepper/playerdata/internal/provider"
)

// Provider is the set of upstream reads the pipeline needs.
// *transfermarkt.Client satisfies it.
type Provider interface {
	CompetitionClubs(ctx context.Context, competitionID, seasonID string) ([]provider.Club, error)
	ClubPlayers(ctx context.Context, clubID, seasonID string) ([]string, error)
	PlayerProfile(ctx context.Context, playerID string) (provider.PlayerProfile, error)
	PlayerMarketValues(ctx context.Context, playerID string) ([]provider.MarketValueRecord, error)
	PlayerJerseyNumbers(ctx context.Context, playerID string) ([]provider.JerseyRecord, error)
	PlayerStats(ctx context.Context, playerID string) ([]provider.StatRecord, error)
	SearchClubs(ctx context.Context, name string) ([]provider.ClubSearchResult, error)
}
