package transfermarkt

import (
	"context"
	"fmt"
	"net/url"

	"github.com/cockroachdb/errors"

	"github.com/albapepper/playerdata/internal/provider"
)

// --------------------------------------------------------------------------
// Competitions / clubs
// --------------------------------------------------------------------------

type clubsEnvelope struct {
	Clubs []struct {
		ID   any    `json:"id"`
		Name string `json:"name"`
	} `json:"clubs"`
}

// CompetitionClubs lists the clubs taking part in a competition season.
func (c *Client) CompetitionClubs(ctx context.Context, competitionID, seasonID string) ([]provider.Club, error) {
	var env clubsEnvelope
	path := fmt.Sprintf("/competitions/%s/clubs", url.PathEscape(competitionID))
	if err := c.get(ctx, path, url.Values{"season_id": {seasonID}}, &env); err != nil {
		return nil, errors.Wrapf(err, "fetch clubs competition=%s season=%s", competitionID, seasonID)
	}

	clubs := make([]provider.Club, 0, len(env.Clubs))
	for _, raw := range env.Clubs {
		id := provider.ExtractString(raw.ID)
		if id == "" {
			c.logger.Warn("club without id", "competition_id", competitionID, "name", raw.Name)
			continue
		}
		clubs = append(clubs, provider.Club{ID: id, Name: raw.Name})
	}
	return clubs, nil
}

type playersEnvelope struct {
	Players []struct {
		ID   any    `json:"id"`
		Name string `json:"name"`
	} `json:"players"`
}

// ClubPlayers returns the player ids on a club's roster for a season.
func (c *Client) ClubPlayers(ctx context.Context, clubID, seasonID string) ([]string, error) {
	var env playersEnvelope
	path := fmt.Sprintf("/clubs/%s/players", url.PathEscape(clubID))
	if err := c.get(ctx, path, url.Values{"season_id": {seasonID}}, &env); err != nil {
		return nil, errors.Wrapf(err, "fetch players club=%s season=%s", clubID, seasonID)
	}

	ids := make([]string, 0, len(env.Players))
	for _, raw := range env.Players {
		if id := provider.ExtractString(raw.ID); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// --------------------------------------------------------------------------
// Club search
// --------------------------------------------------------------------------

type searchEnvelope struct {
	Results []struct {
		ID      any    `json:"id"`
		Name    string `json:"name"`
		Country string `json:"country"`
	} `json:"results"`
}

// SearchClubs runs a club name search. Results keep the provider's ranking.
func (c *Client) SearchClubs(ctx context.Context, name string) ([]provider.ClubSearchResult, error) {
	var env searchEnvelope
	path := "/clubs/search/" + url.PathEscape(name)
	if err := c.get(ctx, path, nil, &env); err != nil {
		return nil, errors.Wrapf(err, "search clubs %q", name)
	}

	results := make([]provider.ClubSearchResult, 0, len(env.Results))
	for _, raw := range env.Results {
		results = append(results, provider.ClubSearchResult{
			ID:      provider.ExtractString(raw.ID),
			Name:    raw.Name,
			Country: raw.Country,
		})
	}
	return results, nil
}
