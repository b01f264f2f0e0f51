package transfermarkt

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/albapepper/playerdata/internal/provider"
)

func playerPath(playerID, resource string) string {
	return fmt.Sprintf("/players/%s/%s", url.PathEscape(playerID), resource)
}

// --------------------------------------------------------------------------
// Profile
// --------------------------------------------------------------------------

type profileRaw struct {
	Name        string   `json:"name"`
	ImageURL    string   `json:"imageURL"`
	DateOfBirth string   `json:"dateOfBirth"`
	Height      any      `json:"height"`
	Citizenship []string `json:"citizenship"`
	Position    struct {
		Main  string   `json:"main"`
		Other []string `json:"other"`
	} `json:"position"`
	Foot      string `json:"foot"`
	Outfitter string `json:"outfitter"`
}

// PlayerProfile fetches a player's profile.
func (c *Client) PlayerProfile(ctx context.Context, playerID string) (provider.PlayerProfile, error) {
	var raw profileRaw
	if err := c.get(ctx, playerPath(playerID, "profile"), nil, &raw); err != nil {
		return provider.PlayerProfile{}, errors.Wrapf(err, "fetch profile player=%s", playerID)
	}
	return normalizeProfile(playerID, raw), nil
}

func normalizeProfile(playerID string, raw profileRaw) provider.PlayerProfile {
	profile := provider.PlayerProfile{
		PlayerID:       playerID,
		Name:           raw.Name,
		ImageURL:       raw.ImageURL,
		DateOfBirth:    raw.DateOfBirth,
		Height:         provider.IntPtr(raw.Height),
		MainPosition:   raw.Position.Main,
		OtherPositions: strings.Join(raw.Position.Other, ", "),
		PreferredFoot:  raw.Foot,
		Outfitter:      raw.Outfitter,
	}
	if len(raw.Citizenship) > 0 {
		profile.PrimaryCitizenship = raw.Citizenship[0]
	}
	if len(raw.Citizenship) > 1 {
		profile.SecondaryCitizenship = raw.Citizenship[1]
	}
	return profile
}

// --------------------------------------------------------------------------
// Market value history
// --------------------------------------------------------------------------

type marketValueEnvelope struct {
	MarketValueHistory []struct {
		Date     string `json:"date"`
		ClubID   any    `json:"clubID"`
		ClubName string `json:"clubName"`
		Value    any    `json:"value"`
	} `json:"marketValueHistory"`
}

// PlayerMarketValues fetches a player's market value history in provider
// order, deriving the season of every entry from its date.
func (c *Client) PlayerMarketValues(ctx context.Context, playerID string) ([]provider.MarketValueRecord, error) {
	var env marketValueEnvelope
	if err := c.get(ctx, playerPath(playerID, "market_value"), nil, &env); err != nil {
		return nil, errors.Wrapf(err, "fetch market values player=%s", playerID)
	}

	records := make([]provider.MarketValueRecord, 0, len(env.MarketValueHistory))
	for _, entry := range env.MarketValueHistory {
		record := provider.MarketValueRecord{
			PlayerID: playerID,
			Date:     entry.Date,
			ClubID:   provider.ExtractString(entry.ClubID),
			ClubName: entry.ClubName,
			Value:    provider.Int64Ptr(entry.Value),
		}
		if date, err := provider.ParseValuationDate(entry.Date); err == nil {
			record.Season = provider.SeasonLabel(date)
		} else {
			c.logger.Debug("market value without usable date", "player_id", playerID, "date", entry.Date)
		}
		records = append(records, record)
	}
	return records, nil
}

// --------------------------------------------------------------------------
// Jersey numbers
// --------------------------------------------------------------------------

type jerseyEnvelope struct {
	JerseyNumbers []struct {
		Season       any `json:"season"`
		Club         any `json:"club"`
		JerseyNumber any `json:"jerseyNumber"`
	} `json:"jerseyNumbers"`
}

// PlayerJerseyNumbers fetches every jersey number a player has worn.
func (c *Client) PlayerJerseyNumbers(ctx context.Context, playerID string) ([]provider.JerseyRecord, error) {
	var env jerseyEnvelope
	if err := c.get(ctx, playerPath(playerID, "jersey_numbers"), nil, &env); err != nil {
		return nil, errors.Wrapf(err, "fetch jersey numbers player=%s", playerID)
	}

	records := make([]provider.JerseyRecord, 0, len(env.JerseyNumbers))
	for _, entry := range env.JerseyNumbers {
		records = append(records, provider.JerseyRecord{
			PlayerID:     playerID,
			Season:       provider.ExtractString(entry.Season),
			ClubID:       provider.ExtractString(entry.Club),
			JerseyNumber: provider.IntPtr(entry.JerseyNumber),
		})
	}
	return records, nil
}

// --------------------------------------------------------------------------
// Career stats
// --------------------------------------------------------------------------

type statsEnvelope struct {
	Stats []struct {
		CompetitionID   any    `json:"competitionID"`
		CompetitionName string `json:"competitionName"`
		SeasonID        any    `json:"seasonID"`
		ClubID          any    `json:"clubID"`
		Appearances     any    `json:"appearances"`
		MinutesPlayed   any    `json:"minutesPlayed"`
		Goals           any    `json:"goals"`
		Assists         any    `json:"assists"`
		YellowCards     any    `json:"yellowCards"`
		RedCards        any    `json:"redCards"`
	} `json:"stats"`
}

// PlayerStats fetches a player's per-competition season statistics.
func (c *Client) PlayerStats(ctx context.Context, playerID string) ([]provider.StatRecord, error) {
	var env statsEnvelope
	if err := c.get(ctx, playerPath(playerID, "stats"), nil, &env); err != nil {
		return nil, errors.Wrapf(err, "fetch stats player=%s", playerID)
	}

	records := make([]provider.StatRecord, 0, len(env.Stats))
	for _, s := range env.Stats {
		records = append(records, provider.StatRecord{
			PlayerID:        playerID,
			CompetitionID:   provider.ExtractString(s.CompetitionID),
			CompetitionName: s.CompetitionName,
			Season:          provider.ExtractString(s.SeasonID),
			ClubID:          provider.ExtractString(s.ClubID),
			Appearances:     provider.IntOrZero(s.Appearances),
			MinutesPlayed:   provider.IntOrZero(s.MinutesPlayed),
			Goals:           provider.IntOrZero(s.Goals),
			Assists:         provider.IntOrZero(s.Assists),
			YellowCards:     provider.IntOrZero(s.YellowCards),
			RedCards:        provider.IntOrZero(s.RedCards),
		})
	}
	return records, nil
}
