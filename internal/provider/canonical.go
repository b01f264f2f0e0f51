// Package provider defines canonical data types that the provider client
// normalizes into. These structs are the contract between the transfermarkt
// client and the collection pipeline. The client outputs these and the
// aggregator flattens them into export tables.
//
// Identifiers are kept as opaque strings exactly as the provider returns them.
package provider

// CompetitionSeason is one (competition, season) pair to crawl.
type CompetitionSeason struct {
	CompetitionID string `json:"competition_id" koanf:"competition_id"`
	SeasonID      string `json:"season_id" koanf:"season_id"`
}

// Club is a club as listed by a competition for one season.
type Club struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CompetitionClub aggregates every season in which a club was seen in a
// competition. Empty youth fields mean no youth team was resolved.
type CompetitionClub struct {
	CompetitionID string   `json:"competition_id"`
	ClubID        string   `json:"club_id"`
	ClubName      string   `json:"club_name"`
	SeasonIDs     []string `json:"season_ids"`
	YouthTeamID   string   `json:"youth_team_id,omitempty"`
	YouthTeamName string   `json:"youth_team_name,omitempty"`
}

// PlayerProfile is the canonical player profile. When Error is set the
// profile fetch failed and only PlayerID is meaningful.
type PlayerProfile struct {
	PlayerID             string `json:"player_id"`
	Name                 string `json:"name,omitempty"`
	ImageURL             string `json:"image_url,omitempty"`
	DateOfBirth          string `json:"date_of_birth,omitempty"`
	Height               *int   `json:"height,omitempty"` // cm
	PrimaryCitizenship   string `json:"primary_citizenship,omitempty"`
	SecondaryCitizenship string `json:"secondary_citizenship,omitempty"`
	MainPosition         string `json:"main_position,omitempty"`
	OtherPositions       string `json:"other_positions,omitempty"` // comma-joined, provider order
	PreferredFoot        string `json:"preferred_foot,omitempty"`
	Outfitter            string `json:"outfitter,omitempty"`
	Error                string `json:"error,omitempty"`
}

// Failed reports whether the profile is an error sentinel.
func (p PlayerProfile) Failed() bool {
	return p.Error != ""
}

// JerseyRecord is one jersey number a player wore for a club in a season.
type JerseyRecord struct {
	PlayerID     string `json:"player_id"`
	Season       string `json:"season"`
	ClubID       string `json:"club_id"`
	JerseyNumber *int   `json:"jersey_number,omitempty"`
}

// MarketValueRecord is one entry of a player's market value history.
// Season is derived from Date (see SeasonLabel).
type MarketValueRecord struct {
	PlayerID string `json:"player_id"`
	Date     string `json:"date"`
	ClubID   string `json:"club_id"`
	ClubName string `json:"club_name,omitempty"`
	Value    *int64 `json:"value,omitempty"`
	Season   string `json:"season"`
}

// StatRecord is a player's statistics line for one competition season.
type StatRecord struct {
	PlayerID        string `json:"player_id"`
	CompetitionID   string `json:"competition_id"`
	CompetitionName string `json:"competition_name"`
	Season          string `json:"season"`
	ClubID          string `json:"club_id"`
	Appearances     int    `json:"appearances"`
	MinutesPlayed   int    `json:"minutes_played"`
	Goals           int    `json:"goals"`
	Assists         int    `json:"assists"`
	YellowCards     int    `json:"yellow_cards"`
	RedCards        int    `json:"red_cards"`
}

// ClubSearchResult is one hit of a club name search.
type ClubSearchResult struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
}
