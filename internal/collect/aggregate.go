package collect

import (
	"sort"
	"strconv"
	"strings"

	"github.com/albapepper/playerdata/internal/export"
	"github.com/albapepper/playerdata/internal/provider"
)

// Table names.
const (
	PlayerInfoTable         = "player_info"
	PlayerJerseyNumberTable = "player_jersey_numbers"
	PlayerMarketValueTable  = "player_market_values"
	PlayerStatsTable        = "player_stats"
	CompetitionClubsTable   = "competition_clubs"
)

var (
	playerInfoColumns = []string{
		"player_id", "player_name", "image_url", "date_of_birth", "height",
		"primary_citizenship", "secondary_citizenship", "main_position",
		"other_positions", "preferred_foot", "outfitter", "error",
	}
	jerseyColumns      = []string{"player_id", "season", "club_id", "jersey_number"}
	marketValueColumns = []string{"player_id", "date", "club_id", "club_name", "value", "season"}
	statsColumns       = []string{
		"player_id", "competition_id", "competition_name", "season", "club_id",
		"appearances", "minutes_played", "goals", "assists", "yellow_cards", "red_cards",
	}
	competitionClubColumns = []string{
		"competition_id", "club_id", "club_name", "season_ids", "youth_team_id", "youth_team_name",
	}
)

// Dataset holds the flattened records of a run.
type Dataset struct {
	Profiles     []provider.PlayerProfile
	Jerseys      []provider.JerseyRecord
	MarketValues []provider.MarketValueRecord
	Stats        []provider.StatRecord
	Clubs        []provider.CompetitionClub

	fetches fetchSet
}

// Aggregate flattens per-player details and the club registry. Record order
// follows details order, then provider order within a player.
func Aggregate(details []PlayerDetails, clubs []provider.CompetitionClub, fetches []FetchKind) Dataset {
	ds := Dataset{fetches: newFetchSet(fetches)}

	for _, d := range details {
		if ds.fetches[FetchProfile] {
			ds.Profiles = append(ds.Profiles, d.Profile)
		}
		ds.Jerseys = append(ds.Jerseys, d.Jerseys...)
		ds.MarketValues = append(ds.MarketValues, d.MarketValues...)
		ds.Stats = append(ds.Stats, d.Stats...)
	}
	ds.Clubs = append(ds.Clubs, clubs...)

	return ds
}

// Tables renders the dataset. Tables of disabled fetch kinds are omitted;
// competition_clubs is always present.
func (ds Dataset) Tables() []export.Table {
	fetches := ds.fetches
	if fetches == nil {
		fetches = newFetchSet(nil)
	}

	var tables []export.Table
	if fetches[FetchProfile] {
		tables = append(tables, ds.playerInfoTable())
	}
	if fetches[FetchJerseys] {
		tables = append(tables, ds.jerseyTable())
	}
	if fetches[FetchMarketValues] {
		tables = append(tables, ds.marketValueTable())
	}
	if fetches[FetchStats] {
		tables = append(tables, ds.statsTable())
	}
	return append(tables, ds.competitionClubsTable())
}

func (ds Dataset) playerInfoTable() export.Table {
	rows := make([][]string, 0, len(ds.Profiles))
	for _, p := range ds.Profiles {
		rows = append(rows, []string{
			p.PlayerID, p.Name, p.ImageURL, p.DateOfBirth, intCell(p.Height),
			p.PrimaryCitizenship, p.SecondaryCitizenship, p.MainPosition,
			p.OtherPositions, p.PreferredFoot, p.Outfitter, p.Error,
		})
	}
	return export.Table{Name: PlayerInfoTable, Columns: playerInfoColumns, Rows: rows}
}

func (ds Dataset) jerseyTable() export.Table {
	rows := make([][]string, 0, len(ds.Jerseys))
	for _, j := range ds.Jerseys {
		rows = append(rows, []string{j.PlayerID, j.Season, j.ClubID, intCell(j.JerseyNumber)})
	}
	return export.Table{Name: PlayerJerseyNumberTable, Columns: jerseyColumns, Rows: rows}
}

func (ds Dataset) marketValueTable() export.Table {
	rows := make([][]string, 0, len(ds.MarketValues))
	for _, mv := range ds.MarketValues {
		value := ""
		if mv.Value != nil {
			value = strconv.FormatInt(*mv.Value, 10)
		}
		rows = append(rows, []string{mv.PlayerID, mv.Date, mv.ClubID, mv.ClubName, value, mv.Season})
	}
	return export.Table{Name: PlayerMarketValueTable, Columns: marketValueColumns, Rows: rows}
}

func (ds Dataset) statsTable() export.Table {
	rows := make([][]string, 0, len(ds.Stats))
	for _, s := range ds.Stats {
		rows = append(rows, []string{
			s.PlayerID, s.CompetitionID, s.CompetitionName, s.Season, s.ClubID,
			strconv.Itoa(s.Appearances), strconv.Itoa(s.MinutesPlayed),
			strconv.Itoa(s.Goals), strconv.Itoa(s.Assists),
			strconv.Itoa(s.YellowCards), strconv.Itoa(s.RedCards),
		})
	}
	return export.Table{Name: PlayerStatsTable, Columns: statsColumns, Rows: rows}
}

func (ds Dataset) competitionClubsTable() export.Table {
	rows := make([][]string, 0, len(ds.Clubs))
	for _, c := range ds.Clubs {
		rows = append(rows, []string{
			c.CompetitionID, c.ClubID, c.ClubName, joinSeasonsDesc(c.SeasonIDs),
			c.YouthTeamID, c.YouthTeamName,
		})
	}
	return export.Table{Name: CompetitionClubsTable, Columns: competitionClubColumns, Rows: rows}
}

// joinSeasonsDesc sorts season ids newest first and joins them with ",".
// Numeric ids compare numerically, anything else lexically.
func joinSeasonsDesc(seasons []string) string {
	sorted := append([]string(nil), seasons...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, errA := strconv.Atoi(sorted[i])
		b, errB := strconv.Atoi(sorted[j])
		if errA == nil && errB == nil {
			return a > b
		}
		return sorted[i] > sorted[j]
	})
	return strings.Join(sorted, ",")
}

func intCell(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
