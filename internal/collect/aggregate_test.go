package collect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/playerdata/internal/export"
	"github.com/albapepper/playerdata/internal/provider"
)

func tableByName(t *testing.T, tables []export.Table, name string) export.Table {
	t.Helper()
	for _, tbl := range tables {
		if tbl.Name == name {
			return tbl
		}
	}
	require.Failf(t, "missing table", "%s", name)
	return export.Table{}
}

func TestAggregate_Tables(t *testing.T) {
	t.Parallel()

	height := 188
	number := 10
	value := int64(45000000)
	details := []PlayerDetails{
		{
			PlayerID: "1",
			Profile: provider.PlayerProfile{
				PlayerID: "1", Name: "A", Height: &height, PrimaryCitizenship: "Brazil",
				OtherPositions: "Left Winger, Second Striker",
			},
			Jerseys:      []provider.JerseyRecord{{PlayerID: "1", Season: "23/24", ClubID: "5", JerseyNumber: &number}},
			MarketValues: []provider.MarketValueRecord{{PlayerID: "1", Date: "2023-05-10", ClubID: "5", Value: &value, Season: "22/23"}},
			Stats:        []provider.StatRecord{{PlayerID: "1", CompetitionID: "GB1", Season: "23/24", ClubID: "5", Appearances: 30, Goals: 12}},
		},
		{
			PlayerID: "2",
			Profile:  provider.PlayerProfile{PlayerID: "2", Error: "Error 404"},
			Jerseys:  []provider.JerseyRecord{{PlayerID: "2", Season: "19/20", ClubID: "6"}},
		},
	}
	clubs := []provider.CompetitionClub{
		{CompetitionID: "GB1", ClubID: "5", ClubName: "Club", SeasonIDs: []string{"2019", "2023", "2021"}, YouthTeamID: "50", YouthTeamName: "Club U21"},
		{CompetitionID: "GB1", ClubID: "6", ClubName: "Other", SeasonIDs: []string{"2023"}},
	}

	tables := Aggregate(details, clubs, nil).Tables()
	require.Len(t, tables, 5)
	assert.Equal(t, []string{PlayerInfoTable, PlayerJerseyNumberTable, PlayerMarketValueTable, PlayerStatsTable, CompetitionClubsTable},
		[]string{tables[0].Name, tables[1].Name, tables[2].Name, tables[3].Name, tables[4].Name})

	info := tableByName(t, tables, PlayerInfoTable)
	assert.Equal(t, playerInfoColumns, info.Columns)
	require.Len(t, info.Rows, 2)
	assert.Equal(t, []string{"1", "A", "", "", "188", "Brazil", "", "", "Left Winger, Second Striker", "", "", ""}, info.Rows[0])
	assert.Equal(t, []string{"2", "", "", "", "", "", "", "", "", "", "", "Error 404"}, info.Rows[1])

	jerseys := tableByName(t, tables, PlayerJerseyNumberTable)
	assert.Equal(t, [][]string{{"1", "23/24", "5", "10"}, {"2", "19/20", "6", ""}}, jerseys.Rows)

	values := tableByName(t, tables, PlayerMarketValueTable)
	assert.Equal(t, [][]string{{"1", "2023-05-10", "5", "", "45000000", "22/23"}}, values.Rows)

	stats := tableByName(t, tables, PlayerStatsTable)
	assert.Equal(t, [][]string{{"1", "GB1", "", "23/24", "5", "30", "0", "12", "0", "0", "0"}}, stats.Rows)

	cc := tableByName(t, tables, CompetitionClubsTable)
	assert.Equal(t, []string{"competition_id", "club_id", "club_name", "season_ids", "youth_team_id", "youth_team_name"}, cc.Columns)
	assert.Equal(t, [][]string{
		{"GB1", "5", "Club", "2023,2021,2019", "50", "Club U21"},
		{"GB1", "6", "Other", "2023", "", ""},
	}, cc.Rows)

	for _, tbl := range tables {
		for _, row := range tbl.Rows {
			assert.Len(t, row, len(tbl.Columns), "table %s", tbl.Name)
		}
	}
}

func TestAggregate_OmitsDisabledTables(t *testing.T) {
	t.Parallel()

	tables := Aggregate(nil, nil, []FetchKind{FetchProfile, FetchMarketValues}).Tables()
	names := make([]string, 0, len(tables))
	for _, tbl := range tables {
		names = append(names, tbl.Name)
		assert.Empty(t, tbl.Rows)
	}
	assert.Equal(t, []string{PlayerInfoTable, PlayerMarketValueTable, CompetitionClubsTable}, names)
}

func TestJoinSeasonsDesc(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "2024,2015,999", joinSeasonsDesc([]string{"999", "2024", "2015"}))
	assert.Equal(t, "", joinSeasonsDesc(nil))

	in := []string{"2015", "2024"}
	joinSeasonsDesc(in)
	assert.Equal(t, []string{"2015", "2024"}, in)
}

func TestParseFetches(t *testing.T) {
	t.Parallel()

	got, err := ParseFetches([]string{"stats", " Profile ", "stats"})
	require.NoError(t, err)
	assert.Equal(t, []FetchKind{FetchProfile, FetchStats}, got)

	got, err = ParseFetches(nil)
	require.NoError(t, err)
	assert.Equal(t, AllFetches, got)

	_, err = ParseFetches([]string{"transfers"})
	assert.ErrorIs(t, err, ErrUnknownFetch)
}
