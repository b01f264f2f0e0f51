package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/playerdata/internal/provider"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"PROVIDER_BASE_URL", "PROVIDER_TIMEOUT_SECONDS", "COLLECT_CONCURRENCY",
		"COLLECT_BATCH_SIZE", "COLLECT_FETCHES", "COLLECT_YOUTH_TEAMS", "EXPORT_SINK",
		"LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "http://localhost:8000", cfg.ProviderBaseURL)
	assert.Equal(t, 30*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, 100, cfg.Concurrency)
	assert.Equal(t, 1600, cfg.BatchSize)
	assert.Nil(t, cfg.Fetches)
	assert.True(t, cfg.ResolveYouthTeams)
	assert.Equal(t, SinkCSV, cfg.Sink)
	assert.Equal(t, "data", cfg.ExportDir)
	require.NoError(t, cfg.Validate())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PROVIDER_BASE_URL", "http://provider.internal:9000")
	t.Setenv("PROVIDER_TIMEOUT_SECONDS", "5")
	t.Setenv("COLLECT_CONCURRENCY", "12")
	t.Setenv("COLLECT_BATCH_SIZE", "0")
	t.Setenv("COLLECT_FETCHES", "profile, stats ,")
	t.Setenv("COLLECT_YOUTH_TEAMS", "false")
	t.Setenv("EXPORT_SINK", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/x.db")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg := Load()
	assert.Equal(t, "http://provider.internal:9000", cfg.ProviderBaseURL)
	assert.Equal(t, 5*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, 12, cfg.Concurrency)
	assert.Equal(t, 0, cfg.BatchSize)
	assert.Equal(t, []string{"profile", "stats"}, cfg.Fetches)
	assert.False(t, cfg.ResolveYouthTeams)
	assert.Equal(t, SinkSQLite, cfg.Sink)
	assert.Equal(t, "debug", cfg.LogLevel)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	t.Setenv("EXPORT_SINK", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("PROVIDER_BASE_URL", "")
	t.Setenv("COLLECT_FETCHES", "")
	t.Setenv("LOG_FORMAT", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("COLLECT_CONCURRENCY", "")

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }},
		{"unknown sink", func(c *Config) { c.Sink = "parquet" }},
		{"postgres without url", func(c *Config) { c.Sink = SinkPostgres }},
		{"unknown fetch", func(c *Config) { c.Fetches = []string{"transfers"} }},
		{"bad base url", func(c *Config) { c.ProviderBaseURL = "not a url" }},
		{"unknown log format", func(c *Config) { c.LogFormat = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			require.NoError(t, cfg.Validate())
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidate_FetchNamesIgnoreCase(t *testing.T) {
	t.Setenv("EXPORT_SINK", "")
	t.Setenv("PROVIDER_BASE_URL", "")
	t.Setenv("COLLECT_FETCHES", "Profile, MARKET_VALUES")

	cfg := Load()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, []string{"profile", "market_values"}, cfg.Fetches)
}

func TestPlan_DefaultResolve(t *testing.T) {
	t.Parallel()

	pairs := DefaultPlan().Resolve()
	require.Len(t, pairs, 50)
	assert.Equal(t, provider.CompetitionSeason{CompetitionID: "GB1", SeasonID: "2024"}, pairs[0])
	assert.Equal(t, provider.CompetitionSeason{CompetitionID: "GB1", SeasonID: "2015"}, pairs[9])
	assert.Equal(t, provider.CompetitionSeason{CompetitionID: "ES1", SeasonID: "2024"}, pairs[10])
	assert.Equal(t, provider.CompetitionSeason{CompetitionID: "FR1", SeasonID: "2015"}, pairs[49])
}

func TestPlan_Override(t *testing.T) {
	t.Parallel()

	plan := Plan{Competitions: []string{"GB1"}, Seasons: []string{"2024"}, Pairs: []provider.CompetitionSeason{{CompetitionID: "NL1", SeasonID: "2020"}}}
	assert.Equal(t, plan, plan.Override(nil, nil))

	got := plan.Override(nil, []string{"2023", "2022"}).Resolve()
	assert.Equal(t, []provider.CompetitionSeason{
		{CompetitionID: "GB1", SeasonID: "2023"},
		{CompetitionID: "GB1", SeasonID: "2022"},
	}, got)
}

func TestLoadPlan_YAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
competitions: [GB1, ES1]
seasons: [2024, "2023"]
pairs:
  - competition_id: NL1
    season_id: "2020"
  - competition_id: GB1
    season_id: "2024"
`), 0o600))

	plan, err := LoadPlan(path)
	require.NoError(t, err)
	assert.Equal(t, []provider.CompetitionSeason{
		{CompetitionID: "GB1", SeasonID: "2024"},
		{CompetitionID: "GB1", SeasonID: "2023"},
		{CompetitionID: "ES1", SeasonID: "2024"},
		{CompetitionID: "ES1", SeasonID: "2023"},
		{CompetitionID: "NL1", SeasonID: "2020"},
	}, plan.Resolve())
}

func TestLoadPlan_Errors(t *testing.T) {
	t.Parallel()

	_, err := LoadPlan(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("competitions: [GB1]\n"), 0o600))
	_, err = LoadPlan(path)
	assert.Error(t, err)

	plan, err := LoadPlan("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPlan(), plan)
}
