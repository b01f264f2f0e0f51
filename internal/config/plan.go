package config

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/albapepper/playerdata/internal/provider"
)

// DefaultCompetitions are the top five European leagues.
var DefaultCompetitions = []string{"GB1", "ES1", "L1", "IT1", "FR1"}

// DefaultSeasons covers 2024 back to 2015.
var DefaultSeasons = []string{"2024", "2023", "2022", "2021", "2020", "2019", "2018", "2017", "2016", "2015"}

// Plan lists the (competition, season) pairs to crawl: every competition
// crossed with every season, then any explicit pairs.
//
//	competitions: [GB1, ES1]
//	seasons: [2024, 2023]
//	pairs:
//	  - competition_id: NL1
//	    season_id: "2020"
type Plan struct {
	Competitions []string                     `koanf:"competitions"`
	Seasons      []string                     `koanf:"seasons"`
	Pairs        []provider.CompetitionSeason `koanf:"pairs"`
}

// DefaultPlan returns the built-in crawl plan.
func DefaultPlan() Plan {
	return Plan{
		Competitions: append([]string(nil), DefaultCompetitions...),
		Seasons:      append([]string(nil), DefaultSeasons...),
	}
}

// LoadPlan reads a YAML crawl plan. An empty path returns DefaultPlan.
func LoadPlan(path string) (Plan, error) {
	if path == "" {
		return DefaultPlan(), nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return Plan{}, errors.Wrapf(err, "load plan %s", path)
	}

	var plan Plan
	if err := k.UnmarshalWithConf("", &plan, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Plan{}, errors.Wrapf(err, "decode plan %s", path)
	}
	if len(plan.Pairs) == 0 && (len(plan.Competitions) == 0 || len(plan.Seasons) == 0) {
		return Plan{}, errors.Newf("plan %s has no pairs: need competitions and seasons, or pairs", path)
	}
	return plan, nil
}

// Override replaces competitions and/or seasons when non-empty. Explicit
// pairs are dropped once either list is overridden.
func (p Plan) Override(competitions, seasons []string) Plan {
	if len(competitions) == 0 && len(seasons) == 0 {
		return p
	}
	if len(competitions) > 0 {
		p.Competitions = competitions
	}
	if len(seasons) > 0 {
		p.Seasons = seasons
	}
	p.Pairs = nil
	return p
}

// Resolve expands the plan into ordered pairs, competition-major, dropping
// blanks and repeats.
func (p Plan) Resolve() []provider.CompetitionSeason {
	seen := make(map[provider.CompetitionSeason]bool)
	var out []provider.CompetitionSeason
	add := func(pair provider.CompetitionSeason) {
		pair.CompetitionID = strings.TrimSpace(pair.CompetitionID)
		pair.SeasonID = strings.TrimSpace(pair.SeasonID)
		if pair.CompetitionID == "" || pair.SeasonID == "" || seen[pair] {
			return
		}
		seen[pair] = true
		out = append(out, pair)
	}

	for _, c := range p.Competitions {
		for _, s := range p.Seasons {
			add(provider.CompetitionSeason{CompetitionID: c, SeasonID: s})
		}
	}
	for _, pair := range p.Pairs {
		add(pair)
	}
	return out
}
