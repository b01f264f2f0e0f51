package collect

import (
	"context"

	"github.com/sourcegraph/conc"

	"github.com/albapepper/playerdata/internal/provider"
)

// ResolveYouthTeams looks up a youth team for every club by name and
// returns a copy of clubs with the youth fields filled where one was found.
// Lookup failures leave the fields empty and are logged, never returned.
func (p *Pipeline) ResolveYouthTeams(ctx context.Context, clubs []provider.CompetitionClub) []provider.CompetitionClub {
	out := make([]provider.CompetitionClub, len(clubs))
	copy(out, clubs)

	var wg conc.WaitGroup
	for i := range out {
		wg.Go(func() {
			results, err := p.provider.SearchClubs(ctx, out[i].ClubName)
			if err != nil {
				p.logger.Warn("Youth team search failed", "club_id", out[i].ClubID, "club_name", out[i].ClubName, "error", err)
				return
			}
			if youth, ok := MatchYouthTeam(results); ok {
				out[i].YouthTeamID = youth.ID
				out[i].YouthTeamName = youth.Name
			}
		})
	}
	wg.Wait()

	return out
}

// MatchYouthTeam treats the first search result as the senior club and
// returns the next result, in provider order, from the same country.
func MatchYouthTeam(results []provider.ClubSearchResult) (provider.ClubSearchResult, bool) {
	i := YouthTeamIndex(results)
	if i < 0 {
		return provider.ClubSearchResult{}, false
	}
	return results[i], true
}

// YouthTeamIndex is MatchYouthTeam returning the position of the match,
// or -1.
func YouthTeamIndex(results []provider.ClubSearchResult) int {
	if len(results) < 2 {
		return -1
	}
	country := results[0].Country
	for i := 1; i < len(results); i++ {
		if results[i].Country == country {
			return i
		}
	}
	return -1
}
