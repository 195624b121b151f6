package league

import (
	"fmt"
	"slices"

	"majestic-dominion/internal/domain"
)

const podiumSize = 3

type SquadFact struct {
	Squad string `json:"squad"`
	Value int    `json:"value"`
}

type RealmStats struct {
	Kingdoms        int            `json:"kingdoms"`
	TotalBattles    int            `json:"total_battles"`
	TotalPoints     int            `json:"total_points"`
	TotalVictories  int            `json:"total_victories"`
	TotalDraws      int            `json:"total_draws"`
	DrawRate        float64        `json:"draw_rate"`
	AveragePoints   int            `json:"average_points"`
	BestWinStreak   *SquadFact     `json:"best_win_streak,omitempty"`
	MostActive      *SquadFact     `json:"most_active,omitempty"`
	MostDecorated   *SquadFact     `json:"most_decorated,omitempty"`
	Podium          []RankingEntry `json:"podium"`
	OpenChallenges  int            `json:"open_challenges"`
	OpenBounties    int            `json:"open_bounties"`
	RegisteredUsers int            `json:"registered_players"`
}

// RealmStatistics summarises the whole league over the active squads.
func RealmStatistics(doc *domain.Document) RealmStats {
	squads := doc.ActiveSquads()
	stats := RealmStats{
		Kingdoms:        len(squads),
		TotalBattles:    len(doc.Matches),
		OpenBounties:    len(doc.Bounties),
		RegisteredUsers: len(doc.Players),
	}

	// a fact is only reported when someone has a non-zero value; ties keep the
	// earliest founded squad
	leader := func(fact **SquadFact, name string, value int) {
		if value > 0 && (*fact == nil || value > (*fact).Value) {
			*fact = &SquadFact{Squad: name, Value: value}
		}
	}
	for _, s := range squads {
		stats.TotalPoints += s.Points
		stats.TotalVictories += s.Wins
		stats.TotalDraws += s.Draws
		leader(&stats.BestWinStreak, s.Name, s.BiggestWinStreak)
		leader(&stats.MostActive, s.Name, s.TotalMatches())
		leader(&stats.MostDecorated, s.Name, len(s.Achievements))
	}
	if stats.Kingdoms > 0 {
		stats.AveragePoints = stats.TotalPoints / stats.Kingdoms
	}
	if stats.TotalBattles > 0 {
		draws := 0
		for _, m := range doc.Matches {
			if m.Score.Outcome() == domain.OutcomeDraw {
				draws++
			}
		}
		stats.DrawRate = float64(draws) / float64(stats.TotalBattles) * 100
	}

	rankings := Rankings(doc)
	stats.Podium = rankings[:min(podiumSize, len(rankings))]
	stats.OpenChallenges = len(ActiveChallenges(doc, ""))
	return stats
}

// RecentMatches returns up to limit matches, newest first.
func RecentMatches(doc *domain.Document, limit int) []domain.Match {
	return newestFirst(doc.Matches, limit)
}

// MatchHistory returns up to limit of the squad's matches, newest first.
// Disbanded squads keep their history.
func MatchHistory(doc *domain.Document, name string, limit int) ([]domain.Match, error) {
	if _, ok := doc.Squads[name]; !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrSquadNotFound, name)
	}
	return newestFirst(doc.SquadMatches(name), limit), nil
}

// GloryProgression is the squad's running point total after each match.
func GloryProgression(doc *domain.Document, name string) ([]int, error) {
	if _, ok := doc.Squads[name]; !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrSquadNotFound, name)
	}
	matches := doc.SquadMatches(name)
	series := make([]int, 0, len(matches)+1)
	total := 0
	series = append(series, total)
	for _, m := range matches {
		total += m.PointsFor(name)
		series = append(series, total)
	}
	return series, nil
}

func newestFirst(matches []*domain.Match, limit int) []domain.Match {
	if limit <= 0 || limit > len(matches) {
		limit = len(matches)
	}
	out := make([]domain.Match, 0, limit)
	for _, m := range matches[len(matches)-limit:] {
		out = append(out, m.Copy())
	}
	slices.Reverse(out)
	return out
}
