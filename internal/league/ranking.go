// Package league holds the scoring and ranking engine. Every function works on
// a *domain.Document; callers own persistence and serialisation of writers.
package league

import (
	"cmp"
	"slices"

	"majestic-dominion/internal/domain"
)

type RankingEntry struct {
	Rank         int     `json:"rank"`
	Name         string  `json:"name"`
	Tag          string  `json:"tag"`
	Points       int     `json:"points"`
	Wins         int     `json:"wins"`
	Draws        int     `json:"draws"`
	Losses       int     `json:"losses"`
	TotalMatches int     `json:"total_matches"`
	WinRate      float64 `json:"win_rate"`
}

// Rankings orders the active squads by points. Ties keep founding order.
func Rankings(doc *domain.Document) []RankingEntry {
	squads := doc.ActiveSquads()
	entries := make([]RankingEntry, 0, len(squads))
	for _, s := range squads {
		entries = append(entries, RankingEntry{
			Name:         s.Name,
			Tag:          doc.SquadRegistry[s.Name],
			Points:       s.Points,
			Wins:         s.Wins,
			Draws:        s.Draws,
			Losses:       s.Losses,
			TotalMatches: s.TotalMatches(),
			WinRate:      s.WinRate(),
		})
	}

	slices.SortStableFunc(entries, func(a, b RankingEntry) int {
		return cmp.Compare(b.Points, a.Points)
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// RankOf returns the 1-based rank of name, or 0 when it is not ranked.
func RankOf(entries []RankingEntry, name string) int {
	for _, e := range entries {
		if e.Name == name {
			return e.Rank
		}
	}
	return 0
}
