package league_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"majestic-dominion/internal/domain"
	"majestic-dominion/internal/league"
)

var testNow = time.Date(2025, 3, 14, 20, 0, 0, 0, time.UTC)

// newDoc founds one squad per name, in order, with the tag "T<name>".
func newDoc(t *testing.T, names ...string) *domain.Document {
	t.Helper()
	kingdoms := make([]domain.SeedKingdom, 0, len(names))
	for _, n := range names {
		kingdoms = append(kingdoms, domain.SeedKingdom{Name: n, Tag: "T" + n})
	}
	doc := domain.NewSeededDocument(domain.Seed{Kingdoms: kingdoms}, testNow)
	require.Len(t, doc.SquadRegistry, len(names))
	return doc
}

// sequentialIDs yields m1, m2, ... so tests can predict match ids.
func sequentialIDs(prefix string) league.IDGenerator {
	n := 0
	return func() (string, error) {
		n++
		return fmt.Sprintf("%s%d", prefix, n), nil
	}
}

func settle(t *testing.T, doc *domain.Document, ids league.IDGenerator, team1, team2 string, s1, s2 int) *league.MatchResult {
	t.Helper()
	res, err := league.Settle(doc, league.MatchInput{
		Team1: team1,
		Team2: team2,
		Score: domain.Score{Team1: s1, Team2: s2},
	}, testNow, ids)
	require.NoError(t, err)
	return res
}

// withMembers registers count players in squad and returns their ids.
func withMembers(t *testing.T, doc *domain.Document, squad string, count int) []string {
	t.Helper()
	ids := make([]string, 0, count)
	for i := range count {
		id := fmt.Sprintf("%s-p%d", squad, i+1)
		_, err := league.RegisterPlayer(doc, id, domain.PlayerProfile{IngameName: id, Role: domain.RoleJungler}, testNow)
		require.NoError(t, err)
		_, err = league.AssignPlayerToSquad(doc, id, squad, testNow)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

type record struct {
	Wins, Draws, Losses, Points int
}

func recordOf(s *domain.Squad) record {
	return record{Wins: s.Wins, Draws: s.Draws, Losses: s.Losses, Points: s.Points}
}
