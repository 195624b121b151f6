package league_test

import (
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"majestic-dominion/internal/domain"
	"majestic-dominion/internal/league"
)

func TestRankings_OrderedByPoints(t *testing.T) {
	faker := gofakeit.New(42)
	names := make([]string, 0, 30)
	for i := range 30 {
		names = append(names, fmt.Sprintf("Kingdom %02d", i))
	}
	doc := newDoc(t, names...)
	for _, s := range doc.Squads {
		s.Points = faker.Number(0, 15)
	}

	entries := league.Rankings(doc)
	require.Len(t, entries, len(names))
	for i, a := range entries {
		assert.Equal(t, i+1, a.Rank)
		for _, b := range entries[i+1:] {
			assert.GreaterOrEqual(t, a.Points, b.Points)
			if a.Points > b.Points {
				assert.Less(t, a.Rank, b.Rank)
			}
		}
	}
}

func TestRankings_TiesKeepFoundingOrder(t *testing.T) {
	doc := newDoc(t, "Zeta", "Alpha", "Mid")
	doc.Squads["Mid"].Points = 5

	entries := league.Rankings(doc)

	var order []string
	for _, e := range entries {
		order = append(order, e.Name)
	}
	assert.Equal(t, []string{"Mid", "Zeta", "Alpha"}, order)
	assert.Equal(t, 3, league.RankOf(entries, "Alpha"))
	assert.Zero(t, league.RankOf(entries, "Nope"))
}

func TestRankings_SkipsDisbandedAndDerivesWinRate(t *testing.T) {
	doc := newDoc(t, "A", "B", "C")
	a := doc.Squads["A"]
	a.Wins, a.Draws, a.Losses = 3, 0, 1
	_, err := league.DisbandSquad(doc, "C", testNow)
	require.NoError(t, err)

	entries := league.Rankings(doc)

	require.Len(t, entries, 2)
	assert.Equal(t, "A", entries[0].Name)
	assert.Equal(t, "TA", entries[0].Tag)
	assert.Equal(t, 4, entries[0].TotalMatches)
	assert.InDelta(t, 75.0, entries[0].WinRate, 0.001)
	assert.Zero(t, entries[1].WinRate)
}

func TestEvaluateAchievements_Idempotent(t *testing.T) {
	doc := newDoc(t, "A")
	a := doc.Squads["A"]
	a.Wins = 50
	a.Points = 150
	a.ChampionshipWins = 1
	a.CurrentStreak = domain.Streak{Type: domain.StreakWin, Count: 10}

	first := league.EvaluateAchievements(doc, "A")
	var ids []domain.AchievementID
	for _, ach := range first {
		ids = append(ids, ach.ID)
	}
	assert.ElementsMatch(t, []domain.AchievementID{
		domain.AchievementFirstBlood,
		domain.AchievementCenturyClub,
		domain.AchievementPerfect10,
		domain.AchievementWarrior50,
		domain.AchievementChampion,
	}, ids)

	assert.Empty(t, league.EvaluateAchievements(doc, "A"))
	assert.Len(t, a.Achievements, 5)
}

func TestEvaluateAchievements_StreakThresholdsAreExact(t *testing.T) {
	doc := newDoc(t, "A")
	a := doc.Squads["A"]
	a.Achievements = []domain.AchievementID{domain.AchievementFirstBlood}
	a.Wins = 6
	a.CurrentStreak = domain.Streak{Type: domain.StreakWin, Count: 6}

	assert.Empty(t, league.EvaluateAchievements(doc, "A"))
	assert.Nil(t, league.EvaluateAchievements(doc, "missing"))
}
