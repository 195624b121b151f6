package league_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"majestic-dominion/internal/domain"
	"majestic-dominion/internal/league"
)

func TestTierFor(t *testing.T) {
	tests := map[int]league.ThreatTier{
		100: league.TierLethal,
		85:  league.TierLethal,
		84:  league.TierDangerous,
		70:  league.TierDangerous,
		69:  league.TierCompetitive,
		50:  league.TierCompetitive,
		30:  league.TierDeveloping,
		29:  league.TierEmerging,
		0:   league.TierEmerging,
	}
	for threat, want := range tests {
		assert.Equal(t, want, league.TierFor(threat), "threat %d", threat)
	}
}

func TestThreatScore(t *testing.T) {
	s := domain.NewSquad("A", "TA", testNow)
	// rank 1 of 1, nothing else
	assert.Equal(t, 40, league.ThreatScore(s, 1, 1))
	// worst of 5
	assert.Equal(t, 0, league.ThreatScore(s, 5, 5))

	s.Wins, s.Losses = 8, 2
	s.CurrentStreak = domain.Streak{Type: domain.StreakWin, Count: 8}
	s.MainRoster = []string{"1", "2", "3", "4", "5"}
	s.ChampionshipWins = 4
	// 40 + 24 + 10 + 15 + 15 clamps to 100
	assert.Equal(t, 100, league.ThreatScore(s, 1, 10))

	s.CurrentStreak = domain.Streak{Type: domain.StreakLoss, Count: 2}
	s.MainRoster = nil
	s.ChampionshipWins = 0
	// 0.4*50 + 24 - 4
	assert.Equal(t, 40, league.ThreatScore(s, 3, 5))
}

func TestFormTrend(t *testing.T) {
	doc := newDoc(t, "A", "B")
	ids := sequentialIDs("m")
	for range 9 {
		settle(t, doc, ids, "A", "B", 1, 0)
	}
	assert.Equal(t, league.TrendInsufficient, league.FormTrend(doc.SquadMatches("A"), "A"))

	settle(t, doc, ids, "A", "B", 1, 0)
	assert.Equal(t, league.TrendStable, league.FormTrend(doc.SquadMatches("A"), "A"))

	for range 3 {
		settle(t, doc, ids, "A", "B", 0, 1)
	}
	// previous five: 5 wins, recent five: 2 wins
	assert.Equal(t, league.TrendDeclining, league.FormTrend(doc.SquadMatches("A"), "A"))
	assert.Equal(t, league.TrendAscending, league.FormTrend(doc.SquadMatches("B"), "B"))
}

func TestSquadMood(t *testing.T) {
	tests := []struct {
		name    string
		results []int // 1 win, 0 draw, -1 loss for A
		want    league.Mood
	}{
		{name: "too few", results: []int{1, 1}, want: league.MoodSteady},
		{name: "fire", results: []int{1, 1, 1, 1}, want: league.MoodFire},
		{name: "rising", results: []int{1, 1, 1, -1, 0}, want: league.MoodRising},
		{name: "crisis", results: []int{-1, -1, -1, -1, 1}, want: league.MoodCrisis},
		{name: "struggling", results: []int{-1, -1, -1, 0}, want: league.MoodStruggling},
		{name: "steady", results: []int{1, -1, 0, 1, -1}, want: league.MoodSteady},
		{name: "only last five count", results: []int{-1, -1, -1, -1, -1, 1, 1, 1, 1, 0}, want: league.MoodFire},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := newDoc(t, "A", "B")
			ids := sequentialIDs("m")
			for _, r := range tt.results {
				switch r {
				case 1:
					settle(t, doc, ids, "A", "B", 1, 0)
				case -1:
					settle(t, doc, ids, "A", "B", 0, 1)
				default:
					settle(t, doc, ids, "A", "B", 0, 0)
				}
			}
			assert.Equal(t, tt.want, league.SquadMood(doc.SquadMatches("A"), "A"))
		})
	}
}

func TestReport(t *testing.T) {
	doc := newDoc(t, "A", "B", "C")
	ids := sequentialIDs("m")
	settle(t, doc, ids, "A", "B", 2, 0)
	settle(t, doc, ids, "A", "C", 2, 0)
	settle(t, doc, ids, "C", "A", 2, 1)
	settle(t, doc, ids, "A", "C", 1, 1)

	r, err := league.Report(doc, "A")
	require.NoError(t, err)

	assert.Equal(t, "TA", r.Tag)
	assert.Equal(t, 1, r.Rank)
	assert.Equal(t, 3, r.RankedSquads)
	assert.Equal(t, league.TrendInsufficient, r.Trend)
	assert.Equal(t, league.TierFor(r.Threat), r.Tier)
	assert.Contains(t, r.Weaknesses, "Incomplete main roster (0/5)")
	assert.Contains(t, r.Weaknesses, "Limited battle experience")
	assert.Contains(t, r.Strengths, "Top 3 kingdom (#1)")

	require.NotNil(t, r.Rival)
	assert.Equal(t, "C", r.Rival.Squad)
	assert.Equal(t, 3, r.Rival.Meetings)
	assert.Equal(t, league.HeadToHead{Squad1: "A", Squad2: "C", Squad1Wins: 1, Squad2Wins: 1, Draws: 1, Total: 3}, r.Rival.HeadToHead)
}

func TestReport_UnknownSquad(t *testing.T) {
	doc := newDoc(t, "A")
	_, err := league.Report(doc, "B")
	assert.ErrorIs(t, err, domain.ErrSquadNotFound)

	r, err := league.Report(doc, "A")
	require.NoError(t, err)
	assert.Nil(t, r.Rival)
	assert.Equal(t, league.MoodSteady, r.Mood)
}
