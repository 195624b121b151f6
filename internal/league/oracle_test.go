package league_test

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"majestic-dominion/internal/domain"
	"majestic-dominion/internal/league"
)

func TestHeadToHead_MirrorsWhenArgumentsSwap(t *testing.T) {
	doc := newDoc(t, "A", "B", "C")
	ids := sequentialIDs("m")
	settle(t, doc, ids, "A", "B", 2, 0)
	settle(t, doc, ids, "B", "A", 2, 1)
	settle(t, doc, ids, "B", "A", 0, 1)
	settle(t, doc, ids, "A", "B", 1, 1)
	settle(t, doc, ids, "A", "C", 1, 0)

	ab := league.ComputeHeadToHead(doc, "A", "B")
	ba := league.ComputeHeadToHead(doc, "B", "A")

	assert.Equal(t, league.HeadToHead{Squad1: "A", Squad2: "B", Squad1Wins: 2, Squad2Wins: 1, Draws: 1, Total: 4}, ab)
	assert.Equal(t, ab.Total, ba.Total)
	assert.Equal(t, ab.Squad1Wins, ba.Squad2Wins)
	assert.Equal(t, ab.Squad2Wins, ba.Squad1Wins)
	assert.Equal(t, ab.Mirror(), ba)
	assert.InDelta(t, 50.0, league.ComputeHeadToHead(doc, "B", "C").WinPct(), 0.001)
}

func TestPredict_ProbabilitiesSumTo100(t *testing.T) {
	squads := []string{"A", "B", "C", "D"}

	for seed := range 40 {
		faker := gofakeit.New(uint64(seed))
		doc := newDoc(t, squads...)
		ids := sequentialIDs("m")
		for range faker.Number(0, 30) {
			i := faker.Number(0, 3)
			j := (i + faker.Number(1, 3)) % 4
			settle(t, doc, ids, squads[i], squads[j], faker.Number(0, 2), faker.Number(0, 2))
		}
		if faker.Bool() {
			members := withMembers(t, doc, "A", 5)
			_, err := league.SetMainRoster(doc, "A", members)
			require.NoError(t, err)
		}

		for _, a := range squads {
			for _, b := range squads {
				if a == b {
					continue
				}
				p, err := league.Predict(doc, a, b)
				require.NoError(t, err)
				assert.Equal(t, 100, p.Team1.WinPct+p.Team2.WinPct+p.DrawPct, "seed %d %s vs %s", seed, a, b)
				assert.GreaterOrEqual(t, p.DrawPct, 5)
				assert.GreaterOrEqual(t, p.Team1.WinPct, 0)
				assert.GreaterOrEqual(t, p.Team2.WinPct, 0)
			}
		}
	}
}

func TestPredict_DoesNotMutate(t *testing.T) {
	doc := newDoc(t, "A", "B")
	ids := sequentialIDs("m")
	settle(t, doc, ids, "A", "B", 2, 1)
	settle(t, doc, ids, "A", "B", 0, 0)
	before, err := doc.Clone()
	require.NoError(t, err)

	_, err = league.Predict(doc, "A", "B")
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(before, doc))
}

func TestPredict_EvenSquads(t *testing.T) {
	doc := newDoc(t, "A", "B")

	p, err := league.Predict(doc, "A", "B")
	require.NoError(t, err)

	assert.Equal(t, 30, p.DrawPct)
	assert.Equal(t, 35, p.Team1.WinPct)
	assert.Equal(t, 35, p.Team2.WinPct)
	assert.Empty(t, p.Favored)
	assert.Equal(t, league.ConfidenceLow, p.Confidence)
}

func TestPredict_Errors(t *testing.T) {
	doc := newDoc(t, "A", "B")

	_, err := league.Predict(doc, "A", "A")
	assert.ErrorIs(t, err, domain.ErrSelfMatch)

	_, err = league.Predict(doc, "A", "Nope")
	assert.ErrorIs(t, err, domain.ErrSquadNotFound)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestPredict_Confidence(t *testing.T) {
	doc := newDoc(t, "A", "B")
	ids := sequentialIDs("m")
	for range 2 {
		settle(t, doc, ids, "A", "B", 1, 0)
	}
	// 2 + 2 matches and 2 meetings
	p, err := league.Predict(doc, "A", "B")
	require.NoError(t, err)
	assert.Equal(t, 6, p.DataPoints)
	assert.Equal(t, league.ConfidenceLow, p.Confidence)

	settle(t, doc, ids, "A", "B", 1, 0)
	p, err = league.Predict(doc, "A", "B")
	require.NoError(t, err)
	assert.Equal(t, league.ConfidenceMedium, p.Confidence)

	for range 4 {
		settle(t, doc, ids, "A", "B", 1, 0)
	}
	p, err = league.Predict(doc, "A", "B")
	require.NoError(t, err)
	assert.Equal(t, 21, p.DataPoints)
	assert.Equal(t, league.ConfidenceHigh, p.Confidence)
	assert.Equal(t, "A", p.Favored)
}

func TestRecentForm(t *testing.T) {
	doc := newDoc(t, "A", "B")
	assert.InDelta(t, 50.0, league.RecentForm(doc, "A"), 0.001)

	ids := sequentialIDs("m")
	for range 7 {
		settle(t, doc, ids, "A", "B", 1, 0)
	}
	assert.InDelta(t, 100.0, league.RecentForm(doc, "A"), 0.001)
	assert.InDelta(t, 0.0, league.RecentForm(doc, "B"), 0.001)
}

func TestMomentum(t *testing.T) {
	tests := []struct {
		streak domain.Streak
		want   float64
	}{
		{domain.Streak{Type: domain.StreakWin, Count: 2}, 70},
		{domain.Streak{Type: domain.StreakWin, Count: 8}, 100},
		{domain.Streak{Type: domain.StreakLoss, Count: 3}, 20},
		{domain.Streak{Type: domain.StreakLoss, Count: 9}, 0},
		{domain.Streak{Type: domain.StreakDraw, Count: 4}, 50},
		{domain.NoStreak(), 50},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, league.Momentum(tt.streak), "%+v", tt.streak)
	}
}
