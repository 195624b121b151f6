package service_test

import (
	"context"
	"testing"
	"time"

	"majestic-dominion/internal/domain"
	"majestic-dominion/internal/league"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSquadProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, id := range []string{"p2", "p1"} {
		_, err := f.svc.RegisterPlayer(ctx, id, domain.PlayerProfile{IngameName: id, Role: domain.RoleJungler})
		require.NoError(t, err)
		_, err = f.svc.AssignPlayerToSquad(ctx, id, "Bravo")
		require.NoError(t, err)
	}
	_, err := f.svc.SetBounty(ctx, "Bravo", 4, "")
	require.NoError(t, err)
	_, err = f.svc.SettleMatch(ctx, league.MatchInput{Team1: "Bravo", Team2: "Alpha", Score: domain.Score{Team1: 1, Team2: 0}})
	require.NoError(t, err)

	profile, err := f.svc.Squad(ctx, "Bravo")
	require.NoError(t, err)
	assert.True(t, profile.Active)
	assert.Equal(t, 1, profile.Rank)
	require.Len(t, profile.Members, 2)
	assert.Equal(t, "p1", profile.Members[0].ID)
	require.NotNil(t, profile.Bounty)
	assert.Equal(t, 4, profile.Bounty.Points)

	_, err = f.svc.Squad(ctx, "Nowhere")
	require.ErrorIs(t, err, domain.ErrSquadNotFound)
}

func TestDisbandedSquadStaysReadable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.SettleMatch(ctx, league.MatchInput{Team1: "Charlie", Team2: "Alpha", Score: domain.Score{Team1: 0, Team2: 0}})
	require.NoError(t, err)
	_, err = f.svc.DisbandSquad(ctx, "Charlie")
	require.NoError(t, err)

	profile, err := f.svc.Squad(ctx, "Charlie")
	require.NoError(t, err)
	assert.False(t, profile.Active)
	assert.Zero(t, profile.Rank)

	history, err := f.svc.MatchHistory(ctx, "Charlie", 0)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	entries, err := f.svc.Rankings(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestHeadToHeadAndPredict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, score := range []domain.Score{{Team1: 2, Team2: 0}, {Team1: 0, Team2: 1}, {Team1: 1, Team2: 1}} {
		_, err := f.svc.SettleMatch(ctx, league.MatchInput{Team1: "Alpha", Team2: "Bravo", Score: score})
		require.NoError(t, err)
	}

	h2h, err := f.svc.HeadToHead(ctx, "Bravo", "Alpha")
	require.NoError(t, err)
	assert.Equal(t, league.HeadToHead{Squad1: "Bravo", Squad2: "Alpha", Squad1Wins: 1, Squad2Wins: 1, Draws: 1, Total: 3}, h2h)

	_, err = f.svc.HeadToHead(ctx, "Alpha", "Ghost")
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	_, err = f.svc.HeadToHead(ctx, "Alpha", "Alpha")
	assert.ErrorIs(t, err, domain.ErrSelfMatch)

	p, err := f.svc.Predict(ctx, "Alpha", "Bravo")
	require.NoError(t, err)
	assert.Equal(t, 100, p.Team1.WinPct+p.Team2.WinPct+p.DrawPct)
}

func TestRecentMatchesLimits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for range 12 {
		_, err := f.svc.SettleMatch(ctx, league.MatchInput{Team1: "Alpha", Team2: "Charlie", Score: domain.Score{Team1: 1, Team2: 0}})
		require.NoError(t, err)
	}

	recent, err := f.svc.RecentMatches(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recent, 10)
	assert.Equal(t, "m12", recent[0].ID)

	recent, err = f.svc.RecentMatches(ctx, 500)
	require.NoError(t, err)
	assert.Len(t, recent, 12)

	series, err := f.svc.GloryProgression(ctx, "Charlie")
	require.NoError(t, err)
	assert.Len(t, series, 13)
	assert.Zero(t, series[12])
}

func TestChallengeFlowThroughService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.svc.CreateChallenge(ctx, league.ChallengeInput{Challenger: "Alpha", Challenged: "Bravo"})
	require.NoError(t, err)

	_, err = f.svc.RespondToChallenge(ctx, c.ID, "Alpha", true)
	require.ErrorIs(t, err, domain.ErrNotChallenged)

	c, err = f.svc.RespondToChallenge(ctx, c.ID, "Bravo", true)
	require.NoError(t, err)
	assert.Equal(t, domain.ChallengeAccepted, c.Status)

	c, err = f.svc.ScheduleChallenge(ctx, c.ID, testNow.Add(48*time.Hour), "best of three")
	require.NoError(t, err)
	assert.Equal(t, domain.ChallengeScheduled, c.Status)

	res, err := f.svc.SettleMatch(ctx, league.MatchInput{Team1: "Bravo", Team2: "Alpha", Score: domain.Score{Team1: 2, Team2: 1}})
	require.NoError(t, err)
	assert.Equal(t, []string{c.ID}, res.CompletedChallenges)

	active, err := f.svc.ActiveChallenges(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, active)

	_, err = f.svc.CancelChallenge(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestPlayerStatsThroughService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.RegisterPlayer(ctx, "p1", domain.PlayerProfile{IngameName: "Ace"})
	require.NoError(t, err)
	_, err = f.svc.AssignPlayerToSquad(ctx, "p1", "Alpha")
	require.NoError(t, err)
	_, err = f.svc.SettleMatch(ctx, league.MatchInput{Team1: "Alpha", Team2: "Bravo", Score: domain.Score{Team1: 1, Team2: 0}})
	require.NoError(t, err)

	stats, err := f.svc.PlayerStats(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.MatchesPlayed)
	assert.Equal(t, 1, stats.Wins)

	_, err = f.svc.Player(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrPlayerNotFound)
}
