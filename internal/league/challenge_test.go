package league_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"majestic-dominion/internal/domain"
	"majestic-dominion/internal/league"
)

func TestChallengeLifecycle(t *testing.T) {
	doc := newDoc(t, "A", "B")
	ids := sequentialIDs("c")

	c, err := league.CreateChallenge(doc, league.ChallengeInput{Challenger: "A", Challenged: "B", Message: "meet us at dawn"}, testNow, ids)
	require.NoError(t, err)
	assert.Equal(t, domain.ChallengePending, c.Status)
	assert.Equal(t, "c1", c.ID)

	_, err = league.ScheduleChallenge(doc, c.ID, testNow.Add(24*time.Hour), "", testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, domain.KindState, domain.KindOf(err))

	_, err = league.RespondToChallenge(doc, c.ID, "A", true, testNow)
	assert.ErrorIs(t, err, domain.ErrNotChallenged)

	later := testNow.Add(time.Hour)
	c, err = league.RespondToChallenge(doc, c.ID, "B", true, later)
	require.NoError(t, err)
	assert.Equal(t, domain.ChallengeAccepted, c.Status)
	assert.Equal(t, later, c.UpdatedAt)

	_, err = league.RespondToChallenge(doc, c.ID, "B", false, later)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = league.ScheduleChallenge(doc, c.ID, time.Time{}, "", later)
	assert.ErrorIs(t, err, domain.ErrInvalidSchedule)

	at := testNow.Add(48 * time.Hour)
	c, err = league.ScheduleChallenge(doc, c.ID, at, "best of three", later)
	require.NoError(t, err)
	assert.Equal(t, domain.ChallengeScheduled, c.Status)
	require.NotNil(t, c.ScheduledAt)
	assert.True(t, at.Equal(*c.ScheduledAt))
	assert.Equal(t, "best of three", c.Notes)

	c, err = league.CancelChallenge(doc, c.ID, later)
	require.NoError(t, err)
	assert.Equal(t, domain.ChallengeCancelled, c.Status)

	_, err = league.CancelChallenge(doc, c.ID, later)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCreateChallenge_OneLivePerPair(t *testing.T) {
	doc := newDoc(t, "A", "B", "C")
	ids := sequentialIDs("c")

	first, err := league.CreateChallenge(doc, league.ChallengeInput{Challenger: "A", Challenged: "B"}, testNow, ids)
	require.NoError(t, err)

	_, err = league.CreateChallenge(doc, league.ChallengeInput{Challenger: "B", Challenged: "A"}, testNow, ids)
	assert.ErrorIs(t, err, domain.ErrDuplicateChallenge)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = league.CreateChallenge(doc, league.ChallengeInput{Challenger: "A", Challenged: "C"}, testNow, ids)
	require.NoError(t, err)

	_, err = league.RespondToChallenge(doc, first.ID, "B", false, testNow)
	require.NoError(t, err)
	_, err = league.CreateChallenge(doc, league.ChallengeInput{Challenger: "B", Challenged: "A"}, testNow, ids)
	assert.NoError(t, err)
}

// fixedIDs hands out the given ids in order, then repeats the last one.
func fixedIDs(ids ...string) league.IDGenerator {
	n := 0
	return func() (string, error) {
		id := ids[min(n, len(ids)-1)]
		n++
		return id, nil
	}
}

func TestCreateChallenge_RetriesTakenIDs(t *testing.T) {
	doc := newDoc(t, "A", "B", "C", "D")

	first, err := league.CreateChallenge(doc, league.ChallengeInput{Challenger: "A", Challenged: "B"}, testNow, fixedIDs("dup"))
	require.NoError(t, err)
	require.Equal(t, "dup", first.ID)

	second, err := league.CreateChallenge(doc, league.ChallengeInput{Challenger: "C", Challenged: "D"}, testNow, fixedIDs("dup", "dup", "fresh"))
	require.NoError(t, err)
	assert.Equal(t, "fresh", second.ID)

	_, err = league.CreateChallenge(doc, league.ChallengeInput{Challenger: "A", Challenged: "C"}, testNow, fixedIDs("dup"))
	require.Error(t, err)
	assert.Len(t, doc.Challenges, 2)
}

func TestCreateChallenge_Validation(t *testing.T) {
	doc := newDoc(t, "A", "B")
	ids := sequentialIDs("c")

	_, err := league.CreateChallenge(doc, league.ChallengeInput{Challenger: "A", Challenged: "A"}, testNow, ids)
	assert.ErrorIs(t, err, domain.ErrSelfMatch)

	_, err = league.CreateChallenge(doc, league.ChallengeInput{Challenger: "A", Challenged: "Z"}, testNow, ids)
	assert.ErrorIs(t, err, domain.ErrUnknownSquad)

	_, err = league.RespondToChallenge(doc, "nope", "A", true, testNow)
	assert.ErrorIs(t, err, domain.ErrChallengeNotFound)
	assert.Empty(t, doc.Challenges)
}

func TestCanTransition(t *testing.T) {
	allowed := map[domain.ChallengeStatus][]domain.ChallengeStatus{
		domain.ChallengePending:   {domain.ChallengeAccepted, domain.ChallengeDeclined, domain.ChallengeCancelled},
		domain.ChallengeAccepted:  {domain.ChallengeScheduled, domain.ChallengeCancelled},
		domain.ChallengeScheduled: {domain.ChallengeCompleted, domain.ChallengeCancelled},
	}
	all := []domain.ChallengeStatus{
		domain.ChallengePending, domain.ChallengeAccepted, domain.ChallengeDeclined,
		domain.ChallengeCancelled, domain.ChallengeScheduled, domain.ChallengeCompleted,
	}
	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, contains(allowed[from], to), league.CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestActiveChallenges(t *testing.T) {
	doc := newDoc(t, "A", "B", "C")
	ids := sequentialIDs("c")
	ab, err := league.CreateChallenge(doc, league.ChallengeInput{Challenger: "A", Challenged: "B"}, testNow, ids)
	require.NoError(t, err)
	_, err = league.CreateChallenge(doc, league.ChallengeInput{Challenger: "B", Challenged: "C"}, testNow, ids)
	require.NoError(t, err)

	assert.Len(t, league.ActiveChallenges(doc, ""), 2)
	assert.Len(t, league.ActiveChallenges(doc, "A"), 1)
	assert.Len(t, league.ActiveChallenges(doc, "B"), 2)

	_, err = league.CancelChallenge(doc, ab.ID, testNow)
	require.NoError(t, err)
	assert.Empty(t, league.ActiveChallenges(doc, "A"))
}

func contains(list []domain.ChallengeStatus, s domain.ChallengeStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
