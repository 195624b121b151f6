package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"majestic-dominion/internal/domain"
	"majestic-dominion/internal/league"
	"majestic-dominion/internal/metrics"
	"majestic-dominion/internal/repository"
	"majestic-dominion/internal/service"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

var testNow = time.Date(2025, 3, 14, 20, 0, 0, 0, time.UTC)

var testSeed = domain.Seed{Kingdoms: []domain.SeedKingdom{
	{Name: "Alpha", Tag: "A"},
	{Name: "Bravo", Tag: "B"},
	{Name: "Charlie", Tag: "C", GuestRole: "Charlie_guest"},
}}

// memRepo keeps a serialised copy so nothing the service holds aliases it.
type memRepo struct {
	mu    sync.Mutex
	doc   *domain.Document
	saves int
	fail  error
}

func (r *memRepo) Load(context.Context) (*domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.doc == nil {
		return nil, repository.ErrNoDocument
	}
	return r.doc.Clone()
}

func (r *memRepo) Save(_ context.Context, doc *domain.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	clone, err := doc.Clone()
	if err != nil {
		return err
	}
	r.doc = clone
	r.saves++
	return nil
}

func (r *memRepo) failWith(err error) {
	r.mu.Lock()
	r.fail = err
	r.mu.Unlock()
}

func (r *memRepo) saveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

type recordingNotifier struct {
	mu      sync.Mutex
	results []*league.MatchResult
}

func (n *recordingNotifier) MatchSettled(_ context.Context, result *league.MatchResult) {
	n.mu.Lock()
	n.results = append(n.results, result)
	n.mu.Unlock()
}

func counterIDs() league.IDGenerator {
	var n atomic.Int64
	return func() (string, error) {
		return fmt.Sprintf("m%d", n.Add(1)), nil
	}
}

type fixture struct {
	svc      *service.LeagueService
	repo     *memRepo
	metrics  *metrics.Metrics
	notifier *recordingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{repo: &memRepo{}, metrics: metrics.New(), notifier: &recordingNotifier{}}
	f.svc = service.NewLeagueService(f.repo, testSeed, f.metrics, zerolog.Nop(),
		service.WithClock(func() time.Time { return testNow }),
		service.WithIDGenerator(counterIDs()),
		service.WithNotifier(f.notifier),
	)
	require.NoError(t, f.svc.Start(context.Background()))
	return f
}

func TestStart_SeedsEmptyStore(t *testing.T) {
	f := newFixture(t)

	doc, err := f.svc.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, int64(1), doc.Version)
	assert.Equal(t, []string{"Alpha", "Bravo", "Charlie"}, doc.Order)
	assert.Equal(t, "Charlie_guest", doc.GuestRegistry["Charlie"])
	assert.Equal(t, 1, f.repo.saveCount())
}

func TestStart_LoadsExistingDocument(t *testing.T) {
	stored := domain.NewSeededDocument(domain.Seed{Kingdoms: []domain.SeedKingdom{{Name: "Solo", Tag: "S"}}}, testNow)
	stored.Version = 42
	repo := &memRepo{doc: stored}

	svc := service.NewLeagueService(repo, testSeed, nil, zerolog.Nop())
	require.NoError(t, svc.Start(context.Background()))

	doc, err := svc.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, int64(42), doc.Version)
	assert.Contains(t, doc.Squads, "Solo")
	assert.NotContains(t, doc.Squads, "Alpha")
	assert.Zero(t, repo.saveCount())
}

func TestStart_PropagatesLoadFailure(t *testing.T) {
	repo := &failingLoadRepo{err: errors.New("disk on fire")}
	svc := service.NewLeagueService(repo, testSeed, nil, zerolog.Nop())
	require.ErrorContains(t, svc.Start(context.Background()), "disk on fire")
}

type failingLoadRepo struct{ err error }

func (r *failingLoadRepo) Load(context.Context) (*domain.Document, error) { return nil, r.err }
func (r *failingLoadRepo) Save(context.Context, *domain.Document) error  { return nil }

func TestNotStarted(t *testing.T) {
	svc := service.NewLeagueService(&memRepo{}, testSeed, nil, zerolog.Nop())

	_, err := svc.Rankings(context.Background())
	require.ErrorIs(t, err, service.ErrNotStarted)
	_, err = svc.SettleMatch(context.Background(), league.MatchInput{Team1: "Alpha", Team2: "Bravo"})
	require.ErrorIs(t, err, service.ErrNotStarted)
}

func TestSettleMatch_PublishesDurableResult(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.SettleMatch(ctx, league.MatchInput{Team1: "Alpha", Team2: "Bravo", Score: domain.Score{Team1: 2, Team2: 0}})
	require.NoError(t, err)
	assert.Equal(t, "m1", res.Match.ID)
	assert.Equal(t, "Alpha", res.Winner)
	assert.Equal(t, 4, res.Breakdown.Total)

	doc, err := f.svc.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, int64(2), doc.Version)
	assert.Equal(t, testNow, doc.UpdatedAt)
	assert.Equal(t, 4, doc.Squads["Alpha"].Points)

	stored, err := f.repo.Load(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(doc, stored); diff != "" {
		t.Errorf("published document differs from stored (-published +stored):\n%s", diff)
	}

	require.Len(t, f.notifier.results, 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.MatchesSettled.WithLabelValues("team1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.AchievementsUnlocked.WithLabelValues("first_blood")))
}

func TestMutation_SaveFailureKeepsPublishedDocument(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	before, err := f.svc.Snapshot()
	require.NoError(t, err)

	f.repo.failWith(errors.New("disk full"))

	_, err = f.svc.SettleMatch(ctx, league.MatchInput{Team1: "Alpha", Team2: "Bravo", Score: domain.Score{Team1: 1, Team2: 0}})
	require.ErrorIs(t, err, domain.ErrPersistence)
	assert.Equal(t, domain.KindPersistence, domain.KindOf(err))
	assert.ErrorContains(t, err, "disk full")

	_, err = f.svc.RenameSquad(ctx, "Alpha", "Apex")
	require.ErrorIs(t, err, domain.ErrPersistence)

	after, err := f.svc.Snapshot()
	require.NoError(t, err)
	assert.Same(t, before, after)
	assert.Empty(t, after.Matches)
	assert.Contains(t, after.Squads, "Alpha")
	assert.Empty(t, f.notifier.results)
	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.SaveFailures))

	f.repo.failWith(nil)
	_, err = f.svc.SettleMatch(ctx, league.MatchInput{Team1: "Alpha", Team2: "Bravo", Score: domain.Score{Team1: 1, Team2: 0}})
	require.NoError(t, err)
	doc, err := f.svc.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, int64(2), doc.Version, "failed writes must not consume versions")
}

func TestMutation_ValidationErrorSkipsSave(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	saves := f.repo.saveCount()

	_, err := f.svc.SettleMatch(ctx, league.MatchInput{Team1: "Alpha", Team2: "Nowhere"})
	require.ErrorIs(t, err, domain.ErrUnknownSquad)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = f.svc.DeleteMatch(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrMatchNotFound)

	_, err = f.svc.CreateSquad(ctx, league.SquadInput{Name: "Delta", Tag: "a"})
	require.ErrorIs(t, err, domain.ErrTagTaken)

	assert.Equal(t, saves, f.repo.saveCount())
	doc, _ := f.svc.Snapshot()
	assert.Equal(t, int64(1), doc.Version)
}

func TestSnapshot_IsNeverMutatedByLaterWrites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	old, err := f.svc.Snapshot()
	require.NoError(t, err)
	frozen, err := old.Clone()
	require.NoError(t, err)

	_, err = f.svc.SettleMatch(ctx, league.MatchInput{Team1: "Alpha", Team2: "Bravo", Score: domain.Score{Team1: 3, Team2: 1}})
	require.NoError(t, err)
	_, err = f.svc.DisbandSquad(ctx, "Charlie")
	require.NoError(t, err)

	if diff := cmp.Diff(frozen, old); diff != "" {
		t.Errorf("old snapshot changed (-before +after):\n%s", diff)
	}
}

func TestReturnedValuesDoNotAliasSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.RegisterPlayer(ctx, "p1", domain.PlayerProfile{IngameName: "p1", Role: domain.RoleRoamer})
	require.NoError(t, err)
	_, err = f.svc.AssignPlayerToSquad(ctx, "p1", "Alpha")
	require.NoError(t, err)
	squad, err := f.svc.AddToMainRoster(ctx, "Alpha", "p1")
	require.NoError(t, err)
	res, err := f.svc.SettleMatch(ctx, league.MatchInput{Team1: "Alpha", Team2: "Bravo", Score: domain.Score{Team1: 2, Team2: 0}})
	require.NoError(t, err)
	profile, err := f.svc.Squad(ctx, "Alpha")
	require.NoError(t, err)
	player, err := f.svc.Player(ctx, "p1")
	require.NoError(t, err)
	history, err := f.svc.MatchHistory(ctx, "Alpha", 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.NotEmpty(t, history[0].Modifiers)
	require.NotEmpty(t, res.Team1.Achievements)

	live, err := f.svc.Snapshot()
	require.NoError(t, err)
	frozen, err := live.Clone()
	require.NoError(t, err)

	squad.MainRoster[0] = "intruder"
	res.Team1.MatchHistory[0] = "forged"
	res.Team1.Achievements[0] = "forged"
	res.Breakdown.Modifiers[0].Points = 99
	res.Match.Modifiers = append(res.Match.Modifiers[:0], domain.GloryModifier{Name: "forged", Points: 99})
	profile.Squad.MainRoster[0] = "intruder"
	profile.Members[0].SquadHistory = append(profile.Members[0].SquadHistory, domain.SquadHistoryEntry{Squad: "forged"})
	player.SquadHistory = append(player.SquadHistory[:0], domain.SquadHistoryEntry{Squad: "forged"})
	history[0].Modifiers[0].Points = 99

	if diff := cmp.Diff(frozen, live); diff != "" {
		t.Errorf("published document changed through a returned value (-before +after):\n%s", diff)
	}
}

func TestConcurrentWritersAndReaders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	const writers = 20

	g, gctx := errgroup.WithContext(ctx)
	for i := range writers {
		g.Go(func() error {
			in := league.MatchInput{Team1: "Alpha", Team2: "Bravo", Score: domain.Score{Team1: i % 3, Team2: 1}}
			_, err := f.svc.SettleMatch(gctx, in)
			return err
		})
		g.Go(func() error {
			entries, err := f.svc.Rankings(gctx)
			if err != nil {
				return err
			}
			if len(entries) != 3 {
				return fmt.Errorf("expected 3 ranked squads, got %d", len(entries))
			}
			_, err = f.svc.Predict(gctx, "Alpha", "Bravo")
			return err
		})
	}
	require.NoError(t, g.Wait())

	doc, err := f.svc.Snapshot()
	require.NoError(t, err)
	assert.Len(t, doc.Matches, writers)
	assert.Equal(t, int64(1+writers), doc.Version)

	alpha, bravo := doc.Squads["Alpha"], doc.Squads["Bravo"]
	assert.Equal(t, writers, alpha.TotalMatches())
	assert.Equal(t, alpha.Wins, bravo.Losses)
	assert.Equal(t, alpha.Draws, bravo.Draws)

	ids := map[string]bool{}
	for _, m := range doc.Matches {
		assert.False(t, ids[m.ID], "duplicate match id %s", m.ID)
		ids[m.ID] = true
	}
}

func TestDeleteMatch_RestoresStandings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.SettleMatch(ctx, league.MatchInput{Team1: "Bravo", Team2: "Alpha", Score: domain.Score{Team1: 2, Team2: 1}})
	require.NoError(t, err)

	removed, err := f.svc.DeleteMatch(ctx, res.Match.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Match.ID, removed.ID)

	entries, err := f.svc.Rankings(ctx)
	require.NoError(t, err)
	for _, e := range entries {
		assert.Zero(t, e.Points, e.Name)
		assert.Zero(t, e.TotalMatches, e.Name)
	}
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.MatchesDeleted))
}

func TestRestore_ReplacesDocumentWithHigherVersion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	imported := domain.NewSeededDocument(domain.Seed{Kingdoms: []domain.SeedKingdom{{Name: "Legacy", Tag: "L"}}}, testNow)
	require.NoError(t, f.svc.Restore(ctx, imported))

	doc, err := f.svc.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, int64(2), doc.Version)
	assert.Equal(t, []string{"Legacy"}, doc.Order)
	assert.Zero(t, imported.Version, "input document must not be touched")
}
