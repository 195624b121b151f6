package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"majestic-dominion/internal/config"
	"majestic-dominion/internal/constants"
	"majestic-dominion/internal/domain"
	"majestic-dominion/internal/league"
	"majestic-dominion/internal/metrics"
	"majestic-dominion/internal/repository"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

var ErrNotStarted = errors.New("league service not started")

// MatchNotifier is told about every durable settlement. It must not block.
type MatchNotifier interface {
	MatchSettled(ctx context.Context, result *league.MatchResult)
}

type Option func(*LeagueService)

func WithClock(clock func() time.Time) Option {
	return func(s *LeagueService) { s.clock = clock }
}

func WithIDGenerator(gen league.IDGenerator) Option {
	return func(s *LeagueService) { s.newID = gen }
}

func WithNotifier(n MatchNotifier) Option {
	return func(s *LeagueService) { s.notifier = n }
}

// LeagueService owns the league document. Writers are serialised; every
// successful write publishes a fresh document that is never mutated again, so
// reads run lock-free on whatever snapshot they picked up.
type LeagueService struct {
	repo     repository.DocumentRepository
	seed     domain.Seed
	metrics  *metrics.Metrics
	notifier MatchNotifier
	clock    func() time.Time
	newID    league.IDGenerator
	logger   zerolog.Logger

	writeMu sync.Mutex

	mu  sync.RWMutex
	doc *domain.Document
}

func NewLeagueService(repo repository.DocumentRepository, seed domain.Seed, m *metrics.Metrics, logger zerolog.Logger, opts ...Option) *LeagueService {
	s := &LeagueService{
		repo:    repo,
		seed:    seed,
		metrics: m,
		clock:   time.Now,
		newID:   newNanoID,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newNanoID() (string, error) {
	id, err := gonanoid.Generate(constants.IDAlphabet, constants.IDLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate nanoid: %w", err)
	}
	return id, nil
}

// Start loads the persisted document, seeding and saving a fresh one on first
// run.
func (s *LeagueService) Start(ctx context.Context) error {
	doc, err := s.repo.Load(ctx)
	switch {
	case errors.Is(err, repository.ErrNoDocument):
		doc = domain.NewSeededDocument(s.seed, s.clock().UTC())
		doc.Version = 1
		if err := s.save(ctx, doc); err != nil {
			return fmt.Errorf("failed to save seeded document: %w", err)
		}
		s.logger.Info().Int("kingdoms", len(doc.Squads)).Msg("seeded new league document")
	case err != nil:
		return fmt.Errorf("failed to load league document: %w", err)
	default:
		s.logger.Info().
			Int64("version", doc.Version).
			Int("squads", len(doc.SquadRegistry)).
			Int("matches", len(doc.Matches)).
			Msg("league document loaded")
	}

	s.publish(doc)
	return nil
}

// Snapshot returns the current published document. Callers must treat it as
// read-only.
func (s *LeagueService) Snapshot() (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		return nil, ErrNotStarted
	}
	return s.doc, nil
}

func (s *LeagueService) publish(doc *domain.Document) {
	s.mu.Lock()
	s.doc = doc
	s.mu.Unlock()
}

// Restore replaces the whole document, as an operator import does.
func (s *LeagueService) Restore(ctx context.Context, doc *domain.Document) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	next, err := doc.Clone()
	if err != nil {
		return err
	}
	if current, err := s.Snapshot(); err == nil {
		next.Version = max(next.Version, current.Version) + 1
	}
	next.UpdatedAt = s.clock().UTC()
	if err := s.save(ctx, next); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	s.publish(next)
	s.logger.Info().Int64("version", next.Version).Int("matches", len(next.Matches)).Msg("league document restored")
	return nil
}

// mutate runs fn on a clone of the published document and publishes the
// clone only once it is durable.
func (s *LeagueService) mutate(ctx context.Context, op string, fn func(doc *domain.Document, now time.Time) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	current, err := s.Snapshot()
	if err != nil {
		return err
	}
	next, err := current.Clone()
	if err != nil {
		return err
	}

	now := s.clock().UTC()
	if err := fn(next, now); err != nil {
		s.logger.Debug().Err(err).Str("op", op).Msg("mutation rejected")
		return err
	}

	next.Version = current.Version + 1
	next.UpdatedAt = now
	if err := s.save(ctx, next); err != nil {
		s.logger.Error().Err(err).Str("op", op).Int64("version", next.Version).Msg("failed to persist league document")
		return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}

	s.publish(next)
	s.logger.Debug().Str("op", op).Int64("version", next.Version).Msg("league document published")
	return nil
}

func (s *LeagueService) save(ctx context.Context, doc *domain.Document) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	start := time.Now()
	err := s.repo.Save(ctx, doc)
	if s.metrics != nil {
		s.metrics.SaveDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			s.metrics.SaveFailures.Inc()
		}
	}
	return err
}

// NewFromConfig is the fx constructor: it loads the kingdom seed and hooks
// Start into the app lifecycle.
func NewFromConfig(lc fx.Lifecycle, repo repository.DocumentRepository, cfg *config.Config, m *metrics.Metrics, notifier MatchNotifier, logger zerolog.Logger) (*LeagueService, error) {
	seed, err := cfg.LoadSeed()
	if err != nil {
		return nil, err
	}
	svc := NewLeagueService(repo, seed, m, logger, WithNotifier(notifier))
	lc.Append(fx.Hook{OnStart: svc.Start})
	return svc, nil
}

var Module = fx.Provide(NewFromConfig)
