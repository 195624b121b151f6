package service

import (
	"context"
	"time"

	"majestic-dominion/internal/domain"
	"majestic-dominion/internal/league"
)

// SettleMatch records a result and applies its glory, streak, achievement,
// challenge and bounty effects in one durable write.
func (s *LeagueService) SettleMatch(ctx context.Context, in league.MatchInput) (*league.MatchResult, error) {
	var result *league.MatchResult
	err := s.mutate(ctx, "settle_match", func(doc *domain.Document, now time.Time) error {
		var err error
		result, err = league.Settle(doc, in, now, s.newID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("match_id", result.Match.ID).
		Str("team1", in.Team1).
		Str("team2", in.Team2).
		Str("score", result.Match.Score.String()).
		Int("points", result.Breakdown.Total).
		Msg("match settled")

	if s.metrics != nil {
		s.metrics.MatchesSettled.WithLabelValues(string(result.Outcome)).Inc()
		if result.ClaimedBounty != nil {
			s.metrics.BountiesClaimed.Inc()
		}
	}
	for _, unlocked := range result.NewAchievements {
		s.countAchievements(unlocked)
	}
	if s.notifier != nil {
		s.notifier.MatchSettled(ctx, result)
	}
	return result, nil
}

// DeleteMatch removes a recorded match and reverses its counters and points.
func (s *LeagueService) DeleteMatch(ctx context.Context, id string) (domain.Match, error) {
	var removed domain.Match
	err := s.mutate(ctx, "delete_match", func(doc *domain.Document, _ time.Time) error {
		m, err := league.DeleteMatch(doc, id)
		if err != nil {
			return err
		}
		removed = m.Copy()
		return nil
	})
	if err != nil {
		return domain.Match{}, err
	}

	s.logger.Info().
		Str("match_id", id).
		Str("team1", removed.Team1).
		Str("team2", removed.Team2).
		Msg("match deleted")
	if s.metrics != nil {
		s.metrics.MatchesDeleted.Inc()
	}
	return removed, nil
}
