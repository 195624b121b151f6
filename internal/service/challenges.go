package service

import (
	"context"
	"time"

	"majestic-dominion/internal/domain"
	"majestic-dominion/internal/league"
)

func (s *LeagueService) CreateChallenge(ctx context.Context, in league.ChallengeInput) (domain.Challenge, error) {
	c, err := s.challengeMutation(ctx, "create_challenge", func(doc *domain.Document, now time.Time) (*domain.Challenge, error) {
		return league.CreateChallenge(doc, in, now, s.newID)
	})
	if err != nil {
		return domain.Challenge{}, err
	}
	s.logger.Info().Str("challenge_id", c.ID).Str("challenger", c.Challenger).Str("challenged", c.Challenged).Msg("challenge issued")
	return c, nil
}

func (s *LeagueService) RespondToChallenge(ctx context.Context, id, responder string, accept bool) (domain.Challenge, error) {
	c, err := s.challengeMutation(ctx, "respond_challenge", func(doc *domain.Document, now time.Time) (*domain.Challenge, error) {
		return league.RespondToChallenge(doc, id, responder, accept, now)
	})
	if err != nil {
		return domain.Challenge{}, err
	}
	s.logger.Info().Str("challenge_id", id).Str("status", string(c.Status)).Msg("challenge answered")
	return c, nil
}

func (s *LeagueService) ScheduleChallenge(ctx context.Context, id string, at time.Time, notes string) (domain.Challenge, error) {
	return s.challengeMutation(ctx, "schedule_challenge", func(doc *domain.Document, now time.Time) (*domain.Challenge, error) {
		return league.ScheduleChallenge(doc, id, at, notes, now)
	})
}

func (s *LeagueService) CancelChallenge(ctx context.Context, id string) (domain.Challenge, error) {
	return s.challengeMutation(ctx, "cancel_challenge", func(doc *domain.Document, now time.Time) (*domain.Challenge, error) {
		return league.CancelChallenge(doc, id, now)
	})
}

func (s *LeagueService) SetBounty(ctx context.Context, squad string, points int, reason string) (domain.Bounty, error) {
	var out domain.Bounty
	err := s.mutate(ctx, "set_bounty", func(doc *domain.Document, now time.Time) error {
		b, err := league.SetBounty(doc, squad, points, reason, now)
		if err != nil {
			return err
		}
		out = *b
		return nil
	})
	if err != nil {
		return domain.Bounty{}, err
	}
	s.logger.Info().Str("squad", squad).Int("points", out.Points).Msg("bounty placed")
	return out, nil
}

func (s *LeagueService) RemoveBounty(ctx context.Context, squad string) (domain.Bounty, error) {
	var out domain.Bounty
	err := s.mutate(ctx, "remove_bounty", func(doc *domain.Document, _ time.Time) error {
		b, err := league.RemoveBounty(doc, squad)
		if err != nil {
			return err
		}
		out = *b
		return nil
	})
	return out, err
}

func (s *LeagueService) challengeMutation(ctx context.Context, op string, fn func(doc *domain.Document, now time.Time) (*domain.Challenge, error)) (domain.Challenge, error) {
	var out domain.Challenge
	err := s.mutate(ctx, op, func(doc *domain.Document, now time.Time) error {
		c, err := fn(doc, now)
		if err != nil {
			return err
		}
		out = c.Copy()
		return nil
	})
	return out, err
}
