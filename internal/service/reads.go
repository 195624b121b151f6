package service

import (
	"context"
	"fmt"

	"majestic-dominion/internal/constants"
	"majestic-dominion/internal/domain"
	"majestic-dominion/internal/league"
)

// SquadProfile is a squad with the context the bindings show next to it.
type SquadProfile struct {
	Squad     domain.Squad    `json:"squad"`
	Rank      int             `json:"rank,omitempty"`
	Active    bool            `json:"active"`
	GuestRole string          `json:"guest_role,omitempty"`
	Members   []domain.Player `json:"members"`
	Bounty    *domain.Bounty  `json:"bounty,omitempty"`
}

func (s *LeagueService) Rankings(_ context.Context) ([]league.RankingEntry, error) {
	doc, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	return league.Rankings(doc), nil
}

func (s *LeagueService) Squad(_ context.Context, name string) (SquadProfile, error) {
	doc, err := s.Snapshot()
	if err != nil {
		return SquadProfile{}, err
	}
	squad, ok := doc.Squads[name]
	if !ok {
		return SquadProfile{}, fmt.Errorf("%w: %q", domain.ErrSquadNotFound, name)
	}

	profile := SquadProfile{
		Squad:     squad.Copy(),
		Active:    doc.IsActive(name),
		GuestRole: doc.GuestRegistry[name],
		Members:   []domain.Player{},
	}
	if profile.Active {
		profile.Rank = league.RankOf(league.Rankings(doc), name)
	}
	for _, p := range league.SquadMembers(doc, name) {
		profile.Members = append(profile.Members, p.Copy())
	}
	if b, ok := doc.Bounties[name]; ok {
		bounty := *b
		profile.Bounty = &bounty
	}
	return profile, nil
}

func (s *LeagueService) Player(_ context.Context, id string) (domain.Player, error) {
	doc, err := s.Snapshot()
	if err != nil {
		return domain.Player{}, err
	}
	p, ok := doc.Players[id]
	if !ok {
		return domain.Player{}, fmt.Errorf("%w: %q", domain.ErrPlayerNotFound, id)
	}
	return p.Copy(), nil
}

func (s *LeagueService) PlayerStats(_ context.Context, id string) (league.PlayerStats, error) {
	doc, err := s.Snapshot()
	if err != nil {
		return league.PlayerStats{}, err
	}
	return league.ComputePlayerStats(doc, id)
}

func (s *LeagueService) HeadToHead(_ context.Context, a, b string) (league.HeadToHead, error) {
	doc, err := s.Snapshot()
	if err != nil {
		return league.HeadToHead{}, err
	}
	for _, name := range []string{a, b} {
		if _, ok := doc.Squads[name]; !ok {
			return league.HeadToHead{}, fmt.Errorf("%w: %q", domain.ErrSquadNotFound, name)
		}
	}
	if a == b {
		return league.HeadToHead{}, fmt.Errorf("%w: %q", domain.ErrSelfMatch, a)
	}
	return league.ComputeHeadToHead(doc, a, b), nil
}

func (s *LeagueService) Predict(_ context.Context, a, b string) (league.Prediction, error) {
	doc, err := s.Snapshot()
	if err != nil {
		return league.Prediction{}, err
	}
	return league.Predict(doc, a, b)
}

func (s *LeagueService) SquadReport(_ context.Context, name string) (league.SquadReport, error) {
	doc, err := s.Snapshot()
	if err != nil {
		return league.SquadReport{}, err
	}
	return league.Report(doc, name)
}

// MatchHistory returns the squad's latest matches; limit <= 0 means the
// default page.
func (s *LeagueService) MatchHistory(_ context.Context, name string, limit int) ([]domain.Match, error) {
	doc, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = constants.DefaultHistoryLimit
	}
	return league.MatchHistory(doc, name, limit)
}

func (s *LeagueService) RecentMatches(_ context.Context, limit int) ([]domain.Match, error) {
	doc, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = constants.DefaultRecentMatches
	}
	return league.RecentMatches(doc, min(limit, constants.MaxRecentMatches)), nil
}

// ActiveChallenges lists live challenges; an empty squad lists all of them.
func (s *LeagueService) ActiveChallenges(_ context.Context, squad string) ([]domain.Challenge, error) {
	doc, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	return league.ActiveChallenges(doc, squad), nil
}

func (s *LeagueService) Bounties(_ context.Context) ([]league.BountyEntry, error) {
	doc, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	return league.Bounties(doc), nil
}

func (s *LeagueService) RealmStats(_ context.Context) (league.RealmStats, error) {
	doc, err := s.Snapshot()
	if err != nil {
		return league.RealmStats{}, err
	}
	return league.RealmStatistics(doc), nil
}

func (s *LeagueService) GloryProgression(_ context.Context, name string) ([]int, error) {
	doc, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	return league.GloryProgression(doc, name)
}
