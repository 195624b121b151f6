package service

import (
	"context"
	"time"

	"majestic-dominion/internal/domain"
	"majestic-dominion/internal/league"
)

func (s *LeagueService) CreateSquad(ctx context.Context, in league.SquadInput) (domain.Squad, error) {
	var out domain.Squad
	err := s.mutate(ctx, "create_squad", func(doc *domain.Document, now time.Time) error {
		squad, err := league.CreateSquad(doc, in, now)
		if err != nil {
			return err
		}
		out = squad.Copy()
		return nil
	})
	if err != nil {
		return domain.Squad{}, err
	}
	s.logger.Info().Str("squad", out.Name).Str("tag", out.Tag).Msg("squad founded")
	return out, nil
}

func (s *LeagueService) DisbandSquad(ctx context.Context, name string) (domain.Squad, error) {
	var out domain.Squad
	err := s.mutate(ctx, "disband_squad", func(doc *domain.Document, now time.Time) error {
		squad, err := league.DisbandSquad(doc, name, now)
		if err != nil {
			return err
		}
		out = squad.Copy()
		return nil
	})
	if err != nil {
		return domain.Squad{}, err
	}
	s.logger.Info().Str("squad", name).Msg("squad disbanded")
	return out, nil
}

func (s *LeagueService) RenameSquad(ctx context.Context, oldName, newName string) (domain.Squad, error) {
	var out domain.Squad
	err := s.mutate(ctx, "rename_squad", func(doc *domain.Document, _ time.Time) error {
		squad, err := league.RenameSquad(doc, oldName, newName)
		if err != nil {
			return err
		}
		out = squad.Copy()
		return nil
	})
	if err != nil {
		return domain.Squad{}, err
	}
	s.logger.Info().Str("from", oldName).Str("to", out.Name).Msg("squad renamed")
	return out, nil
}

func (s *LeagueService) SetSquadLogo(ctx context.Context, name, url string) (domain.Squad, error) {
	return s.squadMutation(ctx, "set_squad_logo", func(doc *domain.Document) (*domain.Squad, error) {
		return league.SetSquadLogo(doc, name, url)
	})
}

func (s *LeagueService) AwardTitle(ctx context.Context, name, title, position string) (*league.TitleAward, error) {
	var award *league.TitleAward
	err := s.mutate(ctx, "award_title", func(doc *domain.Document, _ time.Time) error {
		var err error
		award, err = league.AwardTitle(doc, name, title, position)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.countAchievements(award.NewAchievements)
	s.logger.Info().
		Str("squad", name).
		Str("title", award.Title).
		Bool("championship", award.Championship).
		Msg("title awarded")
	return award, nil
}

func (s *LeagueService) RegisterPlayer(ctx context.Context, id string, profile domain.PlayerProfile) (domain.Player, error) {
	return s.playerMutation(ctx, "register_player", func(doc *domain.Document, now time.Time) (*domain.Player, error) {
		return league.RegisterPlayer(doc, id, profile, now)
	})
}

// AssignPlayerToSquad moves the player; an empty squad makes them a free
// agent.
func (s *LeagueService) AssignPlayerToSquad(ctx context.Context, id, squad string) (domain.Player, error) {
	p, err := s.playerMutation(ctx, "assign_player", func(doc *domain.Document, now time.Time) (*domain.Player, error) {
		return league.AssignPlayerToSquad(doc, id, squad, now)
	})
	if err != nil {
		return domain.Player{}, err
	}
	s.logger.Info().Str("player", id).Str("squad", squad).Msg("player assigned")
	return p, nil
}

func (s *LeagueService) SetMainRoster(ctx context.Context, squad string, ids []string) (domain.Squad, error) {
	return s.squadMutation(ctx, "set_main_roster", func(doc *domain.Document) (*domain.Squad, error) {
		return league.SetMainRoster(doc, squad, ids)
	})
}

func (s *LeagueService) SetSubs(ctx context.Context, squad string, ids []string) (domain.Squad, error) {
	return s.squadMutation(ctx, "set_subs", func(doc *domain.Document) (*domain.Squad, error) {
		return league.SetSubs(doc, squad, ids)
	})
}

func (s *LeagueService) AddToMainRoster(ctx context.Context, squad, id string) (domain.Squad, error) {
	return s.squadMutation(ctx, "add_main", func(doc *domain.Document) (*domain.Squad, error) {
		return league.AddToMainRoster(doc, squad, id)
	})
}

func (s *LeagueService) RemoveFromMainRoster(ctx context.Context, squad, id string) (domain.Squad, error) {
	return s.squadMutation(ctx, "remove_main", func(doc *domain.Document) (*domain.Squad, error) {
		return league.RemoveFromMainRoster(doc, squad, id)
	})
}

func (s *LeagueService) AddSub(ctx context.Context, squad, id string) (domain.Squad, error) {
	return s.squadMutation(ctx, "add_sub", func(doc *domain.Document) (*domain.Squad, error) {
		return league.AddSub(doc, squad, id)
	})
}

func (s *LeagueService) RemoveSub(ctx context.Context, squad, id string) (domain.Squad, error) {
	return s.squadMutation(ctx, "remove_sub", func(doc *domain.Document) (*domain.Squad, error) {
		return league.RemoveSub(doc, squad, id)
	})
}

func (s *LeagueService) squadMutation(ctx context.Context, op string, fn func(doc *domain.Document) (*domain.Squad, error)) (domain.Squad, error) {
	var out domain.Squad
	err := s.mutate(ctx, op, func(doc *domain.Document, _ time.Time) error {
		squad, err := fn(doc)
		if err != nil {
			return err
		}
		out = squad.Copy()
		return nil
	})
	return out, err
}

func (s *LeagueService) playerMutation(ctx context.Context, op string, fn func(doc *domain.Document, now time.Time) (*domain.Player, error)) (domain.Player, error) {
	var out domain.Player
	err := s.mutate(ctx, op, func(doc *domain.Document, now time.Time) error {
		p, err := fn(doc, now)
		if err != nil {
			return err
		}
		out = p.Copy()
		return nil
	})
	return out, err
}

func (s *LeagueService) countAchievements(unlocked []domain.Achievement) {
	if s.metrics == nil {
		return
	}
	for _, a := range unlocked {
		s.metrics.AchievementsUnlocked.WithLabelValues(string(a.ID)).Inc()
	}
}
