package league

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"majestic-dominion/internal/domain"
)

type PlayerStats struct {
	PlayerID      string  `json:"player_id"`
	Squad         string  `json:"squad"`
	MatchesPlayed int     `json:"matches_played"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Draws         int     `json:"draws"`
	WinRate       float64 `json:"win_rate"`
}

// RegisterPlayer creates the player or replaces their profile fields.
func RegisterPlayer(doc *domain.Document, id string, profile domain.PlayerProfile, now time.Time) (*domain.Player, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: player id", domain.ErrInvalidName)
	}
	if !profile.Role.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRole, profile.Role)
	}

	p, ok := doc.Players[id]
	if !ok {
		p = &domain.Player{ID: id, SquadHistory: []domain.SquadHistoryEntry{}, CreatedAt: now}
		doc.Players[id] = p
	}
	p.DisplayName = profile.DisplayName
	p.IngameName = profile.IngameName
	p.IngameID = profile.IngameID
	p.HighestRank = profile.HighestRank
	p.Role = profile.Role
	return p, nil
}

// AssignPlayerToSquad moves a player to squad, or frees them when squad is
// empty. Leaving a squad drops them from its rosters and is kept in history.
func AssignPlayerToSquad(doc *domain.Document, id, squad string, now time.Time) (*domain.Player, error) {
	p, ok := doc.Players[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrPlayerNotFound, id)
	}
	if squad != "" && !doc.IsActive(squad) {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownSquad, squad)
	}
	if p.Squad == squad {
		return p, nil
	}

	if p.Squad != "" {
		if old, ok := doc.Squads[p.Squad]; ok {
			dropFromRosters(old, id)
		}
		p.SquadHistory = append(p.SquadHistory, domain.SquadHistoryEntry{Squad: p.Squad, LeftAt: now})
	}
	p.Squad = squad
	return p, nil
}

func SetMainRoster(doc *domain.Document, squad string, ids []string) (*domain.Squad, error) {
	s, err := rosterTarget(doc, squad, ids, domain.MaxMainRoster, domain.ErrRosterFull)
	if err != nil {
		return nil, err
	}
	s.MainRoster = append([]string{}, ids...)
	s.Subs = slices.DeleteFunc(s.Subs, func(id string) bool { return slices.Contains(ids, id) })
	return s, nil
}

func SetSubs(doc *domain.Document, squad string, ids []string) (*domain.Squad, error) {
	s, err := rosterTarget(doc, squad, ids, domain.MaxSubs, domain.ErrSubsFull)
	if err != nil {
		return nil, err
	}
	s.Subs = append([]string{}, ids...)
	s.MainRoster = slices.DeleteFunc(s.MainRoster, func(id string) bool { return slices.Contains(ids, id) })
	return s, nil
}

// AddToMainRoster promotes a member to the main roster, taking them off the
// bench if needed.
func AddToMainRoster(doc *domain.Document, squad, id string) (*domain.Squad, error) {
	s, err := rosterTarget(doc, squad, []string{id}, domain.MaxMainRoster, domain.ErrRosterFull)
	if err != nil {
		return nil, err
	}
	if s.IsMain(id) {
		return s, nil
	}
	if len(s.MainRoster) >= domain.MaxMainRoster {
		return nil, fmt.Errorf("%w: %q already has %d", domain.ErrRosterFull, squad, len(s.MainRoster))
	}
	s.Subs = slices.DeleteFunc(s.Subs, func(v string) bool { return v == id })
	s.MainRoster = append(s.MainRoster, id)
	return s, nil
}

func RemoveFromMainRoster(doc *domain.Document, squad, id string) (*domain.Squad, error) {
	s, ok := doc.ActiveSquad(squad)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownSquad, squad)
	}
	if !s.IsMain(id) {
		return nil, fmt.Errorf("%w: %q is not on the main roster", domain.ErrNotSquadMember, id)
	}
	s.MainRoster = slices.DeleteFunc(s.MainRoster, func(v string) bool { return v == id })
	return s, nil
}

func AddSub(doc *domain.Document, squad, id string) (*domain.Squad, error) {
	s, err := rosterTarget(doc, squad, []string{id}, domain.MaxSubs, domain.ErrSubsFull)
	if err != nil {
		return nil, err
	}
	if s.IsSub(id) {
		return s, nil
	}
	if len(s.Subs) >= domain.MaxSubs {
		return nil, fmt.Errorf("%w: %q already has %d", domain.ErrSubsFull, squad, len(s.Subs))
	}
	s.MainRoster = slices.DeleteFunc(s.MainRoster, func(v string) bool { return v == id })
	s.Subs = append(s.Subs, id)
	return s, nil
}

func RemoveSub(doc *domain.Document, squad, id string) (*domain.Squad, error) {
	s, ok := doc.ActiveSquad(squad)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownSquad, squad)
	}
	if !s.IsSub(id) {
		return nil, fmt.Errorf("%w: %q is not a sub", domain.ErrNotSquadMember, id)
	}
	s.Subs = slices.DeleteFunc(s.Subs, func(v string) bool { return v == id })
	return s, nil
}

// ComputePlayerStats credits the player with every match of their current
// squad they took part in. Matches without a participant snapshot count for
// every member.
func ComputePlayerStats(doc *domain.Document, id string) (PlayerStats, error) {
	p, ok := doc.Players[id]
	if !ok {
		return PlayerStats{}, fmt.Errorf("%w: %q", domain.ErrPlayerNotFound, id)
	}
	stats := PlayerStats{PlayerID: id, Squad: p.Squad}
	if p.FreeAgent() {
		return stats, nil
	}

	for _, m := range doc.Matches {
		if !m.Involves(p.Squad) || !m.Credits(p.Squad, id) {
			continue
		}
		stats.MatchesPlayed++
		switch m.ResultFor(p.Squad) {
		case domain.StreakWin:
			stats.Wins++
		case domain.StreakLoss:
			stats.Losses++
		default:
			stats.Draws++
		}
	}
	if stats.MatchesPlayed > 0 {
		stats.WinRate = float64(stats.Wins) / float64(stats.MatchesPlayed) * 100
	}
	return stats, nil
}

// SquadMembers lists the players currently signed to squad, by id.
func SquadMembers(doc *domain.Document, squad string) []*domain.Player {
	var members []*domain.Player
	for _, p := range doc.Players {
		if p.Squad == squad {
			members = append(members, p)
		}
	}
	slices.SortFunc(members, func(a, b *domain.Player) int { return strings.Compare(a.ID, b.ID) })
	return members
}

// rosterTarget validates a roster change: the squad is active, the list fits
// and every id is a distinct member of the squad.
func rosterTarget(doc *domain.Document, squad string, ids []string, limit int, full error) (*domain.Squad, error) {
	s, ok := doc.ActiveSquad(squad)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownSquad, squad)
	}
	if len(ids) > limit {
		return nil, fmt.Errorf("%w: got %d", full, len(ids))
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return nil, fmt.Errorf("%w: %q", domain.ErrDuplicatePlayer, id)
		}
		seen[id] = true
		p, ok := doc.Players[id]
		if !ok {
			return nil, fmt.Errorf("%w: %q", domain.ErrPlayerNotFound, id)
		}
		if p.Squad != squad {
			return nil, fmt.Errorf("%w: %q is not in %q", domain.ErrNotSquadMember, id, squad)
		}
	}
	return s, nil
}

func dropFromRosters(s *domain.Squad, id string) {
	s.MainRoster = slices.DeleteFunc(s.MainRoster, func(v string) bool { return v == id })
	s.Subs = slices.DeleteFunc(s.Subs, func(v string) bool { return v == id })
}
