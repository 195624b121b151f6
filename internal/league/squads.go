package league

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"majestic-dominion/internal/domain"
)

type SquadInput struct {
	Name      string `json:"name"`
	Tag       string `json:"tag"`
	GuestRole string `json:"guest_role,omitempty"`
}

// CreateSquad founds a squad. A disbanded squad of the same name is revived
// with its record intact.
func CreateSquad(doc *domain.Document, in SquadInput, now time.Time) (*domain.Squad, error) {
	name := strings.TrimSpace(in.Name)
	tag := strings.TrimSpace(in.Tag)
	if name == "" || tag == "" {
		return nil, fmt.Errorf("%w: squad name and tag are required", domain.ErrInvalidName)
	}
	if doc.IsActive(name) {
		return nil, fmt.Errorf("%w: %q", domain.ErrSquadExists, name)
	}
	if owner := tagOwner(doc, tag); owner != "" {
		return nil, fmt.Errorf("%w: %q is used by %q", domain.ErrTagTaken, tag, owner)
	}

	squad, revived := doc.Squads[name]
	if revived {
		squad.Disbanded = false
		squad.DisbandedAt = nil
		squad.Tag = tag
	} else {
		squad = domain.NewSquad(name, tag, now)
		doc.Squads[name] = squad
		doc.Order = append(doc.Order, name)
	}
	doc.SquadRegistry[name] = tag
	if in.GuestRole != "" {
		doc.GuestRegistry[name] = in.GuestRole
	}
	return squad, nil
}

// DisbandSquad retires a squad from the registries. Its record and matches
// are kept; members become free agents and open business is closed.
func DisbandSquad(doc *domain.Document, name string, now time.Time) (*domain.Squad, error) {
	squad, ok := doc.ActiveSquad(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownSquad, name)
	}

	delete(doc.SquadRegistry, name)
	delete(doc.GuestRegistry, name)
	delete(doc.Bounties, name)
	cancelChallengesFor(doc, name, now)

	for _, p := range doc.Players {
		if p.Squad == name {
			p.SquadHistory = append(p.SquadHistory, domain.SquadHistoryEntry{Squad: name, LeftAt: now})
			p.Squad = ""
		}
	}

	squad.MainRoster = []string{}
	squad.Subs = []string{}
	squad.Disbanded = true
	at := now
	squad.DisbandedAt = &at
	return squad, nil
}

// RenameSquad rewrites every reference to the squad. The document is only
// touched once both names have been validated.
func RenameSquad(doc *domain.Document, oldName, newName string) (*domain.Squad, error) {
	newName = strings.TrimSpace(newName)
	squad, ok := doc.ActiveSquad(oldName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownSquad, oldName)
	}
	if newName == "" {
		return nil, fmt.Errorf("%w: new squad name", domain.ErrInvalidName)
	}
	if newName == oldName {
		return squad, nil
	}
	if _, taken := doc.Squads[newName]; taken {
		return nil, fmt.Errorf("%w: %q", domain.ErrSquadExists, newName)
	}

	rename := func(s *string) {
		if *s == oldName {
			*s = newName
		}
	}

	delete(doc.Squads, oldName)
	squad.Name = newName
	doc.Squads[newName] = squad

	moveKey(doc.SquadRegistry, oldName, newName)
	moveKey(doc.GuestRegistry, oldName, newName)
	moveKey(doc.Bounties, oldName, newName)
	for i := range doc.Order {
		rename(&doc.Order[i])
	}

	for _, m := range doc.Matches {
		rename(&m.Team1)
		rename(&m.Team2)
	}
	for _, p := range doc.Players {
		rename(&p.Squad)
		for i := range p.SquadHistory {
			rename(&p.SquadHistory[i].Squad)
		}
	}
	for _, c := range doc.Challenges {
		rename(&c.Challenger)
		rename(&c.Challenged)
	}
	return squad, nil
}

func SetSquadLogo(doc *domain.Document, name, url string) (*domain.Squad, error) {
	squad, ok := doc.ActiveSquad(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownSquad, name)
	}
	squad.LogoURL = strings.TrimSpace(url)
	return squad, nil
}

type TitleAward struct {
	Squad            string               `json:"squad"`
	Title            string               `json:"title"`
	Championship     bool                 `json:"championship"`
	ChampionshipWins int                  `json:"championship_wins"`
	NewAchievements  []domain.Achievement `json:"new_achievements,omitempty"`
}

var firstPlace = []string{"1st", "first", "1"}

// AwardTitle records "<title> (<position> Place)". First place also counts as
// a championship.
func AwardTitle(doc *domain.Document, name, title, position string) (*TitleAward, error) {
	squad, ok := doc.ActiveSquad(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownSquad, name)
	}
	title = strings.TrimSpace(title)
	position = strings.TrimSpace(position)
	if title == "" || position == "" {
		return nil, domain.ErrInvalidPosition
	}

	award := &TitleAward{Squad: name, Title: fmt.Sprintf("%s (%s Place)", title, position)}
	squad.Titles = append(squad.Titles, award.Title)
	if slices.Contains(firstPlace, strings.ToLower(position)) {
		squad.ChampionshipWins++
		award.Championship = true
	}
	award.ChampionshipWins = squad.ChampionshipWins
	award.NewAchievements = EvaluateAchievements(doc, name)
	return award, nil
}

func tagOwner(doc *domain.Document, tag string) string {
	for name, t := range doc.SquadRegistry {
		if strings.EqualFold(t, tag) {
			return name
		}
	}
	return ""
}

func moveKey[V any](m map[string]V, from, to string) {
	if v, ok := m[from]; ok {
		delete(m, from)
		m[to] = v
	}
}
