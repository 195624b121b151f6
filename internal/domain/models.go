package domain

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"time"
)

const (
	MaxMainRoster = 5
	MaxSubs       = 3
)

type StreakType string

const (
	StreakWin  StreakType = "win"
	StreakLoss StreakType = "loss"
	StreakDraw StreakType = "draw"
	StreakNone StreakType = "none"
)

type Streak struct {
	Type  StreakType `json:"type"`
	Count int        `json:"count"`
}

func NoStreak() Streak {
	return Streak{Type: StreakNone, Count: 0}
}

type LaneRole string

const (
	RoleGoldLane LaneRole = "Gold Lane"
	RoleMidLane  LaneRole = "Mid Lane"
	RoleExpLane  LaneRole = "Exp Lane"
	RoleJungler  LaneRole = "Jungler"
	RoleRoamer   LaneRole = "Roamer"
)

var LaneRoles = []LaneRole{RoleGoldLane, RoleMidLane, RoleExpLane, RoleJungler, RoleRoamer}

func (r LaneRole) Valid() bool {
	if r == "" {
		return true
	}
	for _, role := range LaneRoles {
		if role == r {
			return true
		}
	}
	return false
}

type Squad struct {
	Name              string          `json:"name"`
	Tag               string          `json:"tag"`
	Wins              int             `json:"wins"`
	Draws             int             `json:"draws"`
	Losses            int             `json:"losses"`
	Points            int             `json:"points"`
	CurrentStreak     Streak          `json:"current_streak"`
	BiggestWinStreak  int             `json:"biggest_win_streak"`
	BiggestLossStreak int             `json:"biggest_loss_streak"`
	Achievements      []AchievementID `json:"achievements"`
	Titles            []string        `json:"titles"`
	ChampionshipWins  int             `json:"championship_wins"`
	MainRoster        []string        `json:"main_roster"`
	Subs              []string        `json:"subs"`
	MatchHistory      []string        `json:"match_history"` // match ids, oldest first
	LogoURL           string          `json:"logo_url,omitempty"`
	Disbanded         bool            `json:"disbanded,omitempty"`
	DisbandedAt       *time.Time      `json:"disbanded_at,omitempty"`
	FoundedAt         time.Time       `json:"founded_at"`
}

func NewSquad(name, tag string, now time.Time) *Squad {
	return &Squad{
		Name:          name,
		Tag:           tag,
		CurrentStreak: NoStreak(),
		Achievements:  []AchievementID{},
		Titles:        []string{},
		MainRoster:    []string{},
		Subs:          []string{},
		MatchHistory:  []string{},
		FoundedAt:     now,
	}
}

// Copy returns a squad that shares no memory with s.
func (s *Squad) Copy() Squad {
	out := *s
	out.Achievements = slices.Clone(s.Achievements)
	out.Titles = slices.Clone(s.Titles)
	out.MainRoster = slices.Clone(s.MainRoster)
	out.Subs = slices.Clone(s.Subs)
	out.MatchHistory = slices.Clone(s.MatchHistory)
	out.DisbandedAt = clonePtr(s.DisbandedAt)
	return out
}

func (s *Squad) TotalMatches() int {
	return s.Wins + s.Draws + s.Losses
}

// WinRate is a percentage in [0, 100].
func (s *Squad) WinRate() float64 {
	total := s.TotalMatches()
	if total == 0 {
		return 0
	}
	return float64(s.Wins) / float64(total) * 100
}

func (s *Squad) HasAchievement(id AchievementID) bool {
	for _, a := range s.Achievements {
		if a == id {
			return true
		}
	}
	return false
}

func (s *Squad) RosterComplete() bool {
	return len(s.MainRoster) == MaxMainRoster
}

func (s *Squad) IsMain(playerID string) bool {
	return contains(s.MainRoster, playerID)
}

func (s *Squad) IsSub(playerID string) bool {
	return contains(s.Subs, playerID)
}

type SquadHistoryEntry struct {
	Squad  string    `json:"squad"`
	LeftAt time.Time `json:"left_date"`
}

type Player struct {
	ID           string              `json:"discord_id"`
	DisplayName  string              `json:"display_name,omitempty"`
	IngameName   string              `json:"ingame_name"`
	IngameID     string              `json:"ingame_id"`
	HighestRank  string              `json:"highest_rank"`
	Role         LaneRole            `json:"role"`
	Squad        string              `json:"squad"` // empty means free agent
	SquadHistory []SquadHistoryEntry `json:"squad_history"`
	CreatedAt    time.Time           `json:"created_at"`
}

func (p *Player) Copy() Player {
	out := *p
	out.SquadHistory = slices.Clone(p.SquadHistory)
	return out
}

func (p *Player) FreeAgent() bool {
	return p.Squad == ""
}

type PlayerProfile struct {
	DisplayName string   `json:"display_name"`
	IngameName  string   `json:"ingame_name"`
	IngameID    string   `json:"ingame_id"`
	HighestRank string   `json:"highest_rank"`
	Role        LaneRole `json:"role"`
}

type GloryModifier struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
}

type Match struct {
	ID                string          `json:"match_id"`
	Team1             string          `json:"team1"`
	Team2             string          `json:"team2"`
	Score             Score           `json:"score"`
	Date              time.Time       `json:"date"`
	AddedBy           string          `json:"added_by,omitempty"`
	Team1Participants []string        `json:"team1_participants"`
	Team2Participants []string        `json:"team2_participants"`
	Team1Points       int             `json:"t1_pts"`
	Team2Points       int             `json:"t2_pts"`
	Modifiers         []GloryModifier `json:"modifiers,omitempty"`
}

func (m *Match) Copy() Match {
	out := *m
	out.Team1Participants = slices.Clone(m.Team1Participants)
	out.Team2Participants = slices.Clone(m.Team2Participants)
	out.Modifiers = slices.Clone(m.Modifiers)
	return out
}

func (m *Match) Involves(squad string) bool {
	return m.Team1 == squad || m.Team2 == squad
}

func (m *Match) Between(a, b string) bool {
	return (m.Team1 == a && m.Team2 == b) || (m.Team1 == b && m.Team2 == a)
}

func (m *Match) Opponent(squad string) string {
	if m.Team1 == squad {
		return m.Team2
	}
	return m.Team1
}

// ResultFor reports the match from the point of view of squad.
func (m *Match) ResultFor(squad string) StreakType {
	own, other := m.Score.Team1, m.Score.Team2
	if m.Team2 == squad {
		own, other = other, own
	}
	switch {
	case own > other:
		return StreakWin
	case own < other:
		return StreakLoss
	default:
		return StreakDraw
	}
}

func (m *Match) PointsFor(squad string) int {
	if m.Team1 == squad {
		return m.Team1Points
	}
	return m.Team2Points
}

// ParticipantsFor returns the roster snapshot taken for squad when the match
// was recorded. An empty snapshot predates roster tracking (or the roster was
// incomplete) and means every current member of the squad is credited.
func (m *Match) ParticipantsFor(squad string) []string {
	if m.Team1 == squad {
		return m.Team1Participants
	}
	return m.Team2Participants
}

func (m *Match) Credits(squad, playerID string) bool {
	participants := m.ParticipantsFor(squad)
	return len(participants) == 0 || contains(participants, playerID)
}

type ChallengeStatus string

const (
	ChallengePending   ChallengeStatus = "pending"
	ChallengeAccepted  ChallengeStatus = "accepted"
	ChallengeDeclined  ChallengeStatus = "declined"
	ChallengeCancelled ChallengeStatus = "cancelled"
	ChallengeScheduled ChallengeStatus = "scheduled"
	ChallengeCompleted ChallengeStatus = "completed"
)

func (s ChallengeStatus) Live() bool {
	return s == ChallengePending || s == ChallengeAccepted || s == ChallengeScheduled
}

type Challenge struct {
	ID          string          `json:"id"`
	Challenger  string          `json:"challenger"`
	Challenged  string          `json:"challenged"`
	Status      ChallengeStatus `json:"status"`
	Message     string          `json:"message,omitempty"`
	ScheduledAt *time.Time      `json:"scheduled_date,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	MatchID     string          `json:"match_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (c *Challenge) Copy() Challenge {
	out := *c
	out.ScheduledAt = clonePtr(c.ScheduledAt)
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func (c *Challenge) Between(a, b string) bool {
	return (c.Challenger == a && c.Challenged == b) || (c.Challenger == b && c.Challenged == a)
}

func (c *Challenge) Involves(squad string) bool {
	return c.Challenger == squad || c.Challenged == squad
}

type Bounty struct {
	Points int       `json:"points"`
	Reason string    `json:"reason"`
	SetAt  time.Time `json:"set_at"`
	Auto   bool      `json:"auto,omitempty"`
}

// Document is the whole persisted league graph.
type Document struct {
	Squads        map[string]*Squad  `json:"squads"`
	Players       map[string]*Player `json:"players"`
	Matches       []*Match           `json:"matches"`
	Challenges    []*Challenge       `json:"challenges"`
	Bounties      map[string]*Bounty `json:"bounties"`
	SquadRegistry map[string]string  `json:"squad_registry"`
	GuestRegistry map[string]string  `json:"guest_registry"`
	// Order is the founding order of every squad record, active or not. It is
	// the iteration order rankings tie-break on.
	Order     []string  `json:"squad_order"`
	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewDocument() *Document {
	return &Document{
		Squads:        map[string]*Squad{},
		Players:       map[string]*Player{},
		Matches:       []*Match{},
		Challenges:    []*Challenge{},
		Bounties:      map[string]*Bounty{},
		SquadRegistry: map[string]string{},
		GuestRegistry: map[string]string{},
		Order:         []string{},
	}
}

// Normalize fills nil collections so older documents can be mutated safely.
func (d *Document) Normalize() {
	if d.Squads == nil {
		d.Squads = map[string]*Squad{}
	}
	if d.Players == nil {
		d.Players = map[string]*Player{}
	}
	if d.Matches == nil {
		d.Matches = []*Match{}
	}
	if d.Challenges == nil {
		d.Challenges = []*Challenge{}
	}
	if d.Bounties == nil {
		d.Bounties = map[string]*Bounty{}
	}
	if d.SquadRegistry == nil {
		d.SquadRegistry = map[string]string{}
	}
	if d.GuestRegistry == nil {
		d.GuestRegistry = map[string]string{}
	}
	// null entries in a hand-edited or legacy file are dropped; a registered
	// squad without a record gets a zeroed one
	maps.DeleteFunc(d.Players, func(_ string, p *Player) bool { return p == nil })
	maps.DeleteFunc(d.Bounties, func(_ string, b *Bounty) bool { return b == nil })
	d.Matches = slices.DeleteFunc(d.Matches, func(m *Match) bool { return m == nil })
	d.Challenges = slices.DeleteFunc(d.Challenges, func(c *Challenge) bool { return c == nil })
	for name, tag := range d.SquadRegistry {
		if d.Squads[name] == nil {
			d.Squads[name] = NewSquad(name, tag, time.Time{})
		}
	}
	maps.DeleteFunc(d.Squads, func(_ string, s *Squad) bool { return s == nil })
	d.Order = slices.DeleteFunc(d.Order, func(name string) bool { return d.Squads[name] == nil })

	seen := make(map[string]bool, len(d.Order))
	for _, name := range d.Order {
		seen[name] = true
	}
	for name, squad := range d.Squads {
		if !seen[name] {
			d.Order = append(d.Order, name)
		}
		if squad.CurrentStreak.Type == "" {
			squad.CurrentStreak = NoStreak()
		}
	}
}

func (d *Document) Clone() (*Document, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	var clone Document
	if err := json.Unmarshal(raw, &clone); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	clone.Normalize()
	return &clone, nil
}

func (d *Document) IsActive(name string) bool {
	_, ok := d.SquadRegistry[name]
	return ok
}

// ActiveSquad returns the squad only if it is registered (not disbanded).
func (d *Document) ActiveSquad(name string) (*Squad, bool) {
	if !d.IsActive(name) {
		return nil, false
	}
	squad, ok := d.Squads[name]
	return squad, ok
}

// ActiveSquads lists registered squads in founding order.
func (d *Document) ActiveSquads() []*Squad {
	squads := make([]*Squad, 0, len(d.SquadRegistry))
	for _, name := range d.Order {
		if squad, ok := d.ActiveSquad(name); ok {
			squads = append(squads, squad)
		}
	}
	return squads
}

func (d *Document) MatchByID(id string) (int, *Match) {
	for i, m := range d.Matches {
		if m.ID == id {
			return i, m
		}
	}
	return -1, nil
}

// SquadMatches resolves a squad's match history, oldest first.
func (d *Document) SquadMatches(name string) []*Match {
	squad, ok := d.Squads[name]
	if !ok {
		return nil
	}
	byID := make(map[string]*Match, len(d.Matches))
	for _, m := range d.Matches {
		byID[m.ID] = m
	}
	matches := make([]*Match, 0, len(squad.MatchHistory))
	for _, id := range squad.MatchHistory {
		if m, ok := byID[id]; ok {
			matches = append(matches, m)
		}
	}
	return matches
}

func (d *Document) ChallengeByID(id string) *Challenge {
	for _, c := range d.Challenges {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
