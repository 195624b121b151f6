// Package legacy converts documents written by the first generation of the
// league bot into the current document shape.
package legacy

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"majestic-dominion/internal/domain"
)

// Legacy scoring: two points per win, one per draw, no modifiers.
const (
	legacyWinPoints  = 2
	legacyDrawPoints = 1
)

var legacyDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// id accepts both the numeric and the string form of a Discord snowflake.
type id string

func (i *id) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*i = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*i = id(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", string(b), err)
	}
	*i = id(n.String())
	return nil
}

func ids(in []id) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v != "" {
			out = append(out, string(v))
		}
	}
	return out
}

type legacyStreak struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

type legacySquad struct {
	Wins              int          `json:"wins"`
	Draws             int          `json:"draws"`
	Losses            int          `json:"losses"`
	Points            int          `json:"points"`
	Titles            []string     `json:"titles"`
	ChampionshipWins  int          `json:"championship_wins"`
	LogoURL           *string      `json:"logo_url"`
	MainRoster        []id         `json:"main_roster"`
	Subs              []id         `json:"subs"`
	CurrentStreak     legacyStreak `json:"current_streak"`
	Achievements      []string     `json:"achievements"`
	BiggestWinStreak  int          `json:"biggest_win_streak"`
	BiggestLossStreak int          `json:"biggest_loss_streak"`
}

type legacyMatch struct {
	ID                string       `json:"match_id"`
	Team1             string       `json:"team1"`
	Team2             string       `json:"team2"`
	Score             domain.Score `json:"score"`
	Date              string       `json:"date"`
	AddedBy           id           `json:"added_by"`
	Team1Participants []id         `json:"team1_participants"`
	Team2Participants []id         `json:"team2_participants"`
}

type legacyHistory struct {
	Squad    string `json:"squad"`
	LeftDate string `json:"left_date"`
}

type legacyPlayer struct {
	DiscordID    id              `json:"discord_id"`
	IngameName   string          `json:"ingame_name"`
	IngameID     string          `json:"ingame_id"`
	HighestRank  string          `json:"highest_rank"`
	Role         string          `json:"role"`
	Squad        *string         `json:"squad"`
	SquadHistory []legacyHistory `json:"squad_history"`
}

type legacyDocument struct {
	Squads  map[string]legacySquad  `json:"squads"`
	Players map[string]legacyPlayer `json:"players"`
	Matches []legacyMatch           `json:"matches"`
}

type Report struct {
	Squads   int      `json:"squads"`
	Players  int      `json:"players"`
	Matches  int      `json:"matches"`
	Warnings []string `json:"warnings,omitempty"`
}

func (r *Report) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Import builds a fresh document from the seed and overlays the legacy data on
// it. Squad counters are taken as recorded; matches keep their legacy point
// awards. A squad the seed does not know is an error.
func Import(raw []byte, seed domain.Seed, now time.Time) (*domain.Document, Report, error) {
	var report Report
	var in legacyDocument
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, report, fmt.Errorf("failed to parse legacy document: %w", err)
	}

	doc := domain.NewSeededDocument(seed, now)

	for name, ls := range in.Squads {
		squad, ok := doc.Squads[name]
		if !ok {
			return nil, report, fmt.Errorf("%w: legacy squad %q is not in the seed", domain.ErrUnknownSquad, name)
		}
		applySquad(squad, ls, &report)
		report.Squads++
	}

	seen := make(map[string]bool, len(in.Matches))
	for i, lm := range in.Matches {
		if lm.ID == "" {
			lm.ID = fmt.Sprintf("legacy%02d", i)
			report.warn("match #%d had no id, assigned %s", i, lm.ID)
		}
		if seen[lm.ID] {
			report.warn("duplicate match %s skipped", lm.ID)
			continue
		}
		for _, team := range []string{lm.Team1, lm.Team2} {
			if _, ok := doc.Squads[team]; !ok {
				return nil, report, fmt.Errorf("%w: match %s references %q", domain.ErrUnknownSquad, lm.ID, team)
			}
		}
		seen[lm.ID] = true

		m := convertMatch(lm, now, &report)
		doc.Matches = append(doc.Matches, m)
		doc.Squads[m.Team1].MatchHistory = append(doc.Squads[m.Team1].MatchHistory, m.ID)
		doc.Squads[m.Team2].MatchHistory = append(doc.Squads[m.Team2].MatchHistory, m.ID)
		report.Matches++
	}

	for key, lp := range in.Players {
		p, err := convertPlayer(key, lp, doc, now, &report)
		if err != nil {
			return nil, report, err
		}
		doc.Players[p.ID] = p
		report.Players++
	}

	doc.Normalize()
	return doc, report, nil
}

func applySquad(s *domain.Squad, ls legacySquad, report *Report) {
	s.Wins, s.Draws, s.Losses, s.Points = ls.Wins, ls.Draws, ls.Losses, ls.Points
	s.BiggestWinStreak = ls.BiggestWinStreak
	s.BiggestLossStreak = ls.BiggestLossStreak
	s.ChampionshipWins = ls.ChampionshipWins
	if ls.Titles != nil {
		s.Titles = ls.Titles
	}
	if ls.LogoURL != nil {
		s.LogoURL = *ls.LogoURL
	}
	s.MainRoster = ids(ls.MainRoster)
	s.Subs = ids(ls.Subs)

	switch t := domain.StreakType(ls.CurrentStreak.Type); t {
	case domain.StreakWin, domain.StreakLoss, domain.StreakDraw:
		s.CurrentStreak = domain.Streak{Type: t, Count: ls.CurrentStreak.Count}
	default:
		s.CurrentStreak = domain.NoStreak()
	}

	for _, a := range ls.Achievements {
		aid := domain.AchievementID(a)
		if _, known := domain.Achievements[aid]; !known {
			report.warn("squad %s: unknown achievement %q dropped", s.Name, a)
			continue
		}
		if !s.HasAchievement(aid) {
			s.Achievements = append(s.Achievements, aid)
		}
	}
}

func convertMatch(lm legacyMatch, now time.Time, report *Report) *domain.Match {
	m := &domain.Match{
		ID:                lm.ID,
		Team1:             lm.Team1,
		Team2:             lm.Team2,
		Score:             lm.Score,
		Date:              parseDate(lm.Date, now, func() { report.warn("match %s: unreadable date %q", lm.ID, lm.Date) }),
		AddedBy:           string(lm.AddedBy),
		Team1Participants: ids(lm.Team1Participants),
		Team2Participants: ids(lm.Team2Participants),
	}
	switch lm.Score.Outcome() {
	case domain.OutcomeTeam1:
		m.Team1Points = legacyWinPoints
	case domain.OutcomeTeam2:
		m.Team2Points = legacyWinPoints
	default:
		m.Team1Points, m.Team2Points = legacyDrawPoints, legacyDrawPoints
	}
	return m
}

func convertPlayer(key string, lp legacyPlayer, doc *domain.Document, now time.Time, report *Report) (*domain.Player, error) {
	pid := string(lp.DiscordID)
	if pid == "" {
		pid = key
	}
	p := &domain.Player{
		ID:           pid,
		IngameName:   lp.IngameName,
		IngameID:     lp.IngameID,
		HighestRank:  lp.HighestRank,
		Role:         domain.LaneRole(strings.TrimSpace(lp.Role)),
		SquadHistory: []domain.SquadHistoryEntry{},
		CreatedAt:    now,
	}
	if !p.Role.Valid() {
		report.warn("player %s: unknown role %q cleared", pid, lp.Role)
		p.Role = ""
	}
	if lp.Squad != nil && *lp.Squad != "" {
		if _, ok := doc.Squads[*lp.Squad]; !ok {
			return nil, fmt.Errorf("%w: player %s belongs to %q", domain.ErrUnknownSquad, pid, *lp.Squad)
		}
		p.Squad = *lp.Squad
	}
	for _, h := range lp.SquadHistory {
		p.SquadHistory = append(p.SquadHistory, domain.SquadHistoryEntry{
			Squad:  h.Squad,
			LeftAt: parseDate(h.LeftDate, now, func() { report.warn("player %s: unreadable left date %q", pid, h.LeftDate) }),
		})
	}
	return p, nil
}

// parseDate reads the naive UTC timestamps the legacy bot wrote.
func parseDate(raw string, fallback time.Time, onFail func()) time.Time {
	for _, layout := range legacyDateLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t.UTC()
		}
	}
	onFail()
	return fallback
}
