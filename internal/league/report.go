package league

import (
	"fmt"
	"math"

	"majestic-dominion/internal/domain"
)

// Threat score tuning.
const (
	ThreatRankWeight    = 0.4
	ThreatWinRateWeight = 0.3
	ThreatStreakMax     = 10.0
	ThreatStreakCap     = 5
	ThreatRosterBonus   = 15.0
	ThreatTitleStep     = 5
	ThreatTitleCap      = 15

	TrendWindow     = 5
	TrendMinMatches = 10
	TrendMargin     = 1

	MoodWindow = 5
	MoodMin    = 3
)

type ThreatTier string

const (
	TierLethal      ThreatTier = "Lethal"
	TierDangerous   ThreatTier = "Dangerous"
	TierCompetitive ThreatTier = "Competitive"
	TierDeveloping  ThreatTier = "Developing"
	TierEmerging    ThreatTier = "Emerging"
)

func TierFor(threat int) ThreatTier {
	switch {
	case threat >= 85:
		return TierLethal
	case threat >= 70:
		return TierDangerous
	case threat >= 50:
		return TierCompetitive
	case threat >= 30:
		return TierDeveloping
	default:
		return TierEmerging
	}
}

type Trend string

const (
	TrendAscending    Trend = "ascending"
	TrendDeclining    Trend = "declining"
	TrendStable       Trend = "stable"
	TrendInsufficient Trend = "insufficient_data"
)

type Mood struct {
	Key         string `json:"key"`
	Emoji       string `json:"emoji"`
	Status      string `json:"status"`
	Description string `json:"description"`
}

var (
	MoodFire       = Mood{Key: "fire", Emoji: "🔥", Status: "ON FIRE", Description: "Unstoppable momentum!"}
	MoodRising     = Mood{Key: "rising", Emoji: "📈", Status: "RISING", Description: "Building strength!"}
	MoodSteady     = Mood{Key: "steady", Emoji: "⚖️", Status: "STEADY", Description: "Maintaining course"}
	MoodStruggling = Mood{Key: "struggling", Emoji: "😰", Status: "STRUGGLING", Description: "Needs regrouping"}
	MoodCrisis     = Mood{Key: "crisis", Emoji: "💀", Status: "IN CRISIS", Description: "Dark times ahead..."}
)

type Rival struct {
	Squad      string     `json:"squad"`
	Meetings   int        `json:"meetings"`
	HeadToHead HeadToHead `json:"head_to_head"`
}

type SquadReport struct {
	Squad        string     `json:"squad"`
	Tag          string     `json:"tag"`
	Rank         int        `json:"rank"`
	RankedSquads int        `json:"ranked_squads"`
	Points       int        `json:"points"`
	WinRate      float64    `json:"win_rate"`
	Threat       int        `json:"threat"`
	Tier         ThreatTier `json:"tier"`
	Trend        Trend      `json:"trend"`
	Mood         Mood       `json:"mood"`
	Strengths    []string   `json:"strengths"`
	Weaknesses   []string   `json:"weaknesses"`
	Rival        *Rival     `json:"rival,omitempty"`
}

// Report builds the intelligence summary for an active squad.
func Report(doc *domain.Document, name string) (SquadReport, error) {
	squad, ok := doc.ActiveSquad(name)
	if !ok {
		return SquadReport{}, fmt.Errorf("%w: %q", domain.ErrSquadNotFound, name)
	}

	rankings := Rankings(doc)
	rank := RankOf(rankings, name)
	matches := doc.SquadMatches(name)

	threat := ThreatScore(squad, rank, len(rankings))
	r := SquadReport{
		Squad:        squad.Name,
		Tag:          doc.SquadRegistry[name],
		Rank:         rank,
		RankedSquads: len(rankings),
		Points:       squad.Points,
		WinRate:      squad.WinRate(),
		Threat:       threat,
		Tier:         TierFor(threat),
		Trend:        FormTrend(matches, name),
		Mood:         SquadMood(matches, name),
		Rival:        biggestRival(doc, matches, name),
	}
	r.Strengths, r.Weaknesses = assess(squad, rank)
	return r, nil
}

// ThreatScore blends rank, win rate, streak, roster and titles into [0, 100].
func ThreatScore(squad *domain.Squad, rank, ranked int) int {
	rankScore := 100.0
	if ranked > 1 && rank > 0 {
		rankScore = 100 * float64(ranked-rank) / float64(ranked-1)
	}

	var streak float64
	scale := float64(min(squad.CurrentStreak.Count, ThreatStreakCap)) / ThreatStreakCap
	switch squad.CurrentStreak.Type {
	case domain.StreakWin:
		streak = scale * ThreatStreakMax
	case domain.StreakLoss:
		streak = -scale * ThreatStreakMax
	}

	score := ThreatRankWeight*rankScore + ThreatWinRateWeight*squad.WinRate() + streak
	if squad.RosterComplete() {
		score += ThreatRosterBonus
	}
	score += float64(min(squad.ChampionshipWins*ThreatTitleStep, ThreatTitleCap))

	return int(math.Round(math.Max(0, math.Min(100, score))))
}

// FormTrend compares wins in the last five matches with the five before.
func FormTrend(matches []*domain.Match, name string) Trend {
	if len(matches) < TrendMinMatches {
		return TrendInsufficient
	}
	n := len(matches)
	recent := countWins(matches[n-TrendWindow:], name)
	previous := countWins(matches[n-2*TrendWindow:n-TrendWindow], name)
	switch {
	case recent-previous > TrendMargin:
		return TrendAscending
	case previous-recent > TrendMargin:
		return TrendDeclining
	default:
		return TrendStable
	}
}

// SquadMood reads the last five results. Fewer than three is always steady.
func SquadMood(matches []*domain.Match, name string) Mood {
	if len(matches) > MoodWindow {
		matches = matches[len(matches)-MoodWindow:]
	}
	if len(matches) < MoodMin {
		return MoodSteady
	}
	wins := countWins(matches, name)
	losses := 0
	for _, m := range matches {
		if m.ResultFor(name) == domain.StreakLoss {
			losses++
		}
	}
	switch {
	case wins >= 4:
		return MoodFire
	case wins >= 3:
		return MoodRising
	case losses >= 4:
		return MoodCrisis
	case losses >= 3:
		return MoodStruggling
	default:
		return MoodSteady
	}
}

func countWins(matches []*domain.Match, name string) int {
	wins := 0
	for _, m := range matches {
		if m.ResultFor(name) == domain.StreakWin {
			wins++
		}
	}
	return wins
}

// biggestRival picks the most played opponent; ties go to whoever was met first.
func biggestRival(doc *domain.Document, matches []*domain.Match, name string) *Rival {
	counts := map[string]int{}
	var order []string
	for _, m := range matches {
		opp := m.Opponent(name)
		if counts[opp] == 0 {
			order = append(order, opp)
		}
		counts[opp]++
	}
	if len(order) == 0 {
		return nil
	}

	best := order[0]
	for _, opp := range order[1:] {
		if counts[opp] > counts[best] {
			best = opp
		}
	}
	return &Rival{Squad: best, Meetings: counts[best], HeadToHead: ComputeHeadToHead(doc, name, best)}
}

func assess(squad *domain.Squad, rank int) (strengths, weaknesses []string) {
	strengths, weaknesses = []string{}, []string{}
	total := squad.TotalMatches()
	wr := squad.WinRate()

	if wr >= 60 {
		strengths = append(strengths, fmt.Sprintf("Dominant win rate (%.0f%%)", wr))
	} else if total >= 5 && wr <= 35 {
		weaknesses = append(weaknesses, fmt.Sprintf("Low win rate (%.0f%%)", wr))
	}
	if rank > 0 && rank <= 3 {
		strengths = append(strengths, fmt.Sprintf("Top 3 kingdom (#%d)", rank))
	}
	if squad.BiggestWinStreak >= 5 {
		strengths = append(strengths, fmt.Sprintf("Proven streak of %d wins", squad.BiggestWinStreak))
	}
	if squad.CurrentStreak.Type == domain.StreakLoss && squad.CurrentStreak.Count >= 3 {
		weaknesses = append(weaknesses, fmt.Sprintf("On a %d match losing streak", squad.CurrentStreak.Count))
	}
	if squad.RosterComplete() {
		strengths = append(strengths, "Full main roster")
	} else {
		weaknesses = append(weaknesses, fmt.Sprintf("Incomplete main roster (%d/%d)", len(squad.MainRoster), domain.MaxMainRoster))
	}
	if len(squad.Subs) == domain.MaxSubs {
		strengths = append(strengths, "Deep bench")
	}
	if squad.ChampionshipWins > 0 {
		strengths = append(strengths, fmt.Sprintf("%d championship title(s)", squad.ChampionshipWins))
	}
	if total < 5 {
		weaknesses = append(weaknesses, "Limited battle experience")
	}
	return strengths, weaknesses
}
