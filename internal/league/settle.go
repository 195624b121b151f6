package league

import (
	"fmt"
	"slices"
	"time"

	"majestic-dominion/internal/domain"
)

// Glory point tuning.
const (
	GloryBaseWin = 3
	GloryDraw    = 1
	// GloryMinWin is the floor for a winner's award after modifiers.
	GloryMinWin = 1

	GiantSlayerTopRank = 3
	GiantSlayerBonus   = 3
	MassiveUpsetGap    = 8
	MassiveUpsetBonus  = 3
	UpsetGap           = 4
	UpsetBonus         = 2
	UnderdogBonus      = 1
	ExpectedTaxGap     = 8
	ExpectedTax        = -1
	StreakFireMin      = 2
	StreakFireBonus    = 1
	CleanSheetBonus    = 1
)

const (
	ModifierGiantSlayer  = "Giant Slayer"
	ModifierMassiveUpset = "Massive Upset"
	ModifierUpset        = "Upset"
	ModifierUnderdog     = "Underdog"
	ModifierExpectedTax  = "Expected tax"
	ModifierStreakFire   = "Streak fire"
	ModifierCleanSheet   = "Clean sheet"
	ModifierBounty       = "Bounty"
)

const maxIDAttempts = 5

type IDGenerator func() (string, error)

type MatchInput struct {
	Team1   string       `json:"team1"`
	Team2   string       `json:"team2"`
	Score   domain.Score `json:"score"`
	AddedBy string       `json:"added_by,omitempty"`
}

type GloryBreakdown struct {
	Base      int                    `json:"base"`
	Modifiers []domain.GloryModifier `json:"modifiers"`
	Total     int                    `json:"total"`
}

// GloryContext is the pre-match situation the winner's award depends on.
type GloryContext struct {
	WinnerRank   int
	LoserRank    int
	WinnerStreak domain.Streak
	LoserScore   int
	Bounty       *domain.Bounty
}

type ClaimedBounty struct {
	Squad  string `json:"squad"`
	Points int    `json:"points"`
	Reason string `json:"reason"`
}

type OracleVerdict struct {
	Favored    string `json:"favored,omitempty"`
	FavoredPct int    `json:"favored_pct"`
	DrawPct    int    `json:"draw_pct"`
	Correct    bool   `json:"correct"`
	Summary    string `json:"summary"`
}

type MatchResult struct {
	Match               *domain.Match                   `json:"match"`
	Outcome             domain.Outcome                  `json:"outcome"`
	Winner              string                          `json:"winner,omitempty"`
	Loser               string                          `json:"loser,omitempty"`
	Team1               domain.Squad                    `json:"team1"`
	Team2               domain.Squad                    `json:"team2"`
	Breakdown           GloryBreakdown                  `json:"breakdown"`
	NewAchievements     map[string][]domain.Achievement `json:"new_achievements,omitempty"`
	CompletedChallenges []string                        `json:"completed_challenges,omitempty"`
	ClaimedBounty       *ClaimedBounty                  `json:"claimed_bounty,omitempty"`
	AssignedBounties    []AssignedBounty                `json:"assigned_bounties,omitempty"`
	Verdict             OracleVerdict                   `json:"verdict"`
}

// ComputeGlory applies the winner's modifiers in order on top of the base win
// award.
func ComputeGlory(c GloryContext) GloryBreakdown {
	b := GloryBreakdown{Base: GloryBaseWin, Modifiers: []domain.GloryModifier{}}
	add := func(name string, points int) {
		b.Modifiers = append(b.Modifiers, domain.GloryModifier{Name: name, Points: points})
	}

	// rank 1 is best, so a numerically higher winner rank is an upset
	if c.WinnerRank > c.LoserRank {
		gap := c.WinnerRank - c.LoserRank
		switch {
		case c.LoserRank <= GiantSlayerTopRank:
			add(ModifierGiantSlayer, GiantSlayerBonus)
		case gap >= MassiveUpsetGap:
			add(ModifierMassiveUpset, MassiveUpsetBonus)
		case gap >= UpsetGap:
			add(ModifierUpset, UpsetBonus)
		default:
			add(ModifierUnderdog, UnderdogBonus)
		}
	} else if c.LoserRank-c.WinnerRank >= ExpectedTaxGap {
		add(ModifierExpectedTax, ExpectedTax)
	}

	if c.WinnerStreak.Type == domain.StreakWin && c.WinnerStreak.Count >= StreakFireMin {
		add(ModifierStreakFire, StreakFireBonus)
	}
	if c.LoserScore == 0 {
		add(ModifierCleanSheet, CleanSheetBonus)
	}
	if c.Bounty != nil && c.Bounty.Points > 0 {
		add(ModifierBounty, c.Bounty.Points)
	}

	total := b.Base
	for _, m := range b.Modifiers {
		total += m.Points
	}
	b.Total = max(total, GloryMinWin)
	return b
}

// Settle records a final score between two active squads. All validation runs
// before the document is touched.
func Settle(doc *domain.Document, in MatchInput, now time.Time, newID IDGenerator) (*MatchResult, error) {
	if err := in.Score.Validate(); err != nil {
		return nil, err
	}
	if in.Team1 == in.Team2 {
		return nil, fmt.Errorf("%w: %q", domain.ErrSelfMatch, in.Team1)
	}
	t1, ok := doc.ActiveSquad(in.Team1)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownSquad, in.Team1)
	}
	t2, ok := doc.ActiveSquad(in.Team2)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownSquad, in.Team2)
	}
	id, err := uniqueMatchID(doc, newID)
	if err != nil {
		return nil, err
	}

	before := Rankings(doc)
	forecast, err := Predict(doc, t1.Name, t2.Name)
	if err != nil {
		return nil, err
	}

	match := &domain.Match{
		ID:                id,
		Team1:             t1.Name,
		Team2:             t2.Name,
		Score:             in.Score,
		Date:              now,
		AddedBy:           in.AddedBy,
		Team1Participants: participants(t1),
		Team2Participants: participants(t2),
	}
	result := &MatchResult{
		Match:           match,
		Outcome:         in.Score.Outcome(),
		NewAchievements: map[string][]domain.Achievement{},
	}

	var comeback *domain.Squad
	if result.Outcome == domain.OutcomeDraw {
		t1.Draws++
		t2.Draws++
		t1.Points += GloryDraw
		t2.Points += GloryDraw
		match.Team1Points = GloryDraw
		match.Team2Points = GloryDraw
		advanceStreak(t1, domain.StreakDraw)
		advanceStreak(t2, domain.StreakDraw)
		result.Breakdown = GloryBreakdown{Base: GloryDraw, Modifiers: []domain.GloryModifier{}, Total: GloryDraw}
	} else {
		winner, loser, loserScore := t1, t2, in.Score.Team2
		if result.Outcome == domain.OutcomeTeam2 {
			winner, loser, loserScore = t2, t1, in.Score.Team1
		}
		preStreak := winner.CurrentStreak
		bounty := doc.Bounties[loser.Name]

		breakdown := ComputeGlory(GloryContext{
			WinnerRank:   RankOf(before, winner.Name),
			LoserRank:    RankOf(before, loser.Name),
			WinnerStreak: preStreak,
			LoserScore:   loserScore,
			Bounty:       bounty,
		})
		if bounty != nil {
			delete(doc.Bounties, loser.Name)
			result.ClaimedBounty = &ClaimedBounty{Squad: loser.Name, Points: bounty.Points, Reason: bounty.Reason}
		}

		winner.Wins++
		winner.Points += breakdown.Total
		loser.Losses++
		advanceStreak(winner, domain.StreakWin)
		advanceStreak(loser, domain.StreakLoss)

		if winner == t1 {
			match.Team1Points = breakdown.Total
		} else {
			match.Team2Points = breakdown.Total
		}
		match.Modifiers = slices.Clone(breakdown.Modifiers)
		result.Breakdown = breakdown
		result.Winner = winner.Name
		result.Loser = loser.Name

		if preStreak.Type == domain.StreakLoss && preStreak.Count >= comebackLossStreak {
			comeback = winner
		}
	}

	doc.Matches = append(doc.Matches, match)
	t1.MatchHistory = append(t1.MatchHistory, match.ID)
	t2.MatchHistory = append(t2.MatchHistory, match.ID)

	for _, squad := range []*domain.Squad{t1, t2} {
		unlocked := EvaluateAchievements(doc, squad.Name)
		if squad == comeback && unlock(squad, domain.AchievementComebackKing) {
			unlocked = append(unlocked, domain.Achievements[domain.AchievementComebackKing])
		}
		if len(unlocked) > 0 {
			result.NewAchievements[squad.Name] = unlocked
		}
	}

	result.CompletedChallenges = completeChallenges(doc, t1.Name, t2.Name, match.ID, now)
	result.AssignedBounties = RefreshBounties(doc, now)
	result.Verdict = verdictFor(forecast, result)
	// the result outlives the document it was computed on
	settled := match.Copy()
	result.Match = &settled
	result.Team1 = t1.Copy()
	result.Team2 = t2.Copy()
	return result, nil
}

// DeleteMatch reverses exactly what the match granted and replays both squads'
// streaks from their remaining history. Streak records, achievements and
// consumed bounties are not rolled back.
func DeleteMatch(doc *domain.Document, id string) (*domain.Match, error) {
	idx, match := doc.MatchByID(id)
	if match == nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrMatchNotFound, id)
	}

	for _, name := range []string{match.Team1, match.Team2} {
		squad, ok := doc.Squads[name]
		if !ok {
			continue
		}
		switch match.ResultFor(name) {
		case domain.StreakWin:
			squad.Wins = max(squad.Wins-1, 0)
		case domain.StreakLoss:
			squad.Losses = max(squad.Losses-1, 0)
		default:
			squad.Draws = max(squad.Draws-1, 0)
		}
		squad.Points -= match.PointsFor(name)
		squad.MatchHistory = slices.DeleteFunc(squad.MatchHistory, func(mid string) bool { return mid == id })
	}

	doc.Matches = slices.Delete(doc.Matches, idx, idx+1)

	for _, name := range []string{match.Team1, match.Team2} {
		if squad, ok := doc.Squads[name]; ok {
			squad.CurrentStreak = ReplayStreak(doc, name)
		}
	}
	return match, nil
}

// participants snapshots the main roster only when it is a full five.
func participants(squad *domain.Squad) []string {
	if !squad.RosterComplete() {
		return []string{}
	}
	return slices.Clone(squad.MainRoster)
}

func uniqueMatchID(doc *domain.Document, newID IDGenerator) (string, error) {
	return uniqueID("match", newID, func(id string) bool {
		_, existing := doc.MatchByID(id)
		return existing != nil
	})
}

// uniqueID draws ids until one is not taken.
func uniqueID(kind string, newID IDGenerator, taken func(id string) bool) (string, error) {
	for range maxIDAttempts {
		id, err := newID()
		if err != nil {
			return "", fmt.Errorf("failed to generate %s id: %w", kind, err)
		}
		if !taken(id) {
			return id, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique %s id after %d attempts", kind, maxIDAttempts)
}

func verdictFor(p Prediction, result *MatchResult) OracleVerdict {
	v := OracleVerdict{Favored: p.Favored, DrawPct: p.DrawPct}
	switch p.Favored {
	case p.Team1.Squad:
		v.FavoredPct = p.Team1.WinPct
	case p.Team2.Squad:
		v.FavoredPct = p.Team2.WinPct
	}

	switch {
	case p.Favored == "":
		v.Correct = result.Outcome == domain.OutcomeDraw
		v.Summary = "the oracle saw an even fight"
	case result.Outcome == domain.OutcomeDraw:
		v.Summary = fmt.Sprintf("the oracle favoured %s, the battle ended level", p.Favored)
	case result.Winner == p.Favored:
		v.Correct = true
		v.Summary = fmt.Sprintf("the oracle called it: %s won", p.Favored)
	default:
		v.Summary = fmt.Sprintf("the oracle favoured %s but %s prevailed", p.Favored, result.Winner)
	}
	return v
}
