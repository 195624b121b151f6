package discord

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"majestic-dominion/internal/domain"
	"majestic-dominion/internal/league"
	"majestic-dominion/internal/service"

	"github.com/bwmarrin/discordgo"
)

const (
	colorPurple = 0x6a0dad
	colorGold   = 0xffd700
	colorBlue   = 0x4169e1
	colorRed    = 0xdc143c
	colorGreen  = 0x2ecc71
)

const rankingsPerPage = 15

func field(name, value string, inline bool) *discordgo.MessageEmbedField {
	return &discordgo.MessageEmbedField{Name: name, Value: value, Inline: inline}
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func medal(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return fmt.Sprintf("**%d.**", rank)
	}
}

func record(s domain.Squad) string {
	return fmt.Sprintf("💎 %d points | 🏆 %dW ⚔️ %dD 💀 %dL", s.Points, s.Wins, s.Draws, s.Losses)
}

// streakLine is only shown from three in a row.
func streakLine(s domain.Streak) string {
	if s.Count < 3 {
		return ""
	}
	emoji := "⚡"
	switch s.Type {
	case domain.StreakWin:
		emoji = "🔥"
	case domain.StreakLoss:
		emoji = "❄️"
	}
	return fmt.Sprintf("\n%s **%d %s STREAK!**", emoji, s.Count, strings.ToUpper(string(s.Type)))
}

func MatchEmbed(res *league.MatchResult) *discordgo.MessageEmbed {
	m := res.Match
	var headline string
	switch res.Outcome {
	case domain.OutcomeDraw:
		headline = fmt.Sprintf("**%s** and **%s** fought to a draw", m.Team1, m.Team2)
	default:
		headline = fmt.Sprintf("**%s** defeated **%s** and claimed %d glory", res.Winner, res.Loser, res.Breakdown.Total)
	}

	embed := &discordgo.MessageEmbed{
		Title:       "📜 Battle Chronicles Updated",
		Description: headline,
		Color:       colorGold,
		Timestamp:   timestamp(m.Date),
	}
	embed.Fields = append(embed.Fields,
		field("🆔 Match ID", fmt.Sprintf("`%s`", m.ID), false),
		field("⚔️ Score", fmt.Sprintf("**%s**", m.Score), true),
		field(fmt.Sprintf("%s %s", res.Team1.Tag, res.Team1.Name), record(res.Team1)+streakLine(res.Team1.CurrentStreak), false),
		field(fmt.Sprintf("%s %s", res.Team2.Tag, res.Team2.Name), record(res.Team2)+streakLine(res.Team2.CurrentStreak), false),
	)

	if len(res.Breakdown.Modifiers) > 0 {
		lines := []string{fmt.Sprintf("Base win: +%d", res.Breakdown.Base)}
		for _, mod := range res.Breakdown.Modifiers {
			lines = append(lines, fmt.Sprintf("%s: %+d", mod.Name, mod.Points))
		}
		embed.Fields = append(embed.Fields, field("✨ Glory", strings.Join(lines, "\n"), false))
	}

	if len(res.NewAchievements) > 0 {
		squads := make([]string, 0, len(res.NewAchievements))
		for squad := range res.NewAchievements {
			squads = append(squads, squad)
		}
		sort.Strings(squads)
		var b strings.Builder
		for _, squad := range squads {
			fmt.Fprintf(&b, "🎖️ **%s** earned:\n", squad)
			for _, a := range res.NewAchievements[squad] {
				fmt.Fprintf(&b, "%s %s\n", a.Icon, a.Name)
			}
		}
		embed.Fields = append(embed.Fields, field("🏅 Achievements", strings.TrimSpace(b.String()), false))
	}

	if res.ClaimedBounty != nil {
		embed.Fields = append(embed.Fields, field("💰 Bounty claimed",
			fmt.Sprintf("**%s** collected %d on **%s** (%s)", res.Winner, res.ClaimedBounty.Points, res.ClaimedBounty.Squad, res.ClaimedBounty.Reason), false))
	}
	if len(res.CompletedChallenges) > 0 {
		embed.Fields = append(embed.Fields, field("📯 Challenge settled", strings.Join(res.CompletedChallenges, ", "), false))
	}
	if res.Verdict.Summary != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: "🔮 " + res.Verdict.Summary}
	}
	return embed
}

func DeletedMatchEmbed(m domain.Match) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🗑️ Match Deleted",
		Description: fmt.Sprintf("**%s** vs **%s** (%s) erased.", m.Team1, m.Team2, m.Score),
		Color:       colorRed,
	}
}

// RankingsEmbed renders one 1-based page of the leaderboard.
func RankingsEmbed(entries []league.RankingEntry, page int) *discordgo.MessageEmbed {
	pages := max(1, (len(entries)+rankingsPerPage-1)/rankingsPerPage)
	page = min(max(page, 1), pages)

	embed := &discordgo.MessageEmbed{
		Title:       "🏆 Leaderboard",
		Description: fmt.Sprintf("Page %d/%d", page, pages),
		Color:       colorGold,
		Footer:      &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("All %d kingdoms", len(entries))},
	}
	start := (page - 1) * rankingsPerPage
	end := min(start+rankingsPerPage, len(entries))
	for _, e := range entries[start:end] {
		embed.Fields = append(embed.Fields, field(
			fmt.Sprintf("%s %s %s", medal(e.Rank), e.Tag, e.Name),
			fmt.Sprintf("💎 **%d** pts | %dW-%dD-%dL | **%.1f%%** WR", e.Points, e.Wins, e.Draws, e.Losses, e.WinRate),
			false,
		))
	}
	return embed
}

func SquadEmbed(p service.SquadProfile) *discordgo.MessageEmbed {
	s := p.Squad
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("🏰 %s", s.Name),
		Color: colorPurple,
	}
	if p.Active {
		embed.Description = fmt.Sprintf("%s • Rank #%d", s.Tag, p.Rank)
	} else {
		embed.Description = fmt.Sprintf("%s • Disbanded", s.Tag)
	}
	if s.LogoURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: s.LogoURL}
	}

	embed.Fields = append(embed.Fields,
		field("📊 Record", record(s)+streakLine(s.CurrentStreak), false),
		field("⭐ Main Roster", mentions(s.MainRoster, domain.MaxMainRoster), true),
		field("🔄 Substitutes", mentions(s.Subs, domain.MaxSubs), true),
	)
	if len(s.Achievements) > 0 {
		var b strings.Builder
		for _, id := range s.Achievements {
			if a, ok := domain.Achievements[id]; ok {
				fmt.Fprintf(&b, "%s %s\n", a.Icon, a.Name)
			}
		}
		embed.Fields = append(embed.Fields, field("🏅 Achievements", strings.TrimSpace(b.String()), false))
	}
	if len(s.Titles) > 0 {
		embed.Fields = append(embed.Fields, field("🏆 Titles", strings.Join(s.Titles, "\n"), false))
	}
	if p.Bounty != nil {
		embed.Fields = append(embed.Fields, field("💰 Bounty", fmt.Sprintf("%d glory • %s", p.Bounty.Points, p.Bounty.Reason), false))
	}
	return embed
}

func mentions(ids []string, limit int) string {
	if len(ids) == 0 {
		return fmt.Sprintf("None (0/%d)", limit)
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, fmt.Sprintf("<@%s>", id))
	}
	return fmt.Sprintf("%s (%d/%d)", strings.Join(out, ", "), len(ids), limit)
}

func HeadToHeadEmbed(h league.HeadToHead) *discordgo.MessageEmbed {
	if h.Total == 0 {
		return &discordgo.MessageEmbed{
			Title:       "⚔️ No Rivalry Yet",
			Description: fmt.Sprintf("**%s** and **%s** haven't battled!", h.Squad1, h.Squad2),
			Color:       colorBlue,
		}
	}
	return &discordgo.MessageEmbed{
		Title:       "⚔️ Kingdom Rivalry",
		Description: fmt.Sprintf("**%s** vs **%s**", h.Squad1, h.Squad2),
		Color:       colorRed,
		Fields: []*discordgo.MessageEmbedField{
			field(h.Squad1, fmt.Sprintf("%d wins", h.Squad1Wins), true),
			field("Draws", fmt.Sprintf("%d", h.Draws), true),
			field(h.Squad2, fmt.Sprintf("%d wins", h.Squad2Wins), true),
			field("Battles", fmt.Sprintf("%d • %s", h.Total, leader(h)), false),
		},
	}
}

func leader(h league.HeadToHead) string {
	switch {
	case h.Squad1Wins > h.Squad2Wins:
		return fmt.Sprintf("%s leads with %.0f%%", h.Squad1, h.WinPct())
	case h.Squad2Wins > h.Squad1Wins:
		return fmt.Sprintf("%s leads with %.0f%%", h.Squad2, h.Mirror().WinPct())
	default:
		return "evenly matched"
	}
}

func PredictionEmbed(p league.Prediction) *discordgo.MessageEmbed {
	favored := p.Favored
	if favored == "" {
		favored = "Too close to call"
	}
	return &discordgo.MessageEmbed{
		Title:       "🔮 The Oracle Speaks",
		Description: fmt.Sprintf("**%s** vs **%s**\nFavoured: **%s**", p.Team1.Squad, p.Team2.Squad, favored),
		Color:       colorPurple,
		Fields: []*discordgo.MessageEmbedField{
			field(p.Team1.Squad, fmt.Sprintf("%d%%", p.Team1.WinPct), true),
			field("Draw", fmt.Sprintf("%d%%", p.DrawPct), true),
			field(p.Team2.Squad, fmt.Sprintf("%d%%", p.Team2.WinPct), true),
		},
		Footer: &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Confidence: %s • %d data points", p.Confidence, p.DataPoints)},
	}
}

func ReportEmbed(r league.SquadReport) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🕵️ Intelligence Report: %s %s", r.Tag, r.Squad),
		Description: fmt.Sprintf("%s %s: %s", r.Mood.Emoji, r.Mood.Status, r.Mood.Description),
		Color:       colorBlue,
	}
	rank := "Unranked"
	if r.Rank > 0 {
		rank = fmt.Sprintf("#%d of %d", r.Rank, r.RankedSquads)
	}
	embed.Fields = append(embed.Fields,
		field("🎯 Threat", fmt.Sprintf("%d/100 (%s)", r.Threat, r.Tier), true),
		field("📈 Trend", string(r.Trend), true),
		field("👑 Rank", rank, true),
		field("💪 Strengths", bullets(r.Strengths), false),
		field("⚠️ Weaknesses", bullets(r.Weaknesses), false),
	)
	if r.Rival != nil {
		h := r.Rival.HeadToHead
		embed.Fields = append(embed.Fields, field("⚔️ Biggest Rival",
			fmt.Sprintf("**%s**: %d meetings (%dW %dD %dL)", r.Rival.Squad, r.Rival.Meetings, h.Squad1Wins, h.Draws, h.Squad2Wins), false))
	}
	return embed
}

func bullets(lines []string) string {
	if len(lines) == 0 {
		return "None"
	}
	return "• " + strings.Join(lines, "\n• ")
}

func BountiesEmbed(entries []league.BountyEntry) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{Title: "💰 Bounty Board", Color: colorGold}
	if len(entries) == 0 {
		embed.Description = "No bounties posted. The realm is at peace."
		return embed
	}
	for _, e := range entries {
		embed.Fields = append(embed.Fields, field(
			fmt.Sprintf("%s %s", e.Tag, e.Squad),
			fmt.Sprintf("%d glory • %s", e.Bounty.Points, e.Bounty.Reason),
			false,
		))
	}
	return embed
}

func ChallengeEmbed(c domain.Challenge) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "📯 Challenge " + strings.ToUpper(string(c.Status)[:1]) + string(c.Status)[1:],
		Description: fmt.Sprintf("**%s** challenges **%s**", c.Challenger, c.Challenged),
		Color:       colorBlue,
		Fields:      []*discordgo.MessageEmbedField{field("🆔 Challenge ID", fmt.Sprintf("`%s`", c.ID), false)},
	}
	if c.Message != "" {
		embed.Fields = append(embed.Fields, field("✉️ Message", c.Message, false))
	}
	if c.ScheduledAt != nil {
		embed.Fields = append(embed.Fields, field("📅 Scheduled", fmt.Sprintf("<t:%d:F>", c.ScheduledAt.Unix()), false))
	}
	if c.Notes != "" {
		embed.Fields = append(embed.Fields, field("📝 Notes", c.Notes, false))
	}
	return embed
}

func ChallengeListEmbed(open []domain.Challenge) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{Title: "📯 Open Challenges", Color: colorBlue}
	if len(open) == 0 {
		embed.Description = "No open challenges."
		return embed
	}
	for _, c := range open {
		value := string(c.Status)
		if c.ScheduledAt != nil {
			value += fmt.Sprintf(" • <t:%d:R>", c.ScheduledAt.Unix())
		}
		embed.Fields = append(embed.Fields, field(fmt.Sprintf("`%s` %s vs %s", c.ID, c.Challenger, c.Challenged), value, false))
	}
	return embed
}

func ErrorEmbed(err error) *discordgo.MessageEmbed {
	title := "❌ Something went wrong"
	switch domain.KindOf(err) {
	case domain.KindValidation:
		title = "⚠️ Invalid request"
	case domain.KindNotFound:
		title = "🔍 Not found"
	case domain.KindState:
		title = "⛔ Not allowed"
	}
	return &discordgo.MessageEmbed{Title: title, Description: err.Error(), Color: colorRed}
}

func StatsEmbed(s league.RealmStats) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "🎲 Realm Statistics",
		Description: "Fun facts from the chronicles!",
		Color:       colorGreen,
	}
	embed.Fields = append(embed.Fields,
		field("🏰 Kingdoms", fmt.Sprintf("%d", s.Kingdoms), true),
		field("⚔️ Battles", fmt.Sprintf("%d", s.TotalBattles), true),
		field("💎 Glory", fmt.Sprintf("%d", s.TotalPoints), true),
		field("🤝 Draw rate", fmt.Sprintf("%.1f%%", s.DrawRate), true),
	)
	if s.BestWinStreak != nil {
		embed.Fields = append(embed.Fields, field("🔥 Best win streak", fmt.Sprintf("%s (%d)", s.BestWinStreak.Squad, s.BestWinStreak.Value), true))
	}
	if s.MostActive != nil {
		embed.Fields = append(embed.Fields, field("⚡ Most active", fmt.Sprintf("%s (%d)", s.MostActive.Squad, s.MostActive.Value), true))
	}
	if len(s.Podium) > 0 {
		lines := make([]string, 0, len(s.Podium))
		for _, e := range s.Podium {
			lines = append(lines, fmt.Sprintf("%s %s (%d)", medal(e.Rank), e.Name, e.Points))
		}
		embed.Fields = append(embed.Fields, field("🏆 Podium", strings.Join(lines, "\n"), false))
	}
	return embed
}
