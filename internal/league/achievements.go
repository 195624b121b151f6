package league

import "majestic-dominion/internal/domain"

const (
	centuryClubPoints   = 100
	undefeatedStreak    = 5
	perfectStreak       = 10
	warriorMatches      = 50
	comebackLossStreak  = 3
	championshipsNeeded = 1
)

// EvaluateAchievements unlocks every rule the squad currently satisfies and
// returns only the ones unlocked by this call. Unknown squads unlock nothing.
func EvaluateAchievements(doc *domain.Document, name string) []domain.Achievement {
	squad, ok := doc.Squads[name]
	if !ok {
		return nil
	}

	streak := squad.CurrentStreak
	winning := streak.Type == domain.StreakWin

	var unlocked []domain.Achievement
	check := func(id domain.AchievementID, satisfied bool) {
		if satisfied && unlock(squad, id) {
			unlocked = append(unlocked, domain.Achievements[id])
		}
	}

	check(domain.AchievementFirstBlood, squad.Wins >= 1)
	check(domain.AchievementCenturyClub, squad.Points >= centuryClubPoints)
	// exact counts: these fire once, at the moment the streak crosses them
	check(domain.AchievementUndefeated5, winning && streak.Count == undefeatedStreak)
	check(domain.AchievementPerfect10, winning && streak.Count == perfectStreak)
	check(domain.AchievementWarrior50, squad.TotalMatches() >= warriorMatches)
	check(domain.AchievementChampion, squad.ChampionshipWins >= championshipsNeeded)

	return unlocked
}

func unlock(squad *domain.Squad, id domain.AchievementID) bool {
	if squad.HasAchievement(id) {
		return false
	}
	squad.Achievements = append(squad.Achievements, id)
	return true
}
