package domain

type AchievementID string

const (
	AchievementFirstBlood   AchievementID = "first_blood"
	AchievementUndefeated5  AchievementID = "undefeated_5"
	AchievementComebackKing AchievementID = "comeback_king"
	AchievementCenturyClub  AchievementID = "century_club"
	AchievementWarrior50    AchievementID = "warrior_50"
	AchievementPerfect10    AchievementID = "perfect_10"
	AchievementChampion     AchievementID = "champion"
)

type Achievement struct {
	ID          AchievementID `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Icon        string        `json:"icon"`
}

var Achievements = map[AchievementID]Achievement{
	AchievementFirstBlood:   {ID: AchievementFirstBlood, Name: "First Blood", Description: "Win your first match", Icon: "🩸"},
	AchievementUndefeated5:  {ID: AchievementUndefeated5, Name: "Undefeated Streak (5)", Description: "Win 5 matches without a loss", Icon: "💪"},
	AchievementComebackKing: {ID: AchievementComebackKing, Name: "Comeback King", Description: "Win after a 3+ loss streak", Icon: "👑"},
	AchievementCenturyClub:  {ID: AchievementCenturyClub, Name: "Century Club", Description: "Reach 100 points", Icon: "💯"},
	AchievementWarrior50:    {ID: AchievementWarrior50, Name: "50 Battles Veteran", Description: "Play 50 total matches", Icon: "⚔️"},
	AchievementPerfect10:    {ID: AchievementPerfect10, Name: "Perfect 10", Description: "Win 10 matches in a row", Icon: "✨"},
	AchievementChampion:     {ID: AchievementChampion, Name: "Champion", Description: "Win a championship title", Icon: "🏆"},
}
