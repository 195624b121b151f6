package league

import "majestic-dominion/internal/domain"

func advanceStreak(squad *domain.Squad, result domain.StreakType) domain.Streak {
	if squad.CurrentStreak.Type == result {
		squad.CurrentStreak.Count++
	} else {
		squad.CurrentStreak = domain.Streak{Type: result, Count: 1}
	}

	switch result {
	case domain.StreakWin:
		squad.BiggestWinStreak = max(squad.BiggestWinStreak, squad.CurrentStreak.Count)
	case domain.StreakLoss:
		squad.BiggestLossStreak = max(squad.BiggestLossStreak, squad.CurrentStreak.Count)
	}
	return squad.CurrentStreak
}

// ReplayStreak derives the trailing run of identical results from the squad's
// remaining match history.
func ReplayStreak(doc *domain.Document, name string) domain.Streak {
	matches := doc.SquadMatches(name)
	if len(matches) == 0 {
		return domain.NoStreak()
	}

	last := matches[len(matches)-1].ResultFor(name)
	count := 1
	for i := len(matches) - 2; i >= 0; i-- {
		if matches[i].ResultFor(name) != last {
			break
		}
		count++
	}
	return domain.Streak{Type: last, Count: count}
}
