package league

import "majestic-dominion/internal/domain"

type HeadToHead struct {
	Squad1     string `json:"squad1"`
	Squad2     string `json:"squad2"`
	Squad1Wins int    `json:"squad1_wins"`
	Squad2Wins int    `json:"squad2_wins"`
	Draws      int    `json:"draws"`
	Total      int    `json:"total"`
}

// Mirror swaps the two sides.
func (h HeadToHead) Mirror() HeadToHead {
	return HeadToHead{
		Squad1:     h.Squad2,
		Squad2:     h.Squad1,
		Squad1Wins: h.Squad2Wins,
		Squad2Wins: h.Squad1Wins,
		Draws:      h.Draws,
		Total:      h.Total,
	}
}

// WinPct is squad1's share of the meetings, 50 when they never met.
func (h HeadToHead) WinPct() float64 {
	if h.Total == 0 {
		return 50
	}
	return float64(h.Squad1Wins) / float64(h.Total) * 100
}

// ComputeHeadToHead scans the whole match log. Orientation is taken from each
// record, so the caller's argument order only decides which bucket is which.
func ComputeHeadToHead(doc *domain.Document, a, b string) HeadToHead {
	h := HeadToHead{Squad1: a, Squad2: b}
	for _, m := range doc.Matches {
		if !m.Between(a, b) {
			continue
		}
		h.Total++
		switch m.ResultFor(a) {
		case domain.StreakWin:
			h.Squad1Wins++
		case domain.StreakLoss:
			h.Squad2Wins++
		default:
			h.Draws++
		}
	}
	return h
}
