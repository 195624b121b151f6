package league

import (
	"fmt"
	"math"

	"majestic-dominion/internal/domain"
)

// Oracle weights and tuning.
const (
	WeightWinRate  = 0.35
	WeightH2H      = 0.25
	WeightForm     = 0.25
	WeightMomentum = 0.15

	RosterBonus = 10.0

	FormWindow = 5
	FormWin    = 20.0
	FormDraw   = 5.0
	// FormScale maps a window of five straight wins to exactly 100.
	FormScale = 0.28

	MomentumStep = 10

	DrawBase  = 30.0
	DrawFloor = 5.0

	ConfidenceHighAt   = 20
	ConfidenceMediumAt = 8
)

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

type SideForecast struct {
	Squad       string  `json:"squad"`
	WinRate     float64 `json:"win_rate"`
	H2HPct      float64 `json:"h2h_pct"`
	Form        float64 `json:"form"`
	Momentum    float64 `json:"momentum"`
	RosterBonus float64 `json:"roster_bonus"`
	Composite   float64 `json:"composite"`
	WinPct      int     `json:"win_pct"`
}

type Prediction struct {
	Team1      SideForecast `json:"team1"`
	Team2      SideForecast `json:"team2"`
	DrawPct    int          `json:"draw_pct"`
	Favored    string       `json:"favored,omitempty"`
	Confidence Confidence   `json:"confidence"`
	DataPoints int          `json:"data_points"`
	HeadToHead HeadToHead   `json:"head_to_head"`
}

// Predict forecasts a meeting between two active squads. It only reads doc.
func Predict(doc *domain.Document, a, b string) (Prediction, error) {
	if a == b {
		return Prediction{}, fmt.Errorf("%w: %q", domain.ErrSelfMatch, a)
	}
	sa, ok := doc.ActiveSquad(a)
	if !ok {
		return Prediction{}, fmt.Errorf("%w: %q", domain.ErrSquadNotFound, a)
	}
	sb, ok := doc.ActiveSquad(b)
	if !ok {
		return Prediction{}, fmt.Errorf("%w: %q", domain.ErrSquadNotFound, b)
	}

	h2h := ComputeHeadToHead(doc, a, b)
	p := Prediction{
		Team1:      forecastSide(doc, sa, h2h.WinPct()),
		Team2:      forecastSide(doc, sb, h2h.Mirror().WinPct()),
		HeadToHead: h2h,
	}

	pct1 := 50.0
	if sum := p.Team1.Composite + p.Team2.Composite; sum > 0 {
		pct1 = p.Team1.Composite / sum * 100
	}
	pct2 := 100 - pct1

	draw := math.Round(math.Max(DrawFloor, DrawBase-math.Abs(pct1-pct2)))
	p.DrawPct = int(draw)
	p.Team1.WinPct = int(math.Round(pct1 * (100 - draw) / 100))
	p.Team2.WinPct = 100 - p.DrawPct - p.Team1.WinPct

	switch {
	case p.Team1.WinPct > p.Team2.WinPct:
		p.Favored = a
	case p.Team2.WinPct > p.Team1.WinPct:
		p.Favored = b
	}

	p.DataPoints = sa.TotalMatches() + sb.TotalMatches() + h2h.Total
	p.Confidence = confidenceFor(p.DataPoints)
	return p, nil
}

func forecastSide(doc *domain.Document, squad *domain.Squad, h2hPct float64) SideForecast {
	f := SideForecast{
		Squad:    squad.Name,
		WinRate:  squad.WinRate(),
		H2HPct:   h2hPct,
		Form:     RecentForm(doc, squad.Name),
		Momentum: Momentum(squad.CurrentStreak),
	}
	if squad.RosterComplete() {
		f.RosterBonus = RosterBonus
	}
	f.Composite = f.WinRate*WeightWinRate +
		f.H2HPct*WeightH2H +
		f.Form*WeightForm +
		f.Momentum*WeightMomentum +
		f.RosterBonus
	return f
}

// RecentForm scores the last five results on a 0-100 scale, later matches
// weighing more. A squad with no history scores 50.
func RecentForm(doc *domain.Document, name string) float64 {
	matches := doc.SquadMatches(name)
	if len(matches) == 0 {
		return 50
	}
	if len(matches) > FormWindow {
		matches = matches[len(matches)-FormWindow:]
	}

	var sum float64
	for i, m := range matches {
		weight := 1 + 0.2*float64(i)
		switch m.ResultFor(name) {
		case domain.StreakWin:
			sum += FormWin * weight
		case domain.StreakDraw:
			sum += FormDraw * weight
		}
	}
	return math.Min(100, sum/float64(len(matches))/FormScale)
}

func Momentum(s domain.Streak) float64 {
	switch s.Type {
	case domain.StreakWin:
		return float64(min(100, 50+MomentumStep*s.Count))
	case domain.StreakLoss:
		return float64(max(0, 50-MomentumStep*s.Count))
	default:
		return 50
	}
}

func confidenceFor(dataPoints int) Confidence {
	switch {
	case dataPoints >= ConfidenceHighAt:
		return ConfidenceHigh
	case dataPoints >= ConfidenceMediumAt:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
