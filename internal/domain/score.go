package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type Outcome string

const (
	OutcomeTeam1 Outcome = "team1"
	OutcomeTeam2 Outcome = "team2"
	OutcomeDraw  Outcome = "draw"
)

// Score is the final (team1, team2) result of a match. It persists in the
// "2-0" string form used by existing documents.
type Score struct {
	Team1 int
	Team2 int
}

func ParseScore(raw string) (Score, error) {
	parts := strings.Split(strings.TrimSpace(raw), "-")
	if len(parts) != 2 {
		return Score{}, fmt.Errorf("%w: %q, expected X-Y", ErrInvalidScore, raw)
	}
	s1, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Score{}, fmt.Errorf("%w: %q, expected X-Y", ErrInvalidScore, raw)
	}
	s2, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Score{}, fmt.Errorf("%w: %q, expected X-Y", ErrInvalidScore, raw)
	}
	score := Score{Team1: s1, Team2: s2}
	if err := score.Validate(); err != nil {
		return Score{}, err
	}
	return score, nil
}

func (s Score) Validate() error {
	if s.Team1 < 0 || s.Team2 < 0 {
		return fmt.Errorf("%w: scores must be non-negative, got %s", ErrInvalidScore, s)
	}
	return nil
}

func (s Score) Outcome() Outcome {
	switch {
	case s.Team1 > s.Team2:
		return OutcomeTeam1
	case s.Team2 > s.Team1:
		return OutcomeTeam2
	default:
		return OutcomeDraw
	}
}

func (s Score) String() string {
	return fmt.Sprintf("%d-%d", s.Team1, s.Team2)
}

func (s Score) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts the legacy "2-0" string as well as a [2, 0] pair.
func (s *Score) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		parsed, err := ParseScore(raw)
		if err != nil {
			return err
		}
		*s = parsed
		return nil
	}
	var pair []int
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidScore, string(data))
	}
	if len(pair) != 2 {
		return fmt.Errorf("%w: %s", ErrInvalidScore, string(data))
	}
	*s = Score{Team1: pair[0], Team2: pair[1]}
	return s.Validate()
}
