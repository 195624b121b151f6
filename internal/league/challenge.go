package league

import (
	"fmt"
	"slices"
	"time"

	"majestic-dominion/internal/domain"
)

var transitions = map[domain.ChallengeStatus][]domain.ChallengeStatus{
	domain.ChallengePending:   {domain.ChallengeAccepted, domain.ChallengeDeclined, domain.ChallengeCancelled},
	domain.ChallengeAccepted:  {domain.ChallengeScheduled, domain.ChallengeCancelled},
	domain.ChallengeScheduled: {domain.ChallengeCompleted, domain.ChallengeCancelled},
}

func CanTransition(from, to domain.ChallengeStatus) bool {
	return slices.Contains(transitions[from], to)
}

type ChallengeInput struct {
	Challenger string `json:"challenger"`
	Challenged string `json:"challenged"`
	Message    string `json:"message,omitempty"`
}

// LiveChallengeBetween returns the open challenge for the unordered pair, if any.
func LiveChallengeBetween(doc *domain.Document, a, b string) *domain.Challenge {
	for _, c := range doc.Challenges {
		if c.Status.Live() && c.Between(a, b) {
			return c
		}
	}
	return nil
}

func CreateChallenge(doc *domain.Document, in ChallengeInput, now time.Time, newID IDGenerator) (*domain.Challenge, error) {
	if in.Challenger == in.Challenged {
		return nil, fmt.Errorf("%w: %q", domain.ErrSelfMatch, in.Challenger)
	}
	for _, name := range []string{in.Challenger, in.Challenged} {
		if !doc.IsActive(name) {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownSquad, name)
		}
	}
	if live := LiveChallengeBetween(doc, in.Challenger, in.Challenged); live != nil {
		return nil, fmt.Errorf("%w: %s is %s", domain.ErrDuplicateChallenge, live.ID, live.Status)
	}

	id, err := uniqueID("challenge", newID, func(id string) bool { return doc.ChallengeByID(id) != nil })
	if err != nil {
		return nil, err
	}
	c := &domain.Challenge{
		ID:         id,
		Challenger: in.Challenger,
		Challenged: in.Challenged,
		Status:     domain.ChallengePending,
		Message:    in.Message,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	doc.Challenges = append(doc.Challenges, c)
	return c, nil
}

// RespondToChallenge accepts or declines a pending challenge on behalf of the
// challenged squad.
func RespondToChallenge(doc *domain.Document, id, responder string, accept bool, now time.Time) (*domain.Challenge, error) {
	c := doc.ChallengeByID(id)
	if c == nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrChallengeNotFound, id)
	}
	if responder != c.Challenged {
		return nil, fmt.Errorf("%w: %q cannot answer for %q", domain.ErrNotChallenged, responder, c.Challenged)
	}
	to := domain.ChallengeDeclined
	if accept {
		to = domain.ChallengeAccepted
	}
	if err := transition(c, to, now); err != nil {
		return nil, err
	}
	return c, nil
}

func ScheduleChallenge(doc *domain.Document, id string, at time.Time, notes string, now time.Time) (*domain.Challenge, error) {
	c := doc.ChallengeByID(id)
	if c == nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrChallengeNotFound, id)
	}
	if at.IsZero() {
		return nil, fmt.Errorf("%w: missing date", domain.ErrInvalidSchedule)
	}
	if err := transition(c, domain.ChallengeScheduled, now); err != nil {
		return nil, err
	}
	at = at.UTC()
	c.ScheduledAt = &at
	c.Notes = notes
	return c, nil
}

func CancelChallenge(doc *domain.Document, id string, now time.Time) (*domain.Challenge, error) {
	c := doc.ChallengeByID(id)
	if c == nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrChallengeNotFound, id)
	}
	if err := transition(c, domain.ChallengeCancelled, now); err != nil {
		return nil, err
	}
	return c, nil
}

// ActiveChallenges lists live challenges, optionally only those involving squad.
func ActiveChallenges(doc *domain.Document, squad string) []domain.Challenge {
	out := []domain.Challenge{}
	for _, c := range doc.Challenges {
		if !c.Status.Live() {
			continue
		}
		if squad != "" && !c.Involves(squad) {
			continue
		}
		out = append(out, c.Copy())
	}
	return out
}

// completeChallenges closes accepted or scheduled challenges between the pair
// once they have actually fought. Pending ones stay open.
func completeChallenges(doc *domain.Document, a, b, matchID string, now time.Time) []string {
	var completed []string
	for _, c := range doc.Challenges {
		if !c.Between(a, b) {
			continue
		}
		if c.Status != domain.ChallengeAccepted && c.Status != domain.ChallengeScheduled {
			continue
		}
		c.Status = domain.ChallengeCompleted
		c.MatchID = matchID
		c.UpdatedAt = now
		completed = append(completed, c.ID)
	}
	return completed
}

// cancelChallengesFor closes every live challenge involving squad.
func cancelChallengesFor(doc *domain.Document, squad string, now time.Time) {
	for _, c := range doc.Challenges {
		if c.Status.Live() && c.Involves(squad) {
			c.Status = domain.ChallengeCancelled
			c.UpdatedAt = now
		}
	}
}

func transition(c *domain.Challenge, to domain.ChallengeStatus, now time.Time) error {
	if !CanTransition(c.Status, to) {
		return fmt.Errorf("%w: challenge %s is %s, cannot become %s", domain.ErrInvalidTransition, c.ID, c.Status, to)
	}
	c.Status = to
	c.UpdatedAt = now
	return nil
}
