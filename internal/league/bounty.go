package league

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"majestic-dominion/internal/domain"
)

const (
	// BountyMinMatches keeps fresh squads from being marked as targets.
	BountyMinMatches = 3
)

// BountyLadder is the automatic bounty for the first, second and third
// eligible squads in the rankings.
var BountyLadder = []int{3, 2, 1}

type AssignedBounty struct {
	Squad  string `json:"squad"`
	Points int    `json:"points"`
	Reason string `json:"reason"`
}

type BountyEntry struct {
	Squad  string        `json:"squad"`
	Tag    string        `json:"tag"`
	Bounty domain.Bounty `json:"bounty"`
}

// RefreshBounties guarantees the top of the rankings a bounty. A squad that
// already carries one, automatic or manual, keeps it as it is, and bounties on
// squads that drop out of the top are left for consumption or an admin to
// remove. It returns the bounties that were newly placed.
func RefreshBounties(doc *domain.Document, now time.Time) []AssignedBounty {
	var assigned []AssignedBounty
	tier := 0
	for _, e := range Rankings(doc) {
		if tier == len(BountyLadder) {
			break
		}
		if e.TotalMatches < BountyMinMatches {
			continue
		}
		points := BountyLadder[tier]
		tier++
		if _, ok := doc.Bounties[e.Name]; ok {
			continue
		}
		target := AssignedBounty{
			Squad:  e.Name,
			Points: points,
			Reason: fmt.Sprintf("Rank #%d kingdom", e.Rank),
		}
		doc.Bounties[e.Name] = &domain.Bounty{Points: target.Points, Reason: target.Reason, SetAt: now, Auto: true}
		assigned = append(assigned, target)
	}
	return assigned
}

func SetBounty(doc *domain.Document, squad string, points int, reason string, now time.Time) (*domain.Bounty, error) {
	if !doc.IsActive(squad) {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownSquad, squad)
	}
	if points <= 0 {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInvalidBounty, points)
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "Wanted by the realm"
	}
	b := &domain.Bounty{Points: points, Reason: reason, SetAt: now}
	doc.Bounties[squad] = b
	return b, nil
}

func RemoveBounty(doc *domain.Document, squad string) (*domain.Bounty, error) {
	b, ok := doc.Bounties[squad]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrBountyNotFound, squad)
	}
	delete(doc.Bounties, squad)
	return b, nil
}

// Bounties lists open bounties, richest first, then by founding order.
func Bounties(doc *domain.Document) []BountyEntry {
	entries := []BountyEntry{}
	for _, name := range doc.Order {
		if b, ok := doc.Bounties[name]; ok {
			entries = append(entries, BountyEntry{Squad: name, Tag: doc.SquadRegistry[name], Bounty: *b})
		}
	}
	slices.SortStableFunc(entries, func(a, b BountyEntry) int {
		return cmp.Compare(b.Bounty.Points, a.Bounty.Points)
	})
	return entries
}
