package server

import (
	"net/http"

	"majestic-dominion/internal/domain"
	"majestic-dominion/internal/league"

	"github.com/go-chi/chi/v5"
)

type respondRequest struct {
	Squad  string `json:"squad"`
	Accept bool   `json:"accept"`
}

// scheduleRequest.When is RFC3339 or plain English ("next friday 8pm").
type scheduleRequest struct {
	When  string `json:"when"`
	Notes string `json:"notes,omitempty"`
}

type bountyRequest struct {
	Points int    `json:"points"`
	Reason string `json:"reason,omitempty"`
}

func (s *LeagueServer) challenges(w http.ResponseWriter, r *http.Request) {
	open, err := s.svc.ActiveChallenges(r.Context(), r.URL.Query().Get("squad"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, open)
}

func (s *LeagueServer) createChallenge(w http.ResponseWriter, r *http.Request) {
	var in league.ChallengeInput
	if err := decode(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	c, err := s.svc.CreateChallenge(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *LeagueServer) respondChallenge(w http.ResponseWriter, r *http.Request) {
	var req respondRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	s.challengeResult(w, r)(s.svc.RespondToChallenge(r.Context(), chi.URLParam(r, "id"), req.Squad, req.Accept))
}

func (s *LeagueServer) scheduleChallenge(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	at, err := s.parser.Parse(req.When, s.clock())
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.challengeResult(w, r)(s.svc.ScheduleChallenge(r.Context(), chi.URLParam(r, "id"), at, req.Notes))
}

func (s *LeagueServer) cancelChallenge(w http.ResponseWriter, r *http.Request) {
	s.challengeResult(w, r)(s.svc.CancelChallenge(r.Context(), chi.URLParam(r, "id")))
}

func (s *LeagueServer) challengeResult(w http.ResponseWriter, r *http.Request) func(domain.Challenge, error) {
	return func(c domain.Challenge, err error) {
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

func (s *LeagueServer) bounties(w http.ResponseWriter, r *http.Request) {
	entries, err := s.svc.Bounties(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *LeagueServer) setBounty(w http.ResponseWriter, r *http.Request) {
	var req bountyRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	b, err := s.svc.SetBounty(r.Context(), chi.URLParam(r, "squad"), req.Points, req.Reason)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *LeagueServer) removeBounty(w http.ResponseWriter, r *http.Request) {
	b, err := s.svc.RemoveBounty(r.Context(), chi.URLParam(r, "squad"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}
