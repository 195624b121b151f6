package server

import (
	"net/http"

	"majestic-dominion/internal/domain"
	"majestic-dominion/internal/league"

	"github.com/go-chi/chi/v5"
)

// settleRequest takes the score either as "2-0" or as two numbers.
type settleRequest struct {
	Team1   string `json:"team1"`
	Team2   string `json:"team2"`
	Score   string `json:"score,omitempty"`
	Score1  *int   `json:"score1,omitempty"`
	Score2  *int   `json:"score2,omitempty"`
	AddedBy string `json:"added_by,omitempty"`
}

func (req settleRequest) score() (domain.Score, error) {
	if req.Score != "" {
		return domain.ParseScore(req.Score)
	}
	if req.Score1 == nil || req.Score2 == nil {
		return domain.Score{}, domain.ErrInvalidScore
	}
	s := domain.Score{Team1: *req.Score1, Team2: *req.Score2}
	return s, s.Validate()
}

func (s *LeagueServer) settleMatch(w http.ResponseWriter, r *http.Request) {
	var req settleRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	score, err := req.score()
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, err := s.svc.SettleMatch(r.Context(), league.MatchInput{
		Team1:   req.Team1,
		Team2:   req.Team2,
		Score:   score,
		AddedBy: req.AddedBy,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *LeagueServer) deleteMatch(w http.ResponseWriter, r *http.Request) {
	m, err := s.svc.DeleteMatch(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *LeagueServer) recentMatches(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, r, err)
		return
	}
	matches, err := s.svc.RecentMatches(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, matches)
}
