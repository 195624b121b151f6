package server

import (
	"net/http"

	"majestic-dominion/internal/domain"

	"github.com/go-chi/chi/v5"
)

type assignRequest struct {
	Squad string `json:"squad"`
}

func (s *LeagueServer) player(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Player(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *LeagueServer) playerStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.PlayerStats(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *LeagueServer) registerPlayer(w http.ResponseWriter, r *http.Request) {
	var profile domain.PlayerProfile
	if err := decode(r, &profile); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := s.svc.RegisterPlayer(r.Context(), chi.URLParam(r, "id"), profile)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// assignPlayer moves a player; an empty squad makes them a free agent.
func (s *LeagueServer) assignPlayer(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := s.svc.AssignPlayerToSquad(r.Context(), chi.URLParam(r, "id"), req.Squad)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
