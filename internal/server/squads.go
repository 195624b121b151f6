package server

import (
	"net/http"

	"majestic-dominion/internal/domain"
	"majestic-dominion/internal/league"

	"github.com/go-chi/chi/v5"
)

type renameRequest struct {
	Name string `json:"name"`
}

type rosterRequest struct {
	Players []string `json:"players"`
}

type logoRequest struct {
	URL string `json:"url"`
}

type titleRequest struct {
	Title    string `json:"title"`
	Position string `json:"position"`
}

func (s *LeagueServer) squad(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Squad(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *LeagueServer) squadReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.svc.SquadReport(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *LeagueServer) squadHistory(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, r, err)
		return
	}
	matches, err := s.svc.MatchHistory(r.Context(), chi.URLParam(r, "name"), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, matches)
}

func (s *LeagueServer) createSquad(w http.ResponseWriter, r *http.Request) {
	var in league.SquadInput
	if err := decode(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	squad, err := s.svc.CreateSquad(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, squad)
}

func (s *LeagueServer) disbandSquad(w http.ResponseWriter, r *http.Request) {
	s.squadResult(w, r)(s.svc.DisbandSquad(r.Context(), chi.URLParam(r, "name")))
}

func (s *LeagueServer) renameSquad(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	s.squadResult(w, r)(s.svc.RenameSquad(r.Context(), chi.URLParam(r, "name"), req.Name))
}

func (s *LeagueServer) setRoster(w http.ResponseWriter, r *http.Request) {
	var req rosterRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	s.squadResult(w, r)(s.svc.SetMainRoster(r.Context(), chi.URLParam(r, "name"), req.Players))
}

func (s *LeagueServer) setSubs(w http.ResponseWriter, r *http.Request) {
	var req rosterRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	s.squadResult(w, r)(s.svc.SetSubs(r.Context(), chi.URLParam(r, "name"), req.Players))
}

func (s *LeagueServer) addMain(w http.ResponseWriter, r *http.Request) {
	s.squadResult(w, r)(s.svc.AddToMainRoster(r.Context(), chi.URLParam(r, "name"), chi.URLParam(r, "id")))
}

func (s *LeagueServer) removeMain(w http.ResponseWriter, r *http.Request) {
	s.squadResult(w, r)(s.svc.RemoveFromMainRoster(r.Context(), chi.URLParam(r, "name"), chi.URLParam(r, "id")))
}

func (s *LeagueServer) addSub(w http.ResponseWriter, r *http.Request) {
	s.squadResult(w, r)(s.svc.AddSub(r.Context(), chi.URLParam(r, "name"), chi.URLParam(r, "id")))
}

func (s *LeagueServer) removeSub(w http.ResponseWriter, r *http.Request) {
	s.squadResult(w, r)(s.svc.RemoveSub(r.Context(), chi.URLParam(r, "name"), chi.URLParam(r, "id")))
}

func (s *LeagueServer) setLogo(w http.ResponseWriter, r *http.Request) {
	var req logoRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	s.squadResult(w, r)(s.svc.SetSquadLogo(r.Context(), chi.URLParam(r, "name"), req.URL))
}

func (s *LeagueServer) awardTitle(w http.ResponseWriter, r *http.Request) {
	var req titleRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	award, err := s.svc.AwardTitle(r.Context(), chi.URLParam(r, "name"), req.Title, req.Position)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, award)
}

// squadResult writes the outcome of a squad mutation.
func (s *LeagueServer) squadResult(w http.ResponseWriter, r *http.Request) func(domain.Squad, error) {
	return func(squad domain.Squad, err error) {
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, squad)
	}
}
