package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"majestic-dominion/internal/domain"
	"majestic-dominion/internal/export"

	"github.com/go-chi/chi/v5"
)

func (s *LeagueServer) rankings(w http.ResponseWriter, r *http.Request) {
	entries, err := s.svc.Rankings(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *LeagueServer) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.RealmStats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *LeagueServer) headToHead(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h, err := s.svc.HeadToHead(r.Context(), q.Get("a"), q.Get("b"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h)
}

func (s *LeagueServer) predict(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p, err := s.svc.Predict(r.Context(), q.Get("a"), q.Get("b"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *LeagueServer) rankingsXLSX(w http.ResponseWriter, r *http.Request) {
	entries, err := s.svc.Rankings(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	data, err := export.RankingsXLSX(entries)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="rankings.xlsx"`)
	_, _ = w.Write(data)
}

func (s *LeagueServer) gloryChart(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	series, err := s.svc.GloryProgression(r.Context(), name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	data, err := export.GloryChart(name, series)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(data)
}

func (s *LeagueServer) backup(w http.ResponseWriter, r *http.Request) {
	doc, err := s.svc.Snapshot()
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="dominion-v%d.json"`, doc.Version))
	writeJSON(w, http.StatusOK, doc)
}

// restore replaces the whole document with an uploaded backup.
func (s *LeagueServer) restore(w http.ResponseWriter, r *http.Request) {
	var doc domain.Document
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes*4))
	if err := dec.Decode(&doc); err != nil {
		writeError(w, r, fmt.Errorf("%w: %w", errBadBody, err))
		return
	}
	doc.Normalize()
	if err := s.svc.Restore(r.Context(), &doc); err != nil {
		writeError(w, r, err)
		return
	}
	restored, err := s.svc.Snapshot()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"version": restored.Version, "squads": len(restored.Squads), "matches": len(restored.Matches)})
}
