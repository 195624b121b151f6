package server

import (
	"net/http"
	"time"

	"majestic-dominion/internal/config"
	"majestic-dominion/internal/metrics"
	mw "majestic-dominion/internal/middleware"
	"majestic-dominion/internal/schedule"
	"majestic-dominion/internal/service"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// LeagueServer exposes the league over JSON.
type LeagueServer struct {
	svc     *service.LeagueService
	metrics *metrics.Metrics
	cfg     *config.Config
	parser  *schedule.Parser
	limiter *mw.IPRateLimiter
	clock   func() time.Time
	logger  zerolog.Logger
}

func NewLeagueServer(svc *service.LeagueService, m *metrics.Metrics, cfg *config.Config, logger zerolog.Logger) *LeagueServer {
	return &LeagueServer{
		svc:     svc,
		metrics: m,
		cfg:     cfg,
		parser:  schedule.NewParser(nil),
		limiter: mw.NewIPRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		clock:   time.Now,
		logger:  logger,
	}
}

func (s *LeagueServer) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(mw.RequestID(s.logger))
	r.Use(cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}).Handler)

	r.Get("/healthz", s.health)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(mw.RateLimit(s.limiter))

		r.Get("/rankings", s.rankings)
		r.Get("/stats", s.stats)
		r.Get("/h2h", s.headToHead)
		r.Get("/predict", s.predict)
		r.Get("/bounties", s.bounties)
		r.Get("/challenges", s.challenges)
		r.Get("/matches/recent", s.recentMatches)
		r.Get("/squads/{name}", s.squad)
		r.Get("/squads/{name}/report", s.squadReport)
		r.Get("/squads/{name}/history", s.squadHistory)
		r.Get("/squads/{name}/chart.png", s.gloryChart)
		r.Get("/players/{id}", s.player)
		r.Get("/players/{id}/stats", s.playerStats)
		r.Get("/export/rankings.xlsx", s.rankingsXLSX)

		r.Group(func(r chi.Router) {
			r.Use(mw.AdminToken(s.cfg.AdminToken))

			r.Post("/matches", s.settleMatch)
			r.Delete("/matches/{id}", s.deleteMatch)

			r.Post("/squads", s.createSquad)
			r.Delete("/squads/{name}", s.disbandSquad)
			r.Post("/squads/{name}/rename", s.renameSquad)
			r.Put("/squads/{name}/roster", s.setRoster)
			r.Post("/squads/{name}/roster/{id}", s.addMain)
			r.Delete("/squads/{name}/roster/{id}", s.removeMain)
			r.Put("/squads/{name}/subs", s.setSubs)
			r.Post("/squads/{name}/subs/{id}", s.addSub)
			r.Delete("/squads/{name}/subs/{id}", s.removeSub)
			r.Put("/squads/{name}/logo", s.setLogo)
			r.Post("/squads/{name}/titles", s.awardTitle)

			r.Put("/players/{id}", s.registerPlayer)
			r.Put("/players/{id}/squad", s.assignPlayer)

			r.Post("/challenges", s.createChallenge)
			r.Post("/challenges/{id}/respond", s.respondChallenge)
			r.Post("/challenges/{id}/schedule", s.scheduleChallenge)
			r.Post("/challenges/{id}/cancel", s.cancelChallenge)

			r.Put("/bounties/{squad}", s.setBounty)
			r.Delete("/bounties/{squad}", s.removeBounty)

			r.Get("/backup", s.backup)
			r.Post("/backup", s.restore)
		})
	})
	return r
}

func (s *LeagueServer) health(w http.ResponseWriter, r *http.Request) {
	if _, err := s.svc.Snapshot(); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

var Module = fx.Provide(NewLeagueServer)
