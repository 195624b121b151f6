package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

const namespace = "dominion"

type Metrics struct {
	registry *prometheus.Registry

	MatchesSettled       *prometheus.CounterVec
	MatchesDeleted       prometheus.Counter
	AchievementsUnlocked *prometheus.CounterVec
	BountiesClaimed      prometheus.Counter
	SaveFailures         prometheus.Counter
	SaveDuration         prometheus.Histogram
}

// New registers the league collectors on a private registry so tests can
// build as many instances as they like.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		MatchesSettled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_settled_total",
			Help:      "Matches settled, by outcome.",
		}, []string{"outcome"}),
		MatchesDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_deleted_total",
			Help:      "Matches removed from the log.",
		}),
		AchievementsUnlocked: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "achievements_unlocked_total",
			Help:      "Achievements unlocked, by achievement id.",
		}, []string{"achievement"}),
		BountiesClaimed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bounties_claimed_total",
			Help:      "Bounties collected by a winning squad.",
		}),
		SaveFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_save_failures_total",
			Help:      "Document saves that failed and were rolled back.",
		}),
		SaveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_save_seconds",
			Help:      "Time spent persisting the league document.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
	}

	registry.MustRegister(
		m.MatchesSettled,
		m.MatchesDeleted,
		m.AchievementsUnlocked,
		m.BountiesClaimed,
		m.SaveFailures,
		m.SaveDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

var Module = fx.Provide(New)
