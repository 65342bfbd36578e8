// Package metrics provides Prometheus metrics for jokebox.
// Counters and gauges for fetches, reads, favorites, achievements and storage.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Fetch ──────────────────────────────────────────────────────────────────

// FetchesTotal counts joke fetches by outcome (ok, network_error, decode_error).
var FetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "jokebox",
	Name:      "fetches_total",
	Help:      "Total joke fetches by outcome.",
}, []string{"outcome"})

// FetchLatency tracks joke endpoint round-trip time in seconds.
var FetchLatency = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "jokebox",
	Name:      "fetch_latency_seconds",
	Help:      "Joke endpoint round-trip time in seconds.",
	Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
})

// ─── Engagement ─────────────────────────────────────────────────────────────

// JokesRead counts recorded reads since process start.
var JokesRead = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "jokebox",
	Name:      "jokes_read_total",
	Help:      "Jokes recorded as read since process start.",
})

// CurrentStreak mirrors the engine's consecutive-day streak.
var CurrentStreak = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "jokebox",
	Name:      "current_streak_days",
	Help:      "Current consecutive-day reading streak.",
})

// Favorites mirrors the size of the favorites list.
var Favorites = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "jokebox",
	Name:      "favorites_current",
	Help:      "Number of favorite jokes.",
})

// AchievementsUnlocked counts unlocks by achievement id.
var AchievementsUnlocked = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "jokebox",
	Name:      "achievements_unlocked_total",
	Help:      "Achievements unlocked since process start.",
}, []string{"id"})

// Swipes counts deck swipes by direction.
var Swipes = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "jokebox",
	Name:      "swipes_total",
	Help:      "Deck swipes by direction.",
}, []string{"direction"})

// ─── Storage ────────────────────────────────────────────────────────────────

// StorageErrors counts absorbed persistence failures by operation.
var StorageErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "jokebox",
	Name:      "storage_errors_total",
	Help:      "Persistence failures absorbed by the engine.",
}, []string{"op"})
