// Package metrics exposes Prometheus collectors for feed generation,
// leaderboard computation, caching and the recipe snapshot breaker.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker/v2"
)

var (
	FeedRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tastebuddin_feed_requests_total",
			Help: "Total number of feed generations by outcome",
		},
		[]string{"outcome"}, // "ok", "empty", "not_found", "unavailable"
	)

	FeedSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tastebuddin_feed_size",
			Help:    "Number of recipes returned per generated feed",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		},
	)

	FeedFiltered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tastebuddin_feed_allergen_filtered_total",
			Help: "Total number of unseen recipes withheld by the allergen filter",
		},
	)

	LeaderboardDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tastebuddin_leaderboard_duration_seconds",
			Help:    "Time to build a leaderboard, including cache lookups",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"board"},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tastebuddin_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tastebuddin_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache"},
	)

	LikeTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tastebuddin_like_transitions_total",
			Help: "Total number of like state transitions that changed counts",
		},
		[]string{"action"}, // "like", "unlike", "dislike"
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tastebuddin_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tastebuddin_circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)
)

// RecordFeed records one feed generation.
func RecordFeed(outcome string, unseen, returned int) {
	FeedRequests.WithLabelValues(outcome).Inc()
	if outcome != "ok" && outcome != "empty" {
		return
	}
	FeedSize.Observe(float64(returned))
	if withheld := unseen - returned; withheld > 0 {
		FeedFiltered.Add(float64(withheld))
	}
}

// RecordCache records a cache lookup.
func RecordCache(cache string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cache).Inc()
		return
	}
	CacheMisses.WithLabelValues(cache).Inc()
}

// ObserveLeaderboard returns a func that records the elapsed build time.
func ObserveLeaderboard(board string) func() {
	start := time.Now()
	return func() {
		LeaderboardDuration.WithLabelValues(board).Observe(time.Since(start).Seconds())
	}
}

// RecordBreakerTransition tracks a breaker state change.
func RecordBreakerTransition(name string, from, to gobreaker.State) {
	CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
	CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
