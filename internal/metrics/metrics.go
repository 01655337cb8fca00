// Package metrics records Prometheus metrics for a single ranking run.
package metrics

import (
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"betarank/internal/betaseries"
	"betarank/internal/harvest"
	"betarank/internal/ranking"
)

// Metric names.
const (
	MetricRequestsTotal   = "betarank_api_requests_total"
	MetricRequestDuration = "betarank_api_request_duration_seconds"
	MetricRetriesTotal    = "betarank_api_retries_total"
	MetricRetryDelay      = "betarank_api_retry_delay_seconds_total"
	MetricItemsTotal      = "betarank_items_total"
	MetricBreakerState    = "betarank_breaker_state"
	MetricRankedEntries   = "betarank_ranked_entries"
	MetricGlobalMean      = "betarank_global_mean_rating"
	MetricThreshold       = "betarank_popularity_threshold_votes"
	MetricRunDuration     = "betarank_run_duration_seconds"
)

// Item result labels.
const (
	ResultFetched = "fetched"
	ResultDropped = "dropped"
)

// Run holds the collectors for one run on a private registry.
// All methods are safe for concurrent use.
type Run struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	retries         *prometheus.CounterVec
	retryDelay      *prometheus.CounterVec
	items           *prometheus.CounterVec
	breakerState    *prometheus.GaugeVec
	rankedEntries   prometheus.Gauge
	globalMean      prometheus.Gauge
	threshold       prometheus.Gauge
	runDuration     prometheus.Gauge
}

var (
	_ betaseries.Observer = (*Run)(nil)
	_ harvest.Recorder    = (*Run)(nil)
)

// NewRun creates a Run with every collector registered.
func NewRun() (*Run, error) {
	r := &Run{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricRequestsTotal,
				Help: "BetaSeries API attempts by endpoint and outcome",
			},
			[]string{"endpoint", "outcome"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricRequestDuration,
				Help:    "BetaSeries API attempt latency in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"endpoint"},
		),
		retries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricRetriesTotal,
				Help: "Retries scheduled after a retryable failure",
			},
			[]string{"endpoint"},
		),
		retryDelay: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricRetryDelay,
				Help: "Total backoff time scheduled before retries in seconds",
			},
			[]string{"endpoint"},
		),
		items: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricItemsTotal,
				Help: "Catalog items by content kind and harvest result",
			},
			[]string{"kind", "result"},
		),
		breakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: MetricBreakerState,
				Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
			},
			[]string{"breaker"},
		),
		rankedEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: MetricRankedEntries,
			Help: "Entries in the persisted leaderboard",
		}),
		globalMean: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: MetricGlobalMean,
			Help: "Unweighted mean rating across the scored collection",
		}),
		threshold: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: MetricThreshold,
			Help: "Popularity threshold m used by the weighted score",
		}),
		runDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: MetricRunDuration,
			Help: "Wall-clock duration of the run in seconds",
		}),
	}

	for _, c := range r.collectors() {
		if err := r.registry.Register(c); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}
	return r, nil
}

func (r *Run) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		r.requests,
		r.requestDuration,
		r.retries,
		r.retryDelay,
		r.items,
		r.breakerState,
		r.rankedEntries,
		r.globalMean,
		r.threshold,
		r.runDuration,
	}
}

// Registry exposes the run registry for gathering.
func (r *Run) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveAttempt implements betaseries.Observer.
func (r *Run) ObserveAttempt(endpoint string, outcome betaseries.Outcome, latency time.Duration) {
	r.requests.WithLabelValues(endpoint, string(outcome)).Inc()
	r.requestDuration.WithLabelValues(endpoint).Observe(latency.Seconds())
}

// ObserveRetry implements betaseries.Observer.
func (r *Run) ObserveRetry(endpoint string, delay time.Duration) {
	r.retries.WithLabelValues(endpoint).Inc()
	r.retryDelay.WithLabelValues(endpoint).Add(delay.Seconds())
}

// ObserveHarvest records the fetched and dropped totals for a content kind.
func (r *Run) ObserveHarvest(kind string, fetched, dropped int) {
	r.items.WithLabelValues(kind, ResultFetched).Add(float64(fetched))
	r.items.WithLabelValues(kind, ResultDropped).Add(float64(dropped))
}

// ObserveBreakerState records a circuit breaker transition.
func (r *Run) ObserveBreakerState(name, state string) {
	r.breakerState.WithLabelValues(name).Set(breakerStateValue(state))
}

// ObserveRanking records the leaderboard size and scoring statistics.
func (r *Run) ObserveRanking(entries int, stats ranking.Stats) {
	r.rankedEntries.Set(float64(entries))
	r.globalMean.Set(stats.GlobalMean)
	r.threshold.Set(float64(stats.Threshold))
}

// ObserveDuration records the run wall-clock time.
func (r *Run) ObserveDuration(d time.Duration) {
	r.runDuration.Set(d.Seconds())
}

// WriteTextfile dumps the registry in the node_exporter textfile format.
func (r *Run) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

func breakerStateValue(state string) float64 {
	switch strings.ToLower(state) {
	case "closed":
		return 0
	case "half-open":
		return 1
	case "open":
		return 2
	default:
		return -1
	}
}
