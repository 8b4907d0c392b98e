// Package metrics exposes Prometheus counters for the leaderboard API.
// All methods are safe to call on a nil *Metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeOK           = "ok"
	OutcomeInvalid      = "invalid"
	OutcomeNotFound     = "not_found"
	OutcomeUnauthorized = "unauthorized"
	OutcomeError        = "error"
)

// Metrics holds the service collectors and the registry they live in.
type Metrics struct {
	registry *prometheus.Registry

	submissions     *prometheus.CounterVec
	listings        *prometheus.CounterVec
	verifications   *prometheus.CounterVec
	resets          *prometheus.CounterVec
	profanityChecks *prometheus.CounterVec
	storeUp         prometheus.Gauge
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	m := &Metrics{registry: reg}

	m.submissions = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "leaderboard_score_submissions_total",
		Help: "score submissions by outcome",
	}, []string{"outcome"})
	m.listings = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "leaderboard_listings_total",
		Help: "top score listings by outcome",
	}, []string{"outcome"})
	m.verifications = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "leaderboard_verifications_total",
		Help: "receipt hash verifications by outcome",
	}, []string{"outcome"})
	m.resets = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "leaderboard_resets_total",
		Help: "leaderboard reset attempts by outcome",
	}, []string{"outcome"})
	m.profanityChecks = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "leaderboard_profanity_checks_total",
		Help: "profanity checks by result",
	}, []string{"result"})
	m.storeUp = factory.NewGauge(prometheus.GaugeOpts{
		Name: "leaderboard_store_up",
		Help: "1 if the last store probe succeeded",
	})
	m.storeUp.Set(1)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry, for callers that add their
// own collectors. Nil for a nil *Metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Submission counts a score submission with the given outcome.
func (m *Metrics) Submission(outcome string) {
	if m != nil {
		m.submissions.WithLabelValues(outcome).Inc()
	}
}

// Listing counts a top scores read.
func (m *Metrics) Listing(outcome string) {
	if m != nil {
		m.listings.WithLabelValues(outcome).Inc()
	}
}

// Verification counts a receipt lookup; unknown hashes use OutcomeNotFound.
func (m *Metrics) Verification(outcome string) {
	if m != nil {
		m.verifications.WithLabelValues(outcome).Inc()
	}
}

// Reset counts a reset attempt.
func (m *Metrics) Reset(outcome string) {
	if m != nil {
		m.resets.WithLabelValues(outcome).Inc()
	}
}

// ProfanityCheck counts a name check by its result label.
func (m *Metrics) ProfanityCheck(result string) {
	if m != nil {
		m.profanityChecks.WithLabelValues(result).Inc()
	}
}

// StoreUp records the result of a store probe.
func (m *Metrics) StoreUp(up bool) {
	if m == nil {
		return
	}
	if up {
		m.storeUp.Set(1)
	} else {
		m.storeUp.Set(0)
	}
}
