package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()
	m.Submission(OutcomeOK)
	m.Submission(OutcomeOK)
	m.Submission(OutcomeError)
	m.Verification(OutcomeNotFound)
	m.Reset(OutcomeUnauthorized)
	m.Listing(OutcomeOK)
	m.ProfanityCheck("fail")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.submissions.WithLabelValues(OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.submissions.WithLabelValues(OutcomeError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.verifications.WithLabelValues(OutcomeNotFound)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.resets.WithLabelValues(OutcomeUnauthorized)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.listings.WithLabelValues(OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.profanityChecks.WithLabelValues("fail")))
}

func TestStoreUp(t *testing.T) {
	m := New()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeUp))
	m.StoreUp(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.storeUp))
	m.StoreUp(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeUp))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Submission(OutcomeOK)
		m.Listing(OutcomeOK)
		m.Verification(OutcomeOK)
		m.Reset(OutcomeOK)
		m.ProfanityCheck("pass")
		m.StoreUp(false)
	})
	assert.Nil(t, m.Registry())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 404, rec.Code)
}

func TestHandlerExposition(t *testing.T) {
	m := New()
	m.Submission(OutcomeOK)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `leaderboard_score_submissions_total{outcome="ok"} 1`))
	assert.Contains(t, string(body), "leaderboard_store_up 1")
}

func TestRegistry_ExtraCollectorsExposed(t *testing.T) {
	m := New()
	require.NoError(t, m.Registry().Register(collectors.NewGoCollector()))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
	assert.Contains(t, rec.Body.String(), "leaderboard_store_up 1")
}

func TestSubmission_InvalidOutcome(t *testing.T) {
	m := New()
	m.Submission(OutcomeInvalid)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.submissions.WithLabelValues(OutcomeInvalid)))
}
