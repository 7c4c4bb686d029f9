package metrics_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediai/backend/internal/metrics"
)

func TestMetrics_Counters(t *testing.T) {
	m := metrics.NewMetrics()

	m.RecordExchange()
	m.RecordExchange()
	m.RecordGeneratorFallback("status")
	m.RecordStreamFailure(errors.New("broken pipe"))
	m.RateLimitRejectedTotal.Inc()
	m.RecordHTTPRequest("POST", "/api/chat/public", "200", 15*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.MessagesStoredTotal.WithLabelValues("user")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.MessagesStoredTotal.WithLabelValues("assistant")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GeneratorFallbacksTotal.WithLabelValues("status")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StreamFailuresTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateLimitRejectedTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/api/chat/public", "200")))
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	a := metrics.NewMetrics()
	b := metrics.NewMetrics()

	a.RecordExchange()
	assert.Equal(t, 0.0, testutil.ToFloat64(b.MessagesStoredTotal.WithLabelValues("user")))
}

func TestMetrics_Handler(t *testing.T) {
	m := metrics.NewMetrics()
	m.RateLimitRejectedTotal.Inc()

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "mediai_rate_limit_rejected_total 1")
	assert.Contains(t, string(body), "go_goroutines")
}
