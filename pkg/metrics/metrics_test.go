package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/disc-ucn/firma/pkg/metrics"
)

func TestMetrics(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	m.IncrementCompositions()
	m.IncrementCompositions()
	m.ObserveCopy("multi")
	m.ObserveCopy("failed")
	m.ObserveCopy("multi")
	m.IncrementValidationFailure("email")
	m.ObserveRequest(http.MethodPost, "/copy", http.StatusOK, 5*time.Millisecond)

	require.InDelta(t, 2, testutil.ToFloat64(m.Compositions), 0)
	require.InDelta(t, 2, testutil.ToFloat64(m.CopyAttempts.WithLabelValues("multi")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.CopyAttempts.WithLabelValues("failed")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.ValidationFailures.WithLabelValues("email")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("POST", "/copy", "200")), 0)
}

func TestHandler(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	m.ObserveCopy("fallback")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `firma_copy_attempts_total{result="fallback"} 1`)
	require.Contains(t, rec.Body.String(), "go_goroutines")
}
