package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordEnrollment(t *testing.T) {
	m := New()
	m.RecordEnrollment(OutcomeEnrolled)
	m.RecordEnrollment(OutcomeEnrolled)
	m.RecordEnrollment(OutcomeClassFull)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.enrollAttempts.WithLabelValues(OutcomeEnrolled)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.enrollAttempts.WithLabelValues(OutcomeClassFull)))
}

func TestHandlerExposesRequestMetrics(t *testing.T) {
	m := New()
	m.ObserveRequest(http.MethodGet, "/api/v1/classes/:id", http.StatusOK, 20*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "", http.StatusNotFound, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `classhub_http_requests_total{method="GET",route="/api/v1/classes/:id",status="200"} 1`)
	assert.Contains(t, body, `route="unmatched"`)
	assert.Contains(t, body, "classhub_http_request_duration_seconds_bucket")
	assert.Contains(t, body, "go_goroutines")
}
