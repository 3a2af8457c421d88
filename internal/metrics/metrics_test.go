package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorCounters(t *testing.T) {
	t.Parallel()

	c := NewCollector(prometheus.NewRegistry())

	c.RecordRegistration()
	c.RecordRegistration()
	c.RecordRegistrationConflict()
	c.RecordLogin()
	c.RecordLoginFailure()
	c.RecordLoginFailure()
	c.RecordLoginFailure()

	assert.Equal(t, float64(2), testutil.ToFloat64(c.registrations))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.registerConflict))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.logins))
	assert.Equal(t, float64(3), testutil.ToFloat64(c.loginFailures))
}

func TestCollectorHTTPStatus(t *testing.T) {
	t.Parallel()

	c := NewCollector(prometheus.NewRegistry())

	c.RecordHTTPStatus(http.StatusOK)
	c.RecordHTTPStatus(http.StatusOK)
	c.RecordHTTPStatus(http.StatusNotFound)

	assert.Equal(t, float64(2), testutil.ToFloat64(c.httpStatus.WithLabelValues("200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.httpStatus.WithLabelValues("404")))
	assert.Equal(t, float64(0), testutil.ToFloat64(c.httpStatus.WithLabelValues("500")))
}

func TestHandlerServesRegisteredMetrics(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	c := NewCollector(registry)
	c.RecordRegistration()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	Handler(registry).ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "identity_registrations_total 1")
}
