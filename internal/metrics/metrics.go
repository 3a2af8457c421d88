// Package metrics provides Prometheus metric collection and exposure.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the interface the HTTP and service layers use to record
// operational metrics.
type Recorder interface {
	RecordRegistration()
	RecordRegistrationConflict()
	RecordLogin()
	RecordLoginFailure()
	RecordHTTPStatus(statusCode int)
}

// Collector implements Recorder on top of Prometheus counters.
type Collector struct {
	registrations    prometheus.Counter
	registerConflict prometheus.Counter
	logins           prometheus.Counter
	loginFailures    prometheus.Counter
	httpStatus       *prometheus.CounterVec
}

// NewCollector creates a new Collector and registers its metrics with the
// given registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "identity_registrations_total",
			Help: "Total number of successful user registrations",
		}),
		registerConflict: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "identity_registration_conflicts_total",
			Help: "Total number of registrations rejected for a taken username",
		}),
		logins: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "identity_logins_total",
			Help: "Total number of successful logins",
		}),
		loginFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "identity_login_failures_total",
			Help: "Total number of rejected login attempts",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "identity_http_status_total",
			Help: "Responses by HTTP status code",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.registrations,
		c.registerConflict,
		c.logins,
		c.loginFailures,
		c.httpStatus,
	)

	return c
}

// RecordRegistration counts a successful registration.
func (c *Collector) RecordRegistration() {
	c.registrations.Inc()
}

// RecordRegistrationConflict counts a registration rejected for uniqueness.
func (c *Collector) RecordRegistrationConflict() {
	c.registerConflict.Inc()
}

// RecordLogin counts a successful login.
func (c *Collector) RecordLogin() {
	c.logins.Inc()
}

// RecordLoginFailure counts a rejected login attempt.
func (c *Collector) RecordLoginFailure() {
	c.loginFailures.Inc()
}

// RecordHTTPStatus counts a response by status code.
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler returns the HTTP handler serving the Prometheus scrape endpoint.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
