// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records authentication and session-resolution outcomes.
type Collector struct {
	resolved     prometheus.Counter
	degraded     *prometheus.CounterVec
	signIns      prometheus.Counter
	signInFails  prometheus.Counter
	signOuts     prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		resolved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vendorflow_session_resolved_total",
			Help: "Session resolutions that returned a full profile",
		}),
		degraded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vendorflow_session_degraded_total",
			Help: "Session resolutions that fell back to a profile-less user, by reason",
		}, []string{"reason"}),
		signIns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vendorflow_sign_in_total",
			Help: "Successful sign-ins",
		}),
		signInFails: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vendorflow_sign_in_failed_total",
			Help: "Rejected sign-in attempts",
		}),
		signOuts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vendorflow_sign_out_total",
			Help: "Sign-outs",
		}),
	}

	reg.MustRegister(
		c.resolved,
		c.degraded,
		c.signIns,
		c.signInFails,
		c.signOuts,
	)

	return c
}

// RecordResolved counts a resolution that produced a full profile.
func (c *Collector) RecordResolved() {
	c.resolved.Inc()
}

// RecordDegraded counts a resolution that fell back to the degraded state.
// Reason is one of "absent", "error", "timeout".
func (c *Collector) RecordDegraded(reason string) {
	c.degraded.WithLabelValues(reason).Inc()
}

// RecordSignIn counts a successful sign-in.
func (c *Collector) RecordSignIn() {
	c.signIns.Inc()
}

// RecordSignInFailure counts a rejected sign-in attempt.
func (c *Collector) RecordSignInFailure() {
	c.signInFails.Inc()
}

// RecordSignOut counts a sign-out.
func (c *Collector) RecordSignOut() {
	c.signOuts.Inc()
}

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
