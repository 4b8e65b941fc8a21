// Package metric provides Prometheus metrics for LanLink.
package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lanlink"

// PrometheusRegistry bundles the application metrics with the underlying
// prometheus registry used to serve them.
type PrometheusRegistry struct {
	*Registry
	prom *prometheus.Registry
}

// NewPrometheusRegistry creates the application metrics backed by a
// dedicated prometheus registry (includes Go runtime collectors).
func NewPrometheusRegistry() *PrometheusRegistry {
	prom := prometheus.NewRegistry()

	probesTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "probes_total",
		Help:      "Liveness probes issued, by outcome.",
	}, []string{"outcome"})

	scansTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scans_total",
		Help:      "Subnet scans completed, by result.",
	}, []string{"result"})

	scanDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "scan_duration_seconds",
		Help:      "Duration of full subnet scans.",
		Buckets:   prometheus.DefBuckets,
	})

	connectionsActive := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "connections_active",
		Help:      "Currently registered accepted connections.",
	})

	connectionsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "connections_total",
		Help:      "Total accepted connections.",
	})

	framesTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "frames_total",
		Help:      "Inbound frames handled, by kind.",
	}, []string{"kind"})

	prom.MustRegister(probesTotal, scansTotal, scanDuration,
		connectionsActive, connectionsTotal, framesTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return &PrometheusRegistry{
		Registry: &Registry{
			ProbesTotal:       promCounterVec{probesTotal},
			ScansTotal:        promCounterVec{scansTotal},
			ScanDuration:      scanDuration,
			ConnectionsActive: connectionsActive,
			ConnectionsTotal:  connectionsTotal,
			FramesTotal:       promCounterVec{framesTotal},
		},
		prom: prom,
	}
}

// Handler returns the HTTP handler for the /metrics endpoint.
func (r *PrometheusRegistry) Handler() http.Handler {
	return promhttp.HandlerFor(r.prom, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry for tests.
func (r *PrometheusRegistry) Gatherer() prometheus.Gatherer {
	return r.prom
}

// promCounterVec adapts prometheus.CounterVec to the CounterVec interface.
type promCounterVec struct {
	vec *prometheus.CounterVec
}

func (v promCounterVec) WithLabelValues(lvs ...string) Counter {
	return v.vec.WithLabelValues(lvs...)
}
