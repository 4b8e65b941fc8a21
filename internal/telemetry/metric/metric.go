// Package metric provides Prometheus metrics for LanLink.
//
// It exposes metrics in Prometheus format for monitoring probe outcomes,
// scan latency, and connection counts.
package metric

// Registry holds all application metrics.
type Registry struct {
	// Probe metrics
	ProbesTotal CounterVec // labeled by outcome: hit, miss, unexpected

	// Scan metrics
	ScansTotal   CounterVec // labeled by result: peer_found, none
	ScanDuration Histogram

	// Connection metrics
	ConnectionsActive Gauge
	ConnectionsTotal  Counter
	FramesTotal       CounterVec // labeled by kind: liveness, unknown
}

// Counter is a cumulative metric that only increases.
type Counter interface {
	Inc()
	Add(float64)
}

// CounterVec is a Counter with labels.
type CounterVec interface {
	WithLabelValues(lvs ...string) Counter
}

// Gauge is a metric that can go up and down.
type Gauge interface {
	Set(float64)
	Inc()
	Dec()
	Add(float64)
	Sub(float64)
}

// Histogram samples observations and counts them in buckets.
type Histogram interface {
	Observe(float64)
}

// Probe outcome label values.
const (
	OutcomeHit        = "hit"
	OutcomeMiss       = "miss"
	OutcomeUnexpected = "unexpected"
)

// Scan result label values.
const (
	ResultPeerFound = "peer_found"
	ResultNone      = "none"
)

// Frame kind label values.
const (
	KindLiveness = "liveness"
	KindUnknown  = "unknown"
)

// NewNopRegistry returns a registry whose metrics discard all updates.
// Useful for tests and for components constructed without telemetry.
func NewNopRegistry() *Registry {
	return &Registry{
		ProbesTotal:       nopCounterVec{},
		ScansTotal:        nopCounterVec{},
		ScanDuration:      nopHistogram{},
		ConnectionsActive: nopGauge{},
		ConnectionsTotal:  nopCounter{},
		FramesTotal:       nopCounterVec{},
	}
}

type nopCounter struct{}

func (nopCounter) Inc()        {}
func (nopCounter) Add(float64) {}

type nopCounterVec struct{}

func (nopCounterVec) WithLabelValues(...string) Counter { return nopCounter{} }

type nopGauge struct{}

func (nopGauge) Set(float64) {}
func (nopGauge) Inc()        {}
func (nopGauge) Dec()        {}
func (nopGauge) Add(float64) {}
func (nopGauge) Sub(float64) {}

type nopHistogram struct{}

func (nopHistogram) Observe(float64) {}
