// Package discovery implements LanLink's subnet peer discovery and role
// election.
//
// A node starting up sweeps its /24 subnet with liveness probes. If an
// existing server answers, the node joins it as a client; otherwise the
// node elects itself server and connects a client to itself.
package discovery

import (
	"bufio"
	"context"
	"net"
	"time"

	"github.com/lanlink/lanlink-go/internal/core/domain"
	"github.com/lanlink/lanlink-go/internal/telemetry/logger"
	"github.com/lanlink/lanlink-go/internal/telemetry/metric"
	"github.com/lanlink/lanlink-go/internal/wire"
)

// Prober issues single bounded-timeout liveness probes.
type Prober struct {
	timeout time.Duration
	log     logger.Logger
	metrics *metric.Registry
}

// NewProber creates a prober. The timeout bounds both the connect attempt
// and the wait for the liveness reply.
func NewProber(timeout time.Duration, log logger.Logger, metrics *metric.Registry) *Prober {
	if log == nil {
		log = logger.Default()
	}
	if metrics == nil {
		metrics = metric.NewNopRegistry()
	}
	return &Prober{
		timeout: timeout,
		log:     log.With("component", "probe"),
		metrics: metrics,
	}
}

// Probe tests one candidate address for a compatible server.
//
// Unreachable or timed-out candidates are the expected common case and
// report absent with a nil error. A candidate that accepts the connection
// but answers the wrong payload reports absent with ErrUnexpectedResponse
// so the caller can log the condition; it never halts a scan.
//
// Every path closes the probe socket before returning.
func (p *Prober) Probe(ctx context.Context, addr domain.Address) (bool, error) {
	dialer := net.Dialer{Timeout: p.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr.String())
	if err != nil {
		// No server at this address, or it did not answer in time.
		p.metrics.ProbesTotal.WithLabelValues(metric.OutcomeMiss).Inc()
		return false, nil
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(p.timeout)); err != nil {
		p.metrics.ProbesTotal.WithLabelValues(metric.OutcomeMiss).Inc()
		return false, nil
	}

	bw := bufio.NewWriter(conn)
	if err := wire.WriteFrame(bw, wire.EchoRequest); err != nil {
		p.metrics.ProbesTotal.WithLabelValues(metric.OutcomeMiss).Inc()
		return false, nil
	}
	if err := bw.Flush(); err != nil {
		p.metrics.ProbesTotal.WithLabelValues(metric.OutcomeMiss).Inc()
		return false, nil
	}

	reply, err := wire.ReadFrame(bufio.NewReader(conn))
	if err != nil {
		// Remote closed or errored mid-exchange.
		p.log.Debug("probe exchange failed", "addr", addr.String(), "error", err)
		p.metrics.ProbesTotal.WithLabelValues(metric.OutcomeMiss).Inc()
		return false, nil
	}

	if reply != wire.EchoReply {
		p.metrics.ProbesTotal.WithLabelValues(metric.OutcomeUnexpected).Inc()
		return false, domain.ErrUnexpectedResponse.WithDetails(addr.String())
	}

	p.metrics.ProbesTotal.WithLabelValues(metric.OutcomeHit).Inc()
	return true, nil
}
