// Package discovery implements LanLink's subnet peer discovery and role
// election.
package discovery

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lanlink/lanlink-go/internal/core/domain"
	"github.com/lanlink/lanlink-go/internal/telemetry/logger"
	"github.com/lanlink/lanlink-go/internal/telemetry/metric"
)

// prober is the probe capability the scanner depends on.
type prober interface {
	Probe(ctx context.Context, addr domain.Address) (bool, error)
}

// ScannerConfig configures the subnet sweep.
type ScannerConfig struct {
	// HostMin and HostMax bound the swept host octets (inclusive).
	HostMin int
	HostMax int

	// MaxConcurrent caps in-flight probes. 0 launches the whole sweep
	// at once. Bounding changes timing only, never the selected
	// address: selection is positional over the complete batch.
	MaxConcurrent int
}

// DefaultScannerConfig sweeps hosts .0 through .254 unbounded.
func DefaultScannerConfig() ScannerConfig {
	return ScannerConfig{HostMin: 0, HostMax: 254}
}

// Scanner sweeps a /24 subnet for an existing server.
type Scanner struct {
	cfg     ScannerConfig
	prober  prober
	log     logger.Logger
	metrics *metric.Registry
}

// NewScanner creates a scanner using the given prober.
func NewScanner(cfg ScannerConfig, p prober, log logger.Logger, metrics *metric.Registry) *Scanner {
	if log == nil {
		log = logger.Default()
	}
	if metrics == nil {
		metrics = metric.NewNopRegistry()
	}
	return &Scanner{
		cfg:     cfg,
		prober:  p,
		log:     log.With("component", "scanner"),
		metrics: metrics,
	}
}

// Scan probes every candidate in localIP's /24 subnet on the given port
// and returns the answering address with the lowest host octet.
//
// The whole batch is launched and awaited before picking: priority is
// positional, not first-to-respond. Probe failures are absence, never
// errors; only a malformed localIP fails the scan itself.
func (s *Scanner) Scan(ctx context.Context, localIP string, port int) (domain.Address, bool, error) {
	local := domain.NewAddress(localIP, port)
	prefix, err := local.SubnetPrefix()
	if err != nil {
		return domain.Address{}, false, fmt.Errorf("scan: %w", err)
	}

	start := time.Now()
	n := s.cfg.HostMax - s.cfg.HostMin + 1
	found := make([]bool, n)

	g, ctx := errgroup.WithContext(ctx)
	if s.cfg.MaxConcurrent > 0 {
		g.SetLimit(s.cfg.MaxConcurrent)
	}

	s.log.Debug("scan started",
		"prefix", prefix,
		"port", port,
		"hosts", n)

	for i := 0; i < n; i++ {
		host := s.cfg.HostMin + i
		idx := i
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			candidate := domain.NewAddress(fmt.Sprintf("%s.%d", prefix, host), port)
			ok, err := s.prober.Probe(ctx, candidate)
			if err != nil {
				// A reachable address that does not speak the
				// protocol. Logged, counted, treated as absent.
				s.log.Warn("probe got unexpected response",
					"addr", candidate.String(),
					"error", err)
				return nil
			}
			found[idx] = ok
			return nil
		})
	}

	_ = g.Wait()
	s.metrics.ScanDuration.Observe(time.Since(start).Seconds())

	for i := 0; i < n; i++ {
		if found[i] {
			addr := domain.NewAddress(fmt.Sprintf("%s.%d", prefix, s.cfg.HostMin+i), port)
			s.log.Info("peer found",
				"addr", addr.String(),
				"elapsed", time.Since(start))
			s.metrics.ScansTotal.WithLabelValues(metric.ResultPeerFound).Inc()
			return addr, true, nil
		}
	}

	s.log.Info("no peer found", "prefix", prefix, "elapsed", time.Since(start))
	s.metrics.ScansTotal.WithLabelValues(metric.ResultNone).Inc()
	return domain.Address{}, false, nil
}
