// Package discovery implements LanLink's subnet peer discovery and role
// election.
package discovery

import (
	"context"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lanlink/lanlink-go/internal/core/domain"
)

// fakeProber answers per host octet, optionally with a delay, without any
// real sockets.
type fakeProber struct {
	hits       map[int]bool       // host octet -> valid liveness reply
	unexpected map[int]bool       // host octet -> wrong-protocol reply
	delays     map[int]time.Duration
	calls      atomic.Int64
}

func (f *fakeProber) Probe(_ context.Context, addr domain.Address) (bool, error) {
	f.calls.Add(1)
	host, err := addr.HostOctet()
	if err != nil {
		return false, nil
	}
	if d, ok := f.delays[host]; ok {
		time.Sleep(d)
	}
	if f.unexpected[host] {
		return false, domain.ErrUnexpectedResponse.WithDetails(addr.String())
	}
	return f.hits[host], nil
}

func TestScan(t *testing.T) {
	ctx := context.Background()

	t.Run("SingleResponder", func(t *testing.T) {
		p := &fakeProber{hits: map[int]bool{7: true}}
		s := NewScanner(DefaultScannerConfig(), p, nil, nil)

		addr, found, err := s.Scan(ctx, "10.0.0.9", 7890)
		if err != nil {
			t.Fatalf("Scan failed: %v", err)
		}
		if !found {
			t.Fatal("expected a peer to be found")
		}
		if addr.IP != "10.0.0.7" || addr.Port != 7890 {
			t.Errorf("expected 10.0.0.7:7890, got %s", addr)
		}
	})

	t.Run("NoResponder", func(t *testing.T) {
		p := &fakeProber{}
		s := NewScanner(DefaultScannerConfig(), p, nil, nil)

		_, found, err := s.Scan(ctx, "10.0.0.5", 7890)
		if err != nil {
			t.Fatalf("Scan failed: %v", err)
		}
		if found {
			t.Error("expected absent when no candidate answers")
		}
		if got := p.calls.Load(); got != 255 {
			t.Errorf("expected 255 probes for the full sweep, got %d", got)
		}
	})

	t.Run("PositionalPriority", func(t *testing.T) {
		// The low host answers slowly, the high host instantly. The
		// scan must still pick the low host: it waits for the whole
		// batch and selects by position, not by response order.
		p := &fakeProber{
			hits:   map[int]bool{20: true, 200: true},
			delays: map[int]time.Duration{20: 100 * time.Millisecond},
		}
		s := NewScanner(DefaultScannerConfig(), p, nil, nil)

		addr, found, err := s.Scan(ctx, "192.168.1.3", 7890)
		if err != nil {
			t.Fatalf("Scan failed: %v", err)
		}
		if !found || addr.IP != "192.168.1.20" {
			t.Errorf("expected 192.168.1.20 to win positionally, got %s (found=%v)", addr, found)
		}
	})

	t.Run("UnexpectedResponseIsAbsence", func(t *testing.T) {
		p := &fakeProber{
			unexpected: map[int]bool{3: true},
			hits:       map[int]bool{9: true},
		}
		s := NewScanner(DefaultScannerConfig(), p, nil, nil)

		addr, found, err := s.Scan(ctx, "10.0.0.5", 7890)
		if err != nil {
			t.Fatalf("unexpected responses must not fail the scan: %v", err)
		}
		if !found || addr.IP != "10.0.0.9" {
			t.Errorf("expected 10.0.0.9, got %s (found=%v)", addr, found)
		}
	})

	t.Run("ConcurrencyCap", func(t *testing.T) {
		p := &fakeProber{hits: map[int]bool{42: true}}
		cfg := DefaultScannerConfig()
		cfg.MaxConcurrent = 8
		s := NewScanner(cfg, p, nil, nil)

		addr, found, err := s.Scan(ctx, "10.0.0.5", 7890)
		if err != nil {
			t.Fatalf("Scan failed: %v", err)
		}
		if !found || addr.IP != "10.0.0.42" {
			t.Errorf("expected the cap to change timing only, got %s (found=%v)", addr, found)
		}
		if got := p.calls.Load(); got != 255 {
			t.Errorf("expected the full sweep under a cap, got %d probes", got)
		}
	})

	t.Run("ConfiguredRange", func(t *testing.T) {
		p := &fakeProber{hits: map[int]bool{250: true}}
		s := NewScanner(ScannerConfig{HostMin: 1, HostMax: 254}, p, nil, nil)

		addr, found, err := s.Scan(ctx, "10.0.0.5", 7890)
		if err != nil {
			t.Fatalf("Scan failed: %v", err)
		}
		if !found || addr.IP != "10.0.0.250" {
			t.Errorf("expected 10.0.0.250, got %s (found=%v)", addr, found)
		}
		if got := p.calls.Load(); got != 254 {
			t.Errorf("expected 254 probes for range 1-254, got %d", got)
		}
	})

	t.Run("BadLocalIP", func(t *testing.T) {
		s := NewScanner(DefaultScannerConfig(), &fakeProber{}, nil, nil)
		if _, _, err := s.Scan(ctx, "::1", 7890); err == nil {
			t.Fatal("expected error for a non-IPv4 local address")
		}
	})
}

// TestScanRealSocket sweeps real loopback sockets: the only listener is a
// peer server on 127.0.0.1, so the scan must return host .1.
func TestScanRealSocket(t *testing.T) {
	srv := startPeerServer(t)
	port := srv.Addr().Port

	p := NewProber(testProbeTimeout, nil, nil)
	s := NewScanner(ScannerConfig{HostMin: 0, HostMax: 3}, p, nil, nil)

	addr, found, err := s.Scan(context.Background(), "127.0.0.1", port)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if !found {
		t.Fatal("expected the running server to be discovered")
	}
	want := "127.0.0.1:" + strconv.Itoa(port)
	if addr.String() != want {
		t.Errorf("expected %s, got %s", want, addr)
	}
	if !strings.HasPrefix(addr.IP, "127.0.0.") {
		t.Errorf("expected a loopback candidate, got %s", addr.IP)
	}
}
