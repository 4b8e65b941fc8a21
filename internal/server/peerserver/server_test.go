// Package peerserver implements the LanLink peer channel server.
package peerserver

import (
	"bufio"
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/lanlink/lanlink-go/internal/core/domain"
	"github.com/lanlink/lanlink-go/internal/wire"
)

// startTestServer starts a server on an ephemeral port and returns it with
// a cleanup that shuts it down.
func startTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()

	cfg.IP = "127.0.0.1"
	s := New(cfg, nil, nil)
	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	})
	return s
}

func dialTestServer(t *testing.T, s *Server) net.Conn {
	t.Helper()
	c, err := net.Dial("tcp", s.Addr().String())
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func waitForRegistrySize(t *testing.T, reg *Registry, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if reg.Len() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("registry size did not reach %d (got %d)", want, reg.Len())
}

func TestServerEcho(t *testing.T) {
	s := startTestServer(t, Config{Port: 0})
	c := dialTestServer(t, s)

	bw := bufio.NewWriter(c)
	if err := wire.WriteFrame(bw, wire.EchoRequest); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	if err := bw.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	_ = c.SetReadDeadline(time.Now().Add(2 * time.Second))
	reply, err := wire.ReadFrame(bufio.NewReader(c))
	if err != nil {
		t.Fatalf("read reply: %v", err)
	}
	if reply != wire.EchoReply {
		t.Errorf("expected %q, got %q", wire.EchoReply, reply)
	}
}

func TestServerUnknownFrame(t *testing.T) {
	s := startTestServer(t, Config{Port: 0})
	c := dialTestServer(t, s)

	bw := bufio.NewWriter(c)
	br := bufio.NewReader(c)

	// Unknown payloads produce no reply and do not close the connection.
	if err := wire.WriteFrame(bw, "SYNC sometime-later"); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	// The liveness token right after must still get its reply.
	if err := wire.WriteFrame(bw, wire.EchoRequest); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	if err := bw.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	_ = c.SetReadDeadline(time.Now().Add(2 * time.Second))
	reply, err := wire.ReadFrame(br)
	if err != nil {
		t.Fatalf("read reply: %v", err)
	}
	if reply != wire.EchoReply {
		t.Errorf("expected the echo reply as the only response, got %q", reply)
	}
}

func TestServerBindError(t *testing.T) {
	first := startTestServer(t, Config{Port: 0})

	second := New(Config{IP: "127.0.0.1", Port: first.Addr().Port}, nil, nil)
	err := second.Start()
	if err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = second.Shutdown(ctx)
		t.Fatal("expected bind error for an already-bound port")
	}
	if !errors.Is(err, domain.ErrBindFailed) {
		t.Errorf("expected ErrBindFailed, got %v", err)
	}
}

func TestRegistryDrainsOnClose(t *testing.T) {
	s := startTestServer(t, Config{Port: 0})

	conns := make([]net.Conn, 0, 3)
	for i := 0; i < 3; i++ {
		conns = append(conns, dialTestServer(t, s))
	}
	waitForRegistrySize(t, s.Registry(), 3)

	for _, c := range conns {
		_ = c.Close()
	}
	waitForRegistrySize(t, s.Registry(), 0)
}

func TestServerIdleTimeout(t *testing.T) {
	s := startTestServer(t, Config{Port: 0, IdleTimeout: 50 * time.Millisecond})
	c := dialTestServer(t, s)

	waitForRegistrySize(t, s.Registry(), 1)

	// Without any inbound frames the server must drop the connection.
	_ = c.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 1)
	if _, err := c.Read(buf); err == nil {
		t.Error("expected the server to close the idle connection")
	}
	waitForRegistrySize(t, s.Registry(), 0)
}

func TestServerAcceptRateLimit(t *testing.T) {
	s := startTestServer(t, Config{Port: 0, AcceptRateLimit: 1})

	// First connection consumes the burst allowance.
	first := dialTestServer(t, s)
	waitForRegistrySize(t, s.Registry(), 1)

	// Second connection from the same IP inside the same window is
	// accepted at the socket level then immediately closed.
	second := dialTestServer(t, s)
	_ = second.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 1)
	if _, err := second.Read(buf); err == nil {
		t.Error("expected the rate-limited connection to be closed")
	}

	// The first connection still answers liveness.
	bw := bufio.NewWriter(first)
	if err := wire.WriteFrame(bw, wire.EchoRequest); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	if err := bw.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	_ = first.SetReadDeadline(time.Now().Add(2 * time.Second))
	reply, err := wire.ReadFrame(bufio.NewReader(first))
	if err != nil {
		t.Fatalf("read reply: %v", err)
	}
	if reply != wire.EchoReply {
		t.Errorf("expected %q, got %q", wire.EchoReply, reply)
	}
}
