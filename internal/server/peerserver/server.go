// Package peerserver implements the LanLink peer channel server.
//
// The server binds the well-known service port, accepts inbound peer
// connections, and answers liveness tokens on each of them. Accepted
// connections are tracked in a Registry for the lifetime of the socket.
package peerserver

import (
	"context"
	"errors"
	"io"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/lanlink/lanlink-go/internal/core/domain"
	"github.com/lanlink/lanlink-go/internal/telemetry/logger"
	"github.com/lanlink/lanlink-go/internal/telemetry/metric"
)

// Config holds the peer server configuration.
type Config struct {
	// IP is the local address to bind. Empty binds all interfaces.
	IP string

	// Port is the well-known service port.
	Port int

	// AcceptRateLimit is the maximum accepted connections per second per
	// remote IP. 0 disables rate limiting.
	AcceptRateLimit int

	// IdleTimeout closes connections idle for this long. 0 disables it;
	// connections then live until socket-level failure, matching the
	// core contract.
	IdleTimeout time.Duration
}

// Server accepts peer connections and serves the liveness protocol.
type Server struct {
	cfg      Config
	log      logger.Logger
	metrics  *metric.Registry
	registry *Registry

	ln      net.Listener
	running atomic.Bool
	wg      sync.WaitGroup

	limiterMu sync.Mutex
	limiters  map[string]*rate.Limiter
}

// New creates a peer server. Start must be called to bind the socket.
func New(cfg Config, log logger.Logger, metrics *metric.Registry) *Server {
	if log == nil {
		log = logger.Default()
	}
	if metrics == nil {
		metrics = metric.NewNopRegistry()
	}
	return &Server{
		cfg:      cfg,
		log:      log.With("component", "server"),
		metrics:  metrics,
		registry: NewRegistry(metrics),
		limiters: make(map[string]*rate.Limiter),
	}
}

// Registry returns the server's connection registry.
func (s *Server) Registry() *Registry {
	return s.registry
}

// Addr returns the bound address. Valid only after Start succeeds.
func (s *Server) Addr() domain.Address {
	if s.ln == nil {
		return domain.Address{}
	}
	tcp, ok := s.ln.Addr().(*net.TCPAddr)
	if !ok {
		return domain.Address{}
	}
	ip := s.cfg.IP
	if ip == "" {
		ip = tcp.IP.String()
	}
	return domain.NewAddress(ip, tcp.Port)
}

// Start binds the listening socket and launches the accept loop.
//
// Binding failure (port in use or other OS-level error) is fatal: the
// error is returned to the caller, no retry, no fallback port. The accept
// loop runs in its own goroutine; Start does not block.
func (s *Server) Start() error {
	addr := net.JoinHostPort(s.cfg.IP, strconv.Itoa(s.cfg.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		s.log.Error("bind failed", "addr", addr, "error", err)
		return domain.ErrBindFailed.WithDetails(addr).WithCause(err)
	}

	s.ln = ln
	s.running.Store(true)
	s.log.Info("peer server listening", "addr", ln.Addr().String())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.acceptLoop(); err != nil && s.running.Load() {
			s.log.Error("accept loop error", "error", err)
		}
	}()

	return nil
}

// Shutdown closes the listener and all registered connections, then waits
// for the per-connection goroutines to drain.
func (s *Server) Shutdown(ctx context.Context) error {
	s.running.Store(false)

	var firstErr error
	if s.ln != nil {
		if err := s.ln.Close(); err != nil {
			firstErr = err
		}
	}

	for _, c := range s.registry.Snapshot() {
		_ = c.Close()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	return firstErr
}

func (s *Server) acceptLoop() error {
	for {
		c, err := s.ln.Accept()
		if err != nil {
			if !s.running.Load() {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}

		if !s.allowRemote(c) {
			s.log.Warn("connection rejected by rate limit", "remote", c.RemoteAddr())
			_ = c.Close()
			continue
		}

		conn := newConn(c)
		s.registry.Add(conn)
		s.log.Debug("connection accepted",
			"conn_id", conn.ID(),
			"remote", conn.RemoteAddr())

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.serveConn(conn)
		}()
	}
}

// serveConn is the per-connection protocol loop. The connection is in the
// registry on entry and out of it on every exit path.
func (s *Server) serveConn(c *Conn) {
	defer func() {
		_ = c.Close()
		s.registry.Remove(c.ID())
		s.log.Debug("connection closed", "conn_id", c.ID())
	}()

	for {
		if s.cfg.IdleTimeout > 0 {
			if err := c.netConn.SetReadDeadline(time.Now().Add(s.cfg.IdleTimeout)); err != nil {
				return
			}
		}

		frame, err := c.ReadFrame()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.log.Debug("remote disconnected", "conn_id", c.ID())
				return
			}
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				s.log.Debug("connection idle timeout", "conn_id", c.ID())
				return
			}
			s.log.Warn("connection read error", "conn_id", c.ID(), "error", err)
			return
		}

		if err := s.handleFrame(c, frame); err != nil {
			s.log.Warn("connection write error", "conn_id", c.ID(), "error", err)
			return
		}
	}
}

// allowRemote applies the per-IP accept rate limit.
func (s *Server) allowRemote(c net.Conn) bool {
	if s.cfg.AcceptRateLimit <= 0 {
		return true
	}

	host, _, err := net.SplitHostPort(c.RemoteAddr().String())
	if err != nil {
		return true
	}

	s.limiterMu.Lock()
	lim, ok := s.limiters[host]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(s.cfg.AcceptRateLimit), s.cfg.AcceptRateLimit)
		s.limiters[host] = lim
	}
	s.limiterMu.Unlock()

	return lim.Allow()
}
