// Package client implements the outbound LanLink peer connection.
//
// Every node ends discovery with exactly one Client: either connected to
// the server it found on the subnet, or looped back to its own server.
package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lanlink/lanlink-go/internal/core/domain"
	"github.com/lanlink/lanlink-go/internal/telemetry/logger"
	"github.com/lanlink/lanlink-go/internal/wire"
)

// frameBuffer bounds the inbound frame channel. When the application is
// not draining frames, the oldest are dropped rather than blocking the
// read loop.
const frameBuffer = 16

// Client owns one outbound socket to a peer server.
type Client struct {
	peer domain.Address
	log  logger.Logger

	conn net.Conn
	br   *bufio.Reader
	bw   *bufio.Writer

	writeMu sync.Mutex
	closed  atomic.Bool
	frames  chan string
	done    chan struct{}
}

// Connect opens an outbound socket to the peer. Connection failure is
// returned to the caller; there is no retry at this layer.
func Connect(peer domain.Address, log logger.Logger) (*Client, error) {
	if log == nil {
		log = logger.Default()
	}

	conn, err := net.Dial("tcp", peer.String())
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", peer, err)
	}

	c := &Client{
		peer:   peer,
		log:    log.With("component", "client", "peer", peer.String()),
		conn:   conn,
		br:     bufio.NewReader(conn),
		bw:     bufio.NewWriter(conn),
		frames: make(chan string, frameBuffer),
		done:   make(chan struct{}),
	}

	c.log.Info("connected to peer")
	go c.readLoop()

	return c, nil
}

// Peer returns the address this client is connected to.
func (c *Client) Peer() domain.Address {
	return c.peer
}

// Send writes one frame to the peer.
func (c *Client) Send(frame string) error {
	if c.closed.Load() {
		return domain.ErrConnectionClosed
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := wire.WriteFrame(c.bw, frame); err != nil {
		return err
	}
	return c.bw.Flush()
}

// Frames returns the inbound frame channel. The channel closes when the
// connection is destroyed.
func (c *Client) Frames() <-chan string {
	return c.frames
}

// Ping sends the liveness token and waits for the liveness reply,
// returning the round-trip time. Frames other than the reply that arrive
// while waiting are ignored for timing purposes.
func (c *Client) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if err := c.Send(wire.EchoRequest); err != nil {
		return 0, err
	}

	for {
		select {
		case frame, ok := <-c.frames:
			if !ok {
				return 0, domain.ErrConnectionClosed
			}
			if frame == wire.EchoReply {
				return time.Since(start), nil
			}
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
}

// Close destroys the local socket. Safe to call more than once.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := c.conn.Close()
	<-c.done
	return err
}

// Closed reports whether the connection has been destroyed.
func (c *Client) Closed() bool {
	return c.closed.Load()
}

// readLoop receives inbound frames until the socket closes or errors. On
// remote close or socket error the local socket is destroyed; no
// reconnection is attempted.
func (c *Client) readLoop() {
	defer func() {
		c.closed.Store(true)
		_ = c.conn.Close()
		close(c.frames)
		close(c.done)
	}()

	for {
		frame, err := wire.ReadFrame(c.br)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				c.log.Info("peer disconnected")
			} else if !c.closed.Load() {
				c.log.Warn("socket error", "error", err)
			}
			return
		}

		c.log.Debug("frame received", "len", len(frame))

		select {
		case c.frames <- frame:
		default:
			// Drop the oldest so a non-draining application never
			// stalls the socket.
			select {
			case <-c.frames:
			default:
			}
			c.frames <- frame
		}
	}
}
