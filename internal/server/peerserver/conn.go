// Package peerserver implements the LanLink peer channel server.
package peerserver

import (
	"bufio"
	"net"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/oklog/ulid/v2"

	"github.com/lanlink/lanlink-go/internal/core/domain"
	"github.com/lanlink/lanlink-go/internal/wire"
)

// ConnIDPrefix is the prefix for connection IDs.
const ConnIDPrefix = "cn-"

// Conn represents a single accepted peer connection.
type Conn struct {
	id      string
	netConn net.Conn
	br      *bufio.Reader
	bw      *bufio.Writer

	writeMu sync.Mutex
	closed  atomic.Bool
}

func newConn(c net.Conn) *Conn {
	return &Conn{
		id:      ConnIDPrefix + strings.ToLower(ulid.Make().String()),
		netConn: c,
		br:      bufio.NewReader(c),
		bw:      bufio.NewWriter(c),
	}
}

// ID returns the connection's unique identifier.
func (c *Conn) ID() string {
	return c.id
}

// RemoteAddr returns the remote peer address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.netConn.RemoteAddr()
}

// Close closes the underlying socket exactly once.
func (c *Conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.netConn.Close()
}

// Closed reports whether the connection has been closed.
func (c *Conn) Closed() bool {
	return c.closed.Load()
}

// ReadFrame reads the next inbound frame.
func (c *Conn) ReadFrame() (string, error) {
	return wire.ReadFrame(c.br)
}

// WriteFrame writes a frame and flushes it on the socket.
func (c *Conn) WriteFrame(frame string) error {
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
