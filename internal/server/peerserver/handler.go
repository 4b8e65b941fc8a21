// Package peerserver implements the LanLink peer channel server.
package peerserver

import (
	"github.com/lanlink/lanlink-go/internal/telemetry/metric"
	"github.com/lanlink/lanlink-go/internal/wire"
)

// handleFrame processes one inbound frame on an open connection. Each
// frame is handled independently of its position in the stream.
//
// A liveness token gets the liveness reply on the same connection. Any
// other payload belongs to the sync protocol, which does not exist yet;
// it is logged and dropped without a reply.
func (s *Server) handleFrame(c *Conn, frame string) error {
	switch frame {
	case wire.EchoRequest:
		s.metrics.FramesTotal.WithLabelValues(metric.KindLiveness).Inc()
		return c.WriteFrame(wire.EchoReply)
	default:
		s.metrics.FramesTotal.WithLabelValues(metric.KindUnknown).Inc()
		s.log.Info("unhandled frame",
			"conn_id", c.ID(),
			"remote", c.RemoteAddr(),
			"len", len(frame))
		return nil
	}
}
