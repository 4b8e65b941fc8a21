// Package wire defines the LanLink wire protocol.
//
// Frames are newline-terminated UTF-8 text over TCP. The only frames in
// the protocol today are the liveness token and its reply; anything else
// is forwarded to the sync layer, which is future work.
package wire

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
)

// Liveness handshake tokens. A listener that answers EchoRequest with
// EchoReply speaks this service's protocol.
const (
	EchoRequest = "LANLINK?"
	EchoReply   = "LANLINK!"
)

// MaxFrameLen limits a single frame (64KB). Liveness frames are 9 bytes;
// the cap exists for the future sync payload and against junk peers.
const MaxFrameLen = 64 * 1024

var (
	ErrProtocol      = errors.New("wire: protocol error")
	ErrLimitExceeded = errors.New("wire: limit exceeded")
)

// ReadFrame reads one newline-terminated frame and returns it without the
// terminator. A trailing CR is stripped so CRLF peers are tolerated.
func ReadFrame(r *bufio.Reader) (string, error) {
	var buf []byte
	for {
		frag, err := r.ReadSlice('\n')
		if err == nil {
			buf = append(buf, frag...)
			break
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			buf = append(buf, frag...)
			if len(buf) > MaxFrameLen {
				return "", fmt.Errorf("%w: frame exceeds %d bytes", ErrLimitExceeded, MaxFrameLen)
			}
			continue
		}
		return "", err
	}

	if len(buf) > MaxFrameLen {
		return "", fmt.Errorf("%w: frame exceeds %d bytes", ErrLimitExceeded, MaxFrameLen)
	}

	line := strings.TrimSuffix(string(buf), "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}

// WriteFrame writes one frame with its terminator. The caller flushes.
func WriteFrame(w *bufio.Writer, frame string) error {
	if len(frame) > MaxFrameLen {
		return fmt.Errorf("%w: frame exceeds %d bytes", ErrLimitExceeded, MaxFrameLen)
	}
	if strings.ContainsAny(frame, "\r\n") {
		return fmt.Errorf("%w: frame contains line terminator", ErrProtocol)
	}
	if _, err := w.WriteString(frame); err != nil {
		return err
	}
	return w.WriteByte('\n')
}
