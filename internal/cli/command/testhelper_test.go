package command

import (
	"bytes"
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/lanlink/lanlink-go/internal/server/peerserver"
)

// runApp runs the CLI app with the given args and captures stdout-bound
// formatter output.
func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()

	app := App()
	var buf bytes.Buffer
	app.Writer = &buf

	argv := append([]string{"lanlink-cli"}, args...)
	err := app.RunContext(context.Background(), argv)
	return buf.String(), err
}

// startPeerServer starts a peer server on an ephemeral loopback port and
// returns its IP and port.
func startPeerServer(t *testing.T) (string, int) {
	t.Helper()

	srv := peerserver.New(peerserver.Config{IP: "127.0.0.1", Port: 0}, nil, nil)
	if err := srv.Start(); err != nil {
		t.Fatalf("start peer server: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	})

	addr := srv.Addr()
	return addr.IP, addr.Port
}

// freePort returns a loopback port with no listener on it.
func freePort(t *testing.T) int {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("reserve port: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()
	return port
}

func portArg(port int) string {
	return "--port=" + strconv.Itoa(port)
}
