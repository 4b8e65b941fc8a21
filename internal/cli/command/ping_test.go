package command

import (
	"fmt"
	"strings"
	"testing"
)

func TestPingCommand(t *testing.T) {
	cmd := PingCommand()
	if cmd == nil {
		t.Fatal("PingCommand returned nil")
	}
	if cmd.Name != "ping" {
		t.Errorf("Name = %q, want %q", cmd.Name, "ping")
	}

	flagNames := make(map[string]bool)
	for _, f := range cmd.Flags {
		flagNames[f.Names()[0]] = true
	}
	if !flagNames["count"] {
		t.Error("missing flag: count")
	}
}

func TestPingAction(t *testing.T) {
	t.Run("SingleRoundTrip", func(t *testing.T) {
		ip, port := startPeerServer(t)

		out, err := runApp(t, "--output=json", "ping", fmt.Sprintf("%s:%d", ip, port))
		if err != nil {
			t.Fatalf("ping failed: %v", err)
		}
		if !strings.Contains(out, `"count": 1`) {
			t.Errorf("expected single round trip, got %q", out)
		}
	})

	t.Run("MultipleRoundTrips", func(t *testing.T) {
		ip, port := startPeerServer(t)

		out, err := runApp(t, portArg(port), "--output=json", "ping", "--count=3", ip)
		if err != nil {
			t.Fatalf("ping failed: %v", err)
		}
		if !strings.Contains(out, `"count": 3`) {
			t.Errorf("expected three round trips, got %q", out)
		}
	})

	t.Run("Refused", func(t *testing.T) {
		port := freePort(t)

		if _, err := runApp(t, portArg(port), "ping", "127.0.0.1"); err == nil {
			t.Fatal("expected error for refused connection")
		}
	})

	t.Run("BadCount", func(t *testing.T) {
		ip, port := startPeerServer(t)

		if _, err := runApp(t, portArg(port), "ping", "--count=0", ip); err == nil {
			t.Fatal("expected error for zero count")
		}
	})
}

func TestParsePeerArg(t *testing.T) {
	t.Run("IPOnly", func(t *testing.T) {
		addr, err := parsePeerArg("10.0.0.5", 7890)
		if err != nil {
			t.Fatalf("parsePeerArg() error = %v", err)
		}
		if addr.String() != "10.0.0.5:7890" {
			t.Errorf("addr = %q, want %q", addr.String(), "10.0.0.5:7890")
		}
	})

	t.Run("IPAndPort", func(t *testing.T) {
		addr, err := parsePeerArg("10.0.0.5:9000", 7890)
		if err != nil {
			t.Fatalf("parsePeerArg() error = %v", err)
		}
		if addr.Port != 9000 {
			t.Errorf("Port = %d, want 9000", addr.Port)
		}
	})

	t.Run("Invalid", func(t *testing.T) {
		if _, err := parsePeerArg("nope", 7890); err == nil {
			t.Fatal("expected error for invalid address")
		}
	})
}
