// Package peerserver implements the LanLink peer channel server.
package peerserver

import (
	"net"
	"testing"
)

// pipeConn returns a Conn backed by an in-memory pipe.
func pipeConn(t *testing.T) *Conn {
	t.Helper()
	a, b := net.Pipe()
	t.Cleanup(func() {
		_ = a.Close()
		_ = b.Close()
	})
	return newConn(a)
}

func TestRegistry(t *testing.T) {
	t.Run("AddRemove", func(t *testing.T) {
		reg := NewRegistry(nil)
		c := pipeConn(t)

		reg.Add(c)
		if reg.Len() != 1 {
			t.Fatalf("expected size 1, got %d", reg.Len())
		}

		got, ok := reg.Get(c.ID())
		if !ok || got != c {
			t.Error("expected Get to return the registered connection")
		}

		reg.Remove(c.ID())
		if reg.Len() != 0 {
			t.Errorf("expected size 0 after remove, got %d", reg.Len())
		}
		if _, ok := reg.Get(c.ID()); ok {
			t.Error("expected Get to miss after remove")
		}
	})

	t.Run("RemoveUnknownIsNoop", func(t *testing.T) {
		reg := NewRegistry(nil)
		reg.Remove("cn-doesnotexist")
		if reg.Len() != 0 {
			t.Errorf("expected size 0, got %d", reg.Len())
		}
	})

	t.Run("Snapshot", func(t *testing.T) {
		reg := NewRegistry(nil)
		c1, c2 := pipeConn(t), pipeConn(t)
		reg.Add(c1)
		reg.Add(c2)

		snap := reg.Snapshot()
		if len(snap) != 2 {
			t.Fatalf("expected 2 connections in snapshot, got %d", len(snap))
		}
	})

	t.Run("UniqueIDs", func(t *testing.T) {
		c1, c2 := pipeConn(t), pipeConn(t)
		if c1.ID() == c2.ID() {
			t.Errorf("expected distinct connection IDs, got %s twice", c1.ID())
		}
	})
}
