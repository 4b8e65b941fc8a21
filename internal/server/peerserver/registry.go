// Package peerserver implements the LanLink peer channel server.
package peerserver

import (
	"sync"

	"github.com/lanlink/lanlink-go/internal/telemetry/metric"
)

// Registry tracks currently open accepted connections by connection ID.
//
// Every accepted connection is added exactly once, and the close path
// always removes its entry, so the registry size returns to zero when all
// connections are gone.
type Registry struct {
	mu      sync.RWMutex
	conns   map[string]*Conn
	metrics *metric.Registry
}

// NewRegistry creates an empty connection registry.
func NewRegistry(metrics *metric.Registry) *Registry {
	if metrics == nil {
		metrics = metric.NewNopRegistry()
	}
	return &Registry{
		conns:   make(map[string]*Conn),
		metrics: metrics,
	}
}

// Add registers an accepted connection.
func (r *Registry) Add(c *Conn) {
	r.mu.Lock()
	r.conns[c.ID()] = c
	r.mu.Unlock()

	r.metrics.ConnectionsTotal.Inc()
	r.metrics.ConnectionsActive.Inc()
}

// Remove deregisters a connection. Removing an unknown ID is a no-op.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	_, ok := r.conns[id]
	if ok {
		delete(r.conns, id)
	}
	r.mu.Unlock()

	if ok {
		r.metrics.ConnectionsActive.Dec()
	}
}

// Get returns the connection with the given ID, if registered.
func (r *Registry) Get(id string) (*Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.conns[id]
	return c, ok
}

// Len returns the number of registered connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// Snapshot returns the registered connections at this moment.
func (r *Registry) Snapshot() []*Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Conn, 0, len(r.conns))
	for _, c := range r.conns {
		out = append(out, c)
	}
	return out
}
