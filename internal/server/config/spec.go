// Package config defines the daemon configuration structure.
package config

import "time"

// ServerConfig is the root configuration for lanlink-server.
type ServerConfig struct {
	Server    ServerSection    `koanf:"server"`
	Discovery DiscoverySection `koanf:"discovery"`
	Admin     AdminSection     `koanf:"admin"`
	Log       LogSection       `koanf:"log"`
}

// ServerSection configures the peer channel listener.
type ServerSection struct {
	// Port is the well-known service port shared by all nodes.
	Port int `koanf:"port"`

	// AcceptRateLimit is the maximum accepted connections per second
	// per remote IP. 0 disables rate limiting.
	AcceptRateLimit int `koanf:"accept_rate_limit"`

	// IdleTimeout closes connections with no inbound frames for this
	// long. 0 disables the idle timeout (connections live until
	// socket-level failure).
	IdleTimeout time.Duration `koanf:"idle_timeout"`
}

// DiscoverySection configures the subnet scan.
type DiscoverySection struct {
	// LocalIP overrides local address resolution. Empty means resolve
	// from the first active non-loopback IPv4 interface.
	LocalIP string `koanf:"local_ip"`

	// ProbeTimeout bounds each probe's connect and reply wait.
	ProbeTimeout time.Duration `koanf:"probe_timeout"`

	// HostMin and HostMax bound the swept host octets (inclusive).
	HostMin int `koanf:"host_min"`
	HostMax int `koanf:"host_max"`

	// MaxConcurrentProbes caps in-flight probes. 0 means launch the
	// whole sweep at once.
	MaxConcurrentProbes int `koanf:"max_concurrent_probes"`
}

// AdminSection configures the local admin/metrics HTTP endpoint.
type AdminSection struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
