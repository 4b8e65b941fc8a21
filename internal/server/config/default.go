// Package config defines the daemon configuration structure.
package config

import "time"

// Default configuration values.
const (
	DefaultPort         = 7890
	DefaultProbeTimeout = 500 * time.Millisecond
	DefaultHostMin      = 0
	DefaultHostMax      = 254

	DefaultAdminAddr = "127.0.0.1:7891"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default daemon configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			Port: DefaultPort,
		},
		Discovery: DiscoverySection{
			ProbeTimeout: DefaultProbeTimeout,
			HostMin:      DefaultHostMin,
			HostMax:      DefaultHostMax,
		},
		Admin: AdminSection{
			Enabled: true,
			Addr:    DefaultAdminAddr,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
