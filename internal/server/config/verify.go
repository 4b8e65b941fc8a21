// Package config defines the daemon configuration structure.
package config

import (
	"errors"
	"fmt"
	"net"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyDiscovery(&cfg.Discovery); err != nil {
		return err
	}
	if err := verifyAdmin(&cfg.Admin); err != nil {
		return err
	}
	return verifyLog(&cfg.Log)
}

func verifyServer(cfg *ServerSection) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("server.port must be 1-65535, got %d", cfg.Port)
	}
	if cfg.AcceptRateLimit < 0 {
		return errors.New("server.accept_rate_limit must not be negative")
	}
	if cfg.IdleTimeout < 0 {
		return errors.New("server.idle_timeout must not be negative")
	}
	return nil
}

func verifyDiscovery(cfg *DiscoverySection) error {
	if cfg.LocalIP != "" {
		ip := net.ParseIP(cfg.LocalIP)
		if ip == nil || ip.To4() == nil {
			return fmt.Errorf("discovery.local_ip %q is not an IPv4 address", cfg.LocalIP)
		}
	}
	if cfg.ProbeTimeout <= 0 {
		return errors.New("discovery.probe_timeout must be positive")
	}
	if cfg.HostMin < 0 || cfg.HostMax > 255 || cfg.HostMin > cfg.HostMax {
		return fmt.Errorf("discovery host range %d-%d is invalid", cfg.HostMin, cfg.HostMax)
	}
	if cfg.MaxConcurrentProbes < 0 {
		return errors.New("discovery.max_concurrent_probes must not be negative")
	}
	return nil
}

func verifyAdmin(cfg *AdminSection) error {
	if !cfg.Enabled {
		return nil
	}
	if _, _, err := net.SplitHostPort(cfg.Addr); err != nil {
		return fmt.Errorf("admin.addr %q is not host:port", cfg.Addr)
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	switch cfg.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug/info/warn/error", cfg.Level)
	}
	switch cfg.Format {
	case "", "json", "text", "console":
	default:
		return fmt.Errorf("log.format %q is not one of json/text", cfg.Format)
	}
	return nil
}
