// Package main provides the entry point for lanlink-server.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/lanlink/lanlink-go/internal/discovery"
	"github.com/lanlink/lanlink-go/internal/infra/buildinfo"
	"github.com/lanlink/lanlink-go/internal/infra/confloader"
	"github.com/lanlink/lanlink-go/internal/infra/shutdown"
	"github.com/lanlink/lanlink-go/internal/server/config"
	"github.com/lanlink/lanlink-go/internal/server/httpserver"
	"github.com/lanlink/lanlink-go/internal/server/peerserver"
	"github.com/lanlink/lanlink-go/internal/telemetry/logger"
	"github.com/lanlink/lanlink-go/internal/telemetry/metric"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("lanlink-server %s\n", buildinfo.String())
		return nil
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	nodeID := "nd-" + strings.ToLower(ulid.Make().String())
	log.Info("starting lanlink-server",
		"node_id", nodeID,
		"version", buildinfo.Get().Version,
		"config", *configFile)

	metrics := metric.NewPrometheusRegistry()

	// Role election: scan the subnet, then join or self-elect.
	coord := newCoordinator(cfg, log, metrics)

	ctx := context.Background()
	svc, err := coord.Service(ctx)
	if err != nil {
		return fmt.Errorf("discovery: %w", err)
	}
	log.Info("node ready",
		"role", svc.Role.String(),
		"local", svc.Local.String(),
		"peer", svc.Peer.String())

	shutdownHandler := shutdown.NewHandler(30 * time.Second)

	// Shutdown hooks run in reverse order of registration.
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down node")
		return coord.Shutdown(ctx)
	})

	if cfg.Admin.Enabled {
		adminServer := startAdmin(cfg, nodeID, svc, log, metrics)
		shutdownHandler.OnShutdown(func(ctx context.Context) error {
			log.Info("shutting down admin server")
			return adminServer.Shutdown(ctx)
		})
	}

	if *configFile != "" {
		watcher, err := watchConfig(*configFile, log)
		if err != nil {
			log.Warn("config watch unavailable", "error", err)
		} else {
			shutdownHandler.OnShutdown(func(ctx context.Context) error {
				return watcher.Stop()
			})
		}
	}

	log.Info("server started, press Ctrl+C to stop")
	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig loads configuration from file and environment.
func loadConfig(configFile string) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	loader := confloader.NewLoader(opts...)
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// initLogger initializes the structured logger and installs it as the
// process default.
func initLogger(cfg *config.ServerConfig) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return nil, err
	}

	logger.SetDefault(log)
	return log, nil
}

// newCoordinator assembles the discovery stack from configuration.
func newCoordinator(cfg *config.ServerConfig, log logger.Logger, metrics *metric.PrometheusRegistry) *discovery.Coordinator {
	var resolver discovery.AddressResolver = discovery.InterfaceResolver{}
	if cfg.Discovery.LocalIP != "" {
		resolver = discovery.StaticResolver(cfg.Discovery.LocalIP)
	}

	prober := discovery.NewProber(cfg.Discovery.ProbeTimeout, log, metrics.Registry)
	scanner := discovery.NewScanner(discovery.ScannerConfig{
		HostMin:       cfg.Discovery.HostMin,
		HostMax:       cfg.Discovery.HostMax,
		MaxConcurrent: cfg.Discovery.MaxConcurrentProbes,
	}, prober, log, metrics.Registry)

	return discovery.NewCoordinator(discovery.CoordinatorConfig{
		Port: cfg.Server.Port,
		Server: peerserver.Config{
			AcceptRateLimit: cfg.Server.AcceptRateLimit,
			IdleTimeout:     cfg.Server.IdleTimeout,
		},
		Scanner:  scanner,
		Resolver: resolver,
	}, log, metrics.Registry)
}

// startAdmin starts the admin HTTP endpoint in the background.
func startAdmin(cfg *config.ServerConfig, nodeID string, svc *discovery.Service, log logger.Logger, metrics *metric.PrometheusRegistry) *httpserver.Server {
	statusFn := func() httpserver.Status {
		connections := 0
		if svc.Server != nil {
			connections = svc.Server.Registry().Len()
		}
		return httpserver.Status{
			NodeID:      nodeID,
			Role:        svc.Role.String(),
			LocalAddr:   svc.Local.String(),
			PeerAddr:    svc.Peer.String(),
			Connections: connections,
			Build:       buildinfo.Get(),
		}
	}

	router := httpserver.NewRouter(&httpserver.RouterConfig{
		Status:  statusFn,
		Metrics: metrics.Handler(),
		Logger:  log,
	})
	adminServer := httpserver.New(cfg.Admin.Addr, router)

	go func() {
		log.Info("admin server listening", "addr", cfg.Admin.Addr)
		if err := adminServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("admin server error", "error", err)
		}
	}()

	return adminServer
}

// watchConfig re-applies the log level when the config file changes.
// Other settings are fixed at startup; role election never re-runs.
func watchConfig(configFile string, log logger.Logger) (*confloader.Watcher, error) {
	watcher, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		return nil, err
	}
	if err := watcher.Watch(configFile); err != nil {
		watcher.Stop()
		return nil, err
	}

	watcher.OnChange(func(path string) {
		cfg, err := loadConfig(path)
		if err != nil {
			log.Warn("config reload failed", "path", path, "error", err)
			return
		}
		if cfg.Log.Level != logger.GetLevel() {
			logger.SetLevel(cfg.Log.Level)
			log.Info("log level updated", "level", cfg.Log.Level)
		}
	})
	watcher.StartAsync()

	return watcher, nil
}
