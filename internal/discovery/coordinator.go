// Package discovery implements LanLink's subnet peer discovery and role
// election.
package discovery

import (
	"context"
	"fmt"
	"sync"

	"github.com/lanlink/lanlink-go/internal/client"
	"github.com/lanlink/lanlink-go/internal/core/domain"
	"github.com/lanlink/lanlink-go/internal/server/peerserver"
	"github.com/lanlink/lanlink-go/internal/telemetry/logger"
	"github.com/lanlink/lanlink-go/internal/telemetry/metric"
)

// CoordinatorConfig configures role election.
type CoordinatorConfig struct {
	// Port is the well-known service port shared by all nodes.
	Port int

	// Server carries listener options applied if this node self-elects.
	// IP and Port are filled in by the coordinator.
	Server peerserver.Config

	// Scanner sweeps the subnet. Required.
	Scanner *Scanner

	// Resolver supplies this node's own address. Required.
	Resolver AddressResolver
}

// Service is the outcome of role election: the elected role, at most one
// Server (nil when this node joined an existing one), and exactly one
// Client.
type Service struct {
	Role   domain.Role
	Local  domain.Address
	Peer   domain.Address
	Server *peerserver.Server
	Client *client.Client
}

// Coordinator performs role election once per process and caches the
// resulting Service. It is constructed explicitly by the composition root
// and owns the Server/Client pair it creates.
type Coordinator struct {
	cfg     CoordinatorConfig
	log     logger.Logger
	metrics *metric.Registry

	mu  sync.Mutex
	svc *Service
}

// NewCoordinator creates a coordinator. Election runs on the first call
// to Service.
func NewCoordinator(cfg CoordinatorConfig, log logger.Logger, metrics *metric.Registry) *Coordinator {
	if log == nil {
		log = logger.Default()
	}
	if metrics == nil {
		metrics = metric.NewNopRegistry()
	}
	return &Coordinator{
		cfg:     cfg,
		log:     log.With("component", "discovery"),
		metrics: metrics,
	}
}

// Service returns the elected service, running discovery on the first
// call. Concurrent first calls run exactly one election: a second caller
// blocks until the first completes and receives the same Service. A
// failed election leaves no cached state, so the next call retries.
func (c *Coordinator) Service(ctx context.Context) (*Service, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.svc != nil {
		return c.svc, nil
	}

	svc, err := c.elect(ctx)
	if err != nil {
		return nil, err
	}

	c.svc = svc
	return svc, nil
}

// elect resolves the local address, scans the subnet, and takes the
// client-only or server+client role.
func (c *Coordinator) elect(ctx context.Context) (*Service, error) {
	ip, err := c.cfg.Resolver.LocalAddress()
	if err != nil {
		return nil, fmt.Errorf("resolve local address: %w", err)
	}
	local := domain.NewAddress(ip, c.cfg.Port)
	c.log.Info("local address resolved", "addr", local.String())

	peer, found, err := c.cfg.Scanner.Scan(ctx, ip, c.cfg.Port)
	if err != nil {
		return nil, err
	}

	if found {
		// Join the existing server; no Server on this node.
		cl, err := client.Connect(peer, c.log)
		if err != nil {
			return nil, fmt.Errorf("join peer %s: %w", peer, err)
		}
		c.log.Info("role elected",
			"role", domain.RoleClient.String(),
			"peer", peer.String())
		return &Service{
			Role:   domain.RoleClient,
			Local:  local,
			Peer:   peer,
			Client: cl,
		}, nil
	}

	// Self-elect: bind our own server, then loop a client back to it so
	// every node ends up with exactly one Client.
	srvCfg := c.cfg.Server
	srvCfg.IP = ip
	srvCfg.Port = c.cfg.Port

	srv := peerserver.New(srvCfg, c.log, c.metrics)
	if err := srv.Start(); err != nil {
		return nil, err
	}

	cl, err := client.Connect(local, c.log)
	if err != nil {
		_ = srv.Shutdown(ctx)
		return nil, fmt.Errorf("self connect: %w", err)
	}

	c.log.Info("role elected",
		"role", domain.RoleServerClient.String(),
		"addr", local.String())
	return &Service{
		Role:   domain.RoleServerClient,
		Local:  local,
		Peer:   local,
		Server: srv,
		Client: cl,
	}, nil
}

// Shutdown tears down whatever the election created. Safe to call before
// the first election.
func (c *Coordinator) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	svc := c.svc
	c.svc = nil
	c.mu.Unlock()

	if svc == nil {
		return nil
	}

	var firstErr error
	if svc.Client != nil {
		if err := svc.Client.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if svc.Server != nil {
		if err := svc.Server.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
