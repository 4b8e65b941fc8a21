// Package command provides CLI command definitions for LanLink.
package command

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/lanlink/lanlink-go/internal/core/domain"
	"github.com/lanlink/lanlink-go/internal/discovery"
	"github.com/lanlink/lanlink-go/internal/telemetry/metric"
)

// ProbeCommand returns the probe command.
func ProbeCommand() *cli.Command {
	return &cli.Command{
		Name:      "probe",
		Usage:     "Check whether a peer server is listening at an address",
		ArgsUsage: "<ip>",
		Action:    probeAction,
	}
}

// ProbeResult is the output of a single liveness probe.
type ProbeResult struct {
	Addr  string        `json:"addr" yaml:"addr"`
	Alive bool          `json:"alive" yaml:"alive"`
	RTT   time.Duration `json:"rtt" yaml:"rtt"`
}

func probeAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one address argument")
	}

	flags := ParseGlobalFlags(c)
	ip := c.Args().First()
	if net.ParseIP(ip) == nil {
		return fmt.Errorf("invalid IP address %q", ip)
	}
	addr := domain.NewAddress(ip, flags.Port)

	prober := discovery.NewProber(flags.Timeout, commandLogger(flags), metric.NewNopRegistry())

	start := time.Now()
	alive, err := prober.Probe(c.Context, addr)
	rtt := time.Since(start)

	// A listener speaking the wrong protocol is a result, not a failure.
	if err != nil && !errors.Is(err, domain.ErrUnexpectedResponse) {
		return err
	}

	return writeResult(c, ProbeResult{
		Addr:  addr.String(),
		Alive: alive,
		RTT:   rtt,
	})
}
