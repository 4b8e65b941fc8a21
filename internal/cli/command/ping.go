// Package command provides CLI command definitions for LanLink.
package command

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/lanlink/lanlink-go/internal/client"
	"github.com/lanlink/lanlink-go/internal/core/domain"
)

// PingCommand returns the ping command.
func PingCommand() *cli.Command {
	return &cli.Command{
		Name:      "ping",
		Usage:     "Measure echo round-trip time against a peer server",
		ArgsUsage: "<ip[:port]>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"c"},
				Usage:   "Number of echo round trips",
				Value:   1,
			},
		},
		Action: pingAction,
	}
}

// PingResult is the output of an echo round-trip measurement.
type PingResult struct {
	Peer   string        `json:"peer" yaml:"peer"`
	Count  int           `json:"count" yaml:"count"`
	MinRTT time.Duration `json:"min_rtt" yaml:"min_rtt"`
	MaxRTT time.Duration `json:"max_rtt" yaml:"max_rtt"`
	AvgRTT time.Duration `json:"avg_rtt" yaml:"avg_rtt"`
}

func pingAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one address argument")
	}

	flags := ParseGlobalFlags(c)
	peer, err := parsePeerArg(c.Args().First(), flags.Port)
	if err != nil {
		return err
	}

	count := c.Int("count")
	if count < 1 {
		return fmt.Errorf("count must be at least 1")
	}

	cl, err := client.Connect(peer, commandLogger(flags))
	if err != nil {
		return err
	}
	defer cl.Close()

	result := PingResult{Peer: peer.String(), Count: count}
	var total time.Duration
	for i := 0; i < count; i++ {
		ctx, cancel := context.WithTimeout(c.Context, flags.Timeout)
		rtt, err := cl.Ping(ctx)
		cancel()
		if err != nil {
			return fmt.Errorf("ping %s: %w", peer.String(), err)
		}

		total += rtt
		if result.MinRTT == 0 || rtt < result.MinRTT {
			result.MinRTT = rtt
		}
		if rtt > result.MaxRTT {
			result.MaxRTT = rtt
		}
	}
	result.AvgRTT = total / time.Duration(count)

	return writeResult(c, result)
}

// parsePeerArg accepts "ip" or "ip:port", defaulting to the global port.
func parsePeerArg(arg string, defaultPort int) (domain.Address, error) {
	if strings.Contains(arg, ":") {
		return domain.ParseAddress(arg)
	}
	if net.ParseIP(arg) == nil {
		return domain.Address{}, fmt.Errorf("invalid IP address %q", arg)
	}
	return domain.NewAddress(arg, defaultPort), nil
}
