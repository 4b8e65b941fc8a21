// Package command provides CLI command definitions for LanLink.
package command

import (
	"time"

	"github.com/urfave/cli/v2"

	"github.com/lanlink/lanlink-go/internal/discovery"
	"github.com/lanlink/lanlink-go/internal/telemetry/metric"
)

// ScanCommand returns the scan command.
func ScanCommand() *cli.Command {
	return &cli.Command{
		Name:  "scan",
		Usage: "Sweep the local /24 subnet for a running peer server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "local-ip",
				Usage: "Local IPv4 address anchoring the subnet (default: auto-detect)",
			},
			&cli.IntFlag{
				Name:  "host-min",
				Usage: "Lowest host octet to probe",
				Value: discovery.DefaultScannerConfig().HostMin,
			},
			&cli.IntFlag{
				Name:  "host-max",
				Usage: "Highest host octet to probe",
				Value: discovery.DefaultScannerConfig().HostMax,
			},
			&cli.IntFlag{
				Name:  "max-concurrent",
				Usage: "Cap on in-flight probes (0 = launch all at once)",
			},
		},
		Action: scanAction,
	}
}

// ScanResult is the output of a subnet sweep.
type ScanResult struct {
	LocalIP  string        `json:"local_ip" yaml:"local_ip"`
	Found    bool          `json:"found" yaml:"found"`
	Peer     string        `json:"peer,omitempty" yaml:"peer,omitempty"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

func scanAction(c *cli.Context) error {
	flags := ParseGlobalFlags(c)
	log := commandLogger(flags)

	localIP := c.String("local-ip")
	if localIP == "" {
		ip, err := discovery.InterfaceResolver{}.LocalAddress()
		if err != nil {
			return err
		}
		localIP = ip
	}

	scannerCfg := discovery.ScannerConfig{
		HostMin:       c.Int("host-min"),
		HostMax:       c.Int("host-max"),
		MaxConcurrent: c.Int("max-concurrent"),
	}
	prober := discovery.NewProber(flags.Timeout, log, metric.NewNopRegistry())
	scanner := discovery.NewScanner(scannerCfg, prober, log, metric.NewNopRegistry())

	start := time.Now()
	peer, found, err := scanner.Scan(c.Context, localIP, flags.Port)
	if err != nil {
		return err
	}

	result := ScanResult{
		LocalIP:  localIP,
		Found:    found,
		Duration: time.Since(start),
	}
	if found {
		result.Peer = peer.String()
	}

	return writeResult(c, result)
}
