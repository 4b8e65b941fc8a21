// Package command provides CLI command definitions for LanLink.
package command

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/lanlink/lanlink-go/internal/cli/output"
	"github.com/lanlink/lanlink-go/internal/infra/buildinfo"
	"github.com/lanlink/lanlink-go/internal/server/config"
	"github.com/lanlink/lanlink-go/internal/telemetry/logger"
)

// App creates the CLI application.
func App() *cli.App {
	app := &cli.App{
		Name:    "lanlink-cli",
		Usage:   "LanLink peer discovery command-line tool",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			ProbeCommand(),
			ScanCommand(),
			PingCommand(),
			StatusCommand(),
		},
	}

	return app
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "port",
			Aliases: []string{"p"},
			Usage:   "Peer server TCP port",
			EnvVars: []string{"LANLINK_PORT"},
			Value:   config.DefaultPort,
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Aliases: []string{"t"},
			Usage:   "Per-connection timeout",
			EnvVars: []string{"LANLINK_TIMEOUT"},
			Value:   config.DefaultProbeTimeout,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   "table",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable verbose logging to stderr",
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	Port    int
	Timeout time.Duration

	// Output format
	Output string // table, json, yaml
	Wide   bool

	Verbose bool
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	return &GlobalFlags{
		Port:    c.Int("port"),
		Timeout: c.Duration("timeout"),
		Output:  c.String("output"),
		Wide:    c.Bool("wide"),
		Verbose: c.Bool("verbose"),
	}
}

// commandLogger returns a logger for command internals.
// Output goes to stderr so it never corrupts formatted results on stdout.
func commandLogger(flags *GlobalFlags) logger.Logger {
	level := "error"
	if flags.Verbose {
		level = "debug"
	}

	log, err := logger.New(logger.Config{
		Level:  level,
		Format: "text",
		Output: os.Stderr,
	})
	if err != nil {
		return logger.Default()
	}
	return log
}

// writeResult formats data according to the global output flags.
func writeResult(c *cli.Context, data any) error {
	flags := ParseGlobalFlags(c)
	formatter := output.NewFormatter(output.Format(flags.Output), flags.Wide)

	var w io.Writer = os.Stdout
	if c.App != nil && c.App.Writer != nil {
		w = c.App.Writer
	}

	return formatter.Format(w, data)
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
