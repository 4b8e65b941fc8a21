// Package command provides CLI command definitions for LanLink.
package command

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/urfave/cli/v2"

	"github.com/lanlink/lanlink-go/internal/server/config"
)

// StatusCommand returns the status command.
func StatusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Query a node's admin status endpoint",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "admin",
				Usage:   "Admin HTTP address of the node",
				EnvVars: []string{"LANLINK_ADMIN"},
				Value:   config.DefaultAdminAddr,
			},
		},
		Action: statusAction,
	}
}

func statusAction(c *cli.Context) error {
	flags := ParseGlobalFlags(c)
	url := fmt.Sprintf("http://%s/status", c.String("admin"))

	ctx, cancel := context.WithTimeout(c.Context, flags.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	var result map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return writeResult(c, result)
}
