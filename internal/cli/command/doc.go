// Package command provides CLI command definitions for LanLink.
//
// This package defines all CLI commands using urfave/cli/v2:
//
//   - root.go: Root command and global flags
//   - probe.go: Liveness probe against a single address
//   - scan.go: Subnet sweep for a running peer server
//   - ping.go: Echo round-trip against a peer server
//   - status.go: Query a node's admin status endpoint
//
// Commands follow a consistent pattern of parsing flags,
// calling the appropriate service, and formatting output.
package command
