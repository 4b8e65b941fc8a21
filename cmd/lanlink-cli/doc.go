// Package main provides the entry point for lanlink-cli.
//
// The CLI tool provides command-line access to LanLink nodes for:
//
//   - Probing a single address for a running peer server
//   - Sweeping the local subnet for a peer server
//   - Measuring echo round-trip time against a peer server
//   - Querying a node's admin status endpoint
//
// Usage:
//
//	lanlink-cli [command] [flags]
//	lanlink-cli scan --output json
//	lanlink-cli ping 10.0.0.5
package main
