// Package main provides the entry point for lanlink-server.
//
// The daemon resolves its own LAN address, sweeps the /24 subnet for an
// already-running peer server, and takes the client role when one
// answers or the server+client role when none does. It then serves the
// local admin HTTP endpoint until shut down.
//
// Usage:
//
//	lanlink-server [-config path] [-version]
//
// Configuration is loaded from the optional YAML file, then overridden
// by LANLINK_* environment variables.
package main
