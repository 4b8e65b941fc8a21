// Package domain defines the core domain models for LanLink.
//
// Domain models are pure value objects without any IO dependencies
// or framework coupling. This package contains:
//
//   - Address: IPv4 host + port value used as probe target and peer identity
//   - Role: the role a node elects at discovery time
//   - Errors: domain-specific error definitions
package domain
