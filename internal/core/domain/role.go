// Package domain defines the core domain models for LanLink.
package domain

// Role is the role a node elects once at discovery time. It is never
// re-evaluated for the lifetime of the process.
type Role string

const (
	// RoleUnknown means discovery has not completed yet.
	RoleUnknown Role = "unknown"

	// RoleClient means an existing server was found on the subnet and
	// this node joined it as a client.
	RoleClient Role = "client"

	// RoleServerClient means no server was found; this node elected
	// itself server and also connected a client to itself.
	RoleServerClient Role = "server+client"
)

// String returns the role name.
func (r Role) String() string {
	return string(r)
}

// IsServer reports whether the node hosts the server.
func (r Role) IsServer() bool {
	return r == RoleServerClient
}
