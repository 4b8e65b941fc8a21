// Package discovery implements LanLink's subnet peer discovery and role
// election.
package discovery

import (
	"net"

	"github.com/lanlink/lanlink-go/internal/core/domain"
)

// AddressResolver supplies the node's own LAN address.
type AddressResolver interface {
	LocalAddress() (string, error)
}

// InterfaceResolver resolves the local address from the first active
// non-loopback IPv4 interface.
type InterfaceResolver struct{}

// LocalAddress implements AddressResolver.
func (InterfaceResolver) LocalAddress() (string, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return "", domain.ErrNoLocalAddress.WithCause(err)
	}

	for _, iface := range ifaces {
		if (iface.Flags&net.FlagUp) == 0 || (iface.Flags&net.FlagLoopback) != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}
			if ip == nil || ip.IsLoopback() {
				continue
			}
			if ip4 := ip.To4(); ip4 != nil {
				return ip4.String(), nil
			}
		}
	}

	return "", domain.ErrNoLocalAddress
}

// StaticResolver resolves to a fixed address. Used when discovery.local_ip
// is configured and in tests.
type StaticResolver string

// LocalAddress implements AddressResolver.
func (r StaticResolver) LocalAddress() (string, error) {
	if r == "" {
		return "", domain.ErrNoLocalAddress
	}
	return string(r), nil
}
