// Package domain defines the core domain models for LanLink.
package domain

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// Address is an immutable IPv4 host plus TCP port. It is used both as a
// probe target during a scan and as a peer identity once a connection
// exists. The zero value is not a valid address.
type Address struct {
	// IP is the dotted-quad IPv4 address.
	IP string `json:"ip"`

	// Port is the TCP service port.
	Port int `json:"port"`
}

// NewAddress creates an Address from an IPv4 string and port.
func NewAddress(ip string, port int) Address {
	return Address{IP: ip, Port: port}
}

// ParseAddress parses "host:port" into an Address.
func ParseAddress(s string) (Address, error) {
	host, portStr, err := net.SplitHostPort(s)
	if err != nil {
		return Address{}, fmt.Errorf("parse address %q: %w", s, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return Address{}, fmt.Errorf("parse address %q: invalid port %q", s, portStr)
	}
	if net.ParseIP(host) == nil {
		return Address{}, fmt.Errorf("parse address %q: invalid host %q", s, host)
	}
	return Address{IP: host, Port: port}, nil
}

// String returns the address in "host:port" form.
func (a Address) String() string {
	return net.JoinHostPort(a.IP, strconv.Itoa(a.Port))
}

// IsZero reports whether the address is the zero value.
func (a Address) IsZero() bool {
	return a.IP == "" && a.Port == 0
}

// SubnetPrefix returns the /24 prefix of the address ("10.0.0" for
// "10.0.0.5"). Returns an error if IP is not a dotted-quad IPv4 address.
func (a Address) SubnetPrefix() (string, error) {
	octets := strings.Split(a.IP, ".")
	if len(octets) != 4 {
		return "", fmt.Errorf("address %q is not IPv4", a.IP)
	}
	return strings.Join(octets[:3], "."), nil
}

// HostOctet returns the final octet of the IPv4 address.
func (a Address) HostOctet() (int, error) {
	octets := strings.Split(a.IP, ".")
	if len(octets) != 4 {
		return 0, fmt.Errorf("address %q is not IPv4", a.IP)
	}
	n, err := strconv.Atoi(octets[3])
	if err != nil || n < 0 || n > 255 {
		return 0, fmt.Errorf("address %q has invalid host octet", a.IP)
	}
	return n, nil
}
