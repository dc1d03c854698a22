package util

import (
	"encoding/binary"
	"fmt"
	"net"
)

// ErrInvalidAddress reports a host address that cannot carry an endpoint,
// either unparseable or a /32 with no room for a host.
var ErrInvalidAddress = fmt.Errorf("invalid host address")

// CheckHostAddr validates an endpoint address of the form 192.168.10.30/24.
// A /32 is rejected: the prefix must describe a host-bearing subnet.
func CheckHostAddr(addr string) error {
	_, ipNet, err := net.ParseCIDR(addr)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidAddress, addr, err)
	}
	if ones, _ := ipNet.Mask.Size(); ones == 32 {
		return fmt.Errorf("%w: %s: /32 is not a host subnet", ErrInvalidAddress, addr)
	}
	return nil
}

// Netmask renders an IPv4 prefix mask in dotted form, e.g. /24 -> 255.255.255.0.
func Netmask(mask net.IPMask) string {
	return net.IP(mask).String()
}

// Broadcast returns the highest address of an IPv4 subnet.
func Broadcast(ipNet *net.IPNet) net.IP {
	ip := ipNet.IP.To4()
	v := binary.BigEndian.Uint32(ip) | ^binary.BigEndian.Uint32(ipNet.Mask)
	out := make(net.IP, net.IPv4len)
	binary.BigEndian.PutUint32(out, v)
	return out
}

// SecondToLast derives the management address for a subnet: the address just
// below broadcast, with the subnet's dotted netmask.
func SecondToLast(cidr string) (addr, mask string, err error) {
	_, ipNet, err := net.ParseCIDR(cidr)
	if err != nil {
		return "", "", fmt.Errorf("parsing subnet %s: %w", cidr, err)
	}
	if ipNet.IP.To4() == nil {
		return "", "", fmt.Errorf("subnet %s: only IPv4 management subnets are supported", cidr)
	}
	v := binary.BigEndian.Uint32(Broadcast(ipNet)) - 1
	out := make(net.IP, net.IPv4len)
	binary.BigEndian.PutUint32(out, v)
	return out.String(), Netmask(ipNet.Mask), nil
}
