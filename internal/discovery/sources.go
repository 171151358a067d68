package discovery

import (
	"net"

	"go.uber.org/zap"
)

// BuildSourceSet returns the IPv4 source addresses eligible for SSDP probing.
//
// When defaultInterfaceOnly is true the set collapses to the single wildcard
// address, meaning "bind the default interface". Otherwise it contains every
// enabled, non-loopback IPv4 address across all adapters. IPv6 addresses are
// filtered out unconditionally.
//
// There is no error path: enumeration failures are logged and yield an empty
// set, which simply means no listeners get started.
func BuildSourceSet(defaultInterfaceOnly bool, log *zap.Logger) []net.IP {
	if defaultInterfaceOnly {
		return []net.IP{net.IPv4zero}
	}

	ifaces, err := net.Interfaces()
	if err != nil {
		log.Warn("Failed to enumerate network interfaces", zap.Error(err))
		return nil
	}

	seen := make(map[string]struct{})
	var sources []net.IP
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			log.Debug("Failed to list interface addresses",
				zap.String("interface", iface.Name), zap.Error(err))
			continue
		}
		for _, ip := range eligibleSources(addrs) {
			key := ip.String()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			sources = append(sources, ip)
		}
	}

	return sources
}

// eligibleSources filters one adapter's addresses down to usable IPv4
// unicast source addresses.
func eligibleSources(addrs []net.Addr) []net.IP {
	var out []net.IP
	for _, addr := range addrs {
		var ip net.IP
		switch a := addr.(type) {
		case *net.IPNet:
			ip = a.IP
		case *net.IPAddr:
			ip = a.IP
		default:
			continue
		}
		if ip == nil || ip.IsLoopback() {
			continue
		}
		ip4 := ip.To4()
		if ip4 == nil {
			continue
		}
		out = append(out, ip4)
	}
	return out
}
