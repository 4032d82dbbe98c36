package peer

import (
	"net"
	"os"

	log "github.com/sirupsen/logrus"
)

// isLocalHost returns whether `host` designates this machine: by name, by a
// loopback address, or by one of the addresses of the local interfaces.
func isLocalHost(host string) bool {
	if host == "localhost" {
		return true
	}
	if hostname, err := os.Hostname(); err == nil && host == hostname {
		return true
	}

	addrs, err := net.LookupHost(host)
	if err != nil {
		log.WithError(err).WithField("host", host).Debug("Failed to resolve host")
		return false
	}

	local := localAddrs()
	for _, addr := range addrs {
		ip := net.ParseIP(addr)
		if ip == nil {
			continue
		}
		if ip.IsLoopback() {
			return true
		}
		if _, ok := local[ip.String()]; ok {
			return true
		}
	}
	return false
}

func localAddrs() map[string]struct{} {
	addrs := map[string]struct{}{}
	ifaceAddrs, err := net.InterfaceAddrs()
	if err != nil {
		log.WithError(err).Debug("Failed to list interface addresses")
		return addrs
	}

	for _, addr := range ifaceAddrs {
		if ipNet, ok := addr.(*net.IPNet); ok {
			addrs[ipNet.IP.String()] = struct{}{}
		}
	}
	return addrs
}
