// Package diagnostics checks the environment preconditions for discovery
// without touching the network's devices.
package diagnostics

import (
	"net"
	"os"
)

var (
	listInterfaces = net.Interfaces
	interfaceAddrs = func(iface net.Interface) ([]net.Addr, error) { return iface.Addrs() }
	statFile       = os.Stat
)

type InterfaceStatus struct {
	Found bool   `json:"found"`
	Name  string `json:"name,omitempty"`
}

type ConfigStatus struct {
	Found bool   `json:"found"`
	Path  string `json:"path,omitempty"`
}

type Report struct {
	IPv4Interface     InterfaceStatus `json:"ipv4_interface"`
	ConfigFile        ConfigStatus    `json:"config_file"`
	ReadyForDiscovery bool            `json:"ready_for_discovery"`
}

// Detect reports whether SSDP discovery can plausibly work here: at least
// one non-loopback interface that is up and carries an IPv4 address.
func Detect(configPath string) Report {
	iface := detectIPv4Interface()

	return Report{
		IPv4Interface:     iface,
		ConfigFile:        detectConfig(configPath),
		ReadyForDiscovery: iface.Found,
	}
}

func detectIPv4Interface() InterfaceStatus {
	ifaces, err := listInterfaces()
	if err != nil {
		return InterfaceStatus{Found: false}
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := interfaceAddrs(iface)
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if ok && ipNet.IP.To4() != nil {
				return InterfaceStatus{Found: true, Name: iface.Name}
			}
		}
	}
	return InterfaceStatus{Found: false}
}

func detectConfig(path string) ConfigStatus {
	if path == "" {
		return ConfigStatus{Found: false}
	}
	if _, err := statFile(path); err != nil {
		return ConfigStatus{Found: false, Path: path}
	}
	return ConfigStatus{Found: true, Path: path}
}
