//go:build !tinygo

package hal

import (
	"bufio"
	"net"
	"net/netip"
	"os"
	"strings"
)

const hostResolvConf = "/etc/resolv.conf"

// hostNetwork reports the first non-loopback interface that is up and has an IPv4 address.
// The gateway is not discoverable portably and stays invalid.
type hostNetwork struct {
	ifaces func() ([]net.Interface, error)
	addrs  func(net.Interface) ([]net.Addr, error)
	dns    func() netip.Addr
}

func newHostNetwork() *hostNetwork {
	return &hostNetwork{
		ifaces: net.Interfaces,
		addrs:  func(i net.Interface) ([]net.Addr, error) { return i.Addrs() },
		dns:    func() netip.Addr { return resolvConfNameserver(hostResolvConf) },
	}
}

func (n *hostNetwork) station() (net.Interface, netip.Prefix, bool) {
	ifs, err := n.ifaces()
	if err != nil {
		return net.Interface{}, netip.Prefix{}, false
	}
	for _, ifc := range ifs {
		if ifc.Flags&net.FlagUp == 0 || ifc.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := n.addrs(ifc)
		if err != nil {
			continue
		}
		for _, a := range addrs {
			ipn, ok := a.(*net.IPNet)
			if !ok {
				continue
			}
			ip, ok := netip.AddrFromSlice(ipn.IP.To4())
			if !ok {
				continue
			}
			ones, _ := ipn.Mask.Size()
			return ifc, netip.PrefixFrom(ip, ones), true
		}
	}
	return net.Interface{}, netip.Prefix{}, false
}

func (n *hostNetwork) Info() (NetInfo, bool) {
	_, pfx, ok := n.station()
	if !ok {
		return NetInfo{}, false
	}
	info := NetInfo{IP: pfx.Addr(), Subnet: pfx.Masked()}
	if n.dns != nil {
		info.DNS = n.dns()
	}
	return info, true
}

func (n *hostNetwork) HardwareAddr() MAC {
	ifc, _, ok := n.station()
	if !ok {
		return MAC{}
	}
	var m MAC
	copy(m[:], ifc.HardwareAddr)
	return m
}

func resolvConfNameserver(path string) netip.Addr {
	f, err := os.Open(path)
	if err != nil {
		return netip.Addr{}
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 2 || fields[0] != "nameserver" {
			continue
		}
		if a, err := netip.ParseAddr(fields[1]); err == nil && a.Is4() {
			return a
		}
	}
	return netip.Addr{}
}
