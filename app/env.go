package app

import (
	"fmt"
	"net/netip"
	"runtime"
	"strings"

	"clockface/hal"
	"clockface/internal/buildinfo"
)

// MemInfo is heap usage in bytes.
type MemInfo struct {
	Free, Total uint64
}

func readMem() MemInfo {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	m := MemInfo{Total: ms.HeapSys}
	if ms.HeapSys > ms.HeapInuse {
		m.Free = ms.HeapSys - ms.HeapInuse
	}
	return m
}

// Env is the device context shown on the info and about panels.
type Env struct {
	Network hal.Network
	Mem     func() MemInfo
	Panel   hal.Transport
}

// DeviceID is the station MAC, the device's stable identity.
func (e *Env) DeviceID() string {
	if e.Network == nil {
		return hal.MAC{}.String()
	}
	return e.Network.HardwareAddr().String()
}

// InfoText renders the profile panel.
func (e *Env) InfoText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Mac: %s\n", e.DeviceID())

	var info hal.NetInfo
	up := false
	if e.Network != nil {
		info, up = e.Network.Info()
	}
	if up {
		fmt.Fprintf(&b, "Ip: %s\n", addrOrDash(info.IP))
		fmt.Fprintf(&b, "Net: %s/%s\n", addrOrDash(info.Gateway), maskOrDash(info.Subnet))
		fmt.Fprintf(&b, "Dns: %s\n", addrOrDash(info.DNS))
	} else {
		b.WriteString("Ip: -\nNet: -\nDns: -\n")
	}

	mem := MemInfo{}
	if e.Mem != nil {
		mem = e.Mem()
	}
	fmt.Fprintf(&b, "Mem: %d/%d", mem.Free/1024, mem.Total/1024)
	return b.String()
}

// AboutText renders the about panel.
func (e *Env) AboutText() string {
	var b strings.Builder
	for _, l := range buildinfo.Lines() {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	if e.Panel != nil {
		w, h := e.Panel.Size()
		fmt.Fprintf(&b, "panel %dx%d %s", w, h, e.Panel.Format())
	}
	return b.String()
}

func addrOrDash(a netip.Addr) string {
	if !a.IsValid() {
		return "-"
	}
	return a.String()
}

// maskOrDash renders an IPv4 prefix length as a dotted mask.
func maskOrDash(p netip.Prefix) string {
	if !p.IsValid() || !p.Addr().Is4() {
		return "-"
	}
	bits := p.Bits()
	m := uint32(0)
	if bits > 0 {
		m = ^uint32(0) << (32 - bits)
	}
	return netip.AddrFrom4([4]byte{byte(m >> 24), byte(m >> 16), byte(m >> 8), byte(m)}).String()
}
