package cloudberry

import "net/netip"

// ExtractIP makes a best guess at a peer's dialable address. Nodes behind
// NAT or with misconfigured bindings often advertise a loopback or
// all-zero IP; when that happens the observed transport IP is substituted
// while the advertised port is kept, because the transport-observed port
// of an inbound connection is an ephemeral client port and never the
// peer's listener.
//
// The advertised port is taken on trust: nothing verifies that the peer
// actually listens there. Keeping the substitution rule in this one pure
// function keeps that limitation auditable.
func ExtractIP(advertised, observed netip.AddrPort) netip.AddrPort {
	ip := advertised.Addr()
	if ip.IsLoopback() || ip.IsUnspecified() {
		return netip.AddrPortFrom(observed.Addr(), advertised.Port())
	}
	return advertised
}
