package dnshttp

//
// Iterator over the addresses produced by one lookup
//

import (
	"net/netip"

	"github.com/dnshttp/dnshttp/internal/runtimex"
)

// SocketAddrs is the result of one successful lookup: a finite,
// forward-only sequence of resolved addresses. The port of every
// address is zero because choosing the port is the business of the
// connection-establishment code above this package, which knows the
// URL scheme before resolution even starts.
//
// A SocketAddrs is consumed once and cannot be restarted. It is fine
// to drop it before draining it, e.g., because the first address
// already produced a working connection. It is not safe for
// concurrent use by multiple goroutines.
type SocketAddrs struct {
	addrs []string
}

// newSocketAddrs wraps the addresses produced by the backend.
func newSocketAddrs(addrs []string) *SocketAddrs {
	return &SocketAddrs{addrs: addrs}
}

// Next returns the next address in the sequence, with the port set to
// zero. Producing the next element cannot fail: the lookup that
// created this sequence already succeeded. After the sequence is
// exhausted, Next keeps returning false forever.
func (sa *SocketAddrs) Next() (netip.AddrPort, bool) {
	if len(sa.addrs) <= 0 {
		return netip.AddrPort{}, false
	}
	addr := sa.addrs[0]
	sa.addrs = sa.addrs[1:]
	// The backend only ever emits IP literals, so a parse failure
	// here is a programming error, not a runtime condition.
	ip, err := netip.ParseAddr(addr)
	runtimex.PanicOnError(err, "dnshttp: lookup produced a non-IP address")
	return netip.AddrPortFrom(ip.Unmap(), 0), true
}
