package dnshttp

//
// DNS-over-UDP transport
//

import (
	"context"
	"time"
)

// dnsOverUDPTransport is a DNS-over-UDP DNSTransport.
type dnsOverUDPTransport struct {
	dialer  Dialer
	address string
}

// newDNSOverUDPTransport creates a DNS-over-UDP transport talking to the
// nameserver at the given address (e.g., "8.8.8.8:53").
func newDNSOverUDPTransport(dialer Dialer, address string) *dnsOverUDPTransport {
	return &dnsOverUDPTransport{dialer: dialer, address: address}
}

// RoundTrip sends a query and receives a reply.
func (t *dnsOverUDPTransport) RoundTrip(ctx context.Context, query []byte) ([]byte, error) {
	conn, err := t.dialer.DialContext(ctx, "udp", t.address)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	// Honour the context deadline when there is one, otherwise use five
	// seconds like Bionic does. See
	// https://labs.ripe.net/Members/baptiste_jonglez_1/persistent-dns-connections-for-reliability-and-performance
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(5 * time.Second)
	}
	if err = conn.SetDeadline(deadline); err != nil {
		return nil, err
	}
	if _, err = conn.Write(query); err != nil {
		return nil, err
	}
	reply := make([]byte, 1<<17)
	n, err := conn.Read(reply)
	if err != nil {
		return nil, err
	}
	return reply[:n], nil
}

// RequiresPadding returns false for UDP according to RFC8467.
func (t *dnsOverUDPTransport) RequiresPadding() bool {
	return false
}

// Network returns the transport network, i.e., "udp".
func (t *dnsOverUDPTransport) Network() string {
	return "udp"
}

// Address returns the upstream server address.
func (t *dnsOverUDPTransport) Address() string {
	return t.address
}

// CloseIdleConnections closes idle connections, if any.
func (t *dnsOverUDPTransport) CloseIdleConnections() {
	// nothing to do
}

var _ DNSTransport = &dnsOverUDPTransport{}
