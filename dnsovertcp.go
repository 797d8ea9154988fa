package dnshttp

//
// DNS-over-{TCP,TLS} transport
//

import (
	"context"
	"crypto/tls"
	"io"
	"net"
	"time"
)

// dialContextFunc establishes a single stream connection to the
// configured nameserver.
type dialContextFunc func(ctx context.Context, network, address string) (net.Conn, error)

// dnsOverTCPTransport is a DNS transport over a stream protocol: either
// plain TCP or TLS. Messages are framed by a 2-byte length prefix as
// described by RFC1035 section 4.2.2 and RFC7858.
type dnsOverTCPTransport struct {
	dial            dialContextFunc
	address         string
	network         string
	requiresPadding bool
}

// newDNSOverTCPTransport creates a transport speaking DNS over plain TCP
// to the nameserver at the given address (e.g., "8.8.8.8:53").
func newDNSOverTCPTransport(dial dialContextFunc, address string) *dnsOverTCPTransport {
	return &dnsOverTCPTransport{
		dial:            dial,
		address:         address,
		network:         "tcp",
		requiresPadding: false,
	}
}

// newDNSOverTLSTransport creates a transport speaking DNS over TLS to the
// nameserver at the given address (e.g., "1.1.1.1:853"). The dial function
// is responsible for performing the TLS handshake.
func newDNSOverTLSTransport(dial dialContextFunc, address string) *dnsOverTCPTransport {
	return &dnsOverTCPTransport{
		dial:            dial,
		address:         address,
		network:         "dot",
		requiresPadding: true,
	}
}

// newDNSOverTLSDialFunc composes a stream dialer and a TLS handshaker
// into the dial function used by newDNSOverTLSTransport. The serverName
// is used for SNI and certificate verification.
func newDNSOverTLSDialFunc(dialer Dialer, handshaker TLSHandshaker, serverName string) dialContextFunc {
	return func(ctx context.Context, network, address string) (net.Conn, error) {
		conn, err := dialer.DialContext(ctx, network, address)
		if err != nil {
			return nil, err
		}
		config := &tls.Config{
			ServerName: serverName,
			NextProtos: []string{"dot"},
		}
		tlsconn, _, err := handshaker.Handshake(ctx, conn, config)
		if err != nil {
			conn.Close()
			return nil, err
		}
		return tlsconn, nil
	}
}

// RoundTrip sends a query and receives a reply.
func (t *dnsOverTCPTransport) RoundTrip(ctx context.Context, query []byte) ([]byte, error) {
	if len(query) > 1<<16-1 {
		return nil, ErrQueryTooLarge
	}
	conn, err := t.dial(ctx, "tcp", t.address)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(10 * time.Second)
	}
	if err = conn.SetDeadline(deadline); err != nil {
		return nil, err
	}
	// Write request
	buf := []byte{byte(len(query) >> 8), byte(len(query))}
	buf = append(buf, query...)
	if _, err = conn.Write(buf); err != nil {
		return nil, err
	}
	// Read response
	header := make([]byte, 2)
	if _, err = io.ReadFull(conn, header); err != nil {
		return nil, err
	}
	length := int(header[0])<<8 | int(header[1])
	reply := make([]byte, length)
	if _, err = io.ReadFull(conn, reply); err != nil {
		return nil, err
	}
	return reply, nil
}

// RequiresPadding returns true for DoT and false for TCP
// according to RFC8467.
func (t *dnsOverTCPTransport) RequiresPadding() bool {
	return t.requiresPadding
}

// Network returns the transport network, i.e., "tcp" or "dot".
func (t *dnsOverTCPTransport) Network() string {
	return t.network
}

// Address returns the upstream server address.
func (t *dnsOverTCPTransport) Address() string {
	return t.address
}

// CloseIdleConnections closes idle connections, if any.
func (t *dnsOverTCPTransport) CloseIdleConnections() {
	// nothing to do
}

var _ DNSTransport = &dnsOverTCPTransport{}
