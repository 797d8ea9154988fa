package dnshttp

//
// Capability interfaces consumed and composed by this package.
//

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"
)

// DNSTransport is a transport for sending raw DNS queries and receiving
// raw DNS replies (e.g., DNS over UDP, DNS over TLS, DNS over HTTPS).
type DNSTransport interface {
	// RoundTrip sends a query and receives a reply.
	RoundTrip(ctx context.Context, query []byte) (reply []byte, err error)

	// RequiresPadding returns whether this transport needs padding
	// according to RFC8467.
	RequiresPadding() bool

	// Network returns the transport network (e.g., "udp", "dot", "doh").
	Network() string

	// Address returns the upstream server address (e.g., "8.8.8.8:53").
	Address() string

	// CloseIdleConnections closes idle connections, if any.
	CloseIdleConnections()
}

// Dialer establishes network connections.
type Dialer interface {
	// DialContext behaves like net.Dialer.DialContext.
	DialContext(ctx context.Context, network, address string) (net.Conn, error)

	// CloseIdleConnections closes idle connections, if any.
	CloseIdleConnections()
}

// TLSHandshaker performs a TLS handshake over an already established
// stream connection.
type TLSHandshaker interface {
	// Handshake performs the handshake and returns the resulting
	// connection along with its connection state.
	Handshake(ctx context.Context, conn net.Conn, config *tls.Config) (
		net.Conn, tls.ConnectionState, error)
}

// HTTPClient is an http.Client-like type.
type HTTPClient interface {
	// Do behaves like http.Client.Do.
	Do(req *http.Request) (*http.Response, error)

	// CloseIdleConnections closes idle connections, if any.
	CloseIdleConnections()
}

// resolver is the internal name-resolution capability implemented by the
// backend and by each decorator that composes it.
type resolver interface {
	// LookupHost behaves like net.Resolver.LookupHost.
	LookupHost(ctx context.Context, hostname string) (addrs []string, err error)

	// Network returns the resolver type (e.g., "udp", "dot", "doh").
	Network() string

	// Address returns the resolver address (e.g., "8.8.8.8:53").
	Address() string

	// CloseIdleConnections closes idle connections, if any.
	CloseIdleConnections()
}
