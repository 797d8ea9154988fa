package dnshttp

//
// The Resolver service and its construction variants
//

import (
	"context"
	"fmt"
	"net"
	"time"

	"golang.org/x/net/idna"
)

// Resolver resolves domain names by querying a fixed set of nameservers
// instead of using the operating system's resolver.
//
// A Resolver is a lightweight handle to shared, immutable backend state:
// copying a Resolver is O(1) and every copy resolves using exactly the
// same configuration. The backend is torn down by the garbage collector
// when the last copy goes away.
//
// A Resolver is always ready: Resolve may be called by any number of
// goroutines concurrently and the Resolver itself imposes no pooling or
// backpressure. Concurrent resolutions are fully independent and may
// complete in any order.
//
// The zero value is not valid; use one of the constructors.
type Resolver struct {
	chain  resolver
	logger Logger
}

// New creates a Resolver with the default configuration, which uses the
// Google nameservers over UDP and the default Options.
func New() Resolver {
	return WithConfigAndOptions(ConfigGoogle(), DefaultOptions())
}

// Google creates a Resolver that uses the Google nameservers over UDP.
func Google() Resolver {
	return WithConfigAndOptions(ConfigGoogle(), DefaultOptions())
}

// Cloudflare creates a Resolver that uses the Cloudflare nameservers over UDP.
func Cloudflare() Resolver {
	return WithConfigAndOptions(ConfigCloudflare(), DefaultOptions())
}

// CloudflareTLS creates a Resolver that uses the Cloudflare nameservers
// over DNS-over-TLS.
func CloudflareTLS() Resolver {
	return WithConfigAndOptions(ConfigCloudflareTLS(), DefaultOptions())
}

// CloudflareHTTPS creates a Resolver that uses the Cloudflare nameservers
// over DNS-over-HTTPS.
func CloudflareHTTPS() Resolver {
	return WithConfigAndOptions(ConfigCloudflareHTTPS(), DefaultOptions())
}

// Quad9 creates a Resolver that uses the Quad9 nameservers over UDP.
func Quad9() Resolver {
	return WithConfigAndOptions(ConfigQuad9(), DefaultOptions())
}

// Quad9TLS creates a Resolver that uses the Quad9 nameservers
// over DNS-over-TLS.
func Quad9TLS() Resolver {
	return WithConfigAndOptions(ConfigQuad9TLS(), DefaultOptions())
}

// Quad9HTTPS creates a Resolver that uses the Quad9 nameservers
// over DNS-over-HTTPS.
func Quad9HTTPS() Resolver {
	return WithConfigAndOptions(ConfigQuad9HTTPS(), DefaultOptions())
}

// WithConfigAndOptions creates a Resolver with the given nameserver
// configuration and resolution options. This is the general constructor
// that every preset delegates to.
//
// Construction from a valid literal configuration cannot fail and thus
// this function returns no error. An invalid configuration (unknown
// network, no servers) is a programming error and causes a panic.
func WithConfigAndOptions(config Config, options Options) Resolver {
	logger := validLoggerOrDefault(options.Logger)
	txp := newConfiguredTransport(config, options, logger)
	var chain resolver = newParallelResolver(txp)
	if options.UseHosts {
		chain = &resolverHosts{resolver: chain}
	}
	chain = &resolverShortCircuitIPAddr{chain}
	chain = &resolverLogger{Resolver: chain, Logger: logger}
	chain = &resolverIDNA{chain}
	return Resolver{chain: chain, logger: logger}
}

// newConfiguredTransport builds the DNSTransport described by config,
// wrapped with the nameserver-fallback and attempts policy from options.
func newConfiguredTransport(config Config, options Options, logger Logger) DNSTransport {
	dialer := newUnderlyingDialer(logger)
	var txps []DNSTransport
	switch config.Network {
	case NetworkUDP, "":
		for _, server := range config.Servers {
			txps = append(txps, newDNSOverUDPTransport(dialer, server))
		}
	case NetworkDoT:
		handshaker := newTLSHandshakerStdlib(logger)
		dial := newDNSOverTLSDialFunc(dialer, handshaker, config.ServerName)
		for _, server := range config.Servers {
			txps = append(txps, newDNSOverTLSTransport(dial, server))
		}
	case NetworkDoH:
		client := newDoHBootstrapClient(config)
		txps = append(txps, newDNSOverHTTPSTransport(client, config.URL))
	default:
		panic(fmt.Sprintf("dnshttp: unknown network: %s", config.Network))
	}
	return newSerialTransport(txps, options.attempts(), options.timeout())
}

// Resolve performs one lookup of the given hostname and, on success,
// returns the sequence of addresses it produced. On failure it returns
// the backend's error unmodified: this method never retries, never
// falls back to another configuration, and never rewrites errors, so
// that callers can layer their own policy on top.
//
// The context controls cancellation: cancelling it aborts an in-flight
// lookup with the context's error.
func (r Resolver) Resolve(ctx context.Context, hostname string) (*SocketAddrs, error) {
	addrs, err := r.chain.LookupHost(ctx, hostname)
	if err != nil {
		return nil, err
	}
	return newSocketAddrs(addrs), nil
}

// LookupHost behaves like net.Resolver.LookupHost: it returns the
// resolved addresses as strings. This is the shape consumed by the
// dialer layer created by the connector-wrapping methods.
func (r Resolver) LookupHost(ctx context.Context, hostname string) ([]string, error) {
	return r.chain.LookupHost(ctx, hostname)
}

// Network returns the resolver type (e.g., "udp", "dot", "doh").
func (r Resolver) Network() string {
	return r.chain.Network()
}

// Address returns the address of the first configured nameserver.
func (r Resolver) Address() string {
	return r.chain.Address()
}

// CloseIdleConnections closes idle connections held by the backend, if any.
func (r Resolver) CloseIdleConnections() {
	r.chain.CloseIdleConnections()
}

// resolverIDNA supports resolving Internationalized Domain Names.
//
// See RFC3492 for more information.
type resolverIDNA struct {
	resolver
}

// LookupHost implements resolver.LookupHost.
func (r *resolverIDNA) LookupHost(ctx context.Context, hostname string) ([]string, error) {
	host, err := idna.ToASCII(hostname)
	if err != nil {
		return nil, err
	}
	return r.resolver.LookupHost(ctx, host)
}

// resolverLogger is a resolver that emits events.
type resolverLogger struct {
	Resolver resolver
	Logger   Logger
}

var _ resolver = &resolverLogger{}

// LookupHost implements resolver.LookupHost.
func (r *resolverLogger) LookupHost(ctx context.Context, hostname string) ([]string, error) {
	prefix := fmt.Sprintf("resolve[A,AAAA] %s with %s (%s)", hostname, r.Network(), r.Address())
	r.Logger.Debugf("%s...", prefix)
	start := time.Now()
	addrs, err := r.Resolver.LookupHost(ctx, hostname)
	elapsed := time.Since(start)
	if err != nil {
		r.Logger.Debugf("%s... %s in %s", prefix, err, elapsed)
		return nil, err
	}
	r.Logger.Debugf("%s... %+v in %s", prefix, addrs, elapsed)
	return addrs, nil
}

// Network implements resolver.Network.
func (r *resolverLogger) Network() string {
	return r.Resolver.Network()
}

// Address implements resolver.Address.
func (r *resolverLogger) Address() string {
	return r.Resolver.Address()
}

// CloseIdleConnections implements resolver.CloseIdleConnections.
func (r *resolverLogger) CloseIdleConnections() {
	r.Resolver.CloseIdleConnections()
}

// resolverShortCircuitIPAddr recognizes when the input hostname is an
// IP address and returns it immediately to the caller, like
// getaddrinfo does.
type resolverShortCircuitIPAddr struct {
	resolver
}

// LookupHost implements resolver.LookupHost.
func (r *resolverShortCircuitIPAddr) LookupHost(ctx context.Context, hostname string) ([]string, error) {
	if net.ParseIP(hostname) != nil {
		return []string{hostname}, nil
	}
	return r.resolver.LookupHost(ctx, hostname)
}
