package dnshttp

//
// Dialers composing the Resolver with connection establishment
//

import (
	"context"
	"net"
	"time"
)

// newUnderlyingDialer creates the dialer used to reach the nameservers
// themselves: the system dialer plus logging.
func newUnderlyingDialer(logger Logger) Dialer {
	return &dialerLogger{
		Dialer: &dialerSystem{},
		Logger: logger,
	}
}

// newDialerWithResolver creates the dialer used by the HTTP connectors:
// it resolves domain names with the given resolver and then attempts a
// connection against each resolved address until one succeeds.
func newDialerWithResolver(logger Logger, reso resolver) Dialer {
	return &dialerLogger{
		Dialer: &dialerResolver{
			Dialer: &dialerLogger{
				Dialer:          &dialerSystem{},
				Logger:          logger,
				operationSuffix: "_address",
			},
			Resolver: reso,
		},
		Logger: logger,
	}
}

// underlyingDialer is the net.Dialer we use by default.
var underlyingDialer = &net.Dialer{
	Timeout:   15 * time.Second,
	KeepAlive: 15 * time.Second,
}

// dialerSystem dials using the Go stdlib.
type dialerSystem struct{}

var _ Dialer = &dialerSystem{}

// DialContext implements Dialer.DialContext.
func (d *dialerSystem) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	return underlyingDialer.DialContext(ctx, network, address)
}

// CloseIdleConnections implements Dialer.CloseIdleConnections.
func (d *dialerSystem) CloseIdleConnections() {
	// nothing to do
}

// dialerResolver is a dialer that uses the configured resolver to
// resolve a domain name to IP addresses, and the configured dialer
// to connect.
type dialerResolver struct {
	// Dialer is the underlying dialer.
	Dialer Dialer

	// Resolver is the underlying resolver.
	Resolver resolver
}

var _ Dialer = &dialerResolver{}

// DialContext implements Dialer.DialContext. When the resolution fails
// the resolution error is returned as is, so that the caller can tell
// apart "DNS failed" from "connecting failed".
func (d *dialerResolver) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	onlyhost, onlyport, err := net.SplitHostPort(address)
	if err != nil {
		return nil, err
	}
	addrs, err := d.lookupHost(ctx, onlyhost)
	if err != nil {
		return nil, err
	}
	var errorslist []error
	for _, addr := range addrs {
		target := net.JoinHostPort(addr, onlyport)
		conn, err := d.Dialer.DialContext(ctx, network, target)
		if err == nil {
			return conn, nil
		}
		errorslist = append(errorslist, err)
	}
	return nil, errorslist[0]
}

// lookupHost performs a domain name resolution.
func (d *dialerResolver) lookupHost(ctx context.Context, hostname string) ([]string, error) {
	if net.ParseIP(hostname) != nil {
		return []string{hostname}, nil
	}
	return d.Resolver.LookupHost(ctx, hostname)
}

// CloseIdleConnections implements Dialer.CloseIdleConnections.
func (d *dialerResolver) CloseIdleConnections() {
	d.Dialer.CloseIdleConnections()
	d.Resolver.CloseIdleConnections()
}

// dialerLogger is a Dialer with logging.
type dialerLogger struct {
	// Dialer is the underlying dialer.
	Dialer Dialer

	// Logger is the underlying logger.
	Logger Logger

	// operationSuffix is appended to the operation name.
	//
	// We use this suffix to distinguish the output from dialing
	// a domain name from the output from dialing one of the
	// addresses it resolved to, where otherwise both lines would
	// read something like `dial 8.8.8.8:443...`
	operationSuffix string
}

var _ Dialer = &dialerLogger{}

// DialContext implements Dialer.DialContext.
func (d *dialerLogger) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	d.Logger.Debugf("dial%s %s/%s...", d.operationSuffix, address, network)
	start := time.Now()
	conn, err := d.Dialer.DialContext(ctx, network, address)
	elapsed := time.Since(start)
	if err != nil {
		d.Logger.Debugf("dial%s %s/%s... %s in %s", d.operationSuffix,
			address, network, err, elapsed)
		return nil, err
	}
	d.Logger.Debugf("dial%s %s/%s... ok in %s", d.operationSuffix,
		address, network, elapsed)
	return conn, nil
}

// CloseIdleConnections implements Dialer.CloseIdleConnections.
func (d *dialerLogger) CloseIdleConnections() {
	d.Dialer.CloseIdleConnections()
}

// dialerBootstrap dials one of a fixed set of endpoints, ignoring the
// address suggested by the caller. The DoH transport uses it to reach
// the DoH server through its known IP addresses, so that bootstrapping
// DNS-over-HTTPS never depends on another resolver.
type dialerBootstrap struct {
	// Dialer is the underlying dialer.
	Dialer Dialer

	// Endpoints is the list of endpoints to try in order.
	Endpoints []string
}

var _ Dialer = &dialerBootstrap{}

// DialContext implements Dialer.DialContext.
func (d *dialerBootstrap) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	var errorslist []error
	for _, epnt := range d.Endpoints {
		conn, err := d.Dialer.DialContext(ctx, network, epnt)
		if err == nil {
			return conn, nil
		}
		errorslist = append(errorslist, err)
	}
	return nil, errorslist[0]
}

// CloseIdleConnections implements Dialer.CloseIdleConnections.
func (d *dialerBootstrap) CloseIdleConnections() {
	d.Dialer.CloseIdleConnections()
}
