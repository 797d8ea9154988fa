package dnshttp

//
// Wrapping a Resolver into HTTP connectors
//

import (
	"crypto/tls"
	"crypto/x509"
	"net/http"

	"github.com/dnshttp/dnshttp/internal/runtimex"
	utls "gitlab.com/yawning/utls.git"
)

// HTTPTransport is an http.Transport-like structure.
type HTTPTransport interface {
	// RoundTrip performs the HTTP round trip.
	RoundTrip(req *http.Request) (*http.Response, error)

	// CloseIdleConnections closes idle connections.
	CloseIdleConnections()
}

// HTTPSConfig is the fixed, per-build policy of a TLS-capable
// connector. It is resolved once, when the connector is constructed,
// never per request.
type HTTPSConfig struct {
	// HTTPSOnly indicates whether the connector must reject plaintext
	// HTTP requests with ErrHTTPSOnly.
	HTTPSOnly bool

	// EnableHTTP1 indicates whether to advertise HTTP/1.1 during the
	// TLS handshake.
	EnableHTTP1 bool

	// EnableHTTP2 indicates whether to advertise HTTP/2 during the
	// TLS handshake.
	EnableHTTP2 bool

	// RootCAs is the trust root source used to verify server
	// certificates. Nil means the host system's trust roots;
	// a non-nil pool replaces them entirely.
	RootCAs *x509.CertPool
}

// DefaultHTTPSConfig returns an HTTPSConfig advertising both HTTP/1.1
// and HTTP/2, allowing plaintext HTTP, and trusting the system roots.
func DefaultHTTPSConfig() HTTPSConfig {
	return HTTPSConfig{
		EnableHTTP1: true,
		EnableHTTP2: true,
	}
}

// nextProtos returns the ALPN list implied by the configuration.
func (c HTTPSConfig) nextProtos() []string {
	runtimex.PanicIfFalse(c.EnableHTTP1 || c.EnableHTTP2,
		"dnshttp: HTTPSConfig with no enabled HTTP protocol versions")
	var protos []string
	if c.EnableHTTP2 {
		protos = append(protos, "h2")
	}
	if c.EnableHTTP1 {
		protos = append(protos, "http/1.1")
	}
	return protos
}

// NewHTTPTransport takes this Resolver and wraps it into a plain HTTP
// connector: an HTTPTransport that resolves domain names through the
// Resolver and otherwise behaves like http.DefaultTransport. HTTPS
// requests still work and use the stdlib TLS with system roots.
//
// The returned transport has no configured proxy, not even the proxy
// configurable from the environment.
func (r Resolver) NewHTTPTransport() HTTPTransport {
	logger := validLoggerOrDefault(r.logger)
	dialer := newDialerWithResolver(logger, r)
	txp := http.DefaultTransport.(*http.Transport).Clone()
	txp.Proxy = nil
	txp.DialContext = dialer.DialContext
	return &httpTransportLogger{
		HTTPTransport: &httpTransportConnectionsCloser{
			HTTPTransport: txp,
			Dialer:        dialer,
		},
		Logger: logger,
	}
}

// NewHTTPSTransport takes this Resolver and wraps it into a TLS-capable
// connector using the standard library to manage TLS.
func (r Resolver) NewHTTPSTransport(config HTTPSConfig) HTTPTransport {
	return r.newHTTPSTransport(config, newTLSHandshakerStdlib(validLoggerOrDefault(r.logger)))
}

// NewHTTPSTransportUTLS is like NewHTTPSTransport except that it uses
// the yawning/utls library to manage TLS, parroting the given
// ClientHello.
func (r Resolver) NewHTTPSTransportUTLS(config HTTPSConfig, hello *utls.ClientHelloID) HTTPTransport {
	return r.newHTTPSTransport(config, newTLSHandshakerUTLS(validLoggerOrDefault(r.logger), hello))
}

// newHTTPSTransport is the common factory behind the TLS-capable
// connector variants: they only differ in the handshaker they use.
func (r Resolver) newHTTPSTransport(config HTTPSConfig, handshaker TLSHandshaker) HTTPTransport {
	logger := validLoggerOrDefault(r.logger)
	dialer := newDialerWithResolver(logger, r)
	tlsd := &tlsDialer{
		Config: &tls.Config{
			RootCAs:    config.RootCAs,
			NextProtos: config.nextProtos(),
		},
		Dialer:        dialer,
		TLSHandshaker: handshaker,
	}
	txp := http.DefaultTransport.(*http.Transport).Clone()
	txp.Proxy = nil
	txp.DialContext = dialer.DialContext
	txp.DialTLSContext = tlsd.DialTLSContext
	txp.ForceAttemptHTTP2 = config.EnableHTTP2
	var out HTTPTransport = &httpTransportConnectionsCloser{
		HTTPTransport: txp,
		Dialer:        dialer,
		TLSDialer:     tlsd,
	}
	if config.HTTPSOnly {
		out = &httpTransportHTTPSOnly{out}
	}
	return &httpTransportLogger{HTTPTransport: out, Logger: logger}
}

// newDoHBootstrapClient creates the HTTP client used internally by the
// DNS-over-HTTPS transport. The client reaches the DoH server through
// its configured bootstrap endpoints so we never need another resolver
// to resolve the resolver.
func newDoHBootstrapClient(config Config) HTTPClient {
	runtimex.PanicIfFalse(len(config.Servers) > 0, "dnshttp: DoH config with no bootstrap servers")
	runtimex.PanicIfFalse(config.URL != "", "dnshttp: DoH config with no URL")
	dialer := &dialerBootstrap{
		Dialer:    &dialerSystem{},
		Endpoints: config.Servers,
	}
	txp := http.DefaultTransport.(*http.Transport).Clone()
	txp.Proxy = nil
	txp.DialContext = dialer.DialContext
	txp.ForceAttemptHTTP2 = true
	if config.ServerName != "" {
		txp.TLSClientConfig = &tls.Config{ServerName: config.ServerName}
	}
	return &http.Client{Transport: txp}
}

// httpTransportLogger is an HTTPTransport with logging.
type httpTransportLogger struct {
	// HTTPTransport is the underlying HTTP transport.
	HTTPTransport HTTPTransport

	// Logger is the underlying logger.
	Logger Logger
}

var _ HTTPTransport = &httpTransportLogger{}

// RoundTrip implements HTTPTransport.RoundTrip.
func (txp *httpTransportLogger) RoundTrip(req *http.Request) (*http.Response, error) {
	txp.Logger.Debugf("> %s %s", req.Method, req.URL.String())
	resp, err := txp.HTTPTransport.RoundTrip(req)
	if err != nil {
		txp.Logger.Debugf("< %s", err)
		return nil, err
	}
	txp.Logger.Debugf("< %d", resp.StatusCode)
	return resp, nil
}

// CloseIdleConnections implements HTTPTransport.CloseIdleConnections.
func (txp *httpTransportLogger) CloseIdleConnections() {
	txp.HTTPTransport.CloseIdleConnections()
}

// httpTransportConnectionsCloser is an HTTPTransport that correctly
// forwards CloseIdleConnections to the dialers it was built from.
type httpTransportConnectionsCloser struct {
	HTTPTransport
	Dialer    Dialer
	TLSDialer *tlsDialer
}

// CloseIdleConnections forwards the CloseIdleConnections calls.
func (txp *httpTransportConnectionsCloser) CloseIdleConnections() {
	txp.HTTPTransport.CloseIdleConnections()
	if txp.Dialer != nil {
		txp.Dialer.CloseIdleConnections()
	}
	if txp.TLSDialer != nil {
		txp.TLSDialer.CloseIdleConnections()
	}
}

// httpTransportHTTPSOnly is an HTTPTransport that rejects plaintext
// HTTP requests. This policy is fixed when the connector is built.
type httpTransportHTTPSOnly struct {
	HTTPTransport
}

// RoundTrip implements HTTPTransport.RoundTrip.
func (txp *httpTransportHTTPSOnly) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Scheme != "https" {
		return nil, ErrHTTPSOnly
	}
	return txp.HTTPTransport.RoundTrip(req)
}
