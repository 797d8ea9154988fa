package dnshttp

//
// Serial fallback across nameservers with bounded attempts
//

import (
	"context"
	"time"

	"github.com/dnshttp/dnshttp/internal/runtimex"
)

// serialTransport cycles through the configured nameserver transports,
// trying each one in order for up to attempts rounds, with a per-query
// timeout. This is the DNS-protocol-level retry policy configured via
// Options: callers of Resolve never observe partial attempts, only the
// final outcome.
type serialTransport struct {
	txps     []DNSTransport
	attempts int
	timeout  time.Duration
}

// newSerialTransport creates a serialTransport. The txps list must not
// be empty and attempts and timeout must be positive: the constructors
// in this package always satisfy these requirements for any literal
// configuration, so a violation is a programming error.
func newSerialTransport(txps []DNSTransport, attempts int, timeout time.Duration) *serialTransport {
	runtimex.PanicIfFalse(len(txps) > 0, "serialTransport with no transports")
	runtimex.PanicIfFalse(attempts > 0, "serialTransport with nonpositive attempts")
	runtimex.PanicIfFalse(timeout > 0, "serialTransport with nonpositive timeout")
	return &serialTransport{txps: txps, attempts: attempts, timeout: timeout}
}

// RoundTrip sends a query and receives a reply.
func (t *serialTransport) RoundTrip(ctx context.Context, query []byte) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < t.attempts; attempt++ {
		for _, txp := range t.txps {
			reply, err := t.roundTripWithTimeout(ctx, txp, query)
			if err == nil {
				return reply, nil
			}
			lastErr = err
			if ctx.Err() != nil {
				// The parent context is done: stop cycling and let the
				// cancellation or deadline error surface.
				return nil, ctx.Err()
			}
		}
	}
	return nil, lastErr
}

func (t *serialTransport) roundTripWithTimeout(
	ctx context.Context, txp DNSTransport, query []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return txp.RoundTrip(ctx, query)
}

// RequiresPadding returns whether the underlying transports need padding.
func (t *serialTransport) RequiresPadding() bool {
	return t.txps[0].RequiresPadding()
}

// Network returns the network of the underlying transports.
func (t *serialTransport) Network() string {
	return t.txps[0].Network()
}

// Address returns the address of the first configured nameserver.
func (t *serialTransport) Address() string {
	return t.txps[0].Address()
}

// CloseIdleConnections closes idle connections, if any.
func (t *serialTransport) CloseIdleConnections() {
	for _, txp := range t.txps {
		txp.CloseIdleConnections()
	}
}

var _ DNSTransport = &serialTransport{}
