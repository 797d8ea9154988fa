package dnshttp

//
// TLS implementation based on gitlab.com/yawning/utls.git
//

import (
	"context"
	"crypto/tls"
	"errors"
	"net"

	utls "gitlab.com/yawning/utls.git"
)

// newTLSHandshakerUTLS creates a TLSHandshaker that uses the utls
// library with the given ClientHello to manage TLS. Everything else
// works exactly like the stdlib handshaker.
func newTLSHandshakerUTLS(logger DebugLogger, id *utls.ClientHelloID) TLSHandshaker {
	return newTLSHandshakerLogger(&tlsHandshakerConfigurable{
		NewConn: newConnUTLS(id),
	}, logger)
}

// utlsConn adapts a utls connection to the TLSConn interface.
type utlsConn struct {
	*utls.UConn

	// testableHandshake is an OPTIONAL hook for testing.
	testableHandshake func() error
}

// ErrUTLSHandshakePanic indicates that there was panic handshaking
// when we were using the yawning/utls library for parroting.
var ErrUTLSHandshakePanic = errors.New("dnshttp: utls handshake panic")

// newConnUTLS returns a factory creating utls connections that parrot
// the given ClientHello.
func newConnUTLS(clientHello *utls.ClientHelloID) func(conn net.Conn, config *tls.Config) TLSConn {
	return func(conn net.Conn, config *tls.Config) TLSConn {
		uConfig := &utls.Config{
			RootCAs:                     config.RootCAs,
			NextProtos:                  config.NextProtos,
			ServerName:                  config.ServerName,
			InsecureSkipVerify:          config.InsecureSkipVerify,
			DynamicRecordSizingDisabled: config.DynamicRecordSizingDisabled,
		}
		return &utlsConn{UConn: utls.UClient(conn, uConfig, *clientHello)}
	}
}

// HandshakeContext implements TLSConn.HandshakeContext. The utls
// library does not have context-aware handshaking, so we run the
// handshake in a background goroutine. We have seen utls panic during
// handshakes in the past, hence the recover.
func (c *utlsConn) HandshakeContext(ctx context.Context) (err error) {
	errch := make(chan error, 1)
	go func() {
		defer func() {
			if recover() != nil {
				errch <- ErrUTLSHandshakePanic
			}
		}()
		errch <- c.handshakefn()()
	}()
	select {
	case err = <-errch:
	case <-ctx.Done():
		err = ctx.Err()
	}
	return
}

func (c *utlsConn) handshakefn() func() error {
	if c.testableHandshake != nil {
		return c.testableHandshake
	}
	return c.UConn.Handshake
}

// ConnectionState implements TLSConn.ConnectionState by mapping the
// utls connection state onto the stdlib's equivalent structure.
func (c *utlsConn) ConnectionState() tls.ConnectionState {
	ustate := c.UConn.ConnectionState()
	return tls.ConnectionState{
		Version:                     ustate.Version,
		HandshakeComplete:           ustate.HandshakeComplete,
		DidResume:                   ustate.DidResume,
		CipherSuite:                 ustate.CipherSuite,
		NegotiatedProtocol:          ustate.NegotiatedProtocol,
		ServerName:                  ustate.ServerName,
		PeerCertificates:            ustate.PeerCertificates,
		VerifiedChains:              ustate.VerifiedChains,
		SignedCertificateTimestamps: ustate.SignedCertificateTimestamps,
		OCSPResponse:                ustate.OCSPResponse,
		TLSUnique:                   ustate.TLSUnique,
	}
}
