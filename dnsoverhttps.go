package dnshttp

//
// DNS-over-HTTPS transport
//

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"
)

// dnsOverHTTPSTransport is a DNS-over-HTTPS DNSTransport.
type dnsOverHTTPSTransport struct {
	// client is the MANDATORY http client to use.
	client HTTPClient

	// url is the MANDATORY URL of the DNS-over-HTTPS server.
	url string
}

// newDNSOverHTTPSTransport creates a DNS-over-HTTPS transport.
//
// Arguments:
//
// - client is an http.Client-like type (e.g., http.DefaultClient);
//
// - URL is the DoH resolver URL (e.g., https://dns.google/dns-query).
func newDNSOverHTTPSTransport(client HTTPClient, URL string) *dnsOverHTTPSTransport {
	return &dnsOverHTTPSTransport{client: client, url: URL}
}

// RoundTrip sends a query and receives a reply.
func (t *dnsOverHTTPSTransport) RoundTrip(ctx context.Context, query []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 45*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, "POST", t.url, bytes.NewReader(query))
	if err != nil {
		return nil, err
	}
	req.Header.Set("content-type", "application/dns-message")
	req.Header.Set("accept", "application/dns-message")
	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return nil, ErrDoHServerStatus
	}
	if resp.Header.Get("content-type") != "application/dns-message" {
		return nil, ErrDoHContentType
	}
	return io.ReadAll(resp.Body)
}

// RequiresPadding returns true for DoH according to RFC8467.
func (t *dnsOverHTTPSTransport) RequiresPadding() bool {
	return true
}

// Network returns the transport network, i.e., "doh".
func (t *dnsOverHTTPSTransport) Network() string {
	return "doh"
}

// Address returns the URL we're using for the DoH server.
func (t *dnsOverHTTPSTransport) Address() string {
	return t.url
}

// CloseIdleConnections closes idle connections, if any.
func (t *dnsOverHTTPSTransport) CloseIdleConnections() {
	t.client.CloseIdleConnections()
}

var _ DNSTransport = &dnsOverHTTPSTransport{}
