package dnshttp

//
// Errors produced by the DNS backend.
//
// The Resolve operation never translates these: whatever the backend
// returns is what the caller observes, so that callers can implement
// their own retry or fallback policy on top.
//

import "errors"

var (
	// ErrNoSuchHost indicates that the queried name does not exist (NXDOMAIN).
	ErrNoSuchHost = errors.New("dnshttp: no such host")

	// ErrNoAnswer indicates that the reply contained no usable answers.
	ErrNoAnswer = errors.New("dnshttp: no answer from DNS server")

	// ErrRefused indicates that the server refused to serve the query.
	ErrRefused = errors.New("dnshttp: query refused by DNS server")

	// ErrServfail indicates that the server failed to process the query.
	ErrServfail = errors.New("dnshttp: DNS server failure")

	// ErrServerMisbehaving indicates a reply we cannot make sense of.
	ErrServerMisbehaving = errors.New("dnshttp: DNS server misbehaving")

	// ErrReplyWithWrongQueryID indicates a reply whose query ID does not
	// match the query's ID.
	ErrReplyWithWrongQueryID = errors.New("dnshttp: reply with wrong query ID")

	// ErrQueryTooLarge indicates that the encoded query exceeds the
	// maximum size allowed by the transport.
	ErrQueryTooLarge = errors.New("dnshttp: query too large for transport")

	// ErrDoHServerStatus indicates that the DoH server returned a
	// non-200 HTTP status code.
	ErrDoHServerStatus = errors.New("dnshttp: DoH server returned error status")

	// ErrDoHContentType indicates that the DoH server replied with an
	// unexpected content type.
	ErrDoHContentType = errors.New("dnshttp: DoH server returned invalid content type")

	// ErrHTTPSOnly indicates that a plaintext HTTP request reached a
	// connector built with the HTTPSOnly policy.
	ErrHTTPSOnly = errors.New("dnshttp: plaintext HTTP forbidden by HTTPS-only policy")
)
