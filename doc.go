// Package dnshttp provides a DNS resolver that speaks DNS over UDP,
// DNS over TLS, or DNS over HTTPS to a configurable set of upstream
// nameservers, along with HTTP connectors that use such a resolver
// for name resolution instead of the system one.
//
// The entry point is the Resolver type. Construct it with one of the
// preset constructors (Google, Cloudflare, Quad9 and their TLS and
// HTTPS variants), with WithConfigAndOptions for an explicit
// configuration, or with FromSystemConfig to read resolv.conf. A
// Resolver is a small handle over a shared backend: copying it is
// cheap and copies observe the same caches and idle connections.
//
// Use Resolver.Resolve to look up a hostname, or wrap the Resolver
// into an HTTP connector with NewHTTPTransport, NewHTTPSTransport, or
// NewHTTPSTransportUTLS and hand the connector to an http.Client.
package dnshttp
