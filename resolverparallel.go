package dnshttp

//
// Parallel DNS resolver implementation
//

import (
	"context"

	"github.com/miekg/dns"
)

// parallelResolver performs a LookupHost operation by issuing the A and
// the AAAA queries concurrently over the underlying transport.
type parallelResolver struct {
	// txp is the MANDATORY underlying DNS transport.
	txp DNSTransport
}

var _ resolver = &parallelResolver{}

// newParallelResolver creates a parallelResolver using the given transport.
func newParallelResolver(txp DNSTransport) *parallelResolver {
	return &parallelResolver{txp: txp}
}

// Network returns the "network" of the underlying transport.
func (r *parallelResolver) Network() string {
	return r.txp.Network()
}

// Address returns the "address" of the underlying transport.
func (r *parallelResolver) Address() string {
	return r.txp.Address()
}

// CloseIdleConnections closes idle connections, if any.
func (r *parallelResolver) CloseIdleConnections() {
	r.txp.CloseIdleConnections()
}

// LookupHost performs an A lookup in parallel with an AAAA lookup.
func (r *parallelResolver) LookupHost(ctx context.Context, hostname string) ([]string, error) {
	ach := make(chan *parallelResolverResult)
	go r.lookupHost(ctx, hostname, dns.TypeA, ach)
	aaaach := make(chan *parallelResolverResult)
	go r.lookupHost(ctx, hostname, dns.TypeAAAA, aaaach)
	ares := <-ach
	aaaares := <-aaaach
	if ares.err != nil && aaaares.err != nil {
		// Note: we choose to return the A error because we assume that
		// it's the more meaningful one: the AAAA error may just be telling
		// us that there is no AAAA record for the hostname.
		return nil, ares.err
	}
	var addrs []string
	addrs = append(addrs, ares.addrs...)
	addrs = append(addrs, aaaares.addrs...)
	if len(addrs) < 1 {
		return nil, ErrNoAnswer
	}
	return addrs, nil
}

// parallelResolverResult is the result of a lookup using either the A
// or the AAAA query type.
type parallelResolverResult struct {
	addrs []string
	err   error
}

// lookupHost issues a lookup host query for the specified qtype (e.g., dns.TypeA).
func (r *parallelResolver) lookupHost(ctx context.Context, hostname string,
	qtype uint16, out chan<- *parallelResolverResult) {
	encoder := &dnsEncoderMiekg{}
	query, queryID, err := encoder.encode(hostname, qtype, r.txp.RequiresPadding())
	if err != nil {
		out <- &parallelResolverResult{err: err}
		return
	}
	reply, err := r.txp.RoundTrip(ctx, query)
	if err != nil {
		out <- &parallelResolverResult{err: err}
		return
	}
	decoder := &dnsDecoderMiekg{}
	addrs, err := decoder.decodeLookupHost(qtype, reply, queryID)
	out <- &parallelResolverResult{
		addrs: addrs,
		err:   err,
	}
}
