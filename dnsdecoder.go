package dnshttp

//
// Decode byte arrays to DNS messages
//

import "github.com/miekg/dns"

// dnsDecoderMiekg uses github.com/miekg/dns to decode replies.
type dnsDecoderMiekg struct{}

// parseReply decodes the reply and ensures that (1) it carries the same
// query ID we sent out and (2) its rcode indicates success. We map the
// common failure rcodes to this package's sentinel errors.
func (d *dnsDecoderMiekg) parseReply(data []byte, queryID uint16) (*dns.Msg, error) {
	reply := new(dns.Msg)
	if err := reply.Unpack(data); err != nil {
		return nil, err
	}
	if reply.Id != queryID {
		return nil, ErrReplyWithWrongQueryID
	}
	switch reply.Rcode {
	case dns.RcodeSuccess:
		return reply, nil
	case dns.RcodeNameError:
		return nil, ErrNoSuchHost
	case dns.RcodeRefused:
		return nil, ErrRefused
	case dns.RcodeServerFailure:
		return nil, ErrServfail
	default:
		return nil, ErrServerMisbehaving
	}
}

// decodeLookupHost decodes an A or AAAA reply into the list of
// addresses it contains.
func (d *dnsDecoderMiekg) decodeLookupHost(qtype uint16, data []byte, queryID uint16) ([]string, error) {
	reply, err := d.parseReply(data, queryID)
	if err != nil {
		return nil, err
	}
	var addrs []string
	for _, answer := range reply.Answer {
		switch qtype {
		case dns.TypeA:
			if rra, ok := answer.(*dns.A); ok {
				addrs = append(addrs, rra.A.String())
			}
		case dns.TypeAAAA:
			if rra, ok := answer.(*dns.AAAA); ok {
				addrs = append(addrs, rra.AAAA.String())
			}
		}
	}
	if len(addrs) <= 0 {
		return nil, ErrNoAnswer
	}
	return addrs, nil
}
