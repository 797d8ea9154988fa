package dnshttp

import (
	"testing"

	"github.com/miekg/dns"
)

func TestDNSEncoderMiekg(t *testing.T) {
	t.Run("with padding", func(t *testing.T) {
		e := &dnsEncoderMiekg{}
		data, queryID, err := e.encode("www.example.com", dns.TypeA, true)
		if err != nil {
			t.Fatal(err)
		}
		if len(data)%dnsPaddingDesiredBlockSize != 0 {
			t.Fatal("unexpected query length", len(data))
		}
		msg := new(dns.Msg)
		if err := msg.Unpack(data); err != nil {
			t.Fatal(err)
		}
		if msg.Id != queryID {
			t.Fatal("returned query ID does not match the message")
		}
		if msg.IsEdns0() == nil {
			t.Fatal("expected an EDNS0 OPT record")
		}
	})

	t.Run("without padding", func(t *testing.T) {
		e := &dnsEncoderMiekg{}
		data, queryID, err := e.encode("www.example.com", dns.TypeAAAA, false)
		if err != nil {
			t.Fatal(err)
		}
		msg := new(dns.Msg)
		if err := msg.Unpack(data); err != nil {
			t.Fatal(err)
		}
		if msg.Id != queryID {
			t.Fatal("returned query ID does not match the message")
		}
		if msg.IsEdns0() != nil {
			t.Fatal("did not expect an EDNS0 OPT record")
		}
		if len(msg.Question) != 1 {
			t.Fatal("invalid number of questions")
		}
		if msg.Question[0].Name != "www.example.com." {
			t.Fatal("invalid question name", msg.Question[0].Name)
		}
		if msg.Question[0].Qtype != dns.TypeAAAA {
			t.Fatal("invalid question qtype")
		}
		if !msg.RecursionDesired {
			t.Fatal("expected the RD bit to be set")
		}
	})

	t.Run("query IDs are not constant", func(t *testing.T) {
		e := &dnsEncoderMiekg{}
		ids := make(map[uint16]bool)
		for i := 0; i < 16; i++ {
			_, queryID, err := e.encode("www.example.com", dns.TypeA, false)
			if err != nil {
				t.Fatal(err)
			}
			ids[queryID] = true
		}
		if len(ids) < 2 {
			t.Fatal("expected more than one distinct query ID")
		}
	})
}
