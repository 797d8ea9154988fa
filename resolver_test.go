package dnshttp

import (
	"context"
	"errors"
	"net/netip"
	"sync"
	"testing"

	"github.com/dnshttp/dnshttp/internal/mocks"
)

func TestResolverConstructors(t *testing.T) {
	t.Run("presets construct without failing", func(t *testing.T) {
		presets := map[string]func() Resolver{
			"New":             New,
			"Google":          Google,
			"Cloudflare":      Cloudflare,
			"CloudflareTLS":   CloudflareTLS,
			"CloudflareHTTPS": CloudflareHTTPS,
			"Quad9":           Quad9,
			"Quad9TLS":        Quad9TLS,
			"Quad9HTTPS":      Quad9HTTPS,
		}
		for name, mk := range presets {
			t.Run(name, func(t *testing.T) {
				reso := mk()
				if reso.Network() == "" {
					t.Fatal("expected a network")
				}
				if reso.Address() == "" {
					t.Fatal("expected an address")
				}
				reso.CloseIdleConnections()
			})
		}
	})

	t.Run("the default resolver uses the Google nameservers", func(t *testing.T) {
		reso := New()
		if reso.Network() != "udp" {
			t.Fatal("unexpected network", reso.Network())
		}
		if reso.Address() != "8.8.8.8:53" {
			t.Fatal("unexpected address", reso.Address())
		}
	})

	t.Run("TLS presets use the dot network", func(t *testing.T) {
		if CloudflareTLS().Network() != "dot" {
			t.Fatal("unexpected network")
		}
		if Quad9TLS().Network() != "dot" {
			t.Fatal("unexpected network")
		}
	})

	t.Run("HTTPS presets use the doh network", func(t *testing.T) {
		reso := CloudflareHTTPS()
		if reso.Network() != "doh" {
			t.Fatal("unexpected network")
		}
		if reso.Address() != "https://cloudflare-dns.com/dns-query" {
			t.Fatal("unexpected address", reso.Address())
		}
	})

	t.Run("panics on an unknown network", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Fatal("expected a panic here")
			}
		}()
		WithConfigAndOptions(Config{
			Network: "smoke-signals",
			Servers: []string{"8.8.8.8:53"},
		}, DefaultOptions())
	})

	t.Run("panics with no servers", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Fatal("expected a panic here")
			}
		}()
		WithConfigAndOptions(Config{Network: NetworkUDP}, DefaultOptions())
	})

	t.Run("panics with doh and no URL", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Fatal("expected a panic here")
			}
		}()
		WithConfigAndOptions(Config{
			Network: NetworkDoH,
			Servers: []string{"1.1.1.1:443"},
		}, DefaultOptions())
	})
}

func TestResolverResolve(t *testing.T) {
	t.Run("on success returns the addresses with port zero", func(t *testing.T) {
		reso := Resolver{chain: &mocks.Resolver{
			MockLookupHost: func(ctx context.Context, domain string) ([]string, error) {
				return []string{"130.192.91.211", "::1"}, nil
			},
		}}
		addrs, err := reso.Resolve(context.Background(), "www.example.com")
		if err != nil {
			t.Fatal(err)
		}
		first, ok := addrs.Next()
		if !ok || first.Port() != 0 {
			t.Fatal("unexpected first address", first)
		}
		if first.Addr() != netip.MustParseAddr("130.192.91.211") {
			t.Fatal("unexpected first address", first)
		}
		second, ok := addrs.Next()
		if !ok || second.Addr() != netip.MustParseAddr("::1") {
			t.Fatal("unexpected second address", second)
		}
		if _, ok := addrs.Next(); ok {
			t.Fatal("expected exhaustion")
		}
	})

	t.Run("propagates the backend error unmodified", func(t *testing.T) {
		expected := errors.New("mocked backend error")
		reso := Resolver{chain: &mocks.Resolver{
			MockLookupHost: func(ctx context.Context, domain string) ([]string, error) {
				return nil, expected
			},
		}}
		addrs, err := reso.Resolve(context.Background(), "www.example.com")
		if err != expected {
			t.Fatal("expected the very same error value", err)
		}
		if addrs != nil {
			t.Fatal("expected nil addrs here")
		}
	})

	t.Run("copies share the same backend", func(t *testing.T) {
		var lookups, closes int
		reso := Resolver{chain: &mocks.Resolver{
			MockLookupHost: func(ctx context.Context, domain string) ([]string, error) {
				lookups++
				return []string{"8.8.8.8"}, nil
			},
			MockCloseIdleConnections: func() {
				closes++
			},
		}}
		clone := reso
		if _, err := reso.Resolve(context.Background(), "a.example.com"); err != nil {
			t.Fatal(err)
		}
		if _, err := clone.Resolve(context.Background(), "b.example.com"); err != nil {
			t.Fatal(err)
		}
		clone.CloseIdleConnections()
		if lookups != 2 {
			t.Fatal("expected both copies to hit the same backend", lookups)
		}
		if closes != 1 {
			t.Fatal("expected the clone to close the shared backend", closes)
		}
	})

	t.Run("supports concurrent resolutions", func(t *testing.T) {
		reso := Resolver{chain: &mocks.Resolver{
			MockLookupHost: func(ctx context.Context, domain string) ([]string, error) {
				return []string{"8.8.8.8"}, nil
			},
		}}
		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := reso.Resolve(context.Background(), "www.example.com"); err != nil {
					t.Error(err)
				}
			}()
		}
		wg.Wait()
	})

	t.Run("honours context cancellation", func(t *testing.T) {
		reso := Resolver{chain: &mocks.Resolver{
			MockLookupHost: func(ctx context.Context, domain string) ([]string, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			},
		}}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := reso.Resolve(ctx, "www.example.com"); !errors.Is(err, context.Canceled) {
			t.Fatal("not the error we expected", err)
		}
	})
}

func TestResolverIDNA(t *testing.T) {
	t.Run("converts to punycode before the lookup", func(t *testing.T) {
		var got string
		r := &resolverIDNA{&mocks.Resolver{
			MockLookupHost: func(ctx context.Context, domain string) ([]string, error) {
				got = domain
				return []string{"77.238.33.91"}, nil
			},
		}}
		if _, err := r.LookupHost(context.Background(), "яндекс.рф"); err != nil {
			t.Fatal(err)
		}
		if got != "xn--d1acpjx3f.xn--p1ai" {
			t.Fatal("unexpected domain on the wire", got)
		}
	})

	t.Run("fails on invalid input", func(t *testing.T) {
		r := &resolverIDNA{&mocks.Resolver{
			MockLookupHost: func(ctx context.Context, domain string) ([]string, error) {
				t.Fatal("should not be called")
				return nil, nil
			},
		}}
		// see https://www.farsightsecurity.com/blog/txt-record/punycode-20180711/
		if _, err := r.LookupHost(context.Background(), "xn--0000h"); err == nil {
			t.Fatal("expected an error here")
		}
	})
}

func TestResolverShortCircuitIPAddr(t *testing.T) {
	t.Run("returns IP literals without a lookup", func(t *testing.T) {
		r := &resolverShortCircuitIPAddr{&mocks.Resolver{
			MockLookupHost: func(ctx context.Context, domain string) ([]string, error) {
				t.Fatal("should not be called")
				return nil, nil
			},
		}}
		addrs, err := r.LookupHost(context.Background(), "8.8.8.8")
		if err != nil {
			t.Fatal(err)
		}
		if len(addrs) != 1 || addrs[0] != "8.8.8.8" {
			t.Fatal("unexpected addrs", addrs)
		}
	})

	t.Run("delegates domain names", func(t *testing.T) {
		expected := []string{"8.8.8.8"}
		r := &resolverShortCircuitIPAddr{&mocks.Resolver{
			MockLookupHost: func(ctx context.Context, domain string) ([]string, error) {
				return expected, nil
			},
		}}
		addrs, err := r.LookupHost(context.Background(), "dns.google")
		if err != nil {
			t.Fatal(err)
		}
		if len(addrs) != 1 || addrs[0] != "8.8.8.8" {
			t.Fatal("unexpected addrs", addrs)
		}
	})
}

func TestResolverLogger(t *testing.T) {
	t.Run("forwards success and failure", func(t *testing.T) {
		expected := errors.New("mocked error")
		calls := 0
		r := &resolverLogger{
			Resolver: &mocks.Resolver{
				MockLookupHost: func(ctx context.Context, domain string) ([]string, error) {
					calls++
					if calls > 1 {
						return nil, expected
					}
					return []string{"8.8.8.8"}, nil
				},
				MockNetwork: func() string {
					return "udp"
				},
				MockAddress: func() string {
					return "8.8.8.8:53"
				},
			},
			Logger: DiscardLogger,
		}
		if _, err := r.LookupHost(context.Background(), "dns.google"); err != nil {
			t.Fatal(err)
		}
		if _, err := r.LookupHost(context.Background(), "dns.google"); !errors.Is(err, expected) {
			t.Fatal("not the error we expected", err)
		}
	})
}
