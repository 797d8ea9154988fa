package dnshttp

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/dnshttp/dnshttp/internal/mocks"
	"github.com/google/go-cmp/cmp"
)

func TestHTTPSConfig(t *testing.T) {
	t.Run("the default advertises both protocols", func(t *testing.T) {
		config := DefaultHTTPSConfig()
		if diff := cmp.Diff([]string{"h2", "http/1.1"}, config.nextProtos()); diff != "" {
			t.Fatal(diff)
		}
		if config.HTTPSOnly {
			t.Fatal("the default must allow plaintext HTTP")
		}
	})

	t.Run("HTTP/1.1 only", func(t *testing.T) {
		config := HTTPSConfig{EnableHTTP1: true}
		if diff := cmp.Diff([]string{"http/1.1"}, config.nextProtos()); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("HTTP/2 only", func(t *testing.T) {
		config := HTTPSConfig{EnableHTTP2: true}
		if diff := cmp.Diff([]string{"h2"}, config.nextProtos()); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("panics when every protocol is disabled", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Fatal("expected a panic here")
			}
		}()
		HTTPSConfig{}.nextProtos()
	})
}

func TestResolverNewHTTPTransport(t *testing.T) {
	t.Run("the transport resolves with the wrapped resolver", func(t *testing.T) {
		// we can observe the wiring by looking at how CloseIdleConnections
		// propagates down to the resolver backend
		var closed bool
		reso := Resolver{chain: &mocks.Resolver{
			MockCloseIdleConnections: func() {
				closed = true
			},
		}}
		txp := reso.NewHTTPTransport()
		txp.CloseIdleConnections()
		if !closed {
			t.Fatal("expected CloseIdleConnections to reach the resolver")
		}
	})
}

func TestResolverNewHTTPSTransport(t *testing.T) {
	t.Run("rejects plaintext HTTP when HTTPSOnly is set", func(t *testing.T) {
		reso := Resolver{chain: &mocks.Resolver{
			MockCloseIdleConnections: func() {},
		}}
		config := DefaultHTTPSConfig()
		config.HTTPSOnly = true
		txp := reso.NewHTTPSTransport(config)
		req := &http.Request{URL: &url.URL{Scheme: "http", Host: "www.example.com"}}
		resp, err := txp.RoundTrip(req)
		if !errors.Is(err, ErrHTTPSOnly) {
			t.Fatal("not the error we expected", err)
		}
		if resp != nil {
			t.Fatal("expected nil response here")
		}
	})

	t.Run("allows plaintext HTTP by default", func(t *testing.T) {
		// the request must make it past the policy layer and fail inside
		// the real transport because resolution fails
		expected := errors.New("mocked resolution error")
		reso := Resolver{chain: &mocks.Resolver{
			MockLookupHost: func(ctx context.Context, domain string) ([]string, error) {
				return nil, expected
			},
			MockCloseIdleConnections: func() {},
		}}
		txp := reso.NewHTTPSTransport(DefaultHTTPSConfig())
		req, err := http.NewRequest("GET", "http://www.example.com/", nil)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := txp.RoundTrip(req); !errors.Is(err, expected) {
			t.Fatal("not the error we expected", err)
		}
	})

	t.Run("CloseIdleConnections reaches the resolver", func(t *testing.T) {
		var closed int
		reso := Resolver{chain: &mocks.Resolver{
			MockCloseIdleConnections: func() {
				closed++
			},
		}}
		txp := reso.NewHTTPSTransport(DefaultHTTPSConfig())
		txp.CloseIdleConnections()
		if closed < 1 {
			t.Fatal("expected CloseIdleConnections to reach the resolver")
		}
	})
}

func TestHTTPTransportLogger(t *testing.T) {
	t.Run("forwards failures", func(t *testing.T) {
		expected := errors.New("mocked error")
		txp := &httpTransportLogger{
			HTTPTransport: &mocks.HTTPTransport{
				MockRoundTrip: func(req *http.Request) (*http.Response, error) {
					return nil, expected
				},
			},
			Logger: DiscardLogger,
		}
		req, err := http.NewRequest("GET", "https://www.example.com/", nil)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := txp.RoundTrip(req); !errors.Is(err, expected) {
			t.Fatal("not the error we expected", err)
		}
	})

	t.Run("forwards successes", func(t *testing.T) {
		txp := &httpTransportLogger{
			HTTPTransport: &mocks.HTTPTransport{
				MockRoundTrip: func(req *http.Request) (*http.Response, error) {
					return &http.Response{StatusCode: 200}, nil
				},
			},
			Logger: DiscardLogger,
		}
		req, err := http.NewRequest("GET", "https://www.example.com/", nil)
		if err != nil {
			t.Fatal(err)
		}
		resp, err := txp.RoundTrip(req)
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != 200 {
			t.Fatal("unexpected status code")
		}
	})
}

func TestNewDoHBootstrapClient(t *testing.T) {
	t.Run("panics with no bootstrap servers", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Fatal("expected a panic here")
			}
		}()
		newDoHBootstrapClient(Config{
			Network: NetworkDoH,
			URL:     "https://cloudflare-dns.com/dns-query",
		})
	})

	t.Run("panics with no URL", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Fatal("expected a panic here")
			}
		}()
		newDoHBootstrapClient(Config{
			Network: NetworkDoH,
			Servers: []string{"1.1.1.1:443"},
		})
	})

	t.Run("configures the server name for certificate verification", func(t *testing.T) {
		client := newDoHBootstrapClient(ConfigCloudflareHTTPS())
		realClient, ok := client.(*http.Client)
		if !ok {
			t.Fatal("expected an *http.Client")
		}
		txp, ok := realClient.Transport.(*http.Transport)
		if !ok {
			t.Fatal("expected an *http.Transport")
		}
		if txp.TLSClientConfig == nil || txp.TLSClientConfig.ServerName != "cloudflare-dns.com" {
			t.Fatal("unexpected TLS client config")
		}
		if txp.Proxy != nil {
			t.Fatal("expected no proxy")
		}
	})
}
