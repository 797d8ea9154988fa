package dnshttp

//
// Nameserver configuration and resolution options
//

import "time"

// Transport networks accepted by Config.Network.
const (
	// NetworkUDP selects DNS over UDP.
	NetworkUDP = "udp"

	// NetworkDoT selects DNS over TLS.
	NetworkDoT = "dot"

	// NetworkDoH selects DNS over HTTPS.
	NetworkDoH = "doh"
)

// Config describes the nameservers a Resolver should query. The zero
// value is not valid: use one of the ConfigXXX presets or fill in the
// fields explicitly and pass the result to WithConfigAndOptions.
type Config struct {
	// Network selects the DNS transport: NetworkUDP, NetworkDoT,
	// or NetworkDoH. An empty string means NetworkUDP.
	Network string

	// Servers lists the nameserver endpoints in host:port form. With
	// NetworkDoH these are the bootstrap TCP endpoints used to reach
	// the DoH server without consulting any other resolver.
	Servers []string

	// ServerName is the TLS server name used for certificate
	// verification with NetworkDoT and NetworkDoH.
	ServerName string

	// URL is the DoH query URL. Only meaningful with NetworkDoH.
	URL string
}

// ConfigGoogle returns the configuration for querying the Google
// public nameservers over UDP.
func ConfigGoogle() Config {
	return Config{
		Network: NetworkUDP,
		Servers: []string{
			"8.8.8.8:53",
			"8.8.4.4:53",
			"[2001:4860:4860::8888]:53",
			"[2001:4860:4860::8844]:53",
		},
	}
}

// ConfigCloudflare returns the configuration for querying the
// Cloudflare public nameservers over UDP.
func ConfigCloudflare() Config {
	return Config{
		Network: NetworkUDP,
		Servers: []string{
			"1.1.1.1:53",
			"1.0.0.1:53",
			"[2606:4700:4700::1111]:53",
			"[2606:4700:4700::1001]:53",
		},
	}
}

// ConfigCloudflareTLS returns the configuration for querying the
// Cloudflare public nameservers over TLS.
func ConfigCloudflareTLS() Config {
	return Config{
		Network: NetworkDoT,
		Servers: []string{
			"1.1.1.1:853",
			"1.0.0.1:853",
			"[2606:4700:4700::1111]:853",
			"[2606:4700:4700::1001]:853",
		},
		ServerName: "cloudflare-dns.com",
	}
}

// ConfigCloudflareHTTPS returns the configuration for querying the
// Cloudflare public nameservers over HTTPS.
func ConfigCloudflareHTTPS() Config {
	return Config{
		Network: NetworkDoH,
		Servers: []string{
			"1.1.1.1:443",
			"1.0.0.1:443",
			"[2606:4700:4700::1111]:443",
			"[2606:4700:4700::1001]:443",
		},
		ServerName: "cloudflare-dns.com",
		URL:        "https://cloudflare-dns.com/dns-query",
	}
}

// ConfigQuad9 returns the configuration for querying the Quad9
// public nameservers over UDP.
func ConfigQuad9() Config {
	return Config{
		Network: NetworkUDP,
		Servers: []string{
			"9.9.9.9:53",
			"149.112.112.112:53",
			"[2620:fe::fe]:53",
			"[2620:fe::9]:53",
		},
	}
}

// ConfigQuad9TLS returns the configuration for querying the Quad9
// public nameservers over TLS.
func ConfigQuad9TLS() Config {
	return Config{
		Network: NetworkDoT,
		Servers: []string{
			"9.9.9.9:853",
			"149.112.112.112:853",
			"[2620:fe::fe]:853",
			"[2620:fe::9]:853",
		},
		ServerName: "dns.quad9.net",
	}
}

// ConfigQuad9HTTPS returns the configuration for querying the Quad9
// public nameservers over HTTPS.
func ConfigQuad9HTTPS() Config {
	return Config{
		Network: NetworkDoH,
		Servers: []string{
			"9.9.9.9:443",
			"149.112.112.112:443",
			"[2620:fe::fe]:443",
			"[2620:fe::9]:443",
		},
		ServerName: "dns.quad9.net",
		URL:        "https://dns.quad9.net/dns-query",
	}
}

// Options tunes how the backend performs lookups. The zero value is
// valid and means "use the defaults".
type Options struct {
	// Timeout is the timeout applied to each query attempt. Zero or
	// negative means five seconds.
	Timeout time.Duration

	// Attempts is the number of rounds across the configured
	// nameservers before a lookup fails. Zero or negative means two.
	Attempts int

	// UseHosts indicates whether to consult the system hosts file
	// before querying the nameservers.
	UseHosts bool

	// Logger is the logger the resolver and derived connectors emit
	// debug messages to. Nil means DiscardLogger.
	Logger Logger
}

// DefaultOptions returns the default resolution options.
func DefaultOptions() Options {
	return Options{
		Timeout:  5 * time.Second,
		Attempts: 2,
	}
}

// timeout returns the effective per-query timeout.
func (o Options) timeout() time.Duration {
	if o.Timeout > 0 {
		return o.Timeout
	}
	return 5 * time.Second
}

// attempts returns the effective number of attempts.
func (o Options) attempts() int {
	if o.Attempts > 0 {
		return o.Attempts
	}
	return 2
}
