package dnshttp

//
// Constructing a Resolver from the system configuration
//

import (
	"net"
	"time"

	"github.com/miekg/dns"
)

// resolvConfPath is where Unix systems keep the DNS configuration.
const resolvConfPath = "/etc/resolv.conf"

// FromSystemConfig creates a Resolver using the nameservers, timeout,
// and attempts found in the system DNS configuration. The nameservers
// are always spoken to over UDP on the configured port. We only return
// an error when reading or parsing the configuration fails.
func FromSystemConfig() (Resolver, error) {
	return fromResolvConf(resolvConfPath, DefaultOptions())
}

// fromResolvConf parses the resolv.conf(5) file at path and builds a
// Resolver from it.
func fromResolvConf(path string, options Options) (Resolver, error) {
	config, options, err := parseResolvConf(path, options)
	if err != nil {
		return Resolver{}, err
	}
	return WithConfigAndOptions(config, options), nil
}

// parseResolvConf maps a resolv.conf(5) file onto a Config and Options
// pair, keeping the logger and hosts-file settings of the given options
// but replacing timeout and attempts with the parsed values.
func parseResolvConf(path string, options Options) (Config, Options, error) {
	cc, err := dns.ClientConfigFromFile(path)
	if err != nil {
		return Config{}, Options{}, err
	}
	config := Config{Network: NetworkUDP}
	for _, server := range cc.Servers {
		config.Servers = append(config.Servers, net.JoinHostPort(server, cc.Port))
	}
	if len(config.Servers) < 1 {
		// behave like the stdlib when resolv.conf names no servers
		config.Servers = []string{net.JoinHostPort("127.0.0.1", cc.Port)}
	}
	if cc.Timeout > 0 {
		options.Timeout = time.Duration(cc.Timeout) * time.Second
	}
	if cc.Attempts > 0 {
		options.Attempts = cc.Attempts
	}
	return config, options, nil
}
