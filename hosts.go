package dnshttp

//
// System hosts file support
//

import (
	"context"
	"net"
	"os"
	"runtime"
	"strings"
	"sync"
)

// hostsFilePath returns the location of the system hosts file.
func hostsFilePath() string {
	if runtime.GOOS == "windows" {
		return `C:\Windows\System32\Drivers\etc\hosts`
	}
	return "/etc/hosts"
}

// resolverHosts is a resolver that consults the system hosts file
// before delegating to the underlying resolver. The file is loaded
// lazily the first time we need it and never reloaded: lookups must
// stay O(1) after that. A missing or malformed file is not an error,
// it just means there is nothing to consult.
type resolverHosts struct {
	resolver

	// path is the hosts file location, overridable for testing.
	path string

	once  sync.Once
	table map[string][]string
}

// LookupHost implements resolver.LookupHost.
func (r *resolverHosts) LookupHost(ctx context.Context, hostname string) ([]string, error) {
	r.once.Do(r.load)
	if addrs := r.table[strings.ToLower(hostname)]; len(addrs) > 0 {
		return addrs, nil
	}
	return r.resolver.LookupHost(ctx, hostname)
}

// load parses the hosts file into the lookup table.
func (r *resolverHosts) load() {
	r.table = make(map[string][]string)
	path := r.path
	if path == "" {
		path = hostsFilePath()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	for _, line := range strings.Split(string(data), "\n") {
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		ip := net.ParseIP(fields[0])
		if ip == nil {
			continue
		}
		for _, name := range fields[1:] {
			key := strings.ToLower(name)
			r.table[key] = append(r.table[key], ip.String())
		}
	}
}
