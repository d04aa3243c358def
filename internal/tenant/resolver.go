// internal/tenant/resolver.go
//
// Request-to-tenant resolution.
//
// Context
// -------
// Every inbound request is classified before any data is fetched:
//
//   - ROOT   – the platform's own pages (landing, path-addressed tenants).
//   - TENANT – a subdomain such as alice.example.com.  The path is rewritten
//     to the canonical internal route `/{id}{originalPath}`.
//
// Rules, in order
// ---------------
//  1. Host is one of the configured root hosts           → ROOT.
//  2. Host is empty, not DNS-safe, an IP, or one label  → ROOT.
//  3. Leftmost label is reserved (www, api, …)          → ROOT.
//  4. Leftmost label is not a valid tenant ID           → ROOT.
//  5. Otherwise                                         → TENANT.
//
// Resolve is pure string work; it never performs I/O and never fails.
// Anything it cannot make sense of degrades to ROOT.
package tenant

import (
	"net"
	"strings"
)

// Mode is the resolver's classification of a request.
type Mode string

const (
	ModeRoot   Mode = "root"
	ModeTenant Mode = "tenant"
)

// Resolution is the outcome of Resolve.
type Resolution struct {
	Mode          Mode
	TenantID      ID     // empty in ModeRoot
	Host          string // normalized host
	Path          string // original path
	RewrittenPath string // equals Path in ModeRoot
}

// Options configures a Resolver.
type Options struct {
	RootHosts      []string // apex and dev hosts, e.g. example.com, localhost
	ReservedLabels []string // added to DefaultReservedLabels
}

// DefaultReservedLabels are always reserved.
var DefaultReservedLabels = []string{"www", "api"}

// Resolver maps host/path pairs to Resolutions.  Immutable after
// construction, so one instance serves all requests.
type Resolver struct {
	rootHosts map[string]struct{}
	reserved  map[string]struct{}
}

// NewResolver builds a Resolver from opts.
func NewResolver(opts Options) *Resolver {
	r := &Resolver{
		rootHosts: make(map[string]struct{}, len(opts.RootHosts)),
		reserved:  make(map[string]struct{}, len(DefaultReservedLabels)+len(opts.ReservedLabels)),
	}
	for _, h := range opts.RootHosts {
		if n := NormalizeHost(h); n != "" {
			r.rootHosts[n] = struct{}{}
		}
	}
	for _, l := range append(append([]string(nil), DefaultReservedLabels...), opts.ReservedLabels...) {
		if l = strings.ToLower(strings.TrimSpace(l)); l != "" {
			r.reserved[l] = struct{}{}
		}
	}
	return r
}

// Resolve classifies hostname and path.
func (r *Resolver) Resolve(hostname, path string) Resolution {
	host := NormalizeHost(hostname)
	root := Resolution{Mode: ModeRoot, Host: host, Path: path, RewrittenPath: path}

	if r.isRootHost(host) {
		return root
	}
	if !dnsSafe(host) || net.ParseIP(host) != nil {
		return root
	}

	label, _, found := strings.Cut(host, ".")
	if !found || label == "" {
		return root
	}
	if _, ok := r.reserved[label]; ok {
		return root
	}

	id, err := ParseID(label)
	if err != nil {
		return root
	}

	return Resolution{
		Mode:          ModeTenant,
		TenantID:      id,
		Host:          host,
		Path:          path,
		RewrittenPath: BuildPath(id, path),
	}
}

// isRootHost reports whether the normalized host is a configured root host.
func (r *Resolver) isRootHost(host string) bool {
	_, ok := r.rootHosts[host]
	return ok
}
