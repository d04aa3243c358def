// internal/tenant/host.go
//
// Host header normalization.
//
// NormalizeHost strips the port (IPv4, IPv6, and bare names), a trailing
// root dot, and case, so “Alice.Example.com.:8443” becomes
// “alice.example.com”.  dnsSafe rejects anything that cannot be a
// hostname; the resolver treats those hosts as the platform root.
package tenant

import (
	"net"
	"strings"
)

const (
	maxHostLen  = 253
	maxLabelLen = 63
)

// NormalizeHost returns the canonical lookup form of a Host header.
func NormalizeHost(h string) string {
	h = strings.TrimSpace(h)
	if host, _, err := net.SplitHostPort(h); err == nil {
		h = host
	}
	h = strings.TrimPrefix(h, "[")
	h = strings.TrimSuffix(h, "]")
	h = strings.TrimSuffix(h, ".")
	return strings.ToLower(h)
}

// dnsSafe reports whether h (already normalized) is a plausible hostname.
func dnsSafe(h string) bool {
	if h == "" || len(h) > maxHostLen {
		return false
	}
	for _, label := range strings.Split(h, ".") {
		if label == "" || len(label) > maxLabelLen {
			return false
		}
		if !isIDCharset(label) {
			return false
		}
	}
	return true
}
