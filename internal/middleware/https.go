// Package middleware holds small, composable HTTP wrappers.
package middleware

import (
	"net/http"
	"strings"

	"github.com/yanizio/folio/internal/tenant"
)

// ForceHTTPS returns a wrapper that issues a 308 Permanent Redirect to the
// HTTPS version of the URL for plain-HTTP requests.  Hosts in exempt
// (typically localhost) are never redirected.  With trustProxy set,
// X-Forwarded-Proto: https counts as already secure.
func ForceHTTPS(exempt []string, trustProxy bool) func(http.Handler) http.Handler {
	skip := make(map[string]struct{}, len(exempt))
	for _, h := range exempt {
		skip[tenant.NormalizeHost(h)] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.TLS != nil ||
				(trustProxy && strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")) {
				next.ServeHTTP(w, r)
				return
			}
			if _, ok := skip[tenant.NormalizeHost(r.Host)]; ok {
				next.ServeHTTP(w, r)
				return
			}

			target := "https://" + r.Host + r.URL.RequestURI()
			http.Redirect(w, r, target, http.StatusPermanentRedirect)
		})
	}
}
