// internal/middleware/security.go
//
// Security-header middleware.
//
// Sets these headers on every response unless the handler already did:
//
//   • Strict-Transport-Security  –  forces HTTPS (2 years)
//   • Content-Security-Policy   –  self plus the Instagram and LinkedIn
//                                  embed origins portfolio pages need
//   • X-Frame-Options           –  click-jacking defence
//   • X-Content-Type-Options    –  MIME-sniffing defence
//   • Referrer-Policy           –  drops path/query from Referer
//   • Permissions-Policy        –  disables powerful features
//
// Notes
// -----
// • Defaults are written *before* next.ServeHTTP because headers set after
//   the first Write never reach the client.  A handler that sets its own
//   value simply overwrites the default.
// • style-src allows 'unsafe-inline' for the per-request theme element.
// • Oxford commas, two spaces after periods.

package middleware

import "net/http"

// CSP is the default Content-Security-Policy.
const CSP = "default-src 'self'; " +
	"script-src 'self' https://www.instagram.com; " +
	"style-src 'self' 'unsafe-inline'; " +
	"img-src 'self' data: https:; " +
	"frame-src https://www.instagram.com https://www.linkedin.com; " +
	"object-src 'none'; base-uri 'self'; frame-ancestors 'none'"

// Security sets security headers for every response.
func Security(next http.Handler) http.Handler {
	defaults := [][2]string{
		{"Strict-Transport-Security", "max-age=63072000; includeSubDomains"},
		{"Content-Security-Policy", CSP},
		{"X-Frame-Options", "DENY"},
		{"X-Content-Type-Options", "nosniff"},
		{"Referrer-Policy", "strict-origin-when-cross-origin"},
		{"Permissions-Policy", "geolocation=(), microphone=(), camera=()"},
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		for _, kv := range defaults {
			if h.Get(kv[0]) == "" {
				h.Set(kv[0], kv[1])
			}
		}
		next.ServeHTTP(w, r)
	})
}
