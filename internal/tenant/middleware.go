// internal/tenant/middleware.go
//
// Edge rewrite middleware.
//
// Context
// -------
// Middleware runs Resolve once per request, stores the Resolution in the
// request context, and for TENANT requests rewrites r.URL.Path to the
// canonical `/{id}{path}` form before the router matches routes.  The
// rewrite is internal; the client never sees a redirect.
//
// Workflow
// --------
//  1. Paths on the passthrough list (health, metrics, static assets) are
//     forwarded untouched and unresolved.
//  2. Everything else is resolved.  ROOT requests pass through with the
//     Resolution attached.
//  3. TENANT requests get a shallow-copied URL with the rewritten path.
//
// Notes
// -----
// • Must be registered with chi's Use so it runs before route matching.
// • Oxford commas, two spaces after periods.
package tenant

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/yanizio/folio/internal/metrics"
)

type ctxKey struct{}

// WithResolution returns ctx carrying res.
func WithResolution(ctx context.Context, res Resolution) context.Context {
	return context.WithValue(ctx, ctxKey{}, res)
}

// FromContext returns the Resolution stored by Middleware.
func FromContext(ctx context.Context) (Resolution, bool) {
	res, ok := ctx.Value(ctxKey{}).(Resolution)
	return res, ok
}

// DefaultPassthrough lists path prefixes that are never resolved.
var DefaultPassthrough = []string{"/healthz", "/metrics", "/static/", "/favicon.ico"}

// Middleware returns a rewrite middleware bound to res.
func Middleware(res *Resolver, passthrough []string) func(http.Handler) http.Handler {
	if passthrough == nil {
		passthrough = DefaultPassthrough
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, p := range passthrough {
				if strings.HasPrefix(r.URL.Path, p) {
					next.ServeHTTP(w, r)
					return
				}
			}

			out := res.Resolve(r.Host, r.URL.Path)
			metrics.ResolveTotal.WithLabelValues(string(out.Mode)).Inc()

			r = r.WithContext(WithResolution(r.Context(), out))
			if out.Mode != ModeTenant {
				next.ServeHTTP(w, r)
				return
			}

			u := *r.URL
			u.Path = out.RewrittenPath
			u.RawPath = ""
			r.URL = &u
			r.RequestURI = u.RequestURI()

			zap.L().Debug("tenant rewrite",
				zap.String("host", out.Host),
				zap.String("from", out.Path),
				zap.String("to", out.RewrittenPath))

			next.ServeHTTP(w, r)
		})
	}
}
