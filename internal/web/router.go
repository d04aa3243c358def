// internal/web/router.go
//
// HTTP surface for Folio.
//
// Context
// -------
// NewRouter assembles one chi.Mux for the whole deployment.  Subdomain
// requests are rewritten to the canonical `/{tenantID}{path}` form by the
// tenant middleware before chi matches a route, so the same handler serves
// `alice.example.com/` and `example.com/alice`.
//
// Middleware order
// ----------------
//  1. RequestID, Recoverer   – chi built-ins.
//  2. requestinfo.Enrich     – UA and geo, outer to the access log.
//  3. requestinfo.AccessLog  – one zap line per request.
//  4. Security, ForceHTTPS   – response headers and optional redirect.
//  5. tenant.Middleware      – subdomain rewrite (skips passthrough paths).
//  6. PageCache              – optional Redis replay of rendered pages.
//
// Notes
// -----
//   - /healthz, /metrics, /static/, and /favicon.ico are passthrough paths
//     and are never rewritten.
//   - /_debug/resolve is mounted only when `debug` is on.
//   - Oxford commas, two spaces after periods.
package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yanizio/folio/internal/cache"
	"github.com/yanizio/folio/internal/layout"
	"github.com/yanizio/folio/internal/middleware"
	"github.com/yanizio/folio/internal/profile"
	"github.com/yanizio/folio/internal/requestinfo"
	"github.com/yanizio/folio/internal/tenant"
	"github.com/yanizio/folio/internal/view"
)

// DebugPrefix is added to the passthrough list when debug routes are on.
const DebugPrefix = "/_debug/"

// Options carries everything the router needs.  Loader, Renderer, and
// Resolver are required.
type Options struct {
	Loader   profile.Loader
	Renderer *view.Renderer
	Resolver *tenant.Resolver
	Geo      *requestinfo.GeoDB // optional
	Pages    cache.PageStore    // optional; nil disables the page cache
	Logger   *zap.Logger

	Passthrough []string
	ForceHTTPS  bool
	HTTPSExempt []string // hosts never redirected, e.g. localhost
	TrustProxy  bool
	Debug       bool

	ThemeCookie string
	ThemeMaxAge time.Duration
	ThemeSecure bool

	CacheTTL     time.Duration
	CacheMaxBody int64
	CachePrefix  string

	FeaturedLimit int // landing page; default 12
}

// NewRouter returns the root handler.
func NewRouter(opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = zap.L()
	}
	if opts.ThemeCookie == "" {
		opts.ThemeCookie = "themeColor"
	}
	if opts.FeaturedLimit <= 0 {
		opts.FeaturedLimit = 12
	}
	passthrough := append([]string(nil), opts.Passthrough...)
	if len(passthrough) == 0 {
		passthrough = append(passthrough, tenant.DefaultPassthrough...)
	}
	if opts.Debug {
		passthrough = append(passthrough, DebugPrefix)
	}

	h := &handlers{opts: opts, log: opts.Logger}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(requestinfo.Enrich(opts.Geo, opts.TrustProxy))
	r.Use(requestinfo.AccessLog(opts.Logger.Named("access")))
	r.Use(middleware.Security)
	if opts.ForceHTTPS {
		r.Use(middleware.ForceHTTPS(opts.HTTPSExempt, opts.TrustProxy))
	}
	r.Use(tenant.Middleware(opts.Resolver, passthrough))
	r.Use(middleware.PageCache(middleware.PageCacheOptions{
		Store:      opts.Pages,
		TTL:        opts.CacheTTL,
		MaxBody:    opts.CacheMaxBody,
		Prefix:     opts.CachePrefix,
		VaryCookie: opts.ThemeCookie,
		Logger:     opts.Logger,
	}))

	r.Get("/healthz", h.healthz)
	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(layout.Static()))))
	r.Get("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })

	if opts.Debug {
		r.Get(DebugPrefix+"resolve", h.debugResolve)
	}

	r.Get("/", h.home)
	r.Get("/{tenantID}", h.portfolio)
	r.Get("/{tenantID}/", h.portfolio)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) { opts.Renderer.Error(w, http.StatusNotFound) })

	return r
}
