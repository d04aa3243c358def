// internal/web/handlers.go
//
// Page handlers.
//
// Workflow (portfolio)
// --------------------
//  1. Parse `{tenantID}` with tenant.ParseID.  Invalid input renders the
//     not-found view, never a 500.
//  2. Load the profile through the configured loader strategy.
//  3. Theme: Init from the cookie (or purple), then the profile's explicit
//     preference, then a `?theme=` visitor selection.  Each step rewrites
//     the `dynamic-theme` style element and persists the cookie.
//  4. Render with the profile's layout.
//
// Duplicate identifiers and store failures surface as a bare 500; details
// go to the log.
package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/yanizio/folio/internal/head"
	"github.com/yanizio/folio/internal/profile"
	"github.com/yanizio/folio/internal/requestinfo"
	"github.com/yanizio/folio/internal/tenant"
	"github.com/yanizio/folio/internal/theme"
	"github.com/yanizio/folio/internal/view"
)

type handlers struct {
	opts Options
	log  *zap.Logger
}

// snapshotter is implemented by the static and fallback loaders.
type snapshotter interface {
	Snapshot() *profile.Snapshot
}

// applier builds a per-request theme applier bound to a fresh head.
func (h *handlers) applier(w http.ResponseWriter, r *http.Request) (*head.Builder, *theme.Applier) {
	hb := head.New()
	hb.Link(`<link rel="icon" href="/favicon.ico">`)

	store := theme.CookieStorage{W: w, R: r, MaxAge: h.opts.ThemeMaxAge, Secure: h.opts.ThemeSecure}
	ap := theme.NewApplier(hb, store,
		theme.WithStorageKey(h.opts.ThemeCookie),
		theme.WithLogger(h.log))
	ap.Init()
	return hb, ap
}

// visitorTheme applies a `?theme=` selection when present.
func visitorTheme(ap *theme.Applier, r *http.Request) {
	if q := r.URL.Query().Get("theme"); q != "" {
		ap.Apply(q)
	}
}

func (h *handlers) portfolio(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "tenantID")
	info := requestinfo.FromContext(r.Context())
	hb, ap := h.applier(w, r)

	id, err := tenant.ParseID(raw)
	if err != nil {
		visitorTheme(ap, r)
		h.notFound(w, hb, ap, tenant.ID(strings.ToLower(raw)), info)
		return
	}

	res, err := h.opts.Loader.Load(r.Context(), id)
	if err != nil {
		lvl := zap.ErrorLevel
		if errors.Is(err, r.Context().Err()) {
			lvl = zap.DebugLevel
		}
		h.log.Log(lvl, "profile load failed",
			zap.String("tenant", id.String()),
			zap.String("request_id", chimw.GetReqID(r.Context())),
			zap.Error(err))
		h.opts.Renderer.Error(w, http.StatusInternalServerError)
		return
	}
	if res.NotFound() {
		visitorTheme(ap, r)
		h.notFound(w, hb, ap, res.Requested, info)
		return
	}

	prof := res.Profile
	if prof.ExplicitTheme {
		ap.Apply(string(prof.Theme))
	}
	visitorTheme(ap, r)

	page := view.NewPage(hb, ap.Current(), info)
	page.Profile = prof
	if err := h.opts.Renderer.Portfolio(w, page); err != nil {
		h.log.Error("render portfolio failed", zap.String("tenant", id.String()), zap.Error(err))
		h.opts.Renderer.Error(w, http.StatusInternalServerError)
	}
}

func (h *handlers) notFound(w http.ResponseWriter, hb *head.Builder, ap *theme.Applier, requested tenant.ID, info *requestinfo.Info) {
	page := view.NewPage(hb, ap.Current(), info)
	page.Requested = requested
	if err := h.opts.Renderer.NotFound(w, page); err != nil {
		h.log.Error("render not-found failed", zap.Error(err))
		h.opts.Renderer.Error(w, http.StatusNotFound)
	}
}

func (h *handlers) home(w http.ResponseWriter, r *http.Request) {
	hb, ap := h.applier(w, r)
	visitorTheme(ap, r)

	page := view.NewPage(hb, ap.Current(), requestinfo.FromContext(r.Context()))
	page.RootHost = tenant.NormalizeHost(r.Host)
	if s, ok := h.opts.Loader.(snapshotter); ok {
		ids := s.Snapshot().IDs()
		if len(ids) > h.opts.FeaturedLimit {
			ids = ids[:h.opts.FeaturedLimit]
		}
		page.Featured = ids
	}

	if err := h.opts.Renderer.Home(w, page); err != nil {
		h.log.Error("render home failed", zap.Error(err))
		h.opts.Renderer.Error(w, http.StatusInternalServerError)
	}
}

func (h *handlers) healthz(w http.ResponseWriter, _ *http.Request) {
	out := map[string]any{
		"status":   "ok",
		"strategy": h.opts.Loader.Strategy(),
	}
	if s, ok := h.opts.Loader.(snapshotter); ok {
		snap := s.Snapshot()
		out["profiles"] = snap.Len()
		out["snapshot_built_at"] = snap.BuiltAt()
	}
	writeJSON(w, http.StatusOK, out)
}

// debugResolve reports how the resolver maps ?host=&path= (defaulting to
// the current request) along with the parsed request info.
func (h *handlers) debugResolve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	host := q.Get("host")
	if host == "" {
		host = r.Host
	}
	path := q.Get("path")
	if path == "" {
		path = "/"
	}

	res := h.opts.Resolver.Resolve(host, path)
	out := map[string]any{
		"mode":           res.Mode,
		"tenant_id":      res.TenantID,
		"host":           res.Host,
		"path":           res.Path,
		"rewritten_path": res.RewrittenPath,
		"request_id":     chimw.GetReqID(r.Context()),
	}
	if info := requestinfo.FromContext(r.Context()); info != nil {
		out["ua"] = info.UA
		out["geo"] = info.Geo
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
