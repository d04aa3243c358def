// internal/view/render.go
//
// Central view engine: picks a layout, builds the page model, and writes
// the response.
//
// Public helpers
// --------------
//   - Portfolio – a tenant's page, 200.
//   - NotFound  – the not-found view carrying the requested identifier, 404.
//   - Home      – the platform landing page, 200.
//   - Error     – a bare 500 for data-integrity and transport failures.
//
// Every page is rendered into a buffer first so a template error never
// leaves a half-written 200 on the wire.
//
// Style
// -----
// • Oxford commas, two spaces after periods.
package view

import (
	"bytes"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/yanizio/folio/internal/head"
	"github.com/yanizio/folio/internal/layout"
	"github.com/yanizio/folio/internal/profile"
	"github.com/yanizio/folio/internal/requestinfo"
	"github.com/yanizio/folio/internal/tenant"
	"github.com/yanizio/folio/internal/theme"
)

// Page is the model every layout template receives.  It is built fresh
// per request and never shared across tenants.
type Page struct {
	Head   *head.Builder
	Theme  theme.Config
	Themes []theme.Config

	// Portfolio view.
	Profile *profile.Profile

	// Not-found view.
	Requested tenant.ID

	// Landing view.
	RootHost string
	Featured []tenant.ID

	Info *requestinfo.Info
}

// NewPage returns a Page bound to hb with the palette for name.
func NewPage(hb *head.Builder, name theme.Name, info *requestinfo.Info) Page {
	return Page{
		Head:   hb,
		Theme:  theme.Lookup(name),
		Themes: theme.All(),
		Info:   info,
	}
}

// Renderer executes layouts from a layout.Manager.
type Renderer struct {
	layouts *layout.Manager
	log     *zap.Logger
}

// New returns a Renderer.  A nil log falls back to zap.L().
func New(layouts *layout.Manager, log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.L()
	}
	return &Renderer{layouts: layouts, log: log}
}

// Portfolio renders p.Profile with the profile's own layout.
func (r *Renderer) Portfolio(w http.ResponseWriter, p Page) error {
	prof := p.Profile
	p.Head.SetTitle(prof.Name + " | " + prof.Title)
	p.Head.NamedMeta("description", prof.Bio)
	p.Head.NamedMeta("theme-color", p.Theme.Base.Hex())
	if js, err := personLD(prof); err == nil {
		p.Head.JSONLD(js)
	}
	return r.render(w, http.StatusOK, prof.Template, "page", p)
}

// NotFound renders the not-found view for p.Requested.
func (r *Renderer) NotFound(w http.ResponseWriter, p Page) error {
	p.Head.SetTitle("Portfolio Not Found")
	p.Head.NamedMeta("robots", "noindex")
	return r.render(w, http.StatusNotFound, layout.Fallback, "notfound", p)
}

// Home renders the landing page.
func (r *Renderer) Home(w http.ResponseWriter, p Page) error {
	p.Head.SetTitle("Folio | Portfolios for everyone")
	p.Head.NamedMeta("theme-color", p.Theme.Base.Hex())
	return r.render(w, http.StatusOK, layout.Fallback, "home", p)
}

// Error writes a bare server error.  Details stay in the log.
func (r *Renderer) Error(w http.ResponseWriter, status int) {
	http.Error(w, http.StatusText(status), status)
}

func (r *Renderer) render(w http.ResponseWriter, status int, name, view string, p Page) error {
	l, err := r.layouts.Load(name)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := l.Execute(&buf, view, p); err != nil {
		r.log.Error("template execute failed",
			zap.String("layout", l.Name), zap.String("view", view), zap.Error(err))
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	return err
}

// personLD builds schema.org Person structured data for prof.
func personLD(prof *profile.Profile) (string, error) {
	doc := map[string]any{
		"@context": "https://schema.org",
		"@type":    "Person",
		"name":     prof.Name,
		"jobTitle": prof.Title,
	}
	if prof.AvatarURL != "" {
		doc["image"] = prof.AvatarURL
	}
	var same []string
	for _, u := range []string{prof.Social.Instagram, prof.Social.LinkedIn} {
		if u != profile.DefaultSocialURL {
			same = append(same, u)
		}
	}
	if len(same) > 0 {
		doc["sameAs"] = same
	}
	b, err := json.Marshal(doc)
	return string(b), err
}
