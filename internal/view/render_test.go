package view

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yanizio/folio/internal/head"
	"github.com/yanizio/folio/internal/layout"
	"github.com/yanizio/folio/internal/profile"
	"github.com/yanizio/folio/internal/tenant"
	"github.com/yanizio/folio/internal/theme"
)

func newRenderer() *Renderer {
	return New(layout.NewManager(nil, 0, zap.NewNop()), zap.NewNop())
}

func TestPortfolio(t *testing.T) {
	bio := "Designer & developer"
	prof := profile.Normalize(profile.Record{
		Username:       "alice",
		Name:           "Alice Example",
		Bio:            &bio,
		Template:       "v2",
		InstagramPosts: profile.InstagramPosts{"https://www.instagram.com/p/abc/"},
	})

	hb := head.New()
	hb.SetStyle(theme.StyleElementID, theme.Stylesheet(theme.Lookup(theme.Green)))
	p := NewPage(hb, theme.Green, nil)
	p.Profile = &prof

	rr := httptest.NewRecorder()
	require.NoError(t, newRenderer().Portfolio(rr, p))

	body := rr.Body.String()
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Contains(t, body, "Alice Example")
	assert.Contains(t, body, "Designer &amp; developer")
	assert.Contains(t, body, `data-instgrm-permalink="https://www.instagram.com/p/abc/"`)
	assert.Contains(t, body, "/static/v2/site.css")
	assert.Contains(t, body, `application/ld+json`)
	assert.Equal(t, 1, strings.Count(body, `id="dynamic-theme"`))
}

func TestPortfolio_UnknownLayoutUsesV1(t *testing.T) {
	prof := profile.Normalize(profile.Record{Username: "bob", Name: "Bob", Template: "retro"})
	p := NewPage(head.New(), theme.Default, nil)
	p.Profile = &prof

	rr := httptest.NewRecorder()
	require.NoError(t, newRenderer().Portfolio(rr, p))
	assert.Contains(t, rr.Body.String(), "/static/v1/site.css")
	assert.Contains(t, rr.Body.String(), profile.DefaultTagline)
}

func TestNotFoundCarriesIdentifier(t *testing.T) {
	p := NewPage(head.New(), theme.Default, nil)
	p.Requested = "ghost-user"

	rr := httptest.NewRecorder()
	require.NoError(t, newRenderer().NotFound(rr, p))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), `The portfolio for "ghost-user" doesn't exist.`)
}

func TestHome(t *testing.T) {
	p := NewPage(head.New(), theme.Blue, nil)
	p.RootHost = "example.com"
	p.Featured = []tenant.ID{"alice"}

	rr := httptest.NewRecorder()
	require.NoError(t, newRenderer().Home(rr, p))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `href="/alice"`)
	assert.Contains(t, rr.Body.String(), `{username}.example.com`)
}
