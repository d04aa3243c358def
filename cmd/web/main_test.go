package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/yanizio/folio/internal/config"
	"github.com/yanizio/folio/internal/tenant"
	"github.com/yanizio/folio/internal/web"
)

func TestRouterOptions_FollowConfig(t *testing.T) {
	cfg := &config.Config{
		HTTP: config.HTTP{
			ForceHTTPS:  true,
			HTTPSExempt: []string{"dev.internal"},
			TrustProxy:  true,
		},
		Tenancy: config.Tenancy{
			RootHosts:      []string{"example.com"},
			ReservedLabels: []string{"admin"},
			Passthrough:    []string{"/healthz"},
		},
		Theme: config.Theme{CookieName: "palette", MaxAge: time.Hour, Secure: true},
		Cache: config.Cache{TTL: 30 * time.Second, MaxBodyBytes: 4096, Prefix: "p"},
		Debug: true,
	}
	base := web.Options{Logger: zap.NewNop(), FeaturedLimit: 5}

	o := routerOptions(cfg, base)

	assert.Equal(t, 5, o.FeaturedLimit)
	assert.Equal(t, []string{"dev.internal"}, o.HTTPSExempt)
	assert.True(t, o.ForceHTTPS)
	assert.True(t, o.TrustProxy)
	assert.True(t, o.Debug)
	assert.Equal(t, []string{"/healthz"}, o.Passthrough)
	assert.Equal(t, "palette", o.ThemeCookie)
	assert.Equal(t, time.Hour, o.ThemeMaxAge)
	assert.True(t, o.ThemeSecure)
	assert.Equal(t, 30*time.Second, o.CacheTTL)
	assert.EqualValues(t, 4096, o.CacheMaxBody)
	assert.Equal(t, "p", o.CachePrefix)

	assert.Equal(t, tenant.ModeRoot, o.Resolver.Resolve("admin.example.com", "/").Mode)
	assert.Equal(t, tenant.ModeRoot, o.Resolver.Resolve("api.example.com", "/").Mode)
	assert.Equal(t, tenant.ModeTenant, o.Resolver.Resolve("alice.example.com", "/").Mode)

	// base is not modified
	assert.Nil(t, base.Resolver)
	assert.Empty(t, base.ThemeCookie)
}
