package tenant

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver() *Resolver {
	return NewResolver(Options{RootHosts: []string{"example.com", "localhost"}})
}

func TestResolve_Subdomain(t *testing.T) {
	got := newTestResolver().Resolve("alice.portfolio.example.com", "/")

	assert.Equal(t, ModeTenant, got.Mode)
	assert.Equal(t, ID("alice"), got.TenantID)
	assert.Equal(t, "/alice", got.RewrittenPath)
}

func TestResolve_Table(t *testing.T) {
	r := newTestResolver()

	cases := []struct {
		name    string
		host    string
		path    string
		mode    Mode
		id      ID
		rewrite string
	}{
		{"apex", "example.com", "/alice", ModeRoot, "", "/alice"},
		{"apex with port", "example.com:443", "/", ModeRoot, "", "/"},
		{"localhost dev", "localhost:8080", "/bob", ModeRoot, "", "/bob"},
		{"www any path", "www.example.com", "/anything/here", ModeRoot, "", "/anything/here"},
		{"api", "api.example.com", "/v1", ModeRoot, "", "/v1"},
		{"mixed case", "Alice.Example.COM", "/about", ModeTenant, "alice", "/alice/about"},
		{"trailing dot", "alice.example.com.", "", ModeTenant, "alice", "/alice"},
		{"underscore id", "jane_doe.example.com", "/", ModeTenant, "jane_doe", "/jane_doe"},
		{"empty host", "", "/", ModeRoot, "", "/"},
		{"junk host", "bad host!.example.com", "/", ModeRoot, "", "/"},
		{"empty label", ".example.com", "/", ModeRoot, "", "/"},
		{"ipv4", "10.0.0.7:8080", "/", ModeRoot, "", "/"},
		{"ipv6", "[::1]:8080", "/", ModeRoot, "", "/"},
		{"single label", "intranet", "/", ModeRoot, "", "/"},
		{"label too short", "ab.example.com", "/", ModeRoot, "", "/"},
		{"label too long", "abcdefghijklmnopqrstuvwxyz12345.example.com", "/", ModeRoot, "", "/"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := r.Resolve(tc.host, tc.path)
			assert.Equal(t, tc.mode, got.Mode)
			assert.Equal(t, tc.id, got.TenantID)
			assert.Equal(t, tc.rewrite, got.RewrittenPath)
			assert.Equal(t, tc.path, got.Path)
		})
	}
}

func TestResolve_CustomReserved(t *testing.T) {
	r := NewResolver(Options{
		RootHosts:      []string{"example.com"},
		ReservedLabels: []string{"admin", "WWW"},
	})

	assert.Equal(t, ModeRoot, r.Resolve("admin.example.com", "/").Mode)
	assert.Equal(t, ModeRoot, r.Resolve("www.example.com", "/").Mode)
	// configured labels add to www and api, never replace them
	assert.Equal(t, ModeRoot, r.Resolve("api.example.com", "/").Mode)
	assert.Equal(t, ModeTenant, r.Resolve("alice.example.com", "/").Mode)
}

func TestResolve_RouteNamesAreNotTenants(t *testing.T) {
	r := newTestResolver()
	for _, host := range []string{"metrics.example.com", "healthz.example.com", "static.example.com", "_debug.example.com"} {
		got := r.Resolve(host, "/")
		assert.Equal(t, ModeRoot, got.Mode, host)
		assert.Equal(t, "/", got.RewrittenPath, host)
	}
}

// Both addressing forms must agree on the identifier.
func TestResolve_PathAndHostAgree(t *testing.T) {
	r := newTestResolver()
	for _, raw := range []string{"alice", "Bob-99", "jane_doe"} {
		fromHost := r.Resolve(raw+".example.com", "/").TenantID

		fromPath, err := ParseID(raw)
		require.NoError(t, err)
		assert.Equal(t, fromPath, fromHost, "identifier %q", raw)
	}
}

func TestIsRootHost(t *testing.T) {
	r := newTestResolver()
	assert.True(t, r.isRootHost(NormalizeHost("LOCALHOST:3000")))
	assert.False(t, r.isRootHost("alice.example.com"))
}

func TestParseID(t *testing.T) {
	id, err := ParseID("  Ghost-User ")
	require.NoError(t, err)
	assert.Equal(t, ID("ghost-user"), id)

	for _, bad := range []string{"", "ab", "has space", "dot.ted", "émile", "abcdefghijklmnopqrstuvwxyz12345", "metrics", "HEALTHZ", "static", "_debug", "favicon.ico"} {
		_, err := ParseID(bad)
		assert.True(t, errors.Is(err, ErrInvalidID), "input %q", bad)
	}
}

func TestBuildPath(t *testing.T) {
	cases := map[string]string{
		"":        "/alice",
		"/":       "/alice",
		"/about":  "/alice/about",
		"//about": "/alice/about",
		"/a/b/":   "/alice/a/b/",
	}
	for in, want := range cases {
		if got := BuildPath("alice", in); got != want {
			t.Errorf("BuildPath(%q) = %q, want %q", in, got, want)
		}
	}
	if got := BuildPath("", ""); got != "/" {
		t.Errorf("BuildPath(empty) = %q", got)
	}
}

func TestNormalizeHost(t *testing.T) {
	cases := map[string]string{
		"Example.COM":        "example.com",
		"example.com:8080":   "example.com",
		"alice.example.com.": "alice.example.com",
		"[::1]:443":          "::1",
		" localhost ":        "localhost",
	}
	for in, want := range cases {
		if got := NormalizeHost(in); got != want {
			t.Errorf("NormalizeHost(%q) = %q, want %q", in, got, want)
		}
	}
}
