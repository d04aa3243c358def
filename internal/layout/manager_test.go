package layout

import (
	"bytes"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"v1/page.html":     {Data: []byte(`v1:{{ template "who" . }}:{{ asset "site.css" }}`)},
		"v1/partials.html": {Data: []byte(`{{ define "who" }}{{ .Name }}{{ end }}`)},
		"v2/page.html":     {Data: []byte(`v2:{{ initials .Name }}`)},
		"broken/page.html": {Data: []byte(`{{ if }}`)},
	}
}

func TestManager_LoadAndExecute(t *testing.T) {
	m := NewManager(testFS(), 4, zap.NewNop())

	l, err := m.Load("v1")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, l.Execute(&buf, "page", map[string]string{"Name": "Alice"}))
	assert.Equal(t, "v1:Alice:/static/v1/site.css", buf.String())
}

func TestManager_UnknownFallsBack(t *testing.T) {
	m := NewManager(testFS(), 4, zap.NewNop())

	for _, name := range []string{"v9", "", "../v2", "V1"} {
		l, err := m.Load(name)
		require.NoError(t, err, name)
		assert.Equal(t, Fallback, l.Name, name)
	}

	l, err := m.Load("V2")
	require.NoError(t, err)
	assert.Equal(t, "v2", l.Name)
}

func TestManager_Caches(t *testing.T) {
	m := NewManager(testFS(), 4, zap.NewNop())

	a, err := m.Load("v1")
	require.NoError(t, err)
	b, err := m.Load("v1")
	require.NoError(t, err)
	assert.Same(t, a, b)

	c, err := m.Load("nope")
	require.NoError(t, err)
	assert.Same(t, a, c)
}

func TestManager_ParseErrorSurfaces(t *testing.T) {
	m := NewManager(testFS(), 4, zap.NewNop())
	_, err := m.Load("broken")
	assert.Error(t, err)
}

func TestManager_MissingFallback(t *testing.T) {
	m := NewManager(fstest.MapFS{"v2/page.html": {Data: []byte("x")}}, 1, zap.NewNop())
	_, err := m.Load("v1")
	assert.Error(t, err)
}

func TestLayout_ExecuteUnknownView(t *testing.T) {
	m := NewManager(testFS(), 4, zap.NewNop())
	l, err := m.Load("v2")
	require.NoError(t, err)
	assert.Error(t, l.Execute(&bytes.Buffer{}, "home", nil))
}

func TestEmbeddedLayouts(t *testing.T) {
	m := NewManager(nil, 0, zap.NewNop())
	assert.ElementsMatch(t, []string{"v1", "v2"}, m.Names())

	for _, name := range []string{"v1", "v2"} {
		l, err := m.Load(name)
		require.NoError(t, err)
		assert.NotNil(t, l.Set.Lookup("page.html"), name)
	}

	v1, err := m.Load("v1")
	require.NoError(t, err)
	for _, view := range []string{"page.html", "notfound.html", "home.html"} {
		assert.NotNil(t, v1.Set.Lookup(view), view)
	}

	for _, name := range []string{"v1/site.css", "v2/site.css"} {
		_, err := fs.Stat(Static(), name)
		assert.NoError(t, err, name)
	}
}

func TestFuncs(t *testing.T) {
	assert.Equal(t, "AE", initials("alice  example"))
	assert.Equal(t, "", initials(""))
	assert.Equal(t, "tel:+1234567890", string(tel(" +1 (234) 567-890 ")))
	assert.False(t, strings.Contains(string(tel("1+2")), "+"))
	assert.Equal(t, map[string]any{"a": 1}, dict("a", 1, "dangling"))
}
