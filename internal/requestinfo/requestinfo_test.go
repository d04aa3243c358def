package requestinfo

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const chromeMac = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.6422.60 Safari/537.36"

func TestParseUA(t *testing.T) {
	ua := ParseUA(chromeMac, "en-GB,en;q=0.9")

	assert.Equal(t, "Chrome", ua.Browser)
	assert.Equal(t, "Desktop", ua.Device)
	assert.False(t, ua.IsBot)
	assert.Equal(t, "en-gb", ua.PrimaryLang)
	assert.Equal(t, chromeMac, ua.Raw)
}

func TestPrimaryLang(t *testing.T) {
	assert.Equal(t, "", primaryLang(""))
	assert.Equal(t, "fr", primaryLang("fr;q=0.8, en"))
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.9:5555"
	r.Header.Set("X-Forwarded-For", "garbage, 203.0.113.7, 10.0.0.1")

	assert.Equal(t, "203.0.113.7", clientIP(r, true).String())
	assert.Equal(t, "10.0.0.9", clientIP(r, false).String())
}

func TestEnrichAndAccessLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	var seen *Info
	h := AccessLog(zap.New(core))(Enrich(nil, false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("hi"))
	})))

	req := httptest.NewRequest(http.MethodGet, "/alice?x=1", nil)
	req.Header.Set("User-Agent", chromeMac)
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, seen)
	assert.Equal(t, "/alice", seen.URL.Path)
	assert.Equal(t, "Chrome", seen.UA.Browser)
	assert.False(t, seen.Timestamp.IsZero())

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.EqualValues(t, http.StatusTeapot, fields["status"])
	assert.EqualValues(t, 2, fields["bytes"])
	assert.Equal(t, "/alice", fields["path"])
}

func TestNilGeoDB(t *testing.T) {
	var g *GeoDB
	geo := g.Lookup(nil)
	assert.Nil(t, geo.IP)
	assert.NoError(t, g.Close())

	db, err := OpenGeo("")
	assert.NoError(t, err)
	assert.Nil(t, db)
}
