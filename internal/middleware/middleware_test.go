package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yanizio/folio/internal/cache"
)

func ok(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(body))
	})
}

func TestSecurity_SetsDefaults(t *testing.T) {
	rr := httptest.NewRecorder()
	Security(ok("x")).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, CSP, rr.Header().Get("Content-Security-Policy"))
	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, CSP, "https://www.linkedin.com")
}

func TestSecurity_HandlerOverrides(t *testing.T) {
	h := Security(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "SAMEORIGIN")
		w.WriteHeader(http.StatusNoContent)
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"SAMEORIGIN"}, rr.Header().Values("X-Frame-Options"))
}

func TestForceHTTPS(t *testing.T) {
	h := ForceHTTPS([]string{"localhost"}, true)(ok("x"))

	req := httptest.NewRequest(http.MethodGet, "http://alice.example.com/about?x=1", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusPermanentRedirect, rr.Code)
	assert.Equal(t, "https://alice.example.com/about?x=1", rr.Header().Get("Location"))

	req = httptest.NewRequest(http.MethodGet, "http://localhost:8080/", nil)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	req = httptest.NewRequest(http.MethodGet, "http://example.com/", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

// memPages is an in-memory cache.PageStore.
type memPages struct {
	mu   sync.Mutex
	m    map[string][]byte
	fail bool
}

func newMemPages() *memPages { return &memPages{m: map[string][]byte{}} }

func (s *memPages) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return nil, errors.New("redis down")
	}
	b, ok := s.m[key]
	if !ok {
		return nil, cache.ErrMiss
	}
	return b, nil
}

func (s *memPages) Set(_ context.Context, key string, val []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("redis down")
	}
	s.m[key] = append([]byte(nil), val...)
	return nil
}

func (s *memPages) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}

func countingHandler(calls *int, status int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		http.SetCookie(w, &http.Cookie{Name: "themeColor", Value: "blue"})
		w.WriteHeader(status)
		_, _ = w.Write([]byte("<p>page</p>"))
	})
}

func get(h http.Handler, host, target string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Host = host
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestPageCache_HitAfterMiss(t *testing.T) {
	store := newMemPages()
	var calls int
	h := PageCache(PageCacheOptions{Store: store, VaryCookie: "themeColor", Logger: zap.NewNop()})(
		countingHandler(&calls, http.StatusOK))
	purple := &http.Cookie{Name: "themeColor", Value: "purple"}

	first := get(h, "alice.example.com", "/alice", purple)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	assert.NotEmpty(t, first.Header().Get("Set-Cookie"))

	second := get(h, "alice.example.com", "/alice", purple)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, "<p>page</p>", second.Body.String())
	assert.Equal(t, "text/html; charset=utf-8", second.Header().Get("Content-Type"))
	assert.Empty(t, second.Header().Get("Set-Cookie"))
	assert.Equal(t, 1, calls)
}

func TestPageCache_FirstVisitReachesHandler(t *testing.T) {
	store := newMemPages()
	var calls int
	h := PageCache(PageCacheOptions{Store: store, VaryCookie: "themeColor"})(countingHandler(&calls, http.StatusOK))

	// Warm the entry a returning visitor would hit.
	get(h, "alice.example.com", "/alice", &http.Cookie{Name: "themeColor", Value: "blue"})

	for i := 0; i < 2; i++ {
		rr := get(h, "alice.example.com", "/alice", nil)
		assert.Empty(t, rr.Header().Get("X-Cache"))
		assert.Contains(t, rr.Header().Get("Set-Cookie"), "themeColor=blue")
	}
	assert.Equal(t, 3, calls)
	assert.Equal(t, 1, store.len())
}

func TestPageCache_KeyVaries(t *testing.T) {
	store := newMemPages()
	var calls int
	h := PageCache(PageCacheOptions{Store: store, VaryCookie: "themeColor"})(countingHandler(&calls, http.StatusOK))
	purple := &http.Cookie{Name: "themeColor", Value: "purple"}

	get(h, "alice.example.com", "/alice", purple)
	get(h, "bob.example.com", "/bob", purple)
	get(h, "alice.example.com", "/alice", &http.Cookie{Name: "themeColor", Value: "red"})

	assert.Equal(t, 3, calls)
	assert.Equal(t, 3, store.len())
}

func TestPageCache_Bypass(t *testing.T) {
	store := newMemPages()
	var calls int
	h := PageCache(PageCacheOptions{Store: store})(countingHandler(&calls, http.StatusNotFound))

	get(h, "example.com", "/ghost-user", nil)
	get(h, "example.com", "/ghost-user", nil)
	assert.Equal(t, 2, calls, "404 must not be cached")

	calls = 0
	h = PageCache(PageCacheOptions{Store: store})(countingHandler(&calls, http.StatusOK))
	get(h, "example.com", "/alice?theme=red", nil)
	get(h, "example.com", "/alice?theme=red", nil)
	assert.Equal(t, 2, calls, "theme switches must reach the handler")
}

func TestPageCache_MaxBody(t *testing.T) {
	store := newMemPages()
	var calls int
	h := PageCache(PageCacheOptions{Store: store, MaxBody: 4})(countingHandler(&calls, http.StatusOK))

	rr := get(h, "example.com", "/alice", nil)
	assert.Equal(t, "<p>page</p>", rr.Body.String())
	assert.Equal(t, 0, store.len())
}

func TestPageCache_StoreErrorsFallThrough(t *testing.T) {
	store := newMemPages()
	store.fail = true
	var calls int
	h := PageCache(PageCacheOptions{Store: store})(countingHandler(&calls, http.StatusOK))

	rr := get(h, "example.com", "/alice", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, calls)
}

func TestPageCache_NilStoreIsPassthrough(t *testing.T) {
	var calls int
	inner := countingHandler(&calls, http.StatusOK)
	h := PageCache(PageCacheOptions{})(inner)
	rr := get(h, "example.com", "/", nil)
	assert.Empty(t, rr.Header().Get("X-Cache"))
}

func TestPayloadCodec(t *testing.T) {
	bs, err := encodePayload(200, http.Header{"Content-Type": {"text/html"}}, []byte("body"))
	require.NoError(t, err)

	status, hdr, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, 200, status)
	assert.Equal(t, "text/html", hdr.Get("Content-Type"))
	assert.Equal(t, "body", string(body))

	_, _, _, ok = decodePayload([]byte{0, 0})
	assert.False(t, ok)
}
