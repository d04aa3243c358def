// internal/middleware/pagecache.go
//
// Rendered-page cache.
//
// Context
// -------
// Portfolio pages are read-heavy and change rarely, so a rendered 200
// response can be replayed from Redis for a short TTL.  The middleware is
// mounted after the tenant rewrite, so the key's host and path already
// carry the tenant identifier and entries are never shared across
// tenants.  The theme cookie is part of the key because it changes the
// rendered palette.
//
// Rules
// -----
//   • Only GET requests without a `theme` query parameter are cached; a
//     theme switch must reach the handler so the preference is persisted.
//   • Requests without the VaryCookie bypass the cache, so a first visit
//     always reaches the handler and receives the theme cookie.
//   • Only 200 text/html responses up to MaxBody bytes are stored.
//   • Only Content-Type is stored.  Set-Cookie is never replayed.
//   • Store errors are counted and ignored; the request falls through.
//
// Payload layout: [4 bytes status][4 bytes headerLen][headerJSON][body].
package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/folio/internal/cache"
	"github.com/yanizio/folio/internal/metrics"
)

// PageCacheOptions configures PageCache.
type PageCacheOptions struct {
	Store      cache.PageStore
	TTL        time.Duration
	MaxBody    int64
	Prefix     string
	VaryCookie string
	Logger     *zap.Logger
}

// captureWriter tees the body into buf while forwarding to the client.
type captureWriter struct {
	http.ResponseWriter
	status   int
	buf      bytes.Buffer
	limit    int64
	overflow bool
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if !cw.overflow {
		if cw.limit > 0 && int64(cw.buf.Len()+len(b)) > cw.limit {
			cw.overflow = true
			cw.buf.Reset()
		} else {
			cw.buf.Write(b)
		}
	}
	return cw.ResponseWriter.Write(b)
}

// PageCache returns the cache middleware.  A nil Store disables it.
func PageCache(opts PageCacheOptions) func(http.Handler) http.Handler {
	if opts.Store == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	if opts.TTL <= 0 {
		opts.TTL = time.Minute
	}
	if opts.Prefix == "" {
		opts.Prefix = "folio:page"
	}
	if opts.Logger == nil {
		opts.Logger = zap.L()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet || r.URL.Query().Has("theme") || !hasCookie(r, opts.VaryCookie) {
				metrics.PageCacheTotal.WithLabelValues("bypass").Inc()
				next.ServeHTTP(w, r)
				return
			}

			key := pageKey(opts.Prefix, r, opts.VaryCookie)

			bs, err := opts.Store.Get(r.Context(), key)
			switch {
			case err == nil:
				if status, hdr, body, ok := decodePayload(bs); ok {
					metrics.PageCacheTotal.WithLabelValues("hit").Inc()
					for k, vals := range hdr {
						for _, v := range vals {
							w.Header().Add(k, v)
						}
					}
					w.Header().Set("X-Cache", "HIT")
					w.WriteHeader(status)
					_, _ = w.Write(body)
					return
				}
				metrics.PageCacheTotal.WithLabelValues("error").Inc()
			case errors.Is(err, cache.ErrMiss):
				metrics.PageCacheTotal.WithLabelValues("miss").Inc()
			default:
				metrics.PageCacheTotal.WithLabelValues("error").Inc()
				opts.Logger.Debug("page cache get failed", zap.Error(err))
			}

			cw := &captureWriter{ResponseWriter: w, status: http.StatusOK, limit: opts.MaxBody}
			w.Header().Set("X-Cache", "MISS")
			next.ServeHTTP(cw, r)

			ct := w.Header().Get("Content-Type")
			if cw.status != http.StatusOK || cw.overflow || !strings.HasPrefix(ct, "text/html") {
				return
			}
			payload, err := encodePayload(cw.status, http.Header{"Content-Type": {ct}}, cw.buf.Bytes())
			if err != nil {
				return
			}
			ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), time.Second)
			defer cancel()
			if err := opts.Store.Set(ctx, key, payload, opts.TTL); err != nil {
				metrics.PageCacheTotal.WithLabelValues("error").Inc()
				opts.Logger.Debug("page cache set failed", zap.Error(err))
			}
		})
	}
}

// hasCookie reports whether r carries name.  An empty name always matches.
func hasCookie(r *http.Request, name string) bool {
	if name == "" {
		return true
	}
	_, err := r.Cookie(name)
	return err == nil
}

// pageKey hashes host, path, query, and the vary cookie.
func pageKey(prefix string, r *http.Request, cookie string) string {
	var cv string
	if cookie != "" {
		if c, err := r.Cookie(cookie); err == nil {
			cv = c.Value
		}
	}
	tail := strings.Join([]string{strings.ToLower(r.Host), r.URL.Path, r.URL.RawQuery, cv}, "\x00")
	sum := sha1.Sum([]byte(tail))
	return fmt.Sprintf("%s:%x", prefix, sum[:])
}

func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	hdrJSON, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8+len(hdrJSON)+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
	copy(out[8:], hdrJSON)
	copy(out[8+len(hdrJSON):], body)
	return out, nil
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
	if len(bs) < 8 {
		return 0, nil, nil, false
	}
	status = int(binary.BigEndian.Uint32(bs[0:4]))
	hlen := int(binary.BigEndian.Uint32(bs[4:8]))
	if hlen < 0 || 8+hlen > len(bs) {
		return 0, nil, nil, false
	}
	header = make(http.Header)
	if hlen > 0 {
		if err := json.Unmarshal(bs[8:8+hlen], &header); err != nil {
			return 0, nil, nil, false
		}
	}
	return status, header, bs[8+hlen:], true
}
