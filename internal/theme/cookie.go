// internal/theme/cookie.go
//
// Cookie-backed Storage.  The cookie is the server-side counterpart of
// browser local storage: it survives between visits and travels with
// every request, so the first paint already carries the right palette.
package theme

import (
	"net/http"
	"strings"
	"time"
)

// CookieStorage reads from R and writes Set-Cookie headers to W.
type CookieStorage struct {
	W      http.ResponseWriter
	R      *http.Request
	MaxAge time.Duration
	Secure bool
}

// Get returns the cookie value for key.
func (s CookieStorage) Get(key string) (string, error) {
	if s.R == nil {
		return "", http.ErrNoCookie
	}
	c, err := s.R.Cookie(key)
	if err != nil {
		return "", err
	}
	return c.Value, nil
}

// Set writes key=value as a long-lived, script-readable cookie.  An
// earlier Set-Cookie for the same key in this response is replaced.
func (s CookieStorage) Set(key, value string) error {
	if s.W == nil {
		return http.ErrNoCookie
	}
	c := &http.Cookie{
		Name:     key,
		Value:    value,
		Path:     "/",
		MaxAge:   int(s.MaxAge / time.Second),
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if err := c.Valid(); err != nil {
		return err
	}

	h := s.W.Header()
	var kept []string
	for _, v := range h["Set-Cookie"] {
		if !strings.HasPrefix(v, key+"=") {
			kept = append(kept, v)
		}
	}
	if len(kept) == 0 {
		h.Del("Set-Cookie")
	} else {
		h["Set-Cookie"] = kept
	}
	http.SetCookie(s.W, c)
	return nil
}
