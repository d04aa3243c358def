// internal/web/live.go
//
// Hot-swappable root handler.
//
// Context
// -------
// The http.Server keeps one Handler for its lifetime.  Live sits in that
// slot and forwards to whatever router was stored last, so a config reload
// can build a fresh router (resolver, passthrough list, theme cookie, and
// page-cache settings) and swap it in without dropping connections.
// In-flight requests finish on the router they started with.
package web

import (
	"net/http"
	"sync/atomic"
)

// Live forwards every request to the most recently stored handler.
type Live struct {
	h atomic.Pointer[http.Handler]
}

// NewLive returns a Live serving h.
func NewLive(h http.Handler) *Live {
	l := &Live{}
	l.Store(h)
	return l
}

// Store replaces the handler used by subsequent requests.
func (l *Live) Store(h http.Handler) { l.h.Store(&h) }

// ServeHTTP implements http.Handler.
func (l *Live) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	(*l.h.Load()).ServeHTTP(w, r)
}
