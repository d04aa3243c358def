// internal/server/timeouts.go
//
// HTTP server helper with robust timeouts.
//
// Production hardening recommends:
//
//   • ReadHeaderTimeout – abort slow-loris headers (5 s)
//   • ReadTimeout       – cap request body reads (10 s)
//   • WriteTimeout      – cap total response time (15 s)
//   • IdleTimeout       – close keep-alives on idle clients (60 s)
//
// New takes those values from the `http` config section and falls back to
// the defaults above for zero fields, so cmd/web doesn’t repeat
// boilerplate.

package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/folio/internal/config"
)

// New constructs an *http.Server from the http config section.
func New(cfg config.HTTP, handler http.Handler, log *zap.Logger) *http.Server {
	or := func(d, def time.Duration) time.Duration {
		if d > 0 {
			return d
		}
		return def
	}
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: or(cfg.ReadHeaderTimeout, 5*time.Second),
		ReadTimeout:       or(cfg.ReadTimeout, 10*time.Second),
		WriteTimeout:      or(cfg.WriteTimeout, 15*time.Second),
		IdleTimeout:       or(cfg.IdleTimeout, 60*time.Second),
	}
	if log != nil {
		srv.ErrorLog = zap.NewStdLog(log.Named("http"))
	}
	return srv
}

// Run serves until ctx is cancelled, then drains in-flight requests for up
// to grace.  A clean shutdown returns nil.
func Run(ctx context.Context, srv *http.Server, grace time.Duration, log *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", zap.Duration("grace", grace))
	sctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
