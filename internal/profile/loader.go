// internal/profile/loader.go
//
// Profile Loader strategies.
//
// Context
// -------
// A Loader turns a tenant identifier into a Result: either a normalized
// Profile or a NotFound state that still carries the requested identifier.
// Three strategies share the interface and are chosen at deploy time:
//
//   - request          – one store fetch per request (RequestLoader).
//   - static           – answer from a pre-built Snapshot, never fetch
//     at request time (StaticLoader).
//   - static_fallback  – Snapshot first, request-time fetch on a miss;
//     a found record is promoted into the snapshot (FallbackLoader).
//
// Errors
// ------
// ErrNotFound never escapes a Loader.  ErrDuplicate and transport errors
// do, wrapped, and the caller renders them as a server error.  A cancelled
// context yields ctx.Err() and a zero Result, never partial state.
//
// Every Load opens one OpenTelemetry span and bumps
// folio_profile_load_total{strategy,outcome}.
package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/yanizio/folio/internal/metrics"
	"github.com/yanizio/folio/internal/tenant"
)

// Strategy names a Loader implementation.
type Strategy string

const (
	StrategyRequest  Strategy = "request"
	StrategyStatic   Strategy = "static"
	StrategyFallback Strategy = "static_fallback"
)

// ParseStrategy validates s.  Empty selects StrategyFallback.
func ParseStrategy(s string) (Strategy, error) {
	switch st := Strategy(strings.ToLower(strings.TrimSpace(s))); st {
	case "":
		return StrategyFallback, nil
	case StrategyRequest, StrategyStatic, StrategyFallback:
		return st, nil
	default:
		return "", fmt.Errorf("profile: unknown strategy %q", s)
	}
}

// Result is the outcome of a Load.
type Result struct {
	Requested tenant.ID
	Profile   *Profile // nil when not found
}

// NotFound reports whether no profile exists for Requested.
func (r Result) NotFound() bool { return r.Profile == nil }

// Loader loads one profile by identifier.
type Loader interface {
	Load(ctx context.Context, id tenant.ID) (Result, error)
	Strategy() Strategy
}

// Refresher is implemented by loaders that keep a Snapshot current.
type Refresher interface {
	Run(ctx context.Context, interval time.Duration)
}

// Options configures loader construction.
type Options struct {
	Logger      *zap.Logger
	Concurrency int // snapshot build parallelism
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.L()
	}
	return o.Logger
}

// NewLoader builds the loader for strategy.  Snapshot strategies build
// their first snapshot before returning.
func NewLoader(ctx context.Context, strategy Strategy, store Store, opts Options) (Loader, error) {
	switch strategy {
	case StrategyRequest:
		return NewRequestLoader(store, opts), nil
	case StrategyStatic:
		return NewStaticLoader(ctx, store, opts)
	case StrategyFallback:
		return NewFallbackLoader(ctx, store, opts)
	default:
		return nil, fmt.Errorf("profile: unknown strategy %q", strategy)
	}
}

var tracer = otel.Tracer("github.com/yanizio/folio/internal/profile")

// instrument wraps one Load in a span and the load counter.
func instrument(ctx context.Context, s Strategy, id tenant.ID, load func(context.Context) (Result, error)) (Result, error) {
	ctx, span := tracer.Start(ctx, "profile.load", trace.WithAttributes(
		attribute.String("profile.strategy", string(s)),
		attribute.String("tenant.id", string(id)),
	))
	defer span.End()

	res, err := load(ctx)

	outcome := "found"
	switch {
	case err != nil:
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	case res.NotFound():
		outcome = "not_found"
	}
	span.SetAttributes(attribute.String("profile.outcome", outcome))
	metrics.ProfileLoadTotal.WithLabelValues(string(s), outcome).Inc()
	return res, err
}

/* ------------------------------------------------------------------ */
/* Request-time                                                        */
/* ------------------------------------------------------------------ */

// RequestLoader fetches from the store on every Load.  Concurrent loads of
// the same identifier share one fetch.
type RequestLoader struct {
	store Store
	log   *zap.Logger
	sfg   singleflight.Group
}

// NewRequestLoader returns a request-time loader over store.
func NewRequestLoader(store Store, opts Options) *RequestLoader {
	return &RequestLoader{store: store, log: opts.logger()}
}

// Strategy implements Loader.
func (l *RequestLoader) Strategy() Strategy { return StrategyRequest }

// Load implements Loader.
func (l *RequestLoader) Load(ctx context.Context, id tenant.ID) (Result, error) {
	return instrument(ctx, StrategyRequest, id, func(ctx context.Context) (Result, error) {
		return l.load(ctx, id)
	})
}

func (l *RequestLoader) load(ctx context.Context, id tenant.ID) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	// The shared fetch must outlive any single caller's cancellation;
	// each caller still stops waiting when its own ctx is done.
	shared := context.WithoutCancel(ctx)
	ch := l.sfg.DoChan(string(id), func() (any, error) {
		metrics.ProfileFetchTotal.Inc()
		rec, err := l.store.ByID(shared, id)
		if err != nil {
			return nil, err
		}
		p := Normalize(*rec)
		return &p, nil
	})

	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case r := <-ch:
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		switch {
		case errors.Is(r.Err, ErrNotFound):
			return Result{Requested: id}, nil
		case errors.Is(r.Err, ErrDuplicate):
			l.log.Error("duplicate profile identifier", zap.String("tenant", string(id)), zap.Error(r.Err))
			return Result{}, r.Err
		case r.Err != nil:
			return Result{}, fmt.Errorf("profile: load %q: %w", id, r.Err)
		}
		p := r.Val.(*Profile).Clone()
		return Result{Requested: id, Profile: &p}, nil
	}
}

/* ------------------------------------------------------------------ */
/* Static snapshot                                                     */
/* ------------------------------------------------------------------ */

// StaticLoader answers from an atomically swapped Snapshot and never
// touches the store at request time.
type StaticLoader struct {
	store       Store
	log         *zap.Logger
	concurrency int

	snap atomic.Pointer[Snapshot]
	mu   sync.Mutex // serializes swaps and promotions
}

// NewStaticLoader builds the first snapshot from store.
func NewStaticLoader(ctx context.Context, store Store, opts Options) (*StaticLoader, error) {
	l := &StaticLoader{store: store, log: opts.logger(), concurrency: opts.Concurrency}
	if err := l.Rebuild(ctx); err != nil {
		return nil, err
	}
	return l, nil
}

// Strategy implements Loader.
func (l *StaticLoader) Strategy() Strategy { return StrategyStatic }

// Snapshot returns the live snapshot.
func (l *StaticLoader) Snapshot() *Snapshot { return l.snap.Load() }

// Load implements Loader.
func (l *StaticLoader) Load(ctx context.Context, id tenant.ID) (Result, error) {
	return instrument(ctx, StrategyStatic, id, func(ctx context.Context) (Result, error) {
		return l.load(ctx, id)
	})
}

func (l *StaticLoader) load(ctx context.Context, id tenant.ID) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	snap := l.snap.Load()
	if err := snap.Err(id); err != nil {
		return Result{}, err
	}
	p, ok := snap.Get(id)
	if !ok {
		return Result{Requested: id}, nil
	}
	return Result{Requested: id, Profile: &p}, nil
}

// Rebuild replaces the snapshot with a fresh build.  On error the previous
// snapshot stays live.
func (l *StaticLoader) Rebuild(ctx context.Context) error {
	start := time.Now()
	next, err := BuildSnapshot(ctx, l.store, l.concurrency, l.log)
	if err != nil {
		metrics.SnapshotBuildTotal.WithLabelValues("error").Inc()
		return err
	}

	l.mu.Lock()
	l.snap.Store(next)
	l.mu.Unlock()

	metrics.SnapshotBuildTotal.WithLabelValues("ok").Inc()
	metrics.SnapshotSize.Set(float64(next.Len()))
	l.log.Info("profile snapshot built",
		zap.Int("profiles", next.Len()),
		zap.Duration("took", time.Since(start)))
	return nil
}

// promote adds p to the live snapshot.
func (l *StaticLoader) promote(p Profile) {
	l.mu.Lock()
	next := l.snap.Load().with(p)
	l.snap.Store(next)
	l.mu.Unlock()
	metrics.SnapshotSize.Set(float64(next.Len()))
}

// Run rebuilds the snapshot every interval until ctx is done.  A
// non-positive interval returns immediately.
func (l *StaticLoader) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := l.Rebuild(ctx); err != nil && ctx.Err() == nil {
				l.log.Warn("profile snapshot rebuild failed; keeping previous", zap.Error(err))
			}
		}
	}
}

/* ------------------------------------------------------------------ */
/* Static with request-time fallback                                   */
/* ------------------------------------------------------------------ */

// FallbackLoader answers from the snapshot and falls back to a
// request-time fetch for identifiers registered after the last build.
type FallbackLoader struct {
	static  *StaticLoader
	request *RequestLoader
}

// NewFallbackLoader builds the first snapshot from store.
func NewFallbackLoader(ctx context.Context, store Store, opts Options) (*FallbackLoader, error) {
	st, err := NewStaticLoader(ctx, store, opts)
	if err != nil {
		return nil, err
	}
	return &FallbackLoader{static: st, request: NewRequestLoader(store, opts)}, nil
}

// Strategy implements Loader.
func (l *FallbackLoader) Strategy() Strategy { return StrategyFallback }

// Snapshot returns the live snapshot.
func (l *FallbackLoader) Snapshot() *Snapshot { return l.static.Snapshot() }

// Rebuild delegates to the underlying StaticLoader.
func (l *FallbackLoader) Rebuild(ctx context.Context) error { return l.static.Rebuild(ctx) }

// Run delegates to the underlying StaticLoader.
func (l *FallbackLoader) Run(ctx context.Context, interval time.Duration) {
	l.static.Run(ctx, interval)
}

// Load implements Loader.
func (l *FallbackLoader) Load(ctx context.Context, id tenant.ID) (Result, error) {
	return instrument(ctx, StrategyFallback, id, func(ctx context.Context) (Result, error) {
		res, err := l.static.load(ctx, id)
		if err != nil || !res.NotFound() {
			return res, err
		}

		res, err = l.request.load(ctx, id)
		if err != nil || res.NotFound() {
			return res, err
		}
		l.static.promote(res.Profile.Clone())
		return res, nil
	})
}

var (
	_ Loader    = (*RequestLoader)(nil)
	_ Loader    = (*StaticLoader)(nil)
	_ Loader    = (*FallbackLoader)(nil)
	_ Refresher = (*StaticLoader)(nil)
	_ Refresher = (*FallbackLoader)(nil)
)
