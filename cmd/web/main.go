// cmd/web/main.go
//
// Folio – HTTP entry point.
//
// Boot sequence
// -------------
//
//  1. Console bootstrap logger, signal-bound root context.
//
//  2. Vault client when VAULT_ADDR is set; config (koanf + validator)
//     resolves `vault:` values through it.
//
//  3. Daily rotating file logger at the configured level, tee'd to the
//     console in a TTY or when `log.console` is set.
//
//  4. Profile store: MySQL via sqlx, or the YAML seed for development.
//
//  5. Profile loader for the configured strategy, plus the background
//     snapshot refresher for static and static_fallback.
//
//  6. Optional Redis page cache and GeoLite2 database.
//
//  7. Layout manager, renderer, tenant resolver, chi router, and the
//     http.Server.  SIGHUP reloads config, swaps in a router built from
//     it, and rebuilds the snapshot; SIGINT and SIGTERM drain in-flight
//     requests and exit.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/folio/internal/cache"
	"github.com/yanizio/folio/internal/config"
	"github.com/yanizio/folio/internal/database"
	"github.com/yanizio/folio/internal/layout"
	"github.com/yanizio/folio/internal/logger"
	"github.com/yanizio/folio/internal/profile"
	"github.com/yanizio/folio/internal/requestinfo"
	"github.com/yanizio/folio/internal/server"
	"github.com/yanizio/folio/internal/tenant"
	"github.com/yanizio/folio/internal/vault"
	"github.com/yanizio/folio/internal/view"
	"github.com/yanizio/folio/internal/web"
)

func main() {
	logger.Bootstrap()
	if err := run(); err != nil {
		zap.L().Error("folio exited", zap.Error(err))
		_ = zap.L().Sync()
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	//
	// ── 1.  Secrets and config ──────────────────────────────────────────
	//
	var opts config.Options
	if os.Getenv("VAULT_ADDR") != "" {
		vc, err := vault.New(ctx, zap.L().Named("vault"))
		if err != nil {
			return fmt.Errorf("vault: %w", err)
		}
		opts.Secrets = vc
	}
	cfg, err := config.LoadWith(ctx, opts)
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Options{Dir: cfg.Log.Dir, Level: cfg.Log.Level, Console: cfg.Log.Console || runningInTTY()})
	if err != nil {
		return fmt.Errorf("start logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	//
	// ── 2.  Profile store ───────────────────────────────────────────────
	//
	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	//
	// ── 3.  Loader and refresher ────────────────────────────────────────
	//
	strategy, err := profile.ParseStrategy(cfg.Profile.Strategy)
	if err != nil {
		return err
	}
	loader, err := profile.NewLoader(ctx, strategy, store, profile.Options{
		Logger:      log.Named("profile"),
		Concurrency: cfg.Profile.Concurrency,
	})
	if err != nil {
		return fmt.Errorf("profile loader: %w", err)
	}
	if rf, ok := loader.(profile.Refresher); ok && cfg.Profile.RefreshInterval > 0 {
		go rf.Run(ctx, cfg.Profile.RefreshInterval)
	}

	//
	// ── 4.  Page cache and geo ──────────────────────────────────────────
	//
	var pages cache.PageStore
	if cfg.Cache.Enabled {
		rc, err := cache.NewRedis(ctx, cache.RedisOptions{URL: cfg.Cache.RedisURL})
		if err != nil {
			// Serve uncached when Redis is unreachable.
			log.Warn("page cache disabled", zap.Error(err))
		} else if rc != nil {
			defer func() { _ = rc.Close() }()
			pages = cache.RedisPages{C: rc}
		}
	}

	geo, err := requestinfo.OpenGeo(cfg.Geo.DBPath)
	if err != nil {
		log.Warn("geo lookup disabled", zap.String("path", cfg.Geo.DBPath), zap.Error(err))
	}
	defer func() { _ = geo.Close() }()

	//
	// ── 5.  Rendering and routing ───────────────────────────────────────
	//
	var layouts fs.FS
	if cfg.Layout.Dir != "" {
		layouts = os.DirFS(cfg.Layout.Dir)
	}
	mgr := layout.NewManager(layouts, cfg.Layout.CacheSize, log.Named("layout"))
	log.Info("layouts available", zap.Strings("names", mgr.Names()))

	base := web.Options{
		Loader:        loader,
		Renderer:      view.New(mgr, log),
		Geo:           geo,
		Pages:         pages,
		Logger:        log,
		FeaturedLimit: 12,
	}
	handler := web.NewLive(web.NewRouter(routerOptions(cfg, base)))

	go reloadOnHUP(ctx, loader, handler, base, log)

	srv := server.New(cfg.HTTP, handler, log)
	return server.Run(ctx, srv, cfg.HTTP.ShutdownTimeout, log)
}

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// openStore returns the configured profile.Store and its closer.
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (profile.Store, func(), error) {
	switch cfg.Database.Driver {
	case "memory":
		ms, err := profile.LoadSeed(cfg.Database.SeedFile)
		if err != nil {
			return nil, nil, err
		}
		log.Info("serving profiles from seed", zap.String("file", cfg.Database.SeedFile))
		return ms, func() {}, nil

	case "mysql":
		log.Info("connecting to profile DB …")
		db, err := database.OpenWithOptions(ctx, cfg.Database.DSN, database.Options{
			Password:        cfg.Database.Password,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			Retries:         cfg.Database.Retries,
			RetryBackoff:    cfg.Database.RetryBackoff,
			Logger:          log,
		})
		if err != nil {
			return nil, nil, err
		}
		log.Info("profile DB online")
		return profile.NewSQLStore(db, log.Named("store")), func() { _ = db.Close() }, nil
	}
	return nil, nil, errors.New("unknown database driver " + cfg.Database.Driver)
}

// routerOptions fills the config-derived router settings on top of base.
func routerOptions(cfg *config.Config, base web.Options) web.Options {
	o := base
	o.Resolver = tenant.NewResolver(tenant.Options{
		RootHosts:      cfg.Tenancy.RootHosts,
		ReservedLabels: cfg.Tenancy.ReservedLabels,
	})
	o.Passthrough = cfg.Tenancy.Passthrough
	o.ForceHTTPS = cfg.HTTP.ForceHTTPS
	o.HTTPSExempt = cfg.HTTP.HTTPSExempt
	o.TrustProxy = cfg.HTTP.TrustProxy
	o.Debug = cfg.Debug
	o.ThemeCookie = cfg.Theme.CookieName
	o.ThemeMaxAge = cfg.Theme.MaxAge
	o.ThemeSecure = cfg.Theme.Secure
	o.CacheTTL = cfg.Cache.TTL
	o.CacheMaxBody = cfg.Cache.MaxBodyBytes
	o.CachePrefix = cfg.Cache.Prefix
	return o
}

// reloadOnHUP re-reads config, swaps in a router built from it, and
// rebuilds the snapshot on SIGHUP.  Listener, store, strategy, and Redis
// settings only change on restart.
func reloadOnHUP(ctx context.Context, loader profile.Loader, live *web.Live, base web.Options, log *zap.Logger) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	type rebuilder interface {
		Rebuild(context.Context) error
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			if err := config.Reload(ctx); err != nil {
				log.Error("config reload failed; keeping previous", zap.Error(err))
			} else {
				live.Store(web.NewRouter(routerOptions(config.Get(), base)))
				log.Info("config reloaded")
			}
			if rb, ok := loader.(rebuilder); ok {
				rctx, cancel := context.WithTimeout(ctx, time.Minute)
				if err := rb.Rebuild(rctx); err != nil {
					log.Error("snapshot rebuild failed", zap.Error(err))
				}
				cancel()
			}
		}
	}
}
