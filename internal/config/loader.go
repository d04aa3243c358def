// internal/config/loader.go
//
// Configuration loader and hot-reloader.
//
/*
Context
--------
`Load()` builds one immutable `Config` struct from three layers (highest
precedence last):

  1. Optional `<root>/conf/.env` file.
  2. `conf/global.yaml`.
  3. Environment variables prefixed `FOLIO_`, where `__` maps to “.”
     (e.g., `FOLIO_HTTP__LISTEN_ADDR → http.listen_addr`).

Once merged, every string value beginning with `vault:` is swapped for the
secret it names.  The tree is then unmarshalled into strongly-typed
structs, defaulted, validated, enriched with the runtime root path, and
cached in an `atomic.Pointer` for lock-free reads.  `Reload()` runs the
same pipeline with the last options and swaps the pointer.

Instrumentation
---------------
  • DEBUG – root discovery, YAML read, env overlay, secret resolution.
  • ERROR – YAML parse, env overlay, unmarshal, validation failures.
  • INFO  – final “config loaded” with key highlights.
  • Logs use the global *sugared* logger (`zap.S()`) so early boot issues
    surface before the file logger is installed.

Notes
-----
  • `rootDir()` climbs the cwd tree until it finds `conf/global.yaml`,
    so `go run ./cmd/web` works from any sub-directory.
  • Oxford commas, two spaces after periods.
*/
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"

	"github.com/yanizio/folio/internal/vault"
)

// EnvPrefix marks environment overrides.
const EnvPrefix = "FOLIO_"

// ErrNoSecrets means a `vault:` value was found but no resolver was given.
var ErrNoSecrets = errors.New("config: vault reference without a secret resolver")

// Secrets resolves `vault:` references.  *vault.Client satisfies it.
type Secrets interface {
	Resolve(ctx context.Context, ref string) (string, error)
}

// Options tweaks Load.  The zero value discovers the root and refuses
// `vault:` values.
type Options struct {
	Root    string  // overrides FOLIO_ROOT and discovery
	Secrets Secrets // optional
}

var (
	current  atomic.Pointer[Config]
	lastMu   sync.Mutex
	lastOpts Options
)

/*──────────────────────────── root discovery ───────────────────────────────*/

// rootDir resolves FOLIO_ROOT or climbs directories until conf/global.yaml
// is found.  Falls back to an executable heuristic for the production
// layout.
func rootDir() string {
	if r := os.Getenv("FOLIO_ROOT"); r != "" {
		return r
	}

	wd, _ := os.Getwd()
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "conf", "global.yaml")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached filesystem root
			break
		}
		dir = parent
	}

	exe, _ := os.Executable()
	if filepath.Base(filepath.Dir(exe)) == "bin" {
		return filepath.Dir(filepath.Dir(exe))
	}
	return wd
}

/*─────────────────────────────── loader ───────────────────────────────────*/

// Load reads .env, YAML, and env overrides with default Options.
func Load() (*Config, error) { return LoadWith(context.Background(), Options{}) }

// LoadWith runs the full pipeline and caches the result.
func LoadWith(ctx context.Context, opts Options) (*Config, error) {
	root := opts.Root
	if root == "" {
		root = rootDir()
	}
	zap.S().Debugw("config root resolved", "root", root)

	// .env (optional, no error if missing)
	_ = godotenv.Load(filepath.Join(root, "conf", ".env"))

	k := koanf.New(".")

	yamlPath := filepath.Join(root, "conf", "global.yaml")
	if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
		zap.S().Errorw("config yaml load failed", "file", yamlPath, "err", err)
		return nil, fmt.Errorf("config: %s: %w", yamlPath, err)
	}
	zap.S().Debugw("config yaml loaded", "file", yamlPath)

	// Env overrides: FOLIO_HTTP__LISTEN_ADDR → http.listen_addr
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, fmt.Errorf("config: env overlay: %w", err)
	}

	if err := resolveSecrets(ctx, k, opts.Secrets); err != nil {
		zap.S().Errorw("config secret resolution failed", "err", err)
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	cfg.applyDefaults()
	cfg.Paths.Root = root
	if cfg.Database.SeedFile != "" && !filepath.IsAbs(cfg.Database.SeedFile) {
		cfg.Database.SeedFile = filepath.Join(root, cfg.Database.SeedFile)
	}
	if !filepath.IsAbs(cfg.Log.Dir) {
		cfg.Log.Dir = filepath.Join(root, cfg.Log.Dir)
	}

	if err := validateStruct(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, fmt.Errorf("config: %w", err)
	}

	current.Store(&cfg)
	lastMu.Lock()
	lastOpts = opts
	lastMu.Unlock()

	zap.S().Infow("config loaded",
		"listen_addr", cfg.HTTP.ListenAddr,
		"force_https", cfg.HTTP.ForceHTTPS,
		"driver", cfg.Database.Driver,
		"strategy", cfg.Profile.Strategy,
		"root", cfg.Paths.Root,
	)
	return &cfg, nil
}

// envKey maps FOLIO_HTTP__LISTEN_ADDR to http.listen_addr.
func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	return strings.ToLower(strings.ReplaceAll(s, "__", "."))
}

// resolveSecrets replaces every `vault:` string in k.  Keys are visited in
// sorted order so errors are deterministic.
func resolveSecrets(ctx context.Context, k *koanf.Koanf, sec Secrets) error {
	all := k.All()
	keys := make([]string, 0, len(all))
	for key, val := range all {
		if s, ok := val.(string); ok && vault.IsRef(s) {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return nil
	}
	if sec == nil {
		return fmt.Errorf("%w: %s", ErrNoSecrets, strings.Join(keys, ", "))
	}
	sort.Strings(keys)

	for _, key := range keys {
		plain, err := sec.Resolve(ctx, k.String(key))
		if err != nil {
			return fmt.Errorf("config: resolve %s: %w", key, err)
		}
		if err := k.Set(key, plain); err != nil {
			return fmt.Errorf("config: set %s: %w", key, err)
		}
		zap.S().Debugw("config secret resolved", "key", key)
	}
	return nil
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

// Get returns the last successfully loaded Config, or nil.
func Get() *Config { return current.Load() }

// Reload re-runs LoadWith using the options of the last successful load.
// On failure the previous Config stays current.
func Reload(ctx context.Context) error {
	lastMu.Lock()
	opts := lastOpts
	lastMu.Unlock()
	_, err := LoadWith(ctx, opts)
	return err
}
