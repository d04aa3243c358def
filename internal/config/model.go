// internal/config/model.go
//
// Typed configuration model for Folio.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                         – dotenv values,
//   • `conf/global.yaml`                      – primary static file,
//   • `FOLIO_`-prefixed environment overrides – highest precedence.
//
// Any value whose string begins with `vault:` is resolved through the
// Vault client *before* unmarshalling, so the model never stores Vault
// URIs, only plain strings.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`.
//   • Zero values are replaced by applyDefaults before validation.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.  No em-dash.

package config

import "time"

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr        string        `koanf:"listen_addr"         validate:"required,hostname_port"`
	ForceHTTPS        bool          `koanf:"force_https"`
	HTTPSExempt       []string      `koanf:"https_exempt"        validate:"dive,required"`
	TrustProxy        bool          `koanf:"trust_proxy"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	IdleTimeout       time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
}

//
// Tenancy section
//

// Tenancy controls request-to-tenant resolution.
type Tenancy struct {
	RootHosts      []string `koanf:"root_hosts"      validate:"required,min=1,dive,required,roothost"`
	ReservedLabels []string `koanf:"reserved_labels" validate:"dive,required"`
	Passthrough    []string `koanf:"passthrough"     validate:"dive,startswith=/"`
}

//
// Database section
//

// Database selects the profile store.
//
// With driver `mysql` the DSN template lives in YAML so operators can tweak
// host, port, or flags, while the password is usually a `vault:` reference
// injected at runtime.  Driver `memory` serves profiles from SeedFile.
type Database struct {
	Driver          string        `koanf:"driver"            validate:"required,oneof=mysql memory"`
	DSN             string        `koanf:"dsn"               validate:"required_if=Driver mysql"`
	Password        string        `koanf:"password"`
	MaxOpenConns    int           `koanf:"max_open_conns"    validate:"gte=0"`
	MaxIdleConns    int           `koanf:"max_idle_conns"    validate:"gte=0"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	Retries         int           `koanf:"retries"           validate:"gte=0"`
	RetryBackoff    time.Duration `koanf:"retry_backoff"`
	SeedFile        string        `koanf:"seed_file"         validate:"required_if=Driver memory"`
}

//
// Profile section
//

// Profile selects the loader strategy.
type Profile struct {
	Strategy        string        `koanf:"strategy"         validate:"oneof=request static static_fallback"`
	RefreshInterval time.Duration `koanf:"refresh_interval" validate:"gte=0"`
	Concurrency     int           `koanf:"concurrency"      validate:"gte=0"`
}

//
// Theme section
//

// Theme configures the preference cookie.
type Theme struct {
	CookieName string        `koanf:"cookie_name" validate:"required,printascii,excludesall=0x2C;="`
	MaxAge     time.Duration `koanf:"max_age"`
	Secure     bool          `koanf:"secure"`
}

//
// Cache section
//

// Cache configures the Redis page cache.
type Cache struct {
	Enabled      bool          `koanf:"enabled"`
	RedisURL     string        `koanf:"redis_url"      validate:"required_if=Enabled true"`
	TTL          time.Duration `koanf:"ttl"`
	MaxBodyBytes int64         `koanf:"max_body_bytes" validate:"gte=0"`
	Prefix       string        `koanf:"prefix"`
}

//
// Layout section
//

// Layout points the layout manager at an on-disk override directory.
type Layout struct {
	Dir       string `koanf:"dir"`
	CacheSize int    `koanf:"cache_size" validate:"gte=0"`
}

//
// Geo and Log sections
//

// Geo holds the optional GeoLite2 database path.
type Geo struct {
	DBPath string `koanf:"db_path"`
}

// Log configures the zap logger.
type Log struct {
	Level   string `koanf:"level"   validate:"oneof=debug info warn error"`
	Dir     string `koanf:"dir"`
	Console bool   `koanf:"console"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.
type Paths struct {
	Root string // FOLIO_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Tenancy  Tenancy  `koanf:"tenancy"`
	Database Database `koanf:"database"`
	Profile  Profile  `koanf:"profile"`
	Theme    Theme    `koanf:"theme"`
	Cache    Cache    `koanf:"cache"`
	Layout   Layout   `koanf:"layout"`
	Geo      Geo      `koanf:"geo"`
	Log      Log      `koanf:"log"`
	Debug    bool     `koanf:"debug"`
	Paths    Paths    `koanf:"-"`
}

// applyDefaults fills zero values.
func (c *Config) applyDefaults() {
	setDur := func(d *time.Duration, v time.Duration) {
		if *d == 0 {
			*d = v
		}
	}
	setStr := func(s *string, v string) {
		if *s == "" {
			*s = v
		}
	}
	setInt := func(i *int, v int) {
		if *i == 0 {
			*i = v
		}
	}

	setStr(&c.HTTP.ListenAddr, ":8080")
	if len(c.HTTP.HTTPSExempt) == 0 {
		c.HTTP.HTTPSExempt = []string{"localhost", "127.0.0.1", "::1"}
	}
	setDur(&c.HTTP.ReadTimeout, 10*time.Second)
	setDur(&c.HTTP.ReadHeaderTimeout, 5*time.Second)
	setDur(&c.HTTP.WriteTimeout, 15*time.Second)
	setDur(&c.HTTP.IdleTimeout, 60*time.Second)
	setDur(&c.HTTP.ShutdownTimeout, 10*time.Second)

	if len(c.Tenancy.ReservedLabels) == 0 {
		c.Tenancy.ReservedLabels = []string{"www", "api"}
	}
	if len(c.Tenancy.Passthrough) == 0 {
		c.Tenancy.Passthrough = []string{"/healthz", "/metrics", "/static/", "/favicon.ico"}
	}

	setStr(&c.Database.Driver, "mysql")
	setInt(&c.Database.MaxOpenConns, 15)
	setInt(&c.Database.MaxIdleConns, 5)
	setDur(&c.Database.ConnMaxLifetime, 30*time.Minute)
	setDur(&c.Database.RetryBackoff, 500*time.Millisecond)

	setStr(&c.Profile.Strategy, "static_fallback")

	setStr(&c.Theme.CookieName, "themeColor")
	setDur(&c.Theme.MaxAge, 365*24*time.Hour)

	setDur(&c.Cache.TTL, time.Minute)
	if c.Cache.MaxBodyBytes == 0 {
		c.Cache.MaxBodyBytes = 1 << 20
	}
	setStr(&c.Cache.Prefix, "folio:page")

	setInt(&c.Layout.CacheSize, 32)

	setStr(&c.Log.Level, "info")
	setStr(&c.Log.Dir, "logs")
}
