// internal/config/model.go
//
// Typed configuration model.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                            – dotenv values,
//   • `conf/global.yaml`                         – primary static file,
//   • `THEMABLE_`-prefixed environment overrides – highest precedence.
//
// Validation happens immediately after unmarshal; the app fails fast if
// required fields are missing.  `Theme` is not required
// here: an empty or unknown theme surfaces from theme.ChangeTheme at boot,
// the same way a bad runtime switch would.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`.
//   • The `Paths.Root` field is filled at runtime; YAML must not set it.
//   • Oxford commas, two spaces after periods.  No em-dash.

package config

import "time"

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr   string        `koanf:"listen_addr"   validate:"required,hostname_port"`
	ForceHTTPS   bool          `koanf:"force_https"`
	ReadTimeout  time.Duration `koanf:"read_timeout"  validate:"gte=0"`
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"gte=0"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"  validate:"gte=0"`
}

//
// View section
//

// View tunes the page engine.
type View struct {
	CacheSize int `koanf:"cache_size" validate:"gte=1"`
}

//
// Paths section
//

// Paths locates the content on disk.  `Root` is discovered at runtime
// (THEMABLE_ROOT or the directory holding conf/global.yaml).
// `ContentRoot` may be set in YAML; a relative value is joined onto Root,
// and an empty value means Root itself.
type Paths struct {
	Root        string `koanf:"-"`
	ContentRoot string `koanf:"content_root"`
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	Environment string `koanf:"environment" validate:"oneof=development production"`
	Theme       string `koanf:"theme"`
	HTTP        HTTP   `koanf:"http"`
	View        View   `koanf:"view"`
	Paths       Paths  `koanf:"paths"`
}

// IsDevelopment reports whether developer conveniences (console logging,
// detailed error pages) should be on.
func (c *Config) IsDevelopment() bool { return c.Environment == "development" }

// applyDefaults fills zero values that YAML may leave out.
func (c *Config) applyDefaults() {
	if c.Environment == "" {
		c.Environment = "production"
	}
	if c.HTTP.ListenAddr == "" {
		c.HTTP.ListenAddr = ":8080"
	}
	if c.HTTP.ReadTimeout == 0 {
		c.HTTP.ReadTimeout = 10 * time.Second
	}
	if c.HTTP.WriteTimeout == 0 {
		c.HTTP.WriteTimeout = 15 * time.Second
	}
	if c.HTTP.IdleTimeout == 0 {
		c.HTTP.IdleTimeout = 60 * time.Second
	}
	if c.View.CacheSize == 0 {
		c.View.CacheSize = 1024
	}
}
