package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the top-level console configuration.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Backend    BackendConfig    `koanf:"backend"`
	Store      StoreConfig      `koanf:"store"`
	Log        LogConfig        `koanf:"log"`
	Session    SessionConfig    `koanf:"session"`
	Controller ControllerConfig `koanf:"controller"`
}

// ServerConfig holds HTTP server settings for the console itself.
type ServerConfig struct {
	Host       string     `koanf:"host"`
	Port       int        `koanf:"port"`
	Mode       string     `koanf:"mode"`
	CSRFSecret string     `koanf:"csrf_secret"`
	CORS       CORSConfig `koanf:"cors"`
}

// CORSConfig holds CORS middleware settings.
type CORSConfig struct {
	AllowOrigins     []string `koanf:"allow_origins"`
	AllowMethods     []string `koanf:"allow_methods"`
	AllowHeaders     []string `koanf:"allow_headers"`
	AllowCredentials bool     `koanf:"allow_credentials"`
}

// BackendConfig points the console at the management API it administers.
// BaseURL is the API origin; Route is the admin route prefix appended to it
// for every endpoint (e.g. "admin").
type BackendConfig struct {
	BaseURL string `koanf:"base_url"`
	Route   string `koanf:"route"`
	Timeout string `koanf:"timeout"`
}

// EndpointPrefix returns the fully joined prefix for admin endpoints.
func (b *BackendConfig) EndpointPrefix() string {
	base := strings.TrimRight(b.BaseURL, "/")
	route := strings.Trim(b.Route, "/")
	if route == "" {
		return base
	}
	return base + "/" + route
}

// RequestTimeout returns the configured backend timeout, or zero when unset
// so the transport default applies.
func (b *BackendConfig) RequestTimeout() time.Duration {
	if b.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(b.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// StoreConfig holds settings for the console's local store (sessions, audit).
type StoreConfig struct {
	Driver   string         `koanf:"driver"`
	SQLite   SQLiteConfig   `koanf:"sqlite"`
	Postgres PostgresConfig `koanf:"postgres"`
	Pool     PoolConfig     `koanf:"pool"`
}

// SQLiteConfig holds SQLite-specific settings.
type SQLiteConfig struct {
	Path string `koanf:"path"`
}

// PostgresConfig holds PostgreSQL-specific settings.
type PostgresConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	DBName   string `koanf:"dbname"`
	SSLMode  string `koanf:"sslmode"`
}

// PoolConfig holds database connection pool settings.
type PoolConfig struct {
	MaxIdleConns    int    `koanf:"max_idle_conns"`
	MaxOpenConns    int    `koanf:"max_open_conns"`
	ConnMaxLifetime string `koanf:"conn_max_lifetime"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level           string `koanf:"level"`
	Format          string `koanf:"format"`
	Color           *bool  `koanf:"color"`
	FilePath        string `koanf:"file_path"`
	MaxSizeMB       int    `koanf:"max_size_mb"`
	RetentionDays   int    `koanf:"retention_days"`
	MaxBackups      int    `koanf:"max_backups"`
	CompressRotated *bool  `koanf:"compress_rotated"`
}

// SessionConfig holds console login session settings.
type SessionConfig struct {
	CookieName string `koanf:"cookie_name"`
	TTL        string `koanf:"ttl"`
}

// SessionTTL returns the configured session lifetime, defaulting to 24h.
func (s *SessionConfig) SessionTTL() time.Duration {
	if s.TTL == "" {
		return 24 * time.Hour
	}
	d, err := time.ParseDuration(s.TTL)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

// ControllerConfig tunes the list controllers the screens run on.
type ControllerConfig struct {
	Debounce    string `koanf:"debounce"`
	PageSize    int    `koanf:"page_size"`
	RegistryTTL string `koanf:"registry_ttl"`
}

// DebounceInterval returns the search debounce window, defaulting to 500ms.
func (c *ControllerConfig) DebounceInterval() time.Duration {
	if c.Debounce == "" {
		return 500 * time.Millisecond
	}
	d, err := time.ParseDuration(c.Debounce)
	if err != nil || d <= 0 {
		return 500 * time.Millisecond
	}
	return d
}

// DefaultPageSize returns the page size new screens start with, defaulting to 10.
func (c *ControllerConfig) DefaultPageSize() int {
	if c.PageSize < 1 {
		return 10
	}
	return c.PageSize
}

// ControllerTTL returns how long an idle screen keeps its controller alive,
// defaulting to 30m.
func (c *ControllerConfig) ControllerTTL() time.Duration {
	if c.RegistryTTL == "" {
		return 30 * time.Minute
	}
	d, err := time.ParseDuration(c.RegistryTTL)
	if err != nil || d <= 0 {
		return 30 * time.Minute
	}
	return d
}

// Load reads configuration from a YAML file and overlays environment
// variables. Environment variables use the prefix "APP__" and double
// underscore as the hierarchy separator; single underscores are preserved as
// part of the key name. For example, APP__BACKEND__BASE_URL overrides
// backend.base_url.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}

	if err := k.Load(env.Provider("APP__", ".", func(s string) string {
		key := strings.TrimPrefix(s, "APP__")
		key = strings.ToLower(key)
		key = strings.ReplaceAll(key, "__", ".")
		return key
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cross-field constraints and supported values.
func (c *Config) Validate() error {
	mode := strings.TrimSpace(c.Server.Mode)
	switch mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		c.Server.Mode = mode
	default:
		return fmt.Errorf("invalid server.mode %q: must be one of %q, %q, %q", c.Server.Mode, gin.DebugMode, gin.ReleaseMode, gin.TestMode)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", c.Server.Port)
	}

	host := strings.TrimSpace(c.Server.Host)
	if host == "" {
		return fmt.Errorf("server.host is required")
	}
	c.Server.Host = host

	baseURL := strings.TrimSpace(c.Backend.BaseURL)
	if baseURL == "" {
		return fmt.Errorf("backend.base_url is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("invalid backend.base_url %q: must be an absolute http(s) URL", c.Backend.BaseURL)
	}
	switch parsed.Scheme {
	case "http", "https":
		// ok
	default:
		return fmt.Errorf("invalid backend.base_url scheme %q: must be http or https", parsed.Scheme)
	}
	c.Backend.BaseURL = baseURL

	if t := strings.TrimSpace(c.Backend.Timeout); t != "" {
		d, err := time.ParseDuration(t)
		if err != nil {
			return fmt.Errorf("invalid backend.timeout %q: %w", c.Backend.Timeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("invalid backend.timeout %q: must be positive", c.Backend.Timeout)
		}
		c.Backend.Timeout = t
	} else {
		c.Backend.Timeout = ""
	}

	switch c.Store.Driver {
	case "sqlite", "postgres":
		// ok
	default:
		return fmt.Errorf("invalid store.driver %q: must be one of %q, %q", c.Store.Driver, "sqlite", "postgres")
	}

	if c.Store.Driver == "sqlite" {
		sqlitePath := strings.TrimSpace(c.Store.SQLite.Path)
		if sqlitePath == "" {
			return fmt.Errorf("store.sqlite.path is required when driver is sqlite")
		}
		c.Store.SQLite.Path = sqlitePath
	}

	if c.Store.Driver == "postgres" {
		pgHost := strings.TrimSpace(c.Store.Postgres.Host)
		if pgHost == "" {
			return fmt.Errorf("store.postgres.host is required when driver is postgres")
		}
		if c.Store.Postgres.Port < 1 || c.Store.Postgres.Port > 65535 {
			return fmt.Errorf("invalid store.postgres.port %d: must be between 1 and 65535", c.Store.Postgres.Port)
		}
		pgUser := strings.TrimSpace(c.Store.Postgres.User)
		if pgUser == "" {
			return fmt.Errorf("store.postgres.user is required when driver is postgres")
		}
		dbName := strings.TrimSpace(c.Store.Postgres.DBName)
		if dbName == "" {
			return fmt.Errorf("store.postgres.dbname is required when driver is postgres")
		}
		sslMode := strings.TrimSpace(c.Store.Postgres.SSLMode)
		switch sslMode {
		case "disable", "allow", "prefer", "require", "verify-ca", "verify-full":
			// ok
		default:
			return fmt.Errorf("invalid store.postgres.sslmode %q", c.Store.Postgres.SSLMode)
		}
		c.Store.Postgres.Host = pgHost
		c.Store.Postgres.User = pgUser
		c.Store.Postgres.DBName = dbName
		c.Store.Postgres.SSLMode = sslMode
	}

	if t := strings.TrimSpace(c.Store.Pool.ConnMaxLifetime); t != "" {
		if _, err := time.ParseDuration(t); err != nil {
			return fmt.Errorf("invalid store.pool.conn_max_lifetime %q: %w", c.Store.Pool.ConnMaxLifetime, err)
		}
		c.Store.Pool.ConnMaxLifetime = t
	}

	cookie := strings.TrimSpace(c.Session.CookieName)
	if cookie == "" {
		cookie = "memberbase_session"
	}
	c.Session.CookieName = cookie

	if t := strings.TrimSpace(c.Session.TTL); t != "" {
		d, err := time.ParseDuration(t)
		if err != nil {
			return fmt.Errorf("invalid session.ttl %q: %w", c.Session.TTL, err)
		}
		if d <= 0 {
			return fmt.Errorf("invalid session.ttl %q: must be positive", c.Session.TTL)
		}
		c.Session.TTL = t
	}

	for _, field := range []struct {
		name  string
		value string
	}{
		{"controller.debounce", c.Controller.Debounce},
		{"controller.registry_ttl", c.Controller.RegistryTTL},
	} {
		if t := strings.TrimSpace(field.value); t != "" {
			d, err := time.ParseDuration(t)
			if err != nil {
				return fmt.Errorf("invalid %s %q: %w", field.name, field.value, err)
			}
			if d <= 0 {
				return fmt.Errorf("invalid %s %q: must be positive", field.name, field.value)
			}
		}
	}
	if c.Controller.PageSize < 0 {
		return fmt.Errorf("invalid controller.page_size %d: must not be negative", c.Controller.PageSize)
	}

	return nil
}
