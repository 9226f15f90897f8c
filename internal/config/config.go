// Package config loads the server configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/0x6d61/mustwatch/internal/dbms"
)

// Environment variable names.
const (
	EnvDriver          = "DB_DRIVER"
	EnvHost            = "DB_HOST"
	EnvPort            = "DB_PORT"
	EnvUser            = "DB_USER"
	EnvPassword        = "DB_PSWD"
	EnvName            = "DB_NAME"
	EnvSSLMode         = "DB_SSLMODE"
	EnvMaxOpenConns    = "DB_MAX_OPEN_CONNS"
	EnvListen          = "LISTEN_ADDR"
	EnvLogLevel        = "LOG_LEVEL"
	EnvLogDev          = "LOG_DEV"
	EnvRateLimit       = "RATE_LIMIT"
	EnvRateBurst       = "RATE_BURST"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)

// Config is the process configuration, read once at startup.
type Config struct {
	Driver       string
	DB           dbms.ConnParams
	MaxOpenConns int

	Listen          string
	ShutdownTimeout time.Duration

	LogLevel string
	LogDev   bool

	// RateLimit is the allowed requests per second; 0 disables limiting.
	RateLimit float64
	RateBurst int
}

// Default returns the configuration used when no variable is set.
func Default() *Config {
	return &Config{
		Driver:          "mysql",
		MaxOpenConns:    10,
		Listen:          ":8000",
		ShutdownTimeout: 10 * time.Second,
		LogLevel:        "info",
		RateBurst:       20,
	}
}

// LoadDotEnv reads KEY=VALUE pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: load %s: %w", path, err)
	}
	return nil
}

// Load reads the configuration from the process environment.
func Load() (*Config, error) {
	return LoadFrom(os.LookupEnv)
}

// LoadFrom reads the configuration through lookup, which has the signature
// of os.LookupEnv.
func LoadFrom(lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()
	var errs []error

	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	integer := func(key string, dst *int) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}

	str(EnvDriver, &cfg.Driver)
	str(EnvHost, &cfg.DB.Host)
	integer(EnvPort, &cfg.DB.Port)
	str(EnvUser, &cfg.DB.User)
	if v, ok := lookup(EnvPassword); ok {
		// Passwords are taken verbatim.
		cfg.DB.Password = v
	}
	str(EnvName, &cfg.DB.Database)
	str(EnvSSLMode, &cfg.DB.SSLMode)
	integer(EnvMaxOpenConns, &cfg.MaxOpenConns)
	str(EnvListen, &cfg.Listen)
	str(EnvLogLevel, &cfg.LogLevel)
	integer(EnvRateBurst, &cfg.RateBurst)

	if v, ok := lookup(EnvLogDev); ok && strings.TrimSpace(v) != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvLogDev, err))
		} else {
			cfg.LogDev = b
		}
	}
	if v, ok := lookup(EnvRateLimit); ok && strings.TrimSpace(v) != "" {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvRateLimit, err))
		} else {
			cfg.RateLimit = f
		}
	}
	if v, ok := lookup(EnvShutdownTimeout); ok && strings.TrimSpace(v) != "" {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvShutdownTimeout, err))
		} else {
			cfg.ShutdownTimeout = d
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Dialect returns the SQL dialect named by Driver, or nil.
func (c *Config) Dialect() dbms.DBMS {
	return dbms.Registry(c.Driver)
}

// DSN builds the data source name for the configured dialect.
func (c *Config) DSN() (string, error) {
	d := c.Dialect()
	if d == nil {
		return "", fmt.Errorf("config: unsupported %s %q (want one of %s)",
			EnvDriver, c.Driver, strings.Join(dbms.Names(), ", "))
	}
	dsn, err := d.DSN(c.DB)
	if err != nil {
		return "", fmt.Errorf("config: %w", err)
	}
	return dsn, nil
}

// Validate reports configuration that would make the server unusable.
// Missing database credentials fail here, at startup.
func (c *Config) Validate() error {
	if _, err := c.DSN(); err != nil {
		return err
	}
	if c.Listen == "" {
		return fmt.Errorf("config: %s is empty", EnvListen)
	}
	if c.MaxOpenConns <= 0 {
		return fmt.Errorf("config: %s must be positive, got %d", EnvMaxOpenConns, c.MaxOpenConns)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("config: %s must not be negative, got %g", EnvRateLimit, c.RateLimit)
	}
	if c.RateLimit > 0 && c.RateBurst <= 0 {
		return fmt.Errorf("config: %s must be positive when %s is set", EnvRateBurst, EnvRateLimit)
	}
	return nil
}
