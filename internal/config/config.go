// Package config loads stockroom settings from a YAML file, STOCKROOM_*
// environment variables and command-line flags, in increasing precedence.
package config

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/example/stockroom/internal/db"
)

// DefaultFileName is looked up in the working directory when no --config is given.
const DefaultFileName = "stockroom.yaml"

// EnvPrefix prefixes every environment override, e.g. STOCKROOM_DATABASE_DSN.
const EnvPrefix = "STOCKROOM"

// InsecureDevSecret signs sessions when debug is on and no secret is configured.
const InsecureDevSecret = "insecure-development-secret-change-me"

// Config is the full application configuration.
type Config struct {
	Debug     bool      `mapstructure:"debug" yaml:"debug"`
	SecretKey string    `mapstructure:"secret_key" yaml:"secret_key"`
	Server    Server    `mapstructure:"server" yaml:"server"`
	Database  Database  `mapstructure:"database" yaml:"database"`
	Auth      Auth      `mapstructure:"auth" yaml:"auth"`
	Inventory Inventory `mapstructure:"inventory" yaml:"inventory"`
	Metrics   Metrics   `mapstructure:"metrics" yaml:"metrics"`
	Log       Log       `mapstructure:"log" yaml:"log"`
}

type Server struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

type Database struct {
	Driver string `mapstructure:"driver" yaml:"driver"`
	DSN    string `mapstructure:"dsn" yaml:"dsn"`
}

type Auth struct {
	SessionTTL     time.Duration `mapstructure:"session_ttl"`
	LoginURL       string        `mapstructure:"login_url"`
	LoginRedirect  string        `mapstructure:"login_redirect"`
	LogoutRedirect string        `mapstructure:"logout_redirect"`
	BcryptCost     int           `mapstructure:"bcrypt_cost"`
	SecureCookies  bool          `mapstructure:"secure_cookies"`
}

// MarshalYAML writes the session TTL in its readable form ("336h0m0s").
func (a Auth) MarshalYAML() (any, error) {
	return map[string]any{
		"session_ttl":     a.SessionTTL.String(),
		"login_url":       a.LoginURL,
		"login_redirect":  a.LoginRedirect,
		"logout_redirect": a.LogoutRedirect,
		"bcrypt_cost":     a.BcryptCost,
		"secure_cookies":  a.SecureCookies,
	}, nil
}

type Inventory struct {
	// LowStockThreshold flags products whose quantity is strictly below it.
	LowStockThreshold int `mapstructure:"low_stock_threshold" yaml:"low_stock_threshold"`
}

type Metrics struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

type Log struct {
	// Level is one of debug, info, warn, error, off.
	Level string `mapstructure:"level" yaml:"level"`
}

// flagKeys maps command-line flag names onto configuration keys.
var flagKeys = map[string]string{
	"debug":           "debug",
	"database-driver": "database.driver",
	"database-dsn":    "database.dsn",
	"log-level":       "log.level",
	"addr":            "server.addr",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("debug", true)
	v.SetDefault("secret_key", "")
	v.SetDefault("server.addr", "127.0.0.1:8000")
	v.SetDefault("database.driver", "sqlite3")
	v.SetDefault("database.dsn", db.DefaultSQLitePath)
	v.SetDefault("auth.session_ttl", "336h")
	v.SetDefault("auth.login_url", "/login/")
	v.SetDefault("auth.login_redirect", "/list/")
	v.SetDefault("auth.logout_redirect", "/home/")
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("auth.secure_cookies", false)
	v.SetDefault("inventory.low_stock_threshold", 10)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("log.level", "info")
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	cfg, err := load(viper.New(), "", nil)
	if err != nil {
		// Defaults alone always decode.
		panic(err)
	}
	return cfg
}

// Load reads configuration. path names an explicit YAML file; when empty,
// ./stockroom.yaml is used if it exists. flags, when non-nil, override file
// and environment values for the flags that were set.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	return load(viper.New(), path, flags)
}

func load(v *viper.Viper, path string, flags *pflag.FlagSet) (*Config, error) {
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else if flags != nil {
		v.SetConfigName(strings.TrimSuffix(DefaultFileName, filepath.Ext(DefaultFileName)))
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.SecretKey == "" && cfg.Debug {
		cfg.SecretKey = InsecureDevSecret
	}

	return &cfg, nil
}

// Validate reports the first setting that would prevent the server from running.
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("secret_key must be set when debug is off")
	}
	if !c.Debug && c.SecretKey == InsecureDevSecret {
		return fmt.Errorf("the development secret_key cannot be used when debug is off")
	}
	if _, err := db.ParseDialect(c.Database.Driver); err != nil {
		return err
	}
	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("auth.session_ttl must be positive (got %s)", c.Auth.SessionTTL)
	}
	if !strings.HasPrefix(c.Auth.LoginURL, "/") {
		return fmt.Errorf("auth.login_url must be a local path (got %q)", c.Auth.LoginURL)
	}
	if c.Inventory.LowStockThreshold < 0 {
		return fmt.Errorf("inventory.low_stock_threshold cannot be negative")
	}
	return nil
}

// SaveConfig writes cfg as YAML to path, creating parent directories.
func SaveConfig(path string, cfg *Config) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config dir: %w", err)
		}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// GenerateSecretKey returns a random key suitable for signing sessions.
func GenerateSecretKey() (string, error) {
	buf := make([]byte, 48)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate secret key: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
