// Package config handles application configuration loading from environment
// variables and an optional YAML file. It provides a centralized Config
// struct used across the application.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverValkey   = "valkey"
)

// FileEnv names the variable pointing at the YAML config file.
const FileEnv = "ITAB_CONFIG"

// Config holds all application configuration values.
type Config struct {
	// Server settings
	Host      string
	Port      string
	Env       string // "development", "production", "testing"
	LogLevel  string // "debug", "info", "warn", "error"
	LogFormat string // "text" or "json"; empty picks by Env

	// Document storage
	StoreDriver string
	DataFile    string
	SQLitePath  string

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string
	ValkeyDB       int
	ValkeyKey      string

	// Secret codec host binding; the hostname when empty.
	SecretHostID string

	// API guard
	APIToken       string
	RateLimit      int
	RateWindow     time.Duration
	TrustProxy     bool
	AllowedOrigins []string

	WebDAVTimeout time.Duration

	// Optional S3-compatible mirror for backups
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3Prefix    string
}

// Load reads configuration from environment variables, falling back to the
// YAML file at path (or $ITAB_CONFIG when path is empty) and then to
// development defaults. Environment variables win over the file. Returns an
// error for malformed values and for missing critical values in production.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(FileEnv)
	}
	file, err := readFile(path)
	if err != nil {
		return nil, err
	}
	src := source{file: file}

	cfg := &Config{
		Host:      src.get("APP_HOST", "0.0.0.0"),
		Port:      src.get("APP_PORT", "3001"),
		Env:       src.get("APP_ENV", "development"),
		LogLevel:  src.get("LOG_LEVEL", "info"),
		LogFormat: src.get("LOG_FORMAT", ""),

		StoreDriver: strings.ToLower(src.get("STORE_DRIVER", DriverFile)),
		DataFile:    src.get("DATA_FILE", "data/data.json"),
		SQLitePath:  src.get("SQLITE_PATH", "data/itab.db"),

		DBHost:     src.get("POSTGRES_HOST", "localhost"),
		DBPort:     src.get("POSTGRES_PORT", "5432"),
		DBUser:     src.get("POSTGRES_USER", "itab"),
		DBPassword: src.get("POSTGRES_PASSWORD", "changeme"),
		DBName:     src.get("POSTGRES_DB", "itab"),

		ValkeyHost:     src.get("VALKEY_HOST", "localhost"),
		ValkeyPort:     src.get("VALKEY_PORT", "6379"),
		ValkeyPassword: src.get("VALKEY_PASSWORD", ""),
		ValkeyKey:      src.get("VALKEY_KEY", "itab:document"),

		SecretHostID: src.get("SECRET_HOST_ID", ""),

		APIToken:       src.get("API_TOKEN", ""),
		AllowedOrigins: splitList(src.get("ALLOWED_ORIGINS", "")),

		S3Endpoint:  src.get("S3_ENDPOINT", ""),
		S3Region:    src.get("S3_REGION", "us-east-1"),
		S3AccessKey: src.get("S3_ACCESS_KEY", ""),
		S3SecretKey: src.get("S3_SECRET_KEY", ""),
		S3Bucket:    src.get("S3_BUCKET", ""),
		S3Prefix:    src.get("S3_PREFIX", "itab-backup"),
	}

	if cfg.ValkeyDB, err = src.getInt("VALKEY_DB", 0); err != nil {
		return nil, err
	}
	if cfg.RateLimit, err = src.getInt("RATE_LIMIT", 100); err != nil {
		return nil, err
	}
	if cfg.RateWindow, err = src.getDuration("RATE_WINDOW", time.Minute); err != nil {
		return nil, err
	}
	if cfg.TrustProxy, err = src.getBool("TRUST_PROXY", false); err != nil {
		return nil, err
	}
	if cfg.WebDAVTimeout, err = src.getDuration("WEBDAV_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}

	switch cfg.StoreDriver {
	case DriverFile, DriverSQLite, DriverPostgres, DriverValkey:
	default:
		return nil, fmt.Errorf("STORE_DRIVER %q is not one of file, sqlite, postgres, valkey", cfg.StoreDriver)
	}
	if _, err := cfg.parseLevel(); err != nil {
		return nil, err
	}

	if cfg.Env == "production" {
		if cfg.APIToken == "" {
			return nil, fmt.Errorf("API_TOKEN must be set in production")
		}
		if cfg.StoreDriver == DriverPostgres && cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Level returns the slog level named by LogLevel.
func (c *Config) Level() slog.Level {
	l, _ := c.parseLevel()
	return l
}

// JSONLogs reports whether logs should be written as JSON. Without an
// explicit LOG_FORMAT only development logs are text.
func (c *Config) JSONLogs() bool {
	switch strings.ToLower(c.LogFormat) {
	case "json":
		return true
	case "text":
		return false
	}
	return !c.IsDev()
}

func (c *Config) parseLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return l, nil
}

// readFile parses a flat YAML mapping of the same keys as the environment,
// for example "APP_PORT: 3001". An empty path yields no values.
func readFile(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		switch v := v.(type) {
		case nil:
		case []any:
			parts := make([]string, 0, len(v))
			for _, p := range v {
				parts = append(parts, fmt.Sprint(p))
			}
			out[strings.ToUpper(k)] = strings.Join(parts, ",")
		default:
			out[strings.ToUpper(k)] = fmt.Sprint(v)
		}
	}
	return out, nil
}

// source resolves a key from the environment, then the file.
type source struct {
	file map[string]string
}

func (s source) get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if v := s.file[key]; v != "" {
		return v
	}
	return fallback
}

func (s source) getInt(key string, fallback int) (int, error) {
	v := s.get(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not an integer", key, v)
	}
	return n, nil
}

func (s source) getBool(key string, fallback bool) (bool, error) {
	v := s.get(key, "")
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %q is not a boolean", key, v)
	}
	return b, nil
}

// getDuration accepts Go durations ("90s") and bare seconds ("90").
func (s source) getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := s.get(key, "")
	if v == "" {
		return fallback, nil
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a duration", key, v)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
