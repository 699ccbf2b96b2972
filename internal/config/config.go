// Package config loads actai configuration from an optional YAML file and
// ACTAI_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix         = "ACTAI_"
	maxConfigFileSize = 1024 * 1024 // 1MB

	DefaultBaseURL    = "http://localhost:8003/api"
	DefaultServerAddr = "127.0.0.1:8090"
)

// Config holds all actai settings.
type Config struct {
	API struct {
		BaseURL   string        `koanf:"base_url"`
		Timeout   time.Duration `koanf:"timeout"`
		RateLimit float64       `koanf:"rate_limit"` // requests per second, 0 disables
		Burst     int           `koanf:"burst"`
	} `koanf:"api"`
	Session struct {
		Path string `koanf:"path"`
	} `koanf:"session"`
	Notes struct {
		Backend       string `koanf:"backend"` // file or redis
		Path          string `koanf:"path"`
		RedisAddr     string `koanf:"redis_addr"`
		RedisPassword string `koanf:"redis_password"`
		RedisDB       int    `koanf:"redis_db"`
		RedisKey      string `koanf:"redis_key"`
	} `koanf:"notes"`
	MySQL struct {
		DSN string `koanf:"dsn"` // e.g., user:pass@tcp(host:3306)/dbname?parseTime=true&multiStatements=true
	} `koanf:"mysql"`
	Snapshot struct {
		Interval time.Duration `koanf:"interval"`
		Timezone string        `koanf:"timezone"` // IANA name used by daily mode
	} `koanf:"snapshot"`
	Server struct {
		Addr string `koanf:"addr"`
	} `koanf:"server"`
	Log struct {
		Level  string `koanf:"level"`
		Format string `koanf:"format"` // json or console
	} `koanf:"log"`
}

// DefaultDir is where the config file, session and notes live by default.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "actai"), nil
}

// Load reads configPath (default ~/.config/actai/config.yaml) if it exists,
// then overrides with environment variables.
//
// Environment variables carry the ACTAI_ prefix and split into section and
// field at the first underscore after it:
//
//	ACTAI_API_BASE_URL     -> api.base_url
//	ACTAI_NOTES_REDIS_ADDR -> notes.redis_addr
//	ACTAI_MYSQL_DSN        -> mysql.dsn
func Load(configPath string) (Config, error) {
	k := koanf.New(".")

	dir, err := DefaultDir()
	if err != nil {
		return Config{}, err
	}
	if configPath == "" {
		configPath = filepath.Join(dir, "config.yaml")
	}
	content, err := readConfigFile(configPath)
	if err != nil {
		return Config{}, err
	}
	if content != nil {
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	applyDefaults(&cfg, dir)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// envKey maps ACTAI_SECTION_FIELD_NAME to section.field_name.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	section, field, ok := strings.Cut(lower, "_")
	if !ok {
		return lower
	}
	return section + "." + field
}

// readConfigFile returns nil content when the file does not exist.
func readConfigFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("config path %s is a directory", path)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}
	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}

func applyDefaults(cfg *Config, dir string) {
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = DefaultBaseURL
	}
	if cfg.API.Timeout == 0 {
		cfg.API.Timeout = 30 * time.Second
	}
	if cfg.API.RateLimit > 0 && cfg.API.Burst == 0 {
		cfg.API.Burst = 1
	}
	if cfg.Session.Path == "" {
		cfg.Session.Path = filepath.Join(dir, "session")
	}
	if cfg.Notes.Backend == "" {
		cfg.Notes.Backend = "file"
	}
	if cfg.Notes.Path == "" {
		cfg.Notes.Path = filepath.Join(dir, "notes.json")
	}
	if cfg.Notes.RedisAddr == "" {
		cfg.Notes.RedisAddr = "localhost:6379"
	}
	if cfg.Notes.RedisKey == "" {
		cfg.Notes.RedisKey = "actai:notes"
	}
	if cfg.Snapshot.Interval == 0 {
		cfg.Snapshot.Interval = 15 * time.Minute
	}
	if cfg.Snapshot.Timezone == "" {
		cfg.Snapshot.Timezone = "UTC"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultServerAddr
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api.base_url must be an http(s) URL, got %q", c.API.BaseURL)
	}
	if c.API.Timeout < 0 {
		return errors.New("api.timeout must not be negative")
	}
	if c.API.RateLimit < 0 || c.API.Burst < 0 {
		return errors.New("api.rate_limit and api.burst must not be negative")
	}
	if c.Snapshot.Interval < 0 {
		return errors.New("snapshot.interval must not be negative")
	}
	if _, err := time.LoadLocation(c.Snapshot.Timezone); err != nil {
		return fmt.Errorf("snapshot.timezone: %w", err)
	}
	switch c.Notes.Backend {
	case "file", "redis":
	default:
		return fmt.Errorf("notes.backend must be file or redis, got %q", c.Notes.Backend)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format must be json or console, got %q", c.Log.Format)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	return nil
}
