package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
)

const (
	DefaultPath = "configs/config.toml"

	BackendPostgres = "postgres"
	BackendMemory   = "memory"

	DefaultFetcherURL    = "http://192.168.10.118:5000/api/data"
	DefaultFetcherOutput = "data.json"
)

type Config struct {
	Server struct {
		Host                 string
		StrReadTimeout       string `toml:"read_timeout"`
		StrWriteTimeout      string `toml:"write_timeout"`
		StrReadHeaderTimeout string `toml:"read_header_timeout"`
		ReadTimeout          time.Duration
		WriteTimeout         time.Duration
		ReadHeaderTimeout    time.Duration
	}
	Database struct {
		Host     string
		User     string
		Password string
		Database string
		MaxConns int32 `toml:"max_conns"`
	}
	Redis struct {
		Enabled       bool
		RedisAddr     string `toml:"redis_addr"`
		RedisPassword string `toml:"redis_password"`
		RedisDB       int    `toml:"redis_db"`
		Prefix        string
		StrCacheTTL   string `toml:"cache_ttl"`
		CacheTTL      time.Duration
	}
	Storage struct {
		Backend string
	}
	Fetcher struct {
		URL        string `toml:"url"`
		Output     string
		StrTimeout string `toml:"timeout"`
		Timeout    time.Duration
	}
	Log struct {
		File  string
		Level string
	}
}

// GetConfig reads the TOML file at path. A missing file yields the defaults, so
// the fetcher can run without any configuration.
func GetConfig(path string, logger *slog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("Error loading .env file", slog.String("error", err.Error()))
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logger.Warn("Config file not found, using defaults", slog.String("path", path))
	case err != nil:
		logger.Error("Error read config file", slog.String("error", err.Error()))
		return nil, err
	default:
		if _, tomlErr := toml.Decode(string(data), cfg); tomlErr != nil {
			logger.Error("Error decode config file", slog.String("error", tomlErr.Error()))
			return nil, tomlErr
		}
	}

	if pass := os.Getenv("DATABASE_PASSWORD"); pass != "" {
		cfg.Database.Password = pass
	}
	if pass := os.Getenv("REDIS_PASSWORD"); pass != "" {
		cfg.Redis.RedisPassword = pass
	}

	if err := cfg.parse(); err != nil {
		return nil, err
	}

	logger.Info("Config is loaded", slog.String("backend", cfg.Storage.Backend))
	return cfg, nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Host = ":8080"
	cfg.Server.StrReadTimeout = "10s"
	cfg.Server.StrWriteTimeout = "10s"
	cfg.Server.StrReadHeaderTimeout = "5s"
	cfg.Database.MaxConns = 4
	cfg.Redis.Prefix = "org_registry"
	cfg.Redis.StrCacheTTL = "5m"
	cfg.Storage.Backend = BackendPostgres
	cfg.Fetcher.URL = DefaultFetcherURL
	cfg.Fetcher.Output = DefaultFetcherOutput
	cfg.Fetcher.StrTimeout = "30s"
	cfg.Log.Level = "info"
	return cfg
}

func (c *Config) parse() error {
	var result *multierror.Error

	durations := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"server.read_timeout", c.Server.StrReadTimeout, &c.Server.ReadTimeout},
		{"server.write_timeout", c.Server.StrWriteTimeout, &c.Server.WriteTimeout},
		{"server.read_header_timeout", c.Server.StrReadHeaderTimeout, &c.Server.ReadHeaderTimeout},
		{"redis.cache_ttl", c.Redis.StrCacheTTL, &c.Redis.CacheTTL},
		{"fetcher.timeout", c.Fetcher.StrTimeout, &c.Fetcher.Timeout},
	}
	for _, d := range durations {
		v, err := time.ParseDuration(d.raw)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("invalid %s: %w", d.name, err))
			continue
		}
		*d.dst = v
	}

	if c.Fetcher.URL == "" || c.Fetcher.Output == "" {
		result = multierror.Append(result, errors.New("fetcher.url and fetcher.output must not be empty"))
	}

	return result.ErrorOrNil()
}

// ValidateStorage checks the sections the registry server depends on.
func (c *Config) ValidateStorage() error {
	var result *multierror.Error

	switch c.Storage.Backend {
	case BackendPostgres:
		if c.Database.Host == "" || c.Database.Database == "" {
			result = multierror.Append(result, errors.New("database.host and database.database are required for postgres backend"))
		}
	case BackendMemory:
	default:
		result = multierror.Append(result, fmt.Errorf("unknown storage.backend %q", c.Storage.Backend))
	}

	if c.Redis.Enabled && c.Redis.RedisAddr == "" {
		result = multierror.Append(result, errors.New("redis.redis_addr is required when redis is enabled"))
	}

	return result.ErrorOrNil()
}

// LogLevel maps the configured level name onto slog.
func (c *Config) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}
