// Package config loads process configuration from an optional YAML file,
// a .env file and environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultFile is read when CONFIG_FILE is unset.
const DefaultFile = "config.yaml"

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Yahoo   YahooConfig   `mapstructure:"yahoo"`
	Fixture FixtureConfig `mapstructure:"fixture"`
	Redis   RedisConfig   `mapstructure:"redis"`
	DB      DBConfig      `mapstructure:"db"`
	Ingest  IngestConfig  `mapstructure:"ingest"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Log     LogConfig     `mapstructure:"log"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type YahooConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// FixtureConfig switches the chart transport to saved responses when Dir is set.
type FixtureConfig struct {
	Dir  string `mapstructure:"dir"`
	File string `mapstructure:"file"`
}

type RedisConfig struct {
	Addr      string        `mapstructure:"addr"`
	Password  string        `mapstructure:"password"`
	DB        int           `mapstructure:"db"`
	TTL       time.Duration `mapstructure:"ttl"`
	Namespace string        `mapstructure:"namespace"`
}

type DBConfig struct {
	Driver         string        `mapstructure:"driver"`
	DSN            string        `mapstructure:"dsn"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	AutoMigrate    bool          `mapstructure:"auto_migrate"`
}

type IngestConfig struct {
	Symbols    []string      `mapstructure:"symbols"`
	Interval   string        `mapstructure:"interval"`
	Lookback   time.Duration `mapstructure:"lookback"`
	Schedule   string        `mapstructure:"schedule"`
	RateLimit  int           `mapstructure:"rate_limit"`
	RateWindow time.Duration `mapstructure:"rate_window"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// envBindings maps config keys to their environment variables.
var envBindings = map[string]string{
	"server.port":             "SERVER_PORT",
	"server.shutdown_timeout": "SERVER_SHUTDOWN_TIMEOUT",
	"yahoo.base_url":          "YAHOO_BASE_URL",
	"yahoo.user_agent":        "YAHOO_USER_AGENT",
	"yahoo.timeout":           "YAHOO_TIMEOUT",
	"fixture.dir":             "FIXTURE_DIR",
	"fixture.file":            "FIXTURE_FILE",
	"redis.addr":              "REDIS_ADDR",
	"redis.password":          "REDIS_PASSWORD",
	"redis.db":                "REDIS_DB",
	"redis.ttl":               "REDIS_TTL",
	"redis.namespace":         "REDIS_NAMESPACE",
	"db.driver":               "DB_DRIVER",
	"db.dsn":                  "DB_DSN",
	"db.connect_timeout":      "DB_CONNECT_TIMEOUT",
	"db.auto_migrate":         "RUN_MIGRATIONS",
	"ingest.symbols":          "INGEST_SYMBOLS",
	"ingest.interval":         "INGEST_INTERVAL",
	"ingest.lookback":         "INGEST_LOOKBACK",
	"ingest.schedule":         "INGEST_SCHEDULE",
	"ingest.rate_limit":       "INGEST_RATE_LIMIT",
	"ingest.rate_window":      "INGEST_RATE_WINDOW",
	"auth.jwt_secret":         "JWT_SECRET",
	"log.level":               "LOG_LEVEL",
	"log.format":              "LOG_FORMAT",
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Server: ServerConfig{Port: "8080", ShutdownTimeout: 10 * time.Second},
		Yahoo: YahooConfig{
			BaseURL:   "https://query1.finance.yahoo.com",
			UserAgent: "Mozilla/5.0",
			Timeout:   10 * time.Second,
		},
		Redis:  RedisConfig{TTL: 5 * time.Minute, Namespace: "chart"},
		DB:     DBConfig{Driver: "sqlite", DSN: "history.db", ConnectTimeout: 60 * time.Second, AutoMigrate: true},
		Ingest: IngestConfig{Interval: "1d", Lookback: 30 * 24 * time.Hour, RateLimit: 5, RateWindow: time.Second},
		Log:    LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads path (or CONFIG_FILE, or DefaultFile when both are empty).
// A missing file is not an error; environment variables still apply.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path == "" {
		path = DefaultFile
	}

	v := viper.New()
	setDefaults(v, Default())
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file failed (%s): %w", path, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("stat config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config failed: %w", err)
	}
	cfg.Ingest.Symbols = cleanSymbols(cfg.Ingest.Symbols)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("yahoo.base_url", d.Yahoo.BaseURL)
	v.SetDefault("yahoo.user_agent", d.Yahoo.UserAgent)
	v.SetDefault("yahoo.timeout", d.Yahoo.Timeout)
	v.SetDefault("redis.ttl", d.Redis.TTL)
	v.SetDefault("redis.namespace", d.Redis.Namespace)
	v.SetDefault("db.driver", d.DB.Driver)
	v.SetDefault("db.dsn", d.DB.DSN)
	v.SetDefault("db.connect_timeout", d.DB.ConnectTimeout)
	v.SetDefault("db.auto_migrate", d.DB.AutoMigrate)
	v.SetDefault("ingest.interval", d.Ingest.Interval)
	v.SetDefault("ingest.lookback", d.Ingest.Lookback)
	v.SetDefault("ingest.rate_limit", d.Ingest.RateLimit)
	v.SetDefault("ingest.rate_window", d.Ingest.RateWindow)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// cleanSymbols trims entries and drops empty ones. It also splits entries
// holding comma separated lists, as INGEST_SYMBOLS does.
func cleanSymbols(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Port) == "" {
		return errors.New("config: server.port is required")
	}
	if c.Fixture.Dir == "" && strings.TrimSpace(c.Yahoo.BaseURL) == "" {
		return errors.New("config: yahoo.base_url is required unless fixture.dir is set")
	}
	if c.Yahoo.Timeout <= 0 {
		return fmt.Errorf("config: yahoo.timeout must be positive, got %s", c.Yahoo.Timeout)
	}
	switch strings.ToLower(c.DB.Driver) {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("config: db.driver must be postgres or sqlite, got %q", c.DB.Driver)
	}
	if c.DB.DSN == "" {
		return errors.New("config: db.dsn is required")
	}
	if c.Ingest.RateLimit < 0 {
		return fmt.Errorf("config: ingest.rate_limit must not be negative, got %d", c.Ingest.RateLimit)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("config: unknown log.level %q", c.Log.Level)
	}
	return nil
}
