package env

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the service configuration, read from the process environment.
type Config struct {
	Port      int    `env:"PORT" envDefault:"4002"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	BridgeToken     string `env:"BRIDGE_BEARER_TOKEN"`
	BridgeDatasetID string `env:"BRIDGE_DATASET_ID" envDefault:"test"`
	BridgeBaseURL   string `env:"BRIDGE_BASE_URL"`
	RMLSToken       string `env:"RMLS_BEARER_TOKEN"`
	RMLSBaseURL     string `env:"RMLS_BASE_URL"`

	UpstreamTimeout  time.Duration `env:"MLS_UPSTREAM_TIMEOUT" envDefault:"10s"`
	RetryMax         int           `env:"MLS_RETRY_MAX" envDefault:"0"`
	UpstreamRPS      float64       `env:"MLS_UPSTREAM_RPS" envDefault:"5"`
	MediaConcurrency int           `env:"RMLS_MEDIA_CONCURRENCY" envDefault:"10"`
	RateLimitPerMin  int           `env:"RATE_LIMIT_PER_MINUTE" envDefault:"100"`
	DailyQuota       int           `env:"MLS_DAILY_QUOTA" envDefault:"0"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	PostgresDSN  string `env:"PG_DSN"`
	AuditBuffer  int    `env:"AUDIT_BUFFER" envDefault:"256"`
	AuditWorkers int    `env:"AUDIT_WORKERS" envDefault:"2"`
}

// Load reads optional dotenv files (".env" when none are given) and parses Config.
// Missing dotenv files are ignored; variables already set in the environment win.
func Load(paths ...string) (Config, error) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", p, err)
		}
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("invalid PORT %d", cfg.Port)
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string { return ":" + strconv.Itoa(c.Port) }

// Get returns the variable k, or def when it is unset or empty.
func Get(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
