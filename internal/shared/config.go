// Package shared holds process-wide configuration.
package shared

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ConfigFileEnv names an optional YAML file layered under the environment.
const ConfigFileEnv = "PLAYSTORE_CONFIG"

const envPrefix = "PLAYSTORE_"

type Config struct {
	AppEnv           string        `koanf:"app_env"`
	HTTPAddr         string        `koanf:"http_addr"`
	MetricsAddr      string        `koanf:"metrics_addr"` // empty disables the metrics listener
	DBDriver         string        `koanf:"db_driver"`    // sqlite | mysql
	DBDSN            string        `koanf:"db_dsn"`
	RedisAddr        string        `koanf:"redis_addr"` // empty disables caching
	RedisPass        string        `koanf:"redis_password"`
	RedisDB          int           `koanf:"redis_db"`
	CacheTTL         time.Duration `koanf:"cache_ttl"`
	IngestRowsPerSec int           `koanf:"ingest_rows_per_sec"` // 0 = unlimited
	RequestTimeout   time.Duration `koanf:"request_timeout"`
}

func Defaults() Config {
	return Config{
		AppEnv:         "prod",
		HTTPAddr:       ":8080",
		DBDriver:       "sqlite",
		DBDSN:          "playstore.db",
		CacheTTL:       15 * time.Minute,
		RequestTimeout: 15 * time.Second,
	}
}

// Load layers, lowest to highest precedence: Defaults, the YAML file named by
// PLAYSTORE_CONFIG, then PLAYSTORE_* environment variables
// (PLAYSTORE_DB_DSN -> db_dsn).
func Load() (Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(ConfigFileEnv); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return Config{}, err
	}

	cfg := Defaults()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, err
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.HTTPAddr == "" {
		return fmt.Errorf("http_addr must not be empty")
	}
	switch c.DBDriver {
	case "sqlite", "mysql":
	default:
		return fmt.Errorf("unknown db_driver %q", c.DBDriver)
	}
	if c.CacheTTL < 0 || c.RequestTimeout < 0 {
		return fmt.Errorf("durations must not be negative")
	}
	return nil
}

// CacheEnabled reports whether a Redis address is configured.
func (c Config) CacheEnabled() bool { return c.RedisAddr != "" }
