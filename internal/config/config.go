package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration.
type Config struct {
	APIBaseURL     string        `mapstructure:"api_base_url" json:"api_base_url"`
	DatabaseDriver string        `mapstructure:"database_driver" json:"database_driver"`
	DatabaseURL    string        `mapstructure:"database_url" json:"DATABASE_URL"`
	RedisAddr      string        `mapstructure:"redis_addr" json:"redis_addr"`
	CacheTTL       time.Duration `mapstructure:"cache_ttl" json:"cache_ttl"`
	ListenAddr     string        `mapstructure:"listen_addr" json:"listen_addr"`
	AllowedOrigins []string      `mapstructure:"allowed_origins" json:"allowed_origins"`
	ResultsPerPage int           `mapstructure:"results_per_page" json:"results_per_page"`
	APIRateLimit   float64       `mapstructure:"api_rate_limit" json:"api_rate_limit"`
	APIBurst       int           `mapstructure:"api_burst" json:"api_burst"`
	ImagesDir      string        `mapstructure:"images_dir" json:"images_dir"`
	LogLevel       string        `mapstructure:"log_level" json:"log_level"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" json:"request_timeout"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api_base_url", "https://forkify-api.herokuapp.com/api")
	v.SetDefault("database_driver", "sqlite")
	v.SetDefault("database_url", "forkify.db")
	v.SetDefault("redis_addr", "")
	v.SetDefault("cache_ttl", "10m")
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("allowed_origins", []string{"http://localhost:8080"})
	v.SetDefault("results_per_page", 10)
	v.SetDefault("api_rate_limit", 5.0)
	v.SetDefault("api_burst", 5)
	v.SetDefault("images_dir", "images")
	v.SetDefault("log_level", "info")
	v.SetDefault("request_timeout", "15s")
}

// Load reads config.json from dir. A missing file yields the defaults, and
// FORKIFY_* environment variables override both.
func Load(dir string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(dir)

	v.SetEnvPrefix("forkify")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config.json: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config.json: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("invalid database_driver %q: must be postgres or sqlite", c.DatabaseDriver)
	}
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.ResultsPerPage <= 0 {
		return fmt.Errorf("invalid results_per_page %d", c.ResultsPerPage)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("invalid request_timeout %s", c.RequestTimeout)
	}
	return nil
}
