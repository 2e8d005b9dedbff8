package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

var knownWeakSecrets = []string{
	"change-me", "dev-secret-change-me", "secret", "admin", "password",
}

type Config struct {
	Port              int    `env:"PORT" envDefault:"8080"`
	DatabaseURL       string `env:"DATABASE_URL,required"`
	UpstreamURL       string `env:"UPSTREAM_URL,required"`
	AdminToken        string `env:"ADMIN_TOKEN,required"`
	CacheTTLSeconds   int    `env:"CACHE_TTL_SECONDS" envDefault:"30"`
	CacheSize         int    `env:"CACHE_SIZE" envDefault:"10000"`
	FlushIntervalSecs int    `env:"FLUSH_INTERVAL_SECONDS" envDefault:"10"`
	FlushThreshold    int    `env:"FLUSH_THRESHOLD" envDefault:"1000"`
	UsageQueueSize    int    `env:"USAGE_QUEUE_SIZE" envDefault:"4096"`
	LogLevel          string `env:"LOG_LEVEL" envDefault:"info"`
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

func (c *Config) FlushInterval() time.Duration {
	return time.Duration(c.FlushIntervalSecs) * time.Second
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) Validate(isProduction bool) error {
	if c.CacheTTLSeconds <= 0 {
		return fmt.Errorf("CACHE_TTL_SECONDS must be positive")
	}
	if c.FlushIntervalSecs <= 0 {
		return fmt.Errorf("FLUSH_INTERVAL_SECONDS must be positive")
	}
	if c.FlushThreshold <= 0 {
		return fmt.Errorf("FLUSH_THRESHOLD must be positive")
	}

	if isProduction {
		if len(c.AdminToken) < 32 {
			return fmt.Errorf("ADMIN_TOKEN must be at least 32 characters in production (generate with: openssl rand -base64 32)")
		}
		for _, weak := range knownWeakSecrets {
			if c.AdminToken == weak {
				return fmt.Errorf("ADMIN_TOKEN is a known weak default; set a strong secret in production")
			}
		}
	}

	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
