package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const minSecretLength = 32

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"JWT_TTL,     default=168h"`
	HashCost  int           `env:"BCRYPT_COST, default=10"`

	ActivityWorkers int `env:"ACTIVITY_WORKERS, default=4"`

	Mongo     MongoConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=task_management"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// RateLimitConfig holds the per-class admission-control thresholds.
type RateLimitConfig struct {
	GeneralMax    int           `env:"RATE_LIMIT_MAX_REQUESTS,  default=100"`
	GeneralWindow time.Duration `env:"RATE_LIMIT_WINDOW,        default=15m"`
	AuthMax       int           `env:"AUTH_RATE_LIMIT_MAX,      default=5"`
	AuthWindow    time.Duration `env:"AUTH_RATE_LIMIT_WINDOW,   default=15m"`
	CreateMax     int           `env:"TASK_CREATE_RATE_LIMIT_MAX, default=10"`
	CreateWindow  time.Duration `env:"TASK_CREATE_RATE_LIMIT_WINDOW, default=1m"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate fails fast on unusable configuration. A missing signing secret
// is always fatal; a short one is fatal in production and a warning
// elsewhere (see WeakSecret).
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.IsProduction() && len(c.JWTSecret) < minSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters in production mode", minSecretLength)
	}
	if c.TokenTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	return nil
}

// WeakSecret reports a secret that passes Validate but should still be
// called out at startup.
func (c *Config) WeakSecret() bool {
	return len(c.JWTSecret) < minSecretLength
}
