package config

import (
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Config is the central typed configuration struct, populated from the
// environment (with .env support for local development).
type Config struct {
	App     AppConfig
	Cache   CacheConfig
	Session SessionConfig
	Log     LogConfig
}

type AppConfig struct {
	Name        string `env:"APP_NAME,default=stockroom"`
	Env         string `env:"APP_ENV,default=local"` // local | production | testing
	Port        string `env:"APP_PORT,default=8000"`
	StaticDir   string `env:"STATIC_DIR,default=./public"`
	MaxRestarts int    `env:"MAX_RESTARTS,default=5"`
}

type CacheConfig struct {
	TTL      time.Duration `env:"CACHE_TTL,default=1m"`
	Disabled bool          `env:"CACHE_DISABLED,default=false"`
}

type SessionConfig struct {
	Backend   string        `env:"SESSION_BACKEND,default=memory"` // memory | redis
	RedisAddr string        `env:"REDIS_ADDR,default=127.0.0.1:6379"`
	TTL       time.Duration `env:"SESSION_TTL,default=24h"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL,default=info"`
	Format string `env:"LOG_FORMAT,default=console"` // console | json
}

// Load reads .env (if present) and decodes the environment into a Config.
// Call once at bootstrap.
func Load(envFiles ...string) (*Config, error) {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	_ = godotenv.Load(files...)

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
