package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is the process configuration, read from the environment. A .env
// file in the working directory is loaded first when present.
type Config struct {
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":8080"`
	DatabaseURL string `envconfig:"DB_URL" required:"true"`
	RedisURL    string `envconfig:"REDIS_URL" required:"true"`

	ThrottlePerSecond int `envconfig:"THROTTLE_PER_SECOND" default:"1"`
	ThrottlePerMinute int `envconfig:"THROTTLE_PER_MINUTE" default:"30"`

	SessionTTL       time.Duration `envconfig:"SESSION_TTL" default:"720h"`
	QueueConcurrency int           `envconfig:"QUEUE_CONCURRENCY" default:"4"`
	LogLevel         string        `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads configuration from the environment.
func Load() (Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return c, nil
}
