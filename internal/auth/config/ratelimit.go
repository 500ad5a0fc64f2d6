package config

import (
	"fmt"
	"time"
)

// RateLimitConfig содержит настройки ограничения частоты запросов.
type RateLimitConfig struct {
	Enabled   bool          `yaml:"enabled" env:"AUTH_RATE_LIMIT_ENABLED" env-default:"true"`
	RedisHost string        `yaml:"redis_host" env:"AUTH_RATE_LIMIT_REDIS_HOST" env-default:"localhost"`
	RedisPort int           `yaml:"redis_port" env:"AUTH_RATE_LIMIT_REDIS_PORT" env-default:"6379"`
	RedisPass string        `yaml:"redis_password" env:"AUTH_RATE_LIMIT_REDIS_PASSWORD" env-default:""`
	RedisDB   int           `yaml:"redis_db" env:"AUTH_RATE_LIMIT_REDIS_DB" env-default:"0"`
	Limit     int           `yaml:"limit" env:"AUTH_RATE_LIMIT_LIMIT" env-default:"10"`
	Window    time.Duration `yaml:"window" env:"AUTH_RATE_LIMIT_WINDOW" env-default:"1m"`
}

// GetRedisAddress возвращает адрес Redis.
func (c *RateLimitConfig) GetRedisAddress() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}
