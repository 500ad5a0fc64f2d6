// Package ratelimit реализует ограничение частоты запросов поверх Redis.
// Используется счетчик с фиксированным окном: INCR по ключу клиента и
// EXPIRE при первом обращении в окне.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"authgate/internal/auth/config"
	"authgate/internal/auth/ports/services"
	"authgate/pkg/logger"
)

// Константы лимитера.
const (
	keyPrefix = "ratelimit:"

	msgLimitExceeded  = "rate limit exceeded"
	errMsgRedisFailed = "redis rate limit check failed"
)

// RedisLimiter реализует интерфейс services.RateLimiter.
type RedisLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

// NewRedisLimiter создает новый лимитер из конфигурации.
func NewRedisLimiter(cfg *config.RateLimitConfig) services.RateLimiter {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddress(),
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	return &RedisLimiter{
		client: client,
		limit:  int64(cfg.Limit),
		window: cfg.Window,
	}
}

// Allow сообщает, разрешен ли очередной запрос клиента с данным ключом.
// При недоступности Redis запрос пропускается: лимитер не должен
// превращаться в единую точку отказа аутентификации.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	log := logger.Log(ctx).With(zap.String("component", "ratelimit"), zap.String("key", key))

	redisKey := keyPrefix + key

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		log.Warn(ctx, errMsgRedisFailed, zap.Error(err))
		return true, fmt.Errorf("%s: %w", errMsgRedisFailed, err)
	}

	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			log.Warn(ctx, errMsgRedisFailed, zap.Error(err))
			return true, fmt.Errorf("%s: %w", errMsgRedisFailed, err)
		}
	}

	if count > l.limit {
		log.Debug(ctx, msgLimitExceeded, zap.Int64("count", count))
		return false, nil
	}

	return true, nil
}

// Close закрывает соединение с Redis.
func (l *RedisLimiter) Close() error {
	return l.client.Close()
}
