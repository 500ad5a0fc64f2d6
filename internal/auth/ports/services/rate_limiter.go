package services

import "context"

// RateLimiter определяет интерфейс ограничителя частоты запросов.
type RateLimiter interface {
	// Allow сообщает, укладывается ли ключ в лимит текущего окна.
	Allow(ctx context.Context, key string) (bool, error)

	Close() error
}
