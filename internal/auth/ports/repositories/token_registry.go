package repositories

import (
	"context"
	"time"
)

// TokenRegistry определяет операции над встроенным реестром refresh-токенов
// пользователя. Refresh принимается только если токен криптографически
// валиден И присутствует в реестре, поэтому удаление инвалидирует даже
// неистекший токен.
type TokenRegistry interface {
	// Add добавляет токен в реестр пользователя.
	Add(ctx context.Context, userID, token string, issuedAt time.Time) error

	// Remove удаляет токен по точному совпадению строки.
	// Отсутствующий токен не является ошибкой.
	Remove(ctx context.Context, token string) error

	// RemoveAll очищает реестр пользователя.
	RemoveAll(ctx context.Context, userID string) error

	// Rotate атомарно заменяет oldToken на newToken. Возвращает
	// services.ErrRevokedRefreshToken, если oldToken отсутствует в
	// реестре (уже ротирован или отозван).
	Rotate(ctx context.Context, userID, oldToken, newToken string, issuedAt time.Time) error

	// Prune удаляет записи, выданные раньше указанного момента.
	Prune(ctx context.Context, userID string, olderThan time.Time) error
}
