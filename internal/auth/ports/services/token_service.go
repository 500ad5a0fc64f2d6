package services

import (
	"context"
	"time"

	"authgate/internal/auth/domain/entities"
	domain "authgate/internal/auth/domain/services"
)

// TokenService определяет интерфейс для операций с токенами JWT.
type TokenService interface {
	GenerateAccessToken(ctx context.Context, user *entities.User) (string, time.Time, error)

	GenerateRefreshToken(ctx context.Context, userID string) (string, time.Time, error)

	ValidateAccessToken(ctx context.Context, token string) (*domain.AccessClaims, error)

	ValidateRefreshToken(ctx context.Context, token string) (*domain.RefreshClaims, error)
}
