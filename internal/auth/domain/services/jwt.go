package services

import (
	"errors"
	"time"

	"authgate/internal/auth/domain/entities"
)

// JWTErrors содержит ошибки, связанные с JWT токенами.
var (
	ErrInvalidJWTToken    = errors.New("invalid JWT token")
	ErrExpiredJWTToken    = errors.New("JWT token has expired")
	ErrWrongTokenType     = errors.New("unexpected JWT token type")
	ErrGeneratingJWTToken = errors.New("failed to generate JWT token")
)

// TokenType различает access и refresh токены.
type TokenType string

// Поддерживаемые типы токенов.
const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// JWTConfig содержит настройки для JWT сервиса.
type JWTConfig struct {
	SecretKey       []byte
	Issuer          string
	Audience        string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// AccessClaims - доменное представление claims access-токена.
type AccessClaims struct {
	UserID    string
	Email     string
	Role      entities.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// RefreshClaims - доменное представление claims refresh-токена.
// TokenID - случайный 128-битный идентификатор, уникальный для каждого
// выданного токена, так что токены одного момента различимы и отзываемы
// независимо.
type RefreshClaims struct {
	UserID    string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
