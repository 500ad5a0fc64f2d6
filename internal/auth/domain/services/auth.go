package services

import (
	"errors"
	"time"

	"authgate/internal/auth/domain/entities"
)

// Ошибки домена аутентификации.
var (
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrEmailAlreadyExists    = errors.New("user with this email already exists")
	ErrInvalidRefreshToken   = errors.New("invalid refresh token")
	ErrRevokedRefreshToken   = errors.New("refresh token has been revoked")
	ErrTokenGenerationFailed = errors.New("failed to generate authentication tokens")
	ErrAccountInactive       = errors.New("account is deactivated or deleted")
	ErrEmailNotVerified      = errors.New("email address is not verified")
	ErrStaleAccessToken      = errors.New("access token issued before password change")
	ErrVerificationToken     = errors.New("invalid or expired verification token")
	ErrResetToken            = errors.New("invalid or expired password reset token")
	ErrSelfModification      = errors.New("administrators cannot modify their own role or account status")
)

// TokenPair представляет пару токенов аутентификации.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// AuthResult - результат успешной регистрации или входа.
type AuthResult struct {
	User   *entities.User
	Tokens *TokenPair
}
