// Package app реализует use cases поверх портов домена аутентификации.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"authgate/internal/auth/config"
	"authgate/internal/auth/domain/entities"
	"authgate/internal/auth/domain/services"
	"authgate/internal/auth/ports/api"
	"authgate/internal/auth/ports/repositories"
	svc "authgate/internal/auth/ports/services"
	"authgate/pkg/logger"
)

// Константы журналирования use case аутентификации.
const (
	msgRegisteringUser    = "registering new user"
	msgUserRegistered     = "user registered successfully"
	msgLoggingIn          = "logging in user"
	msgLoginSucceeded     = "login succeeded"
	msgRefreshingTokens   = "refreshing token pair"
	msgTokensRefreshed    = "token pair refreshed"
	msgLoggingOut         = "logging out"
	msgLoggingOutAll      = "logging out all sessions"
	errCtxRegister        = "registering user"
	errCtxLogin           = "logging in"
	errCtxRefresh         = "refreshing tokens"
	errCtxIssueTokens     = "issuing token pair"
	errMsgSendMailFailed  = "failed to send verification email"
	errMsgSetTokenFailed  = "failed to store verification token"
	errMsgLastLoginFailed = "failed to update last login"
	errMsgPruneFailed     = "failed to prune refresh registry"
)

// UseCaseAuth реализует порт api.AuthUseCase.
type UseCaseAuth struct {
	users           repositories.UserRepository
	registry        repositories.TokenRegistry
	tokens          svc.TokenService
	passwords       svc.PasswordService
	mail            svc.MailService
	appCfg          *config.AppConfig
	refreshTokenTTL time.Duration
}

// NewAuthUseCase создает новый use case аутентификации.
func NewAuthUseCase(
	users repositories.UserRepository,
	registry repositories.TokenRegistry,
	tokens svc.TokenService,
	passwords svc.PasswordService,
	mail svc.MailService,
	appCfg *config.AppConfig,
	refreshTokenTTL time.Duration,
) api.AuthUseCase {
	return &UseCaseAuth{
		users:           users,
		registry:        registry,
		tokens:          tokens,
		passwords:       passwords,
		mail:            mail,
		appCfg:          appCfg,
		refreshTokenTTL: refreshTokenTTL,
	}
}

// issueTokens генерирует пару токенов и регистрирует refresh в реестре.
func (uc *UseCaseAuth) issueTokens(ctx context.Context, user *entities.User) (*services.TokenPair, error) {
	accessToken, accessExpiresAt, err := uc.tokens.GenerateAccessToken(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", errCtxIssueTokens, services.ErrTokenGenerationFailed, err)
	}

	refreshToken, refreshExpiresAt, err := uc.tokens.GenerateRefreshToken(ctx, user.ID.Hex())
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", errCtxIssueTokens, services.ErrTokenGenerationFailed, err)
	}

	if err := uc.registry.Add(ctx, user.ID.Hex(), refreshToken, time.Now()); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", errCtxIssueTokens, services.ErrTokenGenerationFailed, err)
	}

	return &services.TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		AccessExpiresAt:  accessExpiresAt,
		RefreshExpiresAt: refreshExpiresAt,
	}, nil
}

// Register создает учетную запись, отправляет письмо подтверждения
// и сразу выдает пару токенов.
func (uc *UseCaseAuth) Register(ctx context.Context, name, email, password string, role entities.Role) (*services.AuthResult, error) {
	log := logger.Log(ctx).With(zap.String("usecase", "auth"), zap.String("email", email))
	log.Debug(ctx, msgRegisteringUser)

	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%s: %w", errCtxRegister, entities.ErrEmptyName)
	}
	if err := validateEmail(email); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxRegister, err)
	}
	if err := validatePassword(password); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxRegister, err)
	}

	if role == "" {
		role = entities.RoleUser
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%s: %w", errCtxRegister, entities.ErrInvalidRole)
	}

	passwordHash, err := uc.passwords.Hash(ctx, password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxRegister, err)
	}

	user, err := uc.users.Create(ctx, &entities.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		IsActive:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxRegister, err)
	}

	uc.sendVerification(ctx, user, log)

	tokens, err := uc.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	log.Info(ctx, msgUserRegistered, zap.String("userID", user.ID.Hex()))
	return &services.AuthResult{User: user, Tokens: tokens}, nil
}

// sendVerification сохраняет токен подтверждения и отправляет письмо
// в отдельной горутине. Сбои не прерывают регистрацию.
func (uc *UseCaseAuth) sendVerification(ctx context.Context, user *entities.User, log *logger.Logger) {
	raw, hash, err := newOpaqueToken()
	if err != nil {
		log.Error(ctx, errMsgSetTokenFailed, zap.Error(err))
		return
	}

	expires := time.Now().Add(uc.appCfg.GetVerificationTokenTTL())
	if err := uc.users.SetVerificationToken(ctx, user.ID.Hex(), hash, expires); err != nil {
		log.Error(ctx, errMsgSetTokenFailed, zap.Error(err))
		return
	}

	mailCtx := context.WithoutCancel(ctx)
	go func() {
		if err := uc.mail.SendVerificationEmail(mailCtx, user.Email, raw); err != nil {
			log.Warn(mailCtx, errMsgSendMailFailed, zap.Error(err))
		}
	}()
}

// Login аутентифицирует пользователя по email и паролю.
// Неизвестный email, неверный пароль и неактивная учетная запись
// дают одну и ту же ошибку: ответ не раскрывает существование адреса.
func (uc *UseCaseAuth) Login(ctx context.Context, email, password string) (*services.AuthResult, error) {
	log := logger.Log(ctx).With(zap.String("usecase", "auth"), zap.String("email", email))
	log.Debug(ctx, msgLoggingIn)

	user, err := uc.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return nil, fmt.Errorf("%s: %w", errCtxLogin, services.ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("%s: %w", errCtxLogin, err)
	}

	if !user.CanAuthenticate() {
		return nil, fmt.Errorf("%s: %w", errCtxLogin, services.ErrInvalidCredentials)
	}

	match, err := uc.passwords.Verify(ctx, password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxLogin, err)
	}
	if !match {
		return nil, fmt.Errorf("%s: %w", errCtxLogin, services.ErrInvalidCredentials)
	}

	if uc.appCfg.RequireVerifiedEmail && !user.EmailVerified {
		return nil, fmt.Errorf("%s: %w", errCtxLogin, services.ErrEmailNotVerified)
	}

	if err := uc.registry.Prune(ctx, user.ID.Hex(), time.Now().Add(-uc.refreshTokenTTL)); err != nil {
		log.Warn(ctx, errMsgPruneFailed, zap.Error(err))
	}

	tokens, err := uc.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := uc.users.SetLastLogin(ctx, user.ID.Hex(), now); err != nil {
		log.Warn(ctx, errMsgLastLoginFailed, zap.Error(err))
	}
	user.LastLogin = &now

	log.Info(ctx, msgLoginSucceeded, zap.String("userID", user.ID.Hex()))
	return &services.AuthResult{User: user, Tokens: tokens}, nil
}

// RefreshTokens проверяет refresh-токен, атомарно ротирует его в реестре
// и возвращает новую пару. Повторное предъявление уже ротированного
// токена отклоняется.
func (uc *UseCaseAuth) RefreshTokens(ctx context.Context, refreshToken string) (*services.TokenPair, error) {
	log := logger.Log(ctx).With(zap.String("usecase", "auth"))
	log.Debug(ctx, msgRefreshingTokens)

	claims, err := uc.tokens.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", errCtxRefresh, services.ErrInvalidRefreshToken, err)
	}

	user, err := uc.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return nil, fmt.Errorf("%s: %w", errCtxRefresh, services.ErrInvalidRefreshToken)
		}
		return nil, fmt.Errorf("%s: %w", errCtxRefresh, err)
	}

	if !user.CanAuthenticate() {
		return nil, fmt.Errorf("%s: %w", errCtxRefresh, services.ErrAccountInactive)
	}

	accessToken, accessExpiresAt, err := uc.tokens.GenerateAccessToken(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", errCtxRefresh, services.ErrTokenGenerationFailed, err)
	}

	newRefreshToken, refreshExpiresAt, err := uc.tokens.GenerateRefreshToken(ctx, user.ID.Hex())
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", errCtxRefresh, services.ErrTokenGenerationFailed, err)
	}

	if err := uc.registry.Rotate(ctx, user.ID.Hex(), refreshToken, newRefreshToken, time.Now()); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxRefresh, err)
	}

	log.Info(ctx, msgTokensRefreshed, zap.String("userID", user.ID.Hex()))
	return &services.TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     newRefreshToken,
		AccessExpiresAt:  accessExpiresAt,
		RefreshExpiresAt: refreshExpiresAt,
	}, nil
}

// Logout удаляет предъявленный refresh-токен из реестра. Операция
// идемпотентна: повторный выход с тем же токеном не является ошибкой.
func (uc *UseCaseAuth) Logout(ctx context.Context, refreshToken string) error {
	log := logger.Log(ctx).With(zap.String("usecase", "auth"))
	log.Debug(ctx, msgLoggingOut)

	if err := uc.registry.Remove(ctx, refreshToken); err != nil {
		return fmt.Errorf("logging out: %w", err)
	}
	return nil
}

// LogoutAll очищает весь реестр refresh-токенов пользователя.
func (uc *UseCaseAuth) LogoutAll(ctx context.Context, userID string) error {
	log := logger.Log(ctx).With(zap.String("usecase", "auth"), zap.String("userID", userID))
	log.Debug(ctx, msgLoggingOutAll)

	if err := uc.registry.RemoveAll(ctx, userID); err != nil {
		return fmt.Errorf("logging out all sessions: %w", err)
	}
	return nil
}
